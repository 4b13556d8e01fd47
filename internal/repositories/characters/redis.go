package characters

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/KirkDiggler/dnd-character-sheet/internal/domain/character"
	dnderr "github.com/KirkDiggler/dnd-character-sheet/internal/errors"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

const indexKey = "characters"

// RedisRepoConfig holds configuration for the Redis repository
type RedisRepoConfig struct {
	Client redis.UniversalClient
}

// redisRepo implements the Repository interface using Redis
type redisRepo struct {
	client redis.UniversalClient
}

// NewRedis creates a new Redis-backed character repository
func NewRedis(client redis.UniversalClient) Repository {
	return NewRedisRepository(&RedisRepoConfig{Client: client})
}

// NewRedisRepository creates a new Redis-backed character repository
func NewRedisRepository(cfg *RedisRepoConfig) Repository {
	if cfg == nil {
		panic("RedisRepoConfig cannot be nil")
	}
	if cfg.Client == nil {
		panic("Redis client cannot be nil")
	}

	return &redisRepo{client: cfg.Client}
}

// key generates the Redis key for a character
func (r *redisRepo) key(id string) string {
	return fmt.Sprintf("character:%s", id)
}

// encode stores the document form; map keys marshal sorted so the bytes are stable
func encode(char *character.Character) (string, error) {
	doc, err := character.Serialize(char)
	if err != nil {
		return "", err
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to marshal character: %w", err)
	}
	return string(data), nil
}

func decode(data string) (*character.Character, error) {
	doc, err := character.UnmarshalDocument([]byte(data))
	if err != nil {
		return nil, err
	}
	return character.Deserialize(doc)
}

// Create stores a new character and indexes it
func (r *redisRepo) Create(ctx context.Context, char *character.Character) error {
	if err := validateCharacter(char); err != nil {
		return err
	}

	exists, err := r.client.Exists(ctx, r.key(char.ID)).Result()
	if err != nil {
		return fmt.Errorf("failed to check character existence: %w", err)
	}
	if exists > 0 {
		return alreadyExists(char.ID)
	}

	data, err := encode(char)
	if err != nil {
		return err
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, r.key(char.ID), data, 0)
	pipe.SAdd(ctx, indexKey, char.ID)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to create character: %w", err)
	}

	return nil
}

// Get retrieves a character by ID
func (r *redisRepo) Get(ctx context.Context, id string) (*character.Character, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	data, err := r.client.Get(ctx, r.key(id)).Result()
	if err == redis.Nil {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get character: %w", err)
	}

	char, err := decode(data)
	if err != nil {
		return nil, dnderr.Wrapf(err, "failed to decode character %s", id)
	}
	return char, nil
}

// List fetches every indexed character concurrently. Index entries whose
// record is gone are skipped.
func (r *redisRepo) List(ctx context.Context) ([]*character.Character, error) {
	ids, err := r.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list character IDs: %w", err)
	}

	found := make([]*character.Character, len(ids))
	g, ctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		g.Go(func() error {
			char, err := r.Get(ctx, id)
			if dnderr.IsNotFound(err) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to get character %s: %w", id, err)
			}
			found[i] = char
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := make([]*character.Character, 0, len(found))
	for _, char := range found {
		if char != nil {
			result = append(result, char)
		}
	}

	sortByName(result)
	return result, nil
}

// Update replaces an existing character
func (r *redisRepo) Update(ctx context.Context, char *character.Character) error {
	if err := validateCharacter(char); err != nil {
		return err
	}

	exists, err := r.client.Exists(ctx, r.key(char.ID)).Result()
	if err != nil {
		return fmt.Errorf("failed to check character existence: %w", err)
	}
	if exists == 0 {
		return notFound(char.ID)
	}

	data, err := encode(char)
	if err != nil {
		return err
	}

	if err := r.client.Set(ctx, r.key(char.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to update character: %w", err)
	}

	return nil
}

// Delete removes a character and its index entry
func (r *redisRepo) Delete(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}

	pipe := r.client.Pipeline()
	deleted := pipe.Del(ctx, r.key(id))
	pipe.SRem(ctx, indexKey, id)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete character: %w", err)
	}
	if deleted.Val() == 0 {
		return notFound(id)
	}

	return nil
}
