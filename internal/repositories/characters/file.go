package characters

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/KirkDiggler/dnd-character-sheet/internal/domain/character"
	dnderr "github.com/KirkDiggler/dnd-character-sheet/internal/errors"
)

const fileExt = ".json"

// FileRepoConfig holds configuration for the file repository
type FileRepoConfig struct {
	// Dir receives one <id>.json save file per character
	Dir string
}

// fileRepo keeps each character as an indented JSON save file
type fileRepo struct {
	mu  sync.RWMutex
	dir string
}

// NewFileRepository creates the directory if needed
func NewFileRepository(cfg *FileRepoConfig) (Repository, error) {
	if cfg == nil || cfg.Dir == "" {
		return nil, dnderr.InvalidArgument("file repository directory is required")
	}

	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create character directory: %w", err)
	}

	return &fileRepo{dir: cfg.Dir}, nil
}

func (r *fileRepo) path(id string) string {
	return filepath.Join(r.dir, id+fileExt)
}

func (r *fileRepo) Create(ctx context.Context, char *character.Character) error {
	if err := validateCharacter(char); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	exists, err := r.exists(char.ID)
	if err != nil {
		return err
	}
	if exists {
		return alreadyExists(char.ID)
	}

	return r.write(char)
}

func (r *fileRepo) Get(ctx context.Context, id string) (*character.Character, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.read(id)
}

func (r *fileRepo) List(ctx context.Context) ([]*character.Character, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list characters: %w", err)
	}

	result := make([]*character.Character, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), fileExt) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		char, err := r.read(strings.TrimSuffix(entry.Name(), fileExt))
		if err != nil {
			return nil, err
		}
		result = append(result, char)
	}

	sortByName(result)
	return result, nil
}

func (r *fileRepo) Update(ctx context.Context, char *character.Character) error {
	if err := validateCharacter(char); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	exists, err := r.exists(char.ID)
	if err != nil {
		return err
	}
	if !exists {
		return notFound(char.ID)
	}

	return r.write(char)
}

func (r *fileRepo) Delete(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	err := os.Remove(r.path(id))
	if errors.Is(err, fs.ErrNotExist) {
		return notFound(id)
	}
	if err != nil {
		return fmt.Errorf("failed to delete character: %w", err)
	}
	return nil
}

func (r *fileRepo) exists(id string) (bool, error) {
	_, err := os.Stat(r.path(id))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check character existence: %w", err)
	}
	return true, nil
}

func (r *fileRepo) read(id string) (*character.Character, error) {
	raw, err := os.ReadFile(r.path(id))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read character: %w", err)
	}

	doc, err := character.UnmarshalDocument(raw)
	if err != nil {
		return nil, dnderr.Wrapf(err, "character file %s", r.path(id))
	}

	char, err := character.Deserialize(doc)
	if err != nil {
		return nil, dnderr.Wrapf(err, "character file %s", r.path(id))
	}
	// older save files have no id field
	if char.ID == "" {
		char.ID = id
	}
	return char, nil
}

// write goes through a temp file so a crash never leaves half a save file
func (r *fileRepo) write(char *character.Character) error {
	doc, err := character.Serialize(char)
	if err != nil {
		return err
	}

	raw, err := character.MarshalDocument(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal character: %w", err)
	}

	tmp, err := os.CreateTemp(r.dir, char.ID+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to write character: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(raw, '\n')); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write character: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write character: %w", err)
	}

	if err := os.Rename(tmp.Name(), r.path(char.ID)); err != nil {
		return fmt.Errorf("failed to write character: %w", err)
	}
	return nil
}
