//go:build integration
// +build integration

package characters_test

import (
	"context"
	"testing"

	dnderr "github.com/KirkDiggler/dnd-character-sheet/internal/errors"
	"github.com/KirkDiggler/dnd-character-sheet/internal/repositories/characters"
	"github.com/KirkDiggler/dnd-character-sheet/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestRedisRepositorySuite_Integration(t *testing.T) {
	client := testutils.NewRedisContainer(t)

	suite.Run(t, &RepositoryTestSuite{
		newRepo: func(t *testing.T) characters.Repository {
			require.NoError(t, client.FlushDB(context.Background()).Err())
			return characters.NewRedis(client)
		},
	})
}

func TestRedisRepository_Integration(t *testing.T) {
	client := testutils.NewRedisContainer(t)
	repo := characters.NewRedisRepository(&characters.RedisRepoConfig{Client: client})
	ctx := context.Background()

	t.Run("create and retrieve character", func(t *testing.T) {
		char := testutils.CreateTestCharacter("test-char-1", "Aragorn")
		require.NoError(t, repo.Create(ctx, char))

		retrieved, err := repo.Get(ctx, char.ID)
		require.NoError(t, err)

		assert.Equal(t, char.ID, retrieved.ID)
		assert.Equal(t, char.Name, retrieved.Name)
		assert.Equal(t, char.Abilities, retrieved.Abilities)
		assert.Equal(t, char.ArmorClass, retrieved.ArmorClass)
		assert.Len(t, retrieved.Skills, 18)
	})

	t.Run("stale index entries are skipped", func(t *testing.T) {
		require.NoError(t, client.SAdd(ctx, "characters", "ghost").Err())

		list, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})

	t.Run("delete removes the index entry", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, "test-char-1"))

		members, err := client.SMembers(ctx, "characters").Result()
		require.NoError(t, err)
		assert.NotContains(t, members, "test-char-1")

		_, err = repo.Get(ctx, "test-char-1")
		assert.True(t, dnderr.IsNotFound(err))
	})
}
