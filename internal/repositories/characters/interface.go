package characters

//go:generate mockgen -destination=mock/mock.go -package=mockcharacters -source=interface.go

import (
	"context"
	"sort"
	"strings"

	"github.com/KirkDiggler/dnd-character-sheet/internal/domain/character"
	dnderr "github.com/KirkDiggler/dnd-character-sheet/internal/errors"
)

// Repository defines the interface for character persistence
type Repository interface {
	// Create stores a new character
	Create(ctx context.Context, char *character.Character) error

	// Get retrieves a character by ID
	Get(ctx context.Context, id string) (*character.Character, error)

	// List returns every stored character ordered by name
	List(ctx context.Context) ([]*character.Character, error)

	// Update replaces an existing character
	Update(ctx context.Context, char *character.Character) error

	// Delete removes a character
	Delete(ctx context.Context, id string) error
}

func validateCharacter(char *character.Character) error {
	if char == nil {
		return dnderr.InvalidArgument("character cannot be nil")
	}
	return validateID(char.ID)
}

// IDs end up in file names and Redis keys
func validateID(id string) error {
	if id == "" {
		return dnderr.InvalidArgument("character ID is required")
	}
	if strings.ContainsAny(id, `/\:`) || strings.Contains(id, "..") {
		return dnderr.InvalidArgumentf("character ID %q contains reserved characters", id).
			WithMeta("character_id", id)
	}
	return nil
}

func notFound(id string) error {
	return dnderr.NotFoundf("character with ID '%s' not found", id).
		WithMeta("character_id", id)
}

func alreadyExists(id string) error {
	return dnderr.AlreadyExistsf("character with ID '%s' already exists", id).
		WithMeta("character_id", id)
}

func sortByName(chars []*character.Character) {
	sort.SliceStable(chars, func(i, j int) bool {
		if chars[i].Name != chars[j].Name {
			return chars[i].Name < chars[j].Name
		}
		return chars[i].ID < chars[j].ID
	})
}
