package characters

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/KirkDiggler/dnd-character-sheet/internal/domain/character"
	dnderr "github.com/KirkDiggler/dnd-character-sheet/internal/errors"
)

//go:embed sqlite_schema.sql
var sqliteSchema string

// SQLiteRepoConfig holds configuration for the SQLite repository
type SQLiteRepoConfig struct {
	// Path is the database file, created when missing
	Path string
}

// SQLiteRepository keeps each character's document in one row
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository opens the database and applies the schema
func NewSQLiteRepository(cfg *SQLiteRepoConfig) (*SQLiteRepository, error) {
	if cfg == nil || strings.TrimSpace(cfg.Path) == "" {
		return nil, dnderr.InvalidArgument("sqlite database path is required")
	}

	dsn := filepath.Clean(cfg.Path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// one writer at a time
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply sqlite schema: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// Close closes the database handle
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) Create(ctx context.Context, char *character.Character) error {
	if err := validateCharacter(char); err != nil {
		return err
	}

	data, err := encode(char)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO characters (id, name, document) VALUES (?, ?, ?)`,
		char.ID, char.Name, data)
	if err != nil {
		if isUniqueViolation(err) {
			return alreadyExists(char.ID)
		}
		return fmt.Errorf("failed to insert character: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context, id string) (*character.Character, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	var data string
	err := r.db.QueryRowContext(ctx, `SELECT document FROM characters WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get character: %w", err)
	}

	return decode(data)
}

func (r *SQLiteRepository) List(ctx context.Context) ([]*character.Character, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT document FROM characters ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list characters: %w", err)
	}
	defer rows.Close()

	chars := make([]*character.Character, 0)
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan character: %w", err)
		}
		char, err := decode(data)
		if err != nil {
			return nil, err
		}
		chars = append(chars, char)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list characters: %w", err)
	}

	sortByName(chars)
	return chars, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, char *character.Character) error {
	if err := validateCharacter(char); err != nil {
		return err
	}

	data, err := encode(char)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE characters SET name = ?, document = ? WHERE id = ?`,
		char.Name, data, char.ID)
	if err != nil {
		return fmt.Errorf("failed to update character: %w", err)
	}
	return requireRow(res, char.ID)
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM characters WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete character: %w", err)
	}
	return requireRow(res, id)
}

func requireRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return notFound(id)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return false
}
