package dictionary

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

//go:generate mockgen -source=repository.go -destination=../mocks/dictionary/mock_repository.go -package=mock_dictionary

// Repository defines operations for the authoritative dictionary copy.
type Repository interface {
	FindAll(ctx context.Context, lang Language) ([]StoredEntry, error)
	FindByKey(ctx context.Context, lang Language, key string) (*StoredEntry, error)
	Upsert(ctx context.Context, entry *StoredEntry) error
	Delete(ctx context.Context, lang Language, key string) error
}

// DBRepository implements Repository using Postgres.
type DBRepository struct {
	db *sqlx.DB
}

// NewDBRepository creates a new DBRepository.
func NewDBRepository(db *sqlx.DB) *DBRepository {
	return &DBRepository{db: db}
}

// FindAll returns all entries for a language ordered by key.
func (r *DBRepository) FindAll(ctx context.Context, lang Language) ([]StoredEntry, error) {
	var entries []StoredEntry
	if err := r.db.SelectContext(ctx, &entries,
		`SELECT * FROM dictionary_entries WHERE lang = $1 ORDER BY key`, lang); err != nil {
		return nil, fmt.Errorf("db.SelectContext(dictionary_entries) > %w", err)
	}
	return entries, nil
}

// FindByKey returns an entry by normalized key, or nil if not found.
func (r *DBRepository) FindByKey(ctx context.Context, lang Language, key string) (*StoredEntry, error) {
	var entry StoredEntry
	err := r.db.GetContext(ctx, &entry,
		`SELECT * FROM dictionary_entries WHERE lang = $1 AND key = $2`,
		lang, strings.ToLower(strings.TrimSpace(key)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(dictionary_entry) > %w", err)
	}
	return &entry, nil
}

// Upsert inserts or updates an entry. Keys are normalized the same way the
// snapshot loader normalizes them, so the exported snapshot stays consistent.
func (r *DBRepository) Upsert(ctx context.Context, entry *StoredEntry) error {
	key := strings.ToLower(strings.TrimSpace(entry.Key))
	if key == "" {
		return fmt.Errorf("dictionary entry key must not be empty")
	}
	if strings.TrimSpace(entry.Script) == "" {
		return fmt.Errorf("dictionary entry %q must have a script", key)
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO dictionary_entries (lang, key, script, phonetic, notes)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (lang, key) DO UPDATE
		SET script = EXCLUDED.script, phonetic = EXCLUDED.phonetic, notes = EXCLUDED.notes,
			updated_at = now()`,
		entry.Lang, key, entry.Script, entry.Phonetic, entry.Notes)
	if err != nil {
		return fmt.Errorf("db.ExecContext(upsert dictionary_entry) > %w", err)
	}
	return nil
}

// Delete removes an entry by key.
func (r *DBRepository) Delete(ctx context.Context, lang Language, key string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM dictionary_entries WHERE lang = $1 AND key = $2`,
		lang, strings.ToLower(strings.TrimSpace(key)))
	if err != nil {
		return fmt.Errorf("db.ExecContext(delete dictionary_entry) > %w", err)
	}
	return nil
}
