package dictionary

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepository(t *testing.T) (*DBRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewDBRepository(sqlx.NewDb(db, "pgx")), mock
}

func TestDBRepository_FindAll(t *testing.T) {
	repo, mock := newMockRepository(t)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"lang", "key", "script", "phonetic", "notes", "created_at", "updated_at"}).
		AddRow("nung", "ngủ", "nòn", "nɔn", "", now, now).
		AddRow("nung", "đi ngủ", "pay nòn", "pây nɔn", "", now, now)

	mock.ExpectQuery(`SELECT * FROM dictionary_entries WHERE lang = $1 ORDER BY key`).
		WithArgs(LanguageNung).
		WillReturnRows(rows)

	got, err := repo.FindAll(context.Background(), LanguageNung)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "ngủ", got[0].Key)
	assert.Equal(t, "pay nòn", got[1].Script)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDBRepository_FindByKey(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		key           string
		normalizedKey string
		rows          *sqlmock.Rows
		want          *StoredEntry
	}{
		{
			name:          "found, probe normalized",
			key:           " NGỦ ",
			normalizedKey: "ngủ",
			rows: sqlmock.NewRows([]string{"lang", "key", "script", "phonetic", "notes", "created_at", "updated_at"}).
				AddRow("nung", "ngủ", "nòn", "nɔn", "", now, now),
			want: &StoredEntry{
				Lang: LanguageNung, Key: "ngủ", Script: "nòn", Phonetic: "nɔn",
				CreatedAt: now, UpdatedAt: now,
			},
		},
		{
			name:          "not found returns nil without error",
			key:           "vắng",
			normalizedKey: "vắng",
			rows:          sqlmock.NewRows([]string{"lang", "key", "script", "phonetic", "notes", "created_at", "updated_at"}),
			want:          nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepository(t)

			mock.ExpectQuery(`SELECT * FROM dictionary_entries WHERE lang = $1 AND key = $2`).
				WithArgs(LanguageNung, tt.normalizedKey).
				WillReturnRows(tt.rows)

			got, err := repo.FindByKey(context.Background(), LanguageNung, tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDBRepository_Upsert(t *testing.T) {
	tests := []struct {
		name              string
		entry             StoredEntry
		wantErrorContains string
	}{
		{
			name:  "inserts with normalized key",
			entry: StoredEntry{Lang: LanguageNung, Key: " Con Lợn ", Script: "tu mu", Phonetic: "tu mu"},
		},
		{
			name:              "empty key rejected",
			entry:             StoredEntry{Lang: LanguageNung, Key: "  ", Script: "tu mu"},
			wantErrorContains: "key must not be empty",
		},
		{
			name:              "empty script rejected",
			entry:             StoredEntry{Lang: LanguageNung, Key: "con lợn", Script: " "},
			wantErrorContains: "must have a script",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepository(t)

			if tt.wantErrorContains == "" {
				mock.ExpectExec(`INSERT INTO dictionary_entries (lang, key, script, phonetic, notes)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (lang, key) DO UPDATE
		SET script = EXCLUDED.script, phonetic = EXCLUDED.phonetic, notes = EXCLUDED.notes,
			updated_at = now()`).
					WithArgs(tt.entry.Lang, "con lợn", tt.entry.Script, tt.entry.Phonetic, tt.entry.Notes).
					WillReturnResult(sqlmock.NewResult(0, 1))
			}

			err := repo.Upsert(context.Background(), &tt.entry)
			if tt.wantErrorContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrorContains)
				return
			}
			require.NoError(t, err)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDBRepository_Delete(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectExec(`DELETE FROM dictionary_entries WHERE lang = $1 AND key = $2`).
		WithArgs(LanguageNung, "con lợn").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), LanguageNung, " Con Lợn "))
	assert.NoError(t, mock.ExpectationsWereMet())
}
