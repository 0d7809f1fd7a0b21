package dictionary

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name              string
		entries           map[Language]map[string]Entry
		wantErrorContains string
	}{
		{
			name: "valid entries with normalization",
			entries: map[Language]map[string]Entry{
				LanguageNung: {
					"  Đi Ngủ ": {Script: "pay nòn", Phonetic: "pây nɔn"},
					"ngủ":       {Script: "nòn", Phonetic: "nɔn"},
				},
			},
		},
		{
			name: "empty script is a configuration error",
			entries: map[Language]map[string]Entry{
				LanguageNung: {
					"ngủ": {Script: "   ", Phonetic: "nɔn"},
				},
			},
			wantErrorContains: "empty script",
		},
		{
			name: "empty key is a configuration error",
			entries: map[Language]map[string]Entry{
				LanguageCentral: {
					"  ": {Script: "mô", Phonetic: "mo"},
				},
			},
			wantErrorContains: "empty key",
		},
		{
			name: "unknown language",
			entries: map[Language]map[string]Entry{
				Language("klingon"): {
					"ngủ": {Script: "nòn", Phonetic: "nɔn"},
				},
			},
			wantErrorContains: "unknown target language",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dict, err := New(tt.entries)
			if tt.wantErrorContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrorContains)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, dict)

			entry, ok := dict.Lookup(LanguageNung, "đi ngủ")
			assert.True(t, ok)
			assert.Equal(t, "pay nòn", entry.Script)

			// lookup normalizes the probe too
			_, ok = dict.Lookup(LanguageNung, " NGỦ ")
			assert.True(t, ok)

			assert.Equal(t, 2, dict.MaxKeyWords(LanguageNung))
			assert.Equal(t, 2, dict.Len(LanguageNung))
			assert.Equal(t, 0, dict.Len(LanguageCentral))
		})
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{
			name: "valid snapshot",
			content: `nung:
  "đi ngủ": {script: "pay nòn", phonetic: "pây nɔn"}
  "ngủ": {script: "nòn", phonetic: "nɔn", notes: "western variant: nèn"}
central:
  "đi ngủ": {script: "đi ngủ", phonetic: "di ŋu"}
`,
		},
		{
			name:    "malformed yaml",
			content: "nung: [",
			wantErr: true,
		},
		{
			name: "entry without script fails at load time",
			content: `nung:
  "ngủ": {phonetic: "nɔn"}
`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "dictionary.yml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			dict, err := Load(path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			entry, ok := dict.Lookup(LanguageNung, "ngủ")
			require.True(t, ok)
			assert.Equal(t, "nòn", entry.Script)
			assert.Equal(t, "western variant: nèn", entry.Notes)

			entry, ok = dict.Lookup(LanguageCentral, "đi ngủ")
			require.True(t, ok)
			assert.Equal(t, "di ŋu", entry.Phonetic)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}

func TestParseLanguage(t *testing.T) {
	lang, err := ParseLanguage("nung")
	require.NoError(t, err)
	assert.Equal(t, LanguageNung, lang)

	lang, err = ParseLanguage("central")
	require.NoError(t, err)
	assert.Equal(t, LanguageCentral, lang)

	_, err = ParseLanguage("northern")
	assert.ErrorIs(t, err, ErrUnknownLanguage)
}
