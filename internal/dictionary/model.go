package dictionary

import (
	"fmt"
	"time"
)

// Language identifies a translation target supported by the dictionary.
type Language string

const (
	LanguageNung    Language = "nung"
	LanguageCentral Language = "central"
)

var allLanguages = []Language{LanguageNung, LanguageCentral}

// ParseLanguage validates a language code from user input.
func ParseLanguage(code string) (Language, error) {
	for _, lang := range allLanguages {
		if code == string(lang) {
			return lang, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLanguage, code)
}

// Entry is one curated translation: the target-language orthographic form,
// its phonetic transcription, and optional usage notes.
type Entry struct {
	Script   string `yaml:"script" json:"script"`
	Phonetic string `yaml:"phonetic" json:"phonetic"`
	Notes    string `yaml:"notes,omitempty" json:"notes,omitempty"`
}

// StoredEntry is a row of the authoritative dictionary copy edited by the
// admin workflow. The runtime snapshot is exported from these rows.
type StoredEntry struct {
	Lang      Language  `db:"lang" json:"lang"`
	Key       string    `db:"key" json:"key"`
	Script    string    `db:"script" json:"script"`
	Phonetic  string    `db:"phonetic" json:"phonetic"`
	Notes     string    `db:"notes" json:"notes,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
