// Package dictionary holds the curated Nùng / Central Vietnamese dictionary:
// an immutable snapshot loaded at startup for the translator, and a
// database-backed authoritative copy for the admin edit workflow.
package dictionary

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

var ErrUnknownLanguage = errors.New("unknown target language")

// Dictionary is a read-only snapshot of curated entries per language.
// It is loaded once at process start and never mutated afterwards, so it is
// safe for concurrent use without locking.
type Dictionary struct {
	entries     map[Language]map[string]Entry
	maxKeyWords map[Language]int
}

// New builds a Dictionary from per-language entry maps. Keys are normalized
// to lower case. An empty key or an entry with an empty script is a
// configuration error.
func New(entries map[Language]map[string]Entry) (*Dictionary, error) {
	dict := &Dictionary{
		entries:     make(map[Language]map[string]Entry, len(entries)),
		maxKeyWords: make(map[Language]int, len(entries)),
	}
	for lang, langEntries := range entries {
		if _, err := ParseLanguage(string(lang)); err != nil {
			return nil, err
		}
		normalized := make(map[string]Entry, len(langEntries))
		for key, entry := range langEntries {
			key = strings.ToLower(strings.TrimSpace(key))
			if key == "" {
				return nil, fmt.Errorf("dictionary %q contains an empty key", lang)
			}
			if strings.TrimSpace(entry.Script) == "" {
				return nil, fmt.Errorf("dictionary %q entry %q has an empty script", lang, key)
			}
			if _, ok := normalized[key]; ok {
				return nil, fmt.Errorf("dictionary %q entry %q is duplicated after normalization", lang, key)
			}
			normalized[key] = entry

			if words := len(strings.Fields(key)); words > dict.maxKeyWords[lang] {
				dict.maxKeyWords[lang] = words
			}
		}
		dict.entries[lang] = normalized
	}
	return dict, nil
}

// Load reads a YAML snapshot file keyed by language, e.g.
//
//	nung:
//	  "đi ngủ": {script: "pay nòn", phonetic: "pây nɔn"}
func Load(path string) (*Dictionary, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("os.ReadFile(%s) > %w", path, err)
	}

	var entries map[Language]map[string]Entry
	if err := yaml.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("yaml.Unmarshal(%s) > %w", path, err)
	}

	dict, err := New(entries)
	if err != nil {
		return nil, fmt.Errorf("invalid dictionary snapshot %s: %w", path, err)
	}
	return dict, nil
}

// Lookup returns the entry for a normalized key, if present.
func (d *Dictionary) Lookup(lang Language, key string) (Entry, bool) {
	entry, ok := d.entries[lang][strings.ToLower(strings.TrimSpace(key))]
	return entry, ok
}

// MaxKeyWords returns the word count of the longest key for a language.
// The tokenizer uses it to bound its match window.
func (d *Dictionary) MaxKeyWords(lang Language) int {
	return d.maxKeyWords[lang]
}

// Len returns the number of entries for a language.
func (d *Dictionary) Len(lang Language) int {
	return len(d.entries[lang])
}

// Entries returns a copy of the entries for a language.
func (d *Dictionary) Entries(lang Language) map[string]Entry {
	entries := make(map[string]Entry, len(d.entries[lang]))
	for key, entry := range d.entries[lang] {
		entries[key] = entry
	}
	return entries
}
