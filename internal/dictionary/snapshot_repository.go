package dictionary

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// SnapshotRepository is a Repository over an in-memory copy of a snapshot,
// used when running without a database. Edits live only for the lifetime
// of the process.
type SnapshotRepository struct {
	mu      sync.RWMutex
	entries map[Language]map[string]StoredEntry
}

// NewSnapshotRepository seeds a SnapshotRepository from a loaded snapshot.
func NewSnapshotRepository(dict *Dictionary) *SnapshotRepository {
	repo := &SnapshotRepository{
		entries: map[Language]map[string]StoredEntry{},
	}
	now := time.Now()
	for _, lang := range allLanguages {
		repo.entries[lang] = map[string]StoredEntry{}
		for key, entry := range dict.Entries(lang) {
			repo.entries[lang][key] = StoredEntry{
				Lang:      lang,
				Key:       key,
				Script:    entry.Script,
				Phonetic:  entry.Phonetic,
				Notes:     entry.Notes,
				CreatedAt: now,
				UpdatedAt: now,
			}
		}
	}
	return repo
}

func (r *SnapshotRepository) FindAll(_ context.Context, lang Language) ([]StoredEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entries := make([]StoredEntry, 0, len(r.entries[lang]))
	for _, entry := range r.entries[lang] {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Key < entries[j].Key
	})
	return entries, nil
}

func (r *SnapshotRepository) FindByKey(_ context.Context, lang Language, key string) (*StoredEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[lang][strings.ToLower(strings.TrimSpace(key))]
	if !ok {
		return nil, nil
	}
	return &entry, nil
}

func (r *SnapshotRepository) Upsert(_ context.Context, entry *StoredEntry) error {
	key := strings.ToLower(strings.TrimSpace(entry.Key))
	if key == "" {
		return fmt.Errorf("dictionary entry key must not be empty")
	}
	if strings.TrimSpace(entry.Script) == "" {
		return fmt.Errorf("dictionary entry script must not be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	stored := *entry
	stored.Key = key
	stored.UpdatedAt = now
	if existing, ok := r.entries[entry.Lang][key]; ok {
		stored.CreatedAt = existing.CreatedAt
	} else {
		stored.CreatedAt = now
	}
	r.entries[entry.Lang][key] = stored
	return nil
}

func (r *SnapshotRepository) Delete(_ context.Context, lang Language, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries[lang], strings.ToLower(strings.TrimSpace(key)))
	return nil
}

var _ Repository = (*SnapshotRepository)(nil)
