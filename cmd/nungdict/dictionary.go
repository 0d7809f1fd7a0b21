package main

import (
	"fmt"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hanvq/nungdict/internal/database"
	"github.com/hanvq/nungdict/internal/dictionary"
)

func newDictionaryCommand() *cobra.Command {
	rootCommand := cobra.Command{
		Use:   "dictionary",
		Short: "Inspect and manage the curated dictionary",
	}

	rootCommand.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate the dictionary snapshot file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadSnapshotConfig()
			if err != nil {
				return err
			}
			dict, err := dictionary.Load(cfg.Dictionary.SnapshotPath)
			if err != nil {
				return fmt.Errorf("dictionary.Load() > %w", err)
			}
			for _, lang := range []dictionary.Language{dictionary.LanguageNung, dictionary.LanguageCentral} {
				fmt.Printf("%s: %d entries, longest key %d words\n",
					lang, dict.Len(lang), dict.MaxKeyWords(lang))
			}
			color.Green("%s is valid", cfg.Dictionary.SnapshotPath)
			return nil
		},
	})

	lookupLang := langFlag(dictionary.LanguageNung)
	lookupCommand := &cobra.Command{
		Use:   "lookup [key]",
		Short: "Look up an entry in the dictionary snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadSnapshotConfig()
			if err != nil {
				return err
			}
			dict, err := dictionary.Load(cfg.Dictionary.SnapshotPath)
			if err != nil {
				return fmt.Errorf("dictionary.Load() > %w", err)
			}

			lang := dictionary.Language(lookupLang)
			entry, ok := dict.Lookup(lang, args[0])
			if !ok {
				return fmt.Errorf("no %s entry for %q", lang, args[0])
			}
			color.New(color.Bold).Println(entry.Script)
			if entry.Phonetic != "" {
				fmt.Printf("phonetic: %s\n", entry.Phonetic)
			}
			if entry.Notes != "" {
				fmt.Printf("notes: %s\n", entry.Notes)
			}
			return nil
		},
	}
	lookupCommand.Flags().Var(&lookupLang, "lang", "target language (nung or central)")
	rootCommand.AddCommand(lookupCommand)

	rootCommand.AddCommand(&cobra.Command{
		Use:   "import",
		Short: "Import the dictionary snapshot into the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadSnapshotConfig()
			if err != nil {
				return err
			}
			dict, err := dictionary.Load(cfg.Dictionary.SnapshotPath)
			if err != nil {
				return fmt.Errorf("dictionary.Load() > %w", err)
			}
			db, err := database.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("database.Open() > %w", err)
			}
			defer func() {
				_ = db.Close()
			}()
			repo := dictionary.NewDBRepository(db)

			imported := 0
			for _, lang := range []dictionary.Language{dictionary.LanguageNung, dictionary.LanguageCentral} {
				entries := dict.Entries(lang)
				keys := make([]string, 0, len(entries))
				for key := range entries {
					keys = append(keys, key)
				}
				sort.Strings(keys)

				for _, key := range keys {
					entry := entries[key]
					err := repo.Upsert(cmd.Context(), &dictionary.StoredEntry{
						Lang:     lang,
						Key:      key,
						Script:   entry.Script,
						Phonetic: entry.Phonetic,
						Notes:    entry.Notes,
					})
					if err != nil {
						return fmt.Errorf("repo.Upsert(%s, %q) > %w", lang, key, err)
					}
					imported++
				}
			}
			color.Green("imported %d entries", imported)
			return nil
		},
	})

	return &rootCommand
}
