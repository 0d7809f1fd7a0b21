package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/hanvq/nungdict/internal/dictionary"
	"github.com/hanvq/nungdict/internal/translator"
)

// langFlag validates a --lang flag value against the supported languages.
type langFlag dictionary.Language

func (l *langFlag) Set(val string) error {
	lang, err := dictionary.ParseLanguage(val)
	if err != nil {
		return err
	}
	*l = langFlag(lang)
	return nil
}

func (l langFlag) String() string {
	return string(l)
}

func (l *langFlag) Type() string {
	return "language"
}

var _ pflag.Value = (*langFlag)(nil)

func newTranslateCommand() *cobra.Command {
	targetLang := langFlag(dictionary.LanguageNung)
	var offline bool

	command := &cobra.Command{
		Use:   "translate [text]",
		Short: "Translate Vietnamese text using the tiered resolver",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadSnapshotConfig()
			if err != nil {
				return err
			}
			dict, err := dictionary.Load(cfg.Dictionary.SnapshotPath)
			if err != nil {
				return fmt.Errorf("dictionary.Load() > %w", err)
			}

			var resolver *translator.Resolver
			if offline {
				resolver = translator.NewResolver(dict, nil)
			} else {
				client, err := newInferenceClient(cfg)
				if err != nil {
					return err
				}
				defer func() {
					_ = client.Close()
				}()
				resolver = translator.NewResolver(dict, client)
			}

			result, err := resolver.Resolve(cmd.Context(), strings.Join(args, " "), targetLang.String())
			if err != nil {
				return fmt.Errorf("resolver.Resolve() > %w", err)
			}
			printResult(result)
			return nil
		},
	}
	command.Flags().Var(&targetLang, "lang", "target language (nung or central)")
	command.Flags().BoolVar(&offline, "offline", false, "skip the remote fallback and use only local tiers")
	return command
}

func printResult(result *translator.Result) {
	bold := color.New(color.Bold)
	bold.Printf("%s\n\n", result.Translation)

	for _, entry := range result.Breakdown {
		line := entry.Word
		if entry.Translation != "" {
			line = fmt.Sprintf("%s → %s", entry.Word, entry.Translation)
		}
		if entry.Phonetic != "" {
			line += fmt.Sprintf(" [%s]", entry.Phonetic)
		}
		switch entry.Note {
		case translator.NoteDirect:
			color.Green("  %s", line)
		case translator.NoteInferred:
			color.Yellow("  %s (inferred)", line)
		case translator.NoteAPI:
			color.Cyan("  %s (api)", line)
		default:
			color.Red("  %s (unknown)", line)
		}
	}

	fmt.Printf("\n%d direct, %d inferred, %d from api, %d unknown (%dms)\n",
		result.Stats.LocalHits,
		result.Stats.Inferred,
		result.Stats.APICalls,
		result.Stats.Unknown,
		result.TimeTakenMs)
}
