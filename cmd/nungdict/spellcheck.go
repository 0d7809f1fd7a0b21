package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hanvq/nungdict/internal/inference"
)

func newSpellCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "spellcheck [text]",
		Short: "Correct spelling and diacritics in Vietnamese text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			client, err := newInferenceClient(cfg)
			if err != nil {
				return err
			}
			defer func() {
				_ = client.Close()
			}()

			res, err := client.CheckSpelling(cmd.Context(), inference.SpellCheckRequest{
				Text: strings.Join(args, " "),
			})
			if err != nil {
				return fmt.Errorf("client.CheckSpelling() > %w", err)
			}
			fmt.Println(res.Corrected)
			return nil
		},
	}
}
