package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hanvq/nungdict/internal/inference"
)

func newChatCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "chat [message]",
		Short: "Chat about the Nùng language and culture",
		Long:  "Chat about the Nùng language and culture. With a message argument it answers once; without one it starts an interactive session.",
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

			var messages []inference.ChatMessage
			ask := func(content string) error {
				messages = append(messages, inference.ChatMessage{
					Role:    inference.RoleUser,
					Content: content,
				})
				res, err := client.Chat(cmd.Context(), inference.ChatRequest{Messages: messages})
				if err != nil {
					return fmt.Errorf("client.Chat() > %w", err)
				}
				messages = append(messages, inference.ChatMessage{
					Role:    inference.RoleAssistant,
					Content: res.Reply,
				})
				fmt.Println(res.Reply)
				return nil
			}

			if len(args) > 0 {
				return ask(strings.Join(args, " "))
			}

			prompt := color.New(color.Bold)
			scanner := bufio.NewScanner(os.Stdin)
			for {
				prompt.Print("> ")
				if !scanner.Scan() {
					break
				}
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}
				if line == "exit" || line == "quit" {
					break
				}
				if err := ask(line); err != nil {
					return err
				}
			}
			return scanner.Err()
		},
	}
}
