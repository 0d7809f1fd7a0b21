package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/hanvq/nungdict/internal/database"
	"github.com/hanvq/nungdict/internal/dictionary"
	"github.com/hanvq/nungdict/internal/discussion"
	"github.com/hanvq/nungdict/internal/server"
	"github.com/hanvq/nungdict/internal/translator"
)

func newServeCommand() *cobra.Command {
	var inMemory bool
	var machineID int64

	command := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadSnapshotConfig()
			if err != nil {
				return err
			}
			dict, err := dictionary.Load(cfg.Dictionary.SnapshotPath)
			if err != nil {
				return fmt.Errorf("dictionary.Load() > %w", err)
			}
			client, err := newInferenceClient(cfg)
			if err != nil {
				return err
			}
			defer func() {
				_ = client.Close()
			}()

			var dictRepo dictionary.Repository
			var discussionRepo discussion.Repository
			if inMemory {
				slog.Warn("running with in-memory storage, nothing will be persisted")
				discussionRepo = discussion.NewMemoryRepository()
				dictRepo = dictionary.NewSnapshotRepository(dict)
			} else {
				db, err := database.Open(cfg.Database)
				if err != nil {
					return fmt.Errorf("database.Open() > %w", err)
				}
				defer func() {
					_ = db.Close()
				}()
				discussionRepo = discussion.NewDBRepository(db)
				dictRepo = dictionary.NewDBRepository(db)
			}

			discussions, err := discussion.NewService(discussionRepo, machineID)
			if err != nil {
				return fmt.Errorf("discussion.NewService() > %w", err)
			}

			router := server.NewRouter(cfg.Server, server.Dependencies{
				Resolver:    translator.NewResolver(dict, client),
				Inference:   client,
				Dictionary:  dictRepo,
				Discussions: discussions,
			})
			slog.Info("starting server", slog.String("addr", cfg.Server.ListenAddr))
			return router.Run(cfg.Server.ListenAddr)
		},
	}
	command.Flags().BoolVar(&inMemory, "memory", false, "use in-memory storage instead of Postgres")
	command.Flags().Int64Var(&machineID, "machine-id", 1, "snowflake machine ID for this instance")
	return command
}
