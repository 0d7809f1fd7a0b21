package main

import (
	"fmt"

	"github.com/hanvq/nungdict/internal/config"
	"github.com/hanvq/nungdict/internal/inference"
	"github.com/hanvq/nungdict/internal/inference/openai"
)

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("config.Load() > %w", err)
	}
	return cfg, nil
}

// loadSnapshotConfig is loadConfig plus validation of the fields the
// snapshot-backed commands depend on. Commands that never touch the
// snapshot (chat, spellcheck, migrate) use loadConfig so they can run
// from a partial config file.
func loadSnapshotConfig() (*config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("cfg.Validate() > %w", err)
	}
	return cfg, nil
}

func newInferenceClient(cfg *config.Config) (*openai.Client, error) {
	if cfg.OpenAI.APIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required")
	}
	retryAttempts := cfg.OpenAI.RetryAttempts
	if retryAttempts == 0 {
		retryAttempts = inference.DefaultMaxRetryAttempts
	}
	return openai.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model, retryAttempts), nil
}
