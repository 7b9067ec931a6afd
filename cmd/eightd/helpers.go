package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"eightd/internal/gateway/config"
	"eightd/internal/language"
	"eightd/internal/llm"
	"eightd/internal/llmclient"
)

// now is replaced in tests.
var now = time.Now

func newClient(ctx context.Context, logger *log.Logger) (llmclient.LLMClient, func(), error) {
	cfg := config.LoadLLM()
	setup, err := llm.NewSetup(llm.Options{
		Provider: cfg.Provider,
		APIKey:   cfg.APIKey,
		BaseURL:  cfg.BaseURL,
		Model:    cfg.Model,
		Timeout:  cfg.Timeout,
		RPS:      cfg.RPS,
		Burst:    cfg.Burst,
		Logger:   logger,
	})
	if err != nil {
		return nil, nil, err
	}
	cli, err := setup.Client(ctx, "")
	if err != nil {
		setup.Close()
		return nil, nil, err
	}
	return cli, func() {
		_ = cli.Close()
		setup.Close()
	}, nil
}

func loadCatalog() (*language.Catalog, error) {
	return language.Load(os.Getenv("LANGUAGES_FILE"))
}

func writeOutput(dir, name string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
