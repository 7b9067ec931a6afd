package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"eightd/internal/gateway/config"
	"eightd/internal/gateway/handler"
	"eightd/internal/gateway/server"
	"eightd/internal/gateway/service/workbench"
	"eightd/internal/ingest"
	"eightd/internal/language"
	"eightd/internal/llm"
	"eightd/internal/render"
)

type App struct {
	server *server.Server
	stores *gatewayStores
	llm    *llm.Setup
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return NewWithConfig(cfg)
}

func NewWithConfig(cfg *config.Config) (*App, error) {
	catalog, err := language.Load(cfg.Languages)
	if err != nil {
		return nil, err
	}
	llmSetup, err := llm.NewSetup(llm.Options{
		Provider: cfg.LLM.Provider,
		APIKey:   cfg.LLM.APIKey,
		BaseURL:  cfg.LLM.BaseURL,
		Model:    cfg.LLM.Model,
		Timeout:  cfg.LLM.Timeout,
		RPS:      cfg.LLM.RPS,
		Burst:    cfg.LLM.Burst,
	})
	if err != nil {
		return nil, err
	}
	log.Printf("llm provider: %s", llmSetup.Provider())

	stores, err := initStores(cfg)
	if err != nil {
		llmSetup.Close()
		return nil, err
	}

	var printer *render.PDFPrinter
	if cfg.PDFPrint {
		printer = &render.PDFPrinter{Timeout: time.Minute}
	}

	// Dependencies
	svc, err := workbench.New(workbench.Deps{
		Sessions:  stores.sessions,
		Artifacts: stores.artifact,
		LLM:       llmSetup,
		Catalog:   catalog,
		PDF:       printer,
		PDFText:   ingest.LedongthucPDF{},
	})
	if err != nil {
		_ = stores.sessions.Close()
		llmSetup.Close()
		return nil, err
	}

	// Routing & Server
	mux := server.NewMux(handler.New(svc, nil))
	srv := server.New(cfg.Port, mux)

	return &App{
		server: srv,
		stores: stores,
		llm:    llmSetup,
	}, nil
}

func (a *App) Start() error {
	return a.server.Start()
}

func (a *App) Shutdown(ctx context.Context) error {
	err := a.server.Shutdown(ctx)
	a.llm.Close()
	return errors.Join(err, a.stores.sessions.Close())
}
