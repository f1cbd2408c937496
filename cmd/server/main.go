package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hupe1980/supportmesh/api"
	"github.com/hupe1980/supportmesh/config"
	"github.com/hupe1980/supportmesh/logging"
	"github.com/hupe1980/supportmesh/model"
	"github.com/hupe1980/supportmesh/model/anthropic"
	"github.com/hupe1980/supportmesh/model/openai"
	"github.com/hupe1980/supportmesh/session"
	"github.com/hupe1980/supportmesh/store"
	"github.com/hupe1980/supportmesh/tool"
)

// serverConfig is the full server configuration, loaded from the
// environment with the SUPPORTMESH prefix (e.g. SUPPORTMESH_PORT).
type serverConfig struct {
	Port     string `split_words:"true" default:"8080"`
	DBPath   string `envconfig:"DB_PATH" default:"data/supportmesh.db"`
	Provider string `split_words:"true" default:"openai"`
	Model    string `split_words:"true"`

	Tools tool.ClientConfig `envconfig:"TOOLS"`
	Log   logging.Config    `envconfig:"LOG"`
}

func main() {
	cfg := config.MustNew[serverConfig]("supportmesh")
	logger := logging.New(cfg.Log)

	st, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("store initialization failed")
	}
	defer st.Close()
	logger.Info().Str("path", cfg.DBPath).Msg("store ready")

	var llm model.Model
	switch cfg.Provider {
	case "anthropic":
		llm = anthropic.NewModel(func(o *anthropic.Options) {
			if cfg.Model != "" {
				o.Model = anthropic.ModelName(cfg.Model)
			}
		})
	default:
		llm = openai.NewModel(func(o *openai.Options) {
			if cfg.Model != "" {
				o.Model = cfg.Model
			}
		})
	}
	logger.Info().Str("provider", cfg.Provider).Msg("model ready")

	client := tool.NewClient(cfg.Tools)
	registry := tool.RegisterCatalog(tool.NewRegistry(func(o *tool.RegistryOptions) {
		o.Logger = logger
	}), client)

	manager := session.NewManager(st, llm, registry, func(o *session.ManagerOptions) {
		o.Logger = logger
	})

	router := api.NewRouter(logger, manager, st)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // replies wait on model round trips
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("starting supportmesh server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server stopped")
}
