// Package app wires the document-analysis core's fx dependency graph:
// config, logger, the external-capability adapters, the core services,
// and the HTTP server — the same infrastructure/clients/services/http_server
// module split as the teacher's internal/server/modules.go, retargeted at
// this core's own components in place of the Connect RPC RAG service.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"go.uber.org/fx"

	"github.com/inkframe/doccore/internal/adapters/embedclient"
	"github.com/inkframe/doccore/internal/adapters/llmclient"
	"github.com/inkframe/doccore/internal/adapters/pgvectorstore"
	"github.com/inkframe/doccore/internal/adapters/rediscache"
	"github.com/inkframe/doccore/internal/capability"
	"github.com/inkframe/doccore/internal/config"
	"github.com/inkframe/doccore/internal/docsync"
	"github.com/inkframe/doccore/internal/httpapi"
	"github.com/inkframe/doccore/internal/logger"
)

// Module is the complete fx application: infrastructure, adapters, the
// docsync manager, the HTTP server, and the server's start hook.
var Module = fx.Options(
	InfrastructureModule,
	AdaptersModule,
	CoreModule,
	HTTPServerModule,
	fx.Invoke(StartHTTPServer),
)

// InfrastructureModule provides configuration and logging.
var InfrastructureModule = fx.Module("infrastructure",
	fx.Provide(
		NewAppConfig,
		NewAppLogger,
	),
)

// AdaptersModule provides the concrete embedder, agent, and vector store
// backing the capability interfaces.
var AdaptersModule = fx.Module("adapters",
	fx.Provide(
		NewEmbedder,
		NewAgent,
		NewVectorStore,
	),
)

// CoreModule provides the docsync manager that ties the embedder and
// vector store together.
var CoreModule = fx.Module("core",
	fx.Provide(
		NewDocSyncManager,
	),
)

// HTTPServerModule provides the chi-backed http.Server.
var HTTPServerModule = fx.Module("http_server",
	fx.Provide(
		NewHTTPServer,
	),
)

// NewAppConfig loads configuration from the working directory and the
// environment.
func NewAppConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// NewAppLogger initializes the package-level slog logger.
func NewAppLogger() (*slog.Logger, error) {
	if err := logger.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger.Get(), nil
}

// NewEmbedder builds the embedding adapter and wraps it with a Redis
// cache at the configured address; if that Redis client cannot be created,
// it logs a warning and returns the uncached adapter.
func NewEmbedder(cfg *config.Config) (capability.Embedder, error) {
	base := embedclient.NewClient(cfg.Services.Embedding)

	addr := fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)
	cache, err := rediscache.NewClient(addr)
	if err != nil {
		logger.Get().Warn("redis cache unavailable, embeddings will not be cached", "error", err)
		return base, nil
	}
	return rediscache.NewCachingEmbedder(cache, base), nil
}

// NewAgent builds the chat-completion adapter.
func NewAgent(cfg *config.Config) capability.Agent {
	return llmclient.NewClient(cfg.Services.LLM)
}

// NewVectorStore connects to the configured Postgres/pgvector instance.
func NewVectorStore(ctx context.Context, cfg *config.Config) (capability.VectorStore, error) {
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		cfg.Database.User, cfg.Database.Password, cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)
	return pgvectorstore.OpenOrCreate(ctx, dsn)
}

// NewDocSyncManager wires the embedder and vector store into a
// docsync.Manager.
func NewDocSyncManager(embedder capability.Embedder, store capability.VectorStore) *docsync.Manager {
	return docsync.NewManager(embedder, store)
}

// NewHTTPServer builds the chi router and wraps it in an http.Server.
func NewHTTPServer(cfg *config.Config, embedder capability.Embedder, agent capability.Agent, sync *docsync.Manager) *http.Server {
	srv := &httpapi.Server{
		Embedder:  embedder,
		Agent:     agent,
		Sync:      sync,
		ChunkOpts: chunkOptsFrom(cfg),
		HierOpts:  hierOptsFrom(cfg),
		SyncOpts:  syncOptsFrom(cfg),
	}

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Get().Info("http server configured", "address", addr)

	return &http.Server{
		Addr:    addr,
		Handler: httpapi.NewRouter(srv),
	}
}

// StartHTTPServer registers the server's start/stop hooks with the fx
// lifecycle.
func StartHTTPServer(httpServer *http.Server, lifecycle fx.Lifecycle, shutdowner fx.Shutdowner) {
	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Get().Info("starting http server", "addr", httpServer.Addr)
			go func() {
				if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Get().Error("http server failed", "error", err)
					if shutdownErr := shutdowner.Shutdown(); shutdownErr != nil {
						logger.Get().Error("application shutdown failed", "error", shutdownErr)
					}
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Get().Info("stopping http server")
			return httpServer.Shutdown(ctx)
		},
	})
}
