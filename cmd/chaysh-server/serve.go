// cmd/chaysh-server/serve.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"chaysh/internal/api"
	"chaysh/internal/common/config"
	"chaysh/internal/common/database"
	"chaysh/internal/common/logger"
	"chaysh/internal/common/observability"
	"chaysh/internal/storage"
	"chaysh/internal/storage/searchindex"
	"chaysh/internal/storage/searchlog"
	"chaysh/internal/storage/userstore"
	chatassistant "chaysh/internal/workers/assistant/chat-assistant"
	fetchpage "chaysh/internal/workers/content/fetch-page"
	aggregateconsensus "chaysh/internal/workers/search/aggregate-consensus"
	askmodel "chaysh/internal/workers/search/ask-model"
	resolvevariations "chaysh/internal/workers/search/resolve-variations"
	shaperesults "chaysh/internal/workers/search/shape-results"
)

func serveCMD() *cobra.Command {
	var cfgPath string

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cfgPath)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}
	serve.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (default is ./configs)")

	return serve
}

func run(ctx context.Context, cfg *config.Config) error {
	zapLog, err := logger.NewFromConfig(cfg.Logging)
	if err != nil {
		return err
	}
	defer zapLog.Sync() //nolint:errcheck

	log := logger.NewZapAdapter(zapLog)
	zapLog.Info("Starting chaysh server...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name, log)
	defer obs.Shutdown()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		return err
	}
	defer pg.Close()
	if err := pg.EnsureSchema(ctx); err != nil {
		return err
	}
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	var rdb *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		rdb, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return rdb.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		return err
	}
	defer rdb.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init Elasticsearch with retry (optional) ---
	var (
		index    storage.SearchIndex
		esClient *database.ElasticsearchClient
	)
	esCfg := cfg.Database.Elasticsearch
	if esCfg.Enabled {
		err = retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(esCfg)
			if err != nil {
				return err
			}
			return esClient.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			return err
		}
		if err := esClient.EnsureIndex(ctx, esCfg.Index, searchindex.Mapping); err != nil {
			return err
		}
		index = searchindex.NewIndex(esClient.Client, esCfg.Index, log)
		zapLog.Info("Elasticsearch connected successfully")
	}

	store := storage.NewService(
		searchlog.NewRepository(pg.DB, log),
		userstore.NewStore(rdb.Client, userstore.Config{
			KeyPrefix:           cfg.Storage.KeyPrefix,
			HistoryLimit:        cfg.Storage.HistoryLimit,
			FavoritesLimit:      cfg.Storage.FavoritesLimit,
			RecentSearchesLimit: cfg.Storage.RecentSearchesLimit,
		}, log),
		index,
		log,
	)
	if esClient != nil {
		store.WithIndexPinger(esClient)
	}

	// --- Model client and search pipeline ---
	model := askmodel.NewHandler(askmodel.NewConfig(cfg.OpenRouter), log)
	if !model.HasCredential() {
		zapLog.Warn("openrouter api key not configured, searches will return degraded cards")
	}

	shaper := shaperesults.NewHandler(
		shaperesults.NewConfig(cfg.Search),
		model,
		resolvevariations.NewHandler(model, log),
		log,
	).WithRecorder(obs)

	assistantCfg := chatassistant.DefaultConfig()
	assistantCfg.Timeout = config.GetDuration(cfg.OpenRouter.Timeout)

	server := api.NewServer(&cfg.Server, api.Deps{
		Searcher:   shaper,
		Assistant:  chatassistant.NewHandler(assistantCfg, model, log),
		Aggregator: aggregateconsensus.NewHandler(model, log),
		Pages:      fetchpage.NewHandler(fetchpage.NewConfig(cfg.Fetch), log),
		Store:      store,
	}, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			zapLog.Error("HTTP server failed", zap.Error(err))
			return err
		}
	case <-sigCh:
		zapLog.Info("Shutdown signal received, stopping server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down HTTP server", zap.Error(err))
	}

	zapLog.Info("Chaysh server stopped gracefully")
	return nil
}
