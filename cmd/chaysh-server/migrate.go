// cmd/chaysh-server/migrate.go
package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"chaysh/internal/common/database"
	"chaysh/internal/common/logger"
	"chaysh/internal/storage/searchindex"
)

func migrateCMD() *cobra.Command {
	var cfgPath string

	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Create the search log tables and the search index",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cfgPath)
			if err != nil {
				return err
			}

			zapLog, err := logger.NewFromConfig(cfg.Logging)
			if err != nil {
				return err
			}
			defer zapLog.Sync() //nolint:errcheck

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()

			pg, err := database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			defer pg.Close()

			if err := pg.EnsureSchema(ctx); err != nil {
				return err
			}
			zapLog.Info("postgres schema ready", zap.String("database", cfg.Database.Postgres.Database))

			if !cfg.Database.Elasticsearch.Enabled {
				return nil
			}
			es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			if err := es.EnsureIndex(ctx, cfg.Database.Elasticsearch.Index, searchindex.Mapping); err != nil {
				return err
			}
			zapLog.Info("search index ready", zap.String("index", cfg.Database.Elasticsearch.Index))
			return nil
		},
	}
	migrate.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (default is ./configs)")

	return migrate
}
