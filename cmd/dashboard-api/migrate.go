package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sorajobs/admin-dashboard/internal/config"
	"github.com/sorajobs/admin-dashboard/internal/store"
	"github.com/sorajobs/admin-dashboard/pkg/log"
	"github.com/sorajobs/admin-dashboard/pkg/migrations"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate the db",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.New()
		if err != nil {
			return err
		}

		logLvl, err := zap.ParseAtomicLevel(cfg.Service.LogLevel)
		if err != nil {
			logLvl = zap.NewAtomicLevelAt(zapcore.InfoLevel)
		}

		logger := log.InitLog(logLvl)
		defer func() { _ = logger.Sync() }()
		undo := zap.ReplaceGlobals(logger)
		defer undo()

		zap.S().Info("Initializing data store")
		db, err := store.InitDB(cfg)
		if err != nil {
			zap.S().Fatalw("initializing data store", "error", err)
		}

		s := store.NewStore(db)
		defer s.Close()

		// Migrations run from SQL files when a folder is configured,
		// otherwise the gorm auto migration applies the schema.
		if cfg.Service.MigrationFolder != "" {
			if err := migrations.MigrateStore(db, cfg.Service.MigrationFolder); err != nil {
				zap.S().Fatalw("running migrations", "error", err)
			}
		} else if err := s.InitialMigration(context.Background()); err != nil {
			zap.S().Fatalw("running initial migration", "error", err)
		}

		zap.S().Info("Db migrated")
		return nil
	},
}
