package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pomodoro/timer/internal/config"
	"pomodoro/timer/internal/db"
	"pomodoro/timer/internal/logging"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:           "migrate",
	Short:         "Apply session log migrations",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runMigrate,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runMigrate(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if cfg.DB.Path == db.MemoryPath {
		logger.Warn("database is in memory; migrations will not persist")
	}

	database, err := db.OpenSQLite(cfg.DB.Path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer database.Close()

	if err := db.RunMigrations(database, db.MigrationsFrom(cfg.DB.MigrationsDir)); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	applied, err := db.AppliedMigrations(database)
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	logger.Info("migrations applied", zap.Strings("applied", applied), zap.String("db", cfg.DB.Path))
	return nil
}
