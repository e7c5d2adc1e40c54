package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pomodoro/timer/internal/audio"
	"pomodoro/timer/internal/config"
	"pomodoro/timer/internal/db"
	"pomodoro/timer/internal/handler"
	"pomodoro/timer/internal/logging"
	"pomodoro/timer/internal/pubsub"
	"pomodoro/timer/internal/repository"
	"pomodoro/timer/internal/router"
	"pomodoro/timer/internal/service"
	"pomodoro/timer/internal/settings"
	"pomodoro/timer/internal/timer"
)

const shutdownTimeout = 10 * time.Second

var (
	cfgFile string
	port    string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:           "pomodoro",
	Short:         "Run the pomodoro timer server",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServer,
}

var initConfigCmd = &cobra.Command{
	Use:   "init-config [path]",
	Short: "Write a default config file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "pomodoro.yaml"
		if len(args) == 1 {
			path = args[0]
		}
		if err := config.WriteDefault(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ./pomodoro.yaml or the user config dir)")
	rootCmd.Flags().StringVarP(&port, "port", "p", "", "port to listen on (overrides config)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(initConfigCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if port != "" {
		cfg.Server.Port = port
	}
	if verbose {
		cfg.Log.Level = "debug"
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	database, err := db.OpenSQLite(cfg.DB.Path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer database.Close()

	if err := db.RunMigrations(database, db.MigrationsFrom(cfg.DB.MigrationsDir)); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	broker := pubsub.NewBroker[any]()
	defer broker.Close()

	initial := cfg.Settings()
	store := settings.NewStore(initial)
	engine := timer.New(
		timer.Durations{Work: initial.WorkDurationSeconds, Break: initial.BreakDurationSeconds},
		timer.Options{AppName: cfg.AppName, TickInterval: cfg.Timer.TickInterval, Logger: logger},
	)
	defer engine.Close()

	player := audio.Multi{audio.NewBroadcastPlayer(broker, audio.DefaultAssets), audio.NewLogPlayer(logger)}
	sessionService := service.NewSessionService(repository.NewSessionRepository(database), broker, cfg.Sessions.Retention, logger)
	settingsService := service.NewSettingsService(store, broker)
	timerService := service.NewTimerService(engine, sessionService, store, player, broker, logger)

	handlers := router.Handlers{
		Timer:    handler.NewTimerHandler(timerService),
		Sessions: handler.NewSessionHandler(sessionService),
		Settings: handler.NewSettingsHandler(settingsService),
		Events:   handler.NewEventsHandler(broker, timerService),
	}
	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router.New(handlers, cfg.Server.CORSOrigins, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			zap.String("addr", server.Addr),
			zap.String("db", cfg.DB.Path),
			zap.Int("work_seconds", initial.WorkDurationSeconds),
			zap.Int("break_seconds", initial.BreakDurationSeconds))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("run server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	// Streams only end once the broker closes their channels.
	engine.Close()
	broker.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}
	return nil
}
