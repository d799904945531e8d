package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/danielhkuo/gather/cliparse"
	"github.com/danielhkuo/gather/db"
	"github.com/danielhkuo/gather/logging"
	"github.com/danielhkuo/gather/notify"
	"github.com/danielhkuo/gather/router"
)

func main() {
	if err := cliparse.LoadDotEnv(".env"); err != nil {
		logging.Error().Err(err).Msg("Error loading .env")
		os.Exit(1)
	}

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		logging.Error().Err(err).Msg("Error parsing flags")
		os.Exit(1)
	}

	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	// Connect to the database
	store, err := db.Open(db.Dialect(cfg.DatabaseType), cfg.DatabaseURL)
	if err != nil {
		logging.Error().Err(err).Str("type", cfg.DatabaseType).Msg("database connection failed")
		os.Exit(1)
	}
	defer store.Close()

	// Create schema (tables)
	if err := db.CreateSchema(store); err != nil {
		logging.Error().Err(err).Msg("schema creation failed")
		os.Exit(1)
	}
	logging.Info().Str("type", cfg.DatabaseType).Msg("Database schema ready")

	var notifier notify.Notifier = notify.LogNotifier{}
	if len(cfg.KafkaBrokers) > 0 {
		notifier = notify.NewKafkaNotifier(cfg.KafkaBrokers, cfg.KafkaTopic)
		logging.Info().
			Strs("brokers", cfg.KafkaBrokers).
			Str("topic", cfg.KafkaTopic).
			Msg("Publishing promotions to Kafka")
	}
	defer notifier.Close()

	server := http.Server{
		Handler:           router.NewRouter(store, cfg, notifier),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctrlc
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logging.Warn().Err(err).Msg("graceful shutdown failed")
			server.Close()
		}
	}()

	logging.Info().Int("port", cfg.Port).Msg("Listening")
	err = server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		logging.Error().Err(err).Msg("Server closed")
	} else {
		logging.Info().Msg("Server closed")
	}
}
