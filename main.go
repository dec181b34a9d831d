package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"jdeprez/immoharvester/config"
	"jdeprez/immoharvester/helpers"
	"jdeprez/immoharvester/logger"
	"jdeprez/immoharvester/services/checkpoint"
	"jdeprez/immoharvester/services/session"
	"jdeprez/immoharvester/services/sink"
	"jdeprez/immoharvester/services/worker"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	// Load and validate configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	helpers.SetTimeout(cfg.HTTPTimeout)

	log.Info().
		Str("environment", cfg.Environment).
		Strs("modes", cfg.HarvestModes).
		Int("concurrency", cfg.Concurrency).
		Str("output", cfg.OutputPath).
		Msg("Starting application")

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Initialize the record sink and checkpoint store
	out, store, err := initializeServices(ctx, &cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize services")
	}
	defer out.Close()

	s := session.New(cfg, out, store)

	// Start the harvest in a goroutine
	type runResult struct {
		stats worker.Stats
		err   error
	}
	done := make(chan runResult, 1)
	go func() {
		stats, err := s.Run(ctx)
		done <- runResult{stats: stats, err: err}
	}()

	// Wait for shutdown signal or run completion
	select {
	case sig := <-sigChan:
		log.Info().
			Str("signal", sig.String()).
			Msg("Received shutdown signal")
		cancel()
		result := <-done
		log.Info().
			Int("written", result.stats.Written).
			Int("failed", result.stats.Failed).
			Msg("Harvest interrupted")
	case result := <-done:
		if result.err != nil {
			log.Error().
				Err(result.err).
				Int("written", result.stats.Written).
				Int("failed", result.stats.Failed).
				Msg("Harvest exited with error")
		} else {
			log.Info().
				Int("pages", result.stats.Pages).
				Int("written", result.stats.Written).
				Int("failed", result.stats.Failed).
				Msg("Harvest complete")
		}
	}

	// Graceful shutdown
	log.Info().Msg("Shutting down gracefully...")
}

// initializeServices builds the configured record sink (CSV always, plus
// the optional Postgres and Redis sinks) and the checkpoint store
func initializeServices(ctx context.Context, cfg *config.Config) (sink.RecordSink, checkpoint.Store, error) {
	csvSink, err := sink.NewCSVSink(cfg.OutputPath)
	if err != nil {
		return nil, nil, err
	}
	sinks := []sink.RecordSink{csvSink}

	if cfg.PostgresDSN != "" {
		pgSink, err := sink.NewPostgresSink(cfg.PostgresDSN)
		if err != nil {
			csvSink.Close()
			return nil, nil, err
		}
		sinks = append(sinks, pgSink)
		logger.Info("Connected to Postgres")
	}

	if cfg.RedisAddr != "" {
		redisSink := sink.NewRedisSink(ctx, cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream, cfg.RedisStreamMaxLength)
		sinks = append(sinks, redisSink)
		logger.Info("Publishing to Redis at %s (DB: %d, Stream: %s)",
			cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream)
	}

	var out sink.RecordSink = csvSink
	if len(sinks) > 1 {
		out = sink.NewMultiSink(sinks...)
	}

	var store checkpoint.Store
	if cfg.MemcacheAddr != "" {
		store = checkpoint.NewMemcacheStore(cfg.MemcacheAddr)
		logger.Info("Checkpointing to Memcache at %s", cfg.MemcacheAddr)
	}

	return out, store, nil
}
