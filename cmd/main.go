package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/UnknownOlympus/kamakura/internal/catalog"
	"github.com/UnknownOlympus/kamakura/internal/comments"
	"github.com/UnknownOlympus/kamakura/internal/config"
	"github.com/UnknownOlympus/kamakura/internal/directions"
	"github.com/UnknownOlympus/kamakura/internal/metrics"
	"github.com/UnknownOlympus/kamakura/internal/service"
	"github.com/UnknownOlympus/kamakura/internal/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Constants for different environment types.
const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

// main is the entry point of the application.
func main() {
	// Create a context that will be canceled when an interrupt signal is received.
	// This allows for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load application configuration.
	cfg := config.MustLoad()

	// Set up the logger based on the environment.
	logger := setupLogger(cfg.Env)

	// Create a separate registry for metrics with exemplar
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	// Open the slot the comments are persisted into.
	slot, err := storage.NewSlot(ctx, storage.Config{
		Type: storage.Type(cfg.Storage.Type),
		Dir:  cfg.Storage.Path,
		Postgres: storage.PostgresConfig{
			Host:     cfg.Storage.Database.Host,
			Port:     cfg.Storage.Database.Port,
			User:     cfg.Storage.Database.User,
			Password: cfg.Storage.Database.Password,
			Name:     cfg.Storage.Database.Name,
		},
		Redis: storage.RedisConfig{
			Addr:     cfg.Storage.Redis.Addr,
			Password: cfg.Storage.Redis.Password,
			DB:       cfg.Storage.Redis.DB,
		},
		Logger: logger,
	})
	if err != nil {
		log.Fatalf("Failed to open comment storage: %v", err)
	}
	defer slot.Close()

	logger.InfoContext(ctx, "Comment storage initialized", "type", cfg.Storage.Type)

	store := comments.New(ctx, comments.Config{
		Slot:        slot,
		Key:         cfg.Storage.Key,
		StorageName: cfg.Storage.Type,
		ErrorTTL:    cfg.ErrorTTL,
		Logger:      logger,
		Metrics:     appMetrics,
	})
	if loadErr := store.LoadErr(); loadErr != nil {
		logger.WarnContext(ctx, "Starting with an empty comment collection", "error", loadErr)
	}

	// Create directions provider using factory pattern based on configuration
	routeProvider, err := directions.NewProvider(directions.ProviderConfig{
		Type:      directions.ProviderType(cfg.Directions.Type),
		APIKey:    cfg.Directions.APIKey,
		BaseURL:   cfg.Directions.URL,
		RateLimit: cfg.Directions.RateLimit,
		Logger:    logger,
	})
	if err != nil {
		log.Fatalf("Failed to create directions provider: %v", err)
	}

	logger.InfoContext(ctx, "Directions provider initialized", "type", cfg.Directions.Type)

	coordinator := service.NewCoordinator(service.Config{
		Store:          store,
		Locations:      catalog.Locations(),
		Directions:     routeProvider,
		DirectionsName: cfg.Directions.Type,
		Language:       catalog.StaticLanguage(cfg.Language),
		Logger:         logger,
		Metrics:        appMetrics,
	})

	// Log that the application has started.
	logger.InfoContext(ctx, "Application started. Press Ctrl+C to stop.")

	// Start the monitoring server in a goroutine to allow main to listen for signals.
	go startMonitoringServer(ctx, logger, reg, slot, cfg.Port)

	var workers sync.WaitGroup
	workers.Add(2)
	go func() {
		defer workers.Done()
		store.Run(ctx)
	}()
	go func() {
		defer workers.Done()
		coordinator.Run(ctx)
	}()

	if cfg.SeedSamples {
		if _, err = coordinator.SeedSamples(ctx); err != nil {
			logger.ErrorContext(ctx, "Failed to seed sample comments", "error", err)
		}
	}

	logger.InfoContext(ctx, "Map ready",
		"locations", len(catalog.Locations()),
		"comments", len(store.Comments()),
		"items", len(coordinator.Items()))

	// Wait for the context to be canceled (e.g., by Ctrl+C).
	<-ctx.Done()

	// Log that a shutdown signal has been received.
	logger.InfoContext(ctx, "Shutdown signal received. Stopping application...")

	coordinator.Wait()
	workers.Wait()

	// Log graceful shutdown completion.
	logger.InfoContext(ctx, "Application stopped gracefully.")
}

// startMonitoringServer starts an HTTP server that provides health check and metrics endpoints.
// It listens on the specified port and logs the server's status and any errors encountered.
//
// Parameters:
// - ctx: A context.Context for managing cancellation and timeouts.
// - log: A logger for logging server events and errors.
// - reg: A registry with Prometheus collectors.
// - slot: The comment storage, pinged by the health check
// - port: The port number on which the server will listen.
func startMonitoringServer(
	ctx context.Context,
	log *slog.Logger,
	reg *prometheus.Registry,
	slot storage.Slot,
	port int,
) {
	http.HandleFunc("/healthz", healthHandler(ctx, log, slot))
	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	log.InfoContext(ctx, "Starting monitoring server", "port", port)
	readTimeout := 5
	writeTimeout := 10
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      http.DefaultServeMux,
		ReadTimeout:  time.Duration(readTimeout) * time.Second,
		WriteTimeout: time.Duration(writeTimeout) * time.Second,
	}
	if err := server.ListenAndServe(); err != nil {
		log.ErrorContext(ctx, "Monitoring server failed", "error", err)
	}
}

// healthHandler answers 200 while the comment storage answers a ping and 503
// otherwise.
func healthHandler(ctx context.Context, log *slog.Logger, slot storage.Slot) http.HandlerFunc {
	return func(writer http.ResponseWriter, _ *http.Request) {
		log.DebugContext(ctx, "Performing health checks...")
		status, body := http.StatusOK, "OK"
		if err := slot.Ping(ctx); err != nil {
			status, body = http.StatusServiceUnavailable, "storage ping failed"
		}
		writer.WriteHeader(status)
		_, err := writer.Write([]byte(body))
		if err != nil {
			log.ErrorContext(ctx, "failed to write reply", "error", err)
		}

		log.DebugContext(ctx, "Health checks completed", "status", status)
	}
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelDebug,
				AddSource: true,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					return a
				},
			}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelInfo,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					return a
				},
			}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelWarn,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{}
					}
					return a
				},
			}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelError,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{}
					}
					return a
				},
			}),
		)

		log.Error(
			"The env parameter was not specified	 or was invalid. Logging will be minimal, by default.",
			slog.String("available_envs", "local, development, production"))
	}

	return log
}
