package main

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	httpin "admin_console/internal/adapters/inbound/http"
	kafkain "admin_console/internal/adapters/inbound/kafka"
	"admin_console/internal/adapters/outbound/backend"
	"admin_console/internal/adapters/outbound/cache"
	kafkaout "admin_console/internal/adapters/outbound/kafka"
	"admin_console/internal/adapters/outbound/postgres"
	"admin_console/internal/app/config"
	"admin_console/internal/app/runtime"
	"admin_console/internal/core/service"
	"admin_console/internal/migrations"
	"admin_console/internal/ports/outbound"
	"admin_console/internal/web"
)

func main() {
	ctx, stop := runtime.NotifyContext(context.Background())
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	level, _ := config.ParseLevel(cfg.LogLevel)
	logger := runtime.NewLogger(os.Stdout, level, cfg.Version)
	slog.SetDefault(logger)

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("fatal", slog.Any("err", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	closers := runtime.NewClosers(logger)
	defer closers.Close(context.Background())

	client, err := backend.NewClient(cfg.BackendURL, cfg.BackendTimeout)
	if err != nil {
		return fmt.Errorf("backend: %w", err)
	}

	views := cache.NewMemoryViewStore(cfg.SessionIdleTTL)
	closers.Add("views", func(ctx context.Context) error {
		views.CloseAll(ctx)
		return nil
	})
	go views.RunSweeper(ctx, cfg.SessionSweepInt, func(n int) {
		hits, misses, evicted := views.Stats()
		logger.Info("evicted idle views",
			slog.Int("count", n),
			slog.Int("live", views.Len(ctx)),
			slog.Uint64("hits", hits),
			slog.Uint64("misses", misses),
			slog.Uint64("evicted_total", evicted),
		)
	})

	var (
		publisher outbound.StatusChangePublisher
		audit     outbound.StatusChangeRepository
	)
	if cfg.AuditEnabled() {
		db, err := postgres.New(ctx, cfg.DatabaseURL, postgres.PoolConfig{})
		if err != nil {
			return fmt.Errorf("db init: %w", err)
		}
		closers.Add("db", func(context.Context) error {
			db.Close()
			return nil
		})

		var migFS fs.FS = migrations.FS
		if cfg.MigrationsDir != "" {
			migFS = os.DirFS(cfg.MigrationsDir)
		}
		migCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		err = postgres.RunMigrations(migCtx, db.Pool, migFS)
		cancel()
		if err != nil {
			return fmt.Errorf("migrations: %w", err)
		}

		audit = postgres.NewStatusChangeRepository(db.Pool)

		producer := kafkaout.NewProducer(kafkaout.ProducerConfig{
			Brokers: cfg.KafkaBrokers,
			Topic:   cfg.KafkaTopic,
		})
		closers.Add("kafka producer", func(context.Context) error { return producer.Close() })
		publisher = producer
		logger.Info("audit pipeline enabled", slog.String("topic", cfg.KafkaTopic))
	} else {
		logger.Info("audit pipeline disabled; set DATABASE_URL and KAFKA_BROKERS to enable")
	}

	svc := service.NewDashboardService(client, views, publisher, audit, logger)

	if cfg.AuditEnabled() {
		consumer := kafkain.NewConsumer(kafkain.ConsumerConfig{
			Brokers:  cfg.KafkaBrokers,
			Topic:    cfg.KafkaTopic,
			GroupID:  cfg.KafkaConsumerGroup,
			MinBytes: cfg.KafkaMinBytes,
			MaxBytes: cfg.KafkaMaxBytes,
		}, svc, logger)
		closers.Add("kafka consumer", func(context.Context) error { return consumer.Close() })
		go consumer.Run(ctx)
	}

	sessions, err := httpin.NewSessionManager([]byte(cfg.SessionSecret), cfg.SessionSecure)
	if err != nil {
		return err
	}
	renderer, err := httpin.NewRenderer(web.MustFS(), httpin.NewFooterView(cfg.Version, time.Now))
	if err != nil {
		return err
	}

	router := httpin.NewRouter(
		httpin.NewHandlers(svc, logger),
		httpin.NewUI(svc, sessions, renderer, logger),
		web.Static(),
		logger,
	)
	httpSrv := runtime.NewHTTPServer(cfg.HTTPAddr, router, logger)
	httpSrv.Start()
	logger.Info("admin console started", slog.String("backend", cfg.BackendURL))

	<-ctx.Done()
	logger.Info("shutdown signal received")

	if err := httpSrv.Shutdown(context.Background(), cfg.ShutdownTimeout); err != nil {
		logger.Error("http shutdown", slog.Any("err", err))
	}
	return nil
}
