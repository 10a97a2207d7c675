// Command redflagsd serves red-flag analyses over gRPC and consumes analysis
// requests from Kafka.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/akashent3/redflags-sub002/internal/application/usecase"
	"github.com/akashent3/redflags-sub002/internal/domain/port"
	"github.com/akashent3/redflags-sub002/internal/domain/service"
	"github.com/akashent3/redflags-sub002/internal/infrastructure/config"
	infrakafka "github.com/akashent3/redflags-sub002/internal/infrastructure/kafka"
	"github.com/akashent3/redflags-sub002/internal/infrastructure/postgres"
	grpcpresentation "github.com/akashent3/redflags-sub002/internal/presentation/grpc"
	"github.com/akashent3/redflags-sub002/internal/presentation/rest"
	"github.com/akashent3/redflags-sub002/migrations"
	"github.com/akashent3/redflags-sub002/pkg/events"
	pkgkafka "github.com/akashent3/redflags-sub002/pkg/kafka"
	"github.com/akashent3/redflags-sub002/pkg/observability"
	pgutil "github.com/akashent3/redflags-sub002/pkg/postgres"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML configuration file")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, *configPath); err != nil {
		slog.Error("redflagsd exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string) error {
	// Load configuration. Any configuration error is fatal.
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := observability.InitLogger(observability.LogConfig{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	logger.Info("starting redflags-service",
		"http_port", cfg.Server.HTTPPort,
		"grpc_port", cfg.Server.GRPCPort,
		"environment", cfg.Environment,
	)

	// Tracing is optional.
	if cfg.Telemetry.OTLPEndpoint != "" {
		shutdown, err := observability.InitTracer(ctx, observability.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Environment: cfg.Environment,
			Endpoint:    cfg.Telemetry.OTLPEndpoint,
			SampleRatio: cfg.Telemetry.SampleRatio,
			Insecure:    true,
		})
		if err != nil {
			logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
		} else {
			defer func() {
				flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer flushCancel()
				_ = shutdown(flushCtx)
			}()
		}
	}

	meterProvider, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{
		ServiceName: cfg.Telemetry.ServiceName,
	})
	if err != nil {
		return err
	}
	defer func() { _ = meterProvider.Shutdown(context.Background()) }()

	engineMetrics, err := observability.NewEngineMetrics(meterProvider.Meter("redflags"))
	if err != nil {
		return err
	}

	// Domain engine.
	engine, err := service.NewEngine(cfg.EngineConfig(), logger)
	if err != nil {
		return err
	}
	logger.Info("flag catalog loaded", "flags", engine.Catalog.Len())

	// Database connection.
	dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
	defer dbCancel()

	pool, err := pgutil.NewPool(dbCtx, pgutil.Config{
		URL:      cfg.Database.URL,
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()
	logger.Info("connected to database")

	if cfg.Database.MigrateOnStart {
		if err := pgutil.RunMigrations(cfg.Database.URL, migrations.FS); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		logger.Info("database migrations applied")
	}

	// Wire infrastructure adapters.
	analysisRepo := postgres.NewAnalysisRepository(pool)
	caseRepo := postgres.NewCaseRepository(pool)
	feed := postgres.NewFinancialFeed(pool)
	narrative := postgres.NewNarrativeStore(pool)

	var publisher port.EventPublisher = discardPublisher{logger: logger}
	if cfg.Kafka.Enabled {
		producer, err := pkgkafka.NewProducer(cfg.KafkaClient())
		if err != nil {
			return fmt.Errorf("failed to create kafka producer: %w", err)
		}
		defer func() { _ = producer.Close() }()
		publisher = infrakafka.NewPublisher(producer, cfg.Kafka.EventsTopic, logger)
	} else {
		logger.Warn("kafka disabled, domain events are not published")
	}

	// Wire use cases.
	analyzeCompanyUC := usecase.NewAnalyzeCompany(engine, feed, narrative, analysisRepo, publisher, engineMetrics, logger)
	getAnalysisUC := usecase.NewGetAnalysis(analysisRepo, engine.Catalog)
	matchPatternsUC := usecase.NewMatchPatterns(analysisRepo, caseRepo, engine)
	recordCaseUC := usecase.NewRecordCase(caseRepo, engine.Catalog, logger)

	// gRPC server.
	grpcHandler := grpcpresentation.NewRedFlagsHandler(analyzeCompanyUC, getAnalysisUC, matchPatternsUC, recordCaseUC, logger)
	grpcServer, err := grpcpresentation.NewServer(grpcHandler, grpcpresentation.ServerConfig{
		Address:     cfg.GRPCAddress(),
		TLSCertFile: cfg.Server.TLSCertFile,
		TLSKeyFile:  cfg.Server.TLSKeyFile,
		Reflection:  cfg.Server.Reflection,
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to create gRPC server: %w", err)
	}

	// HTTP server (health checks and metrics).
	healthHandler := rest.NewHealthHandler(logger, map[string]rest.ReadinessCheck{
		"database": func(ctx context.Context) error { return pgutil.HealthCheck(ctx, pool) },
	}, metricsHandler)
	httpMux := http.NewServeMux()
	healthHandler.RegisterRoutes(httpMux)

	httpServer := &http.Server{
		Addr:         cfg.HTTPAddress(),
		Handler:      rest.RequestLogger(logger)(httpMux),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start servers.
	errCh := make(chan error, 3)

	go func() {
		if err := grpcServer.Start(); err != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	go func() {
		logger.Info("HTTP server starting", "address", cfg.HTTPAddress())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	if cfg.Kafka.Enabled {
		requests := infrakafka.NewAnalysisRequestConsumer(analyzeCompanyUC, logger)
		consumer, err := pkgkafka.NewConsumer(cfg.KafkaClient(), cfg.Kafka.RequestsTopic, requests.Handle, logger)
		if err != nil {
			return fmt.Errorf("failed to create kafka consumer: %w", err)
		}
		defer func() { _ = consumer.Close() }()

		go func() {
			if err := consumer.Start(ctx); err != nil {
				errCh <- fmt.Errorf("kafka consumer error: %w", err)
			}
		}()
	}

	logger.Info("redflags-service started",
		"grpc_address", cfg.GRPCAddress(),
		"http_address", cfg.HTTPAddress(),
	)

	// Wait for shutdown signal.
	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case runErr = <-errCh:
		logger.Error("server error", "error", runErr)
	}

	// Graceful shutdown.
	logger.Info("shutting down redflags-service")

	grpcServer.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("redflags-service stopped")
	return runErr
}

var _ port.EventPublisher = discardPublisher{}

// discardPublisher stands in for Kafka when it is disabled.
type discardPublisher struct {
	logger *slog.Logger
}

func (p discardPublisher) Publish(ctx context.Context, evts ...events.DomainEvent) error {
	for _, evt := range evts {
		p.logger.DebugContext(ctx, "event not published", "event_type", evt.EventType(), "aggregate_id", evt.AggregateID())
	}
	return nil
}
