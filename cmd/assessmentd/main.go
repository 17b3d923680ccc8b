package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/loanlens/assessment/internal/application/usecase"
	"github.com/loanlens/assessment/internal/domain/service"
	"github.com/loanlens/assessment/internal/infrastructure/cache"
	"github.com/loanlens/assessment/internal/infrastructure/config"
	"github.com/loanlens/assessment/internal/infrastructure/kafka"
	"github.com/loanlens/assessment/internal/infrastructure/metrics"
	pgRepo "github.com/loanlens/assessment/internal/infrastructure/persistence/postgres"
	grpcPresentation "github.com/loanlens/assessment/internal/presentation/grpc"
	"github.com/loanlens/assessment/internal/presentation/rest"
	"github.com/loanlens/assessment/pkg/auth"
	"github.com/loanlens/assessment/pkg/events"
	pkgkafka "github.com/loanlens/assessment/pkg/kafka"
	"github.com/loanlens/assessment/pkg/observability"
	pkgpostgres "github.com/loanlens/assessment/pkg/postgres"
	"github.com/loanlens/assessment/pkg/tlsutil"
)

func main() {
	if err := run(); err != nil {
		slog.Error("assessment-service exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg := config.Load()

	logger := observability.InitLogger(observability.LogConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger.Info("starting assessment-service",
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
	)

	// Tracing and metrics.
	shutdownTracer, err := observability.InitTracer(ctx, observability.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Endpoint:    cfg.Telemetry.OTLPEndpoint,
		Insecure:    true,
	})
	if err != nil {
		logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
	} else {
		defer func() { _ = shutdownTracer(context.Background()) }() //nolint:errcheck // best-effort tracer shutdown
	}

	meterProvider, metricsHandler, err := observability.InitMetrics()
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}
	defer func() { _ = meterProvider.Shutdown(context.Background()) }() //nolint:errcheck
	recorder := metrics.New()

	// Database connection and migrations.
	dbCfg := pkgpostgres.Config{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Database: cfg.DB.Name,
		SSLMode:  cfg.DB.SSLMode,
		MaxConns: cfg.DB.MaxConns,
		MinConns: cfg.DB.MinConns,
	}

	dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
	defer dbCancel()

	pool, err := pkgpostgres.NewPool(dbCtx, dbCfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()
	logger.Info("connected to database")

	if err := pkgpostgres.RunMigrations(dbCfg.DSN(), pgRepo.Migrations, pgRepo.MigrationsDir); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	// Redis cache.
	redisClient, err := cache.NewClient(dbCtx, cfg.Redis.URL)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()

	// Wire infrastructure adapters.
	repo := pgRepo.NewAssessmentRepo(pool)
	assessmentCache := cache.NewAssessmentCache(cache.NewRedisStore(redisClient), cfg.Redis.CacheTTL)

	kafkaCfg := cfg.Kafka.Client()
	producer := pkgkafka.NewProducer(kafkaCfg)
	defer producer.Close()
	relay := events.NewRelay(
		pgRepo.NewOutboxRepo(pool),
		kafka.NewEventPublisher(producer, cfg.Kafka.EventsTopic, logger),
		events.RelayConfig{Interval: cfg.Outbox.Interval, BatchSize: cfg.Outbox.BatchSize},
		logger,
	)

	engine := service.NewAssessmentEngine()

	// Wire use cases.
	assessUC := usecase.NewAssessApplicationUseCase(repo, assessmentCache, engine, recorder, logger)
	previewUC := usecase.NewPreviewAssessmentUseCase(engine)
	getUC := usecase.NewGetAssessmentUseCase(repo, assessmentCache, logger)
	unlockUC := usecase.NewUnlockReportUseCase(repo, assessmentCache, cfg.ReportFee, recorder, logger)

	consumer := pkgkafka.NewConsumer(kafkaCfg, cfg.Kafka.PaymentsTopic,
		kafka.NewPaymentHandler(unlockUC, logger), logger,
		pkgkafka.WithRetryPolicy(cfg.Kafka.Retry()),
		pkgkafka.WithDeadLetter(producer, cfg.Kafka.DeadLetterTopic),
	)
	defer consumer.Close()

	jwtSvc, err := newJWTService(cfg.JWT)
	if err != nil {
		return fmt.Errorf("initialize JWT service: %w", err)
	}

	certFile, keyFile := cfg.TLS.CertFile, cfg.TLS.KeyFile
	if cfg.TLS.Dev {
		devCerts, err := tlsutil.EnsureDevCertificates(cfg.TLS.DevDir, cfg.TLS.DevHosts)
		if err != nil {
			return fmt.Errorf("prepare development certificates: %w", err)
		}
		certFile, keyFile = devCerts.CertFile, devCerts.KeyFile
		logger.Warn("serving gRPC with a development certificate", "ca_file", devCerts.CAFile)
	}

	// gRPC server.
	handler := grpcPresentation.NewAssessmentHandler(assessUC, previewUC, getUC, unlockUC, logger)
	grpcServer, err := grpcPresentation.NewServer(handler, grpcPresentation.ServerOptions{
		JWT:         jwtSvc,
		TLSCertFile: certFile,
		TLSKeyFile:  keyFile,
		Reflection:  cfg.GRPCReflection,
	}, logger)
	if err != nil {
		return fmt.Errorf("create gRPC server: %w", err)
	}

	// HTTP server (health checks and metrics).
	mux := http.NewServeMux()
	rest.NewHealthHandler(map[string]rest.Checker{
		"postgres": func(ctx context.Context) error { return pkgpostgres.HealthCheck(ctx, pool) },
		"redis":    redisClient.Health,
	}, logger).RegisterRoutes(mux, metricsHandler)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := grpcServer.Serve(cfg.GRPCAddr()); err != nil {
			return fmt.Errorf("gRPC server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		logger.Info("HTTP server starting", "port", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return consumer.Start(gctx)
	})

	g.Go(func() error {
		return relay.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutdown signal received")

		grpcServer.GracefulStop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", "error", err)
		}
		return nil
	})

	err = g.Wait()
	logger.Info("assessment-service stopped")
	return err
}

// newJWTService builds a validation-only JWT service, preferring a public key
// over a shared secret. It returns nil when no key material is configured.
func newJWTService(cfg config.JWTConfig) (*auth.JWTService, error) {
	jwtCfg := auth.JWTConfig{Issuer: cfg.Issuer}
	switch {
	case cfg.PublicKey != "":
		jwtCfg.PublicKeyPEM = cfg.PublicKey
	case cfg.PublicKeyFile != "":
		keyData, err := auth.LoadKeyFromFile(cfg.PublicKeyFile)
		if err != nil {
			return nil, fmt.Errorf("load JWT public key file: %w", err)
		}
		jwtCfg.PublicKeyPEM = string(keyData)
	case cfg.Secret != "":
		jwtCfg.Secret = cfg.Secret
	default:
		return nil, nil
	}
	return auth.NewJWTService(jwtCfg)
}
