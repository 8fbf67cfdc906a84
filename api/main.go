package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rogerio-castellano/product-catalog/internal/config"
	"github.com/rogerio-castellano/product-catalog/internal/db"
	api "github.com/rogerio-castellano/product-catalog/internal/http"
	"github.com/rogerio-castellano/product-catalog/internal/http/handlers"
	rl "github.com/rogerio-castellano/product-catalog/internal/http/rate_limiter"
	"github.com/rogerio-castellano/product-catalog/internal/observability"
	"github.com/rogerio-castellano/product-catalog/internal/redissvc"
	"github.com/rogerio-castellano/product-catalog/internal/repo"
	"github.com/rogerio-castellano/product-catalog/internal/worker"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// @title Product Catalog API
// @version 1.0
// @description Twelve-factor workshop API for listing and creating products.
// @host localhost:8080
// @BasePath /
func main() {
	configPath := flag.String("config", "", "path to a config file (default: ./config.yaml when present)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := start(ctx, *configPath); err != nil {
		fmt.Fprintf(os.Stderr, "product-catalog: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func start(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	return run(ctx, cfg)
}

// run binds the listen address and serves until ctx is cancelled.
func run(ctx context.Context, cfg *config.Config) error {
	// Bind before starting anything else so a taken port fails startup.
	listener, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Addr(), err)
	}
	return serve(ctx, cfg, listener)
}

// serve runs the service on listener and returns nil after a clean shutdown.
func serve(ctx context.Context, cfg *config.Config, listener net.Listener) error {
	defer listener.Close()

	logger, err := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer logger.Sync()

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfig{
		ServiceName: cfg.ServiceName,
		Endpoint:    cfg.OTLPEndpoint,
		SampleRate:  cfg.TraceSampleRate,
	})
	if err != nil {
		logger.Warn("failed to initialize tracing, continuing without it", zap.Error(err))
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownTracing(shutdownCtx); err != nil {
				logger.Warn("tracing shutdown failed", zap.Error(err))
			}
		}()
	}

	if cfg.ConfigAuthSecret == "" {
		logger.Warn("GET /config exposes the database connection string in cleartext; set CONFIG_AUTH_SECRET to protect it")
	}

	collector := observability.NewCollector("product_catalog")
	tp := otel.GetTracerProvider()

	var database *sql.DB
	var productRepo repo.ProductRepository
	database, err = db.Open(cfg.ConnectionString)
	if err != nil {
		logger.Error("database connection string rejected; product routes will answer 500", zap.Error(err))
		productRepo = repo.NewUnavailableProductRepository(err)
	} else {
		defer database.Close()
		if err := db.Ping(ctx, database); err != nil {
			logger.Warn("database not reachable at startup", zap.Error(err))
		}
		productRepo = repo.NewPostgresProductRepository(database)
	}
	productRepo = observability.NewInstrumentedProductRepository(productRepo, collector, tp)

	if err := productRepo.EnsureSchema(ctx); err != nil {
		logger.Error("could not ensure products schema", zap.Error(err))
	} else {
		logger.Info("products schema ready")
	}

	server := handlers.NewServer(productRepo, cfg.App(), logger)
	if database != nil {
		server.WithHealthCheck("database", func(ctx context.Context) error { return db.Ping(ctx, database) })
	}

	heartbeat, err := worker.NewHeartbeat(cfg.HeartbeatInterval, logger.Named("heartbeat"))
	if err != nil {
		return err
	}
	heartbeat.WithTickCounter(collector.Heartbeats)

	if cfg.RedisAddr != "" {
		redisService := redissvc.NewRedisService(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}), 3*cfg.HeartbeatInterval)
		defer redisService.Close()
		if err := redisService.Ping(ctx); err != nil {
			logger.Warn("redis not reachable at startup", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
		heartbeat.WithRecorder(redisService)
		server.WithHealthCheck("redis", redisService.Ping).WithHeartbeatReader(redisService)
	}

	var limiter *rl.Limiter
	if cfg.RateLimitRPS > 0 {
		limiter = rl.New(cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
	router := api.NewRouter(server, api.Options{
		ServiceName:        cfg.ServiceName,
		Logger:             logger,
		Collector:          collector,
		TracerProvider:     tp,
		Limiter:            limiter,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		ConfigAuthSecret:   cfg.ConfigAuthSecret,
	})

	httpServer := &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server running", zap.String("addr", listener.Addr().String()))
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		return heartbeat.Run(gctx)
	})
	if limiter != nil {
		g.Go(func() error {
			return limiter.StartVisitorCleanupLoop(gctx)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("server exited")
	return nil
}
