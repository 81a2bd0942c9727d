package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"habitrpg/config"
	"habitrpg/internal/application/usecase"
	"habitrpg/internal/clock"
	"habitrpg/internal/infrastructure/cache"
	"habitrpg/internal/infrastructure/repository"
	"habitrpg/internal/infrastructure/security"
	"habitrpg/internal/logger"
	"habitrpg/internal/middleware"
	"habitrpg/internal/scheduler"
	grpc_server "habitrpg/internal/transport/grpc"
	handlers "habitrpg/internal/transport/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const (
	refreshTokenTTL   = 7 * 24 * time.Hour
	weeklyCacheTTL    = 10 * time.Minute
	shutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 5 * time.Second
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal("failed to load config", "err", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid config", "err", err)
	}

	logg, err := logger.New(logger.Config{Debug: cfg.LogDebug, Dir: cfg.LogDir})
	if err != nil {
		log.Fatal("failed to init logger", "err", err)
	}
	if !cfg.LogDebug {
		gin.SetMode(gin.ReleaseMode)
	}

	loc, err := cfg.Location()
	if err != nil {
		logg.Fatal("unknown RESET_TIMEZONE", "tz", cfg.ResetTimezone, "err", err)
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		logg.Fatal("failed to connect to DB", "err", err)
	}
	if err := repository.Migrate(db); err != nil {
		logg.Fatal("failed to migrate DB", "err", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		logg.Fatal("failed to connect to Redis", "addr", cfg.RedisAddr, "err", err)
	}
	logg.Info("connected to Redis", "addr", cfg.RedisAddr)

	store := repository.NewStore(db)
	if n, err := usecase.SeedCatalog(context.Background(), store); err != nil {
		logg.Fatal("failed to seed catalog", "err", err)
	} else if n > 0 {
		logg.Info("seeded catalog", "entries", n)
	}

	clk := clock.System{Location: loc}
	tokenManager := security.NewTokenManager(cfg.AccessSecret, cfg.RefreshSecret)

	authUseCase := usecase.NewAuthUseCase(
		store,
		cache.NewTokenCache(rdb, refreshTokenTTL),
		security.NewPasswordHasher(),
		tokenManager,
		logg,
	)
	habitUseCase := usecase.NewHabitUseCase(store, clk, cache.NewProgressCache(rdb, weeklyCacheTTL), logg)

	router := handlers.NewRouter(handlers.RouterConfig{
		AllowedOrigins: cfg.Origins(),
		AdminKey:       cfg.AdminKey,
		Logger:         logg,
		Limiter:        middleware.NewRateLimiter(rdb),
		Tokens:         authUseCase,
	}, handlers.Handlers{
		Auth:    handlers.NewAuthHandler(authUseCase),
		Habits:  handlers.NewHabitHandler(habitUseCase, clk),
		Profile: handlers.NewProfileHandler(usecase.NewProfileUseCase(store)),
		Catalog: handlers.NewCatalogHandler(usecase.NewRewardUseCase(store, logg), usecase.NewAvatarUseCase(store)),
		Admin:   handlers.NewAdminHandler(habitUseCase, clk),
	})

	httpServer := &http.Server{
		Addr:              cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	grpcServer, healthServer := grpc_server.NewServer(grpc_server.NewOpsServer(habitUseCase, clk), cfg.AdminKey, logg)
	lis, err := net.Listen("tcp", cfg.GRPCPort)
	if err != nil {
		logg.Fatal("failed to listen", "addr", cfg.GRPCPort, "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	go func() {
		logg.Info("HTTP API listening", "addr", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Fatal("HTTP server failed", "err", err)
		}
	}()

	go func() {
		logg.Info("gRPC ops listening", "addr", cfg.GRPCPort)
		if err := grpcServer.Serve(lis); err != nil {
			logg.Fatal("gRPC server failed", "err", err)
		}
	}()

	if cfg.ResetEnabled {
		daily := scheduler.NewDaily(habitUseCase, cache.NewResetLock(rdb), loc, logg)
		go func() {
			if err := daily.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logg.Error("daily reset scheduler stopped", "err", err)
			}
		}()
		logg.Info("daily reset scheduler started", "tz", loc.String())
	}

	<-ctx.Done()
	logg.Info("shutting down")

	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logg.Error("HTTP shutdown", "err", err)
	}
	grpcServer.GracefulStop()

	if err := rdb.Close(); err != nil {
		logg.Error("redis close", "err", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
