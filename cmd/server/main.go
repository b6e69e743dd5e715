package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/taskline/backend/api/handler"
	"github.com/taskline/backend/internal/config"
	"github.com/taskline/backend/internal/infrastructure/audit"
	"github.com/taskline/backend/internal/infrastructure/monitor"
	pgInfra "github.com/taskline/backend/internal/infrastructure/postgres"
	redisInfra "github.com/taskline/backend/internal/infrastructure/redis"
	"github.com/taskline/backend/internal/middleware"
	"github.com/taskline/backend/internal/router"
	"github.com/taskline/backend/internal/services"
	"github.com/taskline/backend/internal/services/lifecycle"
	"github.com/taskline/backend/internal/sessioncookie"
	"github.com/taskline/backend/pkg/httpcontext"
	"github.com/taskline/backend/pkg/logger"
	"github.com/taskline/backend/repository/postgres"
	redisRepo "github.com/taskline/backend/repository/redis"
	authUC "github.com/taskline/backend/usecase/auth"
	taskUC "github.com/taskline/backend/usecase/task"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	manager.Register("postgres", func(ctx context.Context) error {
		pool.Close()
		return nil
	})

	redisClient, err := redisInfra.NewClient(cfg.Redis)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	manager.Register("redis", func(ctx context.Context) error {
		return redisClient.Close()
	})

	auditStore, err := audit.Open(cfg.Audit.Path, "audit")
	if err != nil {
		zapLogger.Fatal("failed to open audit journal", zap.Error(err))
	}
	manager.Register("audit", func(ctx context.Context) error {
		return auditStore.Close()
	})

	mon := monitor.New(pool, redisClient, auditStore, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	janitor := services.NewAuditJanitor(auditStore, zapLogger, services.JanitorConfig{
		Retention: time.Duration(cfg.Audit.RetentionHours) * time.Hour,
		Interval:  cfg.Audit.SweepInterval,
	})
	janitor.Start()
	manager.Register("audit_janitor", func(ctx context.Context) error {
		janitor.Stop(ctx)
		return nil
	})

	userRepo := postgres.NewUserRepository(pool)
	taskRepo := postgres.NewTaskRepository(pool)
	sessionRepo := redisRepo.NewSessionRepository(redisClient, cfg.Session.TTL)

	recorder := services.NewAuditRecorder(auditStore)

	authUseCase := authUC.New(userRepo, sessionRepo, recorder, zapLogger, authUC.Config{
		SessionTTL: cfg.Session.TTL,
		BcryptCost: cfg.Session.BcryptCost,
	})
	taskUseCase := taskUC.New(taskRepo, recorder, zapLogger)

	signer := sessioncookie.New(cfg.Session.CookieSecret, cfg.Session.Issuer)
	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:   apiHandler.NewAuthHandler(authUseCase, signer, cfg.Session.CookieName, ctxAdapter, zapLogger),
		Task:   apiHandler.NewTaskHandler(taskUseCase, ctxAdapter, zapLogger),
		Health: apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	sessionGuard := middleware.SessionAuth(cfg.Session.CookieName, signer, authUseCase, zapLogger)
	r := router.New(handlers, sessionGuard)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
