package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Hamzabaloch08/taskApp-backend/internal/cache"
	"github.com/Hamzabaloch08/taskApp-backend/internal/config"
	"github.com/Hamzabaloch08/taskApp-backend/internal/db"
	httpServer "github.com/Hamzabaloch08/taskApp-backend/internal/http"
	"github.com/Hamzabaloch08/taskApp-backend/internal/http/handlers"
	"github.com/Hamzabaloch08/taskApp-backend/internal/logger"
	"github.com/Hamzabaloch08/taskApp-backend/internal/repository"
	"github.com/Hamzabaloch08/taskApp-backend/internal/repository/memory"
	"github.com/Hamzabaloch08/taskApp-backend/internal/service"
	"github.com/Hamzabaloch08/taskApp-backend/internal/session"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	var (
		users service.UserStore
		tasks service.TaskStore
		deps  []handlers.Dependency
	)
	switch cfg.StoreDriver {
	case config.StoreMemory:
		logger.Warn("using in-memory store, data is lost on restart")
		users = memory.NewUserRepository()
		tasks = memory.NewTaskRepository()
	default:
		if cfg.AutoMigrate {
			if err := db.Migrate(cfg.DatabaseURL); err != nil {
				logger.Fatal("migrate", "error", err)
			}
		}
		dbPool := db.Connect(cfg.DatabaseURL, cfg.DBMaxConns)
		defer dbPool.Close()

		users = repository.NewUserRepository(dbPool)
		tasks = repository.NewTaskRepository(dbPool)
		deps = append(deps, handlers.Dependency{Name: "database", Ping: dbPool.Ping, Critical: true})
	}

	// the listing cache is optional; without Redis every list hits the store
	var listCache service.TaskListCache
	if cfg.RedisAddr != "" {
		client, err := cache.Connect(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Warn("redis unavailable, task cache disabled", "addr", cfg.RedisAddr, "error", err)
		} else {
			defer client.Close()
			listCache = cache.NewTaskListCache(client, cfg.TaskCacheTTL)
			deps = append(deps, handlers.Dependency{
				Name: "redis",
				Ping: func(ctx context.Context) error { return client.Ping(ctx).Err() },
			})
		}
	}

	authService := service.NewAuthService(
		users,
		service.NewPasswordHasher(cfg.BcryptCost),
		service.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL),
	)
	taskService := service.NewTaskService(tasks, listCache)

	h := handlers.NewHandler(authService, taskService, session.New(cfg))
	health := handlers.NewHealthHandler(cfg.AppVersion, deps...)
	r := httpServer.NewRouter(h, health, cfg.CORSAllowedOrigins)

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort, "store", cfg.StoreDriver, "transport", cfg.TokenTransport)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		return
	}

	logger.Info("server exited")
}
