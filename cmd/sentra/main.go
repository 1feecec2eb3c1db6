package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sentra-auth/sentra/internal/app"
	"github.com/sentra-auth/sentra/internal/auth"
	"github.com/sentra-auth/sentra/internal/business"
	platformcache "github.com/sentra-auth/sentra/internal/platform/cache"
	platformdb "github.com/sentra-auth/sentra/internal/platform/db"
	"github.com/sentra-auth/sentra/internal/rbac"
	"github.com/sentra-auth/sentra/internal/roles"
	"github.com/sentra-auth/sentra/internal/token"
	"github.com/sentra-auth/sentra/internal/users"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := platformdb.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient, err = platformcache.New(ctx, cfg.RedisAddr)
		if err != nil {
			logger.Warn("redis unavailable, rule cache disabled", slog.Any("error", err))
			redisClient = nil
		} else {
			defer func() {
				if err := redisClient.Close(); err != nil {
					logger.Warn("redis close", slog.Any("error", err))
				}
			}()
		}
	}

	tokenService := token.NewService(cfg.TokenSecret, cfg.TokenTTL)
	hasher := auth.BcryptHasher{}

	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo, tokenService, hasher)
	authMiddleware := auth.Middleware{Logger: logger, Service: authService}
	authHandler := auth.NewHandler(logger, authService)

	rbacRepo := rbac.NewRepository(dbpool)
	ruleCache := rbac.NewRuleCache(rbacRepo, redisClient, cfg.RuleCacheTTL)
	engine := rbac.NewEngine(ruleCache)
	rbacMiddleware := rbac.Middleware{Engine: engine, Logger: logger}
	rbacService := rbac.NewService(rbacRepo, ruleCache, logger)
	rbacHandler := rbac.NewHandler(logger, rbacService, rbacMiddleware)

	rolesRepo := roles.NewRepository(dbpool)
	rolesService := roles.NewService(rolesRepo)
	rolesHandler := roles.NewHandler(logger, rolesService, rbacMiddleware)

	usersRepo := users.NewRepository(dbpool)
	usersService := users.NewService(usersRepo, rolesService, hasher)
	usersHandler := users.NewHandler(logger, usersService, rbacMiddleware)

	businessHandler := business.NewHandler(rbacMiddleware)

	router := app.NewRouter(app.RouterParams{
		Logger:          logger,
		Config:          cfg,
		AuthMiddleware:  authMiddleware,
		AuthHandler:     authHandler,
		UsersHandler:    usersHandler,
		RolesHandler:    rolesHandler,
		RBACHandler:     rbacHandler,
		BusinessHandler: businessHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
