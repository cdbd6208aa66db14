package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	config2 "task-manager/pkg/config"
	"task-manager/pkg/ratelimit"

	_ "task-manager/docs"
	"task-manager/internal/authz"
	"task-manager/internal/handler"
	"task-manager/internal/migrate"
	"task-manager/internal/repository"
	"task-manager/internal/router"
	"task-manager/internal/service"
	"task-manager/migrations"

	"github.com/go-playground/validator/v10"
)

// @title Team Task Manager API
// @version 1.0
// @description Teams, members and tasks with role and assignment based access and a status audit trail
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Configure logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config2.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if cfg.MigrationsAuto {
		runner, err := migrate.New(cfg.DSN(), migrations.FS, logger)
		if err != nil {
			slog.Error("failed to configure migrations", "error", err)
			os.Exit(1)
		}
		if err := runner.Ensure(context.Background()); err != nil {
			slog.Error("failed to apply migrations", "error", err)
			os.Exit(1)
		}
	}

	// Connect to database
	pool, err := config2.MustInitDB(context.Background(), *cfg)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	slog.Info("successfully connected to database")

	// Login rate limiter: shared through redis when configured
	var loginLimiter ratelimit.Limiter = ratelimit.NewMemoryLimiter(cfg.LoginRateLimit, cfg.LoginRateWindow)
	if cfg.RedisAddr != "" {
		rdb, err := config2.InitRedis(context.Background(), *cfg)
		if err != nil {
			slog.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer rdb.Close()
		loginLimiter = ratelimit.NewRedisLimiter(rdb, cfg.LoginRateLimit, cfg.LoginRateWindow)
		slog.Info("successfully connected to redis")
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(pool)
	teamRepo := repository.NewTeamRepository(pool)
	memberRepo := repository.NewMembershipRepository(pool)
	taskRepo := repository.NewTaskRepository(pool)

	// Initialize validator
	validate := validator.New()

	// Initialize services
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTTTL)
	userService := service.NewUserService(userRepo, cfg.BcryptCost)
	teamService := service.NewTeamService(teamRepo)
	membershipService := service.NewMembershipService(memberRepo, userRepo, teamRepo)
	taskService := service.NewTaskService(taskRepo, teamRepo)
	resolver := authz.NewResolver(taskRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, validate)
	userHandler := handler.NewUserHandler(userService, validate)
	teamHandler := handler.NewTeamHandler(teamService, validate)
	membershipHandler := handler.NewMembershipHandler(membershipService, validate)
	taskHandler := handler.NewTaskHandler(taskService, validate)
	healthHandler := handler.NewHealthHandler(pool)

	slog.Info("successfully configured services and handlers")

	// Setup router
	r := router.SetupRouter(
		authHandler,
		userHandler,
		teamHandler,
		membershipHandler,
		taskHandler,
		healthHandler,
		authService,
		resolver,
		loginLimiter,
	)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("starting server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}

	slog.Info("server stopped")
}
