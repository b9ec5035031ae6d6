package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/duccv/user-auth-service/config"
	"github.com/duccv/user-auth-service/internal/handler"
	"github.com/duccv/user-auth-service/internal/middleware"
	"github.com/duccv/user-auth-service/internal/repository"
	"github.com/duccv/user-auth-service/internal/router"
	"github.com/duccv/user-auth-service/internal/service"
	"github.com/duccv/user-auth-service/pkg/database"
	"github.com/duccv/user-auth-service/pkg/logger"
	"github.com/duccv/user-auth-service/pkg/metrics"
	"github.com/duccv/user-auth-service/pkg/password"
	"github.com/duccv/user-auth-service/pkg/token"
	httpserver "github.com/duccv/user-auth-service/pkg/server/http"
)

//	@title			USER AUTH SERVICE APIs
//	@version		1.0
//	@description	Registration, login and bearer-token protected user management.
//	@contact.name	DucCV
//	@contact.email	duccv@gviet.vn

// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
// @description				JWT authorization header
func main() {
	env := config.GetEnv()

	zapLogger := logger.GetLogger(env.LoggerConfig)
	zap.ReplaceGlobals(zapLogger)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	users, health, closeDB := openUserRepository(ctx, env)
	defer closeDB()

	tokens, err := token.NewService([]byte(env.JWTConfig.Secret))
	if err != nil {
		zap.L().Fatal("Failed to create token service", zap.Error(err))
	}
	hasher := password.NewBcryptHasher(password.WithCost(env.HashConfig.Cost))

	handlers := router.Handlers{
		Auth:  handler.NewAuthHandler(service.NewAuthService(users, hasher, tokens, env.JWTConfig.TTL)),
		Users: handler.NewUserHandler(service.NewUserService(users, hasher)),
	}

	var authOpts []middleware.AuthOption
	if env.MetricsConfig.Enabled {
		authOpts = append(authOpts, middleware.WithRejectHook(metrics.RecordAuthRejection))
	}

	opts := []httpserver.Option{
		httpserver.Port(strconv.Itoa(env.AppConfig.Port)),
		httpserver.Timeout(time.Duration(env.AppConfig.Timeout) * time.Second),
		httpserver.Routes(func(r gin.IRouter) {
			router.Register(r, handlers, tokens, authOpts...)
		}),
	}
	if health != nil {
		opts = append(opts, httpserver.Health(health))
	}

	server := httpserver.New(env, opts...)
	server.Start()

	select {
	case <-ctx.Done():
		zap.L().Info("Shutdown signal received")
	case err := <-server.Notify():
		if err != nil {
			zap.L().Error("HTTP server stopped", zap.Error(err))
		}
	}

	if err := server.Shutdown(context.Background()); err != nil {
		zap.L().Error("HTTP server shutdown failed", zap.Error(err))
	}
}

// openUserRepository connects to Postgres. A development run without a
// connection string falls back to an in-memory store.
func openUserRepository(ctx context.Context, env *config.Env) (repository.UserRepository, httpserver.HealthChecker, func()) {
	if env.PostgresConfig.ConnectionString == "" && env.AppConfig.Environment == "development" {
		zap.L().Warn("DATABASE_URL is empty, users are kept in memory")
		return repository.NewMemoryUserRepository(), nil, func() {}
	}

	db := database.NewPostgresDB(&env.PostgresConfig)
	if err := db.Connect(ctx); err != nil {
		zap.L().Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}

	if env.PostgresConfig.AutoMigrate {
		if err := repository.Migrate(ctx, db.WritePool()); err != nil {
			db.Close()
			zap.L().Fatal("Failed to migrate schema", zap.Error(err))
		}
	}

	return repository.NewPostgresUserRepository(db.ReadPool(), db.WritePool()), db.HealthCheck, db.Close
}
