package http_server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/timeout"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/duccv/user-auth-service/config"
	"github.com/duccv/user-auth-service/internal/middleware"
	"github.com/duccv/user-auth-service/internal/model/response"
	"github.com/duccv/user-auth-service/pkg/metrics"

	_ "github.com/duccv/user-auth-service/docs"
)

type Server struct {
	App    *gin.Engine
	server *http.Server
	notify chan error

	address         string
	timeout         time.Duration
	shutdownTimeout time.Duration
	health          HealthChecker
	routes          []func(r gin.IRouter)
}

// New -.
func New(env *config.Env, opts ...Option) *Server {
	s := &Server{
		App:             nil,
		notify:          make(chan error, 1),
		address:         _defaultAddr,
		timeout:         _defaultTimeout,
		shutdownTimeout: _defaultShutdownTimeout,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.App = s.initGinServer(env)
	s.server = &http.Server{
		Addr:              s.address,
		Handler:           s.App,
		ReadHeaderTimeout: _defaultReadTimeout,
	}

	return s
}

func timeoutResponse(c *gin.Context) {
	c.JSON(http.StatusRequestTimeout, response.Error("request timeout"))
}

func timeoutMiddleware(to time.Duration) gin.HandlerFunc {
	return timeout.New(
		timeout.WithTimeout(to),
		timeout.WithResponse(timeoutResponse),
	)
}

func (s *Server) initGinServer(env *config.Env) *gin.Engine {
	switch env.AppConfig.Environment {
	case "production":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	logging := middleware.NewLoggingMiddleware(middleware.DefaultMiddlewareConfig())

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.CorrelationIDMiddleware())
	r.Use(logging.RequestLogger(), logging.SecurityLogger())
	r.Use(timeoutMiddleware(s.timeout))

	if env.MetricsConfig.Enabled {
		m := metrics.GetMonitor(env.MetricsConfig.Path)
		m.Use(r)
	}

	if env.CORSConfig.Enabled {
		corsConfig := cors.Config{
			AllowOrigins:     env.CORSConfig.AllowedOrigins,
			AllowMethods:     env.CORSConfig.AllowedMethods,
			AllowHeaders:     env.CORSConfig.AllowedHeaders,
			ExposeHeaders:    env.CORSConfig.ExposedHeaders,
			AllowCredentials: env.CORSConfig.AllowCredentials,
			MaxAge:           time.Duration(env.CORSConfig.MaxAge) * time.Second,
		}

		r.Use(cors.New(corsConfig))
	}

	r.GET("/health", s.healthCheck)

	// Swagger documentation
	r.GET("/api/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))

	for _, register := range s.routes {
		register(r)
	}
	return r
}

// healthCheck godoc
//
//	@Summary		Health Check
//	@Description	Returns status 200 if the service and its database are reachable
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	map[string]any
//	@Failure		503	{object}	map[string]any
//	@Router			/health [get]
func (s *Server) healthCheck(c *gin.Context) {
	if s.health == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}

	failed := gin.H{}
	for name, err := range s.health(c.Request.Context()) {
		if err != nil {
			failed[name] = err.Error()
		}
	}
	if len(failed) > 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "errors": failed})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Start -.
func (s *Server) Start() {
	go func() {
		zap.L().Info("HTTP server listening", zap.String("address", s.address))
		err := s.server.ListenAndServe()
		if !errors.Is(err, http.ErrServerClosed) {
			s.notify <- err
		}
		close(s.notify)
	}()
}

// Notify -.
func (s *Server) Notify() <-chan error {
	return s.notify
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.shutdownTimeout)
	defer cancel()

	return s.server.Shutdown(ctx)
}
