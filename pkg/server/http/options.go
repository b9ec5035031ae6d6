package http_server

import (
	"context"
	"net"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	_defaultAddr            = ":3001"
	_defaultTimeout         = 10 * time.Second
	_defaultShutdownTimeout = 5 * time.Second
	_defaultReadTimeout     = 15 * time.Second
)

// HealthChecker reports the error of every dependency by name; nil means healthy.
type HealthChecker func(ctx context.Context) map[string]error

// Option -.
type Option func(*Server)

// Port -.
func Port(port string) Option {
	return func(s *Server) {
		s.address = net.JoinHostPort("", port)
	}
}

// Timeout bounds the handling of a single request.
func Timeout(timeout time.Duration) Option {
	return func(s *Server) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

// ShutdownTimeout -.
func ShutdownTimeout(timeout time.Duration) Option {
	return func(s *Server) {
		s.shutdownTimeout = timeout
	}
}

// Health sets the checker behind GET /health.
func Health(check HealthChecker) Option {
	return func(s *Server) {
		s.health = check
	}
}

// Routes registers application routes on the engine.
func Routes(register func(r gin.IRouter)) Option {
	return func(s *Server) {
		s.routes = append(s.routes, register)
	}
}
