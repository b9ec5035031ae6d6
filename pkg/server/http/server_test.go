package http_server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duccv/user-auth-service/config"
)

func testEnv() *config.Env {
	return &config.Env{AppConfig: config.AppConfig{Environment: "test"}}
}

func TestNew_Options(t *testing.T) {
	s := New(testEnv(), Port("8088"), Timeout(3*time.Second), ShutdownTimeout(time.Second))

	assert.Equal(t, ":8088", s.address)
	assert.Equal(t, 3*time.Second, s.timeout)
	assert.Equal(t, time.Second, s.shutdownTimeout)
	assert.Equal(t, ":8088", s.server.Addr)
}

func TestHealth(t *testing.T) {
	s := New(testEnv())
	w := httptest.NewRecorder()
	s.App.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Correlation-ID"))
}

func TestHealth_Unavailable(t *testing.T) {
	s := New(testEnv(), Health(func(context.Context) map[string]error {
		return map[string]error{"write": nil, "read": errors.New("connection refused")}
	}))

	w := httptest.NewRecorder()
	s.App.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"status":"unavailable","errors":{"read":"connection refused"}}`, w.Body.String())
}

func TestRoutes(t *testing.T) {
	s := New(testEnv(), Routes(func(r gin.IRouter) {
		r.GET("/api/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	}))

	w := httptest.NewRecorder()
	s.App.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/ping", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestShutdown_NotStarted(t *testing.T) {
	s := New(testEnv(), Port("0"))
	assert.NoError(t, s.Shutdown(context.Background()))
}
