package bootstrap_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go-leave/internal/bootstrap"
	"go-leave/internal/shared/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithCORS(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	h := bootstrap.WithCORS(inner, []string{"http://localhost:5173"})

	t.Run("preflight from allowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/leave-requests", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		req.Header.Set("Access-Control-Request-Headers", "Idempotency-Key")
		w := httptest.NewRecorder()

		h.ServeHTTP(w, req)

		assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Idempotency-Key")
	})

	t.Run("unknown origin gets no allow header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/leave-requests", nil)
		req.Header.Set("Origin", "http://evil.example")
		w := httptest.NewRecorder()

		h.ServeHTTP(w, req)

		assert.Equal(t, http.StatusTeapot, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestNewLogger(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.Name = "go-leave"
	cfg.App.LogLevel = "debug"

	logger, err := bootstrap.NewLogger(cfg)
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(-1))

	cfg.App.LogLevel = "loud"
	_, err = bootstrap.NewLogger(cfg)
	assert.Error(t, err)
}
