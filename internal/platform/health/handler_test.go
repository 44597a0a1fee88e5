package health

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(t *testing.T, h *Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	h.Register(r)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestLivenessAlwaysUp(t *testing.T) {
	h := New("test")
	h.RegisterCheck("postgres", func() error { return errors.New("connection refused") })

	rec := get(t, h, "/health/live")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadinessReportsChecks(t *testing.T) {
	h := New("test")
	h.RegisterCheck("postgres", func() error { return nil })
	h.RegisterCheck("redis", func() error { return nil })

	rec := get(t, h, "/health/ready")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ready", resp.Status)
	assert.Equal(t, "up", resp.Checks["postgres"])
	assert.Equal(t, "up", resp.Checks["redis"])
}

func TestReadinessFailsWhenDependencyIsDown(t *testing.T) {
	h := New("test")
	h.RegisterCheck("postgres", func() error { return nil })
	h.RegisterCheck("redis", func() error { return errors.New("connection refused") })

	rec := get(t, h, "/health/ready")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "not_ready", resp.Status)
	assert.Equal(t, "up", resp.Checks["postgres"])
	assert.Equal(t, "down: connection refused", resp.Checks["redis"])
}

func TestStatusCarriesEnvironment(t *testing.T) {
	h := New("production")

	rec := get(t, h, "/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Status      string `json:"status"`
		Environment string `json:"environment"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "production", resp.Environment)
}
