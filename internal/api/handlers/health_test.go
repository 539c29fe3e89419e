package handlers_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/rankbudget/internal/api/dto"
	"github.com/eshaffer321/rankbudget/internal/api/handlers"
	"github.com/eshaffer321/rankbudget/internal/infrastructure/storage"
)

func getHealth(t *testing.T, handler *handlers.HealthHandler) (int, dto.HealthResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var response dto.HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	return rec.Code, response
}

func TestHealthHandler_ServeHTTP(t *testing.T) {
	t.Run("reports schema version and categorizer state", func(t *testing.T) {
		repo := storage.NewMockRepository()
		repo.Version = 2
		handler := handlers.NewHealthHandler(newService(repo, new(MockCategorizer)))

		code, response := getHealth(t, handler)

		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, dto.HealthOK, response.Status)
		assert.NotEmpty(t, response.Timestamp)
		assert.True(t, response.Storage.Enabled)
		assert.Equal(t, int64(2), response.Storage.SchemaVersion)
		assert.True(t, response.Categorizer)
		assert.Empty(t, response.Error)
	})

	t.Run("reports missing storage and categorizer", func(t *testing.T) {
		handler := handlers.NewHealthHandler(newService(nil, nil))

		code, response := getHealth(t, handler)

		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, dto.HealthOK, response.Status)
		assert.False(t, response.Storage.Enabled)
		assert.Zero(t, response.Storage.SchemaVersion)
		assert.False(t, response.Categorizer)
	})

	t.Run("returns 503 when schema version cannot be read", func(t *testing.T) {
		repo := storage.NewMockRepository()
		repo.SchemaVersionErr = errors.New("database is locked")
		handler := handlers.NewHealthHandler(newService(repo, nil))

		code, response := getHealth(t, handler)

		assert.Equal(t, http.StatusServiceUnavailable, code)
		assert.Equal(t, dto.HealthDegraded, response.Status)
		assert.True(t, response.Storage.Enabled)
		assert.Contains(t, response.Error, "database is locked")
	})
}
