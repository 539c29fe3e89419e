package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xorcare/pointer"

	"github.com/eshaffer321/rankbudget/internal/api/dto"
	"github.com/eshaffer321/rankbudget/internal/api/handlers"
	"github.com/eshaffer321/rankbudget/internal/application/service"
	"github.com/eshaffer321/rankbudget/internal/infrastructure/config"
	"github.com/eshaffer321/rankbudget/internal/infrastructure/storage"
)

func TestOptimizeHandler_Optimize(t *testing.T) {
	t.Run("returns combined result and stores run", func(t *testing.T) {
		repo := storage.NewMockRepository()
		handler := handlers.NewOptimizeHandler(newService(repo, nil), config.OptimizerConfig{})

		req := jsonRequest(t, http.MethodPost, "/api/optimize", dto.OptimizeRequest{
			PCBudget:     pointer.Float64(1000),
			MobileBudget: pointer.Float64(1000),
			Objective:    "clicks",
			Keywords:     sampleKeywords(),
		})
		rec := httptest.NewRecorder()

		handler.Optimize(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var response service.OptimizeResult
		err := json.NewDecoder(rec.Body).Decode(&response)
		require.NoError(t, err)

		assert.NotEmpty(t, response.RunID)
		assert.True(t, response.Persisted)
		assert.Equal(t, "satisfied", string(response.PC.Status))
		assert.Equal(t, 180.0, response.PC.TotalCost)
		assert.Equal(t, 360.0, response.Report.Totals.Cost)
		assert.Len(t, response.Report.Rows, 2)
		assert.Equal(t, 1, repo.RunCount())
	})

	t.Run("falls back to configured budgets", func(t *testing.T) {
		handler := handlers.NewOptimizeHandler(newService(nil, nil), config.OptimizerConfig{
			PCBudget:     1000,
			MobileBudget: 1000,
		})

		req := jsonRequest(t, http.MethodPost, "/api/optimize", dto.OptimizeRequest{
			Keywords: sampleKeywords(),
		})
		rec := httptest.NewRecorder()

		handler.Optimize(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("returns 400 when budget is missing", func(t *testing.T) {
		handler := handlers.NewOptimizeHandler(newService(nil, nil), config.OptimizerConfig{})

		req := jsonRequest(t, http.MethodPost, "/api/optimize", dto.OptimizeRequest{
			PCBudget: pointer.Float64(100),
			Keywords: sampleKeywords(),
		})
		rec := httptest.NewRecorder()

		handler.Optimize(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var response dto.APIError
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.Equal(t, dto.ErrCodeValidation, response.Code)
		assert.Contains(t, response.Message, "mobile_budget")
	})

	t.Run("returns 400 for zero budget even with a configured default", func(t *testing.T) {
		handler := handlers.NewOptimizeHandler(newService(nil, nil), config.OptimizerConfig{
			PCBudget:     1000,
			MobileBudget: 1000,
		})

		req := jsonRequest(t, http.MethodPost, "/api/optimize", dto.OptimizeRequest{
			PCBudget:     pointer.Float64(0),
			MobileBudget: pointer.Float64(100),
			Keywords:     sampleKeywords(),
		})
		rec := httptest.NewRecorder()

		handler.Optimize(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var response dto.APIError
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.Equal(t, dto.ErrCodeValidation, response.Code)
		assert.Equal(t, "pc_budget must be greater than zero", response.Message)
	})

	t.Run("returns 400 for malformed JSON", func(t *testing.T) {
		handler := handlers.NewOptimizeHandler(newService(nil, nil), config.OptimizerConfig{})

		req := httptest.NewRequest(http.MethodPost, "/api/optimize", strings.NewReader("{not json"))
		rec := httptest.NewRecorder()

		handler.Optimize(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var response dto.APIError
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.Equal(t, dto.ErrCodeBadRequest, response.Code)
	})

	t.Run("returns 400 for negative budget", func(t *testing.T) {
		handler := handlers.NewOptimizeHandler(newService(nil, nil), config.OptimizerConfig{})

		req := jsonRequest(t, http.MethodPost, "/api/optimize", dto.OptimizeRequest{
			PCBudget:     pointer.Float64(-1),
			MobileBudget: pointer.Float64(100),
			Keywords:     sampleKeywords(),
		})
		rec := httptest.NewRecorder()

		handler.Optimize(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var response dto.APIError
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.Equal(t, dto.ErrCodeValidation, response.Code)
	})

	t.Run("returns 400 for unknown objective", func(t *testing.T) {
		handler := handlers.NewOptimizeHandler(newService(nil, nil), config.OptimizerConfig{})

		req := jsonRequest(t, http.MethodPost, "/api/optimize", dto.OptimizeRequest{
			PCBudget:     pointer.Float64(100),
			MobileBudget: pointer.Float64(100),
			Objective:    "conversions",
			Keywords:     sampleKeywords(),
		})
		rec := httptest.NewRecorder()

		handler.Optimize(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestOptimizeHandler_Uniform(t *testing.T) {
	t.Run("picks one rank per channel", func(t *testing.T) {
		handler := handlers.NewOptimizeHandler(newService(nil, nil), config.OptimizerConfig{})

		req := jsonRequest(t, http.MethodPost, "/api/optimize/uniform", dto.OptimizeRequest{
			PCBudget:     pointer.Float64(180),
			MobileBudget: pointer.Float64(110),
			Keywords:     sampleKeywords(),
		})
		rec := httptest.NewRecorder()

		handler.Uniform(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var response service.UniformResult
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))

		assert.True(t, response.PC.Feasible)
		assert.Equal(t, 1, response.PC.Rank)
		assert.True(t, response.Mobile.Feasible)
		assert.Equal(t, 2, response.Mobile.Rank)
		assert.Equal(t, 290.0, response.Totals.Cost)
	})

	t.Run("returns 400 without keywords", func(t *testing.T) {
		handler := handlers.NewOptimizeHandler(newService(nil, nil), config.OptimizerConfig{})

		req := jsonRequest(t, http.MethodPost, "/api/optimize/uniform", dto.OptimizeRequest{
			PCBudget:     pointer.Float64(180),
			MobileBudget: pointer.Float64(110),
		})
		rec := httptest.NewRecorder()

		handler.Uniform(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestOptimizeHandler_Analyze(t *testing.T) {
	t.Run("reports fixed ranks", func(t *testing.T) {
		handler := handlers.NewOptimizeHandler(newService(nil, nil), config.OptimizerConfig{})

		req := jsonRequest(t, http.MethodPost, "/api/analyze", dto.AnalyzeRequest{
			PCRank:     pointer.Int(1),
			MobileRank: pointer.Int(3),
			Keywords:   sampleKeywords(),
		})
		rec := httptest.NewRecorder()

		handler.Analyze(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var response service.AnalyzeResult
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))

		assert.Equal(t, 1, response.PCRank)
		assert.Equal(t, 3, response.MobileRank)
		assert.Equal(t, 2, response.Summary.TotalKeywords)
		assert.Equal(t, 210.0, response.Summary.TotalCost)
	})

	t.Run("returns 400 when rank is missing", func(t *testing.T) {
		handler := handlers.NewOptimizeHandler(newService(nil, nil), config.OptimizerConfig{})

		req := jsonRequest(t, http.MethodPost, "/api/analyze", dto.AnalyzeRequest{
			PCRank:   pointer.Int(1),
			Keywords: sampleKeywords(),
		})
		rec := httptest.NewRecorder()

		handler.Analyze(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("returns 400 for out of range rank", func(t *testing.T) {
		handler := handlers.NewOptimizeHandler(newService(nil, nil), config.OptimizerConfig{})

		req := jsonRequest(t, http.MethodPost, "/api/analyze", dto.AnalyzeRequest{
			PCRank:     pointer.Int(0),
			MobileRank: pointer.Int(1),
			Keywords:   sampleKeywords(),
		})
		rec := httptest.NewRecorder()

		handler.Analyze(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var response dto.APIError
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.Equal(t, dto.ErrCodeValidation, response.Code)
	})
}
