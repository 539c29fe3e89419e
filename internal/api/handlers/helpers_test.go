package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/rankbudget/internal/application/service"
	"github.com/eshaffer321/rankbudget/internal/domain/curve"
	"github.com/eshaffer321/rankbudget/internal/infrastructure/config"
	"github.com/eshaffer321/rankbudget/internal/infrastructure/storage"
)

func setChiURLParam(ctx context.Context, key, value string) context.Context {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return context.WithValue(ctx, chi.RouteCtxKey, rctx)
}

func newService(repo storage.Repository, cat service.KeywordCategorizer) *service.OptimizeService {
	return service.NewOptimizeService(config.Defaults(), repo, cat, nil, nil)
}

func jsonRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func rp(rank int, cost, clicks float64) curve.RankPoint {
	return curve.RankPoint{Rank: rank, Cost: cost, Clicks: clicks, Impressions: clicks * 10}
}

func sampleKeywords() []curve.Keyword {
	return []curve.Keyword{
		{
			Keyword: "A",
			PC:      []curve.RankPoint{rp(1, 100, 50), rp(2, 60, 45), rp(3, 20, 30)},
			Mobile:  []curve.RankPoint{rp(1, 100, 50), rp(2, 60, 45), rp(3, 20, 30)},
		},
		{
			Keyword: "B",
			PC:      []curve.RankPoint{rp(1, 80, 40), rp(2, 50, 38), rp(3, 10, 20)},
			Mobile:  []curve.RankPoint{rp(1, 80, 40), rp(2, 50, 38), rp(3, 10, 20)},
		},
	}
}
