package api

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/bikeshare-backend-go/internal/config"
	"github.com/jengzang/bikeshare-backend-go/internal/dataset"
	"github.com/jengzang/bikeshare-backend-go/internal/observability"
	"github.com/jengzang/bikeshare-backend-go/internal/service"
)

const rentalsCSV = `datetime,season,holiday,workingday,weather,temp,atemp,humidity,windspeed,casual,registered,count
2011-01-03 08:00:00,1,0,1,1,10,12,50,5,10,40,50
2011-01-01 08:00:00,1,0,0,1,9,11,60,3,2,8,10
`

func newRouter(t *testing.T, rateLimit int) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	raw, err := dataset.ReadCSV(strings.NewReader(rentalsCSV))
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	ds, err := dataset.New(raw, "test", time.Now())
	if err != nil {
		t.Fatalf("dataset: %v", err)
	}

	metrics := observability.NewMetrics()
	cfg := config.Default()
	cfg.RateLimit = rateLimit

	return SetupRouter(cfg, Deps{
		Explore: service.NewExploreService(ds, service.ExploreOptions{CacheTTL: time.Minute, Metrics: metrics}),
		Metrics: metrics,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func serve(r *gin.Engine, method, target string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(method, target, nil))
	return rr
}

func TestHealthAndMetrics(t *testing.T) {
	r := newRouter(t, 100)

	rr := serve(r, http.MethodGet, "/health")
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"rows":2`) {
		t.Fatalf("unexpected health response %d %s", rr.Code, rr.Body.String())
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected request id header")
	}

	serve(r, http.MethodGet, "/api/v1/summary")
	serve(r, http.MethodGet, "/api/v1/summary")

	rr = serve(r, http.MethodGet, "/metrics")
	body := rr.Body.String()
	for _, want := range []string{
		`http_requests_total{route="/api/v1/summary",status="200"} 2`,
		`cache_hits_total{layer="memory"}`,
		"filter_evaluation_duration_seconds_count 1",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in metrics output", want)
		}
	}
}

func TestCORSPreflight(t *testing.T) {
	r := newRouter(t, 100)

	rr := serve(r, http.MethodOptions, "/api/v1/summary")
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rr.Code)
	}
	if rr.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("missing CORS header")
	}
}

func TestRateLimitAppliesToAPI(t *testing.T) {
	r := newRouter(t, 1)

	if rr := serve(r, http.MethodGet, "/api/v1/dataset"); rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if rr := serve(r, http.MethodGet, "/api/v1/dataset"); rr.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rr.Code)
	}
	if rr := serve(r, http.MethodGet, "/health"); rr.Code != http.StatusOK {
		t.Fatalf("expected health outside the limit, got %d", rr.Code)
	}
}
