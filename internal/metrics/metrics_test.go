package metrics

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func TestMetricsExposure(t *testing.T) {
	RenderRuns.Inc()
	IncRenderError("fetch")
	IncVariant("text")
	ObserveAPIRequest("statuses/user_timeline", 200)
	ObserveRenderDuration(time.Now().Add(-1500 * time.Millisecond))

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	promhttp.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics status: %d", rec.Code)
	}
	body := rec.Body.String()
	for _, m := range []string{
		"tweetink_render_runs_total",
		`tweetink_render_errors_total{stage="fetch"}`,
		`tweetink_render_variant_total{variant="text"}`,
		`tweetink_api_requests_total{code="200",endpoint="statuses/user_timeline"}`,
		"tweetink_render_duration_seconds",
	} {
		if !strings.Contains(body, m) {
			t.Fatalf("expected metric %s in body", m)
		}
	}
}

func TestWriteTextfile(t *testing.T) {
	if err := WriteTextfile(""); err != nil {
		t.Fatalf("empty path should be a no-op: %v", err)
	}
	RenderRuns.Inc()
	path := filepath.Join(t.TempDir(), "tweetink.prom")
	if err := WriteTextfile(path); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), "tweetink_render_runs_total") {
		t.Fatalf("textfile missing counter:\n%s", b)
	}
}
