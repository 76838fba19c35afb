package observability

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap/zapcore"

	"github.com/storefront-labs/storefront/internal/config"
)

func TestMetricsRecord(t *testing.T) {
	m := NewMetrics("sf")
	m.RecordGateDecision("forbidden")
	m.RecordGateDecision("forbidden")
	m.RecordSessionMutation("clear")
	m.RecordAPIFailure("/cart", 401, "recoverable")
	m.RecordRequest("/cart", "GET", 200, 5*time.Millisecond)
	m.RecordError("/cart", "GET", "UPSTREAM_FAILED")

	if got := testutil.ToFloat64(m.gateDecisions.WithLabelValues("forbidden")); got != 2 {
		t.Fatalf("gate decisions = %v", got)
	}
	if got := testutil.ToFloat64(m.apiFailures.WithLabelValues("/cart", "401", "recoverable")); got != 1 {
		t.Fatalf("api failures = %v", got)
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	for _, name := range []string{"sf_session_mutations_total", "sf_http_errors_total", "sf_http_request_duration_seconds"} {
		if !strings.Contains(string(body), name) {
			t.Fatalf("exposition misses %s", name)
		}
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.RecordGateDecision("authorized")
	m.RecordSessionMutation("write")
	m.RecordAPIFailure("/x", 500, "recoverable")
	m.RecordRequest("/", "GET", 200, time.Millisecond)
	m.RecordError("/", "GET", "X")
	if m.Registry() != nil {
		t.Fatal("nil metrics has no registry")
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != 404 {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestNewLoggerLevels(t *testing.T) {
	for level, debug := range map[string]bool{"debug": true, " WARN ": false, "bogus": false, "": false} {
		logger, err := NewLogger(config.LoggerConfig{Level: level}, "storefront")
		if err != nil {
			t.Fatalf("%q: %v", level, err)
		}
		if got := logger.Core().Enabled(zapcore.DebugLevel); got != debug {
			t.Fatalf("%q: debug enabled = %v", level, got)
		}
		if !logger.Core().Enabled(zapcore.ErrorLevel) {
			t.Fatalf("%q: error level disabled", level)
		}
	}
}
