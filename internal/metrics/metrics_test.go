package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestIncrementMutation(t *testing.T) {
	before := testutil.ToFloat64(Mutations.WithLabelValues("expense", "create"))
	IncrementMutation("expense", "create")
	if got := testutil.ToFloat64(Mutations.WithLabelValues("expense", "create")); got != before+1 {
		t.Fatalf("counter = %v, want %v", got, before+1)
	}
}

func TestHandlerExposesCollectors(t *testing.T) {
	RecordHTTPRequestDuration("GET", "/", "200", 5*time.Millisecond)
	RecordAdvisorCall("no_key", 0)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	for _, name := range []string{"obras_http_request_duration_seconds", "obras_advisor_calls_total"} {
		if !strings.Contains(string(body), name) {
			t.Errorf("metrics output missing %s", name)
		}
	}
}
