package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveRequest(t *testing.T) {
	before := testutil.ToFloat64(HTTPRequests.WithLabelValues("GET", "/api/stats", "200"))
	ObserveRequest("GET", "/api/stats", 200, 15*time.Millisecond)
	after := testutil.ToFloat64(HTTPRequests.WithLabelValues("GET", "/api/stats", "200"))
	if after-before != 1 {
		t.Errorf("request counter delta = %v, want 1", after-before)
	}

	before = testutil.ToFloat64(HTTPRequests.WithLabelValues("GET", "unmatched", "404"))
	ObserveRequest("GET", "", 404, time.Millisecond)
	after = testutil.ToFloat64(HTTPRequests.WithLabelValues("GET", "unmatched", "404"))
	if after-before != 1 {
		t.Errorf("unmatched counter delta = %v, want 1", after-before)
	}
}

func TestRecordMutationAndStoreError(t *testing.T) {
	before := testutil.ToFloat64(LedgerMutations.WithLabelValues("created"))
	RecordMutation("created")
	RecordMutation("created")
	if got := testutil.ToFloat64(LedgerMutations.WithLabelValues("created")) - before; got != 2 {
		t.Errorf("mutation delta = %v, want 2", got)
	}

	before = testutil.ToFloat64(StoreErrors.WithLabelValues("stats"))
	RecordStoreError("stats")
	if got := testutil.ToFloat64(StoreErrors.WithLabelValues("stats")) - before; got != 1 {
		t.Errorf("store error delta = %v, want 1", got)
	}
}

func TestHandlerExposesCollectors(t *testing.T) {
	RecordMutation("deleted")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "bizdash_ledger_mutations_total") {
		t.Error("metrics output missing bizdash_ledger_mutations_total")
	}
}
