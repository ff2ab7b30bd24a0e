package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"botlint/internal/finding"
)

func TestObserveValidation(t *testing.T) {
	r := New()
	r.ObserveValidation([]finding.Finding{
		finding.HandlerMissing(finding.At("F", "A")),
		finding.HandlerMissing(finding.At("F", "B")),
		finding.CustomCheck("x"),
	})
	r.ObserveValidation(nil)

	if got := testutil.ToFloat64(r.validations); got != 2 {
		t.Errorf("validations = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.findings.WithLabelValues("HandlerMissing")); got != 2 {
		t.Errorf("findings{HandlerMissing} = %v, want 2", got)
	}
}

func TestObserveOracleCall(t *testing.T) {
	r := New()
	r.ObserveOracleCall("suggest", OutcomeOK, 20*time.Millisecond)
	r.ObserveOracleCall("suggest", OutcomeUnavailable, 0)

	if got := testutil.ToFloat64(r.oracleCalls.WithLabelValues("suggest", OutcomeOK)); got != 1 {
		t.Errorf("oracle calls ok = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(r.oracleDuration); got != 1 {
		t.Errorf("duration series = %d, want 1", got)
	}
}

func TestNilRecorder(t *testing.T) {
	var r *Recorder
	r.ObserveValidation([]finding.Finding{finding.CustomCheck("x")})
	r.ObserveOracleCall("typos", OutcomeError, time.Second)
	if r.Registry() != nil {
		t.Error("nil recorder should have nil registry")
	}
}

func TestHandler(t *testing.T) {
	r := New()
	r.ObserveValidation(nil)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	if !strings.Contains(rec.Body.String(), "botlint_validations_total 1") {
		t.Errorf("metrics body missing counter:\n%s", rec.Body.String())
	}
}
