package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordAnalysis(t *testing.T) {
	before := testutil.ToFloat64(AnalysesTotal.WithLabelValues("text", OutcomeOK))
	RecordAnalysis("text", OutcomeOK, 0.01)

	if got := testutil.ToFloat64(AnalysesTotal.WithLabelValues("text", OutcomeOK)); got != before+1 {
		t.Errorf("expected counter to increase by 1, got %v -> %v", before, got)
	}
}

func TestRecordFetch(t *testing.T) {
	before := testutil.ToFloat64(FetchTotal.WithLabelValues(FetchCached))
	RecordFetch(FetchCached)
	RecordFetch(FetchCached)

	if got := testutil.ToFloat64(FetchTotal.WithLabelValues(FetchCached)); got != before+2 {
		t.Errorf("expected counter to increase by 2, got %v -> %v", before, got)
	}
}
