package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordWrite_IncrementsByLabels(t *testing.T) {
	ok := catalogWrites.WithLabelValues("dish", "create", OutcomeOK)
	rejected := catalogWrites.WithLabelValues("dish", "create", OutcomeRejected)
	before, beforeRejected := testutil.ToFloat64(ok), testutil.ToFloat64(rejected)

	RecordWrite("dish", "create", OutcomeOK)
	RecordWrite("dish", "create", OutcomeOK)
	RecordWrite("dish", "create", OutcomeRejected)

	if got := testutil.ToFloat64(ok) - before; got != 2 {
		t.Fatalf("ok delta = %v; want 2", got)
	}
	if got := testutil.ToFloat64(rejected) - beforeRejected; got != 1 {
		t.Fatalf("rejected delta = %v; want 1", got)
	}
}
