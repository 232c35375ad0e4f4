package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordRefresh(t *testing.T) {
	before := testutil.ToFloat64(RefreshTotal.WithLabelValues("demo", "ok"))
	RecordRefresh("demo", 0.2, 42, nil)
	if got := testutil.ToFloat64(RefreshTotal.WithLabelValues("demo", "ok")); got != before+1 {
		t.Fatalf("expected ok counter to increase, got %v", got)
	}
	if got := testutil.ToFloat64(SnapshotRecords); got != 42 {
		t.Fatalf("expected snapshot gauge 42, got %v", got)
	}

	RecordRefresh("demo", 0.1, 0, errors.New("boom"))
	if got := testutil.ToFloat64(SnapshotRecords); got != 42 {
		t.Fatalf("failed refresh should keep gauge, got %v", got)
	}
	if got := testutil.ToFloat64(RefreshTotal.WithLabelValues("demo", "error")); got < 1 {
		t.Fatalf("expected error counter, got %v", got)
	}
}

func TestRecordPipelineAndCache(t *testing.T) {
	before := testutil.ToFloat64(PipelineRuns.WithLabelValues("sleepers", "error"))
	RecordPipeline("sleepers", errors.New("bad criteria"))
	if got := testutil.ToFloat64(PipelineRuns.WithLabelValues("sleepers", "error")); got != before+1 {
		t.Fatalf("expected pipeline error count to increase, got %v", got)
	}

	hits := testutil.ToFloat64(CacheLookups.WithLabelValues("history", "hit"))
	RecordCacheLookup("history", true)
	RecordCacheLookup("history", false)
	if got := testutil.ToFloat64(CacheLookups.WithLabelValues("history", "hit")); got != hits+1 {
		t.Fatalf("expected one more hit, got %v", got)
	}
}
