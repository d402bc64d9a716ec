package metrics

import (
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegisterIndexMetrics_ConcurrentCallsRegisterOnce(t *testing.T) {
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			RegisterIndexMetrics()
		}()
	}
	wg.Wait()
	RegisterIndexMetrics()

	if err := prometheus.Register(IndexedRecipes); err == nil {
		t.Fatal("expected indexed_recipes to be registered already")
	}
}

func TestIndexMetrics_Record(t *testing.T) {
	before := testutil.ToFloat64(IndexBuildsTotal.WithLabelValues("ok"))
	IndexBuildsTotal.WithLabelValues("ok").Inc()
	if got := testutil.ToFloat64(IndexBuildsTotal.WithLabelValues("ok")); got != before+1 {
		t.Errorf("index_builds_total = %f, want %f", got, before+1)
	}

	IndexedRecipes.Set(42)
	if got := testutil.ToFloat64(IndexedRecipes); got != 42 {
		t.Errorf("indexed_recipes = %f, want 42", got)
	}

	QueryCandidates.WithLabelValues("text").Observe(3)
	if testutil.CollectAndCount(QueryCandidates) == 0 {
		t.Error("expected query_candidates to have observations")
	}
}
