package health

import (
	"context"
	"sync"
	"testing"

	"github.com/kiidfreak/Ag3nt-05/pkg/core"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []core.Event
}

func (p *recordingPublisher) Publish(_ context.Context, evt core.Event) {
	p.mu.Lock()
	p.events = append(p.events, evt)
	p.mu.Unlock()
}

func TestTrackerStartsHealthy(t *testing.T) {
	tr := NewTracker()
	snap := tr.Snapshot()
	if snap.Status != core.HealthHealthy {
		t.Errorf("expected healthy, got %v", snap.Status)
	}
	if snap.Details == nil || snap.Metrics == nil {
		t.Error("expected empty maps, not nil")
	}
}

func TestMetricsMergeKeyByKey(t *testing.T) {
	ctx := context.Background()
	tr := NewTracker()

	tr.Update(ctx, "", nil, map[string]float64{"a": 1})
	tr.Update(ctx, "", nil, map[string]float64{"b": 2})

	snap := tr.Snapshot()
	if snap.Metrics["a"] != 1 || snap.Metrics["b"] != 2 {
		t.Errorf("expected {a:1 b:2}, got %v", snap.Metrics)
	}

	tr.Update(ctx, "", nil, map[string]float64{"a": 3})
	snap = tr.Snapshot()
	if snap.Metrics["a"] != 3 || snap.Metrics["b"] != 2 {
		t.Errorf("expected {a:3 b:2}, got %v", snap.Metrics)
	}
}

func TestDetailsMergeAndStatusReplace(t *testing.T) {
	ctx := context.Background()
	tr := NewTracker()

	tr.Update(ctx, core.HealthDegraded, map[string]any{"db": "slow"}, nil)
	tr.Update(ctx, "", map[string]any{"cache": "ok"}, nil)

	snap := tr.Snapshot()
	if snap.Status != core.HealthDegraded {
		t.Errorf("empty status should keep current, got %v", snap.Status)
	}
	if snap.Details["db"] != "slow" || snap.Details["cache"] != "ok" {
		t.Errorf("unexpected details: %v", snap.Details)
	}
}

func TestEveryUpdateEmitsSnapshot(t *testing.T) {
	pub := &recordingPublisher{}
	tr := NewTracker(WithPublisher(pub))

	tr.Update(context.Background(), core.HealthUnhealthy, nil, map[string]float64{"errors": 5})

	if len(pub.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(pub.events))
	}
	evt := pub.events[0]
	if evt.Type != core.EventHealthUpdated {
		t.Errorf("unexpected type %v", evt.Type)
	}
	if evt.Payload["status"] != "unhealthy" {
		t.Errorf("unexpected status in payload: %v", evt.Payload["status"])
	}
	metrics, ok := evt.Payload["metrics"].(map[string]float64)
	if !ok || metrics["errors"] != 5 {
		t.Errorf("unexpected metrics payload: %v", evt.Payload["metrics"])
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	tr := NewTracker()
	tr.Update(context.Background(), "", map[string]any{"k": "v"}, nil)

	snap := tr.Snapshot()
	snap.Details["k"] = "mutated"
	snap.Metrics["new"] = 1

	fresh := tr.Snapshot()
	if fresh.Details["k"] != "v" {
		t.Error("mutating a snapshot must not affect the tracker")
	}
	if _, ok := fresh.Metrics["new"]; ok {
		t.Error("mutating a snapshot must not affect the tracker")
	}
}

func TestConcurrentUpdates(t *testing.T) {
	tr := NewTracker()
	var wg sync.WaitGroup

	wg.Add(20)
	for i := 0; i < 10; i++ {
		go func() {
			defer wg.Done()
			tr.Update(context.Background(), "", nil, map[string]float64{"n": 1})
		}()
		go func() {
			defer wg.Done()
			_ = tr.Snapshot()
		}()
	}
	wg.Wait()
}

func TestApplyFoldsWorstStatus(t *testing.T) {
	tr := NewTracker()
	checkers := map[string]Checker{
		"db": CheckFunc(func(context.Context) Result {
			return Result{Status: core.HealthHealthy, Detail: "ok"}
		}),
		"queue": CheckFunc(func(context.Context) Result {
			return Result{Status: core.HealthDegraded, Detail: "backlog", Metrics: map[string]float64{"depth": 12}}
		}),
	}

	snap := Apply(context.Background(), tr, checkers)

	if snap.Status != core.HealthDegraded {
		t.Errorf("expected degraded overall, got %v", snap.Status)
	}
	if snap.Details["queue"] != "backlog" || snap.Details["db"] != "ok" {
		t.Errorf("unexpected details: %v", snap.Details)
	}
	if snap.Metrics["depth"] != 12 {
		t.Errorf("unexpected metrics: %v", snap.Metrics)
	}
}

func TestApplyUnhealthyWins(t *testing.T) {
	tr := NewTracker()
	checkers := map[string]Checker{
		"a": CheckFunc(func(context.Context) Result { return Result{Status: core.HealthDegraded} }),
		"b": CheckFunc(func(context.Context) Result { return Result{Status: core.HealthUnhealthy} }),
	}

	if snap := Apply(context.Background(), tr, checkers); snap.Status != core.HealthUnhealthy {
		t.Errorf("expected unhealthy overall, got %v", snap.Status)
	}
}
