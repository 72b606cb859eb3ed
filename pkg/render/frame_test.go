package render

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/atlasgraph/atlas/pkg/analytics"
	"github.com/atlasgraph/atlas/pkg/graph"
)

func seededStore(t *testing.T) *graph.Store {
	t.Helper()
	s := graph.NewStore()
	s.SetLogf(func(string, ...any) {})
	s.Seed([]graph.NodeRecord{
		{ID: "a", Type: graph.EntityUser, X: 0, Y: 0, Size: 10, Positioned: true},
		{ID: "b", Type: graph.EntityGoal, X: 50, Y: 0, Size: 10, Positioned: true},
		{ID: "c", Type: graph.EntityTeam, X: 0, Y: 80, Size: 10, Positioned: true},
	}, []graph.EdgeRecord{
		{ID: "ab", SourceID: "a", TargetID: "b"},
		{ID: "bc", SourceID: "b", TargetID: "c"},
	})
	return s
}

func TestRenderFrame_OnlyVisibleNodesDrawn(t *testing.T) {
	// Circle-shaped nodes only, so every lineTo op is an edge segment.
	s := graph.NewStore()
	s.SetLogf(func(string, ...any) {})
	s.Seed([]graph.NodeRecord{
		{ID: "a", Type: graph.EntityUser, X: 0, Y: 0, Size: 10, Positioned: true},
		{ID: "b", Type: graph.EntityUser, X: 50, Y: 0, Size: 10, Positioned: true},
		{ID: "c", Type: graph.EntityUser, X: 0, Y: 80, Size: 10, Positioned: true},
	}, []graph.EdgeRecord{
		{ID: "ab", SourceID: "a", TargetID: "b"},
		{ID: "bc", SourceID: "b", TargetID: "c"},
	})
	r := NewRenderer(nil)
	rec := NewRecorder()

	r.RenderFrame(rec, s.Snapshot(), Camera{Ratio: 1}, []string{"a", "b"})

	// Two visible circles plus the ab edge; bc has an endpoint outside
	// the visible set and is skipped.
	if got := rec.Count("fill"); got != 2 {
		t.Errorf("expected 2 node fills, got %d", got)
	}
	if got := rec.Count("lineTo"); got != 1 {
		t.Errorf("expected 1 edge segment, got %d", got)
	}
}

func TestRenderFrame_LowTierCameraRatio(t *testing.T) {
	// Camera ratio 2.0 is in the low band: the pentagon goal renders
	// as a plain filled circle with no stroke.
	s := seededStore(t)
	r := NewRenderer(nil)
	rec := NewRecorder()

	r.RenderFrame(rec, s.Snapshot(), Camera{Ratio: 2.0}, []string{"b"})

	if r.Tier() != TierLow {
		t.Fatalf("tier = %s, want low", r.Tier())
	}
	if rec.Count("arc") != 1 {
		t.Errorf("goal should collapse to one circle, got %d arcs", rec.Count("arc"))
	}
	if rec.Has("stroke") {
		t.Error("low tier frame should not stroke node shapes")
	}
}

func TestRenderFrame_TierComputedOncePerFrame(t *testing.T) {
	s := seededStore(t)
	r := NewRenderer(&Options{Tiers: TierConfig{HighBelow: 0.6, LowAt: 1.4, Deadband: 0.05}})
	rec := NewRecorder()

	r.RenderFrame(rec, s.Snapshot(), Camera{Ratio: 0.3}, []string{"a", "b", "c"})
	if r.Tier() != TierHigh {
		t.Fatalf("tier = %s, want high", r.Tier())
	}
	// Hovering just past the boundary keeps the tier thanks to the deadband.
	r.RenderFrame(rec, s.Snapshot(), Camera{Ratio: 0.62}, []string{"a"})
	if r.Tier() != TierHigh {
		t.Errorf("deadband should hold the previous tier, got %s", r.Tier())
	}
}

func TestOptions_DeadbandAloneKeepsDefaultThresholds(t *testing.T) {
	r := NewRenderer(&Options{Tiers: TierConfig{Deadband: 0.05}})
	rec := NewRecorder()
	s := seededStore(t)

	// Default thresholds still apply.
	r.RenderFrame(rec, s.Snapshot(), Camera{Ratio: 0.3}, nil)
	if r.Tier() != TierHigh {
		t.Fatalf("tier at 0.3 = %s, want high with default thresholds", r.Tier())
	}
	// The deadband survives the merge: just past the boundary holds.
	r.RenderFrame(rec, s.Snapshot(), Camera{Ratio: 0.62}, nil)
	if r.Tier() != TierHigh {
		t.Errorf("deadband lost in option merge, tier = %s", r.Tier())
	}
}

func TestHitTest(t *testing.T) {
	s := seededStore(t)
	r := NewRenderer(nil)
	cam := Camera{Ratio: 1}

	if got := r.HitTest(s.Snapshot(), cam, 0, 0); got != "a" {
		t.Errorf("hit at origin = %q, want a", got)
	}
	if got := r.HitTest(s.Snapshot(), cam, 50, 0); got != "b" {
		t.Errorf("hit at (50,0) = %q, want b", got)
	}
	if got := r.HitTest(s.Snapshot(), cam, 500, 500); got != "" {
		t.Errorf("empty stage hit = %q, want \"\"", got)
	}
}

func TestClick_EmitsSelection(t *testing.T) {
	s := seededStore(t)
	var selected []string
	r := NewRenderer(&Options{OnSelectNode: func(id string) { selected = append(selected, id) }})
	cam := Camera{Ratio: 1}

	r.Click(s.Snapshot(), cam, 0, 0)
	r.Click(s.Snapshot(), cam, 999, 999)

	if len(selected) != 2 || selected[0] != "a" || selected[1] != "" {
		t.Errorf("selection events = %v, want [a \"\"]", selected)
	}
}

func TestFocusOn_EmitsProjectedTarget(t *testing.T) {
	s := seededStore(t)
	var got FocusTarget
	r := NewRenderer(&Options{OnFocusRequest: func(t FocusTarget) { got = t }})

	if !r.FocusOn(s.Snapshot(), "b") {
		t.Fatal("focus on existing node failed")
	}
	if got.X != 50 || got.Y != 0 || got.NodeID != "b" {
		t.Errorf("focus target = %+v", got)
	}
	if got.Ratio != 0.5 {
		t.Errorf("focus ratio = %v, want default 0.5", got.Ratio)
	}
	if r.FocusOn(s.Snapshot(), "missing") {
		t.Error("focus on missing node should report false")
	}
}

func TestRenderFrame_AnalyticsDrivenEdgeStyling(t *testing.T) {
	s := seededStore(t)
	r := NewRenderer(nil)
	clusters := analytics.NewClusters()
	clusters.Add("alpha", []string{"a", "b"})
	r.SetAnalytics(analytics.Set{
		"a": {Betweenness: 0.9},
		"b": {Betweenness: 0.8},
	}, clusters)

	rec := NewRecorder()
	r.RenderFrame(rec, s.Snapshot(), Camera{Ratio: 1}, []string{"a", "b"})

	// Importance avg 0.85 > 0.7: the edge strokes at width 3 with
	// same-cluster opacity 0.9 applied then reset.
	var widths, alphas []float64
	for _, op := range rec.Ops {
		switch op.Name {
		case "setLineWidth":
			widths = append(widths, op.Args[0])
		case "setAlpha":
			alphas = append(alphas, op.Args[0])
		}
	}
	if len(widths) == 0 || widths[0] != 3 {
		t.Errorf("edge width = %v, want first stroke at 3", widths)
	}
	if len(alphas) < 2 || alphas[0] != 0.9 {
		t.Errorf("same-cluster edge alpha = %v, want 0.9", alphas)
	}
}

func TestLoop_CoalescesDirtyMarks(t *testing.T) {
	var frames atomic.Int32
	loop := NewLoop(func() {
		frames.Add(1)
		time.Sleep(10 * time.Millisecond)
	})
	loop.Start()
	defer loop.Stop()

	for i := 0; i < 20; i++ {
		loop.MarkDirty()
	}
	time.Sleep(100 * time.Millisecond)

	if n := frames.Load(); n == 0 || n >= 20 {
		t.Errorf("expected coalesced frames, got %d", n)
	}
}

func TestLoop_FrameCommittedSubscription(t *testing.T) {
	loop := NewLoop(func() {})
	var commits atomic.Int32
	unsubscribe := loop.OnFrameCommitted(func() { commits.Add(1) })

	loop.Start()
	defer loop.Stop()

	loop.MarkDirty()
	waitFor(t, func() bool { return commits.Load() == 1 })

	unsubscribe()
	loop.MarkDirty()
	time.Sleep(50 * time.Millisecond)
	if commits.Load() != 1 {
		t.Errorf("unsubscribed handler still ran: %d commits", commits.Load())
	}
}

func TestLoop_PanicContained(t *testing.T) {
	var after atomic.Bool
	boom := true
	loop := NewLoop(func() {
		if boom {
			boom = false
			panic("frame exploded")
		}
		after.Store(true)
	})
	loop.SetErrorHandler(func(error) bool { return true })
	loop.Start()
	defer loop.Stop()

	loop.MarkDirty()
	time.Sleep(30 * time.Millisecond)
	loop.MarkDirty()
	waitFor(t, func() bool { return after.Load() })
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}
