package render

import (
	"testing"

	"github.com/atlasgraph/atlas/pkg/analytics"
	"github.com/atlasgraph/atlas/pkg/graph"
	"github.com/atlasgraph/atlas/pkg/paint"
)

func edgeFixture() (*graph.EdgeRecord, *graph.NodeRecord, *graph.NodeRecord) {
	e := &graph.EdgeRecord{ID: "e1", SourceID: "a", TargetID: "b"}
	src := &graph.NodeRecord{ID: "a", X: 1, Y: 2, Positioned: true}
	dst := &graph.NodeRecord{ID: "b", X: 3, Y: 4, Positioned: true}
	return e, src, dst
}

func TestEdgeResolver_NoAnalyticsDefersToDefault(t *testing.T) {
	r := &EdgeResolver{Metrics: analytics.Set{}}
	e, src, dst := edgeFixture()
	if _, ok := r.Resolve(e, src, dst); ok {
		t.Error("resolver should defer to default drawing with no endpoint analytics")
	}
}

func TestEdgeResolver_UnresolvableCoordinatesDefer(t *testing.T) {
	r := &EdgeResolver{Metrics: analytics.Set{"a": {Degree: 0.9}, "b": {Degree: 0.9}}}
	e, src, dst := edgeFixture()

	if _, ok := r.Resolve(e, nil, dst); ok {
		t.Error("missing source must signal default rendering, not draw at origin")
	}
	unplaced := *src
	unplaced.Positioned = false
	if _, ok := r.Resolve(e, &unplaced, dst); ok {
		t.Error("unpositioned endpoint must signal default rendering")
	}
}

func TestEdgeResolver_ImportanceWidths(t *testing.T) {
	e, src, dst := edgeFixture()
	cases := []struct {
		name      string
		srcRec    analytics.Record
		dstRec    analytics.Record
		wantWidth float64
	}{
		{"high", analytics.Record{Betweenness: 0.9}, analytics.Record{Degree: 0.8}, 3},
		{"medium", analytics.Record{Betweenness: 0.5}, analytics.Record{Degree: 0.5}, 2},
		{"base", analytics.Record{Betweenness: 0.1}, analytics.Record{Degree: 0.2}, 1},
	}
	for _, c := range cases {
		r := &EdgeResolver{Metrics: analytics.Set{"a": c.srcRec, "b": c.dstRec}}
		style, ok := r.Resolve(e, src, dst)
		if !ok {
			t.Fatalf("%s: resolver unexpectedly deferred", c.name)
		}
		if style.Width != c.wantWidth {
			t.Errorf("%s: width = %v, want %v", c.name, style.Width, c.wantWidth)
		}
	}
}

func TestEdgeResolver_ClusterOpacity(t *testing.T) {
	e, src, dst := edgeFixture()
	metrics := analytics.Set{"a": {Degree: 0.3}, "b": {Degree: 0.3}}

	same := analytics.NewClusters()
	same.Add("alpha", []string{"a", "b"})
	r := &EdgeResolver{Metrics: metrics, Clusters: same}
	style, _ := r.Resolve(e, src, dst)
	if style.Opacity != 0.9 {
		t.Errorf("same-cluster opacity = %v, want 0.9", style.Opacity)
	}

	cross := analytics.NewClusters()
	cross.Add("alpha", []string{"a"})
	cross.Add("beta", []string{"b"})
	r = &EdgeResolver{Metrics: metrics, Clusters: cross}
	style, _ = r.Resolve(e, src, dst)
	if style.Opacity != 0.5 {
		t.Errorf("cross-cluster opacity = %v, want 0.5", style.Opacity)
	}
}

func TestEdgeResolver_LiveCoordinates(t *testing.T) {
	// Endpoint coordinates come from the live records handed in, not
	// any cached position.
	r := &EdgeResolver{Metrics: analytics.Set{"a": {Degree: 0.5}}}
	e, src, dst := edgeFixture()
	src.X, src.Y = 100, 200
	style, ok := r.Resolve(e, src, dst)
	if !ok {
		t.Fatal("resolver deferred unexpectedly")
	}
	if style.X1 != 100 || style.Y1 != 200 {
		t.Errorf("edge should use live coordinates, got (%v,%v)", style.X1, style.Y1)
	}
}

func TestDrawEdge_ResetsAlpha(t *testing.T) {
	rec := NewRecorder()
	DrawEdge(rec, EdgeStyle{Width: 2, Opacity: 0.5, Color: paint.MustHex("#39424e"), X2: 5}, 1.0)

	alphas := []float64{}
	for _, op := range rec.Ops {
		if op.Name == "setAlpha" {
			alphas = append(alphas, op.Args[0])
		}
	}
	if len(alphas) != 2 || alphas[0] != 0.5 || alphas[1] != 1 {
		t.Errorf("edge drawing should set opacity then restore it, got %v", alphas)
	}
}
