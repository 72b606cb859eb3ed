package render

import (
	"testing"

	"github.com/atlasgraph/atlas/pkg/analytics"
	"github.com/atlasgraph/atlas/pkg/graph"
	"github.com/atlasgraph/atlas/pkg/paint"
)

func baseNode() *graph.NodeRecord {
	return &graph.NodeRecord{
		ID:          "n1",
		Type:        graph.EntityProject,
		BaseColor:   paint.MustHex("#fd8d3c"),
		BorderColor: paint.MustHex("#334155"),
		BorderWidth: 1,
		Positioned:  true,
		Size:        10,
	}
}

func TestCompose_NoAnalyticsFallsThroughUntouched(t *testing.T) {
	comp := NewComposer(&ComposeOptions{Metric: analytics.MetricBetweenness, HighlightThreshold: 0.7})
	n := baseNode()

	attrs := comp.Compose(n, nil, nil)

	if attrs.Fill != n.BaseColor {
		t.Errorf("fill changed without analytics: %v", attrs.Fill)
	}
	if attrs.Border != n.BorderColor || attrs.BorderWidth != n.BorderWidth {
		t.Errorf("border changed without analytics: %v w=%v", attrs.Border, attrs.BorderWidth)
	}
	if attrs.Highlighted || attrs.Ring || attrs.HaloScale != 0 {
		t.Error("decorations present without analytics record")
	}
}

func TestCompose_HighlightAboveThreshold(t *testing.T) {
	comp := NewComposer(&ComposeOptions{Metric: analytics.MetricBetweenness, HighlightThreshold: 0.7})
	rec := &analytics.Record{Betweenness: 0.85}

	attrs := comp.Compose(baseNode(), rec, nil)

	if attrs.BorderWidth != 3 {
		t.Errorf("border width = %v, want 3", attrs.BorderWidth)
	}
	if !attrs.Highlighted {
		t.Error("node should be flagged highlighted")
	}
	if !attrs.Ring {
		t.Error("highlighted node should be eligible for the dashed ring")
	}
	if attrs.Border != comp.Options().HighColor {
		t.Errorf("border should take the high-intensity marker color, got %v", attrs.Border)
	}
}

func TestCompose_MediumBand(t *testing.T) {
	comp := NewComposer(&ComposeOptions{Metric: analytics.MetricDegree, HighlightThreshold: 0.7})
	rec := &analytics.Record{Degree: 0.5}

	attrs := comp.Compose(baseNode(), rec, nil)

	if attrs.BorderWidth != 2 {
		t.Errorf("border width = %v, want 2", attrs.BorderWidth)
	}
	if attrs.Highlighted || attrs.Ring {
		t.Error("medium band must not be highlighted")
	}
	if attrs.Border != comp.Options().MediumColor {
		t.Errorf("border = %v, want medium marker", attrs.Border)
	}
}

func TestCompose_LowBandKeepsWidth(t *testing.T) {
	comp := NewComposer(&ComposeOptions{Metric: analytics.MetricDegree, HighlightThreshold: 0.7})
	rec := &analytics.Record{Degree: 0.05}

	n := baseNode()
	n.BorderWidth = 1.5
	attrs := comp.Compose(n, rec, nil)

	if attrs.BorderWidth != 1.5 {
		t.Errorf("low band should leave the width unchanged, got %v", attrs.BorderWidth)
	}
	if attrs.Border != comp.Options().LowColor {
		t.Errorf("border = %v, want low marker", attrs.Border)
	}
	if attrs.HaloScale != 0 {
		t.Errorf("halo should be skipped at %v below the threshold", rec.Degree)
	}
}

func TestCompose_HaloScaling(t *testing.T) {
	comp := NewComposer(&ComposeOptions{Metric: analytics.MetricDegree})

	// Just above the noise threshold, scale clamps to the minimum.
	attrs := comp.Compose(baseNode(), &analytics.Record{Degree: 0.12}, nil)
	if attrs.HaloScale != 0.2 {
		t.Errorf("halo scale = %v, want minimum 0.2", attrs.HaloScale)
	}

	attrs = comp.Compose(baseNode(), &analytics.Record{Degree: 0.6}, nil)
	if attrs.HaloScale != 0.6 {
		t.Errorf("halo scale = %v, want metric value", attrs.HaloScale)
	}
	if attrs.HaloColor.A >= 1 {
		t.Error("halo must be translucent")
	}
}

func TestCompose_ClusterTint(t *testing.T) {
	clusters := analytics.NewClusters()
	clusters.Add("alpha", []string{"n1"})
	tint, _ := clusters.Color("alpha")

	comp := NewComposer(&ComposeOptions{
		Metric:             analytics.MetricBetweenness,
		HighlightThreshold: 0.7,
		ShowClusters:       true,
	})

	// Highlighted member takes the cluster color outright.
	attrs := comp.Compose(baseNode(), &analytics.Record{Betweenness: 0.9}, clusters)
	if attrs.Fill != tint {
		t.Errorf("highlighted fill = %v, want cluster color %v", attrs.Fill, tint)
	}

	// Non-highlighted member blends 70% toward the cluster color.
	n := baseNode()
	attrs = comp.Compose(n, &analytics.Record{Betweenness: 0.1}, clusters)
	want := n.BaseColor.Blend(tint, 0.7)
	if attrs.Fill != want {
		t.Errorf("blended fill = %v, want %v", attrs.Fill, want)
	}
}

func TestBlend_ChannelsStayWithinBounds(t *testing.T) {
	a := paint.MustHex("#102030")
	b := paint.MustHex("#e0c0a0")
	for _, rho := range []float64{0, 0.25, 0.5, 0.7, 1} {
		got := a.Blend(b, rho)
		for i, ch := range [][3]float64{
			{a.R, got.R, b.R},
			{a.G, got.G, b.G},
			{a.B, got.B, b.B},
		} {
			lo, hi := ch[0], ch[2]
			if lo > hi {
				lo, hi = hi, lo
			}
			if ch[1] < lo || ch[1] > hi {
				t.Errorf("rho=%v channel %d overshoots: %v not in [%v,%v]", rho, i, ch[1], lo, hi)
			}
		}
	}
	if a.Blend(b, 0) != a {
		t.Error("blend at 0 should return the base color")
	}
	if a.Blend(b, 1) != b {
		t.Error("blend at 1 should return the target color")
	}
}
