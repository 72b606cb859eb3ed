package render

import (
	"github.com/atlasgraph/atlas/pkg/analytics"
	"github.com/atlasgraph/atlas/pkg/graph"
	"github.com/atlasgraph/atlas/pkg/paint"
)

// EdgeStyle is the resolved stroke for one edge.
type EdgeStyle struct {
	Width   float64
	Opacity float64
	Color   paint.Color

	// Endpoint coordinates resolved from the live node records.
	X1, Y1, X2, Y2 float64
}

// EdgeResolver computes stroke width and opacity for an edge from the
// importance and cluster co-membership of its endpoints.
type EdgeResolver struct {
	Metrics  analytics.Set
	Clusters *analytics.Clusters

	// DefaultColor is used when the edge record carries no color.
	DefaultColor paint.Color
}

// Resolve computes the style for an edge. The second return value is
// false when the resolver cannot style the edge — no analytics for
// either endpoint, or unresolvable coordinates — in which case the
// caller should fall back to default edge drawing rather than paint at
// a wrong origin.
func (r *EdgeResolver) Resolve(e *graph.EdgeRecord, src, dst *graph.NodeRecord) (EdgeStyle, bool) {
	if src == nil || dst == nil || !src.Positioned || !dst.Positioned {
		return EdgeStyle{}, false
	}
	srcRec, srcOK := r.Metrics[e.SourceID]
	dstRec, dstOK := r.Metrics[e.TargetID]
	if !srcOK && !dstOK {
		return EdgeStyle{}, false
	}

	style := EdgeStyle{
		Width:   e.Width,
		Opacity: 0.5,
		Color:   e.Color,
		X1:      src.X, Y1: src.Y,
		X2: dst.X, Y2: dst.Y,
	}
	if style.Width <= 0 {
		style.Width = 1
	}
	if style.Color.IsZero() {
		style.Color = r.DefaultColor
	}

	importance := (srcRec.Importance() + dstRec.Importance()) / 2
	switch {
	case importance > 0.7:
		style.Width = 3
	case importance > 0.4:
		style.Width = 2
	}

	if r.Clusters != nil && r.Clusters.SameCluster(e.SourceID, e.TargetID) {
		style.Opacity = 0.9
	}
	return style, true
}

// DrawEdge strokes a resolved edge.
func DrawEdge(c Canvas, style EdgeStyle, ratio float64) {
	c.SetAlpha(style.Opacity)
	c.SetStroke(style.Color)
	c.SetLineWidth(px(ratio, style.Width))
	c.BeginPath()
	c.MoveTo(style.X1, style.Y1)
	c.LineTo(style.X2, style.Y2)
	c.Stroke()
	c.SetAlpha(1)
}

// DrawDefaultEdge strokes an edge with the fallback style, used when
// the resolver reports it cannot style the edge.
func DrawDefaultEdge(c Canvas, e *graph.EdgeRecord, src, dst *graph.NodeRecord, fallback paint.Color, ratio float64) {
	color := e.Color
	if color.IsZero() {
		color = fallback
	}
	width := e.Width
	if width <= 0 {
		width = 1
	}
	c.SetAlpha(1)
	c.SetStroke(color)
	c.SetLineWidth(px(ratio, width))
	c.BeginPath()
	c.MoveTo(src.X, src.Y)
	c.LineTo(dst.X, dst.Y)
	c.Stroke()
}
