package render

import (
	"github.com/atlasgraph/atlas/pkg/analytics"
	"github.com/atlasgraph/atlas/pkg/graph"
	"github.com/atlasgraph/atlas/pkg/paint"
)

// ComposeOptions configures the analytics overlay compositor.
type ComposeOptions struct {
	// Metric selects which centrality measure drives highlighting.
	Metric analytics.Metric

	// HighlightThreshold in [0,1]; values above it mark a node as
	// highlighted. Default 0.7.
	HighlightThreshold float64

	// ShowClusters enables cluster tinting.
	ShowClusters bool

	// ClusterBlend is how far a non-highlighted member's fill moves
	// toward its cluster color. Default 0.7.
	ClusterBlend float64

	// Marker colors for the three highlight intensities.
	HighColor   paint.Color
	MediumColor paint.Color
	LowColor    paint.Color

	// RingColor is the dashed ring around highlighted nodes, kept
	// distinct from the border so top-centrality nodes read at a
	// glance independent of base color.
	RingColor paint.Color

	// HaloThreshold is the metric value below which the magnitude halo
	// is skipped to avoid visual noise. Default 0.1.
	HaloThreshold float64
}

// withDefaults fills unset options, mirroring how viewer options are
// defaulted elsewhere in the engine.
func (o *ComposeOptions) withDefaults() ComposeOptions {
	d := ComposeOptions{
		Metric:             analytics.MetricDegree,
		HighlightThreshold: 0.7,
		ClusterBlend:       0.7,
		HighColor:          paint.MustHex("#ff3b30"),
		MediumColor:        paint.MustHex("#ff9500"),
		LowColor:           paint.MustHex("#4a5568"),
		RingColor:          paint.MustHex("#ffd60a"),
		HaloThreshold:      0.1,
	}
	if o == nil {
		return d
	}
	out := d
	out.Metric = o.Metric
	out.ShowClusters = o.ShowClusters
	if o.HighlightThreshold != 0 {
		out.HighlightThreshold = o.HighlightThreshold
	}
	if o.ClusterBlend != 0 {
		out.ClusterBlend = o.ClusterBlend
	}
	if !o.HighColor.IsZero() {
		out.HighColor = o.HighColor
	}
	if !o.MediumColor.IsZero() {
		out.MediumColor = o.MediumColor
	}
	if !o.LowColor.IsZero() {
		out.LowColor = o.LowColor
	}
	if !o.RingColor.IsZero() {
		out.RingColor = o.RingColor
	}
	if o.HaloThreshold != 0 {
		out.HaloThreshold = o.HaloThreshold
	}
	return out
}

// Attrs are the resolved visual attributes for one node after the
// analytics overlay has been composed over its base styling.
type Attrs struct {
	Fill        paint.Color
	Border      paint.Color
	BorderWidth float64

	// Highlighted marks nodes whose selected metric cleared the
	// threshold; they are eligible for the dashed outer ring.
	Highlighted bool
	Ring        bool
	RingColor   paint.Color

	// HaloScale > 0 requests a translucent radial halo of
	// size*(1+HaloScale); zero means none.
	HaloScale float64
	HaloColor paint.Color
}

// Composer resolves per-node render attributes from externally
// supplied centrality metrics and cluster assignments.
type Composer struct {
	opts ComposeOptions
}

// NewComposer builds a composer with defaulted options.
func NewComposer(opts *ComposeOptions) *Composer {
	return &Composer{opts: opts.withDefaults()}
}

// Options returns the effective (defaulted) options.
func (c *Composer) Options() ComposeOptions { return c.opts }

// Compose returns the render attributes for a node. A nil analytics
// record is not an error; coverage is expected to be partial and the
// node keeps exactly its own color and border.
func (c *Composer) Compose(n *graph.NodeRecord, rec *analytics.Record, clusters *analytics.Clusters) Attrs {
	attrs := Attrs{
		Fill:        n.BaseColor,
		Border:      n.BorderColor,
		BorderWidth: n.BorderWidth,
	}
	if rec == nil {
		return attrs
	}

	value := rec.Value(c.opts.Metric)
	switch {
	case value > c.opts.HighlightThreshold:
		attrs.BorderWidth = 3
		attrs.Border = c.opts.HighColor
		attrs.Highlighted = true
		attrs.Ring = true
		attrs.RingColor = c.opts.RingColor
	case value > c.opts.HighlightThreshold/2:
		attrs.BorderWidth = 2
		attrs.Border = c.opts.MediumColor
	default:
		attrs.Border = c.opts.LowColor
	}

	if c.opts.ShowClusters && clusters != nil {
		if clusterID, ok := clusters.ClusterOf(n.ID); ok {
			if tint, ok := clusters.Color(clusterID); ok {
				if attrs.Highlighted {
					attrs.Fill = tint
				} else {
					attrs.Fill = n.BaseColor.Blend(tint, c.opts.ClusterBlend)
				}
			}
		}
	}

	if value > c.opts.HaloThreshold {
		scale := value
		if scale < 0.2 {
			scale = 0.2
		}
		attrs.HaloScale = scale
		attrs.HaloColor = attrs.Border.WithAlpha(0.18)
	}

	return attrs
}
