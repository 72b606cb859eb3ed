package render

import (
	"math"

	"github.com/atlasgraph/atlas/pkg/analytics"
	"github.com/atlasgraph/atlas/pkg/graph"
	"github.com/atlasgraph/atlas/pkg/paint"
)

// Camera is the host-supplied viewport state for one frame. The engine
// is a pure consumer: it never mutates camera state, it only reads the
// ratio and projects coordinates through it.
type Camera struct {
	// Ratio is world units per screen pixel; small means zoomed in.
	Ratio float64
	// OffsetX/OffsetY are the world coordinates at the screen origin.
	OffsetX, OffsetY float64
}

// Project maps world coordinates to screen coordinates.
func (c Camera) Project(wx, wy float64) (sx, sy float64) {
	if c.Ratio <= 0 {
		return wx - c.OffsetX, wy - c.OffsetY
	}
	return (wx - c.OffsetX) / c.Ratio, (wy - c.OffsetY) / c.Ratio
}

// Unproject maps screen coordinates back to world coordinates.
func (c Camera) Unproject(sx, sy float64) (wx, wy float64) {
	if c.Ratio <= 0 {
		return sx + c.OffsetX, sy + c.OffsetY
	}
	return sx*c.Ratio + c.OffsetX, sy*c.Ratio + c.OffsetY
}

// FocusTarget is a pan/zoom request the engine hands to the host in
// response to a user "focus on node" action.
type FocusTarget struct {
	NodeID string
	X, Y   float64 // world coordinates to center on
	Ratio  float64
}

// Options configures the frame renderer behavior and style.
type Options struct {
	Background paint.Color // default "#0b0e14"
	NodeColor  paint.Color // default "#6ea8fe", fill for nodes without a base color
	EdgeColor  paint.Color // default "#39424e"
	LabelColor paint.Color // default "#eaeef3"

	Tiers   TierConfig
	Compose ComposeOptions

	// FocusRatio is the zoom ratio requested when focusing a node.
	// Default 0.5 (inside the high-detail band).
	FocusRatio float64

	// OnSelectNode receives the clicked node id, or "" for an
	// empty-stage click. The engine never resolves entity details.
	OnSelectNode func(id string)

	// OnFocusRequest receives projected pan/zoom targets for the host
	// camera to animate to.
	OnFocusRequest func(t FocusTarget)
}

func (o *Options) withDefaults() Options {
	d := Options{
		Background: paint.MustHex("#0b0e14"),
		NodeColor:  paint.MustHex("#6ea8fe"),
		EdgeColor:  paint.MustHex("#39424e"),
		LabelColor: paint.MustHex("#eaeef3"),
		Tiers:      DefaultTierConfig(),
		FocusRatio: 0.5,
	}
	if o == nil {
		return d
	}
	out := d
	if !o.Background.IsZero() {
		out.Background = o.Background
	}
	if !o.NodeColor.IsZero() {
		out.NodeColor = o.NodeColor
	}
	if !o.EdgeColor.IsZero() {
		out.EdgeColor = o.EdgeColor
	}
	if !o.LabelColor.IsZero() {
		out.LabelColor = o.LabelColor
	}
	if o.Tiers.HighBelow != 0 {
		out.Tiers.HighBelow = o.Tiers.HighBelow
	}
	if o.Tiers.LowAt != 0 {
		out.Tiers.LowAt = o.Tiers.LowAt
	}
	if o.Tiers.Deadband != 0 {
		out.Tiers.Deadband = o.Tiers.Deadband
	}
	if o.FocusRatio != 0 {
		out.FocusRatio = o.FocusRatio
	}
	out.Compose = o.Compose
	out.OnSelectNode = o.OnSelectNode
	out.OnFocusRequest = o.OnFocusRequest
	return out
}

// Renderer draws one frame of the graph: edges first, then nodes, each
// styled through the compositor and the edge resolver. Per-frame cost
// is proportional to the visible set the host's culling step supplies,
// plus the edges joining it.
type Renderer struct {
	opts     Options
	composer *Composer
	resolver EdgeResolver
	prevTier Tier
}

// NewRenderer creates a frame renderer with defaulted options.
func NewRenderer(opts *Options) *Renderer {
	o := opts.withDefaults()
	return &Renderer{
		opts:     o,
		composer: NewComposer(&o.Compose),
		resolver: EdgeResolver{DefaultColor: o.EdgeColor},
		prevTier: o.Tiers.TierFor(1),
	}
}

// SetAnalytics swaps in the current analytics and cluster snapshots.
// Both are read-only views passed by reference; a nil set simply turns
// the overlay off.
func (r *Renderer) SetAnalytics(metrics analytics.Set, clusters *analytics.Clusters) {
	r.resolver.Metrics = metrics
	r.resolver.Clusters = clusters
}

// Tier returns the detail tier used by the most recent frame.
func (r *Renderer) Tier() Tier { return r.prevTier }

// RenderFrame draws the visible portion of the snapshot. The visible
// node set comes from an external viewport culling step; the tier is
// computed exactly once here and threaded into every draw call.
func (r *Renderer) RenderFrame(c Canvas, snap *graph.Snapshot, cam Camera, visible []string) {
	tier := r.opts.Tiers.Next(r.prevTier, cam.Ratio)
	r.prevTier = tier

	visSet := make(map[string]struct{}, len(visible))
	for _, id := range visible {
		visSet[id] = struct{}{}
	}

	c.Save()
	defer c.Restore()
	if cam.Ratio > 0 {
		c.Scale(1/cam.Ratio, 1/cam.Ratio)
	}
	c.Translate(-cam.OffsetX, -cam.OffsetY)

	snap.RenderEdges(func(e *graph.EdgeRecord, src, dst *graph.NodeRecord) {
		if _, ok := visSet[e.SourceID]; !ok {
			return
		}
		if _, ok := visSet[e.TargetID]; !ok {
			return
		}
		if style, ok := r.resolver.Resolve(e, src, dst); ok {
			DrawEdge(c, style, cam.Ratio)
		} else {
			DrawDefaultEdge(c, e, src, dst, r.opts.EdgeColor, cam.Ratio)
		}
	})

	for _, id := range visible {
		n, ok := snap.Node(id)
		if !ok || !n.Positioned {
			continue
		}
		attrs := r.composeNode(n)
		DrawNode(c, n, attrs, tier, cam.Ratio)
	}
}

// composeNode resolves attributes, falling back to the theme node
// color when the record carries none.
func (r *Renderer) composeNode(n *graph.NodeRecord) Attrs {
	rec, ok := r.resolver.Metrics[n.ID]
	var recPtr *analytics.Record
	if ok {
		recPtr = &rec
	}
	attrs := r.composer.Compose(n, recPtr, r.resolver.Clusters)
	if attrs.Fill.IsZero() {
		attrs.Fill = r.opts.NodeColor
	}
	if attrs.Border.IsZero() {
		attrs.Border = r.opts.EdgeColor
	}
	return attrs
}

// HitTest returns the id of the topmost node under a screen
// coordinate, or "" when the click lands on empty stage.
func (r *Renderer) HitTest(snap *graph.Snapshot, cam Camera, sx, sy float64) string {
	wx, wy := cam.Unproject(sx, sy)
	hit := ""
	best := math.MaxFloat64
	snap.RenderNodes(func(n *graph.NodeRecord) {
		radius := n.Size
		if radius <= 0 {
			radius = defaultNodeRadius
		}
		dx := wx - n.X
		dy := wy - n.Y
		d2 := dx*dx + dy*dy
		if d2 <= radius*radius && d2 < best {
			best = d2
			hit = n.ID
		}
	})
	return hit
}

// Click resolves a stage click to a node (or empty) selection and
// emits it to the host callback.
func (r *Renderer) Click(snap *graph.Snapshot, cam Camera, sx, sy float64) string {
	id := r.HitTest(snap, cam, sx, sy)
	if r.opts.OnSelectNode != nil {
		r.opts.OnSelectNode(id)
	}
	return id
}

// FocusOn issues a pan/zoom request centered on a node. The engine
// only emits the target; the host owns the camera.
func (r *Renderer) FocusOn(snap *graph.Snapshot, id string) bool {
	n, ok := snap.Node(id)
	if !ok || !n.Positioned {
		return false
	}
	if r.opts.OnFocusRequest != nil {
		r.opts.OnFocusRequest(FocusTarget{NodeID: id, X: n.X, Y: n.Y, Ratio: r.opts.FocusRatio})
	}
	return true
}
