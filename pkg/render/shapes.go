package render

import (
	"math"

	"github.com/atlasgraph/atlas/pkg/graph"
)

// tracePath outlines a shape centered at (x, y) with radius r on the
// current path. Trace funcs are pure: they never touch styles, only
// geometry.
type tracePath func(c Canvas, x, y, r float64)

// shapeTable dispatches by entity tag. A fixed function array keeps
// the per-node branch in the hot loop predictable; no interface or
// map lookup per shape.
var shapeTable = [graph.EntityCount]tracePath{
	graph.EntityUser:       traceCircle,
	graph.EntityTeam:       traceSquare,
	graph.EntityProject:    traceDiamond,
	graph.EntityGoal:       tracePentagon,
	graph.EntityDepartment: traceHexagon,
	graph.EntityAsset:      traceTriangle,
	graph.EntityCluster:    traceCloud,
}

// glyphTable holds the per-type center glyph drawn at the highest
// detail tier.
var glyphTable = [graph.EntityCount]string{
	graph.EntityUser:       "u",
	graph.EntityTeam:       "t",
	graph.EntityProject:    "p",
	graph.EntityGoal:       "g",
	graph.EntityDepartment: "d",
	graph.EntityAsset:      "a",
	graph.EntityCluster:    "c",
}

const defaultNodeRadius = 8

// px converts a screen-pixel measure to world units for the current
// camera ratio (world units per screen pixel).
func px(ratio, v float64) float64 {
	if ratio <= 0 {
		return v
	}
	return v * ratio
}

// DrawNode draws one node with the given composed attributes at the
// given detail tier. Pure with respect to store state: every input is
// explicit and nothing is retained across calls.
func DrawNode(c Canvas, n *graph.NodeRecord, attrs Attrs, tier Tier, ratio float64) {
	r := n.Size
	if r <= 0 {
		r = defaultNodeRadius
	}

	if tier == TierLow {
		// Deliberate simplification: every declared shape collapses to
		// a fill-only circle, no stroke, no decorations.
		c.SetFill(attrs.Fill)
		c.BeginPath()
		c.Arc(n.X, n.Y, r, 0, math.Pi*2)
		c.Fill()
		return
	}

	if attrs.HaloScale > 0 {
		c.SetFill(attrs.HaloColor)
		c.BeginPath()
		c.Arc(n.X, n.Y, r*(1+attrs.HaloScale), 0, math.Pi*2)
		c.Fill()
	}

	trace := shapeTable[n.Type%graph.EntityCount]
	c.BeginPath()
	trace(c, n.X, n.Y, r)
	c.SetFill(attrs.Fill)
	c.Fill()

	strokeWidth := attrs.BorderWidth
	if strokeWidth <= 0 {
		strokeWidth = 1
	}
	c.SetStroke(attrs.Border)
	c.SetLineWidth(px(ratio, strokeWidth))
	if n.Pattern == graph.PatternDashed && tier == TierHigh {
		c.SetLineDash([]float64{px(ratio, 4), px(ratio, 2)})
		c.Stroke()
		c.SetLineDash(nil)
	} else {
		c.Stroke()
	}

	if tier == TierHigh {
		if n.Pattern == graph.PatternGrid {
			drawGrid(c, n.X, n.Y, r, attrs, ratio)
		}
		if n.Type == graph.EntityGoal && n.Progress > 0 {
			drawProgressRing(c, n.X, n.Y, r, n.Progress, ratio)
		}
		c.SetFill(attrs.Border)
		c.FillText(glyphTable[n.Type%graph.EntityCount], n.X-px(ratio, 3), n.Y+px(ratio, 3), px(ratio, 9))
	}

	if n.Status != "" {
		drawStatusDot(c, n.X, n.Y, r, n.Status)
	}

	if attrs.Ring {
		c.SetStroke(attrs.RingColor)
		c.SetLineWidth(px(ratio, 1.5))
		c.SetLineDash([]float64{px(ratio, 4), px(ratio, 3)})
		c.BeginPath()
		c.Arc(n.X, n.Y, r+px(ratio, 4), 0, math.Pi*2)
		c.Stroke()
		c.SetLineDash(nil)
	}

	if tier == TierHigh && n.Label != "" {
		c.SetFill(attrs.Border)
		c.FillText(n.Label, n.X+r+px(ratio, 4), n.Y, px(ratio, 12))
	}
}

// drawStatusDot draws the secondary indicator at a fixed corner offset.
func drawStatusDot(c Canvas, x, y, r float64, status string) {
	dot := r * 0.28
	if dot < 2 {
		dot = 2
	}
	c.SetFill(StatusColor(status))
	c.BeginPath()
	c.Arc(x+r*0.75, y-r*0.75, dot, 0, math.Pi*2)
	c.Fill()
}

// drawProgressRing draws the goal completion arc just outside the
// shape, sweeping clockwise from twelve o'clock.
func drawProgressRing(c Canvas, x, y, r, progress, ratio float64) {
	if progress > 100 {
		progress = 100
	}
	start := -math.Pi / 2
	end := start + 2*math.Pi*(progress/100)
	c.SetStroke(statusGreen)
	c.SetLineWidth(px(ratio, 2))
	c.BeginPath()
	c.Arc(x, y, r+px(ratio, 2), start, end)
	c.Stroke()
}

// drawGrid textures the shape interior with a repeating grid.
func drawGrid(c Canvas, x, y, r float64, attrs Attrs, ratio float64) {
	step := r / 2
	c.SetStroke(attrs.Border.WithAlpha(0.35))
	c.SetLineWidth(px(ratio, 0.5))
	c.BeginPath()
	for off := -r + step; off < r; off += step {
		c.MoveTo(x+off, y-r)
		c.LineTo(x+off, y+r)
		c.MoveTo(x-r, y+off)
		c.LineTo(x+r, y+off)
	}
	c.Stroke()
}

func traceCircle(c Canvas, x, y, r float64) {
	c.Arc(x, y, r, 0, math.Pi*2)
}

func traceSquare(c Canvas, x, y, r float64) {
	c.Rect(x-r, y-r, 2*r, 2*r)
}

func traceDiamond(c Canvas, x, y, r float64) {
	c.MoveTo(x, y-r)
	c.LineTo(x+r, y)
	c.LineTo(x, y+r)
	c.LineTo(x-r, y)
	c.ClosePath()
}

func traceTriangle(c Canvas, x, y, r float64) {
	c.MoveTo(x, y-r)
	c.LineTo(x+r*0.866, y+r*0.5)
	c.LineTo(x-r*0.866, y+r*0.5)
	c.ClosePath()
}

func tracePolygon(c Canvas, x, y, r float64, sides int) {
	for i := 0; i < sides; i++ {
		angle := -math.Pi/2 + 2*math.Pi*float64(i)/float64(sides)
		sx := x + r*math.Cos(angle)
		sy := y + r*math.Sin(angle)
		if i == 0 {
			c.MoveTo(sx, sy)
		} else {
			c.LineTo(sx, sy)
		}
	}
	c.ClosePath()
}

func tracePentagon(c Canvas, x, y, r float64) {
	tracePolygon(c, x, y, r, 5)
}

func traceHexagon(c Canvas, x, y, r float64) {
	tracePolygon(c, x, y, r, 6)
}

// traceCloud composes four overlapping circles into a cluster puff.
func traceCloud(c Canvas, x, y, r float64) {
	lobes := [4][3]float64{
		{-0.45, 0.15, 0.55},
		{0.45, 0.15, 0.55},
		{-0.1, -0.3, 0.6},
		{0.15, 0.3, 0.5},
	}
	for _, l := range lobes {
		cx := x + l[0]*r
		cy := y + l[1]*r
		c.MoveTo(cx+l[2]*r, cy)
		c.Arc(cx, cy, l[2]*r, 0, math.Pi*2)
	}
}
