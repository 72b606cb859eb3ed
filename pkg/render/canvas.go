// Package render is the level-of-detail drawing pipeline: it turns a
// graph snapshot plus camera state into draw commands on a Canvas,
// composing analytics highlights, cluster tints and edge styling over
// the base shapes.
package render

import "github.com/atlasgraph/atlas/pkg/paint"

// Canvas is the 2D drawing surface the renderer targets. The method
// set mirrors the canvas 2D context so the WASM implementation is a
// thin passthrough; the Recorder implementation captures commands for
// tests and server-side use.
//
// Implementations are not required to be safe for concurrent use; the
// render loop owns the surface for the duration of a frame.
type Canvas interface {
	Save()
	Restore()
	Translate(x, y float64)
	Scale(x, y float64)

	SetFill(c paint.Color)
	SetStroke(c paint.Color)
	SetLineWidth(w float64)
	SetLineDash(segments []float64)
	SetAlpha(a float64)

	BeginPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	ClosePath()
	Arc(x, y, r, start, end float64)
	Rect(x, y, w, h float64)
	Fill()
	Stroke()

	FillText(text string, x, y, size float64)
	ClearRect(x, y, w, h float64)
}

// Op is one recorded canvas command.
type Op struct {
	Name  string
	Args  []float64
	Text  string
	Color paint.Color
	Dash  []float64
}

// Recorder is a Canvas that records commands instead of drawing.
type Recorder struct {
	Ops []Op
}

// NewRecorder creates an empty recording canvas.
func NewRecorder() *Recorder { return &Recorder{} }

// Reset discards all recorded commands.
func (r *Recorder) Reset() { r.Ops = r.Ops[:0] }

// Count returns how many commands with the given name were recorded.
func (r *Recorder) Count(name string) int {
	n := 0
	for i := range r.Ops {
		if r.Ops[i].Name == name {
			n++
		}
	}
	return n
}

// Has reports whether any command with the given name was recorded.
func (r *Recorder) Has(name string) bool { return r.Count(name) > 0 }

// Texts returns all recorded FillText strings in order.
func (r *Recorder) Texts() []string {
	var out []string
	for i := range r.Ops {
		if r.Ops[i].Name == "fillText" {
			out = append(out, r.Ops[i].Text)
		}
	}
	return out
}

// LastColor returns the color of the most recent command with the
// given name, if any.
func (r *Recorder) LastColor(name string) (paint.Color, bool) {
	for i := len(r.Ops) - 1; i >= 0; i-- {
		if r.Ops[i].Name == name {
			return r.Ops[i].Color, true
		}
	}
	return paint.Color{}, false
}

func (r *Recorder) record(name string, args ...float64) {
	r.Ops = append(r.Ops, Op{Name: name, Args: args})
}

func (r *Recorder) Save()                  { r.record("save") }
func (r *Recorder) Restore()               { r.record("restore") }
func (r *Recorder) Translate(x, y float64) { r.record("translate", x, y) }
func (r *Recorder) Scale(x, y float64)     { r.record("scale", x, y) }

func (r *Recorder) SetFill(c paint.Color) {
	r.Ops = append(r.Ops, Op{Name: "setFill", Color: c})
}

func (r *Recorder) SetStroke(c paint.Color) {
	r.Ops = append(r.Ops, Op{Name: "setStroke", Color: c})
}

func (r *Recorder) SetLineWidth(w float64) { r.record("setLineWidth", w) }

func (r *Recorder) SetLineDash(segments []float64) {
	r.Ops = append(r.Ops, Op{Name: "setLineDash", Dash: append([]float64(nil), segments...)})
}

func (r *Recorder) SetAlpha(a float64) { r.record("setAlpha", a) }

func (r *Recorder) BeginPath()                       { r.record("beginPath") }
func (r *Recorder) MoveTo(x, y float64)              { r.record("moveTo", x, y) }
func (r *Recorder) LineTo(x, y float64)              { r.record("lineTo", x, y) }
func (r *Recorder) ClosePath()                       { r.record("closePath") }
func (r *Recorder) Arc(x, y, rad, s, e float64)      { r.record("arc", x, y, rad, s, e) }
func (r *Recorder) Rect(x, y, w, h float64)          { r.record("rect", x, y, w, h) }
func (r *Recorder) Fill()                            { r.record("fill") }
func (r *Recorder) Stroke()                          { r.record("stroke") }
func (r *Recorder) ClearRect(x, y, w, h float64)     { r.record("clearRect", x, y, w, h) }

func (r *Recorder) FillText(text string, x, y, size float64) {
	r.Ops = append(r.Ops, Op{Name: "fillText", Args: []float64{x, y, size}, Text: text})
}
