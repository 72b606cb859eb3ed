//go:build js && wasm
// +build js,wasm

package render

import (
	"fmt"
	"syscall/js"

	"github.com/atlasgraph/atlas/pkg/paint"
)

// JSCanvas adapts a browser canvas 2D context to the Canvas interface.
type JSCanvas struct {
	ctx js.Value
}

// NewJSCanvas wraps the 2D context of a canvas element, accounting for
// the device pixel ratio the way the browser expects.
func NewJSCanvas(canvas js.Value) (*JSCanvas, error) {
	if !canvas.Truthy() {
		return nil, fmt.Errorf("render: canvas element is not available")
	}
	rect := canvas.Call("getBoundingClientRect")
	widthCSS := rect.Get("width").Float()
	heightCSS := rect.Get("height").Float()
	pixelRatio := 1.0
	if dpr := js.Global().Get("window").Get("devicePixelRatio"); dpr.Truthy() {
		pixelRatio = dpr.Float()
	}
	canvas.Set("width", int(widthCSS*pixelRatio))
	canvas.Set("height", int(heightCSS*pixelRatio))
	ctx := canvas.Call("getContext", "2d")
	if !ctx.Truthy() {
		return nil, fmt.Errorf("render: 2d context unavailable")
	}
	// Normalize to CSS pixel coordinates.
	ctx.Call("scale", pixelRatio, pixelRatio)
	return &JSCanvas{ctx: ctx}, nil
}

func (c *JSCanvas) Save()                  { c.ctx.Call("save") }
func (c *JSCanvas) Restore()               { c.ctx.Call("restore") }
func (c *JSCanvas) Translate(x, y float64) { c.ctx.Call("translate", x, y) }
func (c *JSCanvas) Scale(x, y float64)     { c.ctx.Call("scale", x, y) }

func (c *JSCanvas) SetFill(col paint.Color)   { c.ctx.Set("fillStyle", col.Hex()) }
func (c *JSCanvas) SetStroke(col paint.Color) { c.ctx.Set("strokeStyle", col.Hex()) }
func (c *JSCanvas) SetLineWidth(w float64)    { c.ctx.Set("lineWidth", w) }
func (c *JSCanvas) SetAlpha(a float64)        { c.ctx.Set("globalAlpha", a) }

func (c *JSCanvas) SetLineDash(segments []float64) {
	arr := js.Global().Get("Array").New(len(segments))
	for i, s := range segments {
		arr.SetIndex(i, s)
	}
	c.ctx.Call("setLineDash", arr)
}

func (c *JSCanvas) BeginPath()                  { c.ctx.Call("beginPath") }
func (c *JSCanvas) MoveTo(x, y float64)         { c.ctx.Call("moveTo", x, y) }
func (c *JSCanvas) LineTo(x, y float64)         { c.ctx.Call("lineTo", x, y) }
func (c *JSCanvas) ClosePath()                  { c.ctx.Call("closePath") }
func (c *JSCanvas) Arc(x, y, r, s, e float64)   { c.ctx.Call("arc", x, y, r, s, e) }
func (c *JSCanvas) Rect(x, y, w, h float64)     { c.ctx.Call("rect", x, y, w, h) }
func (c *JSCanvas) Fill()                       { c.ctx.Call("fill") }
func (c *JSCanvas) Stroke()                     { c.ctx.Call("stroke") }
func (c *JSCanvas) ClearRect(x, y, w, h float64) { c.ctx.Call("clearRect", x, y, w, h) }

func (c *JSCanvas) FillText(text string, x, y, size float64) {
	c.ctx.Set("font", fmt.Sprintf("%fpx sans-serif", size))
	c.ctx.Call("fillText", text, x, y)
}
