//go:build js && wasm
// +build js,wasm

// The viewer is the browser entrypoint: it connects to the feed,
// mirrors the graph into a local store, and draws it on a canvas
// through the render loop.
package main

import (
	"log"
	"syscall/js"

	"github.com/atlasgraph/atlas/pkg/feed"
	"github.com/atlasgraph/atlas/pkg/graph"
	"github.com/atlasgraph/atlas/pkg/overlay"
	"github.com/atlasgraph/atlas/pkg/render"
)

type viewer struct {
	store    *graph.Store
	renderer *render.Renderer
	loop     *render.Loop
	canvas   *render.JSCanvas
	overlays *overlay.Manager

	cam     render.Camera
	width   float64
	height  float64
	visible []string
}

func main() {
	document := js.Global().Get("document")
	canvasEl := document.Call("getElementById", "atlas-canvas")

	canvas, err := render.NewJSCanvas(canvasEl)
	if err != nil {
		log.Printf("[Viewer] %v", err)
		return
	}

	rect := canvasEl.Call("getBoundingClientRect")
	v := &viewer{
		store:  graph.NewStore(),
		canvas: canvas,
		width:  rect.Get("width").Float(),
		height: rect.Get("height").Float(),
		cam:    render.Camera{Ratio: 1},
	}

	v.renderer = render.NewRenderer(&render.Options{
		OnSelectNode: func(id string) {
			js.Global().Call("dispatchEvent", newSelectionEvent(id))
		},
		OnFocusRequest: func(t render.FocusTarget) {
			v.cam.Ratio = t.Ratio
			v.cam.OffsetX = t.X - v.width/2*t.Ratio
			v.cam.OffsetY = t.Y - v.height/2*t.Ratio
			v.loop.MarkDirty()
		},
	})

	v.loop = render.NewLoop(v.frame)
	v.overlays = overlay.NewManager(func(nodeID string, p overlay.Payload) {
		log.Printf("[Viewer] badge click on %s: %s", nodeID, p.Description)
	})
	v.overlays.Attach(v.loop,
		v.store.Snapshot,
		func() render.Camera { return v.cam },
		func() []string { return v.visible },
	)

	v.bindInput(canvasEl)
	v.connectFeed()
	v.loop.Start()
	v.loop.MarkDirty()

	select {}
}

// frame runs on the loop goroutine once per dirty batch.
func (v *viewer) frame() {
	snap := v.store.Snapshot()
	v.visible = v.cullVisible(snap)
	v.canvas.ClearRect(0, 0, v.width, v.height)
	v.renderer.RenderFrame(v.canvas, snap, v.cam, v.visible)
}

// cullVisible keeps the nodes whose world position projects inside the
// viewport, padded by one node diameter.
func (v *viewer) cullVisible(snap *graph.Snapshot) []string {
	const pad = 32
	var ids []string
	snap.RenderNodes(func(n *graph.NodeRecord) {
		sx, sy := v.cam.Project(n.X, n.Y)
		if sx >= -pad && sx <= v.width+pad && sy >= -pad && sy <= v.height+pad {
			ids = append(ids, n.ID)
		}
	})
	return ids
}

func (v *viewer) bindInput(canvasEl js.Value) {
	canvasEl.Call("addEventListener", "click", js.FuncOf(func(this js.Value, args []js.Value) any {
		ev := args[0]
		sx := ev.Get("offsetX").Float()
		sy := ev.Get("offsetY").Float()
		if v.overlays.ClickAt(sx, sy) {
			return nil
		}
		v.renderer.Click(v.store.Snapshot(), v.cam, sx, sy)
		return nil
	}))

	canvasEl.Call("addEventListener", "wheel", js.FuncOf(func(this js.Value, args []js.Value) any {
		ev := args[0]
		ev.Call("preventDefault")
		factor := 1.1
		if ev.Get("deltaY").Float() < 0 {
			factor = 1 / factor
		}
		// Zoom about the cursor so the point under it stays fixed.
		sx := ev.Get("offsetX").Float()
		sy := ev.Get("offsetY").Float()
		wx, wy := v.cam.Unproject(sx, sy)
		v.cam.Ratio *= factor
		v.cam.OffsetX = wx - sx*v.cam.Ratio
		v.cam.OffsetY = wy - sy*v.cam.Ratio
		v.loop.MarkDirty()
		return nil
	}))
}

// connectFeed opens the WebSocket feed through the browser API and
// pumps frames into the store, coalescing deltas before application.
func (v *viewer) connectFeed() {
	coalescer := graph.NewCoalescer(graph.CoalescerOptions{RemovalWins: true}, func(d *graph.Delta) {
		v.store.Apply(d)
		v.loop.MarkDirty()
	})

	loc := js.Global().Get("location")
	url := "ws://" + loc.Get("host").String() + "/feed"
	ws := js.Global().Get("WebSocket").New(url)
	ws.Set("binaryType", "arraybuffer")

	ws.Set("onmessage", js.FuncOf(func(this js.Value, args []js.Value) any {
		data := args[0].Get("data")
		buf := js.Global().Get("Uint8Array").New(data)
		raw := make([]byte, buf.Get("length").Int())
		js.CopyBytesToGo(raw, buf)

		frame, err := feed.DecodeFrame(raw)
		if err != nil {
			log.Printf("[Viewer] bad frame: %v", err)
			return nil
		}
		switch frame.Type {
		case feed.FrameSnapshot:
			v.store.Seed(frame.Snapshot.Nodes, frame.Snapshot.Edges)
			v.loop.MarkDirty()
		case feed.FrameDelta:
			coalescer.Enqueue(frame.Delta)
		}
		return nil
	}))

	ws.Set("onclose", js.FuncOf(func(this js.Value, args []js.Value) any {
		log.Println("[Viewer] feed disconnected")
		return nil
	}))
}

func newSelectionEvent(id string) js.Value {
	detail := js.Global().Get("Object").New()
	detail.Set("detail", id)
	return js.Global().Get("CustomEvent").New("atlas:select", detail)
}
