package feed

import (
	"context"
	"log"
	"time"

	"github.com/gorilla/websocket"

	"github.com/atlasgraph/atlas/pkg/graph"
)

// Client consumes a hub's feed and applies it to a local store. The
// snapshot frame seeds the store; every delta frame is handed to the
// ingest callback, which typically routes through a Coalescer before
// Store.Apply.
type Client struct {
	url      string
	store    *graph.Store
	onDelta  func(*graph.Delta)
	onSynced func(version int64)
}

// NewClient creates a feed client for url. onDelta receives decoded
// deltas; if nil they are applied to the store directly.
func NewClient(url string, store *graph.Store, onDelta func(*graph.Delta)) *Client {
	if onDelta == nil {
		onDelta = func(d *graph.Delta) { store.Apply(d) }
	}
	return &Client{url: url, store: store, onDelta: onDelta}
}

// OnSynced sets a callback invoked after the initial snapshot lands.
func (c *Client) OnSynced(fn func(version int64)) { c.onSynced = fn }

// Run connects and pumps frames until the connection drops or ctx is
// cancelled. It returns the read error that ended the session.
func (c *Client) Run(ctx context.Context) error {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		frame, err := DecodeFrame(data)
		if err != nil {
			log.Printf("[Feed client] bad frame: %v", err)
			continue
		}
		c.dispatch(frame)
	}
}

func (c *Client) dispatch(f *Frame) {
	switch f.Type {
	case FrameControl:
		log.Printf("[Feed client] control %s version=%d", f.Control.Type, f.Control.Version)
	case FrameSnapshot:
		c.store.Seed(f.Snapshot.Nodes, f.Snapshot.Edges)
		if c.onSynced != nil {
			c.onSynced(f.Snapshot.Version)
		}
	case FrameDelta:
		c.onDelta(f.Delta)
	}
}
