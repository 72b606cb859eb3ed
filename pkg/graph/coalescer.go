package graph

import (
	"sync"
	"time"
)

// DefaultWindow is the baseline coalescing window. Deltas arriving
// faster than once per window are merged into a single pending delta
// before application, bounding redraw frequency.
const DefaultWindow = time.Second

// CoalescerOptions tunes delta batching.
type CoalescerOptions struct {
	// Window is the coalescing interval; <= 0 means DefaultWindow.
	Window time.Duration

	// RemovalWins controls the same-window remove-then-add rule. When
	// true (the default policy) an entity removed and re-added within
	// one window stays removed, the re-add being presumed stale.
	RemovalWins bool
}

// Coalescer batches incoming deltas and flushes the merged result at
// most once per window. The flush callback runs on the coalescer's
// timer goroutine; hand the delta to the store ingestion path there.
type Coalescer struct {
	mu      sync.Mutex
	opts    CoalescerOptions
	pending *Delta
	timer   *time.Timer
	flush   func(*Delta)
	closed  bool

	// Ids whose latest same-window instruction is an add arriving after
	// a pending removal. Only tracked when RemovalWins is off, where the
	// re-add must outlive the earlier removal.
	readdedNodes map[string]struct{}
	readdedEdges map[string]struct{}
}

// NewCoalescer creates a coalescer delivering merged deltas to flush.
func NewCoalescer(opts CoalescerOptions, flush func(*Delta)) *Coalescer {
	if opts.Window <= 0 {
		opts.Window = DefaultWindow
	}
	return &Coalescer{opts: opts, flush: flush}
}

// Enqueue merges a delta into the pending batch. The first delta of a
// quiet period arms the window timer; everything arriving before it
// fires is folded in. Later values win per field, removals union.
func (c *Coalescer) Enqueue(d *Delta) {
	if d.Empty() {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	if c.pending == nil {
		c.pending = &Delta{}
	}
	if !c.opts.RemovalWins {
		c.trackReadds(d)
	}
	Merge(c.pending, d)
	if c.timer == nil {
		c.timer = time.AfterFunc(c.opts.Window, c.fire)
	}
}

// trackReadds records adds arriving after a pending removal of the
// same id, and forgets them again when a newer removal lands. Caller
// holds c.mu. Store application processes removals after adds, so
// without this bookkeeping a remove-then-add window would still end in
// removal.
func (c *Coalescer) trackReadds(d *Delta) {
	if len(c.pending.RemoveNodeIDs) > 0 && len(d.AddNodes) > 0 {
		removed := idSet(c.pending.RemoveNodeIDs)
		for i := range d.AddNodes {
			if _, ok := removed[d.AddNodes[i].ID]; ok {
				if c.readdedNodes == nil {
					c.readdedNodes = make(map[string]struct{})
				}
				c.readdedNodes[d.AddNodes[i].ID] = struct{}{}
			}
		}
	}
	if len(c.pending.RemoveEdgeIDs) > 0 && len(d.AddEdges) > 0 {
		removed := idSet(c.pending.RemoveEdgeIDs)
		for i := range d.AddEdges {
			if _, ok := removed[d.AddEdges[i].ID]; ok {
				if c.readdedEdges == nil {
					c.readdedEdges = make(map[string]struct{})
				}
				c.readdedEdges[d.AddEdges[i].ID] = struct{}{}
			}
		}
	}
	for _, id := range d.RemoveNodeIDs {
		delete(c.readdedNodes, id)
	}
	for _, id := range d.RemoveEdgeIDs {
		delete(c.readdedEdges, id)
	}
}

// fire runs on the timer goroutine when the window elapses.
func (c *Coalescer) fire() {
	c.mu.Lock()
	d := c.pending
	c.pending = nil
	c.timer = nil
	nodes, edges := c.readdedNodes, c.readdedEdges
	c.readdedNodes, c.readdedEdges = nil, nil
	closed := c.closed
	c.mu.Unlock()

	if closed || d.Empty() {
		return
	}
	if c.opts.RemovalWins {
		d.dropRemoved()
	} else {
		d.dropSupersededRemovals(nodes, edges)
	}
	c.flush(d)
}

// Flush delivers any pending batch immediately, without waiting for
// the window to elapse.
func (c *Coalescer) Flush() {
	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	d := c.pending
	c.pending = nil
	nodes, edges := c.readdedNodes, c.readdedEdges
	c.readdedNodes, c.readdedEdges = nil, nil
	closed := c.closed
	c.mu.Unlock()

	if closed || d.Empty() {
		return
	}
	if c.opts.RemovalWins {
		d.dropRemoved()
	} else {
		d.dropSupersededRemovals(nodes, edges)
	}
	c.flush(d)
}

// Close stops the coalescer and discards any pending batch.
func (c *Coalescer) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.pending = nil
	c.readdedNodes, c.readdedEdges = nil, nil
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}
