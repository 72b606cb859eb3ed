// Package overlay keeps floating badges (misalignment indicators and
// similar annotations) anchored to their nodes as the camera moves. It
// subscribes to the render loop's frame-committed event and recomputes
// screen-space anchors from the freshly projected node positions.
package overlay

import (
	"sync"

	"github.com/atlasgraph/atlas/pkg/graph"
	"github.com/atlasgraph/atlas/pkg/render"
)

// Payload is the annotation content attached to one node.
type Payload struct {
	Type        string `json:"type"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
}

// Entry is one overlay row as supplied by the provider, matched to
// nodes by (id, entity type).
type Entry struct {
	NodeID   string           `json:"node_id"`
	NodeType graph.EntityType `json:"node_type"`
	Payload  Payload          `json:"overlay_data"`
}

// Key identifies the node an entry belongs to.
type Key struct {
	ID   string
	Type graph.EntityType
}

// Anchor is a computed screen-space badge position.
type Anchor struct {
	NodeID  string
	X, Y    float64
	Radius  float64
	Payload Payload
}

// badgeRadius is the clickable extent of a badge in screen pixels.
const badgeRadius = 9

// anchorRise lifts the badge above the node's projected bounding box.
const anchorRise = 10

// ClickFunc receives badge clicks. The manager reports the click as
// handled so the host stops propagation to the node's own handler.
type ClickFunc func(nodeID string, payload Payload)

// Manager owns the overlay entries and their per-frame anchors.
type Manager struct {
	mu      sync.RWMutex
	entries map[Key]Payload
	anchors []Anchor

	onClick     ClickFunc
	unsubscribe func()
}

// NewManager creates an overlay manager delivering badge clicks to
// onClick.
func NewManager(onClick ClickFunc) *Manager {
	return &Manager{
		entries: make(map[Key]Payload),
		onClick: onClick,
	}
}

// SetEntries replaces the overlay data set.
func (m *Manager) SetEntries(entries []Entry) {
	next := make(map[Key]Payload, len(entries))
	for _, e := range entries {
		next[Key{ID: e.NodeID, Type: e.NodeType}] = e.Payload
	}
	m.mu.Lock()
	m.entries = next
	m.mu.Unlock()
}

// EntryCount returns the number of overlay entries currently held.
func (m *Manager) EntryCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Attach subscribes the manager to the render loop: after every
// committed frame it recomputes anchors from the supplied state
// sources. Detach reverses it; both are tied to the overlay's own
// mount/unmount.
func (m *Manager) Attach(loop *render.Loop, snap func() *graph.Snapshot, cam func() render.Camera, visible func() []string) {
	m.Detach()
	m.unsubscribe = loop.OnFrameCommitted(func() {
		m.Sync(snap(), cam(), visible())
	})
}

// Detach unsubscribes from the render loop.
func (m *Manager) Detach() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

// Sync recomputes anchors for the visible nodes that have a matching
// overlay entry. A node with no entry renders nothing.
func (m *Manager) Sync(snap *graph.Snapshot, cam render.Camera, visible []string) {
	if snap == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.anchors = m.anchors[:0]
	for _, id := range visible {
		n, ok := snap.Node(id)
		if !ok || !n.Positioned {
			continue
		}
		payload, ok := m.entries[Key{ID: n.ID, Type: n.Type}]
		if !ok {
			continue
		}
		size := n.Size
		if size <= 0 {
			size = 8
		}
		sx, sy := cam.Project(n.X, n.Y)
		m.anchors = append(m.anchors, Anchor{
			NodeID:  n.ID,
			X:       sx,
			Y:       sy - (size + anchorRise),
			Radius:  badgeRadius,
			Payload: payload,
		})
	}
}

// Anchors returns the anchors computed by the last committed frame.
func (m *Manager) Anchors() []Anchor {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Anchor(nil), m.anchors...)
}

// ClickAt tests a screen coordinate against the badges and, on a hit,
// invokes the click callback. It returns true when the click was
// consumed; the host must then stop propagation so the underlying
// node's own click handler does not also fire.
func (m *Manager) ClickAt(sx, sy float64) bool {
	m.mu.RLock()
	var hit *Anchor
	for i := range m.anchors {
		a := &m.anchors[i]
		dx, dy := sx-a.X, sy-a.Y
		if dx*dx+dy*dy <= a.Radius*a.Radius {
			hit = a
			break
		}
	}
	m.mu.RUnlock()

	if hit == nil {
		return false
	}
	if m.onClick != nil {
		m.onClick(hit.NodeID, hit.Payload)
	}
	return true
}
