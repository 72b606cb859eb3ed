package graph

import (
	"log"
	"sync"
	"sync/atomic"
)

// Store holds the canonical graph state for one active map view.
//
// Writes follow a single-writer discipline: every mutation goes through
// Apply (or Seed), which builds a fresh immutable Snapshot and swaps it
// in atomically. Readers call Snapshot and iterate freely while the
// next delta is being prepared; they see either the old state or the
// fully-new state, never a half-applied delta.
type Store struct {
	mu    sync.Mutex
	nodes map[string]*NodeRecord
	edges map[string]*EdgeRecord
	snap  atomic.Pointer[Snapshot]

	version int64
	logf    func(format string, args ...any)
}

// NewStore creates an empty store.
func NewStore() *Store {
	s := &Store{
		nodes: make(map[string]*NodeRecord),
		edges: make(map[string]*EdgeRecord),
		logf:  log.Printf,
	}
	s.snap.Store(&Snapshot{
		nodes: map[string]*NodeRecord{},
		edges: map[string]*EdgeRecord{},
	})
	return s
}

// SetLogf replaces the warning logger. A nil logf silences warnings.
func (s *Store) SetLogf(logf func(format string, args ...any)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if logf == nil {
		logf = func(string, ...any) {}
	}
	s.logf = logf
}

// Seed replaces the entire state from an initial snapshot fetch.
func (s *Store) Seed(nodes []NodeRecord, edges []EdgeRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nodes = make(map[string]*NodeRecord, len(nodes))
	s.edges = make(map[string]*EdgeRecord, len(edges))
	for i := range nodes {
		n := nodes[i]
		if n.ID == "" {
			s.logf("[Store] dropping seed node with empty id")
			continue
		}
		s.nodes[n.ID] = &n
	}
	for i := range edges {
		e := edges[i]
		if !s.edgeOK(&e) {
			continue
		}
		s.edges[e.ID] = &e
	}
	s.version++
	s.publish()
}

// Apply mutates the canonical state with one delta. Malformed entries
// are dropped with a logged warning and never abort the remaining
// entries. Removing a node prunes every edge referencing it in the
// same atomic step.
func (s *Store) Apply(delta *Delta) {
	if delta.Empty() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	// Copy-on-write: clone the maps so the published snapshot keeps
	// pointing at untouched records.
	nodes := make(map[string]*NodeRecord, len(s.nodes)+len(delta.AddNodes))
	for id, n := range s.nodes {
		nodes[id] = n
	}
	edges := make(map[string]*EdgeRecord, len(s.edges)+len(delta.AddEdges))
	for id, e := range s.edges {
		edges[id] = e
	}

	for i := range delta.AddNodes {
		n := delta.AddNodes[i]
		if n.ID == "" {
			s.logf("[Store] dropping addNodes entry with empty id")
			continue
		}
		if prev, ok := nodes[n.ID]; ok {
			// Entity type is immutable after creation.
			n.Type = prev.Type
		}
		nodes[n.ID] = &n
	}
	for i := range delta.UpdateNodes {
		u := &delta.UpdateNodes[i]
		if u.ID == "" {
			s.logf("[Store] dropping updateNodes entry with empty id")
			continue
		}
		prev, ok := nodes[u.ID]
		if !ok {
			// Update for an unknown node: independent deltas may arrive
			// out of order, skip quietly.
			continue
		}
		next := prev.clone()
		u.applyTo(next)
		nodes[u.ID] = next
	}
	for _, id := range delta.RemoveNodeIDs {
		delete(nodes, id)
		for eid, e := range edges {
			if e.SourceID == id || e.TargetID == id {
				delete(edges, eid)
			}
		}
	}

	for i := range delta.AddEdges {
		e := delta.AddEdges[i]
		if !s.edgeOK(&e) {
			continue
		}
		edges[e.ID] = &e
	}
	for i := range delta.UpdateEdges {
		u := &delta.UpdateEdges[i]
		if u.ID == "" {
			s.logf("[Store] dropping updateEdges entry with empty id")
			continue
		}
		prev, ok := edges[u.ID]
		if !ok {
			continue
		}
		next := prev.clone()
		u.applyTo(next)
		edges[u.ID] = next
	}
	for _, id := range delta.RemoveEdgeIDs {
		delete(edges, id)
	}

	s.nodes = nodes
	s.edges = edges
	s.version++
	s.publish()
}

// edgeOK validates an edge entry, logging and rejecting malformed ones.
// Caller holds s.mu.
func (s *Store) edgeOK(e *EdgeRecord) bool {
	switch {
	case e.ID == "":
		s.logf("[Store] dropping edge with empty id")
		return false
	case e.SourceID == "" || e.TargetID == "":
		s.logf("[Store] dropping edge %s with missing endpoint id", e.ID)
		return false
	case e.SourceID == e.TargetID:
		s.logf("[Store] dropping self-referential edge %s", e.ID)
		return false
	}
	return true
}

// publish swaps in a new snapshot. Caller holds s.mu.
func (s *Store) publish() {
	s.snap.Store(&Snapshot{
		version: s.version,
		nodes:   s.nodes,
		edges:   s.edges,
	})
}

// Snapshot returns the current immutable view of the graph.
func (s *Store) Snapshot() *Snapshot {
	return s.snap.Load()
}
