package graph

// Snapshot is a read-only view of the graph at one version. The maps
// are shared with the store under a copy-on-write discipline and must
// not be mutated; a renderer may iterate a snapshot across a whole
// frame while deltas queue up behind it.
type Snapshot struct {
	version int64
	nodes   map[string]*NodeRecord
	edges   map[string]*EdgeRecord
}

// Version is the store mutation counter this snapshot was taken at.
func (s *Snapshot) Version() int64 { return s.version }

// Node looks up a node by id.
func (s *Snapshot) Node(id string) (*NodeRecord, bool) {
	n, ok := s.nodes[id]
	return n, ok
}

// Edge looks up an edge by id.
func (s *Snapshot) Edge(id string) (*EdgeRecord, bool) {
	e, ok := s.edges[id]
	return e, ok
}

// NodeCount returns the number of nodes in the store, drawable or not.
func (s *Snapshot) NodeCount() int { return len(s.nodes) }

// EdgeCount returns the number of edges in the store, including edges
// whose endpoints have not arrived yet.
func (s *Snapshot) EdgeCount() int { return len(s.edges) }

// Nodes calls fn for every node in the snapshot.
func (s *Snapshot) Nodes(fn func(*NodeRecord)) {
	for _, n := range s.nodes {
		fn(n)
	}
}

// Edges calls fn for every edge in the snapshot.
func (s *Snapshot) Edges(fn func(*EdgeRecord)) {
	for _, e := range s.edges {
		fn(e)
	}
}

// Drawable reports whether a node may be rendered: present and
// positioned by the layout.
func (s *Snapshot) Drawable(id string) bool {
	n, ok := s.nodes[id]
	return ok && n.Positioned
}

// RenderEdges calls fn for every edge whose endpoints both resolve to
// drawable nodes. Dangling edges are skipped, not errors: they become
// visible as soon as the missing endpoint arrives.
func (s *Snapshot) RenderEdges(fn func(e *EdgeRecord, src, dst *NodeRecord)) {
	for _, e := range s.edges {
		src, ok := s.nodes[e.SourceID]
		if !ok || !src.Positioned {
			continue
		}
		dst, ok := s.nodes[e.TargetID]
		if !ok || !dst.Positioned {
			continue
		}
		fn(e, src, dst)
	}
}

// RenderNodes calls fn for every positioned node.
func (s *Snapshot) RenderNodes(fn func(*NodeRecord)) {
	for _, n := range s.nodes {
		if n.Positioned {
			fn(n)
		}
	}
}
