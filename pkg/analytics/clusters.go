package analytics

import "github.com/atlasgraph/atlas/pkg/paint"

// Palette is the fixed cycle of cluster tints, assigned to clusters in
// insertion order. Derived from the ColorBrewer qualitative ramp.
var Palette = []paint.Color{
	paint.MustHex("#66c2a5"),
	paint.MustHex("#fc8d62"),
	paint.MustHex("#8da0cb"),
	paint.MustHex("#e78ac3"),
	paint.MustHex("#a6d854"),
	paint.MustHex("#ffd92f"),
	paint.MustHex("#e5c494"),
	paint.MustHex("#b3b3b3"),
}

// Clusters is an ordered cluster -> node-id assignment. A node belongs
// to at most one cluster for coloring; when the input assigns a node
// twice, the first cluster inserted wins.
type Clusters struct {
	order     []string
	members   map[string][]string
	nodeOwner map[string]string
	overrides map[string]paint.Color
}

// NewClusters creates an empty assignment.
func NewClusters() *Clusters {
	return &Clusters{
		members:   make(map[string][]string),
		nodeOwner: make(map[string]string),
		overrides: make(map[string]paint.Color),
	}
}

// Add registers a cluster and its member node ids. Re-adding an
// existing cluster replaces its member list but keeps its slot in the
// insertion order, so its palette color is stable.
func (c *Clusters) Add(clusterID string, nodeIDs []string) {
	if _, exists := c.members[clusterID]; !exists {
		c.order = append(c.order, clusterID)
	} else {
		for _, id := range c.members[clusterID] {
			if c.nodeOwner[id] == clusterID {
				delete(c.nodeOwner, id)
			}
		}
	}
	c.members[clusterID] = append([]string(nil), nodeIDs...)
	for _, id := range nodeIDs {
		if _, taken := c.nodeOwner[id]; !taken {
			c.nodeOwner[id] = clusterID
		}
	}
}

// SetColor overrides the palette color for one cluster.
func (c *Clusters) SetColor(clusterID string, color paint.Color) {
	c.overrides[clusterID] = color
}

// ClusterOf returns the owning cluster for a node, if any.
func (c *Clusters) ClusterOf(nodeID string) (string, bool) {
	id, ok := c.nodeOwner[nodeID]
	return id, ok
}

// SameCluster reports whether two nodes share an owning cluster.
func (c *Clusters) SameCluster(a, b string) bool {
	ca, ok := c.nodeOwner[a]
	if !ok {
		return false
	}
	cb, ok := c.nodeOwner[b]
	return ok && ca == cb
}

// Color returns the tint for a cluster: an explicit override when set,
// otherwise the palette cycled by insertion order.
func (c *Clusters) Color(clusterID string) (paint.Color, bool) {
	if over, ok := c.overrides[clusterID]; ok {
		return over, true
	}
	for i, id := range c.order {
		if id == clusterID {
			return Palette[i%len(Palette)], true
		}
	}
	return paint.Color{}, false
}

// IDs returns the cluster ids in insertion order.
func (c *Clusters) IDs() []string {
	return append([]string(nil), c.order...)
}

// Members returns the member node ids of a cluster.
func (c *Clusters) Members(clusterID string) []string {
	return c.members[clusterID]
}

// Len returns the number of clusters.
func (c *Clusters) Len() int {
	if c == nil {
		return 0
	}
	return len(c.order)
}
