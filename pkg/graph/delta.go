package graph

import (
	"github.com/atlasgraph/atlas/pkg/paint"
)

// Delta is an incremental instruction set applied to the canonical
// graph state. Envelopes are independent: applying them out of order is
// tolerated (an edge may arrive before its nodes), though field-level
// conflicts resolve last-applied-wins.
type Delta struct {
	AddNodes      []NodeRecord `json:"addNodes,omitempty"`
	UpdateNodes   []NodeUpdate `json:"updateNodes,omitempty"`
	RemoveNodeIDs []string     `json:"removeNodeIds,omitempty"`
	AddEdges      []EdgeRecord `json:"addEdges,omitempty"`
	UpdateEdges   []EdgeUpdate `json:"updateEdges,omitempty"`
	RemoveEdgeIDs []string     `json:"removeEdgeIds,omitempty"`
	Version       int64        `json:"version,omitempty"`
	Timestamp     string       `json:"timestamp,omitempty"`
}

// Empty reports whether the delta carries no instructions.
func (d *Delta) Empty() bool {
	return d == nil ||
		len(d.AddNodes) == 0 && len(d.UpdateNodes) == 0 && len(d.RemoveNodeIDs) == 0 &&
			len(d.AddEdges) == 0 && len(d.UpdateEdges) == 0 && len(d.RemoveEdgeIDs) == 0
}

// NodeUpdate is a partial node record with shallow-merge semantics:
// nil fields leave the target untouched. The entity type is immutable
// after creation and therefore not updatable.
type NodeUpdate struct {
	ID          string         `json:"id"`
	Label       *string        `json:"label,omitempty"`
	X           *float64       `json:"x,omitempty"`
	Y           *float64       `json:"y,omitempty"`
	Size        *float64       `json:"size,omitempty"`
	BaseColor   *paint.Color   `json:"baseColor,omitempty"`
	BorderColor *paint.Color   `json:"borderColor,omitempty"`
	BorderWidth *float64       `json:"borderWidth,omitempty"`
	Status      *string        `json:"status,omitempty"`
	Progress    *float64       `json:"progress,omitempty"`
	Pattern     *Pattern       `json:"pattern,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// applyTo merges the non-nil fields into the record.
func (u *NodeUpdate) applyTo(n *NodeRecord) {
	if u.Label != nil {
		n.Label = *u.Label
	}
	if u.X != nil {
		n.X = *u.X
	}
	if u.Y != nil {
		n.Y = *u.Y
	}
	if u.X != nil && u.Y != nil {
		n.Positioned = true
	}
	if u.Size != nil {
		n.Size = *u.Size
	}
	if u.BaseColor != nil {
		n.BaseColor = *u.BaseColor
	}
	if u.BorderColor != nil {
		n.BorderColor = *u.BorderColor
	}
	if u.BorderWidth != nil {
		n.BorderWidth = *u.BorderWidth
	}
	if u.Status != nil {
		n.Status = *u.Status
	}
	if u.Progress != nil {
		n.Progress = *u.Progress
	}
	if u.Pattern != nil {
		n.Pattern = *u.Pattern
	}
	if u.Metadata != nil {
		n.Metadata = u.Metadata
	}
}

// mergeFrom overlays a later partial onto this one, last value wins.
func (u *NodeUpdate) mergeFrom(later *NodeUpdate) {
	if later.Label != nil {
		u.Label = later.Label
	}
	if later.X != nil {
		u.X = later.X
	}
	if later.Y != nil {
		u.Y = later.Y
	}
	if later.Size != nil {
		u.Size = later.Size
	}
	if later.BaseColor != nil {
		u.BaseColor = later.BaseColor
	}
	if later.BorderColor != nil {
		u.BorderColor = later.BorderColor
	}
	if later.BorderWidth != nil {
		u.BorderWidth = later.BorderWidth
	}
	if later.Status != nil {
		u.Status = later.Status
	}
	if later.Progress != nil {
		u.Progress = later.Progress
	}
	if later.Pattern != nil {
		u.Pattern = later.Pattern
	}
	if later.Metadata != nil {
		u.Metadata = later.Metadata
	}
}

// EdgeUpdate is a partial edge record; nil fields are left untouched.
// Endpoints are immutable; retargeting an edge is remove + add.
type EdgeUpdate struct {
	ID    string       `json:"id"`
	Color *paint.Color `json:"color,omitempty"`
	Width *float64     `json:"width,omitempty"`
	Label *string      `json:"label,omitempty"`
}

func (u *EdgeUpdate) applyTo(e *EdgeRecord) {
	if u.Color != nil {
		e.Color = *u.Color
	}
	if u.Width != nil {
		e.Width = *u.Width
	}
	if u.Label != nil {
		e.Label = *u.Label
	}
}

func (u *EdgeUpdate) mergeFrom(later *EdgeUpdate) {
	if later.Color != nil {
		u.Color = later.Color
	}
	if later.Width != nil {
		u.Width = later.Width
	}
	if later.Label != nil {
		u.Label = later.Label
	}
}

// Merge folds src into dst, producing the delta equivalent to applying
// dst then src. Adds replace earlier adds of the same id, partials
// merge field-wise last-value-wins, and id removals are unioned.
func Merge(dst, src *Delta) {
	if src == nil {
		return
	}
	for i := range src.AddNodes {
		add := src.AddNodes[i]
		replaced := false
		for j := range dst.AddNodes {
			if dst.AddNodes[j].ID == add.ID {
				dst.AddNodes[j] = add
				replaced = true
				break
			}
		}
		if !replaced {
			dst.AddNodes = append(dst.AddNodes, add)
		}
	}
	for i := range src.UpdateNodes {
		upd := src.UpdateNodes[i]
		merged := false
		for j := range dst.UpdateNodes {
			if dst.UpdateNodes[j].ID == upd.ID {
				dst.UpdateNodes[j].mergeFrom(&upd)
				merged = true
				break
			}
		}
		if !merged {
			dst.UpdateNodes = append(dst.UpdateNodes, upd)
		}
	}
	dst.RemoveNodeIDs = unionIDs(dst.RemoveNodeIDs, src.RemoveNodeIDs)

	for i := range src.AddEdges {
		add := src.AddEdges[i]
		replaced := false
		for j := range dst.AddEdges {
			if dst.AddEdges[j].ID == add.ID {
				dst.AddEdges[j] = add
				replaced = true
				break
			}
		}
		if !replaced {
			dst.AddEdges = append(dst.AddEdges, add)
		}
	}
	for i := range src.UpdateEdges {
		upd := src.UpdateEdges[i]
		merged := false
		for j := range dst.UpdateEdges {
			if dst.UpdateEdges[j].ID == upd.ID {
				dst.UpdateEdges[j].mergeFrom(&upd)
				merged = true
				break
			}
		}
		if !merged {
			dst.UpdateEdges = append(dst.UpdateEdges, upd)
		}
	}
	dst.RemoveEdgeIDs = unionIDs(dst.RemoveEdgeIDs, src.RemoveEdgeIDs)

	if src.Version > dst.Version {
		dst.Version = src.Version
	}
	if src.Timestamp != "" {
		dst.Timestamp = src.Timestamp
	}
}

// dropRemoved strips adds and updates whose id is also removed in the
// same delta. A remove-then-re-add inside one coalescing window is
// treated as removed: the re-add is presumed stale.
func (d *Delta) dropRemoved() {
	if len(d.RemoveNodeIDs) > 0 {
		removed := idSet(d.RemoveNodeIDs)
		d.AddNodes = filterNodes(d.AddNodes, removed)
		d.UpdateNodes = filterNodeUpdates(d.UpdateNodes, removed)
	}
	if len(d.RemoveEdgeIDs) > 0 {
		removed := idSet(d.RemoveEdgeIDs)
		d.AddEdges = filterEdges(d.AddEdges, removed)
		d.UpdateEdges = filterEdgeUpdates(d.UpdateEdges, removed)
	}
}

// dropSupersededRemovals strips removals whose id was re-added later in
// the same window, letting the re-add survive application. The caller
// supplies the ids whose latest same-window instruction was an add.
func (d *Delta) dropSupersededRemovals(nodes, edges map[string]struct{}) {
	if len(nodes) > 0 {
		d.RemoveNodeIDs = filterIDs(d.RemoveNodeIDs, nodes)
	}
	if len(edges) > 0 {
		d.RemoveEdgeIDs = filterIDs(d.RemoveEdgeIDs, edges)
	}
}

func filterIDs(ids []string, drop map[string]struct{}) []string {
	kept := ids[:0]
	for _, id := range ids {
		if _, ok := drop[id]; !ok {
			kept = append(kept, id)
		}
	}
	return kept
}

func idSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func unionIDs(dst, src []string) []string {
	if len(src) == 0 {
		return dst
	}
	seen := idSet(dst)
	for _, id := range src {
		if _, ok := seen[id]; !ok {
			dst = append(dst, id)
		}
	}
	return dst
}

func filterNodes(nodes []NodeRecord, removed map[string]struct{}) []NodeRecord {
	kept := nodes[:0]
	for i := range nodes {
		if _, ok := removed[nodes[i].ID]; !ok {
			kept = append(kept, nodes[i])
		}
	}
	return kept
}

func filterNodeUpdates(updates []NodeUpdate, removed map[string]struct{}) []NodeUpdate {
	kept := updates[:0]
	for i := range updates {
		if _, ok := removed[updates[i].ID]; !ok {
			kept = append(kept, updates[i])
		}
	}
	return kept
}

func filterEdges(edges []EdgeRecord, removed map[string]struct{}) []EdgeRecord {
	kept := edges[:0]
	for i := range edges {
		if _, ok := removed[edges[i].ID]; !ok {
			kept = append(kept, edges[i])
		}
	}
	return kept
}

func filterEdgeUpdates(updates []EdgeUpdate, removed map[string]struct{}) []EdgeUpdate {
	kept := updates[:0]
	for i := range updates {
		if _, ok := removed[updates[i].ID]; !ok {
			kept = append(kept, updates[i])
		}
	}
	return kept
}
