package graph

import (
	"encoding/json"
	"fmt"

	"github.com/atlasgraph/atlas/pkg/paint"
)

// EntityType identifies what kind of entity a node represents.
// The dense integer tags double as the index into the shape dispatch
// table, so the set is fixed and order matters.
type EntityType uint8

const (
	EntityUser EntityType = iota
	EntityTeam
	EntityProject
	EntityGoal
	EntityDepartment
	EntityAsset
	EntityCluster

	// EntityCount is the number of entity types; usable as array length
	// for per-type lookup tables.
	EntityCount
)

var entityNames = [EntityCount]string{
	EntityUser:       "USER",
	EntityTeam:       "TEAM",
	EntityProject:    "PROJECT",
	EntityGoal:       "GOAL",
	EntityDepartment: "DEPARTMENT",
	EntityAsset:      "ASSET",
	EntityCluster:    "CLUSTER",
}

// String returns the wire name of the entity type.
func (t EntityType) String() string {
	if t < EntityCount {
		return entityNames[t]
	}
	return fmt.Sprintf("EntityType(%d)", uint8(t))
}

// ParseEntityType resolves a wire name to an EntityType.
func ParseEntityType(s string) (EntityType, error) {
	for i, name := range entityNames {
		if name == s {
			return EntityType(i), nil
		}
	}
	return 0, fmt.Errorf("graph: unknown entity type %q", s)
}

// MarshalJSON encodes the entity type as its wire name.
func (t EntityType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON decodes an entity type from its wire name.
func (t *EntityType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseEntityType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Pattern is an optional texture applied to a node's fill.
type Pattern string

const (
	PatternNone   Pattern = ""
	PatternGrid   Pattern = "grid"
	PatternDashed Pattern = "dashed"
)

// NodeRecord is the canonical state of one node. Records held by a
// Store snapshot are immutable; mutation happens only through deltas.
type NodeRecord struct {
	ID          string         `json:"id"`
	Type        EntityType     `json:"entityType"`
	Label       string         `json:"label,omitempty"`
	X           float64        `json:"x"`
	Y           float64        `json:"y"`
	Size        float64        `json:"size,omitempty"`
	BaseColor   paint.Color    `json:"baseColor,omitempty"`
	BorderColor paint.Color    `json:"borderColor,omitempty"`
	BorderWidth float64        `json:"borderWidth,omitempty"`
	Status      string         `json:"status,omitempty"`
	Progress    float64        `json:"progress,omitempty"`
	Pattern     Pattern        `json:"pattern,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`

	// Positioned is true once the layout has assigned coordinates.
	// Unpositioned nodes are held in the store but never drawn.
	Positioned bool `json:"-"`
}

// UnmarshalJSON decodes a node record, marking it positioned only when
// the payload actually carried coordinates. A node at (0,0) is
// distinguishable from a node the layout has not placed yet.
func (n *NodeRecord) UnmarshalJSON(data []byte) error {
	type alias NodeRecord
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	_, hasX := keys["x"]
	_, hasY := keys["y"]
	a.Positioned = hasX && hasY
	*n = NodeRecord(a)
	return nil
}

// clone returns a copy safe to mutate without touching the original.
func (n *NodeRecord) clone() *NodeRecord {
	c := *n
	if n.Metadata != nil {
		c.Metadata = make(map[string]any, len(n.Metadata))
		for k, v := range n.Metadata {
			c.Metadata[k] = v
		}
	}
	return &c
}

// EdgeRecord is the canonical state of one edge. An edge may reference
// nodes that are not (yet) in the store; it is simply excluded from the
// render set until both endpoints exist.
type EdgeRecord struct {
	ID       string      `json:"id"`
	SourceID string      `json:"sourceId"`
	TargetID string      `json:"targetId"`
	Color    paint.Color `json:"color,omitempty"`
	Width    float64     `json:"width,omitempty"`
	Label    string      `json:"label,omitempty"`
}

func (e *EdgeRecord) clone() *EdgeRecord {
	c := *e
	return &c
}
