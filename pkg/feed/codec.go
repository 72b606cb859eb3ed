// Package feed moves graph state between a producer and viewers: a
// WebSocket hub pushes an initial snapshot followed by deltas, and a
// file source turns edits to a snapshot file into deltas.
package feed

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/atlasgraph/atlas/pkg/graph"
)

// FrameType is the leading byte of every wire frame.
type FrameType byte

const (
	FrameSnapshot FrameType = 0x00
	FrameDelta    FrameType = 0x01
	FrameControl  FrameType = 0x02
)

func (t FrameType) String() string {
	switch t {
	case FrameSnapshot:
		return "SNAPSHOT"
	case FrameDelta:
		return "DELTA"
	case FrameControl:
		return "CONTROL"
	default:
		return fmt.Sprintf("FrameType(%d)", byte(t))
	}
}

// ErrFrameTooShort reports a frame without even a type byte.
var ErrFrameTooShort = errors.New("feed: frame too short")

// SnapshotPayload is the full-state frame body.
type SnapshotPayload struct {
	Version int64              `json:"version"`
	Nodes   []graph.NodeRecord `json:"nodes"`
	Edges   []graph.EdgeRecord `json:"edges"`
}

// ControlPayload carries protocol control messages such as HELLO.
type ControlPayload struct {
	Type    string `json:"type"`
	Version int64  `json:"version,omitempty"`
}

// EncodeSnapshot frames a full-state payload.
func EncodeSnapshot(p SnapshotPayload) ([]byte, error) {
	return encodeFrame(FrameSnapshot, p)
}

// EncodeDelta frames a delta payload.
func EncodeDelta(d *graph.Delta) ([]byte, error) {
	return encodeFrame(FrameDelta, d)
}

// EncodeControl frames a control payload.
func EncodeControl(p ControlPayload) ([]byte, error) {
	return encodeFrame(FrameControl, p)
}

func encodeFrame(t FrameType, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("feed: encode %s: %w", t, err)
	}
	buf := make([]byte, 0, len(body)+1)
	buf = append(buf, byte(t))
	return append(buf, body...), nil
}

// Frame is one decoded wire frame. Exactly one payload field is set,
// matching Type.
type Frame struct {
	Type     FrameType
	Snapshot *SnapshotPayload
	Delta    *graph.Delta
	Control  *ControlPayload
}

// DecodeFrame parses a wire frame.
func DecodeFrame(data []byte) (*Frame, error) {
	if len(data) < 1 {
		return nil, ErrFrameTooShort
	}
	t := FrameType(data[0])
	body := data[1:]
	f := &Frame{Type: t}
	switch t {
	case FrameSnapshot:
		f.Snapshot = &SnapshotPayload{}
		if err := json.Unmarshal(body, f.Snapshot); err != nil {
			return nil, fmt.Errorf("feed: decode %s: %w", t, err)
		}
	case FrameDelta:
		f.Delta = &graph.Delta{}
		if err := json.Unmarshal(body, f.Delta); err != nil {
			return nil, fmt.Errorf("feed: decode %s: %w", t, err)
		}
	case FrameControl:
		f.Control = &ControlPayload{}
		if err := json.Unmarshal(body, f.Control); err != nil {
			return nil, fmt.Errorf("feed: decode %s: %w", t, err)
		}
	default:
		return nil, fmt.Errorf("feed: unknown frame type %d", byte(t))
	}
	return f, nil
}

// SnapshotOf collects a store snapshot into a wire payload.
func SnapshotOf(snap *graph.Snapshot) SnapshotPayload {
	p := SnapshotPayload{Version: snap.Version()}
	snap.Nodes(func(n *graph.NodeRecord) {
		p.Nodes = append(p.Nodes, *n)
	})
	snap.Edges(func(e *graph.EdgeRecord) {
		p.Edges = append(p.Edges, *e)
	})
	return p
}
