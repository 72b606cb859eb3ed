package graph

import (
	"fmt"
	"testing"
)

func benchStore(n int) *Store {
	s := NewStore()
	s.SetLogf(nil)
	nodes := make([]NodeRecord, 0, n)
	edges := make([]EdgeRecord, 0, n)
	for i := 0; i < n; i++ {
		nodes = append(nodes, NodeRecord{
			ID: fmt.Sprintf("n%d", i), X: float64(i), Y: float64(i % 50), Positioned: true,
		})
		if i > 0 {
			edges = append(edges, EdgeRecord{
				ID:       fmt.Sprintf("e%d", i),
				SourceID: fmt.Sprintf("n%d", i-1),
				TargetID: fmt.Sprintf("n%d", i),
			})
		}
	}
	s.Seed(nodes, edges)
	return s
}

func BenchmarkApplySmallDelta(b *testing.B) {
	s := benchStore(1000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x := float64(i)
		s.Apply(&Delta{UpdateNodes: []NodeUpdate{{ID: "n500", X: &x, Y: &x}}})
	}
}

func BenchmarkSnapshotRenderNodes(b *testing.B) {
	s := benchStore(1000)
	snap := s.Snapshot()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		count := 0
		snap.RenderNodes(func(*NodeRecord) { count++ })
		if count != 1000 {
			b.Fatalf("count = %d", count)
		}
	}
}
