package feed

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/atlasgraph/atlas/pkg/graph"
)

func TestClientMirrorsHubState(t *testing.T) {
	upstream := graph.NewStore()
	upstream.SetLogf(nil)
	upstream.Seed([]graph.NodeRecord{
		{ID: "a", Type: graph.EntityTeam, X: 5, Y: 5},
	}, nil)

	hub := NewHub(upstream)
	srv := httptest.NewServer(hub)
	defer srv.Close()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	local := graph.NewStore()
	local.SetLogf(nil)
	synced := make(chan int64, 1)
	deltas := make(chan *graph.Delta, 8)

	client := NewClient(url, local, func(d *graph.Delta) {
		local.Apply(d)
		deltas <- d
	})
	client.OnSynced(func(v int64) { synced <- v })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- client.Run(ctx) }()

	select {
	case <-synced:
	case <-time.After(2 * time.Second):
		t.Fatal("initial snapshot never landed")
	}
	if local.Snapshot().NodeCount() != 1 {
		t.Fatalf("local nodes = %d after seed", local.Snapshot().NodeCount())
	}

	hub.Broadcast(&graph.Delta{AddNodes: []graph.NodeRecord{{ID: "b", Type: graph.EntityUser}}})
	select {
	case d := <-deltas:
		if len(d.AddNodes) != 1 || d.AddNodes[0].ID != "b" {
			t.Fatalf("delta = %+v", d)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("broadcast delta never routed to ingest callback")
	}
	if _, ok := local.Snapshot().Node("b"); !ok {
		t.Fatal("delta not applied to local store")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("client did not stop on context cancel")
	}
}
