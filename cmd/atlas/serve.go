package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/atlasgraph/atlas/internal/config"
	"github.com/atlasgraph/atlas/pkg/feed"
	"github.com/atlasgraph/atlas/pkg/graph"
)

func newServeCommand() *cobra.Command {
	var listen string
	var snapshot string
	var cwd string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the graph feed",
		Long: `Loads the snapshot file, watches it for changes, and serves the
graph over WebSocket: full snapshot on connect, coalesced deltas after.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cwd != "" {
				if err := os.Chdir(cwd); err != nil {
					return fmt.Errorf("failed to change directory to %s: %w", cwd, err)
				}
			}
			cfg, err := config.Load(".")
			if err != nil {
				return err
			}
			if listen != "" {
				cfg.Feed.Listen = listen
			}
			if snapshot != "" {
				cfg.Feed.Snapshot = snapshot
			}
			return runServe(cfg)
		},
	}

	cmd.Flags().StringVarP(&listen, "listen", "l", "", "Listen address (overrides atlas.yaml)")
	cmd.Flags().StringVarP(&snapshot, "snapshot", "s", "", "Snapshot file to serve and watch")
	cmd.Flags().StringVar(&cwd, "cwd", "", "Working directory (defaults to current)")
	return cmd
}

func runServe(cfg *config.Config) error {
	store := graph.NewStore()
	hub := feed.NewHub(store)

	coalescer := graph.NewCoalescer(graph.CoalescerOptions{
		Window:      cfg.Ingest.Window.Std(),
		RemovalWins: *cfg.Ingest.RemovalWins,
	}, func(d *graph.Delta) {
		store.Apply(d)
		hub.Broadcast(d)
	})
	defer coalescer.Close()

	source := feed.NewFileSource(cfg.Feed.Snapshot, coalescer.Enqueue)
	nodes, edges, err := source.Load()
	if err != nil {
		return err
	}
	store.Seed(nodes, edges)
	log.Printf("[Serve] loaded %s: %d nodes, %d edges",
		cfg.Feed.Snapshot, store.Snapshot().NodeCount(), store.Snapshot().EdgeCount())

	if err := source.Watch(); err != nil {
		return err
	}
	defer source.Close()

	mux := http.NewServeMux()
	mux.Handle("/feed", hub)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "ok version=%d sessions=%d\n",
			store.Snapshot().Version(), hub.SessionCount())
	})

	srv := &http.Server{Addr: cfg.Feed.Listen, Handler: mux}
	errCh := make(chan error, 1)
	go func() {
		log.Printf("[Serve] listening on ws://%s/feed", cfg.Feed.Listen)
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Printf("[Serve] received %v, shutting down", sig)
	}

	coalescer.Flush()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
