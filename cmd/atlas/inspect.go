package main

import (
	"encoding/json"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/atlasgraph/atlas/internal/ui"
	"github.com/atlasgraph/atlas/pkg/analytics"
	"github.com/atlasgraph/atlas/pkg/feed"
	"github.com/atlasgraph/atlas/pkg/graph"
	"github.com/atlasgraph/atlas/pkg/paint"
)

func newInspectCommand() *cobra.Command {
	var snapshot string
	var analyticsPath string

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Browse node rankings in the terminal",
		Long: `Opens a terminal table of the snapshot's nodes ranked by centrality,
with the analytics metrics cycled by keyboard.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := graph.NewStore()
			source := feed.NewFileSource(snapshot, nil)
			nodes, edges, err := source.Load()
			if err != nil {
				return err
			}
			store.Seed(nodes, edges)

			metrics, clusters, err := loadAnalytics(analyticsPath)
			if err != nil {
				return err
			}

			model := ui.NewModel(store.Snapshot(), metrics, clusters)
			_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
			return err
		},
	}

	cmd.Flags().StringVarP(&snapshot, "snapshot", "s", "graph.json", "Snapshot file to inspect")
	cmd.Flags().StringVarP(&analyticsPath, "analytics", "a", "", "Analytics JSON file (metrics and clusters)")
	return cmd
}

// analyticsFile is the on-disk layout accepted by --analytics.
type analyticsFile struct {
	Metrics  map[string]analytics.Record `json:"metrics"`
	Clusters []struct {
		ID    string   `json:"id"`
		Nodes []string `json:"nodes"`
		Color string   `json:"color,omitempty"`
	} `json:"clusters"`
}

func loadAnalytics(path string) (analytics.Set, *analytics.Clusters, error) {
	clusters := analytics.NewClusters()
	if path == "" {
		return analytics.Set{}, clusters, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read analytics: %w", err)
	}
	var file analyticsFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, nil, fmt.Errorf("parse analytics: %w", err)
	}

	for _, c := range file.Clusters {
		clusters.Add(c.ID, c.Nodes)
		if c.Color != "" {
			color, err := paint.Hex(c.Color)
			if err != nil {
				return nil, nil, fmt.Errorf("cluster %s: %w", c.ID, err)
			}
			clusters.SetColor(c.ID, color)
		}
	}
	return analytics.Set(file.Metrics), clusters, nil
}
