// Package ui implements the terminal inspector: a ranked table of the
// graph's nodes under each analytics metric.
package ui

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/atlasgraph/atlas/pkg/analytics"
	"github.com/atlasgraph/atlas/pkg/graph"
)

// KeyMap defines the inspector's keyboard shortcuts.
type KeyMap struct {
	NextMetric key.Binding
	Quit       key.Binding
}

var DefaultKeyMap = KeyMap{
	NextMetric: key.NewBinding(
		key.WithKeys("tab", "m"),
		key.WithHelp("tab/m", "next metric"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c", "q"),
		key.WithHelp("q", "quit"),
	),
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			Padding(0, 1)

	metricStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212"))

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// metricCycle is the tab order through the metrics.
var metricCycle = []analytics.Metric{
	analytics.MetricBetweenness,
	analytics.MetricDegree,
	analytics.MetricCloseness,
	analytics.MetricClustering,
}

// Model is the inspector TUI state.
type Model struct {
	width  int
	height int

	nodes    []graph.NodeRecord
	metrics  analytics.Set
	clusters *analytics.Clusters

	metric   analytics.Metric
	table    table.Model
	quitting bool
}

// NewModel builds an inspector over a snapshot and its analytics.
func NewModel(snap *graph.Snapshot, metrics analytics.Set, clusters *analytics.Clusters) Model {
	var nodes []graph.NodeRecord
	snap.Nodes(func(n *graph.NodeRecord) {
		nodes = append(nodes, *n)
	})

	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "ID", Width: 16},
		{Title: "Label", Width: 24},
		{Title: "Type", Width: 11},
		{Title: "Value", Width: 7},
		{Title: "Cluster", Width: 12},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(16),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57"))
	t.SetStyles(styles)

	m := Model{
		nodes:    nodes,
		metrics:  metrics,
		clusters: clusters,
		metric:   analytics.MetricBetweenness,
		table:    t,
	}
	m.rebuildRows()
	return m
}

// rebuildRows re-ranks the nodes under the active metric.
func (m *Model) rebuildRows() {
	sorted := make([]graph.NodeRecord, len(m.nodes))
	copy(sorted, m.nodes)
	sort.Slice(sorted, func(i, j int) bool {
		vi := m.metrics[sorted[i].ID].Value(m.metric)
		vj := m.metrics[sorted[j].ID].Value(m.metric)
		if vi != vj {
			return vi > vj
		}
		return sorted[i].ID < sorted[j].ID
	})

	rows := make([]table.Row, 0, len(sorted))
	for i, n := range sorted {
		cluster := ""
		if m.clusters != nil {
			if cid, ok := m.clusters.ClusterOf(n.ID); ok {
				cluster = cid
			}
		}
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", i+1),
			n.ID,
			n.Label,
			n.Type.String(),
			fmt.Sprintf("%.3f", m.metrics[n.ID].Value(m.metric)),
			cluster,
		})
	}
	m.table.SetRows(rows)
}

func (m *Model) nextMetric() {
	for i, metric := range metricCycle {
		if metric == m.metric {
			m.metric = metricCycle[(i+1)%len(metricCycle)]
			break
		}
	}
	m.rebuildRows()
}

// Metric returns the active ranking metric.
func (m Model) Metric() analytics.Metric { return m.metric }

// Rows exposes the current ranking, top first.
func (m Model) Rows() []table.Row { return m.table.Rows() }

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if msg.Height > 8 {
			m.table.SetHeight(msg.Height - 6)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, DefaultKeyMap.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, DefaultKeyMap.NextMetric):
			m.nextMetric()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	title := titleStyle.Render("atlas inspect") +
		"  metric: " + metricStyle.Render(m.metric.String())
	footer := footerStyle.Render("↑/↓ move • tab next metric • q quit")
	return title + "\n\n" + m.table.View() + "\n" + footer
}
