// Package analytics holds the externally computed per-node metrics and
// cluster assignments the renderer composes over the base graph. The
// engine never computes centrality itself; providers hand in read-only
// snapshots and the renderer consumes them by reference.
package analytics

import "fmt"

// Record carries the centrality metrics for one node, each normalized
// to [0,1]. Coverage is expected to be partial: nodes without a record
// fall back to their base styling.
type Record struct {
	Degree      float64 `json:"degreeCentrality"`
	Betweenness float64 `json:"betweennessCentrality"`
	Closeness   float64 `json:"closenessCentrality"`
	Clustering  float64 `json:"clusteringCoefficient"`
}

// Metric selects which centrality measure drives highlighting.
type Metric uint8

const (
	MetricDegree Metric = iota
	MetricBetweenness
	MetricCloseness
	MetricClustering
)

var metricNames = [...]string{"degree", "betweenness", "closeness", "clustering"}

// String returns the configuration name of the metric.
func (m Metric) String() string {
	if int(m) < len(metricNames) {
		return metricNames[m]
	}
	return fmt.Sprintf("Metric(%d)", uint8(m))
}

// ParseMetric resolves a configuration name to a Metric.
func ParseMetric(s string) (Metric, error) {
	for i, name := range metricNames {
		if name == s {
			return Metric(i), nil
		}
	}
	return 0, fmt.Errorf("analytics: unknown metric %q", s)
}

// Value returns the record's value for the selected metric.
func (r Record) Value(m Metric) float64 {
	switch m {
	case MetricBetweenness:
		return r.Betweenness
	case MetricCloseness:
		return r.Closeness
	case MetricClustering:
		return r.Clustering
	default:
		return r.Degree
	}
}

// Importance is the edge-weighting score for one endpoint: the larger
// of betweenness and degree centrality.
func (r Record) Importance() float64 {
	if r.Betweenness > r.Degree {
		return r.Betweenness
	}
	return r.Degree
}

// Set maps node ids to their analytics records.
type Set map[string]Record
