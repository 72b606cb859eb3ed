package render

import (
	"strings"

	"github.com/atlasgraph/atlas/pkg/paint"
)

// Status indicator policy: the corner dot color comes from this single
// mapping rather than being hardcoded by each caller.
var (
	statusGreen  = paint.MustHex("#2da44e")
	statusRed    = paint.MustHex("#d1242f")
	statusOrange = paint.MustHex("#e8833a")
	statusGray   = paint.MustHex("#8b949e")
)

// StatusColor maps a node status to its indicator color. Healthy
// states are green, failure states sit on a red-to-orange ramp by
// urgency, and anything unrecognized is gray.
func StatusColor(status string) paint.Color {
	switch normalizeStatus(status) {
	case "active", "on-track", "healthy", "done", "completed":
		return statusGreen
	case "blocked":
		return statusRed
	case "at-risk":
		return statusRed.Blend(statusOrange, 0.5)
	case "delayed", "behind":
		return statusOrange
	default:
		return statusGray
	}
}

func normalizeStatus(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.ReplaceAll(s, "_", "-")
}
