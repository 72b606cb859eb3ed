package render

import "fmt"

// Tier is the level-of-detail a node or edge is drawn at, computed
// once per frame from the camera zoom ratio and threaded into every
// drawing call as a plain parameter.
type Tier uint8

const (
	// TierHigh draws full shape detail, patterns, labels, progress
	// rings and per-type glyphs.
	TierHigh Tier = iota
	// TierMedium draws shape, stroke and status dot; no labels,
	// patterns or glyphs.
	TierMedium
	// TierLow draws a fill-only circle approximation for every node
	// regardless of declared shape, keeping frame cost bounded when
	// many nodes are visible.
	TierLow
)

// String returns the tier name.
func (t Tier) String() string {
	switch t {
	case TierHigh:
		return "high"
	case TierMedium:
		return "medium"
	case TierLow:
		return "low"
	default:
		return fmt.Sprintf("Tier(%d)", uint8(t))
	}
}

// TierConfig holds the zoom-ratio thresholds for tier selection. The
// defaults are display-density dependent, so both boundaries are
// configurable rather than hardcoded.
type TierConfig struct {
	// HighBelow: ratios below this are TierHigh. Default 0.6.
	HighBelow float64
	// LowAt: ratios at or above this are TierLow. Default 1.4.
	LowAt float64
	// Deadband widens each boundary when transitioning away from the
	// current tier, damping flicker when the camera hovers at a
	// threshold. Zero disables hysteresis.
	Deadband float64
}

// DefaultTierConfig returns the baseline thresholds.
func DefaultTierConfig() TierConfig {
	return TierConfig{HighBelow: 0.6, LowAt: 1.4}
}

// TierFor computes the tier for a camera ratio with no hysteresis.
func (cfg TierConfig) TierFor(ratio float64) Tier {
	switch {
	case ratio < cfg.HighBelow:
		return TierHigh
	case ratio < cfg.LowAt:
		return TierMedium
	default:
		return TierLow
	}
}

// Next computes the tier for a camera ratio given the previous frame's
// tier. With a non-zero deadband the current tier is sticky: the ratio
// has to clear the boundary by the deadband before the tier changes.
func (cfg TierConfig) Next(prev Tier, ratio float64) Tier {
	if cfg.Deadband <= 0 {
		return cfg.TierFor(ratio)
	}
	switch prev {
	case TierHigh:
		if ratio < cfg.HighBelow+cfg.Deadband {
			return TierHigh
		}
	case TierMedium:
		if ratio >= cfg.HighBelow-cfg.Deadband && ratio < cfg.LowAt+cfg.Deadband {
			return TierMedium
		}
	case TierLow:
		if ratio >= cfg.LowAt-cfg.Deadband {
			return TierLow
		}
	}
	return cfg.TierFor(ratio)
}
