// Package planner holds the pure per-file decision logic: the enhancement
// filter chain and the split plan. Nothing in this package touches the
// filesystem or spawns processes.
package planner

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vidforge/vidforge/internal/config"
)

// BuildFilterChain constructs the comma-joined ffmpeg video filter chain
// for the enhance path. Stage order is fixed (scale, sharpen, then the
// optional denoise) because reordering changes the visual result.
func BuildFilterChain(cfg *config.Config) string {
	filters := make([]string, 0, 3)

	filters = append(filters, fmt.Sprintf("scale=%d:%d:flags=%s",
		cfg.TargetWidth, cfg.TargetHeight, cfg.ScaleAlgorithm))

	// Luma-only unsharp mask: chroma amount pinned to 0.
	filters = append(filters, fmt.Sprintf("unsharp=%d:%d:%s:%d:%d:0",
		cfg.SharpenLumaX, cfg.SharpenLumaY, formatAmount(cfg.SharpenAmount),
		cfg.SharpenLumaX, cfg.SharpenLumaY))

	if cfg.DenoiseEnabled {
		// Strength pair duplicated for the spatial and temporal passes.
		filters = append(filters, fmt.Sprintf("hqdn3d=%s:%s:%s:%s",
			formatAmount(cfg.DenoiseLuma), formatAmount(cfg.DenoiseChroma),
			formatAmount(cfg.DenoiseLuma), formatAmount(cfg.DenoiseChroma)))
	}

	return strings.Join(filters, ",")
}

// formatAmount renders a filter parameter exactly as configured, with at
// least one decimal so whole values keep the conventional 1.0 notation.
func formatAmount(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
