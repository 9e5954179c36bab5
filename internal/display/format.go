// Package display holds the banner and human-readable formatting helpers
// used in per-file and summary reports.
package display

import "fmt"

// FormatBytes returns a human-readable size (B, KiB, MiB, GiB, TiB).
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	suffixes := []string{"KiB", "MiB", "GiB", "TiB", "PiB", "EiB"}
	if exp >= len(suffixes) {
		exp = len(suffixes) - 1
		div = 1
		for i := 0; i <= exp; i++ {
			div *= unit
		}
	}
	return fmt.Sprintf("%.1f %s", float64(bytes)/float64(div), suffixes[exp])
}

// FormatMB renders a byte count in MB with two decimals, the unit the
// split reports use since the size threshold is expressed in MB.
func FormatMB(bytes int64) string {
	return fmt.Sprintf("%.2f MB", float64(bytes)/(1024*1024))
}

// FormatBitrateLabel returns a short label for bitrate in kbps.
func FormatBitrateLabel(kbps int64) string {
	if kbps < 1000 {
		return fmt.Sprintf("%d kbps", kbps)
	}
	return fmt.Sprintf("%.1f Mbps", float64(kbps)/1000)
}

// FormatSeconds renders a duration in seconds with two decimals.
func FormatSeconds(seconds float64) string {
	return fmt.Sprintf("%.2f s", seconds)
}
