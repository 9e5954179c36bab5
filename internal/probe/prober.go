// Package probe provides ffprobe-based media inspection. A single JSON
// call per file requests only the first video stream's dimensions,
// duration, and bit rate.
//
// Probe failure is informational, never an error: callers receive ok=false
// and decide locally whether missing data matters (the split planner
// treats a missing duration as fatal for that file; the enhance path
// proceeds regardless).
package probe

import (
	"context"
	"encoding/json"
	"os/exec"
	"strconv"
	"strings"
)

// Info holds the probed properties of a media file. Zero values mean the
// field was absent from ffprobe output.
type Info struct {
	Width           int
	Height          int
	DurationSeconds float64
	BitrateKbps     int64
}

// Resolution returns "WxH", or "unknown" when dimensions were not probed.
func (i Info) Resolution() string {
	if i.Width <= 0 || i.Height <= 0 {
		return "unknown"
	}
	return strconv.Itoa(i.Width) + "x" + strconv.Itoa(i.Height)
}

// Probe inspects path with ffprobe. The second return value is false on
// any invocation or parse failure, or when no video stream was found.
func Probe(ctx context.Context, path string) (Info, bool) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height,duration,bit_rate",
		"-of", "json",
		path,
	)

	out, err := cmd.Output()
	if err != nil {
		return Info{}, false
	}
	return ParseJSON(out)
}

// ParseJSON converts raw ffprobe JSON output into an Info. Exported for
// testing without a real ffprobe binary.
func ParseJSON(data []byte) (Info, bool) {
	var raw ffprobeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return Info{}, false
	}
	if len(raw.Streams) == 0 {
		return Info{}, false
	}

	s := raw.Streams[0]
	return Info{
		Width:           s.Width,
		Height:          s.Height,
		DurationSeconds: parseFloat(s.Duration),
		BitrateKbps:     parseInt64(s.BitRate) / 1000,
	}, true
}

// ffprobe JSON wire types. Numeric fields arrive as strings.
type ffprobeOutput struct {
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeStream struct {
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Duration string `json:"duration"`
	BitRate  string `json:"bit_rate"`
}

func parseInt64(s string) int64 {
	n, _ := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return n
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}
