package probe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSON_Full(t *testing.T) {
	data := []byte(`{
		"streams": [
			{"width": 1920, "height": 1080, "duration": "3600.500000", "bit_rate": "8000000"}
		]
	}`)

	info, ok := ParseJSON(data)
	require.True(t, ok)
	assert.Equal(t, 1920, info.Width)
	assert.Equal(t, 1080, info.Height)
	assert.InDelta(t, 3600.5, info.DurationSeconds, 0.001)
	assert.Equal(t, int64(8000), info.BitrateKbps)
	assert.Equal(t, "1920x1080", info.Resolution())
}

func TestParseJSON_MissingFields(t *testing.T) {
	// Stream-copy containers often omit duration and bit_rate.
	data := []byte(`{"streams": [{"width": 1280, "height": 720}]}`)

	info, ok := ParseJSON(data)
	require.True(t, ok)
	assert.Equal(t, 1280, info.Width)
	assert.Zero(t, info.DurationSeconds)
	assert.Zero(t, info.BitrateKbps)
}

func TestParseJSON_NoStreams(t *testing.T) {
	_, ok := ParseJSON([]byte(`{"streams": []}`))
	assert.False(t, ok)

	_, ok = ParseJSON([]byte(`{}`))
	assert.False(t, ok)
}

func TestParseJSON_Malformed(t *testing.T) {
	_, ok := ParseJSON([]byte(`not json`))
	assert.False(t, ok)
}

func TestResolution_Unknown(t *testing.T) {
	assert.Equal(t, "unknown", Info{}.Resolution())
	assert.Equal(t, "unknown", Info{Width: 640}.Resolution())
}
