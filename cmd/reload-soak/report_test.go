package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/plus3/spritereload/asset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsFinalize(t *testing.T) {
	var empty Stats
	empty.Finalize()
	assert.Zero(t, empty.Avg)

	s := Stats{Samples: []time.Duration{3 * time.Millisecond, time.Millisecond, 2 * time.Millisecond}}
	s.Finalize()
	assert.Equal(t, time.Millisecond, s.Min)
	assert.Equal(t, 3*time.Millisecond, s.Max)
	assert.Equal(t, 2*time.Millisecond, s.Avg)
}

func TestReportGenerate(t *testing.T) {
	r := &Report{
		Duration:    time.Second,
		Sprite:      "icon.png",
		ReloadEvery: 30,
		Workers:     2,
		Reloads:     4,
		Requested:   5,
		Loaded:      3,
		Failed:      1,
		Assets:      asset.Stats{Loaded: 1},
		Entities:    2,
	}

	var buf bytes.Buffer
	require.NoError(t, r.Generate(&buf))

	out := buf.String()
	assert.Contains(t, out, "**Sprite:** icon.png")
	assert.Contains(t, out, "**Reloads:** 4")
	assert.Contains(t, out, "**Discarded or pending:** 1")
	assert.Contains(t, out, "0 loading, 1 loaded, 0 failed")
	assert.NotContains(t, out, "GC Pause")
}
