package ntsc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func flatBuffer(n int, level int16) []int16 {
	buf := make([]int16, n)
	for i := range buf {
		buf[i] = level
	}
	return buf
}

func TestFindSyncEdgeSingleCrossing(t *testing.T) {
	buf := flatBuffer(1000, 200)
	const (
		center    = 500
		halfwidth = 10
		threshold = 150
	)
	for k := center - halfwidth; k < center+halfwidth; k++ {
		buf[k] = 100
		res := FindSyncEdge(buf, center, halfwidth, threshold)
		assert.True(t, res.Found, "edge at %d not found", k)
		assert.Equal(t, k, res.Index)
		buf[k] = 200
	}
}

func TestFindSyncEdgeReturnsFirstCrossing(t *testing.T) {
	buf := flatBuffer(1000, 200)
	buf[495] = 100
	buf[503] = 90
	res := FindSyncEdge(buf, 500, 10, 150)
	assert.True(t, res.Found)
	assert.Equal(t, 495, res.Index, "scan must be in ascending index order")
}

func TestFindSyncEdgeFallback(t *testing.T) {
	buf := flatBuffer(1000, 200)
	// a crossing outside the window must not count
	buf[520] = 100
	res := FindSyncEdge(buf, 500, 10, 150)
	assert.False(t, res.Found)
	assert.Equal(t, 500, res.Index, "fallback must be the window's nominal center")
}

func TestFindSyncEdgeExclusiveUpperBound(t *testing.T) {
	buf := flatBuffer(1000, 200)
	buf[510] = 100 // at center+halfwidth, just past the window
	res := FindSyncEdge(buf, 500, 10, 150)
	assert.False(t, res.Found)
}

func TestSyncThreshold(t *testing.T) {
	cfg := CaptureConfig{Scale: 0.2, Position: 0, TriggerLevel: 0.48}
	// 128 + round((0+0.48)*25/0.2) = 128 + 60
	assert.Equal(t, 188, cfg.SyncThreshold())

	cfg = CaptureConfig{Scale: 0.2, Position: -1.248, TriggerLevel: 0.48}
	// 128 + round(-0.768*125) = 128 - 96
	assert.Equal(t, 32, cfg.SyncThreshold())
}
