package ntsc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// synthetic acquisition: 650k samples at 50ns, baseline codes in [200, 239]
// so nothing crosses a threshold of 188 unless we inject it
func syntheticCapture() []int16 {
	buf := make([]int16, 650000)
	for i := range buf {
		buf[i] = int16(200 + (i*7)%40)
	}
	return buf
}

func TestReconstructEndToEnd(t *testing.T) {
	cfg := CaptureConfig{
		Scale:        0.2,
		TriggerLevel: 0.48,
		SamplePeriod: testSamplePeriod,
	}
	require.Equal(t, 188, cfg.withDefaults().SyncThreshold())

	buf := syntheticCapture()
	// field-2 sync edge two samples ahead of the nominal start
	const edge = 334500
	buf[edge] = 100

	f, sync, err := Reconstruct(buf, cfg)
	require.NoError(t, err)
	assert.Equal(t, SyncResult{Index: edge, Found: true}, sync)
	require.Len(t, f.Pix, FrameWidth*FrameHeight)

	// the edge sample is field-2 line 0 pixel 0, and it is also the buffer
	// minimum, so intensity = code - 100 everywhere
	for line := 0; line < LinesPerField; line++ {
		off := int(math.Round(float64(line) * LinePeriod / testSamplePeriod))
		for x := 0; x < PixelsPerLine; x++ {
			want1 := uint8(buf[Field1BaseOffset+off+2*x] - 100)
			want2 := uint8(buf[edge+off+2*x] - 100)
			if f.At(x, 2*line) != want1 {
				t.Fatalf("row %d px %d: got %d, want %d", 2*line, x, f.At(x, 2*line), want1)
			}
			if f.At(x, 2*line+1) != want2 {
				t.Fatalf("row %d px %d: got %d, want %d", 2*line+1, x, f.At(x, 2*line+1), want2)
			}
		}
	}
}

func TestReconstructFallsBackWithoutSyncEdge(t *testing.T) {
	cfg := CaptureConfig{
		Scale:        0.2,
		TriggerLevel: 0.48,
		SamplePeriod: testSamplePeriod,
	}
	buf := syntheticCapture()

	f, sync, err := Reconstruct(buf, cfg)
	require.NoError(t, err)

	nominal := Field1BaseOffset + int(math.Round(captureLinesPerField*LinePeriod/testSamplePeriod))
	assert.Equal(t, SyncResult{Index: nominal, Found: false}, sync)
	require.NotNil(t, f)

	// field 2 assembled from the nominal start
	off := int(math.Round(5 * LinePeriod / testSamplePeriod))
	min := int16(200) // pattern minimum
	assert.Equal(t, uint8(buf[nominal+off+2*7]-min), f.At(7, 11))
}

func TestReconstructInsufficientBuffer(t *testing.T) {
	cfg := CaptureConfig{Scale: 0.2, SamplePeriod: testSamplePeriod}
	_, _, err := Reconstruct(make([]int16, 1000), cfg)
	require.Error(t, err)
	var ider InsufficientDataError
	assert.ErrorAs(t, err, &ider)
}

func TestReconstructRejectsMissingCalibration(t *testing.T) {
	buf := syntheticCapture()

	// a header without a Sampling Period key parses to zero
	_, _, err := Reconstruct(buf, CaptureConfig{Scale: 0.2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sample period")

	_, _, err = Reconstruct(buf, CaptureConfig{SamplePeriod: testSamplePeriod})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vertical scale")

	_, _, err = Reconstruct(buf, CaptureConfig{Scale: -0.2, SamplePeriod: testSamplePeriod})
	require.Error(t, err)
}
