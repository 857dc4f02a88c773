package ntsc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeOffsetOnlyMapping(t *testing.T) {
	// values range over [50, 300]; the mapping is offset-only with clamping,
	// so the output spans [0, 250] and v maps to clamp(v-50, 0, 255)
	fields := make([]int16, fieldSamples)
	for i := range fields {
		fields[i] = int16(50 + i%251)
	}
	f, err := Normalize(fields)
	require.NoError(t, err)

	min, max := f.Pix[0], f.Pix[0]
	for _, v := range f.Pix {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	assert.Equal(t, uint8(0), min)
	assert.Equal(t, uint8(250), max)
}

func TestNormalizeClampsWithoutRescaling(t *testing.T) {
	fields := make([]int16, fieldSamples)
	for i := range fields {
		fields[i] = 50
	}
	fields[0] = 700 // offset 650 exceeds 255: clamped, not rescaled
	fields[1] = 305 // offset 255 exactly
	fields[2] = 304
	f, err := Normalize(fields)
	require.NoError(t, err)
	assert.Equal(t, uint8(255), f.Pix[0])
	assert.Equal(t, uint8(255), f.Pix[1])
	assert.Equal(t, uint8(254), f.Pix[2])
	assert.Equal(t, uint8(0), f.Pix[3])
}

func TestNormalizeInterleavesRows(t *testing.T) {
	fields := make([]int16, fieldSamples)
	// field 1 lines hold their line index, field 2 lines hold index+1000
	// so every raster row is identifiable
	for line := 0; line < LinesPerField; line++ {
		for px := 0; px < PixelsPerLine; px++ {
			fields[line*PixelsPerLine+px] = int16(line)
			fields[(LinesPerField+line)*PixelsPerLine+px] = int16(line + 1000)
		}
	}
	f, err := Normalize(fields)
	require.NoError(t, err)
	for line := 0; line < LinesPerField; line++ {
		want1 := clamp8(line)
		want2 := clamp8(line + 1000)
		assert.Equal(t, want1, f.At(0, 2*line), "row %d should be field-1 line %d", 2*line, line)
		assert.Equal(t, want2, f.At(0, 2*line+1), "row %d should be field-2 line %d", 2*line+1, line)
	}
}

func TestNormalizeRejectsWrongLength(t *testing.T) {
	_, err := Normalize(make([]int16, 100))
	assert.Error(t, err)
}

func TestFrameGrayHandoff(t *testing.T) {
	fields := make([]int16, fieldSamples)
	for i := range fields {
		fields[i] = int16(i % 200)
	}
	f, err := Normalize(fields)
	require.NoError(t, err)
	img := f.Gray()
	assert.Equal(t, FrameWidth, img.Bounds().Dx())
	assert.Equal(t, FrameHeight, img.Bounds().Dy())
	assert.Equal(t, f.At(17, 33), img.GrayAt(17, 33).Y)
}
