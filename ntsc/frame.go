package ntsc

import (
	"fmt"
	"image"
)

// Frame is the finished 500x480 raster of 8-bit intensities, row-major.
type Frame struct {
	Pix []uint8
}

// At returns the intensity at column x, row y
func (f *Frame) At(x, y int) uint8 {
	return f.Pix[y*FrameWidth+x]
}

// Row returns one raster row without copying
func (f *Frame) Row(y int) []uint8 {
	return f.Pix[y*FrameWidth : (y+1)*FrameWidth]
}

// Gray copies the raster into a stdlib grayscale image for handoff to
// whatever renders or encodes it
func (f *Frame) Gray() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, FrameWidth, FrameHeight))
	copy(img.Pix, f.Pix)
	return img
}

// Normalize maps raw codes to displayable 8-bit intensity and interleaves
// the two fields into a raster: field-1 line i becomes row 2i, field-2 line
// i becomes row 2i+1.
//
// The mapping is offset-only: intensity = clamp(code - min, 0, 255) with min
// taken over the whole buffer.  Codes whose offset exceeds 255 are clamped,
// not rescaled, so the black level lands at 0 without stretching the
// dynamic range.
func Normalize(fields []int16) (*Frame, error) {
	if len(fields) != fieldSamples {
		return nil, fmt.Errorf("field buffer has %d samples, expected %d", len(fields), fieldSamples)
	}
	min := fields[0]
	for _, v := range fields {
		if v < min {
			min = v
		}
	}
	f := &Frame{Pix: make([]uint8, fieldSamples)}
	const field2 = LinesPerField * PixelsPerLine
	for line := 0; line < LinesPerField; line++ {
		src1 := fields[line*PixelsPerLine : (line+1)*PixelsPerLine]
		src2 := fields[field2+line*PixelsPerLine : field2+(line+1)*PixelsPerLine]
		row1 := f.Row(2 * line)
		row2 := f.Row(2*line + 1)
		for x := 0; x < PixelsPerLine; x++ {
			row1[x] = clamp8(int(src1[x]) - int(min))
			row2[x] = clamp8(int(src2[x]) - int(min))
		}
	}
	return f, nil
}

func clamp8(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
