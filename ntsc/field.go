package ntsc

import "fmt"

// InsufficientDataError is generated when the sample buffer is too short for
// the indices field assembly needs.  No partial frame is ever emitted; a
// partial frame would visibly corrupt the reconstructed image, so the whole
// acquisition attempt fails instead.
type InsufficientDataError struct {
	// Need is the number of samples the assembly would have read
	Need int

	// Have is the length of the buffer supplied
	Have int
}

func (e InsufficientDataError) Error() string {
	return fmt.Sprintf("sample buffer too short for field assembly: need %d samples, have %d", e.Need, e.Have)
}

// AssembleFields reorders one flat sample buffer into two fields of
// LinesPerField lines of PixelsPerLine samples each, concatenated field 1
// then field 2 in one new buffer.  field1Base and field2Base are the sample
// indices where each field's active video starts; line i of a field begins
// at base + round(i*LinePeriod/samplePeriod) and takes every other sample
// from there.
//
// The destination is a distinct, pre-sized buffer; the source is never
// written.  The caller must supply enough samples to cover the last line of
// field 2 (roughly 650000 for a 50ns sample period); this function only
// bounds-checks.
func AssembleFields(buf []int16, samplePeriod float64, field1Base, field2Base int) ([]int16, error) {
	out := make([]int16, fieldSamples)
	dst := 0
	for _, base := range [2]int{field1Base, field2Base} {
		for line := 0; line < LinesPerField; line++ {
			start := lineStart(base, line, samplePeriod)
			last := start + sampleStride*(PixelsPerLine-1)
			if start < 0 || last >= len(buf) {
				return nil, InsufficientDataError{Need: last + 1, Have: len(buf)}
			}
			for px := 0; px < PixelsPerLine; px++ {
				out[dst] = buf[start+sampleStride*px]
				dst++
			}
		}
	}
	return out, nil
}
