package ntsc

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSamplePeriod = 50e-9

// rampBuffer is a deterministic, non-repeating fill so misaligned indexing
// shows up as a value mismatch
func rampBuffer(n int) []int16 {
	buf := make([]int16, n)
	for i := range buf {
		buf[i] = int16(i % 5000)
	}
	return buf
}

func TestLineStartArithmetic(t *testing.T) {
	// round(5 * 63555.56ns / 50ns) = round(6355.556) = 6356
	assert.Equal(t, 6556, lineStart(200, 5, testSamplePeriod))
	assert.Equal(t, 200, lineStart(200, 0, testSamplePeriod))
}

func TestAssembleFieldsLineContent(t *testing.T) {
	buf := rampBuffer(700000)
	out, err := AssembleFields(buf, testSamplePeriod, 200, 340000)
	require.NoError(t, err)
	require.Len(t, out, 240000)

	// field 1, line 5: 500 samples at 6556, 6558, 6560, ...
	want := make([]int16, PixelsPerLine)
	for px := 0; px < PixelsPerLine; px++ {
		want[px] = buf[6556+2*px]
	}
	got := out[5*PixelsPerLine : 6*PixelsPerLine]
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("field 1 line 5 mismatch (-want +got):\n%s", diff)
	}

	// field 2, line 0 starts at the supplied field-2 base
	for px := 0; px < PixelsPerLine; px++ {
		want[px] = buf[340000+2*px]
	}
	got = out[LinesPerField*PixelsPerLine : LinesPerField*PixelsPerLine+PixelsPerLine]
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("field 2 line 0 mismatch (-want +got):\n%s", diff)
	}
}

func TestAssembleFieldsDoesNotMutateSource(t *testing.T) {
	buf := rampBuffer(700000)
	orig := make([]int16, len(buf))
	copy(orig, buf)
	_, err := AssembleFields(buf, testSamplePeriod, 200, 340000)
	require.NoError(t, err)
	if diff := cmp.Diff(orig, buf); diff != "" {
		t.Errorf("source buffer mutated (-want +got):\n%s", diff)
	}
}

func TestAssembleFieldsInsufficientData(t *testing.T) {
	// the minimum buffer covers the last sample of the last line of the
	// later field: base + round(239*LinePeriod/dt) + 2*499 + 1
	base := 200
	need := base + int(math.Round(239*LinePeriod/testSamplePeriod)) + 2*(PixelsPerLine-1) + 1

	_, err := AssembleFields(rampBuffer(need), testSamplePeriod, base, base)
	assert.NoError(t, err, "exactly the minimum length must succeed")

	_, err = AssembleFields(rampBuffer(need-1), testSamplePeriod, base, base)
	var ierr InsufficientDataError
	require.ErrorAs(t, err, &ierr)
	assert.Equal(t, need, ierr.Need)
	assert.Equal(t, need-1, ierr.Have)
}

func TestAssembleFieldsRejectsNegativeBase(t *testing.T) {
	_, err := AssembleFields(rampBuffer(700000), testSamplePeriod, 200, -5)
	var ierr InsufficientDataError
	assert.ErrorAs(t, err, &ierr)
}
