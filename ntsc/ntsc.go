/*Package ntsc reconstructs still frames from composite video waveforms.

The input is one long, contiguous oscilloscope acquisition spanning both
fields of an interlaced NTSC frame, captured with a video trigger on line 23
of the odd field.  The pipeline locates the field-2 vertical sync edge to
compensate trigger jitter, deinterlaces the sample buffer into two fields of
fixed-length lines, and maps raw ADC codes onto an 8-bit 500x480 raster.

The stages are a strict linear pipeline; each owns its input buffer and
produces a new output, and no buffer is shared between stages.  Rendering the
finished raster is the caller's problem.
*/
package ntsc

import "math"

const (
	// LinePeriod is the duration of one NTSC video line in seconds
	LinePeriod = 63555.56e-9

	// PixelsPerLine is the number of pixels reconstructed per video line
	PixelsPerLine = 500

	// LinesPerField is the number of active lines kept per field
	LinesPerField = 240

	// FrameWidth and FrameHeight are the dimensions of the output raster
	FrameWidth  = PixelsPerLine
	FrameHeight = 2 * LinesPerField

	// captureLinesPerField is the number of video lines the acquisition
	// spans between the starts of the two fields
	captureLinesPerField = 263

	// sampleStride reflects the 2x oversampling of the capture relative
	// to one reconstructed pixel
	sampleStride = 2

	// fieldSamples is the size of the flat two-field output buffer
	fieldSamples = 2 * LinesPerField * PixelsPerLine
)

// CaptureConfig holds the per-acquisition calibration values the pipeline
// needs.  CountsPerDiv and CodeCenter describe the instrument's ADC code
// mapping; zero values are replaced with the MPO's 25 and 128.  They are not
// universal constants; verify them before using another digitizer.
type CaptureConfig struct {
	// Scale is the vertical scale in volts per division
	Scale float64

	// Position is the vertical position in divisions
	Position float64

	// TriggerLevel is the trigger level in volts
	TriggerLevel float64

	// SamplePeriod is the acquisition sample spacing in seconds
	SamplePeriod float64

	// CountsPerDiv is the number of ADC codes per vertical division
	CountsPerDiv float64

	// CodeCenter is the ADC code at the vertical center of the screen
	CodeCenter int
}

func (c CaptureConfig) withDefaults() CaptureConfig {
	if c.CountsPerDiv == 0 {
		c.CountsPerDiv = 25
	}
	if c.CodeCenter == 0 {
		c.CodeCenter = 128
	}
	return c
}

// SyncThreshold returns the code-domain level below which a sample counts as
// a vertical sync crossing,
// threshold = codeCenter + round((position+triggerLevel)*countsPerDiv/scale)
func (c CaptureConfig) SyncThreshold() int {
	c = c.withDefaults()
	return c.CodeCenter + int(math.Round((c.Position+c.TriggerLevel)*c.CountsPerDiv/c.Scale))
}

// lineStart returns the index of the first sample of a line within a field
// starting at base
func lineStart(base, line int, samplePeriod float64) int {
	return base + int(math.Round(float64(line)*LinePeriod/samplePeriod))
}
