package ntsc

import (
	"io"

	"github.com/astrogo/fitsio"
)

// CaptureCards formats the capture calibration as FITS header cards so a
// frame on disk carries enough context to reinterpret it later
func CaptureCards(cfg CaptureConfig) []fitsio.Card {
	return []fitsio.Card{
		{Name: "VSCALE", Value: cfg.Scale, Comment: "vertical scale, volts per division"},
		{Name: "VPOS", Value: cfg.Position, Comment: "vertical position, divisions"},
		{Name: "TRIGLVL", Value: cfg.TriggerLevel, Comment: "trigger level, volts"},
		{Name: "DT", Value: cfg.SamplePeriod, Comment: "sample period, seconds"},
	}
}

// WriteFits streams the frame to w as a 16-bit FITS image
func WriteFits(w io.Writer, f *Frame, metadata []fitsio.Card) error {
	fits, err := fitsio.Create(w)
	if err != nil {
		return err
	}
	defer fits.Close()
	im := fitsio.NewImage(16, []int{FrameWidth, FrameHeight})
	defer im.Close()
	err = im.Header().Append(metadata...)
	if err != nil {
		return err
	}
	ints := make([]int16, len(f.Pix))
	for i, v := range f.Pix {
		ints[i] = int16(v)
	}
	err = im.Write(ints)
	if err != nil {
		return err
	}
	return fits.Write(im)
}
