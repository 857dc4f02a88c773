// Package oscilloscope provides type definitions for oscilloscope acquisitions
package oscilloscope

import (
	"bufio"
	"encoding/csv"
	"io"
	"math"
	"strconv"
)

// Header holds the metadata key/value pairs sent ahead of a waveform transfer
type Header map[string]string

// Float looks up key and parses it as a float, returning 0 if absent or unparsable
func (h Header) Float(key string) float64 {
	f, err := strconv.ParseFloat(h[key], 64)
	if err != nil {
		return 0
	}
	return f
}

// Int looks up key and parses it as an integer, returning 0 if absent or unparsable
func (h Header) Int(key string) int {
	i, err := strconv.Atoi(h[key])
	if err != nil {
		return 0
	}
	return i
}

// Waveform describes a single-channel waveform recording from a scope.
// Data holds the raw ADC codes; Scale, Position and CountsPerDiv map codes
// to physical units.
type Waveform struct {
	// DT is the temporal sample spacing in seconds
	DT float64 `json:"dt"`

	// Scale is the vertical scale in volts per division
	Scale float64 `json:"scale"`

	// Position is the vertical position in divisions
	Position float64 `json:"position"`

	// CountsPerDiv is the number of ADC codes per vertical division.
	// It is supplied by the instrument driver; it is not a universal constant.
	CountsPerDiv float64 `json:"countsPerDiv"`

	// Data is the raw sample codes in acquisition order
	Data []int16 `json:"data"`
}

// Physical computes the data scaled to volts, value = code * scale / countsPerDiv.
// The receiver is not modified.
func (w Waveform) Physical() []float64 {
	ret := make([]float64, len(w.Data))
	k := w.Scale / w.CountsPerDiv
	for i := 0; i < len(w.Data); i++ {
		ret[i] = float64(w.Data[i]) * k
	}
	return ret
}

// CodeShifted returns the data in the code domain with the vertical position
// folded in, value = code + round(position/scale*countsPerDiv).  This is the
// alternative correction to Physical; the two are not meant to be combined.
func (w Waveform) CodeShifted() []int16 {
	shift := int16(math.Round(w.Position / w.Scale * w.CountsPerDiv))
	ret := make([]int16, len(w.Data))
	for i := 0; i < len(w.Data); i++ {
		ret[i] = w.Data[i] + shift
	}
	return ret
}

// EncodeCSV converts the waveform data to physical units
// and writes it to a CSV in streaming fashion
func (w *Waveform) EncodeCSV(wr io.Writer) error {
	phys := w.Physical()
	bw := bufio.NewWriter(wr)
	cw := csv.NewWriter(bw)
	row := []string{"time", "volts"}
	err := cw.Write(row)
	if err != nil {
		return err
	}
	for i := 0; i < len(phys); i++ {
		row[0] = strconv.FormatFloat(float64(i)*w.DT, 'G', -1, 64)
		row[1] = strconv.FormatFloat(phys[i], 'G', -1, 64)
		err = cw.Write(row)
		if err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	return bw.Flush()
}
