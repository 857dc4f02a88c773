package gwinstek

import (
	"bufio"
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/openwave-gw/godso/comm"
	"github.com/openwave-gw/godso/oscilloscope"
)

// blockTimeout bounds the gap between reads during a bulk waveform transfer,
// not the transfer as a whole
const blockTimeout = 30 * time.Second

// SetAcqLength sets the acquisition record length in points
func (s *Scope) SetAcqLength(points int) error {
	return s.Write(fmt.Sprintf(":ACQuire:RECOrd %d", points))
}

// GetAcqLength returns the acquisition record length in points
func (s *Scope) GetAcqLength() (int, error) {
	return s.ReadInt(":ACQuire:RECOrd?")
}

// GetSampleRate returns the sample rate in samples per second
func (s *Scope) GetSampleRate() (float64, error) {
	return s.ReadFloat(":ACQuire:SAMPlerate?")
}

// SetAcqMode sets the acquisition mode, SAMPLE, PDETECT or AVERAGE
func (s *Scope) SetAcqMode(mode string) error {
	return s.Write(":ACQuire:MODe", mode)
}

// GetAcqMode returns the acquisition mode
func (s *Scope) GetAcqMode() (string, error) {
	return s.ReadString(":ACQuire:MODe?")
}

// SetAverage puts the scope in averaging mode with the given number of averages
func (s *Scope) SetAverage(n int) error {
	err := s.SetAcqMode("AVERAGE")
	if err != nil {
		return err
	}
	return s.Write(fmt.Sprintf(":ACQuire:AVERage %d", n))
}

// AcqReady returns true when a completed acquisition is available for ch
func (s *Scope) AcqReady(ch int) (bool, error) {
	i, err := s.ReadInt(fmt.Sprintf(":ACQuire%d:STATe?", ch))
	return i != 0, err
}

// WaitReady polls the acquisition state of ch until data is available or
// ctx is done.  Polling is limited to one query per interval so a slow
// trigger does not turn into a busy loop on the command link.
func (s *Scope) WaitReady(ctx context.Context, ch int, interval time.Duration) error {
	limiter := rate.NewLimiter(rate.Every(interval), 1)
	for {
		if err := limiter.Wait(ctx); err != nil {
			return err
		}
		ready, err := s.AcqReady(ch)
		if err != nil {
			return err
		}
		if ready {
			return nil
		}
	}
}

// AcquireMemory transfers the full acquisition memory of ch and returns it
// with the calibration values from the transfer header.  The scope sends a
// metadata header line followed by one binary block; both are consumed off
// a single pooled connection.
func (s *Scope) AcquireMemory(ch int) (oscilloscope.Waveform, error) {
	var wav oscilloscope.Waveform
	err := s.Write(":HEADer ON")
	if err != nil {
		return wav, err
	}
	conn, err := s.Pool.Get()
	if err != nil {
		return wav, err
	}
	defer func() { s.Pool.ReturnWithError(conn, err) }()
	_, err = conn.Write([]byte(fmt.Sprintf(":ACQuire%d:MEMory?\n", ch)))
	if err != nil {
		return wav, err
	}
	r := bufio.NewReaderSize(comm.NewTimeout(conn, conn, blockTimeout), 1<<16)
	hdr, err := ReadHeaderLine(r)
	if err != nil {
		return wav, err
	}
	payload, err := ReadBlock(r)
	if err != nil {
		return wav, err
	}
	data, err := DecodeSamples(payload)
	if err != nil {
		return wav, err
	}
	wav = oscilloscope.Waveform{
		DT:           hdr.Float("Sampling Period"),
		Scale:        hdr.Float("Vertical Scale"),
		Position:     hdr.Float("Vertical Position"),
		CountsPerDiv: s.CountsPerDiv,
		Data:         data}
	return wav, nil
}
