// Package gwinstek provides an interface to GW Instek MPO-series
// oscilloscopes and their built-in AWG, power supply and DMM subsystems.
//
// The MPO speaks newline-terminated SCPI over TCP (port 32767 on the
// instrument itself), RS232, or USBTMC; any of the three can back the
// comm.Pool handed to NewScopeFromPool.
package gwinstek

import (
	"fmt"
	"time"

	"github.com/tarm/serial"

	"github.com/openwave-gw/godso/comm"
	"github.com/openwave-gw/godso/scpi"
)

// DefaultPort is the TCP port of the instrument's command server
const DefaultPort = 32767

// Scope is an interface to a GW Instek MPO-series oscilloscope
type Scope struct {
	scpi.SCPI

	// CountsPerDiv is the number of ADC codes per vertical division and
	// CodeCenter the code of the vertical center of the screen.  These
	// describe this instrument's ADC code mapping; do not carry them to
	// other digitizers without verification.
	CountsPerDiv float64
	CodeCenter   int
}

// NewScope creates a new scope instance speaking TCP to addr ("host:port")
func NewScope(addr string) *Scope {
	maker := comm.BackingOffTCPConnMaker(addr, 3*time.Second)
	pool := comm.NewPool(1, time.Hour, maker)
	return NewScopeFromPool(pool)
}

// NewScopeSerial creates a new scope instance over RS232
func NewScopeSerial(conf *serial.Config) *Scope {
	pool := comm.NewPool(1, time.Hour, comm.SerialConnMaker(conf))
	return NewScopeFromPool(pool)
}

// NewScopeFromPool creates a scope on an arbitrary connection pool
func NewScopeFromPool(pool *comm.Pool) *Scope {
	return &Scope{
		SCPI:         scpi.SCPI{Pool: pool},
		CountsPerDiv: 25,
		CodeCenter:   128}
}

// Autoset triggers the scope's autoset routine
func (s *Scope) Autoset() error {
	return s.Write("AUTOSet")
}

// Run starts continuous acquisition
func (s *Scope) Run() error {
	return s.Write(":RUN")
}

// Stop halts acquisition
func (s *Scope) Stop() error {
	return s.Write(":STOP")
}

// Single arms a single-shot acquisition
func (s *Scope) Single() error {
	return s.Write(":SINGle")
}

// Force forces an acquisition regardless of the trigger condition
func (s *Scope) Force() error {
	return s.Write(":FORCe")
}

// Running returns true if the scope is acquiring
func (s *Scope) Running() (bool, error) {
	i, err := s.ReadInt(":RUN?")
	return i != 0, err
}

// EnableChannel turns the display of a channel on
func (s *Scope) EnableChannel(ch int) error {
	return s.Write(fmt.Sprintf(":CHANnel%d:DISPlay ON", ch))
}

// DisableChannel turns the display of a channel off
func (s *Scope) DisableChannel(ch int) error {
	return s.Write(fmt.Sprintf(":CHANnel%d:DISPlay OFF", ch))
}

// ChannelEnabled returns true if the given channel is displayed
func (s *Scope) ChannelEnabled(ch int) (bool, error) {
	resp, err := s.ReadString(fmt.Sprintf(":CHANnel%d:DISPlay?", ch))
	return resp == "ON", err
}

// SetScale sets the vertical scale of a channel in volts per division
func (s *Scope) SetScale(ch int, voltsPerDiv float64) error {
	return s.Write(fmt.Sprintf(":CHANnel%d:SCALe %E", ch, voltsPerDiv))
}

// GetScale returns the vertical scale of a channel in volts per division
func (s *Scope) GetScale(ch int) (float64, error) {
	return s.ReadFloat(fmt.Sprintf(":CHANnel%d:SCALe?", ch))
}

// SetPosition sets the vertical position of a channel in volts
func (s *Scope) SetPosition(ch int, volts float64) error {
	return s.Write(fmt.Sprintf(":CHANnel%d:POSition %E", ch, volts))
}

// GetPosition returns the vertical position of a channel in volts
func (s *Scope) GetPosition(ch int) (float64, error) {
	return s.ReadFloat(fmt.Sprintf(":CHANnel%d:POSition?", ch))
}

// SetProbeRatio sets the probe attenuation ratio of a channel, e.g. 10 for a x10 probe
func (s *Scope) SetProbeRatio(ch int, ratio float64) error {
	return s.Write(fmt.Sprintf(":CHANnel%d:PROBe:RATio %E", ch, ratio))
}

// GetProbeRatio returns the probe attenuation ratio of a channel
func (s *Scope) GetProbeRatio(ch int) (float64, error) {
	return s.ReadFloat(fmt.Sprintf(":CHANnel%d:PROBe:RATio?", ch))
}

// SetCoupling sets the input coupling of a channel, one of AC, DC, GND
func (s *Scope) SetCoupling(ch int, coupling string) error {
	return s.Write(fmt.Sprintf(":CHANnel%d:COUPling %s", ch, coupling))
}

// GetCoupling returns the input coupling of a channel
func (s *Scope) GetCoupling(ch int) (string, error) {
	return s.ReadString(fmt.Sprintf(":CHANnel%d:COUPling?", ch))
}

// SetBandwidthLimit engages or releases the bandwidth limit of a channel
func (s *Scope) SetBandwidthLimit(ch int, on bool) error {
	mnemonic := "OFF"
	if on {
		mnemonic = "ON"
	}
	return s.Write(fmt.Sprintf(":CHANnel%d:BWLimit %s", ch, mnemonic))
}

// SetInvert inverts (or un-inverts) the display of a channel
func (s *Scope) SetInvert(ch int, on bool) error {
	mnemonic := "OFF"
	if on {
		mnemonic = "ON"
	}
	return s.Write(fmt.Sprintf(":CHANnel%d:INVert %s", ch, mnemonic))
}

// SetDeskew sets the deskew time of a channel in seconds
func (s *Scope) SetDeskew(ch int, seconds float64) error {
	return s.Write(fmt.Sprintf(":CHANnel%d:DESKew %E", ch, seconds))
}

// SetImpedance sets the input impedance of a channel in ohms
func (s *Scope) SetImpedance(ch int, ohms float64) error {
	return s.Write(fmt.Sprintf(":CHANnel%d:IMPedance %E", ch, ohms))
}

// SetTimebase sets the horizontal scale in seconds per division
func (s *Scope) SetTimebase(secPerDiv float64) error {
	return s.Write(fmt.Sprintf(":TIMebase:SCALe %E", secPerDiv))
}

// GetTimebase returns the horizontal scale in seconds per division
func (s *Scope) GetTimebase() (float64, error) {
	return s.ReadFloat(":TIMebase:SCALe?")
}

// SetHPosition sets the horizontal position in seconds
func (s *Scope) SetHPosition(seconds float64) error {
	return s.Write(fmt.Sprintf(":TIMebase:POSition %E", seconds))
}

// GetHPosition returns the horizontal position in seconds
func (s *Scope) GetHPosition() (float64, error) {
	return s.ReadFloat(":TIMebase:POSition?")
}

// SetTimebaseMode sets the timebase mode, e.g. MAIN or WINDow
func (s *Scope) SetTimebaseMode(mode string) error {
	return s.Write(":TIMebase:MODe", mode)
}

// GetTimebaseMode returns the timebase mode
func (s *Scope) GetTimebaseMode() (string, error) {
	return s.ReadString(":TIMebase:MODe?")
}
