package gwinstek

import "fmt"

// The MPO's built-in arbitrary waveform generator.  Channel numbers are the
// generator's own, independent of the scope input channels.

// AWGEnabled returns true if the generator output is on
func (s *Scope) AWGEnabled(ch int) (bool, error) {
	resp, err := s.ReadString(fmt.Sprintf(":AWG%d:OUTPut:STATe?", ch))
	return resp == "ON", err
}

// EnableAWG turns the generator output on
func (s *Scope) EnableAWG(ch int) error {
	return s.Write(fmt.Sprintf(":AWG%d:OUTPut:STATe ON", ch))
}

// DisableAWG turns the generator output off
func (s *Scope) DisableAWG(ch int) error {
	return s.Write(fmt.Sprintf(":AWG%d:OUTPut:STATe OFF", ch))
}

// SetAWGFunction sets the output function, e.g. SINE, SQUARE, RAMP, ARB
func (s *Scope) SetAWGFunction(ch int, fcn string) error {
	return s.Write(fmt.Sprintf(":AWG%d:FUNCtion %s", ch, fcn))
}

// GetAWGFunction returns the output function
func (s *Scope) GetAWGFunction(ch int) (string, error) {
	return s.ReadString(fmt.Sprintf(":AWG%d:FUNCtion?", ch))
}

// SetAWGFrequency sets the output frequency in Hz
func (s *Scope) SetAWGFrequency(ch int, hz float64) error {
	return s.Write(fmt.Sprintf(":AWG%d:FREQuency %E", ch, hz))
}

// GetAWGFrequency returns the output frequency in Hz
func (s *Scope) GetAWGFrequency(ch int) (float64, error) {
	return s.ReadFloat(fmt.Sprintf(":AWG%d:FREQuency?", ch))
}

// SetAWGAmplitude sets the output amplitude in volts peak to peak
func (s *Scope) SetAWGAmplitude(ch int, vpp float64) error {
	return s.Write(fmt.Sprintf(":AWG%d:AMPlitude %E", ch, vpp))
}

// GetAWGAmplitude returns the output amplitude in volts peak to peak
func (s *Scope) GetAWGAmplitude(ch int) (float64, error) {
	return s.ReadFloat(fmt.Sprintf(":AWG%d:AMPlitude?", ch))
}

// SetAWGOffset sets the output offset in volts
func (s *Scope) SetAWGOffset(ch int, volts float64) error {
	return s.Write(fmt.Sprintf(":AWG%d:OFFSet %E", ch, volts))
}

// GetAWGOffset returns the output offset in volts
func (s *Scope) GetAWGOffset(ch int) (float64, error) {
	return s.ReadFloat(fmt.Sprintf(":AWG%d:OFFSet?", ch))
}

// SetAWGPhase sets the output phase in degrees
func (s *Scope) SetAWGPhase(ch int, degrees float64) error {
	return s.Write(fmt.Sprintf(":AWG%d:PHAse %E", ch, degrees))
}

// SetAWGLoad50Ohm configures the generator for a 50 ohm load
func (s *Scope) SetAWGLoad50Ohm(ch int) error {
	return s.Write(fmt.Sprintf(":AWG%d:OUTPut:LOAd:IMPEDance FIFTY", ch))
}

// SetAWGLoadHighZ configures the generator for a high impedance load
func (s *Scope) SetAWGLoadHighZ(ch int) error {
	return s.Write(fmt.Sprintf(":AWG%d:OUTPut:LOAd:IMPEDance HIGHZ", ch))
}

// LoadArbWaveform loads an arbitrary waveform into the generator, either
// from a stored slot name or a file path on the instrument
func (s *Scope) LoadArbWaveform(ch int, source string) error {
	return s.Write(fmt.Sprintf(":AWG%d:ARBitrary:LOAd:WAVEform %q", ch, source))
}
