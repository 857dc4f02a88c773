package gwinstek

import "fmt"

// The MPO's built-in programmable power supply.

// PowerEnabled returns true if the supply output ch is on
func (s *Scope) PowerEnabled(ch int) (bool, error) {
	resp, err := s.ReadString(fmt.Sprintf(":POWERSupply:OUTPut%d?", ch))
	return resp == "ON", err
}

// EnablePower turns the supply output ch on
func (s *Scope) EnablePower(ch int) error {
	return s.Write(fmt.Sprintf(":POWERSupply:OUTPut%d ON", ch))
}

// DisablePower turns the supply output ch off
func (s *Scope) DisablePower(ch int) error {
	return s.Write(fmt.Sprintf(":POWERSupply:OUTPut%d OFF", ch))
}

// SetPowerVoltage sets the output voltage of supply ch
func (s *Scope) SetPowerVoltage(ch int, volts float64) error {
	return s.Write(fmt.Sprintf(":POWERSupply:OUTPut%d:VOLTage %E", ch, volts))
}

// GetPowerVoltage returns the output voltage of supply ch
func (s *Scope) GetPowerVoltage(ch int) (float64, error) {
	return s.ReadFloat(fmt.Sprintf(":POWERSupply:OUTPut%d:VOLTage?", ch))
}

// PowerOvercurrent returns true if the overcurrent protection of supply ch
// has tripped
func (s *Scope) PowerOvercurrent(ch int) (bool, error) {
	i, err := s.ReadInt(fmt.Sprintf(":POWERSupply:OUTPut%d:OCP?", ch))
	return i != 0, err
}

// ClearPowerOvercurrent re-arms supply ch after an overcurrent trip
func (s *Scope) ClearPowerOvercurrent(ch int) error {
	return s.Write(fmt.Sprintf(":POWERSupply:OUTPut%d:RECONFigure ON", ch))
}
