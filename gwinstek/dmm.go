package gwinstek

// The MPO's built-in digital multimeter.

// DMMEnabled returns true if the multimeter is on
func (s *Scope) DMMEnabled() (bool, error) {
	resp, err := s.ReadString(":DMM:STATE?")
	return resp == "ON", err
}

// EnableDMM turns the multimeter on
func (s *Scope) EnableDMM() error {
	return s.Write(":DMM:STATE ON")
}

// DisableDMM turns the multimeter off
func (s *Scope) DisableDMM() error {
	return s.Write(":DMM:STATE OFF")
}

// SetDMMMode sets the measurement mode, one of ACV, DCV, ACMV, DCMV, ACMA,
// DCMA, ACA, DCA, OHM, DIODE, BEEP, TEMPerature
func (s *Scope) SetDMMMode(mode string) error {
	return s.Write(":DMM:MODe", mode)
}

// SetDMMRange sets the measurement range for the current mode.  The scope
// accepts either a numeric range or the mnemonic AUTO.
func (s *Scope) SetDMMRange(rng string) error {
	return s.Write(":DMM:MODe:RANGe", rng)
}

// SetDMMThermocouple configures temperature mode for a thermocouple type
// (e.g. K, J, T) and display units (C or F)
func (s *Scope) SetDMMThermocouple(typ, units string) error {
	err := s.Write(":DMM:MODe TEMPerature")
	if err != nil {
		return err
	}
	err = s.Write(":DMM:TEMPerature:TYPe", typ)
	if err != nil {
		return err
	}
	return s.Write(":DMM:TEMPerature:UNITs", units)
}

// SetDMMHold freezes or unfreezes the multimeter reading
func (s *Scope) SetDMMHold(on bool) error {
	mnemonic := "OFF"
	if on {
		mnemonic = "ON"
	}
	return s.Write(":DMM:HOLD", mnemonic)
}

// SetDMMMaxMin engages or releases max/min recording
func (s *Scope) SetDMMMaxMin(on bool) error {
	mnemonic := "OFF"
	if on {
		mnemonic = "ON"
	}
	return s.Write(":DMM:MMIN", mnemonic)
}

// ReadDMM returns the current multimeter reading in the units of the
// active mode
func (s *Scope) ReadDMM() (float64, error) {
	return s.ReadFloat(":DMM:VALue?")
}

