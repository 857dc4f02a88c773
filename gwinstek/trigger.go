package gwinstek

import "fmt"

// SetTriggerType sets the trigger type, e.g. EDGE, PULSEWIDTH, VIDEO
func (s *Scope) SetTriggerType(typ string) error {
	return s.Write(":TRIGger:TYPe", typ)
}

// GetTriggerType returns the trigger type
func (s *Scope) GetTriggerType() (string, error) {
	return s.ReadString(":TRIGger:TYPe?")
}

// SetTriggerSource sets the trigger source, e.g. CH1
func (s *Scope) SetTriggerSource(src string) error {
	return s.Write(":TRIGger:SOURce", src)
}

// GetTriggerSource returns the trigger source
func (s *Scope) GetTriggerSource() (string, error) {
	return s.ReadString(":TRIGger:SOURce?")
}

// SetTriggerMode sets the trigger mode, AUTO or NORMAL
func (s *Scope) SetTriggerMode(mode string) error {
	return s.Write(":TRIGger:MODe", mode)
}

// GetTriggerMode returns the trigger mode
func (s *Scope) GetTriggerMode() (string, error) {
	return s.ReadString(":TRIGger:MODe?")
}

// SetTriggerLevel sets the trigger level in volts
func (s *Scope) SetTriggerLevel(volts float64) error {
	return s.Write(fmt.Sprintf(":TRIGger:LEVel %E", volts))
}

// GetTriggerLevel returns the trigger level in volts
func (s *Scope) GetTriggerLevel() (float64, error) {
	return s.ReadFloat(":TRIGger:LEVel?")
}

// SetTriggerHoldoff sets the trigger holdoff in seconds
func (s *Scope) SetTriggerHoldoff(seconds float64) error {
	return s.Write(fmt.Sprintf(":TRIGger:HOLDoff %E", seconds))
}

// GetTriggerFrequency returns the frequency seen by the trigger in Hz
func (s *Scope) GetTriggerFrequency() (float64, error) {
	return s.ReadFloat(":TRIGger:FREQuency?")
}

// SetTriggerNoiseRejection engages or releases trigger noise rejection
func (s *Scope) SetTriggerNoiseRejection(on bool) error {
	mnemonic := "OFF"
	if on {
		mnemonic = "ON"
	}
	return s.Write(":TRIGger:NREJ", mnemonic)
}

// VideoTrigger describes a video trigger setup.  The zero value is not
// useful; see NTSCFieldTrigger for the canonical composite-video setup.
type VideoTrigger struct {
	// Standard is the video standard, NTSC, PAL or SECAM
	Standard string

	// Field selects which field to trigger on, FIELD1 or FIELD2
	Field string

	// Line is the line number within the field to trigger on
	Line int

	// Polarity is POSITIVE or NEGATIVE
	Polarity string
}

// NTSCFieldTrigger returns the video trigger setup used for composite video
// capture: NTSC, odd field, line 23, negative-going sync
func NTSCFieldTrigger() VideoTrigger {
	return VideoTrigger{Standard: "NTSC", Field: "FIELD1", Line: 23, Polarity: "NEGATIVE"}
}

// SetVideoTrigger switches the scope to video triggering and applies vt
func (s *Scope) SetVideoTrigger(vt VideoTrigger) error {
	err := s.Write(":TRIGger:TYPe VIDEO")
	if err != nil {
		return err
	}
	err = s.Write(":TRIGger:VIDeo:TYPe", vt.Standard)
	if err != nil {
		return err
	}
	err = s.Write(":TRIGger:VIDeo:FIELd", vt.Field)
	if err != nil {
		return err
	}
	err = s.Write(fmt.Sprintf(":TRIGger:VIDeo:LINe %d", vt.Line))
	if err != nil {
		return err
	}
	return s.Write(":TRIGger:VIDeo:POLarity", vt.Polarity)
}
