package gwinstek

import "fmt"

// SetPersistence sets display persistence to a duration in seconds
func (s *Scope) SetPersistence(seconds float64) error {
	return s.Write(fmt.Sprintf(":DISPlay:PERSistence %G", seconds))
}

// GetPersistence returns the display persistence setting as the scope
// reports it (a duration in seconds, OFF, or INFINITE)
func (s *Scope) GetPersistence() (string, error) {
	return s.ReadString(":DISPlay:PERSistence?")
}

// SetPersistenceInfinite sets display persistence to infinite
func (s *Scope) SetPersistenceInfinite() error {
	return s.Write(":DISPlay:PERSistence INFInite")
}

// DisablePersistence turns display persistence off
func (s *Scope) DisablePersistence() error {
	return s.Write(":DISPlay:PERSistence OFF")
}

// ClearPersistence erases the accumulated persistence display
func (s *Scope) ClearPersistence() error {
	return s.Write(":DISPlay:PERSistence:CLEAR")
}
