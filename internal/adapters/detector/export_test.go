package detector

// Detect exposes detect for testing.
var Detect = detect

// WithDetect replaces environment detection for testing.
func (s *Switch) WithDetect(detect func() OutputMode) *Switch {
	s.detect = detect
	return s
}
