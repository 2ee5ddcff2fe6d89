package pipeline

// RunStats tracks aggregate counters across one automation run.
type RunStats struct {
	Cataloged  int `json:"cataloged" yaml:"cataloged"`   // Video files found in the input directory.
	Configured int `json:"configured" yaml:"configured"` // Videos with a completed line configuration.
	Excluded   int `json:"excluded" yaml:"excluded"`     // Videos dropped in phase 1 (open or first-frame failure).
	Succeeded  int `json:"succeeded" yaml:"succeeded"`   // Analyses that returned a record.
	Failed     int `json:"failed" yaml:"failed"`         // Analyses that ended in an error outcome.
}

// Analyzed returns the number of outcomes recorded in phase 2.
func (s *RunStats) Analyzed() int {
	return s.Succeeded + s.Failed
}
