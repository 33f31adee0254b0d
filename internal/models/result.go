package models

import (
	"time"
)

// Outcome is the final state of one scenario
type Outcome string

const (
	OutcomePass     Outcome = "pass"
	OutcomeFail     Outcome = "fail"      // An asserted condition did not hold
	OutcomeNotFound Outcome = "not_found" // A target could not be located by any candidate
	OutcomeError    Outcome = "error"     // Unexpected error or panic
)

// ScenarioResult records one scenario run
type ScenarioResult struct {
	Number     int
	Name       string
	Outcome    Outcome
	Message    string
	Notes      []string
	Duration   time.Duration
	Screenshot string
}

// Passed reports whether the scenario passed
func (r ScenarioResult) Passed() bool {
	return r.Outcome == OutcomePass
}

// Summary aggregates a run. SetupError is set when no scenario could start.
type Summary struct {
	RunID      string
	Results    []ScenarioResult
	Run        int
	Passed     int
	Failed     int
	NotFound   int
	Errored    int
	SetupError error
	Duration   time.Duration
}

// Add records a result and updates the counters
func (s *Summary) Add(r ScenarioResult) {
	s.Results = append(s.Results, r)
	s.Run++
	switch r.Outcome {
	case OutcomePass:
		s.Passed++
	case OutcomeFail:
		s.Failed++
	case OutcomeNotFound:
		s.NotFound++
	default:
		s.Errored++
	}
}

// OK reports whether setup succeeded and every scenario passed
func (s *Summary) OK() bool {
	return s.SetupError == nil && s.Passed == s.Run
}
