package models

// ProbeResult is the outcome of one environment probe. Absence is reported
// with OK=false, never as an error.
type ProbeResult struct {
	Name   string
	OK     bool
	Detail string // Located path, version string or reason
}

// ProbeReport keeps probe results in the order they ran
type ProbeReport struct {
	Results []ProbeResult
}

// Add appends a result
func (r *ProbeReport) Add(result ProbeResult) {
	r.Results = append(r.Results, result)
}

// Get returns the named result
func (r *ProbeReport) Get(name string) (ProbeResult, bool) {
	for _, res := range r.Results {
		if res.Name == name {
			return res, true
		}
	}
	return ProbeResult{}, false
}

// AllPassed reports whether every probe succeeded
func (r *ProbeReport) AllPassed() bool {
	for _, res := range r.Results {
		if !res.OK {
			return false
		}
	}
	return len(r.Results) > 0
}

// ExitCode returns 0 when every probe passed, 1 otherwise
func (r *ProbeReport) ExitCode() int {
	if r.AllPassed() {
		return 0
	}
	return 1
}
