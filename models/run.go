package models

import "time"

// SourceStats counts page outcomes for one source within a run.
// Failed is always Attempted minus Succeeded.
type SourceStats struct {
	Attempted int `json:"attempted"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// RunError records one recoverable page failure.
type RunError struct {
	Source    string    `json:"source"`
	URL       string    `json:"url"`
	Error     string    `json:"error"`
	Timestamp time.Time `json:"timestamp"`
}

// RunSummary is the aggregate outcome of one crawl invocation. It accumulates
// as each source completes and is finalized at process exit.
type RunSummary struct {
	Selector  string                 `json:"selector"`
	Mode      CrawlMode              `json:"mode"`
	StartedAt time.Time              `json:"started_at"`
	EndedAt   time.Time              `json:"ended_at"`
	Order     []string               `json:"-"`
	PerSource map[string]SourceStats `json:"per_source"`
	Errors    []RunError             `json:"errors,omitempty"`
}

// NewRunSummary creates an empty summary for the given selection.
func NewRunSummary(selector string, mode CrawlMode) *RunSummary {
	return &RunSummary{
		Selector:  selector,
		Mode:      mode,
		StartedAt: time.Now(),
		PerSource: make(map[string]SourceStats),
	}
}

// Record stores the stats for one completed source, preserving completion
// order for reporting.
func (s *RunSummary) Record(source string, stats SourceStats) {
	s.Order = append(s.Order, source)
	s.PerSource[source] = stats
}

// AddError appends one recoverable page failure.
func (s *RunSummary) AddError(source, url, errMsg string) {
	s.Errors = append(s.Errors, RunError{
		Source:    source,
		URL:       url,
		Error:     errMsg,
		Timestamp: time.Now(),
	})
}

// Totals sums stats across all recorded sources.
func (s *RunSummary) Totals() SourceStats {
	var t SourceStats
	for _, st := range s.PerSource {
		t.Attempted += st.Attempted
		t.Succeeded += st.Succeeded
		t.Failed += st.Failed
	}
	return t
}

// Viable reports whether the run counts as progress: every attempted source
// either captured at least one page or had nothing to fail. A source with
// failures and zero successes makes the run non-viable only when no source
// succeeded at all.
func (s *RunSummary) Viable() bool {
	sawFailure := false
	sawSuccess := false
	for _, st := range s.PerSource {
		if st.Failed > 0 {
			sawFailure = true
		}
		if st.Succeeded > 0 {
			sawSuccess = true
		}
	}
	if !sawFailure {
		return true
	}
	return sawSuccess
}
