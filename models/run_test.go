package models

import "testing"

func TestRunSummary_Totals(t *testing.T) {
	s := NewRunSummary("all", ModeCrawl)
	s.Record("a", SourceStats{Attempted: 4, Succeeded: 3, Failed: 1})
	s.Record("b", SourceStats{Attempted: 2, Succeeded: 2})

	totals := s.Totals()
	if totals != (SourceStats{Attempted: 6, Succeeded: 5, Failed: 1}) {
		t.Errorf("Totals() = %+v, want 6/5/1", totals)
	}
}

func TestRunSummary_Viable(t *testing.T) {
	tests := []struct {
		name  string
		stats map[string]SourceStats
		want  bool
	}{
		{
			"no failures at all",
			map[string]SourceStats{"a": {Attempted: 1, Succeeded: 1}},
			true,
		},
		{
			"partial progress counts",
			map[string]SourceStats{
				"a": {Attempted: 1, Succeeded: 1},
				"b": {Attempted: 1, Failed: 1},
			},
			true,
		},
		{
			"everything failed",
			map[string]SourceStats{
				"a": {Attempted: 1, Failed: 1},
				"b": {Attempted: 2, Failed: 2},
			},
			false,
		},
		{
			"empty run",
			nil,
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewRunSummary("all", ModeScrape)
			for name, stats := range tt.stats {
				s.Record(name, stats)
			}
			if got := s.Viable(); got != tt.want {
				t.Errorf("Viable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRunSummary_AddErrorOrder(t *testing.T) {
	s := NewRunSummary("all", ModeScrape)
	s.AddError("a", "https://x/1", "timeout")
	s.AddError("b", "https://x/2", "connection refused")

	if len(s.Errors) != 2 {
		t.Fatalf("Errors has %d entries, want 2", len(s.Errors))
	}
	if s.Errors[0].Source != "a" || s.Errors[1].Source != "b" {
		t.Errorf("errors out of order: %+v", s.Errors)
	}
}
