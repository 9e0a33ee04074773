package executor

import (
	"strings"
	"testing"
	"time"
)

func sampleResults() []Result {
	return []Result{
		{ID: "http://www.google.com/", Success: true, Duration: 30 * time.Millisecond},
		{ID: "http://www.date4j.net", Success: false, Duration: 10 * time.Millisecond},
		{ID: "http://www.apache.org", Success: true, Duration: 50 * time.Millisecond},
	}
}

func TestResult_String(t *testing.T) {
	tests := []struct {
		name   string
		result Result
		want   string
	}{
		{
			name:   "success",
			result: Result{ID: "http://www.github.com", Success: true, Duration: 1532 * time.Millisecond},
			want:   "Result: success=true duration=1532 id=http://www.github.com",
		},
		{
			name:   "failure truncates sub-millisecond latency",
			result: Result{ID: "http://www.gi^hub.com", Duration: 900 * time.Microsecond},
			want:   "Result: success=false duration=0 id=http://www.gi^hub.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.result.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCountSuccessfulAndFailed(t *testing.T) {
	tests := []struct {
		name           string
		results        []Result
		wantSuccessful int
		wantFailed     int
	}{
		{name: "empty", results: nil, wantSuccessful: 0, wantFailed: 0},
		{name: "mixed", results: sampleResults(), wantSuccessful: 2, wantFailed: 1},
		{name: "all failed", results: []Result{{ID: "a"}, {ID: "b"}}, wantSuccessful: 0, wantFailed: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountSuccessful(tt.results); got != tt.wantSuccessful {
				t.Errorf("CountSuccessful() = %d, want %d", got, tt.wantSuccessful)
			}
			if got := CountFailed(tt.results); got != tt.wantFailed {
				t.Errorf("CountFailed() = %d, want %d", got, tt.wantFailed)
			}
		})
	}
}

func TestFilters(t *testing.T) {
	results := sampleResults()

	ok := IDs(FilterSuccessful(results))
	if strings.Join(ok, ",") != "http://www.google.com/,http://www.apache.org" {
		t.Errorf("FilterSuccessful() = %v", ok)
	}

	failed := IDs(FilterFailed(results))
	if len(failed) != 1 || failed[0] != "http://www.date4j.net" {
		t.Errorf("FilterFailed() = %v", failed)
	}
}

func TestDurations(t *testing.T) {
	results := sampleResults()

	if got := TotalDuration(results); got != 90*time.Millisecond {
		t.Errorf("TotalDuration() = %s", got)
	}
	if got := AverageDuration(results); got != 30*time.Millisecond {
		t.Errorf("AverageDuration() = %s", got)
	}
	if got := MaxDuration(results); got != 50*time.Millisecond {
		t.Errorf("MaxDuration() = %s", got)
	}
	if got := MinDuration(results); got != 10*time.Millisecond {
		t.Errorf("MinDuration() = %s", got)
	}

	for name, fn := range map[string]func([]Result) time.Duration{
		"total": TotalDuration, "average": AverageDuration, "max": MaxDuration, "min": MinDuration,
	} {
		if got := fn(nil); got != 0 {
			t.Errorf("%s of empty results = %s, want 0", name, got)
		}
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleResults())

	if s.Total != 3 || s.Successful != 2 || s.Failed != 1 {
		t.Errorf("unexpected counts: %+v", s)
	}

	want := "Total: 3, Successful: 2, Failed: 1, Avg: 30ms, Max: 50ms, Min: 10ms"
	if got := s.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	if got := Summarize(nil).String(); got != "Total: 0, Successful: 0, Failed: 0" {
		t.Errorf("empty summary = %q", got)
	}
}

func TestSuccessRate(t *testing.T) {
	tests := []struct {
		name    string
		results []Result
		want    float64
		all     bool
	}{
		{name: "empty", results: nil, want: 0, all: true},
		{name: "none failed", results: []Result{{Success: true}, {Success: true}}, want: 100, all: true},
		{name: "half", results: []Result{{Success: true}, {}}, want: 50, all: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SuccessRate(tt.results); got != tt.want {
				t.Errorf("SuccessRate() = %v, want %v", got, tt.want)
			}
			if got := AllSuccessful(tt.results); got != tt.all {
				t.Errorf("AllSuccessful() = %v, want %v", got, tt.all)
			}
		})
	}
}

func TestReport_Missing(t *testing.T) {
	r := Report{Submitted: 16, Results: make([]Result, 9)}
	if got := r.Missing(); got != 7 {
		t.Errorf("Missing() = %d, want 7", got)
	}
}
