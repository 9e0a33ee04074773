package output

import (
	"errors"
	"time"

	"github.com/aryankumar/pingpool/internal/executor"
)

func sampleReport() executor.Report {
	return executor.Report{
		Mode:      executor.ModeStream,
		Submitted: 4,
		Workers:   4,
		Results: []executor.Result{
			{ID: "http://www.google.com/", Success: true, Duration: 42 * time.Millisecond},
			{ID: "http://www.go^gle.com/", Duration: time.Millisecond, Err: errors.New("invalid character \"^\" in host name")},
		},
		Duration:   120 * time.Millisecond,
		Terminated: true,
		Trigger:    "http://www.go^gle.com/",
		Outcome:    executor.OutcomeForced,
		Discarded:  1,
	}
}
