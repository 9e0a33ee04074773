package output

import (
	"github.com/aryankumar/pingpool/internal/executor"
)

// ResultDocument is the serialised form of one result
type ResultDocument struct {
	ID         string `json:"id" yaml:"id"`
	Success    bool   `json:"success" yaml:"success"`
	DurationMs int64  `json:"durationMs" yaml:"durationMs"`
	Error      string `json:"error,omitempty" yaml:"error,omitempty"`
}

// ReportDocument is the serialised form of a batch report
type ReportDocument struct {
	Mode       string           `json:"mode" yaml:"mode"`
	Submitted  int              `json:"submitted" yaml:"submitted"`
	Workers    int              `json:"workers" yaml:"workers"`
	Successful int              `json:"successful" yaml:"successful"`
	Failed     int              `json:"failed" yaml:"failed"`
	Missing    int              `json:"missing" yaml:"missing"`
	DurationMs int64            `json:"durationMs" yaml:"durationMs"`
	Terminated bool             `json:"terminated" yaml:"terminated"`
	Trigger    string           `json:"trigger,omitempty" yaml:"trigger,omitempty"`
	Shutdown   string           `json:"shutdown" yaml:"shutdown"`
	Discarded  int              `json:"discarded" yaml:"discarded"`
	Results    []ResultDocument `json:"results" yaml:"results"`
}

// NewReportDocument converts a report for JSON or YAML encoding
func NewReportDocument(report executor.Report) ReportDocument {
	doc := ReportDocument{
		Mode:       string(report.Mode),
		Submitted:  report.Submitted,
		Workers:    report.Workers,
		Successful: executor.CountSuccessful(report.Results),
		Failed:     executor.CountFailed(report.Results),
		Missing:    report.Missing(),
		DurationMs: report.Duration.Milliseconds(),
		Terminated: report.Terminated,
		Trigger:    report.Trigger,
		Shutdown:   report.Outcome.String(),
		Discarded:  report.Discarded,
		Results:    make([]ResultDocument, len(report.Results)),
	}

	for i, r := range report.Results {
		doc.Results[i] = ResultDocument{
			ID:         r.ID,
			Success:    r.Success,
			DurationMs: r.DurationMs(),
		}
		if r.Err != nil {
			doc.Results[i].Error = r.Err.Error()
		}
	}

	return doc
}

func newReportDocuments(reports []executor.Report) []ReportDocument {
	docs := make([]ReportDocument, len(reports))
	for i, r := range reports {
		docs[i] = NewReportDocument(r)
	}
	return docs
}
