package output

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/aryankumar/pingpool/internal/executor"
)

// LineReporter writes the streaming report lines:
//
//	Result: success=<bool> duration=<ms> id=<identifier>
//	Shutdown called
//	Duration: <ms> mS
//
// It implements executor.Reporter and is safe for concurrent use.
type LineReporter struct {
	mu     sync.Mutex
	w      io.Writer
	colors *ColorScheme
}

var _ executor.Reporter = (*LineReporter)(nil)

// NewLineReporter creates a reporter writing to w
func NewLineReporter(w io.Writer, noColor bool) *LineReporter {
	return &LineReporter{w: w, colors: NewColorScheme(w, noColor)}
}

// ReportResult writes one result line
func (r *LineReporter) ReportResult(result executor.Result) {
	line := result.String()
	if result.Err != nil {
		line += " error=" + result.Err.Error()
	}
	r.println(r.colors.StatusColor(!result.Success)("%s", line))
}

// ReportNotice writes a notice such as executor.ShutdownNotice
func (r *LineReporter) ReportNotice(msg string) {
	r.println(r.colors.Warning("%s", msg))
}

// ReportDuration writes the batch duration line
func (r *LineReporter) ReportDuration(d time.Duration) {
	r.println(r.colors.Duration("Duration: %d mS", d.Milliseconds()))
}

// ReportHeading writes a section heading ahead of a batch
func (r *LineReporter) ReportHeading(mode executor.Mode) {
	r.println(r.colors.Header("== %s ==", mode))
}

func (r *LineReporter) println(line string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.w, line)
}

// NoticeReporter forwards only notices and drops result and duration lines.
// Non-streaming formats use it so early termination is still visible.
type NoticeReporter struct {
	*LineReporter
}

// NewNoticeReporter creates a notice-only reporter writing to w
func NewNoticeReporter(w io.Writer, noColor bool) NoticeReporter {
	return NoticeReporter{LineReporter: NewLineReporter(w, noColor)}
}

// ReportResult discards the result
func (NoticeReporter) ReportResult(executor.Result) {}

// ReportDuration discards the duration
func (NoticeReporter) ReportDuration(time.Duration) {}
