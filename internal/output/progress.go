package output

import (
	"io"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Progress draws a progress bar for batch runs. Update is safe to call from
// several worker goroutines.
type Progress struct {
	mu   sync.Mutex
	bar  *progressbar.ProgressBar
	last int
}

// NewProgress creates a bar for total items writing to w (normally stderr)
func NewProgress(w io.Writer, total int, description string) *Progress {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(30),
		progressbar.OptionShowCount(),
		progressbar.OptionSetElapsedTime(true),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
	return &Progress{bar: bar}
}

// Update moves the bar to completed. Counts arriving out of order never
// move it backwards. It matches the executor progress callback signature.
func (p *Progress) Update(completed, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if completed <= p.last {
		return
	}
	p.last = completed
	_ = p.bar.Set(completed)
}

// Completed returns the highest count seen so far
func (p *Progress) Completed() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

// Finish completes and clears the bar
func (p *Progress) Finish() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.bar.Finish()
}
