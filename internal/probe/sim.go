package probe

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/aryankumar/pingpool/internal/executor"
	"github.com/aryankumar/pingpool/internal/util"
)

// Sim is an offline probe driven by query parameters:
//
//	sim://name?latency=30ms&fail=true&error=boom
//
// latency is how long the probe takes, fail reports the target unreachable
// and error makes the probe itself fail.
type Sim struct{}

// NewSim creates a simulated probe
func NewSim() *Sim {
	return &Sim{}
}

// Probe implements executor.ProbeFunc
func (s *Sim) Probe(ctx context.Context, target string) (executor.Result, error) {
	u, err := url.Parse(target)
	if err != nil {
		return executor.Result{ID: target}, fmt.Errorf("%w: %w", util.ErrInvalidTarget, err)
	}

	q := u.Query()

	var latency time.Duration
	if raw := q.Get("latency"); raw != "" {
		latency, err = time.ParseDuration(raw)
		if err != nil || latency < 0 {
			return executor.Result{ID: target}, fmt.Errorf("%w: bad latency %q", util.ErrInvalidTarget, raw)
		}
	}

	fail := false
	if raw := q.Get("fail"); raw != "" {
		fail, err = strconv.ParseBool(raw)
		if err != nil {
			return executor.Result{ID: target}, fmt.Errorf("%w: bad fail flag %q", util.ErrInvalidTarget, raw)
		}
	}

	start := time.Now()
	if latency > 0 {
		timer := time.NewTimer(latency)
		defer timer.Stop()

		select {
		case <-timer.C:
		case <-ctx.Done():
			return executor.Result{ID: target, Success: false, Duration: time.Since(start)}, nil
		}
	}

	if msg := q.Get("error"); msg != "" {
		return executor.Result{ID: target}, errors.New(msg)
	}

	return executor.Result{ID: target, Success: !fail, Duration: time.Since(start)}, nil
}
