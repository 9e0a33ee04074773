package probe

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/aryankumar/pingpool/internal/executor"
	"github.com/aryankumar/pingpool/internal/util"
	"github.com/aryankumar/pingpool/pkg/version"
)

// maxDrain caps how much of a response body is read before closing it
const maxDrain = 64 << 10

// HTTP probes a URL with a GET request. Any response, whatever its status,
// counts as reachable.
type HTTP struct {
	client *http.Client
	logger *slog.Logger
}

// NewHTTP creates an HTTP probe. A positive timeout bounds each request.
func NewHTTP(timeout time.Duration, logger *slog.Logger) *HTTP {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTP{
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// NewHTTPWithClient creates an HTTP probe that sends requests through client
func NewHTTPWithClient(client *http.Client, logger *slog.Logger) *HTTP {
	h := NewHTTP(0, logger)
	if client != nil {
		h.client = client
	}
	return h
}

// Probe implements executor.ProbeFunc
func (h *HTTP) Probe(ctx context.Context, target string) (executor.Result, error) {
	u, err := url.Parse(target)
	if err != nil {
		return executor.Result{ID: target}, fmt.Errorf("%w: %w", util.ErrInvalidTarget, err)
	}
	if u.Host == "" {
		return executor.Result{ID: target}, fmt.Errorf("%w: %q has no host", util.ErrInvalidTarget, target)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return executor.Result{ID: target}, fmt.Errorf("%w: %w", util.ErrInvalidTarget, err)
	}
	req.Header.Set("User-Agent", version.UserAgent())

	start := time.Now()
	resp, err := h.client.Do(req)
	if err != nil {
		elapsed := time.Since(start)
		h.logger.Debug("http probe failed", "target", target, "error", err, "duration", elapsed)
		return executor.Result{ID: target, Success: false, Duration: elapsed}, nil
	}
	defer resp.Body.Close()

	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrain))
	elapsed := time.Since(start)

	h.logger.Debug("http probe completed", "target", target, "status", resp.StatusCode, "duration", elapsed)

	return executor.Result{ID: target, Success: true, Duration: elapsed}, nil
}
