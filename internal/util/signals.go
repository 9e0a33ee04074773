package util

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

// SetupSignalHandler returns a context that is cancelled on SIGINT or SIGTERM.
// Cancellation interrupts blocking waits on the worker pool, which still shuts
// itself down before the run returns. A second signal exits the process.
// The returned stop function releases the signal subscription.
func SetupSignalHandler() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigCh:
			slog.Info("received shutdown signal, interrupting run", "signal", sig.String())
			cancel()
		case <-ctx.Done():
			signal.Stop(sigCh)
			return
		}

		select {
		case sig := <-sigCh:
			slog.Warn("received second shutdown signal, forcing exit", "signal", sig.String())
			os.Exit(130)
		case <-ctx.Done():
		}
	}()

	stop := func() {
		cancel()
		signal.Stop(sigCh)
	}

	return ctx, stop
}
