package store

import (
	"context"
	"fmt"
	"time"
)

const (
	DefaultReadyTimeout = time.Second
	pollInterval        = 50 * time.Millisecond
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// WaitReady polls p until it answers or timeout elapses. It runs once at
// startup; callers treat a failure as fatal.
func WaitReady(ctx context.Context, p Pinger, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = DefaultReadyTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	var lastErr error
	for {
		if lastErr = p.Ping(ctx); lastErr == nil {
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("storage not ready after %s: %w", timeout, lastErr)
		case <-ticker.C:
		}
	}
}
