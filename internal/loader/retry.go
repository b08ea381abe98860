package loader

import (
	"context"
	"time"
)

// Retry runs fn up to attempts times with a fixed delay between tries. The
// default load path never retries; connector startup uses this to ride out
// slow-starting backends.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return err
}
