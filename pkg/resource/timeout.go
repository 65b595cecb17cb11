package resource

import (
	"context"
	"time"

	"github.com/amirhadar/pdep-go/pkg/perrors"
)

// WaitWithTimeout re-evaluates predicate until it returns true or the
// wall-clock budget expires, sleeping interval between attempts. Adapters
// that perform remote waits (e.g. polling an ECS cluster for ACTIVE) use
// this instead of ad-hoc loops.
//
// Grounded on original_source/pdep/utils.py's do_with_timeout.
func WaitWithTimeout(ctx context.Context, timeout, interval time.Duration, predicate func(ctx context.Context) (bool, error)) error {
	deadline := time.Now().Add(timeout)
	for {
		done, err := predicate(ctx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		if time.Now().After(deadline) {
			return perrors.NewTimeout("condition not met within %s", timeout)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
}
