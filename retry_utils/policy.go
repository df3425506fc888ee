package retry_utils

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/kokuren333/BiimSlideMaker/domain"
)

// Policy is the single retry discipline shared by speech engine calls and
// collaborator subprocesses. Only errors classified transient
// (domain.ErrTransientBackend) are retried; everything else stops the cycle
// on the first attempt.
type Policy struct {
	MaxAttempts     int
	InitialInterval time.Duration
}

func NewPolicy(maxAttempts int, initialInterval time.Duration) Policy {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if initialInterval <= 0 {
		initialInterval = 500 * time.Millisecond
	}
	return Policy{
		MaxAttempts:     maxAttempts,
		InitialInterval: initialInterval,
	}
}

// Do runs op under the policy. The last error is returned after the attempt
// budget is spent or a non-transient error occurs.
func (p Policy) Do(ctx context.Context, op func() error) error {
	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = p.InitialInterval

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		if err := op(); err != nil {
			if errors.Is(err, domain.ErrTransientBackend) {
				return struct{}{}, err
			}
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, nil
	}, backoff.WithBackOff(expo), backoff.WithMaxTries(uint(p.MaxAttempts)))

	return err
}
