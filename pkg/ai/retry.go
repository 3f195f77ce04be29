package ai

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/openai/openai-go"
	"github.com/pkg/errors"
)

// ErrContentFiltered marks a completion rejected by the provider's safety
// layer. It is fatal: retrying the same prompt cannot succeed.
var ErrContentFiltered = errors.New("completion stopped by content filter")

// Policy is a bounded retry ladder with fixed per-attempt backoffs.
type Policy struct {
	MaxAttempts int
	Backoffs    []time.Duration
}

// DefaultPolicy matches the request ladder the chat loop expects: three
// attempts with 1s, 2s and 4s waits between them.
var DefaultPolicy = Policy{
	MaxAttempts: 3,
	Backoffs:    []time.Duration{time.Second, 2 * time.Second, 4 * time.Second},
}

// IsFatal reports whether an error is not worth retrying: bad credentials,
// missing permissions, or a content-safety stop.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrContentFiltered) {
		return true
	}
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 401 || apiErr.StatusCode == 403
	}
	return false
}

// Do runs op until it succeeds, the attempts run out, a fatal error occurs,
// or the context is cancelled.
func (p Policy) Do(ctx context.Context, logger *log.Logger, op func(context.Context) error) error {
	var lastErr error
	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}
		if IsFatal(lastErr) {
			logger.Error("request failed fatally", "attempt", attempt+1, "error", lastErr)
			return lastErr
		}
		logger.Warn("request failed", "attempt", attempt+1, "error", lastErr)

		if attempt == p.MaxAttempts-1 {
			break
		}
		backoff := p.Backoffs[min(attempt, len(p.Backoffs)-1)]
		logger.Info("retrying", "in", backoff)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
	return errors.Wrapf(lastErr, "giving up after %d attempts", p.MaxAttempts)
}
