package intake

import (
	"context"
	"errors"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/call-review/pkg/analysis"
)

// errStillProcessing is returned by a poll whose payload has not reached a terminal state.
// When the attempt budget runs out it surfaces as the final error.
var errStillProcessing = errors.New("analysis still processing")

// Poller requests the result endpoint at a fixed interval until the job completes
// or the attempt budget is spent.
type Poller struct {
	client      analysis.Service
	interval    time.Duration
	maxAttempts int
	newTimer    func() backoff.Timer
	logger      *zap.Logger
}

// NewPoller creates a poller. newTimer may be nil to use real timers.
func NewPoller(client analysis.Service, interval time.Duration, maxAttempts int, newTimer func() backoff.Timer, logger *zap.Logger) *Poller {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Poller{
		client:      client,
		interval:    interval,
		maxAttempts: maxAttempts,
		newTimer:    newTimer,
		logger:      logger,
	}
}

// Poll returns the first completed payload for callID together with the number of
// requests made. Transport, auth and rate-limit errors stop the loop at once.
func (p *Poller) Poll(ctx context.Context, callID string) (*analysis.ResultResponse, int, error) {
	var (
		attempts int
		result   *analysis.ResultResponse
	)

	operation := func() error {
		attempts++
		res, err := p.client.GetResult(ctx, callID)
		if err != nil {
			return backoff.Permanent(err)
		}
		if !res.IsCompleted() {
			return errStillProcessing
		}
		result = res
		return nil
	}

	notify := func(err error, next time.Duration) {
		if p.logger != nil {
			p.logger.Debug("⏳ Analysis still processing",
				zap.String("call_id", callID),
				zap.Int("attempt", attempts),
				zap.Int("max_attempts", p.maxAttempts),
				zap.Duration("next_poll_in", next),
			)
		}
	}

	b := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(p.interval), uint64(p.maxAttempts-1)),
		ctx,
	)

	var timer backoff.Timer
	if p.newTimer != nil {
		timer = p.newTimer()
	}

	if err := backoff.RetryNotifyWithTimer(operation, b, notify, timer); err != nil {
		return nil, attempts, err
	}
	return result, attempts, nil
}

// IsTimeout reports whether a Poll error means the attempt budget was exhausted
func IsTimeout(err error) bool {
	return errors.Is(err, errStillProcessing)
}
