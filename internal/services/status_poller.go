package services

import (
	"context"
	"errors"
	"log"
	"time"
)

// ErrPollExhausted is returned when the status never reached a terminal
// value within the attempt budget.
var ErrPollExhausted = errors.New("payment status polling exhausted attempts")

// StatusFunc fetches the current status of a payment.
type StatusFunc func(ctx context.Context, paymentID string) (string, error)

// terminal statuses stop the poll loop.
var terminalStatuses = map[string]bool{
	"paid":    true,
	"failed":  true,
	"expired": true,
}

// StatusPoller periodically checks a payment's status until it reaches a
// terminal value, the attempt budget runs out, or the context is canceled.
type StatusPoller struct {
	check       StatusFunc
	interval    time.Duration
	maxAttempts int
}

// NewStatusPoller builds a poller. Interval defaults to 3s and maxAttempts
// to 100 when non-positive.
func NewStatusPoller(check StatusFunc, interval time.Duration, maxAttempts int) *StatusPoller {
	if interval <= 0 {
		interval = 3 * time.Second
	}
	if maxAttempts <= 0 {
		maxAttempts = 100
	}
	return &StatusPoller{check: check, interval: interval, maxAttempts: maxAttempts}
}

// Wait blocks until the payment reaches a terminal status and returns it.
// Transient check errors are logged and count as attempts.
func (p *StatusPoller) Wait(ctx context.Context, paymentID string) (string, error) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for attempt := 0; attempt < p.maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-ticker.C:
		}

		status, err := p.check(ctx, paymentID)
		if err != nil {
			log.Printf("[Poller] status check failed for payment %s: %v", paymentID, err)
			continue
		}

		if terminalStatuses[status] {
			return status, nil
		}
	}

	return "", ErrPollExhausted
}

// Watch runs Wait in a goroutine and invokes done exactly once with the
// terminal status, or not at all when polling fails or is canceled.
func (p *StatusPoller) Watch(ctx context.Context, paymentID string, done func(status string)) {
	go func() {
		status, err := p.Wait(ctx, paymentID)
		if err != nil {
			log.Printf("[Poller] watch ended for payment %s: %v", paymentID, err)
			return
		}
		done(status)
	}()
}
