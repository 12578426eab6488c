package llm

import (
	"context"
	"fmt"
	"time"
)

// maxSlotWait bounds how long a call queues for a free slot.
const maxSlotWait = 5 * time.Minute

// LimitProvider caps the number of in-flight calls to the inner provider.
type LimitProvider struct {
	inner    Provider
	rateChan chan struct{}
}

// WithConcurrencyLimit allows at most n concurrent calls through p.
func WithConcurrencyLimit(p Provider, n int) Provider {
	if n < 1 {
		n = 1
	}
	rateChan := make(chan struct{}, n)
	for i := 0; i < n; i++ {
		rateChan <- struct{}{}
	}
	return &LimitProvider{inner: p, rateChan: rateChan}
}

func (l *LimitProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := l.acquire(ctx); err != nil {
		return nil, err
	}
	defer l.release()

	return l.inner.Generate(ctx, req)
}

func (l *LimitProvider) ModelID() string {
	return l.inner.ModelID()
}

// acquire blocks until a slot is available.
func (l *LimitProvider) acquire(ctx context.Context) error {
	timer := time.NewTimer(maxSlotWait)
	defer timer.Stop()

	select {
	case <-l.rateChan:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return &ErrProviderUnavailable{Err: fmt.Errorf("timeout waiting for %s slot", l.inner.ModelID())}
	}
}

func (l *LimitProvider) release() {
	l.rateChan <- struct{}{}
}

// TimeoutProvider bounds each call with its own deadline.
type TimeoutProvider struct {
	inner   Provider
	timeout time.Duration
}

// WithTimeout applies d to every call. A non-positive d returns p unchanged.
func WithTimeout(p Provider, d time.Duration) Provider {
	if d <= 0 {
		return p
	}
	return &TimeoutProvider{inner: p, timeout: d}
}

func (t *TimeoutProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.inner.Generate(ctx, req)
}

func (t *TimeoutProvider) ModelID() string {
	return t.inner.ModelID()
}
