package llm

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrEmptyResponse means the model replied but said nothing usable; the
// generators treat it like any other failure and use their fallback.
var ErrEmptyResponse = errors.New("empty model response")

// ErrRateLimit is a 429 from the model API. RetryAfter is zero when the
// API did not say how long to wait.
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrProviderUnavailable covers outages, network errors and non-429 API
// failures. The mock provider also returns it once its queue is empty.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err == nil {
		return "LLM provider unavailable"
	}
	return "LLM provider unavailable: " + e.Err.Error()
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// mapStatus turns an HTTP status from any SDK into a typed error.
func mapStatus(status int, err error) error {
	if status == http.StatusTooManyRequests {
		return &ErrRateLimit{Err: err}
	}
	return &ErrProviderUnavailable{Err: err}
}
