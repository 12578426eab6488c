package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// FallbackProvider tries the secondary provider once after the primary has
// failed (including its own retries).
type FallbackProvider struct {
	primary   Provider
	secondary Provider
	logger    *slog.Logger
}

// WithFallback returns primary unchanged when secondary is nil.
func WithFallback(primary, secondary Provider, logger *slog.Logger) Provider {
	if secondary == nil {
		return primary
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FallbackProvider{primary: primary, secondary: secondary, logger: logger}
}

func (f *FallbackProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	resp, err := f.primary.Generate(ctx, req)
	if err == nil {
		return resp, nil
	}
	if errors.Is(err, context.Canceled) || ctx.Err() != nil {
		return nil, err
	}

	f.logger.WarnContext(ctx, "primary model exhausted, switching to fallback",
		"primary", f.primary.ModelID(),
		"fallback", f.secondary.ModelID(),
		"purpose", PurposeFrom(ctx),
		"error", err,
	)

	resp, fbErr := f.secondary.Generate(ctx, req)
	if fbErr != nil {
		return nil, fmt.Errorf("both primary and fallback failed: %w", errors.Join(err, fbErr))
	}
	return resp, nil
}

func (f *FallbackProvider) ModelID() string {
	return f.primary.ModelID()
}
