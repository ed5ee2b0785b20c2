package llm

import (
	"context"

	"golang.org/x/time/rate"
)

// DefaultRequestsPerMinute is a conservative ceiling for hosted completion
// APIs; free tiers commonly allow well under one request per second.
const DefaultRequestsPerMinute = 30

// rateLimitedProvider wraps a Provider with a token-bucket request limiter.
// Completion calls are the only externally latent operations in the service,
// so limiting here protects the upstream quota without touching call sites.
type rateLimitedProvider struct {
	inner   Provider
	limiter *rate.Limiter
}

// WithRateLimit wraps provider so at most requestsPerMinute calls reach the
// upstream API. A non-positive value uses DefaultRequestsPerMinute.
func WithRateLimit(provider Provider, requestsPerMinute int) Provider {
	if requestsPerMinute <= 0 {
		requestsPerMinute = DefaultRequestsPerMinute
	}
	return &rateLimitedProvider{
		inner:   provider,
		limiter: rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), 1),
	}
}

func (r *rateLimitedProvider) Name() string {
	return r.inner.Name()
}

func (r *rateLimitedProvider) Chat(ctx context.Context, messages []Message, opts ChatOptions) (*StreamReader, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return r.inner.Chat(ctx, messages, opts)
}

func (r *rateLimitedProvider) ChatSync(ctx context.Context, messages []Message, opts ChatOptions) (*Response, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return r.inner.ChatSync(ctx, messages, opts)
}
