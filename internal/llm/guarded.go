package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/Veraticus/mailsift/internal/model"
)

// DefaultTimeout bounds a single source call.
const DefaultTimeout = 25 * time.Second

// Guarded wraps a source with a per-call timeout, an optional rate limit, a
// circuit breaker and an answer cache. It never retries.
type Guarded struct {
	inner   Source
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
	cache   *answerCache
	logger  *slog.Logger
	timeout time.Duration
}

// NewGuarded wraps inner using the limits in cfg.
func NewGuarded(inner Source, cfg Config, logger *slog.Logger) *Guarded {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "llm", "provider", inner.Name())

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	failures := cfg.BreakerFailures
	if failures == 0 {
		failures = 3
	}
	cooldown := cfg.BreakerCooldown
	if cooldown <= 0 {
		cooldown = time.Minute
	}

	g := &Guarded{
		inner:   inner,
		cache:   newAnswerCache(cfg.CacheTTL),
		logger:  logger,
		timeout: timeout,
	}

	if cfg.RateLimit > 0 {
		g.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}

	g.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        inner.Name(),
		MaxRequests: 1,
		Timeout:     cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Suggestion source circuit changed state",
				"source", name,
				"from", from.String(),
				"to", to.String())
		},
	})

	return g
}

// Name returns the wrapped source's name.
func (g *Guarded) Name() string {
	return g.inner.Name()
}

// Propose asks the wrapped source, consulting the cache first. Every failure
// is reported as ErrUnavailable.
func (g *Guarded) Propose(ctx context.Context, req model.SuggestionRequest) (string, error) {
	key := cacheKey(g.inner.Name(), req)
	if answer, ok := g.cache.get(key); ok {
		g.logger.Debug("Using cached answer")
		return answer, nil
	}

	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("%w: rate limiter: %w", ErrUnavailable, err)
		}
	}

	start := time.Now()
	out, err := g.breaker.Execute(func() (any, error) {
		callCtx, cancel := context.WithTimeout(ctx, g.timeout)
		defer cancel()
		return g.inner.Propose(callCtx, req)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", fmt.Errorf("%w: circuit open", ErrUnavailable)
		}
		return "", fmt.Errorf("%w: %s: %w", ErrUnavailable, g.inner.Name(), err)
	}

	answer, _ := out.(string)
	g.logger.Debug("Source answered", "duration", time.Since(start), "chars", len(answer))
	g.cache.set(key, answer)
	return answer, nil
}

// State reports the breaker state, for status output.
func (g *Guarded) State() string {
	return g.breaker.State().String()
}

// Close releases the cache's background sweeper.
func (g *Guarded) Close() error {
	g.cache.close()
	return nil
}
