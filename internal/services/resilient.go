package services

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog/log"
	"github.com/sangnt1552314/ytmp3api/internal/metrics"
	"github.com/sangnt1552314/ytmp3api/internal/models"
	"github.com/sony/gobreaker"
)

// RetryPolicy bounds every collaborator call.
type RetryPolicy struct {
	Timeout            time.Duration
	MaxRetries         int
	InitialInterval    time.Duration
	MaxInterval        time.Duration
	BreakerFailures    uint32
	BreakerOpenTimeout time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Timeout:            20 * time.Second,
		MaxRetries:         2,
		InitialInterval:    500 * time.Millisecond,
		MaxInterval:        5 * time.Second,
		BreakerFailures:    5,
		BreakerOpenTimeout: 30 * time.Second,
	}
}

// guard runs one operation under a per-attempt deadline, retries transient
// failures with exponential backoff and trips a circuit breaker after
// consecutive transient failures.
type guard struct {
	name    string
	policy  RetryPolicy
	breaker *gobreaker.CircuitBreaker
	metrics *metrics.Metrics
}

func newGuard(name string, policy RetryPolicy, m *metrics.Metrics) *guard {
	g := &guard{name: name, policy: policy, metrics: m}

	failures := policy.BreakerFailures
	if failures == 0 {
		failures = 5
	}

	g.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     policy.BreakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		// only transient failures count against the upstream
		IsSuccessful: func(err error) bool {
			return err == nil || KindOf(err) != KindTransient
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("Circuit breaker state changed")
			m.SetBreakerState(name, breakerStateValue(to))
		},
	})
	m.SetBreakerState(name, breakerStateValue(gobreaker.StateClosed))
	return g
}

func breakerStateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

func (g *guard) State() gobreaker.State {
	return g.breaker.State()
}

func guardedCall[T any](ctx context.Context, g *guard, op string, fn func(ctx context.Context) (T, error)) (T, error) {
	start := time.Now()
	attempt := 0

	operation := func() (T, error) {
		attempt++
		var zero T

		res, err := g.breaker.Execute(func() (interface{}, error) {
			attemptCtx := ctx
			if g.policy.Timeout > 0 {
				var cancel context.CancelFunc
				attemptCtx, cancel = context.WithTimeout(ctx, g.policy.Timeout)
				defer cancel()
			}
			v, err := fn(attemptCtx)
			if err != nil {
				return nil, normalizeError(op, err)
			}
			return v, nil
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				return zero, backoff.Permanent(NewFetchError(KindTransient, op, err))
			}
			if KindOf(err) != KindTransient || ctx.Err() != nil {
				return zero, backoff.Permanent(err)
			}
			log.Debug().Err(err).Str("operation", op).Int("attempt", attempt).Msg("Retrying transient failure")
			return zero, err
		}
		return res.(T), nil
	}

	bo := backoff.NewExponentialBackOff()
	if g.policy.InitialInterval > 0 {
		bo.InitialInterval = g.policy.InitialInterval
	}
	if g.policy.MaxInterval > 0 {
		bo.MaxInterval = g.policy.MaxInterval
	}

	maxTries := uint(1)
	if g.policy.MaxRetries > 0 {
		maxTries += uint(g.policy.MaxRetries)
	}

	out, err := backoff.Retry(ctx, operation, backoff.WithBackOff(bo), backoff.WithMaxTries(maxTries))
	if err != nil {
		err = normalizeError(op, err)
		g.metrics.ObserveFetch(op, KindOf(err).String(), time.Since(start))
		return out, err
	}
	g.metrics.ObserveFetch(op, "ok", time.Since(start))
	return out, nil
}

func normalizeError(op string, err error) error {
	var fe *FetchError
	if errors.As(err, &fe) {
		return err
	}
	return NewFetchError(KindOf(err), op, err)
}

// ResilientResolver decorates a VideoResolver with deadline, retry and
// circuit breaking.
type ResilientResolver struct {
	next  VideoResolver
	guard *guard
}

func NewResilientResolver(next VideoResolver, policy RetryPolicy, m *metrics.Metrics) *ResilientResolver {
	return &ResilientResolver{next: next, guard: newGuard("resolver", policy, m)}
}

func (r *ResilientResolver) ResolveVideo(ctx context.Context, urlOrID string) (*models.Video, error) {
	return guardedCall(ctx, r.guard, "resolve", func(ctx context.Context) (*models.Video, error) {
		return r.next.ResolveVideo(ctx, urlOrID)
	})
}

// ResilientSearcher decorates a VideoSearcher the same way.
type ResilientSearcher struct {
	next  VideoSearcher
	guard *guard
}

func NewResilientSearcher(next VideoSearcher, policy RetryPolicy, m *metrics.Metrics) *ResilientSearcher {
	return &ResilientSearcher{next: next, guard: newGuard("searcher", policy, m)}
}

func (s *ResilientSearcher) SearchVideos(ctx context.Context, query string) ([]models.Video, error) {
	return guardedCall(ctx, s.guard, "search", func(ctx context.Context) ([]models.Video, error) {
		return s.next.SearchVideos(ctx, query)
	})
}
