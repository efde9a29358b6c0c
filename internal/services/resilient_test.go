package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sangnt1552314/ytmp3api/internal/models"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResolver struct {
	calls atomic.Int32
	fn    func(ctx context.Context, call int32) (*models.Video, error)
}

func (s *stubResolver) ResolveVideo(ctx context.Context, urlOrID string) (*models.Video, error) {
	n := s.calls.Add(1)
	return s.fn(ctx, n)
}

type stubSearcher struct {
	calls atomic.Int32
	fn    func(ctx context.Context, call int32) ([]models.Video, error)
}

func (s *stubSearcher) SearchVideos(ctx context.Context, query string) ([]models.Video, error) {
	n := s.calls.Add(1)
	return s.fn(ctx, n)
}

func fastPolicy() RetryPolicy {
	return RetryPolicy{
		Timeout:            time.Second,
		MaxRetries:         2,
		InitialInterval:    time.Millisecond,
		MaxInterval:        2 * time.Millisecond,
		BreakerFailures:    3,
		BreakerOpenTimeout: time.Minute,
	}
}

func TestResilientResolverRetriesTransient(t *testing.T) {
	stub := &stubResolver{fn: func(ctx context.Context, call int32) (*models.Video, error) {
		if call < 3 {
			return nil, NewFetchError(KindTransient, "resolve", errors.New("connection reset"))
		}
		return &models.Video{ID: "dQw4w9WgXcQ"}, nil
	}}

	r := NewResilientResolver(stub, fastPolicy(), nil)
	v, err := r.ResolveVideo(context.Background(), "dQw4w9WgXcQ")

	require.NoError(t, err)
	assert.Equal(t, "dQw4w9WgXcQ", v.ID)
	assert.Equal(t, int32(3), stub.calls.Load())
}

func TestResilientResolverGivesUpAfterMaxRetries(t *testing.T) {
	stub := &stubResolver{fn: func(ctx context.Context, call int32) (*models.Video, error) {
		return nil, NewFetchError(KindTransient, "resolve", errors.New("timeout"))
	}}

	policy := fastPolicy()
	policy.BreakerFailures = 10
	r := NewResilientResolver(stub, policy, nil)
	_, err := r.ResolveVideo(context.Background(), "dQw4w9WgXcQ")

	require.Error(t, err)
	assert.Equal(t, KindTransient, KindOf(err))
	assert.Equal(t, int32(3), stub.calls.Load())
}

func TestResilientResolverDoesNotRetryPermanent(t *testing.T) {
	for _, kind := range []ErrorKind{KindNotFound, KindInvalidInput, KindUpstream} {
		t.Run(kind.String(), func(t *testing.T) {
			stub := &stubResolver{fn: func(ctx context.Context, call int32) (*models.Video, error) {
				return nil, NewFetchError(kind, "resolve", errors.New("nope"))
			}}

			r := NewResilientResolver(stub, fastPolicy(), nil)
			_, err := r.ResolveVideo(context.Background(), "dQw4w9WgXcQ")

			assert.Equal(t, kind, KindOf(err))
			assert.Equal(t, int32(1), stub.calls.Load())
		})
	}
}

func TestResilientResolverAppliesDeadline(t *testing.T) {
	stub := &stubResolver{fn: func(ctx context.Context, call int32) (*models.Video, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}}

	policy := fastPolicy()
	policy.Timeout = 20 * time.Millisecond
	policy.MaxRetries = 0
	r := NewResilientResolver(stub, policy, nil)

	start := time.Now()
	_, err := r.ResolveVideo(context.Background(), "dQw4w9WgXcQ")

	assert.Equal(t, KindTransient, KindOf(err))
	assert.Less(t, time.Since(start), time.Second)
}

func TestResilientSearcherBreakerOpens(t *testing.T) {
	stub := &stubSearcher{fn: func(ctx context.Context, call int32) ([]models.Video, error) {
		return nil, NewFetchError(KindTransient, "search", errors.New("503"))
	}}

	policy := fastPolicy()
	policy.MaxRetries = 0
	s := NewResilientSearcher(stub, policy, nil)

	for i := 0; i < 3; i++ {
		_, err := s.SearchVideos(context.Background(), "lofi")
		require.Error(t, err)
	}
	assert.Equal(t, gobreaker.StateOpen, s.guard.State())

	_, err := s.SearchVideos(context.Background(), "lofi")
	assert.Equal(t, KindTransient, KindOf(err))
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, int32(3), stub.calls.Load())
}

func TestResilientSearcherNotFoundKeepsBreakerClosed(t *testing.T) {
	stub := &stubSearcher{fn: func(ctx context.Context, call int32) ([]models.Video, error) {
		return nil, NewFetchError(KindNotFound, "search", errors.New("gone"))
	}}

	policy := fastPolicy()
	policy.MaxRetries = 0
	s := NewResilientSearcher(stub, policy, nil)

	for i := 0; i < 5; i++ {
		_, _ = s.SearchVideos(context.Background(), "lofi")
	}
	assert.Equal(t, gobreaker.StateClosed, s.guard.State())
	assert.Equal(t, int32(5), stub.calls.Load())
}

func TestResilientWrapsPlainErrors(t *testing.T) {
	stub := &stubSearcher{fn: func(ctx context.Context, call int32) ([]models.Video, error) {
		return nil, errors.New("exit status 2")
	}}

	s := NewResilientSearcher(stub, fastPolicy(), nil)
	_, err := s.SearchVideos(context.Background(), "lofi")

	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, KindUpstream, fe.Kind)
	assert.Equal(t, "search", fe.Op)
}
