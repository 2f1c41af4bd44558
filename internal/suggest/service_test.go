package suggest

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MohammadOTaha/side-planner/internal/common/logger"
	v1 "github.com/MohammadOTaha/side-planner/pkg/api/v1"
)

type stubProvider struct {
	calls   int32
	release chan struct{}
	text    string
	err     error
}

func (p *stubProvider) Model() string { return "stub" }

func (p *stubProvider) Complete(ctx context.Context, system, prompt string) (string, error) {
	atomic.AddInt32(&p.calls, 1)
	if p.release != nil {
		<-p.release
	}
	return p.text, p.err
}

const okCompletion = `{"tasks":[{"title":"Schema","description":"tables","complexity":"Easy"}]}`

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisCache(client, time.Minute), mr
}

func newTestService(t *testing.T, p Provider, c Cache) *Service {
	t.Helper()
	prompts, err := LoadPrompts()
	require.NoError(t, err)
	return NewService(p, c, prompts, logger.NewNop())
}

func TestSuggest_CachesResults(t *testing.T) {
	cache, mr := newTestCache(t)
	provider := &stubProvider{text: okCompletion}
	svc := newTestService(t, provider, cache)
	req := Request{BoardName: "B", TaskDescription: "add login"}

	first, err := svc.Suggest(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.Equal(t, []Suggestion{{Title: "Schema", Description: "tables", Complexity: v1.ComplexityLow}}, first.Suggestions)

	keys := mr.Keys()
	require.Len(t, keys, 1)
	ttl := mr.TTL(keys[0])
	assert.True(t, ttl > 0 && ttl <= time.Minute)

	second, err := svc.Suggest(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Suggestions, second.Suggestions)
	assert.Equal(t, int32(1), atomic.LoadInt32(&provider.calls))

	// A different description is a different prompt.
	_, err = svc.Suggest(context.Background(), Request{BoardName: "B", TaskDescription: "add logout"})
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&provider.calls))
}

func TestSuggest_DeduplicatesConcurrentRequests(t *testing.T) {
	provider := &stubProvider{text: okCompletion, release: make(chan struct{})}
	svc := newTestService(t, provider, nil)
	req := Request{BoardName: "B", TaskDescription: "add login"}

	var wg sync.WaitGroup
	results := make([]*Result, 5)
	errs := make([]error, 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.Suggest(context.Background(), req)
		}(i)
	}

	require.Eventually(t, func() bool { return atomic.LoadInt32(&provider.calls) == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(provider.release)
	wg.Wait()

	for i := range results {
		require.NoError(t, errs[i])
		assert.Len(t, results[i].Suggestions, 1)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&provider.calls))
}

func TestSuggest_Errors(t *testing.T) {
	svc := newTestService(t, nil, nil)
	_, err := svc.Suggest(context.Background(), Request{TaskDescription: "x"})
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = svc.Suggest(context.Background(), Request{})
	assert.ErrorIs(t, err, ErrEmptyDescription)

	cause := errors.New("connection reset")
	svc = newTestService(t, &stubProvider{err: errors.Join(ErrProviderUnavailable, cause)}, nil)
	_, err = svc.Suggest(context.Background(), Request{TaskDescription: "x"})
	assert.ErrorIs(t, err, ErrProviderUnavailable)

	cache, mr := newTestCache(t)
	svc = newTestService(t, &stubProvider{text: "sorry, I cannot help"}, cache)
	_, err = svc.Suggest(context.Background(), Request{TaskDescription: "x"})
	assert.ErrorIs(t, err, ErrBadCompletion)
	assert.Empty(t, mr.Keys())
}

func TestSuggest_CacheDownStillServes(t *testing.T) {
	cache, mr := newTestCache(t)
	mr.Close()

	svc := newTestService(t, &stubProvider{text: okCompletion}, cache)
	res, err := svc.Suggest(context.Background(), Request{TaskDescription: "x"})
	require.NoError(t, err)
	assert.False(t, res.Cached)
}

func TestSuggest_CallerCancel(t *testing.T) {
	provider := &stubProvider{text: okCompletion, release: make(chan struct{})}
	defer close(provider.release)
	svc := newTestService(t, provider, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := svc.Suggest(ctx, Request{TaskDescription: "x"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
