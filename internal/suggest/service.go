// Package suggest asks an LLM provider to break a task down into subtasks.
package suggest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/MohammadOTaha/side-planner/internal/common/logger"
	v1 "github.com/MohammadOTaha/side-planner/pkg/api/v1"
)

var (
	ErrNotConfigured       = errors.New("suggestion provider is not configured")
	ErrProviderUnavailable = errors.New("suggestion provider unavailable")
	ErrBadCompletion       = errors.New("suggestion provider returned an unusable completion")
	ErrEmptyDescription    = errors.New("task description is required")
)

// Request is the board context a suggestion is generated for.
type Request struct {
	BoardName        string
	BoardDescription string
	Features         string
	TaskDescription  string
	ExistingTasks    []string
}

// Suggestion is one proposed subtask.
type Suggestion struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Complexity  v1.TaskComplexity `json:"complexity"`
}

// Result holds the suggestions and whether they came from the cache.
type Result struct {
	Suggestions []Suggestion
	Cached      bool
}

// Service renders prompts, calls the provider and caches parsed results.
type Service struct {
	provider Provider
	cache    Cache
	prompts  *Prompts
	group    singleflight.Group
	logger   *logger.Logger
}

// NewService creates a suggestion service. provider and cache may be nil.
func NewService(provider Provider, cache Cache, prompts *Prompts, log *logger.Logger) *Service {
	return &Service{
		provider: provider,
		cache:    cache,
		prompts:  prompts,
		logger:   log.WithFields(zap.String("component", "suggest")),
	}
}

// Suggest returns subtask suggestions for req. Identical concurrent
// requests share one provider call.
func (s *Service) Suggest(ctx context.Context, req Request) (*Result, error) {
	if req.TaskDescription == "" {
		return nil, ErrEmptyDescription
	}
	if s.provider == nil {
		return nil, ErrNotConfigured
	}

	prompt, err := s.prompts.Render(req)
	if err != nil {
		return nil, err
	}
	key := cacheKey(s.provider.Model(), s.prompts.System, prompt)

	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			s.logger.Warn("suggestion cache read failed", zap.Error(err))
		} else if ok {
			return &Result{Suggestions: cached, Cached: true}, nil
		}
	}

	// The shared call must outlive any single caller.
	callCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan(key, func() (interface{}, error) {
		return s.generate(callCtx, key, prompt)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return &Result{Suggestions: res.Val.([]Suggestion)}, nil
	}
}

func (s *Service) generate(ctx context.Context, key, prompt string) ([]Suggestion, error) {
	start := time.Now()
	text, err := s.provider.Complete(ctx, s.prompts.System, prompt)
	if err != nil {
		s.logger.Error("suggestion provider failed", zap.Error(err), zap.Duration("duration", time.Since(start)))
		return nil, err
	}
	suggestions, err := ParseSuggestions(text)
	if err != nil {
		s.logger.Warn("unusable suggestion completion", zap.Error(err))
		return nil, err
	}
	s.logger.Info("generated suggestions",
		zap.Int("count", len(suggestions)),
		zap.Duration("duration", time.Since(start)))

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, suggestions); err != nil {
			s.logger.Warn("suggestion cache write failed", zap.Error(err))
		}
	}
	return suggestions, nil
}

func cacheKey(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
