package suggest

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/MohammadOTaha/side-planner/internal/common/config"
	"github.com/MohammadOTaha/side-planner/internal/common/logger"
)

// Provided bundles the suggestion service with the Redis client backing
// its cache, if any.
type Provided struct {
	Service *Service
	Redis   *redis.Client
}

// Provide builds the suggestion service from configuration. A missing API
// key leaves the provider unset; a missing Redis address disables caching.
func Provide(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Provided, func() error, error) {
	prompts, err := LoadPrompts()
	if err != nil {
		return nil, nil, err
	}

	var provider Provider
	switch {
	case cfg.AI.APIKey == "":
		log.Warn("AI API key not set, subtask suggestions are disabled")
	case cfg.AI.Provider == "gemini":
		provider = NewGeminiProvider(cfg.AI.BaseURL, cfg.AI.Model, cfg.AI.APIKey, cfg.AI.TimeoutDuration())
	default:
		return nil, nil, fmt.Errorf("unsupported AI provider: %s", cfg.AI.Provider)
	}

	provided := &Provided{}
	cleanup := func() error { return nil }
	var cache Cache
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		log.Info("suggestion cache enabled", zap.String("addr", cfg.Redis.Addr))
		provided.Redis = client
		cache = NewRedisCache(client, cfg.AI.CacheTTLDuration())
		cleanup = client.Close
	}

	provided.Service = NewService(provider, cache, prompts, log)
	return provided, cleanup, nil
}
