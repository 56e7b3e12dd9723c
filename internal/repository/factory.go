package repository

import (
	"fmt"
	"log/slog"

	"github.com/navikt/roompanel/internal/config"
	"github.com/navikt/roompanel/internal/repository/memory"
	"github.com/navikt/roompanel/internal/repository/redis"
)

// New returns the Redis repository when Redis is enabled and the in-memory
// repository otherwise
func New(cfg config.RedisConfig, log *slog.Logger) (Repository, error) {
	if !cfg.Enabled {
		log.Info("using in-memory meeting storage")
		return memory.NewRepository(), nil
	}

	repo, err := redis.NewRepository(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis repository: %w", err)
	}
	log.Info("using Redis meeting storage", "key_prefix", cfg.KeyPrefix, "ttl", cfg.MeetingTTL)
	return repo, nil
}
