// Package redis provides a Redis/Valkey implementation of the repository interface
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/navikt/roompanel/internal/config"
	"github.com/navikt/roompanel/internal/models"
	"github.com/redis/go-redis/v9"
)

// Repository implements the repository interface with Redis storage. Each
// room's schedule is one hash of meeting id to JSON.
type Repository struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRepository creates a new Redis repository
func NewRepository(cfg config.RedisConfig) (*Repository, error) {
	var client *redis.Client

	// Use URI if provided, otherwise build connection from individual parameters
	if cfg.URI != "" {
		opt, err := redis.ParseURL(cfg.URI)
		if err != nil {
			return nil, fmt.Errorf("failed to parse Redis URI: %w", err)
		}

		// Use DB from config if not specified in the URI
		if opt.DB == 0 {
			opt.DB = cfg.DB
		}

		// Use password from config if not in URI or if empty in URI
		if opt.Password == "" && cfg.Password != "" {
			opt.Password = cfg.Password
		}

		client = redis.NewClient(opt)
	} else {
		client = redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
			Username: cfg.Username,
			Password: cfg.Password,
			DB:       cfg.DB,
		})
	}

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Repository{
		client:    client,
		keyPrefix: cfg.KeyPrefix,
		ttl:       cfg.MeetingTTL,
	}, nil
}

// Close closes the Redis connection
func (r *Repository) Close() error {
	return r.client.Close()
}

// scheduleKey returns the Redis key of a room's schedule hash
func (r *Repository) scheduleKey(room string) string {
	return fmt.Sprintf("%srooms:%s:meetings", r.keyPrefix, room)
}

func notFound(room, id string) error {
	return fmt.Errorf("%w: %s in room %s", models.ErrMeetingNotFound, id, room)
}

// SaveMeeting adds or replaces a meeting in the room's schedule
func (r *Repository) SaveMeeting(ctx context.Context, room string, meeting *models.Meeting) error {
	if err := meeting.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(meeting)
	if err != nil {
		return fmt.Errorf("failed to marshal meeting: %w", err)
	}

	key := r.scheduleKey(room)
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, meeting.ID, data)
		if r.ttl > 0 {
			pipe.Expire(ctx, key, r.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save meeting: %w", err)
	}
	return nil
}

// GetMeeting retrieves a meeting by ID
func (r *Repository) GetMeeting(ctx context.Context, room, id string) (*models.Meeting, error) {
	data, err := r.client.HGet(ctx, r.scheduleKey(room), id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, notFound(room, id)
		}
		return nil, fmt.Errorf("failed to get meeting: %w", err)
	}

	var meeting models.Meeting
	if err := json.Unmarshal(data, &meeting); err != nil {
		return nil, fmt.Errorf("failed to unmarshal meeting: %w", err)
	}
	return &meeting, nil
}

// ListMeetings returns the room's meetings in schedule order. Entries that
// cannot be decoded are skipped.
func (r *Repository) ListMeetings(ctx context.Context, room string) ([]*models.Meeting, error) {
	values, err := r.client.HGetAll(ctx, r.scheduleKey(room)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list meetings: %w", err)
	}

	meetings := make([]*models.Meeting, 0, len(values))
	for _, v := range values {
		var meeting models.Meeting
		if err := json.Unmarshal([]byte(v), &meeting); err != nil {
			continue
		}
		meetings = append(meetings, &meeting)
	}
	models.SortMeetings(meetings)
	return meetings, nil
}

// DeleteMeeting removes a meeting by ID
func (r *Repository) DeleteMeeting(ctx context.Context, room, id string) error {
	removed, err := r.client.HDel(ctx, r.scheduleKey(room), id).Result()
	if err != nil {
		return fmt.Errorf("failed to delete meeting: %w", err)
	}
	if removed == 0 {
		return notFound(room, id)
	}
	return nil
}

// ReplaceMeetings replaces the room's schedule in one transaction
func (r *Repository) ReplaceMeetings(ctx context.Context, room string, meetings []*models.Meeting) error {
	fields := make([]any, 0, 2*len(meetings))
	for _, m := range meetings {
		if err := m.Validate(); err != nil {
			return err
		}
		data, err := json.Marshal(m)
		if err != nil {
			return fmt.Errorf("failed to marshal meeting: %w", err)
		}
		fields = append(fields, m.ID, data)
	}

	key := r.scheduleKey(room)
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		if len(fields) > 0 {
			pipe.HSet(ctx, key, fields...)
			if r.ttl > 0 {
				pipe.Expire(ctx, key, r.ttl)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to replace meetings: %w", err)
	}
	return nil
}
