package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// StatusRepository tracks the per-club "generation in progress" flag in Redis.
// The TTL bounds how long a crashed run can keep a club locked.
type StatusRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStatusRepository creates a new status repository.
func NewStatusRepository(client *redis.Client, ttl time.Duration) *StatusRepository {
	return &StatusRepository{client: client, ttl: ttl}
}

func generatingKey(clubID string) string {
	return fmt.Sprintf("clubs:%s:generating", clubID)
}

// SetGenerating flips the flag for a club. Setting true applies the TTL,
// setting false deletes the key.
func (r *StatusRepository) SetGenerating(ctx context.Context, clubID string, generating bool) error {
	key := generatingKey(clubID)
	if !generating {
		if err := r.client.Del(ctx, key).Err(); err != nil {
			return fmt.Errorf("clear generating flag: %w", err)
		}
		return nil
	}
	if err := r.client.Set(ctx, key, "1", r.ttl).Err(); err != nil {
		return fmt.Errorf("set generating flag: %w", err)
	}
	return nil
}

// IsGenerating reports whether a run is currently flagged for the club.
func (r *StatusRepository) IsGenerating(ctx context.Context, clubID string) (bool, error) {
	n, err := r.client.Exists(ctx, generatingKey(clubID)).Result()
	if err != nil {
		return false, fmt.Errorf("read generating flag: %w", err)
	}
	return n > 0, nil
}
