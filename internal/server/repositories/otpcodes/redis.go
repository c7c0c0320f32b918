package otpcodes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/irezaei/memberhub/internal/common"
)

// keyPrefix namespaces the codes inside a possibly shared Redis database.
const keyPrefix = "otp:"

type RedisRepository struct {
	client *redis.Client
}

func NewRedisRepository(client *redis.Client) *RedisRepository {
	return &RedisRepository{client: client}
}

func (r *RedisRepository) Save(ctx context.Context, phone, code string, ttl time.Duration) error {
	if err := r.client.Set(ctx, keyPrefix+phone, code, ttl).Err(); err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	return nil
}

func (r *RedisRepository) Consume(ctx context.Context, phone string) (string, error) {
	code, err := r.client.GetDel(ctx, keyPrefix+phone).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", common.ErrNotFound
		}
		return "", fmt.Errorf("redis error: %w", err)
	}
	return code, nil
}
