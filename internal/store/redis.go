package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gpt716169-creator/sheinwibe/internal/models"
)

// RedisStore caches coupon resolutions so repeated apply attempts do not hit
// the coupon collaborator. A miss returns (nil, nil); Redis being down is a
// degradation, not a failure, and callers fall back to direct lookups.
type RedisStore struct {
	Client    *redis.Client
	CouponTTL time.Duration
}

func NewRedisClient(addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

func NewRedisStore(client *redis.Client, couponTTL time.Duration) *RedisStore {
	return &RedisStore{Client: client, CouponTTL: couponTTL}
}

func (s *RedisStore) Close() error {
	if s.Client != nil {
		return s.Client.Close()
	}
	return nil
}

func couponKey(code string) string {
	return fmt.Sprintf("coupon:%s", code)
}

func (s *RedisStore) StoreCoupon(ctx context.Context, coupon *models.Coupon) error {
	couponJSON, err := json.Marshal(coupon)
	if err != nil {
		return fmt.Errorf("failed to marshal coupon: %w", err)
	}

	if err := s.Client.Set(ctx, couponKey(coupon.Code), couponJSON, s.CouponTTL).Err(); err != nil {
		return fmt.Errorf("failed to set coupon in redis: %w", err)
	}
	return nil
}

func (s *RedisStore) GetCoupon(ctx context.Context, code string) (*models.Coupon, error) {
	val, err := s.Client.Get(ctx, couponKey(code)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get coupon from redis: %w", err)
	}

	var coupon models.Coupon
	if err := json.Unmarshal([]byte(val), &coupon); err != nil {
		return nil, fmt.Errorf("failed to unmarshal coupon from redis: %w", err)
	}
	return &coupon, nil
}
