package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/akarsenev/parkslot/config"
	"github.com/akarsenev/parkslot/internal/domain"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client   *redis.Client
	slotsTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, slotsTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:   redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		slotsTTL: slotsTTL,
	}
}

func (c *RedisCache) GetSlots(ctx context.Context) ([]domain.Slot, error) {
	data, err := c.client.Get(ctx, slotsKey()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var slots []domain.Slot
	if err := json.Unmarshal(data, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

func (c *RedisCache) SetSlots(ctx context.Context, slots []domain.Slot) error {
	payload, err := json.Marshal(slots)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, slotsKey(), payload, c.slotsTTL).Err()
}

func (c *RedisCache) InvalidateSlots(ctx context.Context) error {
	return c.client.Del(ctx, slotsKey()).Err()
}

// AcquireSlotHold takes a short-lived exclusive hold on a slot while a
// booking is being written, so two processes racing for the same slot cannot
// both pass the availability check.
func (c *RedisCache) AcquireSlotHold(ctx context.Context, slotID string, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, slotHoldKey(slotID), "held", ttl).Result()
}

func (c *RedisCache) ReleaseSlotHold(ctx context.Context, slotID string) error {
	return c.client.Del(ctx, slotHoldKey(slotID)).Err()
}

func slotsKey() string {
	return "cache:slots"
}

func slotHoldKey(slotID string) string {
	return fmt.Sprintf("hold:slot:%s", slotID)
}
