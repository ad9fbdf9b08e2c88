package liveactivity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	DefaultStatusKey = "workoutlog||live-status"
	DefaultChannel   = "workoutlog||live-status-updates"
	endMarker        = `{"ended":true}`
)

var ErrNotStarted = errors.New("live status broadcast not started")

var _ Broadcaster = (*RedisBroadcaster)(nil)

// RedisBroadcaster keeps the latest live status under a key (with TTL, so a crashed
// service does not leave a stale status behind) and publishes every change on a channel.
type RedisBroadcaster struct {
	redisClient *redis.Client
	key         string
	channel     string
	ttl         time.Duration

	mu     sync.Mutex
	active bool
}

func NewRedisBroadcaster(redisClient *redis.Client, ttl time.Duration) *RedisBroadcaster {
	return &RedisBroadcaster{
		redisClient: redisClient,
		key:         DefaultStatusKey,
		channel:     DefaultChannel,
		ttl:         ttl,
	}
}

func (b *RedisBroadcaster) Start(ctx context.Context, status LiveStatus) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	// once the key is written the broadcast counts as started, so Stop removes it
	// even when the publish fails
	statusJson, err := b.setStatus(ctx, status)
	if err != nil {
		return fmt.Errorf("start: %w", err)
	}
	b.active = true
	if err := b.publish(ctx, statusJson); err != nil {
		return fmt.Errorf("start: %w", err)
	}
	return nil
}

func (b *RedisBroadcaster) Update(ctx context.Context, status LiveStatus) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.active {
		return ErrNotStarted
	}
	if err := b.push(ctx, status); err != nil {
		return fmt.Errorf("update: %w", err)
	}
	return nil
}

func (b *RedisBroadcaster) Stop(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.active {
		return nil
	}
	b.active = false

	if err := b.redisClient.Del(ctx, b.key).Err(); err != nil {
		return fmt.Errorf("stop, delete status: %w", err)
	}
	if err := b.redisClient.Publish(ctx, b.channel, endMarker).Err(); err != nil {
		return fmt.Errorf("stop, publish end: %w", err)
	}
	return nil
}

func (b *RedisBroadcaster) push(ctx context.Context, status LiveStatus) error {
	statusJson, err := b.setStatus(ctx, status)
	if err != nil {
		return err
	}
	return b.publish(ctx, statusJson)
}

func (b *RedisBroadcaster) setStatus(ctx context.Context, status LiveStatus) (string, error) {
	statusJson, err := json.Marshal(status)
	if err != nil {
		return "", fmt.Errorf("marshal status: %w", err)
	}
	if err := b.redisClient.Set(ctx, b.key, string(statusJson), b.ttl).Err(); err != nil {
		return "", fmt.Errorf("set status: %w", err)
	}
	return string(statusJson), nil
}

func (b *RedisBroadcaster) publish(ctx context.Context, statusJson string) error {
	if err := b.redisClient.Publish(ctx, b.channel, statusJson).Err(); err != nil {
		return fmt.Errorf("publish status: %w", err)
	}
	return nil
}

// Current returns the latest broadcast status, nil when nothing is being tracked.
func (b *RedisBroadcaster) Current(ctx context.Context) (*LiveStatus, error) {
	val, err := b.redisClient.Get(ctx, b.key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get status: %w", err)
	}

	var status LiveStatus
	if err := json.Unmarshal([]byte(val), &status); err != nil {
		return nil, fmt.Errorf("unmarshal status: %w", err)
	}
	return &status, nil
}
