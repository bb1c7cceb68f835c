// Package cache provides a Redis-backed core.PreviewCache so a preview
// created on one server instance can be committed through another.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/JonMunkholm/sessionplanner/internal/core"
)

const keyPrefix = "sessionplanner:import:"

// Options configures the Redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
}

// Redis stores previews as JSON values with a TTL.
type Redis struct {
	client *redis.Client
}

// NewRedis connects to Redis and verifies it with a PING.
func NewRedis(ctx context.Context, opts Options) (*Redis, error) {
	if opts.Addr == "" {
		opts.Addr = "127.0.0.1:6379"
	}
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", opts.Addr, err)
	}
	return &Redis{client: client}, nil
}

func key(importID string) string { return keyPrefix + importID }

// Put implements core.PreviewCache.
func (r *Redis) Put(ctx context.Context, p core.ImportPreview, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = core.DefaultPreviewTTL
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode preview: %w", err)
	}
	if err := r.client.Set(ctx, key(p.ImportID), data, ttl).Err(); err != nil {
		return fmt.Errorf("store preview: %w", err)
	}
	return nil
}

// Get implements core.PreviewCache.
func (r *Redis) Get(ctx context.Context, importID string) (core.ImportPreview, error) {
	data, err := r.client.Get(ctx, key(importID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return core.ImportPreview{}, core.ErrImportNotFound
	}
	if err != nil {
		return core.ImportPreview{}, fmt.Errorf("load preview: %w", err)
	}

	var p core.ImportPreview
	if err := json.Unmarshal(data, &p); err != nil {
		return core.ImportPreview{}, fmt.Errorf("decode preview: %w", err)
	}
	return p, nil
}

// Delete implements core.PreviewCache.
func (r *Redis) Delete(ctx context.Context, importID string) error {
	return r.client.Del(ctx, key(importID)).Err()
}

// Ping checks the connection for health endpoints.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the client.
func (r *Redis) Close() error {
	return r.client.Close()
}
