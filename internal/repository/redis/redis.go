// Package redis persists the farm store's key/value blobs in Redis so several
// dashboard instances can share one farm.
package redis

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-redis/redis/v8"

	"github.com/mamadbah2/farmdash/internal/repository/kv"
)

const scanBatch = 100

var _ kv.Backend = (*Backend)(nil)

// Backend stores each blob as a plain string value under namespace + ":" + key.
type Backend struct {
	client    *redis.Client
	namespace string
}

// Options configures the Redis connection.
type Options struct {
	Addr      string
	Password  string
	DB        int
	Namespace string
}

// New connects to Redis and verifies the connection with PING.
func New(ctx context.Context, opts Options) (*Backend, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping %s: %w", opts.Addr, err)
	}
	return NewWithClient(client, opts.Namespace), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client *redis.Client, namespace string) *Backend {
	if namespace == "" {
		namespace = "farmdash"
	}
	return &Backend{client: client, namespace: namespace}
}

func (b *Backend) fullKey(key string) string {
	return b.namespace + ":" + key
}

// LoadAll scans the namespace and fetches every value.
func (b *Backend) LoadAll(ctx context.Context) (map[string][]byte, error) {
	prefix := b.namespace + ":"
	out := make(map[string][]byte)

	iter := b.client.Scan(ctx, 0, prefix+"*", scanBatch).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis: scan: %w", err)
	}
	if len(keys) == 0 {
		return out, nil
	}

	values, err := b.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: mget: %w", err)
	}
	for i, v := range values {
		str, ok := v.(string)
		if !ok {
			// key expired or was deleted between SCAN and MGET
			continue
		}
		out[strings.TrimPrefix(keys[i], prefix)] = []byte(str)
	}
	return out, nil
}

// Put writes one key without expiry.
func (b *Backend) Put(ctx context.Context, key string, value []byte) error {
	if err := b.client.Set(ctx, b.fullKey(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis: set %s: %w", key, err)
	}
	return nil
}

// Delete removes one key.
func (b *Backend) Delete(ctx context.Context, key string) error {
	if err := b.client.Del(ctx, b.fullKey(key)).Err(); err != nil {
		return fmt.Errorf("redis: del %s: %w", key, err)
	}
	return nil
}

// Close closes the client.
func (b *Backend) Close() error {
	return b.client.Close()
}
