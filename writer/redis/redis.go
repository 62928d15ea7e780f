// Package redis provides a cache.Writer backed by a Redis system of
// record. Writes and deletes run synchronously inside the mutating call,
// so a Redis failure aborts the cache mutation before it becomes visible.
package redis

import (
	"context"
	"time"

	"github.com/abelyaev/localcache/cache"
	"github.com/abelyaev/localcache/codec"
	"github.com/redis/go-redis/v9"
)

// Writer propagates cache mutations to Redis. Values are marshalled with
// the configured codec; keys are namespaced as "<ns>:<key>".
type Writer[K comparable, V any] struct {
	rdb     redis.UniversalClient
	ns      string
	keyFn   func(K) string
	codec   codec.Codec[V]
	ttl     time.Duration // 0 = no expiry
	timeout time.Duration
}

// Options configures the Redis writer.
type Options[K comparable, V any] struct {
	// Namespace prefixes every Redis key to avoid collisions.
	Namespace string
	// Key renders a cache key as a string. Required.
	Key func(K) string
	// Codec marshals values for storage. Required.
	Codec codec.Codec[V]
	// TTL applied to written entries; 0 disables expiry.
	TTL time.Duration
	// Timeout bounds each Redis round trip. 0 => 1s. The cache itself
	// applies no hook timeout, so this is where slow-writer policy lives.
	Timeout time.Duration
}

// New constructs a Writer on client. Panics when Key or Codec is missing.
func New[K comparable, V any](client redis.UniversalClient, opt Options[K, V]) *Writer[K, V] {
	if opt.Key == nil {
		panic("rediswriter: nil Key func")
	}
	if opt.Codec == nil {
		panic("rediswriter: nil Codec")
	}
	timeout := opt.Timeout
	if timeout <= 0 {
		timeout = time.Second
	}
	return &Writer[K, V]{
		rdb:     client,
		ns:      opt.Namespace,
		keyFn:   opt.Key,
		codec:   opt.Codec,
		ttl:     opt.TTL,
		timeout: timeout,
	}
}

func (w *Writer[K, V]) storageKey(k K) string {
	if w.ns == "" {
		return w.keyFn(k)
	}
	return w.ns + ":" + w.keyFn(k)
}

// Write stores value under key. An error here aborts the cache mutation.
func (w *Writer[K, V]) Write(key K, value V) error {
	b, err := w.codec.Encode(value)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()
	return w.rdb.Set(ctx, w.storageKey(key), b, w.ttl).Err()
}

// Delete removes key from Redis. The removal cause is not persisted.
func (w *Writer[K, V]) Delete(key K, _ V, _ cache.RemovalCause) error {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()
	return w.rdb.Del(ctx, w.storageKey(key)).Err()
}

var _ cache.Writer[string, string] = (*Writer[string, string])(nil)
