// Package store defines the capability contract hitseries requires from a
// key-value store: atomic hash-field increments, key expiry, hash-field
// reads, pattern-based key listing, and a pipeline that batches queued
// commands into a single network round trip.
//
// The redisstore subpackage implements the contract on top of go-redis.
// The storetest subpackage provides a deterministic in-memory
// implementation for tests.
package store

import (
	"context"
	"time"
)

// Store hands out command pipelines against one logical key-value store.
//
// Implementations must be safe for concurrent use; each Pipeline they
// return is owned by a single caller.
type Store interface {
	// Pipeline returns a new, empty command pipeline.
	Pipeline() Pipeline
}

// Pipeline accumulates commands and executes them in one round trip.
//
// Commands execute in the order queued. The batch is not transactional:
// there is no cross-key atomicity and no isolation from concurrently
// executing pipelines, but each individual increment is atomic at the
// store.
//
// A Pipeline is not safe for unsynchronized concurrent use.
type Pipeline interface {
	// HIncrBy queues an atomic integer increment of a hash field.
	HIncrBy(key, field string, delta int64)

	// HIncrByFloat queues an atomic floating-point increment of a hash field.
	HIncrByFloat(key, field string, delta float64)

	// Expire queues a TTL refresh on key. The TTL applies to the whole key,
	// not to individual hash fields.
	Expire(key string, ttl time.Duration)

	// HGet queues a read of a single hash field.
	HGet(key, field string)

	// Keys queues a glob-pattern listing of key names.
	Keys(pattern string)

	// Len reports the number of queued commands.
	Len() int

	// Exec sends every queued command in one round trip and returns their
	// results in queue order. On success the queue is reset to empty; on
	// failure it is left intact so the caller may retry. Executing an empty
	// pipeline returns (nil, nil) without a round trip.
	Exec(ctx context.Context) ([]Result, error)
}

// Result holds the outcome of one queued command.
//
// Val depends on the command: int64 for HIncrBy, float64 for HIncrByFloat,
// bool for Expire, string for HGet, []string for Keys. A missing hash
// field yields a nil Val with a nil Err — absence is a domain value, not
// an error.
type Result struct {
	Val any
	Err error
}
