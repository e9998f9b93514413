// Package hitseries provides rolling-window counters ("hits" or signed
// amounts) stored in a remote key-value store, aggregated simultaneously
// at multiple time granularities, each with its own retention window.
//
// Every recorded event fans out to all configured granularities in a
// single pipelined round trip. Reads walk a bucket range backwards from an
// anchor time and return one value per bucket, with missing buckets read
// as zero. Data expires with its retention window; nothing is deleted
// explicitly.
//
// # Basic Usage
//
// Recording and reading integer hit counters over Redis:
//
//	import (
//	    "github.com/redis/go-redis/v9"
//
//	    "github.com/arloliu/hitseries"
//	    "github.com/arloliu/hitseries/store/redisstore"
//	)
//
//	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
//	ts, _ := hitseries.New(redisstore.New(client))
//
//	// Count an event for one entity at every granularity.
//	_ = ts.RecordHit(ctx, "event:123")
//
//	// Hits per minute over the last 10 minutes, oldest first.
//	buckets, _ := ts.Buckets(ctx, "event:123", "1minute", 10)
//
//	// Total hits over the last hour.
//	total, _ := ts.Total(ctx, "event:123", "1hour", 1)
//
// Floating-point counters work the same way through NewFloat.
//
// # Deferred Writes
//
// A Batch queues fan-outs across many events and sends them in one round
// trip:
//
//	batch := ts.Batch()
//	batch.RecordHit("event:123")
//	batch.Increase("bytes:123", 4096)
//	results, err := batch.Flush(ctx)
//
// A failed Flush keeps the queue intact for retry.
//
// # Timezones
//
// Day-or-longer buckets are civil-calendar days. With
// series.WithLocation, their boundaries fall on local midnight in the
// given zone, DST transitions included; sub-day buckets always align to
// the UTC epoch.
//
// # Package Structure
//
// This package wraps the series package for the common cases. Use series
// directly for custom granularity sets, clocks, or base keys; the store
// package defines the key-value capability contract, with a go-redis
// implementation in store/redisstore and an in-memory test double in
// store/storetest. The config package loads all of the above from YAML.
package hitseries

import (
	"github.com/arloliu/hitseries/series"
	"github.com/arloliu/hitseries/store"
)

// New creates an integer-counter Series over st with the default
// granularity set:
//
//	1minute   1m buckets, 1h retention
//	5minute   5m buckets, 6h retention
//	10minute  10m buckets, 12h retention
//	1hour     1h buckets, 7d retention
//	1day      24h buckets, 31d retention
//
// Options may replace the granularity set, base key, timezone, and clock.
func New(st store.Store, opts ...series.Option) (*series.Series[int64], error) {
	return series.New[int64](st, opts...)
}

// NewFloat creates a floating-point-counter Series over st. The numeric
// mode is fixed for the life of the instance; integer and float series
// must not share a base key.
func NewFloat(st store.Store, opts ...series.Option) (*series.Series[float64], error) {
	return series.New[float64](st, opts...)
}
