package series

import (
	"context"
	"time"

	"github.com/arloliu/hitseries/store"
)

// Batch accumulates deferred writes and sends them in one round trip.
//
// Queue methods only append commands; nothing reaches the store until
// Flush. A failed Flush leaves every queued command in place so the caller
// may retry; only a successful Flush empties the batch.
//
// A Batch is owned by a single goroutine. Callers that need concurrent
// deferred writes must use one Batch per goroutine or synchronize
// externally; immediate-mode Series methods avoid the issue entirely.
type Batch[V Value] struct {
	series *Series[V]
	pipe   store.Pipeline
}

// Batch creates an empty deferred-write session bound to this Series.
func (s *Series[V]) Batch() *Batch[V] {
	return &Batch[V]{series: s, pipe: s.store.Pipeline()}
}

// Increase queues an increment of amount at the current time.
func (b *Batch[V]) Increase(entity string, amount V) {
	b.IncreaseAt(entity, amount, time.Time{})
}

// IncreaseAt queues an increment of amount at the given time. A zero time
// resolves to "now" at queue time, not at Flush time.
func (b *Batch[V]) IncreaseAt(entity string, amount V, at time.Time) {
	b.series.fanOut(b.pipe, entity, amount, b.series.at(at))
}

// Decrease queues a decrement of amount at the current time.
func (b *Batch[V]) Decrease(entity string, amount V) {
	b.IncreaseAt(entity, -amount, time.Time{})
}

// DecreaseAt queues a decrement of amount at the given time.
func (b *Batch[V]) DecreaseAt(entity string, amount V, at time.Time) {
	b.IncreaseAt(entity, -amount, at)
}

// RecordHit queues a single hit at the current time.
func (b *Batch[V]) RecordHit(entity string) {
	b.IncreaseAt(entity, V(1), time.Time{})
}

// RecordHitAt queues a single hit at the given time.
func (b *Batch[V]) RecordHitAt(entity string, at time.Time) {
	b.IncreaseAt(entity, V(1), at)
}

// RemoveHit queues removal of a single hit at the current time.
func (b *Batch[V]) RemoveHit(entity string) {
	b.IncreaseAt(entity, V(-1), time.Time{})
}

// RemoveHitAt queues removal of a single hit at the given time.
func (b *Batch[V]) RemoveHitAt(entity string, at time.Time) {
	b.IncreaseAt(entity, V(-1), at)
}

// Len reports the number of queued store commands (two per granularity
// per queued write).
func (b *Batch[V]) Len() int {
	return b.pipe.Len()
}

// Flush executes every queued command in one round trip and returns their
// ordered raw results. On success the batch is empty and ready for reuse;
// on failure the queue is retained for retry.
func (b *Batch[V]) Flush(ctx context.Context) ([]store.Result, error) {
	return b.pipe.Exec(ctx)
}

// Discard drops every queued command without executing it.
func (b *Batch[V]) Discard() {
	b.pipe = b.series.store.Pipeline()
}
