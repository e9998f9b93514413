package series

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/arloliu/hitseries/errs"
	"github.com/arloliu/hitseries/internal/options"
	"github.com/arloliu/hitseries/store"
)

// Value constrains the counter type of a Series. The numeric mode is fixed
// for the life of the instance: int64 counters use atomic integer
// increments, float64 counters use atomic floating-point increments.
type Value interface {
	int64 | float64
}

// Bucket pairs one bucket's start time with its aggregated value. Buckets
// never touched by a write carry the zero value.
type Bucket[V Value] struct {
	Time  time.Time
	Value V
}

// Series records and reads rolling-window counters at every configured
// granularity.
//
// A Series holds no mutable state between calls; immediate-mode methods
// are safe for concurrent use. Deferred writes go through a Batch, which
// is not.
type Series[V Value] struct {
	store         store.Store
	baseKey       string
	loc           *time.Location
	now           func() time.Time
	granularities []Granularity
	index         map[string]int
}

// New creates a Series over st. Without options it uses the "stats" base
// key, the default granularity set, UTC bucket alignment, and the system
// clock.
//
// The granularity set is validated here: empty sets, duplicate or
// malformed names, non-positive or sub-second durations, and TTLs shorter
// than their duration are all rejected before the first write.
func New[V Value](st store.Store, opts ...Option) (*Series[V], error) {
	cfg := newSeriesConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	if len(cfg.granularities) == 0 {
		return nil, errs.ErrNoGranularities
	}

	index := make(map[string]int, len(cfg.granularities))
	for i, g := range cfg.granularities {
		if err := g.validate(); err != nil {
			return nil, err
		}
		if _, dup := index[g.Name]; dup {
			return nil, fmt.Errorf("%w: %q", errs.ErrDuplicateGranularity, g.Name)
		}
		index[g.Name] = i
	}

	return &Series[V]{
		store:         st,
		baseKey:       cfg.baseKey,
		loc:           cfg.loc,
		now:           cfg.now,
		granularities: cfg.granularities,
		index:         index,
	}, nil
}

// Granularities returns a copy of the configured granularity set in
// fan-out order.
func (s *Series[V]) Granularities() []Granularity {
	out := make([]Granularity, len(s.granularities))
	copy(out, s.granularities)

	return out
}

// BaseKey returns the configured namespace prefix.
func (s *Series[V]) BaseKey() string {
	return s.baseKey
}

// Increase adds amount to entity's counters at the current time.
func (s *Series[V]) Increase(ctx context.Context, entity string, amount V) error {
	return s.IncreaseAt(ctx, entity, amount, time.Time{})
}

// IncreaseAt adds amount to entity's counters at the given time. A zero
// time means "now" per the configured clock. The per-granularity
// increments and TTL refreshes travel in one pipelined round trip.
func (s *Series[V]) IncreaseAt(ctx context.Context, entity string, amount V, at time.Time) error {
	pipe := s.store.Pipeline()
	s.fanOut(pipe, entity, amount, s.at(at))

	_, err := pipe.Exec(ctx)

	return err
}

// Decrease subtracts amount from entity's counters at the current time.
func (s *Series[V]) Decrease(ctx context.Context, entity string, amount V) error {
	return s.IncreaseAt(ctx, entity, -amount, time.Time{})
}

// DecreaseAt subtracts amount at the given time. It is Increase with the
// sign inverted and shares the identical fan-out path.
func (s *Series[V]) DecreaseAt(ctx context.Context, entity string, amount V, at time.Time) error {
	return s.IncreaseAt(ctx, entity, -amount, at)
}

// RecordHit increments entity's counters by one at the current time.
func (s *Series[V]) RecordHit(ctx context.Context, entity string) error {
	return s.IncreaseAt(ctx, entity, V(1), time.Time{})
}

// RecordHitAt increments entity's counters by one at the given time.
func (s *Series[V]) RecordHitAt(ctx context.Context, entity string, at time.Time) error {
	return s.IncreaseAt(ctx, entity, V(1), at)
}

// RemoveHit decrements entity's counters by one at the current time.
func (s *Series[V]) RemoveHit(ctx context.Context, entity string) error {
	return s.IncreaseAt(ctx, entity, V(-1), time.Time{})
}

// RemoveHitAt decrements entity's counters by one at the given time.
func (s *Series[V]) RemoveHitAt(ctx context.Context, entity string, at time.Time) error {
	return s.IncreaseAt(ctx, entity, V(-1), at)
}

// fanOut queues one increment plus one TTL refresh per granularity.
func (s *Series[V]) fanOut(pipe store.Pipeline, entity string, amount V, at time.Time) {
	for _, g := range s.granularities {
		key := s.storageKey(entity, at.Unix(), g)
		field := strconv.FormatInt(RoundTimeIn(at, g.Duration, s.loc), 10)

		switch v := any(amount).(type) {
		case int64:
			pipe.HIncrBy(key, field, v)
		case float64:
			pipe.HIncrByFloat(key, field, v)
		}

		pipe.Expire(key, g.TTL)
	}
}

// storageKey derives the top-level key for an instant, grouping buckets
// under the retention window they expire with. The window is rounded by
// the TTL and never timezone-shifted, keeping key cardinality bounded to
// one key per entity per retention window.
func (s *Series[V]) storageKey(entity string, epochSeconds int64, g Granularity) string {
	step := int64(g.TTL / time.Second)
	window := floorDiv(epochSeconds, step) * step

	return encodeKey(s.baseKey, g.Name, window, entity)
}

// at resolves the zero time through the injected clock.
func (s *Series[V]) at(t time.Time) time.Time {
	if t.IsZero() {
		return s.now()
	}

	return t
}

// granularity looks up a configured granularity by name.
func (s *Series[V]) granularity(name string) (Granularity, error) {
	i, ok := s.index[name]
	if !ok {
		return Granularity{}, fmt.Errorf("%w: %q", errs.ErrUnknownGranularity, name)
	}

	return s.granularities[i], nil
}

// parseBucketValue converts a raw HGET result to V. A nil result (missing
// field) is the zero value.
func parseBucketValue[V Value](raw any) (V, error) {
	var zero V

	switch v := raw.(type) {
	case nil:
		return zero, nil
	case string:
		switch any(zero).(type) {
		case int64:
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return zero, fmt.Errorf("parse bucket value %q: %w", v, err)
			}

			return V(n), nil
		default:
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return zero, fmt.Errorf("parse bucket value %q: %w", v, err)
			}

			return V(f), nil
		}
	case int64:
		return V(v), nil
	case float64:
		return V(v), nil
	default:
		return zero, fmt.Errorf("unexpected bucket value type %T", raw)
	}
}
