package series

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/arloliu/hitseries/errs"
)

// Buckets reads the last count buckets of a granularity for entity,
// anchored at the current time.
func (s *Series[V]) Buckets(ctx context.Context, entity, granularity string, count int) ([]Bucket[V], error) {
	return s.BucketsAt(ctx, entity, granularity, count, time.Time{})
}

// BucketsAt reads the count buckets ending at the bucket containing the
// anchor time (zero anchor = now). Buckets are returned oldest first, one
// entry per bucket, missing fields as zero values. All reads travel in a
// single pipelined round trip.
//
// count must not exceed the granularity's retention capacity
// (TTL/Duration); a larger request fails with errs.ErrCountExceeded before
// any store command is issued. count <= 0 yields an empty result.
func (s *Series[V]) BucketsAt(ctx context.Context, entity, granularity string, count int, at time.Time) ([]Bucket[V], error) {
	g, err := s.granularity(granularity)
	if err != nil {
		return nil, err
	}
	if count > g.MaxCount() {
		return nil, fmt.Errorf("%w: %q holds at most %d buckets", errs.ErrCountExceeded, g.Name, g.MaxCount())
	}
	if count <= 0 {
		return nil, nil
	}

	step := int64(g.Duration / time.Second)
	bucket := RoundTimeIn(s.at(at), g.Duration, s.loc) - int64(count)*step

	pipe := s.store.Pipeline()
	out := make([]Bucket[V], 0, count)
	for i := 0; i < count; i++ {
		bucket += step
		out = append(out, Bucket[V]{Time: time.Unix(bucket, 0).UTC()})
		pipe.HGet(s.storageKey(entity, bucket, g), strconv.FormatInt(bucket, 10))
	}

	results, err := pipe.Exec(ctx)
	if err != nil {
		return nil, err
	}

	for i := range out {
		if err := results[i].Err; err != nil {
			return nil, err
		}

		v, err := parseBucketValue[V](results[i].Val)
		if err != nil {
			return nil, err
		}
		out[i].Value = v
	}

	return out, nil
}

// Total sums the last count buckets of a granularity for entity, anchored
// at the current time.
func (s *Series[V]) Total(ctx context.Context, entity, granularity string, count int) (V, error) {
	return s.TotalAt(ctx, entity, granularity, count, time.Time{})
}

// TotalAt sums the same bucket range BucketsAt would return.
func (s *Series[V]) TotalAt(ctx context.Context, entity, granularity string, count int, at time.Time) (V, error) {
	var total V

	buckets, err := s.BucketsAt(ctx, entity, granularity, count, at)
	if err != nil {
		return total, err
	}

	for _, b := range buckets {
		total += b.Value
	}

	return total, nil
}
