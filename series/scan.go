package series

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/arloliu/hitseries/errs"
)

// totalsConcurrency bounds the number of in-flight range reads issued by
// ScanTotals.
const totalsConcurrency = 8

// ScanKeys lists the distinct entity keys seen in the last count buckets
// of a granularity, anchored at the current time.
func (s *Series[V]) ScanKeys(ctx context.Context, granularity string, count int, pattern string) ([]string, error) {
	return s.ScanKeysAt(ctx, granularity, count, pattern, time.Time{})
}

// ScanKeysAt lists the distinct entity keys whose storage keys match
// pattern across the count buckets ending at the anchor (zero anchor =
// now). An empty pattern matches every entity. Results are raw entity
// keys, deduplicated and sorted lexicographically.
//
// The same retention-capacity precondition as BucketsAt applies. One
// pattern listing is issued per distinct window key in range, all in a
// single round trip.
func (s *Series[V]) ScanKeysAt(ctx context.Context, granularity string, count int, pattern string, at time.Time) ([]string, error) {
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
	if pattern == "" {
		pattern = "*"
	}

	step := int64(g.Duration / time.Second)
	bucket := RoundTimeIn(s.at(at), g.Duration, s.loc) - int64(count)*step

	// Several buckets usually share one window key, so both sets collapse
	// to far fewer entries than count.
	patterns := make(map[string]struct{}, count)
	prefixes := make(map[string]struct{}, count)
	for i := 0; i < count; i++ {
		bucket += step
		patterns[s.storageKey(pattern, bucket, g)] = struct{}{}
		prefixes[s.storageKey("", bucket, g)] = struct{}{}
	}

	ordered := make([]string, 0, len(patterns))
	for p := range patterns {
		ordered = append(ordered, p)
	}
	sort.Strings(ordered)

	pipe := s.store.Pipeline()
	for _, p := range ordered {
		pipe.Keys(p)
	}

	results, err := pipe.Exec(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	for _, r := range results {
		if r.Err != nil {
			return nil, r.Err
		}

		keys, _ := r.Val.([]string)
		for _, key := range keys {
			for prefix := range prefixes {
				key = strings.ReplaceAll(key, prefix, "")
			}
			seen[key] = struct{}{}
		}
	}

	entities := make([]string, 0, len(seen))
	for entity := range seen {
		entities = append(entities, entity)
	}
	sort.Strings(entities)

	return entities, nil
}

// ScanTotals combines ScanKeys with a per-entity Total over the same
// window, anchored at the current time.
func (s *Series[V]) ScanTotals(ctx context.Context, granularity string, count int, pattern string) (map[string]V, error) {
	return s.ScanTotalsAt(ctx, granularity, count, pattern, time.Time{})
}

// ScanTotalsAt returns the total of the last count buckets for every
// entity ScanKeysAt finds. The anchor is resolved once so the scan and
// every range read share one window. Range reads run concurrently with
// bounded parallelism; the first failure cancels the rest.
func (s *Series[V]) ScanTotalsAt(ctx context.Context, granularity string, count int, pattern string, at time.Time) (map[string]V, error) {
	at = s.at(at)

	entities, err := s.ScanKeysAt(ctx, granularity, count, pattern, at)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]V, len(entities))

	var mu sync.Mutex
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(totalsConcurrency)

	for _, entity := range entities {
		entity := entity
		eg.Go(func() error {
			total, err := s.TotalAt(ctx, entity, granularity, count, at)
			if err != nil {
				return err
			}

			mu.Lock()
			totals[entity] = total
			mu.Unlock()

			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return totals, nil
}
