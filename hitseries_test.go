package hitseries_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/hitseries"
	"github.com/arloliu/hitseries/errs"
	"github.com/arloliu/hitseries/series"
	"github.com/arloliu/hitseries/store/redisstore"
	"github.com/arloliu/hitseries/store/storetest"
)

func newRedisSeries(t *testing.T, opts ...series.Option) (*miniredis.Miniredis, *series.Series[int64]) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	ts, err := hitseries.New(redisstore.New(client), opts...)
	require.NoError(t, err)

	return mr, ts
}

func TestNew_EndToEnd(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2017, 8, 4, 12, 58, 37, 0, time.UTC)
	clock := series.WithClock(func() time.Time { return at })

	mr, ts := newRedisSeries(t, clock)

	require.NoError(t, ts.RecordHit(ctx, "event:123"))
	require.NoError(t, ts.Increase(ctx, "event:123", 2))
	require.NoError(t, ts.RecordHit(ctx, "event:456"))
	require.NoError(t, ts.RecordHit(ctx, "enter:123"))

	t.Run("buckets and totals", func(t *testing.T) {
		buckets, err := ts.Buckets(ctx, "event:123", "1minute", 3)
		require.NoError(t, err)
		require.Len(t, buckets, 3)
		require.Equal(t, int64(3), buckets[2].Value)

		total, err := ts.Total(ctx, "event:123", "1hour", 24)
		require.NoError(t, err)
		require.Equal(t, int64(3), total)
	})

	t.Run("scan recovers entity keys", func(t *testing.T) {
		entities, err := ts.ScanKeys(ctx, "1hour", 5, "event:*")
		require.NoError(t, err)
		require.Equal(t, []string{"event:123", "event:456"}, entities)
	})

	t.Run("retention expires whole windows", func(t *testing.T) {
		mr.FastForward(2 * time.Hour)

		total, err := ts.Total(ctx, "event:123", "1minute", 10)
		require.NoError(t, err)
		require.Zero(t, total)

		// Coarser granularities retain longer.
		total, err = ts.Total(ctx, "event:123", "1hour", 24)
		require.NoError(t, err)
		require.Equal(t, int64(3), total)
	})
}

func TestNew_DeferredWrites(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2017, 8, 4, 12, 58, 37, 0, time.UTC)
	_, ts := newRedisSeries(t, series.WithClock(func() time.Time { return at }))

	batch := ts.Batch()
	batch.RecordHit("event:123")
	batch.RecordHit("event:123")

	total, err := ts.Total(ctx, "event:123", "1minute", 1)
	require.NoError(t, err)
	require.Zero(t, total)

	_, err = batch.Flush(ctx)
	require.NoError(t, err)

	total, err = ts.Total(ctx, "event:123", "1minute", 1)
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
}

func TestNewFloat(t *testing.T) {
	ctx := context.Background()

	at := time.Date(2017, 8, 4, 12, 58, 37, 0, time.UTC)
	ts, err := hitseries.NewFloat(storetest.New(), series.WithClock(func() time.Time { return at }))
	require.NoError(t, err)

	require.NoError(t, ts.Increase(ctx, "latency:api", 12.5))
	require.NoError(t, ts.Decrease(ctx, "latency:api", 2.25))

	total, err := ts.Total(ctx, "latency:api", "1minute", 1)
	require.NoError(t, err)
	require.InDelta(t, 10.25, total, 1e-9)
}

func TestNew_OptionErrors(t *testing.T) {
	_, err := hitseries.New(storetest.New(), series.WithBaseKey(""))
	require.ErrorIs(t, err, errs.ErrInvalidBaseKey)

	_, err = hitseries.New(storetest.New(), series.WithGranularities())
	require.ErrorIs(t, err, errs.ErrNoGranularities)
}
