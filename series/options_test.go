package series

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/hitseries/errs"
	"github.com/arloliu/hitseries/store/storetest"
)

func TestWithBaseKey(t *testing.T) {
	st := storetest.New()

	t.Run("replaces the namespace prefix", func(t *testing.T) {
		s, err := New[int64](st, WithBaseKey("counters"), WithClock(fixedClock(anchor)))
		require.NoError(t, err)
		require.Equal(t, "counters", s.BaseKey())

		ctx := context.Background()
		require.NoError(t, s.RecordHit(ctx, "page:home"))

		entities, err := s.ScanKeys(ctx, "1minute", 1, "*")
		require.NoError(t, err)
		require.Equal(t, []string{"page:home"}, entities)
	})

	t.Run("rejects empty and delimiter-bearing keys", func(t *testing.T) {
		_, err := New[int64](st, WithBaseKey(""))
		require.ErrorIs(t, err, errs.ErrInvalidBaseKey)

		_, err = New[int64](st, WithBaseKey("a:b"))
		require.ErrorIs(t, err, errs.ErrInvalidBaseKey)
	})
}

func TestWithClock(t *testing.T) {
	st := storetest.New()

	t.Run("rejects a nil clock", func(t *testing.T) {
		_, err := New[int64](st, WithClock(nil))
		require.Error(t, err)
	})

	t.Run("drives implicit timestamps", func(t *testing.T) {
		at := time.Date(2017, 11, 23, 18, 59, 59, 0, time.UTC)
		s, err := New[int64](st, WithClock(fixedClock(at)))
		require.NoError(t, err)

		ctx := context.Background()
		require.NoError(t, s.RecordHit(ctx, "page:home"))

		buckets, err := s.Buckets(ctx, "page:home", "1minute", 1)
		require.NoError(t, err)
		require.Equal(t, time.Date(2017, 11, 23, 18, 59, 0, 0, time.UTC), buckets[0].Time)
		require.Equal(t, int64(1), buckets[0].Value)
	})
}

func TestWithLocation(t *testing.T) {
	st := storetest.New()

	t.Run("nil keeps UTC alignment", func(t *testing.T) {
		s, err := New[int64](st, WithLocation(nil), WithClock(fixedClock(anchor)))
		require.NoError(t, err)

		buckets, err := s.Buckets(context.Background(), "page:home", "1day", 1)
		require.NoError(t, err)
		require.Equal(t, time.Date(2017, 8, 4, 0, 0, 0, 0, time.UTC), buckets[0].Time)
	})
}
