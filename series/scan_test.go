package series

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/hitseries/store/storetest"
)

func TestScanKeys(t *testing.T) {
	ctx := context.Background()

	seed := func(t *testing.T) (*storetest.Store, *Series[int64]) {
		t.Helper()
		st := storetest.New()
		s := newTestSeries(t, st)

		require.NoError(t, s.RecordHit(ctx, "event:123"))
		require.NoError(t, s.RecordHit(ctx, "event:456"))
		require.NoError(t, s.RecordHit(ctx, "enter:123"))

		return st, s
	}

	t.Run("pattern selects matching entities sorted", func(t *testing.T) {
		_, s := seed(t)

		entities, err := s.ScanKeys(ctx, "1hour", 5, "event:*")
		require.NoError(t, err)
		require.Equal(t, []string{"event:123", "event:456"}, entities)
	})

	t.Run("empty pattern matches everything", func(t *testing.T) {
		_, s := seed(t)

		entities, err := s.ScanKeys(ctx, "1minute", 10, "")
		require.NoError(t, err)
		require.Equal(t, []string{"enter:123", "event:123", "event:456"}, entities)
	})

	t.Run("older retention windows are excluded", func(t *testing.T) {
		st := storetest.New()
		s := newTestSeries(t, st)

		// Scans enumerate whole retention windows, so only entities whose
		// window key falls outside the scanned range disappear.
		require.NoError(t, s.RecordHit(ctx, "event:recent"))
		require.NoError(t, s.RecordHitAt(ctx, "event:stale", anchor.Add(-2*time.Hour)))

		entities, err := s.ScanKeys(ctx, "1minute", 5, "event:*")
		require.NoError(t, err)
		require.Equal(t, []string{"event:recent"}, entities)
	})

	t.Run("duplicates across buckets collapse", func(t *testing.T) {
		st := storetest.New()
		s := newTestSeries(t, st)

		require.NoError(t, s.RecordHit(ctx, "event:123"))
		require.NoError(t, s.RecordHitAt(ctx, "event:123", anchor.Add(-time.Minute)))

		entities, err := s.ScanKeys(ctx, "1minute", 5, "*")
		require.NoError(t, err)
		require.Equal(t, []string{"event:123"}, entities)
	})

	t.Run("zero count scans nothing", func(t *testing.T) {
		_, s := seed(t)

		entities, err := s.ScanKeys(ctx, "1hour", 0, "*")
		require.NoError(t, err)
		require.Empty(t, entities)
	})
}

func TestScanTotals(t *testing.T) {
	ctx := context.Background()

	t.Run("totals agree with per-entity reads", func(t *testing.T) {
		st := storetest.New()
		s := newTestSeries(t, st)

		require.NoError(t, s.Increase(ctx, "event:123", 4))
		require.NoError(t, s.IncreaseAt(ctx, "event:123", 2, anchor.Add(-time.Minute)))
		require.NoError(t, s.Increase(ctx, "event:456", 9))
		require.NoError(t, s.Increase(ctx, "enter:123", 1))

		totals, err := s.ScanTotals(ctx, "1minute", 10, "event:*")
		require.NoError(t, err)
		require.Equal(t, map[string]int64{"event:123": 6, "event:456": 9}, totals)

		for entity, total := range totals {
			direct, err := s.Total(ctx, entity, "1minute", 10)
			require.NoError(t, err)
			require.Equal(t, direct, total)
		}
	})

	t.Run("empty scan yields an empty map", func(t *testing.T) {
		s := newTestSeries(t, storetest.New())

		totals, err := s.ScanTotals(ctx, "1minute", 10, "event:*")
		require.NoError(t, err)
		require.Empty(t, totals)
	})

	t.Run("store failure propagates", func(t *testing.T) {
		st := storetest.New()
		s := newTestSeries(t, st)

		require.NoError(t, s.RecordHit(ctx, "event:123"))

		boom := errors.New("connection reset")
		st.FailNextExec(boom)

		_, err := s.ScanTotals(ctx, "1minute", 10, "event:*")
		require.ErrorIs(t, err, boom)
	})
}
