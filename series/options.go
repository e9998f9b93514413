package series

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/arloliu/hitseries/errs"
	"github.com/arloliu/hitseries/internal/options"
)

// DefaultBaseKey is the namespace prefix used when WithBaseKey is not given.
const DefaultBaseKey = "stats"

// Option configures a Series at construction time.
type Option = options.Option[*seriesConfig]

// seriesConfig collects construction-time settings before validation.
type seriesConfig struct {
	baseKey       string
	loc           *time.Location
	now           func() time.Time
	granularities []Granularity
}

func newSeriesConfig() *seriesConfig {
	return &seriesConfig{
		baseKey:       DefaultBaseKey,
		now:           time.Now,
		granularities: DefaultGranularities(),
	}
}

// WithBaseKey sets the namespace prefix of every storage key. The key must
// be non-empty and must not contain ':'.
func WithBaseKey(base string) Option {
	return options.New(func(c *seriesConfig) error {
		if base == "" || strings.Contains(base, keyDelimiter) {
			return fmt.Errorf("%w: %q", errs.ErrInvalidBaseKey, base)
		}
		c.baseKey = base

		return nil
	})
}

// WithLocation sets the timezone used to align day-or-longer buckets to
// local midnight. A nil location keeps UTC-epoch alignment.
func WithLocation(loc *time.Location) Option {
	return options.NoError(func(c *seriesConfig) {
		c.loc = loc
	})
}

// WithClock replaces the clock that resolves absent timestamps. The
// default is time.Now.
func WithClock(now func() time.Time) Option {
	return options.New(func(c *seriesConfig) error {
		if now == nil {
			return errors.New("nil clock")
		}
		c.now = now

		return nil
	})
}

// WithGranularities replaces the default granularity set. The slice is
// copied; later mutation by the caller does not affect the Series. Order
// is preserved and determines fan-out command order.
func WithGranularities(granularities ...Granularity) Option {
	return options.NoError(func(c *seriesConfig) {
		c.granularities = make([]Granularity, len(granularities))
		copy(c.granularities, granularities)
	})
}
