package series

import (
	"fmt"
	"strings"
	"time"

	"github.com/arloliu/hitseries/errs"
)

// Granularity describes one aggregation resolution: a bucket duration and
// the retention TTL applied to the window keys holding its buckets.
//
// Both values must be positive whole seconds with TTL >= Duration. A
// granularity set is copied at construction and immutable afterwards.
type Granularity struct {
	// Name identifies the granularity and becomes part of the storage key.
	// It must be non-empty and must not contain ':'.
	Name string

	// Duration is the bucket width.
	Duration time.Duration

	// TTL is the retention window; keys are refreshed to this TTL on every
	// write and removed by the store when it lapses.
	TTL time.Duration
}

// DefaultGranularities returns a fresh copy of the default granularity
// set. Each call allocates a new slice so no two Series instances ever
// share mutable configuration.
func DefaultGranularities() []Granularity {
	return []Granularity{
		{Name: "1minute", Duration: time.Minute, TTL: time.Hour},
		{Name: "5minute", Duration: 5 * time.Minute, TTL: 6 * time.Hour},
		{Name: "10minute", Duration: 10 * time.Minute, TTL: 12 * time.Hour},
		{Name: "1hour", Duration: time.Hour, TTL: 7 * 24 * time.Hour},
		{Name: "1day", Duration: 24 * time.Hour, TTL: 31 * 24 * time.Hour},
	}
}

// MaxCount returns the largest bucket count a range read or scan may
// request: the number of whole buckets the retention window holds.
func (g Granularity) MaxCount() int {
	return int(g.TTL / g.Duration)
}

func (g Granularity) validate() error {
	if g.Name == "" || strings.Contains(g.Name, keyDelimiter) {
		return fmt.Errorf("%w: %q", errs.ErrInvalidGranularityName, g.Name)
	}
	if g.Duration <= 0 || g.Duration%time.Second != 0 {
		return fmt.Errorf("%w: %s: %v", errs.ErrInvalidDuration, g.Name, g.Duration)
	}
	if g.TTL <= 0 || g.TTL%time.Second != 0 || g.TTL < g.Duration {
		return fmt.Errorf("%w: %s: %v", errs.ErrInvalidTTL, g.Name, g.TTL)
	}

	return nil
}
