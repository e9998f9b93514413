package series

import "time"

const secondsPerDay = 86400

// RoundTime rounds t down to the nearest multiple of d counted from the
// Unix epoch and returns the result in epoch seconds. Rounding floors for
// pre-epoch instants as well, so round(t) <= t < round(t)+d always holds.
func RoundTime(t time.Time, d time.Duration) int64 {
	step := int64(d / time.Second)

	return floorDiv(t.Unix(), step) * step
}

// RoundTimeIn rounds like RoundTime, then corrects day-aligned boundaries
// for loc. The correction applies only when loc is non-nil and d is a
// whole multiple of 24 hours; sub-day buckets are timezone-independent.
//
// The naive rounded value is shifted by the location's UTC offset at that
// instant (so DST is already reflected), which moves the boundary to local
// midnight. Instants within one offset of the rotated boundary land one
// bucket off after the shift; the two conditional steps move them back:
//
//   - offset < 0 and the instant is less than |offset| past UTC midnight:
//     it is still the previous local day, subtract one bucket.
//   - offset > 0 and the instant is within offset of the next UTC
//     midnight: it is already the next local day, add one bucket.
func RoundTimeIn(t time.Time, d time.Duration, loc *time.Location) int64 {
	rounded := RoundTime(t, d)

	step := int64(d / time.Second)
	if loc == nil || step%secondsPerDay != 0 {
		return rounded
	}

	_, offset := time.Unix(rounded, 0).In(loc).Zone()
	rounded -= int64(offset)

	u := t.UTC()
	daySeconds := u.Hour()*3600 + u.Minute()*60 + u.Second()
	switch {
	case offset < 0 && daySeconds < -offset:
		rounded -= step
	case offset > 0 && daySeconds >= secondsPerDay-offset:
		rounded += step
	}

	return rounded
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}

	return q
}
