// Package errs defines the sentinel error values returned by hitseries.
//
// All errors are comparable with errors.Is. Errors returned by the
// underlying store client are propagated unchanged and are not part of
// this set.
package errs

import "errors"

// Configuration errors, reported at construction time.
var (
	// ErrNoGranularities indicates an empty granularity set.
	ErrNoGranularities = errors.New("no granularities configured")

	// ErrDuplicateGranularity indicates two granularities sharing a name.
	ErrDuplicateGranularity = errors.New("duplicate granularity name")

	// ErrInvalidGranularityName indicates an empty granularity name or one
	// containing the key delimiter ':'.
	ErrInvalidGranularityName = errors.New("invalid granularity name")

	// ErrInvalidDuration indicates a bucket duration that is not a positive
	// whole number of seconds.
	ErrInvalidDuration = errors.New("invalid granularity duration")

	// ErrInvalidTTL indicates a retention TTL that is not a positive whole
	// number of seconds, or one shorter than the bucket duration.
	ErrInvalidTTL = errors.New("invalid granularity ttl")

	// ErrInvalidBaseKey indicates an empty base key or one containing the
	// key delimiter ':'.
	ErrInvalidBaseKey = errors.New("invalid base key")
)

// Argument errors, reported before any store command is issued.
var (
	// ErrUnknownGranularity indicates a granularity name that is not part
	// of the configured set.
	ErrUnknownGranularity = errors.New("unknown granularity")

	// ErrCountExceeded indicates a bucket count larger than the granularity
	// retention window can hold (count > ttl/duration).
	ErrCountExceeded = errors.New("count exceeds granularity limit")
)
