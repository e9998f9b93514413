// Package series implements multi-granularity rolling-window counters on
// top of a pipelined key-value store.
//
// Every recorded event fans out to each configured granularity: the event
// timestamp is floor-rounded to a bucket of the granularity's duration and
// the signed amount is added to a hash field named after that bucket. All
// per-granularity commands for one event travel in a single pipelined
// round trip. Buckets expire with their enclosing retention window; expiry
// is the only removal mechanism.
//
// # Key scheme
//
// Storage keys have the form
//
//	<base>:<granularity>:<windowStart>:<entity>
//
// where windowStart is the event time rounded down by the granularity's
// retention TTL. Grouping duration-sized buckets under one TTL-sized key
// bounds the number of live keys regardless of event volume: the hash key
// changes once per retention window while the hash field changes once per
// bucket. The ':' delimiter must not appear in entity keys chosen by the
// caller; this is a documented contract, not an enforced one.
//
// # Timezones
//
// Sub-day buckets are aligned to the UTC epoch. Day-or-longer buckets are a
// civil-calendar concept: with a configured time.Location their boundaries
// shift to local midnight, including across DST transitions. See
// RoundTimeIn for the boundary correction. Window keys are always derived
// without timezone correction so retention grouping stays uniform.
//
// # Write modes
//
// Immediate methods (Increase, RecordHit, ...) execute one private
// pipeline per call and are safe for concurrent use. A Batch accumulates
// deferred writes across calls and sends them on Flush; a Batch belongs to
// a single goroutine.
package series
