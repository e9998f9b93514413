// Package storetest provides a deterministic in-memory implementation of
// the store contract for tests.
//
// Hash values are kept as strings and parsed on increment, matching the
// behavior of a real Redis server. Key expiry is evaluated lazily against
// an injectable clock, so tests can advance time with FastForward instead
// of sleeping.
package storetest

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/arloliu/hitseries/store"
)

// Store is an in-memory store.Store safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	hashes  map[string]map[string]string
	expiry  map[string]time.Time
	now     func() time.Time
	skew    time.Duration
	execErr error
}

// New creates an empty in-memory store using the real clock.
func New() *Store {
	return &Store{
		hashes: make(map[string]map[string]string),
		expiry: make(map[string]time.Time),
		now:    time.Now,
	}
}

// SetClock replaces the clock used for expiry decisions.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// FastForward advances the expiry clock by d, expiring any key whose TTL
// has elapsed.
func (s *Store) FastForward(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.skew += d
	s.sweep()
}

// FailNextExec makes the next Exec on any pipeline return err without
// executing, to exercise retry behavior.
func (s *Store) FailNextExec(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.execErr = err
}

// Get returns the raw value of a hash field, or "" if absent.
func (s *Store) Get(key, field string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweep()

	return s.hashes[key][field]
}

// TTL returns the remaining time to live of key, or zero if the key has
// no expiry or does not exist.
func (s *Store) TTL(key string) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweep()

	deadline, ok := s.expiry[key]
	if !ok {
		return 0
	}

	return deadline.Sub(s.clock())
}

// KeyCount returns the number of live keys.
func (s *Store) KeyCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweep()

	return len(s.hashes)
}

// Pipeline returns a new, empty pipeline bound to this store.
func (s *Store) Pipeline() store.Pipeline {
	return &pipeline{s: s}
}

func (s *Store) clock() time.Time {
	return s.now().Add(s.skew)
}

// sweep drops keys whose expiry deadline has passed. Callers must hold mu.
func (s *Store) sweep() {
	now := s.clock()
	for key, deadline := range s.expiry {
		if !deadline.After(now) {
			delete(s.expiry, key)
			delete(s.hashes, key)
		}
	}
}

type pipeline struct {
	s   *Store
	ops []func() store.Result
}

func (p *pipeline) HIncrBy(key, field string, delta int64) {
	p.ops = append(p.ops, func() store.Result {
		cur := int64(0)
		if raw, ok := p.s.hashes[key][field]; ok {
			v, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return store.Result{Err: fmt.Errorf("hash value is not an integer: %q", raw)}
			}
			cur = v
		}
		cur += delta
		p.set(key, field, strconv.FormatInt(cur, 10))

		return store.Result{Val: cur}
	})
}

func (p *pipeline) HIncrByFloat(key, field string, delta float64) {
	p.ops = append(p.ops, func() store.Result {
		cur := float64(0)
		if raw, ok := p.s.hashes[key][field]; ok {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return store.Result{Err: fmt.Errorf("hash value is not a float: %q", raw)}
			}
			cur = v
		}
		cur += delta
		p.set(key, field, strconv.FormatFloat(cur, 'f', -1, 64))

		return store.Result{Val: cur}
	})
}

func (p *pipeline) Expire(key string, ttl time.Duration) {
	p.ops = append(p.ops, func() store.Result {
		if _, ok := p.s.hashes[key]; !ok {
			return store.Result{Val: false}
		}
		p.s.expiry[key] = p.s.clock().Add(ttl)

		return store.Result{Val: true}
	})
}

func (p *pipeline) HGet(key, field string) {
	p.ops = append(p.ops, func() store.Result {
		raw, ok := p.s.hashes[key][field]
		if !ok {
			return store.Result{}
		}

		return store.Result{Val: raw}
	})
}

func (p *pipeline) Keys(pattern string) {
	p.ops = append(p.ops, func() store.Result {
		var matched []string
		for key := range p.s.hashes {
			// path.Match implements the same glob subset as the KEYS
			// command for ':'-delimited keys.
			if ok, err := path.Match(pattern, key); err == nil && ok {
				matched = append(matched, key)
			}
		}
		sort.Strings(matched)

		return store.Result{Val: matched}
	})
}

func (p *pipeline) Len() int {
	return len(p.ops)
}

func (p *pipeline) Exec(ctx context.Context) ([]store.Result, error) {
	if len(p.ops) == 0 {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.s.mu.Lock()
	defer p.s.mu.Unlock()

	if err := p.s.execErr; err != nil {
		p.s.execErr = nil
		return nil, err
	}

	p.s.sweep()

	results := make([]store.Result, len(p.ops))
	for i, run := range p.ops {
		results[i] = run()
	}

	p.ops = p.ops[:0]

	return results, nil
}

// set writes a hash field. Callers run under the store lock via Exec.
func (p *pipeline) set(key, field, value string) {
	h, ok := p.s.hashes[key]
	if !ok {
		h = make(map[string]string)
		p.s.hashes[key] = h
	}
	h[field] = value
}
