// Package redisstore implements the store contract on top of go-redis.
//
// Queued commands are buffered locally and replayed onto a fresh go-redis
// pipeline on Exec, so a failed round trip keeps the queue intact for
// retry. A missing hash field (redis.Nil) is reported as a nil result
// value, never as an error.
package redisstore

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/arloliu/hitseries/store"
)

type opKind uint8

const (
	opHIncrBy opKind = iota
	opHIncrByFloat
	opExpire
	opHGet
	opKeys
)

type op struct {
	kind  opKind
	key   string
	field string
	ival  int64
	fval  float64
	ttl   time.Duration
}

// Store adapts a go-redis client to the store contract.
type Store struct {
	client redis.UniversalClient
}

// New wraps client. The client's own connection pooling, retry, and
// timeout configuration govern all round trips.
func New(client redis.UniversalClient) *Store {
	return &Store{client: client}
}

// Pipeline returns a new, empty pipeline.
func (s *Store) Pipeline() store.Pipeline {
	return &pipeline{client: s.client}
}

type pipeline struct {
	client redis.UniversalClient
	ops    []op
}

func (p *pipeline) HIncrBy(key, field string, delta int64) {
	p.ops = append(p.ops, op{kind: opHIncrBy, key: key, field: field, ival: delta})
}

func (p *pipeline) HIncrByFloat(key, field string, delta float64) {
	p.ops = append(p.ops, op{kind: opHIncrByFloat, key: key, field: field, fval: delta})
}

func (p *pipeline) Expire(key string, ttl time.Duration) {
	p.ops = append(p.ops, op{kind: opExpire, key: key, ttl: ttl})
}

func (p *pipeline) HGet(key, field string) {
	p.ops = append(p.ops, op{kind: opHGet, key: key, field: field})
}

func (p *pipeline) Keys(pattern string) {
	p.ops = append(p.ops, op{kind: opKeys, key: pattern})
}

func (p *pipeline) Len() int {
	return len(p.ops)
}

// Exec replays the buffered commands onto a go-redis pipeline and executes
// it in one round trip. The local buffer is cleared only on success.
func (p *pipeline) Exec(ctx context.Context) ([]store.Result, error) {
	if len(p.ops) == 0 {
		return nil, nil
	}

	rp := p.client.Pipeline()
	cmds := make([]redis.Cmder, 0, len(p.ops))
	for _, o := range p.ops {
		switch o.kind {
		case opHIncrBy:
			cmds = append(cmds, rp.HIncrBy(ctx, o.key, o.field, o.ival))
		case opHIncrByFloat:
			cmds = append(cmds, rp.HIncrByFloat(ctx, o.key, o.field, o.fval))
		case opExpire:
			cmds = append(cmds, rp.Expire(ctx, o.key, o.ttl))
		case opHGet:
			cmds = append(cmds, rp.HGet(ctx, o.key, o.field))
		case opKeys:
			cmds = append(cmds, rp.Keys(ctx, o.key))
		}
	}

	// Exec reports the first command error; redis.Nil only means some HGET
	// hit a missing field and is handled per command below.
	if _, err := rp.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, err
	}

	results := make([]store.Result, len(cmds))
	for i, cmd := range cmds {
		results[i] = toResult(cmd)
	}

	p.ops = p.ops[:0]

	return results, nil
}

func toResult(cmd redis.Cmder) store.Result {
	switch c := cmd.(type) {
	case *redis.IntCmd:
		return store.Result{Val: c.Val(), Err: c.Err()}
	case *redis.FloatCmd:
		return store.Result{Val: c.Val(), Err: c.Err()}
	case *redis.BoolCmd:
		return store.Result{Val: c.Val(), Err: c.Err()}
	case *redis.StringCmd:
		if errors.Is(c.Err(), redis.Nil) {
			return store.Result{}
		}

		return store.Result{Val: c.Val(), Err: c.Err()}
	case *redis.StringSliceCmd:
		return store.Result{Val: c.Val(), Err: c.Err()}
	default:
		return store.Result{Err: cmd.Err()}
	}
}
