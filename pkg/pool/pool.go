// Package pool is a growable free-list of reusable objects that tracks
// which pool currently owns each object, so double releases are caught.
package pool

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
)

var (
	// ErrAlreadyPooled is returned when an object is released into the
	// pool that already holds it.
	ErrAlreadyPooled = errors.New("pool: object already in this pool")
	// ErrForeignPool is returned when an object held by one pool is
	// released into another.
	ErrForeignPool = errors.New("pool: object belongs to another pool")
)

const noOwner = 0

var lastID atomic.Int64

// Handle records pool ownership. Embed it in pooled types.
type Handle struct {
	owner int64
}

func (h *Handle) poolHandle() *Handle { return h }

// Owned reports whether the object currently sits in a pool.
func (h *Handle) Owned() bool { return h.owner != noOwner }

// Poolable is satisfied by pointer types embedding Handle. Reset clears
// the object before it is stored.
type Poolable interface {
	poolHandle() *Handle
	Reset()
}

// Pool hands out objects created by a model function and takes them back.
type Pool[T Poolable] struct {
	mu        sync.Mutex
	id        int64
	model     func() T
	free      []T
	capacity  int
	replenish float64
}

// New creates a pool of the given capacity, pre-filled to
// capacity×replenish objects (at least one). replenish is clamped to
// [0, 1]; with 0 an empty pool still allocates on Acquire but never
// refills in bulk. It panics if capacity is not positive.
func New[T Poolable](model func() T, capacity int, replenish float64) *Pool[T] {
	if capacity <= 0 {
		panic("pool: capacity must be positive")
	}
	p := &Pool[T]{
		id:        lastID.Add(1),
		model:     model,
		capacity:  capacity,
		replenish: min(max(replenish, 0), 1),
	}
	p.free = make([]T, 0, capacity)
	p.refill()
	return p
}

func (p *Pool[T]) refill() {
	n := int(float64(p.capacity) * p.replenish)
	n = min(max(n, 1), p.capacity)
	for len(p.free) < n {
		p.free = append(p.free, p.model())
	}
}

// ID identifies the pool in errors.
func (p *Pool[T]) ID() int64 { return p.id }

// Acquire returns an object, refilling from the model when empty.
func (p *Pool[T]) Acquire() T {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.free) == 0 {
		if p.replenish > 0 {
			p.refill()
		} else {
			p.free = append(p.free, p.model())
		}
	}
	last := len(p.free) - 1
	obj := p.free[last]
	var zero T
	p.free[last] = zero
	p.free = p.free[:last]
	obj.poolHandle().owner = noOwner
	return obj
}

// Release resets obj and stores it. Capacity doubles when full.
func (p *Pool[T]) Release(obj T) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.claim(obj); err != nil {
		return err
	}
	p.store(obj)
	return nil
}

// ReleaseAll releases every object in objs. If any object is already
// owned, nothing is released and the error is returned.
func (p *Pool[T]) ReleaseAll(objs []T) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, obj := range objs {
		if err := p.claim(obj); err != nil {
			for _, done := range objs[:i] {
				done.poolHandle().owner = noOwner
			}
			return err
		}
	}
	for _, obj := range objs {
		p.store(obj)
	}
	return nil
}

func (p *Pool[T]) claim(obj T) error {
	h := obj.poolHandle()
	switch h.owner {
	case noOwner:
		h.owner = p.id
		return nil
	case p.id:
		return fmt.Errorf("%w (pool %d)", ErrAlreadyPooled, p.id)
	default:
		return fmt.Errorf("%w: owned by pool %d, released into %d", ErrForeignPool, h.owner, p.id)
	}
}

func (p *Pool[T]) store(obj T) {
	for len(p.free)+1 > p.capacity {
		p.capacity *= 2
	}
	obj.Reset()
	p.free = append(p.free, obj)
}

// Len is the number of objects available.
func (p *Pool[T]) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.free)
}

// Cap is the current capacity.
func (p *Pool[T]) Cap() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.capacity
}
