// Package tabledata owns the table's rows and columns. All structural
// mutations run in call order on one worker goroutine against a working
// grid; readers only ever see the last published snapshot, which is
// swapped in atomically once the worker has drained its queue.
package tabledata

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/wesen/tablelite/pkg/grid"
	"github.com/wesen/tablelite/pkg/tablelog"
)

// ErrDetached is returned by Flush when the worker is not running.
var ErrDetached = errors.New("tabledata: store detached")

type op struct {
	seq  uint64
	name string
	fn   func(g *grid.Grid, f grid.CellFactory)
	f    grid.CellFactory
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store's logger. The default is tablelog.Logger().
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithPublishHook registers fn to run on the worker goroutine after each
// publication, typically to request a redraw.
func WithPublishHook(fn func(*grid.Snapshot)) Option {
	return func(s *Store) { s.onPublish = fn }
}

// WithDrainedCallback is SetDrainedCallback as an option.
func WithDrainedCallback(fn func()) Option {
	return func(s *Store) { s.onDrained = fn }
}

// Store is the double-buffered table data store.
type Store struct {
	cfg *grid.Config
	log *slog.Logger

	mu        sync.Mutex
	factory   grid.CellFactory
	queue     []op
	enqueued  uint64
	running   bool
	wake      chan struct{}
	quit      chan struct{}
	done      chan struct{}
	onDrained func()
	onPublish func(*grid.Snapshot)

	// worker-owned
	working *grid.Grid
	applied uint64
	version uint64

	published    atomic.Pointer[grid.Snapshot]
	publishedSeq atomic.Uint64

	notifyMu sync.Mutex
	notify   chan struct{}
}

// New creates a store and starts its worker. A nil factory makes every
// mutation a no-op until SetFactory is called.
func New(cfg *grid.Config, factory grid.CellFactory, opts ...Option) *Store {
	s := &Store{
		cfg:     cfg,
		log:     tablelog.Logger(),
		factory: factory,
		working: grid.New(),
		notify:  make(chan struct{}),
	}
	for _, o := range opts {
		o(s)
	}
	s.published.Store(grid.EmptySnapshot())
	s.Attach()
	return s
}

// Config returns the configuration the store resolves sizes with.
func (s *Store) Config() *grid.Config { return s.cfg }

// SetFactory replaces the cell factory. Already queued mutations keep the
// factory they were enqueued with.
func (s *Store) SetFactory(f grid.CellFactory) {
	s.mu.Lock()
	s.factory = f
	s.mu.Unlock()
}

// SetDrainedCallback registers fn to run on the worker goroutine after
// every publication. Callers that need values reflecting their own
// mutations read the snapshot from here.
func (s *Store) SetDrainedCallback(fn func()) {
	s.mu.Lock()
	s.onDrained = fn
	s.mu.Unlock()
}

// Snapshot returns the last published snapshot. It never blocks.
func (s *Store) Snapshot() *grid.Snapshot { return s.published.Load() }

// TotalRow is the published row count.
func (s *Store) TotalRow() int { return s.Snapshot().Rows() }

// TotalColumn is the published column count.
func (s *Store) TotalColumn() int { return s.Snapshot().Columns() }

// Attached reports whether the worker is running.
func (s *Store) Attached() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Attach starts the worker if it is not running.
func (s *Store) Attach() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.wake = make(chan struct{}, 1)
	s.quit = make(chan struct{})
	s.done = make(chan struct{})
	go s.run(s.wake, s.quit, s.done)
	s.log.Debug("tabledata: worker started")
}

// Detach stops the worker and drops queued mutations, including any the
// worker had taken but not yet applied. The working grid and the
// published snapshot are kept for a later Attach.
func (s *Store) Detach() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	dropped := len(s.queue)
	s.queue = nil
	quit, done := s.quit, s.done
	s.mu.Unlock()

	close(quit)
	<-done
	// dropped mutations count as settled so Flush does not wait for them
	s.mu.Lock()
	s.publishedSeq.Store(s.enqueued)
	s.mu.Unlock()
	s.broadcast()
	s.log.Debug("tabledata: worker stopped", "dropped", dropped)
}

// Close detaches the store for good.
func (s *Store) Close() { s.Detach() }

// Flush blocks until every mutation enqueued before the call has been
// published, ctx is done, or the store is detached.
func (s *Store) Flush(ctx context.Context) error {
	s.mu.Lock()
	target, running := s.enqueued, s.running
	s.mu.Unlock()
	if !running {
		return ErrDetached
	}
	for {
		ch := s.waitChan()
		if s.publishedSeq.Load() >= target {
			return nil
		}
		if !s.Attached() {
			return ErrDetached
		}
		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (s *Store) enqueue(name string, fn func(*grid.Grid, grid.CellFactory)) {
	s.mu.Lock()
	if !s.running || s.factory == nil {
		running := s.running
		s.mu.Unlock()
		s.log.Warn("tabledata: mutation dropped", "op", name, "attached", running)
		return
	}
	s.enqueued++
	s.queue = append(s.queue, op{seq: s.enqueued, name: name, fn: fn, f: s.factory})
	wake := s.wake
	s.mu.Unlock()

	select {
	case wake <- struct{}{}:
	default:
	}
}

func (s *Store) run(wake, quit, done chan struct{}) {
	defer close(done)
	for {
		select {
		case <-quit:
			return
		case <-wake:
		}
		n := 0
		for {
			s.mu.Lock()
			batch := s.queue
			s.queue = nil
			s.mu.Unlock()
			if len(batch) == 0 {
				break
			}
			for _, o := range batch {
				select {
				case <-quit:
					return
				default:
				}
				o.fn(s.working, o.f)
				s.applied = o.seq
				n++
			}
		}
		if n > 0 {
			s.publish(n)
		}
	}
}

func (s *Store) publish(ops int) {
	if err := s.working.CheckSymmetry(); err != nil {
		s.log.Error("tabledata: not publishing inconsistent grid", "err", err)
	} else {
		s.version++
		snap := grid.NewSnapshot(s.working, s.version)
		s.published.Store(snap)
		s.log.Debug("tabledata: published",
			"version", snap.Version(), "rows", snap.Rows(), "columns", snap.Columns(), "ops", ops)
		if s.onPublish != nil {
			s.onPublish(snap)
		}
	}
	s.publishedSeq.Store(s.applied)
	s.broadcast()

	s.mu.Lock()
	drained := s.onDrained
	s.mu.Unlock()
	if drained != nil {
		drained()
	}
}

func (s *Store) waitChan() <-chan struct{} {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	return s.notify
}

func (s *Store) broadcast() {
	s.notifyMu.Lock()
	close(s.notify)
	s.notify = make(chan struct{})
	s.notifyMu.Unlock()
}
