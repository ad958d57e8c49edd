// Package table wires the data store, renderer, frame and gesture
// controller into one engine a host can embed.
//
// Everything except data mutations runs on the host's UI goroutine.
// Mutations may come from any goroutine; their publication is turned
// into a redraw posted back to the UI goroutine through a Poster.
package table

import (
	"context"
	"image"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/wesen/tablelite/pkg/gesture"
	"github.com/wesen/tablelite/pkg/grid"
	"github.com/wesen/tablelite/pkg/tabledata"
	"github.com/wesen/tablelite/pkg/tablelog"
	"github.com/wesen/tablelite/pkg/tablerender"
)

// Poster runs fn on the host's UI goroutine.
type Poster interface {
	Post(fn func())
}

// PosterFunc adapts a function to Poster.
type PosterFunc func(fn func())

func (f PosterFunc) Post(fn func()) { f(fn) }

// remeasureWait bounds how long a table without a poster waits for a
// remeasure to publish before drawing.
const remeasureWait = time.Second

type cellKey struct{ row, col int }

type options struct {
	log    *slog.Logger
	poster Poster
	tuning *gesture.Tuning
}

// Option configures a Table.
type Option func(*options)

func WithLogger(l *slog.Logger) Option { return func(o *options) { o.log = l } }

// WithPoster sets how AsyncRedraw reaches the UI goroutine. Without a
// poster, asynchronous redraws are dropped and the host must call
// SyncRedraw itself.
func WithPoster(p Poster) Option { return func(o *options) { o.poster = p } }

func WithTuning(t gesture.Tuning) Option { return func(o *options) { o.tuning = &t } }

// Table is the engine facade.
type Table struct {
	cfg    *grid.Config
	log    *slog.Logger
	poster Poster

	store *tabledata.Store
	r     *tablerender.Renderer
	frame *tablerender.Frame
	ctl   *gesture.Controller

	viewport image.Point
	pending  atomic.Bool

	cellsMu   sync.Mutex
	cells     map[cellKey]any
	cellOrder []cellKey
}

// New creates a table over cfg. Cells come from factory; painter draws
// them. The data worker starts immediately.
func New(cfg *grid.Config, factory grid.CellFactory, painter tablerender.Painter, opts ...Option) *Table {
	o := options{log: tablelog.Logger()}
	for _, fn := range opts {
		fn(&o)
	}
	if o.log == nil {
		o.log = tablelog.Logger()
	}
	if cfg == nil {
		cfg = grid.NewConfig()
	}

	t := &Table{cfg: cfg, log: o.log, poster: o.poster, cells: map[cellKey]any{}}
	t.store = tabledata.New(cfg, factory,
		tabledata.WithLogger(o.log),
		tabledata.WithPublishHook(func(*grid.Snapshot) { t.AsyncRedraw() }),
	)
	t.r = tablerender.NewRenderer(t, painter)
	t.frame = tablerender.NewFrame(t.r, t, t, o.log)

	gopts := []gesture.Option{gesture.WithLogger(o.log)}
	if o.tuning != nil {
		gopts = append(gopts, gesture.WithTuning(*o.tuning))
	}
	t.ctl = gesture.New(t, gopts...)
	return t
}

// Attach binds the drawing surface, restarts the data worker if needed
// and draws a full frame.
func (t *Table) Attach(fs tablerender.FrameSurface) {
	t.store.Attach()
	t.frame.Attach(fs)
	t.SyncRedraw()
}

// Detach unbinds the surface and stops the data worker. Queued
// mutations are dropped.
func (t *Table) Detach() {
	t.frame.Detach()
	t.store.Detach()
}

// Close releases the data worker for good.
func (t *Table) Close() {
	t.frame.Detach()
	t.store.Close()
}

// SetViewport sets the visible size and re-clamps the scroll offset.
func (t *Table) SetViewport(size image.Point) {
	if size == t.viewport {
		return
	}
	t.viewport = size
	t.ctl.Reclamp()
	t.SyncRedraw()
}

// SyncRedraw draws a full frame now. It must run on the UI goroutine.
func (t *Table) SyncRedraw() bool {
	return t.frame.Draw()
}

// AsyncRedraw posts a full redraw to the UI goroutine. Calls made while
// one is already pending are merged into it.
func (t *Table) AsyncRedraw() {
	if t.poster == nil {
		return
	}
	if !t.pending.CompareAndSwap(false, true) {
		return
	}
	t.poster.Post(func() {
		t.pending.Store(false)
		t.SyncRedraw()
	})
}

// RedrawCell replaces one cell's payload and repaints it. It must run on
// the UI goroutine.
func (t *Table) RedrawCell(row, col int, data any) {
	t.frame.RedrawCell(row, col, data)
}

// AsyncRedrawCell posts RedrawCell to the UI goroutine and may be called
// from any goroutine. Updates made while a post is pending are merged
// into it; the last payload per cell wins and cells repaint in the order
// they were first updated. Without a poster the update is dropped.
func (t *Table) AsyncRedrawCell(row, col int, data any) {
	if t.poster == nil {
		t.log.Warn("table: cell update dropped, no poster", "row", row, "col", col)
		return
	}
	k := cellKey{row, col}
	t.cellsMu.Lock()
	post := len(t.cellOrder) == 0
	if _, ok := t.cells[k]; !ok {
		t.cellOrder = append(t.cellOrder, k)
	}
	t.cells[k] = data
	t.cellsMu.Unlock()
	if post {
		t.poster.Post(t.drainCells)
	}
}

func (t *Table) drainCells() {
	t.cellsMu.Lock()
	cells, order := t.cells, t.cellOrder
	t.cells, t.cellOrder = map[cellKey]any{}, nil
	t.cellsMu.Unlock()
	for _, k := range order {
		t.RedrawCell(k.row, k.col, cells[k])
	}
}

// Remeasure queues a remeasure for a cell whose size changed. Its
// publication redraws through the poster; without one the table waits
// for the publication here and draws.
func (t *Table) Remeasure(row, col int) {
	t.store.Remeasure(row, col)
	if t.poster != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), remeasureWait)
	defer cancel()
	if err := t.store.Flush(ctx); err != nil {
		t.log.Warn("table: remeasure not published", "row", row, "col", col, "err", err)
	}
	t.SyncRedraw()
}

func (t *Table) Data() *tabledata.Store             { return t.store }
func (t *Table) Gesture() *gesture.Controller       { return t.ctl }
func (t *Table) Config() *grid.Config               { return t.cfg }
func (t *Table) Snapshot() *grid.Snapshot           { return t.store.Snapshot() }
func (t *Table) Viewport() image.Point              { return t.viewport }
func (t *Table) ShowCells() []*tablerender.ShowCell { return t.r.ShowCells() }

// ActualSize is the content size seen by the last render pass.
func (t *Table) ActualSize() image.Point { return t.r.ActualSize() }

// DrawCount reports how many consecutive full frames the surface holds.
func (t *Table) DrawCount() int { return t.frame.DrawCount() }

func (t *Table) SetCellClickListener(fn gesture.ClickFunc) { t.ctl.SetClickListener(fn) }

func (t *Table) ScrollOffset() image.Point   { return t.ctl.ScrollOffset() }
func (t *Table) Mask() tablerender.MaskState { return t.ctl.Mask() }

// CellAt returns the visible cell at p.
func (t *Table) CellAt(p image.Point) *tablerender.ShowCell { return t.r.CellAt(p) }

// Redraw is called by the gesture controller.
func (t *Table) Redraw() { t.SyncRedraw() }

func (t *Table) ResizeRow(row, height int)   { t.store.ResizeRow(row, height) }
func (t *Table) ResizeColumn(col, width int) { t.store.ResizeColumn(col, width) }
