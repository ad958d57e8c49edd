package table

import (
	"context"
	"fmt"
	"image"
	"sync"
	"testing"
	"time"

	"github.com/wesen/tablelite/pkg/grid"
	"github.com/wesen/tablelite/pkg/tablerender"
)

type nopSurface struct{}

func (nopSurface) PushClip(image.Rectangle)                             {}
func (nopSurface) PopClip()                                             {}
func (nopSurface) FillRect(image.Rectangle, tablerender.Paint)          {}
func (nopSurface) StrokeRect(image.Rectangle, tablerender.Paint)        {}
func (nopSurface) DrawLine(image.Point, image.Point, tablerender.Paint) {}
func (nopSurface) DrawText(image.Point, string, tablerender.Paint)      {}
func (nopSurface) Blit(image.Rectangle, tablerender.Icon)               {}

type countingSurface struct {
	full    int
	partial int
}

func (c *countingSurface) Lock(dirty *image.Rectangle) (tablerender.Surface, bool) {
	if dirty == nil {
		c.full++
	} else {
		c.partial++
	}
	return nopSurface{}, true
}

func (c *countingSurface) Unlock() {}

// queue collects posted work until the test drains it, standing in for
// a UI event loop.
type queue struct {
	mu  sync.Mutex
	fns []func()
}

func (q *queue) Post(fn func()) {
	q.mu.Lock()
	q.fns = append(q.fns, fn)
	q.mu.Unlock()
}

func (q *queue) drain() int {
	q.mu.Lock()
	fns := q.fns
	q.fns = nil
	q.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
	return len(fns)
}

func factory(w, h int) grid.Factory {
	return func(row, col int) *grid.Cell {
		return grid.NewSizedCell(grid.Text(fmt.Sprintf("%d:%d", row, col)), w, h)
	}
}

func newTable(t *testing.T, cfg *grid.Config, view image.Point) (*Table, *countingSurface, *queue) {
	t.Helper()
	q := &queue{}
	tb := New(cfg, factory(10, 2), nil, WithPoster(q))
	t.Cleanup(tb.Close)
	fs := &countingSurface{}
	tb.SetViewport(view)
	tb.Attach(fs)
	return tb, fs, q
}

func flush(t *testing.T, tb *Table) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := tb.Data().Flush(ctx); err != nil {
		t.Fatalf("flush: %v", err)
	}
}

func TestPublishPostsRedraw(t *testing.T) {
	tb, fs, q := newTable(t, grid.NewConfig(), image.Pt(30, 6))
	if fs.full != 1 {
		t.Fatalf("attach should draw once, got %d", fs.full)
	}
	if len(tb.ShowCells()) != 0 {
		t.Fatal("empty table should show no cells")
	}

	tb.Data().SetNewData(5, 5)
	flush(t, tb)
	if n := q.drain(); n != 1 {
		t.Fatalf("expected one posted redraw, got %d", n)
	}
	if fs.full != 2 {
		t.Errorf("posted redraw should draw a frame, got %d full draws", fs.full)
	}
	if got := len(tb.ShowCells()); got != 9 {
		t.Errorf("expected 3x3 visible cells, got %d", got)
	}
	if got := tb.ActualSize(); got != image.Pt(50, 10) {
		t.Errorf("actual size = %v", got)
	}
}

func TestAsyncRedrawMerges(t *testing.T) {
	tb, fs, q := newTable(t, grid.NewConfig(), image.Pt(30, 6))
	for range 5 {
		tb.AsyncRedraw()
	}
	if n := q.drain(); n != 1 {
		t.Fatalf("pending redraws should merge, got %d posts", n)
	}
	before := fs.full
	tb.AsyncRedraw()
	q.drain()
	if fs.full != before+1 {
		t.Error("a redraw after the drain should post again")
	}
}

func TestNoPosterDropsAsyncRedraw(t *testing.T) {
	tb := New(grid.NewConfig(), factory(10, 2), nil)
	t.Cleanup(tb.Close)
	fs := &countingSurface{}
	tb.SetViewport(image.Pt(10, 10))
	tb.Attach(fs)
	tb.AsyncRedraw()
	if fs.full != 1 {
		t.Errorf("expected only the attach draw, got %d", fs.full)
	}
}

func TestViewportReclampsScroll(t *testing.T) {
	tb, _, q := newTable(t, grid.NewConfig(), image.Pt(30, 6))
	tb.Data().SetNewData(10, 10)
	flush(t, tb)
	q.drain()

	ctl := tb.Gesture()
	if !ctl.ScrollTo(1000, 1000) {
		t.Fatal("scroll should move")
	}
	if got := ctl.ScrollOffset(); got != image.Pt(70, 14) {
		t.Fatalf("scroll = %v, want (70,14)", got)
	}
	tb.SetViewport(image.Pt(90, 18))
	if got := tb.ScrollOffset(); got != image.Pt(10, 2) {
		t.Errorf("scroll after resize = %v, want (10,2)", got)
	}
}

func TestRedrawCellPartial(t *testing.T) {
	tb, fs, q := newTable(t, grid.NewConfig(), image.Pt(30, 6))
	tb.Data().SetNewData(3, 3)
	flush(t, tb)
	q.drain()
	tb.SyncRedraw()
	if tb.DrawCount() != 2 {
		t.Fatalf("draw count = %d, want 2", tb.DrawCount())
	}

	// same measured size as the factory's sized cells
	tb.RedrawCell(1, 1, grid.Text("1:1"))
	if fs.partial != 1 {
		t.Errorf("expected one partial redraw, got %d", fs.partial)
	}
}

func TestDragResizesThroughStore(t *testing.T) {
	cfg := grid.NewConfig()
	cfg.Drag.Row = grid.DragClick
	cfg.Drag.Column = grid.DragNone
	cfg.Drag.FirstCell = grid.ActionRow
	tb, _, q := newTable(t, cfg, image.Pt(30, 20))
	tb.Data().SetNewData(3, 3)
	flush(t, tb)
	q.drain()

	ctl := tb.Gesture()
	t0 := time.Now()
	ctl.PointerDown(image.Pt(5, 3), t0)
	ctl.PointerMove(image.Pt(5, 8), t0.Add(10*time.Millisecond))
	ctl.PointerUp(image.Pt(5, 8), t0.Add(20*time.Millisecond))
	flush(t, tb)

	row := tb.Snapshot().Row(1)
	if row.Size != 7 || !row.Locked {
		t.Errorf("row 1 = %+v, want size 7 locked", row)
	}
}

func TestClickListener(t *testing.T) {
	tb, _, q := newTable(t, grid.NewConfig(), image.Pt(30, 6))
	tb.Data().SetNewData(3, 3)
	flush(t, tb)
	q.drain()

	var got image.Point
	tb.SetCellClickListener(func(row, col int) { got = image.Pt(col, row) })
	t0 := time.Now()
	tb.Gesture().PointerDown(image.Pt(25, 3), t0)
	tb.Gesture().PointerUp(image.Pt(25, 3), t0.Add(10*time.Millisecond))
	if got != image.Pt(2, 1) {
		t.Errorf("clicked %v, want col 2 row 1", got)
	}
}

func TestDetachStopsDrawing(t *testing.T) {
	tb, fs, _ := newTable(t, grid.NewConfig(), image.Pt(30, 6))
	tb.Detach()
	if tb.SyncRedraw() {
		t.Error("detached table should not draw")
	}
	if fs.full != 1 {
		t.Errorf("full draws = %d", fs.full)
	}
}

func textFactory(row, col int) *grid.Cell {
	return grid.NewCell(grid.Text(fmt.Sprintf("%d:%d", row, col)))
}

func TestAsyncRedrawCellPostsAndMerges(t *testing.T) {
	tb, fs, q := newTable(t, grid.NewConfig(), image.Pt(30, 6))
	tb.Data().SetNewData(3, 3)
	flush(t, tb)
	q.drain()
	tb.SyncRedraw()
	partial := fs.partial

	done := make(chan struct{})
	go func() {
		defer close(done)
		tb.AsyncRedrawCell(1, 1, grid.Text("a"))
		tb.AsyncRedrawCell(2, 2, grid.Text("b"))
		tb.AsyncRedrawCell(1, 1, grid.Text("c"))
	}()
	<-done

	if fs.partial != partial {
		t.Fatal("nothing should draw before the poster runs")
	}
	if n := q.drain(); n != 1 {
		t.Fatalf("pending cell updates should share one post, got %d", n)
	}
	if fs.partial != partial+2 {
		t.Errorf("expected two partial redraws on the poster side, got %d", fs.partial-partial)
	}
	snap := tb.Snapshot()
	if got := snap.Cell(1, 1).Data(); got != grid.Text("c") {
		t.Errorf("cell 1:1 = %v, want the last update", got)
	}
	if got := snap.Cell(2, 2).Data(); got != grid.Text("b") {
		t.Errorf("cell 2:2 = %v", got)
	}

	tb.AsyncRedrawCell(0, 0, grid.Text("d"))
	if n := q.drain(); n != 1 {
		t.Errorf("an update after the drain should post again, got %d", n)
	}
}

func TestAsyncRedrawCellWithoutPoster(t *testing.T) {
	tb := New(grid.NewConfig(), factory(10, 2), nil)
	t.Cleanup(tb.Close)
	fs := &countingSurface{}
	tb.SetViewport(image.Pt(30, 6))
	tb.Attach(fs)
	tb.Data().SetNewData(2, 2)
	flush(t, tb)

	tb.AsyncRedrawCell(1, 1, grid.Text("x"))
	if got := tb.Snapshot().Cell(1, 1).Data(); got != grid.Text("1:1") {
		t.Errorf("update without a poster should be dropped, cell = %v", got)
	}
}

func TestRedrawCellResizeWaitsForPublish(t *testing.T) {
	tests := []struct {
		name   string
		poster bool
	}{
		{"posted", true},
		{"no poster", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q := &queue{}
			var opts []Option
			if tc.poster {
				opts = append(opts, WithPoster(q))
			}
			tb := New(grid.NewConfig(), grid.Factory(textFactory), nil, opts...)
			t.Cleanup(tb.Close)
			fs := &countingSurface{}
			tb.SetViewport(image.Pt(40, 6))
			tb.Attach(fs)
			tb.Data().SetNewData(3, 3)
			flush(t, tb)
			q.drain()
			tb.SyncRedraw()
			full := fs.full

			// "1:1" is five wide with padding; this is sixteen
			tb.RedrawCell(1, 1, grid.Text("a longer value"))

			if tc.poster {
				if fs.full != full {
					t.Fatalf("no frame should be drawn before the remeasure publishes, got %d", fs.full-full)
				}
				flush(t, tb)
				if n := q.drain(); n != 1 {
					t.Fatalf("remeasure should post one redraw, got %d", n)
				}
			}
			if fs.full != full+1 {
				t.Errorf("expected one full frame after the remeasure, got %d", fs.full-full)
			}
			if w := tb.Snapshot().ColumnWidth(1); w != 16 {
				t.Errorf("column 1 width = %d, want 16", w)
			}
			if got := tb.ActualSize().X; got != 5+16+5 {
				t.Errorf("drawn frame used width %d, want the remeasured 26", got)
			}
		})
	}
}
