package tablerender

import (
	"image"
	"log/slog"

	"github.com/wesen/tablelite/pkg/tablelog"
)

// lockAttempts bounds the retries for a partial lock.
const lockAttempts = 5

// FrameSurface is a double-buffered host surface. Lock with a nil dirty
// rectangle starts a full frame; with a rectangle the surface keeps the
// previous frame outside it. ok is false when the surface is not ready.
type FrameSurface interface {
	Lock(dirty *image.Rectangle) (s Surface, ok bool)
	Unlock()
}

// View is the state a frame is drawn from.
type View interface {
	Table
	Viewport() image.Point
	ScrollOffset() image.Point
	Mask() MaskState
}

// Remeasurer re-resolves the row and column through a cell whose content
// changed.
type Remeasurer interface {
	Remeasure(row, col int)
}

// Frame drives a Renderer against a FrameSurface and supports repainting
// a single cell once the surface holds two complete frames.
type Frame struct {
	r     *Renderer
	view  View
	sizes Remeasurer
	log   *slog.Logger

	fs        FrameSurface
	drawCount int
}

// NewFrame creates a detached frame. A nil logger uses tablelog.Logger().
func NewFrame(r *Renderer, v View, sizes Remeasurer, log *slog.Logger) *Frame {
	if log == nil {
		log = tablelog.Logger()
	}
	return &Frame{r: r, view: v, sizes: sizes, log: log}
}

// Attach binds fs. Rebinding resets the frame count.
func (f *Frame) Attach(fs FrameSurface) {
	if f.fs == fs {
		return
	}
	f.fs = fs
	f.drawCount = 0
}

// Detach unbinds the surface; drawing becomes a no-op.
func (f *Frame) Detach() {
	f.fs = nil
	f.drawCount = 0
}

func (f *Frame) Attached() bool { return f.fs != nil }

// DrawCount is the number of consecutive full frames drawn, capped at 2.
func (f *Frame) DrawCount() int { return f.drawCount }

// Draw clears and renders a full frame. It reports whether anything was
// drawn. A cleared frame with nothing drawn resets the frame count, since
// the buffers no longer hold content a partial repaint could build on.
func (f *Frame) Draw() bool {
	if f.fs == nil {
		return false
	}
	s, ok := f.fs.Lock(nil)
	if !ok {
		return false
	}
	size := f.view.Viewport()
	s.FillRect(image.Rectangle{Max: size}, PaintBackground)
	drew := f.r.Render(s, f.view.Snapshot(), size, f.view.ScrollOffset(), f.view.Mask())
	if drew {
		f.drawCount = min(f.drawCount+1, 2)
	} else {
		f.drawCount = 0
	}
	f.fs.Unlock()
	return drew
}

// RedrawCell replaces the payload of (row, col) and repaints only that
// cell when its row and column keep their sizes. A size change hands the
// cell to the Remeasurer, which owns the redraw that follows; without one
// a full frame is drawn at the current sizes.
func (f *Frame) RedrawCell(row, col int, data any) {
	if f.fs == nil {
		return
	}
	snap := f.view.Snapshot()
	c := snap.Cell(row, col)
	if c == nil {
		return
	}
	c.SetData(data)

	sz := f.view.Config().Sizing()
	if snap.ResolveRowHeight(row, sz) != snap.RowHeight(row) ||
		snap.ResolveColumnWidth(col, sz) != snap.ColumnWidth(col) {
		if f.sizes != nil {
			// the remeasure's publication draws with the new sizes
			f.sizes.Remeasure(row, col)
			return
		}
		f.Draw()
		return
	}

	sc := f.r.Find(row, col)
	if sc == nil {
		return
	}
	dirty := sc.Visible.Intersect(image.Rectangle{Max: f.view.Viewport()})
	if dirty.Empty() {
		return
	}
	if f.drawCount < 2 {
		f.Draw()
		return
	}

	var (
		s  Surface
		ok bool
	)
	for attempt := 1; attempt <= lockAttempts; attempt++ {
		if s, ok = f.fs.Lock(&dirty); ok {
			break
		}
		f.log.Warn("tablerender: partial lock failed", "row", row, "col", col, "attempt", attempt)
	}
	if !ok {
		f.Draw()
		return
	}
	f.r.RepaintCell(s, snap, sc, f.view.Mask())
	f.fs.Unlock()
}
