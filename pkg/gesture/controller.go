package gesture

import (
	"image"
	"log/slog"
	"time"

	"github.com/wesen/tablelite/pkg/grid"
	"github.com/wesen/tablelite/pkg/tablelog"
	"github.com/wesen/tablelite/pkg/tablerender"
)

// Host is the table the controller drives.
type Host interface {
	Snapshot() *grid.Snapshot
	Config() *grid.Config
	Viewport() image.Point
	CellAt(p image.Point) *tablerender.ShowCell
	ResizeRow(row, height int)
	ResizeColumn(col, width int)
	Redraw()
}

// ClickFunc receives every tap on a cell.
type ClickFunc func(row, col int)

// Option configures a Controller.
type Option func(*Controller)

func WithTuning(t Tuning) Option {
	return func(c *Controller) { c.tune = t.withDefaults() }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// Controller owns the scroll offset, highlight and drag state.
type Controller struct {
	host Host
	tune Tuning
	log  *slog.Logger

	state   State
	scroll  image.Point
	onClick ClickFunc

	highlightRow, highlightCol int

	// current press
	clickRow, clickCol int
	down, last         image.Point
	downAt             time.Time
	moved              bool
	longPressDone      bool
	samples            []sample

	dragging         bool
	dragRow, dragCol int
	dragBase         image.Point // column width, row height at drag start
	dragMove         image.Point
	dragSize         image.Point
	dragLocked       bool

	fling flight

	redraw bool
}

// New creates an idle controller for host.
func New(host Host, opts ...Option) *Controller {
	c := &Controller{
		host:         host,
		tune:         DefaultTuning(),
		log:          tablelog.Logger(),
		highlightRow: grid.Unset,
		highlightCol: grid.Unset,
		clickRow:     grid.Unset,
		clickCol:     grid.Unset,
		dragRow:      grid.Unset,
		dragCol:      grid.Unset,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Controller) SetClickListener(fn ClickFunc) { c.onClick = fn }

func (c *Controller) State() State { return c.state }

func (c *Controller) Tuning() Tuning { return c.tune }

// Dragging reports whether a drag-resize is in progress.
func (c *Controller) Dragging() bool { return c.dragging }

func (c *Controller) HighlightRow() int    { return c.highlightRow }
func (c *Controller) HighlightColumn() int { return c.highlightCol }

// Mask is the overlay state for the renderer.
func (c *Controller) Mask() tablerender.MaskState {
	return tablerender.MaskState{
		HighlightRow:    c.highlightRow,
		HighlightColumn: c.highlightCol,
		DragRow:         c.dragRow,
		DragColumn:      c.dragCol,
		Dragging:        c.dragging,
	}
}

// ClearHighlight removes any highlight, redrawing if one was shown.
func (c *Controller) ClearHighlight() {
	defer c.flush()
	c.setHighlight(grid.Unset, grid.Unset)
}

// PointerDown starts a press at p. Any running fling stops.
func (c *Controller) PointerDown(p image.Point, t time.Time) {
	defer c.flush()
	c.stopFling()
	c.state = TrackingTap
	c.clickRow, c.clickCol = grid.Unset, grid.Unset
	if sc := c.host.CellAt(p); sc != nil {
		c.clickRow, c.clickCol = sc.Row, sc.Column
	}
	c.down, c.last, c.downAt = p, p, t
	c.moved = false
	c.longPressDone = false
	c.samples = append(c.samples[:0], sample{p: p, t: t})
}

// LongPressDue fires the long press once the pointer has been held
// still for the long-press timeout. Hosts poll it from a timer. It
// reports whether the long press fired.
func (c *Controller) LongPressDue(t time.Time) bool {
	if c.state != TrackingTap || c.moved || c.longPressDone || t.Sub(c.downAt) < c.tune.LongPressTimeout {
		return false
	}
	defer c.flush()
	c.longPressDone = true
	c.log.Debug("gesture: long press", "row", c.clickRow, "col", c.clickCol)
	c.drag(image.Point{}, true)
	return true
}

// PointerMove tracks the pointer. After a long press it only resizes;
// otherwise, once past the slop, it resizes in click-drag mode or
// scrolls.
func (c *Controller) PointerMove(p image.Point, t time.Time) {
	if c.state == Idle || c.state == Flinging {
		return
	}
	defer c.flush()
	c.addSample(p, t)

	if c.longPressDone || c.state == DragResizing {
		move := p.Sub(c.last)
		c.last = p
		c.drag(move, false)
		return
	}
	if !c.moved {
		d := p.Sub(c.down)
		if abs(d.X) <= c.tune.TouchSlop && abs(d.Y) <= c.tune.TouchSlop {
			return
		}
		c.moved = true
	}
	move := p.Sub(c.last)
	c.last = p
	if c.drag(move, false) {
		return
	}
	c.state = Scrolling
	c.scrollBy(image.Pt(-move.X, -move.Y))
}

// PointerUp ends the press: a still press is a tap, a fast scroll
// becomes a fling, and a drag-resize ends.
func (c *Controller) PointerUp(p image.Point, t time.Time) {
	defer c.flush()
	c.addSample(p, t)
	switch {
	case c.state == TrackingTap && !c.moved && !c.longPressDone:
		c.tap()
	case c.state == Scrolling:
		c.startFling()
	}
	c.endPress()
}

// Cancel abandons the press without a tap or fling.
func (c *Controller) Cancel() {
	defer c.flush()
	c.stopFling()
	c.endPress()
}

// Wheel scrolls by (dx, dy) units and stops any fling.
func (c *Controller) Wheel(dx, dy int) bool {
	defer c.flush()
	c.stopFling()
	return c.scrollBy(image.Pt(dx, dy))
}

func (c *Controller) endPress() {
	if c.dragging {
		c.dragging = false
		if !c.host.Config().Drag.RecoverHighlight {
			c.highlightRow, c.highlightCol = grid.Unset, grid.Unset
		}
		c.log.Debug("gesture: drag ended", "row", c.dragRow, "col", c.dragCol, "size", c.dragSize)
		c.requestRedraw()
	}
	c.longPressDone = false
	c.dragRow, c.dragCol = grid.Unset, grid.Unset
	if c.state != Flinging {
		c.state = Idle
	}
}

func (c *Controller) tap() {
	if c.clickRow == grid.Unset || c.clickCol == grid.Unset {
		return
	}
	hp := c.host.Config().Highlight
	row, col := c.clickRow, c.clickCol

	hr := grid.Unset
	if hp.Row && col == 0 && (row != 0 || hp.FirstCell.AllowsRow()) {
		hr = row
	}
	hc := grid.Unset
	if hp.Column && row == 0 && (col != 0 || hp.FirstCell.AllowsColumn()) {
		hc = col
	}
	if hp.Both && (row == 0 || col == 0) {
		if hr == grid.Unset {
			hr = c.highlightRow
		}
		if hc == grid.Unset {
			hc = c.highlightCol
		}
	}
	c.setHighlight(hr, hc)

	if c.onClick != nil {
		c.onClick(row, col)
	}
}

func (c *Controller) setHighlight(row, col int) {
	if row == c.highlightRow && col == c.highlightCol {
		return
	}
	c.highlightRow, c.highlightCol = row, col
	c.requestRedraw()
}

// dragTarget resolves which row and column a press on the header
// resizes: column-0 presses resize rows, row-0 presses resize columns,
// and the corner follows the first-cell policy.
func (c *Controller) dragTarget(cfg *grid.Config) (row, col int) {
	row, col = grid.Unset, grid.Unset
	dp := cfg.Drag
	if dp.Row != grid.DragNone && c.clickCol == 0 && (c.clickRow != 0 || dp.FirstCell.AllowsRow()) {
		row = c.clickRow
	}
	if dp.Column != grid.DragNone && c.clickRow == 0 && (c.clickCol != 0 || dp.FirstCell.AllowsColumn()) {
		col = c.clickCol
	}
	return row, col
}

// drag applies move to the resized line and reports whether the press
// is a drag-resize. force redraws even when the size did not change.
func (c *Controller) drag(move image.Point, force bool) bool {
	cfg := c.host.Config()
	row, col := c.dragTarget(cfg)
	dp := cfg.Drag
	switch {
	case row == grid.Unset && col == grid.Unset:
		return false
	case row == 0 && col == 0:
		if !c.longPressDone && dp.Row == grid.DragLongPress && dp.Column == grid.DragLongPress {
			return false
		}
	case row != grid.Unset:
		if !c.longPressDone && dp.Row == grid.DragLongPress {
			return false
		}
		col = grid.Unset
	default:
		if !c.longPressDone && dp.Column == grid.DragLongPress {
			return false
		}
		row = grid.Unset
	}

	snap := c.host.Snapshot()
	if (row != grid.Unset && row >= snap.Rows()) || (col != grid.Unset && col >= snap.Columns()) {
		return false
	}
	if !c.dragging {
		c.dragging = true
		c.state = DragResizing
		c.dragRow, c.dragCol = row, col
		c.dragBase = image.Point{}
		if col != grid.Unset {
			c.dragBase.X = snap.ColumnWidth(col)
		}
		if row != grid.Unset {
			c.dragBase.Y = snap.RowHeight(row)
		}
		c.dragSize = c.dragBase
		c.dragMove = image.Point{}
		c.dragLocked = false
		c.log.Debug("gesture: drag started", "row", row, "col", col)
	}

	c.dragMove = c.dragMove.Add(move)
	sz := cfg.Sizing()
	next := c.dragSize
	if c.dragRow != grid.Unset {
		next.Y = sz.ClampRowHeight(c.dragBase.Y + c.dragMove.Y)
	}
	if c.dragCol != grid.Unset {
		next.X = sz.ClampColumnWidth(c.dragBase.X + c.dragMove.X)
	}
	changed := next != c.dragSize
	if changed || !c.dragLocked {
		if c.dragRow != grid.Unset {
			c.host.ResizeRow(c.dragRow, next.Y)
		}
		if c.dragCol != grid.Unset {
			c.host.ResizeColumn(c.dragCol, next.X)
		}
		c.dragLocked = true
		c.dragSize = next
	}
	if changed || force {
		c.requestRedraw()
	}
	return true
}

// ScrollOffset is the current scroll position.
func (c *Controller) ScrollOffset() image.Point { return c.scroll }

// ScrollRange is the total content size.
func (c *Controller) ScrollRange() image.Point { return c.host.Snapshot().ActualSize() }

// ScrollExtent is the visible size.
func (c *Controller) ScrollExtent() image.Point { return c.host.Viewport() }

// CanScrollHorizontally reports whether the content can move in
// direction dir (negative: toward the start).
func (c *Controller) CanScrollHorizontally(dir int) bool {
	maxScroll := c.maxScroll()
	if dir < 0 {
		return c.scroll.X > 0
	}
	return c.scroll.X < maxScroll.X
}

// CanScrollVertically is CanScrollHorizontally for the vertical axis.
// It is always true while drag-resizing so an enclosing container does
// not take over the gesture.
func (c *Controller) CanScrollVertically(dir int) bool {
	if c.dragging {
		return true
	}
	maxScroll := c.maxScroll()
	if dir < 0 {
		return c.scroll.Y > 0
	}
	return c.scroll.Y < maxScroll.Y
}

// ScrollTo moves to (x, y), clamped, and redraws if the offset changed.
func (c *Controller) ScrollTo(x, y int) bool {
	defer c.flush()
	return c.setScroll(image.Pt(x, y))
}

// Reclamp re-clamps the offset after the viewport or content size
// changed. It does not request a redraw.
func (c *Controller) Reclamp() bool {
	next := clampPoint(c.scroll, c.maxScroll())
	changed := next != c.scroll
	c.scroll = next
	return changed
}

func (c *Controller) scrollBy(d image.Point) bool {
	view, actual := c.host.Viewport(), c.host.Snapshot().ActualSize()
	if view.X >= actual.X && view.Y >= actual.Y {
		return false
	}
	return c.setScroll(c.scroll.Add(d))
}

func (c *Controller) setScroll(p image.Point) bool {
	next := clampPoint(p, c.maxScroll())
	if next == c.scroll {
		return false
	}
	c.scroll = next
	c.requestRedraw()
	return true
}

func (c *Controller) maxScroll() image.Point {
	view, actual := c.host.Viewport(), c.host.Snapshot().ActualSize()
	return image.Pt(max(actual.X-view.X, 0), max(actual.Y-view.Y, 0))
}

func clampPoint(p, hi image.Point) image.Point {
	return image.Pt(min(max(p.X, 0), hi.X), min(max(p.Y, 0), hi.Y))
}

func (c *Controller) requestRedraw() { c.redraw = true }

// flush issues at most one redraw per input call.
func (c *Controller) flush() {
	if c.redraw {
		c.redraw = false
		c.host.Redraw()
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
