// Package tablerender lays out the visible cells of a table snapshot and
// draws them onto a host surface. Pinned rows and columns are drawn
// first, so cells are recorded in lookup priority order: pinned on both
// axes, then row-pinned, then column-pinned, then free.
package tablerender

import (
	"image"

	"github.com/wesen/tablelite/pkg/grid"
)

// Paint names a drawing role. The host maps roles to concrete colors or
// styles. Painters may use values from PaintUser upward.
type Paint int

const (
	PaintBackground Paint = iota
	PaintMaskFill
	PaintMaskEdge
	PaintIndicator

	PaintUser Paint = 16
)

// Icon is a drag indicator image.
type Icon int

const (
	IconRow Icon = iota
	IconColumn
	IconCorner
)

// Surface is the host's drawing target. Coordinates are relative to the
// table's viewport. PushClip intersects r with the current clip; every
// drawing call is limited to the current clip.
type Surface interface {
	PushClip(r image.Rectangle)
	PopClip()
	FillRect(r image.Rectangle, p Paint)
	StrokeRect(r image.Rectangle, p Paint)
	DrawLine(a, b image.Point, p Paint)
	DrawText(at image.Point, s string, p Paint)
	Blit(r image.Rectangle, ic Icon)
}

// Table is the read-only view handed to painters.
type Table interface {
	Snapshot() *grid.Snapshot
	Config() *grid.Config
}

// Painter draws one cell. rect is the cell's full rectangle, which may
// extend past the visible clip; it must not be retained.
type Painter interface {
	OnCellDraw(t Table, s Surface, c *grid.Cell, rect image.Rectangle, row, col int)
}

// PainterFunc adapts a function to Painter.
type PainterFunc func(t Table, s Surface, c *grid.Cell, rect image.Rectangle, row, col int)

func (f PainterFunc) OnCellDraw(t Table, s Surface, c *grid.Cell, rect image.Rectangle, row, col int) {
	f(t, s, c, rect, row, col)
}

// MaskState is the highlight and drag selection the renderer overlays.
// Indices are grid.Unset when nothing is selected.
type MaskState struct {
	HighlightRow    int
	HighlightColumn int
	DragRow         int
	DragColumn      int
	Dragging        bool
}

// NoMask returns a state with nothing selected.
func NoMask() MaskState {
	return MaskState{
		HighlightRow:    grid.Unset,
		HighlightColumn: grid.Unset,
		DragRow:         grid.Unset,
		DragColumn:      grid.Unset,
	}
}

// MaskRow is the row to overlay: the dragged row while dragging, the
// highlighted row otherwise.
func (m MaskState) MaskRow() int {
	if m.Dragging {
		return m.DragRow
	}
	return m.HighlightRow
}

// MaskColumn is MaskRow for columns.
func (m MaskState) MaskColumn() int {
	if m.Dragging {
		return m.DragColumn
	}
	return m.HighlightColumn
}
