package tablerender

import (
	"image"

	"github.com/wesen/tablelite/pkg/grid"
	"github.com/wesen/tablelite/pkg/pool"
)

const (
	showCellCapacity  = 64
	showCellReplenish = 0.5
)

// ShowCell describes one cell materialized by the last render pass. It is
// recycled at the start of the next pass and must not be kept.
type ShowCell struct {
	pool.Handle

	Row, Column int
	// Rect is the cell's full rectangle in viewport coordinates.
	Rect image.Rectangle
	// Visible is the part of Rect that was not covered by pinned bands.
	Visible     image.Rectangle
	FixedRow    bool
	FixedColumn bool
}

func newShowCell() *ShowCell {
	return &ShowCell{Row: grid.Unset, Column: grid.Unset}
}

// Reset clears the descriptor before it goes back to the pool.
func (c *ShowCell) Reset() {
	c.Row, c.Column = grid.Unset, grid.Unset
	c.Rect, c.Visible = image.Rectangle{}, image.Rectangle{}
	c.FixedRow, c.FixedColumn = false, false
}
