package tablerender

import (
	"fmt"
	"image"
	"slices"

	"github.com/wesen/tablelite/pkg/grid"
	"github.com/wesen/tablelite/pkg/pool"
)

// Renderer computes cell geometry for a snapshot and paints the visible
// cells. It is not safe for concurrent use; the host calls it from its
// UI goroutine.
type Renderer struct {
	table   Table
	painter Painter
	pool    *pool.Pool[*ShowCell]
	cells   []*ShowCell
	actual  image.Point
}

// NewRenderer creates a renderer that hands t to painter for every cell.
// A nil painter lays out cells without drawing their content.
func NewRenderer(t Table, painter Painter) *Renderer {
	return &Renderer{
		table:   t,
		painter: painter,
		pool:    pool.New(newShowCell, showCellCapacity, showCellReplenish),
	}
}

func (r *Renderer) SetPainter(p Painter) { r.painter = p }

// ShowCells returns the cells of the last pass in lookup priority order.
// The slice and its elements are reused by the next pass.
func (r *Renderer) ShowCells() []*ShowCell { return r.cells }

// CellAt returns the highest-priority visible cell containing p, or nil.
func (r *Renderer) CellAt(p image.Point) *ShowCell {
	for _, c := range r.cells {
		if p.In(c.Visible) {
			return c
		}
	}
	return nil
}

// Find returns the first recorded descriptor of (row, col), or nil when
// the cell was not materialized.
func (r *Renderer) Find(row, col int) *ShowCell {
	for _, c := range r.cells {
		if c.Row == row && c.Column == col {
			return c
		}
	}
	return nil
}

// ActualSize is the total table size seen by the last pass.
func (r *Renderer) ActualSize() image.Point { return r.actual }

// Render lays out and paints snap into a viewport of the given size at
// the given scroll offset. It reports false, drawing nothing, when the
// table or the viewport is empty.
func (r *Renderer) Render(s Surface, snap *grid.Snapshot, size, scroll image.Point, mask MaskState) bool {
	if snap == nil {
		return false
	}
	r.recycle()
	r.actual = snap.ActualSize()
	if snap.Rows() == 0 || snap.Columns() == 0 || size.X <= 0 || size.Y <= 0 {
		return false
	}

	p := &pass{
		r:      r,
		s:      s,
		snap:   snap,
		cfg:    r.table.Config(),
		size:   size,
		scroll: scroll,
		mask:   mask,
		clip:   image.Rectangle{Max: size},
	}
	p.planLeft()
	p.planRight()

	top := p.rowsTop()
	bottom := p.rowsBottom(top)
	if top+bottom >= size.Y {
		return true
	}
	p.pinnedColumns(top, bottom)
	if p.leftW+p.rightW >= size.X {
		return true
	}
	p.free(top, bottom)
	return true
}

// RepaintCell draws the cell sc describes again, limited to its visible
// part, on top of a surface that still holds the rest of the frame.
func (r *Renderer) RepaintCell(s Surface, snap *grid.Snapshot, sc *ShowCell, mask MaskState) {
	c := snap.Cell(sc.Row, sc.Column)
	if c == nil || sc.Visible.Empty() {
		return
	}
	s.PushClip(sc.Visible)
	s.FillRect(sc.Visible, PaintBackground)
	if r.painter != nil {
		r.painter.OnCellDraw(r.table, s, c, sc.Rect, sc.Row, sc.Column)
	}
	drawMask(s, r.table.Config(), sc.Rect, sc.Row, sc.Column, mask)
	s.PopClip()
}

func (r *Renderer) recycle() {
	if err := r.pool.ReleaseAll(r.cells); err != nil {
		panic(fmt.Sprintf("tablerender: recycling show cells: %v", err))
	}
	clear(r.cells)
	r.cells = r.cells[:0]
}

// placed is a pinned column and its horizontal extent in the viewport.
type placed struct {
	index  int
	x0, x1 int
}

// pass holds the state of one Render call.
type pass struct {
	r      *Renderer
	s      Surface
	snap   *grid.Snapshot
	cfg    *grid.Config
	size   image.Point
	scroll image.Point
	mask   MaskState

	clip  image.Rectangle
	clips []image.Rectangle

	left, right   []placed
	leftW, rightW int
}

func (p *pass) push(r image.Rectangle) {
	p.clips = append(p.clips, p.clip)
	p.clip = p.clip.Intersect(r)
	p.s.PushClip(r)
}

func (p *pass) pop() {
	p.s.PopClip()
	p.clip = p.clips[len(p.clips)-1]
	p.clips = p.clips[:len(p.clips)-1]
}

func (p *pass) cell(row, col int, rect image.Rectangle, fixedRow, fixedCol bool) {
	p.push(rect)
	sc := p.r.pool.Acquire()
	sc.Row, sc.Column = row, col
	sc.Rect, sc.Visible = rect, p.clip
	sc.FixedRow, sc.FixedColumn = fixedRow, fixedCol
	p.r.cells = append(p.r.cells, sc)

	if p.r.painter != nil {
		p.r.painter.OnCellDraw(p.r.table, p.s, p.snap.Cell(row, col), rect, row, col)
	}
	drawMask(p.s, p.cfg, rect, row, col, p.mask)
	p.pop()
}

// planLeft places the left-pinned columns. A pin is kept while its
// natural left edge does not start past the band already claimed; the
// first one that does ends the band.
func (p *pass) planLeft() {
	natural, prev := -p.scroll.X, 0
	for _, col := range p.cfg.ColumnPins(grid.Left) {
		if col >= p.snap.Columns() {
			break
		}
		for j := prev; j < col; j++ {
			natural += p.snap.ColumnWidth(j)
		}
		if natural > p.leftW {
			break
		}
		prev = col
		w := p.snap.ColumnWidth(col)
		p.left = append(p.left, placed{index: col, x0: p.leftW, x1: p.leftW + w})
		p.leftW += w
	}
}

// planRight places the right-pinned columns from the right edge inward,
// only when the table is wider than the viewport. A pin is kept while
// its natural right edge reaches the claimed band and free space remains
// beside the left band.
func (p *pass) planRight() {
	if p.snap.ActualSize().X <= p.size.X {
		return
	}
	pins := p.cfg.ColumnPins(grid.Right)
	fromRight, prev := p.scroll.X, p.snap.Columns()-1
	for _, col := range slices.Backward(pins) {
		if col >= p.snap.Columns() {
			continue
		}
		for j := prev; j > col; j-- {
			fromRight += p.snap.ColumnWidth(j)
		}
		free := p.size.X - p.rightW
		if p.snap.ActualSize().X-fromRight < free || free <= p.leftW {
			break
		}
		prev = col
		w := p.snap.ColumnWidth(col)
		p.right = append(p.right, placed{index: col, x0: free - w, x1: free})
		p.rightW += w
	}
}

// rowsTop draws the top-pinned rows and returns the band height. Row 0
// is pinned implicitly while column highlighting or column dragging is
// enabled, so the header stays reachable.
func (p *pass) rowsTop() int {
	pins := p.cfg.RowPins(grid.Top)
	if (p.cfg.Highlight.Column || p.cfg.Drag.Column != grid.DragNone) && !slices.Contains(pins, 0) {
		pins = slices.Insert(pins, 0, 0)
	}
	band := 0
	natural, prev := -p.scroll.Y, 0
	for _, row := range pins {
		if row >= p.snap.Rows() {
			break
		}
		for i := prev; i < row; i++ {
			natural += p.snap.RowHeight(i)
		}
		if natural > band {
			break
		}
		prev = row
		h := p.snap.RowHeight(row)
		p.pinnedRow(row, band, band+h)
		band += h
	}
	return band
}

// rowsBottom draws the bottom-pinned rows from the bottom edge upward,
// only when the table is taller than the viewport, and returns the band
// height. A row that would reach into the top band is clipped to it.
func (p *pass) rowsBottom(top int) int {
	actual := p.snap.ActualSize().Y
	if actual <= p.size.Y {
		return 0
	}
	pins := p.cfg.RowPins(grid.Bottom)
	band := 0
	fromBottom, prev := p.scroll.Y, p.snap.Rows()-1
	for _, row := range slices.Backward(pins) {
		if row >= p.snap.Rows() {
			continue
		}
		for i := prev; i > row; i-- {
			fromBottom += p.snap.RowHeight(i)
		}
		free := p.size.Y - band
		if actual-fromBottom < free || free <= top {
			break
		}
		prev = row
		h := p.snap.RowHeight(row)
		y0 := free - h
		clipped := y0 < top
		if clipped {
			p.push(image.Rect(0, top, p.size.X, free))
		}
		p.pinnedRow(row, y0, free)
		if clipped {
			p.pop()
		}
		band += h
	}
	return band
}

// pinnedRow draws one pinned row between y0 and y1: its pinned columns
// first, then the scrolled cells between the column bands.
func (p *pass) pinnedRow(row, y0, y1 int) {
	for _, c := range p.left {
		p.cell(row, c.index, image.Rect(c.x0, y0, c.x1, y1), true, true)
	}
	for _, c := range p.right {
		p.cell(row, c.index, image.Rect(c.x0, y0, c.x1, y1), true, true)
	}
	if p.leftW+p.rightW >= p.size.X {
		return
	}

	x1 := p.size.X - p.rightW
	p.push(image.Rect(p.leftW, y0, x1, y1))
	x := -p.scroll.X
	for j := range p.snap.Columns() {
		if x >= x1 {
			break
		}
		w := p.snap.ColumnWidth(j)
		if x+w > p.leftW {
			p.cell(row, j, image.Rect(x, y0, x+w, y1), true, false)
		}
		x += w
	}
	p.pop()
}

// pinnedColumns draws the pinned columns for the rows between the top
// and bottom bands.
func (p *pass) pinnedColumns(top, bottom int) {
	y1 := p.size.Y - bottom
	for _, c := range p.left {
		p.columnBand(c, top, y1)
	}
	for _, c := range p.right {
		p.columnBand(c, top, y1)
	}
}

func (p *pass) columnBand(c placed, y0, y1 int) {
	p.push(image.Rect(c.x0, y0, c.x1, y1))
	y := -p.scroll.Y
	for i := range p.snap.Rows() {
		if y >= y1 {
			break
		}
		h := p.snap.RowHeight(i)
		if y+h > y0 {
			p.cell(i, c.index, image.Rect(c.x0, y, c.x1, y+h), false, true)
		}
		y += h
	}
	p.pop()
}

// free draws the scrolled cells inside all four bands. Rows and columns
// that end before a band or start past the viewport are skipped.
func (p *pass) free(top, bottom int) {
	x1, y1 := p.size.X-p.rightW, p.size.Y-bottom
	p.push(image.Rect(p.leftW, top, x1, y1))
	y := -p.scroll.Y
	for i := range p.snap.Rows() {
		if y >= y1 {
			break
		}
		h := p.snap.RowHeight(i)
		if y+h <= top {
			y += h
			continue
		}
		x := -p.scroll.X
		for j := range p.snap.Columns() {
			if x >= x1 {
				break
			}
			w := p.snap.ColumnWidth(j)
			if x+w > p.leftW {
				p.cell(i, j, image.Rect(x, y, x+w, y+h), false, false)
			}
			x += w
		}
		y += h
	}
	p.pop()
}
