package grid

import (
	"fmt"
	"slices"
)

// Line is the resolved size of one row (height) or column (width).
// Locked is set once a user drag fixed the size; content-driven resolution
// then returns Size unchanged until the line is explicitly unlocked.
type Line struct {
	Size   int
	Locked bool
}

// Grid is the mutable table model. It is not safe for concurrent use; the
// data store confines it to a single worker goroutine.
type Grid struct {
	rows  []Line
	cols  []Line
	cells [][]*Cell // [row][col]
}

// New returns an empty grid.
func New() *Grid {
	return &Grid{}
}

func (g *Grid) Rows() int    { return len(g.rows) }
func (g *Grid) Columns() int { return len(g.cols) }

func (g *Grid) Row(i int) Line    { return g.rows[i] }
func (g *Grid) Column(j int) Line { return g.cols[j] }

func (g *Grid) SetRow(i int, l Line)    { g.rows[i] = l }
func (g *Grid) SetColumn(j int, l Line) { g.cols[j] = l }

// Cell returns the cell at (row, col), or nil when out of range.
func (g *Grid) Cell(row, col int) *Cell {
	if row < 0 || row >= len(g.rows) || col < 0 || col >= len(g.cols) {
		return nil
	}
	return g.cells[row][col]
}

// Reset replaces the whole grid with rows×cols cells from f.
func (g *Grid) Reset(rows, cols int, f CellFactory) {
	g.Clear()
	if rows <= 0 || cols <= 0 {
		return
	}
	g.cols = make([]Line, cols)
	for j := range g.cols {
		g.cols[j] = Line{Size: Unset}
	}
	g.rows = make([]Line, rows)
	g.cells = make([][]*Cell, rows)
	for i := range g.rows {
		g.rows[i] = Line{Size: Unset}
		g.cells[i] = make([]*Cell, cols)
		for j := range cols {
			g.cells[i][j] = f.Get(i, j)
		}
	}
}

// InsertRows inserts n rows before pos, which is clamped into
// [0, Rows()]. Cells come from f, keyed by their new position. It returns
// the clamped position.
func (g *Grid) InsertRows(pos, n int, f CellFactory) int {
	pos = clampInsert(pos, len(g.rows))
	if n <= 0 {
		return pos
	}
	lines := make([]Line, n)
	block := make([][]*Cell, n)
	for k := range n {
		lines[k] = Line{Size: Unset}
		row := make([]*Cell, len(g.cols))
		for j := range row {
			row[j] = f.Get(pos+k, j)
		}
		block[k] = row
	}
	g.rows = slices.Insert(g.rows, pos, lines...)
	g.cells = slices.Insert(g.cells, pos, block...)
	return pos
}

// InsertColumns inserts n columns before pos, clamped into
// [0, Columns()]. It returns the clamped position.
func (g *Grid) InsertColumns(pos, n int, f CellFactory) int {
	pos = clampInsert(pos, len(g.cols))
	if n <= 0 {
		return pos
	}
	lines := make([]Line, n)
	for k := range lines {
		lines[k] = Line{Size: Unset}
	}
	g.cols = slices.Insert(g.cols, pos, lines...)
	for i := range g.cells {
		added := make([]*Cell, n)
		for k := range added {
			added[k] = f.Get(i, pos+k)
		}
		g.cells[i] = slices.Insert(g.cells[i], pos, added...)
	}
	return pos
}

// DeleteRows removes the rows at positions. Positions refer to the grid
// before the call; out-of-range and duplicate positions are skipped. It
// returns the number of rows removed.
func (g *Grid) DeleteRows(positions ...int) int {
	drop := validSet(positions, len(g.rows))
	if len(drop) == 0 {
		return 0
	}
	keepRows := g.rows[:0]
	keepCells := g.cells[:0]
	for i := range g.rows {
		if _, ok := drop[i]; ok {
			continue
		}
		keepRows = append(keepRows, g.rows[i])
		keepCells = append(keepCells, g.cells[i])
	}
	clear(g.cells[len(keepCells):])
	g.rows, g.cells = keepRows, keepCells
	return len(drop)
}

// DeleteRowRange removes rows [start, end). It is a no-op unless
// 0 <= start < end <= Rows().
func (g *Grid) DeleteRowRange(start, end int) bool {
	if !validRange(start, end, len(g.rows)) {
		return false
	}
	g.rows = slices.Delete(g.rows, start, end)
	g.cells = slices.Delete(g.cells, start, end)
	return true
}

// DeleteColumns removes the columns at positions, interpreted like
// DeleteRows. It returns the number of columns removed.
func (g *Grid) DeleteColumns(positions ...int) int {
	drop := validSet(positions, len(g.cols))
	if len(drop) == 0 {
		return 0
	}
	keep := func(j int) bool { _, ok := drop[j]; return !ok }
	g.cols = filterIndex(g.cols, keep)
	for i := range g.cells {
		g.cells[i] = filterIndex(g.cells[i], keep)
	}
	return len(drop)
}

// DeleteColumnRange removes columns [start, end). It is a no-op unless
// 0 <= start < end <= Columns().
func (g *Grid) DeleteColumnRange(start, end int) bool {
	if !validRange(start, end, len(g.cols)) {
		return false
	}
	g.cols = slices.Delete(g.cols, start, end)
	for i := range g.cells {
		g.cells[i] = slices.Delete(g.cells[i], start, end)
	}
	return true
}

// SwapRows exchanges two rows. Invalid indices or from == to are no-ops.
func (g *Grid) SwapRows(from, to int) bool {
	n := len(g.rows)
	if from < 0 || from >= n || to < 0 || to >= n || from == to {
		return false
	}
	g.rows[from], g.rows[to] = g.rows[to], g.rows[from]
	g.cells[from], g.cells[to] = g.cells[to], g.cells[from]
	return true
}

// SwapColumns exchanges two columns. Invalid indices or from == to are
// no-ops.
func (g *Grid) SwapColumns(from, to int) bool {
	n := len(g.cols)
	if from < 0 || from >= n || to < 0 || to >= n || from == to {
		return false
	}
	g.cols[from], g.cols[to] = g.cols[to], g.cols[from]
	for _, row := range g.cells {
		row[from], row[to] = row[to], row[from]
	}
	return true
}

// Clear removes every row and column.
func (g *Grid) Clear() {
	g.rows, g.cols, g.cells = nil, nil, nil
}

// Clone copies the line and arena slices. Cells are shared.
func (g *Grid) Clone() *Grid {
	c := &Grid{
		rows:  slices.Clone(g.rows),
		cols:  slices.Clone(g.cols),
		cells: make([][]*Cell, len(g.cells)),
	}
	for i, row := range g.cells {
		c.cells[i] = slices.Clone(row)
	}
	return c
}

// CheckSymmetry verifies that every row holds one cell per column. An
// empty grid must have neither rows nor columns with cells.
func (g *Grid) CheckSymmetry() error {
	if len(g.cells) != len(g.rows) {
		return fmt.Errorf("grid: %d rows but %d cell rows", len(g.rows), len(g.cells))
	}
	for i, row := range g.cells {
		if len(row) != len(g.cols) {
			return fmt.Errorf("grid: row %d has %d cells, want %d", i, len(row), len(g.cols))
		}
		for j, c := range row {
			if c == nil {
				return fmt.Errorf("grid: nil cell at (%d,%d)", i, j)
			}
		}
	}
	return nil
}

func clampInsert(pos, n int) int {
	if pos < 0 {
		return 0
	}
	if pos > n {
		return n
	}
	return pos
}

func validRange(start, end, n int) bool {
	return start >= 0 && start < n && end > start && end <= n
}

func validSet(positions []int, n int) map[int]struct{} {
	set := make(map[int]struct{}, len(positions))
	for _, p := range positions {
		if p >= 0 && p < n {
			set[p] = struct{}{}
		}
	}
	return set
}

func filterIndex[T any](s []T, keep func(int) bool) []T {
	out := make([]T, 0, len(s))
	for i, v := range s {
		if keep(i) {
			out = append(out, v)
		}
	}
	return out
}
