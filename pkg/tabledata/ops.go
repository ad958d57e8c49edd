package tabledata

import (
	"math"
	"slices"

	"github.com/wesen/tablelite/pkg/grid"
)

// SetNewData replaces the table with rows×cols cells from the factory.
// A non-positive count clears the table.
func (s *Store) SetNewData(rows, cols int) {
	if rows <= 0 || cols <= 0 {
		s.Clear()
		return
	}
	s.enqueue("set-new-data", func(g *grid.Grid, f grid.CellFactory) {
		g.Reset(rows, cols, f)
		sz := s.cfg.Sizing()
		for i := range g.Rows() {
			g.SetRow(i, grid.Line{Size: grid.ResolveRowHeight(g, i, 0, g.Columns(), sz)})
		}
		for j := range g.Columns() {
			g.SetColumn(j, grid.Line{Size: grid.ResolveColumnWidth(g, j, 0, g.Rows(), sz)})
		}
	})
}

// AddRowData inserts count rows before pos. pos is clamped into
// [0, rows] when the mutation runs.
func (s *Store) AddRowData(count, pos int) {
	if count <= 0 {
		return
	}
	s.enqueue("add-rows", func(g *grid.Grid, f grid.CellFactory) {
		pos := g.InsertRows(pos, count, f)
		sz := s.cfg.Sizing()
		for i := pos; i < pos+count; i++ {
			resolveRow(g, i, sz)
		}
		for j := range g.Columns() {
			w := grid.ResolveColumnWidth(g, j, pos, pos+count, sz)
			widenColumn(g, j, w)
		}
	})
}

// AppendRows adds count rows after the last row.
func (s *Store) AppendRows(count int) { s.AddRowData(count, math.MaxInt) }

// AddColumnData inserts count columns before pos, clamped like
// AddRowData.
func (s *Store) AddColumnData(count, pos int) {
	if count <= 0 {
		return
	}
	s.enqueue("add-columns", func(g *grid.Grid, f grid.CellFactory) {
		pos := g.InsertColumns(pos, count, f)
		sz := s.cfg.Sizing()
		for j := pos; j < pos+count; j++ {
			resolveColumn(g, j, sz)
		}
		for i := range g.Rows() {
			h := grid.ResolveRowHeight(g, i, pos, pos+count, sz)
			widenRow(g, i, h)
		}
	})
}

// AppendColumns adds count columns after the last column.
func (s *Store) AppendColumns(count int) { s.AddColumnData(count, math.MaxInt) }

// DeleteRows removes rows by their positions before the call. Invalid
// positions are skipped.
func (s *Store) DeleteRows(positions ...int) {
	if len(positions) == 0 {
		return
	}
	positions = slices.Clone(positions)
	s.enqueue("delete-rows", func(g *grid.Grid, _ grid.CellFactory) {
		if g.DeleteRows(positions...) > 0 {
			resolveAllColumns(g, s.cfg.Sizing())
		}
	})
}

// DeleteRowRange removes rows [start, end). Ranges outside
// 0 <= start < end <= rows are ignored.
func (s *Store) DeleteRowRange(start, end int) {
	s.enqueue("delete-row-range", func(g *grid.Grid, _ grid.CellFactory) {
		if g.DeleteRowRange(start, end) {
			resolveAllColumns(g, s.cfg.Sizing())
		}
	})
}

// DeleteColumns removes columns by their positions before the call.
func (s *Store) DeleteColumns(positions ...int) {
	if len(positions) == 0 {
		return
	}
	positions = slices.Clone(positions)
	s.enqueue("delete-columns", func(g *grid.Grid, _ grid.CellFactory) {
		if g.DeleteColumns(positions...) > 0 {
			resolveAllRows(g, s.cfg.Sizing())
		}
	})
}

// DeleteColumnRange removes columns [start, end).
func (s *Store) DeleteColumnRange(start, end int) {
	s.enqueue("delete-column-range", func(g *grid.Grid, _ grid.CellFactory) {
		if g.DeleteColumnRange(start, end) {
			resolveAllRows(g, s.cfg.Sizing())
		}
	})
}

// SwapRow exchanges two rows together with their sizes.
func (s *Store) SwapRow(from, to int) {
	s.enqueue("swap-row", func(g *grid.Grid, _ grid.CellFactory) {
		g.SwapRows(from, to)
	})
}

// SwapColumn exchanges two columns together with their sizes.
func (s *Store) SwapColumn(from, to int) {
	s.enqueue("swap-column", func(g *grid.Grid, _ grid.CellFactory) {
		g.SwapColumns(from, to)
	})
}

// Clear removes all rows and columns.
func (s *Store) Clear() {
	s.enqueue("clear", func(g *grid.Grid, _ grid.CellFactory) {
		g.Clear()
	})
}

// ResizeRow sets the height of row, clamped to the sizing bounds, and
// locks it against content-driven resizing.
func (s *Store) ResizeRow(row, height int) {
	s.enqueue("resize-row", func(g *grid.Grid, _ grid.CellFactory) {
		if row < 0 || row >= g.Rows() {
			return
		}
		g.SetRow(row, grid.Line{Size: s.cfg.Sizing().ClampRowHeight(height), Locked: true})
	})
}

// ResizeColumn sets the width of col, clamped, and locks it.
func (s *Store) ResizeColumn(col, width int) {
	s.enqueue("resize-column", func(g *grid.Grid, _ grid.CellFactory) {
		if col < 0 || col >= g.Columns() {
			return
		}
		g.SetColumn(col, grid.Line{Size: s.cfg.Sizing().ClampColumnWidth(width), Locked: true})
	})
}

// UnlockRow clears the lock on row and resolves it from content again.
func (s *Store) UnlockRow(row int) {
	s.enqueue("unlock-row", func(g *grid.Grid, _ grid.CellFactory) {
		if row < 0 || row >= g.Rows() {
			return
		}
		g.SetRow(row, grid.Line{Size: g.Row(row).Size})
		resolveRow(g, row, s.cfg.Sizing())
	})
}

// UnlockColumn clears the lock on col and resolves it from content again.
func (s *Store) UnlockColumn(col int) {
	s.enqueue("unlock-column", func(g *grid.Grid, _ grid.CellFactory) {
		if col < 0 || col >= g.Columns() {
			return
		}
		g.SetColumn(col, grid.Line{Size: g.Column(col).Size})
		resolveColumn(g, col, s.cfg.Sizing())
	})
}

// Remeasure re-resolves the row and column through one cell, after its
// payload changed. Locked lines keep their size. Out-of-range indices
// are skipped per axis.
func (s *Store) Remeasure(row, col int) {
	s.enqueue("remeasure", func(g *grid.Grid, _ grid.CellFactory) {
		sz := s.cfg.Sizing()
		if row >= 0 && row < g.Rows() {
			resolveRow(g, row, sz)
		}
		if col >= 0 && col < g.Columns() {
			resolveColumn(g, col, sz)
		}
	})
}

// Relayout re-resolves every row and column, for example after the
// global sizing changed.
func (s *Store) Relayout() {
	s.enqueue("relayout", func(g *grid.Grid, _ grid.CellFactory) {
		sz := s.cfg.Sizing()
		resolveAllRows(g, sz)
		resolveAllColumns(g, sz)
	})
}

func resolveRow(g *grid.Grid, i int, sz grid.Sizing) {
	l := g.Row(i)
	l.Size = grid.ResolveRowHeight(g, i, 0, g.Columns(), sz)
	g.SetRow(i, l)
}

func resolveColumn(g *grid.Grid, j int, sz grid.Sizing) {
	l := g.Column(j)
	l.Size = grid.ResolveColumnWidth(g, j, 0, g.Rows(), sz)
	g.SetColumn(j, l)
}

func resolveAllRows(g *grid.Grid, sz grid.Sizing) {
	for i := range g.Rows() {
		resolveRow(g, i, sz)
	}
}

func resolveAllColumns(g *grid.Grid, sz grid.Sizing) {
	for j := range g.Columns() {
		resolveColumn(g, j, sz)
	}
}

// widenColumn applies w to a column that has no size yet, or grows one
// that has.
func widenColumn(g *grid.Grid, j, w int) {
	l := g.Column(j)
	if l.Size == grid.Unset || w > l.Size {
		l.Size = w
		g.SetColumn(j, l)
	}
}

func widenRow(g *grid.Grid, i, h int) {
	l := g.Row(i)
	if l.Size == grid.Unset || h > l.Size {
		l.Size = h
		g.SetRow(i, l)
	}
}
