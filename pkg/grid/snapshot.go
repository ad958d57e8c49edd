package grid

import "image"

// Snapshot is a read-only copy of a Grid published for rendering. Its
// line and arena slices are never mutated after creation; the cells are
// shared with the working grid.
type Snapshot struct {
	version uint64
	g       *Grid
	size    image.Point
}

// NewSnapshot clones g and tags the copy with version.
func NewSnapshot(g *Grid, version uint64) *Snapshot {
	c := g.Clone()
	s := &Snapshot{version: version, g: c}
	for _, r := range c.rows {
		s.size.Y += r.Size
	}
	for _, col := range c.cols {
		s.size.X += col.Size
	}
	return s
}

// EmptySnapshot returns a snapshot of an empty grid at version 0.
func EmptySnapshot() *Snapshot {
	return &Snapshot{g: New()}
}

func (s *Snapshot) Version() uint64 { return s.version }
func (s *Snapshot) Rows() int       { return len(s.g.rows) }
func (s *Snapshot) Columns() int    { return len(s.g.cols) }

func (s *Snapshot) Row(i int) Line    { return s.g.rows[i] }
func (s *Snapshot) Column(j int) Line { return s.g.cols[j] }

func (s *Snapshot) RowHeight(i int) int   { return s.g.rows[i].Size }
func (s *Snapshot) ColumnWidth(j int) int { return s.g.cols[j].Size }

// Cell returns the cell at (row, col), or nil when out of range.
func (s *Snapshot) Cell(row, col int) *Cell { return s.g.Cell(row, col) }

// ActualSize is the total content size: X is the sum of column widths,
// Y the sum of row heights.
func (s *Snapshot) ActualSize() image.Point { return s.size }

// ResolveRowHeight re-resolves row i over all its cells.
func (s *Snapshot) ResolveRowHeight(i int, sz Sizing) int {
	return ResolveRowHeight(s.g, i, 0, len(s.g.cols), sz)
}

// ResolveColumnWidth re-resolves column j over all its cells.
func (s *Snapshot) ResolveColumnWidth(j int, sz Sizing) int {
	return ResolveColumnWidth(s.g, j, 0, len(s.g.rows), sz)
}
