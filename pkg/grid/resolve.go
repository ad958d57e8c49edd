package grid

// Sizing holds the global size overrides and clamps. Any field may be
// Unset; the minimums are always applied.
type Sizing struct {
	MinRowHeight   int `toml:"min_row_height"`
	MaxRowHeight   int `toml:"max_row_height"`
	MinColumnWidth int `toml:"min_column_width"`
	MaxColumnWidth int `toml:"max_column_width"`
	RowHeight      int `toml:"row_height"`
	ColumnWidth    int `toml:"column_width"`
}

// DefaultSizing returns one-unit minimums and no maximums or overrides.
func DefaultSizing() Sizing {
	return Sizing{
		MinRowHeight:   1,
		MaxRowHeight:   Unset,
		MinColumnWidth: 1,
		MaxColumnWidth: Unset,
		RowHeight:      Unset,
		ColumnWidth:    Unset,
	}
}

// ClampRowHeight bounds h to [MinRowHeight, MaxRowHeight].
func (s Sizing) ClampRowHeight(h int) int {
	return clampSize(h, s.MinRowHeight, s.MaxRowHeight)
}

// ClampColumnWidth bounds w to [MinColumnWidth, MaxColumnWidth].
func (s Sizing) ClampColumnWidth(w int) int {
	return clampSize(w, s.MinColumnWidth, s.MaxColumnWidth)
}

func clampSize(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if hi != Unset && v > hi {
		return hi
	}
	return v
}

// ResolveRowHeight computes the height of row over the cells in columns
// [start, end). A locked row keeps its stored height. Otherwise each cell
// contributes its explicit height, else the global row height, else its
// measured height when both are unset; the maximum is clamped.
func ResolveRowHeight(g *Grid, row, start, end int, s Sizing) int {
	line := g.rows[row]
	if line.Locked {
		return line.Size
	}
	h := 0
	cells := g.cells[row]
	for j := max(start, 0); j < end && j < len(cells); j++ {
		h = max(h, cellExtent(cells[j].Height(), s.RowHeight, cells[j].MeasureHeight))
	}
	return s.ClampRowHeight(h)
}

// ResolveColumnWidth is ResolveRowHeight for column over rows
// [start, end).
func ResolveColumnWidth(g *Grid, col, start, end int, s Sizing) int {
	line := g.cols[col]
	if line.Locked {
		return line.Size
	}
	w := 0
	for i := max(start, 0); i < end && i < len(g.cells); i++ {
		c := g.cells[i][col]
		w = max(w, cellExtent(c.Width(), s.ColumnWidth, c.MeasureWidth))
	}
	return s.ClampColumnWidth(w)
}

func cellExtent(own, global int, measure func() int) int {
	switch {
	case own == Unset && global == Unset:
		return measure()
	case own != Unset:
		return own
	default:
		return global
	}
}
