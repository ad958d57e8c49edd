package tableui

import (
	"fmt"
	"image"

	"github.com/wesen/tablelite/internal/cellscript"
	"github.com/wesen/tablelite/pkg/grid"
	"github.com/wesen/tablelite/pkg/tablerender"
)

// cellPainter draws a cell as padded text with a rule on its right edge.
// Row 0 and column 0 are headers; other pinned lines get their own
// background.
type cellPainter struct{}

func (cellPainter) OnCellDraw(t tablerender.Table, s tablerender.Surface, cell *grid.Cell, rect image.Rectangle, row, col int) {
	cfg := t.Config()
	role := paintCell
	_, rowPinned := cfg.RowPin(row)
	_, colPinned := cfg.ColumnPin(col)
	switch {
	case row == 0 || col == 0:
		role = paintHeader
	case rowPinned || colPinned:
		role = paintPinned
	}
	s.FillRect(rect, role)

	var lines []string
	switch d := cell.Data().(type) {
	case grid.Text:
		lines = d.Lines()
	case nil:
	default:
		lines = []string{fmt.Sprint(d)}
	}
	textRole := role
	if len(lines) == 1 && lines[0] == cellscript.ErrorText {
		textRole = paintError
	}
	for i, line := range lines {
		s.DrawText(image.Pt(rect.Min.X+1, rect.Min.Y+i), line, textRole)
	}

	if rect.Dx() > 1 {
		x := rect.Max.X - 1
		s.DrawLine(image.Pt(x, rect.Min.Y), image.Pt(x, rect.Max.Y-1), paintRule)
	}
}
