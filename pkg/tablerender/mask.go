package tablerender

import (
	"image"

	"github.com/wesen/tablelite/pkg/grid"
)

// drawMask overlays the highlight or drag mask on a cell in the masked
// row or column. The header corner gets an inset box when row and column
// masks coincide on it; column cells get side edges, row cells get top
// and bottom edges. Drag indicators sit on the header cells.
func drawMask(s Surface, cfg *grid.Config, rect image.Rectangle, row, col int, m MaskState) {
	mr, mc := m.MaskRow(), m.MaskColumn()
	if row != mr && col != mc {
		return
	}
	indicators := cfg.Drag.Indicator && m.Dragging

	switch {
	case mr == mc && row == 0 && col == 0:
		in := inset(rect, 1, 1)
		if in.Empty() {
			return
		}
		s.StrokeRect(in, PaintMaskEdge)
		s.FillRect(in, PaintMaskFill)
		if indicators {
			size, dx, dy := indicatorGeometry(cfg.Drag.CornerIndicator)
			at := image.Pt(in.Min.X-dx, in.Min.Y-dy)
			blit(s, image.Rectangle{Min: at, Max: at.Add(image.Pt(size, size))}, IconCorner)
		}

	case col == mc:
		s.DrawLine(rect.Min, image.Pt(rect.Min.X, rect.Max.Y-1), PaintMaskEdge)
		s.DrawLine(image.Pt(rect.Max.X-1, rect.Min.Y), image.Pt(rect.Max.X-1, rect.Max.Y-1), PaintMaskEdge)
		in := inset(rect, 1, 0)
		if !in.Empty() {
			s.FillRect(in, PaintMaskFill)
		}
		if indicators && row == 0 {
			size, _, dy := indicatorGeometry(cfg.Drag.ColumnIndicator)
			at := image.Pt(rect.Min.X+rect.Dx()/2-size/2, rect.Min.Y-dy)
			blit(s, image.Rectangle{Min: at, Max: at.Add(image.Pt(size, size))}, IconColumn)
		}

	case row == mr:
		s.DrawLine(rect.Min, image.Pt(rect.Max.X-1, rect.Min.Y), PaintMaskEdge)
		s.DrawLine(image.Pt(rect.Min.X, rect.Max.Y-1), image.Pt(rect.Max.X-1, rect.Max.Y-1), PaintMaskEdge)
		in := inset(rect, 0, 1)
		if !in.Empty() {
			s.FillRect(in, PaintMaskFill)
		}
		if indicators && col == 0 {
			size, dx, _ := indicatorGeometry(cfg.Drag.RowIndicator)
			at := image.Pt(rect.Min.X-dx, rect.Min.Y+rect.Dy()/2-size/2)
			blit(s, image.Rectangle{Min: at, Max: at.Add(image.Pt(size, size))}, IconRow)
		}
	}
}

func blit(s Surface, r image.Rectangle, ic Icon) {
	if !r.Empty() {
		s.Blit(r, ic)
	}
}

// indicatorGeometry applies the defaults for unset indicator fields: one
// unit in size, no offset.
func indicatorGeometry(in grid.Indicator) (size, dx, dy int) {
	size, dx, dy = in.Size, in.OffsetX, in.OffsetY
	if size == grid.Unset {
		size = 1
	}
	if dx == grid.Unset {
		dx = 0
	}
	if dy == grid.Unset {
		dy = 0
	}
	return size, dx, dy
}

func inset(r image.Rectangle, dx, dy int) image.Rectangle {
	r.Min.X += dx
	r.Max.X -= dx
	r.Min.Y += dy
	r.Max.Y -= dy
	if r.Empty() {
		return image.Rectangle{}
	}
	return r
}
