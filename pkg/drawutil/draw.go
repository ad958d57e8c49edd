package drawutil

import "image"

// Plot writes one glyph. Implementations clip.
type Plot func(p image.Point, ch rune)

// BoxStyle is the set of glyphs for a rectangle outline.
type BoxStyle struct {
	H, V                    rune
	TopLeft, TopRight       rune
	BottomLeft, BottomRight rune
}

var (
	LightBox = BoxStyle{H: '─', V: '│', TopLeft: '┌', TopRight: '┐', BottomLeft: '└', BottomRight: '┘'}
	HeavyBox = BoxStyle{H: '━', V: '┃', TopLeft: '┏', TopRight: '┓', BottomLeft: '┗', BottomRight: '┛'}
)

func pointChar(pts []image.Point, i int) rune {
	var d image.Point
	if i < len(pts)-1 {
		d = pts[i+1].Sub(pts[i])
	} else if i > 0 {
		d = pts[i].Sub(pts[i-1])
	}
	return LineChar(d.X, d.Y)
}

// DrawLine plots a Bresenham line from a to b inclusive, choosing each
// glyph from the local direction.
func DrawLine(plot Plot, a, b image.Point) {
	pts := Bresenham(a, b)
	for i, p := range pts {
		plot(p, pointChar(pts, i))
	}
}

// DrawDashedLine is DrawLine with every third point skipped.
func DrawDashedLine(plot Plot, a, b image.Point) {
	pts := Bresenham(a, b)
	for i, p := range pts {
		if i%3 != 2 {
			plot(p, pointChar(pts, i))
		}
	}
}

// StrokeBox outlines r on its inner edge cells. Rectangles one cell
// high or wide degrade to a single line.
func StrokeBox(plot Plot, r image.Rectangle, st BoxStyle) {
	if r.Empty() {
		return
	}
	x0, y0, x1, y1 := r.Min.X, r.Min.Y, r.Max.X-1, r.Max.Y-1
	switch {
	case x0 == x1 && y0 == y1:
		plot(r.Min, st.H)
		return
	case y0 == y1:
		for x := x0; x <= x1; x++ {
			plot(image.Pt(x, y0), st.H)
		}
		return
	case x0 == x1:
		for y := y0; y <= y1; y++ {
			plot(image.Pt(x0, y), st.V)
		}
		return
	}
	for x := x0 + 1; x < x1; x++ {
		plot(image.Pt(x, y0), st.H)
		plot(image.Pt(x, y1), st.H)
	}
	for y := y0 + 1; y < y1; y++ {
		plot(image.Pt(x0, y), st.V)
		plot(image.Pt(x1, y), st.V)
	}
	plot(image.Pt(x0, y0), st.TopLeft)
	plot(image.Pt(x1, y0), st.TopRight)
	plot(image.Pt(x0, y1), st.BottomLeft)
	plot(image.Pt(x1, y1), st.BottomRight)
}
