// Package drawutil provides terminal drawing primitives: Bresenham lines,
// box outlines and the glyphs used for them. Drawing goes through a Plot
// callback so any cell grid can be a target.
package drawutil

import "image"

// Bresenham returns the integer points on the line from a to b. The
// result always includes both endpoints.
func Bresenham(a, b image.Point) []image.Point {
	dx := abs(b.X - a.X)
	dy := abs(b.Y - a.Y)
	sx := 1
	if a.X > b.X {
		sx = -1
	}
	sy := 1
	if a.Y > b.Y {
		sy = -1
	}
	err := dx - dy
	p := a

	pts := make([]image.Point, 0, dx+dy+1)
	for range dx + dy + 2 {
		pts = append(pts, p)
		if p == b {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			p.X += sx
		}
		if e2 < dx {
			err += dx
			p.Y += sy
		}
	}
	return pts
}

// LineChar returns the box-drawing character for a segment with
// direction (dx, dy).
func LineChar(dx, dy int) rune {
	if dx == 0 {
		return '│'
	}
	if dy == 0 {
		return '─'
	}
	if (dx > 0) == (dy > 0) {
		return '╲'
	}
	return '╱'
}

// ArrowChar returns a triangle pointing in the dominant direction of
// (dx, dy).
func ArrowChar(dx, dy int) rune {
	if abs(dy) > abs(dx) {
		if dy > 0 {
			return '▼'
		}
		return '▲'
	}
	if dx > 0 {
		return '►'
	}
	return '◄'
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
