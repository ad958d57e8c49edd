// Package cellbuf provides a 2D character buffer with per-cell styling
// and efficient Lipgloss-based rendering.
//
// Each cell holds a rune and a StyleKey (an int enum). At render time,
// the caller provides a map[StyleKey]lipgloss.Style so the buffer is
// decoupled from specific color schemes.
//
// Wide runes (east asian, emoji) occupy two cells: the rune in the first
// and a zero continuation in the second. Overwriting either half blanks
// the other.
package cellbuf

import (
	"image"

	"github.com/mattn/go-runewidth"
)

// StyleKey identifies a visual style. The caller defines the mapping
// from StyleKey to lipgloss.Style at render time.
type StyleKey int

// Cell is a single character in the buffer with an associated style.
// Ch is 0 for the trailing half of a wide rune.
type Cell struct {
	Ch    rune
	Style StyleKey
}

// Buffer is a 2D grid of styled cells.
type Buffer struct {
	W, H  int
	Cells [][]Cell // [row][col]
}

// New creates a Buffer of the given size, filled with spaces in the
// given default style.
func New(w, h int, defaultStyle StyleKey) *Buffer {
	w, h = max(w, 0), max(h, 0)
	b := &Buffer{W: w, H: h, Cells: make([][]Cell, h)}
	for y := range b.Cells {
		row := make([]Cell, w)
		for x := range row {
			row[x] = Cell{Ch: ' ', Style: defaultStyle}
		}
		b.Cells[y] = row
	}
	return b
}

// Bounds returns the buffer rectangle at the origin.
func (b *Buffer) Bounds() image.Rectangle { return image.Rect(0, 0, b.W, b.H) }

// InBounds reports whether (x, y) is inside the buffer.
func (b *Buffer) InBounds(x, y int) bool {
	return x >= 0 && x < b.W && y >= 0 && y < b.H
}

// Set writes a single character at (x, y) and returns the number of
// columns it occupies. Out-of-bounds writes are ignored. A wide rune
// that does not fit before the right edge is written as a space.
func (b *Buffer) Set(x, y int, ch rune, style StyleKey) int {
	w := runewidth.RuneWidth(ch)
	if w == 0 {
		return 0
	}
	if !b.InBounds(x, y) {
		return w
	}
	if w == 2 && x+1 >= b.W {
		ch, w = ' ', 1
	}
	b.unlinkAt(x, y)
	b.Cells[y][x] = Cell{Ch: ch, Style: style}
	if w == 2 {
		b.unlinkAt(x+1, y)
		b.Cells[y][x+1] = Cell{Ch: 0, Style: style}
	}
	return w
}

// unlinkAt blanks the other half of a wide rune about to lose a half at
// (x, y).
func (b *Buffer) unlinkAt(x, y int) {
	row := b.Cells[y]
	switch {
	case row[x].Ch == 0 && x > 0:
		row[x-1].Ch = ' '
	case x+1 < b.W && row[x+1].Ch == 0 && runewidth.RuneWidth(row[x].Ch) == 2:
		row[x+1].Ch = ' '
	}
}

// SetString writes a string starting at (x, y), advancing by each rune's
// display width. Characters outside the buffer are skipped. It returns
// the total width written.
func (b *Buffer) SetString(x, y int, s string, style StyleKey) int {
	start := x
	for _, ch := range s {
		x += b.Set(x, y, ch, style)
	}
	return x - start
}

// Fill resets every cell to a space with the given style.
func (b *Buffer) Fill(style StyleKey) {
	b.FillRect(b.Bounds(), ' ', style)
}

// FillRect sets every cell of r (clipped to the buffer) to ch.
func (b *Buffer) FillRect(r image.Rectangle, ch rune, style StyleKey) {
	r = r.Intersect(b.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			b.Set(x, y, ch, style)
		}
	}
}

// Restyle changes the style of every cell of r, keeping the runes.
func (b *Buffer) Restyle(r image.Rectangle, style StyleKey) {
	r = r.Intersect(b.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := b.Cells[y]
		for x := r.Min.X; x < r.Max.X; x++ {
			row[x].Style = style
		}
	}
}

// CopyRect copies the cells of r from src. Both buffers are clipped.
func (b *Buffer) CopyRect(src *Buffer, r image.Rectangle) {
	r = r.Intersect(b.Bounds()).Intersect(src.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		copy(b.Cells[y][r.Min.X:r.Max.X], src.Cells[y][r.Min.X:r.Max.X])
	}
}

// String returns the runes only, rows joined with "\n".
func (b *Buffer) String() string {
	out := make([]rune, 0, (b.W+1)*b.H)
	for y, row := range b.Cells {
		if y > 0 {
			out = append(out, '\n')
		}
		for _, c := range row {
			if c.Ch != 0 {
				out = append(out, c.Ch)
			}
		}
	}
	return string(out)
}
