// Package tealayout provides declarative layout computation and common
// chrome layer builders for Bubbletea v2 + Lipgloss v2 apps.
package tealayout

import "image"

// Region is a named rectangular area of the terminal.
type Region struct {
	Name string
	Rect image.Rectangle
}

// Size returns the region's width and height.
func (r Region) Size() image.Point { return r.Rect.Size() }

// Local converts a terminal position to region-local coordinates and
// reports whether it lies inside the region.
func (r Region) Local(p image.Point) (image.Point, bool) {
	return p.Sub(r.Rect.Min), p.In(r.Rect)
}

// Layout holds the computed regions for a given terminal size.
type Layout struct {
	TermW, TermH int
	Regions      map[string]Region
	order        []string
}

// Get returns the region with the given name, or a zero Region.
func (l Layout) Get(name string) Region {
	return l.Regions[name]
}

// At returns the region containing p. Regions never overlap, so the
// first match in declaration order is the only one.
func (l Layout) At(p image.Point) (Region, bool) {
	for _, name := range l.order {
		if r := l.Regions[name]; p.In(r.Rect) {
			return r, true
		}
	}
	return Region{}, false
}

// LayoutBuilder accumulates fixed regions and computes the remainder.
type LayoutBuilder struct {
	termW, termH int
	top, bottom  int // rows consumed from top/bottom
	right        int // columns consumed from right
	regions      []Region
}

// NewLayoutBuilder creates a builder for the given terminal size.
func NewLayoutBuilder(termW, termH int) *LayoutBuilder {
	return &LayoutBuilder{termW: max(termW, 0), termH: max(termH, 0)}
}

// TopFixed reserves rows from the top.
func (b *LayoutBuilder) TopFixed(name string, height int) *LayoutBuilder {
	y := b.top
	b.add(name, image.Rect(0, y, b.termW, y+height))
	b.top += height
	return b
}

// BottomFixed reserves rows from the bottom.
func (b *LayoutBuilder) BottomFixed(name string, height int) *LayoutBuilder {
	y := b.termH - b.bottom - height
	b.add(name, image.Rect(0, y, b.termW, y+height))
	b.bottom += height
	return b
}

// RightFixed reserves columns from the right, spanning the area between
// the top and bottom regions declared so far. A width larger than half
// the terminal is shrunk so the remainder keeps at least half.
func (b *LayoutBuilder) RightFixed(name string, width int) *LayoutBuilder {
	width = min(width, (b.termW-b.right)/2)
	x := b.termW - b.right - width
	b.add(name, image.Rect(x, b.top, x+width, b.termH-b.bottom))
	b.right += width
	return b
}

// Remaining assigns whatever rectangle is left after fixed allocations.
func (b *LayoutBuilder) Remaining(name string) *LayoutBuilder {
	b.add(name, image.Rect(0, b.top, b.termW-b.right, b.termH-b.bottom))
	return b
}

// add stores r, or an empty rectangle when r is degenerate.
func (b *LayoutBuilder) add(name string, r image.Rectangle) {
	if r.Min.X >= r.Max.X || r.Min.Y >= r.Max.Y || r.Min.X < 0 || r.Min.Y < 0 {
		r = image.Rectangle{}
	}
	b.regions = append(b.regions, Region{Name: name, Rect: r})
}

// Build computes and returns the final Layout.
func (b *LayoutBuilder) Build() Layout {
	l := Layout{
		TermW:   b.termW,
		TermH:   b.termH,
		Regions: make(map[string]Region, len(b.regions)),
	}
	for _, r := range b.regions {
		l.Regions[r.Name] = r
		l.order = append(l.order, r.Name)
	}
	return l
}
