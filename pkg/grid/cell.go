// Package grid is the table model: cells, the row/column size lines that
// aggregate them, the dimension resolver and the table configuration.
//
// A Grid stores its cells in one row-major arena. Rows and columns are
// index views into it, so the same *Cell is reachable as (row, col) from
// both directions and every row always holds one cell per column.
package grid

import "sync"

// Unset marks a size that was not configured. Sizes equal to Unset are
// resolved from content.
const Unset = -1

// Measurer is implemented by cell payloads that can size themselves.
type Measurer interface {
	MeasureWidth() int
	MeasureHeight() int
}

// Cell is one grid position: an opaque payload plus optional explicit
// width and height.
//
// The payload may be replaced from the UI goroutine (partial redraw) while
// the mutation worker measures the cell, so all access is locked.
type Cell struct {
	mu     sync.RWMutex
	data   any
	width  int
	height int
}

// NewCell creates a cell with auto width and height.
func NewCell(data any) *Cell {
	return &Cell{data: data, width: Unset, height: Unset}
}

// NewSizedCell creates a cell with explicit size. Pass Unset for an axis
// that should stay automatic.
func NewSizedCell(data any, width, height int) *Cell {
	return &Cell{data: data, width: width, height: height}
}

func (c *Cell) Data() any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data
}

func (c *Cell) SetData(data any) {
	c.mu.Lock()
	c.data = data
	c.mu.Unlock()
}

func (c *Cell) Width() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.width
}

func (c *Cell) Height() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.height
}

func (c *Cell) SetSize(width, height int) {
	c.mu.Lock()
	c.width, c.height = width, height
	c.mu.Unlock()
}

// MeasureWidth returns the payload's measured width, or 0 when the
// payload does not implement Measurer.
func (c *Cell) MeasureWidth() int {
	if m, ok := c.Data().(Measurer); ok {
		return m.MeasureWidth()
	}
	return 0
}

// MeasureHeight returns the payload's measured height, or 0 when the
// payload does not implement Measurer.
func (c *Cell) MeasureHeight() int {
	if m, ok := c.Data().(Measurer); ok {
		return m.MeasureHeight()
	}
	return 0
}

// CellFactory creates the cell for a grid position. It is called once per
// position when a mutation materializes it, never on redraw.
type CellFactory interface {
	Get(row, col int) *Cell
}

// Factory adapts a function to CellFactory.
type Factory func(row, col int) *Cell

func (f Factory) Get(row, col int) *Cell { return f(row, col) }
