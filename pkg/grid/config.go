package grid

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
)

// Edge is the table edge a row or column is pinned to.
type Edge int

const (
	Top Edge = iota
	Bottom
	Left
	Right
)

func (e Edge) String() string {
	switch e {
	case Top:
		return "top"
	case Bottom:
		return "bottom"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return fmt.Sprintf("Edge(%d)", int(e))
}

// ActionType routes a tap or drag on the first-row/first-column cell (0,0)
// to the row axis, the column axis, both, or neither.
type ActionType int

const (
	ActionBoth ActionType = iota
	ActionRow
	ActionColumn
	ActionNone
)

var actionNames = map[ActionType]string{
	ActionBoth:   "both",
	ActionRow:    "row",
	ActionColumn: "column",
	ActionNone:   "none",
}

func (a ActionType) String() string {
	if s, ok := actionNames[a]; ok {
		return s
	}
	return fmt.Sprintf("ActionType(%d)", int(a))
}

// AllowsRow reports whether the (0,0) cell acts on its row.
func (a ActionType) AllowsRow() bool { return a == ActionBoth || a == ActionRow }

// AllowsColumn reports whether the (0,0) cell acts on its column.
func (a ActionType) AllowsColumn() bool { return a == ActionBoth || a == ActionColumn }

func (a ActionType) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

func (a *ActionType) UnmarshalText(b []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(b)))
	for k, v := range actionNames {
		if v == s {
			*a = k
			return nil
		}
	}
	return fmt.Errorf("grid: unknown action type %q", s)
}

// DragMode selects how a drag-resize starts.
type DragMode int

const (
	DragNone DragMode = iota
	DragClick
	DragLongPress
)

var dragNames = map[DragMode]string{
	DragNone:      "none",
	DragClick:     "click",
	DragLongPress: "long_press",
}

func (d DragMode) String() string {
	if s, ok := dragNames[d]; ok {
		return s
	}
	return fmt.Sprintf("DragMode(%d)", int(d))
}

func (d DragMode) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *DragMode) UnmarshalText(b []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(b)))
	s = strings.ReplaceAll(s, "-", "_")
	for k, v := range dragNames {
		if v == s {
			*d = k
			return nil
		}
	}
	return fmt.Errorf("grid: unknown drag mode %q", s)
}

// HighlightPolicy controls which taps highlight a row or column. Taps in
// column 0 highlight rows, taps in row 0 highlight columns.
type HighlightPolicy struct {
	Row       bool       `toml:"row"`
	Column    bool       `toml:"column"`
	Both      bool       `toml:"both"` // keep the other axis highlighted on a header tap
	FirstCell ActionType `toml:"first_cell"`
}

// Indicator positions a drag indicator relative to the dragged cell.
// Unset size means one unit.
type Indicator struct {
	Size    int `toml:"size"`
	OffsetX int `toml:"offset_x"`
	OffsetY int `toml:"offset_y"`
}

// DragPolicy controls drag-to-resize on the header row and column.
type DragPolicy struct {
	Row              DragMode   `toml:"row"`
	Column           DragMode   `toml:"column"`
	FirstCell        ActionType `toml:"first_cell"`
	RecoverHighlight bool       `toml:"recover_highlight"`
	Indicator        bool       `toml:"indicator"`
	RowIndicator     Indicator  `toml:"row_indicator"`
	ColumnIndicator  Indicator  `toml:"column_indicator"`
	CornerIndicator  Indicator  `toml:"corner_indicator"`
}

// Config is the table configuration. Sizing and pins are guarded and may
// change while the data worker runs; Highlight and Drag are read only by
// the UI goroutine and should be set before input starts.
type Config struct {
	Highlight HighlightPolicy
	Drag      DragPolicy

	mu      sync.RWMutex
	sizing  Sizing
	rowPins map[int]Edge
	colPins map[int]Edge
}

// NewConfig returns a configuration with default sizing, highlighting off
// and long-press drag on both axes.
func NewConfig() *Config {
	unsetIndicator := Indicator{Size: Unset}
	return &Config{
		Highlight: HighlightPolicy{FirstCell: ActionBoth},
		Drag: DragPolicy{
			Row:              DragLongPress,
			Column:           DragLongPress,
			FirstCell:        ActionBoth,
			RecoverHighlight: true,
			Indicator:        true,
			RowIndicator:     unsetIndicator,
			ColumnIndicator:  unsetIndicator,
			CornerIndicator:  unsetIndicator,
		},
		sizing:  DefaultSizing(),
		rowPins: map[int]Edge{},
		colPins: map[int]Edge{},
	}
}

func (c *Config) Sizing() Sizing {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sizing
}

func (c *Config) SetSizing(s Sizing) {
	c.mu.Lock()
	c.sizing = s
	c.mu.Unlock()
}

// AddRowPin pins row to Top or Bottom. A row already pinned to the other
// edge keeps its pin. Other edges are ignored.
func (c *Config) AddRowPin(row int, e Edge) {
	if e != Top && e != Bottom {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	addPin(c.rowPins, row, e)
}

// RemoveRowPin removes row from edge e.
func (c *Config) RemoveRowPin(row int, e Edge) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.rowPins[row] == e {
		delete(c.rowPins, row)
	}
}

// ClearRowPins removes every row pinned to e.
func (c *Config) ClearRowPins(e Edge) {
	c.mu.Lock()
	defer c.mu.Unlock()
	maps.DeleteFunc(c.rowPins, func(_ int, v Edge) bool { return v == e })
}

func (c *Config) ClearAllRowPins() {
	c.mu.Lock()
	clear(c.rowPins)
	c.mu.Unlock()
}

// AddColumnPin pins col to Left or Right with the same first-edge-wins
// rule as rows.
func (c *Config) AddColumnPin(col int, e Edge) {
	if e != Left && e != Right {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	addPin(c.colPins, col, e)
}

func (c *Config) RemoveColumnPin(col int, e Edge) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.colPins[col] == e {
		delete(c.colPins, col)
	}
}

func (c *Config) ClearColumnPins(e Edge) {
	c.mu.Lock()
	defer c.mu.Unlock()
	maps.DeleteFunc(c.colPins, func(_ int, v Edge) bool { return v == e })
}

func (c *Config) ClearAllColumnPins() {
	c.mu.Lock()
	clear(c.colPins)
	c.mu.Unlock()
}

// RowPins returns the rows pinned to e in ascending order.
func (c *Config) RowPins(e Edge) []int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return pinsAt(c.rowPins, e)
}

// ColumnPins returns the columns pinned to e in ascending order.
func (c *Config) ColumnPins(e Edge) []int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return pinsAt(c.colPins, e)
}

// RowPin reports the edge row is pinned to.
func (c *Config) RowPin(row int) (Edge, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.rowPins[row]
	return e, ok
}

// ColumnPin reports the edge col is pinned to.
func (c *Config) ColumnPin(col int) (Edge, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.colPins[col]
	return e, ok
}

func addPin(pins map[int]Edge, idx int, e Edge) {
	if idx < 0 {
		return
	}
	if _, ok := pins[idx]; ok {
		return
	}
	pins[idx] = e
}

func pinsAt(pins map[int]Edge, e Edge) []int {
	var out []int
	for idx, v := range pins {
		if v == e {
			out = append(out, idx)
		}
	}
	slices.Sort(out)
	return out
}
