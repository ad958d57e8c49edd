package tableui

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/wesen/tablelite/internal/cellscript"
	"github.com/wesen/tablelite/pkg/grid"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

type harness struct {
	m      Model
	clock  *fakeClock
	copied []string
}

func positional(row, col int) *grid.Cell {
	return grid.NewCell(grid.Text(fmt.Sprintf("%d:%d", row, col)))
}

func newHarness(t *testing.T, rows int, edit func(*Options)) *harness {
	t.Helper()
	h := &harness{clock: &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}}
	cfg := grid.NewConfig()
	cfg.Highlight.Row, cfg.Highlight.Column = true, true
	o := Options{
		Config:  cfg,
		Factory: grid.Factory(positional),
		Rows:    rows,
		Columns: 5,
		Now:     h.clock.now,
		Clipboard: func(s string) error {
			h.copied = append(h.copied, s)
			return nil
		},
	}
	if edit != nil {
		edit(&o)
	}
	h.m = New(o)
	t.Cleanup(h.m.Close)
	h.send(tea.WindowSizeMsg{Width: 80, Height: 20})
	h.pump(t)
	return h
}

func (h *harness) send(msg tea.Msg) tea.Cmd {
	next, cmd := h.m.Update(msg)
	h.m = next.(Model)
	return cmd
}

// pump waits for pending mutations and delivers the redraw they post.
func (h *harness) pump(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := h.m.Table().Data().Flush(ctx); err != nil {
		t.Fatalf("flush: %v", err)
	}
	select {
	case fn := <-h.m.app.mb.ch:
		h.send(postedMsg{fn: fn})
	case <-ctx.Done():
		t.Fatal("no redraw was posted")
	}
}

func (h *harness) key(s string) tea.Cmd {
	switch s {
	case "enter":
		return h.send(tea.KeyPressMsg{Code: tea.KeyEnter})
	case "esc":
		return h.send(tea.KeyPressMsg{Code: tea.KeyEscape})
	}
	r := []rune(s)[0]
	return h.send(tea.KeyPressMsg{Code: r, Text: s})
}

// tap clicks the terminal cell at (x, y).
func (h *harness) tap(x, y int) {
	h.send(tea.MouseClickMsg{X: x, Y: y, Button: tea.MouseLeft})
	h.clock.advance(20 * time.Millisecond)
	h.send(tea.MouseReleaseMsg{X: x, Y: y, Button: tea.MouseLeft})
}

func (h *harness) text(row, col int) string {
	s, _ := h.m.cellText(row, col)
	return s
}

// Screen rows start under the one-line toolbar; column 0 is "NN:0" plus
// padding, six cells wide.
const top = 1

func TestInitialLoadDraws(t *testing.T) {
	h := newHarness(t, 20, nil)
	snap := h.m.Table().Snapshot()
	if snap.Rows() != 20 || snap.Columns() != 5 {
		t.Fatalf("expected 20x5, got %dx%d", snap.Rows(), snap.Columns())
	}
	if got := h.m.Table().Viewport(); got.X != 49 || got.Y != 18 {
		t.Errorf("viewport = %v, want 49x18", got)
	}
	if len(h.m.Table().ShowCells()) == 0 {
		t.Fatal("no visible cells after load")
	}
	front := h.m.app.frame.Front().String()
	if want := " 1:1"; !strings.Contains(front, want) {
		t.Errorf("frame should show %q:\n%s", want, front)
	}
	v := h.m.View()
	if !v.AltScreen {
		t.Error("view should use the alt screen")
	}
}

func TestTapHighlightsAndRecordsClick(t *testing.T) {
	h := newHarness(t, 20, nil)
	h.tap(2, top+3)
	if row, col := h.m.clicked(); row != 3 || col != 0 {
		t.Fatalf("clicked %d:%d, want 3:0", row, col)
	}
	if got := h.m.Table().Gesture().HighlightRow(); got != 3 {
		t.Errorf("highlight row = %d, want 3", got)
	}
	if h.m.app.clicks != 1 {
		t.Errorf("clicks = %d", h.m.app.clicks)
	}

	// outside the table: nothing happens
	h.tap(70, top+3)
	if h.m.app.clicks != 1 {
		t.Error("panel click should not reach the table")
	}
}

func TestEditReplacesCell(t *testing.T) {
	h := newHarness(t, 20, nil)
	h.tap(8, top+2) // row 2, column 1
	h.key("e")
	if !h.m.EditOpen {
		t.Fatal("edit modal should open")
	}
	if got := h.m.EditInput.Value(); got != "2:1" {
		t.Errorf("edit starts with %q", got)
	}
	h.m.EditInput.SetValue(`hello\nworld`)
	h.key("enter")
	if h.m.EditOpen {
		t.Fatal("enter should close the modal")
	}
	if got := h.text(2, 1); got != "hello\nworld" {
		t.Errorf("cell = %q", got)
	}

	// the new content is wider and taller, so the store re-measures
	h.pump(t)
	snap := h.m.Table().Snapshot()
	if snap.ColumnWidth(1) != 7 || snap.RowHeight(2) != 2 {
		t.Errorf("after remeasure: width %d height %d", snap.ColumnWidth(1), snap.RowHeight(2))
	}
}

func TestEditCancel(t *testing.T) {
	h := newHarness(t, 20, nil)
	h.tap(8, top+2)
	h.key("e")
	h.m.EditInput.SetValue("nope")
	h.key("esc")
	if h.m.EditOpen || h.text(2, 1) != "2:1" {
		t.Errorf("cancel should keep the cell, got %q", h.text(2, 1))
	}
}

func TestEditEvaluatesScript(t *testing.T) {
	s, err := cellscript.Compile("cells.js", cellscript.Default)
	if err != nil {
		t.Fatal(err)
	}
	h := newHarness(t, 20, func(o *Options) { o.Script = s })
	h.tap(8, top+2)
	h.key("e")
	h.m.EditInput.SetValue("=row * 100 + col")
	h.key("enter")
	if got := h.text(2, 1); got != "201" {
		t.Errorf("evaluated cell = %q, want 201", got)
	}

	h.key("e")
	h.m.EditInput.SetValue("=(")
	h.key("enter")
	if h.text(2, 1) != "201" || h.m.app.status == "" {
		t.Error("a failed expression should leave the cell and report")
	}
}

func TestCopyCell(t *testing.T) {
	h := newHarness(t, 20, nil)
	h.key("y")
	if len(h.copied) != 0 {
		t.Fatal("nothing clicked, nothing copied")
	}
	h.tap(8, top+2)
	h.key("y")
	if len(h.copied) != 1 || h.copied[0] != "2:1" {
		t.Errorf("copied %v", h.copied)
	}
}

func TestRowKeys(t *testing.T) {
	h := newHarness(t, 20, nil)
	h.tap(2, top+3)

	h.key("+")
	h.pump(t)
	if got := h.m.Table().Data().TotalRow(); got != 21 {
		t.Fatalf("rows after add = %d", got)
	}

	h.key("s")
	h.pump(t)
	if row, _ := h.m.clicked(); row != 4 {
		t.Errorf("swap should follow the row, clicked row = %d", row)
	}
	if got := h.text(4, 1); got != "3:1" {
		t.Errorf("swapped row 4 = %q, want 3:1", got)
	}

	h.key("-")
	h.pump(t)
	if got := h.m.Table().Data().TotalRow(); got != 20 {
		t.Errorf("rows after delete = %d", got)
	}
	if row, _ := h.m.clicked(); row != grid.Unset {
		t.Error("delete should clear the click")
	}
	h.key("-")
	if h.m.app.status != "click a row first" {
		t.Errorf("status = %q", h.m.app.status)
	}
}

func TestPinKeys(t *testing.T) {
	h := newHarness(t, 20, nil)
	cfg := h.m.Table().Config()
	h.key("t")
	if len(cfg.RowPins(grid.Top)) != 0 {
		t.Fatal("nothing selected, nothing pinned")
	}
	h.tap(2, top+3)
	h.key("t")
	if e, ok := cfg.RowPin(3); !ok || e != grid.Top {
		t.Errorf("row 3 should be pinned top")
	}
	h.tap(8, top+0) // header of column 1
	h.key("r")
	if e, ok := cfg.ColumnPin(1); !ok || e != grid.Right {
		t.Errorf("column 1 should be pinned right")
	}
	h.key("u")
	if _, ok := cfg.RowPin(3); ok {
		t.Error("u should clear pins")
	}
}

func TestScrollInput(t *testing.T) {
	h := newHarness(t, 40, nil)
	ctl := h.m.Table().Gesture()
	h.send(tea.MouseWheelMsg{X: 5, Y: 5, Button: tea.MouseWheelDown})
	if got := ctl.ScrollOffset().Y; got != 3 {
		t.Fatalf("wheel scroll = %d, want 3", got)
	}
	h.key("j")
	if got := ctl.ScrollOffset().Y; got != 4 {
		t.Errorf("key scroll = %d, want 4", got)
	}
	h.send(tea.MouseWheelMsg{X: 70, Y: 5, Button: tea.MouseWheelDown})
	if got := ctl.ScrollOffset().Y; got != 4 {
		t.Error("wheel over the panel should not scroll")
	}
}

func TestLongPressStartsDrag(t *testing.T) {
	h := newHarness(t, 20, nil)
	h.send(tea.MouseClickMsg{X: 8, Y: top, Button: tea.MouseLeft})
	id := h.m.app.pressID

	if cmd := h.send(pressTickMsg{id: id}); cmd == nil {
		t.Fatal("press should keep polling before the timeout")
	}
	h.clock.advance(600 * time.Millisecond)
	if cmd := h.send(pressTickMsg{id: id}); cmd != nil {
		t.Error("polling should stop once the long press fires")
	}
	ctl := h.m.Table().Gesture()
	if !ctl.Dragging() {
		t.Fatal("long press on a header should start a resize")
	}
	h.send(tea.MouseMotionMsg{X: 11, Y: top, Button: tea.MouseLeft})
	h.send(tea.MouseReleaseMsg{X: 11, Y: top, Button: tea.MouseLeft})
	h.pump(t)
	col := h.m.Table().Snapshot().Column(1)
	if col.Size != 9 || !col.Locked {
		t.Errorf("column 1 = %+v, want width 9 locked", col)
	}

	if cmd := h.send(pressTickMsg{id: id}); cmd != nil {
		t.Error("stale ticks should be ignored")
	}
}

func TestQuitAndHelp(t *testing.T) {
	h := newHarness(t, 5, nil)
	h.key("?")
	if !h.m.help.ShowAll {
		t.Error("? should show full help")
	}
	cmd := h.key("q")
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should return tea.Quit")
	}
}
