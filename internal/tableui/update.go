package tableui

import (
	"fmt"
	"time"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/wesen/tablelite/pkg/gesture"
	"github.com/wesen/tablelite/pkg/grid"
)

// pressPoll is how often a held press is checked for a long press.
const pressPoll = 50 * time.Millisecond

const (
	scrollStep  = 1
	scrollStepX = 4
)

type postedMsg struct{ fn func() }

type pressTickMsg struct{ id int }

type flingTickMsg struct{ token uint64 }

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case postedMsg:
		msg.fn()
		return m, m.app.mb.wait()

	case pressTickMsg:
		return m, m.pressTick(msg.id)

	case flingTickMsg:
		return m, m.flingTick(msg.token)

	case tea.KeyMsg:
		if m.EditOpen {
			return m.handleEditKeys(msg)
		}
		return m.handleKeys(msg)

	case tea.MouseMsg:
		if m.EditOpen {
			return m, nil
		}
		return m.handleMouse(msg)
	}

	if m.EditOpen {
		var cmd tea.Cmd
		m.EditInput, cmd = m.EditInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) pressTick(id int) tea.Cmd {
	a := m.app
	if id != a.pressID || !a.pressed {
		return nil
	}
	ctl := a.tbl.Gesture()
	ctl.LongPressDue(a.now())
	if ctl.State() != gesture.TrackingTap {
		return nil
	}
	return schedulePress(id)
}

func schedulePress(id int) tea.Cmd {
	return tea.Tick(pressPoll, func(time.Time) tea.Msg { return pressTickMsg{id: id} })
}

func (m Model) flingTick(token uint64) tea.Cmd {
	ctl := m.app.tbl.Gesture()
	if !ctl.FlingStep(token) {
		return nil
	}
	return scheduleFling(ctl.FlingInterval(), token)
}

func scheduleFling(d time.Duration, token uint64) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return flingTickMsg{token: token} })
}

// handleKeys processes keyboard input outside the edit modal.
func (m Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := m.app
	ctl := a.tbl.Gesture()
	cfg := a.tbl.Config()
	store := a.tbl.Data()
	view := a.tbl.Viewport()
	row, col := m.clicked()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Up):
		ctl.Wheel(0, -scrollStep)
	case key.Matches(msg, m.keys.Down):
		ctl.Wheel(0, scrollStep)
	case key.Matches(msg, m.keys.Left):
		ctl.Wheel(-scrollStepX, 0)
	case key.Matches(msg, m.keys.Right):
		ctl.Wheel(scrollStepX, 0)
	case key.Matches(msg, m.keys.PageUp):
		ctl.Wheel(0, -max(view.Y-1, 1))
	case key.Matches(msg, m.keys.PageDown):
		ctl.Wheel(0, max(view.Y-1, 1))

	case key.Matches(msg, m.keys.PinTop, m.keys.PinBottom):
		r := m.targetRow()
		if r == grid.Unset {
			a.status = "select a row first"
			break
		}
		edge := grid.Top
		if key.Matches(msg, m.keys.PinBottom) {
			edge = grid.Bottom
		}
		cfg.AddRowPin(r, edge)
		a.status = fmt.Sprintf("row %d pinned %s", r, edge)
		a.tbl.SyncRedraw()
	case key.Matches(msg, m.keys.PinLeft, m.keys.PinRight):
		c := m.targetColumn()
		if c == grid.Unset {
			a.status = "select a column first"
			break
		}
		edge := grid.Left
		if key.Matches(msg, m.keys.PinRight) {
			edge = grid.Right
		}
		cfg.AddColumnPin(c, edge)
		a.status = fmt.Sprintf("column %d pinned %s", c, edge)
		a.tbl.SyncRedraw()
	case key.Matches(msg, m.keys.Unpin):
		cfg.ClearAllRowPins()
		cfg.ClearAllColumnPins()
		a.status = "pins cleared"
		a.tbl.SyncRedraw()

	case key.Matches(msg, m.keys.Edit):
		return m.openEdit()
	case key.Matches(msg, m.keys.Copy):
		text, ok := m.cellText(row, col)
		if !ok {
			a.status = "click a cell first"
			break
		}
		if err := a.copy(text); err != nil {
			a.log.Warn("tableui: copy failed", "err", err)
			a.status = "copy failed: " + err.Error()
			break
		}
		a.status = fmt.Sprintf("copied %d:%d", row, col)

	case key.Matches(msg, m.keys.AddRow):
		if row == grid.Unset {
			store.AppendRows(1)
		} else {
			store.AddRowData(1, row+1)
		}
	case key.Matches(msg, m.keys.DeleteRow):
		if row == grid.Unset {
			a.status = "click a row first"
			break
		}
		store.DeleteRows(row)
		a.clickRow, a.clickCol = grid.Unset, grid.Unset
	case key.Matches(msg, m.keys.SwapRow):
		if row == grid.Unset || row+1 >= store.TotalRow() {
			a.status = "no row below to swap with"
			break
		}
		store.SwapRow(row, row+1)
		a.clickRow = row + 1
	case key.Matches(msg, m.keys.Unlock):
		if row == grid.Unset {
			a.status = "click a cell first"
			break
		}
		store.UnlockRow(row)
		store.UnlockColumn(col)
	}
	return m, nil
}
