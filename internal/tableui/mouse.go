package tableui

import (
	"image"

	tea "charm.land/bubbletea/v2"
)

const wheelStep = 3

// handleMouse maps terminal mouse events onto the gesture controller.
// A press must start inside the table; motion and release are followed
// anywhere until the press ends.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	a := m.app
	mouse := msg.Mouse()
	local, in := m.localPoint(image.Pt(mouse.X, mouse.Y))
	ctl := a.tbl.Gesture()
	now := a.now()

	switch msg.(type) {
	case tea.MouseClickMsg:
		if !in || mouse.Button != tea.MouseLeft {
			return m, nil
		}
		a.pressed = true
		a.pressID++
		ctl.PointerDown(local, now)
		return m, schedulePress(a.pressID)

	case tea.MouseMotionMsg:
		if a.pressed {
			ctl.PointerMove(local, now)
		}

	case tea.MouseReleaseMsg:
		if !a.pressed {
			return m, nil
		}
		a.pressed = false
		ctl.PointerUp(local, now)
		if token, ok := ctl.Fling(); ok {
			return m, scheduleFling(ctl.FlingInterval(), token)
		}

	case tea.MouseWheelMsg:
		if !in {
			return m, nil
		}
		switch mouse.Button {
		case tea.MouseWheelUp:
			ctl.Wheel(0, -wheelStep)
		case tea.MouseWheelDown:
			ctl.Wheel(0, wheelStep)
		case tea.MouseWheelLeft:
			ctl.Wheel(-wheelStep, 0)
		case tea.MouseWheelRight:
			ctl.Wheel(wheelStep, 0)
		}
	}
	return m, nil
}
