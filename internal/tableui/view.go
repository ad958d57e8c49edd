package tableui

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/wesen/tablelite/pkg/tealayout"
)

var (
	bgStyle = lipgloss.NewStyle().Background(colorBG)

	helpBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorRule).
			Padding(1, 2)
)

// View implements tea.Model.
func (m Model) View() tea.View {
	if m.Width == 0 || m.Height == 0 {
		return tea.NewView("")
	}
	a := m.app
	l := m.layout

	layers := []*lipgloss.Layer{
		tealayout.FillLayer(l.Get(regionToolbar), toolbarStyle, "toolbar-bg", 0),
		tealayout.FillLayer(l.Get(regionTable), bgStyle, "table-bg", 0),
		tealayout.FillLayer(l.Get(regionFooter), footerStyle, "footer-bg", 0),
	}

	snap := a.tbl.Snapshot()
	tb := fmt.Sprintf(" tablelite │ %d rows × %d columns │ %s", snap.Rows(), snap.Columns(), a.tbl.Gesture().State())
	if a.status != "" {
		tb += " │ " + a.status
	}
	layers = append(layers, tealayout.BarLayer(l.Get(regionToolbar), tb, toolbarStyle))

	layers = append(layers, tealayout.BarLayer(l.Get(regionFooter), " "+m.help.ShortHelpView(m.keys.ShortHelp()), footerStyle))

	layers = append(layers, tealayout.ContentLayer(m.tableRegion(), a.frame.Render(bufStyles), 1))

	panel := l.Get(regionPanel)
	if pr := panel.Rect; !pr.Empty() {
		layers = append(layers,
			tealayout.VerticalSeparator(pr.Min.X-1, pr.Min.Y, pr.Dy(), separatorStyle),
			tealayout.FillLayer(panel, panelPad, "panel-bg", 0),
			tealayout.BlockLayer(panel, m.panelLines(pr.Dx()), panelPad, 1),
		)
	}

	if m.help.ShowAll {
		layers = append(layers, tealayout.ModalLayer(m.help.FullHelpView(m.keys.FullHelp()), m.Width, m.Height, helpBoxStyle))
	}
	if m.EditOpen {
		layers = append(layers, buildEditModalLayer(m))
	}

	comp := lipgloss.NewCompositor(layers...)
	canvas := lipgloss.NewCanvas(m.Width, m.Height)
	canvas.Compose(comp)

	v := tea.NewView(canvas.Render())
	v.AltScreen = true
	v.MouseMode = tea.MouseModeAllMotion
	return v
}
