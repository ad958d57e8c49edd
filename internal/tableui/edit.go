package tableui

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/wesen/tablelite/pkg/grid"
	"github.com/wesen/tablelite/pkg/tealayout"
)

// openEdit opens the edit modal for the last clicked cell.
func (m Model) openEdit() (tea.Model, tea.Cmd) {
	row, col := m.clicked()
	text, ok := m.cellText(row, col)
	if !ok {
		m.app.status = "click a cell first"
		return m, nil
	}

	m.EditOpen = true
	m.EditRow, m.EditCol = row, col
	m.EditInput = textinput.New()
	m.EditInput.Prompt = ""
	m.EditInput.CharLimit = 200
	m.EditInput.SetValue(strings.ReplaceAll(text, "\n", `\n`))

	cmd := m.EditInput.Focus()
	return m, cmd
}

// handleEditKeys processes keys while the edit modal is open.
func (m Model) handleEditKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "escape":
		m.EditOpen = false
		return m, nil

	case "enter":
		m.EditOpen = false
		m.applyEdit(m.EditInput.Value())
		return m, nil

	default:
		var cmd tea.Cmd
		m.EditInput, cmd = m.EditInput.Update(msg)
		return m, cmd
	}
}

// applyEdit stores value in the edited cell. A leading "=" evaluates the
// rest with the cell script; `\n` starts a new line.
func (m Model) applyEdit(value string) {
	a := m.app
	if expr, ok := strings.CutPrefix(value, "="); ok && a.script != nil {
		out, err := a.script.Eval(m.EditRow, m.EditCol, expr)
		if err != nil {
			a.status = err.Error()
			return
		}
		value = out
	}
	value = strings.ReplaceAll(value, `\n`, "\n")
	a.tbl.RedrawCell(m.EditRow, m.EditCol, grid.Text(value))
	a.status = fmt.Sprintf("edited %d:%d", m.EditRow, m.EditCol)
}

var (
	modalTitleStyle = lipgloss.NewStyle().
			Foreground(colorHeader).
			Background(colorHeadBG).
			Bold(true)

	modalHintStyle = lipgloss.NewStyle().
			Foreground(colorDim).
			Background(colorHeadBG).
			Italic(true)

	modalBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(colorHeader).
			Background(colorHeadBG).
			Width(52).
			Padding(1, 2)
)

// buildEditModalLayer renders the edit modal as a centered Z=100 Layer.
func buildEditModalLayer(m Model) *lipgloss.Layer {
	hint := "[enter] save  [esc] cancel"
	if m.app.script != nil {
		hint = "=expr evaluates  " + hint
	}
	lines := []string{
		modalTitleStyle.Render(fmt.Sprintf("EDIT row %d, column %d", m.EditRow, m.EditCol)),
		"",
		m.EditInput.View(),
		"",
		modalHintStyle.Render(hint),
	}
	return tealayout.ModalLayer(strings.Join(lines, "\n"), m.Width, m.Height, modalBoxStyle)
}
