package tableui

import (
	"fmt"
	"strings"

	"github.com/wesen/tablelite/pkg/grid"
)

const consoleLines = 6

func title(s string, width int) []string {
	return []string{
		panelTitleStyle.Render(s),
		panelNameStyle.Render(strings.Repeat("─", max(width-1, 0))),
	}
}

func field(name string, value any) string {
	return panelNameStyle.Render(fmt.Sprintf(" %-9s", name)) + panelValueStyle.Render(fmt.Sprint(value))
}

func index(i int) string {
	if i == grid.Unset {
		return "-"
	}
	return fmt.Sprint(i)
}

// panelLines renders the side panel: table, gesture and click state,
// then the script console.
func (m Model) panelLines(width int) []string {
	a := m.app
	snap := a.tbl.Snapshot()
	ctl := a.tbl.Gesture()
	actual := snap.ActualSize()
	view := a.tbl.Viewport()
	scroll := ctl.ScrollOffset()

	var lines []string
	lines = append(lines, title("TABLE", width)...)
	lines = append(lines,
		field("version", snap.Version()),
		field("size", fmt.Sprintf("%d×%d", snap.Rows(), snap.Columns())),
		field("content", fmt.Sprintf("%d×%d", actual.X, actual.Y)),
		field("viewport", fmt.Sprintf("%d×%d", view.X, view.Y)),
		field("scroll", fmt.Sprintf("%d,%d", scroll.X, scroll.Y)),
		field("visible", len(a.tbl.ShowCells())),
		field("frames", a.tbl.DrawCount()),
		"",
	)

	lines = append(lines, title("GESTURE", width)...)
	lines = append(lines,
		field("state", ctl.State()),
		field("row", index(ctl.HighlightRow())),
		field("column", index(ctl.HighlightColumn())),
		"",
	)

	row, col := m.clicked()
	text, _ := m.cellText(row, col)
	lines = append(lines, title("CLICK", width)...)
	lines = append(lines,
		field("cell", index(row)+":"+index(col)),
		field("taps", a.clicks),
		field("text", strings.ReplaceAll(text, "\n", "⏎")),
	)

	if a.script != nil {
		out := a.script.Output()
		if n := len(out); n > consoleLines {
			out = out[n-consoleLines:]
		}
		lines = append(lines, "")
		lines = append(lines, title("CONSOLE", width)...)
		for _, l := range out {
			lines = append(lines, panelValueStyle.Render(" "+l))
		}
	}
	return lines
}
