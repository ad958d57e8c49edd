package tableui

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/wesen/tablelite/pkg/cellbuf"
	"github.com/wesen/tablelite/pkg/tablerender"
)

// c is shorthand for lipgloss.Color.
func c(hex string) color.Color { return lipgloss.Color(hex) }

var (
	colorBG      = c("#0d1117")
	colorCell    = c("#c9d1d9")
	colorHeader  = c("#79c0ff")
	colorHeadBG  = c("#161b22")
	colorPinBG   = c("#11161d")
	colorRule    = c("#30363d")
	colorMask    = c("#1f3a5f")
	colorMaskFG  = c("#e6edf3")
	colorAccent  = c("#f0883e")
	colorError   = c("#ff7b72")
	colorDim     = c("#6e7681")
	colorPanelBG = c("#12171e")
)

// cellbuf style keys for the table frame.
const (
	styleBG cellbuf.StyleKey = iota
	styleCell
	styleHeader
	stylePinned
	styleRule
	styleMask
	styleIndicator
	styleError
)

// Paint roles used by the painter beyond the engine's own.
const (
	paintCell = tablerender.PaintUser + iota
	paintHeader
	paintPinned
	paintRule
	paintError
)

var bufStyles = map[cellbuf.StyleKey]lipgloss.Style{
	styleBG:        lipgloss.NewStyle().Background(colorBG),
	styleCell:      lipgloss.NewStyle().Foreground(colorCell).Background(colorBG),
	styleHeader:    lipgloss.NewStyle().Foreground(colorHeader).Background(colorHeadBG).Bold(true),
	stylePinned:    lipgloss.NewStyle().Foreground(colorCell).Background(colorPinBG),
	styleRule:      lipgloss.NewStyle().Foreground(colorRule).Background(colorBG),
	styleMask:      lipgloss.NewStyle().Foreground(colorMaskFG).Background(colorMask),
	styleIndicator: lipgloss.NewStyle().Foreground(colorAccent).Background(colorMask).Bold(true),
	styleError:     lipgloss.NewStyle().Foreground(colorError).Background(colorBG),
}

// palette maps paint roles onto the frame. Masks tint so the cell text
// stays readable under a highlight.
var palette = cellbuf.Palette{
	tablerender.PaintBackground: {Style: styleBG},
	tablerender.PaintMaskFill:   {Style: styleMask, Tint: true},
	tablerender.PaintMaskEdge:   {Style: styleMask, Tint: true},
	tablerender.PaintIndicator:  {Style: styleIndicator},
	paintCell:                   {Style: styleCell},
	paintHeader:                 {Style: styleHeader},
	paintPinned:                 {Style: stylePinned},
	paintRule:                   {Style: styleRule},
	paintError:                  {Style: styleError},
}

// Chrome styles.
var (
	toolbarStyle = lipgloss.NewStyle().
			Foreground(colorHeader).
			Background(colorHeadBG).
			Bold(true)

	footerStyle = lipgloss.NewStyle().
			Foreground(colorDim).
			Background(colorBG)

	panelPad = lipgloss.NewStyle().Background(colorPanelBG)

	panelTitleStyle = lipgloss.NewStyle().
			Foreground(colorHeader).
			Background(colorPanelBG).
			Bold(true)

	panelNameStyle = lipgloss.NewStyle().
			Foreground(colorDim).
			Background(colorPanelBG)

	panelValueStyle = lipgloss.NewStyle().
			Foreground(colorCell).
			Background(colorPanelBG)

	separatorStyle = lipgloss.NewStyle().
			Foreground(colorRule).
			Background(colorPanelBG)
)
