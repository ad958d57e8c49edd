package grid

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// TextPadding is added to the measured width of a Text payload, one
// column on each side.
const TextPadding = 2

// Text is a plain string payload. Lines are separated by '\n'.
type Text string

// MeasureWidth returns the display width of the widest line plus padding.
func (t Text) MeasureWidth() int {
	w := 0
	for _, line := range strings.Split(string(t), "\n") {
		if lw := runewidth.StringWidth(line); lw > w {
			w = lw
		}
	}
	return w + TextPadding
}

// MeasureHeight returns the number of lines.
func (t Text) MeasureHeight() int {
	return strings.Count(string(t), "\n") + 1
}

// Lines splits the text for painting.
func (t Text) Lines() []string {
	return strings.Split(string(t), "\n")
}

func (t Text) String() string { return string(t) }
