package cellbuf

import (
	"image"

	"github.com/mattn/go-runewidth"

	"github.com/wesen/tablelite/pkg/drawutil"
	"github.com/wesen/tablelite/pkg/tablerender"
)

// Ink is how a paint role lands in the buffer. A tint only restyles the
// cells it touches and keeps their runes, which is how translucent
// overlays are expressed on a terminal.
type Ink struct {
	Style StyleKey
	Tint  bool
}

// Palette maps paint roles to inks. Missing roles draw with StyleKey 0.
type Palette map[tablerender.Paint]Ink

// Icons maps drag indicators to glyphs.
var Icons = map[tablerender.Icon]rune{
	tablerender.IconRow:    drawutil.ArrowChar(1, 0),
	tablerender.IconColumn: drawutil.ArrowChar(0, 1),
	tablerender.IconCorner: '◢',
}

// Canvas draws table paint calls into a Buffer under a clip stack.
type Canvas struct {
	buf  *Buffer
	pal  Palette
	clip []image.Rectangle
}

// NewCanvas returns a canvas over buf clipped to its bounds.
func NewCanvas(buf *Buffer, pal Palette) *Canvas {
	c := &Canvas{pal: pal}
	c.reset(buf, buf.Bounds())
	return c
}

func (c *Canvas) reset(buf *Buffer, clip image.Rectangle) {
	c.buf = buf
	c.clip = append(c.clip[:0], clip.Intersect(buf.Bounds()))
}

// Clip returns the current clip rectangle.
func (c *Canvas) Clip() image.Rectangle { return c.clip[len(c.clip)-1] }

func (c *Canvas) PushClip(r image.Rectangle) {
	c.clip = append(c.clip, c.Clip().Intersect(r))
}

// PopClip never removes the base clip.
func (c *Canvas) PopClip() {
	if len(c.clip) > 1 {
		c.clip = c.clip[:len(c.clip)-1]
	}
}

func (c *Canvas) plotter(p tablerender.Paint) drawutil.Plot {
	ink := c.pal[p]
	clip := c.Clip()
	return func(at image.Point, ch rune) {
		if !at.In(clip) {
			return
		}
		if ink.Tint {
			c.buf.Cells[at.Y][at.X].Style = ink.Style
			return
		}
		c.buf.Set(at.X, at.Y, ch, ink.Style)
	}
}

func (c *Canvas) FillRect(r image.Rectangle, p tablerender.Paint) {
	ink := c.pal[p]
	r = r.Intersect(c.Clip())
	if ink.Tint {
		c.buf.Restyle(r, ink.Style)
		return
	}
	c.buf.FillRect(r, ' ', ink.Style)
}

func (c *Canvas) StrokeRect(r image.Rectangle, p tablerender.Paint) {
	drawutil.StrokeBox(c.plotter(p), r, drawutil.LightBox)
}

func (c *Canvas) DrawLine(a, b image.Point, p tablerender.Paint) {
	drawutil.DrawLine(c.plotter(p), a, b)
}

// DrawText writes s on one line from at. A wide rune that would cross
// the clip edge is dropped.
func (c *Canvas) DrawText(at image.Point, s string, p tablerender.Paint) {
	clip := c.Clip()
	if at.Y < clip.Min.Y || at.Y >= clip.Max.Y {
		return
	}
	style := c.pal[p].Style
	x := at.X
	for _, ch := range s {
		w := runewidth.RuneWidth(ch)
		if w == 0 {
			continue
		}
		if x >= clip.Max.X {
			return
		}
		if x >= clip.Min.X && x+w <= clip.Max.X {
			c.buf.Set(x, at.Y, ch, style)
		}
		x += w
	}
}

func (c *Canvas) Blit(r image.Rectangle, ic tablerender.Icon) {
	ch, ok := Icons[ic]
	if !ok {
		return
	}
	c.buf.FillRect(r.Intersect(c.Clip()), ch, c.pal[tablerender.PaintIndicator].Style)
}
