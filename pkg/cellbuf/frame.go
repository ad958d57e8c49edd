package cellbuf

import (
	"image"

	"charm.land/lipgloss/v2"

	"github.com/wesen/tablelite/pkg/tablerender"
)

// Frame is a double-buffered table surface. Drawing goes to the back
// buffer and Unlock swaps it to the front. A partial lock first copies
// the front buffer so everything outside the dirty rectangle survives.
type Frame struct {
	front, back *Buffer
	bg          StyleKey
	canvas      *Canvas
	locked      bool
}

var _ tablerender.FrameSurface = (*Frame)(nil)

// NewFrame creates a frame of the given size.
func NewFrame(w, h int, bg StyleKey, pal Palette) *Frame {
	f := &Frame{bg: bg}
	f.front = New(w, h, bg)
	f.back = New(w, h, bg)
	f.canvas = NewCanvas(f.back, pal)
	return f
}

// Size returns the frame size.
func (f *Frame) Size() image.Point { return image.Pt(f.front.W, f.front.H) }

// Resize reallocates both buffers when the size changes. Their content
// is lost, so the caller must draw a full frame afterwards.
func (f *Frame) Resize(w, h int) bool {
	w, h = max(w, 0), max(h, 0)
	if w == f.front.W && h == f.front.H {
		return false
	}
	f.front = New(w, h, f.bg)
	f.back = New(w, h, f.bg)
	return true
}

// Lock returns a surface over the back buffer. It fails while already
// locked, when the frame has no area, or when dirty misses the frame.
func (f *Frame) Lock(dirty *image.Rectangle) (tablerender.Surface, bool) {
	if f.locked || f.back.W == 0 || f.back.H == 0 {
		return nil, false
	}
	clip := f.back.Bounds()
	if dirty != nil {
		clip = dirty.Intersect(clip)
		if clip.Empty() {
			return nil, false
		}
		f.back.CopyRect(f.front, f.back.Bounds())
	}
	f.canvas.reset(f.back, clip)
	f.locked = true
	return f.canvas, true
}

// Unlock publishes the back buffer.
func (f *Frame) Unlock() {
	if !f.locked {
		return
	}
	f.front, f.back = f.back, f.front
	f.locked = false
}

// Front returns the last published buffer.
func (f *Frame) Front() *Buffer { return f.front }

// Render renders the front buffer.
func (f *Frame) Render(styles map[StyleKey]lipgloss.Style) string {
	return f.front.Render(styles)
}
