package cellbuf

import (
	"image"
	"testing"

	"github.com/wesen/tablelite/pkg/tablerender"
)

func TestFrameSwapsOnUnlock(t *testing.T) {
	f := NewFrame(4, 1, testBG, testPalette())
	s, ok := f.Lock(nil)
	if !ok {
		t.Fatal("full lock failed")
	}
	s.DrawText(image.Point{}, "abcd", tablerender.PaintUser)
	if got := f.Front().String(); got != "    " {
		t.Fatalf("front changed before unlock: %q", got)
	}
	if _, ok := f.Lock(nil); ok {
		t.Fatal("nested lock should fail")
	}
	f.Unlock()
	if got := f.Front().String(); got != "abcd" {
		t.Errorf("front after unlock = %q", got)
	}
}

func TestFramePartialKeepsFront(t *testing.T) {
	f := NewFrame(4, 1, testBG, testPalette())
	s, _ := f.Lock(nil)
	s.DrawText(image.Point{}, "abcd", tablerender.PaintUser)
	f.Unlock()

	dirty := image.Rect(2, 0, 3, 1)
	s, ok := f.Lock(&dirty)
	if !ok {
		t.Fatal("partial lock failed")
	}
	s.FillRect(image.Rect(0, 0, 4, 1), tablerender.PaintBackground)
	s.DrawText(image.Pt(2, 0), "Z", tablerender.PaintUser)
	f.Unlock()
	if got := f.Front().String(); got != "abZd" {
		t.Errorf("partial redraw = %q, want abZd", got)
	}
}

func TestFrameLockFailures(t *testing.T) {
	f := NewFrame(0, 3, testBG, testPalette())
	if _, ok := f.Lock(nil); ok {
		t.Error("empty frame should not lock")
	}
	if !f.Resize(4, 3) {
		t.Fatal("resize should report a change")
	}
	if f.Resize(4, 3) {
		t.Error("same size should not report a change")
	}
	outside := image.Rect(10, 10, 12, 12)
	if _, ok := f.Lock(&outside); ok {
		t.Error("dirty rect outside the frame should not lock")
	}
	f.Unlock() // no-op
	if f.Size() != image.Pt(4, 3) {
		t.Errorf("size = %v", f.Size())
	}
}
