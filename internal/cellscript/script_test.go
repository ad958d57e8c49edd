package cellscript

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/wesen/tablelite/pkg/grid"
)

func mustCompile(t *testing.T, src string, opts ...Option) *Script {
	t.Helper()
	s, err := Compile("test.js", src, opts...)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	return s
}

func text(c *grid.Cell) string {
	if t, ok := c.Data().(grid.Text); ok {
		return string(t)
	}
	return ""
}

func TestDefaultScript(t *testing.T) {
	s := mustCompile(t, Default)
	tests := []struct {
		row, col int
		want     string
	}{
		{0, 0, "#"},
		{0, 3, "col 3"},
		{7, 0, "7"},
		{1, 1, "r1c1"},
		{5, 6, "r5\nc6"},
	}
	for _, tc := range tests {
		if got := text(s.Get(tc.row, tc.col)); got != tc.want {
			t.Errorf("cell(%d,%d) = %q, want %q", tc.row, tc.col, got, tc.want)
		}
	}

	wide := s.Get(2, 4)
	if wide.Width() != 14 || wide.Height() != grid.Unset {
		t.Errorf("wide cell size = %dx%d", wide.Width(), wide.Height())
	}
	if h := s.Get(5, 6).MeasureHeight(); h != 2 {
		t.Errorf("multi-line cell height = %d, want 2", h)
	}
}

func TestObjectCells(t *testing.T) {
	s := mustCompile(t, `function cell(r, c) {
		if (r == 0) return null;
		if (r == 1) return {text: "x", width: 0, height: 3};
		return 42;
	}`)
	if got := text(s.Get(0, 0)); got != "" {
		t.Errorf("null cell = %q", got)
	}
	c := s.Get(1, 0)
	if c.Width() != grid.Unset || c.Height() != 3 {
		t.Errorf("sized cell = %dx%d", c.Width(), c.Height())
	}
	if got := text(s.Get(2, 0)); got != "42" {
		t.Errorf("number cell = %q", got)
	}
}

func TestCompileErrors(t *testing.T) {
	if _, err := Compile("bad.js", "function ("); err == nil {
		t.Error("syntax error should fail")
	}
	if _, err := Compile("nocell.js", "var x = 1"); !errors.Is(err, ErrNoCellFunc) {
		t.Errorf("expected ErrNoCellFunc, got %v", err)
	}
	if _, err := Compile("throw.js", "throw new Error('boom')"); err == nil {
		t.Error("top-level throw should fail")
	}
}

func TestRuntimeErrorBecomesErrorCell(t *testing.T) {
	s := mustCompile(t, `function cell(r, c) { if (r == 3) return undefinedThing.x; return "ok"; }`)
	if got := text(s.Get(3, 0)); got != ErrorText {
		t.Errorf("failed call = %q, want %q", got, ErrorText)
	}
	if got := text(s.Get(1, 0)); got != "ok" {
		t.Errorf("runtime should recover, got %q", got)
	}
}

func TestTimeoutInterrupts(t *testing.T) {
	s := mustCompile(t, `function cell(r, c) { if (r == 1) { for (;;) {} } return "fine"; }`,
		WithTimeout(50*time.Millisecond))
	if got := text(s.Get(1, 0)); got != ErrorText {
		t.Errorf("runaway call = %q", got)
	}
	if got := text(s.Get(0, 0)); got != "fine" {
		t.Errorf("after interrupt = %q", got)
	}
}

func TestEvalAndOutput(t *testing.T) {
	s := mustCompile(t, `function cell(r, c) { print("cell", r, c); return ""; }`)
	s.Get(2, 3)
	got, err := s.Eval(4, 5, "row * 10 + col")
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if got != "45" {
		t.Errorf("eval = %q, want 45", got)
	}
	if _, err := s.Eval(0, 0, "nope("); err == nil {
		t.Error("bad expression should fail")
	}
	if out := strings.Join(s.Output(), "|"); out != "cell 2 3" {
		t.Errorf("output = %q", out)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cells.js")
	if err := os.WriteFile(path, []byte(`function cell(r, c) { return "f" + r; }`), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := text(s.Get(9, 0)); got != "f9" {
		t.Errorf("loaded cell = %q", got)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.js")); err == nil {
		t.Error("missing file should fail")
	}
}
