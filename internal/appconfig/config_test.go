package appconfig

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/wesen/tablelite/pkg/grid"
)

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	if err := c.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	g := c.Table()
	if e, ok := g.RowPin(0); !ok || e != grid.Top {
		t.Error("row 0 should be pinned top")
	}
	if e, ok := g.ColumnPin(0); !ok || e != grid.Left {
		t.Error("column 0 should be pinned left")
	}
	if !g.Highlight.Row || !g.Highlight.Column {
		t.Error("default highlights both axes")
	}
	if got := c.Tuning().LongPressTimeout; got != 500*time.Millisecond {
		t.Errorf("long press = %v", got)
	}
}

func TestParseOverridesDefaults(t *testing.T) {
	c, err := Parse(`
[sizing]
min_row_height = 2
max_column_width = 40

[pins]
top = [0, 1]
right = [9]

[highlight]
both = true
first_cell = "row"

[drag]
row = "click"
column = "none"

[data]
rows = 10
script = "cells.js"
stream_rows = 3
stream_interval = "250ms"

[log]
level = "debug"

[gesture]
long_press = "300ms"
fling_xy = true
`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c.Sizing.MinRowHeight != 2 || c.Sizing.MaxColumnWidth != 40 {
		t.Errorf("sizing = %+v", c.Sizing)
	}
	if c.Sizing.MinColumnWidth != 1 || c.Sizing.RowHeight != grid.Unset {
		t.Errorf("unset sizing fields should keep defaults: %+v", c.Sizing)
	}
	if c.Data.Rows != 10 || c.Data.Columns != 30 {
		t.Errorf("data size = %dx%d", c.Data.Rows, c.Data.Columns)
	}
	if c.Data.StreamInterval.Duration != 250*time.Millisecond {
		t.Errorf("stream interval = %v", c.Data.StreamInterval)
	}
	if c.Drag.Row != grid.DragClick || c.Drag.Column != grid.DragNone {
		t.Errorf("drag = %v/%v", c.Drag.Row, c.Drag.Column)
	}
	if !c.Drag.RecoverHighlight {
		t.Error("unset drag fields should keep defaults")
	}
	if c.Highlight.FirstCell != grid.ActionRow || !c.Highlight.Both {
		t.Errorf("highlight = %+v", c.Highlight)
	}
	if l, _ := c.Level(); l != slog.LevelDebug {
		t.Errorf("level = %v", l)
	}
	tu := c.Tuning()
	if tu.LongPressTimeout != 300*time.Millisecond || !tu.FlingXY {
		t.Errorf("tuning = %+v", tu)
	}

	g := c.Table()
	if got := g.RowPins(grid.Top); len(got) != 2 {
		t.Errorf("top pins = %v", got)
	}
	if e, ok := g.ColumnPin(9); !ok || e != grid.Right {
		t.Error("column 9 should be pinned right")
	}
	if g.Sizing().MinRowHeight != 2 {
		t.Error("sizing not applied")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"unknown key", "[data]\nrowz = 3", "unknown keys: data.rowz"},
		{"bad drag mode", "[drag]\nrow = \"sideways\"", "unknown drag mode"},
		{"bad duration", "[gesture]\nlong_press = \"soon\"", "duration"},
		{"negative rows", "[data]\nrows = -1", "negative size"},
		{"stream without interval", "[data]\nstream_rows = 2\nstream_interval = \"0s\"", "stream_interval"},
		{"bad level", "[log]\nlevel = \"chatty\"", "log:"},
		{"min size", "[sizing]\nmin_row_height = 0", "minimums"},
		{"syntax", "[data\nrows = 1", "appconfig"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.src)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q should mention %q", err, tc.want)
			}
		})
	}
}

func TestWriteThenLoad(t *testing.T) {
	c := Default()
	c.Data.Rows = 7
	c.Pins.Bottom = []int{6}
	var buf bytes.Buffer
	if err := Write(&buf, c); err != nil {
		t.Fatalf("write: %v", err)
	}
	path := filepath.Join(t.TempDir(), "tablelite.toml")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v\n%s", err, buf.String())
	}
	if got.Data.Rows != 7 || len(got.Pins.Bottom) != 1 || got.Pins.Bottom[0] != 6 {
		t.Errorf("round trip lost data: %+v", got)
	}
	if got.Gesture.LongPress != c.Gesture.LongPress {
		t.Errorf("long press = %v", got.Gesture.LongPress)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("missing file should fail")
	}
}
