package grid

import (
	"slices"
	"testing"
)

func TestRowPinsFirstEdgeWins(t *testing.T) {
	c := NewConfig()
	c.AddRowPin(2, Top)
	c.AddRowPin(2, Bottom)
	c.AddRowPin(0, Top)
	c.AddRowPin(5, Bottom)
	c.AddRowPin(1, Left) // not a row edge

	if got := c.RowPins(Top); !slices.Equal(got, []int{0, 2}) {
		t.Errorf("top pins %v", got)
	}
	if got := c.RowPins(Bottom); !slices.Equal(got, []int{5}) {
		t.Errorf("bottom pins %v", got)
	}

	c.RemoveRowPin(2, Bottom) // wrong edge, ignored
	if e, ok := c.RowPin(2); !ok || e != Top {
		t.Fatalf("row 2 pin = %v,%v", e, ok)
	}
	c.RemoveRowPin(2, Top)
	c.AddRowPin(2, Bottom)
	if got := c.RowPins(Bottom); !slices.Equal(got, []int{2, 5}) {
		t.Errorf("after re-pin bottom pins %v", got)
	}

	c.ClearRowPins(Bottom)
	if len(c.RowPins(Bottom)) != 0 || len(c.RowPins(Top)) != 1 {
		t.Error("ClearRowPins should only clear one edge")
	}
	c.ClearAllRowPins()
	if len(c.RowPins(Top)) != 0 {
		t.Error("ClearAllRowPins should clear everything")
	}
}

func TestColumnPins(t *testing.T) {
	c := NewConfig()
	c.AddColumnPin(3, Right)
	c.AddColumnPin(3, Left)
	c.AddColumnPin(1, Left)
	c.AddColumnPin(0, Top)
	if got := c.ColumnPins(Left); !slices.Equal(got, []int{1}) {
		t.Errorf("left pins %v", got)
	}
	if got := c.ColumnPins(Right); !slices.Equal(got, []int{3}) {
		t.Errorf("right pins %v", got)
	}
	c.ClearColumnPins(Right)
	if _, ok := c.ColumnPin(3); ok {
		t.Error("column 3 should be unpinned")
	}
	c.ClearAllColumnPins()
	if len(c.ColumnPins(Left)) != 0 {
		t.Error("expected no left pins")
	}
}

func TestConfigDefaults(t *testing.T) {
	c := NewConfig()
	s := c.Sizing()
	if s.MinRowHeight != 1 || s.MaxRowHeight != Unset || s.RowHeight != Unset {
		t.Errorf("unexpected sizing %+v", s)
	}
	if c.Drag.Row != DragLongPress || c.Drag.Column != DragLongPress {
		t.Error("drag should default to long press")
	}
	if !c.Drag.RecoverHighlight || !c.Drag.Indicator {
		t.Error("recovery and indicator should default on")
	}
	if c.Highlight.Row || c.Highlight.Column {
		t.Error("highlight should default off")
	}
}

func TestEnumText(t *testing.T) {
	var a ActionType
	if err := a.UnmarshalText([]byte("Column")); err != nil || a != ActionColumn {
		t.Fatalf("got %v, %v", a, err)
	}
	if err := a.UnmarshalText([]byte("sideways")); err == nil {
		t.Error("expected error for unknown action")
	}
	var d DragMode
	if err := d.UnmarshalText([]byte("long-press")); err != nil || d != DragLongPress {
		t.Fatalf("got %v, %v", d, err)
	}
	b, _ := DragClick.MarshalText()
	if string(b) != "click" {
		t.Errorf("marshal = %q", b)
	}
	if !ActionBoth.AllowsRow() || !ActionBoth.AllowsColumn() || ActionRow.AllowsColumn() || ActionNone.AllowsRow() {
		t.Error("AllowsRow/AllowsColumn mismatch")
	}
}
