// tablebench renders a large table headlessly into a cell frame and
// reports how long full redraws, partial cell redraws and wheel scrolling
// take at a few scroll positions.
//
// Run: GOWORK=off go run ./cmd/tablebench/ --rows 100000 --show
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"os"
	"time"

	"charm.land/lipgloss/v2"
	ltable "charm.land/lipgloss/v2/table"

	"github.com/wesen/tablelite/pkg/cellbuf"
	"github.com/wesen/tablelite/pkg/grid"
	"github.com/wesen/tablelite/pkg/table"
	"github.com/wesen/tablelite/pkg/tablerender"
)

// Style keys
const (
	BG     cellbuf.StyleKey = 0
	Cell   cellbuf.StyleKey = 1
	Header cellbuf.StyleKey = 2
	Rule   cellbuf.StyleKey = 3
	Mask   cellbuf.StyleKey = 4
)

const (
	paintCell = tablerender.PaintUser + iota
	paintHeader
	paintRule
)

var styles = map[cellbuf.StyleKey]lipgloss.Style{
	BG:     lipgloss.NewStyle().Background(lipgloss.Color("#0a0a0a")),
	Cell:   lipgloss.NewStyle().Foreground(lipgloss.Color("#00d4a0")).Background(lipgloss.Color("#0a0a0a")),
	Header: lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffcc")).Background(lipgloss.Color("#0a1510")).Bold(true),
	Rule:   lipgloss.NewStyle().Foreground(lipgloss.Color("#1a3a1a")).Background(lipgloss.Color("#0a0a0a")),
	Mask:   lipgloss.NewStyle().Foreground(lipgloss.Color("#ffcc00")).Background(lipgloss.Color("#332200")),
}

var palette = cellbuf.Palette{
	tablerender.PaintBackground: {Style: BG},
	tablerender.PaintMaskFill:   {Style: Mask, Tint: true},
	tablerender.PaintMaskEdge:   {Style: Mask, Tint: true},
	tablerender.PaintIndicator:  {Style: Mask},
	paintCell:                   {Style: Cell},
	paintHeader:                 {Style: Header},
	paintRule:                   {Style: Rule},
}

func paint(_ tablerender.Table, s tablerender.Surface, c *grid.Cell, rect image.Rectangle, row, col int) {
	p := paintCell
	if row == 0 || col == 0 {
		p = paintHeader
	}
	s.FillRect(rect, p)
	if t, ok := c.Data().(grid.Text); ok {
		for i, line := range t.Lines() {
			s.DrawText(image.Pt(rect.Min.X+1, rect.Min.Y+i), line, p)
		}
	}
	x := rect.Max.X - 1
	s.DrawLine(image.Pt(x, rect.Min.Y), image.Pt(x, rect.Max.Y-1), paintRule)
}

func cellAt(row, col int) *grid.Cell {
	switch {
	case row == 0 && col == 0:
		return grid.NewCell(grid.Text("#"))
	case row == 0:
		return grid.NewCell(grid.Text(fmt.Sprintf("C%d", col)))
	case col == 0:
		return grid.NewCell(grid.Text(fmt.Sprintf("R%d", row)))
	case row%7 == 0 && col%5 == 0:
		return grid.NewCell(grid.Text(fmt.Sprintf("%d\n%d", row, col)))
	}
	return grid.NewCell(grid.Text(fmt.Sprintf("%d", row*col)))
}

type result struct {
	name   string
	frames int
	total  time.Duration
	cells  int
}

func (r result) row() []string {
	per := time.Duration(0)
	if r.frames > 0 {
		per = r.total / time.Duration(r.frames)
	}
	return []string{r.name, fmt.Sprint(r.frames), r.total.Round(time.Microsecond).String(), per.String(), fmt.Sprint(r.cells)}
}

func main() {
	var (
		rows   = flag.Int("rows", 10000, "row count")
		cols   = flag.Int("cols", 40, "column count")
		width  = flag.Int("width", 120, "viewport width")
		height = flag.Int("height", 40, "viewport height")
		frames = flag.Int("frames", 200, "frames per measurement")
		show   = flag.Bool("show", false, "print the last frame")
	)
	flag.Parse()

	cfg := grid.NewConfig()
	cfg.AddRowPin(0, grid.Top)
	cfg.AddColumnPin(0, grid.Left)
	cfg.Highlight.Row, cfg.Highlight.Column = true, true

	tbl := table.New(cfg, grid.Factory(cellAt), tablerender.PainterFunc(paint))
	defer tbl.Close()
	frame := cellbuf.NewFrame(*width, *height, BG, palette)
	tbl.Attach(frame)
	tbl.SetViewport(image.Pt(*width, *height))

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	start := time.Now()
	tbl.Data().SetNewData(*rows, *cols)
	if err := tbl.Data().Flush(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	load := time.Since(start)
	tbl.SyncRedraw()

	measure := func(name string, n int, fn func(i int)) result {
		start := time.Now()
		for i := range n {
			fn(i)
		}
		return result{name: name, frames: n, total: time.Since(start), cells: len(tbl.ShowCells())}
	}

	size := tbl.ActualSize()
	ctl := tbl.Gesture()
	var results []result
	for _, pos := range []struct {
		name string
		at   image.Point
	}{
		{"full @ top-left", image.Point{}},
		{"full @ middle", size.Div(2)},
		{"full @ bottom-right", size},
	} {
		ctl.ScrollTo(pos.at.X, pos.at.Y)
		results = append(results, measure(pos.name, *frames, func(int) { tbl.SyncRedraw() }))
	}

	ctl.ScrollTo(0, 0)
	tbl.SyncRedraw()
	results = append(results, measure("partial cell", *frames, func(i int) {
		text := "1:1"
		if i%2 == 1 {
			text = "1*1"
		}
		tbl.RedrawCell(1, 1, grid.Text(text))
	}))
	results = append(results, measure("wheel scroll", *frames, func(int) {
		if !ctl.Wheel(0, 3) {
			ctl.ScrollTo(0, 0)
		}
	}))

	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#00ffcc")).
		Bold(true).
		Underline(true)
	fmt.Println()
	fmt.Println(title.Render(fmt.Sprintf("  tablebench %dx%d cells in a %dx%d viewport", *rows, *cols, *width, *height)))
	fmt.Println()

	t := ltable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#1a3a1a"))).
		Headers("pass", "frames", "total", "per frame", "visible cells")
	for _, r := range results {
		t.Row(r.row()...)
	}
	fmt.Println(t.Render())

	legend := lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	fmt.Println(legend.Render(fmt.Sprintf("  load %s  content %dx%d  draw count %d",
		load.Round(time.Microsecond), size.X, size.Y, tbl.DrawCount())))
	fmt.Println()

	if *show {
		fmt.Println(frame.Render(styles))
		fmt.Println()
	}
}
