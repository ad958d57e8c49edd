// Package tableui is the terminal host for the table engine: a Bubbletea
// model that feeds mouse input to the gesture controller, draws the table
// into a double-buffered cell frame and shows engine state in a side
// panel.
package tableui

import (
	"image"
	"log/slog"
	"sync"
	"time"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/atotto/clipboard"

	"github.com/wesen/tablelite/internal/cellscript"
	"github.com/wesen/tablelite/pkg/cellbuf"
	"github.com/wesen/tablelite/pkg/gesture"
	"github.com/wesen/tablelite/pkg/grid"
	"github.com/wesen/tablelite/pkg/table"
	"github.com/wesen/tablelite/pkg/tablelog"
	"github.com/wesen/tablelite/pkg/tealayout"
)

// Options configures the model.
type Options struct {
	Config  *grid.Config
	Tuning  gesture.Tuning
	Factory grid.CellFactory
	// Script evaluates "=expr" edits and feeds the console. Optional.
	Script        *cellscript.Script
	Rows, Columns int
	Logger        *slog.Logger
	// Clipboard defaults to the system clipboard.
	Clipboard func(string) error
	Now       func() time.Time
}

// mailbox carries work posted by the data worker to the UI loop.
type mailbox struct {
	ch   chan func()
	done chan struct{}
	once sync.Once
}

func newMailbox() *mailbox {
	return &mailbox{ch: make(chan func(), 4), done: make(chan struct{})}
}

// Post blocks until the UI loop takes fn or the mailbox closes.
func (mb *mailbox) Post(fn func()) {
	select {
	case mb.ch <- fn:
	case <-mb.done:
	}
}

func (mb *mailbox) close() { mb.once.Do(func() { close(mb.done) }) }

// wait returns a command delivering the next posted function.
func (mb *mailbox) wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case fn := <-mb.ch:
			return postedMsg{fn: fn}
		case <-mb.done:
			return nil
		}
	}
}

// app is the mutable state shared by every copy of the Model.
type app struct {
	tbl    *table.Table
	frame  *cellbuf.Frame
	mb     *mailbox
	script *cellscript.Script
	copy   func(string) error
	now    func() time.Time
	log    *slog.Logger

	pressID  int
	pressed  bool
	clickRow int
	clickCol int
	clicks   int
	status   string
}

// Model is the main application state.
type Model struct {
	Width, Height int

	app    *app
	keys   keyMap
	help   help.Model
	layout tealayout.Layout

	// Edit modal state
	EditOpen  bool
	EditRow   int
	EditCol   int
	EditInput textinput.Model
}

// New creates the model and starts loading the initial data.
func New(o Options) Model {
	if o.Config == nil {
		o.Config = grid.NewConfig()
	}
	if o.Logger == nil {
		o.Logger = tablelog.Logger()
	}
	if o.Clipboard == nil {
		o.Clipboard = clipboard.WriteAll
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Tuning == (gesture.Tuning{}) {
		o.Tuning = gesture.DefaultTuning()
	}

	a := &app{
		mb:       newMailbox(),
		script:   o.Script,
		copy:     o.Clipboard,
		now:      o.Now,
		log:      o.Logger,
		clickRow: grid.Unset,
		clickCol: grid.Unset,
	}
	a.tbl = table.New(o.Config, o.Factory, cellPainter{},
		table.WithLogger(o.Logger),
		table.WithPoster(a.mb),
		table.WithTuning(o.Tuning),
	)
	a.tbl.SetCellClickListener(func(row, col int) {
		a.clickRow, a.clickCol = row, col
		a.clicks++
	})
	a.frame = cellbuf.NewFrame(0, 0, styleBG, palette)
	a.tbl.Attach(a.frame)
	a.tbl.Data().SetNewData(o.Rows, o.Columns)

	return Model{
		app:  a,
		keys: defaultKeys(),
		help: help.New(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.app.mb.wait()
}

// Table exposes the engine, for feeders running beside the UI.
func (m Model) Table() *table.Table { return m.app.tbl }

// Close stops the data worker and releases posted work.
func (m Model) Close() {
	m.app.mb.close()
	m.app.tbl.Close()
}

// Region names.
const (
	regionToolbar = "toolbar"
	regionFooter  = "footer"
	regionPanel   = "panel"
	regionTable   = "table"
)

const panelWidth = 30

func buildLayout(w, h int) tealayout.Layout {
	return tealayout.NewLayoutBuilder(w, h).
		TopFixed(regionToolbar, 1).
		BottomFixed(regionFooter, 1).
		RightFixed(regionPanel, panelWidth).
		Remaining(regionTable).
		Build()
}

// resize lays out the screen and sizes the table frame to its region.
func (m *Model) resize(w, h int) {
	m.Width, m.Height = w, h
	m.layout = buildLayout(w, h)
	size := m.layout.Get(regionTable).Size()
	// the separator takes the table's last column
	size.X = max(size.X-1, 0)
	m.app.frame.Resize(size.X, size.Y)
	m.app.tbl.SetViewport(size)
	m.app.tbl.SyncRedraw()
}

// tableRegion is the part of the table region the frame covers.
func (m Model) tableRegion() tealayout.Region {
	r := m.layout.Get(regionTable)
	r.Rect.Max.X = r.Rect.Min.X + m.app.frame.Size().X
	return r
}

// clicked returns the last clicked cell, or Unset pair.
func (m Model) clicked() (row, col int) { return m.app.clickRow, m.app.clickCol }

// targetRow prefers the highlighted row over the clicked one.
func (m Model) targetRow() int {
	if r := m.app.tbl.Gesture().HighlightRow(); r != grid.Unset {
		return r
	}
	return m.app.clickRow
}

func (m Model) targetColumn() int {
	if c := m.app.tbl.Gesture().HighlightColumn(); c != grid.Unset {
		return c
	}
	return m.app.clickCol
}

// cellText returns the text of the cell at (row, col).
func (m Model) cellText(row, col int) (string, bool) {
	cell := m.app.tbl.Snapshot().Cell(row, col)
	if cell == nil {
		return "", false
	}
	switch d := cell.Data().(type) {
	case grid.Text:
		return string(d), true
	case nil:
		return "", true
	case interface{ String() string }:
		return d.String(), true
	}
	return "", true
}

// localPoint maps a terminal position into table coordinates.
func (m Model) localPoint(p image.Point) (image.Point, bool) {
	return m.tableRegion().Local(p)
}
