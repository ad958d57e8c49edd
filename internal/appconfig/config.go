// Package appconfig loads the terminal app's TOML configuration and
// turns it into engine settings.
package appconfig

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/wesen/tablelite/pkg/gesture"
	"github.com/wesen/tablelite/pkg/grid"
)

// Duration is a time.Duration written as a Go duration string ("300ms").
type Duration struct{ time.Duration }

func (d Duration) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Pins lists the rows and columns pinned to each edge.
type Pins struct {
	Top    []int `toml:"top"`
	Bottom []int `toml:"bottom"`
	Left   []int `toml:"left"`
	Right  []int `toml:"right"`
}

// Data describes the initial table and where its cells come from.
type Data struct {
	Rows    int `toml:"rows"`
	Columns int `toml:"columns"`
	// Script is a JavaScript file defining cell(row, col). Empty uses
	// the built-in generator.
	Script        string   `toml:"script"`
	ScriptTimeout Duration `toml:"script_timeout"`
	// StreamRows rows are appended every StreamInterval while the app
	// runs. Zero disables streaming.
	StreamRows     int      `toml:"stream_rows"`
	StreamInterval Duration `toml:"stream_interval"`
}

type Log struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// Gesture mirrors gesture.Tuning in file-friendly units.
type Gesture struct {
	TouchSlop        int      `toml:"touch_slop"`
	LongPress        Duration `toml:"long_press"`
	MinFlingVelocity float64  `toml:"min_fling_velocity"`
	EnableFlingRate  float64  `toml:"enable_fling_rate"`
	FlingRate        float64  `toml:"fling_rate"`
	FlingXY          bool     `toml:"fling_xy"`
	Deceleration     float64  `toml:"deceleration"`
	MaxFling         Duration `toml:"max_fling"`
	FPS              int      `toml:"fps"`
}

// Config is the whole file.
type Config struct {
	Sizing    grid.Sizing          `toml:"sizing"`
	Pins      Pins                 `toml:"pins"`
	Highlight grid.HighlightPolicy `toml:"highlight"`
	Drag      grid.DragPolicy      `toml:"drag"`
	Data      Data                 `toml:"data"`
	Log       Log                  `toml:"log"`
	Gesture   Gesture              `toml:"gesture"`
}

// Default returns the settings used when no file is given: a header row
// and column pinned, highlighting on both axes and long-press resizing.
func Default() Config {
	g := grid.NewConfig()
	t := gesture.DefaultTuning()
	hl := g.Highlight
	hl.Row, hl.Column = true, true
	return Config{
		Sizing:    g.Sizing(),
		Pins:      Pins{Top: []int{0}, Left: []int{0}},
		Highlight: hl,
		Drag:      g.Drag,
		Data: Data{
			Rows:           200,
			Columns:        30,
			ScriptTimeout:  Duration{time.Second},
			StreamInterval: Duration{time.Second},
		},
		Log: Log{Level: "info"},
		Gesture: Gesture{
			TouchSlop:        t.TouchSlop,
			LongPress:        Duration{t.LongPressTimeout},
			MinFlingVelocity: t.MinFlingVelocity,
			EnableFlingRate:  t.EnableFlingRate,
			FlingRate:        t.FlingRate,
			FlingXY:          t.FlingXY,
			Deceleration:     t.Deceleration,
			MaxFling:         Duration{t.MaxFlingDuration},
			FPS:              t.FPS,
		},
	}
}

// Load reads path over the defaults. Unknown keys are an error.
func Load(path string) (Config, error) {
	c := Default()
	md, err := toml.DecodeFile(path, &c)
	if err != nil {
		return c, fmt.Errorf("appconfig: %w", err)
	}
	return c, finish(c, md)
}

// Parse reads TOML text over the defaults.
func Parse(s string) (Config, error) {
	c := Default()
	md, err := toml.Decode(s, &c)
	if err != nil {
		return c, fmt.Errorf("appconfig: %w", err)
	}
	return c, finish(c, md)
}

func finish(c Config, md toml.MetaData) error {
	if keys := md.Undecoded(); len(keys) > 0 {
		names := make([]string, len(keys))
		for i, k := range keys {
			names[i] = k.String()
		}
		return fmt.Errorf("appconfig: unknown keys: %s", strings.Join(names, ", "))
	}
	return c.Validate()
}

// Validate checks ranges the engine cannot clamp on its own.
func (c Config) Validate() error {
	var errs []error
	if c.Data.Rows < 0 || c.Data.Columns < 0 {
		errs = append(errs, fmt.Errorf("data: negative size %dx%d", c.Data.Rows, c.Data.Columns))
	}
	if c.Data.StreamRows < 0 {
		errs = append(errs, fmt.Errorf("data: negative stream_rows %d", c.Data.StreamRows))
	}
	if c.Data.StreamRows > 0 && c.Data.StreamInterval.Duration <= 0 {
		errs = append(errs, errors.New("data: stream_interval must be positive"))
	}
	if c.Sizing.MinRowHeight < 1 || c.Sizing.MinColumnWidth < 1 {
		errs = append(errs, errors.New("sizing: minimums must be at least 1"))
	}
	if c.Gesture.FPS <= 0 {
		errs = append(errs, fmt.Errorf("gesture: fps must be positive, got %d", c.Gesture.FPS))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("appconfig: %w", err)
	}
	return nil
}

// Level parses Log.Level.
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return l, fmt.Errorf("log: %w", err)
	}
	return l, nil
}

// Table builds the engine configuration.
func (c Config) Table() *grid.Config {
	g := grid.NewConfig()
	g.SetSizing(c.Sizing)
	g.Highlight = c.Highlight
	g.Drag = c.Drag
	for _, r := range c.Pins.Top {
		g.AddRowPin(r, grid.Top)
	}
	for _, r := range c.Pins.Bottom {
		g.AddRowPin(r, grid.Bottom)
	}
	for _, col := range c.Pins.Left {
		g.AddColumnPin(col, grid.Left)
	}
	for _, col := range c.Pins.Right {
		g.AddColumnPin(col, grid.Right)
	}
	return g
}

// Tuning builds the gesture thresholds.
func (c Config) Tuning() gesture.Tuning {
	g := c.Gesture
	return gesture.Tuning{
		TouchSlop:        g.TouchSlop,
		LongPressTimeout: g.LongPress.Duration,
		MinFlingVelocity: g.MinFlingVelocity,
		EnableFlingRate:  g.EnableFlingRate,
		FlingRate:        g.FlingRate,
		FlingXY:          g.FlingXY,
		Deceleration:     g.Deceleration,
		MaxFlingDuration: g.MaxFling.Duration,
		FPS:              g.FPS,
	}
}

// Write encodes c as TOML.
func Write(w io.Writer, c Config) error {
	return toml.NewEncoder(w).Encode(c)
}
