// Package cellscript produces table cells from a JavaScript program run
// in Goja. The program defines cell(row, col), which returns either a
// string or an object {text, width, height}. Edits starting with "="
// are evaluated as expressions with row and col bound.
package cellscript

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/dop251/goja"

	"github.com/wesen/tablelite/pkg/grid"
	"github.com/wesen/tablelite/pkg/tablelog"
)

// ErrNoCellFunc is returned when a program does not define cell().
var ErrNoCellFunc = errors.New("cellscript: program does not define cell(row, col)")

// ErrorText is shown in cells whose script call failed.
const ErrorText = "#ERR"

const maxOutput = 200

// Default generates a header row, a row-number column and a few cells
// with multi-line or wide content.
const Default = `
function cell(row, col) {
  if (row == 0 && col == 0) return "#";
  if (row == 0) return "col " + col;
  if (col == 0) return str(row);
  if ((row + col) % 11 == 0) return {text: "r" + row + "\nc" + col};
  if (col % 4 == 0) return {text: "wide " + row * col, width: 14};
  return "r" + row + "c" + col;
}
`

// Script is a compiled cell program. It is safe for concurrent use; calls
// are serialized on the one runtime.
type Script struct {
	mu      sync.Mutex
	rt      *goja.Runtime
	cell    goja.Callable
	output  []string
	timeout time.Duration
	log     *slog.Logger
}

type Option func(*Script)

// WithTimeout interrupts any single call running longer than d.
func WithTimeout(d time.Duration) Option { return func(s *Script) { s.timeout = d } }

func WithLogger(l *slog.Logger) Option { return func(s *Script) { s.log = l } }

// Compile runs src and binds its cell function.
func Compile(name, src string, opts ...Option) (*Script, error) {
	s := &Script{rt: goja.New(), timeout: time.Second, log: tablelog.Logger()}
	for _, o := range opts {
		o(s)
	}

	s.rt.Set("print", func(call goja.FunctionCall) goja.Value {
		parts := make([]string, len(call.Arguments))
		for i, arg := range call.Arguments {
			parts[i] = arg.String()
		}
		s.appendOutput(strings.Join(parts, " "))
		return goja.Undefined()
	})
	s.rt.Set("str", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			return s.rt.ToValue("")
		}
		return s.rt.ToValue(call.Arguments[0].String())
	})

	prog, err := goja.Compile(name, src, false)
	if err != nil {
		return nil, fmt.Errorf("cellscript: compile %s: %w", name, err)
	}
	if _, err := s.guard(func() (goja.Value, error) { return s.rt.RunProgram(prog) }); err != nil {
		return nil, fmt.Errorf("cellscript: run %s: %w", name, err)
	}
	fn, ok := goja.AssertFunction(s.rt.Get("cell"))
	if !ok {
		return nil, ErrNoCellFunc
	}
	s.cell = fn
	return s, nil
}

// Load compiles the program in path.
func Load(path string, opts ...Option) (*Script, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cellscript: %w", err)
	}
	return Compile(path, string(src), opts...)
}

// guard runs fn under the timeout.
func (s *Script) guard(fn func() (goja.Value, error)) (goja.Value, error) {
	if s.timeout > 0 {
		t := time.AfterFunc(s.timeout, func() { s.rt.Interrupt("timeout") })
		defer func() {
			t.Stop()
			s.rt.ClearInterrupt()
		}()
	}
	return fn()
}

// Get implements grid.CellFactory. Script failures produce an ErrorText
// cell and are logged.
func (s *Script) Get(row, col int) *grid.Cell {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, err := s.guard(func() (goja.Value, error) {
		return s.cell(goja.Undefined(), s.rt.ToValue(row), s.rt.ToValue(col))
	})
	if err != nil {
		s.log.Warn("cellscript: cell failed", "row", row, "col", col, "err", err)
		return grid.NewCell(grid.Text(ErrorText))
	}
	return s.toCell(v)
}

func (s *Script) toCell(v goja.Value) *grid.Cell {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return grid.NewCell(grid.Text(""))
	}
	if _, ok := v.Export().(map[string]any); !ok {
		return grid.NewCell(grid.Text(v.String()))
	}
	obj := v.ToObject(s.rt)
	text := ""
	if t := obj.Get("text"); t != nil && !goja.IsUndefined(t) {
		text = t.String()
	}
	return grid.NewSizedCell(grid.Text(text), dimension(obj.Get("width")), dimension(obj.Get("height")))
}

func dimension(v goja.Value) int {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return grid.Unset
	}
	n := int(v.ToInteger())
	if n <= 0 {
		return grid.Unset
	}
	return n
}

// Eval evaluates expr with row and col bound and returns its string
// form.
func (s *Script) Eval(row, col int, expr string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rt.Set("row", row)
	s.rt.Set("col", col)
	v, err := s.guard(func() (goja.Value, error) { return s.rt.RunString(expr) })
	if err != nil {
		return "", fmt.Errorf("cellscript: eval %q: %w", expr, err)
	}
	if goja.IsUndefined(v) || goja.IsNull(v) {
		return "", nil
	}
	return v.String(), nil
}

// Output returns the lines printed so far, oldest first.
func (s *Script) Output() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.output...)
}

// appendOutput runs inside a call, with mu held.
func (s *Script) appendOutput(line string) {
	s.output = append(s.output, line)
	if n := len(s.output); n > maxOutput {
		s.output = append(s.output[:0], s.output[n-maxOutput:]...)
	}
}
