// tablelite is a terminal table viewer: pinned header rows and columns,
// drag-to-resize on the headers, fling scrolling and scripted cells.
//
// Run: GOWORK=off go run ./cmd/tablelite/ --rows 500 --stream 5
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"
	"golang.org/x/sync/errgroup"

	"github.com/wesen/tablelite/internal/appconfig"
	"github.com/wesen/tablelite/internal/cellscript"
	"github.com/wesen/tablelite/internal/tableui"
	"github.com/wesen/tablelite/pkg/tabledata"
	"github.com/wesen/tablelite/pkg/tablelog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath = flag.String("config", "", "TOML settings file")
		rows       = flag.Int("rows", 0, "initial row count")
		cols       = flag.Int("cols", 0, "initial column count")
		script     = flag.String("script", "", "JavaScript file defining cell(row, col)")
		logFile    = flag.String("log-file", "", "write logs to this file")
		logLevel   = flag.String("log-level", "", "debug, info, warn or error")
		stream     = flag.Int("stream", 0, "append this many rows every stream interval")
		dumpConfig = flag.Bool("dump-config", false, "print the effective settings as TOML and exit")
	)
	flag.Parse()

	cfg := appconfig.Default()
	if *configPath != "" {
		var err error
		if cfg, err = appconfig.Load(*configPath); err != nil {
			return err
		}
	}
	// flags given explicitly win over the file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "rows":
			cfg.Data.Rows = *rows
		case "cols":
			cfg.Data.Columns = *cols
		case "script":
			cfg.Data.Script = *script
		case "log-file":
			cfg.Log.File = *logFile
		case "log-level":
			cfg.Log.Level = *logLevel
		case "stream":
			cfg.Data.StreamRows = *stream
		}
	})
	if err := cfg.Validate(); err != nil {
		return err
	}
	if *dumpConfig {
		return appconfig.Write(os.Stdout, cfg)
	}

	logger, closeLog, err := openLog(cfg)
	if err != nil {
		return err
	}
	defer closeLog()
	tablelog.SetLogger(logger)

	sc, err := loadScript(cfg.Data, logger)
	if err != nil {
		return err
	}

	m := tableui.New(tableui.Options{
		Config:  cfg.Table(),
		Tuning:  cfg.Tuning(),
		Factory: sc,
		Script:  sc,
		Rows:    cfg.Data.Rows,
		Columns: cfg.Data.Columns,
		Logger:  logger,
	})
	defer m.Close()
	logger.Info("tablelite: starting", "rows", cfg.Data.Rows, "cols", cfg.Data.Columns, "script", cfg.Data.Script)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	p := tea.NewProgram(m)
	g.Go(func() error {
		defer cancel()
		_, err := p.Run()
		return err
	})
	if cfg.Data.StreamRows > 0 {
		g.Go(func() error {
			return feed(ctx, m.Table().Data(), cfg.Data.StreamRows, cfg.Data.StreamInterval.Duration, logger)
		})
	}
	return g.Wait()
}

// openLog returns a text logger writing to the configured file, or a
// silent logger when no file is set. The terminal belongs to the UI.
func openLog(c appconfig.Config) (*slog.Logger, func(), error) {
	if c.Log.File == "" {
		return tablelog.Nop(), func() {}, nil
	}
	lvl, err := c.Level()
	if err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(c.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log: %w", err)
	}
	l := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: lvl}))
	return l, func() { _ = f.Close() }, nil
}

func loadScript(d appconfig.Data, logger *slog.Logger) (*cellscript.Script, error) {
	opts := []cellscript.Option{
		cellscript.WithTimeout(d.ScriptTimeout.Duration),
		cellscript.WithLogger(logger),
	}
	if d.Script == "" {
		return cellscript.Compile("default.js", cellscript.Default, opts...)
	}
	return cellscript.Load(d.Script, opts...)
}

// feed appends rows on a ticker until ctx ends.
func feed(ctx context.Context, store *tabledata.Store, n int, every time.Duration, logger *slog.Logger) error {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			store.AppendRows(n)
			logger.Debug("tablelite: streamed rows", "n", n, "total", store.TotalRow())
		}
	}
}
