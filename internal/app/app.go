// Package app wires the engine behind the CLI: validated configuration,
// an isolated logger, and the load, build, resolve, encode pipeline.
package app

import (
	"io"
	"log/slog"
	"path/filepath"

	"github.com/solconf/solconf/internal/loader"
	"github.com/solconf/solconf/internal/solconf"
)

// App encapsulates one solex invocation: its configuration, logger and
// output writer.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
}

// New creates an App. Resolved output goes to outW, log records to logW.
func New(outW, logW io.Writer, cfg *Config) *App {
	return &App{
		outW:   outW,
		logger: newLogger(cfg.LogLevel, cfg.LogFormat, logW),
		config: cfg,
	}
}

// build loads the root file and assembles a fresh engine instance over
// it. Every run gets its own: a failed instance is terminal.
func (a *App) build() (*solconf.SolConf, error) {
	raw, err := loader.LoadFile(a.config.Path)
	if err != nil {
		return nil, err
	}
	roots := append([]string{filepath.Dir(a.config.Path)}, a.config.UnitDirs...)
	opts := []solconf.Option{
		solconf.WithLoader(loader.NewFileSource(roots...)),
	}
	for _, set := range a.config.Overrides {
		opts = append(opts, solconf.WithOverrides(set))
	}
	return solconf.New(raw, opts...)
}
