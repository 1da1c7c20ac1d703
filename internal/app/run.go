package app

import (
	"context"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/solconf/solconf/internal/ctxlog"
	"github.com/solconf/solconf/internal/solconf"
)

// Run resolves the configuration once and encodes the result to the
// output writer.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("Resolving configuration.", "path", a.config.Path)

	c, err := a.build()
	if err != nil {
		return err
	}
	value, err := a.resolve(ctx, c)
	if err != nil {
		return err
	}
	a.reportUnused(c)
	return a.encode(value)
}

// Check applies every modifier pipeline without resolving values, so
// structural mistakes surface without producing output.
func (a *App) Check(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	c, err := a.build()
	if err != nil {
		return err
	}
	if err := c.Check(ctx); err != nil {
		return err
	}
	a.logger.Info("Configuration is structurally valid.", "path", a.config.Path)
	return nil
}

func (a *App) resolve(ctx context.Context, c *solconf.SolConf) (any, error) {
	if a.config.Address != "" {
		return c.ValueAt(ctx, a.config.Address)
	}
	return c.Resolve(ctx)
}

// reportUnused warns about overrides that never matched a node, which
// usually means a mistyped address.
func (a *App) reportUnused(c *solconf.SolConf) {
	if unused := c.Overrides().Unused(); len(unused) > 0 {
		a.logger.Warn("Overrides never matched a node.", "targets", unused)
	}
}

func (a *App) encode(value any) error {
	if a.config.Format == "json" {
		enc := json.NewEncoder(a.outW)
		enc.SetIndent("", "  ")
		return enc.Encode(value)
	}
	enc := yaml.NewEncoder(a.outW)
	enc.SetIndent(2)
	if err := enc.Encode(value); err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	return enc.Close()
}
