package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/mwnorman/pluginspi/internal/ctxlog"
	"github.com/mwnorman/pluginspi/internal/registry"
	"github.com/mwnorman/pluginspi/modules/helpers"
	"github.com/mwnorman/pluginspi/modules/socketio"
)

// Run finds the plugins for the configured contract through the process-wide
// registry and runs each of them.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "contract", a.config.Contract)

	var err error
	switch a.config.Contract {
	case ContractNotifier:
		err = a.runNotifiers(ctx)
	default:
		a.runHelpers()
	}

	a.logger.Debug("App.Run method finished.")
	return err
}

func (a *App) runHelpers() {
	found := registry.Find[helpers.Helper](registry.Get())
	if len(found) == 0 {
		a.logger.Warn("No helper plugins found.")
		return
	}
	a.logger.Info("Running helper plugins.", "count", len(found))
	for _, h := range found {
		h.Help(a.outW)
	}
}

func (a *App) runNotifiers(ctx context.Context) error {
	found := registry.Find[socketio.Notifier](registry.Get())
	if len(found) == 0 {
		a.logger.Warn("No notifier plugins found.")
		return nil
	}

	symbols := make([]string, 0)
	for _, m := range registry.Get().Manifests() {
		symbols = append(symbols, m.Symbol)
	}
	payload := map[string]any{"manifests": symbols}

	var errs []error
	for _, n := range found {
		if err := n.Notify(ctx, a.config.Event, payload); err != nil {
			a.logger.Error("Notifier failed.", "plugin", fmt.Sprintf("%T", n), "error", err)
			errs = append(errs, err)
		}
		if c, ok := n.(io.Closer); ok {
			if err := c.Close(); err != nil {
				a.logger.Warn("Problem closing notifier.", "error", err)
			}
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("notification failed: %w", errors.Join(errs...))
	}
	return nil
}
