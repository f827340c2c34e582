// Package app runs the screenpower daemon: it keeps the set of outputs in
// step with Hyprland and fires their power transitions, which the forwarder
// relays to D-Bus.
package app

import (
	"log/slog"

	"github.com/dsrosen6/screenpower/internal/config"
	"github.com/dsrosen6/screenpower/internal/forwarder"
	"github.com/dsrosen6/screenpower/internal/hyprctl"
	"github.com/dsrosen6/screenpower/internal/output"
)

// Hyprctl is what the app needs from the compositor.
type Hyprctl interface {
	ListMonitors() ([]hyprctl.Monitor, error)
	SetDPMS(name string, on bool) error
}

type App struct {
	Hctl    Hyprctl
	Cfg     *config.Config
	Outputs *output.Registry
	Level   *slog.LevelVar
	// ForceDebug pins Level to debug; config reloads leave it alone.
	ForceDebug bool
	fwd        *forwarder.Forwarder
}

// NewApp wires the output registry to the forwarder: every output the
// registry learns about, at startup or on hot-plug, gets attached.
func NewApp(cfg *config.Config, hc Hyprctl, pub forwarder.Publisher, level *slog.LevelVar) *App {
	if level == nil {
		level = new(slog.LevelVar)
	}

	a := &App{
		Hctl:    hc,
		Cfg:     cfg,
		Outputs: output.NewRegistry(),
		Level:   level,
	}

	a.fwd = forwarder.New(pub, forwarder.WithErrorHandler(logPublishErr))
	a.Outputs.OnAdded(func(o *output.Output) {
		a.fwd.Attach(o)
		slog.Debug("forwarder attached", "output", o.Name())
	})

	return a
}

func logPublishErr(sig forwarder.Signal, err error) {
	slog.Error("publishing power signal", "signal", sig.Name(), "output", sig.Output, "error", err)
}
