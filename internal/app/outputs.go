package app

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dsrosen6/screenpower/internal/hyprctl"
	"github.com/dsrosen6/screenpower/internal/output"
)

// SyncOutputs asks Hyprland for the current monitors and updates the
// registry. New outputs get attached to the forwarder through the registry
// hook.
func (a *App) SyncOutputs() error {
	monitors, err := a.Hctl.ListMonitors()
	if err != nil {
		return fmt.Errorf("listing current monitors: %w", err)
	}

	names := hyprctl.MonitorNames(monitors)
	slog.Info("monitors detected", "names", strings.Join(names, ","))

	added, removed := a.Outputs.Sync(names)
	if len(added) > 0 {
		slog.Info("outputs added", "names", strings.Join(added, ","))
	}
	if len(removed) > 0 {
		slog.Info("outputs removed", "names", strings.Join(removed, ","))
	}

	return nil
}

// TurnOff fires the about-to-turn-off transition on each named output, or on
// every known output when names is empty. With dpms enabled the output is
// then switched off.
func (a *App) TurnOff(names []string) error {
	var errs []error
	for _, o := range a.targets(names) {
		o.TurnOff()
		slog.Info("output about to turn off", "output", o.Name())

		if a.dpmsEnabled() {
			if err := a.Hctl.SetDPMS(o.Name(), false); err != nil {
				errs = append(errs, fmt.Errorf("turning off %s: %w", o.Name(), err))
			}
		}
	}

	return errors.Join(errs...)
}

// WakeUp is the reverse of TurnOff: with dpms enabled the output is switched
// on first, then the wake-up transition fires.
func (a *App) WakeUp(names []string) error {
	var errs []error
	for _, o := range a.targets(names) {
		if a.dpmsEnabled() {
			if err := a.Hctl.SetDPMS(o.Name(), true); err != nil {
				errs = append(errs, fmt.Errorf("waking %s: %w", o.Name(), err))
			}
		}

		o.WakeUp()
		slog.Info("output woke up", "output", o.Name())
	}

	return errors.Join(errs...)
}

func (a *App) targets(names []string) []*output.Output {
	if len(names) == 0 {
		return a.Outputs.All()
	}

	var out []*output.Output
	for _, n := range names {
		o, ok := a.Outputs.Get(n)
		if !ok {
			slog.Warn("unknown output; skipping", "output", n)
			continue
		}
		out = append(out, o)
	}

	return out
}

func (a *App) dpmsEnabled() bool {
	return a.Cfg != nil && a.Cfg.DPMS
}
