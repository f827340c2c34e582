package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/coreos/go-systemd/v22/daemon"

	"github.com/dsrosen6/screenpower/internal/listener"
)

const reloadRetries = 5

type eventSource func(ctx context.Context, events chan<- listener.Event) error

// Listen starts screenpower's listener, which handles hyprland display
// add/remove events, commands from the screenpower CLI and config changes.
// All power transitions are fired from this goroutine.
func (a *App) Listen(ctx context.Context) error {
	return a.listen(ctx, func(ctx context.Context, events chan<- listener.Event) error {
		return listener.ListenForEvents(ctx, a.Cfg.Path(), a.Cfg.SocketPath(), events)
	})
}

func (a *App) listen(ctx context.Context, source eventSource) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := a.SyncOutputs(); err != nil {
		return fmt.Errorf("initial output sync: %w", err)
	}

	events := make(chan listener.Event, 16)
	errc := make(chan error, 1)

	go func() {
		if err := source(ctx, events); err != nil && !errors.Is(err, context.Canceled) {
			errc <- err
			cancel()
		}
	}()

	notify(daemon.SdNotifyReady)
	defer notify(daemon.SdNotifyStopping)

	for {
		select {
		case ev := <-events:
			slog.Info("received event from listener", "type", ev.Type, "details", ev.Details)
			a.handleEvent(ev)

		case err := <-errc:
			return fmt.Errorf("listener failed: %w", err)

		case <-ctx.Done():
			// a failing source cancels ctx after reporting; prefer its error
			select {
			case err := <-errc:
				return fmt.Errorf("listener failed: %w", err)
			default:
			}
			return ctx.Err()
		}
	}
}

func (a *App) handleEvent(ev listener.Event) {
	switch ev.Type {
	// Added and removed are handled the same way; the registry works out
	// which outputs are new and which are gone.
	case listener.DisplayAddEvent, listener.DisplayRemoveEvent, listener.DisplayUnknownEvent:
		if err := a.SyncOutputs(); err != nil {
			slog.Error("syncing outputs", "error", err)
		}

	case listener.TurnOffEvent:
		if err := a.TurnOff(ev.Outputs); err != nil {
			slog.Error("turning off outputs", "error", err)
		}

	case listener.WakeUpEvent:
		if err := a.WakeUp(ev.Outputs); err != nil {
			slog.Error("waking outputs", "error", err)
		}

	case listener.ConfigUpdatedEvent:
		notify(daemon.SdNotifyReloading)
		defer notify(daemon.SdNotifyReady)

		if err := a.Cfg.Reload(reloadRetries); err != nil {
			slog.Error("reloading config", "error", err)
			return
		}

		if !a.ForceDebug {
			a.Level.Set(a.Cfg.Level())
		}
		slog.Info("config reloaded", "log_level", a.Cfg.Level().String(), "dpms", a.Cfg.DPMS)
	}
}

// notify tells systemd about state changes when running as a notify unit.
// Outside systemd it does nothing.
func notify(state string) {
	sent, err := daemon.SdNotify(false, state)
	if err != nil {
		slog.Debug("sd_notify failed", "state", state, "error", err)
		return
	}

	if sent {
		slog.Debug("sd_notify sent", "state", state)
	}
}
