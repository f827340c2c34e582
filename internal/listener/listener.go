// Package listener gathers everything the daemon reacts to onto one channel:
// Hyprland monitor events, CLI commands and config file changes.
package listener

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/dsrosen6/screenpower/internal/hypr"
)

type Listener struct {
	hyprConn io.Reader
	cfgPath  string
	sockPath string
}

// New builds a Listener. hyprConn may be nil, in which case no compositor
// events are read.
func New(hyprConn io.Reader, cfgPath, sockPath string) *Listener {
	return &Listener{
		hyprConn: hyprConn,
		cfgPath:  cfgPath,
		sockPath: sockPath,
	}
}

// ListenForEvents connects to Hyprland and listens until ctx is done or a
// source fails.
func ListenForEvents(ctx context.Context, cfgPath, sockPath string, events chan<- Event) error {
	sc, err := hypr.NewSocketConn()
	if err != nil {
		return fmt.Errorf("creating hyprland socket connection: %w", err)
	}

	defer func() {
		if err := sc.Close(); err != nil {
			slog.Error("closing hyprland socket connection", "error", err)
		}
	}()

	// unblock the scanner on shutdown
	stop := context.AfterFunc(ctx, func() { _ = sc.Close() })
	defer stop()

	return New(sc, cfgPath, sockPath).Listen(ctx, events)
}

func (l *Listener) Listen(ctx context.Context, events chan<- Event) error {
	errc := make(chan error, 3)

	if l.hyprConn != nil {
		go func() {
			slog.Info("listening for hyprland events")
			if err := l.listenHyprland(ctx, events); err != nil {
				errc <- fmt.Errorf("hyprland listener: %w", err)
			}
		}()
	}

	if l.cfgPath != "" {
		go func() {
			slog.Info("listening for config changes", "path", l.cfgPath)
			if err := l.listenForConfigChanges(ctx, events); err != nil {
				errc <- fmt.Errorf("config listener: %w", err)
			}
		}()
	}

	go func() {
		slog.Info("listening for commands", "socket", l.sockPath)
		if err := l.commandListener(ctx, events); err != nil {
			errc <- fmt.Errorf("command listener: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-errc:
		return err
	}
}
