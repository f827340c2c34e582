package listener

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"strings"
)

var ErrUnknownCommand = errors.New("unknown command")

// FormatCommand encodes a command for the daemon's socket: the event type
// followed by any output names, space separated.
func FormatCommand(t EventType, outputs []string) string {
	return strings.Join(append([]string{string(t)}, outputs...), " ")
}

// ParseCommand decodes a message written by FormatCommand.
func ParseCommand(msg string) (Event, error) {
	fields := strings.Fields(msg)
	if len(fields) == 0 {
		return Event{}, fmt.Errorf("%w: empty message", ErrUnknownCommand)
	}

	switch t := EventType(fields[0]); t {
	case TurnOffEvent, WakeUpEvent:
		ev := Event{Type: t}
		if len(fields) > 1 {
			ev.Outputs = fields[1:]
			ev.Details = strings.Join(ev.Outputs, ",")
		}
		return ev, nil
	default:
		return Event{}, fmt.Errorf("%w: %q", ErrUnknownCommand, fields[0])
	}
}

// SendCommand writes one command to the daemon listening on sock.
func SendCommand(sock string, t EventType, outputs []string) error {
	conn, err := net.Dial("unix", sock)
	if err != nil {
		return fmt.Errorf("command listener not running at %s: %w", sock, err)
	}

	defer func() {
		if err := conn.Close(); err != nil {
			slog.Error("closing socket connection", "error", err)
		}
	}()

	msg := FormatCommand(t, outputs)
	if _, err = conn.Write([]byte(msg)); err != nil {
		return fmt.Errorf("writing message '%s' to socket: %w", msg, err)
	}

	return nil
}

// commandListener accepts CLI commands on the unix socket and turns them into
// events.
func (l *Listener) commandListener(ctx context.Context, events chan<- Event) error {
	// remove existing file if it already exists
	_ = os.Remove(l.sockPath)

	ln, err := net.Listen("unix", l.sockPath)
	if err != nil {
		return fmt.Errorf("command listener: listen unix socket: %w", err)
	}

	go func() {
		<-ctx.Done()
		if err := ln.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			slog.Error("command listener: closing screenpower socket", "error", err)
		}
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			slog.Debug("command listener: accept failed", "error", err)
			continue
		}

		go l.handleConn(ctx, conn, events)
	}
}

func (l *Listener) handleConn(ctx context.Context, conn net.Conn, events chan<- Event) {
	defer func() {
		if err := conn.Close(); err != nil {
			slog.Error("command listener: closing socket conn", "error", err)
		} else {
			slog.Debug("command listener: socket conn closed")
		}
	}()

	buf, err := io.ReadAll(io.LimitReader(conn, 4096))
	if err != nil {
		slog.Warn("command listener: reading message", "error", err)
		return
	}

	ev, err := ParseCommand(string(buf))
	if err != nil {
		slog.Warn("command listener: got unknown message", "msg", strings.TrimSpace(string(buf)), "error", err)
		return
	}

	select {
	case events <- ev:
	case <-ctx.Done():
	}
}
