package listener

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/dsrosen6/screenpower/internal/hypr"
)

var ErrHyprlandClosed = errors.New("hyprland socket closed")

var monitorEvents = map[string]EventType{
	hypr.MonitorAddedEvent:   DisplayAddEvent,
	hypr.MonitorRemovedEvent: DisplayRemoveEvent,
}

// listenHyprland forwards monitor add and remove events from socket2.
func (l *Listener) listenHyprland(ctx context.Context, events chan<- Event) error {
	var lastEvent Event
	scn := bufio.NewScanner(l.hyprConn)
	for scn.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		ev, err := parseDisplayEvent(scn.Text())
		if err != nil {
			slog.Error("hyprland listener: parse error", "error", err)
			continue
		}

		if ev.Type == DisplayUnknownEvent {
			continue
		}

		// hyprland can repeat the same event; only the first one matters
		if sameEvent(lastEvent, ev) {
			slog.Debug("hyprland listener: new event matches last event, no action needed")
			continue
		}
		lastEvent = ev

		select {
		case events <- ev:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if err := scn.Err(); err != nil {
		return fmt.Errorf("error scanning: %w", err)
	}

	return ErrHyprlandClosed
}

// parseDisplayEvent turns a socket2 line into an Event. Lines that are not
// monitor events come back as DisplayUnknownEvent.
func parseDisplayEvent(line string) (Event, error) {
	base, err := hypr.ParseEvent(line)
	if err != nil {
		return Event{}, err
	}

	et, ok := monitorEvents[base.Name]
	if !ok {
		return Event{Type: DisplayUnknownEvent}, nil
	}

	name, err := hypr.MonitorName(base.Payload)
	if err != nil {
		return Event{}, err
	}

	return Event{Type: et, Details: name}, nil
}

func sameEvent(a, b Event) bool {
	return a.Type == b.Type && a.Details == b.Details && slices.Equal(a.Outputs, b.Outputs)
}
