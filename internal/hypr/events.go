package hypr

import (
	"fmt"
	"strings"
)

// Monitor events as sent on socket2. Only the v2 variants are used since
// Hyprland sends both and v2 carries the monitor name.
const (
	MonitorAddedEvent   = "monitoraddedv2"
	MonitorRemovedEvent = "monitorremovedv2"
)

type Event struct {
	Name    string
	Payload string
}

// ParseEvent splits a socket2 line of the form NAME>>PAYLOAD.
func ParseEvent(line string) (Event, error) {
	parts := strings.SplitN(line, ">>", 2)
	if len(parts) != 2 {
		return Event{}, fmt.Errorf("invalid event: %q", line)
	}

	return Event{
		Name:    parts[0],
		Payload: parts[1],
	}, nil
}

// MonitorName extracts the name from a v2 monitor payload (ID,NAME,DESCRIPTION).
// The description may itself contain commas.
func MonitorName(payload string) (string, error) {
	parts := strings.SplitN(payload, ",", 3)
	if len(parts) != 3 || parts[1] == "" {
		return "", fmt.Errorf("bad monitorv2 event: %q", payload)
	}

	return parts[1], nil
}
