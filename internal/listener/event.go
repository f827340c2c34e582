package listener

type Event struct {
	Type    EventType
	Details string
	// Outputs names the outputs a TURN_OFF or WAKE_UP applies to. Empty
	// means all of them.
	Outputs []string
}

// EventType is mostly for logging, but the app also switches on it.
type EventType string

const (
	ConfigUpdatedEvent  EventType = "CONFIG_UPDATED"
	DisplayAddEvent     EventType = "DISPLAY_ADDED"
	DisplayRemoveEvent  EventType = "DISPLAY_REMOVED"
	DisplayUnknownEvent EventType = "DISPLAY_UNKNOWN_EVENT"
	TurnOffEvent        EventType = "TURN_OFF"
	WakeUpEvent         EventType = "WAKE_UP"
)
