package app

import (
	"github.com/dsrosen6/screenpower/internal/listener"
)

// SendTurnOffCommand asks a running daemon to fire about-to-turn-off on the
// named outputs (all of them when none are named).
func SendTurnOffCommand(sock string, outputs []string) error {
	return listener.SendCommand(sock, listener.TurnOffEvent, outputs)
}

// SendWakeUpCommand asks a running daemon to fire wake-up on the named
// outputs (all of them when none are named).
func SendWakeUpCommand(sock string, outputs []string) error {
	return listener.SendCommand(sock, listener.WakeUpEvent, outputs)
}
