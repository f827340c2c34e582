// Package output models the displays the compositor manages and the power
// transitions each of them goes through.
package output

import (
	"github.com/dsrosen6/screenpower/internal/forwarder"
)

type Output struct {
	name           string
	aboutToTurnOff Event
	wakeUp         Event
}

var _ forwarder.Output = (*Output)(nil)

func New(name string) *Output {
	return &Output{name: name}
}

func (o *Output) Name() string {
	return o.name
}

func (o *Output) OnAboutToTurnOff(fn func()) forwarder.Registration {
	return o.aboutToTurnOff.Connect(fn)
}

func (o *Output) OnWakeUp(fn func()) forwarder.Registration {
	return o.wakeUp.Connect(fn)
}

// TurnOff announces that the output is about to be powered down.
func (o *Output) TurnOff() {
	o.aboutToTurnOff.Fire()
}

// WakeUp announces that the output has been powered back on.
func (o *Output) WakeUp() {
	o.wakeUp.Fire()
}

// Close tears the output down, dropping every listener attached to it.
func (o *Output) Close() {
	o.aboutToTurnOff.DisconnectAll()
	o.wakeUp.DisconnectAll()
}

func (o *Output) listeners() int {
	return o.aboutToTurnOff.Len() + o.wakeUp.Len()
}
