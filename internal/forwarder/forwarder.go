// Package forwarder relays per-output display power transitions to the bus.
// For every output it is given, it subscribes to the "about to turn off" and
// "wake up" transitions and publishes one signal per occurrence, carrying the
// output's name as the only argument.
package forwarder

import (
	"log/slog"
)

type (
	// Registration is a standing subscription against an output's event stream.
	Registration interface {
		Disconnect()
	}

	// Output is a display the compositor manages. Name must be stable for the
	// session.
	Output interface {
		Name() string
		OnAboutToTurnOff(handler func()) Registration
		OnWakeUp(handler func()) Registration
	}

	// Publisher sends a signal on the bus. Publish is called synchronously
	// from the output's event callback.
	Publisher interface {
		Publish(sig Signal) error
	}

	// PublisherFunc adapts a plain function to Publisher.
	PublisherFunc func(sig Signal) error

	// ErrorHandler receives publish failures. It is the only place a failure
	// surfaces; the forwarder itself never retries.
	ErrorHandler func(sig Signal, err error)

	// Subscription holds both registrations made for one output.
	Subscription struct {
		Output         string
		AboutToTurnOff Registration
		WakeUp         Registration
	}

	Option func(*Forwarder)

	Forwarder struct {
		pub    Publisher
		onErr  ErrorHandler
		logger *slog.Logger
	}
)

func (f PublisherFunc) Publish(sig Signal) error {
	return f(sig)
}

// WithErrorHandler sets the handler for failed publishes. Without one,
// failures are dropped.
func WithErrorHandler(h ErrorHandler) Option {
	return func(f *Forwarder) {
		f.onErr = h
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(f *Forwarder) {
		f.logger = l
	}
}

func New(pub Publisher, opts ...Option) *Forwarder {
	f := &Forwarder{pub: pub}
	for _, opt := range opts {
		opt(f)
	}

	if f.logger == nil {
		f.logger = slog.Default()
	}

	return f
}

// Register attaches every output in outputs. Duplicates are not collapsed:
// each occurrence gets its own pair of listeners.
func (f *Forwarder) Register(outputs ...Output) []Subscription {
	subs := make([]Subscription, 0, len(outputs))
	for _, o := range outputs {
		subs = append(subs, f.Attach(o))
	}

	return subs
}

// Attach subscribes the two forwarding callbacks to o. It is used both for
// outputs enumerated at startup and for hot-plugged ones.
func (f *Forwarder) Attach(o Output) Subscription {
	return Subscription{
		Output: o.Name(),
		AboutToTurnOff: o.OnAboutToTurnOff(func() {
			f.forward(MemberAboutToTurnOff, o.Name())
		}),
		WakeUp: o.OnWakeUp(func() {
			f.forward(MemberWakeUp, o.Name())
		}),
	}
}

// Close disconnects both registrations.
func (s Subscription) Close() {
	if s.AboutToTurnOff != nil {
		s.AboutToTurnOff.Disconnect()
	}
	if s.WakeUp != nil {
		s.WakeUp.Disconnect()
	}
}

func (f *Forwarder) forward(m Member, output string) {
	sig := NewSignal(m, output)
	if err := f.pub.Publish(sig); err != nil {
		if f.onErr != nil {
			f.onErr(sig, err)
		}
		return
	}

	f.logger.Debug("forwarded power signal", "member", string(m), "output", output)
}
