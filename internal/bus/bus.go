// Package bus publishes forwarded power signals on D-Bus.
package bus

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/godbus/dbus/v5"

	"github.com/dsrosen6/screenpower/internal/forwarder"
)

type (
	// Kind selects which message bus to connect to.
	Kind string

	// Mode selects how a signal is put on the bus.
	Mode string
)

const (
	KindSession Kind = "session"
	KindSystem  Kind = "system"

	// ModeSignal emits a broadcast signal from the connection, after claiming
	// the forwarder's service name.
	ModeSignal Mode = "signal"
	// ModeCall sends a method call to the service name without waiting for a
	// reply, the way KWin's callDBus does.
	ModeCall Mode = "call"
)

var ErrNotConnected = errors.New("not connected to D-Bus")

// conn is the part of *dbus.Conn the publisher uses.
type conn interface {
	Emit(path dbus.ObjectPath, name string, values ...any) error
	Object(dest string, path dbus.ObjectPath) dbus.BusObject
	RequestName(name string, flags dbus.RequestNameFlags) (dbus.RequestNameReply, error)
	ReleaseName(name string) (dbus.ReleaseNameReply, error)
}

type Publisher struct {
	conn    conn
	mode    Mode
	claimed bool
	logger  *slog.Logger
}

var _ forwarder.Publisher = (*Publisher)(nil)

func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindSession, KindSystem:
		return k, nil
	case "":
		return KindSession, nil
	default:
		return "", fmt.Errorf("unknown bus %q", s)
	}
}

func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeSignal, ModeCall:
		return m, nil
	case "":
		return ModeSignal, nil
	default:
		return "", fmt.Errorf("unknown bus mode %q", s)
	}
}

// Connect opens a private connection to the requested bus.
func Connect(k Kind) (*dbus.Conn, error) {
	var (
		c   *dbus.Conn
		err error
	)

	switch k {
	case KindSystem:
		c, err = dbus.ConnectSystemBus()
	case KindSession, "":
		c, err = dbus.ConnectSessionBus()
	default:
		return nil, fmt.Errorf("unknown bus %q", k)
	}

	if err != nil {
		return nil, fmt.Errorf("connecting to %s bus: %w", k, err)
	}

	return c, nil
}

func NewPublisher(c conn, mode Mode, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}

	return &Publisher{
		conn:   c,
		mode:   mode,
		logger: logger,
	}
}

// Claim requests the forwarder's well-known name so consumers can match on
// it as the sender. Only signal mode needs it. A name already owned by
// someone else is logged and otherwise ignored; signals still go out from
// the connection's unique name.
func (p *Publisher) Claim() error {
	if p.mode != ModeSignal {
		return nil
	}

	if p.conn == nil {
		return ErrNotConnected
	}

	reply, err := p.conn.RequestName(forwarder.Service, dbus.NameFlagDoNotQueue)
	if err != nil {
		return fmt.Errorf("requesting name %s: %w", forwarder.Service, err)
	}

	switch reply {
	case dbus.RequestNameReplyPrimaryOwner, dbus.RequestNameReplyAlreadyOwner:
		p.claimed = true
		p.logger.Debug("claimed bus name", "name", forwarder.Service)
	default:
		p.logger.Warn("bus name already owned; emitting from unique name", "name", forwarder.Service)
	}

	return nil
}

// Release gives the well-known name back if Claim took it.
func (p *Publisher) Release() error {
	if !p.claimed || p.conn == nil {
		return nil
	}

	if _, err := p.conn.ReleaseName(forwarder.Service); err != nil {
		return fmt.Errorf("releasing name %s: %w", forwarder.Service, err)
	}

	p.claimed = false
	return nil
}

func (p *Publisher) Publish(sig forwarder.Signal) error {
	if p.conn == nil {
		return ErrNotConnected
	}

	switch p.mode {
	case ModeCall:
		return p.call(sig)
	default:
		return p.emit(sig)
	}
}

func (p *Publisher) emit(sig forwarder.Signal) error {
	if err := p.conn.Emit(dbus.ObjectPath(sig.Path), sig.Name(), sig.Output); err != nil {
		return fmt.Errorf("emitting %s: %w", sig.Name(), err)
	}

	p.logger.Debug("emitted signal", "signal", sig.Name(), "output", sig.Output)
	return nil
}

func (p *Publisher) call(sig forwarder.Signal) error {
	obj := p.conn.Object(sig.Service, dbus.ObjectPath(sig.Path))
	c := obj.Go(sig.Name(), dbus.FlagNoReplyExpected, nil, sig.Output)
	if c == nil {
		return fmt.Errorf("calling %s: no call returned", sig.Name())
	}

	if c.Err != nil {
		return fmt.Errorf("calling %s: %w", sig.Name(), c.Err)
	}

	p.logger.Debug("sent call", "method", sig.Name(), "dest", sig.Service, "output", sig.Output)
	return nil
}
