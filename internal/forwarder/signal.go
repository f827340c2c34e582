package forwarder

import "fmt"

// Bus identity of every forwarded signal. The namespace is the one KWin
// scripts use for the same notification, so existing consumers keep working.
const (
	Service   = "org.kde.kwin.ScreenPower"
	Path      = "/ScreenPower"
	Interface = "org.kde.kwin.ScreenPower"
)

type Member string

const (
	MemberAboutToTurnOff Member = "aboutToTurnOff"
	MemberWakeUp         Member = "wakeUp"
)

// Signal is one outbound bus message. Only Member and Output vary.
type Signal struct {
	Service   string
	Path      string
	Interface string
	Member    Member
	Output    string
}

func NewSignal(m Member, output string) Signal {
	return Signal{
		Service:   Service,
		Path:      Path,
		Interface: Interface,
		Member:    m,
		Output:    output,
	}
}

// Name is the fully qualified member, e.g. org.kde.kwin.ScreenPower.wakeUp.
func (s Signal) Name() string {
	return s.Interface + "." + string(s.Member)
}

func (s Signal) String() string {
	return fmt.Sprintf("%s %s %s(%q)", s.Service, s.Path, s.Name(), s.Output)
}

// ParseMember accepts the member names as they appear on the bus.
func ParseMember(s string) (Member, error) {
	switch Member(s) {
	case MemberAboutToTurnOff, MemberWakeUp:
		return Member(s), nil
	default:
		return "", fmt.Errorf("unknown member %q", s)
	}
}
