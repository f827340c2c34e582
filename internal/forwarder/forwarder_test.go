package forwarder

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRegistration struct {
	disconnected bool
}

func (r *fakeRegistration) Disconnect() {
	r.disconnected = true
}

type fakeOutput struct {
	name    string
	offs    []func()
	wakes   []func()
	offRegs []*fakeRegistration
}

func (o *fakeOutput) Name() string { return o.name }

func (o *fakeOutput) OnAboutToTurnOff(h func()) Registration {
	o.offs = append(o.offs, h)
	r := &fakeRegistration{}
	o.offRegs = append(o.offRegs, r)
	return r
}

func (o *fakeOutput) OnWakeUp(h func()) Registration {
	o.wakes = append(o.wakes, h)
	return &fakeRegistration{}
}

func (o *fakeOutput) turnOff() {
	for _, h := range o.offs {
		h()
	}
}

func (o *fakeOutput) wakeUp() {
	for _, h := range o.wakes {
		h()
	}
}

type recorder struct {
	sigs []Signal
	err  error
}

func (r *recorder) Publish(sig Signal) error {
	r.sigs = append(r.sigs, sig)
	return r.err
}

func TestForwarder_AboutToTurnOff(t *testing.T) {
	rec := &recorder{}
	o := &fakeOutput{name: "HDMI-1"}
	New(rec).Register(o)

	o.turnOff()

	require.Len(t, rec.sigs, 1)
	assert.Equal(t, Signal{
		Service:   "org.kde.kwin.ScreenPower",
		Path:      "/ScreenPower",
		Interface: "org.kde.kwin.ScreenPower",
		Member:    "aboutToTurnOff",
		Output:    "HDMI-1",
	}, rec.sigs[0])
}

func TestForwarder_WakeUp(t *testing.T) {
	rec := &recorder{}
	o := &fakeOutput{name: "eDP-1"}
	New(rec).Register(o)

	o.wakeUp()

	require.Len(t, rec.sigs, 1)
	assert.Equal(t, Signal{
		Service:   "org.kde.kwin.ScreenPower",
		Path:      "/ScreenPower",
		Interface: "org.kde.kwin.ScreenPower",
		Member:    "wakeUp",
		Output:    "eDP-1",
	}, rec.sigs[0])
}

func TestForwarder_IdentityInvariant(t *testing.T) {
	rec := &recorder{}
	outputs := []*fakeOutput{{name: "eDP-1"}, {name: "HDMI-1"}, {name: "DP-2"}}
	f := New(rec)
	for _, o := range outputs {
		f.Attach(o)
	}

	for _, o := range outputs {
		o.turnOff()
		o.wakeUp()
	}

	require.Len(t, rec.sigs, 2*len(outputs))
	for i, sig := range rec.sigs {
		assert.Equal(t, Service, sig.Service)
		assert.Equal(t, Path, sig.Path)
		assert.Equal(t, Interface, sig.Interface)
		assert.Equal(t, outputs[i/2].name, sig.Output)
		if i%2 == 0 {
			assert.Equal(t, MemberAboutToTurnOff, sig.Member)
		} else {
			assert.Equal(t, MemberWakeUp, sig.Member)
		}
	}
}

func TestForwarder_RegisterNone(t *testing.T) {
	pub := PublisherFunc(func(Signal) error {
		t.Fatal("nothing registered, nothing should be published")
		return nil
	})

	subs := New(pub).Register()
	assert.Empty(t, subs)
}

func TestForwarder_DuplicateRegistration(t *testing.T) {
	rec := &recorder{}
	o := &fakeOutput{name: "HDMI-1"}
	subs := New(rec).Register(o, o)
	require.Len(t, subs, 2)

	o.turnOff()
	require.Len(t, rec.sigs, 2)
	assert.Equal(t, rec.sigs[0], rec.sigs[1])

	o.wakeUp()
	assert.Len(t, rec.sigs, 4)
}

func TestForwarder_HotPlugMatchesStartup(t *testing.T) {
	rec := &recorder{}
	f := New(rec)
	f.Register(&fakeOutput{name: "eDP-1"})

	late := &fakeOutput{name: "DP-2"}
	f.Attach(late)
	late.turnOff()
	late.wakeUp()

	require.Len(t, rec.sigs, 2)
	assert.Equal(t, NewSignal(MemberAboutToTurnOff, "DP-2"), rec.sigs[0])
	assert.Equal(t, NewSignal(MemberWakeUp, "DP-2"), rec.sigs[1])
}

func TestForwarder_PublishErrorIsReportedAndNotFatal(t *testing.T) {
	boom := errors.New("bus unavailable")
	rec := &recorder{err: boom}

	var gotSig []Signal
	var gotErr []error
	o := &fakeOutput{name: "HDMI-1"}
	New(rec, WithErrorHandler(func(sig Signal, err error) {
		gotSig = append(gotSig, sig)
		gotErr = append(gotErr, err)
	})).Register(o)

	o.turnOff()
	require.Len(t, gotErr, 1)
	assert.ErrorIs(t, gotErr[0], boom)
	assert.Equal(t, MemberAboutToTurnOff, gotSig[0].Member)

	rec.err = nil
	o.wakeUp()
	assert.Len(t, gotErr, 1)
	assert.Len(t, rec.sigs, 2)
}

func TestForwarder_PublishErrorWithoutHandler(t *testing.T) {
	rec := &recorder{err: errors.New("bus unavailable")}
	o := &fakeOutput{name: "HDMI-1"}
	New(rec).Register(o)

	assert.NotPanics(t, o.turnOff)
	assert.Len(t, rec.sigs, 1)
}

func TestSubscription_Close(t *testing.T) {
	o := &fakeOutput{name: "HDMI-1"}
	sub := New(&recorder{}).Attach(o)
	assert.Equal(t, "HDMI-1", sub.Output)

	sub.Close()
	require.Len(t, o.offRegs, 1)
	assert.True(t, o.offRegs[0].disconnected)
	assert.True(t, sub.WakeUp.(*fakeRegistration).disconnected)
}

func TestParseMember(t *testing.T) {
	tests := []struct {
		in      string
		want    Member
		wantErr bool
	}{
		{"aboutToTurnOff", MemberAboutToTurnOff, false},
		{"wakeUp", MemberWakeUp, false},
		{"WakeUp", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMember(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSignal_Name(t *testing.T) {
	assert.Equal(t, "org.kde.kwin.ScreenPower.aboutToTurnOff", NewSignal(MemberAboutToTurnOff, "x").Name())
	assert.Equal(t, "org.kde.kwin.ScreenPower.wakeUp", NewSignal(MemberWakeUp, "x").Name())
}
