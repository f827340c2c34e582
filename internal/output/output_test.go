package output

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dsrosen6/screenpower/internal/forwarder"
)

func TestEvent_FireInOrder(t *testing.T) {
	var ev Event
	var got []int
	ev.Connect(func() { got = append(got, 1) })
	ev.Connect(func() { got = append(got, 2) })
	ev.Connect(func() { got = append(got, 3) })

	ev.Fire()
	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestEvent_Disconnect(t *testing.T) {
	var ev Event
	var a, b int
	ca := ev.Connect(func() { a++ })
	ev.Connect(func() { b++ })

	ca.Disconnect()
	ca.Disconnect()
	ev.Fire()

	assert.Equal(t, 0, a)
	assert.Equal(t, 1, b)
	assert.Equal(t, 1, ev.Len())
}

func TestEvent_DisconnectWhileFiring(t *testing.T) {
	var ev Event
	var calls int
	var c *Connection
	c = ev.Connect(func() {
		calls++
		c.Disconnect()
	})

	ev.Fire()
	ev.Fire()
	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, ev.Len())
}

func TestOutput_Transitions(t *testing.T) {
	o := New("HDMI-1")
	assert.Equal(t, "HDMI-1", o.Name())

	var offs, wakes int
	o.OnAboutToTurnOff(func() { offs++ })
	o.OnWakeUp(func() { wakes++ })

	o.TurnOff()
	assert.Equal(t, 1, offs)
	assert.Equal(t, 0, wakes)

	o.WakeUp()
	assert.Equal(t, 1, offs)
	assert.Equal(t, 1, wakes)
}

func TestOutput_Close(t *testing.T) {
	o := New("HDMI-1")
	var calls int
	o.OnAboutToTurnOff(func() { calls++ })
	o.OnWakeUp(func() { calls++ })
	require.Equal(t, 2, o.listeners())

	o.Close()
	o.TurnOff()
	o.WakeUp()
	assert.Equal(t, 0, calls)
	assert.Equal(t, 0, o.listeners())
}

func TestOutput_WithForwarder(t *testing.T) {
	var got []forwarder.Signal
	f := forwarder.New(forwarder.PublisherFunc(func(sig forwarder.Signal) error {
		got = append(got, sig)
		return nil
	}))

	o := New("eDP-1")
	sub := f.Attach(o)
	o.WakeUp()
	require.Len(t, got, 1)
	assert.Equal(t, forwarder.NewSignal(forwarder.MemberWakeUp, "eDP-1"), got[0])

	sub.Close()
	o.TurnOff()
	assert.Len(t, got, 1)
}

func TestRegistry_Sync(t *testing.T) {
	r := NewRegistry()

	added, removed := r.Sync([]string{"eDP-1", "HDMI-1"})
	assert.Equal(t, []string{"eDP-1", "HDMI-1"}, added)
	assert.Empty(t, removed)
	assert.Equal(t, 2, r.Len())

	hdmi, ok := r.Get("HDMI-1")
	require.True(t, ok)
	var calls int
	hdmi.OnAboutToTurnOff(func() { calls++ })

	added, removed = r.Sync([]string{"eDP-1", "DP-2"})
	assert.Equal(t, []string{"DP-2"}, added)
	assert.Equal(t, []string{"HDMI-1"}, removed)
	assert.Equal(t, []string{"DP-2", "eDP-1"}, r.Names())

	_, ok = r.Get("HDMI-1")
	assert.False(t, ok)
	hdmi.TurnOff()
	assert.Equal(t, 0, calls, "removed output must have been torn down")
}

func TestRegistry_SyncKeepsExistingOutputs(t *testing.T) {
	r := NewRegistry()
	r.Sync([]string{"eDP-1"})
	before, _ := r.Get("eDP-1")

	added, removed := r.Sync([]string{"eDP-1", "eDP-1"})
	assert.Empty(t, added)
	assert.Empty(t, removed)

	after, _ := r.Get("eDP-1")
	assert.Same(t, before, after)
}

func TestRegistry_OnAdded(t *testing.T) {
	r := NewRegistry()
	r.Sync([]string{"eDP-1"})

	var seen []string
	r.OnAdded(func(o *Output) { seen = append(seen, o.Name()) })
	assert.Equal(t, []string{"eDP-1"}, seen, "existing outputs are replayed")

	r.Sync([]string{"eDP-1", "DP-2"})
	assert.Equal(t, []string{"eDP-1", "DP-2"}, seen)

	r.Sync(nil)
	assert.Equal(t, 0, r.Len())
	assert.Empty(t, r.All())
}
