package output

import (
	"sync"
)

// Event is an ordered list of handlers fired together.
type Event struct {
	mu       sync.Mutex
	nextID   uint64
	handlers []handler
}

type handler struct {
	id uint64
	fn func()
}

// Connection is returned by Connect and removes its handler on Disconnect.
type Connection struct {
	ev   *Event
	id   uint64
	once sync.Once
}

// Connect appends fn to the event. Handlers run in connect order.
func (e *Event) Connect(fn func()) *Connection {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.nextID++
	e.handlers = append(e.handlers, handler{id: e.nextID, fn: fn})
	return &Connection{ev: e, id: e.nextID}
}

// Fire runs every connected handler synchronously. Handlers connected or
// disconnected while firing take effect on the next Fire.
func (e *Event) Fire() {
	e.mu.Lock()
	hs := make([]handler, len(e.handlers))
	copy(hs, e.handlers)
	e.mu.Unlock()

	for _, h := range hs {
		h.fn()
	}
}

func (e *Event) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.handlers)
}

func (e *Event) DisconnectAll() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers = nil
}

func (e *Event) remove(id uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i, h := range e.handlers {
		if h.id == id {
			e.handlers = append(e.handlers[:i:i], e.handlers[i+1:]...)
			return
		}
	}
}

// Disconnect is safe to call more than once.
func (c *Connection) Disconnect() {
	c.once.Do(func() {
		c.ev.remove(c.id)
	})
}
