package output

import (
	"log/slog"
	"slices"
	"strings"
	"sync"
)

// Registry tracks the outputs currently known, keyed by name.
type Registry struct {
	mu      sync.Mutex
	outputs map[string]*Output
	onAdded []func(*Output)
}

func NewRegistry() *Registry {
	return &Registry{outputs: map[string]*Output{}}
}

// OnAdded sets a hook run for every output that becomes known. Outputs
// already in the registry are replayed to the hook immediately, so startup
// enumeration and hot-plug look the same to the caller.
func (r *Registry) OnAdded(fn func(*Output)) {
	r.mu.Lock()
	r.onAdded = append(r.onAdded, fn)
	existing := r.sortedLocked()
	r.mu.Unlock()

	for _, o := range existing {
		fn(o)
	}
}

// Sync makes the registry match names. Unseen names are added and handed to
// the OnAdded hooks; outputs missing from names are closed and dropped.
func (r *Registry) Sync(names []string) (added, removed []string) {
	want := newSet[string]()
	want.add(names...)

	r.mu.Lock()
	var fresh []*Output
	for _, n := range names {
		if _, ok := r.outputs[n]; ok {
			continue
		}
		o := New(n)
		r.outputs[n] = o
		fresh = append(fresh, o)
		added = append(added, n)
	}

	var gone []*Output
	for n, o := range r.outputs {
		if want.contains(n) {
			continue
		}
		delete(r.outputs, n)
		gone = append(gone, o)
		removed = append(removed, n)
	}
	hooks := slices.Clone(r.onAdded)
	r.mu.Unlock()

	for _, o := range gone {
		o.Close()
		slog.Debug("output removed", "output", o.Name())
	}

	for _, o := range fresh {
		slog.Debug("output added", "output", o.Name())
		for _, fn := range hooks {
			fn(o)
		}
	}

	slices.Sort(removed)
	return added, removed
}

func (r *Registry) Get(name string) (*Output, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.outputs[name]
	return o, ok
}

// All returns the known outputs sorted by name.
func (r *Registry) All() []*Output {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sortedLocked()
}

func (r *Registry) Names() []string {
	all := r.All()
	names := make([]string, 0, len(all))
	for _, o := range all {
		names = append(names, o.Name())
	}
	return names
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.outputs)
}

func (r *Registry) sortedLocked() []*Output {
	out := make([]*Output, 0, len(r.outputs))
	for _, o := range r.outputs {
		out = append(out, o)
	}
	slices.SortFunc(out, func(a, b *Output) int {
		return strings.Compare(a.name, b.name)
	})
	return out
}
