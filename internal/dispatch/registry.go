package dispatch

import (
	"runtime"
	"sync"
	"weak"
)

// WeakRegistry resolves signal names to shared instances without keeping
// them alive: once every external strong reference to a signal is gone, its
// entry is scavenged and the next Get constructs a fresh instance.
//
// The lookup-or-create is atomic under the creation lock, so no two
// goroutines can both believe they created the canonical instance for a
// name. The lock is held only for the lookup, never for the instance's
// lifetime.
type WeakRegistry struct {
	mu    sync.Mutex
	table map[string]weak.Pointer[Signal]
}

// NewWeakRegistry creates an empty weak-sharing registry.
func NewWeakRegistry() *WeakRegistry {
	return &WeakRegistry{
		table: make(map[string]weak.Pointer[Signal]),
	}
}

// Get returns the live signal registered under name, or constructs and
// registers a new one. Re-construction never resets slots, last status or
// deferral state; options on a pre-existing name are ignored, and a
// conflicting ordering direction is logged and dropped.
func (r *WeakRegistry) Get(name string, opts ...Option) *Signal {
	o := defaultOptions().apply(opts)

	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.table[name]; ok {
		if s := p.Value(); s != nil {
			warnDirectionConflict(s, o)
			return s
		}
	}

	s := newSignal(name, o)
	r.table[name] = weak.Make(s)
	runtime.AddCleanup(s, r.scavenge, name)
	return s
}

// scavenge drops the entry for name if its signal has been collected. The
// entry is kept when the name has already been re-registered with a live
// instance.
func (r *WeakRegistry) scavenge(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.table[name]; ok && p.Value() == nil {
		delete(r.table, name)
	}
}

// size reports the number of table entries, scavenged or not.
func (r *WeakRegistry) size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.table)
}

// StrongRegistry resolves signal names to shared instances and holds them
// alive until an explicit Delete.
type StrongRegistry struct {
	mu    sync.Mutex
	table map[string]*Signal
}

// NewStrongRegistry creates an empty strong-sharing registry.
func NewStrongRegistry() *StrongRegistry {
	return &StrongRegistry{
		table: make(map[string]*Signal),
	}
}

// Get returns the signal registered under name, or constructs and registers
// a new one. The registry keeps a strong reference, so the signal persists
// until Delete even with no external references.
func (r *StrongRegistry) Get(name string, opts ...Option) *Signal {
	o := defaultOptions().apply(opts)

	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.table[name]; ok {
		warnDirectionConflict(s, o)
		return s
	}

	s := newSignal(name, o)
	r.table[name] = s
	return s
}

// Delete removes the registry's hold on name. It fails with
// ErrSignalNotFound if the name is not registered.
func (r *StrongRegistry) Delete(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.table[name]; !ok {
		return ErrSignalNotFound
	}
	delete(r.table, name)
	return nil
}

// Names returns the currently registered names, in no particular order.
func (r *StrongRegistry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.table))
	for name := range r.table {
		names = append(names, name)
	}
	return names
}

// warnDirectionConflict logs when a re-construction explicitly requests a
// direction other than the one fixed at first construction. The request is
// ignored: changing direction for a populated shared signal would make the
// relative ordering undefined.
func warnDirectionConflict(s *Signal, o *options) {
	if o.directionSet && o.direction != s.direction {
		s.log.Warn().
			Stringer("requested", o.direction).
			Stringer("fixed", s.direction).
			Msg("ordering direction conflict ignored for shared signal")
	}
}
