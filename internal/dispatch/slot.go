package dispatch

import (
	"context"
	"fmt"
	"reflect"
)

// invoker abstracts how a single slot produces its result, so the
// synchronous and context-aware dispatch paths share one loop and differ
// only in the context they supply.
type invoker interface {
	invoke(ctx context.Context, sender any, args []any) (any, error)
}

type syncInvoker struct {
	fn Callback
}

func (i syncInvoker) invoke(_ context.Context, sender any, args []any) (any, error) {
	return i.fn(sender, args...)
}

type asyncInvoker struct {
	fn AsyncCallback
}

func (i asyncInvoker) invoke(ctx context.Context, sender any, args []any) (any, error) {
	return i.fn(ctx, sender, args...)
}

// callbackID returns the identity used by delete-by-function and
// find-by-function. Go functions are not comparable, so the code pointer of
// the registered function stands in for identity.
func callbackID(fn any) uintptr {
	return reflect.ValueOf(fn).Pointer()
}

// Slot is one registered callback plus its priority, uid and listener
// filter. Slots are created only by Signal.Add/AddAsync, are immutable
// afterwards, and may be read concurrently without locking.
type Slot struct {
	signal   *Signal
	inv      invoker
	listener any
	fnID     uintptr
	priority int
	uid      uint64
}

// Priority returns the caller-chosen priority of the slot.
func (s *Slot) Priority() int { return s.priority }

// UID returns the slot's unique id. UIDs increase monotonically per signal
// and are never reused, even after deletion.
func (s *Slot) UID() uint64 { return s.uid }

// Listener returns the filter value the slot was registered against.
func (s *Slot) Listener() any { return s.listener }

// Signal returns the signal the slot belongs to.
func (s *Slot) Signal() *Signal { return s.signal }

func (s *Slot) String() string {
	return fmt.Sprintf("Slot(priority=%d, uid=%d, listener=%v)", s.priority, s.uid, s.listener)
}

// less orders slots lexicographically by (priority, uid).
func (s *Slot) less(o *Slot) bool {
	if s.priority != o.priority {
		return s.priority < o.priority
	}
	return s.uid < o.uid
}
