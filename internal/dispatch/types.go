package dispatch

import (
	"context"
	"errors"
)

// Control-flow sentinels. A slot callback returns one of these to steer the
// dispatch loop; they never escape Call/CallContext.
var (
	// ErrStop aborts the remaining slots of the current dispatch.
	ErrStop = errors.New("taillight: stop requested by slot")

	// ErrDefer pauses the dispatch after the current slot; a later call
	// on the same signal resumes from the paused point.
	ErrDefer = errors.New("taillight: defer requested by slot")
)

// Structural errors - mapped to public errors in the taillight package.
var (
	// ErrDeferralSet is returned when slots are added or deleted while a
	// paused dispatch exists.
	ErrDeferralSet = errors.New("taillight: deferral point is set")

	// ErrDeferralSender is returned when a resuming call supplies a sender
	// different from the one recorded at the pause point.
	ErrDeferralSender = errors.New("taillight: sender does not match deferred sender")

	// ErrSlotNotFound is returned by lookups and deletions that match nothing.
	ErrSlotNotFound = errors.New("taillight: slot not found")

	// ErrSignalNotFound is returned when deleting an unregistered signal name.
	ErrSignalNotFound = errors.New("taillight: signal not found")

	// ErrNoSlots is returned by priority computations over an empty set.
	ErrNoSlots = errors.New("taillight: no slots to compute priority from")

	// ErrNilCallback is returned when a nil function is registered.
	ErrNilCallback = errors.New("taillight: nil callback")
)

// Direction controls which end of the priority range runs first.
type Direction int

const (
	// Ascending runs lower numeric priorities first (Unix style). Default.
	Ascending Direction = iota

	// Descending runs higher numeric priorities first.
	Descending
)

func (d Direction) String() string {
	switch d {
	case Ascending:
		return "ascending"
	case Descending:
		return "descending"
	default:
		return "unknown"
	}
}

// Status reports the outcome of the most recent top-level dispatch.
type Status int

const (
	// StatusNone means the signal has never been called.
	StatusNone Status = iota

	// StatusDone means every selected slot ran to completion.
	StatusDone

	// StatusStopped means a slot aborted the dispatch via ErrStop.
	StatusStopped

	// StatusDeferred means a slot paused the dispatch via ErrDefer.
	StatusDeferred
)

func (s Status) String() string {
	switch s {
	case StatusNone:
		return "none"
	case StatusDone:
		return "done"
	case StatusStopped:
		return "stopped"
	case StatusDeferred:
		return "deferred"
	default:
		return "unknown"
	}
}

// PriorityNormal is the neutral priority point. It does not move with the
// signal's direction.
const PriorityNormal = 0

// Callback is a synchronous slot function. Returning nil commits the result;
// returning ErrStop or ErrDefer steers the dispatch; any other error aborts
// the call and propagates to the caller.
type Callback func(sender any, args ...any) (any, error)

// AsyncCallback is a context-aware slot function for CallContext dispatches.
// The context is handed through from the caller; a synchronous Call invokes
// it with context.Background().
type AsyncCallback func(ctx context.Context, sender any, args ...any) (any, error)

// Wildcard is the type of the Any listener filter.
type Wildcard struct{}

func (Wildcard) String() string { return "ANY" }

// Any is the listener filter that matches every sender. A call whose sender
// is Any likewise reaches every slot.
var Any = Wildcard{}

// SignalStats is a point-in-time snapshot of a signal's dispatch counters.
type SignalStats struct {
	// Calls is the number of Call/CallContext invocations, resumes included.
	Calls uint64

	// Done is the number of dispatches that ran to completion.
	Done uint64

	// Stopped is the number of dispatches aborted by ErrStop.
	Stopped uint64

	// Deferred is the number of dispatches paused by ErrDefer.
	Deferred uint64

	// Slots is the current number of registered slots.
	Slots int
}
