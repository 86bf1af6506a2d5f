package taillight

import "github.com/Elizafox/taillight/internal/dispatch"

// Public API - re-export internal types as stable contract

// Signal is a named or anonymous dispatch point holding an ordered set of
// slots.
type Signal = dispatch.Signal

// Slot is one registered callback plus its priority, uid and listener
// filter.
type Slot = dispatch.Slot

// Callback is a synchronous slot function.
type Callback = dispatch.Callback

// AsyncCallback is a context-aware slot function for CallContext dispatches.
type AsyncCallback = dispatch.AsyncCallback

// Direction controls which end of the priority range runs first.
type Direction = dispatch.Direction

const (
	// Ascending runs lower numeric priorities first (Unix style). Default.
	Ascending = dispatch.Ascending
	// Descending runs higher numeric priorities first.
	Descending = dispatch.Descending
)

// Status reports the outcome of the most recent top-level dispatch.
type Status = dispatch.Status

const (
	// StatusNone means the signal has never been called.
	StatusNone = dispatch.StatusNone
	// StatusDone means every selected slot ran to completion.
	StatusDone = dispatch.StatusDone
	// StatusStopped means a slot aborted the dispatch via ErrStop.
	StatusStopped = dispatch.StatusStopped
	// StatusDeferred means a slot paused the dispatch via ErrDefer.
	StatusDeferred = dispatch.StatusDeferred
)

// PriorityNormal is the neutral priority point.
const PriorityNormal = dispatch.PriorityNormal

// Wildcard is the type of the Any listener filter.
type Wildcard = dispatch.Wildcard

// Any is the listener filter that matches every sender.
var Any = dispatch.Any

// SignalStats is a point-in-time snapshot of a signal's dispatch counters.
type SignalStats = dispatch.SignalStats

// Option configures a Signal at construction time.
type Option = dispatch.Option

// SlotOption configures a single registration.
type SlotOption = dispatch.SlotOption

// WeakRegistry resolves names to shared signals without keeping them alive.
type WeakRegistry = dispatch.WeakRegistry

// StrongRegistry resolves names to shared signals and holds them alive until
// an explicit Delete.
type StrongRegistry = dispatch.StrongRegistry

// Public API errors - re-export internal errors as stable contract
var (
	// ErrStop aborts the remaining slots of the current dispatch.
	ErrStop = dispatch.ErrStop
	// ErrDefer pauses the dispatch after the current slot.
	ErrDefer = dispatch.ErrDefer
	// ErrDeferralSet is returned when slots are added or deleted while a
	// paused dispatch exists.
	ErrDeferralSet = dispatch.ErrDeferralSet
	// ErrDeferralSender is returned when a resuming call supplies a sender
	// different from the one recorded at the pause point.
	ErrDeferralSender = dispatch.ErrDeferralSender
	// ErrSlotNotFound is returned by lookups and deletions that match nothing.
	ErrSlotNotFound = dispatch.ErrSlotNotFound
	// ErrSignalNotFound is returned when deleting an unregistered signal name.
	ErrSignalNotFound = dispatch.ErrSignalNotFound
	// ErrNoSlots is returned by priority computations over an empty set.
	ErrNoSlots = dispatch.ErrNoSlots
	// ErrNilCallback is returned when a nil function is registered.
	ErrNilCallback = dispatch.ErrNilCallback
)
