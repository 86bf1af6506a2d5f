// Package taillight provides in-process publish/dispatch over named or
// anonymous signals with priority-ordered slots.
//
// # Overview
//
// A Signal keeps an ordered set of callback registrations (slots). Each slot
// has a caller-chosen priority, a monotonic uid used as a deterministic
// tie-breaker, and a listener filter. Calling the signal invokes every
// matching slot synchronously on the calling goroutine, in a well-defined
// order, and returns the per-slot results:
//
//	sig := taillight.New()
//
//	sig.Add(0, func(sender any, args ...any) (any, error) {
//	    return "first", nil
//	})
//	sig.Add(1, func(sender any, args ...any) (any, error) {
//	    return "second", nil
//	})
//
//	results, err := sig.Call("sender")
//
// # Ordering
//
// Slots run in (priority, uid) order. By default lower numeric priorities
// run first (Unix style); construct with WithDirection(Descending) to run
// higher numeric priorities first. Slots of equal priority always run in
// registration order, whichever the direction.
//
// # Stop and defer
//
// A slot steers the dispatch through its returned error. ErrStop aborts the
// remaining slots; ErrDefer pauses the dispatch so a later Call or Resume on
// the same signal continues where it left off, reusing the paused sender and
// arguments. While a dispatch is paused, Add and Delete fail with
// ErrDeferralSet, and resuming with a different sender fails with
// ErrDeferralSender. Any other error from a slot propagates to the caller
// unchanged.
//
// # Shared signals
//
// Signals constructed via Shared or SharedStrong are process-wide: every
// construction under the same name yields the identical instance, slots and
// dispatch state included. Shared holds the signal weakly; SharedStrong
// keeps it alive until DeleteShared. New and NewNamed never share.
//
// # Thread safety
//
// All operations are safe for concurrent use. A full dispatch runs under the
// signal's mutation lock, so at most one Call executes per signal at a time
// and calls to the same signal never interleave. Calls to different signals
// are fully independent.
//
// The mutation lock is re-entrant for the goroutine holding it, so a slot
// callback may add, delete, inspect or even re-dispatch the signal that is
// invoking it. The run list of a dispatch is fixed when it starts; slots
// added or removed by a callback take effect from the next dispatch.
//
// # Observability
//
// The library is silent by default. Pass WithLogger to receive zerolog
// events for registrations, deletions and dispatch transitions, and use
// Stats for per-signal dispatch counters.
package taillight
