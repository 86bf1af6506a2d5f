package dispatch

import (
	"context"
	"errors"
	"reflect"
)

// Call runs every slot whose listener matches sender, in priority order,
// passing args through, and returns the per-slot results in execution order.
//
// A slot returning ErrStop aborts the remainder; ErrDefer pauses the
// dispatch so a later Call resumes where it left off. Any other error from a
// slot propagates to the caller unchanged, with the controller's own state
// left as it was before that slot ran.
//
// If a paused dispatch exists, Call resumes it: the sender must equal the
// one recorded at the pause point (nil reuses it), and new args replace the
// saved ones only when supplied.
//
// The mutation lock is held for the entire dispatch, so at most one Call
// runs per signal at a time and no mutation interleaves with it.
func (s *Signal) Call(sender any, args ...any) ([]any, error) {
	return s.CallContext(context.Background(), sender, args...)
}

// CallContext is Call with a context handed through to AsyncCallback slots.
// The context does not abort the loop between slots; ErrStop and ErrDefer
// from the running slot are the only early exits.
func (s *Signal) CallContext(ctx context.Context, sender any, args ...any) ([]any, error) {
	s.mu.lock()
	defer s.mu.unlock()
	return s.callLocked(ctx, sender, args)
}

// Resume continues a paused dispatch. It is a no-op returning (nil, nil)
// when no deferral is pending.
func (s *Signal) Resume(sender any) ([]any, error) {
	return s.ResumeContext(context.Background(), sender)
}

// ResumeContext is Resume with a context handed through to AsyncCallback
// slots.
func (s *Signal) ResumeContext(ctx context.Context, sender any) ([]any, error) {
	s.mu.lock()
	defer s.mu.unlock()

	if s.def == nil {
		return nil, nil
	}
	return s.callLocked(ctx, sender, nil)
}

// ResetDefer unconditionally drops a paused dispatch. The remaining,
// un-invoked slots are discarded; the next Call restarts from the beginning.
func (s *Signal) ResetDefer() {
	s.mu.lock()
	defer s.mu.unlock()
	s.resetDeferLocked()
}

// ResetCall drops any paused dispatch and calls the signal from the start,
// atomically with respect to other dispatches.
func (s *Signal) ResetCall(sender any, args ...any) ([]any, error) {
	s.mu.lock()
	defer s.mu.unlock()

	s.resetDeferLocked()
	return s.callLocked(context.Background(), sender, args)
}

// SetDeferredArgs replaces the arguments saved at the pause point. Calling
// it with no arguments unsets them. It is a no-op when no deferral is
// pending.
func (s *Signal) SetDeferredArgs(args ...any) {
	s.mu.lock()
	defer s.mu.unlock()

	if s.def == nil {
		return
	}
	s.def.args = args
}

func (s *Signal) resetDeferLocked() {
	s.def = nil
}

func (s *Signal) callLocked(ctx context.Context, sender any, args []any) ([]any, error) {
	resumed := s.def != nil

	// Sender validation happens before any state is touched, so a rejected
	// resume leaves the pause (and the deferred status) intact.
	if resumed && sender != nil && !senderEqual(sender, s.def.sender) {
		return nil, ErrDeferralSender
	}

	s.statCalls.Add(1)
	s.setStatus(StatusDone)

	var pending []*Slot
	if resumed {
		if len(args) > 0 {
			s.def.args = args
		}
		pending = s.def.pending
		sender = s.def.sender
		args = s.def.args
	} else {
		pending = s.selectLocked(sender)
	}

	results := make([]any, 0, len(pending))
	for i, slot := range pending {
		if resumed && s.def != nil {
			// The paused cursor advances past a slot when it is taken,
			// not when it succeeds; a slot that fails mid-resume is not
			// re-run by the next resume. A re-entrant call from a slot
			// may have dropped the deferral already.
			s.def.pending = pending[i+1:]
		}

		v, err := slot.inv.invoke(ctx, sender, args)
		switch {
		case err == nil:
			results = append(results, v)
		case errors.Is(err, ErrStop):
			// A stop clears any prior pause.
			s.setStatus(StatusStopped)
			s.statStopped.Add(1)
			s.def = nil
			s.log.Debug().Uint64("uid", slot.uid).Msg("dispatch stopped")
			return results, nil
		case errors.Is(err, ErrDefer):
			s.setStatus(StatusDeferred)
			s.statDeferred.Add(1)
			s.def = &deferral{pending: pending[i+1:], sender: sender, args: args}
			s.log.Debug().Uint64("uid", slot.uid).Msg("dispatch deferred")
			return results, nil
		default:
			return nil, err
		}
	}

	s.def = nil
	s.statDone.Add(1)
	return results, nil
}

// selectLocked materializes the filtered, ordered run list for a fresh
// dispatch. It is only ever built under the mutation lock, so the snapshot
// stays valid for the dispatch (and any deferral) that consumes it.
func (s *Signal) selectLocked(sender any) []*Slot {
	ordered := s.slots.ordered(s.direction)
	selected := make([]*Slot, 0, len(ordered))
	for _, slot := range ordered {
		if listenerMatch(slot.listener, sender) {
			selected = append(selected, slot)
		}
	}
	return selected
}

// listenerMatch implements the wildcard and value-equality filter: Any on
// either side matches, otherwise the sender must equal the slot's listener.
func listenerMatch(listener, sender any) bool {
	if _, ok := listener.(Wildcard); ok {
		return true
	}
	if _, ok := sender.(Wildcard); ok {
		return true
	}
	return reflect.DeepEqual(listener, sender)
}

// senderEqual decides whether a resuming sender matches the one recorded at
// the pause point. Any on either side matches, mirroring listenerMatch.
func senderEqual(a, b any) bool {
	if _, ok := a.(Wildcard); ok {
		return true
	}
	if _, ok := b.(Wildcard); ok {
		return true
	}
	return reflect.DeepEqual(a, b)
}
