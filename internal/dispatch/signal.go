package dispatch

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// anonymousName tags signals constructed without a name.
const anonymousName = "<anonymous>"

// Option configures a Signal at construction time.
type Option func(*options)

type options struct {
	logger       zerolog.Logger
	direction    Direction
	directionSet bool
}

func defaultOptions() *options {
	return &options{
		logger:    zerolog.Nop(),
		direction: Ascending,
	}
}

func (o *options) apply(opts []Option) *options {
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithDirection fixes the signal's priority ordering direction. For shared
// names the direction is set once at first construction; later constructions
// requesting a different direction are ignored.
func WithDirection(d Direction) Option {
	return func(o *options) {
		o.direction = d
		o.directionSet = true
	}
}

// WithLogger attaches a structured logger. The library is silent by default.
func WithLogger(l *zerolog.Logger) Option {
	return func(o *options) {
		o.logger = *l
	}
}

// SlotOption configures a single registration.
type SlotOption func(*slotOptions)

type slotOptions struct {
	listener any
}

// WithListener restricts the slot to calls whose sender equals the given
// value. The default is Any.
func WithListener(listener any) SlotOption {
	return func(o *slotOptions) {
		o.listener = listener
	}
}

// deferral is the snapshot of a paused dispatch: the remaining slots, the
// sender recorded at the pause point, and the last-used arguments.
type deferral struct {
	pending []*Slot
	sender  any
	args    []any
}

// Signal is a named or anonymous dispatch point holding an ordered set of
// slots. All methods are safe for concurrent use; the mutation lock
// serializes dispatches so at most one Call runs per signal at a time. The
// lock is re-entrant, so a callback may mutate or introspect the signal that
// is dispatching it; such mutations take effect for subsequent dispatches,
// not the one in flight.
type Signal struct {
	name      string
	id        string
	direction Direction
	log       zerolog.Logger

	// mu guards slots and def. It is re-entrant for the owning goroutine,
	// so a slot callback may call back into its own signal while the
	// dispatch that invoked it still holds the lock.
	mu    relock
	slots *slotList
	def   *deferral

	// uid has its own allocation point so registration contention never
	// touches the broader mutation lock.
	uid atomic.Uint64

	lastStatus atomic.Int32

	statCalls    atomic.Uint64
	statDone     atomic.Uint64
	statStopped  atomic.Uint64
	statDeferred atomic.Uint64
}

// New creates an anonymous signal. Anonymous signals are never shared.
func New(opts ...Option) *Signal {
	return newSignal(anonymousName, defaultOptions().apply(opts))
}

// NewNamed creates an unshared signal tagged with a name. It behaves like an
// anonymous signal semantically: constructing twice with the same name
// yields two independent signals.
func NewNamed(name string, opts ...Option) *Signal {
	return newSignal(name, defaultOptions().apply(opts))
}

func newSignal(name string, o *options) *Signal {
	id := uuid.NewString()
	s := &Signal{
		name:      name,
		id:        id,
		direction: o.direction,
		log:       o.logger.With().Str("signal", name).Str("signal_id", id).Logger(),
		slots:     newSlotList(),
	}
	s.lastStatus.Store(int32(StatusNone))
	return s
}

// Name returns the signal's name, or "<anonymous>".
func (s *Signal) Name() string { return s.name }

// ID returns the unique instance id of this signal. Shared constructions of
// the same name observe the same id.
func (s *Signal) ID() string { return s.id }

// Direction returns the priority ordering direction, fixed at construction.
func (s *Signal) Direction() Direction { return s.direction }

// LastStatus reports the outcome of the most recent top-level dispatch. It
// is overwritten on every call and is not a history.
func (s *Signal) LastStatus() Status {
	return Status(s.lastStatus.Load())
}

func (s *Signal) setStatus(st Status) {
	s.lastStatus.Store(int32(st))
}

func (s *Signal) String() string {
	s.mu.lock()
	n := s.slots.len()
	s.mu.unlock()
	return fmt.Sprintf("Signal(name=%s, direction=%s, slots=%d)", s.name, s.direction, n)
}

// Add registers a synchronous callback at the given priority and returns the
// slot usable for later deletion. It fails with ErrDeferralSet while a
// paused dispatch exists.
func (s *Signal) Add(priority int, fn Callback, opts ...SlotOption) (*Slot, error) {
	if fn == nil {
		return nil, ErrNilCallback
	}
	return s.add(priority, syncInvoker{fn: fn}, callbackID(fn), opts)
}

// AddAsync registers a context-aware callback. CallContext hands it the
// caller's context; a plain Call hands it context.Background().
func (s *Signal) AddAsync(priority int, fn AsyncCallback, opts ...SlotOption) (*Slot, error) {
	if fn == nil {
		return nil, ErrNilCallback
	}
	return s.add(priority, asyncInvoker{fn: fn}, callbackID(fn), opts)
}

func (s *Signal) add(priority int, inv invoker, fnID uintptr, opts []SlotOption) (*Slot, error) {
	so := slotOptions{listener: Any}
	for _, opt := range opts {
		opt(&so)
	}

	// uid consumption is deliberately outside the mutation lock; a uid
	// burned by a failed registration is simply never reused.
	uid := s.uid.Add(1) - 1

	slot := &Slot{
		signal:   s,
		inv:      inv,
		listener: so.listener,
		fnID:     fnID,
		priority: priority,
		uid:      uid,
	}

	s.mu.lock()
	defer s.mu.unlock()

	if s.def != nil {
		return nil, ErrDeferralSet
	}

	s.slots.insert(slot)
	s.log.Debug().Int("priority", priority).Uint64("uid", uid).Msg("slot added")
	return slot, nil
}

// Delete removes the given slots. Deletion is all-or-nothing: every target
// is validated for membership first, and if any is absent none are removed
// and ErrSlotNotFound is returned. It fails with ErrDeferralSet while a
// paused dispatch exists.
func (s *Signal) Delete(slots ...*Slot) error {
	s.mu.lock()
	defer s.mu.unlock()

	if s.def != nil {
		return ErrDeferralSet
	}

	for _, sl := range slots {
		if sl == nil {
			return ErrSlotNotFound
		}
		got, ok := s.slots.get(sl)
		if !ok || got != sl {
			return ErrSlotNotFound
		}
	}

	for _, sl := range slots {
		s.slots.remove(sl)
		s.log.Debug().Uint64("uid", sl.uid).Msg("slot deleted")
	}
	return nil
}

// DeleteUID removes the slot carrying the given uid.
func (s *Signal) DeleteUID(uid uint64) error {
	s.mu.lock()
	defer s.mu.unlock()

	if s.def != nil {
		return ErrDeferralSet
	}

	slot := s.slots.findUID(uid)
	if slot == nil {
		return ErrSlotNotFound
	}
	s.slots.remove(slot)
	s.log.Debug().Uint64("uid", uid).Msg("slot deleted")
	return nil
}

// DeleteCallback removes every slot registered with the given function.
// Deleting a function deletes all of its registrations.
func (s *Signal) DeleteCallback(fn any) error {
	if fn == nil {
		return ErrNilCallback
	}

	s.mu.lock()
	defer s.mu.unlock()

	if s.def != nil {
		return ErrDeferralSet
	}

	found := s.slots.findCallback(callbackID(fn))
	if len(found) == 0 {
		return ErrSlotNotFound
	}
	for _, sl := range found {
		s.slots.remove(sl)
		s.log.Debug().Uint64("uid", sl.uid).Msg("slot deleted")
	}
	return nil
}

// Clear unconditionally empties the collection. Unlike Delete it is a hard
// reset: it succeeds while a dispatch is paused and drops the paused state.
func (s *Signal) Clear() {
	s.mu.lock()
	defer s.mu.unlock()

	s.slots = newSlotList()
	s.def = nil
	s.log.Debug().Msg("slots cleared")
}

// FindUID returns the slot carrying the given uid.
func (s *Signal) FindUID(uid uint64) (*Slot, error) {
	s.mu.lock()
	defer s.mu.unlock()

	if slot := s.slots.findUID(uid); slot != nil {
		return slot, nil
	}
	return nil, ErrSlotNotFound
}

// FindCallback returns every slot registered with the given function, in
// collection order.
func (s *Signal) FindCallback(fn any) ([]*Slot, error) {
	if fn == nil {
		return nil, ErrNilCallback
	}

	s.mu.lock()
	defer s.mu.unlock()

	found := s.slots.findCallback(callbackID(fn))
	if len(found) == 0 {
		return nil, ErrSlotNotFound
	}
	return found, nil
}

// FindListener returns every slot whose listener filter equals the given
// value, in collection order.
func (s *Signal) FindListener(listener any) ([]*Slot, error) {
	s.mu.lock()
	defer s.mu.unlock()

	found := s.slots.findListener(listener)
	if len(found) == 0 {
		return nil, ErrSlotNotFound
	}
	return found, nil
}

// Contains reports whether the given slot is currently registered.
func (s *Signal) Contains(slot *Slot) bool {
	if slot == nil {
		return false
	}

	s.mu.lock()
	defer s.mu.unlock()

	got, ok := s.slots.get(slot)
	return ok && got == slot
}

// Len returns the current number of registered slots.
func (s *Signal) Len() int {
	s.mu.lock()
	defer s.mu.unlock()
	return s.slots.len()
}

// Slots returns a snapshot of every registered slot in execution order.
// Mutating the returned slice does not affect the signal.
func (s *Signal) Slots() []*Slot {
	s.mu.lock()
	defer s.mu.unlock()
	return s.slots.ordered(s.direction)
}

// PriorityHigher returns a priority value that runs strictly earlier than
// every given slot (default: all registered slots), offset by boost. What
// "earlier" means numerically follows the signal's direction. Computing over
// an empty set fails with ErrNoSlots.
func (s *Signal) PriorityHigher(boost int, slots ...*Slot) (int, error) {
	s.mu.lock()
	defer s.mu.unlock()

	set, err := s.prioritySetLocked(slots)
	if err != nil {
		return 0, err
	}
	if s.direction == Ascending {
		return minPriority(set) - boost, nil
	}
	return maxPriority(set) + boost, nil
}

// PriorityLower returns a priority value that runs strictly later than every
// given slot (default: all registered slots), offset by boost.
func (s *Signal) PriorityLower(boost int, slots ...*Slot) (int, error) {
	s.mu.lock()
	defer s.mu.unlock()

	set, err := s.prioritySetLocked(slots)
	if err != nil {
		return 0, err
	}
	if s.direction == Ascending {
		return maxPriority(set) + boost, nil
	}
	return minPriority(set) - boost, nil
}

func (s *Signal) prioritySetLocked(slots []*Slot) ([]*Slot, error) {
	if len(slots) == 0 {
		slots = s.slots.ordered(Ascending)
	}
	if len(slots) == 0 {
		return nil, ErrNoSlots
	}
	return slots, nil
}

// Stats returns a snapshot of the signal's dispatch counters.
func (s *Signal) Stats() SignalStats {
	s.mu.lock()
	n := s.slots.len()
	s.mu.unlock()

	return SignalStats{
		Calls:    s.statCalls.Load(),
		Done:     s.statDone.Load(),
		Stopped:  s.statStopped.Load(),
		Deferred: s.statDeferred.Load(),
		Slots:    n,
	}
}
