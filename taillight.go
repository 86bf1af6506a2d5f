package taillight

import (
	"github.com/rs/zerolog"

	"github.com/Elizafox/taillight/internal/dispatch"
)

// Process-wide identity tables for the two sharing policies. The weak table
// does not keep signals alive; the strong table holds them until
// DeleteShared.
var (
	defaultWeak   = dispatch.NewWeakRegistry()
	defaultStrong = dispatch.NewStrongRegistry()
)

// New creates an anonymous signal. Anonymous signals are never shared.
func New(opts ...Option) *Signal {
	return dispatch.New(opts...)
}

// NewNamed creates an unshared signal tagged with a name. Constructing twice
// with the same name yields two independent signals.
func NewNamed(name string, opts ...Option) *Signal {
	return dispatch.NewNamed(name, opts...)
}

// Shared returns the process-wide signal registered under name, constructing
// it on first use. The table holds the signal weakly: once no strong
// references remain it may be collected, and a later Shared constructs a
// fresh instance. Two concurrent Shared calls for the same live name always
// return the identical signal.
func Shared(name string, opts ...Option) *Signal {
	return defaultWeak.Get(name, opts...)
}

// SharedStrong returns the process-wide signal registered under name,
// constructing it on first use. The table keeps the signal alive until
// DeleteShared.
func SharedStrong(name string, opts ...Option) *Signal {
	return defaultStrong.Get(name, opts...)
}

// DeleteShared removes the strong table's hold on name, failing with
// ErrSignalNotFound if absent. Live references to the signal remain usable;
// only the registry entry is dropped.
func DeleteShared(name string) error {
	return defaultStrong.Delete(name)
}

// NewWeakRegistry creates a private weak-sharing identity table, independent
// of the process-wide one.
func NewWeakRegistry() *WeakRegistry {
	return dispatch.NewWeakRegistry()
}

// NewStrongRegistry creates a private strong-sharing identity table.
func NewStrongRegistry() *StrongRegistry {
	return dispatch.NewStrongRegistry()
}

// WithDirection fixes the signal's priority ordering direction. For shared
// names the direction is set once at first construction; later constructions
// requesting a different direction are ignored.
func WithDirection(d Direction) Option {
	return dispatch.WithDirection(d)
}

// WithLogger attaches a structured logger. The library is silent by default.
func WithLogger(l *zerolog.Logger) Option {
	return dispatch.WithLogger(l)
}

// WithListener restricts a slot to calls whose sender equals the given
// value. The default is Any.
func WithListener(listener any) SlotOption {
	return dispatch.WithListener(listener)
}
