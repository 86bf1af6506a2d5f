package dispatch

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// relock is the per-signal mutation lock. It is re-entrant within a single
// goroutine: a full dispatch runs with it held, and a slot callback must be
// able to mutate or introspect the very signal dispatching it (the
// self-removing one-shot slot being the classic case), just as nested flows
// like ResetCall acquire it once rather than deadlock. Across goroutines it
// is an ordinary mutex.
type relock struct {
	mu    sync.Mutex
	owner atomic.Int64
	depth int
}

func (l *relock) lock() {
	id := goid()
	if l.owner.Load() == id {
		l.depth++
		return
	}
	l.mu.Lock()
	l.owner.Store(id)
	l.depth = 1
}

func (l *relock) unlock() {
	l.depth--
	if l.depth == 0 {
		l.owner.Store(0)
		l.mu.Unlock()
	}
}

// goid returns the running goroutine's id, parsed from the stack header
// ("goroutine 123 [running]:"). Goroutine ids start at 1, so 0 is a safe
// unowned marker.
func goid() int64 {
	var buf [32]byte
	n := runtime.Stack(buf[:], false)

	const header = "goroutine "
	var id int64
	for _, c := range buf[len(header):n] {
		if c < '0' || c > '9' {
			break
		}
		id = id*10 + int64(c-'0')
	}
	return id
}
