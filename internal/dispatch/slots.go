package dispatch

import (
	"reflect"

	"github.com/google/btree"
)

// slotList is the priority-ordered slot collection, keyed by (priority, uid).
// It is not safe for concurrent use; the owning Signal's mutation lock
// guards every access.
type slotList struct {
	tree *btree.BTreeG[*Slot]
}

func newSlotList() *slotList {
	return &slotList{
		tree: btree.NewG(8, func(a, b *Slot) bool { return a.less(b) }),
	}
}

func (l *slotList) len() int {
	return l.tree.Len()
}

// insert adds a slot. The uid is unique per signal, so the (priority, uid)
// key can never collide with an existing entry.
func (l *slotList) insert(s *Slot) {
	l.tree.ReplaceOrInsert(s)
}

// get returns the stored slot with the same (priority, uid) key, if any.
// Callers needing object identity must compare the result against their
// candidate themselves.
func (l *slotList) get(s *Slot) (*Slot, bool) {
	return l.tree.Get(s)
}

// remove deletes a slot by key, reporting whether it was present.
func (l *slotList) remove(s *Slot) bool {
	_, ok := l.tree.Delete(s)
	return ok
}

// findUID returns the slot carrying uid, or nil.
func (l *slotList) findUID(uid uint64) *Slot {
	var found *Slot
	l.tree.Ascend(func(s *Slot) bool {
		if s.uid == uid {
			found = s
			return false
		}
		return true
	})
	return found
}

// findCallback returns every slot registered with the function identified
// by id, in collection order.
func (l *slotList) findCallback(id uintptr) []*Slot {
	var found []*Slot
	l.tree.Ascend(func(s *Slot) bool {
		if s.fnID == id {
			found = append(found, s)
		}
		return true
	})
	return found
}

// findListener returns every slot whose listener filter equals the given
// value, in collection order.
func (l *slotList) findListener(listener any) []*Slot {
	var found []*Slot
	l.tree.Ascend(func(s *Slot) bool {
		if reflect.DeepEqual(s.listener, listener) {
			found = append(found, s)
		}
		return true
	})
	return found
}

// ordered materializes the collection in execution order for the given
// direction. Descending reverses the priority groups but keeps uid order
// within a group, so equal-priority slots always run in registration order.
func (l *slotList) ordered(dir Direction) []*Slot {
	asc := make([]*Slot, 0, l.tree.Len())
	l.tree.Ascend(func(s *Slot) bool {
		asc = append(asc, s)
		return true
	})

	if dir == Ascending {
		return asc
	}

	out := make([]*Slot, 0, len(asc))
	for i := len(asc); i > 0; {
		j := i
		p := asc[i-1].priority
		for j > 0 && asc[j-1].priority == p {
			j--
		}
		out = append(out, asc[j:i]...)
		i = j
	}
	return out
}

// minPriority and maxPriority report the numeric priority extremes of the
// given slots, which must be non-empty.
func minPriority(slots []*Slot) int {
	min := slots[0].priority
	for _, s := range slots[1:] {
		if s.priority < min {
			min = s.priority
		}
	}
	return min
}

func maxPriority(slots []*Slot) int {
	max := slots[0].priority
	for _, s := range slots[1:] {
		if s.priority > max {
			max = s.priority
		}
	}
	return max
}
