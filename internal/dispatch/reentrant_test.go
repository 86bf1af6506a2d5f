package dispatch

import (
	"testing"
)

// A one-shot slot deletes itself from inside its own dispatch. The mutation
// lock is held for the whole dispatch, so this only works because the lock
// is re-entrant for the dispatching goroutine.
func TestSlotRemovesItselfDuringDispatch(t *testing.T) {
	s := New()
	var order []string

	var once *Slot
	var err error
	once, err = s.Add(0, func(sender any, args ...any) (any, error) {
		order = append(order, "once")
		return "once", s.Delete(once)
	})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	mustAdd(t, s, 1, appender(&order, "tail", "tail"))

	if _, err := s.Call("sender"); err != nil {
		t.Fatalf("First call failed: %v", err)
	}
	if s.Contains(once) {
		t.Fatal("One-shot slot still registered after removing itself")
	}
	if s.Len() != 1 {
		t.Fatalf("Len = %d after self-removal, want 1", s.Len())
	}

	if _, err := s.Call("sender"); err != nil {
		t.Fatalf("Second call failed: %v", err)
	}
	want := []string{"once", "tail", "tail"}
	if len(order) != len(want) {
		t.Fatalf("Execution order %v, want %v", order, want)
	}
	for i, name := range want {
		if order[i] != name {
			t.Fatalf("Execution order %v, want %v", order, want)
		}
	}
}

// A slot registering another slot mid-dispatch must not deadlock, and the
// new slot joins the next dispatch, not the one in flight.
func TestSlotAddsSlotDuringDispatch(t *testing.T) {
	s := New()
	var order []string
	added := false

	mustAdd(t, s, 0, func(sender any, args ...any) (any, error) {
		order = append(order, "first")
		if added {
			return nil, nil
		}
		added = true
		_, err := s.Add(1, appender(&order, "late", nil))
		return nil, err
	})

	if _, err := s.Call("sender"); err != nil {
		t.Fatalf("First call failed: %v", err)
	}
	if len(order) != 1 || order[0] != "first" {
		t.Fatalf("Slot added mid-dispatch ran in the same dispatch: %v", order)
	}

	if _, err := s.Call("sender"); err != nil {
		t.Fatalf("Second call failed: %v", err)
	}
	want := []string{"first", "first", "late"}
	for i, name := range want {
		if order[i] != name {
			t.Fatalf("Execution order %v, want %v", order, want)
		}
	}
}

// A slot may freely introspect its own signal while being dispatched.
func TestSlotIntrospectsOwnSignalDuringDispatch(t *testing.T) {
	s := New()

	var slot *Slot
	slot = mustAdd(t, s, 0, func(sender any, args ...any) (any, error) {
		if s.Len() != 1 {
			t.Errorf("Len inside dispatch = %d, want 1", s.Len())
		}
		if !s.Contains(slot) {
			t.Error("Contains inside dispatch reported the running slot absent")
		}
		if got := s.Stats(); got.Slots != 1 {
			t.Errorf("Stats inside dispatch reported %d slots, want 1", got.Slots)
		}
		if _, err := s.FindUID(slot.UID()); err != nil {
			t.Errorf("FindUID inside dispatch failed: %v", err)
		}
		return nil, nil
	})

	if _, err := s.Call("sender"); err != nil {
		t.Fatalf("Call failed: %v", err)
	}
}

// A slot dispatching its own signal again nests under the same lock.
func TestSlotCallsOwnSignalDuringDispatch(t *testing.T) {
	s := New()
	var order []string

	mustAdd(t, s, 0, appender(&order, "inner", nil), WithListener("inner"))
	mustAdd(t, s, 0, func(sender any, args ...any) (any, error) {
		order = append(order, "outer")
		_, err := s.Call("inner")
		return nil, err
	}, WithListener("outer"))

	if _, err := s.Call("outer"); err != nil {
		t.Fatalf("Call failed: %v", err)
	}
	want := []string{"outer", "inner"}
	for i, name := range want {
		if order[i] != name {
			t.Fatalf("Execution order %v, want %v", order, want)
		}
	}
}
