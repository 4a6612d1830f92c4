package state

import "testing"

func TestBatchNotifiesOnce(t *testing.T) {
	first := NewSignal("a")
	last := NewSignal("b")

	runs := 0
	e := CreateEffect(func() Cleanup {
		runs++
		_ = first.Get()
		_ = last.Get()
		return nil
	})
	defer e.Dispose()

	Batch(func() {
		first.Set("x")
		last.Set("y")
	})

	if runs != 2 {
		t.Errorf("effect ran %d times, want 2 (initial + one batch)", runs)
	}
}

func TestBatchNested(t *testing.T) {
	s := NewSignal(0)

	notified := 0
	s.Subscribe(func(int) { notified++ })

	Batch(func() {
		s.Set(1)
		Batch(func() {
			s.Set(2)
		})
		// Inner batch completion must not flush early.
		if notified != 0 {
			t.Errorf("notified %d times inside outer batch, want 0", notified)
		}
	})

	if notified != 1 {
		t.Errorf("notified %d times after outer batch, want 1", notified)
	}
	if got := s.Peek(); got != 2 {
		t.Errorf("value = %d, want 2", got)
	}
}

func TestUntracked(t *testing.T) {
	tracked := NewSignal(1)
	ignored := NewSignal(1)

	runs := 0
	e := CreateEffect(func() Cleanup {
		runs++
		_ = tracked.Get()
		Untracked(func() {
			_ = ignored.Get()
		})
		return nil
	})
	defer e.Dispose()

	ignored.Set(2)
	if runs != 1 {
		t.Errorf("effect ran %d times for untracked read, want 1", runs)
	}

	tracked.Set(2)
	if runs != 2 {
		t.Errorf("effect ran %d times, want 2", runs)
	}
}
