package state

import "testing"

func TestMemoIsLazy(t *testing.T) {
	computes := 0
	m := NewMemo(func() int {
		computes++
		return 42
	})

	if computes != 0 {
		t.Fatalf("memo computed %d times before first Get", computes)
	}

	if got := m.Get(); got != 42 {
		t.Errorf("Get() = %d, want 42", got)
	}
	if computes != 1 {
		t.Errorf("memo computed %d times, want 1", computes)
	}
}

func TestMemoCachesUntilInvalidated(t *testing.T) {
	src := NewSignal(1)

	computes := 0
	m := NewMemo(func() int {
		computes++
		return src.Get() * 10
	})

	_ = m.Get()
	_ = m.Get()
	if computes != 1 {
		t.Fatalf("memo computed %d times for repeated reads, want 1", computes)
	}

	src.Set(2)
	if got := m.Get(); got != 20 {
		t.Errorf("Get() = %d, want 20", got)
	}
	if computes != 2 {
		t.Errorf("memo computed %d times, want 2", computes)
	}
}

func TestMemoMultipleChangesRecomputeOnce(t *testing.T) {
	src := NewSignal(1)

	computes := 0
	m := NewMemo(func() int {
		computes++
		return src.Get()
	})
	_ = m.Get()

	src.Set(2)
	src.Set(3)
	src.Set(4)

	if got := m.Get(); got != 4 {
		t.Errorf("Get() = %d, want 4", got)
	}
	if computes != 2 {
		t.Errorf("memo computed %d times, want 2", computes)
	}
}

func TestMemoChains(t *testing.T) {
	src := NewSignal(2)
	double := NewMemo(func() int { return src.Get() * 2 })
	quad := NewMemo(func() int { return double.Get() * 2 })

	if got := quad.Get(); got != 8 {
		t.Fatalf("quad = %d, want 8", got)
	}

	src.Set(3)
	if got := quad.Get(); got != 12 {
		t.Errorf("quad after change = %d, want 12", got)
	}
}

func TestEffectTracksMemo(t *testing.T) {
	src := NewSignal(1)
	m := NewMemo(func() int { return src.Get() + 1 })

	var seen []int
	e := CreateEffect(func() Cleanup {
		seen = append(seen, m.Get())
		return nil
	})
	defer e.Dispose()

	src.Set(5)

	if len(seen) != 2 || seen[0] != 2 || seen[1] != 6 {
		t.Fatalf("effect saw %v, want [2 6]", seen)
	}
}
