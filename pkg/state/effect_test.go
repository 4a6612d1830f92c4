package state

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestEffectRunsImmediately(t *testing.T) {
	runs := 0
	e := CreateEffect(func() Cleanup {
		runs++
		return nil
	})
	defer e.Dispose()

	if runs != 1 {
		t.Errorf("effect ran %d times, want 1", runs)
	}
}

func TestEffectRerunsOnDependencyChange(t *testing.T) {
	count := NewSignal(0)

	var seen []int
	e := CreateEffect(func() Cleanup {
		seen = append(seen, count.Get())
		return nil
	})
	defer e.Dispose()

	count.Set(1)
	count.Set(2)

	if len(seen) != 3 || seen[0] != 0 || seen[1] != 1 || seen[2] != 2 {
		t.Fatalf("effect saw %v, want [0 1 2]", seen)
	}
}

func TestEffectCleanupRunsBeforeRerun(t *testing.T) {
	count := NewSignal(0)

	var order []string
	e := CreateEffect(func() Cleanup {
		_ = count.Get()
		order = append(order, "run")
		return func() { order = append(order, "cleanup") }
	})

	count.Set(1)
	e.Dispose()

	want := []string{"run", "cleanup", "run", "cleanup"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestEffectRebuildsDependencies(t *testing.T) {
	useA := NewSignal(true)
	a := NewSignal("a")
	b := NewSignal("b")

	runs := 0
	e := CreateEffect(func() Cleanup {
		runs++
		if useA.Get() {
			_ = a.Get()
		} else {
			_ = b.Get()
		}
		return nil
	})
	defer e.Dispose()

	useA.Set(false) // now depends on b only

	before := runs
	a.Set("a2")
	if runs != before {
		t.Errorf("effect re-ran on abandoned dependency")
	}

	b.Set("b2")
	if runs != before+1 {
		t.Errorf("effect did not re-run on current dependency")
	}
}

func TestEffectDisposeStopsReruns(t *testing.T) {
	count := NewSignal(0)

	runs := 0
	e := CreateEffect(func() Cleanup {
		runs++
		_ = count.Get()
		return nil
	})

	e.Dispose()
	count.Set(1)

	if runs != 1 {
		t.Errorf("effect ran %d times after dispose, want 1", runs)
	}
}

func TestEffectSelfWriteConverges(t *testing.T) {
	count := NewSignal(0)

	runs := 0
	e := CreateEffect(func() Cleanup {
		runs++
		// Clamp: writes its own dependency until the value settles.
		if v := count.Get(); v > 3 {
			count.Set(3)
		}
		return nil
	})
	defer e.Dispose()

	count.Set(10)

	if got := count.Peek(); got != 3 {
		t.Errorf("count = %d, want clamped 3", got)
	}
	if runs < 2 {
		t.Errorf("effect ran %d times, want at least 2", runs)
	}
}

func TestEffectConcurrentWritesAlwaysObserved(t *testing.T) {
	count := NewSignal(0)

	// The effect body may execute on any writer's goroutine, one at a
	// time; last must end up holding the final value even when a write
	// lands in the window where the loop holder is releasing.
	var last atomic.Int64
	e := CreateEffect(func() Cleanup {
		last.Store(int64(count.Get()))
		return nil
	})
	defer e.Dispose()

	const writers = 8
	const perWriter = 500

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				count.Update(func(v int) int { return v + 1 })
			}
		}()
	}
	wg.Wait()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if last.Load() == writers*perWriter {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("effect last observed %d, want %d", last.Load(), writers*perWriter)
}

func TestEffectRegisteredWithOwner(t *testing.T) {
	count := NewSignal(0)
	runs := 0

	owner, dispose := Root(func(*Owner) {
		CreateEffect(func() Cleanup {
			runs++
			_ = count.Get()
			return nil
		})
	})
	_ = owner

	dispose()
	count.Set(1)

	if runs != 1 {
		t.Errorf("effect ran %d times after owner dispose, want 1", runs)
	}
}
