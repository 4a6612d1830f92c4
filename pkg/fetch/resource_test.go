package fetch

import (
	"errors"
	"testing"
	"time"

	"github.com/statekit-dev/statekit/pkg/state"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestResourceLoadsOnCreation(t *testing.T) {
	r := NewResource(func() (string, error) {
		return "value", nil
	})

	waitFor(t, r.IsReady)

	if got := r.Data(); got != "value" {
		t.Errorf("Data() = %q, want value", got)
	}
	if r.Err() != nil {
		t.Errorf("Err() = %v, want nil", r.Err())
	}
}

func TestResourceFailure(t *testing.T) {
	boom := errors.New("boom")
	r := NewResource(func() (int, error) {
		return 0, boom
	})

	waitFor(t, r.IsFailed)

	if !errors.Is(r.Err(), boom) {
		t.Errorf("Err() = %v, want boom", r.Err())
	}
	if r.DataOr(-1) != -1 {
		t.Errorf("DataOr fallback not used on failure")
	}
}

func TestKeyedResourceReceivesKey(t *testing.T) {
	key := state.NewSignal(42)
	got := make(chan int, 4)

	NewKeyedResource(key.Get, func(k int) (int, error) {
		got <- k
		return k, nil
	})

	select {
	case value := <-got:
		if value != 42 {
			t.Fatalf("key = %d, want 42", value)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for fetcher to receive key")
	}
}

func TestKeyedResourceRefetchesOnKeyChange(t *testing.T) {
	key := state.NewSignal("alpha")
	got := make(chan string, 4)

	r := NewKeyedResource(key.Get, func(k string) (string, error) {
		got <- k
		return k, nil
	})

	if v := <-got; v != "alpha" {
		t.Fatalf("initial key = %q, want alpha", v)
	}

	key.Set("beta")

	select {
	case v := <-got:
		if v != "beta" {
			t.Fatalf("refetched key = %q, want beta", v)
		}
	case <-time.After(time.Second):
		t.Fatal("no refetch after key change")
	}

	waitFor(t, func() bool { return r.IsReady() && r.DataOr("") == "beta" })
}

func TestResourceStaleLoadDiscarded(t *testing.T) {
	release := make(chan struct{})
	key := state.NewSignal(1)

	r := NewKeyedResource(key.Get, func(k int) (int, error) {
		if k == 1 {
			<-release // first load held until after the second settles
		}
		return k, nil
	})

	key.Set(2)
	waitFor(t, func() bool { return r.IsReady() && r.DataOr(0) == 2 })

	close(release) // stale generation completes now

	// Give the stale goroutine a chance to (incorrectly) write.
	time.Sleep(50 * time.Millisecond)
	if got := r.DataOr(0); got != 2 {
		t.Errorf("Data = %d after stale completion, want 2", got)
	}
}

func TestResourceStateString(t *testing.T) {
	cases := map[ResourceState]string{
		Pending: "pending",
		Loading: "loading",
		Ready:   "ready",
		Failed:  "failed",
	}
	for st, want := range cases {
		if got := st.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", st, got, want)
		}
	}
}
