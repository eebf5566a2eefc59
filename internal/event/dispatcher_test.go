package event

import "testing"

func TestAddAndDispatch(t *testing.T) {
	d := NewDispatcher()
	var got []any
	d.Add("ping", func(args ...any) { got = append(got, args...) })

	d.Dispatch("ping", 1, "two")
	if len(got) != 2 || got[0] != 1 || got[1] != "two" {
		t.Errorf("expected [1 two], got %v", got)
	}
}

func TestRemove(t *testing.T) {
	d := NewDispatcher()
	calls := 0
	tok := d.Add("ping", func(args ...any) { calls++ })
	d.Remove(tok)
	d.Dispatch("ping")
	if calls != 0 {
		t.Errorf("expected 0 calls after Remove, got %d", calls)
	}
}

func TestHas(t *testing.T) {
	d := NewDispatcher()
	if d.Has("ping") {
		t.Error("expected false before any Add")
	}
	d.Add("ping", func(args ...any) {})
	if !d.Has("ping") {
		t.Error("expected true after Add")
	}
}

func TestDispatchSnapshotsListeners(t *testing.T) {
	// A listener that adds another listener during dispatch must not see
	// that new listener invoked within the same Dispatch call.
	d := NewDispatcher()
	secondCalled := false
	d.Add("ping", func(args ...any) {
		d.Add("ping", func(args ...any) { secondCalled = true })
	})
	d.Dispatch("ping")
	if secondCalled {
		t.Error("expected listener added mid-dispatch to not run this dispatch")
	}
	d.Dispatch("ping")
	if !secondCalled {
		t.Error("expected listener added in the prior dispatch to run on the next one")
	}
}

func TestCountersAndReset(t *testing.T) {
	d := NewDispatcher()
	d.Add("ping", func(args ...any) {})
	d.Add("ping", func(args ...any) {})
	d.Dispatch("ping")

	fired, handled := d.Counters()
	if fired["ping"] != 1 {
		t.Errorf("expected fired=1, got %d", fired["ping"])
	}
	if handled["ping"] != 2 {
		t.Errorf("expected handled=2, got %d", handled["ping"])
	}

	d.ResetCounters()
	fired, handled = d.Counters()
	if fired["ping"] != 0 || handled["ping"] != 0 {
		t.Errorf("expected counters zeroed, got fired=%d handled=%d", fired["ping"], handled["ping"])
	}
}

func TestDispatchWithNoListenersDoesNotCountAsFired(t *testing.T) {
	d := NewDispatcher()
	d.Dispatch("nobody-listening")
	fired, _ := d.Counters()
	if fired["nobody-listening"] != 0 {
		t.Errorf("expected no fired count for an event with zero listeners, got %d", fired["nobody-listening"])
	}
}
