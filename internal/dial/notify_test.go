package dial

import (
	"errors"
	"testing"
)

func TestParseEvent(t *testing.T) {
	if ev, err := ParseEvent("set"); err != nil || ev != EventSet {
		t.Fatalf("set: got %v, %v", ev, err)
	}
	if ev, err := ParseEvent("Change"); err != nil || ev != EventChange {
		t.Fatalf("change: got %v, %v", ev, err)
	}
	if _, err := ParseEvent("input"); !errors.Is(err, ErrUnknownEvent) {
		t.Fatalf("want ErrUnknownEvent, got %v", err)
	}
}

func TestHubDeliversInRegistrationOrder(t *testing.T) {
	h := newHub(nil)
	var order []string
	h.subscribe(EventChange, func(float64) { order = append(order, "a") }, 0)
	h.subscribe(EventChange, func(float64) { order = append(order, "b") }, 0)
	order = nil

	h.publish(EventChange, 1)
	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Fatalf("want [a b], got %v", order)
	}
}

func TestHubSubscribeDeliversCurrent(t *testing.T) {
	h := newHub(nil)
	var got []float64
	h.subscribe(EventSet, func(v float64) { got = append(got, v) }, 7)
	if len(got) != 1 || got[0] != 7 {
		t.Fatalf("want immediate delivery of 7, got %v", got)
	}
	if h.count(EventSet) != 1 || h.count(EventChange) != 0 {
		t.Fatal("subscription landed in the wrong list")
	}
}

func TestHubIsolatesPanickingObserver(t *testing.T) {
	var reported []error
	h := newHub(func(err error) { reported = append(reported, err) })

	var after []float64
	h.observers[EventChange] = append(h.observers[EventChange],
		func(float64) { panic("boom") },
		func(v float64) { after = append(after, v) },
	)

	h.publish(EventChange, 3)

	if len(after) != 1 || after[0] != 3 {
		t.Fatalf("observer after the panicking one should still run, got %v", after)
	}
	if len(reported) != 1 {
		t.Fatalf("want one report, got %d", len(reported))
	}
	var pe *ObserverPanicError
	if !errors.As(reported[0], &pe) {
		t.Fatalf("want *ObserverPanicError, got %T", reported[0])
	}
	if pe.Event != EventChange || pe.Value != 3 || pe.Recovered != "boom" || pe.StackTrace == "" {
		t.Fatalf("unexpected report: %+v", pe)
	}
}

func TestObserverPanicErrorUnwrap(t *testing.T) {
	cause := errors.New("cause")
	err := &ObserverPanicError{Recovered: cause}
	if !errors.Is(err, cause) {
		t.Fatal("panic value error should unwrap")
	}
}
