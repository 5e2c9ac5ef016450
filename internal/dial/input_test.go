package dial

import "testing"

func TestRouterTranslatesToLocalSpace(t *testing.T) {
	r := NewRouter()
	var got []PointerEvent
	r.Subscribe(Point{X: 100, Y: 50}, func(ev PointerEvent) bool {
		got = append(got, ev)
		return true
	})

	consumed := r.Dispatch(PointerEvent{Kind: PointerStart, X: 130, Y: 70, PointerID: 3})
	if !consumed {
		t.Fatal("event should be reported as consumed")
	}
	if len(got) != 1 {
		t.Fatalf("want one delivery, got %d", len(got))
	}
	if got[0].X != 30 || got[0].Y != 20 || got[0].PointerID != 3 || got[0].Kind != PointerStart {
		t.Fatalf("unexpected local event %+v", got[0])
	}
}

func TestRouterDeliversToEverySubscriber(t *testing.T) {
	r := NewRouter()
	var hits []string
	r.Subscribe(Point{}, func(PointerEvent) bool { hits = append(hits, "a"); return false })
	r.Subscribe(Point{}, func(PointerEvent) bool { hits = append(hits, "b"); return true })
	r.Subscribe(Point{}, func(PointerEvent) bool { hits = append(hits, "c"); return false })

	if !r.Dispatch(PointerEvent{Kind: PointerEnd}) {
		t.Fatal("one subscriber consumed the event")
	}
	if len(hits) != 3 || hits[0] != "a" || hits[1] != "b" || hits[2] != "c" {
		t.Fatalf("want [a b c], got %v", hits)
	}
}

func TestRouterUnsubscribe(t *testing.T) {
	r := NewRouter()
	called := false
	id := r.Subscribe(Point{}, func(PointerEvent) bool { called = true; return true })
	r.Unsubscribe(id)
	if r.Len() != 0 {
		t.Fatalf("want no routes, got %d", r.Len())
	}
	if r.Dispatch(PointerEvent{Kind: PointerStart}) || called {
		t.Fatal("unsubscribed handler still received events")
	}
}

func TestDialSubscribesAtAnchor(t *testing.T) {
	router := NewRouter()
	d, err := New(Config{
		Min: 0, Max: 360, Step: 10, Radius: 120,
		Anchor:    Point{X: 400, Y: 300},
		Renderer:  &recordingRenderer{},
		Scheduler: NewFrameScheduler(),
		Input:     router,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	// window point at a quarter turn, mid-band
	if !router.Dispatch(PointerEvent{Kind: PointerStart, X: 400 + 120 + 105, Y: 300 + 120}) {
		t.Fatal("press on the band in window space should reach the dial")
	}
	if d.Target() != 90 {
		t.Fatalf("want target 90, got %v", d.Target())
	}

	d.Destroy()
	if router.Len() != 0 {
		t.Fatal("Destroy should drop the input subscription")
	}
}
