// Package dial implements a circular value selector: a ring whose handle
// angle maps to a stepped value in [Min,Max].
//
// A Dial is host-agnostic. The host supplies a Renderer to paint with, a
// Scheduler stepped once per frame, and optionally an InputSource that
// delivers pointer events in the dial's local coordinates:
//
//	sched := dial.NewFrameScheduler()
//	router := dial.NewRouter()
//	d, err := dial.New(dial.Config{
//	    Min: 0, Max: 360, Step: 10, Radius: 120,
//	    Renderer:  r,
//	    Scheduler: sched,
//	    Input:     router,
//	})
//	if err != nil {
//	    return err
//	}
//	defer d.Destroy()
//	d.On("change", func(v float64) { fmt.Println(v) })
//
//	// every frame:
//	router.Dispatch(ev)
//	sched.Step(time.Now())
//
// Drags and SetValue move the step-snapped target and publish "set". The
// animation eases the current value toward the target and publishes
// "change" on every frame that moves it. Dragging across the top of the ring
// pins the target to Min or Max instead of jumping across the whole range.
package dial
