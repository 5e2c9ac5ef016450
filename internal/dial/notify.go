package dial

import (
	"fmt"
	"runtime/debug"
	"strings"
)

// Event names the two value notifications a dial publishes.
type Event int

const (
	// EventSet fires when the step-snapped target changes.
	EventSet Event = iota
	// EventChange fires when the animated current value changes.
	EventChange
)

func (e Event) String() string {
	switch e {
	case EventSet:
		return "set"
	case EventChange:
		return "change"
	default:
		return fmt.Sprintf("Event(%d)", int(e))
	}
}

// ParseEvent maps "set" or "change" to an Event.
func ParseEvent(name string) (Event, error) {
	switch strings.ToLower(name) {
	case "set":
		return EventSet, nil
	case "change":
		return EventChange, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownEvent, name)
	}
}

// Observer receives a value notification.
type Observer func(value float64)

// hub keeps one ordered observer list per event. Delivery is synchronous and
// a panicking observer does not stop delivery to the ones after it.
type hub struct {
	observers [2][]Observer
	report    func(error)
}

func newHub(report func(error)) *hub {
	return &hub{report: report}
}

// subscribe appends cb and delivers the current value to it right away.
func (h *hub) subscribe(ev Event, cb Observer, current float64) {
	h.observers[ev] = append(h.observers[ev], cb)
	h.deliver(ev, cb, current)
}

func (h *hub) publish(ev Event, v float64) {
	for _, cb := range h.observers[ev] {
		h.deliver(ev, cb, v)
	}
}

func (h *hub) deliver(ev Event, cb Observer, v float64) {
	defer func() {
		if r := recover(); r != nil {
			if h.report != nil {
				h.report(&ObserverPanicError{
					Event:      ev,
					Value:      v,
					Recovered:  r,
					StackTrace: string(debug.Stack()),
				})
			}
		}
	}()
	cb(v)
}

func (h *hub) count(ev Event) int { return len(h.observers[ev]) }

func (h *hub) reset() {
	h.observers[EventSet] = nil
	h.observers[EventChange] = nil
}
