package dial

import "sort"

// HandleID identifies an input subscription.
type HandleID uint64

// PointerHandler receives pointer events in the subscriber's local space and
// reports whether it consumed the event.
type PointerHandler func(ev PointerEvent) bool

// InputSource delivers pointer events to subscribers. Each subscription has
// an origin; events arrive translated so that origin is (0,0).
type InputSource interface {
	Subscribe(origin Point, h PointerHandler) HandleID
	Unsubscribe(id HandleID)
}

type route struct {
	origin  Point
	handler PointerHandler
}

// Router is an InputSource fed by a host with window-space events.
type Router struct {
	routes map[HandleID]route
	next   HandleID
}

// NewRouter returns a router with no subscribers.
func NewRouter() *Router {
	return &Router{routes: make(map[HandleID]route)}
}

func (r *Router) Subscribe(origin Point, h PointerHandler) HandleID {
	r.next++
	r.routes[r.next] = route{origin: origin, handler: h}
	return r.next
}

func (r *Router) Unsubscribe(id HandleID) {
	delete(r.routes, id)
}

// Len returns the number of live subscriptions.
func (r *Router) Len() int { return len(r.routes) }

// Dispatch delivers ev to every subscriber in subscription order. Every
// subscriber sees the event so releases reach whichever dial is dragging.
// It reports whether any subscriber consumed it.
func (r *Router) Dispatch(ev PointerEvent) bool {
	ids := make([]HandleID, 0, len(r.routes))
	for id := range r.routes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	consumed := false
	for _, id := range ids {
		rt, ok := r.routes[id]
		if !ok {
			continue
		}
		local := ev
		local.X -= rt.origin.X
		local.Y -= rt.origin.Y
		if rt.handler(local) {
			consumed = true
		}
	}
	return consumed
}
