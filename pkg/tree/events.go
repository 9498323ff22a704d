package tree

// Event is a synchronous multi-subscriber notification channel. Listeners
// run in subscription order on the goroutine that fires the event; there is
// no buffering and no acknowledgment. The zero value is ready to use.
type Event[P any] struct {
	listeners []*listener[P]
}

type listener[P any] struct {
	fn func(P)
}

// Listen registers fn and returns a function that unregisters it. Listeners
// registered during a dispatch do not receive the event being dispatched.
func (e *Event[P]) Listen(fn func(P)) func() {
	l := &listener[P]{fn: fn}
	e.listeners = append(e.listeners, l)
	return func() {
		for i, cur := range e.listeners {
			if cur == l {
				e.listeners = append(e.listeners[:i], e.listeners[i+1:]...)
				return
			}
		}
	}
}

// fire dispatches payload to every listener, in order. Only the owning model
// publishes; subscribers cannot fire.
func (e *Event[P]) fire(payload P) {
	for _, l := range append([]*listener[P](nil), e.listeners...) {
		l.fn(payload)
	}
}
