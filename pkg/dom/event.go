// Package dom models the host page's file input: an event target with capturing and
// bubbling listeners, a file list and a value.
package dom

// EventChange is the type of the event fired when an input's selection changes.
const EventChange = "change"

// Event is a dispatched event. Trusted is false for programmatically dispatched events.
type Event struct {
	Type    string
	Trusted bool
	Bubbles bool

	propagationStopped bool
	immediateStopped   bool
	defaultPrevented   bool
}

// NewUserEvent returns a trusted, bubbling event as a user action would produce.
func NewUserEvent(typ string) *Event {
	return &Event{Type: typ, Trusted: true, Bubbles: true}
}

// NewSyntheticEvent returns an untrusted event dispatched by code.
func NewSyntheticEvent(typ string, bubbles bool) *Event {
	return &Event{Type: typ, Bubbles: bubbles}
}

// StopPropagation prevents the event from reaching listeners of later phases.
func (e *Event) StopPropagation() {
	e.propagationStopped = true
}

// StopImmediatePropagation prevents every remaining listener from running.
func (e *Event) StopImmediatePropagation() {
	e.propagationStopped = true
	e.immediateStopped = true
}

// PreventDefault cancels the event's default handling.
func (e *Event) PreventDefault() {
	e.defaultPrevented = true
}

// DefaultPrevented reports whether PreventDefault was called.
func (e *Event) DefaultPrevented() bool {
	return e.defaultPrevented
}

// PropagationStopped reports whether either stop method was called.
func (e *Event) PropagationStopped() bool {
	return e.propagationStopped
}
