package wizard

// EventKind identifies what an Event reports.
type EventKind string

const (
	EventStep       EventKind = "step"
	EventGeneration EventKind = "generation"
	EventExport     EventKind = "export"
	EventRestore    EventKind = "restore"
)

// Event is delivered to an Observer after the Controller's state changed.
type Event struct {
	Kind EventKind
	From Step
	To   Step
	// Context is a copy of the wizard context after the change.
	Context Context
	// Target names the export destination (clipboard or a file path).
	Target string
	Err    error
}

// Observer is notified of transitions, generations, and exports. It is
// called without the Controller's lock held and may call back into it.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

// Observe calls f(ev).
func (f ObserverFunc) Observe(ev Event) { f(ev) }
