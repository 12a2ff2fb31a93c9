package study

// EventKind identifies an engine state change.
type EventKind int

const (
	EventDeckLoaded EventKind = iota
	EventCursorMoved
	EventJudged
	EventSessionComplete
	EventSessionReset
	EventShuffled
	EventTimerChanged
)

func (k EventKind) String() string {
	switch k {
	case EventDeckLoaded:
		return "deck-loaded"
	case EventCursorMoved:
		return "cursor-moved"
	case EventJudged:
		return "judged"
	case EventSessionComplete:
		return "session-complete"
	case EventSessionReset:
		return "session-reset"
	case EventShuffled:
		return "shuffled"
	case EventTimerChanged:
		return "timer-changed"
	default:
		return "unknown"
	}
}

// Event is delivered to listeners after a mutation has been applied.
// Judgement is set for EventJudged and EventSessionComplete; Complete only
// for EventSessionComplete.
type Event struct {
	Kind      EventKind
	Judgement *Judgement
	Complete  *SessionComplete
}

// Listener receives engine events synchronously.
type Listener func(Event)

// Subscribe registers a listener.
func (e *Engine) Subscribe(l Listener) {
	if l == nil {
		return
	}
	e.listeners = append(e.listeners, l)
}

func (e *Engine) emit(ev Event) {
	for _, l := range e.listeners {
		l(ev)
	}
}
