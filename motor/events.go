package motor

// EventKind identifies a movement transition notification.
type EventKind int

const (
	EventFloored EventKind = iota
	EventFloorExited
	EventClimbing
	EventClimbExited
	EventJumping
	EventFloorJumping
	EventWallJumping
)

func (k EventKind) String() string {
	switch k {
	case EventFloored:
		return "floored"
	case EventFloorExited:
		return "floor_exited"
	case EventClimbing:
		return "climbing"
	case EventClimbExited:
		return "climb_exited"
	case EventJumping:
		return "jumping"
	case EventFloorJumping:
		return "floor_jumping"
	case EventWallJumping:
		return "wall_jumping"
	default:
		return "unknown"
	}
}

// Event is a discrete transition emitted during a step. Each kind fires
// at most once per step.
type Event struct {
	Kind EventKind
}

// EventQueue is a simple FIFO the caller drains once per step.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all queued events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}
