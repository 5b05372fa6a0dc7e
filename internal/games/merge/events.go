package merge

import (
	"time"

	"github.com/vovakirdan/fruit-arcade/internal/core"
)

// EventKind names a controller transition.
type EventKind string

const (
	EventSpawn      EventKind = "spawn"
	EventDrop       EventKind = "drop"
	EventMerge      EventKind = "merge"
	EventAnnihilate EventKind = "annihilate"
	EventGameOver   EventKind = "game_over"
)

// Event describes one transition. Rank is the rank involved: the spawned
// or dropped rank, the rank produced by a merge, or the topmost rank for
// an annihilation.
type Event struct {
	Kind  EventKind
	At    time.Duration // Scheduler time
	Rank  int
	Label string
	Pos   core.Vec
	Score int // Score after the event
}

// Recorder receives every event the controller emits.
type Recorder interface {
	Record(e Event)
}

// SessionRecorder is a Recorder that also wants to know when a session
// starts.
type SessionRecorder interface {
	Recorder
	BeginSession(seed int64)
}

// Listener is notified when the session ends.
type Listener interface {
	OnGameOver()
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func()

// OnGameOver calls f.
func (f ListenerFunc) OnGameOver() {
	f()
}
