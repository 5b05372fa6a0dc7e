package replay

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/fruit-arcade/internal/games/merge"
)

// Recorder writes merge game events to a journal. Write failures are
// logged once and further events are dropped; a broken journal never
// interrupts play.
type Recorder struct {
	w      *Writer
	logger *log.Logger
	failed bool
}

// NewRecorder wraps w.
func NewRecorder(w *Writer, logger *log.Logger) *Recorder {
	return &Recorder{w: w, logger: logger}
}

// BeginSession writes a session marker.
func (r *Recorder) BeginSession(seed int64) {
	r.write(Entry{
		Kind:    KindSession,
		Game:    merge.GameID,
		Seed:    seed,
		Started: time.Now().UTC(),
	})
}

// Record writes one controller event. A finished session is flushed.
func (r *Recorder) Record(e merge.Event) {
	r.write(Entry{
		Kind:  string(e.Kind),
		AtMS:  e.At.Milliseconds(),
		Rank:  e.Rank,
		Label: e.Label,
		X:     e.Pos.X,
		Y:     e.Pos.Y,
		Score: e.Score,
	})
	if e.Kind == merge.EventGameOver {
		r.flush()
	}
}

func (r *Recorder) write(e Entry) {
	if r.failed {
		return
	}
	if err := r.w.Write(e); err != nil {
		r.fail(err)
	}
}

func (r *Recorder) flush() {
	if r.failed {
		return
	}
	if err := r.w.Flush(); err != nil {
		r.fail(err)
	}
}

func (r *Recorder) fail(err error) {
	r.failed = true
	if r.logger != nil {
		r.logger.Error("journal disabled", "err", err)
	}
}
