package merge

import (
	"math"

	"github.com/vovakirdan/fruit-arcade/internal/physics"
)

// GameStateType represents the current game state.
type GameStateType string

const (
	StatePlaying     GameStateType = "playing"
	StateLocked      GameStateType = "locked"
	StatePaused      GameStateType = "paused"
	StateGameOver    GameStateType = "game_over"
	StateAborted     GameStateType = "aborted"
	StatePausedSmall GameStateType = "paused_small_window"
)

// PieceSnapshot is one fruit body, positions rounded to 1/100 unit.
type PieceSnapshot struct {
	Label string
	X, Y  float64
	Held  bool
}

// Snapshot captures the complete game state for determinism testing and replay.
type Snapshot struct {
	Tick       uint64
	Score      int
	Best       string
	Next       string
	ActiveRank int // -1 without an active piece
	ActiveX    float64
	Pieces     []PieceSnapshot
	State      GameStateType
}

// Snapshot returns the current game snapshot for determinism verification.
func (g *Game) Snapshot() Snapshot {
	if g.ctrl == nil {
		return Snapshot{Tick: g.tick, ActiveRank: -1, State: StateAborted}
	}

	state := StatePlaying
	switch {
	case g.tooSmall:
		state = StatePausedSmall
	case g.err != nil:
		state = StateAborted
	case g.ctrl.State().GameOver:
		state = StateGameOver
	case g.paused:
		state = StatePaused
	case g.ctrl.State().Locked:
		state = StateLocked
	}

	s := Snapshot{
		Tick:       g.tick,
		Score:      g.ctrl.Score(),
		Best:       g.bestLabel(),
		Next:       g.ctrl.Ranks().At(g.ctrl.NextRank()).Label,
		ActiveRank: -1,
		State:      state,
	}
	if a := g.ctrl.State().Active; a != nil {
		s.ActiveRank = a.Rank
		s.ActiveX = a.Pos.X
	}
	for _, b := range g.world.Bodies() {
		if b.Shape != physics.ShapeCircle {
			continue
		}
		s.Pieces = append(s.Pieces, PieceSnapshot{
			Label: b.Label,
			X:     round2(b.Pos.X),
			Y:     round2(b.Pos.Y),
			Held:  b.Held,
		})
	}
	return s
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
