package tui

import (
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/fruit-arcade/internal/core"
	"github.com/vovakirdan/fruit-arcade/internal/storage"
)

// stubGame ends after a fixed number of steps.
type stubGame struct {
	resets  int
	resized [2]int
	steps   int
	endAt   int
	last    core.InputFrame
}

func (g *stubGame) ID() string    { return "stub" }
func (g *stubGame) Title() string { return "Stub" }

func (g *stubGame) Reset(core.RuntimeConfig) {
	g.resets++
	g.steps = 0
}

func (g *stubGame) Step(in core.InputFrame) core.StepResult {
	g.steps++
	g.last = in.Clone()
	return core.StepResult{State: g.State()}
}

func (g *stubGame) Render(dst *core.Screen) { dst.DrawText(0, 0, "stub") }

func (g *stubGame) State() core.GameState {
	return core.GameState{Score: 7, GameOver: g.steps >= g.endAt, Detail: "Melon"}
}

type resizableStub struct{ stubGame }

func (g *resizableStub) Resize(w, h int) { g.resized = [2]int{w, h} }

func TestResizeUsesResizer(t *testing.T) {
	g := &resizableStub{stubGame: stubGame{endAt: 100}}
	m := NewModel(g, nil, core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 1}, "")
	m.Init()

	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = next.(Model)

	if g.resets != 1 {
		t.Errorf("resets = %d, want 1 (Init only)", g.resets)
	}
	if g.resized != [2]int{120, 40} {
		t.Errorf("resized = %v", g.resized)
	}
	if m.screen.Width() != 120 || m.screen.Height() != 40 {
		t.Errorf("screen = %dx%d", m.screen.Width(), m.screen.Height())
	}
}

func TestResizeResetsOtherGames(t *testing.T) {
	g := &stubGame{endAt: 100}
	m := NewModel(g, nil, core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 1}, "")
	m.Init()

	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	if g.resets != 2 {
		t.Errorf("resets = %d, want 2", g.resets)
	}
}

func TestKeysReachGame(t *testing.T) {
	g := &stubGame{endAt: 100}
	m := NewModel(g, nil, core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 1}, "")
	m.Init()

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	next, _ = next.Update(TickMsg{})
	if !g.last.Has(core.ActionLeft) {
		t.Errorf("step input = %v, want left", g.last.Actions)
	}

	next.Update(TickMsg{})
	if g.last.Has(core.ActionLeft) {
		t.Error("input not cleared after tick")
	}
}

func TestScoreSavedOnceWithPlayer(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	g := &stubGame{endAt: 1}
	var model tea.Model = NewModel(g, store, core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 1}, "alice")
	model.Init()

	for i := 0; i < 3; i++ {
		model, _ = model.Update(TickMsg{})
	}

	scores, err := store.TopScores("stub", 10)
	if err != nil {
		t.Fatalf("TopScores: %v", err)
	}
	if len(scores) != 1 {
		t.Fatalf("saved %d scores, want 1", len(scores))
	}
	if scores[0].Player != "alice" || scores[0].Score != 7 || scores[0].Detail != "Melon" {
		t.Errorf("saved %+v", scores[0])
	}
}

func TestQuitKey(t *testing.T) {
	g := &stubGame{endAt: 100}
	m := NewModel(g, nil, core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 1}, "")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if next.View() != "" {
		t.Error("view not empty after quit")
	}
}
