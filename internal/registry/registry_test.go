package registry

import (
	"testing"

	"github.com/vovakirdan/fruit-arcade/internal/core"
)

type testGame struct{ id string }

func (g testGame) ID() string                           { return g.id }
func (g testGame) Title() string                        { return "Test " + g.id }
func (g testGame) Reset(core.RuntimeConfig)             {}
func (g testGame) Step(core.InputFrame) core.StepResult { return core.StepResult{} }
func (g testGame) Render(*core.Screen)                  {}
func (g testGame) State() core.GameState                { return core.GameState{} }

func TestRegisterAndCreate(t *testing.T) {
	Register("zz_test_b", func() Game { return testGame{"zz_test_b"} })
	Register("zz_test_a", func() Game { return testGame{"zz_test_a"} })

	if !Exists("zz_test_a") {
		t.Fatal("zz_test_a not registered")
	}
	g, err := Create("zz_test_b")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if g.ID() != "zz_test_b" {
		t.Errorf("ID = %q", g.ID())
	}

	var ids []string
	for _, info := range List() {
		if info.ID == "zz_test_a" && info.Title != "Test zz_test_a" {
			t.Errorf("title = %q", info.Title)
		}
		ids = append(ids, info.ID)
	}
	for i := 1; i < len(ids); i++ {
		if ids[i-1] >= ids[i] {
			t.Errorf("List not sorted: %v", ids)
		}
	}
}

func TestCreateUnknown(t *testing.T) {
	if _, err := Create("no-such-game"); err == nil {
		t.Error("expected error for unknown game")
	}
	if Exists("no-such-game") {
		t.Error("unknown game reported as registered")
	}
}

func TestRegisterTwicePanics(t *testing.T) {
	Register("zz_test_dup", func() Game { return testGame{"zz_test_dup"} })
	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()
	Register("zz_test_dup", func() Game { return testGame{"zz_test_dup"} })
}
