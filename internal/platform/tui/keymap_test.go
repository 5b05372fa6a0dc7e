package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/fruit-arcade/internal/core"
)

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestMapKey(t *testing.T) {
	km := NewKeyMapper()
	tests := []struct {
		msg    tea.KeyMsg
		want   core.Action
		isQuit bool
	}{
		{tea.KeyMsg{Type: tea.KeyLeft}, core.ActionLeft, false},
		{runeKey("a"), core.ActionLeft, false},
		{runeKey("h"), core.ActionLeft, false},
		{tea.KeyMsg{Type: tea.KeyRight}, core.ActionRight, false},
		{runeKey("d"), core.ActionRight, false},
		{runeKey(" "), core.ActionDrop, false},
		{tea.KeyMsg{Type: tea.KeyDown}, core.ActionDrop, false},
		{runeKey("p"), core.ActionPause, false},
		{tea.KeyMsg{Type: tea.KeyEsc}, core.ActionPause, false},
		{runeKey("r"), core.ActionRestart, false},
		{runeKey("b"), core.ActionBack, false},
		{runeKey("q"), core.ActionQuit, true},
		{tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit, true},
		{runeKey("x"), core.ActionNone, false},
	}

	for _, tt := range tests {
		got, isQuit := km.MapKey(tt.msg)
		if got != tt.want || isQuit != tt.isQuit {
			t.Errorf("MapKey(%q) = %v, %v; want %v, %v", tt.msg.String(), got, isQuit, tt.want, tt.isQuit)
		}
	}
}

func TestMapKeyToFrame(t *testing.T) {
	km := NewKeyMapper()
	frame := core.NewInputFrame()

	if km.MapKeyToFrame(runeKey("a"), &frame) {
		t.Error("a reported as quit")
	}
	if km.MapKeyToFrame(tea.KeyMsg{Type: tea.KeyDown}, &frame) {
		t.Error("down reported as quit")
	}
	if !frame.Has(core.ActionLeft) || !frame.Has(core.ActionDrop) {
		t.Errorf("frame = %v, want left and drop", frame.Actions)
	}
	if !km.MapKeyToFrame(runeKey("q"), &frame) {
		t.Error("q not reported as quit")
	}
}

func TestMapKeyToMenuAction(t *testing.T) {
	km := NewKeyMapper()
	tests := []struct {
		msg  tea.KeyMsg
		want MenuAction
	}{
		{tea.KeyMsg{Type: tea.KeyUp}, MenuActionUp},
		{runeKey("k"), MenuActionUp},
		{runeKey("j"), MenuActionDown},
		{tea.KeyMsg{Type: tea.KeyEnter}, MenuActionSelect},
		{tea.KeyMsg{Type: tea.KeyEsc}, MenuActionBack},
		{tea.KeyMsg{Type: tea.KeyTab}, MenuActionScoreboard},
		{runeKey("q"), MenuActionQuit},
		{runeKey("z"), MenuActionNone},
	}

	for _, tt := range tests {
		if got := km.MapKeyToMenuAction(tt.msg); got != tt.want {
			t.Errorf("MapKeyToMenuAction(%q) = %v, want %v", tt.msg.String(), got, tt.want)
		}
	}
}
