package merge

import (
	"testing"

	"github.com/vovakirdan/fruit-arcade/internal/config"
	"github.com/vovakirdan/fruit-arcade/internal/core"
)

func TestRankTableFromDefaults(t *testing.T) {
	ranks, err := RanksFromConfig(config.DefaultMergeConfig().Ranks)
	if err != nil {
		t.Fatalf("RanksFromConfig: %v", err)
	}
	if ranks.Len() != 11 {
		t.Fatalf("len = %d, want 11", ranks.Len())
	}
	if got := ranks.At(0).Label; got != "cherry" {
		t.Errorf("first rank = %q, want cherry", got)
	}
	if got := ranks.At(ranks.Top()).Label; got != "watermelon" {
		t.Errorf("top rank = %q, want watermelon", got)
	}
	if i, ok := ranks.Index("grape"); !ok || i != 2 {
		t.Errorf("Index(grape) = %d, %v", i, ok)
	}
	if ranks.At(0).Color == core.ColorDefault {
		t.Error("cherry should have a palette colour")
	}
}

func TestRankTableNext(t *testing.T) {
	ranks := toyRanks(t)

	tests := []struct {
		rank   int
		want   int
		wantOK bool
	}{
		{0, 1, true},
		{1, 2, true},
		{2, 0, false},
		{-1, 0, false},
	}
	for _, tt := range tests {
		got, ok := ranks.Next(tt.rank)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("Next(%d) = %d, %v; want %d, %v", tt.rank, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestRankTableRejects(t *testing.T) {
	tests := []struct {
		name  string
		ranks []Rank
	}{
		{"empty", nil},
		{"no label", []Rank{{Radius: 10}}},
		{"zero radius", []Rank{{Label: "a"}}},
		{"duplicate", []Rank{{Label: "a", Radius: 10}, {Label: "a", Radius: 20}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewRankTable(tt.ranks); err == nil {
				t.Error("expected error")
			}
		})
	}
}
