package merge

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/fruit-arcade/internal/config"
	"github.com/vovakirdan/fruit-arcade/internal/core"
)

// Rank is one step of the fruit progression.
type Rank struct {
	Label  string
	Radius float64
	Color  core.Color
	Points int // Awarded when a merge produces this rank
}

// RankTable is the ordered, immutable progression. Two pieces of rank i
// merge into rank i+1; the topmost rank has no successor.
type RankTable struct {
	ranks []Rank
	index map[string]int
}

// NewRankTable validates and copies the given ranks.
func NewRankTable(ranks []Rank) (*RankTable, error) {
	if len(ranks) == 0 {
		return nil, errors.New("merge: rank table is empty")
	}
	t := &RankTable{
		ranks: make([]Rank, len(ranks)),
		index: make(map[string]int, len(ranks)),
	}
	for i, r := range ranks {
		if r.Label == "" {
			return nil, fmt.Errorf("merge: rank %d has no label", i)
		}
		if r.Radius <= 0 {
			return nil, fmt.Errorf("merge: rank %q has radius %v", r.Label, r.Radius)
		}
		if _, dup := t.index[r.Label]; dup {
			return nil, fmt.Errorf("merge: duplicate rank label %q", r.Label)
		}
		t.ranks[i] = r
		t.index[r.Label] = i
	}
	return t, nil
}

// RanksFromConfig builds a table from the config's rank list.
func RanksFromConfig(cfg []config.RankConfig) (*RankTable, error) {
	ranks := make([]Rank, len(cfg))
	for i, rc := range cfg {
		c, ok := core.ParseColor(rc.Color)
		if !ok {
			c = core.ColorDefault
		}
		ranks[i] = Rank{Label: rc.Label, Radius: rc.Radius, Color: c, Points: rc.Points}
	}
	return NewRankTable(ranks)
}

// Len returns the number of ranks.
func (t *RankTable) Len() int {
	return len(t.ranks)
}

// At returns rank i. It panics when i is out of range.
func (t *RankTable) At(i int) Rank {
	return t.ranks[i]
}

// Index finds a rank by label.
func (t *RankTable) Index(label string) (int, bool) {
	i, ok := t.index[label]
	return i, ok
}

// Top returns the index of the highest rank.
func (t *RankTable) Top() int {
	return len(t.ranks) - 1
}

// Next returns the rank two pieces of rank i merge into, or false at the top.
func (t *RankTable) Next(i int) (int, bool) {
	if i < 0 || i >= t.Top() {
		return 0, false
	}
	return i + 1, true
}
