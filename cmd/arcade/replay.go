package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/fruit-arcade/internal/games/merge"
	"github.com/vovakirdan/fruit-arcade/internal/replay"
)

var (
	flagReplayJSON    bool
	flagReplaySummary bool
)

var replayCmd = &cobra.Command{
	Use:   "replay <file>",
	Short: "Print a recorded session journal",
	Long: `Print the events of a journal written with 'arcade play --record'.

Examples:
  arcade replay ~/.arcade/replays/merge-20250101-120000.jsonl.zst
  arcade replay session.jsonl.zst --summary
  arcade replay session.jsonl.zst --json | jq .`,
	Args: cobra.ExactArgs(1),
	Run:  runReplay,
}

func init() {
	replayCmd.Flags().BoolVar(&flagReplayJSON, "json", false, "Print entries as JSON lines")
	replayCmd.Flags().BoolVar(&flagReplaySummary, "summary", false, "Only print per-session totals")
}

// sessionSummary accumulates the totals of one recorded session.
type sessionSummary struct {
	seed    int64
	started time.Time
	counts  map[string]int
	score   int
	best    string
	bestRk  int
}

func runReplay(_ *cobra.Command, args []string) {
	f, err := os.Open(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	enc := json.NewEncoder(os.Stdout)
	var sessions []*sessionSummary
	current := func() *sessionSummary {
		if len(sessions) == 0 {
			sessions = append(sessions, &sessionSummary{counts: map[string]int{}, bestRk: -1})
		}
		return sessions[len(sessions)-1]
	}

	err = replay.Scan(f, func(e replay.Entry) error {
		if e.Kind == replay.KindSession {
			sessions = append(sessions, &sessionSummary{
				seed:    e.Seed,
				started: e.Started,
				counts:  map[string]int{},
				bestRk:  -1,
			})
		} else {
			s := current()
			s.counts[e.Kind]++
			s.score = max(s.score, e.Score)
			if e.Label != "" && e.Rank > s.bestRk {
				s.bestRk = e.Rank
				s.best = e.Label
			}
		}

		switch {
		case flagReplaySummary:
			return nil
		case flagReplayJSON:
			return enc.Encode(e)
		}
		printEntry(e)
		return nil
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if flagReplaySummary {
		for i, s := range sessions {
			printSummary(i+1, s)
		}
	}
}

func printEntry(e replay.Entry) {
	if e.Kind == replay.KindSession {
		fmt.Printf("== %s session seed=%d started %s\n", e.Game, e.Seed, e.Started.Local().Format("2006-01-02 15:04:05"))
		return
	}
	at := time.Duration(e.AtMS) * time.Millisecond
	fmt.Printf("%9s  %-10s  %-10s  (%6.1f, %6.1f)  score %d\n", at, e.Kind, e.Label, e.X, e.Y, e.Score)
}

func printSummary(n int, s *sessionSummary) {
	fmt.Printf("Session %d", n)
	if !s.started.IsZero() {
		fmt.Printf(" (seed %d, %s)", s.seed, s.started.Local().Format("2006-01-02 15:04"))
	}
	fmt.Println()
	fmt.Printf("  drops %d  merges %d  annihilations %d  score %d",
		s.counts[string(merge.EventDrop)], s.counts[string(merge.EventMerge)], s.counts[string(merge.EventAnnihilate)], s.score)
	if s.best != "" {
		fmt.Printf("  best %s", s.best)
	}
	if s.counts[string(merge.EventGameOver)] > 0 {
		fmt.Print("  game over")
	}
	fmt.Println()
}
