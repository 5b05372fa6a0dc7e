package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/fruit-arcade/internal/registry"
	"github.com/vovakirdan/fruit-arcade/internal/storage"
)

var flagScoresLimit int

var scoresCmd = &cobra.Command{
	Use:   "scores <game>",
	Short: "Show high scores for a game",
	Long: `Display the top high scores for the specified game, with the
player and the largest fruit reached in each game.

Examples:
  arcade scores merge
  arcade scores merge --limit 25`,
	Args: cobra.ExactArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of scores to show")
}

func runScores(cmd *cobra.Command, args []string) {
	gameID := args[0]

	// Check if game exists
	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown game %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'arcade list' to see available games.")
		os.Exit(1)
	}

	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}
	title := game.Title()

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	scores, err := store.TopScores(gameID, flagScoresLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		return
	}

	fmt.Printf("High Scores - %s\n", title)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'arcade play %s' to set the first high score!\n", gameID)
		return
	}

	fmt.Printf("  %-4s  %-8s  %-12s  %-10s  %s\n", "Rank", "Score", "Player", "Best", "Date")
	fmt.Printf("  %-4s  %-8s  %-12s  %-10s  %s\n", "----", "-----", "------", "----", "----")

	for i, entry := range scores {
		dateStr := entry.CreatedAt.Format("2006-01-02 15:04")
		fmt.Printf("  %-4d  %-8d  %-12s  %-10s  %s\n", i+1, entry.Score, entry.Player, entry.Detail, dateStr)
	}

	stats, err := store.GetGameStats(gameID)
	if err != nil {
		logger.Warn("could not load stats", "game", gameID, "err", err)
		return
	}
	fmt.Println()
	fmt.Printf("Games: %d  Best: %d", stats.GamesCount, stats.HighScore)
	if stats.TopDetail != "" {
		fmt.Printf(" (%s)", stats.TopDetail)
	}
	fmt.Printf("  Average: %.0f\n", stats.AvgScore)
}
