package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/fruit-arcade/internal/config"
	"github.com/vovakirdan/fruit-arcade/internal/games/merge"
	"github.com/vovakirdan/fruit-arcade/internal/platform/tui"
	"github.com/vovakirdan/fruit-arcade/internal/storage"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start Fruit Merge from its title screen",
	Long: `Start Fruit Merge from the title screen.

Pick a difficulty with the arrow keys or j/k and press Enter to play.
After a game ends, you return to the title screen to play again.

Controls:
  Up/Down/j/k  - Choose difficulty
  Enter/Space  - Play
  Tab          - High scores
  Q/Esc        - Quit

Examples:
  arcade menu
  arcade menu --fps 30
  arcade menu --db ./scores.db`,
	Run: runMenu,
}

func init() {
	// Uses global flags from main.go (--fps, --seed, --db)
	menuCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	menuCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	menuCmd.Flags().StringVar(&flagRecord, "record", "", "Directory to write session journals to")
	menuCmd.Flags().StringVar(&flagPlayer, "player", "", "Name stored with your scores")
}

func runMenu(_ *cobra.Command, _ []string) {
	// Open score storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		store = nil
	}

	restoreLog := logToFile()
	defer restoreLog()

	cfg := runtimeConfig()

	preset := config.ParsePreset(flagDifficulty)
	merge.SetConfigPath(flagConfig)

	for {
		menuResult, err := tui.RunMenu(store, cfg, preset)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			break
		}

		// Update config with any size changes
		cfg = menuResult.Config

		if menuResult.Quit {
			break
		}

		if menuResult.WantsScoreboard {
			goBack, sbErr := tui.RunScoreboard(store, cfg.ScreenW, cfg.ScreenH)
			if sbErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", sbErr)
			}
			if goBack {
				continue // Back to menu
			}
			break // User quit from scoreboard
		}

		// The next visit starts on the last choice
		preset = menuResult.Preset
		logger.Debug("difficulty selected", "preset", preset)

		game, err := tui.NewMergeGame(preset)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
			continue
		}

		// Update seed for each game
		cfg.Seed = time.Now().UnixNano()

		stopRecording, err := startRecording(flagRecord)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			continue
		}
		if err := tui.Run(game, store, cfg, flagPlayer); err != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		}
		stopRecording()
	}

	// Cleanup
	if store != nil {
		store.Close()
	}
}
