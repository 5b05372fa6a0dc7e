package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/fruit-arcade/internal/config"
	"github.com/vovakirdan/fruit-arcade/internal/core"
	"github.com/vovakirdan/fruit-arcade/internal/games/merge"
	"github.com/vovakirdan/fruit-arcade/internal/platform/tui"
	"github.com/vovakirdan/fruit-arcade/internal/registry"
	"github.com/vovakirdan/fruit-arcade/internal/replay"
	"github.com/vovakirdan/fruit-arcade/internal/storage"
)

var (
	flagConfig     string
	flagDifficulty string
	flagRecord     string
	flagPlayer     string
)

var playCmd = &cobra.Command{
	Use:   "play <game>",
	Short: "Play a game",
	Long: `Start playing the specified game.

Controls:
  Left/A/H   - Move the held fruit left
  Right/D/L  - Move the held fruit right
  Space/Down - Drop
  P/Esc      - Pause
  R          - Restart (after game over)
  Q/Ctrl+C   - Quit

Difficulty options (the config's own settings when omitted):
  easy   - Slow gravity build-up, only the four smallest fruits spawn
  normal - Start at 30% difficulty, progresses to max
  hard   - Start at 70% difficulty, shorter drop cooldown
  fixed  - No progression, stays at config's initial level

Examples:
  arcade play merge
  arcade play merge --difficulty easy
  arcade play merge --config ./my-merge.yaml
  arcade play merge --record ~/.arcade/replays`,
	Args: cobra.ExactArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	playCmd.Flags().StringVar(&flagRecord, "record", "", "Directory to write a session journal to")
	playCmd.Flags().StringVar(&flagPlayer, "player", "", "Name stored with your scores")
}

func runPlay(cmd *cobra.Command, args []string) {
	gameID := args[0]

	// Check if game exists
	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown game %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'arcade list' to see available games.")
		os.Exit(1)
	}
	if flagDifficulty != "" && config.ParsePreset(flagDifficulty) == "" {
		fmt.Fprintf(os.Stderr, "Error: unknown difficulty %q\n", flagDifficulty)
		os.Exit(1)
	}

	cfg := runtimeConfig()
	prepareGame(gameID, config.ParsePreset(flagDifficulty))

	// Create game instance
	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	// Open score storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		// Continue without storage - game still works
		store = nil
	}

	restoreLog := logToFile()
	stopRecording, err := startRecording(flagRecord)
	if err != nil {
		restoreLog()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	runErr := tui.Run(game, store, cfg, flagPlayer)

	stopRecording()
	restoreLog()
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}

// runtimeConfig builds the runtime config from the terminal size and the
// global flags.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

// prepareGame applies the CLI settings to a game before it is created.
// An empty preset keeps the config's own difficulty.
func prepareGame(gameID string, preset config.DifficultyPreset) {
	switch gameID {
	case merge.GameID:
		merge.SetConfigPath(flagConfig)
		merge.SetDifficultyPreset(string(preset))
		logger.Debug("difficulty selected", "game", gameID, "preset", preset)
	}
}

// startRecording journals every merge session to a new file in dir until
// the returned func is called. An empty dir disables recording.
func startRecording(dir string) (func(), error) {
	if dir == "" {
		return func() {}, nil
	}

	w, path, err := replay.Create(dir, merge.GameID, time.Now())
	if err != nil {
		return nil, err
	}
	merge.SetRecorder(replay.NewRecorder(w, logger.WithPrefix("replay")))
	logger.Info("recording session", "path", path)

	return func() {
		merge.SetRecorder(nil)
		if err := w.Close(); err != nil {
			logger.Error("could not finish journal", "path", path, "err", err)
			return
		}
		fmt.Printf("Session recorded to %s\n", path)
	}, nil
}
