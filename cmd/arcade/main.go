// arcade is a terminal arcade for playing Fruit Merge.
//
// Usage:
//
//	arcade list              - List available games
//	arcade play <game>       - Play a game
//	arcade menu              - Start menu to pick games interactively
//	arcade serve             - Start SSH server for remote play
//	arcade scores <game>     - Show high scores for a game
//	arcade replay <file>     - Print a recorded session journal
//	arcade config dump       - Print the effective merge config
//
// Global flags:
//
//	--fps <rate>    - Set tick rate (default: 60)
//	--seed <value>  - Set RNG seed for reproducible gameplay
//	--db <path>     - Set database path (default: ~/.arcade/scores.db)
//	--verbose       - Log debug output
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/fruit-arcade/internal/games/merge"
)

var (
	// Global flags
	flagFPS     int
	flagSeed    int64
	flagDBPath  string
	flagVerbose bool
)

var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	Prefix:          "arcade",
})

// logToFile moves logging off the terminal while a full-screen program
// owns it. The returned func restores stderr.
func logToFile() func() {
	home, err := os.UserHomeDir()
	if err != nil {
		return func() {}
	}
	dir := filepath.Join(home, ".arcade")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return func() {}
	}
	f, err := os.OpenFile(filepath.Join(dir, "arcade.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return func() {}
	}
	logger.SetOutput(f)
	shareLogger()
	return func() {
		logger.SetOutput(os.Stderr)
		shareLogger()
		f.Close()
	}
}

// shareLogger hands derived loggers to packages that log on their own.
// Derived loggers copy the output, so this runs after every change.
func shareLogger() {
	merge.SetLogger(logger.WithPrefix(merge.GameID))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "arcade",
	Short: "Fruit Arcade - drop and merge fruits in your terminal",
	Long: `Fruit Arcade is a terminal game platform. Its game, Fruit Merge, drops
fruits into a container; two equal fruits that touch merge into the next
larger one. The game ends when the pile reaches the top line.

Available commands:
  list     - Show all available games
  play     - Play a specific game directly
  menu     - Fruit Merge title screen
  serve    - Start SSH server for remote play
  scores   - View high scores
  replay   - Print a recorded session
  config   - Dump or validate the game config

Examples:
  arcade list
  arcade play merge
  arcade play merge --difficulty hard --record ~/.arcade/replays
  arcade menu
  arcade serve --ssh :2222
  arcade scores merge`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if flagVerbose {
			logger.SetLevel(log.DebugLevel)
		}
		shareLogger()
	},
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.arcade/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Log debug output")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(configCmd)
}
