// Package merge implements the fruit merge game: pieces are dropped into a
// container, equal fruits that touch merge into the next larger fruit, and
// the game ends when the pile reaches the top line.
package merge

import (
	"math/rand"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/fruit-arcade/internal/config"
	"github.com/vovakirdan/fruit-arcade/internal/core"
	"github.com/vovakirdan/fruit-arcade/internal/physics"
	"github.com/vovakirdan/fruit-arcade/internal/registry"
)

// GameID is the registry identifier.
const GameID = "merge"

// Minimum playable screen.
const (
	minScreenW = 40
	minScreenH = 16
)

// configPath stores the custom config path set via CLI
var configPath string

// difficultyPreset stores the difficulty preset set via CLI
var difficultyPreset config.DifficultyPreset

// recorder receives events of every session when set
var recorder Recorder

var logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: GameID})

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset.
func SetDifficultyPreset(preset string) {
	difficultyPreset = config.ParsePreset(preset)
}

// GetDifficultyPreset returns the active preset, "" for the config's own.
func GetDifficultyPreset() config.DifficultyPreset {
	return difficultyPreset
}

// SetRecorder makes new sessions report their events to r. nil disables
// recording.
func SetRecorder(r Recorder) {
	recorder = r
}

// SetLogger replaces the package logger.
func SetLogger(l *log.Logger) {
	logger = l
}

func init() {
	registry.Register(GameID, func() registry.Game {
		return New()
	})
}

// Game adapts the Controller and the physics world to the arcade platform.
type Game struct {
	cfg        config.MergeConfig
	preset     config.DifficultyPreset // Overrides the package preset when set
	difficulty *config.DifficultyManager
	runtime    core.RuntimeConfig

	world  *physics.World
	sched  *core.Scheduler
	ctrl   *Controller
	sensor physics.BodyID

	tick     uint64
	dt       time.Duration
	held     map[Key]int // Ticks left before a direction counts as released
	paused   bool
	tooSmall bool
	err      error
}

// New creates a merge game. Call Reset before stepping it.
func New() *Game {
	return &Game{held: make(map[Key]int)}
}

// ID returns the game identifier.
func (g *Game) ID() string {
	return GameID
}

// Title returns the display name.
func (g *Game) Title() string {
	return "Fruit Merge"
}

// SetDifficulty makes this game's sessions use preset instead of the one
// set with SetDifficultyPreset. It takes effect on the next Reset.
func (g *Game) SetDifficulty(preset config.DifficultyPreset) {
	g.preset = preset
}

// Reset initializes or restarts the game.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime

	cfg, err := config.LoadMerge(configPath)
	if err != nil {
		logger.Warn("falling back to default config", "err", err)
		cfg = config.DefaultMergeConfig()
	}
	preset := difficultyPreset
	if g.preset != "" {
		preset = g.preset
	}
	if preset != "" {
		config.ApplyMergePreset(&cfg, preset)
	}

	g.err = g.start(cfg, runtime.Seed)
	if g.err != nil {
		logger.Error("session failed to start", "err", g.err)
	}
	g.tick = 0
	g.dt = runtime.TickDuration()
	g.held = make(map[Key]int)
	g.paused = false
	g.tooSmall = runtime.ScreenW < minScreenW || runtime.ScreenH < minScreenH
}

// Resize follows a terminal resize without restarting the session. The
// world keeps its size; only the layout changes.
func (g *Game) Resize(width, height int) {
	g.runtime.ScreenW = width
	g.runtime.ScreenH = height
	g.tooSmall = width < minScreenW || height < minScreenH
}

// start builds a fresh world and controller from cfg.
func (g *Game) start(cfg config.MergeConfig, seed int64) error {
	g.cfg = cfg
	g.difficulty = config.NewDifficultyManager(cfg.Difficulty)
	g.ctrl = nil

	ranks, err := RanksFromConfig(cfg.Ranks)
	if err != nil {
		return err
	}

	g.world = physics.NewWorld(physicsOptions(cfg.Physics))
	g.sched = core.NewScheduler()
	g.sensor, err = buildArena(g.world, cfg.Board)
	if err != nil {
		return err
	}

	g.ctrl = NewController(physicsWorld{g.world}, g.sched, Settings{
		Ranks:        ranks,
		Pool:         cfg.Spawn.Pool,
		SpawnPoint:   core.V(cfg.Spawn.X, cfg.Spawn.Y),
		InnerLeft:    cfg.Board.InnerLeft(),
		InnerRight:   cfg.Board.InnerRight(),
		MoveStep:     cfg.Controls.MoveStep,
		MoveInterval: cfg.Controls.MoveInterval(),
		Cooldown:     cfg.Controls.Cooldown(),
		Sensor:       BodyHandle(g.sensor),
	}, rand.New(rand.NewSource(seed)))
	g.ctrl.SetListener(ListenerFunc(g.onGameOver))
	if recorder != nil {
		if sr, ok := recorder.(SessionRecorder); ok {
			sr.BeginSession(seed)
		}
		g.ctrl.SetRecorder(recorder)
	}
	return g.ctrl.Start()
}

func (g *Game) onGameOver() {
	logger.Info("game over", "score", g.ctrl.Score(), "best", g.bestLabel(), "tick", g.tick)
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tick++

	if g.tooSmall || g.err != nil || g.ctrl.State().GameOver {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	if err := g.handleInput(in); err != nil {
		g.abort(err)
		return core.StepResult{State: g.State()}
	}

	g.world.SetGravity(g.difficulty.Gravity(g.cfg.Physics.Gravity, g.ctrl.Score(), int(g.tick)))

	if err := g.ctrl.Advance(g.dt); err != nil {
		g.abort(err)
		return core.StepResult{State: g.State()}
	}

	contacts := g.world.Step(g.dt.Seconds())
	if err := g.ctrl.HandleCollisions(toContacts(contacts)); err != nil {
		g.abort(err)
	}

	return core.StepResult{State: g.State()}
}

// handleInput turns per-tick actions into key presses and releases.
// Terminals report repeats instead of releases, so a direction stays held
// while its key keeps repeating within the hold window.
func (g *Game) handleInput(in core.InputFrame) error {
	if err := g.direction(in.Has(core.ActionLeft), KeyLeft, KeyRight); err != nil {
		return err
	}
	if err := g.direction(in.Has(core.ActionRight), KeyRight, KeyLeft); err != nil {
		return err
	}

	if in.Has(core.ActionDrop) {
		for _, k := range []Key{KeyLeft, KeyRight} {
			if g.held[k] > 0 {
				g.held[k] = 0
				if err := g.ctrl.KeyUp(k); err != nil {
					return err
				}
			}
		}
		if err := g.ctrl.KeyDown(KeyDrop); err != nil {
			return err
		}
		return g.ctrl.KeyUp(KeyDrop)
	}
	return nil
}

func (g *Game) direction(pressed bool, k, opposite Key) error {
	window := max(g.cfg.Controls.HoldTicks, 1)

	if pressed {
		if g.held[opposite] > 0 {
			g.held[opposite] = 0
			if err := g.ctrl.KeyUp(opposite); err != nil {
				return err
			}
		}
		// Repeated presses are no-ops while moving, and restart movement
		// for a piece spawned while the key was held.
		if err := g.ctrl.KeyDown(k); err != nil {
			return err
		}
		g.held[k] = window
		return nil
	}

	if g.held[k] > 0 {
		g.held[k]--
		if g.held[k] == 0 {
			return g.ctrl.KeyUp(k)
		}
	}
	return nil
}

// abort ends the session after a physics failure.
func (g *Game) abort(err error) {
	g.err = err
	logger.Error("session aborted", "err", err, "tick", g.tick, "score", g.ctrl.Score())
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	if g.ctrl == nil {
		return core.GameState{GameOver: g.err != nil}
	}
	return core.GameState{
		Score:    g.ctrl.Score(),
		GameOver: g.ctrl.State().GameOver || g.err != nil,
		Paused:   g.paused,
		Detail:   g.bestLabel(),
	}
}

// Err returns the failure that ended the session, if any.
func (g *Game) Err() error {
	return g.err
}

// Controller exposes the turn controller.
func (g *Game) Controller() *Controller {
	return g.ctrl
}

func (g *Game) bestLabel() string {
	if g.ctrl == nil || g.ctrl.BestRank() < 0 {
		return ""
	}
	return g.ctrl.Ranks().At(g.ctrl.BestRank()).Label
}
