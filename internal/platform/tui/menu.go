package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/fruit-arcade/internal/config"
	"github.com/vovakirdan/fruit-arcade/internal/core"
	"github.com/vovakirdan/fruit-arcade/internal/games/merge"
	"github.com/vovakirdan/fruit-arcade/internal/registry"
	"github.com/vovakirdan/fruit-arcade/internal/storage"
)

// Preset is one difficulty choice on the title screen.
type Preset struct {
	Preset config.DifficultyPreset
	Title  string
}

// Presets lists the difficulty choices in menu order.
var Presets = []Preset{
	{config.DifficultyNormal, "Normal"},
	{config.DifficultyEasy, "Easy"},
	{config.DifficultyHard, "Hard"},
	{config.DifficultyFixed, "Fixed (no speed-up)"},
}

// record is the stored best of the merge game.
type record struct {
	games int
	best  int
	fruit string
}

func loadRecord(store *storage.Store) record {
	if store == nil {
		return record{}
	}
	stats, err := store.GetGameStats(merge.GameID)
	if err != nil {
		return record{}
	}
	return record{games: stats.GamesCount, best: stats.HighScore, fruit: stats.TopDetail}
}

// MenuModel is the Fruit Merge title screen: pick a difficulty and play,
// or open the scoreboard.
type MenuModel struct {
	cursor         int
	width          int
	height         int
	record         record
	config         core.RuntimeConfig
	keyMapper      *KeyMapper
	quitting       bool
	chosen         bool
	openScoreboard bool
}

// NewMenuModel creates the title screen with the cursor on initial.
// An empty or unknown initial selects the first preset.
func NewMenuModel(store *storage.Store, cfg core.RuntimeConfig, initial config.DifficultyPreset) MenuModel {
	m := MenuModel{
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
		record:    loadRecord(store),
		config:    cfg,
		keyMapper: NewKeyMapper(),
	}
	for i, p := range Presets {
		if p.Preset == initial {
			m.cursor = i
		}
	}
	return m
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
	}
	return m, nil
}

func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit, MenuActionBack:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		m.cursor = (m.cursor + len(Presets) - 1) % len(Presets)

	case MenuActionDown:
		m.cursor = (m.cursor + 1) % len(Presets)

	case MenuActionSelect:
		m.chosen = true
		return m, tea.Quit

	case MenuActionScoreboard:
		m.openScoreboard = true
		return m, tea.Quit
	}
	return m, nil
}

var (
	menuTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	menuCursor     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("218"))
	menuDim        = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// View renders the title screen.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerStyled(menuTitleStyle.Render("F R U I T   M E R G E"), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(m.recordLine(), m.width))
	b.WriteString("\n\n")

	for i, p := range Presets {
		line := "  " + p.Title
		if i == m.cursor {
			line = menuCursor.Render("> " + p.Title)
		}
		b.WriteString(centerStyled(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerStyled(menuDim.Render(presetSummary(Presets[m.cursor].Preset)), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Up/Down: Difficulty  |  Enter: Play  |  Tab: Scores  |  Q: Quit", m.width))
	b.WriteString("\n")
	return b.String()
}

func (m MenuModel) recordLine() string {
	if m.record.games == 0 {
		return "No games played yet"
	}
	line := fmt.Sprintf("Best %d", m.record.best)
	if m.record.fruit != "" {
		line += fmt.Sprintf(" (%s)", m.record.fruit)
	}
	return fmt.Sprintf("%s  |  %d games", line, m.record.games)
}

// presetSummary describes what a preset changes on the default config.
func presetSummary(preset config.DifficultyPreset) string {
	cfg := config.DefaultMergeConfig()
	config.ApplyMergePreset(&cfg, preset)

	speedUp := "off"
	if cfg.Difficulty.Enabled {
		speedUp = fmt.Sprintf("from %.0f%%", cfg.Difficulty.InitialLevel*100)
	}
	return fmt.Sprintf("Pool: %d fruits  Cooldown: %dms  Speed-up: %s",
		cfg.Spawn.Pool, cfg.Controls.CooldownMS, speedUp)
}

// Preset returns the highlighted difficulty.
func (m MenuModel) Preset() config.DifficultyPreset {
	return Presets[m.cursor].Preset
}

// Chosen reports whether the user asked to play.
func (m MenuModel) Chosen() bool {
	return m.chosen
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsScoreboard returns true if user requested scoreboard.
func (m MenuModel) WantsScoreboard() bool {
	return m.openScoreboard
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	if len(text) >= width {
		return text
	}
	padding := (width - len(text)) / 2
	return strings.Repeat(" ", padding) + text
}

// centerStyled centers text that carries ANSI styling.
func centerStyled(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}

// difficultySetter is implemented by games that take a per-session preset.
type difficultySetter interface {
	SetDifficulty(preset config.DifficultyPreset)
}

// NewMergeGame creates a merge game using preset for its sessions.
func NewMergeGame(preset config.DifficultyPreset) (registry.Game, error) {
	game, err := registry.Create(merge.GameID)
	if err != nil {
		return nil, err
	}
	if ds, ok := game.(difficultySetter); ok && preset != "" {
		ds.SetDifficulty(preset)
	}
	return game, nil
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	Preset          config.DifficultyPreset // Set when the user chose to play
	Config          core.RuntimeConfig
	WantsScoreboard bool
	Quit            bool
}

// RunMenu runs the title screen and returns the user's choice.
func RunMenu(store *storage.Store, cfg core.RuntimeConfig, initial config.DifficultyPreset) (MenuResult, error) {
	p := tea.NewProgram(
		NewMenuModel(store, cfg, initial),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Config: cfg}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Config: cfg, Quit: true}, nil
	}

	result := MenuResult{Config: m.Config()}
	switch {
	case m.WantsScoreboard():
		result.WantsScoreboard = true
	case m.Chosen():
		result.Preset = m.Preset()
	default:
		result.Quit = true
	}
	return result, nil
}
