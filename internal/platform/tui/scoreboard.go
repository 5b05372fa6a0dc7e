package tui

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/fruit-arcade/internal/config"
	"github.com/vovakirdan/fruit-arcade/internal/games/merge"
	"github.com/vovakirdan/fruit-arcade/internal/storage"
)

const maxScores = 100

// scoreView selects what the scoreboard lists.
type scoreView int

const (
	viewTop    scoreView = iota // Highest scores first
	viewFruit                   // Biggest fruit reached first, then score
	viewPlayer                  // One player's games
)

var viewTitles = map[scoreView]string{
	viewTop:    "Top scores",
	viewFruit:  "Biggest fruit",
	viewPlayer: "Player",
}

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Switch key.Binding
	Player key.Binding
	Back   key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Switch, k.Player, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Switch, k.Player},
		{k.Back, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Switch: key.NewBinding(
			key.WithKeys("tab", "shift+tab", "left", "right", "h", "l"),
			key.WithHelp("tab", "scores/fruit"),
		),
		Player: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "player's games"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// fruitOrder maps fruit labels to their rank, smallest first.
func fruitOrder() map[string]int {
	ranks := config.DefaultMergeConfig().Ranks
	order := make(map[string]int, len(ranks))
	for i, r := range ranks {
		order[r.Label] = i
	}
	return order
}

// byFruit orders entries by the biggest fruit reached, then by score.
// Unknown fruits sort last.
func byFruit(entries []storage.ScoreEntry, order map[string]int) []storage.ScoreEntry {
	rank := func(label string) int {
		if r, ok := order[label]; ok {
			return r
		}
		return -1
	}
	out := slices.Clone(entries)
	slices.SortStableFunc(out, func(a, b storage.ScoreEntry) int {
		if c := cmp.Compare(rank(b.Detail), rank(a.Detail)); c != 0 {
			return c
		}
		return cmp.Compare(b.Score, a.Score)
	})
	return out
}

// ScoreboardModel is the Bubble Tea model for the Fruit Merge scoreboard.
type ScoreboardModel struct {
	store     *storage.Store
	order     map[string]int
	stats     *storage.GameStats
	top       []storage.ScoreEntry // Highest scores, as stored
	view      scoreView
	lastView  scoreView // View to return to from a player's games
	player    string
	rows      []storage.ScoreEntry // Entries behind the table rows
	table     table.Model
	help      help.Model
	keys      ScoreboardKeyMap
	width     int
	height    int
	quitting  bool
	goingBack bool // True if user pressed back (not quit)
}

// NewScoreboardModel creates a new scoreboard model.
func NewScoreboardModel(store *storage.Store, width, height int) ScoreboardModel {
	h := help.New()
	h.Width = width

	m := ScoreboardModel{
		store:  store,
		order:  fruitOrder(),
		keys:   DefaultScoreboardKeyMap(),
		help:   h,
		width:  width,
		height: height,
	}
	m.table = m.createTable()

	if store != nil {
		if stats, err := store.GetGameStats(merge.GameID); err == nil {
			m.stats = stats
		}
		if top, err := store.TopScores(merge.GameID, maxScores); err == nil {
			m.top = top
		}
	}
	m.show(viewTop)
	return m
}

func (m *ScoreboardModel) createTable() table.Model {
	playerW := 10
	if m.width > 70 {
		playerW = min(m.width-52, 20)
	}
	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Score", Width: 7},
		{Title: "Player", Width: playerW},
		{Title: "Fruit", Width: 11},
		{Title: "Date", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-9, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
	return t
}

// show switches the listing and refills the table.
func (m *ScoreboardModel) show(v scoreView) {
	m.view = v
	switch v {
	case viewTop:
		m.rows = m.top
	case viewFruit:
		m.rows = byFruit(m.top, m.order)
	case viewPlayer:
		m.rows = m.playerScores(m.player)
	}

	rows := make([]table.Row, len(m.rows))
	for i, s := range m.rows {
		rows[i] = table.Row{
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%d", s.Score),
			s.Player,
			s.Detail,
			s.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// playerScores returns the player's merge games, best first.
func (m *ScoreboardModel) playerScores(player string) []storage.ScoreEntry {
	if m.store == nil {
		return nil
	}
	all, err := m.store.PlayerScores(player, maxScores)
	if err != nil {
		return nil
	}
	return slices.DeleteFunc(all, func(e storage.ScoreEntry) bool {
		return e.GameID != merge.GameID
	})
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			if m.view == viewPlayer {
				m.show(m.lastView)
				return m, nil
			}
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Switch):
			switch m.view {
			case viewTop:
				m.show(viewFruit)
			case viewFruit:
				m.show(viewTop)
			}
			return m, nil

		case key.Matches(msg, m.keys.Player):
			if m.view != viewPlayer && len(m.rows) > 0 {
				m.lastView = m.view
				m.player = m.rows[m.table.Cursor()].Player
				m.show(viewPlayer)
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.table = m.createTable()
		m.show(m.view)
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

var (
	sbTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	sbTabStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1)
	sbActiveStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")).Padding(0, 1)
	sbBoxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	sbDimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder
	b.WriteString(centerStyled(sbTitleStyle.Render("FRUIT MERGE - HIGH SCORES"), m.width))
	b.WriteString("\n")
	b.WriteString(centerStyled(sbDimStyle.Render(m.statsLine()), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerStyled(m.tabs(), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerStyled(sbBoxStyle.Render(m.body()), m.width))
	b.WriteString("\n")
	b.WriteString(sbDimStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m ScoreboardModel) statsLine() string {
	if m.stats == nil || m.stats.GamesCount == 0 {
		return "No games played yet"
	}
	return fmt.Sprintf("%d games  |  best %d (%s)  |  average %.0f",
		m.stats.GamesCount, m.stats.HighScore, m.stats.TopDetail, m.stats.AvgScore)
}

func (m ScoreboardModel) tabs() string {
	if m.view == viewPlayer {
		return sbActiveStyle.Render(fmt.Sprintf("%s: %s", viewTitles[viewPlayer], m.player))
	}
	var parts []string
	for _, v := range []scoreView{viewTop, viewFruit} {
		style := sbTabStyle
		if v == m.view {
			style = sbActiveStyle
		}
		parts = append(parts, style.Render(viewTitles[v]))
	}
	return strings.Join(parts, " ")
}

func (m ScoreboardModel) body() string {
	if len(m.rows) == 0 {
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4).
			Render("No scores recorded yet.\nDrop some fruit to set a high score!")
	}
	return m.table.View()
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard runs the scoreboard screen.
// Returns true if user wants to go back to menu, false if quitting.
func RunScoreboard(store *storage.Store, width, height int) (goBack bool, err error) {
	p := tea.NewProgram(
		NewScoreboardModel(store, width, height),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(ScoreboardModel)
	if !ok {
		return false, nil
	}
	return m.IsGoingBack(), nil
}
