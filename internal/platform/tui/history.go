package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/chainfall/internal/config"
	"github.com/vovakirdan/chainfall/internal/storage"
)

// History layout constants
const (
	minWidthForSidebar = 96  // Minimum width to show the view list sidebar
	sidebarWidth       = 22  // Width of view list sidebar
	maxSessions        = 100 // Max sessions to load
)

// HistoryKeyMap defines the key bindings for the history screen.
type HistoryKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextView key.Binding
	PrevView key.Binding
	Back     key.Binding
	Quit     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k HistoryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextView, k.PrevView, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k HistoryKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextView, k.PrevView},
		{k.Back, k.Quit},
	}
}

// DefaultHistoryKeyMap returns default key bindings.
func DefaultHistoryKeyMap() HistoryKeyMap {
	return HistoryKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextView: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next view"),
		),
		PrevView: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev view"),
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

// historyView selects which sessions the table lists.
type historyView int

const (
	viewMine historyView = iota
	viewRecent
	viewBest
)

var historyViews = []historyView{viewMine, viewRecent, viewBest}

func (v historyView) title() string {
	switch v {
	case viewMine:
		return "My games"
	case viewRecent:
		return "Recent games"
	default:
		return "Longest chains"
	}
}

// HistoryModel is the Bubble Tea model for the session history screen.
type HistoryModel struct {
	session     Session
	view        int // index into historyViews
	records     []storage.SessionRecord
	summary     *storage.Summary
	table       table.Model
	help        help.Model
	keys        HistoryKeyMap
	width       int
	height      int
	quitting    bool
	goingBack   bool
	showSidebar bool
	showPlayer  bool
}

// NewHistoryModel creates a new history model.
func NewHistoryModel(session Session, width, height int) HistoryModel {
	h := help.New()
	h.ShowAll = false

	m := HistoryModel{
		session:     session,
		keys:        DefaultHistoryKeyMap(),
		help:        h,
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}

	m.table = m.createTable()
	m.load()

	return m
}

// createTable creates a new table with appropriate columns.
func (m *HistoryModel) createTable() table.Model {
	// Narrow terminals drop the player column
	tableWidth := m.width - 4
	if m.showSidebar {
		tableWidth -= sidebarWidth + 3
	}
	m.showPlayer = tableWidth >= 80

	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Date", Width: 12},
	}
	if m.showPlayer {
		columns = append(columns, table.Column{Title: "Player", Width: 10})
	}
	columns = append(columns,
		table.Column{Title: "Speed", Width: 8},
		table.Column{Title: "Chain", Width: 5},
		table.Column{Title: "Cleared", Width: 7},
		table.Column{Title: "Pairs", Width: 5},
		table.Column{Title: "Time", Width: 6},
		table.Column{Title: "End", Width: 9},
	)

	height := m.height - 8 // Leave room for header, help, and margins
	if height < 3 {
		height = 3
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(height),
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

// load fetches the sessions of the current view.
func (m *HistoryModel) load() {
	m.records = nil
	m.summary = nil
	if m.session.Store == nil {
		m.updateTableRows()
		return
	}

	var err error
	switch historyViews[m.view] {
	case viewMine:
		m.records, err = m.session.Store.PlayerSessions(m.session.Player, maxSessions)
	case viewRecent:
		m.records, err = m.session.Store.RecentSessions(maxSessions)
	case viewBest:
		m.records, err = m.session.Store.BestSessions(maxSessions)
	}
	if err != nil {
		m.session.logger().Warn("cannot load history", "error", err)
		m.records = nil
	}

	if sum, err := m.session.Store.Summary(m.session.Player); err == nil {
		m.summary = sum
	}
	m.updateTableRows()
}

// updateTableRows updates the table with the loaded sessions.
func (m *HistoryModel) updateTableRows() {
	rows := make([]table.Row, len(m.records))
	for i, r := range m.records {
		rows[i] = historyRow(i+1, r, m.showPlayer)
	}
	m.table.SetRows(rows)

	// Reset cursor to top
	m.table.GotoTop()
}

func historyRow(n int, r storage.SessionRecord, withPlayer bool) table.Row {
	row := table.Row{
		fmt.Sprintf("%d", n),
		r.CreatedAt.Local().Format("Jan 02 15:04"),
	}
	if withPlayer {
		player := r.Player
		if player == "" {
			player = "-"
		}
		row = append(row, player)
	}
	secs := int(r.Duration.Seconds())
	return append(row,
		config.SpeedName(r.Speed),
		fmt.Sprintf("%d", r.LongestChain),
		fmt.Sprintf("%d", r.CellsCleared),
		fmt.Sprintf("%d", r.Pairs),
		fmt.Sprintf("%d:%02d", secs/60, secs%60),
		strings.ReplaceAll(r.EndReason, "_", " "),
	)
}

// Init initializes the history model.
func (m HistoryModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the history screen.
func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextView):
			m.view = (m.view + 1) % len(historyViews)
			m.load()
			return m, nil

		case key.Matches(msg, m.keys.PrevView):
			m.view = (m.view + len(historyViews) - 1) % len(historyViews)
			m.load()
			return m, nil

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			// Pass to table for scrolling
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the history screen.
func (m HistoryModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)

	title := fmt.Sprintf("HISTORY - %s", historyViews[m.view].title())
	b.WriteString(titleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	if m.showSidebar {
		b.WriteString(m.renderWideLayout())
	} else {
		b.WriteString(m.renderNarrowLayout())
	}

	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderWideLayout renders the view list and summary beside the table.
func (m HistoryModel) renderWideLayout() string {
	sidebarStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(sidebarWidth).
		Padding(0, 1)

	var sidebar strings.Builder
	sidebar.WriteString("Views\n")
	sidebar.WriteString(strings.Repeat("-", sidebarWidth-4))
	sidebar.WriteString("\n")

	for i, v := range historyViews {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.view {
			cursor = "> "
			style = style.Bold(true).Foreground(lipgloss.Color("229"))
		}
		sidebar.WriteString(style.Render(cursor + v.title()))
		sidebar.WriteString("\n")
	}

	if m.summary != nil && m.summary.Sessions > 0 {
		sidebar.WriteString("\n")
		sidebar.WriteString(fmt.Sprintf("Games  %d\n", m.summary.Sessions))
		sidebar.WriteString(fmt.Sprintf("Best   %d\n", m.summary.LongestChain))
		sidebar.WriteString(fmt.Sprintf("Cells  %d\n", m.summary.TotalCleared))
	}

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	return lipgloss.JoinHorizontal(lipgloss.Top,
		sidebarStyle.Render(sidebar.String()),
		"  ",
		tableStyle.Render(m.renderTableContent()),
	)
}

// renderNarrowLayout renders view tabs above the table.
func (m HistoryModel) renderNarrowLayout() string {
	var b strings.Builder

	tabStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	activeTabStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Padding(0, 1)

	tabs := make([]string, len(historyViews))
	for i, v := range historyViews {
		if i == m.view {
			tabs[i] = activeTabStyle.Render(v.title())
		} else {
			tabs[i] = tabStyle.Render(" " + v.title() + " ")
		}
	}

	tabLine := strings.Join(tabs, " ")
	if lipgloss.Width(tabLine) > m.width-4 {
		tabLine = fmt.Sprintf("< %s >", historyViews[m.view].title())
	}
	b.WriteString(centerText(tabLine, m.width))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	b.WriteString(tableStyle.Render(m.renderTableContent()))

	return b.String()
}

// renderTableContent renders the table or empty message.
func (m HistoryModel) renderTableContent() string {
	if len(m.records) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		return emptyStyle.Render("No games recorded yet.\nFinish a game to see it here!")
	}

	return m.table.View()
}

// IsGoingBack returns true if user wants to go back to menu.
func (m HistoryModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m HistoryModel) IsQuitting() bool {
	return m.quitting
}

// RunHistory runs the history screen.
// Returns true if user wants to go back to menu, false if quitting.
func RunHistory(session Session, width, height int) (goBack bool, err error) {
	p := tea.NewProgram(
		NewHistoryModel(session, width, height),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(HistoryModel)
	if !ok {
		return false, nil
	}

	return m.IsGoingBack(), nil
}
