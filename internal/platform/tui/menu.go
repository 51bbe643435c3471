package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/chainfall/internal/config"
	"github.com/vovakirdan/chainfall/internal/core"
)

// MenuChoice is what the player picked on the start menu.
type MenuChoice int

const (
	ChoiceNone MenuChoice = iota
	ChoicePlay
	ChoiceHistory
	ChoiceQuit
)

type menuItem struct {
	label  string
	choice MenuChoice
}

// menuItems lists the start menu entries. The speed row has no choice;
// left and right change it in place.
var menuItems = []menuItem{
	{label: "Play", choice: ChoicePlay},
	{label: "Speed"},
	{label: "History", choice: ChoiceHistory},
	{label: "Quit", choice: ChoiceQuit},
}

const speedRow = 1

// MenuModel is the Bubble Tea model for the start menu.
type MenuModel struct {
	session Session
	config  core.RuntimeConfig
	speed   int
	cursor  int
	width   int
	height  int
	keys    MenuKeyMap
	help    help.Model
	summary string
	choice  MenuChoice
}

// NewMenuModel creates a new menu model. cfg.Speed selects the initial
// speed; a negative value picks the configured default.
func NewMenuModel(session Session, cfg core.RuntimeConfig) MenuModel {
	speed := cfg.Speed
	if speed < 0 {
		speed = config.DefaultChainfallConfig().Rules.DefaultSpeed
	}
	speed = core.Clamp(speed, 0, len(config.SpeedNames())-1)

	return MenuModel{
		session: session,
		config:  cfg,
		speed:   speed,
		width:   cfg.ScreenW,
		height:  cfg.ScreenH,
		keys:    DefaultMenuKeyMap(),
		help:    help.New(),
		summary: historySummary(session),
	}
}

// historySummary describes the player's record for the menu header.
func historySummary(session Session) string {
	if session.Store == nil {
		return ""
	}
	sum, err := session.Store.Summary(session.Player)
	if err != nil {
		session.logger().Warn("cannot load history summary", "error", err)
		return ""
	}
	if sum.Sessions == 0 {
		return "No games played yet"
	}
	return fmt.Sprintf("%d games  |  best chain %d  |  %d cells cleared",
		sum.Sessions, sum.LongestChain, sum.TotalCleared)
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
		m.help.Width = msg.Width
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch MapKeyToMenuAction(m.keys, msg) {
	case MenuActionQuit, MenuActionBack:
		m.choice = ChoiceQuit
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(menuItems)-1 {
			m.cursor++
		}

	case MenuActionLeft:
		if m.cursor == speedRow && m.speed > 0 {
			m.speed--
		}

	case MenuActionRight:
		if m.cursor == speedRow && m.speed < len(config.SpeedNames())-1 {
			m.speed++
		}

	case MenuActionHistory:
		m.choice = ChoiceHistory
		return m, tea.Quit

	case MenuActionSelect:
		if c := menuItems[m.cursor].choice; c != ChoiceNone {
			m.choice = c
			return m, tea.Quit
		}
	}

	return m, nil
}

var (
	menuTitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	menuSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	menuDimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// View renders the menu.
func (m MenuModel) View() string {
	if m.choice == ChoiceQuit {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(menuTitleStyle.Render("C H A I N F A L L"), m.width))
	b.WriteString("\n\n")
	if m.summary != "" {
		b.WriteString(centerText(menuDimStyle.Render(m.summary), m.width))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for i, item := range menuItems {
		label := item.label
		if i == speedRow {
			label = fmt.Sprintf("Speed  < %s >", config.SpeedName(m.speed))
		}
		if i == m.cursor {
			b.WriteString(centerText(menuSelectedStyle.Render("> "+label), m.width))
		} else {
			b.WriteString(centerText("  "+label, m.width))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(menuDimStyle.Render(m.help.View(m.keys)), m.width))
	b.WriteString("\n")

	return b.String()
}

// Choice returns what the player picked, or ChoiceNone.
func (m MenuModel) Choice() MenuChoice {
	return m.choice
}

// Config returns the runtime config with the chosen speed and the latest size.
func (m MenuModel) Config() core.RuntimeConfig {
	cfg := m.config
	cfg.Speed = m.speed
	return cfg
}

// centerText centers text within given width. Escape sequences take no width.
func centerText(text string, width int) string {
	n := lipgloss.Width(text)
	if n >= width {
		return text
	}
	return strings.Repeat(" ", (width-n)/2) + text
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	Choice MenuChoice
	Config core.RuntimeConfig
}

// RunMenu runs the start menu and returns the selection.
func RunMenu(session Session, cfg core.RuntimeConfig) (MenuResult, error) {
	p := tea.NewProgram(
		NewMenuModel(session, cfg),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Config: cfg}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok || m.Choice() == ChoiceNone {
		return MenuResult{Choice: ChoiceQuit, Config: cfg}, nil
	}
	return MenuResult{Choice: m.Choice(), Config: m.Config()}, nil
}
