package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"amarhadis/internal/tui/api"
	"amarhadis/internal/tui/config"
	"amarhadis/internal/tui/styles"
	"amarhadis/internal/tui/views"
)

// View represents different screens in the reader
type View int

const (
	ViewAuth View = iota
	ViewToday
	ViewAchievements
	ViewStats
)

// Model is the root Bubble Tea model
type Model struct {
	config    *config.Config
	apiClient *api.Client

	currentView View

	keys KeyMap

	width  int
	height int

	isAuthenticated bool
	currentUser     string

	authModel         views.AuthModel
	todayModel        views.TodayModel
	achievementsModel views.AchievementsModel
	statsModel        views.StatsModel

	err error
}

// New creates a new reader application
func New(cfg *config.Config) *Model {
	apiClient := api.NewClient(cfg.GetHTTPBaseURL())

	m := &Model{
		config:      cfg,
		apiClient:   apiClient,
		currentView: ViewAuth,
		keys:        DefaultKeyMap(),
	}

	m.authModel = views.NewAuthModel(apiClient)
	m.todayModel = views.NewTodayModel(apiClient)
	m.achievementsModel = views.NewAchievementsModel(apiClient)
	m.statsModel = views.NewStatsModel(apiClient)

	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return m.authModel.Init()
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		m.authModel, _ = m.authModel.Update(msg)
		m.todayModel, _ = m.todayModel.Update(msg)
		m.achievementsModel, _ = m.achievementsModel.Update(msg)
		m.statsModel, _ = m.statsModel.Update(msg)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Today):
			if m.isAuthenticated && m.currentView != ViewAuth {
				m.currentView = ViewToday
				return m, m.todayModel.Init()
			}

		case key.Matches(msg, m.keys.Achievements):
			if m.isAuthenticated && m.currentView != ViewAuth {
				m.currentView = ViewAchievements
				return m, m.achievementsModel.Init()
			}

		case key.Matches(msg, m.keys.Stats):
			if m.isAuthenticated && m.currentView != ViewAuth {
				m.currentView = ViewStats
				return m, m.statsModel.Init()
			}
		}

	case views.AuthSuccessMsg:
		m.isAuthenticated = true
		m.currentUser = msg.Username
		m.apiClient.SetToken(msg.Token)
		m.currentView = ViewToday
		return m, m.todayModel.Init()

	case views.AuthErrorMsg:
		m.err = msg.Err
		return m, nil
	}

	return m.updateCurrentView(msg)
}

// updateCurrentView routes updates to the active view
func (m Model) updateCurrentView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewAuth:
		m.authModel, cmd = m.authModel.Update(msg)
	case ViewToday:
		m.todayModel, cmd = m.todayModel.Update(msg)
	case ViewAchievements:
		m.achievementsModel, cmd = m.achievementsModel.Update(msg)
	case ViewStats:
		m.statsModel, cmd = m.statsModel.Update(msg)
	}

	return m, cmd
}

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var content string
	switch m.currentView {
	case ViewAuth:
		content = m.authModel.View()
	case ViewToday:
		content = m.todayModel.View()
	case ViewAchievements:
		content = m.achievementsModel.View()
	case ViewStats:
		content = m.statsModel.View()
	default:
		content = "Unknown view"
	}

	var statusBar string
	if m.isAuthenticated {
		statusBar = m.renderStatusBar()
	}

	return styles.AppStyle.Render(content + "\n\n" + statusBar)
}

// renderStatusBar renders the bottom status bar
func (m Model) renderStatusBar() string {
	viewName := ""
	switch m.currentView {
	case ViewToday:
		viewName = "Today"
	case ViewAchievements:
		viewName = "Achievements"
	case ViewStats:
		viewName = "Progress"
	}

	left := styles.StatusBarActiveStyle.Render("● " + viewName)
	right := styles.StatusBarStyle.Render("User: " + m.currentUser + " | 1-3 views | ? help | q quit")

	spacing := m.width - len(left) - len(right) - 4
	if spacing < 0 {
		spacing = 0
	}
	spaces := ""
	for i := 0; i < spacing; i++ {
		spaces += " "
	}

	return left + spaces + right
}
