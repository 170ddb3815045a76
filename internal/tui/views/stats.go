package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"amarhadis/internal/tui/api"
	"amarhadis/internal/tui/styles"
	"amarhadis/pkg/models"
)

// StatsModel shows the user's reading statistics and the weekly trending list
type StatsModel struct {
	apiClient *api.Client

	stats    *models.UserStatsResponse
	trending []models.TrendingHadith

	loading bool
	err     error

	width  int
	height int
}

// NewStatsModel creates a new stats view
func NewStatsModel(apiClient *api.Client) StatsModel {
	return StatsModel{apiClient: apiClient}
}

// Init loads stats and trending
func (m StatsModel) Init() tea.Cmd {
	m.loading = true
	return tea.Batch(m.loadStats(), m.loadTrending())
}

// Update handles messages
func (m StatsModel) Update(msg tea.Msg) (StatsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, key.NewBinding(key.WithKeys("r"))) {
			m.loading = true
			return m, tea.Batch(m.loadStats(), m.loadTrending())
		}

	case statsLoadedMsg:
		m.loading = false
		m.err = nil
		m.stats = msg.stats
		return m, nil

	case trendingLoadedMsg:
		m.trending = msg.trending
		return m, nil

	case statsErrorMsg:
		m.loading = false
		m.err = msg.err
		return m, nil
	}

	return m, nil
}

// View renders the statistics
func (m StatsModel) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("📊 My Progress"))
	b.WriteString("\n\n")

	if m.loading && m.stats == nil {
		b.WriteString(styles.SpinnerStyle.Render("⟳ "))
		b.WriteString(styles.InfoStyle.Render("Loading statistics..."))
		return b.String()
	}

	if m.err != nil {
		b.WriteString(styles.ErrorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
		b.WriteString(styles.HelpStyle.Render("Press r to retry"))
		return b.String()
	}

	if m.stats != nil {
		b.WriteString(m.renderStatsCard())
		b.WriteString("\n")
	}

	if len(m.trending) > 0 {
		b.WriteString(m.renderTrendingCard())
		b.WriteString("\n")
	}

	b.WriteString(styles.HelpStyle.Render("r refresh"))

	return b.String()
}

// renderStatsCard renders the user's reading stats
func (m StatsModel) renderStatsCard() string {
	stats := m.stats.Stats

	var card strings.Builder
	card.WriteString(styles.CardTitleStyle.Render(m.stats.LevelTitle))
	card.WriteString("  ")
	card.WriteString(styles.BadgeWarningStyle.Render(fmt.Sprintf("Level %d", stats.Level)))
	card.WriteString("\n\n")

	card.WriteString(styles.RenderKeyValue("Hadith read", fmt.Sprintf("%d", stats.HadithRead)))
	card.WriteString("\n")
	card.WriteString(styles.RenderKeyValue("Current streak", fmt.Sprintf("%d day(s)", stats.CurrentStreak)))
	card.WriteString("\n")
	card.WriteString(styles.RenderKeyValue("Longest streak", fmt.Sprintf("%d day(s)", stats.LongestStreak)))
	card.WriteString("\n")
	card.WriteString(styles.RenderKeyValue("Points", fmt.Sprintf("%d", stats.Points)))
	card.WriteString("\n")
	card.WriteString(styles.RenderKeyValue("Favorites", fmt.Sprintf("%d", m.stats.Favorites)))
	card.WriteString("\n")
	card.WriteString(styles.RenderKeyValue("Contributions", fmt.Sprintf("%d", stats.Contributions)))

	return styles.CardStyle.Render(card.String())
}

// renderTrendingCard renders the weekly trending hadiths
func (m StatsModel) renderTrendingCard() string {
	var card strings.Builder
	card.WriteString(styles.CardTitleStyle.Render("🔥 Trending this week"))
	card.WriteString("\n\n")

	for _, t := range m.trending {
		card.WriteString(fmt.Sprintf("%d. %s\n", t.Rank, styles.Truncate(t.BanglaText, 56)))
		card.WriteString(styles.HelpStyle.Render("   " + t.Reference))
		card.WriteString("\n")
	}

	return styles.CardStyle.Render(strings.TrimRight(card.String(), "\n"))
}

// Commands

func (m StatsModel) loadStats() tea.Cmd {
	return func() tea.Msg {
		stats, err := m.apiClient.GetMyStats(context.Background())
		if err != nil {
			return statsErrorMsg{err: err}
		}
		return statsLoadedMsg{stats: stats}
	}
}

func (m StatsModel) loadTrending() tea.Cmd {
	return func() tea.Msg {
		trending, err := m.apiClient.GetTrending(context.Background(), 5)
		if err != nil {
			// Stats card still renders without the trending list
			return trendingLoadedMsg{trending: nil}
		}
		return trendingLoadedMsg{trending: trending}
	}
}

// Messages

type statsLoadedMsg struct {
	stats *models.UserStatsResponse
}

type trendingLoadedMsg struct {
	trending []models.TrendingHadith
}

type statsErrorMsg struct {
	err error
}
