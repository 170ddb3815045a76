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

// AchievementsModel lists the achievement catalog with unlock state and progress
type AchievementsModel struct {
	apiClient *api.Client

	achievements []models.AchievementStatus
	cursor       int

	loading bool
	err     error

	width  int
	height int
}

// NewAchievementsModel creates a new achievements view
func NewAchievementsModel(apiClient *api.Client) AchievementsModel {
	return AchievementsModel{apiClient: apiClient}
}

// Init loads the achievement list
func (m AchievementsModel) Init() tea.Cmd {
	m.loading = true
	return m.load()
}

// Update handles messages
func (m AchievementsModel) Update(msg tea.Msg) (AchievementsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, key.NewBinding(key.WithKeys("up", "k"))):
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case key.Matches(msg, key.NewBinding(key.WithKeys("down", "j"))):
			if m.cursor < len(m.achievements)-1 {
				m.cursor++
			}
			return m, nil

		case key.Matches(msg, key.NewBinding(key.WithKeys("r"))):
			m.loading = true
			return m, m.load()
		}

	case achievementsLoadedMsg:
		m.loading = false
		m.err = nil
		m.achievements = msg.achievements
		if m.cursor >= len(m.achievements) {
			m.cursor = 0
		}
		return m, nil

	case achievementsErrorMsg:
		m.loading = false
		m.err = msg.err
		return m, nil
	}

	return m, nil
}

// View renders the achievement list
func (m AchievementsModel) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("🏆 Achievements"))
	b.WriteString("\n\n")

	if m.loading && m.achievements == nil {
		b.WriteString(styles.SpinnerStyle.Render("⟳ "))
		b.WriteString(styles.InfoStyle.Render("Loading achievements..."))
		return b.String()
	}

	if m.err != nil {
		b.WriteString(styles.ErrorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
		b.WriteString(styles.HelpStyle.Render("Press r to retry"))
		return b.String()
	}

	if len(m.achievements) == 0 {
		b.WriteString(styles.HelpStyle.Render("No achievements defined yet."))
		return b.String()
	}

	unlocked := 0
	for _, a := range m.achievements {
		if a.Unlocked {
			unlocked++
		}
	}
	b.WriteString(styles.SubtitleStyle.Render(
		fmt.Sprintf("%d of %d unlocked", unlocked, len(m.achievements))))
	b.WriteString("\n\n")

	for i, status := range m.achievements {
		line := m.renderAchievement(status)
		if i == m.cursor {
			b.WriteString(styles.ListItemSelectedStyle.Render(line))
		} else {
			b.WriteString(styles.ListItemStyle.Render(line))
		}
		b.WriteString("\n")
	}

	if m.cursor < len(m.achievements) {
		b.WriteString("\n")
		b.WriteString(m.renderDetail(m.achievements[m.cursor]))
	}

	b.WriteString("\n")
	b.WriteString(styles.HelpStyle.Render("↑/↓ select • r refresh"))

	return b.String()
}

// renderAchievement renders a single list row
func (m AchievementsModel) renderAchievement(status models.AchievementStatus) string {
	icon := status.Icon
	if icon == "" {
		icon = "🎖"
	}

	if status.Unlocked {
		return fmt.Sprintf("%s %s %s", icon, status.Name, styles.BadgeSuccessStyle.Render("unlocked"))
	}

	if status.Progress != nil {
		return fmt.Sprintf("%s %s %s %d%%", icon, status.Name,
			styles.RenderProgressBar(status.Progress.Current, status.Progress.Target, 12),
			status.Progress.Percent)
	}

	return fmt.Sprintf("%s %s", icon, status.Name)
}

// renderDetail renders the selected achievement card
func (m AchievementsModel) renderDetail(status models.AchievementStatus) string {
	var card strings.Builder

	card.WriteString(styles.CardTitleStyle.Render(status.Name))
	if status.NameBangla != "" {
		card.WriteString("  " + styles.SubtitleStyle.Render(status.NameBangla))
	}
	card.WriteString("\n")
	card.WriteString(status.Description)
	card.WriteString("\n\n")
	card.WriteString(styles.RenderKeyValue("Points", fmt.Sprintf("%d", status.Points)))

	if status.Unlocked && status.EarnedAt != nil {
		card.WriteString("  ")
		card.WriteString(styles.RenderKeyValue("Earned", status.EarnedAt.Format("2006-01-02")))
	} else if status.Progress != nil {
		card.WriteString("  ")
		card.WriteString(styles.RenderKeyValue("Progress",
			fmt.Sprintf("%d / %d", status.Progress.Current, status.Progress.Target)))
	}

	return styles.CardStyle.Render(card.String())
}

// Commands

func (m AchievementsModel) load() tea.Cmd {
	return func() tea.Msg {
		achievements, err := m.apiClient.GetMyAchievements(context.Background())
		if err != nil {
			return achievementsErrorMsg{err: err}
		}
		return achievementsLoadedMsg{achievements: achievements}
	}
}

// Messages

type achievementsLoadedMsg struct {
	achievements []models.AchievementStatus
}

type achievementsErrorMsg struct {
	err error
}
