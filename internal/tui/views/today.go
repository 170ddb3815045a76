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

// TodayModel shows today's selection and lets the user mark hadiths read
type TodayModel struct {
	apiClient *api.Client

	selection *models.DailySelection
	cursor    int
	readIDs   map[string]bool

	loading  bool
	err      error
	notice   string
	unlocked []models.Achievement

	width  int
	height int
}

// NewTodayModel creates a new today view
func NewTodayModel(apiClient *api.Client) TodayModel {
	return TodayModel{
		apiClient: apiClient,
		readIDs:   make(map[string]bool),
	}
}

// Init loads today's selection
func (m TodayModel) Init() tea.Cmd {
	return m.loadSelection()
}

// Update handles messages
func (m TodayModel) Update(msg tea.Msg) (TodayModel, tea.Cmd) {
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
			if m.selection != nil && m.cursor < len(m.selection.Items)-1 {
				m.cursor++
			}
			return m, nil

		case key.Matches(msg, key.NewBinding(key.WithKeys("enter"))):
			if h := m.selectedHadith(); h != nil && !m.readIDs[h.ID] {
				m.loading = true
				return m, m.markRead(h.ID)
			}
			return m, nil

		case key.Matches(msg, key.NewBinding(key.WithKeys("l"))):
			if h := m.selectedHadith(); h != nil {
				return m, m.like(h.ID)
			}
			return m, nil

		case key.Matches(msg, key.NewBinding(key.WithKeys("f"))):
			if h := m.selectedHadith(); h != nil {
				return m, m.favorite(h.ID)
			}
			return m, nil

		case key.Matches(msg, key.NewBinding(key.WithKeys("r"))):
			m.loading = true
			return m, m.loadSelection()
		}

	case selectionLoadedMsg:
		m.loading = false
		m.err = nil
		m.selection = msg.selection
		if m.cursor >= len(m.selection.Items) {
			m.cursor = 0
		}
		return m, nil

	case markReadDoneMsg:
		m.loading = false
		m.readIDs[msg.hadithID] = true
		m.unlocked = msg.resp.NewlyUnlocked
		if msg.resp.AlreadyRead {
			m.notice = "Already read today"
		} else if msg.resp.Stats != nil {
			m.notice = fmt.Sprintf("Read recorded. Streak: %d day(s), points: %d",
				msg.resp.Stats.CurrentStreak, msg.resp.Stats.Points)
		}
		return m, nil

	case interactionDoneMsg:
		m.notice = msg.notice
		return m, nil

	case todayErrorMsg:
		m.loading = false
		m.err = msg.err
		return m, nil
	}

	return m, nil
}

// View renders the daily selection
func (m TodayModel) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("📖 আজকের হাদিস"))
	if m.selection != nil {
		b.WriteString(" " + styles.SubtitleStyle.Render(m.selection.DateKey))
		if m.selection.Theme != "" {
			b.WriteString("  " + styles.MetaValueStyle.Render(m.selection.Theme))
		}
	}
	b.WriteString("\n\n")

	if m.loading && m.selection == nil {
		b.WriteString(styles.SpinnerStyle.Render("⟳ "))
		b.WriteString(styles.InfoStyle.Render("Loading today's selection..."))
		return b.String()
	}

	if m.err != nil {
		b.WriteString(styles.ErrorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
		b.WriteString(styles.HelpStyle.Render("Press r to retry"))
		return b.String()
	}

	if m.selection == nil || len(m.selection.Items) == 0 {
		b.WriteString(styles.HelpStyle.Render("No hadith available today."))
		return b.String()
	}

	for i, h := range m.selection.Items {
		marker := "○"
		if m.readIDs[h.ID] {
			marker = styles.SuccessStyle.Render("●")
		}

		line := fmt.Sprintf("%s %d. %s", marker, i+1, styles.Truncate(h.BanglaText, 60))
		if i == m.cursor {
			b.WriteString(styles.ListItemSelectedStyle.Render(line))
		} else {
			b.WriteString(styles.ListItemStyle.Render(line))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if h := m.selectedHadith(); h != nil {
		b.WriteString(m.renderHadithCard(h))
		b.WriteString("\n")
	}

	for _, a := range m.unlocked {
		b.WriteString(styles.BadgeSuccessStyle.Render("🏆 " + a.Name))
		b.WriteString(" ")
		b.WriteString(styles.SuccessStyle.Render(a.NameBangla))
		b.WriteString("\n")
	}

	if m.notice != "" {
		b.WriteString(styles.InfoStyle.Render(m.notice))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.HelpStyle.Render("↑/↓ select • enter mark read • l like • f favorite • r refresh"))

	return b.String()
}

// renderHadithCard renders the full text of the selected hadith
func (m TodayModel) renderHadithCard(h *models.Hadith) string {
	var card strings.Builder

	if h.ArabicText != "" {
		card.WriteString(styles.ArabicStyle.Render(h.ArabicText))
		card.WriteString("\n\n")
	}
	card.WriteString(styles.BanglaStyle.Render(h.BanglaText))
	card.WriteString("\n")
	if h.EnglishText != "" {
		card.WriteString("\n")
		card.WriteString(styles.HelpStyle.Render(h.EnglishText))
		card.WriteString("\n")
	}
	card.WriteString("\n")
	if h.Narrator != "" {
		card.WriteString(styles.RenderKeyValue("Narrator", h.Narrator))
		card.WriteString("\n")
	}
	card.WriteString(styles.RenderKeyValue("Grade", string(h.Grade)))
	card.WriteString("  ")
	card.WriteString(styles.RenderKeyValue("Reference", h.Reference))

	return styles.CardStyle.Render(card.String())
}

// selectedHadith returns the hadith under the cursor
func (m TodayModel) selectedHadith() *models.Hadith {
	if m.selection == nil || m.cursor >= len(m.selection.Items) {
		return nil
	}
	return &m.selection.Items[m.cursor]
}

// Commands

func (m TodayModel) loadSelection() tea.Cmd {
	return func() tea.Msg {
		selection, err := m.apiClient.GetDaily(context.Background())
		if err != nil {
			return todayErrorMsg{err: err}
		}
		return selectionLoadedMsg{selection: selection}
	}
}

func (m TodayModel) markRead(hadithID string) tea.Cmd {
	return func() tea.Msg {
		resp, err := m.apiClient.MarkRead(context.Background(), hadithID)
		if err != nil {
			return todayErrorMsg{err: err}
		}
		return markReadDoneMsg{hadithID: hadithID, resp: resp}
	}
}

func (m TodayModel) like(hadithID string) tea.Cmd {
	return func() tea.Msg {
		if err := m.apiClient.LikeHadith(context.Background(), hadithID); err != nil {
			return todayErrorMsg{err: err}
		}
		return interactionDoneMsg{notice: "Liked ❤"}
	}
}

func (m TodayModel) favorite(hadithID string) tea.Cmd {
	return func() tea.Msg {
		if err := m.apiClient.FavoriteHadith(context.Background(), hadithID); err != nil {
			return todayErrorMsg{err: err}
		}
		return interactionDoneMsg{notice: "Added to favorites ★"}
	}
}

// Messages

type selectionLoadedMsg struct {
	selection *models.DailySelection
}

type markReadDoneMsg struct {
	hadithID string
	resp     *models.MarkReadResponse
}

type interactionDoneMsg struct {
	notice string
}

type todayErrorMsg struct {
	err error
}
