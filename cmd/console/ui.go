package main

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/kmorrow11/arstory/pkg/experience"
	"github.com/kmorrow11/arstory/pkg/session"
)

// ConsoleUI is the BubbleTea model that runs the UI. It stands in for
// the headset: number keys simulate the tracker seeing and losing
// markers, letter keys simulate taps on interactive objects.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config       *ConsoleConfig
	client       *http.Client
	session      *session.Session
	experience   *experience.Experience
	view         map[string]session.ElementView
	logViewport  viewport.Model
	metaViewport viewport.Model
	ready        bool
	width        int
	height       int
	err          error
	loading      bool

	// Ordered revelation object IDs, mapped onto letter keys a, b, c...
	revelations []string

	logLines []string
	copied   bool

	// Quit confirmation state
	showQuitModal bool
}

type eventAppliedMsg struct {
	event    session.Event
	response *ApplyEventResponse
	err      error
}

var titleCaser = cases.Title(language.English)

var (
	logPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	chapterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")). // purple
			Bold(true)

	storyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	eventStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	noopStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	completedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")). // yellow
			Bold(true)

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)
)

var separatorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("240")) // dark grey

func NewConsoleUI(cfg *ConsoleConfig, client *http.Client, s *session.Session, exp *experience.Experience) ConsoleUI {
	logVp := viewport.New(50, 20)
	logVp.MouseWheelEnabled = true

	metaVp := viewport.New(20, 20)

	return ConsoleUI{
		config:       cfg,
		client:       client,
		session:      s,
		experience:   exp,
		view:         map[string]session.ElementView{},
		logViewport:  logVp,
		metaViewport: metaVp,
		revelations:  exp.RevelationObjects(),
		ready:        false,
	}
}

func (m ConsoleUI) Init() tea.Cmd {
	return nil
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	var (
		vpCmd tea.Cmd
		mvCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.logViewport, vpCmd = m.logViewport.Update(msg)
		return m, vpCmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		logWidth := int(float64(m.width)*0.65) - 4
		metaWidth := m.width - logWidth - 6

		m.logViewport.Width = logWidth - 2
		m.logViewport.Height = m.height - 4
		m.metaViewport.Width = metaWidth - 2
		m.metaViewport.Height = m.height - 4

		m.ready = true
		m.writeLogContent()
		m.metaViewport.SetContent(m.writeMetadata())

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		}

		if m.loading {
			return m, nil
		}

		if ev, ok := m.keyToEvent(msg.String()); ok {
			m.loading = true
			return m, m.applyEventCmd(ev)
		}

		if msg.String() == "y" {
			if err := clipboard.WriteAll(m.session.ID.String()); err == nil {
				m.copied = true
				m.metaViewport.SetContent(m.writeMetadata())
			}
			return m, nil
		}

	case eventAppliedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			m.logLines = append(m.logLines, errorStyle.Render("Error: "+msg.err.Error()))
		} else {
			m.session = msg.response.Session
			m.view = msg.response.View
			m.logLines = append(m.logLines, m.formatApplied(msg.event, msg.response.Effects)...)
		}
		m.writeLogContent()
		m.metaViewport.SetContent(m.writeMetadata())
		return m, nil
	}

	m.logViewport, vpCmd = m.logViewport.Update(msg)
	m.metaViewport, mvCmd = m.metaViewport.Update(msg)
	return m, tea.Batch(vpCmd, mvCmd)
}

// keyToEvent maps a keypress onto a tracker or interaction event.
// Digits find markers, shifted digits lose them, p taps the portal and
// letters starting at a tap the revelation objects.
func (m ConsoleUI) keyToEvent(key string) (session.Event, bool) {
	switch key {
	case "1", "2", "3":
		idx := int(key[0] - '1')
		return session.MarkerFound(m.experience.Chapters[idx].Marker), true
	case "!", "@", "#":
		idx := strings.Index("!@#", key)
		return session.MarkerLost(m.experience.Chapters[idx].Marker), true
	case "p":
		if portal := m.experience.Portal(); portal != "" {
			return session.Click(portal), true
		}
	default:
		if len(key) == 1 && key[0] >= 'a' && key[0] < 'a'+byte(len(m.revelations)) {
			return session.Click(m.revelations[key[0]-'a']), true
		}
	}
	return session.Event{}, false
}

func (m ConsoleUI) applyEventCmd(ev session.Event) tea.Cmd {
	return func() tea.Msg {
		resp, err := applyEvent(m.client, m.config.APIBaseURL, m.session.ID, ev)
		return eventAppliedMsg{event: ev, response: resp, err: err}
	}
}

func describeEvent(ev session.Event) string {
	switch ev.Type {
	case session.EventMarkerFound:
		return fmt.Sprintf("marker %s found", ev.Marker)
	case session.EventMarkerLost:
		return fmt.Sprintf("marker %s lost", ev.Marker)
	case session.EventClick:
		return fmt.Sprintf("clicked %s", ev.Object)
	}
	return string(ev.Type)
}

// formatApplied renders one applied event and its effects as log lines.
func (m ConsoleUI) formatApplied(ev session.Event, effects []session.Effect) []string {
	lines := []string{eventStyle.Render("» " + describeEvent(ev))}

	if len(effects) == 0 {
		lines = append(lines, noopStyle.Render("  (no effect)"))
		return lines
	}

	for _, ef := range effects {
		switch ef.Type {
		case session.EffectChapterUnlocked:
			title := m.chapterTitle(ef.Chapter)
			lines = append(lines, chapterStyle.Render(fmt.Sprintf("  ★ Chapter unlocked: %s", title)))
			if text := m.overlayText(ef.Chapter); text != "" {
				lines = append(lines, storyStyle.Render(wordwrap.String("  "+text, m.logViewport.Width-6)))
			}
		case session.EffectOverlayShown:
			lines = append(lines, fmt.Sprintf("  overlay shown for %s", ef.Marker))
		case session.EffectOverlayHidden:
			lines = append(lines, fmt.Sprintf("  overlay hidden for %s", ef.Marker))
		case session.EffectPortalActivated:
			lines = append(lines, chapterStyle.Render("  ◉ The portal opens"))
		case session.EffectObjectStyled:
			lines = append(lines, fmt.Sprintf("  %s shifts to %s", ef.Object, ef.Color))
		case session.EffectExperienceCompleted:
			lines = append(lines, completedStyle.Render("  ✦ "+m.experience.CompletionText))
		}
	}
	return lines
}

func (m ConsoleUI) chapterTitle(chapterID string) string {
	for _, ch := range m.experience.Chapters {
		if ch.ID == chapterID {
			return ch.Title
		}
	}
	return titleCaser.String(strings.ReplaceAll(chapterID, "_", " "))
}

func (m ConsoleUI) overlayText(chapterID string) string {
	for _, ch := range m.experience.Chapters {
		if ch.ID == chapterID {
			return ch.OverlayText
		}
	}
	return ""
}

func (m *ConsoleUI) writeLogContent() {
	logWidth := m.logViewport.Width - 6

	var content strings.Builder
	content.WriteString(titleStyle.Render(strings.ToUpper(m.experience.Name)) + "\n\n")
	if m.experience.Story != "" {
		content.WriteString(storyStyle.Render(wordwrap.String(m.experience.Story, logWidth)) + "\n\n")
	}
	content.WriteString(separatorStyle.Render(strings.Repeat("─", max(logWidth-6, 1))) + "\n\n")

	for _, line := range m.logLines {
		content.WriteString(line + "\n")
	}

	m.logViewport.SetContent(content.String())
	m.logViewport.GotoBottom()
}

func progressLabel(p session.Progress) string {
	return titleCaser.String(strings.ReplaceAll(p.String(), "_", " "))
}

func (m ConsoleUI) writeMetadata() string {
	var content strings.Builder
	content.WriteString(titleStyle.Render("SESSION") + "\n\n")

	content.WriteString("Session ID:\n")
	content.WriteString(m.session.ID.String()[:8] + "...")
	if m.copied {
		content.WriteString(" (copied)")
	}
	content.WriteString("\n\n")

	content.WriteString("Progress:\n")
	content.WriteString(progressLabel(m.session.Progress) + "\n\n")

	content.WriteString("Chapters:\n")
	for i, ch := range m.experience.Chapters {
		mark := "○"
		if m.session.Progress >= session.ChapterProgress(i) {
			mark = "●"
		}
		content.WriteString(fmt.Sprintf("%s %s\n", mark, ch.Title))
	}
	content.WriteString("\n")

	if len(m.revelations) > 0 {
		content.WriteString("Revelations:\n")
		for _, id := range m.revelations {
			mark := "○"
			if m.session.Clicked[id] {
				mark = "●"
			}
			content.WriteString(fmt.Sprintf("%s %s\n", mark, id))
		}
		content.WriteString("\n")
	}

	content.WriteString(fmt.Sprintf("Events: %d\n\n", m.session.EventCount))

	content.WriteString("Keys:\n")
	content.WriteString("• 1-3: find marker\n")
	content.WriteString("• !/@/#: lose marker\n")
	content.WriteString("• p: tap portal\n")
	for i, id := range m.revelations {
		content.WriteString(fmt.Sprintf("• %c: tap %s\n", 'a'+i, id))
	}
	content.WriteString("• y: copy session ID\n")
	content.WriteString("• Ctrl+C: quit\n")

	return content.String()
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				return m, nil
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Quit?"))
	content.WriteString("\n\n")
	content.WriteString("Leave this session? Its state stays on the server until it expires.")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue"))

	modal := modalStyle.Width(50).Render(content.String())

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showQuitModal {
		return m.renderQuitModal()
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	logWidth := int(float64(m.width)*0.65) - 4
	metaWidth := m.width - logWidth - 6

	logPanel := logPanelStyle.Width(logWidth).Height(m.height - 2).Render(
		m.logViewport.View(),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, logPanel, metaPanel)
}
