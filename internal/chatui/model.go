// Package chatui provides the Bubble Tea study assistant chat.
package chatui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/studybuddy/internal/client"
	"github.com/verte-zerg/studybuddy/internal/model"
	"github.com/verte-zerg/studybuddy/internal/theme"
)

// Bot texts shown instead of a reply.
const (
	WelcomeText      = "Hi! I'm your study buddy. Ask me about your cards, or press ctrl+g for a practice question."
	ErrorText        = "Sorry, I encountered an error. Please try again."
	ConnectErrorText = "Sorry, I'm having trouble connecting. Please try again."
	QuestionError    = "Sorry, I couldn't generate a practice question right now."
	questionPrefix   = "Here's a practice question for you: "
	practiceTopic    = "general"
	requestTimeout   = 30 * time.Second
)

// Backend is the chat surface of the study server.
type Backend interface {
	SendChat(ctx context.Context, message string) (model.ChatReply, error)
	ChatHistory(ctx context.Context) ([]model.ChatMessage, error)
	ChatStatus(ctx context.Context) (model.AIStatus, error)
	GenerateQuestion(ctx context.Context, topic string) (model.PracticeQuestion, error)
	ClearChat(ctx context.Context) error
	UserStats(ctx context.Context) (model.UserStats, error)
}

type role int

const (
	roleBot role = iota
	roleUser
)

type entry struct {
	role role
	text string
}

type statusMsg struct {
	status model.AIStatus
	err    error
}

type historyMsg struct {
	messages []model.ChatMessage
	err      error
}

type userStatsMsg struct {
	stats model.UserStats
	err   error
}

type replyMsg struct {
	reply model.ChatReply
	err   error
}

type questionMsg struct {
	question model.PracticeQuestion
	err      error
}

type clearedMsg struct {
	err error
}

// Model implements the Bubble Tea chat UI.
type Model struct {
	backend Backend
	logger  *slog.Logger
	styles  theme.Styles
	spans   spanStyles

	entries  []entry
	loading  bool
	status   string
	userLine string

	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model

	width  int
	height int
}

// NewModel constructs a chat model. History, status and user stats load in
// Init.
func NewModel(backend Backend, th theme.Theme, logger *slog.Logger) *Model {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	styles := th.Styles()
	input := textinput.New()
	input.Prompt = "> "
	input.Placeholder = "Ask a question…"
	input.CharLimit = 2000
	input.Focus()

	m := &Model{
		backend: backend,
		logger:  logger,
		styles:  styles,
		spans: spanStyles{
			bold:   styles.Text.Bold(true),
			italic: styles.Text.Italic(true),
			code:   styles.Accent.Background(th.Surface),
		},
		entries:  []entry{{role: roleBot, text: WelcomeText}},
		status:   "Checking assistant…",
		viewport: viewport.New(0, 0),
		input:    input,
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.Accent)),
	}
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.fetchStatus(), m.fetchHistory(), m.fetchUserStats())
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil
	case statusMsg:
		m.status = statusLine(msg.status, msg.err)
		if msg.err != nil {
			m.logger.Warn("failed to check assistant status", "err", msg.err)
		}
		return m, nil
	case historyMsg:
		if msg.err != nil {
			m.logger.Warn("failed to load chat history", "err", msg.err)
			return m, nil
		}
		// History goes after the welcome, ahead of anything sent meanwhile.
		entries := []entry{m.entries[0]}
		for _, h := range msg.messages {
			entries = append(entries, entry{role: roleUser, text: h.Message}, entry{role: roleBot, text: h.Response})
		}
		m.entries = append(entries, m.entries[1:]...)
		m.refreshTranscript()
		return m, nil
	case userStatsMsg:
		if msg.err != nil {
			m.logger.Warn("failed to load user stats", "err", msg.err)
			return m, nil
		}
		m.userLine = fmt.Sprintf("Streak %d days · Cards %d · Accuracy %.1f%%", msg.stats.Streak, msg.stats.CardsStudied, msg.stats.Accuracy)
		return m, nil
	case replyMsg:
		m.loading = false
		if msg.err != nil {
			m.logger.Error("chat request failed", "err", msg.err)
			m.addBot(Apology(msg.err))
		} else {
			m.addBot(msg.reply.Response)
		}
		return m, m.fetchUserStats()
	case questionMsg:
		m.loading = false
		if msg.err != nil {
			m.logger.Error("practice question failed", "err", msg.err)
			m.addBot(QuestionError)
		} else {
			m.addBot(questionPrefix + msg.question.Question)
		}
		return m, nil
	case clearedMsg:
		m.loading = false
		if msg.err != nil {
			m.logger.Error("failed to clear chat", "err", msg.err)
			m.addBot(Apology(msg.err))
			return m, nil
		}
		m.entries = m.entries[:1]
		m.refreshTranscript()
		return m, nil
	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.refreshTranscript()
		return m, cmd
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "enter":
		return m, m.send()
	case "ctrl+g":
		return m, m.askQuestion()
	case "ctrl+l":
		return m, m.clear()
	case "pgup", "pgdown", "up", "down":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) send() tea.Cmd {
	text := strings.TrimSpace(m.input.Value())
	if text == "" || m.loading {
		return nil
	}
	m.input.Reset()
	m.entries = append(m.entries, entry{role: roleUser, text: text})
	backend := m.backend
	return m.startRequest(func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		reply, err := backend.SendChat(ctx, text)
		return replyMsg{reply: reply, err: err}
	})
}

func (m *Model) askQuestion() tea.Cmd {
	if m.loading {
		return nil
	}
	backend := m.backend
	return m.startRequest(func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		q, err := backend.GenerateQuestion(ctx, practiceTopic)
		return questionMsg{question: q, err: err}
	})
}

func (m *Model) clear() tea.Cmd {
	if m.loading {
		return nil
	}
	backend := m.backend
	return m.startRequest(func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return clearedMsg{err: backend.ClearChat(ctx)}
	})
}

func (m *Model) startRequest(cmd tea.Cmd) tea.Cmd {
	m.loading = true
	m.refreshTranscript()
	return tea.Batch(cmd, m.spinner.Tick)
}

func (m *Model) fetchStatus() tea.Cmd {
	backend := m.backend
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		status, err := backend.ChatStatus(ctx)
		return statusMsg{status: status, err: err}
	}
}

func (m *Model) fetchHistory() tea.Cmd {
	backend := m.backend
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		messages, err := backend.ChatHistory(ctx)
		return historyMsg{messages: messages, err: err}
	}
}

func (m *Model) fetchUserStats() tea.Cmd {
	backend := m.backend
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		stats, err := backend.UserStats(ctx)
		return userStatsMsg{stats: stats, err: err}
	}
}

func (m *Model) addBot(text string) {
	m.entries = append(m.entries, entry{role: roleBot, text: text})
	m.refreshTranscript()
}

// Ask sends a single message and returns the reply without formatting
// markers. On failure the apology text is returned with the error.
func Ask(ctx context.Context, backend Backend, message string) (string, error) {
	reply, err := backend.SendChat(ctx, message)
	if err != nil {
		return Apology(err), err
	}
	return plainText(reply.Response), nil
}

// Apology maps a failed chat request to the bot message shown for it.
func Apology(err error) string {
	var te *client.TransportError
	if errors.As(err, &te) && te.Unreachable() {
		return ConnectErrorText
	}
	return ErrorText
}

func statusLine(status model.AIStatus, err error) string {
	if err != nil {
		return "Assistant status unknown"
	}
	kind := status.AIType
	if kind == "" {
		kind = "Assistant"
	}
	if status.AIAvailable {
		return kind + " AI - Online"
	}
	return kind + " - Offline (set GEMINI_API_KEY on the server for full AI)"
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return m.renderTranscript(80)
	}
	title := m.styles.Title.Render("studybuddy chat")
	status := runewidth.Truncate(m.status, max(m.width-lipgloss.Width(title)-2, 1), "…")
	lines := []string{title + "  " + m.styles.Muted.Render(status)}
	if m.userLine != "" {
		lines = append(lines, m.styles.Muted.Render(runewidth.Truncate(m.userLine, m.width, "…")))
	}
	lines = append(lines,
		m.viewport.View(),
		m.input.View(),
		m.styles.Muted.Render("enter send · ctrl+g practice question · ctrl+l clear · pgup/pgdown scroll · esc quit"),
	)
	return strings.Join(lines, "\n")
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	chrome := 4
	m.viewport.Width = m.width
	m.viewport.Height = max(m.height-chrome, 1)
	m.input.Width = max(m.width-lipgloss.Width(m.input.Prompt)-1, 10)
	m.refreshTranscript()
}

func (m *Model) refreshTranscript() {
	width := m.viewport.Width
	if width <= 0 {
		width = 80
	}
	m.viewport.SetContent(m.renderTranscript(width))
	m.viewport.GotoBottom()
}

func (m *Model) renderTranscript(width int) string {
	bodyWidth := max(width-2, 10)
	blocks := make([]string, 0, len(m.entries)+1)
	for _, e := range m.entries {
		blocks = append(blocks, m.renderEntry(e, bodyWidth))
	}
	if m.loading {
		blocks = append(blocks, m.styles.Correct.Render("Buddy")+"\n"+m.spinner.View()+" "+m.styles.Muted.Render("thinking…"))
	}
	return strings.Join(blocks, "\n\n")
}

func (m *Model) renderEntry(e entry, width int) string {
	wrap := lipgloss.NewStyle().Width(width).PaddingLeft(2)
	if e.role == roleUser {
		return m.styles.Accent.Render("You") + "\n" + wrap.Render(e.text)
	}
	return m.styles.Correct.Render("Buddy") + "\n" + wrap.Render(renderSpans(parseSpans(e.text), m.spans))
}
