package chatui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/studybuddy/internal/client"
	"github.com/verte-zerg/studybuddy/internal/model"
	"github.com/verte-zerg/studybuddy/internal/theme"
)

type fakeBackend struct {
	reply       model.ChatReply
	sendErr     error
	sent        []string
	history     []model.ChatMessage
	status      model.AIStatus
	question    model.PracticeQuestion
	questionErr error
	topics      []string
	clearErr    error
	cleared     int
	stats       model.UserStats
}

func (f *fakeBackend) SendChat(_ context.Context, message string) (model.ChatReply, error) {
	f.sent = append(f.sent, message)
	return f.reply, f.sendErr
}

func (f *fakeBackend) ChatHistory(context.Context) ([]model.ChatMessage, error) {
	return f.history, nil
}

func (f *fakeBackend) ChatStatus(context.Context) (model.AIStatus, error) {
	return f.status, nil
}

func (f *fakeBackend) GenerateQuestion(_ context.Context, topic string) (model.PracticeQuestion, error) {
	f.topics = append(f.topics, topic)
	return f.question, f.questionErr
}

func (f *fakeBackend) ClearChat(context.Context) error {
	f.cleared++
	return f.clearErr
}

func (f *fakeBackend) UserStats(context.Context) (model.UserStats, error) {
	return f.stats, nil
}

// runCmd executes cmd and flattens batches into their messages.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runCmd(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func deliver(m *Model, cmd tea.Cmd) {
	for _, msg := range runCmd(cmd) {
		switch msg.(type) {
		case statusMsg, historyMsg, userStatsMsg, replyMsg, questionMsg, clearedMsg:
			m.Update(msg)
		}
	}
}

func newTestModel(b *fakeBackend) *Model {
	m := NewModel(b, theme.Light, nil)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return m
}

func lastEntry(m *Model) entry {
	return m.entries[len(m.entries)-1]
}

func TestInitLoadsHistoryStatusAndStats(t *testing.T) {
	b := &fakeBackend{
		status: model.AIStatus{AIAvailable: true, AIType: "Gemini"},
		history: []model.ChatMessage{
			{Message: "What is Go?", Response: "A programming language."},
		},
		stats: model.UserStats{Streak: 3, CardsStudied: 42, Accuracy: 87.5},
	}
	m := newTestModel(b)
	deliver(m, m.Init())
	if m.status != "Gemini AI - Online" {
		t.Fatalf("unexpected status %q", m.status)
	}
	if len(m.entries) != 3 || m.entries[1].role != roleUser || m.entries[2].text != "A programming language." {
		t.Fatalf("unexpected transcript %+v", m.entries)
	}
	if !strings.Contains(m.userLine, "Streak 3 days") || !strings.Contains(m.userLine, "87.5%") {
		t.Fatalf("unexpected user line %q", m.userLine)
	}
	view := m.View()
	for _, want := range []string{"Gemini AI - Online", "What is Go?", "A programming language."} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

func TestLateHistoryKeepsSentMessages(t *testing.T) {
	b := &fakeBackend{reply: model.ChatReply{Response: "A language."}}
	m := newTestModel(b)
	m.input.SetValue("what is Go?")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m.Update(historyMsg{messages: []model.ChatMessage{
		{Message: "old", Response: "older"},
	}})
	deliver(m, cmd)

	want := []string{WelcomeText, "old", "older", "what is Go?", "A language."}
	if len(m.entries) != len(want) {
		t.Fatalf("expected %d entries, got %+v", len(want), m.entries)
	}
	for i, text := range want {
		if m.entries[i].text != text {
			t.Fatalf("entry %d: expected %q, got %q", i, text, m.entries[i].text)
		}
	}
}

func TestOfflineStatus(t *testing.T) {
	if got := statusLine(model.AIStatus{AIType: "Fallback"}, nil); !strings.HasPrefix(got, "Fallback - Offline") {
		t.Fatalf("unexpected offline status %q", got)
	}
	if got := statusLine(model.AIStatus{}, errors.New("down")); got != "Assistant status unknown" {
		t.Fatalf("unexpected error status %q", got)
	}
}

func TestSendAppendsReply(t *testing.T) {
	b := &fakeBackend{reply: model.ChatReply{Response: "**Go** is a language."}}
	m := newTestModel(b)
	m.input.SetValue("  What is Go?  ")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !m.loading {
		t.Fatalf("expected loading while waiting for reply")
	}
	if m.input.Value() != "" {
		t.Fatalf("expected input cleared")
	}
	if e := lastEntry(m); e.role != roleUser || e.text != "What is Go?" {
		t.Fatalf("unexpected user entry %+v", e)
	}
	deliver(m, cmd)
	if m.loading {
		t.Fatalf("expected loading cleared")
	}
	if len(b.sent) != 1 || b.sent[0] != "What is Go?" {
		t.Fatalf("unexpected sent messages %q", b.sent)
	}
	if e := lastEntry(m); e.role != roleBot || e.text != "**Go** is a language." {
		t.Fatalf("unexpected bot entry %+v", e)
	}
}

func TestSendIgnoresBlankInput(t *testing.T) {
	m := newTestModel(&fakeBackend{})
	m.input.SetValue("   ")
	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter}); cmd != nil {
		t.Fatalf("expected no request for blank input")
	}
	if len(m.entries) != 1 {
		t.Fatalf("expected only the welcome message")
	}
}

func TestSendErrorsBecomeApologies(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"status", &client.TransportError{Op: "send chat", Status: 500, Wrapped: errors.New("boom")}, ErrorText},
		{"unreachable", &client.TransportError{Op: "send chat", Wrapped: errors.New("connection refused")}, ConnectErrorText},
		{"other", errors.New("decode failed"), ErrorText},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := newTestModel(&fakeBackend{sendErr: tc.err})
			m.input.SetValue("hello")
			_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
			deliver(m, cmd)
			if e := lastEntry(m); e.text != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, e.text)
			}
		})
	}
}

func TestPracticeQuestion(t *testing.T) {
	b := &fakeBackend{question: model.PracticeQuestion{Question: "What does defer do?"}}
	m := newTestModel(b)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlG})
	deliver(m, cmd)
	if len(b.topics) != 1 || b.topics[0] != "general" {
		t.Fatalf("unexpected topics %q", b.topics)
	}
	if e := lastEntry(m); e.text != "Here's a practice question for you: What does defer do?" {
		t.Fatalf("unexpected entry %q", e.text)
	}

	b.questionErr = errors.New("boom")
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlG})
	deliver(m, cmd)
	if e := lastEntry(m); e.text != QuestionError {
		t.Fatalf("unexpected entry %q", e.text)
	}
}

func TestClearResetsTranscript(t *testing.T) {
	b := &fakeBackend{reply: model.ChatReply{Response: "hi"}}
	m := newTestModel(b)
	m.input.SetValue("hello")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	deliver(m, cmd)
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	deliver(m, cmd)
	if b.cleared != 1 {
		t.Fatalf("expected clear call")
	}
	if len(m.entries) != 1 || m.entries[0].text != WelcomeText {
		t.Fatalf("expected only the welcome message, got %+v", m.entries)
	}
}

func TestRequestsSerialized(t *testing.T) {
	m := newTestModel(&fakeBackend{})
	m.input.SetValue("first")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m.input.SetValue("second")
	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter}); cmd != nil {
		t.Fatalf("expected second send ignored while loading")
	}
	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlG}); cmd != nil {
		t.Fatalf("expected question ignored while loading")
	}
}

func TestAsk(t *testing.T) {
	reply, err := Ask(context.Background(), &fakeBackend{reply: model.ChatReply{Response: "Use `go vet`."}}, "tips?")
	if err != nil || reply != "Use go vet." {
		t.Fatalf("unexpected reply %q (%v)", reply, err)
	}
	reply, err = Ask(context.Background(), &fakeBackend{sendErr: &client.TransportError{Op: "send chat"}}, "tips?")
	if err == nil || reply != ConnectErrorText {
		t.Fatalf("expected connect apology, got %q (%v)", reply, err)
	}
}
