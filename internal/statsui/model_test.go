package statsui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/studybuddy/internal/model"
	"github.com/verte-zerg/studybuddy/internal/store"
	"github.com/verte-zerg/studybuddy/internal/theme"
)

func seededStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "studybuddy.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	start := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		began := start.Add(time.Duration(i) * 24 * time.Hour)
		_, err := st.InsertSession(context.Background(), model.SessionRecord{
			StartedAt:  began,
			EndedAt:    began.Add(2 * time.Minute),
			DeckKey:    "deck:1",
			DeckSize:   2,
			Correct:    1 + i%2,
			Incorrect:  1 - i%2,
			DurationMs: 120000,
		}, []model.CardStats{
			{CardID: 1, Question: "What is Go?", Correct: 1},
			{CardID: 2, Question: "What is a goroutine?", Correct: i % 2, Incorrect: 1 - i%2},
		}, []model.PerformanceSample{
			{CardNumber: 1, AccuracyPercent: 100, ElapsedMs: 30000},
			{CardNumber: 2, AccuracyPercent: 50 + 50*(i%2), ElapsedMs: 60000},
		})
		if err != nil {
			t.Fatalf("insert session: %v", err)
		}
	}
	return st
}

func newSizedModel(t *testing.T, st *store.Store, cfg model.StatsConfig) *Model {
	t.Helper()
	m := NewModel(st, cfg, theme.Dark)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestOverviewShowsSummary(t *testing.T) {
	m := newSizedModel(t, seededStore(t), model.StatsConfig{CurveWindow: 2})
	view := m.View()
	for _, want := range []string{"Overview", "Sessions", "Most studied", "What is Go?", "Learning Curves"} {
		if !strings.Contains(view, want) {
			t.Fatalf("overview missing %q:\n%s", want, view)
		}
	}
}

func TestTabsCycle(t *testing.T) {
	m := newSizedModel(t, seededStore(t), model.StatsConfig{CurveWindow: 1})
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.activeTab != tabCards {
		t.Fatalf("expected cards tab, got %d", m.activeTab)
	}
	if !strings.Contains(m.View(), "goroutine") {
		t.Fatalf("expected card table in view")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if !strings.Contains(m.View(), "Session #3") {
		t.Fatalf("expected last session tab:\n%s", m.View())
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.activeTab != tabOverview {
		t.Fatalf("expected wrap to overview, got %d", m.activeTab)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if m.activeTab != tabLastSession {
		t.Fatalf("expected wrap to last session, got %d", m.activeTab)
	}
}

func TestEmptyStore(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "empty.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer func() {
		_ = st.Close()
	}()
	m := newSizedModel(t, st, model.StatsConfig{})
	if !strings.Contains(m.View(), "No sessions found.") {
		t.Fatalf("expected empty message")
	}
}

func TestCurveWindowKeys(t *testing.T) {
	m := newSizedModel(t, seededStore(t), model.StatsConfig{CurveWindow: 1})
	m.Update(key("="))
	if m.cfg.CurveWindow != 5 {
		t.Fatalf("expected window 5, got %d", m.cfg.CurveWindow)
	}
	m.Update(key("="))
	m.Update(key("-"))
	if m.cfg.CurveWindow != 5 {
		t.Fatalf("expected window 5, got %d", m.cfg.CurveWindow)
	}
	m.Update(key("-"))
	if m.cfg.CurveWindow != 1 {
		t.Fatalf("expected window 1, got %d", m.cfg.CurveWindow)
	}
}

func TestFilterFormApplies(t *testing.T) {
	m := newSizedModel(t, seededStore(t), model.StatsConfig{CurveWindow: 3})
	m.Update(key("/"))
	if !m.filterMode {
		t.Fatalf("expected filter mode")
	}
	m.filterInputs[fieldDeck].SetValue("1")
	m.filterInputs[fieldSince].SetValue("2026-02-02")
	m.filterInputs[fieldLast].SetValue("1")
	m.filterInputs[fieldWindow].SetValue("4")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.filterMode {
		t.Fatalf("expected filter applied, error=%q", m.filterError)
	}
	if m.cfg.Deck != "deck:1" || m.cfg.Last != 1 || m.cfg.CurveWindow != 4 || m.cfg.Since == nil {
		t.Fatalf("unexpected config: %+v", m.cfg)
	}
	if len(m.report.Sessions) != 1 {
		t.Fatalf("expected 1 session after filter, got %d", len(m.report.Sessions))
	}
}

func TestFilterFormRejectsBadInput(t *testing.T) {
	m := newSizedModel(t, seededStore(t), model.StatsConfig{CurveWindow: 3})
	m.Update(key("/"))
	m.filterInputs[fieldSince].SetValue("yesterday")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !m.filterMode || !strings.Contains(m.filterError, "since") {
		t.Fatalf("expected since error, got %q", m.filterError)
	}
	m.filterInputs[fieldSince].SetValue("")
	m.filterInputs[fieldWindow].SetValue("0")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !strings.Contains(m.filterError, "curve window") {
		t.Fatalf("expected window error, got %q", m.filterError)
	}
	if m.cfg.CurveWindow != 3 {
		t.Fatalf("expected config untouched, got %+v", m.cfg)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.filterMode {
		t.Fatalf("expected esc to leave filter mode")
	}
}

func TestCardColumnsFillWidth(t *testing.T) {
	cols := cardColumns(100)
	total := len(cols)
	for _, c := range cols {
		total += c.Width
	}
	if total != 100 {
		t.Fatalf("expected columns to fill 100 cells, got %d", total)
	}
	if narrow := cardColumns(20); narrow[1].Width != minQuestionCol {
		t.Fatalf("expected minimum question width, got %d", narrow[1].Width)
	}
}

func TestCurveWindowSteps(t *testing.T) {
	cases := []struct{ in, next, prev int }{
		{1, 5, 1},
		{5, 10, 1},
		{7, 10, 5},
		{10, 15, 5},
	}
	for _, tc := range cases {
		if got := nextCurveWindow(tc.in); got != tc.next {
			t.Errorf("nextCurveWindow(%d) = %d, want %d", tc.in, got, tc.next)
		}
		if got := prevCurveWindow(tc.in); got != tc.prev {
			t.Errorf("prevCurveWindow(%d) = %d, want %d", tc.in, got, tc.prev)
		}
	}
}
