// Package tui provides the Bubble Tea study interface.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/studybuddy/internal/config"
	"github.com/verte-zerg/studybuddy/internal/deck"
	"github.com/verte-zerg/studybuddy/internal/model"
	statsPkg "github.com/verte-zerg/studybuddy/internal/stats"
	"github.com/verte-zerg/studybuddy/internal/store"
	"github.com/verte-zerg/studybuddy/internal/study"
	"github.com/verte-zerg/studybuddy/internal/theme"
)

const (
	noticeTTL    = 3 * time.Second
	loadTimeout  = 15 * time.Second
	storeTimeout = 5 * time.Second
)

// Notification texts.
const (
	noticeQuiz  = "Quiz mode activated! Cards have been shuffled."
	noticeReset = "Session reset successfully!"
)

// Loader resolves the deck to study.
type Loader func(ctx context.Context) (deck.Result, error)

// Judger receives every judgement after the engine applied it.
type Judger interface {
	Judged(j study.Judgement, elapsedMs int64)
}

// Options wires the study model to its collaborators. Store, Reporter and
// StatePath are optional.
type Options struct {
	Config    model.Config
	Loader    Loader
	Store     *store.Store
	Reporter  Judger
	Logger    *slog.Logger
	Clock     study.Clock
	Source    study.Source
	Theme     theme.Theme
	StatePath string
}

type deckMsg struct {
	res deck.Result
	err error
}

type tickMsg time.Time

type advanceMsg struct{ seq int }

type noticeExpiredMsg struct{ seq int }

type cardTally struct {
	question  string
	correct   int
	incorrect int
}

// Model implements the Bubble Tea study UI.
type Model struct {
	opts   Options
	engine *study.Engine
	clock  study.Clock
	logger *slog.Logger
	theme  theme.Theme
	styles theme.Styles

	width  int
	height int

	loading bool
	empty   bool
	loadErr error

	deckKey      string
	fromFallback bool
	quiz         bool

	revealed   bool
	startedAt  time.Time
	timerBase  int64
	tallies    map[int64]*cardTally
	tallyOrder []int64
	complete   *study.SessionComplete
	saved      bool

	advancePending bool
	advanceSeq     int

	notice    string
	noticeSeq int

	hasLast     bool
	lastRate    float64
	lastAcc     float64
	allAcc      float64
	allSessions int
}

// NewModel constructs a study TUI model. The deck is fetched by Init.
func NewModel(opts Options) *Model {
	if opts.Clock == nil {
		opts.Clock = study.SystemClock{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Theme.Name == "" {
		opts.Theme = theme.Default
	}
	if opts.Source == nil {
		opts.Source = study.NewSource(opts.Config.Seed)
	}
	m := &Model{
		opts:    opts,
		engine:  study.New(opts.Clock, opts.Source),
		clock:   opts.Clock,
		logger:  opts.Logger,
		theme:   opts.Theme,
		styles:  opts.Theme.Styles(),
		loading: true,
		quiz:    opts.Config.Quiz,
		tallies: map[int64]*cardTally{},
	}
	m.engine.Subscribe(m.onEvent)
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.loadDeck(), tick())
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case deckMsg:
		return m, m.handleDeck(msg)
	case tickMsg:
		return m, tick()
	case advanceMsg:
		if msg.seq != m.advanceSeq || !m.advancePending {
			return m, nil
		}
		m.advancePending = false
		if err := m.engine.Advance(); err != nil {
			m.logger.Debug("advance skipped", "err", err)
		}
		return m, nil
	case noticeExpiredMsg:
		if msg.seq == m.noticeSeq {
			m.notice = ""
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "ctrl+c", "q":
		m.saveSession()
		return m, tea.Quit
	case "d":
		m.toggleTheme()
		return m, nil
	}

	if m.engine.Len() == 0 {
		if key == "f" && !m.loading {
			return m, m.handleDeck(deckMsg{res: deck.FallbackResult()})
		}
		return m, nil
	}

	if msg.Type == tea.KeySpace || msg.Type == tea.KeyEnter {
		if m.complete == nil {
			m.revealed = !m.revealed
		}
		return m, nil
	}

	switch key {
	case "right", "l":
		m.cancelAdvance()
		m.logIfErr("advance", m.engine.Advance())
	case "left", "h":
		m.cancelAdvance()
		m.logIfErr("retreat", m.engine.Retreat())
	case "y":
		return m, m.judge(true)
	case "n":
		return m, m.judge(false)
	case "s":
		m.saveSession()
		m.quiz = true
		m.logIfErr("start quiz", m.engine.StartQuiz(true))
		return m, m.setNotice(noticeQuiz)
	case "r":
		m.saveSession()
		m.logIfErr("reset session", m.engine.ResetSession())
		return m, m.setNotice(noticeReset)
	case "t":
		m.logIfErr("toggle timer", m.engine.ToggleTimer())
	case "T":
		m.logIfErr("reset timer", m.engine.ResetTimer())
		m.timerBase = 0
	}
	return m, nil
}

func (m *Model) judge(correct bool) tea.Cmd {
	if m.complete != nil || m.advancePending {
		return nil
	}
	j, err := m.engine.RecordJudgement(correct)
	if err != nil {
		m.logIfErr("record judgement", err)
		return nil
	}
	if m.opts.Reporter != nil {
		m.opts.Reporter.Judged(j, m.engine.TimerState().ElapsedMs)
	}
	if !j.AdvanceScheduled {
		return nil
	}
	m.advancePending = true
	seq := m.advanceSeq
	delay := m.opts.Config.AutoAdvance
	if delay <= 0 {
		delay = study.AutoAdvanceDelay
	}
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return advanceMsg{seq: seq}
	})
}

func (m *Model) cancelAdvance() {
	m.advancePending = false
	m.advanceSeq++
}

// onEvent keeps the per-run view state in step with the engine.
func (m *Model) onEvent(ev study.Event) {
	switch ev.Kind {
	case study.EventDeckLoaded, study.EventShuffled, study.EventSessionReset:
		m.beginRun()
	case study.EventCursorMoved:
		m.revealed = false
	case study.EventJudged:
		if ev.Judgement != nil {
			m.tally(ev.Judgement.Card, ev.Judgement.Correct)
		}
	case study.EventSessionComplete:
		m.complete = ev.Complete
		m.saveSession()
	}
}

func (m *Model) beginRun() {
	m.cancelAdvance()
	m.revealed = false
	m.complete = nil
	m.saved = false
	m.startedAt = m.clock.Now()
	m.timerBase = m.engine.TimerState().ElapsedMs
	m.tallies = map[int64]*cardTally{}
	m.tallyOrder = nil
}

func (m *Model) tally(card model.Card, correct bool) {
	entry, ok := m.tallies[card.ID]
	if !ok {
		entry = &cardTally{question: card.Question}
		m.tallies[card.ID] = entry
		m.tallyOrder = append(m.tallyOrder, card.ID)
	}
	if correct {
		entry.correct++
	} else {
		entry.incorrect++
	}
}

func (m *Model) loadDeck() tea.Cmd {
	loader := m.opts.Loader
	if loader == nil {
		return func() tea.Msg {
			return deckMsg{err: errors.New("no deck loader configured")}
		}
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		res, err := loader(ctx)
		return deckMsg{res: res, err: err}
	}
}

func (m *Model) handleDeck(msg deckMsg) tea.Cmd {
	m.loading = false
	m.empty = false
	m.loadErr = nil
	if msg.err != nil {
		if errors.Is(msg.err, study.ErrEmptyDeck) {
			m.empty = true
			return nil
		}
		m.logger.Error("failed to load cards", "err", msg.err)
		m.loadErr = msg.err
		return nil
	}
	if len(msg.res.Cards) == 0 {
		m.empty = true
		return nil
	}

	cards, focusNote := m.focusCards(msg.res)
	if err := m.engine.LoadDeck(cards); err != nil {
		m.logger.Error("failed to load deck", "deck", msg.res.Key, "err", err)
		m.loadErr = err
		return nil
	}
	m.deckKey = msg.res.Key
	m.fromFallback = msg.res.FromFallback
	m.logger.Info("deck loaded", "deck", m.deckKey, "cards", len(cards), "fallback", m.fromFallback)
	m.loadFooterStats()

	var cmds []tea.Cmd
	if m.quiz {
		m.logIfErr("start quiz", m.engine.StartQuiz(true))
		cmds = append(cmds, m.setNotice(noticeQuiz))
	} else if focusNote != "" {
		cmds = append(cmds, m.setNotice(focusNote))
	}
	m.logIfErr("start timer", m.engine.StartTimer())
	return tea.Batch(cmds...)
}

// focusCards narrows the deck to the weakest cards of recent sessions when
// focus mode is on and history exists.
func (m *Model) focusCards(res deck.Result) ([]model.Card, string) {
	cfg := m.opts.Config
	if !cfg.FocusWeak || m.opts.Store == nil {
		return res.Cards, ""
	}
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	aggs, err := m.opts.Store.GetWeakCards(ctx, cfg.WeakWindow, res.Key)
	if err != nil {
		m.logger.Error("failed to load weak cards", "err", err)
		return res.Cards, ""
	}
	ids := statsPkg.SelectWeakCards(aggs, cfg.WeakTop)
	if len(ids) == 0 {
		m.logger.Info("no weak cards yet; studying the full deck", "deck", res.Key)
		return res.Cards, ""
	}
	cards := deck.FilterWeak(res.Cards, ids)
	if len(cards) == len(res.Cards) {
		return cards, ""
	}
	return cards, fmt.Sprintf("Focusing on %d weak cards.", len(cards))
}

func (m *Model) saveSession() {
	if m.saved || m.opts.Store == nil {
		return
	}
	st := m.engine.Stats()
	if st.Total == 0 {
		return
	}
	m.saved = true
	rec := model.SessionRecord{
		StartedAt:  m.startedAt,
		EndedAt:    m.clock.Now(),
		DeckKey:    m.deckKey,
		Quiz:       m.quiz,
		DeckSize:   m.engine.Len(),
		Correct:    st.Correct,
		Incorrect:  st.Incorrect,
		DurationMs: m.runElapsedMs(),
	}
	cards := make([]model.CardStats, 0, len(m.tallyOrder))
	for _, id := range m.tallyOrder {
		entry := m.tallies[id]
		cards = append(cards, model.CardStats{
			CardID:    id,
			Question:  entry.question,
			Correct:   entry.correct,
			Incorrect: entry.incorrect,
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	id, err := m.opts.Store.InsertSession(ctx, rec, cards, m.engine.History())
	if err != nil {
		m.logger.Error("failed to save session", "err", err)
		return
	}
	m.logger.Info("session saved", "id", id, "deck", rec.DeckKey, "correct", rec.Correct, "incorrect", rec.Incorrect)
	m.loadFooterStats()
}

// runElapsedMs is the timer time spent in the current run. The timer keeps
// running across resets and shuffles.
func (m *Model) runElapsedMs() int64 {
	return max(0, m.engine.TimerState().ElapsedMs-m.timerBase)
}

func (m *Model) loadFooterStats() {
	if m.opts.Store == nil || m.deckKey == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	sessions, err := m.opts.Store.ListSessions(ctx, model.StatsConfig{Deck: m.deckKey})
	if err != nil {
		m.logger.Error("failed to load session stats", "err", err)
		return
	}
	if len(sessions) == 0 {
		m.hasLast = false
		return
	}
	last := sessions[len(sessions)-1]
	m.lastRate, m.lastAcc = statsPkg.SessionMetrics(last.Correct, last.Incorrect, last.DurationMs)
	m.hasLast = true

	var correct, incorrect int
	var duration int64
	for _, s := range sessions {
		correct += s.Correct
		incorrect += s.Incorrect
		duration += s.DurationMs
	}
	_, m.allAcc = statsPkg.SessionMetrics(correct, incorrect, duration)
	m.allSessions = len(sessions)
}

func (m *Model) toggleTheme() {
	m.theme = theme.Toggle(m.theme)
	m.styles = m.theme.Styles()
	if m.opts.StatePath == "" {
		return
	}
	if err := config.SaveState(m.opts.StatePath, config.State{Theme: m.theme.Name}); err != nil {
		m.logger.Error("failed to save theme", "err", err)
	}
}

func (m *Model) setNotice(text string) tea.Cmd {
	m.noticeSeq++
	m.notice = text
	seq := m.noticeSeq
	return tea.Tick(noticeTTL, func(time.Time) tea.Msg {
		return noticeExpiredMsg{seq: seq}
	})
}

func (m *Model) logIfErr(op string, err error) {
	if err != nil {
		m.logger.Warn("study operation failed", "op", op, "err", err)
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
