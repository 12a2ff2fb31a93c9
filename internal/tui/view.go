package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/studybuddy/internal/model"
	statsPkg "github.com/verte-zerg/studybuddy/internal/stats"
	"github.com/verte-zerg/studybuddy/internal/study"
)

const (
	minContentWidth = 24
	maxContentWidth = 96
	chartHeight     = 6
	helpLine        = "space flip · ←/→ move · y/n judge · s quiz · r reset · t timer · T reset timer · d theme · q quit"
)

// View implements tea.Model.
func (m *Model) View() string {
	width := m.contentWidth()
	var content string
	switch {
	case m.loading:
		content = m.styles.Muted.Render("Loading cards…")
	case m.loadErr != nil:
		content = m.renderLoadError(width)
	case m.empty || m.engine.Len() == 0:
		content = m.renderEmpty(width)
	default:
		content = m.renderSession(width)
	}
	if m.notice != "" {
		content = m.styles.Notice.Render(m.notice) + "\n\n" + content
	}
	if m.width == 0 || m.height == 0 {
		return content
	}
	footer := m.renderFooter()
	if footer == "" || m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	bodyHeight := m.height - 1
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) contentWidth() int {
	if m.width == 0 {
		return 60
	}
	w := int(float64(m.width) * 0.70)
	return min(max(w, minContentWidth), maxContentWidth)
}

func (m *Model) renderSession(width int) string {
	sections := []string{m.renderHeader(width)}
	if m.complete != nil {
		sections = append(sections, m.renderComplete(width))
	} else {
		sections = append(sections, m.renderCard(width))
	}
	sections = append(sections, m.renderProgress(width), m.renderStatsLine())
	if chart := m.renderChart(width); chart != "" {
		sections = append(sections, chart)
	}
	sections = append(sections, m.styles.Muted.Render(truncate(helpLine, width)))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) renderHeader(width int) string {
	left := m.styles.Title.Render("studybuddy") + " " + m.styles.Muted.Render(m.deckLabel())
	right := m.styles.Accent.Render(fmt.Sprintf("Card %d / %d  %d%%",
		m.engine.Position()+1, m.engine.Len(), m.engine.ProgressPercent()))
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return left + "\n" + right
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m *Model) deckLabel() string {
	label := m.deckKey
	if m.fromFallback {
		label += " (offline)"
	}
	if m.quiz {
		label += " · quiz"
	}
	return label
}

func (m *Model) renderCard(width int) string {
	card, err := m.engine.CurrentCard()
	if err != nil {
		return ""
	}
	label, text := "Question", card.Question
	if m.revealed {
		label, text = "Answer", card.Answer
	}
	inner := max(width-6, 1)
	lines := []string{m.styles.Muted.Render(label), ""}
	for _, line := range wrapText(text, inner) {
		lines = append(lines, m.styles.Text.Render(line))
	}
	if !m.revealed && card.Hint != "" {
		lines = append(lines, "")
		for _, line := range wrapText("Hint: "+card.Hint, inner) {
			lines = append(lines, m.styles.Muted.Render(line))
		}
	}
	if m.revealed {
		lines = append(lines, "", m.styles.Muted.Render("y correct · n incorrect"))
	}
	return m.styles.Card.Width(width - 2).Render(strings.Join(lines, "\n"))
}

func (m *Model) renderComplete(width int) string {
	c := m.complete
	lines := []string{
		m.styles.Title.Render("Session Complete!"),
		"",
		m.styles.Correct.Render(fmt.Sprintf("Correct: %d", c.Stats.Correct)),
		m.styles.Incorrect.Render(fmt.Sprintf("Incorrect: %d", c.Stats.Incorrect)),
		fmt.Sprintf("Accuracy: %d%%", c.AccuracyPercent),
		fmt.Sprintf("Time: %s", study.FormatElapsed(c.ElapsedMs)),
		"",
		m.styles.Accent.Render(c.Verdict()),
		"",
		m.styles.Muted.Render("r restart · s shuffle · q quit"),
	}
	return m.styles.Panel.Width(width - 2).Render(strings.Join(lines, "\n"))
}

func (m *Model) renderProgress(width int) string {
	data, err := m.engine.SnapshotChartData()
	if err != nil {
		return ""
	}
	counts := fmt.Sprintf(" %d/%d/%d", data.Progress.Correct, data.Progress.Incorrect, data.Progress.Remaining)
	barWidth := max(width-lipgloss.Width(counts), 1)
	return m.progressBar(data.Progress, barWidth) + m.styles.Muted.Render(counts)
}

func (m *Model) progressBar(p model.Progress, width int) string {
	c, i, r := statsPkg.ProgressSegments(p, width)
	return m.styles.Correct.Render(strings.Repeat(statsPkg.GlyphCorrect, c)) +
		m.styles.Incorrect.Render(strings.Repeat(statsPkg.GlyphIncorrect, i)) +
		m.styles.Remaining.Render(strings.Repeat(statsPkg.GlyphRemaining, r))
}

func (m *Model) renderStatsLine() string {
	st := m.engine.Stats()
	timer := m.engine.TimerState()
	clock := study.FormatElapsed(timer.ElapsedMs)
	if !timer.Running {
		clock += " (paused)"
	}
	return strings.Join([]string{
		m.styles.Correct.Render(fmt.Sprintf("✓ %d", st.Correct)),
		m.styles.Incorrect.Render(fmt.Sprintf("✗ %d", st.Incorrect)),
		m.styles.Text.Render(fmt.Sprintf("Accuracy %d%%", statsPkg.AccuracyPercent(st.Correct, st.Total))),
		m.styles.Accent.Render("Time " + clock),
	}, "   ")
}

func (m *Model) renderChart(width int) string {
	if m.height > 0 && m.height < 30 {
		return ""
	}
	samples := m.engine.History()
	if len(samples) == 0 {
		return ""
	}
	var b strings.Builder
	plotWidth := statsPkg.PlotWidthFor(width)
	if err := statsPkg.RenderPerformance(&b, samples, plotWidth, chartHeight, false); err != nil {
		m.logger.Debug("performance chart skipped", "err", err)
		return ""
	}
	return m.styles.Muted.Render(strings.TrimRight(b.String(), "\n"))
}

func (m *Model) renderEmpty(width int) string {
	lines := []string{
		m.styles.Title.Render("No Cards in This Deck"),
		"",
		m.styles.Text.Render("This deck doesn't have any flashcards yet."),
		"",
		m.styles.Muted.Render("f study the built-in deck · q quit"),
	}
	return m.styles.Panel.Width(width - 2).Render(strings.Join(lines, "\n"))
}

func (m *Model) renderLoadError(width int) string {
	inner := max(width-4, 1)
	lines := []string{m.styles.Title.Render("Could not load cards"), ""}
	for _, line := range wrapText(m.loadErr.Error(), inner) {
		lines = append(lines, m.styles.Incorrect.Render(line))
	}
	lines = append(lines, "", m.styles.Muted.Render("f study the built-in deck · q quit"))
	return m.styles.Panel.Width(width - 2).Render(strings.Join(lines, "\n"))
}

func (m *Model) renderFooter() string {
	if m.engine.Len() == 0 {
		return ""
	}
	segments := []string{fmt.Sprintf("Progress %d%%", m.engine.ProgressPercent())}
	if m.hasLast {
		segments = append(segments, fmt.Sprintf("Last %.1f cards/min · %.1f%%", m.lastRate, m.lastAcc*100))
		segments = append(segments, fmt.Sprintf("All-time %.1f%% over %d sessions", m.allAcc*100, m.allSessions))
	}
	return m.styles.Muted.Render(strings.Join(segments, "  "))
}

func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	lines := wrapText(s, max(width-1, 1))
	return lines[0] + "…"
}
