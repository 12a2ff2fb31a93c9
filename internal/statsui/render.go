package statsui

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/studybuddy/internal/model"
	"github.com/verte-zerg/studybuddy/internal/stats"
)

const (
	plotHeight     = 10
	topCardsShown  = 5
	minQuestionCol = 12
)

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		style := m.styles.Tab
		if i == m.activeTab {
			style = m.styles.TabActive
		}
		parts = append(parts, style.Padding(0, 1).Render(tab))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	return m.renderTabs() + "\n" + m.renderFilterSummary()
}

func (m *Model) renderFilterSummary() string {
	deckKey := m.cfg.Deck
	if deckKey == "" {
		deckKey = "any"
	}
	since := "any"
	if m.cfg.Since != nil {
		since = m.cfg.Since.Format("2006-01-02")
	}
	last := "all"
	if m.cfg.Last > 0 {
		last = strconv.Itoa(m.cfg.Last)
	}
	summary := fmt.Sprintf("Filters: deck=%s  since=%s  last=%s  window=%d", deckKey, since, last, m.cfg.CurveWindow)
	return m.styles.Muted.Render(truncateLine(summary, m.width))
}

func (m *Model) renderFooter() string {
	if m.filterMode {
		return m.styles.Muted.Render("tab/shift+tab: next field  enter: apply  esc: cancel")
	}
	help := m.styles.Muted.Render(truncateLine("Tabs: left/right  Scroll: up/down/pgup/pgdn  Window: -/=  Filters: /  Quit: q", m.width))
	if m.errMsg != "" {
		return help + "\n" + m.styles.Incorrect.Render(truncateLine(m.errMsg, m.width))
	}
	return help
}

func (m *Model) renderFilterForm() string {
	lines := []string{m.styles.Title.Render("Filters (enter to apply, esc to cancel)")}
	for _, input := range m.filterInputs {
		lines = append(lines, input.View())
	}
	lines = append(lines, m.styles.Muted.Render("Deck accepts a deck id or a key such as deck:3, file:<path>, all, fallback."))
	if m.filterError != "" {
		lines = append(lines, m.styles.Incorrect.Render(m.filterError))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderBody(height int) string {
	if m.filterMode {
		return m.renderFilterForm()
	}
	if m.activeTab == tabCards {
		switch {
		case len(m.report.Sessions) == 0:
			return "No sessions found."
		case len(m.report.CardAggsWindow) == 0:
			return "No card stats found."
		default:
			return m.cardTable.View()
		}
	}
	return m.viewports[m.activeTab].View()
}

func (m *Model) renderOverview(width int) string {
	sessions := m.report.Sessions
	if len(sessions) == 0 {
		return "No sessions found."
	}
	parts := []string{m.renderSummaryCards(sessions, width)}
	if top := m.renderTopCards(); top != "" {
		parts = append(parts, top)
	}
	var buf bytes.Buffer
	if err := stats.RenderCurvesWithSize(&buf, sessions, m.cfg.CurveWindow, width, plotHeight, true); err != nil {
		parts = append(parts, fmt.Sprintf("Failed to render curves: %v", err))
	} else {
		parts = append(parts, strings.TrimRight(buf.String(), "\n"))
	}
	return strings.Join(parts, "\n\n")
}

func (m *Model) renderSummaryCards(sessions []model.SessionAggregate, width int) string {
	var totalRate, totalAcc, bestAcc float64
	var judged int
	var studyMs int64
	for _, s := range sessions {
		rate, acc := stats.SessionMetrics(s.Correct, s.Incorrect, s.DurationMs)
		totalRate += rate
		totalAcc += acc
		bestAcc = max(bestAcc, acc)
		judged += s.Correct + s.Incorrect
		studyMs += s.DurationMs
	}
	count := float64(len(sessions))
	cards := []string{
		m.metricCard("Sessions", strconv.Itoa(len(sessions))),
		m.metricCard("Cards judged", strconv.Itoa(judged)),
		m.metricCard("Study time", stats.FormatDuration(studyMs)),
		m.metricCard("Avg accuracy", fmt.Sprintf("%.1f%%", totalAcc/count*100)),
		m.metricCard("Best accuracy", fmt.Sprintf("%.1f%%", bestAcc*100)),
		m.metricCard("Avg cards/min", fmt.Sprintf("%.1f", totalRate/count)),
	}
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
	row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4], cards[5])
	return lipgloss.JoinVertical(lipgloss.Left, row1, row2)
}

func (m *Model) metricCard(label, value string) string {
	content := m.styles.Muted.Render(label) + "\n" + m.styles.Title.Render(value)
	return m.styles.Panel.Width(18).Render(content)
}

func (m *Model) renderTopCards() string {
	top := stats.TopCardsByAttempts(m.report.CardAggsAll, topCardsShown)
	if len(top) == 0 {
		return ""
	}
	lines := []string{m.styles.Title.Render("Most studied")}
	for _, agg := range top {
		total := agg.Correct + agg.Incorrect
		lines = append(lines, fmt.Sprintf("%-40s %3d attempts  %3d%%  %s",
			truncateLine(agg.Question, 40),
			total,
			stats.AccuracyPercent(agg.Correct, total),
			stats.Mastery(agg.Correct, agg.Incorrect)))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderLastSession(width int) string {
	sessions := m.report.Sessions
	if len(sessions) == 0 {
		return "No sessions found."
	}
	last := sessions[len(sessions)-1]
	total := last.Correct + last.Incorrect
	header := fmt.Sprintf("Session #%d  %s  ended %s  %d correct / %d incorrect  %d%%  %s",
		last.SessionID,
		last.DeckKey,
		last.EndedAt.Local().Format("2006-01-02 15:04"),
		last.Correct,
		last.Incorrect,
		stats.AccuracyPercent(last.Correct, total),
		stats.FormatDuration(last.DurationMs))
	var buf bytes.Buffer
	if err := stats.RenderPerformance(&buf, m.report.LastSamples, stats.PlotWidthFor(width), plotHeight, true); err != nil {
		return header + "\n\n" + fmt.Sprintf("Failed to render performance: %v", err)
	}
	return m.styles.Title.Render(header) + "\n\n" + strings.TrimRight(buf.String(), "\n")
}

func cardColumns(width int) []table.Column {
	columns := []table.Column{
		{Title: "Card", Width: 5},
		{Title: "Question", Width: minQuestionCol},
		{Title: "Accuracy", Width: 9},
		{Title: "Correct", Width: 8},
		{Title: "Incorrect", Width: 10},
		{Title: "Mastery", Width: 13},
	}
	fixed := len(columns) // one cell of padding per column
	for i, col := range columns {
		if i != 1 {
			fixed += col.Width
		}
	}
	columns[1].Width = max(width-fixed, minQuestionCol)
	return columns
}

func (m *Model) questionWidth() int {
	width := m.width
	if width <= 0 {
		width = 80
	}
	return cardColumns(width)[1].Width
}

func cardRows(aggs []model.CardAggregate, questionWidth int) []table.Row {
	cells := stats.CardTableRows(aggs, questionWidth)
	rows := make([]table.Row, len(cells))
	for i, row := range cells {
		rows[i] = table.Row(row)
	}
	return rows
}

func (m *Model) tableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = m.styles.Muted.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		Bold(true).
		PaddingRight(1)
	styles.Cell = m.styles.Text.PaddingRight(1)
	styles.Selected = m.styles.Accent.Bold(true)
	return styles
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
