package chatui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type spanKind int

const (
	spanText spanKind = iota
	spanBold
	spanItalic
	spanCode
)

type span struct {
	kind spanKind
	text string
}

// markers are tried in order at each position, so "**" wins over "*".
var markers = []struct {
	open string
	kind spanKind
}{
	{"**", spanBold},
	{"*", spanItalic},
	{"`", spanCode},
}

// parseSpans splits a bot message into plain, bold, italic and code spans.
// A marker without a closing partner is kept as text.
func parseSpans(msg string) []span {
	var out []span
	var plain strings.Builder
	flush := func() {
		if plain.Len() > 0 {
			out = append(out, span{kind: spanText, text: plain.String()})
			plain.Reset()
		}
	}
	for i := 0; i < len(msg); {
		matched := false
		for _, mk := range markers {
			if !strings.HasPrefix(msg[i:], mk.open) {
				continue
			}
			rest := msg[i+len(mk.open):]
			end := strings.Index(rest, mk.open)
			if end <= 0 {
				continue
			}
			flush()
			out = append(out, span{kind: mk.kind, text: rest[:end]})
			i += len(mk.open)*2 + end
			matched = true
			break
		}
		if !matched {
			plain.WriteByte(msg[i])
			i++
		}
	}
	flush()
	return out
}

type spanStyles struct {
	bold   lipgloss.Style
	italic lipgloss.Style
	code   lipgloss.Style
}

func renderSpans(spans []span, st spanStyles) string {
	var b strings.Builder
	for _, s := range spans {
		switch s.kind {
		case spanBold:
			b.WriteString(st.bold.Render(s.text))
		case spanItalic:
			b.WriteString(st.italic.Render(s.text))
		case spanCode:
			b.WriteString(st.code.Render(s.text))
		default:
			b.WriteString(s.text)
		}
	}
	return b.String()
}

// plainText drops the formatting markers of a bot message.
func plainText(msg string) string {
	var b strings.Builder
	for _, s := range parseSpans(msg) {
		b.WriteString(s.text)
	}
	return b.String()
}
