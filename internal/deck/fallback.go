// Package deck resolves the cards of a study session: fetched from the
// backend, read from a local file, or taken from the built-in fallback set.
package deck

import "github.com/verte-zerg/studybuddy/internal/model"

var fallbackCards = []model.Card{
	{ID: 1, Question: "What is Python?", Answer: "A high-level programming language known for its simplicity and readability"},
	{ID: 2, Question: "What is Flask?", Answer: "A lightweight web framework for Python that's easy to learn and use"},
	{ID: 3, Question: "What is HTML?", Answer: "HyperText Markup Language - the standard markup language for web pages"},
	{ID: 4, Question: "What is CSS?", Answer: "Cascading Style Sheets - used for styling and layout of web pages"},
	{ID: 5, Question: "What is JavaScript?", Answer: "A programming language that enables interactive web pages and dynamic content"},
	{ID: 6, Question: "What is a function?", Answer: "A reusable block of code that performs a specific task"},
}

// Fallback returns a fresh copy of the built-in deck. Its cards carry no
// deck association, so no per-card telemetry is posted for them.
func Fallback() []model.Card {
	return append([]model.Card(nil), fallbackCards...)
}
