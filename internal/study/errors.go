package study

import "errors"

var (
	// ErrEmptyDeck is returned by every operation attempted on an empty deck.
	ErrEmptyDeck = errors.New("deck is empty")
	// ErrDuplicateCard is returned when a deck holds two cards with the same id.
	ErrDuplicateCard = errors.New("duplicate card id")
)
