package app

// Selection and discard bounds for player operations. Centralized so
// tests and local runs can adjust the rules in one place.
const (
	// MinCombineCards and MaxCombineCards bound a combine selection.
	MinCombineCards = 2
	MaxCombineCards = 4

	// MaxDiscardCards bounds a single discard.
	MaxDiscardCards = 3

	// MaxSeedCards bounds how many externally owned cards can seed a
	// new match hand.
	MaxSeedCards = 4
)
