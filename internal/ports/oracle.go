package ports

import "context"

// CardView is the subset of card data shared with the Oracle.
type CardView struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Kind        string `json:"kind"`
}

// CombineOutcome is the Oracle's two-case answer to a combination:
// either a new card was created, or the combination is impossible.
// Impossible is a domain verdict, not a transport failure.
type CombineOutcome struct {
	Impossible  bool
	Name        string
	Description string
}

// Judgment resolves a contested placement. Winner is "a" for the
// defending card and "b" for the attacking card.
type Judgment struct {
	Winner string `json:"winner"`
	Reason string `json:"reason"`
}

// CellView describes one board cell for bot decisions.
type CellView struct {
	Category string          `json:"category"`
	Card     *PlacedCardView `json:"card"`
}

// PlacedCardView describes an occupied cell's card for bot decisions.
type PlacedCardView struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Owner       string `json:"owner"` // "player" or "bot"
}

// TableView is the bot's view of a match: its hand, the board and both
// scores.
type TableView struct {
	Hand        []CardView   `json:"hand"`
	Board       [][]CellView `json:"board"`
	BotScore    int          `json:"bot_score"`
	PlayerScore int          `json:"player_score"`
}

// BotCombineDecision lists the hand indices the bot wants to combine.
type BotCombineDecision struct {
	Combine []int `json:"combine"`
}

// BotPlaceDecision names the card and target cell for the bot's
// placement, or Skip to hold its crafted cards.
type BotPlaceDecision struct {
	HandIndex int  `json:"hand_index"`
	TargetRow int  `json:"target_row"`
	TargetCol int  `json:"target_col"`
	Skip      bool `json:"skip"`
}

// Oracle is the generative collaborator answering combine, judge and
// bot-decision requests. Calls may block on network I/O for seconds;
// implementations carry a bounded timeout and no automatic retry.
type Oracle interface {
	// Combine invents the outcome of combining the given cards.
	Combine(ctx context.Context, cards []CardView) (CombineOutcome, error)

	// Judge decides a contest between the defending card (a) and the
	// attacking card (b) within a category.
	Judge(ctx context.Context, category string, defender, attacker CardView) (Judgment, error)

	// BotCombine asks which hand cards the bot should combine.
	BotCombine(ctx context.Context, view TableView) (BotCombineDecision, error)

	// BotPlace asks where the bot should place a crafted card.
	BotPlace(ctx context.Context, view TableView) (BotPlaceDecision, error)

	// GenerateImage produces raw artwork for a crafted card.
	GenerateImage(ctx context.Context, name, description string) ([]byte, error)
}
