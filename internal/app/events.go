package app

// EventKind identifies engine events surfaced to the adapter for
// logging and client responses.
type EventKind string

const (
	EventMatchCreated  EventKind = "match_created"
	EventCardCrafted   EventKind = "card_crafted"
	EventCardPlaced    EventKind = "card_placed"
	EventCellConquered EventKind = "cell_conquered"
	EventPlaceDefended EventKind = "place_defended"
	EventTurnEnded     EventKind = "turn_ended"
	EventMatchEnded    EventKind = "match_ended"
	EventBotSkipped    EventKind = "bot_skipped"
)

// Event is an engine event emitted alongside an operation's result.
type Event struct {
	Kind    EventKind
	Payload any
}

type MatchCreatedPayload struct {
	MatchID string
	Mode    string
}

type CardCraftedPayload struct {
	MatchID string
	Player  int
	Name    string
	IsNew   bool
}

type CardPlacedPayload struct {
	MatchID  string
	Player   int
	Category string
	Row      int
	Col      int
}

type TurnEndedPayload struct {
	MatchID    string
	NextPlayer int
}

type MatchEndedPayload struct {
	MatchID string
	Winner  int
}
