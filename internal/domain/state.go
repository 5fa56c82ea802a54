package domain

import "math/rand"

// Phase represents the lifecycle stage of a match.
type Phase string

const (
	// PhasePlaying is the active state where players craft and place.
	PhasePlaying Phase = "playing"
	// PhaseGameOver is the terminal state once a player reaches WinScore.
	PhaseGameOver Phase = "game_over"
)

// Mode distinguishes human-vs-human from human-vs-bot matches.
type Mode string

const (
	ModePvP Mode = "pvp"
	ModeBot Mode = "bot"
)

// BoardSize is the fixed edge length of the category board.
const BoardSize = 3

// HandSize is the hand size players are replenished to at end of turn.
const HandSize = 7

// WinScore is the number of captured cells required to win.
const WinScore = 5

// BotSeat is the player index the bot occupies in bot-mode matches.
const BotSeat = 1

// PlayerState holds one player's hand, score and optional wallet link.
type PlayerState struct {
	Hand   []Card `json:"hand"`
	Score  int    `json:"score"`
	Wallet string `json:"wallet,omitempty"`
}

// Match holds the authoritative state of a single match instance.
type Match struct {
	ID            string                          `json:"id"`
	Mode          Mode                            `json:"mode"`
	Phase         Phase                           `json:"phase"`
	CurrentPlayer int                             `json:"current_player"`
	Board         [BoardSize][BoardSize]BoardCell `json:"board"`
	Players       [2]PlayerState                  `json:"players"`
	Winner        *int                            `json:"winner,omitempty"`
	// HasPlaced is a turn-scoped flag: one successful placement per turn.
	HasPlaced bool `json:"has_placed"`
}

// NewMatch creates a match with nine randomly chosen distinct categories
// and two randomly drawn hands.
func NewMatch(id string, mode Mode, pool *BasePool, rng *rand.Rand) *Match {
	categories := pool.PickCategories(BoardSize*BoardSize, rng)

	m := &Match{
		ID:    id,
		Mode:  mode,
		Phase: PhasePlaying,
	}
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			m.Board[row][col] = BoardCell{Category: categories[row*BoardSize+col]}
		}
	}
	for p := range m.Players {
		m.ReplenishHand(p, pool, rng)
	}
	return m
}

// ReplenishHand draws random base cards until the player holds HandSize
// cards. Materials are drawn twice as frequently as intents.
func (m *Match) ReplenishHand(player int, pool *BasePool, rng *rand.Rand) {
	for len(m.Players[player].Hand) < HandSize {
		m.Players[player].Hand = append(m.Players[player].Hand, FromBase(pool.Draw(rng)))
	}
}

// AdvanceTurn replenishes the departing player's hand, hands the turn to
// the other player and resets the turn-scoped placement flag.
func (m *Match) AdvanceTurn(pool *BasePool, rng *rand.Rand) {
	m.ReplenishHand(m.CurrentPlayer, pool, rng)
	m.CurrentPlayer = 1 - m.CurrentPlayer
	m.HasPlaced = false
}

// CheckWinner flips the match into its terminal phase once either
// player reaches WinScore. The transition is one-way.
func (m *Match) CheckWinner() {
	for i := range m.Players {
		if m.Players[i].Score >= WinScore {
			winner := i
			m.Winner = &winner
			m.Phase = PhaseGameOver
			return
		}
	}
}

// Over reports whether the match has reached its terminal phase.
func (m *Match) Over() bool {
	return m.Phase == PhaseGameOver
}

// Clone returns a deep copy safe to hand to callers outside the
// per-match lock.
func (m *Match) Clone() *Match {
	out := *m
	for p := range out.Players {
		hand := make([]Card, len(m.Players[p].Hand))
		copy(hand, m.Players[p].Hand)
		out.Players[p].Hand = hand
	}
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			if placed := m.Board[row][col].Card; placed != nil {
				cp := *placed
				out.Board[row][col].Card = &cp
			}
		}
	}
	if m.Winner != nil {
		w := *m.Winner
		out.Winner = &w
	}
	return &out
}
