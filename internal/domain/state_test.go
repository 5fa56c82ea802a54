package domain

import (
	"math/rand"
	"testing"
)

func testPool() *BasePool {
	pool := &BasePool{
		Categories: []string{
			"Cutting", "Burning", "Floating", "Building", "Healing",
			"Hiding", "Digging", "Binding", "Shining", "Freezing",
		},
	}
	for _, name := range []string{"Earth", "Water", "Fire", "Wind"} {
		pool.Materials = append(pool.Materials, BaseCard{
			Name: name,
			Kind: KindMaterial,
			ID:   BaseCardID(name),
		})
	}
	for _, name := range []string{"Sharpen", "Harden"} {
		pool.Intents = append(pool.Intents, BaseCard{
			Name: name,
			Kind: KindIntent,
			ID:   BaseCardID(name),
		})
	}
	return pool
}

func TestNewMatchSetsUpBoardAndHands(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	m := NewMatch("m1", ModePvP, testPool(), rng)

	if m.Phase != PhasePlaying {
		t.Fatalf("phase = %s, want playing", m.Phase)
	}
	if m.CurrentPlayer != 0 {
		t.Fatalf("current player = %d, want 0", m.CurrentPlayer)
	}

	seen := map[string]bool{}
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			cell := m.Board[row][col]
			if cell.Category == "" {
				t.Fatalf("cell (%d,%d) has no category", row, col)
			}
			if seen[cell.Category] {
				t.Fatalf("category %q repeated", cell.Category)
			}
			seen[cell.Category] = true
			if cell.Card != nil {
				t.Fatalf("cell (%d,%d) not empty at start", row, col)
			}
		}
	}

	for p := range m.Players {
		if len(m.Players[p].Hand) != HandSize {
			t.Fatalf("player %d hand = %d cards, want %d", p, len(m.Players[p].Hand), HandSize)
		}
		if m.Players[p].Score != 0 {
			t.Fatalf("player %d score = %d, want 0", p, m.Players[p].Score)
		}
	}
}

func TestReplenishHandStopsAtHandSize(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	pool := testPool()
	m := NewMatch("m1", ModePvP, pool, rng)

	m.Players[0].Hand = m.Players[0].Hand[:3]
	m.ReplenishHand(0, pool, rng)
	if len(m.Players[0].Hand) != HandSize {
		t.Fatalf("hand = %d cards, want %d", len(m.Players[0].Hand), HandSize)
	}

	// A full hand must not grow.
	m.ReplenishHand(0, pool, rng)
	if len(m.Players[0].Hand) != HandSize {
		t.Fatalf("hand grew past %d", HandSize)
	}
}

func TestAdvanceTurn(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	pool := testPool()
	m := NewMatch("m1", ModePvP, pool, rng)

	m.Players[0].Hand = m.Players[0].Hand[:2]
	m.HasPlaced = true

	m.AdvanceTurn(pool, rng)

	if len(m.Players[0].Hand) != HandSize {
		t.Errorf("departing hand = %d, want %d", len(m.Players[0].Hand), HandSize)
	}
	if m.CurrentPlayer != 1 {
		t.Errorf("current player = %d, want 1", m.CurrentPlayer)
	}
	if m.HasPlaced {
		t.Errorf("has_placed not reset")
	}

	m.AdvanceTurn(pool, rng)
	if m.CurrentPlayer != 0 {
		t.Errorf("current player = %d after two turns, want 0", m.CurrentPlayer)
	}
}

func TestCheckWinner(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	m := NewMatch("m1", ModeBot, testPool(), rng)

	m.Players[1].Score = WinScore - 1
	m.CheckWinner()
	if m.Over() {
		t.Fatalf("match ended below win score")
	}

	m.Players[1].Score = WinScore
	m.CheckWinner()
	if !m.Over() {
		t.Fatalf("match not ended at win score")
	}
	if m.Winner == nil || *m.Winner != 1 {
		t.Fatalf("winner = %v, want 1", m.Winner)
	}
}

func TestDrawRatioFavorsMaterials(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	pool := testPool()

	intents := 0
	const draws = 3000
	for i := 0; i < draws; i++ {
		if pool.Draw(rng).Kind == KindIntent {
			intents++
		}
	}

	// Expected ratio is 1/3 regardless of pool composition.
	ratio := float64(intents) / draws
	if ratio < 0.28 || ratio > 0.39 {
		t.Errorf("intent draw ratio = %.3f, want about 0.333", ratio)
	}
}

func TestDrawWithoutIntents(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	pool := testPool()
	pool.Intents = nil

	for i := 0; i < 50; i++ {
		if pool.Draw(rng).Kind != KindMaterial {
			t.Fatalf("drew non-material from material-only pool")
		}
	}
}

func TestCloneIsDeep(t *testing.T) {
	rng := rand.New(rand.NewSource(13))
	m := NewMatch("m1", ModePvP, testPool(), rng)
	m.Board[1][1].Card = &PlacedCard{Card: card("sprout", KindCrafted), Owner: 0}

	clone := m.Clone()
	clone.Players[0].Hand[0].Name = "changed"
	clone.Board[1][1].Card.Owner = 1

	if m.Players[0].Hand[0].Name == "changed" {
		t.Errorf("hand shared between clone and original")
	}
	if m.Board[1][1].Card.Owner == 1 {
		t.Errorf("board shared between clone and original")
	}
}
