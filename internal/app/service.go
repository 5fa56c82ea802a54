package app

import (
	"context"
	"math/rand"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/heroiclabs/nakama-common/runtime"

	"forgeboard/internal/cache"
	"forgeboard/internal/domain"
	"forgeboard/internal/ports"
)

// Service implements the match operations on top of the domain rules.
// It owns the match registry, the craft cache and the rng; the Oracle,
// Renderer, ArtStore and Ledger collaborators come in through ports.
//
// All mutating operations run inside the per-match lock, including the
// Oracle round trips, so a hand validated at the top of an operation is
// still the same hand at commit time.
type Service struct {
	logger   runtime.Logger
	store    *MatchStore
	cache    *cache.CraftCache
	oracle   ports.Oracle
	renderer ports.Renderer
	art      ports.ArtStore
	ledger   ports.Ledger
	tickets  *TicketService
	pool     *domain.BasePool

	// rng is shared across matches; randMu serializes draws because the
	// per-match locks do not.
	randMu sync.Mutex
	rng    *rand.Rand
}

// Deps carries the collaborators a Service needs. Ledger may be nil, in
// which case minted-card ownership checks are disabled.
type Deps struct {
	Logger   runtime.Logger
	Store    *MatchStore
	Cache    *cache.CraftCache
	Oracle   ports.Oracle
	Renderer ports.Renderer
	Art      ports.ArtStore
	Ledger   ports.Ledger
	Tickets  *TicketService
	Pool     *domain.BasePool
	Rng      *rand.Rand
}

// NewService wires up a Service from its dependencies.
func NewService(d Deps) *Service {
	return &Service{
		logger:   d.Logger,
		store:    d.Store,
		cache:    d.Cache,
		oracle:   d.Oracle,
		renderer: d.Renderer,
		art:      d.Art,
		ledger:   d.Ledger,
		tickets:  d.Tickets,
		pool:     d.Pool,
		rng:      d.Rng,
	}
}

// CombineResult reports a successful craft. When ImagePending is set
// the crafted card was committed without artwork and the client must
// call FinalizeCombine with CacheKey and Ticket once the art exists.
type CombineResult struct {
	Match        *domain.Match
	Crafted      domain.Card
	IsNew        bool
	ImagePending bool
	CacheKey     string
	Ticket       string
}

// PlaceResult reports the outcome of a placement: "placed" on an empty
// cell, "conquered" or "defended" after a judged contest.
type PlaceResult struct {
	Match    *domain.Match
	Result   string
	Judgment *ports.Judgment
}

// NewMatch creates a match in the given mode. Up to MaxSeedCards
// previously discovered card ids may seed the creator's hand; when a
// ledger is configured each seed must be minted to the given wallet.
func (s *Service) NewMatch(ctx context.Context, mode domain.Mode, wallet string, seedIDs []string) (*domain.Match, error) {
	if len(seedIDs) > MaxSeedCards {
		return nil, ErrTooManySeeds
	}

	seeds, err := s.resolveSeeds(ctx, wallet, seedIDs)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	s.randMu.Lock()
	m := domain.NewMatch(id, mode, s.pool, s.rng)
	s.randMu.Unlock()
	m.Players[0].Wallet = wallet
	for i, seed := range seeds {
		m.Players[0].Hand[i] = seed
	}

	s.store.Add(m)
	s.emit(EventMatchCreated, MatchCreatedPayload{MatchID: m.ID, Mode: string(mode)})
	return m.Clone(), nil
}

// GetMatch returns a snapshot of the match state.
func (s *Service) GetMatch(id string) (*domain.Match, error) {
	return s.store.Snapshot(id)
}

// ListCards returns the configured base pool.
func (s *Service) ListCards() []domain.BaseCard {
	return s.pool.AllCards()
}

// Combine crafts a new card from 2-4 hand cards of the current player.
// The combination id is looked up in the craft cache first; only a miss
// reaches the Oracle. With deferred set, a fresh Oracle result is
// committed immediately with pending artwork and a signed ticket for
// FinalizeCombine; otherwise the artwork is produced inline.
func (s *Service) Combine(ctx context.Context, matchID string, indices []int, deferred bool) (*CombineResult, error) {
	result := &CombineResult{}
	err := s.store.WithMatch(matchID, func(m *domain.Match) error {
		if m.Over() {
			return ErrMatchOver
		}
		if len(indices) < MinCombineCards || len(indices) > MaxCombineCards {
			return ErrSelectionSize
		}

		hand := m.Players[m.CurrentPlayer].Hand
		selected, ok := domain.SelectCards(hand, indices)
		if !ok {
			return ErrBadCardIndex
		}
		materialLike, intents := domain.SelectionProfile(selected)
		if materialLike < 1 {
			return ErrNoMaterial
		}
		if intents > 1 {
			return ErrTooManyIntents
		}

		cacheKey := domain.CraftedCardID(domain.MaterialIDs(selected), domain.IntentID(selected))

		if entry, hit := s.cache.Lookup(cacheKey); hit {
			if entry.Impossible {
				return ErrImpossibleCombination
			}
			result.IsNew = !entry.Discovered
			entry, err := s.cache.MarkDiscovered(ctx, cacheKey)
			if err != nil {
				return err
			}
			result.Crafted = craftedCard(entry)
			s.commitCraft(m, indices, result.Crafted, result.IsNew)
			return nil
		}

		outcome, err := s.oracle.Combine(ctx, combineViews(selected))
		if err != nil {
			return &UpstreamError{Op: "combine", Err: err}
		}
		if outcome.Impossible || impossibleName(outcome.Name) {
			if err := s.cache.Insert(ctx, cache.Entry{ID: cacheKey, Impossible: true}); err != nil {
				return err
			}
			return ErrImpossibleCombination
		}

		result.IsNew = true

		if deferred {
			// The cache entry is written by FinalizeCombine once the art
			// exists; memoizing now would serve artless cards to other
			// combines of the same combination in the meantime.
			ticket, err := s.tickets.Issue(m.ID, cacheKey, outcome.Name, outcome.Description)
			if err != nil {
				return err
			}
			crafted := domain.Card{
				Name:        outcome.Name,
				Description: outcome.Description,
				Kind:        domain.KindCrafted,
				ID:          cacheKey,
				ArtPending:  true,
			}
			s.commitCraft(m, indices, crafted, true)
			result.Crafted = crafted
			result.ImagePending = true
			result.CacheKey = cacheKey
			result.Ticket = ticket
			return nil
		}

		imagePath, err := s.produceArt(ctx, outcome.Name, outcome.Description, cacheKey)
		if err != nil {
			return err
		}
		entry := cache.Entry{
			Name:        outcome.Name,
			Description: outcome.Description,
			ImagePath:   imagePath,
			ID:          cacheKey,
			Discovered:  true,
		}
		if err := s.cache.Insert(ctx, entry); err != nil {
			return err
		}
		result.Crafted = craftedCard(entry)
		s.commitCraft(m, indices, result.Crafted, true)
		return nil
	})
	if err != nil {
		return nil, err
	}

	match, err := s.store.Snapshot(matchID)
	if err != nil {
		return nil, err
	}
	result.Match = match
	return result, nil
}

// FinalizeCombine completes a deferred craft: it produces the artwork,
// updates the cache entry and clears the pending flag on the hand card.
// The ticket must match the craft that issued it. Finalize is
// idempotent; a craft already finalized (or whose card has since left
// the hand) only refreshes the cache entry.
func (s *Service) FinalizeCombine(ctx context.Context, matchID, cacheKey, name, description, ticket string) (*domain.Match, string, error) {
	if err := s.tickets.Verify(ticket, matchID, cacheKey, name, description); err != nil {
		return nil, "", err
	}

	// A retry after a successful finalize reuses the cached art instead
	// of paying for another generation.
	var imagePath string
	if entry, ok := s.cache.Lookup(cacheKey); ok && entry.ImagePath != "" {
		imagePath = entry.ImagePath
	} else {
		// Art generation does not touch match state, so it runs outside
		// the per-match lock.
		var err error
		imagePath, err = s.produceArt(ctx, name, description, cacheKey)
		if err != nil {
			return nil, "", err
		}
		entry := cache.Entry{
			Name:        name,
			Description: description,
			ImagePath:   imagePath,
			ID:          cacheKey,
			Discovered:  true,
		}
		if err := s.cache.Insert(ctx, entry); err != nil {
			return nil, "", err
		}
	}

	err := s.store.WithMatch(matchID, func(m *domain.Match) error {
		if m.Over() {
			return ErrMatchOver
		}
		for p := range m.Players {
			hand := m.Players[p].Hand
			for i := range hand {
				if hand[i].ID == cacheKey && hand[i].ArtPending {
					hand[i].ImagePath = imagePath
					hand[i].ArtPending = false
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, "", err
	}

	match, err := s.store.Snapshot(matchID)
	if err != nil {
		return nil, "", err
	}
	return match, imagePath, nil
}

// Place puts a crafted card from the current player's hand onto a board
// cell. An empty cell is captured outright. An opponent-held cell
// triggers an Oracle judgment: if the defender wins nothing changes and
// the turn placement stays available; if the attacker wins the cell
// changes hands and the previous owner loses a point.
func (s *Service) Place(ctx context.Context, matchID string, handIndex, row, col int) (*PlaceResult, error) {
	result := &PlaceResult{}
	err := s.store.WithMatch(matchID, func(m *domain.Match) error {
		if m.Over() {
			return ErrMatchOver
		}
		if m.HasPlaced {
			return ErrAlreadyPlaced
		}
		if row < 0 || row >= domain.BoardSize || col < 0 || col >= domain.BoardSize {
			return ErrBadPosition
		}
		hand := m.Players[m.CurrentPlayer].Hand
		if handIndex < 0 || handIndex >= len(hand) {
			return ErrBadCardIndex
		}
		card := hand[handIndex]
		if card.Kind != domain.KindCrafted {
			return ErrNotCrafted
		}

		cell := &m.Board[row][col]
		if cell.Card == nil {
			s.commitPlace(m, handIndex, row, col, card)
			result.Result = "placed"
			s.emit(EventCardPlaced, CardPlacedPayload{
				MatchID: m.ID, Player: m.CurrentPlayer, Category: cell.Category, Row: row, Col: col,
			})
			return nil
		}
		if cell.Card.Owner == m.CurrentPlayer {
			return ErrCellOwned
		}

		defender := cell.Card.Card
		judgment, err := s.oracle.Judge(ctx, cell.Category, cardView(defender), cardView(card))
		if err != nil {
			return &UpstreamError{Op: "judge", Err: err}
		}
		result.Judgment = &judgment

		if judgment.Winner == "a" {
			// Defender holds: no mutation, the player may still place
			// elsewhere this turn.
			result.Result = "defended"
			s.emit(EventPlaceDefended, CardPlacedPayload{
				MatchID: m.ID, Player: m.CurrentPlayer, Category: cell.Category, Row: row, Col: col,
			})
			return nil
		}

		prev := cell.Card.Owner
		if m.Players[prev].Score > 0 {
			m.Players[prev].Score--
		}
		s.commitPlace(m, handIndex, row, col, card)
		result.Result = "conquered"
		s.emit(EventCellConquered, CardPlacedPayload{
			MatchID: m.ID, Player: m.CurrentPlayer, Category: cell.Category, Row: row, Col: col,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	match, err := s.store.Snapshot(matchID)
	if err != nil {
		return nil, err
	}
	result.Match = match
	if match.Over() && match.Winner != nil {
		s.emit(EventMatchEnded, MatchEndedPayload{MatchID: match.ID, Winner: *match.Winner})
	}
	return result, nil
}

// Discard drops 1-3 of the current player's cards. Replacements arrive
// with the end-of-turn replenishment, not here, and discarding does not
// end the turn.
func (s *Service) Discard(ctx context.Context, matchID string, indices []int) (*domain.Match, error) {
	err := s.store.WithMatch(matchID, func(m *domain.Match) error {
		if m.Over() {
			return ErrMatchOver
		}
		unique := dedupIndices(indices)
		if len(unique) < 1 || len(unique) > MaxDiscardCards {
			return ErrDiscardSize
		}
		hand := m.Players[m.CurrentPlayer].Hand
		for _, idx := range unique {
			if idx < 0 || idx >= len(hand) {
				return ErrBadCardIndex
			}
		}
		m.Players[m.CurrentPlayer].Hand = domain.RemoveIndices(hand, unique)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.store.Snapshot(matchID)
}

// EndTurn replenishes the current player's hand and hands the turn to
// the opponent.
func (s *Service) EndTurn(ctx context.Context, matchID string) (*domain.Match, error) {
	err := s.store.WithMatch(matchID, func(m *domain.Match) error {
		if m.Over() {
			return ErrMatchOver
		}
		s.randMu.Lock()
		m.AdvanceTurn(s.pool, s.rng)
		s.randMu.Unlock()
		s.emit(EventTurnEnded, TurnEndedPayload{MatchID: m.ID, NextPlayer: m.CurrentPlayer})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.store.Snapshot(matchID)
}

// commitCraft removes every selected card, intents included, and
// appends the crafted card.
func (s *Service) commitCraft(m *domain.Match, indices []int, crafted domain.Card, isNew bool) {
	hand := domain.RemoveIndices(m.Players[m.CurrentPlayer].Hand, indices)
	hand = append(hand, crafted)
	m.Players[m.CurrentPlayer].Hand = hand
	s.emit(EventCardCrafted, CardCraftedPayload{
		MatchID: m.ID, Player: m.CurrentPlayer, Name: crafted.Name, IsNew: isNew,
	})
}

func (s *Service) commitPlace(m *domain.Match, handIndex, row, col int, card domain.Card) {
	m.Board[row][col].Card = &domain.PlacedCard{Card: card, Owner: m.CurrentPlayer}
	m.Players[m.CurrentPlayer].Hand = domain.RemoveIndices(m.Players[m.CurrentPlayer].Hand, []int{handIndex})
	m.Players[m.CurrentPlayer].Score++
	m.HasPlaced = true
	m.CheckWinner()
}

func (s *Service) produceArt(ctx context.Context, name, description, cacheKey string) (string, error) {
	raw, err := s.oracle.GenerateImage(ctx, name, description)
	if err != nil {
		return "", &UpstreamError{Op: "generate image", Err: err}
	}
	rendered, err := s.renderer.RenderCard(ctx, name, raw, domain.KindCrafted.String())
	if err != nil {
		return "", &UpstreamError{Op: "render card", Err: err}
	}
	imagePath, err := s.art.SaveCardArt(name, cacheKey, rendered)
	if err != nil {
		return "", &UpstreamError{Op: "save card art", Err: err}
	}
	return imagePath, nil
}

func (s *Service) resolveSeeds(ctx context.Context, wallet string, seedIDs []string) ([]domain.Card, error) {
	if len(seedIDs) == 0 {
		return nil, nil
	}

	mints := map[string]string{}
	if s.ledger != nil {
		if wallet == "" {
			return nil, ErrSeedNotOwned
		}
		owned, err := s.ledger.QueryOwnedCards(ctx, wallet)
		if err != nil {
			return nil, &UpstreamError{Op: "query owned cards", Err: err}
		}
		for _, o := range owned {
			mints[o.CardID] = o.MintRef
		}
	}

	seeds := make([]domain.Card, 0, len(seedIDs))
	for _, id := range seedIDs {
		if s.ledger != nil {
			if _, ok := mints[id]; !ok {
				return nil, ErrSeedNotOwned
			}
		}
		card, err := s.cardByID(id)
		if err != nil {
			return nil, err
		}
		card.MintRef = mints[id]
		seeds = append(seeds, card)
	}
	return seeds, nil
}

// cardByID resolves a card id against the base pool, then against
// discovered craft cache entries.
func (s *Service) cardByID(id string) (domain.Card, error) {
	if base, ok := s.pool.FindByID(id); ok {
		return domain.FromBase(base), nil
	}
	if entry, ok := s.cache.Lookup(id); ok && !entry.Impossible && entry.Discovered {
		return craftedCard(entry), nil
	}
	return domain.Card{}, ErrUnknownCard
}

func (s *Service) emit(kind EventKind, payload any) {
	if s.logger != nil {
		s.logger.Info("event %s: %+v", kind, payload)
	}
}

func craftedCard(entry cache.Entry) domain.Card {
	return domain.Card{
		Name:        entry.Name,
		Description: entry.Description,
		Kind:        domain.KindCrafted,
		ImagePath:   entry.ImagePath,
		ID:          entry.ID,
	}
}

func combineViews(cards []domain.Card) []ports.CardView {
	views := make([]ports.CardView, 0, len(cards))
	for _, c := range cards {
		kind := "material"
		if c.Kind == domain.KindIntent {
			kind = "intent"
		}
		views = append(views, ports.CardView{Name: c.Name, Description: c.Description, Kind: kind})
	}
	return views
}

func cardView(c domain.Card) ports.CardView {
	return ports.CardView{Name: c.Name, Description: c.Description, Kind: c.Kind.String()}
}

// impossibleName guards against Oracles that answer in prose instead of
// setting the impossible flag.
func impossibleName(name string) bool {
	return strings.Contains(strings.ToLower(name), "not possible")
}

func dedupIndices(indices []int) []int {
	seen := make(map[int]bool, len(indices))
	out := make([]int, 0, len(indices))
	for _, idx := range indices {
		if seen[idx] {
			continue
		}
		seen[idx] = true
		out = append(out, idx)
	}
	return out
}
