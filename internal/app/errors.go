package app

import (
	"errors"
	"fmt"
)

// Validation errors: the request itself is malformed. Rejected before
// any mutation.
var (
	ErrSelectionSize  = errors.New("select 2-4 cards to combine")
	ErrBadCardIndex   = errors.New("invalid card index")
	ErrNoMaterial     = errors.New("need at least 1 material card")
	ErrTooManyIntents = errors.New("at most 1 intent allowed")
	ErrBadPosition    = errors.New("invalid board position")
	ErrNotCrafted     = errors.New("only crafted cards can be placed")
	ErrDiscardSize    = errors.New("discard 1-3 cards")
	ErrTooManySeeds   = errors.New("at most 4 minted cards can seed a hand")
	ErrSeedNotOwned   = errors.New("minted card not owned by wallet")
	ErrUnknownCard    = errors.New("unknown card id")
	ErrBadTicket      = errors.New("invalid craft ticket")
)

// Conflict errors: the request is well-formed but the match state
// forbids it. Rejected, no mutation.
var (
	ErrMatchOver     = errors.New("match is over")
	ErrAlreadyPlaced = errors.New("already placed a card this turn")
	ErrCellOwned     = errors.New("you already own this cell")
	ErrNotBotMatch   = errors.New("not a bot match")
	ErrNotBotTurn    = errors.New("not the bot's turn")
)

// ErrMatchNotFound marks an unknown match id.
var ErrMatchNotFound = errors.New("match not found")

// ErrImpossibleCombination is the memoized domain verdict that a
// combination cannot produce a card.
var ErrImpossibleCombination = errors.New("combination not possible")

// UpstreamError wraps a failed Oracle or Renderer call. It reaches the
// human-path caller as a gateway-class failure with no mutation; the
// bot path absorbs it into a turn skip.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

var validationErrors = []error{
	ErrSelectionSize, ErrBadCardIndex, ErrNoMaterial, ErrTooManyIntents,
	ErrBadPosition, ErrNotCrafted, ErrDiscardSize, ErrTooManySeeds,
	ErrSeedNotOwned, ErrUnknownCard, ErrBadTicket,
}

var conflictErrors = []error{
	ErrMatchOver, ErrAlreadyPlaced, ErrCellOwned, ErrNotBotMatch, ErrNotBotTurn,
}

// IsValidation reports whether err belongs to the validation class.
func IsValidation(err error) bool {
	for _, v := range validationErrors {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}

// IsConflict reports whether err belongs to the conflict class.
func IsConflict(err error) bool {
	for _, c := range conflictErrors {
		if errors.Is(err, c) {
			return true
		}
	}
	return false
}

// IsNotFound reports whether err marks an unknown match.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrMatchNotFound)
}

// IsImpossible reports whether err is the impossible-combination verdict.
func IsImpossible(err error) bool {
	return errors.Is(err, ErrImpossibleCombination)
}

// IsUpstream reports whether err wraps an Oracle or Renderer failure.
func IsUpstream(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}
