package ports

import "context"

// OwnedCard is a minted card a wallet holds on the external ledger.
type OwnedCard struct {
	MintRef string `json:"mint_address"`
	CardID  string `json:"card_id"`
}

// Ledger verifies external card ownership. Minting and payment flows
// live entirely outside the match engine; a nil Ledger disables
// ownership checks at match creation.
type Ledger interface {
	// QueryOwnedCards lists the cards currently held by a wallet.
	QueryOwnedCards(ctx context.Context, wallet string) ([]OwnedCard, error)
}
