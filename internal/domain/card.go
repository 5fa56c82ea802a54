package domain

import (
	"encoding/json"
	"fmt"
)

// CardKind is the closed set of card kinds.
type CardKind int

const (
	// KindMaterial is a consumable input card representing a substance.
	KindMaterial CardKind = iota
	// KindIntent steers the Oracle's combination output. At most one may
	// join a combination, and it is consumed like the materials.
	KindIntent
	// KindCrafted is the output of a successful combination. Crafted cards
	// are material-like for further combinations and placeable on the board.
	KindCrafted
)

// String returns the wire name of the kind.
func (k CardKind) String() string {
	switch k {
	case KindMaterial:
		return "material"
	case KindIntent:
		return "intent"
	case KindCrafted:
		return "crafted"
	default:
		return "unknown"
	}
}

// ParseCardKind maps a wire name back to a CardKind.
func ParseCardKind(s string) (CardKind, error) {
	switch s {
	case "material":
		return KindMaterial, nil
	case "intent":
		return KindIntent, nil
	case "crafted":
		return KindCrafted, nil
	default:
		return KindMaterial, fmt.Errorf("unknown card kind %q", s)
	}
}

// MaterialLike reports whether the card counts as a material input for
// a combination. Intents are the only kind that does not.
func (k CardKind) MaterialLike() bool {
	switch k {
	case KindMaterial, KindCrafted:
		return true
	case KindIntent:
		return false
	default:
		return false
	}
}

// MarshalJSON keeps the wire format ("material"/"intent"/"crafted")
// compatible with existing clients and cache documents.
func (k CardKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *CardKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseCardKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// BaseCard is a card from the configured pool (material or intent).
type BaseCard struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Kind        CardKind `json:"kind"`
	ImagePath   string   `json:"image_path"`
	ID          string   `json:"id"`
}

// Card is a card in a player's hand: a base card or a crafted card.
type Card struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Kind        CardKind `json:"kind"`
	ImagePath   string   `json:"image_path"`
	ID          string   `json:"id"`
	// MintRef links the card to an externally minted token, if any.
	MintRef string `json:"nft_mint,omitempty"`
	// ArtPending marks a crafted card committed before its artwork was
	// generated (deferred-image crafting). Finalize clears it.
	ArtPending bool `json:"art_pending,omitempty"`
}

// FromBase builds a hand card from a base pool card.
func FromBase(base BaseCard) Card {
	return Card{
		Name:        base.Name,
		Description: base.Description,
		Kind:        base.Kind,
		ImagePath:   base.ImagePath,
		ID:          base.ID,
	}
}

// PlacedCard is a crafted card occupying a board cell.
type PlacedCard struct {
	Card  Card `json:"card"`
	Owner int  `json:"owner"` // 0 or 1
}

// BoardCell is one of nine category slots. The category label is
// assigned at match creation and never changes.
type BoardCell struct {
	Category string      `json:"category"`
	Card     *PlacedCard `json:"card,omitempty"`
}
