package domain

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
)

// BasePool holds the configured base cards and board categories a match
// draws from.
type BasePool struct {
	Materials  []BaseCard
	Intents    []BaseCard
	Categories []string
}

type poolCardFile struct {
	Materials []poolCardEntry `json:"materials"`
	Intents   []poolCardEntry `json:"intents"`
}

type poolCardEntry struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadBasePool reads the base card list and category list from JSON
// files. Base ids are content addresses of the card names; image paths
// follow the static serving layout.
func LoadBasePool(cardsPath, categoriesPath string) (*BasePool, error) {
	cardData, err := os.ReadFile(cardsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read base cards: %w", err)
	}
	var file poolCardFile
	if err := json.Unmarshal(cardData, &file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal base cards: %w", err)
	}

	catData, err := os.ReadFile(categoriesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read categories: %w", err)
	}
	var categories []string
	if err := json.Unmarshal(catData, &categories); err != nil {
		return nil, fmt.Errorf("failed to unmarshal categories: %w", err)
	}

	pool := &BasePool{Categories: categories}
	for _, entry := range file.Materials {
		pool.Materials = append(pool.Materials, BaseCard{
			Name:        entry.Name,
			Description: entry.Description,
			Kind:        KindMaterial,
			ImagePath:   "/cards/materials/" + entry.Name + ".png",
			ID:          BaseCardID(entry.Name),
		})
	}
	for _, entry := range file.Intents {
		pool.Intents = append(pool.Intents, BaseCard{
			Name:        entry.Name,
			Description: entry.Description,
			Kind:        KindIntent,
			ImagePath:   "/cards/intents/" + entry.Name + ".png",
			ID:          BaseCardID(entry.Name),
		})
	}

	if err := pool.Validate(); err != nil {
		return nil, err
	}
	return pool, nil
}

// Validate checks the pool can support match creation.
func (p *BasePool) Validate() error {
	if len(p.Materials) == 0 {
		return fmt.Errorf("base pool has no material cards")
	}
	if len(p.Categories) < BoardSize*BoardSize {
		return fmt.Errorf("need at least %d categories, have %d", BoardSize*BoardSize, len(p.Categories))
	}
	return nil
}

// AllCards returns materials followed by intents.
func (p *BasePool) AllCards() []BaseCard {
	out := make([]BaseCard, 0, len(p.Materials)+len(p.Intents))
	out = append(out, p.Materials...)
	out = append(out, p.Intents...)
	return out
}

// FindByID returns the base card with the given content id.
func (p *BasePool) FindByID(id string) (BaseCard, bool) {
	for _, c := range p.AllCards() {
		if c.ID == id {
			return c, true
		}
	}
	return BaseCard{}, false
}

// Draw returns a random base card. Intents are drawn with 1:2
// probability against materials regardless of how many of each exist.
func (p *BasePool) Draw(rng *rand.Rand) BaseCard {
	if len(p.Intents) > 0 && len(p.Materials) > 0 && rng.Intn(3) == 0 {
		return p.Intents[rng.Intn(len(p.Intents))]
	}
	if len(p.Materials) > 0 {
		return p.Materials[rng.Intn(len(p.Materials))]
	}
	return p.Intents[rng.Intn(len(p.Intents))]
}

// PickCategories shuffles the category list and returns the first n.
func (p *BasePool) PickCategories(n int, rng *rand.Rand) []string {
	cats := make([]string, len(p.Categories))
	copy(cats, p.Categories)
	rng.Shuffle(len(cats), func(i, j int) { cats[i], cats[j] = cats[j], cats[i] })
	return cats[:n]
}
