package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"sync"
)

// GameConfig holds the deployment settings for the crafting game.
type GameConfig struct {
	// GenerationURL is the base URL of the generation gateway.
	GenerationURL string `json:"generation_url"`
	// GenerationTimeoutSeconds bounds each gateway request.
	GenerationTimeoutSeconds int `json:"generation_timeout_seconds"`

	CardsPath      string `json:"cards_path"`
	CategoriesPath string `json:"categories_path"`

	// ArtDir is where rendered card images are written; ArtServePrefix is
	// the URL prefix the static file server exposes that directory at.
	ArtDir         string `json:"art_dir"`
	ArtServePrefix string `json:"art_serve_prefix"`

	// TicketSecret signs craft tickets for deferred-image crafting.
	TicketSecret string `json:"ticket_secret"`
}

// Defaults returns the configuration used when no file or overrides are
// present, matching the local docker-compose layout.
func Defaults() GameConfig {
	return GameConfig{
		GenerationURL:            "http://localhost:8000",
		GenerationTimeoutSeconds: 60,
		CardsPath:                "/nakama/data/cards.json",
		CategoriesPath:           "/nakama/data/categories.json",
		ArtDir:                   "/nakama/data/cards/crafted",
		ArtServePrefix:           "/cards/crafted",
	}
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads the game configuration from the given path,
// starting from defaults. A missing file is not an error; the defaults
// stand. Env holds the runtime environment overrides.
func LoadGameConfig(path string, env map[string]string) error {
	loadOnce.Do(func() {
		c := Defaults()

		data, err := os.ReadFile(path)
		if err == nil {
			if err := json.Unmarshal(data, &c); err != nil {
				loadErr = fmt.Errorf("failed to unmarshal game config: %w", err)
				return
			}
		} else if !os.IsNotExist(err) {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}

		c.applyEnv(env)
		cfg = &c
	})
	return loadErr
}

// GetGameConfig returns the global game configuration.
func GetGameConfig() *GameConfig {
	return cfg
}

func (c *GameConfig) applyEnv(env map[string]string) {
	if v, ok := env["forgeboard_generation_url"]; ok {
		c.GenerationURL = v
	}
	if v, ok := env["forgeboard_generation_timeout_seconds"]; ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.GenerationTimeoutSeconds = n
		}
	}
	if v, ok := env["forgeboard_cards_path"]; ok {
		c.CardsPath = v
	}
	if v, ok := env["forgeboard_categories_path"]; ok {
		c.CategoriesPath = v
	}
	if v, ok := env["forgeboard_art_dir"]; ok {
		c.ArtDir = v
	}
	if v, ok := env["forgeboard_art_serve_prefix"]; ok {
		c.ArtServePrefix = v
	}
	if v, ok := env["forgeboard_ticket_secret"]; ok {
		c.TicketSecret = v
	}
}
