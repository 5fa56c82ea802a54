package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestApplyEnvOverrides(t *testing.T) {
	c := Defaults()
	c.applyEnv(map[string]string{
		"forgeboard_generation_url":             "http://gateway:9000",
		"forgeboard_generation_timeout_seconds": "30",
		"forgeboard_ticket_secret":              "s3cret",
		"forgeboard_generation_unknown":         "ignored",
	})

	if c.GenerationURL != "http://gateway:9000" {
		t.Fatalf("GenerationURL = %q", c.GenerationURL)
	}
	if c.GenerationTimeoutSeconds != 30 {
		t.Fatalf("GenerationTimeoutSeconds = %d", c.GenerationTimeoutSeconds)
	}
	if c.TicketSecret != "s3cret" {
		t.Fatalf("TicketSecret = %q", c.TicketSecret)
	}
	if c.CardsPath != Defaults().CardsPath {
		t.Fatalf("CardsPath changed: %q", c.CardsPath)
	}
}

func TestApplyEnvRejectsBadTimeout(t *testing.T) {
	c := Defaults()
	c.applyEnv(map[string]string{"forgeboard_generation_timeout_seconds": "soon"})
	if c.GenerationTimeoutSeconds != Defaults().GenerationTimeoutSeconds {
		t.Fatalf("GenerationTimeoutSeconds = %d", c.GenerationTimeoutSeconds)
	}
}

func TestFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.json")
	body := `{"generation_url":"http://file:8000","art_dir":"/data/art"}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	c := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if err := json.Unmarshal(data, &c); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if c.GenerationURL != "http://file:8000" || c.ArtDir != "/data/art" {
		t.Fatalf("config = %+v", c)
	}
	if c.CategoriesPath != Defaults().CategoriesPath {
		t.Fatalf("CategoriesPath changed: %q", c.CategoriesPath)
	}
}
