// Package generation talks to the generation gateway, the HTTP service
// that answers combine, judge, bot-decision and image requests. It is
// the only Oracle and Renderer implementation in production.
package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"forgeboard/internal/ports"
)

// Client is an HTTP client for the generation gateway. Requests carry
// the bounded timeout of the underlying http.Client and are never
// retried; callers decide how to degrade.
type Client struct {
	baseURL string
	http    *http.Client
}

// New builds a client for the gateway at baseURL.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type combineRequest struct {
	Cards []ports.CardView `json:"cards"`
}

type combineResponse struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Combine asks the gateway to invent the result of a combination. A
// gateway that answers with "not possible" prose instead of a card is
// reported as an impossible outcome, not an error.
func (c *Client) Combine(ctx context.Context, cards []ports.CardView) (ports.CombineOutcome, error) {
	var resp combineResponse
	if err := c.postJSON(ctx, "/combine", combineRequest{Cards: cards}, &resp); err != nil {
		return ports.CombineOutcome{}, err
	}
	if strings.Contains(strings.ToLower(resp.Name), "not possible") {
		return ports.CombineOutcome{Impossible: true}, nil
	}
	return ports.CombineOutcome{Name: resp.Name, Description: resp.Description}, nil
}

type judgeRequest struct {
	Category string    `json:"category"`
	CardA    judgeCard `json:"card_a"`
	CardB    judgeCard `json:"card_b"`
}

type judgeCard struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Judge asks the gateway to resolve a contest. Anything other than an
// explicit "b" counts as a defender win.
func (c *Client) Judge(ctx context.Context, category string, defender, attacker ports.CardView) (ports.Judgment, error) {
	req := judgeRequest{
		Category: category,
		CardA:    judgeCard{Name: defender.Name, Description: defender.Description},
		CardB:    judgeCard{Name: attacker.Name, Description: attacker.Description},
	}
	var judgment ports.Judgment
	if err := c.postJSON(ctx, "/judge", req, &judgment); err != nil {
		return ports.Judgment{}, err
	}
	if judgment.Winner != "b" {
		judgment.Winner = "a"
	}
	return judgment, nil
}

// BotCombine asks which cards the bot should combine.
func (c *Client) BotCombine(ctx context.Context, view ports.TableView) (ports.BotCombineDecision, error) {
	var decision ports.BotCombineDecision
	if err := c.postJSON(ctx, "/bot-combine", view, &decision); err != nil {
		return ports.BotCombineDecision{}, err
	}
	return decision, nil
}

// BotPlace asks where the bot should place a crafted card.
func (c *Client) BotPlace(ctx context.Context, view ports.TableView) (ports.BotPlaceDecision, error) {
	var decision ports.BotPlaceDecision
	if err := c.postJSON(ctx, "/bot-place", view, &decision); err != nil {
		return ports.BotPlaceDecision{}, err
	}
	return decision, nil
}

type imageRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// GenerateImage asks the gateway for raw card artwork.
func (c *Client) GenerateImage(ctx context.Context, name, description string) ([]byte, error) {
	return c.postRaw(ctx, "/generate-image", imageRequest{Name: name, Description: description})
}

type renderRequest struct {
	Name string `json:"name"`
	Art  []byte `json:"art"`
	Kind string `json:"kind"`
}

// RenderCard composites raw artwork into the final card image.
func (c *Client) RenderCard(ctx context.Context, name string, art []byte, kind string) ([]byte, error) {
	return c.postRaw(ctx, "/render-card", renderRequest{Name: name, Art: art, Kind: kind})
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	body, err := c.postRaw(ctx, path, in)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}

func (c *Client) postRaw(ctx context.Context, path string, in any) ([]byte, error) {
	payload, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s request: %w", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("generation gateway unreachable: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", path, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned status %d: %s", path, resp.StatusCode, truncate(body))
	}
	return body, nil
}

func truncate(body []byte) string {
	const max = 200
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}
