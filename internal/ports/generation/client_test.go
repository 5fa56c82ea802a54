package generation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"forgeboard/internal/ports"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(server.URL, 5*time.Second)
}

func TestCombine_DecodesCard(t *testing.T) {
	var got combineRequest
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/combine" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{
			"name":        "Steam Golem",
			"description": "A lumbering engine of brass.",
		})
	})

	outcome, err := client.Combine(context.Background(), []ports.CardView{
		{Name: "Iron", Description: "A bar of iron.", Kind: "material"},
		{Name: "Steam", Description: "Pressurized vapor.", Kind: "material"},
	})
	if err != nil {
		t.Fatalf("Combine: %v", err)
	}
	if outcome.Impossible || outcome.Name != "Steam Golem" {
		t.Fatalf("outcome = %+v", outcome)
	}
	if len(got.Cards) != 2 || got.Cards[1].Kind != "material" {
		t.Fatalf("request = %+v", got)
	}
}

func TestCombine_NotPossibleProse(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{
			"name": "This combination is Not Possible",
		})
	})

	outcome, err := client.Combine(context.Background(), nil)
	if err != nil {
		t.Fatalf("Combine: %v", err)
	}
	if !outcome.Impossible {
		t.Fatalf("outcome = %+v, want impossible", outcome)
	}
}

func TestJudge_NormalizesWinner(t *testing.T) {
	cases := []struct {
		answer string
		want   string
	}{
		{"a", "a"},
		{"b", "b"},
		{"tie", "a"},
		{"", "a"},
	}
	for _, tc := range cases {
		t.Run("answer "+tc.answer, func(t *testing.T) {
			var got judgeRequest
			client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/judge" {
					t.Errorf("path = %s", r.URL.Path)
				}
				if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
					t.Errorf("decode request: %v", err)
				}
				_ = json.NewEncoder(w).Encode(map[string]string{
					"winner": tc.answer,
					"reason": "so it goes",
				})
			})

			judgment, err := client.Judge(context.Background(), "Beasts",
				ports.CardView{Name: "Stone Sentinel"}, ports.CardView{Name: "Iron Wasp"})
			if err != nil {
				t.Fatalf("Judge: %v", err)
			}
			if judgment.Winner != tc.want {
				t.Fatalf("winner = %q, want %q", judgment.Winner, tc.want)
			}
			if got.Category != "Beasts" || got.CardA.Name != "Stone Sentinel" || got.CardB.Name != "Iron Wasp" {
				t.Fatalf("request = %+v", got)
			}
		})
	}
}

func TestBotDecisions(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/bot-combine":
			_ = json.NewEncoder(w).Encode(map[string]any{"combine": []int{0, 2}})
		case "/bot-place":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"hand_index": 1, "target_row": 2, "target_col": 0, "skip": false,
			})
		default:
			t.Errorf("path = %s", r.URL.Path)
		}
	})

	combine, err := client.BotCombine(context.Background(), ports.TableView{})
	if err != nil {
		t.Fatalf("BotCombine: %v", err)
	}
	if len(combine.Combine) != 2 || combine.Combine[1] != 2 {
		t.Fatalf("decision = %+v", combine)
	}

	place, err := client.BotPlace(context.Background(), ports.TableView{})
	if err != nil {
		t.Fatalf("BotPlace: %v", err)
	}
	if place.Skip || place.HandIndex != 1 || place.TargetRow != 2 {
		t.Fatalf("decision = %+v", place)
	}
}

func TestGenerateImage_ReturnsRawBytes(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/generate-image" {
			t.Errorf("path = %s", r.URL.Path)
		}
		_, _ = w.Write([]byte{0x89, 'P', 'N', 'G'})
	})

	art, err := client.GenerateImage(context.Background(), "Steam Golem", "A lumbering engine of brass.")
	if err != nil {
		t.Fatalf("GenerateImage: %v", err)
	}
	if len(art) != 4 || art[1] != 'P' {
		t.Fatalf("art = %v", art)
	}
}

func TestErrorStatusSurfaces(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusBadGateway)
	})

	if _, err := client.Combine(context.Background(), nil); err == nil {
		t.Fatal("Combine on 502 should fail")
	}
	if _, err := client.GenerateImage(context.Background(), "n", "d"); err == nil {
		t.Fatal("GenerateImage on 502 should fail")
	}
}
