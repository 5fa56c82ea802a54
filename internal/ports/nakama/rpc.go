package nakama

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/heroiclabs/nakama-common/runtime"

	"forgeboard/internal/app"
	"forgeboard/internal/bot"
	"forgeboard/internal/domain"
	"forgeboard/internal/ports"
)

// RPC names exposed to clients.
const (
	RpcNewMatch   = "forge_new_match"
	RpcGetMatch   = "forge_get_match"
	RpcListCards  = "forge_list_cards"
	RpcCombine    = "forge_combine"
	RpcFinalize   = "forge_finalize"
	RpcPlace      = "forge_place"
	RpcDiscard    = "forge_discard"
	RpcEndTurn    = "forge_end_turn"
	RpcBotCombine = "forge_bot_combine"
	RpcBotPlace   = "forge_bot_place"
)

// handlers adapts the match service and bot agent to Nakama's RPC
// surface: JSON payloads in, JSON responses out, errors mapped to gRPC
// status codes.
type handlers struct {
	svc   *app.Service
	agent *bot.Agent
}

// RegisterRPCs registers all game RPCs on the initializer.
func RegisterRPCs(initializer runtime.Initializer, svc *app.Service, agent *bot.Agent) error {
	h := &handlers{svc: svc, agent: agent}
	rpcs := map[string]func(context.Context, runtime.Logger, *sql.DB, runtime.NakamaModule, string) (string, error){
		RpcNewMatch:   h.newMatch,
		RpcGetMatch:   h.getMatch,
		RpcListCards:  h.listCards,
		RpcCombine:    h.combine,
		RpcFinalize:   h.finalize,
		RpcPlace:      h.place,
		RpcDiscard:    h.discard,
		RpcEndTurn:    h.endTurn,
		RpcBotCombine: h.botCombine,
		RpcBotPlace:   h.botPlace,
	}
	for name, fn := range rpcs {
		if err := initializer.RegisterRpc(name, fn); err != nil {
			return err
		}
	}
	return nil
}

type newMatchRequest struct {
	Mode        string   `json:"mode"`
	Wallet      string   `json:"wallet"`
	SeedCardIDs []string `json:"seed_card_ids"`
}

type matchResponse struct {
	Match *domain.Match `json:"match"`
}

func (h *handlers) newMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req newMatchRequest
	if payload != "" {
		if err := json.Unmarshal([]byte(payload), &req); err != nil {
			return "", runtime.NewError("invalid payload", 3)
		}
	}

	mode := domain.ModePvP
	switch req.Mode {
	case "", "pvp":
	case "bot":
		mode = domain.ModeBot
	default:
		return "", runtime.NewError("unknown match mode", 3)
	}

	m, err := h.svc.NewMatch(ctx, mode, req.Wallet, req.SeedCardIDs)
	if err != nil {
		return "", toRuntimeError(logger, err)
	}
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	logger.Info("match %s created by user %s (mode %s)", m.ID, userID, m.Mode)
	return marshalResponse(matchResponse{Match: m})
}

type matchIDRequest struct {
	MatchID string `json:"match_id"`
}

func (h *handlers) getMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req matchIDRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return "", runtime.NewError("invalid payload", 3)
	}
	m, err := h.svc.GetMatch(req.MatchID)
	if err != nil {
		return "", toRuntimeError(logger, err)
	}
	return marshalResponse(matchResponse{Match: m})
}

type listCardsResponse struct {
	Cards []domain.BaseCard `json:"cards"`
}

func (h *handlers) listCards(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	return marshalResponse(listCardsResponse{Cards: h.svc.ListCards()})
}

type combineRequest struct {
	MatchID     string `json:"match_id"`
	CardIndices []int  `json:"card_indices"`
	DeferImage  bool   `json:"defer_image"`
}

type combineResponse struct {
	Match        *domain.Match `json:"match"`
	Crafted      domain.Card   `json:"crafted"`
	IsNew        bool          `json:"is_new"`
	ImagePending bool          `json:"image_pending,omitempty"`
	CacheKey     string        `json:"cache_key,omitempty"`
	Ticket       string        `json:"ticket,omitempty"`
}

func (h *handlers) combine(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req combineRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return "", runtime.NewError("invalid payload", 3)
	}
	result, err := h.svc.Combine(ctx, req.MatchID, req.CardIndices, req.DeferImage)
	if err != nil {
		return "", toRuntimeError(logger, err)
	}
	return marshalResponse(combineResponse{
		Match:        result.Match,
		Crafted:      result.Crafted,
		IsNew:        result.IsNew,
		ImagePending: result.ImagePending,
		CacheKey:     result.CacheKey,
		Ticket:       result.Ticket,
	})
}

type finalizeRequest struct {
	MatchID     string `json:"match_id"`
	CacheKey    string `json:"cache_key"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Ticket      string `json:"ticket"`
}

type finalizeResponse struct {
	Match     *domain.Match `json:"match"`
	ImagePath string        `json:"image_path"`
}

func (h *handlers) finalize(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req finalizeRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return "", runtime.NewError("invalid payload", 3)
	}
	m, imagePath, err := h.svc.FinalizeCombine(ctx, req.MatchID, req.CacheKey, req.Name, req.Description, req.Ticket)
	if err != nil {
		return "", toRuntimeError(logger, err)
	}
	return marshalResponse(finalizeResponse{Match: m, ImagePath: imagePath})
}

type placeRequest struct {
	MatchID   string `json:"match_id"`
	HandIndex int    `json:"hand_index"`
	Row       int    `json:"row"`
	Col       int    `json:"col"`
}

type placeResponse struct {
	Match    *domain.Match   `json:"match"`
	Result   string          `json:"result"`
	Judgment *ports.Judgment `json:"judgment,omitempty"`
}

func (h *handlers) place(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req placeRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return "", runtime.NewError("invalid payload", 3)
	}
	result, err := h.svc.Place(ctx, req.MatchID, req.HandIndex, req.Row, req.Col)
	if err != nil {
		return "", toRuntimeError(logger, err)
	}
	return marshalResponse(placeResponse{
		Match:    result.Match,
		Result:   result.Result,
		Judgment: result.Judgment,
	})
}

type discardRequest struct {
	MatchID     string `json:"match_id"`
	CardIndices []int  `json:"card_indices"`
}

func (h *handlers) discard(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req discardRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return "", runtime.NewError("invalid payload", 3)
	}
	m, err := h.svc.Discard(ctx, req.MatchID, req.CardIndices)
	if err != nil {
		return "", toRuntimeError(logger, err)
	}
	return marshalResponse(matchResponse{Match: m})
}

func (h *handlers) endTurn(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req matchIDRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return "", runtime.NewError("invalid payload", 3)
	}
	m, err := h.svc.EndTurn(ctx, req.MatchID)
	if err != nil {
		return "", toRuntimeError(logger, err)
	}
	return marshalResponse(matchResponse{Match: m})
}

type botCombineResponse struct {
	Match   *domain.Match `json:"match"`
	Skipped bool          `json:"skipped"`
	Crafted *domain.Card  `json:"crafted,omitempty"`
}

func (h *handlers) botCombine(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req matchIDRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return "", runtime.NewError("invalid payload", 3)
	}
	report, err := h.agent.Combine(ctx, req.MatchID)
	if err != nil {
		return "", toRuntimeError(logger, err)
	}
	return marshalResponse(botCombineResponse{
		Match:   report.Match,
		Skipped: report.Skipped,
		Crafted: report.Crafted,
	})
}

type botPlaceResponse struct {
	Match   *domain.Match `json:"match"`
	Skipped bool          `json:"skipped"`
	Result  string        `json:"result,omitempty"`
}

func (h *handlers) botPlace(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req matchIDRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return "", runtime.NewError("invalid payload", 3)
	}
	report, err := h.agent.Place(ctx, req.MatchID)
	if err != nil {
		return "", toRuntimeError(logger, err)
	}
	return marshalResponse(botPlaceResponse{
		Match:   report.Match,
		Skipped: report.Skipped,
		Result:  report.Result,
	})
}

func marshalResponse(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", runtime.NewError("internal error", 13)
	}
	return string(b), nil
}

// toRuntimeError maps engine errors onto gRPC status codes: validation
// to INVALID_ARGUMENT, unknown matches to NOT_FOUND, state conflicts
// and impossible combinations to FAILED_PRECONDITION, gateway failures
// to UNAVAILABLE, everything else to INTERNAL.
func toRuntimeError(logger runtime.Logger, err error) error {
	switch {
	case app.IsValidation(err):
		return runtime.NewError(err.Error(), 3)
	case app.IsNotFound(err):
		return runtime.NewError(err.Error(), 5)
	case app.IsConflict(err), app.IsImpossible(err):
		return runtime.NewError(err.Error(), 9)
	case app.IsUpstream(err):
		logger.Warn("upstream failure: %v", err)
		return runtime.NewError(err.Error(), 14)
	default:
		logger.Error("internal error: %v", err)
		return runtime.NewError("internal error", 13)
	}
}
