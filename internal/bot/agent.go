// Package bot drives the machine opponent in bot-mode matches. The bot
// has no strategy of its own: it forwards the table state to the Oracle
// and applies whatever decision comes back through the same operations
// a human player uses. Any failure along the way degrades to a turn
// skip so a flaky Oracle can never wedge a match.
package bot

import (
	"context"

	"github.com/heroiclabs/nakama-common/runtime"

	"forgeboard/internal/app"
	"forgeboard/internal/domain"
	"forgeboard/internal/ports"
)

// Agent is the bot player for a single deployment. It is stateless
// across matches; the match id selects whose turn it acts on.
type Agent struct {
	svc    *app.Service
	oracle ports.Oracle
	logger runtime.Logger
}

// NewAgent builds a bot agent over the match service and the Oracle.
func NewAgent(svc *app.Service, oracle ports.Oracle, logger runtime.Logger) *Agent {
	return &Agent{svc: svc, oracle: oracle, logger: logger}
}

// CombineReport is the outcome of a bot crafting step. Skipped means
// the bot gave up its turn instead of crafting.
type CombineReport struct {
	Skipped bool
	Crafted *domain.Card
	Match   *domain.Match
}

// PlaceReport is the outcome of a bot placement step. The bot's turn
// always ends after this step, win or lose.
type PlaceReport struct {
	Skipped bool
	Result  string
	Match   *domain.Match
}

// Combine asks the Oracle which hand cards to craft and performs the
// craft. If the Oracle fails, answers nonsense or the combination turns
// out impossible, the bot forfeits the turn.
func (a *Agent) Combine(ctx context.Context, matchID string) (*CombineReport, error) {
	m, err := a.guard(matchID)
	if err != nil {
		return nil, err
	}

	decision, err := a.oracle.BotCombine(ctx, BuildTableView(m))
	if err != nil {
		a.logger.Warn("bot combine decision failed, skipping turn: %v", err)
		return a.skipCombine(ctx, matchID)
	}

	result, err := a.svc.Combine(ctx, matchID, decision.Combine, false)
	if err != nil {
		a.logger.Warn("bot combine rejected (%v), skipping turn", err)
		return a.skipCombine(ctx, matchID)
	}
	return &CombineReport{Crafted: &result.Crafted, Match: result.Match}, nil
}

// Place asks the Oracle where to put a crafted card and places it. The
// bot ends its turn afterwards regardless of the contest outcome; with
// no crafted card in hand, or a skip decision, it just ends the turn.
func (a *Agent) Place(ctx context.Context, matchID string) (*PlaceReport, error) {
	m, err := a.guard(matchID)
	if err != nil {
		return nil, err
	}

	if !domain.HasCrafted(m.Players[domain.BotSeat].Hand) {
		return a.skipPlace(ctx, matchID)
	}

	decision, err := a.oracle.BotPlace(ctx, BuildTableView(m))
	if err != nil {
		a.logger.Warn("bot place decision failed, skipping turn: %v", err)
		return a.skipPlace(ctx, matchID)
	}
	if decision.Skip {
		return a.skipPlace(ctx, matchID)
	}

	row := domain.ClampCoord(decision.TargetRow)
	col := domain.ClampCoord(decision.TargetCol)
	result, err := a.svc.Place(ctx, matchID, decision.HandIndex, row, col)
	if err != nil {
		a.logger.Warn("bot place rejected (%v), skipping turn", err)
		return a.skipPlace(ctx, matchID)
	}

	report := &PlaceReport{Result: result.Result, Match: result.Match}
	if result.Match.Over() {
		return report, nil
	}
	match, err := a.svc.EndTurn(ctx, matchID)
	if err != nil {
		return nil, err
	}
	report.Match = match
	return report, nil
}

// guard checks the match is a bot match in play with the bot to act.
func (a *Agent) guard(matchID string) (*domain.Match, error) {
	m, err := a.svc.GetMatch(matchID)
	if err != nil {
		return nil, err
	}
	if m.Mode != domain.ModeBot {
		return nil, app.ErrNotBotMatch
	}
	if m.Over() {
		return nil, app.ErrMatchOver
	}
	if m.CurrentPlayer != domain.BotSeat {
		return nil, app.ErrNotBotTurn
	}
	return m, nil
}

func (a *Agent) skipCombine(ctx context.Context, matchID string) (*CombineReport, error) {
	match, err := a.svc.EndTurn(ctx, matchID)
	if err != nil {
		return nil, err
	}
	return &CombineReport{Skipped: true, Match: match}, nil
}

func (a *Agent) skipPlace(ctx context.Context, matchID string) (*PlaceReport, error) {
	match, err := a.svc.EndTurn(ctx, matchID)
	if err != nil {
		return nil, err
	}
	return &PlaceReport{Skipped: true, Match: match}, nil
}
