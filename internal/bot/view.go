package bot

import (
	"forgeboard/internal/domain"
	"forgeboard/internal/ports"
)

// BuildTableView projects a match into the bot's Oracle payload: the
// bot's own hand, the board with owner labels and both scores.
func BuildTableView(m *domain.Match) ports.TableView {
	hand := m.Players[domain.BotSeat].Hand
	view := ports.TableView{
		Hand:        make([]ports.CardView, 0, len(hand)),
		Board:       make([][]ports.CellView, domain.BoardSize),
		BotScore:    m.Players[domain.BotSeat].Score,
		PlayerScore: m.Players[1-domain.BotSeat].Score,
	}
	for _, c := range hand {
		view.Hand = append(view.Hand, ports.CardView{
			Name:        c.Name,
			Description: c.Description,
			Kind:        c.Kind.String(),
		})
	}
	for row := 0; row < domain.BoardSize; row++ {
		view.Board[row] = make([]ports.CellView, domain.BoardSize)
		for col := 0; col < domain.BoardSize; col++ {
			cell := m.Board[row][col]
			out := ports.CellView{Category: cell.Category}
			if cell.Card != nil {
				owner := "player"
				if cell.Card.Owner == domain.BotSeat {
					owner = "bot"
				}
				out.Card = &ports.PlacedCardView{
					Name:        cell.Card.Card.Name,
					Description: cell.Card.Card.Description,
					Owner:       owner,
				}
			}
			view.Board[row][col] = out
		}
	}
	return view
}
