package projector

import (
	"strconv"

	"algodash/internal/session"
	"algodash/internal/wire"
)

// StatsPanel is a formatted stats block.
type StatsPanel struct {
	TotalRealizedPnl string `json:"total_realized_pnl"`
	WinRate          string `json:"win_rate"`
	NumWins          string `json:"num_wins"`
	NumLosses        string `json:"num_losses"`
	MaxDrawdown      string `json:"max_drawdown"`
	MaxDrawup        string `json:"max_drawup"`
	AvgWin           string `json:"avg_win"`
	AvgLoss          string `json:"avg_loss"`
}

type StatsPanels struct {
	Position *StatsPanel `json:"position"`
	Overall  *StatsPanel `json:"overall"`
}

func panel(s *wire.Stats) *StatsPanel {
	if s == nil {
		return nil
	}
	return &StatsPanel{
		TotalRealizedPnl: money(s.TotalRealizedPnl),
		WinRate:          percent(s.WinRate),
		NumWins:          strconv.FormatInt(s.NumWins, 10),
		NumLosses:        strconv.FormatInt(s.NumLosses, 10),
		MaxDrawdown:      money(s.MaxDrawdown),
		MaxDrawup:        money(s.MaxDrawup),
		AvgWin:           money(s.AvgWin),
		AvgLoss:          money(s.AvgLoss),
	}
}

// Stats formats both panels; a panel is nil until its event arrives.
func Stats(snap *session.Snapshot) StatsPanels {
	return StatsPanels{Position: panel(snap.Stats.Position), Overall: panel(snap.Stats.Overall)}
}
