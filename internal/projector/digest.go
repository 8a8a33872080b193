package projector

import "algodash/internal/session"

// Digest is the small summary pushed to websocket clients after each snapshot.
// Clients re-fetch the detailed views they display when Version moves.
type Digest struct {
	Generation    uint64            `json:"generation"`
	Version       uint64            `json:"version"`
	Mode          string            `json:"mode"`
	Loading       bool              `json:"loading"`
	Attached      bool              `json:"attached"`
	Selection     session.Selection `json:"selection"`
	OverallBatch  string            `json:"overall_batch"`
	Orders        int               `json:"orders"`
	Candles       int               `json:"candles"`
	PositionPnl   float64           `json:"position_pnl"`
	TotalPnl      float64           `json:"total_pnl"`
	CalendarDays  int               `json:"calendar_days"`
	ChartReady    bool              `json:"chart_ready"`
	OverlayReady  bool              `json:"overlay_ready"`
	CalendarReady bool              `json:"calendar_ready"`
}

func DigestOf(snap *session.Snapshot) Digest {
	return Digest{
		Generation:    snap.Generation,
		Version:       snap.Version,
		Mode:          snap.Mode.String(),
		Loading:       snap.Loading,
		Attached:      snap.Attached,
		Selection:     snap.Selection,
		OverallBatch:  snap.OverallBatch,
		Orders:        len(snap.Orders),
		Candles:       len(snap.Overlay.Candles),
		PositionPnl:   snap.Positions.Current,
		TotalPnl:      snap.Total.Current,
		CalendarDays:  len(snap.Calendar.Days),
		ChartReady:    snap.Overlay.ChartSeeded,
		OverlayReady:  snap.Overlay.OverlaySeeded,
		CalendarReady: snap.Calendar.Seeded,
	}
}
