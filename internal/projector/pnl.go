package projector

import "algodash/internal/session"

// Series is a line chart plus the value shown next to it.
type Series struct {
	Points  []float64 `json:"points"`
	Cursor  int       `json:"cursor"`
	Current float64   `json:"current"`
	Label   string    `json:"label"`
}

func PositionSeries(snap *session.Snapshot) Series {
	v := snap.Positions
	return Series{Points: v.Series, Cursor: v.Cursor, Current: v.Current, Label: fixed2(v.Current)}
}

func TotalSeries(snap *session.Snapshot) Series {
	v := snap.Total
	return Series{Points: v.Points, Cursor: v.Cursor, Current: v.Current, Label: fixed2(v.Current)}
}

// PositionPnl returns the displayed PnL of one position.
func PositionPnl(snap *session.Snapshot, positionID int64) (float64, bool) {
	rec, ok := snap.Positions.Records[positionID]
	if !ok {
		return 0, false
	}
	return rec.Displayed()
}
