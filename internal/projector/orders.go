package projector

import (
	"strconv"

	"algodash/internal/session"
)

// OrderRow is one line of the order table. Empty strings mean the column has no data yet.
type OrderRow struct {
	ID          string `json:"id"`
	DateTime    string `json:"dt"`
	Side        string `json:"side"`
	Amount      string `json:"amount"`
	Price       string `json:"price"`
	Status      string `json:"status"`
	FillPrice   string `json:"fill_price"`
	Realized    string `json:"realized"`
	TimestampNs int64  `json:"timestamp_ns"`
}

// OrderRows renders the ledger in timestamp order.
func (p *Projector) OrderRows(snap *session.Snapshot) []OrderRow {
	rows := make([]OrderRow, 0, len(snap.Orders))
	for _, rec := range snap.Orders {
		row := OrderRow{
			ID:          rec.DisplayID,
			Side:        string(rec.Side),
			Status:      string(rec.Status),
			TimestampNs: rec.TimestampNs,
		}
		if rec.HasOrder {
			row.DateTime = p.formatTime(rec.TimestampNs)
			row.Amount = strconv.FormatFloat(rec.Amount, 'f', -1, 64)
			row.Price = fixed2(rec.Price)
		}
		if rec.HasFillPrice {
			row.FillPrice = fixed2(rec.FillPrice)
		}
		if rec.HasRealized {
			row.Realized = fixed2(rec.Realized)
		}
		rows = append(rows, row)
	}
	return rows
}
