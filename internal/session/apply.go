package session

import (
	"algodash/internal/store"
	"algodash/internal/wire"
)

// ApplyPositionRealized feeds one realized close to every store that tracks it: the position
// store, the ledger's realized column, and the total curve's closed set.
func (s *Session) ApplyPositionRealized(r wire.PositionPnlRealized) store.Outcome {
	s.Total.MarkClosed(r.PositionID)
	s.Orders.ApplyRealized(r)
	return s.Positions.ApplyRealized(r)
}

func (s *Session) ApplyPositionRealizedList(list wire.PositionPnlRealizedList) store.Outcome {
	for _, r := range list.RealizedList {
		s.Total.MarkClosed(r.PositionID)
	}
	s.Orders.ApplyRealizedList(list.RealizedList)
	return s.Positions.ApplyRealizedList(list.RealizedList)
}

func (s *Session) ApplyPositionUnrealized(u wire.PositionPnlUnrealized) store.Outcome {
	return s.Positions.ApplyUnrealized(u)
}
