package store

import "algodash/internal/wire"

// PositionPnlRecord 记录单个仓位的盈亏。Closed 之后未实现盈亏不再生效。
type PositionPnlRecord struct {
	PositionID    int64
	Realized      float64
	HasRealized   bool
	Unrealized    float64
	HasUnrealized bool
	Closed        bool
}

// Displayed is the PnL shown for the position: realized once closed, otherwise the latest mark.
func (r PositionPnlRecord) Displayed() (float64, bool) {
	if r.Closed {
		return r.Realized, r.HasRealized
	}
	return r.Unrealized, r.HasUnrealized
}

// PositionPnlView is an immutable copy of the store.
type PositionPnlView struct {
	Records map[int64]PositionPnlRecord
	// Series is the single-position "current PnL" line; index 0 is the baseline.
	Series  []float64
	Cursor  int
	Current float64
}

type PositionPnlStore struct {
	records map[int64]*PositionPnlRecord
	series  []float64
	current float64
}

func NewPositionPnlStore() *PositionPnlStore {
	s := &PositionPnlStore{}
	s.Reset()
	return s
}

func (s *PositionPnlStore) Reset() {
	s.records = make(map[int64]*PositionPnlRecord)
	s.series = []float64{0}
	s.current = 0
}

func (s *PositionPnlStore) record(id int64) *PositionPnlRecord {
	rec, ok := s.records[id]
	if !ok {
		rec = &PositionPnlRecord{PositionID: id}
		s.records[id] = rec
	}
	return rec
}

// Cursor is the index of the latest point in the current-PnL series.
func (s *PositionPnlStore) Cursor() int { return len(s.series) - 1 }

// ApplyRealized closes the position. The last realized value wins.
func (s *PositionPnlStore) ApplyRealized(r wire.PositionPnlRealized) Outcome {
	rec := s.record(r.PositionID)
	rec.Closed = true
	if r.Value != nil {
		rec.Realized = r.Value.Value
		rec.HasRealized = true
	}
	s.series = append(s.series, 0)
	s.current = 0
	return Applied
}

func (s *PositionPnlStore) ApplyRealizedList(list []wire.PositionPnlRealized) Outcome {
	out := Ignored
	for _, r := range list {
		out = out.Merge(s.ApplyRealized(r))
	}
	return out
}

// ApplyUnrealized updates the mark for an open position; closed positions are left untouched.
func (s *PositionPnlStore) ApplyUnrealized(u wire.PositionPnlUnrealized) Outcome {
	if rec, ok := s.records[u.PositionID]; ok && rec.Closed {
		return Ignored
	}
	if u.Value == nil {
		return Ignored
	}
	rec := s.record(u.PositionID)
	rec.Unrealized = u.Value.Value
	rec.HasUnrealized = true
	s.series = append(s.series, u.Value.Value)
	s.current = u.Value.Value
	return Applied
}

func (s *PositionPnlStore) Get(id int64) (PositionPnlRecord, bool) {
	rec, ok := s.records[id]
	if !ok {
		return PositionPnlRecord{}, false
	}
	return *rec, true
}

func (s *PositionPnlStore) View() PositionPnlView {
	records := make(map[int64]PositionPnlRecord, len(s.records))
	for id, rec := range s.records {
		records[id] = *rec
	}
	series := make([]float64, len(s.series))
	copy(series, s.series)
	return PositionPnlView{Records: records, Series: series, Cursor: s.Cursor(), Current: s.current}
}
