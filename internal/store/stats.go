package store

import "algodash/internal/wire"

// StatsView holds the two stats panels; nil means nothing received yet.
type StatsView struct {
	Position *wire.Stats
	Overall  *wire.Stats
}

type StatsBoard struct {
	position *wire.Stats
	overall  *wire.Stats
}

func NewStatsBoard() *StatsBoard { return &StatsBoard{} }

func (b *StatsBoard) ApplyPosition(s wire.PositionStats) Outcome {
	cp := s.Stats
	b.position = &cp
	return Applied
}

func (b *StatsBoard) ApplyOverall(s wire.OverallStats) Outcome {
	cp := s.Stats
	b.overall = &cp
	return Applied
}

func (b *StatsBoard) ResetPosition() { b.position = nil }
func (b *StatsBoard) ResetOverall()  { b.overall = nil }

func (b *StatsBoard) Reset() {
	b.position = nil
	b.overall = nil
}

func (b *StatsBoard) View() StatsView {
	var view StatsView
	if b.position != nil {
		cp := *b.position
		view.Position = &cp
	}
	if b.overall != nil {
		cp := *b.overall
		view.Overall = &cp
	}
	return view
}
