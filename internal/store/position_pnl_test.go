package store

import (
	"testing"

	"algodash/internal/wire"

	"github.com/stretchr/testify/assert"
)

func pt(v float64) *wire.Point { return &wire.Point{Value: v} }

func TestPositionPnl_ClosedGate(t *testing.T) {
	s := NewPositionPnlStore()
	s.ApplyUnrealized(wire.PositionPnlUnrealized{PositionID: 1, Value: pt(3)})
	s.ApplyRealized(wire.PositionPnlRealized{PositionID: 1, Value: pt(5)})

	before, _ := s.Get(1)
	shownBefore, _ := before.Displayed()
	assert.Equal(t, Ignored, s.ApplyUnrealized(wire.PositionPnlUnrealized{PositionID: 1, Value: pt(-40)}))
	after, _ := s.Get(1)
	shownAfter, ok := after.Displayed()

	assert.True(t, ok)
	assert.Equal(t, 5.0, shownAfter)
	assert.Equal(t, shownBefore, shownAfter)
}

func TestPositionPnl_LastRealizedWins(t *testing.T) {
	s := NewPositionPnlStore()
	s.ApplyRealizedList([]wire.PositionPnlRealized{
		{PositionID: 2, Value: pt(1)},
		{PositionID: 2, Value: pt(7)},
	})
	rec, _ := s.Get(2)
	assert.Equal(t, 7.0, rec.Realized)
	assert.True(t, rec.Closed)
}

func TestPositionPnl_Series(t *testing.T) {
	s := NewPositionPnlStore()
	assert.Equal(t, 0, s.Cursor())

	s.ApplyUnrealized(wire.PositionPnlUnrealized{PositionID: 1, Value: pt(2)})
	s.ApplyUnrealized(wire.PositionPnlUnrealized{PositionID: 1, Value: pt(3)})
	s.ApplyRealized(wire.PositionPnlRealized{PositionID: 1, Value: pt(3)})
	s.ApplyUnrealized(wire.PositionPnlUnrealized{PositionID: 1, Value: pt(9)})

	view := s.View()
	assert.Equal(t, []float64{0, 2, 3, 0}, view.Series)
	assert.Equal(t, 3, view.Cursor)
	assert.Equal(t, 0.0, view.Current)
}

func TestPositionPnl_MissingValue(t *testing.T) {
	s := NewPositionPnlStore()
	assert.Equal(t, Ignored, s.ApplyUnrealized(wire.PositionPnlUnrealized{PositionID: 4}))
	s.ApplyRealized(wire.PositionPnlRealized{PositionID: 4})
	rec, ok := s.Get(4)
	assert.True(t, ok)
	_, shown := rec.Displayed()
	assert.False(t, shown)
}
