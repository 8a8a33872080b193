package store

import (
	"testing"

	"algodash/internal/wire"

	"github.com/stretchr/testify/assert"
)

func TestTotalPnl_CursorAdvancesOnRealizedOnly(t *testing.T) {
	c := NewTotalPnlCurve()
	assert.Equal(t, 1, c.Cursor())

	const n = 5
	for i := 0; i < n; i++ {
		id := int64(i)
		c.ApplyUnrealized(wire.TotalPnlUnrealized{PositionID: id, Value: pt(float64(i) + 0.5)})
		assert.Equal(t, i+1, c.Cursor())
		c.ApplyRealized(wire.TotalPnlRealized{PositionID: id, Value: pt(float64(i))})
	}
	assert.Equal(t, n+1, c.Cursor())
	assert.Equal(t, n+1, c.Len())
}

func TestTotalPnl_UnrealizedOverwritesTrailingSlot(t *testing.T) {
	c := NewTotalPnlCurve()
	c.ApplyUnrealized(wire.TotalPnlUnrealized{PositionID: 1, Value: pt(1)})
	c.ApplyUnrealized(wire.TotalPnlUnrealized{PositionID: 2, Value: pt(2)})
	assert.Equal(t, []float64{0, 2}, c.View().Points)

	c.ApplyRealized(wire.TotalPnlRealized{PositionID: 1, Value: pt(1.5)})
	assert.Equal(t, Ignored, c.ApplyUnrealized(wire.TotalPnlUnrealized{PositionID: 1, Value: pt(99)}))
	c.ApplyUnrealized(wire.TotalPnlUnrealized{PositionID: 2, Value: pt(2.5)})

	view := c.View()
	assert.Equal(t, []float64{0, 1.5, 2.5}, view.Points)
	assert.Equal(t, 2, view.Cursor)
	assert.Equal(t, 2.5, view.Current)
}

func TestTotalPnl_Seed(t *testing.T) {
	c := NewTotalPnlCurve()
	c.Seed(wire.TotalPnl{Points: []wire.Point{{Value: 1}, {Value: 3}, {Value: 2}}})
	view := c.View()
	assert.Equal(t, []float64{0, 1, 3, 2}, view.Points)
	assert.Equal(t, 4, view.Cursor)
	assert.Equal(t, 2.0, view.Current)

	c.ApplyRealized(wire.TotalPnlRealized{PositionID: 1, Value: pt(4)})
	assert.Equal(t, 5, c.Cursor())
}

func TestTotalPnl_MarkClosedFromPositionEvents(t *testing.T) {
	c := NewTotalPnlCurve()
	c.MarkClosed(3)
	assert.Equal(t, Ignored, c.ApplyUnrealized(wire.TotalPnlUnrealized{PositionID: 3, Value: pt(1)}))
	c.Reset()
	assert.False(t, c.IsClosed(3))
	assert.Equal(t, 1, c.Cursor())
}

func TestTotalPnl_RealizedWithoutValueStillAdvances(t *testing.T) {
	c := NewTotalPnlCurve()
	c.ApplyRealized(wire.TotalPnlRealized{PositionID: 1, Value: pt(3)})
	assert.Equal(t, Applied, c.ApplyRealized(wire.TotalPnlRealized{PositionID: 2}))

	view := c.View()
	assert.Equal(t, 3, view.Cursor)
	assert.Equal(t, []float64{0, 3, 3}, view.Points)
	assert.True(t, c.IsClosed(2))
	assert.Equal(t, Ignored, c.ApplyUnrealized(wire.TotalPnlUnrealized{PositionID: 2, Value: pt(9)}))
}
