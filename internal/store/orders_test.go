package store

import (
	"testing"

	"algodash/internal/wire"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderLedger_OrderThenFill(t *testing.T) {
	l := NewOrderLedger()
	l.ApplyOrder(wire.Order{OrderID: 4, Size: 2, Price: 100, OrderStatus: 0, TimestampNs: 10})
	l.ApplyFill(wire.OrderFilled{OrderID: 4, Price: 99.5})

	rec, ok := l.Get(4)
	require.True(t, ok)
	assert.Equal(t, StatusFilled, rec.Status)
	assert.Equal(t, 99.5, rec.FillPrice)
	assert.Equal(t, "5", rec.DisplayID)
	assert.Equal(t, SideBuy, rec.Side)
}

func TestOrderLedger_FillThenOrder(t *testing.T) {
	l := NewOrderLedger()
	l.ApplyFill(wire.OrderFilled{OrderID: 4, Price: 99.5})
	l.ApplyOrder(wire.Order{OrderID: 4, Size: -3, Price: 100, FilledPrice: 0, OrderStatus: 0, TimestampNs: 10})

	rec, _ := l.Get(4)
	assert.Equal(t, StatusFilled, rec.Status)
	assert.Equal(t, 99.5, rec.FillPrice)
	assert.Equal(t, 3.0, rec.Amount)
	assert.Equal(t, SideSell, rec.Side)
	assert.Equal(t, "5", rec.DisplayID)
	assert.Equal(t, int64(10), rec.TimestampNs)
}

func TestOrderLedger_IncrementalKeepsKnownStatus(t *testing.T) {
	l := NewOrderLedger()
	l.ApplyOrder(wire.Order{OrderID: 1, Size: 1, OrderStatus: 2, TimestampNs: 5})
	l.ApplyOrder(wire.Order{OrderID: 1, Size: 1, Price: 7, OrderStatus: 0, TimestampNs: 6})
	l.ApplyOrder(wire.Order{OrderID: 1, Size: 1, OrderStatus: 9, TimestampNs: 7})

	rec, _ := l.Get(1)
	assert.Equal(t, StatusCancelled, rec.Status)
	assert.Equal(t, int64(7), rec.TimestampNs)
}

func TestOrderLedger_UnknownStatusStartsBlank(t *testing.T) {
	l := NewOrderLedger()
	l.ApplyOrder(wire.Order{OrderID: 1, Size: 1, OrderStatus: 42})
	rec, _ := l.Get(1)
	assert.Equal(t, StatusUnknown, rec.Status)

	l.ApplyOrder(wire.Order{OrderID: 1, Size: 1, OrderStatus: 0})
	rec, _ = l.Get(1)
	assert.Equal(t, StatusOpen, rec.Status)
}

func TestOrderLedger_ListOverwrites(t *testing.T) {
	l := NewOrderLedger()
	l.ApplyFill(wire.OrderFilled{OrderID: 1, Price: 50})
	l.ApplyOrderList([]wire.Order{
		{OrderID: 1, Size: 1, Price: 49, FilledPrice: 0, OrderStatus: 2, TimestampNs: 3},
		{OrderID: 2, Size: -1, Price: 51, FilledPrice: 51, OrderStatus: 1, TimestampNs: 4},
	})

	first, _ := l.Get(1)
	assert.Equal(t, StatusCancelled, first.Status)
	assert.Equal(t, 0.0, first.FillPrice)

	l.ApplyOrderList([]wire.Order{{OrderID: 2, Size: -1, OrderStatus: 77, TimestampNs: 4}})
	second, _ := l.Get(2)
	assert.Equal(t, StatusUnknown, second.Status, "list snapshot blanks an unknown code")
}

func TestOrderLedger_ListStatusDiffersFromIncremental(t *testing.T) {
	t.Run("incremental keeps known status", func(t *testing.T) {
		l := NewOrderLedger()
		l.ApplyOrder(wire.Order{OrderID: 1, Size: 1, OrderStatus: 1})
		l.ApplyOrder(wire.Order{OrderID: 1, Size: 1, OrderStatus: 77})
		rec, _ := l.Get(1)
		assert.Equal(t, StatusFilled, rec.Status)
	})

	t.Run("list overwrites with blank", func(t *testing.T) {
		l := NewOrderLedger()
		l.ApplyOrder(wire.Order{OrderID: 1, Size: 1, OrderStatus: 1})
		l.ApplyOrderList([]wire.Order{{OrderID: 1, Size: 1, OrderStatus: 77}})
		rec, _ := l.Get(1)
		assert.Equal(t, StatusUnknown, rec.Status)
	})
}

func TestOrderLedger_RealizedShareKeySpace(t *testing.T) {
	l := NewOrderLedger()
	l.ApplyRealized(wire.PositionPnlRealized{PositionID: 9, Value: &wire.Point{Value: 12.5}})
	rec, ok := l.Get(9)
	require.True(t, ok)
	assert.Equal(t, OriginRealized, rec.Origin)
	assert.False(t, rec.HasOrder)
	assert.Equal(t, "", rec.DisplayID)
	assert.True(t, rec.HasRealized)

	assert.Equal(t, Ignored, l.ApplyRealized(wire.PositionPnlRealized{PositionID: 10}))
	_, ok = l.Get(10)
	assert.True(t, ok, "missing value still creates the row")

	l.ApplyRealizedList([]wire.PositionPnlRealized{{PositionID: 9, Value: &wire.Point{Value: -1}}})
	rec, _ = l.Get(9)
	assert.Equal(t, -1.0, rec.Realized)
}

func TestOrderLedger_RowsOrdering(t *testing.T) {
	l := NewOrderLedger()
	l.ApplyOrder(wire.Order{OrderID: 3, Size: 1, TimestampNs: 30})
	l.ApplyOrder(wire.Order{OrderID: 1, Size: 1, TimestampNs: 10})
	l.ApplyOrder(wire.Order{OrderID: 2, Size: 1, TimestampNs: 30})
	l.ApplyRealized(wire.PositionPnlRealized{PositionID: 8, Value: &wire.Point{Value: 1}})

	rows := l.Rows()
	ids := make([]int64, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.OrderID)
	}
	assert.Equal(t, []int64{8, 1, 3, 2}, ids)
}

func TestOrderLedger_Reset(t *testing.T) {
	l := NewOrderLedger()
	l.ApplyOrder(wire.Order{OrderID: 1})
	l.Reset()
	assert.Zero(t, l.Len())
	assert.Empty(t, l.Rows())
}
