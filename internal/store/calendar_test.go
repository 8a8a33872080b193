package store

import (
	"testing"

	"algodash/internal/wire"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func TestCalendar_BoundsExtend(t *testing.T) {
	c := NewCalendar()
	c.Seed(wire.PnlCalendar{Stats: map[string]wire.OverallDayStats{
		"20240102": {Date: "20240102", Day: "Tue", TotalRealizedPnl: 5},
		"20240105": {Date: "20240105", Day: "Fri", TotalRealizedPnl: -2},
	}})
	lo, hi := c.Bounds()
	assert.Equal(t, "20240102", lo)
	assert.Equal(t, "20240105", hi)

	c.ApplyDayStat(wire.OverallDayStats{Date: "20240110", Day: "Wed", TotalRealizedPnl: 1, LastRealizedPnl: 1, PositionHour: 9})
	lo, hi = c.Bounds()
	assert.Equal(t, "20240102", lo)
	assert.Equal(t, "20240110", hi)

	c.ApplyDayStat(wire.OverallDayStats{Date: "20240103", Day: "Wed", LastRealizedPnl: 1})
	lo, hi = c.Bounds()
	assert.Equal(t, "20240102", lo, "bounds never contract")
	assert.Equal(t, "20240110", hi)

	c.ApplyDayStat(wire.OverallDayStats{Date: "20231231", Day: "Sun"})
	lo, _ = c.Bounds()
	assert.Equal(t, "20231231", lo)
}

func TestCalendar_StrategySetOnlyGrows(t *testing.T) {
	c := NewCalendar()
	c.Seed(wire.PnlCalendar{Stats: map[string]wire.OverallDayStats{
		"20240102": {Date: "20240102", StrategyIDs: []string{"b", "a"}},
	}})
	c.ApplyDayStat(wire.OverallDayStats{Date: "20240102", StrategyIDs: []string{"c"}, TotalRealizedPnl: 3})

	day, ok := c.Day("20240102")
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b", "c"}, day.StrategyIDs)
	assert.True(t, day.TotalRealizedPnl.Equal(dec(3)))

	c.Seed(wire.PnlCalendar{Stats: map[string]wire.OverallDayStats{
		"20240102": {Date: "20240102", StrategyIDs: []string{"z"}},
	}})
	day, _ = c.Day("20240102")
	assert.Equal(t, []string{"z"}, day.StrategyIDs, "a snapshot replaces wholesale")
}

func TestCalendar_HourAndWeekdayRollup(t *testing.T) {
	c := NewCalendar()
	c.SeedHours(wire.PnlHour{Stats: map[int32]wire.HourStats{9: {TotalRealizedPnl: 1.1}}})
	c.Seed(wire.PnlCalendar{Stats: map[string]wire.OverallDayStats{
		"20240102": {Day: "Tue", TotalRealizedPnl: 5},
		"20240109": {Day: "Tue", TotalRealizedPnl: -2},
	}})

	c.ApplyDayStat(wire.OverallDayStats{Date: "20240116", Day: "Tue", LastRealizedPnl: 0.2, PositionHour: 9})
	c.ApplyDayStat(wire.OverallDayStats{Date: "20240116", Day: "Tue", LastRealizedPnl: -0.7, PositionHour: 14})
	c.ApplyDayStat(wire.OverallDayStats{Date: "20240116", Day: "Tue", LastRealizedPnl: 1, PositionHour: 30})

	view := c.View()
	assert.True(t, view.Hours[9].Equal(dec(1.3)), view.Hours[9].String())
	assert.True(t, view.Hours[14].Equal(dec(-0.7)))
	assert.NotContains(t, view.Hours, int32(30))

	tue := view.Weekdays["Tue"]
	assert.True(t, tue.Wins.Equal(dec(6.2)), tue.Wins.String())
	assert.True(t, tue.Losses.Equal(dec(-2.7)), tue.Losses.String())
}

func TestCalendar_EmptyDateIgnored(t *testing.T) {
	c := NewCalendar()
	assert.Equal(t, Ignored, c.ApplyDayStat(wire.OverallDayStats{}))
	assert.Empty(t, c.View().Days)
}

func TestCalendar_UnparsableDateKeptOutOfBounds(t *testing.T) {
	c := NewCalendar()
	c.ApplyDayStat(wire.OverallDayStats{Date: "garbage"})
	lo, hi := c.Bounds()
	assert.Empty(t, lo)
	assert.Empty(t, hi)
	_, ok := c.Day("garbage")
	assert.True(t, ok)
}

func TestWeekdayIndex(t *testing.T) {
	assert.Equal(t, 0, WeekdayIndex("Sun"))
	assert.Equal(t, 6, WeekdayIndex("Sat"))
	assert.Equal(t, -1, WeekdayIndex("Funday"))
}

func TestCalendar_WeekdayFromDateWhenLabelUnknown(t *testing.T) {
	c := NewCalendar()
	c.Seed(wire.PnlCalendar{Stats: map[string]wire.OverallDayStats{
		"20240102": {TotalRealizedPnl: 4},
		"bad-date": {Day: "Funday", TotalRealizedPnl: 9},
	}})
	c.ApplyDayStat(wire.OverallDayStats{Date: "20240103", Day: "wednesday", LastRealizedPnl: -1})

	view := c.View()
	require.Contains(t, view.Weekdays, "Tue")
	assert.True(t, view.Weekdays["Tue"].Wins.Equal(decimal.NewFromInt(4)))
	require.Contains(t, view.Weekdays, "Wed")
	assert.True(t, view.Weekdays["Wed"].Losses.Equal(decimal.NewFromInt(-1)))
	assert.Len(t, view.Weekdays, 2)
}
