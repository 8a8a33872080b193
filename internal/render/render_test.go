package render

import (
	"bytes"
	"testing"

	"algodash/internal/session"
	"algodash/internal/wire"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrategyPage(t *testing.T) {
	t.Run("empty selection", func(t *testing.T) {
		var buf bytes.Buffer
		assert.ErrorIs(t, StrategyPage(&buf, session.EmptySnapshot()), ErrNoChart)
	})

	t.Run("candles with overlay", func(t *testing.T) {
		s := session.New(session.Options{})
		s.Overlay.SeedChart([]wire.OHLCV{
			{TimestampNs: 1, Open: 1, High: 2, Low: 1, Close: 2, Volume: 3},
			{TimestampNs: 2, Open: 2, High: 2, Low: 1, Close: 1, Volume: 4},
		})
		s.Overlay.SeedOverlay(wire.AlgoChart{
			Advices:    []wire.Advice{{TimestampNs: 2, Price: 1.5, Size: -1}},
			Lines:      map[string]wire.Line{"ema_fast": {Points: []wire.Point{{TimestampNs: 1, Value: 1.2}}}},
			Rectangles: []wire.Rectangle{{LowPrice: 1, HighPrice: 2, EarlyTimestampNs: 1, LateTimestampNs: 2}},
		})

		var buf bytes.Buffer
		require.NoError(t, StrategyPage(&buf, s.Snapshot()))
		html := buf.String()
		assert.Contains(t, html, "echarts")
		assert.Contains(t, html, "ema_fast")
		assert.Contains(t, html, "Position PnL")
	})
}

func TestOverallPage(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, OverallPage(&buf, session.EmptySnapshot()), ErrNoOverall)

	s := session.New(session.Options{})
	s.Calendar.Seed(wire.PnlCalendar{Stats: map[string]wire.OverallDayStats{
		"20240102": {Day: "Tue", TotalRealizedPnl: 5},
		"20240103": {Day: "Wed", TotalRealizedPnl: -1},
	}})
	require.NoError(t, OverallPage(&buf, s.Snapshot()))
	assert.Contains(t, buf.String(), "Total Profit")
	assert.Contains(t, buf.String(), "20240103")
}
