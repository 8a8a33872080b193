package session

import (
	"testing"

	"algodash/internal/store"
	"algodash/internal/wire"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func catalogList() wire.StrategyList {
	return wire.StrategyList{Batches: []wire.BatchEntry{{
		BatchID: "b1",
		Strategies: []wire.StrategyEntry{
			{StrategyID: "s1", SymbolPeriods: []wire.SymbolPeriods{{Symbol: "BTCUSDT", PeriodS: []int64{300, 60}}}},
			{StrategyID: "s2", SymbolPeriods: []wire.SymbolPeriods{{Symbol: "ETHUSDT", PeriodS: []int64{900}}}},
		},
	}}}
}

func attachedSession(t *testing.T) *Session {
	t.Helper()
	s := New(Options{})
	s.Start()
	s.OnStrategyList(catalogList())
	return s
}

func TestSession_StrategySwitchResetsStores(t *testing.T) {
	s := attachedSession(t)
	_, err := s.SelectStrategy("b1", "s1")
	require.NoError(t, err)

	s.Orders.ApplyOrder(wire.Order{OrderID: 1, Size: 1})
	s.ApplyPositionRealized(wire.PositionPnlRealized{PositionID: 1, Value: &wire.Point{Value: 2}})
	s.Total.ApplyRealized(wire.TotalPnlRealized{PositionID: 1, Value: &wire.Point{Value: 2}})
	s.Overlay.SeedOverlay(wire.AlgoChart{})
	require.Equal(t, 2, s.Total.Cursor())
	gen := s.Generation()

	cmds, err := s.SelectStrategy("b1", "s2")
	require.NoError(t, err)

	assert.Zero(t, s.Orders.Len())
	assert.Equal(t, 1, s.Total.Cursor())
	assert.False(t, s.Total.IsClosed(1))
	assert.False(t, s.Overlay.OverlaySeeded())
	assert.Greater(t, s.Generation(), gen)

	require.Len(t, cmds, 1)
	assert.Equal(t, wire.CmdChartRequest, cmds[0].Type)
	assert.Equal(t, &wire.CommandParams{BatchID: "b1", StrategyID: "s2", Symbol: "ETHUSDT", PeriodS: 900}, cmds[0].Params)
	assert.Equal(t, cmds[0].CorrelationID, s.Pending(wire.FamilyStrategy))
}

func TestSession_DefaultSymbolPeriod(t *testing.T) {
	s := attachedSession(t)
	_, err := s.SelectStrategy("b1", "s1")
	require.NoError(t, err)
	assert.Equal(t, Selection{BatchID: "b1", StrategyID: "s1", Symbol: "BTCUSDT", PeriodS: 60}, s.Selection())

	_, err = s.SelectStrategy("b1", "nope")
	assert.ErrorIs(t, err, ErrUnknownStrategy)
}

func TestSession_ModeSwitchIsPermanent(t *testing.T) {
	s := attachedSession(t)
	assert.Equal(t, ModeLive, s.Mode())

	cmds := s.OpenLog("/var/log/runs")
	require.Len(t, cmds, 1)
	assert.Equal(t, wire.CmdReadFromDir, cmds[0].Type)
	assert.Equal(t, "/var/log/runs", cmds[0].Params.Path)
	assert.True(t, s.Loading())

	s.OnLogOpened()
	assert.False(t, s.Loading())
	assert.Equal(t, ModeFromLog, s.Mode())

	cmds = s.Select(Selection{BatchID: "b1", StrategyID: "s1", Symbol: "BTCUSDT", PeriodS: 60})
	require.Len(t, cmds, 1)
	assert.Equal(t, wire.CmdStrategyFromLogRequest, cmds[0].Type)

	cmds = s.SelectOverall("b1")
	require.Len(t, cmds, 1)
	assert.Equal(t, wire.CmdOverallFromLogRequest, cmds[0].Type)

	s.Refresh()
	assert.Equal(t, ModeFromLog, s.Mode())
}

func TestSession_CommandGuards(t *testing.T) {
	s := attachedSession(t)
	assert.Empty(t, s.Select(Selection{BatchID: "b1", StrategyID: "s1", Symbol: "BTCUSDT"}))
	assert.Empty(t, s.Select(Selection{BatchID: "b1", Symbol: "BTCUSDT", PeriodS: 60}))
	assert.Empty(t, s.SelectOverall(""))
	assert.Empty(t, s.Pending(wire.FamilyStrategy))

	cmds := s.SelectOverall("b1")
	require.Len(t, cmds, 1)
	assert.Equal(t, wire.CmdOverallRequest, cmds[0].Type)
}

func TestSession_Refresh(t *testing.T) {
	s := attachedSession(t)
	s.Select(Selection{BatchID: "b1", StrategyID: "s1", Symbol: "BTCUSDT", PeriodS: 60})
	s.SelectOverall("b1")
	s.Calendar.ApplyDayStat(wire.OverallDayStats{Date: "20240102"})
	s.Stats.ApplyOverall(wire.OverallStats{Stats: wire.Stats{NumWins: 1}})

	cmds := s.Refresh()
	require.Len(t, cmds, 2)
	assert.Equal(t, wire.CmdChartRequest, cmds[0].Type)
	assert.Equal(t, &wire.CommandParams{}, cmds[0].Params)
	assert.Equal(t, wire.CmdAppRequest, cmds[1].Type)

	assert.Equal(t, Selection{}, s.Selection())
	assert.Empty(t, s.OverallBatch())
	assert.Empty(t, s.Calendar.View().Days)
	assert.Nil(t, s.Stats.View().Overall)
}

func TestSession_Admit(t *testing.T) {
	s := New(Options{})
	order := wire.NewEvent(&wire.Order{OrderID: 1})

	assert.Equal(t, DropDetached, s.Admit(order), "nothing is subscribed before the catalog")
	assert.Equal(t, Admit, s.Admit(wire.NewEvent(&wire.Loading{})))

	start := s.Start()
	assert.Equal(t, DropStale, s.Admit(wire.NewEvent(&wire.StrategyList{}).WithCorrelation("old")))
	assert.Equal(t, Admit, s.Admit(wire.NewEvent(&wire.StrategyList{}).WithCorrelation(start[0].CorrelationID)))
	s.OnStrategyList(catalogList())

	assert.Equal(t, Admit, s.Admit(order), "uncorrelated events are accepted")

	first := s.Select(Selection{BatchID: "b1", StrategyID: "s1", Symbol: "BTCUSDT", PeriodS: 60})
	second := s.Select(Selection{BatchID: "b1", StrategyID: "s2", Symbol: "ETHUSDT", PeriodS: 900})
	late := wire.NewEvent(&wire.OrderList{}).WithCorrelation(first[0].CorrelationID)
	fresh := wire.NewEvent(&wire.OrderList{}).WithCorrelation(second[0].CorrelationID)
	assert.Equal(t, DropStale, s.Admit(late))
	assert.Equal(t, Admit, s.Admit(fresh))

	overall := wire.NewEvent(&wire.PnlCalendar{}).WithCorrelation(second[0].CorrelationID)
	assert.Equal(t, DropStale, s.Admit(overall), "correlation ids are matched per family")
}

func TestSession_StrictCorrelation(t *testing.T) {
	s := New(Options{StrictCorrelation: true})
	s.OnStrategyList(catalogList())
	assert.Equal(t, DropStale, s.Admit(wire.NewEvent(&wire.Order{})))
	assert.Equal(t, Admit, s.Admit(wire.NewEvent(&wire.OpenLogSuccessful{})))
}

func TestSession_RunYAMLDetaches(t *testing.T) {
	s := attachedSession(t)
	cmds := s.RunYAML("")
	require.Len(t, cmds, 1)
	assert.Equal(t, wire.CmdRunYAML, cmds[0].Type)
	assert.False(t, s.Attached())
	assert.True(t, s.Loading())
	assert.Equal(t, DropDetached, s.Admit(wire.NewEvent(&wire.Chart{})))
	assert.Equal(t, DropDetached, s.Admit(wire.NewEvent(&wire.PnlHour{})))

	s.OnStrategyList(catalogList())
	assert.Equal(t, Admit, s.Admit(wire.NewEvent(&wire.Chart{})))
}

func TestSession_RealizedFansOut(t *testing.T) {
	s := attachedSession(t)
	out := s.ApplyPositionRealizedList(wire.PositionPnlRealizedList{RealizedList: []wire.PositionPnlRealized{
		{PositionID: 3, Value: &wire.Point{Value: 1.5}},
	}})
	assert.Equal(t, store.Applied, out)
	assert.True(t, s.Total.IsClosed(3))
	row, ok := s.Orders.Get(3)
	require.True(t, ok)
	assert.Equal(t, 1.5, row.Realized)

	assert.Equal(t, store.Ignored, s.ApplyPositionUnrealized(wire.PositionPnlUnrealized{PositionID: 3, Value: &wire.Point{Value: 9}}))
	assert.Equal(t, store.Ignored, s.Total.ApplyUnrealized(wire.TotalPnlUnrealized{PositionID: 3, Value: &wire.Point{Value: 9}}))
}

func TestSnapshot_IsDetached(t *testing.T) {
	s := attachedSession(t)
	s.Orders.ApplyOrder(wire.Order{OrderID: 1, Size: 1})
	snap := s.Snapshot()
	s.Orders.ApplyOrder(wire.Order{OrderID: 2, Size: 1})
	s.Touch()

	assert.Len(t, snap.Orders, 1)
	assert.Len(t, s.Snapshot().Orders, 2)
	assert.Equal(t, uint64(1), s.Version())
	assert.Len(t, EmptySnapshot().Total.Points, 1)
}
