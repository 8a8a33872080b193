package session

import (
	"errors"
	"fmt"

	"algodash/internal/store"
	"algodash/internal/wire"
)

var ErrUnknownStrategy = errors.New("session: strategy not in catalog")

type Mode int

const (
	ModeLive Mode = iota
	ModeFromLog
)

func (m Mode) String() string {
	if m == ModeFromLog {
		return "from_log"
	}
	return "live"
}

// Selection 是当前观察的 batch/strategy/symbol/period。
type Selection struct {
	BatchID    string `json:"batch_id"`
	StrategyID string `json:"strategy_id"`
	Symbol     string `json:"symbol"`
	PeriodS    int64  `json:"period_s"`
}

// Complete reports whether the selection is specific enough to request a chart.
func (s Selection) Complete() bool {
	return s.BatchID != "" && s.StrategyID != "" && s.Symbol != "" && s.PeriodS > 0
}

func (s Selection) params() *wire.CommandParams {
	return &wire.CommandParams{BatchID: s.BatchID, StrategyID: s.StrategyID, Symbol: s.Symbol, PeriodS: s.PeriodS}
}

// Verdict 是入站事件的准入结果。
type Verdict int

const (
	Admit Verdict = iota
	DropStale
	DropDetached
)

func (v Verdict) String() string {
	switch v {
	case DropStale:
		return "stale"
	case DropDetached:
		return "detached"
	default:
		return "admit"
	}
}

type Options struct {
	// StrictCorrelation drops solicited events that carry no correlation id.
	StrictCorrelation bool
}

// Session owns every per-session store. It is not safe for concurrent use; the engine confines
// it to a single goroutine.
type Session struct {
	opts Options

	selection    Selection
	overallBatch string
	mode         Mode
	loading      bool
	attached     bool
	generation   uint64
	version      uint64
	pending      map[wire.Family]string

	Catalog   *store.Catalog
	Orders    *store.OrderLedger
	Positions *store.PositionPnlStore
	Total     *store.TotalPnlCurve
	Calendar  *store.Calendar
	Overlay   *store.ChartOverlay
	Stats     *store.StatsBoard
}

func New(opts Options) *Session {
	return &Session{
		opts:      opts,
		pending:   make(map[wire.Family]string),
		Catalog:   store.NewCatalog(),
		Orders:    store.NewOrderLedger(),
		Positions: store.NewPositionPnlStore(),
		Total:     store.NewTotalPnlCurve(),
		Calendar:  store.NewCalendar(),
		Overlay:   store.NewChartOverlay(),
		Stats:     store.NewStatsBoard(),
	}
}

func (s *Session) Selection() Selection         { return s.selection }
func (s *Session) OverallBatch() string         { return s.overallBatch }
func (s *Session) Mode() Mode                   { return s.mode }
func (s *Session) Loading() bool                { return s.loading }
func (s *Session) Attached() bool               { return s.attached }
func (s *Session) Generation() uint64           { return s.generation }
func (s *Session) Version() uint64              { return s.version }
func (s *Session) Touch()                       { s.version++ }
func (s *Session) Pending(f wire.Family) string { return s.pending[f] }

func (s *Session) issue(cmds []wire.Command, kind wire.CommandKind, params *wire.CommandParams) []wire.Command {
	cmd := wire.NewCommand(kind, params)
	if f := kind.Family(); f != wire.FamilyNone {
		s.pending[f] = cmd.CorrelationID
	}
	return append(cmds, cmd)
}

func (s *Session) resetStrategy() {
	s.Orders.Reset()
	s.Positions.Reset()
	s.Total.Reset()
	s.Overlay.Reset()
	s.Stats.ResetPosition()
	delete(s.pending, wire.FamilyStrategy)
	s.generation++
}

func (s *Session) resetOverall() {
	s.Calendar.Reset()
	s.Stats.ResetOverall()
	delete(s.pending, wire.FamilyOverall)
	s.generation++
}

// Start asks the backend for the strategy catalog.
func (s *Session) Start() []wire.Command {
	s.loading = true
	return s.issue(nil, wire.CmdStrategiesRequest, nil)
}

// Select switches the observed strategy view. Stores are cleared before the
// re-seed command is built.
func (s *Session) Select(sel Selection) []wire.Command {
	s.resetStrategy()
	s.selection = sel
	return s.chartRequest(nil)
}

// SelectStrategy selects a strategy with its default symbol (first listed) and smallest period.
func (s *Session) SelectStrategy(batchID, strategyID string) ([]wire.Command, error) {
	info, ok := s.Catalog.Strategy(batchID, strategyID)
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrUnknownStrategy, batchID, strategyID)
	}
	symbol, period, _ := info.DefaultSymbolPeriod()
	return s.Select(Selection{BatchID: batchID, StrategyID: strategyID, Symbol: symbol, PeriodS: period}), nil
}

func (s *Session) chartRequest(cmds []wire.Command) []wire.Command {
	if !s.selection.Complete() {
		return cmds
	}
	kind := wire.CmdChartRequest
	if s.mode == ModeFromLog {
		kind = wire.CmdStrategyFromLogRequest
	}
	return s.issue(cmds, kind, s.selection.params())
}

// SelectOverall switches the batch shown by the overall view.
func (s *Session) SelectOverall(batchID string) []wire.Command {
	s.resetOverall()
	s.overallBatch = batchID
	if batchID == "" {
		return nil
	}
	kind := wire.CmdOverallRequest
	if s.mode == ModeFromLog {
		kind = wire.CmdOverallFromLogRequest
	}
	return s.issue(nil, kind, &wire.CommandParams{BatchID: batchID})
}

// Refresh clears the selection and every store, then re-requests the catalog.
func (s *Session) Refresh() []wire.Command {
	s.resetStrategy()
	s.resetOverall()
	s.selection = Selection{}
	s.overallBatch = ""
	cmds := s.issue(nil, wire.CmdChartRequest, Selection{}.params())
	return s.issue(cmds, wire.CmdAppRequest, nil)
}

// RequestApp re-requests the catalog without touching the stores.
func (s *Session) RequestApp() []wire.Command {
	return s.issue(nil, wire.CmdAppRequest, nil)
}

// OpenLog asks the backend to load logs from dir; empty lets the backend choose.
func (s *Session) OpenLog(dir string) []wire.Command {
	s.loading = true
	return s.issue(nil, wire.CmdReadFromDir, &wire.CommandParams{Path: dir})
}

// RunYAML starts a new run. The current subscription is detached until the next catalog arrives.
func (s *Session) RunYAML(path string) []wire.Command {
	s.loading = true
	s.attached = false
	return s.issue(nil, wire.CmdRunYAML, &wire.CommandParams{Path: path})
}

func (s *Session) OnStrategyList(list wire.StrategyList) store.Outcome {
	out := s.Catalog.Replace(list)
	s.attached = true
	s.loading = false
	return out
}

func (s *Session) OnLogOpened() store.Outcome {
	s.mode = ModeFromLog
	s.loading = false
	return store.Applied
}

func (s *Session) OnLoading() store.Outcome {
	s.loading = true
	return store.Applied
}

// Admit decides whether an inbound event may touch the stores.
func (s *Session) Admit(evt wire.Event) Verdict {
	scope := evt.Kind.Scope()
	if scope != wire.ScopeSession && !s.attached {
		return DropDetached
	}
	family := wire.FamilyOf(evt.Kind)
	if family == wire.FamilyNone {
		return Admit
	}
	if evt.CorrelationID == "" {
		if s.opts.StrictCorrelation {
			return DropStale
		}
		return Admit
	}
	if s.pending[family] != evt.CorrelationID {
		return DropStale
	}
	return Admit
}
