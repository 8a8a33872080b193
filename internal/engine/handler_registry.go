package engine

import (
	"algodash/internal/logger"
	"algodash/internal/wire"
)

// HandlerRegistry is the routing table from event kind to handler.
type HandlerRegistry struct {
	handlers map[wire.Kind]EventHandler
}

func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{
		handlers: make(map[wire.Kind]EventHandler),
	}
}

// Register adds a handler; an existing handler for the same kind is replaced.
func (r *HandlerRegistry) Register(h EventHandler) {
	if h == nil {
		return
	}
	r.handlers[h.Type()] = h
}

func (r *HandlerRegistry) Get(k wire.Kind) (EventHandler, bool) {
	h, ok := r.handlers[k]
	return h, ok
}

// Missing lists the known kinds that have no handler.
func (r *HandlerRegistry) Missing() []wire.Kind {
	var out []wire.Kind
	for _, k := range wire.Kinds() {
		if _, ok := r.handlers[k]; !ok {
			out = append(out, k)
		}
	}
	return out
}

// RegisterDefaultHandlers registers the built-in route for every event kind.
func (r *HandlerRegistry) RegisterDefaultHandlers() {
	// session
	r.Register(&StrategyListHandler{})
	r.Register(&OpenLogHandler{})
	r.Register(&LoadingHandler{})
	// order ledger
	r.Register(&OrderHandler{})
	r.Register(&OrderFilledHandler{})
	r.Register(&OrderListHandler{})
	// position / total pnl
	r.Register(&PosRealizedHandler{})
	r.Register(&PosRealizedListHandler{})
	r.Register(&PosUnrealizedHandler{})
	r.Register(&TotalPnlHandler{})
	r.Register(&TotalRealizedHandler{})
	r.Register(&TotalUnrealizedHandler{})
	r.Register(&PositionStatsHandler{})
	// chart overlay
	r.Register(&ChartHandler{})
	r.Register(&CandleHandler{})
	r.Register(&AlgoChartHandler{})
	r.Register(&PointHandler{})
	r.Register(&RectangleHandler{})
	r.Register(&AdviceHandler{})
	// calendar
	r.Register(&PnlCalendarHandler{})
	r.Register(&DayStatsHandler{})
	r.Register(&PnlHourHandler{})
	r.Register(&OverallStatsHandler{})
	if missing := r.Missing(); len(missing) > 0 {
		logger.Warnf("Engine: no handler for kinds %v", missing)
	}
	logger.Debugf("Engine: Registered %d event handlers", len(r.handlers))
}
