package wire

// Kind 是入站事件的类型标签，集合是封闭的。
type Kind string

const (
	KindStrategyList       Kind = "strategy_list"
	KindChart              Kind = "chart"
	KindUpdateCandle       Kind = "update_candle"
	KindAlgoChart          Kind = "algo_chart"
	KindPoint              Kind = "point"
	KindRectangle          Kind = "rectangle"
	KindAdvice             Kind = "advice"
	KindOrder              Kind = "order"
	KindOrderFilled        Kind = "order_filled"
	KindOrderList          Kind = "order_list"
	KindPosPnlRealized     Kind = "pos_pnl_realized"
	KindPosPnlRealizedList Kind = "pos_pnl_realized_list"
	KindPosPnlUnrealized   Kind = "pos_pnl_unrealized"
	KindTotalPnl           Kind = "total_pnl"
	KindTotalPnlRealized   Kind = "total_pnl_realized"
	KindTotalPnlUnrealized Kind = "total_pnl_unrealized"
	KindPnlCalendar        Kind = "pnl_calendar"
	KindOverallDayStats    Kind = "overall_day_stats"
	KindPnlHour            Kind = "pnl_hour"
	KindOpenLogSuccessful  Kind = "open_log_successful"
	KindLoading            Kind = "loading"
	KindPositionStats      Kind = "position_stats"
	KindOverallStats       Kind = "overall_stats"
)

// Scope groups kinds by the part of the session they feed.
type Scope int

const (
	ScopeSession Scope = iota
	ScopeStrategy
	ScopeOverall
)

func (s Scope) String() string {
	switch s {
	case ScopeStrategy:
		return "strategy"
	case ScopeOverall:
		return "overall"
	default:
		return "session"
	}
}

var kindScopes = map[Kind]Scope{
	KindStrategyList:       ScopeSession,
	KindChart:              ScopeStrategy,
	KindUpdateCandle:       ScopeStrategy,
	KindAlgoChart:          ScopeStrategy,
	KindPoint:              ScopeStrategy,
	KindRectangle:          ScopeStrategy,
	KindAdvice:             ScopeStrategy,
	KindOrder:              ScopeStrategy,
	KindOrderFilled:        ScopeStrategy,
	KindOrderList:          ScopeStrategy,
	KindPosPnlRealized:     ScopeStrategy,
	KindPosPnlRealizedList: ScopeStrategy,
	KindPosPnlUnrealized:   ScopeStrategy,
	KindTotalPnl:           ScopeStrategy,
	KindTotalPnlRealized:   ScopeStrategy,
	KindTotalPnlUnrealized: ScopeStrategy,
	KindPnlCalendar:        ScopeOverall,
	KindOverallDayStats:    ScopeOverall,
	KindPnlHour:            ScopeOverall,
	KindOpenLogSuccessful:  ScopeSession,
	KindLoading:            ScopeSession,
	KindPositionStats:      ScopeStrategy,
	KindOverallStats:       ScopeOverall,
}

// Kinds 返回全部已知事件类型，顺序固定。
func Kinds() []Kind {
	return []Kind{
		KindStrategyList, KindChart, KindUpdateCandle, KindAlgoChart, KindPoint,
		KindRectangle, KindAdvice, KindOrder, KindOrderFilled, KindOrderList,
		KindPosPnlRealized, KindPosPnlRealizedList, KindPosPnlUnrealized,
		KindTotalPnl, KindTotalPnlRealized, KindTotalPnlUnrealized,
		KindPnlCalendar, KindOverallDayStats, KindPnlHour,
		KindOpenLogSuccessful, KindLoading, KindPositionStats, KindOverallStats,
	}
}

func (k Kind) Valid() bool {
	_, ok := kindScopes[k]
	return ok
}

func (k Kind) Scope() Scope {
	return kindScopes[k]
}

func (k Kind) String() string { return string(k) }
