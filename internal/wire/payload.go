package wire

// Payload is implemented only by the event structs of this package.
type Payload interface {
	Kind() Kind
	sealed()
}

type Point struct {
	TimestampNs int64   `json:"timestamp_ns"`
	Value       float64 `json:"value"`
}

type OHLCV struct {
	TimestampNs int64   `json:"timestamp_ns"`
	Open        float64 `json:"open"`
	High        float64 `json:"high"`
	Low         float64 `json:"low"`
	Close       float64 `json:"close"`
	Volume      float64 `json:"volume"`
}

type SymbolPeriods struct {
	Symbol  string  `json:"symbol"`
	PeriodS []int64 `json:"period_s"`
}

type StrategyEntry struct {
	StrategyID    string          `json:"strategy_id"`
	SymbolPeriods []SymbolPeriods `json:"symbol_periods"`
}

type BatchEntry struct {
	BatchID    string          `json:"batch_id"`
	Strategies []StrategyEntry `json:"strategies"`
}

// StrategyList 是后端的 app 响应：batch → strategy → symbol → periods。
type StrategyList struct {
	Batches []BatchEntry `json:"batches"`
}

type Chart struct {
	OHLCV []OHLCV `json:"ohlcv"`
}

type CandleUpdate struct {
	OHLCV *OHLCV `json:"ohlcv"`
}

type Advice struct {
	TimestampNs int64   `json:"timestamp_ns"`
	Price       float64 `json:"price"`
	Size        float64 `json:"size"`
}

type Line struct {
	Color  string  `json:"color,omitempty"`
	Points []Point `json:"points"`
}

type Rectangle struct {
	LowPrice         float64 `json:"low_price"`
	HighPrice        float64 `json:"high_price"`
	EarlyTimestampNs int64   `json:"early_timestamp_ns"`
	LateTimestampNs  int64   `json:"late_timestamp_ns"`
	Color            string  `json:"color,omitempty"`
}

// AlgoChart 是策略分析层的整份 overlay 快照。
type AlgoChart struct {
	Advices    []Advice        `json:"advices"`
	Lines      map[string]Line `json:"lines"`
	Rectangles []Rectangle     `json:"rectangles"`
}

// LinePoint is the incremental update for one named line.
type LinePoint struct {
	Description string `json:"description"`
	Value       *Point `json:"value"`
}

type Order struct {
	OrderID     int64   `json:"order_id"`
	Size        float64 `json:"size"`
	Price       float64 `json:"price"`
	FilledPrice float64 `json:"filled_price"`
	OrderStatus int32   `json:"order_status"`
	TimestampNs int64   `json:"timestamp_ns"`
}

type OrderFilled struct {
	OrderID     int64   `json:"order_id"`
	Price       float64 `json:"price"`
	TimestampNs int64   `json:"timestamp_ns"`
}

type OrderList struct {
	Orders []Order `json:"orders"`
}

type PositionPnlRealized struct {
	PositionID int64  `json:"position_id"`
	Value      *Point `json:"value"`
}

type PositionPnlRealizedList struct {
	RealizedList []PositionPnlRealized `json:"realized_list"`
}

type PositionPnlUnrealized struct {
	PositionID int64  `json:"position_id"`
	Value      *Point `json:"value"`
}

type TotalPnl struct {
	Points []Point `json:"points"`
}

type TotalPnlRealized struct {
	PositionID int64  `json:"position_id"`
	Value      *Point `json:"value"`
}

type TotalPnlUnrealized struct {
	PositionID int64  `json:"position_id"`
	Value      *Point `json:"value"`
}

// OverallDayStats 是单日聚合，既出现在日历快照里也作为增量事件单独下发。
type OverallDayStats struct {
	Date             string   `json:"date"`
	Day              string   `json:"day"`
	DayTimestampNs   int64    `json:"day_timestamp_ns"`
	TotalRealizedPnl float64  `json:"total_realized_pnl"`
	LastRealizedPnl  float64  `json:"last_realized_pnl"`
	PositionHour     int32    `json:"position_hour"`
	StrategyIDs      []string `json:"strategy_ids"`
}

type PnlCalendar struct {
	Stats map[string]OverallDayStats `json:"stats"`
}

type HourStats struct {
	TotalRealizedPnl float64 `json:"total_realized_pnl"`
}

type PnlHour struct {
	Stats map[int32]HourStats `json:"stats"`
}

type OpenLogSuccessful struct{}

type Loading struct{}

// Stats 是统计面板的通用字段。
type Stats struct {
	TotalRealizedPnl float64 `json:"total_realized_pnl"`
	WinRate          float64 `json:"win_rate"`
	NumWins          int64   `json:"num_wins"`
	NumLosses        int64   `json:"num_losses"`
	MaxDrawdown      float64 `json:"max_drawdown"`
	MaxDrawup        float64 `json:"max_drawup"`
	AvgWin           float64 `json:"avg_win"`
	AvgLoss          float64 `json:"avg_loss"`
}

type PositionStats struct {
	Stats
}

type OverallStats struct {
	Stats
}

func (*StrategyList) Kind() Kind            { return KindStrategyList }
func (*Chart) Kind() Kind                   { return KindChart }
func (*CandleUpdate) Kind() Kind            { return KindUpdateCandle }
func (*AlgoChart) Kind() Kind               { return KindAlgoChart }
func (*LinePoint) Kind() Kind               { return KindPoint }
func (*Rectangle) Kind() Kind               { return KindRectangle }
func (*Advice) Kind() Kind                  { return KindAdvice }
func (*Order) Kind() Kind                   { return KindOrder }
func (*OrderFilled) Kind() Kind             { return KindOrderFilled }
func (*OrderList) Kind() Kind               { return KindOrderList }
func (*PositionPnlRealized) Kind() Kind     { return KindPosPnlRealized }
func (*PositionPnlRealizedList) Kind() Kind { return KindPosPnlRealizedList }
func (*PositionPnlUnrealized) Kind() Kind   { return KindPosPnlUnrealized }
func (*TotalPnl) Kind() Kind                { return KindTotalPnl }
func (*TotalPnlRealized) Kind() Kind        { return KindTotalPnlRealized }
func (*TotalPnlUnrealized) Kind() Kind      { return KindTotalPnlUnrealized }
func (*PnlCalendar) Kind() Kind             { return KindPnlCalendar }
func (*OverallDayStats) Kind() Kind         { return KindOverallDayStats }
func (*PnlHour) Kind() Kind                 { return KindPnlHour }
func (*OpenLogSuccessful) Kind() Kind       { return KindOpenLogSuccessful }
func (*Loading) Kind() Kind                 { return KindLoading }
func (*PositionStats) Kind() Kind           { return KindPositionStats }
func (*OverallStats) Kind() Kind            { return KindOverallStats }

func (*StrategyList) sealed()            {}
func (*Chart) sealed()                   {}
func (*CandleUpdate) sealed()            {}
func (*AlgoChart) sealed()               {}
func (*LinePoint) sealed()               {}
func (*Rectangle) sealed()               {}
func (*Advice) sealed()                  {}
func (*Order) sealed()                   {}
func (*OrderFilled) sealed()             {}
func (*OrderList) sealed()               {}
func (*PositionPnlRealized) sealed()     {}
func (*PositionPnlRealizedList) sealed() {}
func (*PositionPnlUnrealized) sealed()   {}
func (*TotalPnl) sealed()                {}
func (*TotalPnlRealized) sealed()        {}
func (*TotalPnlUnrealized) sealed()      {}
func (*PnlCalendar) sealed()             {}
func (*OverallDayStats) sealed()         {}
func (*PnlHour) sealed()                 {}
func (*OpenLogSuccessful) sealed()       {}
func (*Loading) sealed()                 {}
func (*PositionStats) sealed()           {}
func (*OverallStats) sealed()            {}

var payloadFactories = map[Kind]func() Payload{
	KindStrategyList:       func() Payload { return &StrategyList{} },
	KindChart:              func() Payload { return &Chart{} },
	KindUpdateCandle:       func() Payload { return &CandleUpdate{} },
	KindAlgoChart:          func() Payload { return &AlgoChart{} },
	KindPoint:              func() Payload { return &LinePoint{} },
	KindRectangle:          func() Payload { return &Rectangle{} },
	KindAdvice:             func() Payload { return &Advice{} },
	KindOrder:              func() Payload { return &Order{} },
	KindOrderFilled:        func() Payload { return &OrderFilled{} },
	KindOrderList:          func() Payload { return &OrderList{} },
	KindPosPnlRealized:     func() Payload { return &PositionPnlRealized{} },
	KindPosPnlRealizedList: func() Payload { return &PositionPnlRealizedList{} },
	KindPosPnlUnrealized:   func() Payload { return &PositionPnlUnrealized{} },
	KindTotalPnl:           func() Payload { return &TotalPnl{} },
	KindTotalPnlRealized:   func() Payload { return &TotalPnlRealized{} },
	KindTotalPnlUnrealized: func() Payload { return &TotalPnlUnrealized{} },
	KindPnlCalendar:        func() Payload { return &PnlCalendar{} },
	KindOverallDayStats:    func() Payload { return &OverallDayStats{} },
	KindPnlHour:            func() Payload { return &PnlHour{} },
	KindOpenLogSuccessful:  func() Payload { return &OpenLogSuccessful{} },
	KindLoading:            func() Payload { return &Loading{} },
	KindPositionStats:      func() Payload { return &PositionStats{} },
	KindOverallStats:       func() Payload { return &OverallStats{} },
}

// NewPayload returns an empty payload for kind, or nil for an unknown kind.
func NewPayload(kind Kind) Payload {
	if f, ok := payloadFactories[kind]; ok {
		return f()
	}
	return nil
}
