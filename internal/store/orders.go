package store

import (
	"math"
	"sort"
	"strconv"

	"algodash/internal/wire"
)

type OrderStatus string

const (
	StatusUnknown   OrderStatus = ""
	StatusOpen      OrderStatus = "OPEN"
	StatusFilled    OrderStatus = "FILLED"
	StatusCancelled OrderStatus = "CANCELLED"
)

var orderStatusCodes = map[int32]OrderStatus{
	0: StatusOpen,
	1: StatusFilled,
	2: StatusCancelled,
}

// StatusFromCode maps a wire status code; unrecognized codes map to StatusUnknown.
func StatusFromCode(code int32) OrderStatus {
	return orderStatusCodes[code]
}

type Side string

const (
	SideNone Side = ""
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

func SideFromSize(size float64) Side {
	if size > 0 {
		return SideBuy
	}
	return SideSell
}

// Origin records which event created a ledger row.
type Origin int

const (
	OriginOrder Origin = iota
	OriginFill
	OriginRealized
)

// OrderRecord 是订单表的一行。订单与已实现盈亏共用同一 id 空间。
type OrderRecord struct {
	OrderID      int64
	DisplayID    string
	Side         Side
	Amount       float64
	Price        float64
	FillPrice    float64
	Status       OrderStatus
	TimestampNs  int64
	Realized     float64
	HasOrder     bool
	HasFillPrice bool
	HasRealized  bool
	Origin       Origin
	Seq          uint64
}

// OrderLedger is the keyed store behind the order table.
type OrderLedger struct {
	records map[int64]*OrderRecord
	seq     uint64
}

func NewOrderLedger() *OrderLedger {
	return &OrderLedger{records: make(map[int64]*OrderRecord)}
}

func (l *OrderLedger) Len() int { return len(l.records) }

func (l *OrderLedger) Reset() {
	l.records = make(map[int64]*OrderRecord)
	l.seq = 0
}

func (l *OrderLedger) create(id int64, origin Origin) *OrderRecord {
	l.seq++
	rec := &OrderRecord{OrderID: id, Origin: origin, Seq: l.seq}
	l.records[id] = rec
	return rec
}

func fillOrderFields(rec *OrderRecord, o wire.Order) {
	rec.DisplayID = strconv.FormatInt(o.OrderID+1, 10)
	rec.Amount = math.Abs(o.Size)
	rec.HasOrder = true
}

// ApplyOrder upserts an incremental order event. A known status is kept.
func (l *OrderLedger) ApplyOrder(o wire.Order) Outcome {
	rec, ok := l.records[o.OrderID]
	if !ok {
		rec = l.create(o.OrderID, OriginOrder)
		fillOrderFields(rec, o)
		rec.FillPrice = o.FilledPrice
		rec.HasFillPrice = true
		rec.Status = StatusFromCode(o.OrderStatus)
	} else {
		if !rec.HasOrder {
			fillOrderFields(rec, o)
		}
		if rec.Status == StatusUnknown {
			rec.Status = StatusFromCode(o.OrderStatus)
		}
	}
	rec.Side = SideFromSize(o.Size)
	rec.Price = o.Price
	rec.TimestampNs = o.TimestampNs
	return Applied
}

// ApplyFill forces FILLED and records the fill price.
func (l *OrderLedger) ApplyFill(f wire.OrderFilled) Outcome {
	rec, ok := l.records[f.OrderID]
	if !ok {
		rec = l.create(f.OrderID, OriginFill)
	}
	rec.FillPrice = f.Price
	rec.HasFillPrice = true
	rec.Status = StatusFilled
	return Applied
}

// ApplyOrderList applies an authoritative batch. Status and fill price overwrite unconditionally;
// an unrecognized status code blanks the status.
func (l *OrderLedger) ApplyOrderList(orders []wire.Order) Outcome {
	for _, o := range orders {
		rec, ok := l.records[o.OrderID]
		if !ok {
			rec = l.create(o.OrderID, OriginOrder)
		}
		if !rec.HasOrder {
			fillOrderFields(rec, o)
		}
		rec.Status = StatusFromCode(o.OrderStatus)
		rec.Side = SideFromSize(o.Size)
		rec.Price = o.Price
		rec.FillPrice = o.FilledPrice
		rec.HasFillPrice = true
		rec.TimestampNs = o.TimestampNs
	}
	return Applied
}

// ApplyRealized fills the realized column. A missing value still creates the row.
func (l *OrderLedger) ApplyRealized(r wire.PositionPnlRealized) Outcome {
	rec, ok := l.records[r.PositionID]
	if !ok {
		rec = l.create(r.PositionID, OriginRealized)
	}
	if r.Value == nil {
		return Ignored
	}
	rec.Realized = r.Value.Value
	rec.HasRealized = true
	return Applied
}

func (l *OrderLedger) ApplyRealizedList(list []wire.PositionPnlRealized) Outcome {
	out := Ignored
	for _, r := range list {
		out = out.Merge(l.ApplyRealized(r))
	}
	return out
}

func (l *OrderLedger) Get(id int64) (OrderRecord, bool) {
	rec, ok := l.records[id]
	if !ok {
		return OrderRecord{}, false
	}
	return *rec, true
}

// Rows 返回按时间升序的副本，同一时间戳按到达顺序。
func (l *OrderLedger) Rows() []OrderRecord {
	rows := make([]OrderRecord, 0, len(l.records))
	for _, rec := range l.records {
		rows = append(rows, *rec)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].TimestampNs != rows[j].TimestampNs {
			return rows[i].TimestampNs < rows[j].TimestampNs
		}
		return rows[i].Seq < rows[j].Seq
	})
	return rows
}
