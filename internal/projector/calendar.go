package projector

import (
	"sort"
	"time"

	"algodash/internal/session"
	"algodash/internal/store"

	"github.com/shopspring/decimal"
)

const dateLayout = "20060102"

// maxCalendarDays bounds the grid when the backend reports a very wide date range.
const maxCalendarDays = 3660

// profitableFloor treats tiny negative totals as break-even.
var profitableFloor = decimal.NewFromFloat(-0.001)

// CalendarCell is one day of the PnL calendar.
type CalendarCell struct {
	Date        string   `json:"date"`
	Day         int      `json:"day"`
	Weekday     string   `json:"weekday"`
	HasData     bool     `json:"has_data"`
	Total       float64  `json:"total"`
	Label       string   `json:"label"`
	Profitable  bool     `json:"profitable"`
	StrategyIDs []string `json:"strategy_ids,omitempty"`
}

type CalendarGrid struct {
	MinDate string         `json:"min_date"`
	MaxDate string         `json:"max_date"`
	Cells   []CalendarCell `json:"cells"`
}

func cellFor(date string, t time.Time, day store.DayStat, ok bool) CalendarCell {
	cell := CalendarCell{
		Date:    date,
		Day:     t.Day(),
		Weekday: store.Weekdays[t.Weekday()],
		Label:   Placeholder,
	}
	if !ok {
		return cell
	}
	cell.HasData = true
	cell.Total = day.TotalRealizedPnl.InexactFloat64()
	cell.Label = day.TotalRealizedPnl.StringFixed(2)
	if day.TotalRealizedPnl.GreaterThan(profitableFloor) {
		cell.Profitable = true
		cell.Label = "+" + cell.Label
	}
	cell.StrategyIDs = day.StrategyIDs
	return cell
}

// Calendar lays out every day between the calendar bounds, filling days without data with a placeholder.
func Calendar(snap *session.Snapshot) CalendarGrid {
	cal := snap.Calendar
	grid := CalendarGrid{MinDate: cal.MinDate, MaxDate: cal.MaxDate}
	start, err1 := time.Parse(dateLayout, cal.MinDate)
	end, err2 := time.Parse(dateLayout, cal.MaxDate)
	if err1 != nil || err2 != nil || end.Before(start) {
		return grid
	}
	for d, n := start, 0; !d.After(end) && n < maxCalendarDays; d, n = d.AddDate(0, 0, 1), n+1 {
		date := d.Format(dateLayout)
		day, ok := cal.Days[date]
		grid.Cells = append(grid.Cells, cellFor(date, d, day, ok))
	}
	return grid
}

// DrillTarget is what clicking a calendar day opens: a single strategy, or a menu when several traded.
type DrillTarget struct {
	BatchID    string   `json:"batch_id"`
	StrategyID string   `json:"strategy_id,omitempty"`
	Menu       []string `json:"menu,omitempty"`
}

// Drill resolves a calendar date to its drill-down target.
func Drill(snap *session.Snapshot, date string) (DrillTarget, bool) {
	day, ok := snap.Calendar.Days[date]
	if !ok || len(day.StrategyIDs) == 0 {
		return DrillTarget{}, false
	}
	target := DrillTarget{BatchID: snap.OverallBatch}
	if len(day.StrategyIDs) == 1 {
		target.StrategyID = day.StrategyIDs[0]
		return target, true
	}
	target.Menu = append([]string(nil), day.StrategyIDs...)
	sort.Strings(target.Menu)
	return target, true
}

// Bar is one x-axis bucket of a wins/losses column chart.
type Bar struct {
	Label  string  `json:"label"`
	Wins   float64 `json:"wins"`
	Losses float64 `json:"losses"`
}

// WeekdayBars returns Sun..Sat buckets in display order.
func WeekdayBars(snap *session.Snapshot) []Bar {
	bars := make([]Bar, len(store.Weekdays))
	for i, label := range store.Weekdays {
		bars[i].Label = label
		if b, ok := snap.Calendar.Weekdays[label]; ok {
			bars[i].Wins = b.Wins.InexactFloat64()
			bars[i].Losses = b.Losses.InexactFloat64()
		}
	}
	return bars
}

// HourBars returns 24 buckets; each hour's total lands in wins or losses by sign.
func HourBars(snap *session.Snapshot) []Bar {
	bars := make([]Bar, 24)
	for h := range bars {
		bars[h].Label = time.Date(0, 1, 1, h, 0, 0, 0, time.UTC).Format("15:04")
		v, ok := snap.Calendar.Hours[int32(h)]
		if !ok {
			continue
		}
		switch {
		case v.IsPositive():
			bars[h].Wins = v.InexactFloat64()
		case v.IsNegative():
			bars[h].Losses = v.InexactFloat64()
		}
	}
	return bars
}

// CurvePoint is one day on the overall cumulative PnL curve.
type CurvePoint struct {
	Date        string  `json:"date"`
	TimestampNs int64   `json:"timestamp_ns"`
	Value       float64 `json:"value"`
}

// OverallCurve accumulates daily totals in day order.
func OverallCurve(snap *session.Snapshot) []CurvePoint {
	days := make([]store.DayStat, 0, len(snap.Calendar.Days))
	for _, d := range snap.Calendar.Days {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool {
		if days[i].DayTimestampNs != days[j].DayTimestampNs {
			return days[i].DayTimestampNs < days[j].DayTimestampNs
		}
		return days[i].Date < days[j].Date
	})

	out := make([]CurvePoint, 0, len(days))
	sum := decimal.Zero
	for _, d := range days {
		sum = sum.Add(d.TotalRealizedPnl)
		out = append(out, CurvePoint{Date: d.Date, TimestampNs: d.DayTimestampNs, Value: sum.InexactFloat64()})
	}
	return out
}
