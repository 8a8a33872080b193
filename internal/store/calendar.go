package store

import (
	"sort"
	"time"

	"algodash/internal/wire"

	"github.com/shopspring/decimal"
)

const calendarDateLayout = "20060102"

// Weekdays 是星期标签，顺序与图表 x 轴一致（周日为 0）。
var Weekdays = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// WeekdayIndex returns the position of a weekday label, or -1.
func WeekdayIndex(label string) int {
	for i, d := range Weekdays {
		if d == label {
			return i
		}
	}
	return -1
}

type DayStat struct {
	Date             string
	Day              string
	DayTimestampNs   int64
	TotalRealizedPnl decimal.Decimal
	LastRealizedPnl  decimal.Decimal
	PositionHour     int32
	StrategyIDs      []string
}

type WeekdayBucket struct {
	Wins   decimal.Decimal
	Losses decimal.Decimal
}

// CalendarView is an immutable copy of the calendar aggregates.
type CalendarView struct {
	Days     map[string]DayStat
	Hours    map[int32]decimal.Decimal
	Weekdays map[string]WeekdayBucket
	MinDate  string
	MaxDate  string
	Seeded   bool
}

// Calendar 按日期、星期、小时聚合整个 batch 的已实现盈亏。
type Calendar struct {
	days     map[string]*DayStat
	hours    map[int32]decimal.Decimal
	weekdays map[string]*WeekdayBucket
	minDate  string
	maxDate  string
	seeded   bool
}

func NewCalendar() *Calendar {
	c := &Calendar{}
	c.Reset()
	return c
}

func (c *Calendar) Reset() {
	c.days = make(map[string]*DayStat)
	c.hours = make(map[int32]decimal.Decimal)
	c.weekdays = make(map[string]*WeekdayBucket)
	c.minDate, c.maxDate = "", ""
	c.seeded = false
}

func newDayStat(s wire.OverallDayStats) *DayStat {
	return &DayStat{
		Date:             s.Date,
		Day:              s.Day,
		DayTimestampNs:   s.DayTimestampNs,
		TotalRealizedPnl: decimal.NewFromFloat(s.TotalRealizedPnl),
		LastRealizedPnl:  decimal.NewFromFloat(s.LastRealizedPnl),
		PositionHour:     s.PositionHour,
		StrategyIDs:      unionStrings(nil, s.StrategyIDs),
	}
}

func validDate(date string) bool {
	_, err := time.Parse(calendarDateLayout, date)
	return err == nil
}

// weekdayLabel keeps a known label and otherwise derives it from the date.
func weekdayLabel(day, date string) string {
	if WeekdayIndex(day) >= 0 {
		return day
	}
	t, err := time.Parse(calendarDateLayout, date)
	if err != nil {
		return ""
	}
	return Weekdays[t.Weekday()]
}

func (c *Calendar) weekday(label string) *WeekdayBucket {
	b, ok := c.weekdays[label]
	if !ok {
		b = &WeekdayBucket{}
		c.weekdays[label] = b
	}
	return b
}

func (c *Calendar) foldWeekday(label string, v decimal.Decimal) {
	if label == "" || v.IsZero() {
		return
	}
	b := c.weekday(label)
	if v.IsPositive() {
		b.Wins = b.Wins.Add(v)
	} else {
		b.Losses = b.Losses.Add(v)
	}
}

// Seed replaces every day and recomputes the bounds and weekday buckets.
// Keys of the snapshot map are authoritative for the date.
func (c *Calendar) Seed(snapshot wire.PnlCalendar) Outcome {
	c.days = make(map[string]*DayStat, len(snapshot.Stats))
	c.weekdays = make(map[string]*WeekdayBucket)
	dates := make([]string, 0, len(snapshot.Stats))
	for date, stat := range snapshot.Stats {
		day := newDayStat(stat)
		day.Date = date
		c.days[date] = day
		c.foldWeekday(weekdayLabel(day.Day, date), day.TotalRealizedPnl)
		if validDate(date) {
			dates = append(dates, date)
		}
	}
	sort.Strings(dates)
	c.minDate, c.maxDate = "", ""
	if len(dates) > 0 {
		c.minDate, c.maxDate = dates[0], dates[len(dates)-1]
	}
	c.seeded = true
	return Applied
}

// SeedHours replaces the hour buckets.
func (c *Calendar) SeedHours(snapshot wire.PnlHour) Outcome {
	c.hours = make(map[int32]decimal.Decimal, len(snapshot.Stats))
	for hour, stat := range snapshot.Stats {
		c.hours[hour] = decimal.NewFromFloat(stat.TotalRealizedPnl)
	}
	return Applied
}

// ApplyDayStat merges one day, widens the bounds and folds the last close into hour and weekday buckets.
func (c *Calendar) ApplyDayStat(s wire.OverallDayStats) Outcome {
	if s.Date == "" {
		return Ignored
	}
	incoming := newDayStat(s)
	if prev, ok := c.days[s.Date]; ok {
		incoming.StrategyIDs = unionStrings(prev.StrategyIDs, s.StrategyIDs)
	}
	c.days[s.Date] = incoming

	if validDate(s.Date) {
		if c.minDate == "" || s.Date < c.minDate {
			c.minDate = s.Date
		}
		if c.maxDate == "" || s.Date > c.maxDate {
			c.maxDate = s.Date
		}
	}

	last := incoming.LastRealizedPnl
	if s.PositionHour >= 0 && s.PositionHour < 24 {
		c.hours[s.PositionHour] = c.hours[s.PositionHour].Add(last)
	}
	c.foldWeekday(weekdayLabel(incoming.Day, s.Date), last)
	return Applied
}

func (c *Calendar) Bounds() (string, string) { return c.minDate, c.maxDate }

func (c *Calendar) Day(date string) (DayStat, bool) {
	d, ok := c.days[date]
	if !ok {
		return DayStat{}, false
	}
	cp := *d
	cp.StrategyIDs = append([]string(nil), d.StrategyIDs...)
	return cp, true
}

func (c *Calendar) View() CalendarView {
	view := CalendarView{
		Days:     make(map[string]DayStat, len(c.days)),
		Hours:    make(map[int32]decimal.Decimal, len(c.hours)),
		Weekdays: make(map[string]WeekdayBucket, len(c.weekdays)),
		MinDate:  c.minDate,
		MaxDate:  c.maxDate,
		Seeded:   c.seeded,
	}
	for date := range c.days {
		view.Days[date], _ = c.Day(date)
	}
	for h, v := range c.hours {
		view.Hours[h] = v
	}
	for label, b := range c.weekdays {
		view.Weekdays[label] = *b
	}
	return view
}

func unionStrings(base, extra []string) []string {
	seen := make(map[string]struct{}, len(base)+len(extra))
	out := make([]string, 0, len(base)+len(extra))
	for _, list := range [][]string{base, extra} {
		for _, s := range list {
			if s == "" {
				continue
			}
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}
