// Package projector turns session snapshots into display-ready views.
//
// Every function here is pure: it reads an immutable snapshot and never touches the engine.
package projector

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Placeholder is rendered for values that have not arrived yet.
const Placeholder = "--"

var periodLabels = map[int64]string{
	60:     "1m",
	120:    "2m",
	180:    "3m",
	300:    "5m",
	900:    "15m",
	1800:   "30m",
	3600:   "1h",
	14400:  "4h",
	86400:  "1d",
	604800: "1w",
}

// PeriodLabel returns the short label for a bar period in seconds.
func PeriodLabel(periodS int64) string {
	if label, ok := periodLabels[periodS]; ok {
		return label
	}
	return fmt.Sprintf("%ds", periodS)
}

func fixed2(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

func money(v float64) string {
	return "$" + fixed2(v)
}

func percent(ratio float64) string {
	return decimal.NewFromFloat(ratio).Mul(decimal.NewFromInt(100)).StringFixed(2) + "%"
}

// Projector carries presentation settings; it holds no session state.
type Projector struct {
	loc *time.Location
}

// DefaultZone is the display timezone for order timestamps.
const DefaultZone = "America/New_York"

// New returns a projector formatting times in loc. A nil loc loads DefaultZone and falls back to UTC.
func New(loc *time.Location) *Projector {
	if loc == nil {
		var err error
		if loc, err = time.LoadLocation(DefaultZone); err != nil {
			loc = time.UTC
		}
	}
	return &Projector{loc: loc}
}

func (p *Projector) formatTime(ns int64) string {
	return time.Unix(0, ns).In(p.loc).Format("1/2/2006, 3:04:05 PM")
}
