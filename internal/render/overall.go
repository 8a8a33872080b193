package render

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"algodash/internal/projector"
	"algodash/internal/session"
)

var ErrNoOverall = errors.New("no overall data for the current batch")

// OverallPage writes the batch view: cumulative curve, daily totals, weekday and hour breakdowns.
func OverallPage(w io.Writer, snap *session.Snapshot) error {
	curve := projector.OverallCurve(snap)
	if len(curve) == 0 {
		return ErrNoOverall
	}
	page := newPage()
	page.AddCharts(
		curveLine(snap.OverallBatch, curve),
		dailyBars(projector.Calendar(snap)),
		winLossBars("PnL by weekday", projector.WeekdayBars(snap)),
		winLossBars("PnL by hour", projector.HourBars(snap)),
	)
	return renderPage(w, page)
}

func curveLine(batch string, curve []projector.CurvePoint) *charts.Line {
	line := charts.NewLine()
	xa, ya := axisOpts()
	last := curve[len(curve)-1].Value
	line.SetGlobalOptions(
		charts.WithInitializationOpts(initOpts(pnlHeightPx)),
		charts.WithTitleOpts(titleOpts("Total Profit & Loss", fmt.Sprintf("batch %s | %.2f", batch, last))),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(xa),
		charts.WithYAxisOpts(ya),
	)
	x := make([]string, len(curve))
	data := make([]opts.LineData, len(curve))
	for i, p := range curve {
		x[i] = p.Date
		data[i] = opts.LineData{Value: round(p.Value, 2)}
	}
	line.SetXAxis(x)
	line.AddSeries("Cumulative", data, charts.WithLineStyleOpts(opts.LineStyle{Color: colorPnl, Width: 2}))
	return line
}

func dailyBars(grid projector.CalendarGrid) *charts.Bar {
	bar := charts.NewBar()
	xa, ya := axisOpts()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(initOpts(pnlHeightPx)),
		charts.WithTitleOpts(titleOpts("Daily PnL", grid.MinDate+" - "+grid.MaxDate)),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(xa),
		charts.WithYAxisOpts(ya),
	)
	x := make([]string, len(grid.Cells))
	data := make([]opts.BarData, len(grid.Cells))
	for i, c := range grid.Cells {
		x[i] = c.Date
		if !c.HasData {
			data[i] = opts.BarData{Value: nil}
			continue
		}
		color := colorLoss
		if c.Total > 0 {
			color = colorWin
		}
		data[i] = opts.BarData{Name: c.Label, Value: round(c.Total, 2), ItemStyle: &opts.ItemStyle{Color: color}}
	}
	bar.SetXAxis(x)
	bar.AddSeries("Daily", data)
	return bar
}

func winLossBars(title string, bars []projector.Bar) *charts.Bar {
	bar := charts.NewBar()
	xa, ya := axisOpts()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(initOpts(pnlHeightPx)),
		charts.WithTitleOpts(titleOpts(title, "")),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), TextStyle: &opts.TextStyle{Color: colorTextPrimary}}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(xa),
		charts.WithYAxisOpts(ya),
	)
	x := make([]string, len(bars))
	wins := make([]opts.BarData, len(bars))
	losses := make([]opts.BarData, len(bars))
	for i, b := range bars {
		x[i] = b.Label
		wins[i] = opts.BarData{Value: round(b.Wins, 2)}
		losses[i] = opts.BarData{Value: round(b.Losses, 2)}
	}
	bar.SetXAxis(x)
	bar.AddSeries("Wins", wins, charts.WithItemStyleOpts(opts.ItemStyle{Color: colorWin}))
	bar.AddSeries("Losses", losses, charts.WithItemStyleOpts(opts.ItemStyle{Color: colorLoss}))
	return bar
}
