// Package render draws session snapshots as standalone go-echarts HTML pages.
package render

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"algodash/internal/projector"
	"algodash/internal/store"
)

const (
	colorBackground    = "#060c1b"
	colorTextPrimary   = "#eceff4"
	colorTextSecondary = "#9ca3af"
	colorBull          = "#4bffb5"
	colorBear          = "#ff4976"
	colorWin           = "#07d91f"
	colorLoss          = "#d90707"
	colorPnl           = "#26a69a"

	chartWidthPx   = 1400
	klineHeightPx  = 560
	volumeHeightPx = 220
	pnlHeightPx    = 280
)

func initOpts(height int) opts.Initialization {
	return opts.Initialization{
		Theme:           types.ThemeWesteros,
		Width:           fmt.Sprintf("%dpx", chartWidthPx),
		Height:          fmt.Sprintf("%dpx", height),
		BackgroundColor: colorBackground,
	}
}

func titleOpts(title, subtitle string) opts.Title {
	return opts.Title{
		Title:         title,
		Subtitle:      subtitle,
		Left:          "left",
		TitleStyle:    &opts.TextStyle{Color: colorTextPrimary, FontSize: 16},
		SubtitleStyle: &opts.TextStyle{Color: colorTextSecondary},
	}
}

func axisOpts() (opts.XAxis, opts.YAxis) {
	x := opts.XAxis{
		Type:      "category",
		AxisLabel: &opts.AxisLabel{Color: colorTextSecondary},
		SplitLine: &opts.SplitLine{Show: opts.Bool(false)},
	}
	y := opts.YAxis{
		Scale:     opts.Bool(true),
		AxisLabel: &opts.AxisLabel{Color: colorTextSecondary},
		SplitLine: &opts.SplitLine{Show: opts.Bool(true), LineStyle: &opts.LineStyle{Color: colorTextSecondary, Opacity: opts.Float(0.2)}},
	}
	return x, y
}

func newPage() *components.Page {
	page := components.NewPage()
	page.SetLayout(components.PageFlexLayout)
	return page
}

func renderPage(w io.Writer, page *components.Page) error {
	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func barLabel(ns int64) string {
	return time.Unix(0, ns).UTC().Format("01-02 15:04")
}

func round(val float64, decimals int) float64 {
	scale := math.Pow10(decimals)
	return math.Round(val*scale) / scale
}

func indexSeries(n int) []string {
	x := make([]string, n)
	for i := range x {
		x[i] = fmt.Sprintf("%d", i)
	}
	return x
}

func pnlLine(title string, series projector.Series) *charts.Line {
	line := charts.NewLine()
	xa, ya := axisOpts()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(initOpts(pnlHeightPx)),
		charts.WithTitleOpts(titleOpts(title, "current "+series.Label)),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(xa),
		charts.WithYAxisOpts(ya),
	)
	data := make([]opts.LineData, len(series.Points))
	for i, v := range series.Points {
		data[i] = opts.LineData{Value: round(v, 4)}
	}
	line.SetXAxis(indexSeries(len(series.Points)))
	line.AddSeries(title, data, charts.WithLineStyleOpts(opts.LineStyle{Color: colorPnl, Width: 2}))
	line.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}))
	return line
}

// candleIndex maps bar timestamps to x-axis positions.
func candleIndex(candles []store.Candle) map[int64]int {
	idx := make(map[int64]int, len(candles))
	for i, c := range candles {
		idx[c.TimestampNs] = i
	}
	return idx
}
