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

var ErrNoChart = errors.New("no chart data for the current selection")

// StrategyPage writes the strategy view: candles with overlay, volume, position and total PnL.
func StrategyPage(w io.Writer, snap *session.Snapshot) error {
	view := projector.Chart(snap)
	if len(view.Candles) == 0 {
		return ErrNoChart
	}
	page := newPage()

	xAxis := make([]string, len(view.Candles))
	klineData := make([]opts.KlineData, len(view.Candles))
	for i, c := range view.Candles {
		xAxis[i] = barLabel(c.TimestampNs)
		klineData[i] = opts.KlineData{Value: [4]float64{c.Open, c.Close, c.Low, c.High}}
	}

	kline := charts.NewKLine()
	xa, ya := axisOpts()
	kline.SetGlobalOptions(
		charts.WithInitializationOpts(initOpts(klineHeightPx)),
		charts.WithTitleOpts(titleOpts(
			fmt.Sprintf("%s %s %s", snap.Selection.StrategyID, view.Symbol, view.Period),
			fmt.Sprintf("batch %s | %s", snap.Selection.BatchID, snap.Mode),
		)),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), TextStyle: &opts.TextStyle{Color: colorTextPrimary}}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider", XAxisIndex: []int{0}}),
		charts.WithXAxisOpts(xa),
		charts.WithYAxisOpts(ya),
	)
	kline.SetSeriesOptions(charts.WithItemStyleOpts(opts.ItemStyle{
		Color:        colorBull,
		Color0:       colorBear,
		BorderColor:  colorBull,
		BorderColor0: colorBear,
	}))
	kline.SetXAxis(xAxis)
	kline.AddSeries("Price", klineData)

	if overlay := overlayLines(view, xAxis); overlay != nil {
		kline.Overlap(overlay)
	}
	if markers := markerScatter(view, xAxis); markers != nil {
		kline.Overlap(markers)
	}

	page.AddCharts(
		kline,
		volumeBars(view, xAxis),
		pnlLine("Position PnL", projector.PositionSeries(snap)),
		pnlLine("Total PnL", projector.TotalSeries(snap)),
	)
	return renderPage(w, page)
}

// overlayLines aligns every indicator line and rectangle band to the candle axis.
func overlayLines(view projector.ChartView, xAxis []string) *charts.Line {
	if len(view.Lines) == 0 && len(view.Rects) == 0 {
		return nil
	}
	idx := candleIndex(view.Candles)
	line := charts.NewLine()
	line.SetXAxis(xAxis)
	for _, l := range view.Lines {
		data := make([]opts.LineData, len(xAxis))
		for i := range data {
			data[i] = opts.LineData{Value: nil}
		}
		for _, pt := range l.Points {
			if i, ok := idx[pt.TimestampNs]; ok {
				data[i] = opts.LineData{Value: round(pt.Value, 4)}
			}
		}
		line.AddSeries(l.Description, data,
			charts.WithLineStyleOpts(opts.LineStyle{Color: l.Color, Width: 2}),
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false), ConnectNulls: opts.Bool(true)}),
		)
	}
	for n, r := range view.Rects {
		high := make([]opts.LineData, len(xAxis))
		low := make([]opts.LineData, len(xAxis))
		for i, c := range view.Candles {
			if c.TimestampNs < r.EarlyTimestampNs || c.TimestampNs > r.LateTimestampNs {
				high[i], low[i] = opts.LineData{Value: nil}, opts.LineData{Value: nil}
				continue
			}
			high[i] = opts.LineData{Value: r.HighPrice}
			low[i] = opts.LineData{Value: r.LowPrice}
		}
		name := fmt.Sprintf("zone %d", n+1)
		style := charts.WithLineStyleOpts(opts.LineStyle{Color: r.Color, Width: 1, Type: "dashed"})
		line.AddSeries(name, high, style, charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}))
		line.AddSeries(name, low, style, charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}))
	}
	return line
}

// markerScatter places buy/sell advices on the bar they belong to.
func markerScatter(view projector.ChartView, xAxis []string) *charts.Scatter {
	if len(view.Markers) == 0 {
		return nil
	}
	idx := candleIndex(view.Candles)
	buys := make([]opts.ScatterData, len(xAxis))
	sells := make([]opts.ScatterData, len(xAxis))
	for i := range xAxis {
		buys[i] = opts.ScatterData{Value: nil}
		sells[i] = opts.ScatterData{Value: nil}
	}
	for _, m := range view.Markers {
		i, ok := idx[m.TimestampNs]
		if !ok {
			continue
		}
		if m.Size > 0 {
			buys[i] = opts.ScatterData{Name: m.Text, Value: m.Price, Symbol: "triangle", SymbolSize: 12}
		} else {
			sells[i] = opts.ScatterData{Name: m.Text, Value: m.Price, Symbol: "triangle", SymbolSize: 12, SymbolRotate: 180}
		}
	}
	scatter := charts.NewScatter()
	scatter.SetXAxis(xAxis)
	scatter.AddSeries("Buy", buys, charts.WithItemStyleOpts(opts.ItemStyle{Color: colorBull}))
	scatter.AddSeries("Sell", sells, charts.WithItemStyleOpts(opts.ItemStyle{Color: colorBear}))
	return scatter
}

func volumeBars(view projector.ChartView, xAxis []string) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(initOpts(volumeHeightPx)),
		charts.WithTitleOpts(titleOpts("Volume", "")),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{AxisLabel: &opts.AxisLabel{Show: opts.Bool(false)}}),
		charts.WithYAxisOpts(opts.YAxis{
			AxisLabel: &opts.AxisLabel{Show: opts.Bool(true), Color: colorTextSecondary},
			SplitLine: &opts.SplitLine{Show: opts.Bool(true), LineStyle: &opts.LineStyle{Color: colorTextSecondary, Opacity: opts.Float(0.15)}},
		}),
	)
	vols := make([]opts.BarData, len(view.Volumes))
	for i, v := range view.Volumes {
		vols[i] = opts.BarData{Value: v.Value, ItemStyle: &opts.ItemStyle{Color: v.Color, Opacity: opts.Float(0.6)}}
	}
	bar.SetXAxis(xAxis)
	bar.AddSeries("Volume", vols)
	return bar
}
