package store

import (
	"fmt"
	"hash/fnv"
	"sort"

	"algodash/internal/wire"
)

// DefaultRectColor is used for rectangles that arrive without a color.
const DefaultRectColor = "#0ff"

// LineColor derives a stable color from a line description.
func LineColor(description string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(description))
	return fmt.Sprintf("#%06x", h.Sum32()&0xffffff)
}

type Candle = wire.OHLCV

type LineSeries struct {
	Description string
	Color       string
	Points      []wire.Point
}

type Marker struct {
	TimestampNs int64
	Price       float64
	Size        float64
	Side        Side
	Text        string
}

type Rect struct {
	LowPrice         float64
	HighPrice        float64
	EarlyTimestampNs int64
	LateTimestampNs  int64
	Color            string
}

// OverlayView is an immutable copy of the chart state.
type OverlayView struct {
	Candles       []Candle
	ChartSeeded   bool
	Lines         []LineSeries
	Markers       []Marker
	Rects         []Rect
	OverlaySeeded bool
}

// Line looks up a line by description.
func (v OverlayView) Line(description string) (LineSeries, bool) {
	for _, l := range v.Lines {
		if l.Description == description {
			return l, true
		}
	}
	return LineSeries{}, false
}

// ChartOverlay 保存 K 线与策略 overlay。两个 gate 分别由 chart 与 algo_chart 快照打开。
type ChartOverlay struct {
	candles     []Candle
	chartSeeded bool

	lines         map[string]*LineSeries
	lineOrder     []string
	markers       []Marker
	rects         []Rect
	overlaySeeded bool
}

func NewChartOverlay() *ChartOverlay {
	o := &ChartOverlay{}
	o.Reset()
	return o
}

func (o *ChartOverlay) Reset() {
	o.candles = nil
	o.chartSeeded = false
	o.lines = make(map[string]*LineSeries)
	o.lineOrder = nil
	o.markers = nil
	o.rects = nil
	o.overlaySeeded = false
}

func (o *ChartOverlay) ChartSeeded() bool   { return o.chartSeeded }
func (o *ChartOverlay) OverlaySeeded() bool { return o.overlaySeeded }

// SeedChart replaces the OHLCV series and opens the candle gate.
func (o *ChartOverlay) SeedChart(series []wire.OHLCV) Outcome {
	candles := make([]Candle, len(series))
	copy(candles, series)
	sort.SliceStable(candles, func(i, j int) bool { return candles[i].TimestampNs < candles[j].TimestampNs })
	o.candles = candles
	o.chartSeeded = true
	return Applied
}

// ApplyCandleUpdate replaces the last bar on an equal timestamp and appends a newer one.
func (o *ChartOverlay) ApplyCandleUpdate(c wire.CandleUpdate) Outcome {
	if !o.chartSeeded {
		return Premature
	}
	if c.OHLCV == nil {
		return Ignored
	}
	bar := *c.OHLCV
	n := len(o.candles)
	switch {
	case n == 0 || bar.TimestampNs > o.candles[n-1].TimestampNs:
		o.candles = append(o.candles, bar)
	case bar.TimestampNs == o.candles[n-1].TimestampNs:
		o.candles[n-1] = bar
	default:
		return Stale
	}
	return Applied
}

func markerFromAdvice(a wire.Advice) Marker {
	m := Marker{TimestampNs: a.TimestampNs, Price: a.Price, Size: a.Size, Side: SideFromSize(a.Size)}
	if m.Side == SideBuy {
		m.Text = fmt.Sprintf("Buy @ %v", a.Price)
	} else {
		m.Text = fmt.Sprintf("Sell @ %v", a.Price)
	}
	return m
}

func rectFromWire(r wire.Rectangle) Rect {
	color := r.Color
	if color == "" {
		color = DefaultRectColor
	}
	return Rect{
		LowPrice:         r.LowPrice,
		HighPrice:        r.HighPrice,
		EarlyTimestampNs: r.EarlyTimestampNs,
		LateTimestampNs:  r.LateTimestampNs,
		Color:            color,
	}
}

// SeedOverlay wholesale-replaces markers, lines and rectangles and opens the overlay gate.
func (o *ChartOverlay) SeedOverlay(snapshot wire.AlgoChart) Outcome {
	o.markers = make([]Marker, 0, len(snapshot.Advices))
	for _, a := range snapshot.Advices {
		o.markers = append(o.markers, markerFromAdvice(a))
	}

	names := make([]string, 0, len(snapshot.Lines))
	for name := range snapshot.Lines {
		names = append(names, name)
	}
	sort.Strings(names)
	o.lines = make(map[string]*LineSeries, len(names))
	o.lineOrder = names
	for _, name := range names {
		src := snapshot.Lines[name]
		color := src.Color
		if color == "" {
			color = LineColor(name)
		}
		points := make([]wire.Point, len(src.Points))
		copy(points, src.Points)
		sort.SliceStable(points, func(i, j int) bool { return points[i].TimestampNs < points[j].TimestampNs })
		o.lines[name] = &LineSeries{Description: name, Color: color, Points: points}
	}

	o.rects = make([]Rect, 0, len(snapshot.Rectangles))
	for _, r := range snapshot.Rectangles {
		o.rects = append(o.rects, rectFromWire(r))
	}
	o.overlaySeeded = true
	return Applied
}

// ApplyPoint updates an existing line only. Unknown lines are never created.
func (o *ChartOverlay) ApplyPoint(p wire.LinePoint) Outcome {
	if !o.overlaySeeded {
		return Premature
	}
	line, ok := o.lines[p.Description]
	if !ok || p.Value == nil {
		return Ignored
	}
	pt := *p.Value
	n := len(line.Points)
	switch {
	case n == 0 || pt.TimestampNs > line.Points[n-1].TimestampNs:
		line.Points = append(line.Points, pt)
	case pt.TimestampNs == line.Points[n-1].TimestampNs:
		line.Points[n-1] = pt
	default:
		return Stale
	}
	return Applied
}

func (o *ChartOverlay) ApplyMarker(a wire.Advice) Outcome {
	if !o.overlaySeeded {
		return Premature
	}
	o.markers = append(o.markers, markerFromAdvice(a))
	return Applied
}

func (o *ChartOverlay) ApplyRectangle(r wire.Rectangle) Outcome {
	if !o.overlaySeeded {
		return Premature
	}
	o.rects = append(o.rects, rectFromWire(r))
	return Applied
}

func (o *ChartOverlay) View() OverlayView {
	view := OverlayView{
		Candles:       append([]Candle(nil), o.candles...),
		ChartSeeded:   o.chartSeeded,
		Markers:       append([]Marker(nil), o.markers...),
		Rects:         append([]Rect(nil), o.rects...),
		OverlaySeeded: o.overlaySeeded,
		Lines:         make([]LineSeries, 0, len(o.lineOrder)),
	}
	for _, name := range o.lineOrder {
		line := o.lines[name]
		view.Lines = append(view.Lines, LineSeries{
			Description: line.Description,
			Color:       line.Color,
			Points:      append([]wire.Point(nil), line.Points...),
		})
	}
	return view
}
