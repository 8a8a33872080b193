package projector

import (
	"algodash/internal/session"
	"algodash/internal/store"
)

const (
	volumeDownColor = "#ff4976"
	volumeUpColor   = "#4bffb5"
)

type VolumeBar struct {
	TimestampNs int64   `json:"timestamp_ns"`
	Value       float64 `json:"value"`
	Color       string  `json:"color"`
}

type ChartView struct {
	Symbol  string             `json:"symbol"`
	Period  string             `json:"period"`
	Candles []store.Candle     `json:"candles"`
	Volumes []VolumeBar        `json:"volumes"`
	Lines   []store.LineSeries `json:"lines"`
	Markers []store.Marker     `json:"markers"`
	Rects   []store.Rect       `json:"rects"`
	Ready   bool               `json:"ready"`
}

func volumeColor(c store.Candle) string {
	if c.Open > c.Close {
		return volumeDownColor
	}
	return volumeUpColor
}

// Chart projects the candle pane with its overlay.
func Chart(snap *session.Snapshot) ChartView {
	ov := snap.Overlay
	view := ChartView{
		Symbol:  snap.Selection.Symbol,
		Candles: ov.Candles,
		Volumes: make([]VolumeBar, 0, len(ov.Candles)),
		Lines:   ov.Lines,
		Markers: ov.Markers,
		Rects:   ov.Rects,
		Ready:   ov.ChartSeeded,
	}
	if snap.Selection.PeriodS > 0 {
		view.Period = PeriodLabel(snap.Selection.PeriodS)
	}
	for _, c := range ov.Candles {
		view.Volumes = append(view.Volumes, VolumeBar{TimestampNs: c.TimestampNs, Value: c.Volume, Color: volumeColor(c)})
	}
	return view
}

type LegendLine struct {
	Description string  `json:"description"`
	Color       string  `json:"color"`
	Value       float64 `json:"value"`
}

// Legend is the crosshair readout for one bar.
type Legend struct {
	Open   float64      `json:"open"`
	High   float64      `json:"high"`
	Low    float64      `json:"low"`
	Close  float64      `json:"close"`
	Volume float64      `json:"volume"`
	Up     bool         `json:"up"`
	Lines  []LegendLine `json:"lines"`
}

// LegendAt returns the legend for the bar at ts. Lines without a point at ts are omitted.
func LegendAt(snap *session.Snapshot, ts int64) (Legend, bool) {
	ov := snap.Overlay
	var (
		candle store.Candle
		found  bool
	)
	for _, c := range ov.Candles {
		if c.TimestampNs == ts {
			candle, found = c, true
			break
		}
	}
	if !found {
		return Legend{}, false
	}
	lg := Legend{
		Open:   candle.Open,
		High:   candle.High,
		Low:    candle.Low,
		Close:  candle.Close,
		Volume: candle.Volume,
		Up:     candle.Close >= candle.Open,
		Lines:  []LegendLine{},
	}
	for _, line := range ov.Lines {
		for _, pt := range line.Points {
			if pt.TimestampNs == ts {
				lg.Lines = append(lg.Lines, LegendLine{Description: line.Description, Color: line.Color, Value: pt.Value})
				break
			}
		}
	}
	return lg, true
}
