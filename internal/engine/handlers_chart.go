package engine

import (
	"algodash/internal/store"
	"algodash/internal/wire"
)

type ChartHandler struct{}

func (h *ChartHandler) Type() wire.Kind { return wire.KindChart }

func (h *ChartHandler) Handle(ctx *HandlerContext, evt wire.Event) (store.Outcome, error) {
	p, err := payloadAs[*wire.Chart](evt)
	if err != nil {
		return store.Ignored, err
	}
	return ctx.Session().Overlay.SeedChart(p.OHLCV), nil
}

type CandleHandler struct{}

func (h *CandleHandler) Type() wire.Kind { return wire.KindUpdateCandle }

func (h *CandleHandler) Handle(ctx *HandlerContext, evt wire.Event) (store.Outcome, error) {
	p, err := payloadAs[*wire.CandleUpdate](evt)
	if err != nil {
		return store.Ignored, err
	}
	return ctx.Session().Overlay.ApplyCandleUpdate(*p), nil
}

type AlgoChartHandler struct{}

func (h *AlgoChartHandler) Type() wire.Kind { return wire.KindAlgoChart }

func (h *AlgoChartHandler) Handle(ctx *HandlerContext, evt wire.Event) (store.Outcome, error) {
	p, err := payloadAs[*wire.AlgoChart](evt)
	if err != nil {
		return store.Ignored, err
	}
	return ctx.Session().Overlay.SeedOverlay(*p), nil
}

type PointHandler struct{}

func (h *PointHandler) Type() wire.Kind { return wire.KindPoint }

func (h *PointHandler) Handle(ctx *HandlerContext, evt wire.Event) (store.Outcome, error) {
	p, err := payloadAs[*wire.LinePoint](evt)
	if err != nil {
		return store.Ignored, err
	}
	return ctx.Session().Overlay.ApplyPoint(*p), nil
}

type RectangleHandler struct{}

func (h *RectangleHandler) Type() wire.Kind { return wire.KindRectangle }

func (h *RectangleHandler) Handle(ctx *HandlerContext, evt wire.Event) (store.Outcome, error) {
	p, err := payloadAs[*wire.Rectangle](evt)
	if err != nil {
		return store.Ignored, err
	}
	return ctx.Session().Overlay.ApplyRectangle(*p), nil
}

type AdviceHandler struct{}

func (h *AdviceHandler) Type() wire.Kind { return wire.KindAdvice }

func (h *AdviceHandler) Handle(ctx *HandlerContext, evt wire.Event) (store.Outcome, error) {
	p, err := payloadAs[*wire.Advice](evt)
	if err != nil {
		return store.Ignored, err
	}
	return ctx.Session().Overlay.ApplyMarker(*p), nil
}
