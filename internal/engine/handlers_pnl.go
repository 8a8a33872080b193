package engine

import (
	"algodash/internal/store"
	"algodash/internal/wire"
)

type PosRealizedHandler struct{}

func (h *PosRealizedHandler) Type() wire.Kind { return wire.KindPosPnlRealized }

func (h *PosRealizedHandler) Handle(ctx *HandlerContext, evt wire.Event) (store.Outcome, error) {
	p, err := payloadAs[*wire.PositionPnlRealized](evt)
	if err != nil {
		return store.Ignored, err
	}
	return ctx.Session().ApplyPositionRealized(*p), nil
}

type PosRealizedListHandler struct{}

func (h *PosRealizedListHandler) Type() wire.Kind { return wire.KindPosPnlRealizedList }

func (h *PosRealizedListHandler) Handle(ctx *HandlerContext, evt wire.Event) (store.Outcome, error) {
	p, err := payloadAs[*wire.PositionPnlRealizedList](evt)
	if err != nil {
		return store.Ignored, err
	}
	return ctx.Session().ApplyPositionRealizedList(*p), nil
}

type PosUnrealizedHandler struct{}

func (h *PosUnrealizedHandler) Type() wire.Kind { return wire.KindPosPnlUnrealized }

func (h *PosUnrealizedHandler) Handle(ctx *HandlerContext, evt wire.Event) (store.Outcome, error) {
	p, err := payloadAs[*wire.PositionPnlUnrealized](evt)
	if err != nil {
		return store.Ignored, err
	}
	return ctx.Session().ApplyPositionUnrealized(*p), nil
}

type TotalPnlHandler struct{}

func (h *TotalPnlHandler) Type() wire.Kind { return wire.KindTotalPnl }

func (h *TotalPnlHandler) Handle(ctx *HandlerContext, evt wire.Event) (store.Outcome, error) {
	p, err := payloadAs[*wire.TotalPnl](evt)
	if err != nil {
		return store.Ignored, err
	}
	return ctx.Session().Total.Seed(*p), nil
}

type TotalRealizedHandler struct{}

func (h *TotalRealizedHandler) Type() wire.Kind { return wire.KindTotalPnlRealized }

func (h *TotalRealizedHandler) Handle(ctx *HandlerContext, evt wire.Event) (store.Outcome, error) {
	p, err := payloadAs[*wire.TotalPnlRealized](evt)
	if err != nil {
		return store.Ignored, err
	}
	return ctx.Session().Total.ApplyRealized(*p), nil
}

type TotalUnrealizedHandler struct{}

func (h *TotalUnrealizedHandler) Type() wire.Kind { return wire.KindTotalPnlUnrealized }

func (h *TotalUnrealizedHandler) Handle(ctx *HandlerContext, evt wire.Event) (store.Outcome, error) {
	p, err := payloadAs[*wire.TotalPnlUnrealized](evt)
	if err != nil {
		return store.Ignored, err
	}
	return ctx.Session().Total.ApplyUnrealized(*p), nil
}

type PositionStatsHandler struct{}

func (h *PositionStatsHandler) Type() wire.Kind { return wire.KindPositionStats }

func (h *PositionStatsHandler) Handle(ctx *HandlerContext, evt wire.Event) (store.Outcome, error) {
	p, err := payloadAs[*wire.PositionStats](evt)
	if err != nil {
		return store.Ignored, err
	}
	return ctx.Session().Stats.ApplyPosition(*p), nil
}
