package engine

import (
	"algodash/internal/store"
	"algodash/internal/wire"
)

type StrategyListHandler struct{}

func (h *StrategyListHandler) Type() wire.Kind { return wire.KindStrategyList }

func (h *StrategyListHandler) Handle(ctx *HandlerContext, evt wire.Event) (store.Outcome, error) {
	p, err := payloadAs[*wire.StrategyList](evt)
	if err != nil {
		return store.Ignored, err
	}
	return ctx.Session().OnStrategyList(*p), nil
}

type OpenLogHandler struct{}

func (h *OpenLogHandler) Type() wire.Kind { return wire.KindOpenLogSuccessful }

func (h *OpenLogHandler) Handle(ctx *HandlerContext, _ wire.Event) (store.Outcome, error) {
	return ctx.Session().OnLogOpened(), nil
}

type LoadingHandler struct{}

func (h *LoadingHandler) Type() wire.Kind { return wire.KindLoading }

func (h *LoadingHandler) Handle(ctx *HandlerContext, _ wire.Event) (store.Outcome, error) {
	return ctx.Session().OnLoading(), nil
}
