package engine

import (
	"algodash/internal/store"
	"algodash/internal/wire"
)

type OrderHandler struct{}

func (h *OrderHandler) Type() wire.Kind { return wire.KindOrder }

func (h *OrderHandler) Handle(ctx *HandlerContext, evt wire.Event) (store.Outcome, error) {
	p, err := payloadAs[*wire.Order](evt)
	if err != nil {
		return store.Ignored, err
	}
	return ctx.Session().Orders.ApplyOrder(*p), nil
}

type OrderFilledHandler struct{}

func (h *OrderFilledHandler) Type() wire.Kind { return wire.KindOrderFilled }

func (h *OrderFilledHandler) Handle(ctx *HandlerContext, evt wire.Event) (store.Outcome, error) {
	p, err := payloadAs[*wire.OrderFilled](evt)
	if err != nil {
		return store.Ignored, err
	}
	return ctx.Session().Orders.ApplyFill(*p), nil
}

type OrderListHandler struct{}

func (h *OrderListHandler) Type() wire.Kind { return wire.KindOrderList }

func (h *OrderListHandler) Handle(ctx *HandlerContext, evt wire.Event) (store.Outcome, error) {
	p, err := payloadAs[*wire.OrderList](evt)
	if err != nil {
		return store.Ignored, err
	}
	return ctx.Session().Orders.ApplyOrderList(p.Orders), nil
}
