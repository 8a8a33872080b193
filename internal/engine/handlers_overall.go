package engine

import (
	"algodash/internal/store"
	"algodash/internal/wire"
)

type PnlCalendarHandler struct{}

func (h *PnlCalendarHandler) Type() wire.Kind { return wire.KindPnlCalendar }

func (h *PnlCalendarHandler) Handle(ctx *HandlerContext, evt wire.Event) (store.Outcome, error) {
	p, err := payloadAs[*wire.PnlCalendar](evt)
	if err != nil {
		return store.Ignored, err
	}
	return ctx.Session().Calendar.Seed(*p), nil
}

type DayStatsHandler struct{}

func (h *DayStatsHandler) Type() wire.Kind { return wire.KindOverallDayStats }

func (h *DayStatsHandler) Handle(ctx *HandlerContext, evt wire.Event) (store.Outcome, error) {
	p, err := payloadAs[*wire.OverallDayStats](evt)
	if err != nil {
		return store.Ignored, err
	}
	return ctx.Session().Calendar.ApplyDayStat(*p), nil
}

type PnlHourHandler struct{}

func (h *PnlHourHandler) Type() wire.Kind { return wire.KindPnlHour }

func (h *PnlHourHandler) Handle(ctx *HandlerContext, evt wire.Event) (store.Outcome, error) {
	p, err := payloadAs[*wire.PnlHour](evt)
	if err != nil {
		return store.Ignored, err
	}
	return ctx.Session().Calendar.SeedHours(*p), nil
}

type OverallStatsHandler struct{}

func (h *OverallStatsHandler) Type() wire.Kind { return wire.KindOverallStats }

func (h *OverallStatsHandler) Handle(ctx *HandlerContext, evt wire.Event) (store.Outcome, error) {
	p, err := payloadAs[*wire.OverallStats](evt)
	if err != nil {
		return store.Ignored, err
	}
	return ctx.Session().Stats.ApplyOverall(*p), nil
}
