package store

import (
	"sort"

	"algodash/internal/wire"
)

type SymbolPeriods struct {
	Symbol  string
	Periods []int64
}

type StrategyInfo struct {
	StrategyID string
	Symbols    []SymbolPeriods
}

type BatchInfo struct {
	BatchID    string
	Strategies []StrategyInfo
}

// Catalog 是 strategy_list 的内存表示，保留后端下发的顺序。
type Catalog struct {
	batches []BatchInfo
}

func NewCatalog() *Catalog { return &Catalog{} }

// Replace swaps in a new catalog. Empty batch or strategy ids are skipped.
func (c *Catalog) Replace(list wire.StrategyList) Outcome {
	batches := make([]BatchInfo, 0, len(list.Batches))
	for _, b := range list.Batches {
		if b.BatchID == "" {
			continue
		}
		info := BatchInfo{BatchID: b.BatchID}
		for _, s := range b.Strategies {
			if s.StrategyID == "" {
				continue
			}
			strat := StrategyInfo{StrategyID: s.StrategyID}
			for _, sp := range s.SymbolPeriods {
				periods := append([]int64(nil), sp.PeriodS...)
				strat.Symbols = append(strat.Symbols, SymbolPeriods{Symbol: sp.Symbol, Periods: periods})
			}
			info.Strategies = append(info.Strategies, strat)
		}
		batches = append(batches, info)
	}
	c.batches = batches
	return Applied
}

func (c *Catalog) Batches() []BatchInfo {
	return cloneBatches(c.batches)
}

func (c *Catalog) Strategy(batchID, strategyID string) (StrategyInfo, bool) {
	for _, b := range c.batches {
		if b.BatchID != batchID {
			continue
		}
		for _, s := range b.Strategies {
			if s.StrategyID == strategyID {
				return cloneStrategy(s), true
			}
		}
	}
	return StrategyInfo{}, false
}

// DefaultSymbolPeriod picks the first symbol and its smallest period.
func (s StrategyInfo) DefaultSymbolPeriod() (string, int64, bool) {
	if len(s.Symbols) == 0 {
		return "", 0, false
	}
	first := s.Symbols[0]
	if len(first.Periods) == 0 {
		return first.Symbol, 0, true
	}
	periods := append([]int64(nil), first.Periods...)
	sort.Slice(periods, func(i, j int) bool { return periods[i] < periods[j] })
	return first.Symbol, periods[0], true
}

func (s StrategyInfo) PeriodsFor(symbol string) []int64 {
	for _, sp := range s.Symbols {
		if sp.Symbol == symbol {
			return append([]int64(nil), sp.Periods...)
		}
	}
	return nil
}

func cloneStrategy(s StrategyInfo) StrategyInfo {
	out := StrategyInfo{StrategyID: s.StrategyID, Symbols: make([]SymbolPeriods, len(s.Symbols))}
	for i, sp := range s.Symbols {
		out.Symbols[i] = SymbolPeriods{Symbol: sp.Symbol, Periods: append([]int64(nil), sp.Periods...)}
	}
	return out
}

func cloneBatches(in []BatchInfo) []BatchInfo {
	out := make([]BatchInfo, len(in))
	for i, b := range in {
		out[i] = BatchInfo{BatchID: b.BatchID, Strategies: make([]StrategyInfo, len(b.Strategies))}
		for j, s := range b.Strategies {
			out[i].Strategies[j] = cloneStrategy(s)
		}
	}
	return out
}
