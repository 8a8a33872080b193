package projector

import (
	"sort"

	"algodash/internal/session"
	"algodash/internal/store"
)

// Nav is the prev/next neighbourhood of a strategy inside its batch.
type Nav struct {
	BatchID    string `json:"batch_id"`
	StrategyID string `json:"strategy_id"`
	Prev       string `json:"prev"`
	Next       string `json:"next"`
}

func findBatch(batches []store.BatchInfo, batchID string) (store.BatchInfo, bool) {
	for _, b := range batches {
		if b.BatchID == batchID {
			return b, true
		}
	}
	return store.BatchInfo{}, false
}

// Navigate returns the neighbours of strategyID in sorted order, wrapping at both ends.
func Navigate(snap *session.Snapshot, batchID, strategyID string) (Nav, bool) {
	batch, ok := findBatch(snap.Batches, batchID)
	if !ok {
		return Nav{}, false
	}
	ids := make([]string, 0, len(batch.Strategies))
	for _, s := range batch.Strategies {
		ids = append(ids, s.StrategyID)
	}
	sort.Strings(ids)
	for i, id := range ids {
		if id != strategyID {
			continue
		}
		n := len(ids)
		return Nav{
			BatchID:    batchID,
			StrategyID: id,
			Prev:       ids[(i-1+n)%n],
			Next:       ids[(i+1)%n],
		}, true
	}
	return Nav{}, false
}

type PeriodOption struct {
	Seconds int64  `json:"seconds"`
	Label   string `json:"label"`
}

type SymbolOption struct {
	Symbol  string         `json:"symbol"`
	Periods []PeriodOption `json:"periods"`
}

// SymbolOptions lists the symbols and periods a strategy can be charted with.
func SymbolOptions(snap *session.Snapshot, batchID, strategyID string) []SymbolOption {
	batch, ok := findBatch(snap.Batches, batchID)
	if !ok {
		return nil
	}
	for _, s := range batch.Strategies {
		if s.StrategyID != strategyID {
			continue
		}
		out := make([]SymbolOption, 0, len(s.Symbols))
		for _, sp := range s.Symbols {
			opt := SymbolOption{Symbol: sp.Symbol}
			periods := s.PeriodsFor(sp.Symbol)
			sort.Slice(periods, func(i, j int) bool { return periods[i] < periods[j] })
			for _, p := range periods {
				opt.Periods = append(opt.Periods, PeriodOption{Seconds: p, Label: PeriodLabel(p)})
			}
			out = append(out, opt)
		}
		return out
	}
	return nil
}

// DefaultSelection picks the first listed symbol and its smallest period.
func DefaultSelection(snap *session.Snapshot, batchID, strategyID string) (session.Selection, bool) {
	batch, ok := findBatch(snap.Batches, batchID)
	if !ok {
		return session.Selection{}, false
	}
	for _, s := range batch.Strategies {
		if s.StrategyID != strategyID {
			continue
		}
		symbol, period, ok := s.DefaultSymbolPeriod()
		if !ok {
			return session.Selection{}, false
		}
		return session.Selection{BatchID: batchID, StrategyID: strategyID, Symbol: symbol, PeriodS: period}, true
	}
	return session.Selection{}, false
}
