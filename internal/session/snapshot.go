package session

import (
	"time"

	"algodash/internal/store"
)

// Snapshot 是会话的只读深拷贝，供 HTTP/渲染层并发读取。
type Snapshot struct {
	Generation   uint64
	Version      uint64
	TakenAt      time.Time
	Selection    Selection
	OverallBatch string
	Mode         Mode
	Loading      bool
	Attached     bool
	Batches      []store.BatchInfo
	Orders       []store.OrderRecord
	Positions    store.PositionPnlView
	Total        store.TotalPnlView
	Calendar     store.CalendarView
	Overlay      store.OverlayView
	Stats        store.StatsView
}

// EmptySnapshot is what readers see before the first refresh.
func EmptySnapshot() *Snapshot {
	return New(Options{}).Snapshot()
}

func (s *Session) Snapshot() *Snapshot {
	return &Snapshot{
		Generation:   s.generation,
		Version:      s.version,
		TakenAt:      time.Now(),
		Selection:    s.selection,
		OverallBatch: s.overallBatch,
		Mode:         s.mode,
		Loading:      s.loading,
		Attached:     s.attached,
		Batches:      s.Catalog.Batches(),
		Orders:       s.Orders.Rows(),
		Positions:    s.Positions.View(),
		Total:        s.Total.View(),
		Calendar:     s.Calendar.View(),
		Overlay:      s.Overlay.View(),
		Stats:        s.Stats.View(),
	}
}
