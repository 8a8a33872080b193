// Package journal keeps an append-only SQLite log of admitted backend events for diagnostics.
// The journal is write-only at runtime; nothing replays it into the stores.
package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"algodash/internal/logger"
	"algodash/internal/wire"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	defaultBuffer = 256
	batchSize     = 64
	flushInterval = 500 * time.Millisecond
)

type eventLogModel struct {
	ID            int64          `gorm:"column:id;primaryKey"`
	EventID       string         `gorm:"column:event_uuid;index"`
	Kind          string         `gorm:"column:kind;index"`
	CorrelationID string         `gorm:"column:correlation_id;index"`
	TimestampNs   int64          `gorm:"column:timestamp_ns"`
	Payload       datatypes.JSON `gorm:"column:payload"`
	CreatedAtUnix int64          `gorm:"column:created_at;index"`
}

func (eventLogModel) TableName() string { return "event_log" }

// Record is one journaled event.
type Record struct {
	ID            int64           `json:"id"`
	EventID       string          `json:"event_id"`
	Kind          string          `json:"kind"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	TimestampNs   int64           `json:"timestamp_ns"`
	Payload       json.RawMessage `json:"payload"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Journal batches appends on a background goroutine.
type Journal struct {
	db *gorm.DB

	mu        sync.RWMutex
	ch        chan eventLogModel
	wg        sync.WaitGroup
	closeOnce sync.Once
	closed    bool
	dropped   atomic.Int64
}

// Open creates or opens the journal database at path.
func Open(path string, buffer int) (*Journal, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("journal: path cannot be empty")
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("journal: create dir: %w", err)
		}
	}
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", path)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("journal: open %s: %w", path, err)
	}
	if err := db.AutoMigrate(&eventLogModel{}); err != nil {
		return nil, fmt.Errorf("journal: migrate: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(2)
	sqlDB.SetMaxIdleConns(2)

	j := &Journal{db: db, ch: make(chan eventLogModel, buffer)}
	j.wg.Add(1)
	go j.writeLoop()
	return j, nil
}

func toModel(evt wire.Event) eventLogModel {
	id := evt.ID
	if id == "" {
		id = uuid.NewString()
	}
	payload := []byte(evt.Raw)
	if len(payload) == 0 && evt.Payload != nil {
		payload, _ = json.Marshal(evt.Payload)
	}
	if len(payload) == 0 {
		payload = []byte("null")
	}
	received := evt.ReceivedAt
	if received.IsZero() {
		received = time.Now()
	}
	return eventLogModel{
		EventID:       id,
		Kind:          string(evt.Kind),
		CorrelationID: evt.CorrelationID,
		TimestampNs:   evt.TimestampNs,
		Payload:       datatypes.JSON(payload),
		CreatedAtUnix: received.UnixMilli(),
	}
}

// Append queues evt without blocking. Events are dropped when the buffer is full.
func (j *Journal) Append(evt wire.Event) {
	if j == nil {
		return
	}
	j.mu.RLock()
	defer j.mu.RUnlock()
	if j.closed {
		return
	}
	select {
	case j.ch <- toModel(evt):
	default:
		if n := j.dropped.Add(1); n%100 == 1 {
			logger.Warnf("journal buffer full, %d events dropped so far", n)
		}
	}
}

// Dropped returns how many events were discarded because the buffer was full.
func (j *Journal) Dropped() int64 { return j.dropped.Load() }

func (j *Journal) writeLoop() {
	defer j.wg.Done()
	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	batch := make([]eventLogModel, 0, batchSize)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := j.db.CreateInBatches(batch, batchSize).Error; err != nil {
			logger.Errorf("journal write failed (%d events): %v", len(batch), err)
		}
		batch = batch[:0]
	}
	for {
		select {
		case m, ok := <-j.ch:
			if !ok {
				flush()
				return
			}
			batch = append(batch, m)
			if len(batch) >= batchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}

// List returns up to limit records, newest first, optionally filtered by kind.
func (j *Journal) List(ctx context.Context, kind string, limit int) ([]Record, error) {
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	var models []eventLogModel
	query := j.db.WithContext(ctx).Order("id DESC").Limit(limit)
	if kind = strings.TrimSpace(kind); kind != "" {
		query = query.Where("kind = ?", kind)
	}
	if err := query.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("journal: list: %w", err)
	}
	out := make([]Record, 0, len(models))
	for _, m := range models {
		out = append(out, Record{
			ID:            m.ID,
			EventID:       m.EventID,
			Kind:          m.Kind,
			CorrelationID: m.CorrelationID,
			TimestampNs:   m.TimestampNs,
			Payload:       json.RawMessage(m.Payload),
			CreatedAt:     time.UnixMilli(m.CreatedAtUnix),
		})
	}
	return out, nil
}

// Close flushes pending appends and closes the database.
func (j *Journal) Close() error {
	if j == nil {
		return nil
	}
	var err error
	j.closeOnce.Do(func() {
		j.mu.Lock()
		j.closed = true
		close(j.ch)
		j.mu.Unlock()
		j.wg.Wait()
		sqlDB, dbErr := j.db.DB()
		if dbErr != nil {
			err = dbErr
			return
		}
		err = sqlDB.Close()
	})
	return err
}
