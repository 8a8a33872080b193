package livehttp

import (
	"context"

	"algodash/internal/journal"
	"algodash/internal/session"
)

// Controller 是 HTTP 层依赖的引擎能力：读快照 + 发起会话操作。
type Controller interface {
	Snapshot() *session.Snapshot
	Subscribe(fn func(*session.Snapshot)) func()
	RequestStrategies(ctx context.Context) error
	Select(ctx context.Context, sel session.Selection) error
	SelectStrategy(ctx context.Context, batchID, strategyID string) error
	SelectOverall(ctx context.Context, batchID string) error
	Refresh(ctx context.Context) error
	OpenLog(ctx context.Context, dir string) error
	RunYAML(ctx context.Context, path string) error
}

// JournalReader 列出诊断日志中的事件。
type JournalReader interface {
	List(ctx context.Context, kind string, limit int) ([]journal.Record, error)
}

// SelectRequest 选择策略视图；symbol/period 为空时按目录取默认值。
type SelectRequest struct {
	BatchID    string `json:"batch_id" binding:"required"`
	StrategyID string `json:"strategy_id" binding:"required"`
	Symbol     string `json:"symbol"`
	PeriodS    int64  `json:"period_s"`
}

// OverallRequest 选择批次总览。
type OverallRequest struct {
	BatchID string `json:"batch_id" binding:"required"`
}

type OpenLogRequest struct {
	Dir string `json:"dir" binding:"required"`
}

type RunYAMLRequest struct {
	Path string `json:"path" binding:"required"`
}
