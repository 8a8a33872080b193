package engine

import (
	"context"

	"algodash/internal/session"
	"algodash/internal/wire"
)

func (e *Engine) control(ctx context.Context, name string, reset bool, fn func(*session.Session) ([]wire.Command, error)) error {
	return e.sendSync(ctx, message{name: name, control: fn, reset: reset})
}

// RequestStrategies 请求策略目录，应在 Start() 之后调用一次。
func (e *Engine) RequestStrategies(ctx context.Context) error {
	return e.control(ctx, "strategies", false, func(s *session.Session) ([]wire.Command, error) {
		return s.Start(), nil
	})
}

// RequestApp re-requests the catalog without resetting, used after a backend reconnect.
func (e *Engine) RequestApp(ctx context.Context) error {
	return e.control(ctx, "app", false, func(s *session.Session) ([]wire.Command, error) {
		return s.RequestApp(), nil
	})
}

func (e *Engine) Select(ctx context.Context, sel session.Selection) error {
	return e.control(ctx, "select", true, func(s *session.Session) ([]wire.Command, error) {
		return s.Select(sel), nil
	})
}

func (e *Engine) SelectStrategy(ctx context.Context, batchID, strategyID string) error {
	return e.control(ctx, "select_strategy", true, func(s *session.Session) ([]wire.Command, error) {
		return s.SelectStrategy(batchID, strategyID)
	})
}

func (e *Engine) SelectOverall(ctx context.Context, batchID string) error {
	return e.control(ctx, "select_overall", true, func(s *session.Session) ([]wire.Command, error) {
		return s.SelectOverall(batchID), nil
	})
}

func (e *Engine) Refresh(ctx context.Context) error {
	return e.control(ctx, "refresh", true, func(s *session.Session) ([]wire.Command, error) {
		return s.Refresh(), nil
	})
}

func (e *Engine) OpenLog(ctx context.Context, dir string) error {
	return e.control(ctx, "open_log", false, func(s *session.Session) ([]wire.Command, error) {
		return s.OpenLog(dir), nil
	})
}

func (e *Engine) RunYAML(ctx context.Context, path string) error {
	return e.control(ctx, "run_yaml", false, func(s *session.Session) ([]wire.Command, error) {
		return s.RunYAML(path), nil
	})
}

// Flush waits until every message queued before it has been applied and publishes a fresh snapshot.
func (e *Engine) Flush(ctx context.Context) error {
	return e.control(ctx, "flush", false, func(*session.Session) ([]wire.Command, error) {
		return nil, nil
	})
}
