package app

import (
	"context"
	"fmt"

	"algodash/internal/config"
	"algodash/internal/engine"
	"algodash/internal/journal"
	"algodash/internal/logger"
	"algodash/internal/transport/backend"
	livehttp "algodash/internal/transport/http/live"

	"golang.org/x/sync/errgroup"
)

// App 负责应用级编排：后端链路 → 解码 → 引擎 → HTTP/推送。
type App struct {
	cfg       *config.Config
	engine    *engine.Engine
	pump      *engine.Pump
	client    *backend.Client
	publisher *backend.Publisher
	journal   *journal.Journal
	liveHTTP  *livehttp.Server
	Summary   *StartupSummary
}

// NewApp 根据配置构建应用对象（不启动）
func NewApp(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	return NewAppBuilder(cfg).Build(context.Background())
}

// Run 启动引擎、后端链路与 HTTP 服务，直到 ctx 结束或任一组件出错。
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.cfg == nil {
		return fmt.Errorf("app not initialized")
	}
	if a.engine == nil || a.client == nil {
		return fmt.Errorf("engine not initialized")
	}
	if a.Summary != nil {
		a.Summary.Print()
	}

	a.engine.Start()
	defer a.close()

	group, ctx := errgroup.WithContext(ctx)

	if a.liveHTTP != nil {
		group.Go(func() error {
			if err := a.liveHTTP.Start(ctx); err != nil {
				return fmt.Errorf("live http server error: %w", err)
			}
			return nil
		})
	}

	group.Go(func() error {
		return a.publisher.Run(ctx)
	})

	frames := a.client.Start(ctx)
	group.Go(func() error {
		if err := a.pump.Run(ctx, frames); err != nil {
			return fmt.Errorf("event pump error: %w", err)
		}
		return nil
	})

	return group.Wait()
}

func (a *App) close() {
	if err := a.client.Close(); err != nil {
		logger.Warnf("backend close: %v", err)
	}
	a.engine.Stop()
	if a.journal != nil {
		if err := a.journal.Close(); err != nil {
			logger.Warnf("journal close: %v", err)
		}
	}
	logger.Infof("algodash stopped")
}

// Engine exposes the reconciliation engine (for tests and replay harnesses).
func (a *App) Engine() *engine.Engine {
	if a == nil {
		return nil
	}
	return a.engine
}
