package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"algodash/internal/config"
	cfgloader "algodash/internal/config/loader"
	"algodash/internal/engine"
	"algodash/internal/journal"
	"algodash/internal/logger"
	"algodash/internal/metrics"
	"algodash/internal/projector"
	"algodash/internal/session"
	"algodash/internal/transport/backend"
	livehttp "algodash/internal/transport/http/live"
	"algodash/internal/wire"
)

const connectRequestTimeout = 5 * time.Second

type AppBuilder struct {
	cfg *config.Config

	topicsFn   func(path string) (*cfgloader.TopicLoader, error)
	journalFn  func(cfg config.EngineConfig) (*journal.Journal, error)
	liveHTTPFn func(cfg livehttp.ServerConfig) (*livehttp.Server, error)
}

type AppBuilderOption func(*AppBuilder)

// WithoutHTTP skips the live HTTP server, mainly for tests.
func WithoutHTTP() AppBuilderOption {
	return func(b *AppBuilder) {
		b.liveHTTPFn = func(livehttp.ServerConfig) (*livehttp.Server, error) { return nil, nil }
	}
}

func NewAppBuilder(cfg *config.Config, opts ...AppBuilderOption) *AppBuilder {
	b := &AppBuilder{
		cfg:        cfg,
		topicsFn:   loadTopics,
		journalFn:  openJournal,
		liveHTTPFn: livehttp.NewServer,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

func loadTopics(path string) (*cfgloader.TopicLoader, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return cfgloader.Static(nil), nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		logger.Warnf("topic file %s not found, using default message names", path)
		return cfgloader.Static(nil), nil
	}
	return cfgloader.NewTopicLoader(path)
}

func openJournal(cfg config.EngineConfig) (*journal.Journal, error) {
	if !cfg.JournalEnabled() {
		return nil, nil
	}
	return journal.Open(cfg.JournalPath, cfg.JournalBuffer)
}

// inboundKinds converts a topic snapshot into decoder aliases (backend name -> kind).
func inboundKinds(snap cfgloader.TopicSnapshot) map[string]wire.Kind {
	out := make(map[string]wire.Kind)
	for mapped, def := range snap.Inbound() {
		kind := wire.Kind(def)
		if !kind.Valid() || mapped == def {
			continue
		}
		out[mapped] = kind
	}
	return out
}

// connectHook asks for the strategy catalog on the first connect and re-requests the app
// on every reconnect, keeping the stores.
func connectHook(eng *engine.Engine) func() {
	var connected atomic.Bool
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), connectRequestTimeout)
		defer cancel()
		if connected.Swap(true) {
			if err := eng.RequestApp(ctx); err != nil {
				logger.Warnf("request app after reconnect failed: %v", err)
			}
			return
		}
		if err := eng.RequestStrategies(ctx); err != nil {
			logger.Warnf("request strategy list after connect failed: %v", err)
		}
	}
}

func (b *AppBuilder) Build(ctx context.Context) (*App, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if b.cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	cfg := b.cfg
	logger.SetLevel(cfg.App.LogLevel)
	pm := metrics.GetPrometheusMetrics()

	topics, err := b.topicsFn(cfg.Backend.TopicsPath)
	if err != nil {
		return nil, fmt.Errorf("load topics: %w", err)
	}
	decoder, err := wire.NewDecoder()
	if err != nil {
		return nil, err
	}
	decoder.SetAliases(inboundKinds(topics.Snapshot()))
	topics.Subscribe(func(snap cfgloader.TopicSnapshot) {
		decoder.SetAliases(inboundKinds(snap))
		logger.Infof("✓ topic 映射已更新 version=%d entries=%d", snap.Version, len(snap.Topics))
	})

	jr, err := b.journalFn(cfg.Engine)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	sess := session.New(session.Options{StrictCorrelation: cfg.Engine.StrictCorrelation})

	var onConnect func()
	client := backend.NewClient(backend.Config{
		URL:          cfg.Backend.URL,
		ReconnectMin: cfg.Backend.ReconnectMin,
		ReconnectMax: cfg.Backend.ReconnectMax,
		Recorder:     pm,
		OnConnect:    func() { onConnect() },
	})
	publisher := backend.NewPublisher(client, backend.PublisherConfig{
		Rate:      cfg.Backend.CommandRate,
		Burst:     cfg.Backend.CommandBurst,
		QueueSize: cfg.Backend.CommandQueue,
		Topics:    topics,
	})

	engCfg := engine.Config{
		QueueSize:        cfg.Engine.QueueSize,
		SnapshotThrottle: cfg.Engine.SnapshotThrottle,
		Recorder:         pm,
	}
	var journalReader livehttp.JournalReader
	if jr != nil {
		engCfg.Journal = jr
		journalReader = jr
	}
	eng := engine.New(sess, publisher, engCfg)
	onConnect = connectHook(eng)
	pump := engine.NewPump(decoder, eng, pm)

	loc, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		loc = time.UTC
	}
	liveHTTP, err := b.liveHTTPFn(livehttp.ServerConfig{
		Addr:      cfg.App.HTTPAddr,
		Engine:    eng,
		Journal:   journalReader,
		Projector: projector.New(loc),
		Clients:   pm,
	})
	if err != nil {
		if jr != nil {
			_ = jr.Close()
		}
		return nil, fmt.Errorf("build live http: %w", err)
	}

	logger.InfoBlock(strings.Join([]string{
		fmt.Sprintf("✓ 后端: %s", cfg.Backend.URL),
		fmt.Sprintf("✓ HTTP: %s (enabled=%v)", cfg.App.HTTPAddr, liveHTTP != nil),
		fmt.Sprintf("✓ 事件日志: %v", jr != nil),
	}, "\n"))

	return &App{
		cfg:       cfg,
		engine:    eng,
		pump:      pump,
		client:    client,
		publisher: publisher,
		journal:   jr,
		liveHTTP:  liveHTTP,
		Summary:   buildSummary(cfg, topics.Snapshot()),
	}, nil
}
