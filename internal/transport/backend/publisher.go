package backend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"algodash/internal/logger"
	"algodash/internal/pkg/circuit"
	"algodash/internal/wire"

	"golang.org/x/time/rate"
)

var ErrQueueFull = errors.New("command queue full")

// FrameWriter sends a raw frame to the backend.
type FrameWriter interface {
	WriteFrame(data []byte) error
}

// TopicResolver maps a default message type to the name the backend expects.
type TopicResolver interface {
	Get(name string) string
}

type identityTopics struct{}

func (identityTopics) Get(name string) string { return name }

type PublisherConfig struct {
	// Rate is commands per second; zero or less disables limiting.
	Rate      float64
	Burst     int
	QueueSize int
	Topics    TopicResolver
	// Breaker guards writes; nil uses a breaker that opens after 5 consecutive failures for 2s.
	Breaker *circuit.Breaker
}

// Publisher queues commands and writes them to the backend at a bounded rate.
// Publish never blocks; Run drains the queue.
type Publisher struct {
	writer  FrameWriter
	topics  TopicResolver
	limiter *rate.Limiter
	queue   chan wire.Command
	breaker *circuit.Breaker
}

func NewPublisher(w FrameWriter, cfg PublisherConfig) *Publisher {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 64
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if cfg.Topics == nil {
		cfg.Topics = identityTopics{}
	}
	if cfg.Breaker == nil {
		cfg.Breaker = circuit.New("backend-commands", 5, 2*time.Second)
	}
	limit := rate.Inf
	if cfg.Rate > 0 {
		limit = rate.Limit(cfg.Rate)
	}
	return &Publisher{
		writer:  w,
		topics:  cfg.Topics,
		limiter: rate.NewLimiter(limit, cfg.Burst),
		queue:   make(chan wire.Command, cfg.QueueSize),
		breaker: cfg.Breaker,
	}
}

func (p *Publisher) Publish(cmd wire.Command) error {
	select {
	case p.queue <- cmd:
		return nil
	default:
		return fmt.Errorf("%w: dropping %s", ErrQueueFull, cmd.Type)
	}
}

// Run writes queued commands until ctx is done.
func (p *Publisher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case cmd := <-p.queue:
			if err := p.limiter.Wait(ctx); err != nil {
				return nil
			}
			if err := p.send(cmd); err != nil {
				logger.Warnf("[backend] send %s failed: %v", cmd.Type, err)
			}
		}
	}
}

func (p *Publisher) send(cmd wire.Command) error {
	name := p.topics.Get(string(cmd.Type))
	data, err := cmd.Encode(name)
	if err != nil {
		return err
	}
	return p.breaker.Do(func() error {
		logger.LogWireOutbound(name, cmd.ID, data)
		return p.writer.WriteFrame(data)
	})
}
