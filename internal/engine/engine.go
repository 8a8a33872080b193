package engine

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"algodash/internal/logger"
	"algodash/internal/session"
	"algodash/internal/store"
	"algodash/internal/wire"
)

var ErrStopped = errors.New("engine is stopped")

const slowEventThreshold = 100 * time.Millisecond

// Publisher sends commands to the backend. Publish must not block on the network.
type Publisher interface {
	Publish(cmd wire.Command) error
}

// Journal records admitted events for diagnostics. Append must not block.
type Journal interface {
	Append(evt wire.Event)
}

// Recorder receives engine metrics.
type Recorder interface {
	RecordEvent(kind, outcome string)
	RecordDrop(kind, reason string)
	RecordHandleDuration(kind string, d time.Duration)
	RecordReset(op string)
	RecordCommand(typ, result string)
	SetQueueDepth(n int)
}

type Config struct {
	QueueSize        int
	SnapshotThrottle time.Duration
	Journal          Journal
	Recorder         Recorder
}

type message struct {
	name    string
	event   *wire.Event
	control func(*session.Session) ([]wire.Command, error)
	reset   bool
	replyCh chan error
}

// Engine is the single-goroutine actor that owns the session.
//
// All store mutation happens inside runLoop; readers only ever see the copy-on-read snapshot.
// Session operations travel through the same queue as events so a reset can never interleave
// with a half-applied event.
type Engine struct {
	session   *session.Session
	registry  *HandlerRegistry
	publisher Publisher
	journal   Journal
	metrics   Recorder

	msgCh    chan message
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	stateSnapshot    atomic.Value
	snapshotThrottle time.Duration
	lastSnapshot     time.Time
	dirty            bool

	listenersMu sync.RWMutex
	listeners   map[int]func(*session.Snapshot)
	nextID      int
}

func New(sess *session.Session, pub Publisher, cfg Config) *Engine {
	if sess == nil {
		sess = session.New(session.Options{})
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1024
	}
	if cfg.Recorder == nil {
		cfg.Recorder = nopRecorder{}
	}
	reg := NewHandlerRegistry()
	reg.RegisterDefaultHandlers()

	e := &Engine{
		session:          sess,
		registry:         reg,
		publisher:        pub,
		journal:          cfg.Journal,
		metrics:          cfg.Recorder,
		msgCh:            make(chan message, cfg.QueueSize),
		stopCh:           make(chan struct{}),
		snapshotThrottle: cfg.SnapshotThrottle,
		listeners:        make(map[int]func(*session.Snapshot)),
	}
	e.refreshSnapshot(true)
	return e
}

func (e *Engine) Start() {
	e.wg.Add(1)
	go e.runLoop()
}

func (e *Engine) Stop() {
	e.stopOnce.Do(func() { close(e.stopCh) })
	e.wg.Wait()
}

func (e *Engine) send(ctx context.Context, msg message) error {
	select {
	case <-e.stopCh:
		return ErrStopped
	default:
	}
	select {
	case e.msgCh <- msg:
		e.metrics.SetQueueDepth(len(e.msgCh))
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-e.stopCh:
		return ErrStopped
	}
}

func (e *Engine) sendSync(ctx context.Context, msg message) error {
	msg.replyCh = make(chan error, 1)
	if err := e.send(ctx, msg); err != nil {
		return err
	}
	select {
	case err := <-msg.replyCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-e.stopCh:
		return fmt.Errorf("engine stopped during %s", msg.name)
	}
}

// Dispatch queues a decoded event. It blocks while the queue is full.
func (e *Engine) Dispatch(ctx context.Context, evt wire.Event) error {
	return e.send(ctx, message{name: string(evt.Kind), event: &evt})
}

// Snapshot returns the latest published session snapshot.
func (e *Engine) Snapshot() *session.Snapshot {
	val := e.stateSnapshot.Load()
	if val == nil {
		return session.EmptySnapshot()
	}
	return val.(*session.Snapshot)
}

// Subscribe registers fn to receive every published snapshot. fn runs on the engine goroutine
// and must return quickly. The returned func removes the subscription.
func (e *Engine) Subscribe(fn func(*session.Snapshot)) func() {
	e.listenersMu.Lock()
	id := e.nextID
	e.nextID++
	e.listeners[id] = fn
	e.listenersMu.Unlock()
	return func() {
		e.listenersMu.Lock()
		delete(e.listeners, id)
		e.listenersMu.Unlock()
	}
}

func (e *Engine) refreshSnapshot(force bool) {
	if !force && e.snapshotThrottle > 0 && !e.lastSnapshot.IsZero() {
		if time.Since(e.lastSnapshot) < e.snapshotThrottle {
			return
		}
	}
	snap := e.session.Snapshot()
	e.stateSnapshot.Store(snap)
	e.lastSnapshot = time.Now()
	e.dirty = false

	e.listenersMu.RLock()
	defer e.listenersMu.RUnlock()
	for _, fn := range e.listeners {
		fn(snap)
	}
}

func (e *Engine) runLoop() {
	defer e.wg.Done()
	logger.Infof("Engine actor started")

	var tick <-chan time.Time
	if e.snapshotThrottle > 0 {
		ticker := time.NewTicker(e.snapshotThrottle)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case msg := <-e.msgCh:
			e.metrics.SetQueueDepth(len(e.msgCh))
			e.handleMessage(msg)
		case <-tick:
			if e.dirty {
				e.refreshSnapshot(true)
			}
		case <-e.stopCh:
			logger.Infof("Engine actor stopping")
			return
		}
	}
}

// handleMessage recovers handler panics, answers synchronous callers and warns on slow events.
func (e *Engine) handleMessage(msg message) {
	var err error
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("Engine panic handling %s: %v", msg.name, r)
			debug.PrintStack()
			err = fmt.Errorf("panic: %v", r)
		}
		if msg.replyCh != nil {
			msg.replyCh <- err
			close(msg.replyCh)
		}
		dur := time.Since(start)
		if msg.event != nil {
			e.metrics.RecordHandleDuration(msg.name, dur)
		}
		if dur > slowEventThreshold {
			logger.Warnf("Slow event %s took %v", msg.name, dur)
		}
	}()

	if msg.control != nil {
		err = e.runControl(msg)
		return
	}
	if msg.event != nil {
		err = e.handleEvent(*msg.event)
	}
}

func (e *Engine) handleEvent(evt wire.Event) error {
	if verdict := e.session.Admit(evt); verdict != session.Admit {
		e.metrics.RecordDrop(string(evt.Kind), verdict.String())
		logger.Debugf("Engine dropped %s id=%s corr=%s: %s", evt.Kind, evt.ID, evt.CorrelationID, verdict)
		return nil
	}
	if e.journal != nil {
		e.journal.Append(evt)
	}

	handler, ok := e.registry.Get(evt.Kind)
	if !ok {
		logger.Warnf("No handler registered for event kind: %s", evt.Kind)
		return nil
	}
	outcome, err := handler.Handle(NewHandlerContext(e.session), evt)
	if err != nil {
		logger.Errorf("Engine failed to handle %s: %v", evt.Kind, err)
		e.metrics.RecordEvent(string(evt.Kind), "error")
		return err
	}
	e.metrics.RecordEvent(string(evt.Kind), outcome.String())

	switch outcome {
	case store.Applied:
		e.session.Touch()
		e.dirty = true
		e.refreshSnapshot(false)
	case store.Premature, store.Stale:
		e.metrics.RecordDrop(string(evt.Kind), outcome.String())
		logger.Debugf("Engine dropped %s event %s", outcome, evt.Kind)
	}
	return nil
}

func (e *Engine) runControl(msg message) error {
	cmds, err := msg.control(e.session)
	if msg.reset {
		e.metrics.RecordReset(msg.name)
	}
	e.refreshSnapshot(true)
	if err != nil {
		return err
	}
	return e.publish(cmds)
}

func (e *Engine) publish(cmds []wire.Command) error {
	if e.publisher == nil {
		if len(cmds) > 0 {
			logger.Warnf("Engine has no publisher, dropping %d commands", len(cmds))
		}
		return nil
	}
	var errs []error
	for _, cmd := range cmds {
		if err := e.publisher.Publish(cmd); err != nil {
			e.metrics.RecordCommand(string(cmd.Type), "error")
			errs = append(errs, fmt.Errorf("publish %s: %w", cmd.Type, err))
			continue
		}
		e.metrics.RecordCommand(string(cmd.Type), "ok")
		logger.Debugf("Engine issued %s corr=%s", cmd.Type, cmd.CorrelationID)
	}
	return errors.Join(errs...)
}

type nopRecorder struct{}

func (nopRecorder) RecordEvent(string, string)                 {}
func (nopRecorder) RecordDrop(string, string)                  {}
func (nopRecorder) RecordHandleDuration(string, time.Duration) {}
func (nopRecorder) RecordReset(string)                         {}
func (nopRecorder) RecordCommand(string, string)               {}
func (nopRecorder) SetQueueDepth(int)                          {}
