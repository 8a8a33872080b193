// Package backend owns the websocket link to the strategy backend.
package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"algodash/internal/logger"

	"github.com/gorilla/websocket"
)

var ErrNotConnected = errors.New("backend websocket not connected")

const (
	defaultReconnectMin = time.Second
	defaultReconnectMax = 30 * time.Second
	defaultFrameBuffer  = 1024
	writeTimeout        = 10 * time.Second
)

// StatusRecorder receives link state changes.
type StatusRecorder interface {
	SetBackendConnected(up bool)
	RecordReconnect()
}

type Config struct {
	URL          string
	Header       http.Header
	ReconnectMin time.Duration
	ReconnectMax time.Duration
	FrameBuffer  int
	Dialer       *websocket.Dialer
	Recorder     StatusRecorder
	// OnConnect runs after every successful dial, on its own goroutine.
	OnConnect func()
}

func (c Config) withDefaults() Config {
	if c.ReconnectMin <= 0 {
		c.ReconnectMin = defaultReconnectMin
	}
	if c.ReconnectMax < c.ReconnectMin {
		c.ReconnectMax = defaultReconnectMax
		if c.ReconnectMax < c.ReconnectMin {
			c.ReconnectMax = c.ReconnectMin
		}
	}
	if c.FrameBuffer <= 0 {
		c.FrameBuffer = defaultFrameBuffer
	}
	if c.Dialer == nil {
		c.Dialer = websocket.DefaultDialer
	}
	return c
}

// Client keeps one websocket open, reconnecting with exponential backoff.
type Client struct {
	cfg Config

	mu     sync.Mutex
	conn   *websocket.Conn
	cancel context.CancelFunc

	writeMu   sync.Mutex
	connected atomic.Bool
	wg        sync.WaitGroup
}

func NewClient(cfg Config) *Client {
	return &Client{cfg: cfg.withDefaults()}
}

// Start dials in the background and returns the inbound frame channel. The channel closes
// once the client is closed or ctx ends.
func (c *Client) Start(ctx context.Context) <-chan []byte {
	runCtx, cancel := context.WithCancel(ctx)
	c.mu.Lock()
	c.cancel = cancel
	c.mu.Unlock()

	out := make(chan []byte, c.cfg.FrameBuffer)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer close(out)
		c.runLoop(runCtx, out)
	}()
	return out
}

// Close cancels the reader and waits for it to exit.
func (c *Client) Close() error {
	c.mu.Lock()
	cancel := c.cancel
	conn := c.conn
	c.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	if conn != nil {
		_ = conn.Close()
	}
	c.wg.Wait()
	return nil
}

func (c *Client) Connected() bool { return c.connected.Load() }

// WriteFrame sends one text frame on the current connection.
func (c *Client) WriteFrame(data []byte) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return ErrNotConnected
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("write backend frame: %w", err)
	}
	return nil
}

func (c *Client) setConn(conn *websocket.Conn) {
	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
	up := conn != nil
	c.connected.Store(up)
	if c.cfg.Recorder != nil {
		c.cfg.Recorder.SetBackendConnected(up)
	}
}

func (c *Client) runLoop(ctx context.Context, out chan<- []byte) {
	delay := c.cfg.ReconnectMin
	first := true
	for {
		if ctx.Err() != nil {
			return
		}
		if !first && c.cfg.Recorder != nil {
			c.cfg.Recorder.RecordReconnect()
		}
		first = false

		conn, _, err := c.cfg.Dialer.DialContext(ctx, c.cfg.URL, c.cfg.Header)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Warnf("[backend] dial %s failed: %v (retry in %s)", redactURL(c.cfg.URL), err, delay)
			if !sleepWithContext(ctx, delay) {
				return
			}
			delay = c.nextDelay(delay)
			continue
		}

		delay = c.cfg.ReconnectMin
		c.setConn(conn)
		logger.Infof("[backend] connected to %s", redactURL(c.cfg.URL))
		if c.cfg.OnConnect != nil {
			go c.cfg.OnConnect()
		}

		err = c.readLoop(ctx, conn, out)
		c.setConn(nil)
		_ = conn.Close()
		if ctx.Err() != nil {
			return
		}
		logger.Warnf("[backend] connection lost: %v (retry in %s)", err, delay)
		if !sleepWithContext(ctx, delay) {
			return
		}
		delay = c.nextDelay(delay)
	}
}

func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn, out chan<- []byte) error {
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		select {
		case out <- data:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (c *Client) nextDelay(current time.Duration) time.Duration {
	if current <= 0 {
		return c.cfg.ReconnectMin
	}
	next := current * 2
	if next > c.cfg.ReconnectMax {
		next = c.cfg.ReconnectMax
	}
	return next
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// redactURL drops the query string, which may carry tokens.
func redactURL(raw string) string {
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		return raw[:i]
	}
	return raw
}
