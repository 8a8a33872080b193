package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"algodash/internal/pkg/circuit"
	"algodash/internal/wire"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testUpgrader = websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}

// echoServer pushes a greeting and echoes every frame it receives.
func echoServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"loading"}`))
		for {
			mt, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if err := conn.WriteMessage(mt, data); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

type statusCounter struct {
	mu         sync.Mutex
	ups        int
	reconnects int
}

func (s *statusCounter) SetBackendConnected(up bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if up {
		s.ups++
	}
}

func (s *statusCounter) RecordReconnect() {
	s.mu.Lock()
	s.reconnects++
	s.mu.Unlock()
}

func recv(t *testing.T, frames <-chan []byte) []byte {
	t.Helper()
	select {
	case f, ok := <-frames:
		require.True(t, ok, "frame channel closed")
		return f
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for frame")
		return nil
	}
}

func TestClient_ReadWriteAndClose(t *testing.T) {
	srv := echoServer(t)
	connected := make(chan struct{}, 1)
	rec := &statusCounter{}
	client := NewClient(Config{
		URL:      wsURL(srv),
		Recorder: rec,
		OnConnect: func() {
			connected <- struct{}{}
		},
	})

	frames := client.Start(context.Background())
	assert.JSONEq(t, `{"type":"loading"}`, string(recv(t, frames)))

	select {
	case <-connected:
	case <-time.After(2 * time.Second):
		t.Fatal("OnConnect not called")
	}
	assert.True(t, client.Connected())

	require.NoError(t, client.WriteFrame([]byte(`{"type":"app_request"}`)))
	assert.JSONEq(t, `{"type":"app_request"}`, string(recv(t, frames)))

	require.NoError(t, client.Close())
	_, ok := <-frames
	assert.False(t, ok, "frames must be closed after Close")
	assert.False(t, client.Connected())

	rec.mu.Lock()
	assert.Equal(t, 1, rec.ups)
	rec.mu.Unlock()
}

func TestClient_WriteBeforeConnect(t *testing.T) {
	client := NewClient(Config{URL: "ws://127.0.0.1:1/none"})
	assert.ErrorIs(t, client.WriteFrame([]byte("x")), ErrNotConnected)
}

func TestClient_ReconnectsAfterDrop(t *testing.T) {
	var mu sync.Mutex
	dials := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		mu.Lock()
		dials++
		n := dials
		mu.Unlock()
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"n":`+strconv.Itoa(n)+`}`))
		if n == 1 {
			conn.Close()
			return
		}
		defer conn.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	client := NewClient(Config{URL: wsURL(srv), ReconnectMin: 10 * time.Millisecond, ReconnectMax: 20 * time.Millisecond})
	frames := client.Start(context.Background())
	defer client.Close()

	assert.JSONEq(t, `{"n":1}`, string(recv(t, frames)))
	assert.JSONEq(t, `{"n":2}`, string(recv(t, frames)))
}

func TestNextDelay(t *testing.T) {
	c := NewClient(Config{ReconnectMin: time.Second, ReconnectMax: 5 * time.Second})
	assert.Equal(t, 2*time.Second, c.nextDelay(time.Second))
	assert.Equal(t, 5*time.Second, c.nextDelay(4*time.Second))
	assert.Equal(t, time.Second, c.nextDelay(0))
	assert.Equal(t, "ws://host/path", redactURL("ws://host/path?token=abc"))
}

type frameRecorder struct {
	mu     sync.Mutex
	frames [][]byte
	done   chan struct{}
}

func (f *frameRecorder) WriteFrame(data []byte) error {
	f.mu.Lock()
	f.frames = append(f.frames, data)
	n := len(f.frames)
	f.mu.Unlock()
	if n == 2 {
		close(f.done)
	}
	return nil
}

type mapTopics map[string]string

func (m mapTopics) Get(name string) string {
	if v, ok := m[name]; ok {
		return v
	}
	return name
}

func TestPublisher(t *testing.T) {
	w := &frameRecorder{done: make(chan struct{})}
	pub := NewPublisher(w, PublisherConfig{
		Rate:      1000,
		Burst:     2,
		QueueSize: 2,
		Topics:    mapTopics{"app_request": "AppRequest"},
	})

	first := wire.NewCommand(wire.CmdAppRequest, nil)
	require.NoError(t, pub.Publish(first))
	require.NoError(t, pub.Publish(wire.NewCommand(wire.CmdOverallRequest, &wire.CommandParams{BatchID: "b1"})))
	assert.ErrorIs(t, pub.Publish(wire.NewCommand(wire.CmdAppRequest, nil)), ErrQueueFull)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go pub.Run(ctx)

	select {
	case <-w.done:
	case <-time.After(2 * time.Second):
		t.Fatal("publisher did not drain")
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	var got map[string]any
	require.NoError(t, json.Unmarshal(w.frames[0], &got))
	assert.Equal(t, "AppRequest", got["type"])
	assert.Equal(t, first.ID, got["correlation_id"])

	require.NoError(t, json.Unmarshal(w.frames[1], &got))
	assert.Equal(t, "overall_request", got["type"])
}

type failingWriter struct{ calls int }

func (f *failingWriter) WriteFrame([]byte) error {
	f.calls++
	return ErrNotConnected
}

func TestPublisher_BreakerStopsWritesToDeadLink(t *testing.T) {
	w := &failingWriter{}
	pub := NewPublisher(w, PublisherConfig{Breaker: circuit.New("test", 1, time.Hour)})

	cmd := wire.NewCommand(wire.CmdAppRequest, nil)
	assert.ErrorIs(t, pub.send(cmd), ErrNotConnected)
	assert.ErrorIs(t, pub.send(cmd), circuit.ErrOpen)
	assert.Equal(t, 1, w.calls)
}
