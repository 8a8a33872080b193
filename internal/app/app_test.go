package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"algodash/internal/config"
	cfgloader "algodash/internal/config/loader"
	"algodash/internal/engine"
	"algodash/internal/journal"
	"algodash/internal/session"
	"algodash/internal/wire"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

const catalogFrame = `{"type":"strategy_list","payload":{"batches":[{"batch_id":"b1","strategies":[{"strategy_id":"s1","symbol_periods":[{"symbol":"BTCUSDT","period_s":[60]}]}]}]}}`

func TestInboundKinds(t *testing.T) {
	snap := cfgloader.TopicSnapshot{Topics: map[string]string{
		"strategy_list": "catalog",
		"order":         "order",
		"not_a_kind":    "x",
		"chart_request": "chart_req_v2",
	}}
	assert.Equal(t, map[string]wire.Kind{"catalog": wire.KindStrategyList}, inboundKinds(snap))
}

type commandLog struct {
	mu    sync.Mutex
	types []wire.CommandKind
}

func (c *commandLog) Publish(cmd wire.Command) error {
	c.mu.Lock()
	c.types = append(c.types, cmd.Type)
	c.mu.Unlock()
	return nil
}

func TestConnectHook_FirstConnectThenReconnect(t *testing.T) {
	pub := &commandLog{}
	eng := engine.New(session.New(session.Options{}), pub, engine.Config{})
	eng.Start()
	defer eng.Stop()

	hook := connectHook(eng)
	hook()
	hook()
	hook()

	pub.mu.Lock()
	defer pub.mu.Unlock()
	assert.Equal(t, []wire.CommandKind{wire.CmdStrategiesRequest, wire.CmdAppRequest, wire.CmdAppRequest}, pub.types)
}

func TestNewApp_NilConfig(t *testing.T) {
	_, err := NewApp(nil)
	assert.Error(t, err)
}

func TestApp_RunAgainstBackend(t *testing.T) {
	commands := make(chan string, 8)
	upgrader := websocket.Upgrader{}
	backendSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		commands <- gjson.GetBytes(msg, "type").String()
		if err := conn.WriteMessage(websocket.TextMessage, []byte(catalogFrame)); err != nil {
			return
		}
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer backendSrv.Close()

	journalPath := filepath.Join(t.TempDir(), "journal.db")
	cfg := &config.Config{
		App: config.AppConfig{LogLevel: "info", Timezone: "UTC"},
		Backend: config.BackendConfig{
			URL:          "ws" + strings.TrimPrefix(backendSrv.URL, "http"),
			ReconnectMin: 20 * time.Millisecond,
			ReconnectMax: 100 * time.Millisecond,
			CommandBurst: 1,
			CommandQueue: 8,
		},
		Engine: config.EngineConfig{JournalPath: journalPath, JournalBuffer: 8},
	}
	app, err := NewAppBuilder(cfg, WithoutHTTP()).Build(context.Background())
	require.NoError(t, err)
	app.Summary = nil

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	select {
	case cmd := <-commands:
		assert.Equal(t, string(wire.CmdStrategiesRequest), cmd)
	case <-time.After(3 * time.Second):
		t.Fatal("backend never received a command")
	}
	require.Eventually(t, func() bool {
		return len(app.Engine().Snapshot().Batches) == 1
	}, 3*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}

	j, err := journal.Open(journalPath, 1)
	require.NoError(t, err)
	defer j.Close()
	recs, err := j.List(context.Background(), string(wire.KindStrategyList), 10)
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}
