package livehttp

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"algodash/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // 面板只在本机/内网使用
	},
}

// ClientGauge 记录在线推送连接数。
type ClientGauge interface {
	SetPushClients(n int)
}

// Hub 把快照摘要广播给所有 websocket 客户端。
type Hub struct {
	mu        sync.RWMutex
	clients   map[*websocket.Conn]bool
	broadcast chan []byte
	gauge     ClientGauge

	// OnJoin 返回新连接收到的第一条消息。
	OnJoin func() any
}

func NewHub(gauge ClientGauge) *Hub {
	return &Hub{
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan []byte, 256),
		gauge:     gauge,
	}
}

// Run 发送排队中的广播，直到 ctx 结束。
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case message := <-h.broadcast:
			h.fanout(message)
		}
	}
}

func (h *Hub) fanout(message []byte) {
	h.mu.RLock()
	var failed []*websocket.Conn
	for conn := range h.clients {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
			failed = append(failed, conn)
		}
	}
	h.mu.RUnlock()
	for _, conn := range failed {
		h.remove(conn)
	}
}

// BroadcastJSON 序列化 v 并排队广播；队列满时丢弃。
func (h *Hub) BroadcastJSON(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		logger.Warnf("push marshal failed: %v", err)
		return
	}
	select {
	case h.broadcast <- data:
	default:
		// 队列满了，丢弃；客户端会在下一次版本变化时追上
	}
}

func (h *Hub) add(conn *websocket.Conn) {
	h.mu.Lock()
	h.clients[conn] = true
	n := len(h.clients)
	h.mu.Unlock()
	h.report(n)
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	if _, ok := h.clients[conn]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, conn)
	n := len(h.clients)
	h.mu.Unlock()
	_ = conn.Close()
	h.report(n)
}

func (h *Hub) report(n int) {
	if h.gauge != nil {
		h.gauge.SetPushClients(n)
	}
}

// Clients 返回当前连接数。
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// CloseAll 断开所有客户端。
func (h *Hub) CloseAll() {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		conns = append(conns, conn)
	}
	h.clients = make(map[*websocket.Conn]bool)
	h.mu.Unlock()
	for _, conn := range conns {
		_ = conn.Close()
	}
	h.report(0)
}

// Handle upgrades the request and keeps the connection until the client goes away.
func (h *Hub) Handle(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warnf("ws upgrade failed ip=%s err=%v", c.ClientIP(), err)
		return
	}
	if h.OnJoin != nil {
		if data, err := json.Marshal(h.OnJoin()); err == nil {
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				_ = conn.Close()
				return
			}
		}
	}
	h.add(conn)
	logger.Debugf("ws client joined ip=%s clients=%d", c.ClientIP(), h.Clients())

	// 客户端只读；读循环用于感知断开
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.remove(conn)
			return
		}
	}
}
