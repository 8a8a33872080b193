package livehttp

import (
	"context"
	"errors"
	"net/http"
	"time"

	"algodash/internal/logger"
	"algodash/internal/projector"
	"algodash/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server 提供 /api/live 查询与命令接口、图表页面以及 /ws 推送。
type Server struct {
	addr   string
	router *gin.Engine
	hub    *Hub
	cancel func()
}

// ServerConfig 描述 live HTTP 服务依赖。
type ServerConfig struct {
	Addr      string
	Engine    Controller
	Journal   JournalReader
	Projector *projector.Projector
	Clients   ClientGauge
}

// NewServer 构建 live HTTP server。
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Engine == nil {
		return nil, errors.New("live http server requires an engine")
	}
	if cfg.Addr == "" {
		cfg.Addr = ":9991"
	}
	if cfg.Projector == nil {
		cfg.Projector = projector.New(nil)
	}
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	hub := NewHub(cfg.Clients)
	hub.OnJoin = func() any { return projector.DigestOf(cfg.Engine.Snapshot()) }
	cancel := cfg.Engine.Subscribe(func(snap *session.Snapshot) {
		hub.BroadcastJSON(projector.DigestOf(snap))
	})
	router.GET("/ws", hub.Handle)

	liveRouter := NewRouter(cfg.Engine, cfg.Journal, cfg.Projector)
	liveRouter.Register(router.Group("/api/live"))
	liveRouter.RegisterRender(router.Group("/render"))

	return &Server{addr: cfg.Addr, router: router, hub: hub, cancel: cancel}, nil
}

// requestLogger 记录接口调用，便于追踪刷新与命令。
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		method := c.Request.Method
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery
		client := c.ClientIP()
		c.Next()
		dur := time.Since(start)
		status := c.Writer.Status()
		fullPath := path
		if query != "" {
			fullPath = path + "?" + query
		}
		logger.Debugf("HTTP %s %s status=%d ip=%s dur=%s", method, fullPath, status, client, dur)
	}
}

// Addr 返回监听地址。
func (s *Server) Addr() string {
	if s == nil {
		return ""
	}
	return s.addr
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Start 启动 HTTP 服务，直到 ctx 取消或出现错误。
func (s *Server) Start(ctx context.Context) error {
	if s == nil {
		return nil
	}
	go s.hub.Run(ctx)
	defer s.cancel()

	srv := &http.Server{Addr: s.addr, Handler: s.router}
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shCtx)
		s.hub.CloseAll()
		return nil
	case err := <-errCh:
		return err
	}
}
