package livehttp

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"algodash/internal/engine"
	"algodash/internal/logger"
	"algodash/internal/projector"
	"algodash/internal/render"
	"algodash/internal/session"

	"github.com/gin-gonic/gin"
)

const commandTimeout = 3 * time.Second

// Router 暴露实盘面板的查询与命令接口。
type Router struct {
	Engine    Controller
	Journal   JournalReader
	projector *projector.Projector
}

// NewRouter 构造 live HTTP router。
func NewRouter(eng Controller, journal JournalReader, proj *projector.Projector) *Router {
	if proj == nil {
		proj = projector.New(nil)
	}
	return &Router{Engine: eng, Journal: journal, projector: proj}
}

// Register 将 /api/live 路由挂载到给定分组下。
func (r *Router) Register(group *gin.RouterGroup) {
	if group == nil {
		return
	}
	group.GET("/session", r.handleSession)
	group.GET("/orders", r.handleOrders)
	group.GET("/pnl/position", r.handlePositionPnl)
	group.GET("/pnl/total", r.handleTotalPnl)
	group.GET("/calendar", r.handleCalendar)
	group.GET("/calendar/weekdays", r.handleWeekdays)
	group.GET("/calendar/hours", r.handleHours)
	group.GET("/calendar/drill", r.handleDrill)
	group.GET("/overall/curve", r.handleOverallCurve)
	group.GET("/chart", r.handleChart)
	group.GET("/chart/legend", r.handleLegend)
	group.GET("/nav", r.handleNav)
	group.GET("/stats", r.handleStats)
	group.GET("/journal", r.handleJournal)

	group.POST("/select", r.handleSelect)
	group.POST("/overall", r.handleOverall)
	group.POST("/refresh", r.handleRefresh)
	group.POST("/open-log", r.handleOpenLog)
	group.POST("/run-yaml", r.handleRunYAML)
	group.POST("/strategies", r.handleStrategies)
}

// RegisterRender 挂载 go-echarts 页面。
func (r *Router) RegisterRender(group *gin.RouterGroup) {
	if group == nil {
		return
	}
	group.GET("/strategy", r.handleRenderStrategy)
	group.GET("/overall", r.handleRenderOverall)
}

func (r *Router) snapshot() *session.Snapshot {
	return r.Engine.Snapshot()
}

func (r *Router) handleSession(c *gin.Context) {
	snap := r.snapshot()
	c.JSON(http.StatusOK, gin.H{
		"digest":  projector.DigestOf(snap),
		"batches": snap.Batches,
		"symbols": projector.SymbolOptions(snap, snap.Selection.BatchID, snap.Selection.StrategyID),
	})
}

func (r *Router) handleOrders(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"orders": r.projector.OrderRows(r.snapshot())})
}

func (r *Router) handlePositionPnl(c *gin.Context) {
	snap := r.snapshot()
	if raw := strings.TrimSpace(c.Query("position_id")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid position_id"})
			return
		}
		value, ok := projector.PositionPnl(snap, id)
		c.JSON(http.StatusOK, gin.H{"position_id": id, "value": value, "known": ok})
		return
	}
	c.JSON(http.StatusOK, projector.PositionSeries(snap))
}

func (r *Router) handleTotalPnl(c *gin.Context) {
	c.JSON(http.StatusOK, projector.TotalSeries(r.snapshot()))
}

func (r *Router) handleCalendar(c *gin.Context) {
	c.JSON(http.StatusOK, projector.Calendar(r.snapshot()))
}

func (r *Router) handleWeekdays(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"bars": projector.WeekdayBars(r.snapshot())})
}

func (r *Router) handleHours(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"bars": projector.HourBars(r.snapshot())})
}

func (r *Router) handleDrill(c *gin.Context) {
	date := strings.TrimSpace(c.Query("date"))
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date is required"})
		return
	}
	target, ok := projector.Drill(r.snapshot(), date)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no strategies on " + date})
		return
	}
	c.JSON(http.StatusOK, target)
}

func (r *Router) handleOverallCurve(c *gin.Context) {
	snap := r.snapshot()
	c.JSON(http.StatusOK, gin.H{"batch_id": snap.OverallBatch, "points": projector.OverallCurve(snap)})
}

func (r *Router) handleChart(c *gin.Context) {
	c.JSON(http.StatusOK, projector.Chart(r.snapshot()))
}

func (r *Router) handleLegend(c *gin.Context) {
	ts, err := strconv.ParseInt(strings.TrimSpace(c.Query("ts")), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ts"})
		return
	}
	legend, ok := projector.LegendAt(r.snapshot(), ts)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no candle at ts"})
		return
	}
	c.JSON(http.StatusOK, legend)
}

func (r *Router) handleNav(c *gin.Context) {
	snap := r.snapshot()
	batchID := c.DefaultQuery("batch_id", snap.Selection.BatchID)
	strategyID := c.DefaultQuery("strategy_id", snap.Selection.StrategyID)
	nav, ok := projector.Navigate(snap, batchID, strategyID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "strategy not in catalog"})
		return
	}
	c.JSON(http.StatusOK, nav)
}

func (r *Router) handleStats(c *gin.Context) {
	c.JSON(http.StatusOK, projector.Stats(r.snapshot()))
}

func (r *Router) handleJournal(c *gin.Context) {
	if r.Journal == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "journal disabled"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	records, err := r.Journal.List(ctx, c.Query("kind"), limit)
	if err != nil {
		logger.Errorf("[api] journal list failed ip=%s err=%v", c.ClientIP(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": records})
}

func (r *Router) handleSelect(c *gin.Context) {
	var req SelectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	r.runCommand(c, "select", func(ctx context.Context) error {
		if strings.TrimSpace(req.Symbol) == "" || req.PeriodS <= 0 {
			return r.Engine.SelectStrategy(ctx, req.BatchID, req.StrategyID)
		}
		return r.Engine.Select(ctx, session.Selection{
			BatchID:    req.BatchID,
			StrategyID: req.StrategyID,
			Symbol:     req.Symbol,
			PeriodS:    req.PeriodS,
		})
	})
}

func (r *Router) handleOverall(c *gin.Context) {
	var req OverallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	r.runCommand(c, "overall", func(ctx context.Context) error {
		return r.Engine.SelectOverall(ctx, req.BatchID)
	})
}

func (r *Router) handleRefresh(c *gin.Context) {
	r.runCommand(c, "refresh", r.Engine.Refresh)
}

func (r *Router) handleStrategies(c *gin.Context) {
	r.runCommand(c, "strategies", r.Engine.RequestStrategies)
}

func (r *Router) handleOpenLog(c *gin.Context) {
	var req OpenLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	r.runCommand(c, "open-log", func(ctx context.Context) error {
		return r.Engine.OpenLog(ctx, req.Dir)
	})
}

func (r *Router) handleRunYAML(c *gin.Context) {
	var req RunYAMLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	r.runCommand(c, "run-yaml", func(ctx context.Context) error {
		return r.Engine.RunYAML(ctx, req.Path)
	})
}

func (r *Router) runCommand(c *gin.Context, name string, fn func(ctx context.Context) error) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), commandTimeout)
	defer cancel()
	if err := fn(ctx); err != nil {
		status := http.StatusBadGateway
		switch {
		case errors.Is(err, session.ErrUnknownStrategy):
			status = http.StatusNotFound
		case errors.Is(err, engine.ErrStopped):
			status = http.StatusServiceUnavailable
		case errors.Is(err, context.DeadlineExceeded):
			status = http.StatusGatewayTimeout
		}
		logger.Warnf("[api] %s failed ip=%s status=%d err=%v", name, c.ClientIP(), status, err)
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	logger.Infof("[api] %s ok ip=%s", name, c.ClientIP())
	c.JSON(http.StatusOK, gin.H{"status": "ok", "digest": projector.DigestOf(r.snapshot())})
}

func (r *Router) handleRenderStrategy(c *gin.Context) {
	r.renderHTML(c, func(buf *bytes.Buffer, snap *session.Snapshot) error {
		return render.StrategyPage(buf, snap)
	})
}

func (r *Router) handleRenderOverall(c *gin.Context) {
	r.renderHTML(c, func(buf *bytes.Buffer, snap *session.Snapshot) error {
		return render.OverallPage(buf, snap)
	})
}

func (r *Router) renderHTML(c *gin.Context, fn func(*bytes.Buffer, *session.Snapshot) error) {
	var buf bytes.Buffer
	if err := fn(&buf, r.snapshot()); err != nil {
		if errors.Is(err, render.ErrNoChart) || errors.Is(err, render.ErrNoOverall) {
			c.String(http.StatusNotFound, err.Error())
			return
		}
		logger.Errorf("[render] %s failed: %v", c.Request.URL.Path, err)
		c.String(http.StatusInternalServerError, err.Error())
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}
