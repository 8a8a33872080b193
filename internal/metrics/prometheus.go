package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	once sync.Once

	// 事件处理
	eventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "algodash_events_total",
			Help: "Inbound events handled, by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	eventsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "algodash_events_dropped_total",
			Help: "Inbound events dropped before reaching a store",
		},
		[]string{"kind", "reason"},
	)

	decodeErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "algodash_decode_errors_total",
			Help: "Frames rejected by the envelope decoder",
		},
		[]string{"reason"},
	)

	handleDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "algodash_event_handle_seconds",
			Help:    "Time spent applying one event",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
		[]string{"kind"},
	)

	// 会话
	sessionResets = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "algodash_session_resets_total",
			Help: "Session operations that reset stores",
		},
		[]string{"op"},
	)

	commandsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "algodash_commands_total",
			Help: "Commands published to the backend, by type and result",
		},
		[]string{"type", "result"},
	)

	queueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "algodash_engine_queue_depth",
			Help: "Messages waiting in the engine queue",
		},
	)

	// 传输
	backendConnected = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "algodash_backend_connected",
			Help: "1 while the backend link is up",
		},
	)

	backendReconnects = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "algodash_backend_reconnects_total",
			Help: "Backend reconnect attempts",
		},
	)

	pushClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "algodash_push_clients",
			Help: "Connected websocket push clients",
		},
	)
)

// PrometheusMetrics 是全局指标的记录入口。
type PrometheusMetrics struct{}

func NewPrometheusMetrics() *PrometheusMetrics { return &PrometheusMetrics{} }

// RecordEvent 记录一次事件处理结果
func (pm *PrometheusMetrics) RecordEvent(kind, outcome string) {
	eventsTotal.WithLabelValues(kind, outcome).Inc()
}

// RecordDrop 记录被丢弃的事件（premature/stale/detached）
func (pm *PrometheusMetrics) RecordDrop(kind, reason string) {
	eventsDropped.WithLabelValues(kind, reason).Inc()
}

func (pm *PrometheusMetrics) RecordDecodeError(reason string) {
	decodeErrors.WithLabelValues(reason).Inc()
}

func (pm *PrometheusMetrics) RecordHandleDuration(kind string, d time.Duration) {
	handleDuration.WithLabelValues(kind).Observe(d.Seconds())
}

func (pm *PrometheusMetrics) RecordReset(op string) {
	sessionResets.WithLabelValues(op).Inc()
}

func (pm *PrometheusMetrics) RecordCommand(typ, result string) {
	commandsSent.WithLabelValues(typ, result).Inc()
}

func (pm *PrometheusMetrics) SetQueueDepth(n int) {
	queueDepth.Set(float64(n))
}

func (pm *PrometheusMetrics) SetBackendConnected(up bool) {
	if up {
		backendConnected.Set(1)
		return
	}
	backendConnected.Set(0)
}

func (pm *PrometheusMetrics) RecordReconnect() {
	backendReconnects.Inc()
}

func (pm *PrometheusMetrics) SetPushClients(n int) {
	pushClients.Set(float64(n))
}

var globalPrometheusMetrics *PrometheusMetrics

// GetPrometheusMetrics 获取全局 Prometheus 指标收集器
func GetPrometheusMetrics() *PrometheusMetrics {
	once.Do(func() {
		globalPrometheusMetrics = NewPrometheusMetrics()
	})
	return globalPrometheusMetrics
}
