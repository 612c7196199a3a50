// app/vision/internal/metrics/metrics.go
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// 帧处理结果标签
const (
	FrameResultOK          = "ok"
	FrameResultMalformed   = "malformed"
	FrameResultRateLimited = "rate_limited"
	FrameResultOverloaded  = "overloaded"
	FrameResultError       = "error"
	FrameResultEmpty       = "empty"
)

// Metrics 业务指标
type Metrics struct {
	sessionsActive prometheus.Gauge
	sessionsTotal  prometheus.Counter

	framesTotal *prometheus.CounterVec

	inferenceTotal    *prometheus.CounterVec
	inferenceDuration prometheus.Histogram

	limiterInterval prometheus.Gauge
	pingsSent       prometheus.Counter
}

// New 创建并注册业务指标
func New(registerer prometheus.Registerer) *Metrics {
	m := &Metrics{
		sessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "visiongate",
			Subsystem: "vision",
			Name:      "sessions_active",
			Help:      "Number of active video sessions",
		}),
		sessionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "visiongate",
			Subsystem: "vision",
			Name:      "sessions_total",
			Help:      "Total number of video sessions",
		}),
		framesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "visiongate",
			Subsystem: "vision",
			Name:      "frames_total",
			Help:      "Total number of frames received, by processing result",
		}, []string{"result"}),
		inferenceTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "visiongate",
			Subsystem: "vision",
			Name:      "inference_requests_total",
			Help:      "Total number of inference requests, by outcome",
		}, []string{"outcome"}),
		inferenceDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "visiongate",
			Subsystem: "vision",
			Name:      "inference_duration_seconds",
			Help:      "Inference request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		limiterInterval: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "visiongate",
			Subsystem: "vision",
			Name:      "limiter_interval_seconds",
			Help:      "Current minimum inter-request interval of the adaptive limiter",
		}),
		pingsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "visiongate",
			Subsystem: "vision",
			Name:      "pings_sent_total",
			Help:      "Total number of keep-alive pings sent",
		}),
	}

	// 注册指标
	if registerer != nil {
		registerer.MustRegister(
			m.sessionsActive,
			m.sessionsTotal,
			m.framesTotal,
			m.inferenceTotal,
			m.inferenceDuration,
			m.limiterInterval,
			m.pingsSent,
		)
	}

	return m
}

// OnSessionOpened 会话建立
func (m *Metrics) OnSessionOpened() {
	m.sessionsActive.Inc()
	m.sessionsTotal.Inc()
}

// OnSessionClosed 会话关闭
func (m *Metrics) OnSessionClosed() {
	m.sessionsActive.Dec()
}

// OnFrame 记录一帧的处理结果
func (m *Metrics) OnFrame(result string) {
	m.framesTotal.WithLabelValues(result).Inc()
}

// OnInference 记录一次推理请求
func (m *Metrics) OnInference(outcome string, duration time.Duration) {
	m.inferenceTotal.WithLabelValues(outcome).Inc()
	m.inferenceDuration.Observe(duration.Seconds())
}

// SetLimiterInterval 更新限流器当前间隔
func (m *Metrics) SetLimiterInterval(d time.Duration) {
	m.limiterInterval.Set(d.Seconds())
}

// OnPingSent 记录一次保活 ping
func (m *Metrics) OnPingSent() {
	m.pingsSent.Inc()
}
