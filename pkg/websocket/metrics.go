// pkg/websocket/metrics.go
package websocket

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics 连接层指标
type Metrics struct {
	activeConnections prometheus.Gauge
	totalConnections  prometheus.Counter
	upgradeErrors     prometheus.Counter
}

// NewMetrics 创建连接层指标
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	m := &Metrics{
		activeConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "visiongate",
			Subsystem: "websocket",
			Name:      "active_connections",
			Help:      "Number of active WebSocket connections",
		}),
		totalConnections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "visiongate",
			Subsystem: "websocket",
			Name:      "connections_total",
			Help:      "Total number of WebSocket connections",
		}),
		upgradeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "visiongate",
			Subsystem: "websocket",
			Name:      "upgrade_errors_total",
			Help:      "Total number of upgrade errors",
		}),
	}

	// 注册指标
	if registerer != nil {
		registerer.MustRegister(
			m.activeConnections,
			m.totalConnections,
			m.upgradeErrors,
		)
	}

	return m
}

// OnConnectionOpened 连接建立
func (m *Metrics) OnConnectionOpened() {
	m.activeConnections.Inc()
	m.totalConnections.Inc()
}

// OnConnectionClosed 连接关闭
func (m *Metrics) OnConnectionClosed() {
	m.activeConnections.Dec()
}

// OnUpgradeError 升级失败
func (m *Metrics) OnUpgradeError() {
	m.upgradeErrors.Inc()
}
