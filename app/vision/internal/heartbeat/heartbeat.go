// app/vision/internal/heartbeat/heartbeat.go
package heartbeat

import (
	"time"

	"github.com/lk2023060901/visiongate/pkg/logger"
)

// DefaultInterval 默认心跳周期
const DefaultInterval = 30 * time.Second

// Heartbeat 进程级保活心跳
// 与任何会话无关，仅向宿主平台表明进程存活，固定周期运行到停止。
type Heartbeat struct {
	interval time.Duration
	logger   logger.Logger
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// New 创建心跳
func New(interval time.Duration, l logger.Logger) *Heartbeat {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if l == nil {
		l = logger.Default()
	}
	return &Heartbeat{
		interval: interval,
		logger:   l.Named("heartbeat"),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start 启动心跳协程
func (h *Heartbeat) Start() {
	go h.run()
}

func (h *Heartbeat) run() {
	defer close(h.doneCh)

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			h.logger.Debug("keep-alive ping")
		case <-h.stopCh:
			return
		}
	}
}

// Stop 停止心跳并等待协程退出
func (h *Heartbeat) Stop() {
	close(h.stopCh)
	<-h.doneCh
}
