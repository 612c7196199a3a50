// pkg/websocket/server.go
package websocket

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/lk2023060901/visiongate/pkg/logger"
)

// UpgraderConfig 升级器配置
type UpgraderConfig struct {
	ReadBufferSize   int           `mapstructure:"read_buffer_size"`
	WriteBufferSize  int           `mapstructure:"write_buffer_size"`
	HandshakeTimeout time.Duration `mapstructure:"handshake_timeout"`
	MaxMessageSize   int64         `mapstructure:"max_message_size"`
	WriteTimeout     time.Duration `mapstructure:"write_timeout"`

	// CheckOrigin 为 nil 时允许所有来源（与前端开发模式的全开 CORS 一致）
	CheckOrigin func(r *http.Request) bool `mapstructure:"-"`
}

// DefaultUpgraderConfig 默认配置
func DefaultUpgraderConfig() *UpgraderConfig {
	return &UpgraderConfig{
		ReadBufferSize:   4096,
		WriteBufferSize:  4096,
		HandshakeTimeout: 10 * time.Second,
		MaxMessageSize:   4 << 20, // 视频帧以 base64 内嵌，放宽到 4MB
		WriteTimeout:     10 * time.Second,
	}
}

// Validate 验证配置
func (c *UpgraderConfig) Validate() error {
	if c.ReadBufferSize < 0 || c.WriteBufferSize < 0 || c.MaxMessageSize < 0 {
		return ErrInvalidConfig
	}
	return nil
}

// Upgrader 将 HTTP 请求升级为受管 WebSocket 连接
type Upgrader struct {
	config   *UpgraderConfig
	upgrader *websocket.Upgrader
	logger   logger.Logger
	metrics  *Metrics
}

// NewUpgrader 创建升级器
func NewUpgrader(cfg *UpgraderConfig, l logger.Logger, m *Metrics) (*Upgrader, error) {
	if cfg == nil {
		cfg = DefaultUpgraderConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	checkOrigin := cfg.CheckOrigin
	if checkOrigin == nil {
		checkOrigin = func(r *http.Request) bool { return true }
	}

	return &Upgrader{
		config: cfg,
		upgrader: &websocket.Upgrader{
			ReadBufferSize:   cfg.ReadBufferSize,
			WriteBufferSize:  cfg.WriteBufferSize,
			HandshakeTimeout: cfg.HandshakeTimeout,
			CheckOrigin:      checkOrigin,
		},
		logger:  l,
		metrics: m,
	}, nil
}

// Upgrade 升级 HTTP 连接为 WebSocket
func (u *Upgrader) Upgrade(w http.ResponseWriter, r *http.Request) (*Connection, error) {
	wsConn, err := u.upgrader.Upgrade(w, r, nil)
	if err != nil {
		if u.metrics != nil {
			u.metrics.OnUpgradeError()
		}
		if u.logger != nil {
			u.logger.Warn("websocket upgrade failed", "error", err, "remote_addr", r.RemoteAddr)
		}
		return nil, ErrUpgradeFailed
	}

	conn := NewConnection(wsConn,
		WithConnectionLogger(u.logger),
		WithWriteTimeout(u.config.WriteTimeout),
	)
	if u.config.MaxMessageSize > 0 {
		wsConn.SetReadLimit(u.config.MaxMessageSize)
	}

	if u.metrics != nil {
		u.metrics.OnConnectionOpened()
	}
	return conn, nil
}

// OnConnectionClosed 通知连接关闭（由会话清理路径调用）
func (u *Upgrader) OnConnectionClosed() {
	if u.metrics != nil {
		u.metrics.OnConnectionClosed()
	}
}
