package web

import (
	"time"

	"github.com/gin-gonic/gin"
)

// Config Web 服务配置
type Config struct {
	Port         int           `mapstructure:"port" validate:"min=1,max=65535"`
	Mode         string        `mapstructure:"mode"` // debug, release, test
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	EnableCORS   bool          `mapstructure:"enable_cors"`
}

// DefaultConfig 返回默认配置
// 读写超时为 0：WebSocket 升级后为长连接，由会话自身的
// 不活跃超时负责收敛，HTTP 层不设限。
func DefaultConfig() *Config {
	return &Config{
		Port:       8000,
		Mode:       gin.ReleaseMode,
		EnableCORS: true,
	}
}
