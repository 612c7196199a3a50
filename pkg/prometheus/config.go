package prometheus

import "time"

// Config Prometheus 配置
type Config struct {
	// HTTP 服务器配置（可选的独立指标端口；
	// 关闭时通过 Handler() 挂载到业务 HTTP 服务）
	HTTPServer HTTPServerConfig `mapstructure:"http_server"`

	// 是否注册默认 Go 采集器
	EnableGoCollector bool `mapstructure:"enable_go_collector"`

	// 是否注册默认进程采集器
	EnableProcessCollector bool `mapstructure:"enable_process_collector"`
}

// HTTPServerConfig 独立指标服务器配置
type HTTPServerConfig struct {
	// 是否启用独立的 HTTP 服务器暴露指标
	Enabled bool `mapstructure:"enabled"`

	// 监听地址
	Addr string `mapstructure:"addr"`

	// 指标路径
	Path string `mapstructure:"path"`

	// 读写超时
	Timeout time.Duration `mapstructure:"timeout"`
}

// DefaultConfig 默认配置
func DefaultConfig() *Config {
	return &Config{
		HTTPServer: HTTPServerConfig{
			Enabled: false,
			Addr:    ":9090",
			Path:    "/metrics",
			Timeout: 10 * time.Second,
		},
		EnableGoCollector:      true,
		EnableProcessCollector: true,
	}
}

// Validate 验证配置
func (c *Config) Validate() error {
	if c.HTTPServer.Enabled {
		if c.HTTPServer.Addr == "" {
			return ErrInvalidConfig
		}
		if c.HTTPServer.Path == "" {
			c.HTTPServer.Path = "/metrics"
		}
		if c.HTTPServer.Timeout == 0 {
			c.HTTPServer.Timeout = 10 * time.Second
		}
	}
	return nil
}
