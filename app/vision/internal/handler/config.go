package handler

import (
	"errors"
	"time"
)

var (
	// ErrInvalidConfig 会话配置无效
	ErrInvalidConfig = errors.New("handler: invalid config")
)

// Config 会话循环配置
type Config struct {
	// PingInterval 保活 ping 周期，同时是接收等待的超时
	PingInterval time.Duration `mapstructure:"ping_interval"`

	// InactivityTimeout 不活跃超时，超过即关闭连接（终态）
	InactivityTimeout time.Duration `mapstructure:"inactivity_timeout"`
}

// DefaultConfig 默认配置
func DefaultConfig() *Config {
	return &Config{
		PingInterval:      15 * time.Second,
		InactivityTimeout: 300 * time.Second,
	}
}

// Validate 验证配置
func (c *Config) Validate() error {
	if c.PingInterval <= 0 || c.InactivityTimeout <= 0 {
		return ErrInvalidConfig
	}
	if c.InactivityTimeout < c.PingInterval {
		return ErrInvalidConfig
	}
	return nil
}
