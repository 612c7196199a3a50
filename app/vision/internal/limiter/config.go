package limiter

import (
	"errors"
	"time"
)

var (
	// ErrInvalidConfig 限流器配置无效
	ErrInvalidConfig = errors.New("limiter: invalid config")
)

// Config 限流器配置
type Config struct {
	// BaseInterval 请求间隔下限
	BaseInterval time.Duration `mapstructure:"base_interval"`
	// MaxInterval 请求间隔上限
	MaxInterval time.Duration `mapstructure:"max_interval"`
	// MaxConsecutiveErrors 触发间隔翻倍的连续过载阈值
	MaxConsecutiveErrors int `mapstructure:"max_consecutive_errors"`
}

// DefaultConfig 默认配置
func DefaultConfig() *Config {
	return &Config{
		BaseInterval:         5 * time.Second,
		MaxInterval:          15 * time.Second,
		MaxConsecutiveErrors: 3,
	}
}

// Validate 验证配置，不变量: 0 < BaseInterval <= MaxInterval
func (c *Config) Validate() error {
	if c.BaseInterval <= 0 || c.MaxInterval < c.BaseInterval {
		return ErrInvalidConfig
	}
	if c.MaxConsecutiveErrors <= 0 {
		return ErrInvalidConfig
	}
	return nil
}
