// pkg/config/loader.go
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix 环境变量前缀
const EnvPrefix = "VISIONGATE"

// Loader 配置加载器
type Loader struct {
	viper *viper.Viper
}

// NewLoader 创建配置加载器
func NewLoader() *Loader {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	// 环境变量中的 "_" 映射配置中的 "."，例如 VISIONGATE_LOG_LEVEL -> log.level
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	return &Loader{viper: v}
}

// Viper 返回底层 viper 实例，用于设置默认值
func (l *Loader) Viper() *viper.Viper {
	return l.viper
}

// LoadFile 加载配置文件
func (l *Loader) LoadFile(configPath string) error {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", ErrConfigFileNotFound, configPath)
	}

	l.viper.SetConfigFile(configPath)
	if err := l.viper.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

// Unmarshal 解析整个配置到结构体
func (l *Loader) Unmarshal(target interface{}) error {
	if target == nil {
		return ErrNilConfig
	}
	if err := l.viper.Unmarshal(target); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return nil
}

// UnmarshalKey 解析配置中的某个 key 到结构体
func (l *Loader) UnmarshalKey(key string, target interface{}) error {
	if err := l.viper.UnmarshalKey(key, target); err != nil {
		return fmt.Errorf("failed to unmarshal key %s: %w", key, err)
	}
	return nil
}
