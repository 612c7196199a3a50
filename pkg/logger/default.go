package logger

import "sync"

var (
	defaultLogger   Logger
	defaultLoggerMu sync.RWMutex
)

// Default 返回默认 logger，未初始化时惰性创建
func Default() Logger {
	defaultLoggerMu.RLock()
	l := defaultLogger
	defaultLoggerMu.RUnlock()
	if l != nil {
		return l
	}

	defaultLoggerMu.Lock()
	defer defaultLoggerMu.Unlock()
	if defaultLogger == nil {
		l, err := New(DefaultConfig())
		if err != nil {
			panic(err)
		}
		defaultLogger = l
	}
	return defaultLogger
}

// SetDefault 设置默认 logger
func SetDefault(l Logger) {
	defaultLoggerMu.Lock()
	defaultLogger = l
	defaultLoggerMu.Unlock()
}
