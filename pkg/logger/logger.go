// pkg/logger/logger.go
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// 确保 BaseLogger 实现了 Logger 接口
var _ Logger = (*BaseLogger)(nil)

// BaseLogger 基于 zap 的日志记录器实现
type BaseLogger struct {
	sugar  *zap.SugaredLogger
	config *Config
}

// New 创建新的 BaseLogger
func New(cfg *Config) (*BaseLogger, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	l := &BaseLogger{config: cfg}

	zapLogger, err := l.build()
	if err != nil {
		return nil, err
	}
	l.sugar = zapLogger.Sugar()

	return l, nil
}

// build 构建 zap logger
func (l *BaseLogger) build() (*zap.Logger, error) {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
	if l.config.TimeFormat != "" {
		encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(l.config.TimeFormat)
	} else {
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	var encoder zapcore.Encoder
	switch l.config.Format {
	case ConsoleFormat:
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	default:
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	}

	writers := make([]zapcore.WriteSyncer, 0, 2)
	if l.config.EnableConsole {
		writers = append(writers, zapcore.AddSync(os.Stdout))
	}
	if l.config.EnableFile {
		writers = append(writers, zapcore.AddSync(newRotationWriter(&l.config.Rotation, l.config.OutputPath)))
	}
	writeSyncer := zapcore.NewMultiWriteSyncer(writers...)

	core := zapcore.NewCore(encoder, writeSyncer, parseLevel(l.config.Level))

	return zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)), nil
}

// parseLevel 解析日志级别
func parseLevel(level Level) zapcore.Level {
	switch level {
	case DebugLevel:
		return zapcore.DebugLevel
	case InfoLevel:
		return zapcore.InfoLevel
	case WarnLevel:
		return zapcore.WarnLevel
	case ErrorLevel:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Debug 输出 Debug 级别日志
func (l *BaseLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.sugar.Debugw(msg, keysAndValues...)
}

// Info 输出 Info 级别日志
func (l *BaseLogger) Info(msg string, keysAndValues ...interface{}) {
	l.sugar.Infow(msg, keysAndValues...)
}

// Warn 输出 Warn 级别日志
func (l *BaseLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.sugar.Warnw(msg, keysAndValues...)
}

// Error 输出 Error 级别日志
func (l *BaseLogger) Error(msg string, keysAndValues ...interface{}) {
	l.sugar.Errorw(msg, keysAndValues...)
}

// Named 返回带名称的派生 logger
func (l *BaseLogger) Named(name string) Logger {
	return &BaseLogger{
		sugar:  l.sugar.Named(name),
		config: l.config,
	}
}

// WithFields 返回带固定字段的派生 logger
func (l *BaseLogger) WithFields(keysAndValues ...interface{}) Logger {
	return &BaseLogger{
		sugar:  l.sugar.With(keysAndValues...),
		config: l.config,
	}
}

// Sync 刷新缓冲的日志
func (l *BaseLogger) Sync() error {
	return l.sugar.Sync()
}
