// app/vision/internal/limiter/limiter.go
package limiter

import (
	"sync"
	"time"
)

// Outcome 一次已放行推理请求的结果分类
type Outcome int

const (
	// OutcomeSuccess 推理成功（包括空文本）
	OutcomeSuccess Outcome = iota
	// OutcomeOverloaded 上游过载信号（HTTP 429 等价）
	OutcomeOverloaded
	// OutcomeError 其他失败，与负载无关，不计入退避
	OutcomeError
)

// String 返回结果的字符串表示
func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeOverloaded:
		return "overloaded"
	case OutcomeError:
		return "error"
	default:
		return "unknown"
	}
}

// 退避系数
const (
	growthFactor   = 1.5 // 降级期间的快速到帧推高间隔
	escalateFactor = 2.0 // 连续过载触发的指数升级
	recoverFactor  = 0.8 // 恢复期间向下限回落
)

// AdaptiveLimiter 自适应准入限流器
//
// 全进程共享一个实例：所有会话竞争同一份对上游的请求预算，
// 准入判定与间隔调整由互斥锁串行化（已知的竞争点）。
// 被拒绝的帧直接丢弃，不排队不重试，由客户端重新发帧。
type AdaptiveLimiter struct {
	mu sync.Mutex

	cfg Config
	now func() time.Time

	lastRequest       time.Time
	interval          time.Duration
	consecutiveErrors int
}

// Option 限流器选项
type Option func(*AdaptiveLimiter)

// WithClock 注入时钟，测试用
func WithClock(now func() time.Time) Option {
	return func(l *AdaptiveLimiter) {
		l.now = now
	}
}

// New 创建限流器
func New(cfg *Config, opts ...Option) (*AdaptiveLimiter, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	l := &AdaptiveLimiter{
		cfg:      *cfg,
		now:      time.Now,
		interval: cfg.BaseInterval,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Admit 判定当前帧是否放行，每帧调用一次，永不阻塞
//
// 距上次放行不足当前间隔时拒绝；若此时处于降级期
// (consecutiveErrors > 0)，快速到帧会把间隔按 1.5 倍推高。
// 放行且无错误积累时，间隔按 0.8 倍向下限回落。
func (l *AdaptiveLimiter) Admit() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastRequest) < l.interval {
		if l.consecutiveErrors > 0 {
			l.interval = minDuration(scale(l.interval, growthFactor), l.cfg.MaxInterval)
		}
		return false
	}

	if l.consecutiveErrors == 0 && l.interval > l.cfg.BaseInterval {
		l.interval = maxDuration(scale(l.interval, recoverFactor), l.cfg.BaseInterval)
	}
	l.lastRequest = now
	return true
}

// Report 上报一次已放行请求的结果
//
// 成功清零错误计数；过载累加，达到阈值后间隔翻倍
// （计数不清零，后续过载可继续升级）；其他错误清零计数、
// 不动间隔。
func (l *AdaptiveLimiter) Report(outcome Outcome) {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch outcome {
	case OutcomeSuccess:
		l.consecutiveErrors = 0
	case OutcomeOverloaded:
		l.consecutiveErrors++
		if l.consecutiveErrors >= l.cfg.MaxConsecutiveErrors {
			l.interval = minDuration(scale(l.interval, escalateFactor), l.cfg.MaxInterval)
		}
	case OutcomeError:
		l.consecutiveErrors = 0
	}
}

// Interval 返回当前最小请求间隔
func (l *AdaptiveLimiter) Interval() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.interval
}

// ConsecutiveErrors 返回当前连续过载计数
func (l *AdaptiveLimiter) ConsecutiveErrors() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.consecutiveErrors
}

func scale(d time.Duration, factor float64) time.Duration {
	return time.Duration(float64(d) * factor)
}

func minDuration(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}

func maxDuration(a, b time.Duration) time.Duration {
	if a > b {
		return a
	}
	return b
}
