// app/vision/internal/handler/handler.go
package handler

import (
	"context"
	"errors"
	"time"

	"github.com/lk2023060901/visiongate/app/vision/internal/frame"
	"github.com/lk2023060901/visiongate/app/vision/internal/inference"
	"github.com/lk2023060901/visiongate/app/vision/internal/limiter"
	"github.com/lk2023060901/visiongate/app/vision/internal/metrics"
	"github.com/lk2023060901/visiongate/app/vision/internal/session"
	"github.com/lk2023060901/visiongate/pkg/logger"
	"github.com/lk2023060901/visiongate/pkg/websocket"
)

// Handler 视频会话处理器
//
// 每条连接由一个协程驱动 Handle：接收、处理、发送严格串行，
// 上一帧的出站消息（或丢弃）完成前不会处理下一帧，保证每条
// 连接的响应有序。
type Handler struct {
	config   *Config
	sessions *session.Manager
	limiter  *limiter.AdaptiveLimiter
	infer    inference.Client
	metrics  *metrics.Metrics
	logger   logger.Logger
	now      func() time.Time
}

// Option 处理器选项
type Option func(*Handler)

// WithClock 注入时钟，测试用
func WithClock(now func() time.Time) Option {
	return func(h *Handler) {
		h.now = now
	}
}

// New 创建处理器
func New(
	cfg *Config,
	sessions *session.Manager,
	lim *limiter.AdaptiveLimiter,
	infer inference.Client,
	m *metrics.Metrics,
	l logger.Logger,
	opts ...Option,
) (*Handler, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if l == nil {
		l = logger.Default()
	}

	h := &Handler{
		config:   cfg,
		sessions: sessions,
		limiter:  lim,
		infer:    infer,
		metrics:  m,
		logger:   l.Named("vision.handler"),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// Handle 驱动一条连接的会话循环，连接关闭后返回
//
// 解码错误、限流拒绝、上游失败均为可恢复：通知客户端后继续循环。
// 只有传输级故障终止会话；清理（注销、关连接）在任何退出路径
// 上都会执行。
func (h *Handler) Handle(ctx context.Context, conn session.Conn) {
	sess := session.New(conn, h.now())
	h.sessions.Register(sess)
	h.metrics.OnSessionOpened()

	log := h.logger.WithFields("conn_id", conn.ID(), "remote_addr", conn.RemoteAddr())
	log.Info("session opened", "total_sessions", h.sessions.Count())

	defer func() {
		h.sessions.Unregister(sess.ID())
		h.metrics.OnSessionClosed()
		_ = conn.CloseNormal()
		log.Info("session closed", "total_sessions", h.sessions.Count())
	}()

	for {
		now := h.now()

		// 不活跃超时是终态，正常关闭码
		if idle := now.Sub(sess.LastActivity()); idle > h.config.InactivityTimeout {
			log.Info("session inactive, closing", "idle", idle.String())
			return
		}

		// 周期保活 ping，发送失败说明连接已死
		if now.Sub(sess.LastPing()) >= h.config.PingInterval {
			if err := conn.SendJSON(frame.NewPing()); err != nil {
				log.Debug("ping send failed", "error", err)
				return
			}
			sess.MarkPing(now)
			h.metrics.OnPingSent()
		}

		data, err := conn.ReadWithTimeout(h.config.PingInterval)
		if err != nil {
			// 读超时不是故障，驱动上面的周期检查
			if errors.Is(err, websocket.ErrReadTimeout) {
				continue
			}
			if errors.Is(err, websocket.ErrConnectionClosed) || websocket.IsNormalClose(err) {
				log.Info("client disconnected")
				return
			}
			// 传输故障：尽力通知一次，通知自身的失败被吞掉
			log.Warn("transport failure", "error", err)
			_ = conn.SendJSON(frame.NewError(msgTransport, h.now().Unix()))
			return
		}

		sess.Touch(h.now())

		if err := h.processFrame(ctx, conn, data); err != nil {
			log.Warn("send failed, closing session", "error", err)
			return
		}
	}
}

// processFrame 处理一帧：解码 → 准入 → 推理 → 回复
// 返回非 nil 仅表示出站发送失败（会话致命）。
func (h *Handler) processFrame(ctx context.Context, conn session.Conn, raw []byte) error {
	ts := h.now().Unix()

	imageBytes, err := frame.Decode(raw)
	if err != nil {
		h.metrics.OnFrame(metrics.FrameResultMalformed)
		return conn.SendJSON(frame.NewError(msgDecodeError, ts))
	}

	// 准入判定在花费推理成本之前；被拒的帧直接丢弃，由客户端重发
	if !h.limiter.Admit() {
		h.metrics.OnFrame(metrics.FrameResultRateLimited)
		h.metrics.SetLimiterInterval(h.limiter.Interval())
		return conn.SendJSON(frame.NewError(msgRateLimited, ts))
	}

	start := time.Now()
	text, err := h.infer.Describe(ctx, imageBytes)
	elapsed := time.Since(start)

	var out *frame.Outbound
	switch {
	case errors.Is(err, inference.ErrOverloaded):
		h.limiter.Report(limiter.OutcomeOverloaded)
		h.metrics.OnFrame(metrics.FrameResultOverloaded)
		h.metrics.OnInference(limiter.OutcomeOverloaded.String(), elapsed)
		out = frame.NewError(msgOverloaded, ts)

	case err != nil:
		// 非过载失败与负载无关，不计入退避
		h.limiter.Report(limiter.OutcomeError)
		h.metrics.OnFrame(metrics.FrameResultError)
		h.metrics.OnInference(limiter.OutcomeError.String(), elapsed)
		out = frame.NewError(msgProcessPrefix+err.Error(), ts)

	case text == "":
		// 空回应不算上游失败
		h.limiter.Report(limiter.OutcomeSuccess)
		h.metrics.OnFrame(metrics.FrameResultEmpty)
		h.metrics.OnInference(limiter.OutcomeSuccess.String(), elapsed)
		out = frame.NewError(msgEmptyResponse, ts)

	default:
		h.limiter.Report(limiter.OutcomeSuccess)
		h.metrics.OnFrame(metrics.FrameResultOK)
		h.metrics.OnInference(limiter.OutcomeSuccess.String(), elapsed)
		out = frame.NewResponse(text, ts)
	}

	h.metrics.SetLimiterInterval(h.limiter.Interval())
	return conn.SendJSON(out)
}
