package prometheus

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lk2023060901/visiongate/pkg/logger"
)

// Client Prometheus 客户端
// 持有进程唯一的 Registry，业务指标通过 Registry() 注册。
type Client struct {
	config   *Config
	registry *prometheus.Registry
	logger   logger.Logger

	// HTTP 服务器（仅 HTTPServer.Enabled 时存在）
	httpServer *http.Server

	closed atomic.Bool
}

// New 创建 Prometheus 客户端
func New(cfg *Config, l logger.Logger) (*Client, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if l == nil {
		l = logger.Default()
	}

	c := &Client{
		config:   cfg,
		registry: prometheus.NewRegistry(),
		logger:   l.Named("prometheus"),
	}

	// 注册默认采集器
	if cfg.EnableGoCollector {
		c.registry.MustRegister(collectors.NewGoCollector())
	}
	if cfg.EnableProcessCollector {
		c.registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}

	if cfg.HTTPServer.Enabled {
		c.startHTTPServer()
	}

	return c, nil
}

// Registry 获取底层 Registry
func (c *Client) Registry() *prometheus.Registry {
	return c.registry
}

// Handler 返回 HTTP Handler，用于挂载到业务 HTTP 服务
func (c *Client) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// startHTTPServer 启动独立的指标服务器
func (c *Client) startHTTPServer() {
	mux := http.NewServeMux()
	mux.Handle(c.config.HTTPServer.Path, c.Handler())

	c.httpServer = &http.Server{
		Addr:         c.config.HTTPServer.Addr,
		Handler:      mux,
		ReadTimeout:  c.config.HTTPServer.Timeout,
		WriteTimeout: c.config.HTTPServer.Timeout,
	}

	go func() {
		c.logger.Info("starting metrics server", "addr", c.config.HTTPServer.Addr)
		if err := c.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			c.logger.Error("metrics server error", "error", err)
		}
	}()
}

// Close 关闭客户端
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return ErrClientClosed
	}

	if c.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return c.httpServer.Shutdown(ctx)
	}
	return nil
}

// IsClosed 检查客户端是否已关闭
func (c *Client) IsClosed() bool {
	return c.closed.Load()
}
