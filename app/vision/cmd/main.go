package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/pflag"

	"github.com/lk2023060901/visiongate/app/vision/internal/handler"
	"github.com/lk2023060901/visiongate/app/vision/internal/heartbeat"
	"github.com/lk2023060901/visiongate/app/vision/internal/inference"
	"github.com/lk2023060901/visiongate/app/vision/internal/limiter"
	"github.com/lk2023060901/visiongate/app/vision/internal/metrics"
	"github.com/lk2023060901/visiongate/app/vision/internal/session"
	"github.com/lk2023060901/visiongate/pkg/config"
	"github.com/lk2023060901/visiongate/pkg/logger"
	"github.com/lk2023060901/visiongate/pkg/prometheus"
	"github.com/lk2023060901/visiongate/pkg/web"
	"github.com/lk2023060901/visiongate/pkg/websocket"
)

// Config Vision 服务配置
type Config struct {
	Log logger.Config `mapstructure:"log"`

	// Web Server 配置
	Web web.Config `mapstructure:"web"`

	// WebSocket 升级器配置
	WebSocket websocket.UpgraderConfig `mapstructure:"websocket"`

	// 会话循环配置
	Session handler.Config `mapstructure:"session"`

	// 自适应限流器配置
	Limiter limiter.Config `mapstructure:"limiter"`

	// 推理客户端配置
	Inference inference.Config `mapstructure:"inference"`

	// Prometheus 配置
	Prometheus prometheus.Config `mapstructure:"prometheus"`

	// 进程级心跳周期
	HeartbeatInterval time.Duration `mapstructure:"heartbeat_interval"`
}

func loadConfig() (*Config, error) {
	var configPath string
	pflag.StringVar(&configPath, "config", "config.yaml", "配置文件路径")
	pflag.Parse()

	loader := config.NewLoader()

	// 配置文件可选，缺省时全部走默认值和环境变量
	if err := loader.LoadFile(configPath); err != nil && !errors.Is(err, config.ErrConfigFileNotFound) {
		return nil, err
	}

	// 先填默认值，文件和环境变量只覆盖出现的键
	cfg := Config{
		Log:               *logger.DefaultConfig(),
		Web:               *web.DefaultConfig(),
		WebSocket:         *websocket.DefaultUpgraderConfig(),
		Session:           *handler.DefaultConfig(),
		Limiter:           *limiter.DefaultConfig(),
		Inference:         *inference.DefaultConfig(),
		Prometheus:        *prometheus.DefaultConfig(),
		HeartbeatInterval: heartbeat.DefaultInterval,
	}
	if err := loader.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// 凭证优先取配置，其次兼容上游约定的环境变量
	if cfg.Inference.APIKey == "" {
		cfg.Inference.APIKey = os.Getenv("GOOGLE_AI_STUDIO_API_KEY")
	}

	if err := config.NewValidator().Validate(&cfg.Web); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func main() {
	// 1. 加载配置
	cfg, err := loadConfig()
	if err != nil {
		panic(err)
	}

	// 2. 初始化 Logger
	l, err := logger.New(&cfg.Log)
	if err != nil {
		panic(err)
	}
	defer l.Sync()
	logger.SetDefault(l)

	// 3. 创建 Prometheus 客户端
	promClient, err := prometheus.New(&cfg.Prometheus, l)
	if err != nil {
		l.Error("failed to create prometheus client", "error", err)
		return
	}
	defer promClient.Close()

	wsMetrics := websocket.NewMetrics(promClient.Registry())
	visionMetrics := metrics.New(promClient.Registry())

	// 4. 创建推理客户端
	geminiClient, err := inference.NewGemini(&cfg.Inference, l)
	if err != nil {
		l.Error("failed to create inference client", "error", err)
		return
	}

	// 5. 创建限流器（进程级共享，所有会话受同一节拍约束）
	rateLimiter, err := limiter.New(&cfg.Limiter)
	if err != nil {
		l.Error("failed to create rate limiter", "error", err)
		return
	}
	visionMetrics.SetLimiterInterval(rateLimiter.Interval())

	// 6. 创建会话处理器
	sessions := session.NewManager()
	visionHandler, err := handler.New(&cfg.Session, sessions, rateLimiter, geminiClient, visionMetrics, l)
	if err != nil {
		l.Error("failed to create handler", "error", err)
		return
	}

	// 7. 创建 WebSocket 升级器
	upgrader, err := websocket.NewUpgrader(&cfg.WebSocket, l, wsMetrics)
	if err != nil {
		l.Error("failed to create upgrader", "error", err)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 8. 创建 Web Server 并注册路由
	webServer := web.NewServer(&cfg.Web, l)

	healthz := func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	}
	webServer.Router().GET("/", healthz)
	webServer.Router().GET("/healthz", healthz)
	webServer.Router().GET("/metrics", gin.WrapH(promClient.Handler()))

	// 升级后连接被劫持，会话循环直接占用本协程直到连接关闭。
	// 请求上下文在劫持后会随 handler 返回被取消，因此用进程
	// 生命周期的 ctx 驱动推理调用。
	webServer.Router().GET("/ws/video", func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request)
		if err != nil {
			// Upgrade 失败时响应已由 gorilla 写出
			return
		}
		defer upgrader.OnConnectionClosed()
		visionHandler.Handle(ctx, conn)
	})

	// 9. 启动进程级心跳
	hb := heartbeat.New(cfg.HeartbeatInterval, l)
	hb.Start()
	defer hb.Stop()

	// 10. 运行服务
	// 监听退出信号
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		l.Info("received shutdown signal")
		cancel()
	}()

	l.Info("starting vision server", "port", cfg.Web.Port, "model", cfg.Inference.Model)
	if err := webServer.Run(ctx); err != nil {
		l.Error("server exited with error", "error", err)
	}

	l.Info("vision server stopped")
}
