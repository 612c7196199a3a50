package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lk2023060901/visiongate/pkg/logger"
	"github.com/lk2023060901/visiongate/pkg/web/middleware"
)

// Server Web 服务核心结构
type Server struct {
	engine *gin.Engine
	config *Config
	logger logger.Logger
	server *http.Server
}

// NewServer 创建 Web 服务
func NewServer(cfg *Config, l logger.Logger) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if l == nil {
		l = logger.Default()
	}

	gin.SetMode(cfg.Mode)

	engine := gin.New()

	// 挂载基础中间件
	engine.Use(middleware.Logger(l))
	engine.Use(middleware.Recovery(l))
	if cfg.EnableCORS {
		engine.Use(middleware.CORS())
	}

	return &Server{
		engine: engine,
		config: cfg,
		logger: l.Named("web.server"),
	}
}

// Router 返回 Gin 引擎，用于注册路由
func (s *Server) Router() *gin.Engine {
	return s.engine
}

// Handler 返回 http.Handler 接口
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run 启动服务，ctx 取消后优雅关机
func (s *Server) Run(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.config.Port)
	s.server = &http.Server{
		Addr:           addr,
		Handler:        s.engine,
		ReadTimeout:    s.config.ReadTimeout,
		WriteTimeout:   s.config.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting http server", "addr", addr)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server startup failed: %w", err)
	case <-ctx.Done():
		s.logger.Info("shutting down server...")
	}

	// 优雅关机，设置 5 秒超时
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	s.logger.Info("server exited")
	return nil
}
