// app/vision/internal/session/session.go
package session

import (
	"sync"
	"time"
)

// Conn 会话对底层连接的依赖
// *websocket.Connection 实现了该接口；测试可注入假连接。
type Conn interface {
	ID() string
	RemoteAddr() string
	ReadWithTimeout(timeout time.Duration) ([]byte, error)
	SendJSON(v interface{}) error
	CloseNormal() error
	IsClosed() bool
}

// VisionSession 一条客户端连接的会话状态
//
// 由其会话循环独占驱动；连接关闭（客户端断开、不活跃超时
// 或传输故障）即销毁。
type VisionSession struct {
	conn      Conn
	createdAt time.Time

	mu           sync.RWMutex
	lastActivity time.Time
	lastPing     time.Time
}

// New 创建会话，活动时间与 ping 时间初始化为 now
func New(conn Conn, now time.Time) *VisionSession {
	return &VisionSession{
		conn:         conn,
		createdAt:    now,
		lastActivity: now,
		lastPing:     now,
	}
}

// ID 返回会话 ID（与连接 ID 一致）
func (s *VisionSession) ID() string {
	return s.conn.ID()
}

// Conn 返回底层连接
func (s *VisionSession) Conn() Conn {
	return s.conn
}

// CreatedAt 返回会话建立时间
func (s *VisionSession) CreatedAt() time.Time {
	return s.createdAt
}

// Touch 收到客户端消息时刷新活动时间
func (s *VisionSession) Touch(now time.Time) {
	s.mu.Lock()
	s.lastActivity = now
	s.mu.Unlock()
}

// LastActivity 返回最近一次活动时间
func (s *VisionSession) LastActivity() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastActivity
}

// MarkPing 记录一次保活 ping 的发送时间
func (s *VisionSession) MarkPing(now time.Time) {
	s.mu.Lock()
	s.lastPing = now
	s.mu.Unlock()
}

// LastPing 返回最近一次 ping 的发送时间
func (s *VisionSession) LastPing() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastPing
}
