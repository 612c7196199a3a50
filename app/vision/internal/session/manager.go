// app/vision/internal/session/manager.go
package session

import (
	"sync"
)

// Manager 会话注册表
// 仅用于生命周期记账（连接数统计），不做跨会话协调。
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*VisionSession
}

// NewManager 创建会话注册表
func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*VisionSession),
	}
}

// Register 注册会话
func (m *Manager) Register(s *VisionSession) {
	m.mu.Lock()
	m.sessions[s.ID()] = s
	m.mu.Unlock()
}

// Unregister 注销会话，不存在时为空操作
func (m *Manager) Unregister(sessionID string) {
	m.mu.Lock()
	delete(m.sessions, sessionID)
	m.mu.Unlock()
}

// Get 获取会话
func (m *Manager) Get(sessionID string) (*VisionSession, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[sessionID]
	return s, ok
}

// Count 当前会话总数
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
