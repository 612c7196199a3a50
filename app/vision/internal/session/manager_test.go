package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// stubConn 仅提供 ID 的假连接
type stubConn struct {
	id string
}

func (c *stubConn) ID() string         { return c.id }
func (c *stubConn) RemoteAddr() string { return "127.0.0.1:1234" }
func (c *stubConn) ReadWithTimeout(timeout time.Duration) ([]byte, error) {
	return nil, nil
}
func (c *stubConn) SendJSON(v interface{}) error { return nil }
func (c *stubConn) CloseNormal() error           { return nil }
func (c *stubConn) IsClosed() bool               { return false }

// TestManagerLifecycle 测试注册/注销/计数
func TestManagerLifecycle(t *testing.T) {
	m := NewManager()
	now := time.Now()

	s1 := New(&stubConn{id: "a"}, now)
	s2 := New(&stubConn{id: "b"}, now)

	m.Register(s1)
	m.Register(s2)
	assert.Equal(t, 2, m.Count())

	got, ok := m.Get("a")
	assert.True(t, ok)
	assert.Same(t, s1, got)

	m.Unregister("a")
	assert.Equal(t, 1, m.Count())
	_, ok = m.Get("a")
	assert.False(t, ok)

	// 注销不存在的会话为空操作
	m.Unregister("missing")
	assert.Equal(t, 1, m.Count())
}

// TestSessionTimestamps 测试活动与 ping 时间维护
func TestSessionTimestamps(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	s := New(&stubConn{id: "a"}, now)

	assert.Equal(t, now, s.LastActivity())
	assert.Equal(t, now, s.LastPing())
	assert.Equal(t, now, s.CreatedAt())

	later := now.Add(10 * time.Second)
	s.Touch(later)
	assert.Equal(t, later, s.LastActivity())
	assert.Equal(t, now, s.LastPing())

	s.MarkPing(later)
	assert.Equal(t, later, s.LastPing())
}
