// pkg/websocket/connection.go
package websocket

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/lk2023060901/visiongate/pkg/logger"
)

// Connection WebSocket 连接封装
//
// 内部由一个读取协程驱动，收到的消息进入接收队列；
// 会话循环通过 ReadWithTimeout 消费，超时返回 ErrReadTimeout
// 以驱动周期性检查。发送为同步写，出站消息按调用顺序送出。
type Connection struct {
	id   string
	conn *websocket.Conn

	// 配置
	writeTimeout  time.Duration
	recvQueueSize int

	// 日志
	logger logger.Logger

	// 接收队列
	recvChan chan []byte
	recvDone chan struct{} // 读取协程退出后关闭
	readErr  error         // 读取协程退出原因，recvDone 关闭后可读

	// 写锁：最终关闭通知可能与循环内发送并发
	writeMu sync.Mutex

	// 状态
	stateMu   sync.RWMutex
	state     ConnectionState
	closed    atomic.Bool
	closeChan chan struct{}
	closeOnce sync.Once

	// 连接信息
	remoteAddr  string
	connectedAt time.Time
}

// NewConnection 创建连接并启动读取协程
func NewConnection(conn *websocket.Conn, opts ...ConnectionOption) *Connection {
	c := &Connection{
		id:            uuid.New().String(),
		conn:          conn,
		writeTimeout:  10 * time.Second,
		recvQueueSize: 16,
		recvDone:      make(chan struct{}),
		closeChan:     make(chan struct{}),
		state:         StateOpen,
		remoteAddr:    conn.RemoteAddr().String(),
		connectedAt:   time.Now(),
	}

	// 应用选项
	for _, opt := range opts {
		opt(c)
	}

	c.recvChan = make(chan []byte, c.recvQueueSize)
	go c.readLoop()

	return c
}

// ConnectionOption 连接选项
type ConnectionOption func(*Connection)

// WithConnectionLogger 设置日志
func WithConnectionLogger(l logger.Logger) ConnectionOption {
	return func(c *Connection) {
		c.logger = l
	}
}

// WithWriteTimeout 设置写超时
func WithWriteTimeout(d time.Duration) ConnectionOption {
	return func(c *Connection) {
		c.writeTimeout = d
	}
}

// WithRecvQueueSize 设置接收队列大小
func WithRecvQueueSize(n int) ConnectionOption {
	return func(c *Connection) {
		if n > 0 {
			c.recvQueueSize = n
		}
	}
}

// ID 返回连接 ID
func (c *Connection) ID() string {
	return c.id
}

// RemoteAddr 返回远程地址
func (c *Connection) RemoteAddr() string {
	return c.remoteAddr
}

// ConnectedAt 返回连接建立时间
func (c *Connection) ConnectedAt() time.Time {
	return c.connectedAt
}

// State 返回连接状态
func (c *Connection) State() ConnectionState {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	return c.state
}

// setState 设置连接状态
func (c *Connection) setState(state ConnectionState) {
	c.stateMu.Lock()
	c.state = state
	c.stateMu.Unlock()
}

// IsClosed 检查连接是否已关闭
func (c *Connection) IsClosed() bool {
	return c.closed.Load()
}

// readLoop 读取循环
// gorilla 的读错误是永久性的，出错即退出并记录原因。
func (c *Connection) readLoop() {
	defer close(c.recvDone)

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			c.readErr = err
			if c.logger != nil && !c.IsClosed() && !IsNormalClose(err) {
				c.logger.Debug("websocket read error", "error", err, "conn_id", c.id)
			}
			return
		}

		select {
		case c.recvChan <- data:
		case <-c.closeChan:
			return
		}
	}
}

// ReadWithTimeout 取出下一条收到的消息，最多等待 timeout
//
// 超时返回 ErrReadTimeout，调用方据此执行周期性检查后继续循环；
// 其他错误为传输级故障或对端关闭，会话应当终止。
func (c *Connection) ReadWithTimeout(timeout time.Duration) ([]byte, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case data := <-c.recvChan:
		return data, nil
	case <-timer.C:
		return nil, ErrReadTimeout
	case <-c.recvDone:
		// 先清空已入队的消息再上报读错误
		select {
		case data := <-c.recvChan:
			return data, nil
		default:
		}
		return nil, c.readErr
	case <-c.closeChan:
		return nil, ErrConnectionClosed
	}
}

// SendJSON 序列化并发送一条文本消息
func (c *Connection) SendJSON(v interface{}) error {
	if c.IsClosed() {
		return ErrConnectionClosed
	}

	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if c.writeTimeout > 0 {
		if err := c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
			return err
		}
	}
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Close 关闭连接
func (c *Connection) Close() error {
	return c.CloseNormal()
}

// CloseNormal 以正常关闭码关闭连接（不活跃超时、优雅断开）
func (c *Connection) CloseNormal() error {
	c.closeOnce.Do(func() {
		c.setState(StateClosing)
		c.closed.Store(true)
		close(c.closeChan)

		// 发送关闭帧，失败则忽略
		c.writeMu.Lock()
		_ = c.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		c.writeMu.Unlock()

		if err := c.conn.Close(); err != nil && c.logger != nil {
			c.logger.Debug("websocket close error", "error", err, "conn_id", c.id)
		}
		c.setState(StateClosed)
	})
	return nil
}

// IsNormalClose 判断错误是否为对端正常关闭
func IsNormalClose(err error) bool {
	return websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived)
}
