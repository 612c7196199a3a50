// pkg/websocket/types.go
package websocket

// ConnectionState 连接状态
type ConnectionState int

const (
	// StateConnecting 握手中
	StateConnecting ConnectionState = iota
	// StateOpen 已建立，可收发消息
	StateOpen
	// StateClosing 关闭中
	StateClosing
	// StateClosed 已关闭
	StateClosed
)

// String 返回连接状态的字符串表示
func (s ConnectionState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}
