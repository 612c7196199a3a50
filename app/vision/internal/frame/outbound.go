// app/vision/internal/frame/outbound.go
package frame

// 出站消息类型
const (
	TypePing     = "ping"
	TypeResponse = "response"
	TypeError    = "error"
)

// Outbound 服务端出站消息
type Outbound struct {
	Type      string `json:"type"`
	Data      string `json:"data,omitempty"`
	Message   string `json:"message,omitempty"`
	Timestamp int64  `json:"timestamp,omitempty"`
}

// NewPing 创建保活 ping 消息
func NewPing() *Outbound {
	return &Outbound{Type: TypePing}
}

// NewResponse 创建推理结果消息，ts 为秒级时间戳
func NewResponse(text string, ts int64) *Outbound {
	return &Outbound{
		Type:      TypeResponse,
		Data:      text,
		Timestamp: ts,
	}
}

// NewError 创建错误通知消息，ts 为秒级时间戳
func NewError(message string, ts int64) *Outbound {
	return &Outbound{
		Type:      TypeError,
		Message:   message,
		Timestamp: ts,
	}
}
