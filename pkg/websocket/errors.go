// pkg/websocket/errors.go
package websocket

import "errors"

var (
	// 配置错误
	ErrInvalidConfig = errors.New("websocket: invalid config")

	// 连接错误
	ErrConnectionClosed = errors.New("websocket: connection closed")

	// 读超时：不是故障，用于驱动会话循环的周期性检查
	ErrReadTimeout = errors.New("websocket: read timeout")

	// 升级错误
	ErrUpgradeFailed = errors.New("websocket: upgrade failed")
)
