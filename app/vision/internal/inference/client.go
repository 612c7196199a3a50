// app/vision/internal/inference/client.go
package inference

import (
	"context"
	"errors"
)

var (
	// ErrOverloaded 上游过载信号（HTTP 429），驱动限流器退避升级
	ErrOverloaded = errors.New("inference: upstream overloaded")

	// ErrMissingAPIKey 缺少上游服务凭证
	ErrMissingAPIKey = errors.New("inference: api key is required")
)

// Client 推理客户端
// 输入图像字节，输出文字描述；过载以 ErrOverloaded 区分，
// 其他失败视为与负载无关。
type Client interface {
	Describe(ctx context.Context, imageBytes []byte) (string, error)
}
