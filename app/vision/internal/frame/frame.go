// app/vision/internal/frame/frame.go
package frame

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrMalformedEnvelope 客户端发来的帧无法解析
	ErrMalformedEnvelope = errors.New("frame: malformed envelope")
)

// Message 入站帧信封: { "image": { "data": "<base64>" } }
type Message struct {
	Image Image `json:"image"`
}

// Image 内嵌图像数据
type Image struct {
	Data string `json:"data"`
}

// Decode 校验信封并提取原始图像字节
//
// 纯同步校验，无副作用。JSON 解析失败、缺少 image.data 字段、
// base64 解码失败或解码结果为空均返回 ErrMalformedEnvelope。
func Decode(raw []byte) ([]byte, error) {
	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}

	if msg.Image.Data == "" {
		return nil, fmt.Errorf("%w: missing image.data", ErrMalformedEnvelope)
	}

	imageBytes, err := base64.StdEncoding.DecodeString(msg.Image.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}
	if len(imageBytes) == 0 {
		return nil, fmt.Errorf("%w: empty image payload", ErrMalformedEnvelope)
	}

	return imageBytes, nil
}
