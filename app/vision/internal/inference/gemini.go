// app/vision/internal/inference/gemini.go
package inference

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/lk2023060901/visiongate/pkg/logger"
)

// 确保 GeminiClient 实现了 Client 接口
var _ Client = (*GeminiClient)(nil)

// GeminiClient 调用 Gemini generateContent REST 接口的推理客户端
type GeminiClient struct {
	config *Config
	client *http.Client
	logger logger.Logger
}

// NewGemini 创建 Gemini 客户端
func NewGemini(cfg *Config, l logger.Logger) (*GeminiClient, error) {
	merged := DefaultConfig()
	if cfg != nil {
		if cfg.APIKey != "" {
			merged.APIKey = cfg.APIKey
		}
		if cfg.Model != "" {
			merged.Model = cfg.Model
		}
		if cfg.BaseURL != "" {
			merged.BaseURL = cfg.BaseURL
		}
		if cfg.Prompt != "" {
			merged.Prompt = cfg.Prompt
		}
		if cfg.Timeout > 0 {
			merged.Timeout = cfg.Timeout
		}
	}
	if merged.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if l == nil {
		l = logger.Default()
	}

	return &GeminiClient{
		config: merged,
		client: &http.Client{Timeout: merged.Timeout},
		logger: l.Named("inference.gemini"),
	}, nil
}

// 请求/响应体结构，仅覆盖用到的字段

type generateRequest struct {
	Contents         []content       `json:"contents"`
	GenerationConfig generationCfg   `json:"generationConfig"`
	SafetySettings   []safetySetting `json:"safetySettings"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type generationCfg struct {
	Temperature     float64 `json:"temperature"`
	TopP            float64 `json:"topP"`
	TopK            int     `json:"topK"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type safetySetting struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// 安全阈值全部放开，内容过滤交给调用侧
var defaultSafetySettings = []safetySetting{
	{Category: "HARM_CATEGORY_HARASSMENT", Threshold: "BLOCK_NONE"},
	{Category: "HARM_CATEGORY_HATE_SPEECH", Threshold: "BLOCK_NONE"},
	{Category: "HARM_CATEGORY_SEXUALLY_EXPLICIT", Threshold: "BLOCK_NONE"},
	{Category: "HARM_CATEGORY_DANGEROUS_CONTENT", Threshold: "BLOCK_NONE"},
}

// Describe 上传 JPEG 帧并返回文字描述
//
// HTTP 429 映射为 ErrOverloaded；其他非 2xx 状态作为普通错误返回。
// 模型给出空文本时返回空串和 nil，由调用方决定如何呈现。
func (c *GeminiClient) Describe(ctx context.Context, imageBytes []byte) (string, error) {
	reqBody := generateRequest{
		Contents: []content{{
			Parts: []part{
				{Text: c.config.Prompt},
				{InlineData: &inlineData{
					MimeType: "image/jpeg",
					Data:     base64.StdEncoding.EncodeToString(imageBytes),
				}},
			},
		}},
		GenerationConfig: generationCfg{
			Temperature:     0.4,
			TopP:            1,
			TopK:            32,
			MaxOutputTokens: 100,
		},
		SafetySettings: defaultSafetySettings,
	}

	data, err := json.Marshal(&reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		strings.TrimSuffix(c.config.BaseURL, "/"), c.config.Model, c.config.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", fmt.Errorf("%w: %s", ErrOverloaded, strings.TrimSpace(string(body)))
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var result generateResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	var sb strings.Builder
	for _, cand := range result.Candidates {
		for _, p := range cand.Content.Parts {
			sb.WriteString(p.Text)
		}
		break // 只取第一个候选
	}

	text := sb.String()
	c.logger.Debug("inference completed", "bytes_in", len(imageBytes), "chars_out", len(text))
	return text, nil
}
