package inference

import "time"

// 默认提示词，要求模型描述视频帧并简短回应
const defaultPrompt = "请描述这个视频帧中的内容，并给出简短的回应。"

// Config 推理客户端配置
type Config struct {
	// APIKey 上游服务凭证，通常来自环境变量 GOOGLE_AI_STUDIO_API_KEY
	APIKey string `mapstructure:"api_key"`

	// Model 模型名称
	Model string `mapstructure:"model"`

	// BaseURL 服务地址，测试时可指向本地
	BaseURL string `mapstructure:"base_url"`

	// Prompt 提示词
	Prompt string `mapstructure:"prompt"`

	// Timeout 单次请求超时
	Timeout time.Duration `mapstructure:"timeout"`
}

// DefaultConfig 默认配置
func DefaultConfig() *Config {
	return &Config{
		Model:   "gemini-1.5-pro",
		BaseURL: "https://generativelanguage.googleapis.com/v1beta",
		Prompt:  defaultPrompt,
		Timeout: 60 * time.Second,
	}
}
