package inference

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *GeminiClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewGemini(&Config{
		APIKey:  "test-key",
		BaseURL: srv.URL,
	}, nil)
	require.NoError(t, err)
	return c
}

// TestNewGeminiRequiresAPIKey 缺少凭证时拒绝启动
func TestNewGeminiRequiresAPIKey(t *testing.T) {
	_, err := NewGemini(&Config{}, nil)
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

// TestDescribeSuccess 测试正常推理
func TestDescribeSuccess(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, "gemini-1.5-pro:generateContent")
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)
		require.Len(t, req.Contents[0].Parts, 2)
		assert.NotEmpty(t, req.Contents[0].Parts[0].Text)
		require.NotNil(t, req.Contents[0].Parts[1].InlineData)
		assert.Equal(t, "image/jpeg", req.Contents[0].Parts[1].InlineData.MimeType)
		assert.Equal(t, 100, req.GenerationConfig.MaxOutputTokens)
		assert.Len(t, req.SafetySettings, 4)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"画面中有"},{"text":"一只猫"}]}}]}`))
	})

	text, err := c.Describe(context.Background(), []byte{0xFF, 0xD8})
	require.NoError(t, err)
	assert.Equal(t, "画面中有一只猫", text)
}

// TestDescribeOverloaded 429 映射为 ErrOverloaded
func TestDescribeOverloaded(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	})

	_, err := c.Describe(context.Background(), []byte{0xFF, 0xD8})
	assert.ErrorIs(t, err, ErrOverloaded)
}

// TestDescribeServerError 其他非 2xx 不是过载
func TestDescribeServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal", http.StatusInternalServerError)
	})

	_, err := c.Describe(context.Background(), []byte{0xFF, 0xD8})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrOverloaded)
	assert.True(t, strings.Contains(err.Error(), "500"))
}

// TestDescribeEmptyCandidates 空结果返回空串且无错误
func TestDescribeEmptyCandidates(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	})

	text, err := c.Describe(context.Background(), []byte{0xFF, 0xD8})
	require.NoError(t, err)
	assert.Empty(t, text)
}

// TestDescribeContextCancelled 取消的上下文直接失败
func TestDescribeContextCancelled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Describe(ctx, []byte{0xFF, 0xD8})
	assert.Error(t, err)
}
