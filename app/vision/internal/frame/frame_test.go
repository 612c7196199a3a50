package frame

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDecode 测试帧信封解码
func TestDecode(t *testing.T) {
	jpeg := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10}
	valid := `{"image":{"data":"` + base64.StdEncoding.EncodeToString(jpeg) + `"}}`

	tests := []struct {
		name    string
		raw     string
		want    []byte
		wantErr bool
	}{
		{
			name: "valid frame",
			raw:  valid,
			want: jpeg,
		},
		{
			name:    "invalid json",
			raw:     `{"image":`,
			wantErr: true,
		},
		{
			name:    "not an object",
			raw:     `"just a string"`,
			wantErr: true,
		},
		{
			name:    "missing image field",
			raw:     `{"other":1}`,
			wantErr: true,
		},
		{
			name:    "missing data field",
			raw:     `{"image":{}}`,
			wantErr: true,
		},
		{
			name:    "invalid base64",
			raw:     `{"image":{"data":"!!!not-base64!!!"}}`,
			wantErr: true,
		},
		{
			name:    "empty payload",
			raw:     `{"image":{"data":""}}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.raw))
			if tt.wantErr {
				// 解码失败永远是 ErrMalformedEnvelope，不是传输故障
				assert.ErrorIs(t, err, ErrMalformedEnvelope)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestOutboundShapes 测试出站消息的 JSON 形状
func TestOutboundShapes(t *testing.T) {
	ping, err := json.Marshal(NewPing())
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"ping"}`, string(ping))

	resp, err := json.Marshal(NewResponse("一只猫在窗台上", 1700000000))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"response","data":"一只猫在窗台上","timestamp":1700000000}`, string(resp))

	errMsg, err := json.Marshal(NewError("处理错误", 1700000000))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"error","message":"处理错误","timestamp":1700000000}`, string(errMsg))
}
