package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Name string `mapstructure:"name" validate:"required"`
	Port int    `mapstructure:"port" validate:"min=1,max=65535"`
}

// TestLoaderLoadFile 测试加载配置文件
func TestLoaderLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: visiongate\nport: 8000\n"), 0644))

	l := NewLoader()
	require.NoError(t, l.LoadFile(path))

	var cfg testConfig
	require.NoError(t, l.Unmarshal(&cfg))
	assert.Equal(t, "visiongate", cfg.Name)
	assert.Equal(t, 8000, cfg.Port)
}

// TestLoaderFileNotFound 测试配置文件缺失
func TestLoaderFileNotFound(t *testing.T) {
	l := NewLoader()
	err := l.LoadFile("/nonexistent/config.yaml")
	assert.ErrorIs(t, err, ErrConfigFileNotFound)
}

// TestLoaderEnvOverride 测试环境变量覆盖
func TestLoaderEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: from-file\nport: 8000\n"), 0644))

	t.Setenv("VISIONGATE_NAME", "from-env")

	l := NewLoader()
	require.NoError(t, l.LoadFile(path))
	assert.Equal(t, "from-env", l.Viper().GetString("name"))
}

// TestValidator 测试配置验证
func TestValidator(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name    string
		cfg     any
		wantErr bool
	}{
		{
			name:    "valid config",
			cfg:     &testConfig{Name: "visiongate", Port: 8000},
			wantErr: false,
		},
		{
			name:    "missing required field",
			cfg:     &testConfig{Port: 8000},
			wantErr: true,
		},
		{
			name:    "port out of range",
			cfg:     &testConfig{Name: "visiongate", Port: 70000},
			wantErr: true,
		},
		{
			name:    "nil config",
			cfg:     nil,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
