package prometheus

import (
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithDefaults(t *testing.T) {
	c, err := New(nil, nil)
	require.NoError(t, err)
	defer c.Close()

	assert.NotNil(t, c.Registry())
	assert.False(t, c.IsClosed())
}

func TestHandlerServesRegisteredMetrics(t *testing.T) {
	c, err := New(&Config{}, nil)
	require.NoError(t, err)
	defer c.Close()

	counter := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "test_requests_total",
		Help: "test counter",
	})
	c.Registry().MustRegister(counter)
	counter.Inc()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	c.Handler().ServeHTTP(rec, req)

	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "test_requests_total 1")
}

func TestCloseIdempotence(t *testing.T) {
	c, err := New(&Config{}, nil)
	require.NoError(t, err)

	require.NoError(t, c.Close())
	assert.True(t, c.IsClosed())
	assert.ErrorIs(t, c.Close(), ErrClientClosed)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	bad := &Config{HTTPServer: HTTPServerConfig{Enabled: true}}
	assert.ErrorIs(t, bad.Validate(), ErrInvalidConfig)
}
