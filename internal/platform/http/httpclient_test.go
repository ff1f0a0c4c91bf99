package http

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		opts        ClientOptions
		wantTimeout time.Duration
	}{
		{"default timeout", ClientOptions{}, 10 * time.Second},
		{"negative timeout uses default", ClientOptions{Timeout: -time.Second}, 10 * time.Second},
		{"custom timeout", ClientOptions{Timeout: 2 * time.Second, MaxConnsPerHost: 4}, 2 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := NewClient(tt.opts)
			assert.Equal(t, tt.wantTimeout, c.Timeout)

			tr, ok := c.Transport.(*http.Transport)
			require.True(t, ok, "transport should be *http.Transport")
			assert.Equal(t, tt.opts.MaxConnsPerHost, tr.MaxConnsPerHost)
			assert.Equal(t, 32, tr.MaxIdleConnsPerHost)
			assert.NotNil(t, tr.Proxy)
		})
	}
}
