package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_IndependentRegistries(t *testing.T) {
	t.Parallel()

	a := New()
	b := New()

	a.BorrowsTotal.WithLabelValues(BorrowSucceeded).Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(a.BorrowsTotal.WithLabelValues(BorrowSucceeded)))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.BorrowsTotal.WithLabelValues(BorrowSucceeded)))
}

// TestHandler_ExposesMetrics は/metricsがプレフィックス付きのメトリクス名を出力することを検証します。
func TestHandler_ExposesMetrics(t *testing.T) {
	t.Parallel()

	m := New()
	m.ReplicationEventsTotal.WithLabelValues("book.upserted", ResultDelivered).Inc()
	m.ReplicationDuration.WithLabelValues("book.upserted").Observe(0.01)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `library_replication_events_total{kind="book.upserted",result="delivered"} 1`)
	assert.Contains(t, string(body), "library_replication_duration_seconds_bucket")
	assert.Contains(t, string(body), "go_goroutines")
}
