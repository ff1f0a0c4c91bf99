// Package di provides dependency injection factories for creating application components.
package di

import (
	"context"

	"github.com/rs/zerolog"

	"library_api/internal/app/config"
	platformhttp "library_api/internal/platform/http"
	"library_api/internal/platform/metrics"
	"library_api/internal/platform/replication"
)

// CloseFunc releases a component on shutdown.
type CloseFunc func(ctx context.Context) error

// NewPublisher creates the replication publisher of the Frontend.
// Without a peer URL it returns a NopPublisher; otherwise an HTTPNotifier whose
// CloseFunc drains outstanding events.
func NewPublisher(cfg config.ReplicationConfig, m *metrics.Metrics, log zerolog.Logger) (replication.EventPublisher, CloseFunc) {
	if cfg.PeerBaseURL == "" {
		log.Warn().Msg("PEER_BASE_URL is not set. Replication is disabled.")
		return replication.NopPublisher{}, func(context.Context) error { return nil }
	}

	client := platformhttp.NewClient(platformhttp.ClientOptions{
		Timeout:         cfg.Timeout,
		MaxConnsPerHost: cfg.Workers,
	})
	n := replication.NewHTTPNotifier(replication.Options{
		BaseURL: cfg.PeerBaseURL,
		Workers: cfg.Workers,
		Buffer:  cfg.Buffer,
		Timeout: cfg.Timeout,
	}, client, m, log)
	log.Info().Str("peer", cfg.PeerBaseURL).Int("workers", cfg.Workers).Msg("replication enabled")
	return n, n.Close
}
