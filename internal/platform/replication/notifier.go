package replication

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"library_api/internal/platform/metrics"
	"library_api/internal/shared/apperr"
)

const (
	defaultWorkers = 4
	defaultBuffer  = 256
	defaultTimeout = 5 * time.Second
)

// Options configures an HTTPNotifier.
type Options struct {
	// BaseURL is the peer root, e.g. "http://backend:8001".
	BaseURL string
	// Workers is the number of delivery goroutines. Defaults to 4.
	Workers int
	// Buffer is the channel capacity per worker. Defaults to 256.
	Buffer int
	// Timeout bounds a single delivery attempt. Defaults to 5s.
	Timeout time.Duration
}

type job struct {
	kind     Kind
	entityID string
	body     []byte
	queuedAt time.Time
}

// HTTPNotifier delivers events to the peer over HTTP on a fixed set of
// workers. Events are sharded by entity id, so events for one entity are
// delivered in publish order. Each event gets exactly one attempt.
type HTTPNotifier struct {
	baseURL string
	timeout time.Duration
	client  *http.Client
	metrics *metrics.Metrics
	log     zerolog.Logger

	mu      sync.RWMutex
	closed  bool
	workers []chan job
	wg      sync.WaitGroup
}

var _ EventPublisher = (*HTTPNotifier)(nil)

// NewHTTPNotifier starts the workers and returns the notifier. m may be nil.
func NewHTTPNotifier(opts Options, client *http.Client, m *metrics.Metrics, log zerolog.Logger) *HTTPNotifier {
	if opts.Workers <= 0 {
		opts.Workers = defaultWorkers
	}
	if opts.Buffer <= 0 {
		opts.Buffer = defaultBuffer
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}

	n := &HTTPNotifier{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		timeout: opts.Timeout,
		client:  client,
		metrics: m,
		log:     log.With().Str("component", "replication").Logger(),
		workers: make([]chan job, opts.Workers),
	}
	for i := range n.workers {
		n.workers[i] = make(chan job, opts.Buffer)
		n.wg.Add(1)
		go n.runWorker(i, n.workers[i])
	}
	return n
}

// Publish snapshots ev and hands it to its worker. It never blocks: when the
// worker buffer is full or the notifier is closed the event is dropped.
func (n *HTTPNotifier) Publish(ctx context.Context, ev Event) {
	body, err := json.Marshal(ev.Payload)
	if err != nil {
		n.log.Error().Err(err).Str("kind", string(ev.Kind)).Str("entity_id", ev.EntityID).
			Msg("replication payload encoding failed")
		n.count(ev.Kind, metrics.ResultFailed)
		return
	}
	j := job{kind: ev.Kind, entityID: ev.EntityID, body: body, queuedAt: time.Now()}

	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.closed {
		n.drop(j, "notifier closed")
		return
	}

	idx := n.shardIndex(ev.EntityID)
	select {
	case n.workers[idx] <- j:
		n.queueDepth(idx, 1)
	default:
		n.drop(j, "worker buffer full")
	}
}

// Close stops accepting events and waits until the queued ones have been
// attempted or ctx is done.
func (n *HTTPNotifier) Close(ctx context.Context) error {
	n.mu.Lock()
	if !n.closed {
		n.closed = true
		for _, ch := range n.workers {
			close(ch)
		}
	}
	n.mu.Unlock()

	done := make(chan struct{})
	go func() {
		n.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("replication: drain interrupted: %w", ctx.Err())
	}
}

// shardIndex maps an entity id deterministically to a worker index.
func (n *HTTPNotifier) shardIndex(entityID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(entityID))
	return int(h.Sum32() % uint32(len(n.workers)))
}

func (n *HTTPNotifier) runWorker(id int, ch <-chan job) {
	defer n.wg.Done()
	for j := range ch {
		n.queueDepth(id, -1)
		if err := n.deliver(j); err != nil {
			n.log.Error().Err(err).
				Str("kind", string(j.kind)).
				Str("entity_id", j.entityID).
				Int("worker_id", id).
				Msg("replication delivery failed")
			n.count(j.kind, metrics.ResultFailed)
			continue
		}
		n.log.Debug().
			Str("kind", string(j.kind)).
			Str("entity_id", j.entityID).
			Dur("lag", time.Since(j.queuedAt)).
			Msg("replication delivered")
		n.count(j.kind, metrics.ResultDelivered)
	}
}

func (n *HTTPNotifier) deliver(j job) error {
	const op = "replication.deliver"

	path := j.kind.Path()
	if path == "" {
		return apperr.New(apperr.KindInternal, op, "unknown event kind "+string(j.kind))
	}

	ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.baseURL+path, bytes.NewReader(j.body))
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := n.client.Do(req)
	if n.metrics != nil {
		n.metrics.ReplicationDuration.WithLabelValues(string(j.kind)).Observe(time.Since(start).Seconds())
	}
	if err != nil {
		return apperr.Wrap(apperr.KindUpstreamUnavailable, op, err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apperr.Wrapf(apperr.KindUpstreamUnavailable, op,
			fmt.Errorf("unexpected status %d", resp.StatusCode), "peer rejected %s", j.kind)
	}
	return nil
}

func (n *HTTPNotifier) drop(j job, reason string) {
	n.log.Warn().
		Str("kind", string(j.kind)).
		Str("entity_id", j.entityID).
		Str("reason", reason).
		Msg("replication event dropped")
	n.count(j.kind, metrics.ResultDropped)
}

func (n *HTTPNotifier) count(kind Kind, result string) {
	if n.metrics == nil {
		return
	}
	n.metrics.ReplicationEventsTotal.WithLabelValues(string(kind), result).Inc()
}

func (n *HTTPNotifier) queueDepth(worker int, delta float64) {
	if n.metrics == nil {
		return
	}
	n.metrics.ReplicationQueueDepth.WithLabelValues(strconv.Itoa(worker)).Add(delta)
}
