// Package audit provides an asynchronous trail of security events. Requests
// never block on audit writes: events are sharded to a fixed set of workers
// that persist them in the background.
package audit

import (
	"context"
	"hash/fnv"
	"time"

	"github.com/rs/zerolog"

	"github.com/shelfwise/library-system/internal/api/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Event is a single security-relevant occurrence: a login, a refresh
// exchange, or a registration, with its outcome.
type Event struct {
	Username string
	Action   string
	Outcome  string
	At       time.Time
}

// Sink persists audit events (Postgres in production).
type Sink interface {
	Insert(ctx context.Context, e Event) error
}

// Dispatcher routes events to a fixed set of workers using consistent hashing
// on the username, guaranteeing per-user event ordering. A full worker buffer
// drops the event rather than stalling the login path.
type Dispatcher struct {
	workers []chan Event
	sink    Sink
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, sink Sink, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan Event, numWorkers),
		sink:    sink,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan Event, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Record enqueues an event. Satisfies service.AuditRecorder.
func (d *Dispatcher) Record(username, action, outcome string, at time.Time) {
	event := Event{Username: username, Action: action, Outcome: outcome, At: at}
	select {
	case d.workers[d.shardIndex(username)] <- event:
	default:
		metrics.AuditEventsDropped.Inc()
		d.log.Warn().Str("action", action).Msg("audit buffer full, event dropped")
	}
}

// shardIndex maps a username deterministically to a worker index.
func (d *Dispatcher) shardIndex(username string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(username))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			if err := d.sink.Insert(ctx, event); err != nil {
				d.log.Error().Err(err).
					Str("action", event.Action).
					Int("worker_id", id).
					Msg("audit event persistence failed")
			}
		}
	}
}
