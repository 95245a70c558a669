package queue

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/e2recycle/platform/internal/core/domain"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// AuditSink persists a single audit entry.
type AuditSink interface {
	Insert(ctx context.Context, entry *domain.AuditEntry) error
}

// AuditDispatcher writes lifecycle audit entries off the request path. It
// shards entries to a fixed set of workers by entity id, so the audit trail
// for one entity is written in the order its transitions happened. State
// mutations never wait on it; a failed write is logged and dropped.
type AuditDispatcher struct {
	workers []chan domain.AuditEntry
	sink    AuditSink
	log     zerolog.Logger
}

// NewAuditDispatcher creates an AuditDispatcher with numWorkers sharded
// workers. If numWorkers <= 0, defaultWorkers is used.
func NewAuditDispatcher(numWorkers int, sink AuditSink, log zerolog.Logger) *AuditDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &AuditDispatcher{
		workers: make([]chan domain.AuditEntry, numWorkers),
		sink:    sink,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AuditEntry, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *AuditDispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Record enqueues an audit entry for its entity's worker. Non-blocking up to
// channelBuffer capacity.
func (d *AuditDispatcher) Record(entry domain.AuditEntry) {
	d.workers[d.shardIndex(entry.EntityID)] <- entry
}

// shardIndex maps an entity id deterministically to a worker index.
func (d *AuditDispatcher) shardIndex(entityID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(entityID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *AuditDispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.AuditEntry) {
	for {
		select {
		case <-ctx.Done():
			return
		case entry, ok := <-ch:
			if !ok {
				return
			}
			if err := d.sink.Insert(ctx, &entry); err != nil {
				d.log.Error().Err(err).
					Str("entity", entry.Entity).
					Str("entity_id", entry.EntityID).
					Int("worker_id", id).
					Msg("audit write failed")
			}
		}
	}
}
