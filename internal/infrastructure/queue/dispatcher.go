package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/fishchain/marketplace/internal/api/metrics"
	"github.com/fishchain/marketplace/internal/core/domain"
	"github.com/fishchain/marketplace/internal/infrastructure/realtime"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Publisher pushes a frame to every live connection of a user and returns
// how many accepted it.
type Publisher interface {
	Online(userID string) bool
	Publish(userID string, msg realtime.Message) int
}

// Dispatcher routes live notification pushes to a fixed set of workers using
// consistent hashing on the recipient ID, keeping one recipient's pushes in
// order.
type Dispatcher struct {
	workers   []chan *domain.Notification
	publisher Publisher
	log       zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, publisher Publisher, log zerolog.Logger) *Dispatcher {
	return newDispatcher(numWorkers, channelBuffer, publisher, log)
}

func newDispatcher(numWorkers, buffer int, publisher Publisher, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:   make([]chan *domain.Notification, numWorkers),
		publisher: publisher,
		log:       log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan *domain.Notification, buffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Deliver queues n for its recipient's worker. It never blocks: when the
// worker queue is full the push is dropped, the record stays persisted.
func (d *Dispatcher) Deliver(n *domain.Notification) {
	idx := d.shardIndex(n.RecipientID)
	select {
	case d.workers[idx] <- n:
		metrics.DeliveryQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.DeliveriesTotal.WithLabelValues("dropped").Inc()
		d.log.Warn().
			Str("recipient_id", n.RecipientID).
			Str("notification_id", n.ID).
			Int("worker_id", idx).
			Msg("delivery queue full, live push dropped")
	}
}

// shardIndex maps a recipient ID deterministically to a worker index.
func (d *Dispatcher) shardIndex(recipientID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(recipientID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan *domain.Notification) {
	depth := metrics.DeliveryQueueDepth.WithLabelValues(strconv.Itoa(id))
	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-ch:
			if !ok {
				return
			}
			depth.Set(float64(len(ch)))
			d.push(id, n)
		}
	}
}

func (d *Dispatcher) push(workerID int, n *domain.Notification) {
	if !d.publisher.Online(n.RecipientID) {
		metrics.DeliveriesTotal.WithLabelValues("offline").Inc()
		return
	}

	msg, err := realtime.NotificationMessage(n)
	if err != nil {
		d.log.Error().Err(err).
			Str("notification_id", n.ID).
			Int("worker_id", workerID).
			Msg("encode live notification failed")
		return
	}

	if d.publisher.Publish(n.RecipientID, msg) == 0 {
		metrics.DeliveriesTotal.WithLabelValues("offline").Inc()
		return
	}
	metrics.DeliveriesTotal.WithLabelValues("delivered").Inc()
}
