package notification

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/channor/open-manage/internal/domain/absence"

	"github.com/sirupsen/logrus"
)

var (
	ErrQueueFull = errors.New("notification queue is full")
	ErrStopped   = errors.New("notification dispatcher stopped")
)

// Sink delivers one event somewhere outside the process.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, e absence.Event) error
}

// Config holds dispatcher tuning.
type Config struct {
	WorkerCount    int           // default: 2
	QueueSize      int           // default: 256
	DeliverTimeout time.Duration // default: 30 seconds
}

var _ absence.Publisher = (*Dispatcher)(nil)

// Dispatcher queues events and fans each one out to every sink from a fixed
// pool of workers. Sink failures are logged and dropped.
type Dispatcher struct {
	sinks  []Sink
	log    logrus.FieldLogger
	config Config

	queue  chan absence.Event
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
	stopCh chan struct{}
	once   sync.Once
}

func NewDispatcher(log logrus.FieldLogger, cfg Config, sinks ...Sink) *Dispatcher {
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 256
	}
	if cfg.DeliverTimeout <= 0 {
		cfg.DeliverTimeout = 30 * time.Second
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Dispatcher{
		sinks:  sinks,
		log:    log.WithField("component", "notification"),
		config: cfg,
		queue:  make(chan absence.Event, cfg.QueueSize),
		stopCh: make(chan struct{}),
	}
}

// Start launches the workers. Call it once.
func (d *Dispatcher) Start() {
	for i := 0; i < d.config.WorkerCount; i++ {
		d.wg.Add(1)
		go d.worker(i)
	}
	d.log.WithFields(logrus.Fields{
		"workers": d.config.WorkerCount,
		"queue":   d.config.QueueSize,
		"sinks":   len(d.sinks),
	}).Info("notification dispatcher started")
}

// Publish enqueues without blocking. Events that do not fit are reported
// with ErrQueueFull; the ones before them stay queued.
func (d *Dispatcher) Publish(ctx context.Context, events ...absence.Event) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrStopped
	}
	for _, e := range events {
		select {
		case d.queue <- e:
		case <-ctx.Done():
			return ctx.Err()
		default:
			return ErrQueueFull
		}
	}
	return nil
}

// Stop refuses new events, lets the workers drain what is queued and waits
// for them.
func (d *Dispatcher) Stop() {
	d.once.Do(func() {
		d.mu.Lock()
		d.closed = true
		d.mu.Unlock()
		close(d.stopCh)
	})
	d.wg.Wait()
}

func (d *Dispatcher) worker(id int) {
	defer d.wg.Done()
	for {
		select {
		case e := <-d.queue:
			d.deliver(id, e)
		case <-d.stopCh:
			for {
				select {
				case e := <-d.queue:
					d.deliver(id, e)
				default:
					return
				}
			}
		}
	}
}

func (d *Dispatcher) deliver(worker int, e absence.Event) {
	for _, s := range d.sinks {
		ctx, cancel := context.WithTimeout(context.Background(), d.config.DeliverTimeout)
		err := s.Deliver(ctx, e)
		cancel()
		entry := d.log.WithFields(logrus.Fields{
			"worker":     worker,
			"sink":       s.Name(),
			"event_id":   e.ID,
			"event_type": e.Type,
			"absence_id": e.Absence.AbsenceID,
		})
		if err != nil {
			if errors.Is(err, absence.ErrNoRecipientFound) {
				entry.WithError(err).Warn("no recipient for absence event")
				continue
			}
			entry.WithError(err).Error("absence event delivery failed")
			continue
		}
		entry.Debug("absence event delivered")
	}
}
