package worker

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/billboardhub/billboard-market/internal/events"
)

// Notifier delivers one event. service.NotificationService implements it.
type Notifier interface {
	Notify(ctx context.Context, event events.Event) error
}

const defaultQueueSize = 256

// NotificationWorker moves notification delivery off the request path.
// Events are queued by dispatcher handlers and drained by one goroutine.
type NotificationWorker struct {
	notifier Notifier
	logger   *zap.Logger
	queue    chan events.Event

	mu      sync.Mutex
	closed  bool
	started bool
	done    chan struct{}
}

// NewNotificationWorker creates a worker with a queue of size entries.
func NewNotificationWorker(notifier Notifier, logger *zap.Logger, size int) *NotificationWorker {
	if size <= 0 {
		size = defaultQueueSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationWorker{
		notifier: notifier,
		logger:   logger,
		queue:    make(chan events.Event, size),
		done:     make(chan struct{}),
	}
}

// Subscribe registers the worker for every order and quote event.
func (w *NotificationWorker) Subscribe(dispatcher events.Dispatcher) {
	for _, eventType := range []events.EventType{
		events.EventOrderPlaced,
		events.EventOrderStatusChanged,
		events.EventQuoteCreated,
		events.EventQuoteUpdated,
	} {
		dispatcher.Subscribe(eventType, w.enqueue)
	}
}

// enqueue never blocks the publisher. A full queue drops the event.
func (w *NotificationWorker) enqueue(_ context.Context, event events.Event) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	select {
	case w.queue <- event:
	default:
		w.logger.Warn("notification queue full, dropping event",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)))
	}
	return nil
}

// Start launches the delivery loop.
func (w *NotificationWorker) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return
	}
	w.started = true
	go w.run()
}

func (w *NotificationWorker) run() {
	defer close(w.done)
	for event := range w.queue {
		// delivery outlives the request that published the event
		if err := w.notifier.Notify(context.Background(), event); err != nil {
			w.logger.Warn("notification failed",
				zap.String("event_id", event.ID),
				zap.String("event_type", string(event.Type)),
				zap.Error(err))
		}
	}
}

// Stop closes the queue and waits until queued events are delivered or ctx ends.
func (w *NotificationWorker) Stop(ctx context.Context) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.queue)
	started := w.started
	w.mu.Unlock()

	if !started {
		return nil
	}
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
