package event

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/ils/backend/internal/domain/shared"
)

const (
	defaultBufferSize = 256
	defaultWorkers    = 4
)

// Bus is an in-process event bus backed by a worker pool. Publish enqueues
// events on a buffered channel; workers dispatch them to subscribed handlers.
// The account reindex pipeline runs behind this bus, so handlers must
// tolerate out-of-order delivery of events for different accounts.
type Bus struct {
	registry *handlerRegistry
	logger   *zap.Logger
	queue    chan shared.DomainEvent
	workers  int
	running  atomic.Bool
	wg       sync.WaitGroup
}

// NewBus creates a new event bus. Buffer size and worker count fall back to
// defaults when non-positive.
func NewBus(logger *zap.Logger, bufferSize, workers int) *Bus {
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &Bus{
		registry: newHandlerRegistry(),
		logger:   logger,
		queue:    make(chan shared.DomainEvent, bufferSize),
		workers:  workers,
	}
}

// Publish enqueues events for asynchronous dispatch. When the bus is not
// running, events are dispatched inline on the caller's goroutine so tests
// and CLI tools observe handler effects synchronously.
func (b *Bus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	for _, evt := range events {
		if !b.running.Load() {
			b.dispatch(ctx, evt)
			continue
		}
		select {
		case b.queue <- evt:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Subscribe registers a handler for specific event types. When no event
// types are given, the handler's own EventTypes() is used.
func (b *Bus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	b.registry.register(handler, eventTypes...)
	b.logger.Debug("handler subscribed", zap.Strings("event_types", eventTypes))
}

// Unsubscribe removes a handler
func (b *Bus) Unsubscribe(handler shared.EventHandler) {
	b.registry.unregister(handler)
	b.logger.Debug("handler unsubscribed")
}

// Start launches the worker pool
func (b *Bus) Start(ctx context.Context) error {
	if !b.running.CompareAndSwap(false, true) {
		return nil
	}
	for i := 0; i < b.workers; i++ {
		b.wg.Add(1)
		go b.worker()
	}
	b.logger.Info("event bus started",
		zap.Int("workers", b.workers),
		zap.Int("buffer_size", cap(b.queue)),
	)
	return nil
}

// Stop drains the queue and waits for the workers to finish
func (b *Bus) Stop(ctx context.Context) error {
	if !b.running.CompareAndSwap(true, false) {
		return nil
	}
	close(b.queue)

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		b.logger.Info("event bus stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *Bus) worker() {
	defer b.wg.Done()
	for evt := range b.queue {
		b.dispatch(context.Background(), evt)
	}
}

func (b *Bus) dispatch(ctx context.Context, evt shared.DomainEvent) {
	for _, handler := range b.registry.handlersFor(evt.EventType()) {
		if err := b.safeHandle(ctx, handler, evt); err != nil {
			// Keep going, one failing handler must not starve the rest
			b.logger.Error("handler failed to process event",
				zap.String("event_type", evt.EventType()),
				zap.String("event_id", evt.EventID().String()),
				zap.Error(err),
			)
		}
	}
}

func (b *Bus) safeHandle(ctx context.Context, handler shared.EventHandler, evt shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("handler panicked",
				zap.String("event_type", evt.EventType()),
				zap.Any("panic", r),
			)
		}
	}()
	return handler.Handle(ctx, evt)
}

// Ensure Bus implements EventBus
var _ shared.EventBus = (*Bus)(nil)
