package workers

import (
	"context"
	"imahima/contract"
	"imahima/domain/event"
	"log/slog"
	"sync"
	"time"
)

// EventFanout broadcasts domain events to the live sessions of their audience.
//
// It provides best-effort fan-out with no guarantees regarding delivery,
// ordering, durability, or retries. EventFanout is not a message broker:
// push notifications go through the Dispatcher, this only feeds open
// websocket streams.
type EventFanout struct {
	log          *slog.Logger
	registry     contract.IRegistry
	domainEvents chan event.DomainEvent
	sinkTimeout  time.Duration
}

func NewEventFanout(log *slog.Logger, registry contract.IRegistry,
	domainEvents chan event.DomainEvent, sinkTimeout time.Duration) *EventFanout {
	return &EventFanout{log: log, registry: registry, domainEvents: domainEvents, sinkTimeout: sinkTimeout}
}

func (w *EventFanout) Run(ctx context.Context) error {
	for {
		select {
		case evt := <-w.domainEvents:
			w.Fanout(ctx, evt)
		case <-ctx.Done():
			w.log.Debug("Context done, stopping event fanout")
			return nil
		}
	}
}

// Fanout One sink for each session of the audience, each bounded by sinkTimeout
func (w *EventFanout) Fanout(ctx context.Context, evt event.DomainEvent) {
	sinks := w.registry.GetSinksForMembers(evt.Audience())
	var wg sync.WaitGroup
	for _, sink := range sinks {
		wg.Add(1)
		go func(sink contract.EventSink) {
			defer wg.Done()
			sinkCtx, cancel := context.WithTimeout(ctx, w.sinkTimeout)
			defer cancel()
			if err := sink.Consume(sinkCtx, evt); err != nil {
				w.log.Warn("Sink did not consume event", "type", evt.Type(), "error", err)
			}
		}(sink)
	}
	wg.Wait()
}
