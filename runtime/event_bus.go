package runtime

import (
	"imahima/domain/event"
	"log/slog"
)

// EventBus is the buffered hand-off between request handlers and the
// EventFanout worker. Publishing never blocks a request: when the buffer is
// full the event is dropped.
type EventBus struct {
	log    *slog.Logger
	events chan event.DomainEvent
}

func NewEventBus(log *slog.Logger, bufferSize int) *EventBus {
	return &EventBus{log: log, events: make(chan event.DomainEvent, bufferSize)}
}

func (b *EventBus) Publish(e event.DomainEvent) {
	select {
	case b.events <- e:
	default:
		b.log.Warn("Event channel full, dropping event", "type", e.Type())
	}
}

func (b *EventBus) Events() chan event.DomainEvent {
	return b.events
}
