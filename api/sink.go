package api

import (
	"context"
	"imahima/domain/event"
	"imahima/errors"
)

// Sink buffers the events of one websocket session.
type Sink struct {
	events chan event.DomainEvent
}

func NewSink(bufferSize int) *Sink {
	return &Sink{events: make(chan event.DomainEvent, bufferSize)}
}

// Consume is called by the fanout. The stream handler drains the buffer;
// a session that does not keep up loses events rather than slowing others.
func (s *Sink) Consume(ctx context.Context, e event.DomainEvent) error {
	select {
	case s.events <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return errors.ErrSubscriberBehind
	}
}

func (s *Sink) Events() <-chan event.DomainEvent {
	return s.events
}
