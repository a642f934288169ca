package workers

import (
	"context"
	goerrors "errors"
	"fmt"
	"imahima/contract"
	"imahima/domain"
	"imahima/errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

const defaultDeliveryTimeout = 10 * time.Second

// Dispatcher delivers one notification to many recipients.
//
// Every delivery runs in its own goroutine, bounded by deliveryTimeout and
// detached from the caller's cancellation: once dispatched, an attempt is
// left to finish or time out. A failing, slow or panicking delivery only
// produces a FAILED outcome for its recipient. Dispatch returns once every
// attempt has settled. There is no retry.
type Dispatcher struct {
	log             *slog.Logger
	transport       contract.Transport
	deliveryTimeout time.Duration
}

func NewDispatcher(log *slog.Logger, transport contract.Transport, deliveryTimeout time.Duration) *Dispatcher {
	if deliveryTimeout <= 0 {
		deliveryTimeout = defaultDeliveryTimeout
	}
	return &Dispatcher{log: log, transport: transport, deliveryTimeout: deliveryTimeout}
}

// Dispatch fails as a whole only when the transport reports it cannot work
// at all, and that is checked before any delivery is attempted.
func (d *Dispatcher) Dispatch(ctx context.Context, subject domain.Member, recipients []domain.MemberID,
	kind domain.NotificationKind, build domain.PayloadBuilder) (domain.DispatchReport, error) {
	if err := d.transport.Ready(); err != nil {
		if !goerrors.Is(err, errors.ErrTransportUnavailable) {
			err = fmt.Errorf("%w: %v", errors.ErrTransportUnavailable, err)
		}
		return domain.DispatchReport{}, err
	}

	events := d.events(subject, recipients, kind, build)
	outcomes := make([]domain.DeliveryOutcome, len(events))
	detached := context.WithoutCancel(ctx)

	var wg sync.WaitGroup
	for i, evt := range events {
		wg.Add(1)
		go func(i int, evt domain.NotificationEvent) {
			defer wg.Done()
			outcomes[i] = d.deliver(detached, evt)
		}(i, evt)
	}
	wg.Wait()

	report := domain.NewDispatchReport(outcomes)
	d.log.Info("Notification dispatched",
		"subject_id", subject.ID,
		"kind", kind,
		"delivered", report.Delivered,
		"failed", report.Failed)
	return report, nil
}

// events builds the self-notification first, when the kind has one, then
// one event per distinct recipient in id order. The subject is never its
// own regular recipient.
func (d *Dispatcher) events(subject domain.Member, recipients []domain.MemberID,
	kind domain.NotificationKind, build domain.PayloadBuilder) []domain.NotificationEvent {
	recipients = lo.Uniq(lo.Without(recipients, subject.ID))
	sort.Slice(recipients, func(i, j int) bool { return recipients[i] < recipients[j] })

	var events []domain.NotificationEvent
	newEvent := func(recipient domain.MemberID, self bool) domain.NotificationEvent {
		evt := domain.NotificationEvent{
			ID:          uuid.New(),
			SubjectID:   subject.ID,
			RecipientID: recipient,
			Kind:        kind,
			Self:        self,
		}
		evt.Payload = build(subject, evt)
		return evt
	}
	if notifiesSelf(kind) {
		events = append(events, newEvent(subject.ID, true))
	}
	for _, recipient := range recipients {
		events = append(events, newEvent(recipient, false))
	}
	return events
}

func notifiesSelf(kind domain.NotificationKind) bool {
	return kind == domain.StatusBecameAvailable
}

// deliver waits for the transport at most deliveryTimeout, even when the
// transport ignores its context.
func (d *Dispatcher) deliver(ctx context.Context, evt domain.NotificationEvent) domain.DeliveryOutcome {
	ctx, cancel := context.WithTimeout(ctx, d.deliveryTimeout)
	defer cancel()

	result := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				result <- fmt.Errorf("%w: %v", errors.ErrWorkerPanic, r)
			}
		}()
		result <- d.transport.Deliver(ctx, evt.RecipientID, evt.Payload)
	}()

	var err error
	select {
	case err = <-result:
	case <-ctx.Done():
		err = ctx.Err()
	}
	if err != nil {
		d.log.Warn("Delivery failed",
			"event_id", evt.ID,
			"recipient_id", evt.RecipientID,
			"self", evt.Self,
			"error", err)
		return domain.DeliveryOutcome{Event: evt, Status: domain.FAILED, Reason: err.Error()}
	}
	d.log.Debug("Delivered", "event_id", evt.ID, "recipient_id", evt.RecipientID)
	return domain.DeliveryOutcome{Event: evt, Status: domain.DELIVERED}
}
