package domain

import (
	"fmt"

	"github.com/google/uuid"
)

type NotificationKind string

const (
	StatusBecameAvailable NotificationKind = "STATUS_BECAME_AVAILABLE"
	Poked                 NotificationKind = "POKED"
)

// NotificationEvent is one delivery unit of a fan-out. It only lives during dispatch.
// Self marks the copy the subject sends to its own channel.
type NotificationEvent struct {
	ID          uuid.UUID
	SubjectID   MemberID
	RecipientID MemberID
	Kind        NotificationKind
	Payload     string
	Self        bool
}

type DeliveryStatus string

const (
	DELIVERED DeliveryStatus = "DELIVERED"
	FAILED    DeliveryStatus = "FAILED"
)

type DeliveryOutcome struct {
	Event  NotificationEvent
	Status DeliveryStatus
	Reason string
}

// DispatchReport aggregates the outcomes of one dispatch call.
type DispatchReport struct {
	Outcomes  []DeliveryOutcome
	Delivered int
	Failed    int
}

func NewDispatchReport(outcomes []DeliveryOutcome) DispatchReport {
	report := DispatchReport{Outcomes: outcomes}
	for _, o := range outcomes {
		switch o.Status {
		case DELIVERED:
			report.Delivered++
		default:
			report.Failed++
		}
	}
	return report
}

// OutcomeFor returns the outcome for a recipient, self-notification excluded.
func (r DispatchReport) OutcomeFor(recipient MemberID) (DeliveryOutcome, bool) {
	for _, o := range r.Outcomes {
		if !o.Event.Self && o.Event.RecipientID == recipient {
			return o, true
		}
	}
	return DeliveryOutcome{}, false
}

// PayloadBuilder renders the text pushed for one event.
type PayloadBuilder func(subject Member, evt NotificationEvent) string

// AvailablePayload is the text sent when a member becomes available.
func AvailablePayload(subject Member, _ NotificationEvent) string {
	return fmt.Sprintf("🟢 %s さんが今ヒマになりました！", displayName(subject))
}

// PokePayload is the text sent to the poked member.
func PokePayload(subject Member, _ NotificationEvent) string {
	return fmt.Sprintf("%sさんがあなたに声をかけています！", displayName(subject))
}

func displayName(m Member) string {
	if m.DisplayName == "" {
		return m.ID.String()
	}
	return m.DisplayName
}
