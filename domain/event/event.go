package event

import (
	"imahima/domain"
	"time"
)

type Type string

const (
	PresenceChangedType   Type = "presence.changed"
	VisibilityChangedType Type = "visibility.changed"
	ConnectionCreatedType Type = "connection.created"
	PokeReceivedType      Type = "poke.received"
)

// DomainEvent is what live subscribers receive.
// Audience lists the members whose sessions must get the event.
type DomainEvent interface {
	Type() Type
	Audience() []domain.MemberID
	OccurredAt() time.Time
}

type PresenceChanged struct {
	Record    domain.PresenceRecord
	Observers []domain.MemberID
	Expired   bool
	At        time.Time
}

func (e PresenceChanged) Type() Type { return PresenceChangedType }

// Audience is the subject itself plus everyone allowed to see it.
func (e PresenceChanged) Audience() []domain.MemberID {
	return append([]domain.MemberID{e.Record.MemberID}, e.Observers...)
}

func (e PresenceChanged) OccurredAt() time.Time { return e.At }

type VisibilityChanged struct {
	Edge domain.Edge
	At   time.Time
}

func (e VisibilityChanged) Type() Type { return VisibilityChangedType }

// Audience is the subject only: the observer must not learn it was hidden.
func (e VisibilityChanged) Audience() []domain.MemberID {
	return []domain.MemberID{e.Edge.Subject}
}

func (e VisibilityChanged) OccurredAt() time.Time { return e.At }

type ConnectionCreated struct {
	A  domain.MemberID
	B  domain.MemberID
	At time.Time
}

func (e ConnectionCreated) Type() Type { return ConnectionCreatedType }

func (e ConnectionCreated) Audience() []domain.MemberID {
	return []domain.MemberID{e.A, e.B}
}

func (e ConnectionCreated) OccurredAt() time.Time { return e.At }

type PokeReceived struct {
	From domain.MemberID
	To   domain.MemberID
	At   time.Time
}

func (e PokeReceived) Type() Type { return PokeReceivedType }

func (e PokeReceived) Audience() []domain.MemberID { return []domain.MemberID{e.To} }

func (e PokeReceived) OccurredAt() time.Time { return e.At }
