//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"imahima/domain"
	"imahima/domain/event"
	"reflect"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker runs until ctx is done. It does not recover its own panics,
// the supervisor does.
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName is the worker's type name, used in supervisor logs.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// Transport pushes one rendered payload to one recipient.
// Ready reports a structural problem (missing credential, no endpoint)
// that makes every delivery pointless. Deliver must honor ctx's deadline.
type Transport interface {
	Ready() error
	Deliver(ctx context.Context, recipient domain.MemberID, payload string) error
}

// MemberDirectory resolves the display attributes of a member.
type MemberDirectory interface {
	ResolveMember(ctx context.Context, id domain.MemberID) (domain.Member, error)
}

type EventSink interface {
	Consume(ctx context.Context, e event.DomainEvent) error
}

type IRegistry interface {
	GetSinksForMembers(memberIDs []domain.MemberID) []EventSink
	Subscribe(memberID domain.MemberID, sessionID string, sink EventSink)
	Unsubscribe(memberID domain.MemberID, sessionID string)
}

// Publisher hands domain events to the live subscription pipeline.
type Publisher interface {
	Publish(e event.DomainEvent)
}

// IDispatcher fans one notification out to many recipients.
type IDispatcher interface {
	Dispatch(ctx context.Context, subject domain.Member, recipients []domain.MemberID,
		kind domain.NotificationKind, build domain.PayloadBuilder) (domain.DispatchReport, error)
}
