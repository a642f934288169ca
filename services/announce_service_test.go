package services

import (
	"context"
	"fmt"
	"imahima/domain"
	"imahima/domain/event"
	"imahima/errors"
	"imahima/mocks"
	"imahima/runtime/workers"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type recordingTransport struct {
	mu         sync.Mutex
	deliveries map[domain.MemberID][]string
	failing    map[domain.MemberID]bool
}

func newRecordingTransport(failing ...domain.MemberID) *recordingTransport {
	t := &recordingTransport{deliveries: make(map[domain.MemberID][]string), failing: make(map[domain.MemberID]bool)}
	for _, id := range failing {
		t.failing[id] = true
	}
	return t
}

func (t *recordingTransport) Ready() error { return nil }

func (t *recordingTransport) Deliver(_ context.Context, recipient domain.MemberID, payload string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.deliveries[recipient] = append(t.deliveries[recipient], payload)
	if t.failing[recipient] {
		return fmt.Errorf("%w: unreachable", errors.ErrDeliveryFailed)
	}
	return nil
}

func (t *recordingTransport) count(recipient domain.MemberID) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.deliveries[recipient])
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []event.DomainEvent
}

func (p *recordingPublisher) Publish(e event.DomainEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func newAnnounceService(f fixture, transport *recordingTransport, publisher *recordingPublisher) *AnnounceService {
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	dispatcher := workers.NewDispatcher(log, transport, time.Second)
	return NewAnnounceService(log, f.presence, f.graph, f.members, dispatcher, publisher, f.clock)
}

func TestAnnounceService_Aki_Bo_Cy(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, "Aki", "Bo", "Cy")
	ctx := context.Background()
	transport := newRecordingTransport()
	publisher := &recordingPublisher{}
	service := newAnnounceService(f, transport, publisher)

	// Given Aki is connected to Bo and Cy, but hidden from Cy
	_, err := service.Connect(ctx, domain.ConnectCommand{A: "Aki", B: "Bo"})
	req.NoError(err)
	_, err = service.Connect(ctx, domain.ConnectCommand{A: "Aki", B: "Cy"})
	req.NoError(err)
	_, err = service.SetVisibility(ctx, domain.SetVisibilityCommand{Subject: "Aki", Observer: "Cy", Visible: false})
	req.NoError(err)

	// When Aki becomes available
	announcement, err := service.SetStatus(ctx, domain.SetStatusCommand{MemberID: "Aki", Status: domain.AVAILABLE})

	// Then Aki itself and Bo were notified, Cy never
	req.NoError(err)
	req.Empty(announcement.Warning)
	req.NotNil(announcement.Report)
	req.Equal(2, announcement.Report.Delivered)
	req.Equal(1, transport.count("Aki"))
	req.Equal(1, transport.count("Bo"))
	req.Zero(transport.count("Cy"))
	req.Equal("🟢 Aki さんが今ヒマになりました！", transport.deliveries["Bo"][0])

	// When Aki refreshes its status
	announcement, err = service.SetStatus(ctx, domain.SetStatusCommand{MemberID: "Aki", Status: domain.AVAILABLE})

	// Then nobody is notified again
	req.NoError(err)
	req.Nil(announcement.Report)
	req.Equal(1, transport.count("Bo"))
}

func TestAnnounceService_SetStatus_Reports_Partial_Failure(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, "Aki", "Bo", "Cy")
	ctx := context.Background()
	transport := newRecordingTransport("Bo")
	service := newAnnounceService(f, transport, &recordingPublisher{})

	_, err := service.Connect(ctx, domain.ConnectCommand{A: "Aki", B: "Bo"})
	req.NoError(err)
	_, err = service.Connect(ctx, domain.ConnectCommand{A: "Aki", B: "Cy"})
	req.NoError(err)

	// When Aki becomes available while Bo's channel fails
	announcement, err := service.SetStatus(ctx, domain.SetStatusCommand{MemberID: "Aki", Status: domain.AVAILABLE})

	// Then the status is committed and Cy was still notified
	req.NoError(err)
	req.Equal("1 of 3 notifications failed", announcement.Warning)
	outcome, ok := announcement.Report.OutcomeFor("Cy")
	req.True(ok)
	req.Equal(domain.DELIVERED, outcome.Status)
	outcome, ok = announcement.Report.OutcomeFor("Bo")
	req.True(ok)
	req.Equal(domain.FAILED, outcome.Status)

	record, err := f.presence.GetStatus(ctx, "Aki")
	req.NoError(err)
	req.Equal(domain.AVAILABLE, record.Status)
}

func TestAnnounceService_SetStatus_Transport_Unavailable_Keeps_The_Status(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	presence := mocks.NewMockIPresenceService(ctrl)
	graph := mocks.NewMockIGraphService(ctrl)
	directory := mocks.NewMockMemberDirectory(ctrl)
	dispatcher := mocks.NewMockIDispatcher(ctrl)
	publisher := mocks.NewMockPublisher(ctrl)
	clock := domain.NewFakeClock(t0)
	service := NewAnnounceService(log, presence, graph, directory, dispatcher, publisher, clock)

	aki := domain.Member{ID: "Aki", DisplayName: "Aki"}
	before := domain.NewPresenceRecord("Aki", t0)
	change := domain.StatusChange{Previous: before, Current: before.Available(t0, time.Hour)}
	cmd := domain.SetStatusCommand{MemberID: "Aki", Status: domain.AVAILABLE}

	// Given the status is committed and the transport cannot work
	presence.EXPECT().SetStatus(gomock.Any(), cmd).Return(change, nil)
	graph.EXPECT().VisibleObserversOf(gomock.Any(), domain.MemberID("Aki")).Return([]domain.MemberID{"Bo"}, nil)
	publisher.EXPECT().Publish(gomock.AssignableToTypeOf(event.PresenceChanged{}))
	directory.EXPECT().ResolveMember(gomock.Any(), domain.MemberID("Aki")).Return(aki, nil)
	dispatcher.EXPECT().
		Dispatch(gomock.Any(), aki, []domain.MemberID{"Bo"}, domain.StatusBecameAvailable, gomock.Any()).
		Return(domain.DispatchReport{}, errors.ErrTransportUnavailable)

	// When Aki becomes available
	announcement, err := service.SetStatus(context.Background(), cmd)

	// Then the call succeeds with a warning
	req.NoError(err)
	req.Equal(change, announcement.Change)
	req.Nil(announcement.Report)
	req.Contains(announcement.Warning, errors.ErrTransportUnavailable.Error())
}

func TestAnnounceService_ClearStatus_Publishes_Without_Dispatch(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	presence := mocks.NewMockIPresenceService(ctrl)
	graph := mocks.NewMockIGraphService(ctrl)
	dispatcher := mocks.NewMockIDispatcher(ctrl)
	publisher := mocks.NewMockPublisher(ctrl)
	service := NewAnnounceService(log, presence, graph, mocks.NewMockMemberDirectory(ctrl), dispatcher, publisher, domain.NewFakeClock(t0))

	available := domain.NewPresenceRecord("Aki", t0).Available(t0, time.Hour)
	change := domain.StatusChange{Previous: available, Current: available.Unavailable(t0)}

	presence.EXPECT().ClearStatus(gomock.Any(), domain.MemberID("Aki")).Return(change, nil)
	graph.EXPECT().VisibleObserversOf(gomock.Any(), domain.MemberID("Aki")).Return([]domain.MemberID{"Bo"}, nil)
	publisher.EXPECT().Publish(gomock.Any()).Do(func(e event.DomainEvent) {
		req.Equal(event.PresenceChangedType, e.Type())
		req.ElementsMatch([]domain.MemberID{"Aki", "Bo"}, e.Audience())
	})
	dispatcher.EXPECT().Dispatch(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	announcement, err := service.ClearStatus(context.Background(), "Aki")

	req.NoError(err)
	req.Nil(announcement.Report)
	req.Empty(announcement.Warning)
}

func TestAnnounceService_ClearStatus_Of_Unavailable_Member_Announces_Nothing(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	presence := mocks.NewMockIPresenceService(ctrl)
	graph := mocks.NewMockIGraphService(ctrl)
	dispatcher := mocks.NewMockIDispatcher(ctrl)
	publisher := mocks.NewMockPublisher(ctrl)
	service := NewAnnounceService(log, presence, graph, mocks.NewMockMemberDirectory(ctrl), dispatcher, publisher, domain.NewFakeClock(t0))

	// Given Aki is already unavailable
	unavailable := domain.NewPresenceRecord("Aki", t0)
	change := domain.StatusChange{Previous: unavailable, Current: unavailable}
	presence.EXPECT().ClearStatus(gomock.Any(), domain.MemberID("Aki")).Return(change, nil)
	graph.EXPECT().VisibleObserversOf(gomock.Any(), gomock.Any()).Times(0)
	publisher.EXPECT().Publish(gomock.Any()).Times(0)
	dispatcher.EXPECT().Dispatch(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	// When Aki clears its status again
	announcement, err := service.ClearStatus(context.Background(), "Aki")

	// Then nothing is published nor dispatched
	req.NoError(err)
	req.False(announcement.Change.Changed())
	req.Nil(announcement.Report)
	req.Empty(announcement.Warning)
}

// cancelAfterCommit cancels the caller's context as soon as the status write
// returns, like a client hanging up right after the commit.
type cancelAfterCommit struct {
	IPresenceService
	cancel context.CancelFunc
}

func (c cancelAfterCommit) SetStatus(ctx context.Context, cmd domain.SetStatusCommand) (domain.StatusChange, error) {
	change, err := c.IPresenceService.SetStatus(ctx, cmd)
	c.cancel()
	return change, err
}

func TestAnnounceService_SetStatus_Fans_Out_When_Caller_Cancels_After_Commit(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, "Aki", "Bo")
	transport := newRecordingTransport()
	publisher := &recordingPublisher{}
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	dispatcher := workers.NewDispatcher(log, transport, time.Second)

	_, err := f.graph.Connect(context.Background(), domain.ConnectCommand{A: "Aki", B: "Bo"})
	req.NoError(err)

	// Given a caller that goes away right after the status is committed
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	presence := cancelAfterCommit{IPresenceService: f.presence, cancel: cancel}
	service := NewAnnounceService(log, presence, f.graph, f.members, dispatcher, publisher, f.clock)

	// When Aki becomes available
	announcement, err := service.SetStatus(ctx, domain.SetStatusCommand{MemberID: "Aki", Status: domain.AVAILABLE})

	// Then the context is gone but Bo was still notified
	req.ErrorIs(ctx.Err(), context.Canceled)
	req.NoError(err)
	req.Empty(announcement.Warning)
	req.NotNil(announcement.Report)
	req.Equal(2, announcement.Report.Delivered)
	req.Equal(1, transport.count("Bo"))
	req.Len(publisher.events, 1)
}

func TestAnnounceService_Poke(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, "Aki", "Bo", "Cy")
	ctx := context.Background()
	transport := newRecordingTransport()
	publisher := &recordingPublisher{}
	service := newAnnounceService(f, transport, publisher)

	_, err := service.Connect(ctx, domain.ConnectCommand{A: "Aki", B: "Bo"})
	req.NoError(err)

	// When Aki pokes Bo
	report, err := service.Poke(ctx, domain.PokeCommand{From: "Aki", To: "Bo"})

	// Then only Bo receives the message, Aki gets no copy
	req.NoError(err)
	req.Equal(1, report.Delivered)
	req.Equal([]string{"Akiさんがあなたに声をかけています！"}, transport.deliveries["Bo"])
	req.Zero(transport.count("Aki"))
	req.Equal(event.PokeReceivedType, publisher.events[len(publisher.events)-1].Type())

	// And poking a stranger or oneself is refused
	_, err = service.Poke(ctx, domain.PokeCommand{From: "Aki", To: "Cy"})
	req.ErrorIs(err, errors.ErrEdgeNotFound)
	_, err = service.Poke(ctx, domain.PokeCommand{From: "Aki", To: "Aki"})
	req.ErrorIs(err, errors.ErrSelfConnection)
	_, err = service.Poke(ctx, domain.PokeCommand{From: "Aki"})
	req.ErrorIs(err, errors.ErrInvalidCommand)
	req.Zero(transport.count("Cy"))
}

func TestAnnounceService_Feed(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, "Aki", "Bo", "Cy", "Dee")
	ctx := context.Background()
	service := newAnnounceService(f, newRecordingTransport(), &recordingPublisher{})

	for _, other := range []domain.MemberID{"Bo", "Cy", "Dee"} {
		_, err := service.Connect(ctx, domain.ConnectCommand{A: "Aki", B: other})
		req.NoError(err)
	}
	// Given Bo and Cy are available, Cy hides from Aki, Dee is not available
	for _, id := range []domain.MemberID{"Bo", "Cy"} {
		_, err := service.SetStatus(ctx, domain.SetStatusCommand{MemberID: id, Status: domain.AVAILABLE})
		req.NoError(err)
	}
	_, err := service.SetVisibility(ctx, domain.SetVisibilityCommand{Subject: "Cy", Observer: "Aki", Visible: false})
	req.NoError(err)

	// When Aki opens its feed
	feed, err := service.Feed(ctx, "Aki")

	// Then only Bo is listed
	req.NoError(err)
	req.Equal(domain.UNAVAILABLE, feed.Self.Status)
	req.Len(feed.Available, 1)
	req.Equal(domain.MemberID("Bo"), feed.Available[0].Member.ID)

	// And Bo disappears once expired
	f.clock.Advance(2 * time.Hour)
	feed, err = service.Feed(ctx, "Aki")
	req.NoError(err)
	req.Empty(feed.Available)
}
