package services

import (
	"context"
	goerrors "errors"
	"fmt"
	"imahima/contract"
	"imahima/domain"
	"imahima/domain/event"
	"imahima/errors"
	"log/slog"
	"sort"

	"github.com/samber/lo"
)

type IAnnounceService interface {
	SetStatus(ctx context.Context, cmd domain.SetStatusCommand) (Announcement, error)
	ClearStatus(ctx context.Context, memberID domain.MemberID) (Announcement, error)
	Connect(ctx context.Context, cmd domain.ConnectCommand) (bool, error)
	SetVisibility(ctx context.Context, cmd domain.SetVisibilityCommand) (domain.Edge, error)
	Poke(ctx context.Context, cmd domain.PokeCommand) (domain.DispatchReport, error)
	Feed(ctx context.Context, memberID domain.MemberID) (Feed, error)
}

// Announcement is what a status change produced. Report is nil when no
// fan-out was attempted. Warning carries a notification problem the caller
// may show; the status change itself is committed either way.
type Announcement struct {
	Change  domain.StatusChange
	Report  *domain.DispatchReport
	Warning string
}

type FeedEntry struct {
	Member domain.Member
	Record domain.PresenceRecord
}

// Feed is what a member sees: its own record and the available
// connections that let it see them.
type Feed struct {
	Self      domain.PresenceRecord
	Available []FeedEntry
}

// AnnounceService is the entry point of the UI layer. It commits presence
// and graph changes first and only then notifies: dispatch and live events
// never undo or fail a committed write.
type AnnounceService struct {
	log        *slog.Logger
	presence   IPresenceService
	graph      IGraphService
	directory  contract.MemberDirectory
	dispatcher contract.IDispatcher
	publisher  contract.Publisher
	clock      domain.Clock
}

func NewAnnounceService(log *slog.Logger, presence IPresenceService, graph IGraphService,
	directory contract.MemberDirectory, dispatcher contract.IDispatcher,
	publisher contract.Publisher, clock domain.Clock) *AnnounceService {
	return &AnnounceService{
		log:        log,
		presence:   presence,
		graph:      graph,
		directory:  directory,
		dispatcher: dispatcher,
		publisher:  publisher,
		clock:      clock,
	}
}

// SetStatus commits the status then, on a transition into AVAILABLE, pushes
// a notification to every visible observer and to the member itself.
// A refresh of an already available status is not announced again.
func (s *AnnounceService) SetStatus(ctx context.Context, cmd domain.SetStatusCommand) (Announcement, error) {
	change, err := s.presence.SetStatus(ctx, cmd)
	if err != nil {
		return Announcement{}, err
	}
	return s.announce(ctx, change), nil
}

func (s *AnnounceService) ClearStatus(ctx context.Context, memberID domain.MemberID) (Announcement, error) {
	change, err := s.presence.ClearStatus(ctx, memberID)
	if err != nil {
		return Announcement{}, err
	}
	return s.announce(ctx, change), nil
}

// announce runs once the change is committed, so a caller going away must
// not cut the fan-out short.
func (s *AnnounceService) announce(ctx context.Context, change domain.StatusChange) Announcement {
	ctx = context.WithoutCancel(ctx)
	announcement := Announcement{Change: change}
	subjectID := change.Current.MemberID

	// Clearing an unavailable member leaves nothing to tell anyone.
	if !change.Changed() && change.Current.Status != domain.AVAILABLE {
		return announcement
	}

	observers, err := s.graph.VisibleObserversOf(ctx, subjectID)
	if err != nil {
		s.log.Warn("Failed to resolve observers", "member_id", subjectID, "error", err)
		announcement.Warning = "observers could not be resolved, nobody was notified"
		return announcement
	}

	s.publisher.Publish(event.PresenceChanged{
		Record:    change.Current,
		Observers: observers,
		At:        s.clock.Now(),
	})

	if !change.BecameAvailable() {
		return announcement
	}

	subject, err := s.directory.ResolveMember(ctx, subjectID)
	if err != nil {
		s.log.Warn("Failed to resolve subject", "member_id", subjectID, "error", err)
		announcement.Warning = "member profile unavailable, nobody was notified"
		return announcement
	}

	report, err := s.dispatcher.Dispatch(ctx, subject, observers, domain.StatusBecameAvailable, domain.AvailablePayload)
	if err != nil {
		s.log.Warn("Notification skipped", "member_id", subjectID, "error", err)
		announcement.Warning = err.Error()
		return announcement
	}
	announcement.Report = &report
	if report.Failed > 0 {
		announcement.Warning = fmt.Sprintf("%d of %d notifications failed", report.Failed, len(report.Outcomes))
	}
	return announcement
}

func (s *AnnounceService) Connect(ctx context.Context, cmd domain.ConnectCommand) (bool, error) {
	created, err := s.graph.Connect(ctx, cmd)
	if err != nil {
		return false, err
	}
	if created {
		s.publisher.Publish(event.ConnectionCreated{A: cmd.A, B: cmd.B, At: s.clock.Now()})
	}
	return created, nil
}

func (s *AnnounceService) SetVisibility(ctx context.Context, cmd domain.SetVisibilityCommand) (domain.Edge, error) {
	edge, err := s.graph.SetVisibility(ctx, cmd)
	if err != nil {
		return domain.Edge{}, err
	}
	s.publisher.Publish(event.VisibilityChanged{Edge: edge, At: s.clock.Now()})
	return edge, nil
}

// Poke pushes a single "someone is calling you" message to a connection.
// Unlike status announcements it has no self-notification, and a transport
// failure is returned to the caller.
func (s *AnnounceService) Poke(ctx context.Context, cmd domain.PokeCommand) (domain.DispatchReport, error) {
	if err := validateCommand(cmd); err != nil {
		return domain.DispatchReport{}, err
	}
	if cmd.From == cmd.To {
		return domain.DispatchReport{}, errors.ErrSelfConnection
	}
	from, err := s.directory.ResolveMember(ctx, cmd.From)
	if err != nil {
		return domain.DispatchReport{}, err
	}
	if err = s.graph.Connected(ctx, cmd.From, cmd.To); err != nil {
		return domain.DispatchReport{}, err
	}

	report, err := s.dispatcher.Dispatch(ctx, from, []domain.MemberID{cmd.To}, domain.Poked, domain.PokePayload)
	if err != nil {
		return domain.DispatchReport{}, err
	}
	s.publisher.Publish(event.PokeReceived{From: cmd.From, To: cmd.To, At: s.clock.Now()})
	return report, nil
}

// Feed lists the available members memberID is allowed to see, by id.
func (s *AnnounceService) Feed(ctx context.Context, memberID domain.MemberID) (Feed, error) {
	self, err := s.presence.GetStatus(ctx, memberID)
	if err != nil {
		return Feed{}, err
	}
	subjects, err := s.graph.VisibleSubjectsFor(ctx, memberID)
	if err != nil {
		return Feed{}, err
	}
	records, err := s.presence.GetStatuses(ctx, subjects)
	if err != nil {
		return Feed{}, err
	}

	feed := Feed{Self: self, Available: []FeedEntry{}}
	for _, record := range lo.Values(records) {
		if record.Status != domain.AVAILABLE {
			continue
		}
		member, err := s.directory.ResolveMember(ctx, record.MemberID)
		if goerrors.Is(err, errors.ErrMemberNotFound) {
			continue
		}
		if err != nil {
			return Feed{}, err
		}
		feed.Available = append(feed.Available, FeedEntry{Member: member, Record: record})
	}
	sort.Slice(feed.Available, func(i, j int) bool {
		return feed.Available[i].Member.ID < feed.Available[j].Member.ID
	})
	return feed, nil
}
