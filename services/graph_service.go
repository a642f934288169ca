//go:generate go run go.uber.org/mock/mockgen -source=graph_service.go -destination=../mocks/mock_graph_service.go -package=mocks
package services

import (
	"context"
	goerrors "errors"
	"imahima/domain"
	"imahima/errors"
	"imahima/repositories"
	"log/slog"
	"sort"

	"github.com/samber/lo"
)

type IGraphService interface {
	Connect(ctx context.Context, cmd domain.ConnectCommand) (bool, error)
	SetVisibility(ctx context.Context, cmd domain.SetVisibilityCommand) (domain.Edge, error)
	VisibleObserversOf(ctx context.Context, subject domain.MemberID) ([]domain.MemberID, error)
	ConnectionsOf(ctx context.Context, subject domain.MemberID) ([]domain.Edge, error)
	VisibleSubjectsFor(ctx context.Context, observer domain.MemberID) ([]domain.MemberID, error)
	Connected(ctx context.Context, subject, observer domain.MemberID) error
}

// GraphService manages connections and the per-direction visibility flag.
// A connection is two edges; each side decides alone whether the other
// side may see it.
type GraphService struct {
	log     *slog.Logger
	members repositories.IMemberRepository
	edges   repositories.IEdgeRepository
	clock   domain.Clock
}

func NewGraphService(log *slog.Logger, members repositories.IMemberRepository,
	edges repositories.IEdgeRepository, clock domain.Clock) *GraphService {
	return &GraphService{log: log, members: members, edges: edges, clock: clock}
}

// Connect creates the missing edges between A and B, visible by default.
// Calling it again never resets a flag a member already toggled.
func (s *GraphService) Connect(ctx context.Context, cmd domain.ConnectCommand) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if err := validateCommand(cmd); err != nil {
		return false, err
	}
	if cmd.A == cmd.B {
		return false, errors.ErrSelfConnection
	}
	created, err := s.edges.Connect(cmd.A, cmd.B, s.clock.Now())
	if err != nil {
		return false, err
	}
	if created {
		s.log.Info("Members connected", "a", cmd.A, "b", cmd.B)
	}
	return created, nil
}

// SetVisibility sets whether Observer may see Subject. The connection must exist.
func (s *GraphService) SetVisibility(ctx context.Context, cmd domain.SetVisibilityCommand) (domain.Edge, error) {
	if err := ctx.Err(); err != nil {
		return domain.Edge{}, err
	}
	if err := validateCommand(cmd); err != nil {
		return domain.Edge{}, err
	}
	edge, err := s.edges.SetVisibility(cmd.Subject, cmd.Observer, cmd.Visible, s.clock.Now())
	if err != nil {
		return domain.Edge{}, err
	}
	s.log.Debug("Visibility updated", "subject", cmd.Subject, "observer", cmd.Observer, "visible", cmd.Visible)
	return edge, nil
}

// VisibleObserversOf is the authoritative fan-out recipient set of subject.
func (s *GraphService) VisibleObserversOf(ctx context.Context, subject domain.MemberID) ([]domain.MemberID, error) {
	edges, err := s.ConnectionsOf(ctx, subject)
	if err != nil {
		return nil, err
	}
	observers := lo.FilterMap(edges, func(e domain.Edge, _ int) (domain.MemberID, bool) {
		return e.Observer, e.Visible
	})
	return sortedIDs(observers), nil
}

// ConnectionsOf lists every edge leaving subject, hidden ones included.
func (s *GraphService) ConnectionsOf(ctx context.Context, subject domain.MemberID) ([]domain.Edge, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := s.members.GetMember(subject); err != nil {
		return nil, err
	}
	return s.edges.GetEdges(subject)
}

// VisibleSubjectsFor lists the connections that let observer see them.
func (s *GraphService) VisibleSubjectsFor(ctx context.Context, observer domain.MemberID) ([]domain.MemberID, error) {
	connections, err := s.ConnectionsOf(ctx, observer)
	if err != nil {
		return nil, err
	}
	var subjects []domain.MemberID
	for _, c := range connections {
		edge, err := s.edges.GetEdge(c.Observer, observer)
		if goerrors.Is(err, errors.ErrEdgeNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if edge.Visible {
			subjects = append(subjects, edge.Subject)
		}
	}
	return sortedIDs(subjects), nil
}

// Connected returns ErrEdgeNotFound unless the edge subject->observer exists.
func (s *GraphService) Connected(ctx context.Context, subject, observer domain.MemberID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.edges.GetEdge(subject, observer)
	return err
}

func sortedIDs(ids []domain.MemberID) []domain.MemberID {
	ids = lo.Uniq(ids)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
