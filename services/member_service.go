package services

import (
	"context"
	"imahima/domain"
	"imahima/repositories"
	"log/slog"
)

type IMemberService interface {
	Register(ctx context.Context, cmd domain.RegisterMemberCommand) (domain.Member, bool, error)
	ResolveMember(ctx context.Context, id domain.MemberID) (domain.Member, error)
	ListMembers(ctx context.Context) ([]domain.Member, error)
}

// MemberService records members on first contact with the attributes the
// login provider gave us, and serves them back as the member directory.
type MemberService struct {
	log        *slog.Logger
	repository repositories.IMemberRepository
	clock      domain.Clock
}

func NewMemberService(log *slog.Logger, repository repositories.IMemberRepository, clock domain.Clock) *MemberService {
	return &MemberService{log: log, repository: repository, clock: clock}
}

func (s *MemberService) Register(ctx context.Context, cmd domain.RegisterMemberCommand) (domain.Member, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.Member{}, false, err
	}
	if err := validateMemberID(string(cmd.ID)); err != nil {
		return domain.Member{}, false, err
	}
	if err := validateCommand(cmd); err != nil {
		return domain.Member{}, false, err
	}
	member, created, err := s.repository.Register(domain.Member{
		ID:          cmd.ID,
		DisplayName: cmd.DisplayName,
		AvatarRef:   cmd.AvatarRef,
		CreatedAt:   s.clock.Now(),
	})
	if err != nil {
		return domain.Member{}, false, err
	}
	if created {
		s.log.Info("New member", "member_id", member.ID)
	}
	return member, created, nil
}

func (s *MemberService) ResolveMember(ctx context.Context, id domain.MemberID) (domain.Member, error) {
	if err := ctx.Err(); err != nil {
		return domain.Member{}, err
	}
	return s.repository.GetMember(id)
}

// ListMembers returns every registered member, by id.
func (s *MemberService) ListMembers(ctx context.Context) ([]domain.Member, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.repository.ListMembers()
}
