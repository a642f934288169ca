//go:generate go run go.uber.org/mock/mockgen -source=presence_service.go -destination=../mocks/mock_presence_service.go -package=mocks
package services

import (
	"context"
	"fmt"
	"imahima/domain"
	"imahima/errors"
	"imahima/repositories"
	"log/slog"
	"time"

	"github.com/samber/lo"
)

type IPresenceService interface {
	SetStatus(ctx context.Context, cmd domain.SetStatusCommand) (domain.StatusChange, error)
	GetStatus(ctx context.Context, memberID domain.MemberID) (domain.PresenceRecord, error)
	GetStatuses(ctx context.Context, memberIDs []domain.MemberID) (map[domain.MemberID]domain.PresenceRecord, error)
	ClearStatus(ctx context.Context, memberID domain.MemberID) (domain.StatusChange, error)
	ExpireStale(ctx context.Context) ([]domain.PresenceRecord, error)
}

// PresenceService owns the presence lifecycle.
// Writes for one member are serialized by a per-member lock and committed
// through an optimistic transaction. Reads never lock and normalize expiry
// on the way out, so an expired record reads UNAVAILABLE whether or not it
// was ever written back.
type PresenceService struct {
	log        *slog.Logger
	repository repositories.IPresenceRepository
	clock      domain.Clock
	defaultTTL time.Duration
	maxTTL     time.Duration
	locks      *memberLocks
}

func NewPresenceService(log *slog.Logger, repository repositories.IPresenceRepository,
	clock domain.Clock, defaultTTL, maxTTL time.Duration) *PresenceService {
	if defaultTTL <= 0 {
		defaultTTL = domain.DefaultTTL
	}
	return &PresenceService{
		log:        log,
		repository: repository,
		clock:      clock,
		defaultTTL: defaultTTL,
		maxTTL:     maxTTL,
		locks:      newMemberLocks(),
	}
}

// SetStatus commits a new status. AVAILABLE expires at now + TTL, a zero TTL
// meaning the default one. A refresh of an available record restarts the
// timer from now, it never extends the previous expiry.
// The store does not notify anyone: the caller uses the returned change to
// decide on a fan-out.
func (s *PresenceService) SetStatus(ctx context.Context, cmd domain.SetStatusCommand) (domain.StatusChange, error) {
	if err := ctx.Err(); err != nil {
		return domain.StatusChange{}, err
	}
	if !cmd.Status.Valid() {
		return domain.StatusChange{}, fmt.Errorf("%w: %q", errors.ErrInvalidStatus, cmd.Status)
	}
	if err := validateMemberID(string(cmd.MemberID)); err != nil {
		return domain.StatusChange{}, err
	}
	ttl, err := s.ttl(cmd)
	if err != nil {
		return domain.StatusChange{}, err
	}

	unlock := s.locks.Lock(cmd.MemberID)
	defer unlock()

	now := s.clock.Now()
	previous, current, err := s.repository.UpdatePresence(cmd.MemberID, func(stored domain.PresenceRecord) (domain.PresenceRecord, error) {
		if cmd.Status == domain.AVAILABLE {
			return stored.Available(now, ttl), nil
		}
		if stored.Status == domain.UNAVAILABLE {
			// Already cleared, keep the record untouched.
			return stored, nil
		}
		return stored.Unavailable(now), nil
	})
	if err != nil {
		return domain.StatusChange{}, err
	}

	change := domain.StatusChange{Previous: previous.Normalize(now), Current: current}
	s.log.Debug("Presence updated",
		"member_id", cmd.MemberID,
		"status", current.Status,
		"became_available", change.BecameAvailable())
	return change, nil
}

func (s *PresenceService) ttl(cmd domain.SetStatusCommand) (time.Duration, error) {
	if cmd.Status != domain.AVAILABLE {
		return 0, nil
	}
	switch {
	case cmd.TTL < 0:
		return 0, fmt.Errorf("%w: %s is negative", errors.ErrInvalidTTL, cmd.TTL)
	case cmd.TTL == 0:
		return s.defaultTTL, nil
	case s.maxTTL > 0 && cmd.TTL > s.maxTTL:
		return 0, fmt.Errorf("%w: %s exceeds %s", errors.ErrInvalidTTL, cmd.TTL, s.maxTTL)
	}
	return cmd.TTL, nil
}

// GetStatus returns the normalized record without writing anything back.
func (s *PresenceService) GetStatus(ctx context.Context, memberID domain.MemberID) (domain.PresenceRecord, error) {
	if err := ctx.Err(); err != nil {
		return domain.PresenceRecord{}, err
	}
	record, err := s.repository.GetPresence(memberID)
	if err != nil {
		return domain.PresenceRecord{}, err
	}
	return record.Normalize(s.clock.Now()), nil
}

// GetStatuses normalizes several records read from one snapshot.
// Unknown members are absent from the result.
func (s *PresenceService) GetStatuses(ctx context.Context, memberIDs []domain.MemberID) (map[domain.MemberID]domain.PresenceRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	records, err := s.repository.GetPresences(lo.Uniq(memberIDs))
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	return lo.MapValues(records, func(record domain.PresenceRecord, _ domain.MemberID) domain.PresenceRecord {
		return record.Normalize(now)
	}), nil
}

// ClearStatus forces UNAVAILABLE. Clearing twice is a no-op.
func (s *PresenceService) ClearStatus(ctx context.Context, memberID domain.MemberID) (domain.StatusChange, error) {
	return s.SetStatus(ctx, domain.SetStatusCommand{MemberID: memberID, Status: domain.UNAVAILABLE})
}

// ExpireStale writes back the normalization of every expired record.
// Readers never depend on it. A record refreshed in the meantime is left
// alone. It returns the records that were actually expired.
func (s *PresenceService) ExpireStale(ctx context.Context) ([]domain.PresenceRecord, error) {
	records, err := s.repository.ListPresences()
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	var expired []domain.PresenceRecord
	for _, record := range lo.Filter(records, func(r domain.PresenceRecord, _ int) bool { return r.Expired(now) }) {
		if err = ctx.Err(); err != nil {
			return expired, err
		}
		current, ok, err := s.expire(record.MemberID, now)
		if err != nil {
			s.log.Warn("Failed to write back expired presence", "member_id", record.MemberID, "error", err)
			continue
		}
		if ok {
			expired = append(expired, current)
		}
	}
	return expired, nil
}

func (s *PresenceService) expire(memberID domain.MemberID, now time.Time) (domain.PresenceRecord, bool, error) {
	unlock := s.locks.Lock(memberID)
	defer unlock()

	previous, current, err := s.repository.UpdatePresence(memberID, func(stored domain.PresenceRecord) (domain.PresenceRecord, error) {
		if !stored.Expired(now) {
			return stored, nil
		}
		return stored.Unavailable(now), nil
	})
	if err != nil {
		return domain.PresenceRecord{}, false, err
	}
	return current, previous.Expired(now), nil
}
