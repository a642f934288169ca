package repositories

import (
	goerrors "errors"
	"fmt"
	"imahima/domain"
	"imahima/errors"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
)

type IMemberRepository interface {
	Register(member domain.Member) (domain.Member, bool, error)
	GetMember(id domain.MemberID) (domain.Member, error)
	ListMembers() ([]domain.Member, error)
}

type MemberRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewMemberRepository(db *badger.DB, log *slog.Logger) IMemberRepository {
	return &MemberRepository{db: db, log: log}
}

type diskMember struct {
	ID          string    `cbor:"id"`
	DisplayName string    `cbor:"display_name"`
	AvatarRef   string    `cbor:"avatar_ref"`
	CreatedAt   time.Time `cbor:"created_at"`
}

// Register stores the member on first contact together with its initial
// UNAVAILABLE presence record, in a single transaction.
// On later contacts only the display attributes are refreshed; presence and
// edges are left alone. The boolean reports whether the member was created.
func (r *MemberRepository) Register(member domain.Member) (domain.Member, bool, error) {
	var stored domain.Member
	var created bool
	err := update(r.db, func(txn *badger.Txn) error {
		created = false
		var existing diskMember
		err := getValue(txn, memberKey(member.ID), &existing)
		switch {
		case err == nil:
			stored = toMember(existing)
			stored.DisplayName = member.DisplayName
			stored.AvatarRef = member.AvatarRef
		case goerrors.Is(err, badger.ErrKeyNotFound):
			created = true
			stored = member
			presence := domain.NewPresenceRecord(member.ID, member.CreatedAt)
			if err = setValue(txn, presenceKey(member.ID), fromPresenceRecord(presence)); err != nil {
				return err
			}
		default:
			return err
		}
		return setValue(txn, memberKey(member.ID), fromMember(stored))
	})
	if err != nil {
		return domain.Member{}, false, err
	}
	if created {
		r.log.Debug("Member registered", "member_id", member.ID)
	}
	return stored, created, nil
}

func (r *MemberRepository) GetMember(id domain.MemberID) (domain.Member, error) {
	var dm diskMember
	err := r.db.View(func(txn *badger.Txn) error {
		return getValue(txn, memberKey(id), &dm)
	})
	if goerrors.Is(err, badger.ErrKeyNotFound) {
		return domain.Member{}, fmt.Errorf("%w: %s", errors.ErrMemberNotFound, id)
	}
	if err != nil {
		return domain.Member{}, err
	}
	return toMember(dm), nil
}

func (r *MemberRepository) ListMembers() ([]domain.Member, error) {
	var members []domain.Member
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte(memberPrefix)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var dm diskMember
			if err := it.Item().Value(func(val []byte) error {
				return unmarshal(val, &dm)
			}); err != nil {
				return err
			}
			members = append(members, toMember(dm))
		}
		return nil
	})
	return members, err
}

// memberExists must be called inside the transaction that depends on it,
// so a concurrent registration shows up as a conflict.
func memberExists(txn *badger.Txn, id domain.MemberID) error {
	_, err := txn.Get(memberKey(id))
	if goerrors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("%w: %s", errors.ErrMemberNotFound, id)
	}
	return err
}

func fromMember(m domain.Member) diskMember {
	return diskMember{
		ID:          string(m.ID),
		DisplayName: m.DisplayName,
		AvatarRef:   m.AvatarRef,
		CreatedAt:   m.CreatedAt,
	}
}

func toMember(dm diskMember) domain.Member {
	return domain.Member{
		ID:          domain.MemberID(dm.ID),
		DisplayName: dm.DisplayName,
		AvatarRef:   dm.AvatarRef,
		CreatedAt:   dm.CreatedAt.UTC(),
	}
}
