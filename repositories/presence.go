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

// PresenceMutation receives the stored record (not normalized) and returns
// the record to commit. Returning an error aborts the transaction.
type PresenceMutation func(stored domain.PresenceRecord) (domain.PresenceRecord, error)

type IPresenceRepository interface {
	GetPresence(id domain.MemberID) (domain.PresenceRecord, error)
	GetPresences(ids []domain.MemberID) (map[domain.MemberID]domain.PresenceRecord, error)
	ListPresences() ([]domain.PresenceRecord, error)
	UpdatePresence(id domain.MemberID, mutate PresenceMutation) (domain.PresenceRecord, domain.PresenceRecord, error)
}

type PresenceRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewPresenceRepository(db *badger.DB, log *slog.Logger) IPresenceRepository {
	return &PresenceRepository{db: db, log: log}
}

type diskPresence struct {
	MemberID  string     `cbor:"member_id"`
	Status    string     `cbor:"status"`
	ExpiresAt *time.Time `cbor:"expires_at"`
	UpdatedAt time.Time  `cbor:"updated_at"`
}

// GetPresence returns the stored record as is. Callers normalize it.
func (r *PresenceRepository) GetPresence(id domain.MemberID) (domain.PresenceRecord, error) {
	var dp diskPresence
	err := r.db.View(func(txn *badger.Txn) error {
		return getValue(txn, presenceKey(id), &dp)
	})
	if goerrors.Is(err, badger.ErrKeyNotFound) {
		return domain.PresenceRecord{}, fmt.Errorf("%w: %s", errors.ErrMemberNotFound, id)
	}
	if err != nil {
		return domain.PresenceRecord{}, err
	}
	return toPresenceRecord(dp), nil
}

// GetPresences reads several records from one snapshot. Unknown ids are skipped.
func (r *PresenceRepository) GetPresences(ids []domain.MemberID) (map[domain.MemberID]domain.PresenceRecord, error) {
	records := make(map[domain.MemberID]domain.PresenceRecord, len(ids))
	err := r.db.View(func(txn *badger.Txn) error {
		for _, id := range ids {
			var dp diskPresence
			err := getValue(txn, presenceKey(id), &dp)
			if goerrors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			records[id] = toPresenceRecord(dp)
		}
		return nil
	})
	return records, err
}

func (r *PresenceRepository) ListPresences() ([]domain.PresenceRecord, error) {
	var records []domain.PresenceRecord
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte(presencePrefix)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var dp diskPresence
			if err := it.Item().Value(func(val []byte) error {
				return unmarshal(val, &dp)
			}); err != nil {
				return err
			}
			records = append(records, toPresenceRecord(dp))
		}
		return nil
	})
	return records, err
}

// UpdatePresence reads, mutates and writes a record inside one transaction.
// A concurrent commit on the same key makes badger reject ours, and the
// mutation is replayed on the fresh value. It returns the stored record the
// mutation saw and the committed one.
func (r *PresenceRepository) UpdatePresence(id domain.MemberID, mutate PresenceMutation) (domain.PresenceRecord, domain.PresenceRecord, error) {
	var previous, current domain.PresenceRecord
	err := update(r.db, func(txn *badger.Txn) error {
		var dp diskPresence
		err := getValue(txn, presenceKey(id), &dp)
		if goerrors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: %s", errors.ErrMemberNotFound, id)
		}
		if err != nil {
			return err
		}
		previous = toPresenceRecord(dp)
		current, err = mutate(previous)
		if err != nil {
			return err
		}
		current.MemberID = id
		return setValue(txn, presenceKey(id), fromPresenceRecord(current))
	})
	if err != nil {
		return domain.PresenceRecord{}, domain.PresenceRecord{}, err
	}
	return previous, current, nil
}

func fromPresenceRecord(p domain.PresenceRecord) diskPresence {
	return diskPresence{
		MemberID:  string(p.MemberID),
		Status:    string(p.Status),
		ExpiresAt: p.ExpiresAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toPresenceRecord(dp diskPresence) domain.PresenceRecord {
	record := domain.PresenceRecord{
		MemberID:  domain.MemberID(dp.MemberID),
		Status:    domain.Status(dp.Status),
		UpdatedAt: dp.UpdatedAt.UTC(),
	}
	if dp.ExpiresAt != nil {
		expiresAt := dp.ExpiresAt.UTC()
		record.ExpiresAt = &expiresAt
	}
	return record
}
