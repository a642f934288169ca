package repositories

import (
	"errors"
	"fmt"
	"imahima/domain"

	"github.com/dgraph-io/badger/v4"
)

// Key layout:
//
//	member:{id}                   member profile
//	presence:{id}                 presence record, created with the member
//	edge:{subject}:{observer}     directed visibility edge
//
// Member ids never contain ':' so prefix scans on "edge:{subject}:" are exact.
const (
	memberPrefix   = "member:"
	presencePrefix = "presence:"
	edgePrefix     = "edge:"

	maxConflictRetries = 32
)

func memberKey(id domain.MemberID) []byte {
	return []byte(memberPrefix + string(id))
}

func presenceKey(id domain.MemberID) []byte {
	return []byte(presencePrefix + string(id))
}

func edgeKey(subject, observer domain.MemberID) []byte {
	return []byte(fmt.Sprintf("%s%s:%s", edgePrefix, subject, observer))
}

func edgeSubjectPrefix(subject domain.MemberID) []byte {
	return []byte(fmt.Sprintf("%s%s:", edgePrefix, subject))
}

// update runs fn in a read-write transaction and replays it when badger
// reports that a key read by fn was committed by someone else in between.
// This is the update-if-unchanged primitive every mutation goes through.
func update(db *badger.DB, fn func(txn *badger.Txn) error) error {
	var err error
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		err = db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
	}
	return fmt.Errorf("giving up after %d conflicting attempts: %w", maxConflictRetries, err)
}

func getValue(txn *badger.Txn, key []byte, v any) error {
	item, err := txn.Get(key)
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return unmarshal(val, v)
	})
}

func setValue(txn *badger.Txn, key []byte, v any) error {
	data, err := marshal(v)
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	return txn.Set(key, data)
}
