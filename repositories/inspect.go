package repositories

import (
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// InspectRow is one decoded key of the store, for offline inspection.
type InspectRow struct {
	Key       string
	Kind      string
	MemberID  string
	Detail    string
	UpdatedAt time.Time
}

// Inspect decodes every key starting with prefix, "" meaning all of them.
// A value that cannot be decoded still yields a row carrying the error.
func Inspect(db *badger.DB, prefix string) ([]InspectRow, error) {
	var rows []InspectRow
	err := db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			key := string(item.Key())
			err := item.Value(func(v []byte) error {
				row, err := inspectValue(key, v)
				if err != nil {
					row = InspectRow{Key: key, Kind: "?", Detail: fmt.Sprintf("decode error: %v", err)}
				}
				rows = append(rows, row)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return rows, err
}

func inspectValue(key string, v []byte) (InspectRow, error) {
	switch {
	case strings.HasPrefix(key, memberPrefix):
		var m diskMember
		if err := unmarshal(v, &m); err != nil {
			return InspectRow{}, err
		}
		return InspectRow{Key: key, Kind: "MEMBER", MemberID: m.ID, Detail: m.DisplayName, UpdatedAt: m.CreatedAt}, nil
	case strings.HasPrefix(key, presencePrefix):
		var p diskPresence
		if err := unmarshal(v, &p); err != nil {
			return InspectRow{}, err
		}
		detail := p.Status
		if p.ExpiresAt != nil {
			detail += " until " + p.ExpiresAt.Format(time.RFC3339)
		}
		return InspectRow{Key: key, Kind: "PRESENCE", MemberID: p.MemberID, Detail: detail, UpdatedAt: p.UpdatedAt}, nil
	case strings.HasPrefix(key, edgePrefix):
		var e diskEdge
		if err := unmarshal(v, &e); err != nil {
			return InspectRow{}, err
		}
		detail := fmt.Sprintf("-> %s visible=%t", e.Observer, e.Visible)
		return InspectRow{Key: key, Kind: "EDGE", MemberID: e.Subject, Detail: detail, UpdatedAt: e.UpdatedAt}, nil
	}
	return InspectRow{Key: key, Kind: "UNKNOWN", Detail: fmt.Sprintf("%d bytes", len(v))}, nil
}
