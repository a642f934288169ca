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

type IEdgeRepository interface {
	Connect(a, b domain.MemberID, at time.Time) (bool, error)
	SetVisibility(subject, observer domain.MemberID, visible bool, at time.Time) (domain.Edge, error)
	GetEdge(subject, observer domain.MemberID) (domain.Edge, error)
	GetEdges(subject domain.MemberID) ([]domain.Edge, error)
}

type EdgeRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewEdgeRepository(db *badger.DB, log *slog.Logger) IEdgeRepository {
	return &EdgeRepository{db: db, log: log}
}

type diskEdge struct {
	Subject   string    `cbor:"subject"`
	Observer  string    `cbor:"observer"`
	Visible   bool      `cbor:"visible"`
	CreatedAt time.Time `cbor:"created_at"`
	UpdatedAt time.Time `cbor:"updated_at"`
}

// Connect creates the edges a->b and b->a, visible by default, in one
// transaction. An edge that already exists keeps its visibility flag.
// It reports whether at least one edge was created.
func (r *EdgeRepository) Connect(a, b domain.MemberID, at time.Time) (bool, error) {
	if a == b {
		return false, errors.ErrSelfConnection
	}
	var created bool
	err := update(r.db, func(txn *badger.Txn) error {
		created = false
		for _, id := range []domain.MemberID{a, b} {
			if err := memberExists(txn, id); err != nil {
				return err
			}
		}
		for _, pair := range [][2]domain.MemberID{{a, b}, {b, a}} {
			key := edgeKey(pair[0], pair[1])
			_, err := txn.Get(key)
			if err == nil {
				continue
			}
			if !goerrors.Is(err, badger.ErrKeyNotFound) {
				return err
			}
			edge := domain.Edge{Subject: pair[0], Observer: pair[1], Visible: true, CreatedAt: at, UpdatedAt: at}
			if err = setValue(txn, key, fromEdge(edge)); err != nil {
				return err
			}
			created = true
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

// SetVisibility only flips the flag of an existing edge subject->observer.
func (r *EdgeRepository) SetVisibility(subject, observer domain.MemberID, visible bool, at time.Time) (domain.Edge, error) {
	var edge domain.Edge
	err := update(r.db, func(txn *badger.Txn) error {
		var de diskEdge
		err := getValue(txn, edgeKey(subject, observer), &de)
		if goerrors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: %s -> %s", errors.ErrEdgeNotFound, subject, observer)
		}
		if err != nil {
			return err
		}
		edge = toEdge(de)
		if edge.Visible == visible {
			return nil
		}
		edge.Visible = visible
		edge.UpdatedAt = at
		return setValue(txn, edgeKey(subject, observer), fromEdge(edge))
	})
	if err != nil {
		return domain.Edge{}, err
	}
	return edge, nil
}

func (r *EdgeRepository) GetEdge(subject, observer domain.MemberID) (domain.Edge, error) {
	var de diskEdge
	err := r.db.View(func(txn *badger.Txn) error {
		return getValue(txn, edgeKey(subject, observer), &de)
	})
	if goerrors.Is(err, badger.ErrKeyNotFound) {
		return domain.Edge{}, fmt.Errorf("%w: %s -> %s", errors.ErrEdgeNotFound, subject, observer)
	}
	if err != nil {
		return domain.Edge{}, err
	}
	return toEdge(de), nil
}

// GetEdges scans every edge leaving subject. Keys sort by observer id.
func (r *EdgeRepository) GetEdges(subject domain.MemberID) ([]domain.Edge, error) {
	var edges []domain.Edge
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := edgeSubjectPrefix(subject)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var de diskEdge
			if err := it.Item().Value(func(val []byte) error {
				return unmarshal(val, &de)
			}); err != nil {
				return err
			}
			edges = append(edges, toEdge(de))
		}
		return nil
	})
	return edges, err
}

func fromEdge(e domain.Edge) diskEdge {
	return diskEdge{
		Subject:   string(e.Subject),
		Observer:  string(e.Observer),
		Visible:   e.Visible,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func toEdge(de diskEdge) domain.Edge {
	return domain.Edge{
		Subject:   domain.MemberID(de.Subject),
		Observer:  domain.MemberID(de.Observer),
		Visible:   de.Visible,
		CreatedAt: de.CreatedAt.UTC(),
		UpdatedAt: de.UpdatedAt.UTC(),
	}
}
