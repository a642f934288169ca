package repositories

import (
	"imahima/domain"
	"imahima/errors"
	"log/slog"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func registerAll(t *testing.T, members IMemberRepository, ids ...domain.MemberID) {
	t.Helper()
	for _, id := range ids {
		_, _, err := members.Register(domain.Member{ID: id, CreatedAt: time.Now().UTC()})
		require.NoError(t, err)
	}
}

func TestEdgeRepository_Connect_Creates_Both_Directions(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	edges := NewEdgeRepository(db, slog.Default())
	registerAll(t, NewMemberRepository(db, slog.Default()), "Aki", "Bo")

	// When Aki and Bo connect
	created, err := edges.Connect("Aki", "Bo", time.Now().UTC())

	// Then both directions exist and are visible
	req.NoError(err)
	req.True(created)

	ab, err := edges.GetEdge("Aki", "Bo")
	req.NoError(err)
	req.True(ab.Visible)

	ba, err := edges.GetEdge("Bo", "Aki")
	req.NoError(err)
	req.True(ba.Visible)
}

func TestEdgeRepository_Connect_Is_Idempotent_And_Keeps_Flags(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	edges := NewEdgeRepository(db, slog.Default())
	registerAll(t, NewMemberRepository(db, slog.Default()), "Aki", "Bo")

	// Given a connection where Aki hides from Bo
	_, err := edges.Connect("Aki", "Bo", time.Now().UTC())
	req.NoError(err)
	_, err = edges.SetVisibility("Aki", "Bo", false, time.Now().UTC())
	req.NoError(err)

	// When they connect again, from the other side
	created, err := edges.Connect("Bo", "Aki", time.Now().UTC())

	// Then nothing is created and the toggled flag survives
	req.NoError(err)
	req.False(created)

	ab, err := edges.GetEdge("Aki", "Bo")
	req.NoError(err)
	req.False(ab.Visible)

	fromAki, err := edges.GetEdges("Aki")
	req.NoError(err)
	req.Len(fromAki, 1)
}

func TestEdgeRepository_Connect_Unknown_Member(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	edges := NewEdgeRepository(db, slog.Default())
	registerAll(t, NewMemberRepository(db, slog.Default()), "Aki")

	_, err := edges.Connect("Aki", "ghost", time.Now().UTC())
	req.ErrorIs(err, errors.ErrMemberNotFound)

	// And no half edge was written
	fromAki, err := edges.GetEdges("Aki")
	req.NoError(err)
	req.Empty(fromAki)
}

func TestEdgeRepository_Connect_Self(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	edges := NewEdgeRepository(db, slog.Default())
	registerAll(t, NewMemberRepository(db, slog.Default()), "Aki")

	_, err := edges.Connect("Aki", "Aki", time.Now().UTC())
	req.ErrorIs(err, errors.ErrSelfConnection)
}

func TestEdgeRepository_SetVisibility_Without_Connection(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	edges := NewEdgeRepository(db, slog.Default())
	registerAll(t, NewMemberRepository(db, slog.Default()), "Aki", "Bo")

	_, err := edges.SetVisibility("Aki", "Bo", false, time.Now().UTC())
	req.ErrorIs(err, errors.ErrEdgeNotFound)

	// And the failed toggle did not create the edge
	_, err = edges.GetEdge("Aki", "Bo")
	req.ErrorIs(err, errors.ErrEdgeNotFound)
}

func TestEdgeRepository_GetEdges_Does_Not_Leak_Prefix_Neighbours(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	edges := NewEdgeRepository(db, slog.Default())
	registerAll(t, NewMemberRepository(db, slog.Default()), "Aki", "Akira", "Bo", "Cy")

	// Given "Akira" shares a prefix with "Aki"
	_, err := edges.Connect("Aki", "Bo", time.Now().UTC())
	req.NoError(err)
	_, err = edges.Connect("Akira", "Cy", time.Now().UTC())
	req.NoError(err)

	// Then Aki's scan only returns Aki's edges
	fromAki, err := edges.GetEdges("Aki")
	req.NoError(err)
	req.Equal([]domain.MemberID{"Bo"}, lo.Map(fromAki, func(e domain.Edge, _ int) domain.MemberID {
		return e.Observer
	}))
}
