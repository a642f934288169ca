package services

import (
	"imahima/domain"
	"imahima/repositories"
	"log/slog"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

type fixture struct {
	clock    *domain.FakeClock
	members  *MemberService
	presence *PresenceService
	graph    *GraphService
}

func newFixture(t *testing.T, memberIDs ...domain.MemberID) fixture {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	clock := domain.NewFakeClock(t0)
	memberRepository := repositories.NewMemberRepository(db, log)
	f := fixture{
		clock:    clock,
		members:  NewMemberService(log, memberRepository, clock),
		presence: NewPresenceService(log, repositories.NewPresenceRepository(db, log), clock, time.Hour, 24*time.Hour),
		graph:    NewGraphService(log, memberRepository, repositories.NewEdgeRepository(db, log), clock),
	}
	for _, id := range memberIDs {
		_, _, err = f.members.Register(t.Context(), domain.RegisterMemberCommand{ID: id, DisplayName: string(id)})
		require.NoError(t, err)
	}
	return f
}
