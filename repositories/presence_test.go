package repositories

import (
	"imahima/domain"
	"imahima/errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPresenceRepository_UpdatePresence_Roundtrip(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	members := NewMemberRepository(db, slog.Default())
	presences := NewPresenceRepository(db, slog.Default())
	at := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

	_, _, err := members.Register(domain.Member{ID: "Aki", CreatedAt: at})
	req.NoError(err)

	// When the member becomes available for one hour
	previous, current, err := presences.UpdatePresence("Aki", func(stored domain.PresenceRecord) (domain.PresenceRecord, error) {
		return stored.Available(at, time.Hour), nil
	})

	// Then the mutation saw the initial record and the new one is persisted
	req.NoError(err)
	req.Equal(domain.UNAVAILABLE, previous.Status)
	req.Equal(domain.AVAILABLE, current.Status)

	stored, err := presences.GetPresence("Aki")
	req.NoError(err)
	req.Equal(domain.AVAILABLE, stored.Status)
	req.NotNil(stored.ExpiresAt)
	req.True(at.Add(time.Hour).Equal(*stored.ExpiresAt))
}

func TestPresenceRepository_UpdatePresence_Unknown_Member_Writes_Nothing(t *testing.T) {
	req := require.New(t)
	presences := NewPresenceRepository(openTestDB(t), slog.Default())

	called := false
	_, _, err := presences.UpdatePresence("ghost", func(stored domain.PresenceRecord) (domain.PresenceRecord, error) {
		called = true
		return stored, nil
	})

	req.ErrorIs(err, errors.ErrMemberNotFound)
	req.False(called)

	records, err := presences.ListPresences()
	req.NoError(err)
	req.Empty(records)
}

func TestPresenceRepository_Concurrent_Updates_Are_Not_Lost(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	members := NewMemberRepository(db, slog.Default())
	presences := NewPresenceRepository(db, slog.Default())
	at := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	_, _, err := members.Register(domain.Member{ID: "Aki", CreatedAt: at})
	req.NoError(err)

	// Given many writers each extending the expiry by one minute
	const writers = 10
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := presences.UpdatePresence("Aki", func(stored domain.PresenceRecord) (domain.PresenceRecord, error) {
				base := at
				if stored.ExpiresAt != nil {
					base = *stored.ExpiresAt
				}
				expiresAt := base.Add(time.Minute)
				return domain.PresenceRecord{Status: domain.AVAILABLE, ExpiresAt: &expiresAt, UpdatedAt: at}, nil
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	// Then every increment survived the conflicts
	for err := range errs {
		req.NoError(err)
	}
	stored, err := presences.GetPresence("Aki")
	req.NoError(err)
	req.True(at.Add(writers * time.Minute).Equal(*stored.ExpiresAt))
}

func TestPresenceRepository_GetPresences_Skips_Unknown(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	members := NewMemberRepository(db, slog.Default())
	presences := NewPresenceRepository(db, slog.Default())
	_, _, err := members.Register(domain.Member{ID: "Bo", CreatedAt: time.Now().UTC()})
	req.NoError(err)

	records, err := presences.GetPresences([]domain.MemberID{"Bo", "ghost"})
	req.NoError(err)
	req.Len(records, 1)
	req.Contains(records, domain.MemberID("Bo"))
}
