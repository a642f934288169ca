package repositories

import (
	"imahima/domain"
	"imahima/errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemberRepository_Register_Creates_Member_And_Presence(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	members := NewMemberRepository(db, slog.Default())
	presences := NewPresenceRepository(db, slog.Default())
	at := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

	// Given a member never seen before
	aki := domain.Member{ID: "Aki", DisplayName: "あき", AvatarRef: "https://cdn/aki.png", CreatedAt: at}

	// When it is registered
	stored, created, err := members.Register(aki)

	// Then the member exists with an UNAVAILABLE presence record
	req.NoError(err)
	req.True(created)
	req.Equal(aki, stored)

	fetched, err := members.GetMember("Aki")
	req.NoError(err)
	req.Equal(aki.ID, fetched.ID)
	req.Equal(aki.DisplayName, fetched.DisplayName)
	req.Equal(aki.AvatarRef, fetched.AvatarRef)
	req.True(aki.CreatedAt.Equal(fetched.CreatedAt))

	record, err := presences.GetPresence("Aki")
	req.NoError(err)
	req.Equal(domain.UNAVAILABLE, record.Status)
	req.Nil(record.ExpiresAt)
}

func TestMemberRepository_Register_Twice_Refreshes_Profile_Only(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	members := NewMemberRepository(db, slog.Default())
	presences := NewPresenceRepository(db, slog.Default())
	at := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

	// Given a registered member who became available
	_, _, err := members.Register(domain.Member{ID: "Aki", DisplayName: "Aki", CreatedAt: at})
	req.NoError(err)
	_, _, err = presences.UpdatePresence("Aki", func(stored domain.PresenceRecord) (domain.PresenceRecord, error) {
		return stored.Available(at, time.Hour), nil
	})
	req.NoError(err)

	// When the same id shows up again with a new display name
	stored, created, err := members.Register(domain.Member{ID: "Aki", DisplayName: "Aki-chan", CreatedAt: at.Add(time.Hour)})

	// Then only the profile is refreshed
	req.NoError(err)
	req.False(created)
	req.Equal("Aki-chan", stored.DisplayName)
	req.True(at.Equal(stored.CreatedAt))

	record, err := presences.GetPresence("Aki")
	req.NoError(err)
	req.Equal(domain.AVAILABLE, record.Status)
}

func TestMemberRepository_GetMember_Unknown(t *testing.T) {
	req := require.New(t)
	members := NewMemberRepository(openTestDB(t), slog.Default())

	_, err := members.GetMember("nobody")
	req.ErrorIs(err, errors.ErrMemberNotFound)
}

func TestMemberRepository_ListMembers(t *testing.T) {
	req := require.New(t)
	members := NewMemberRepository(openTestDB(t), slog.Default())
	at := time.Now().UTC()

	for _, id := range []domain.MemberID{"Bo", "Aki", "Cy"} {
		_, _, err := members.Register(domain.Member{ID: id, CreatedAt: at})
		req.NoError(err)
	}

	listed, err := members.ListMembers()
	req.NoError(err)
	req.Len(listed, 3)
	req.Equal(domain.MemberID("Aki"), listed[0].ID)
}
