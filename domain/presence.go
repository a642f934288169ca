package domain

import "time"

type Status string

const (
	AVAILABLE   Status = "AVAILABLE"
	UNAVAILABLE Status = "UNAVAILABLE"
)

// DefaultTTL applies when a member becomes available without an explicit duration.
const DefaultTTL = time.Hour

func (s Status) Valid() bool {
	return s == AVAILABLE || s == UNAVAILABLE
}

// PresenceRecord holds a member's self-reported availability.
// ExpiresAt is set if and only if Status is AVAILABLE.
type PresenceRecord struct {
	MemberID  MemberID
	Status    Status
	ExpiresAt *time.Time
	UpdatedAt time.Time
}

// NewPresenceRecord is the record every member starts with.
func NewPresenceRecord(id MemberID, at time.Time) PresenceRecord {
	return PresenceRecord{MemberID: id, Status: UNAVAILABLE, UpdatedAt: at}
}

// Expired reports whether an available record has outlived its expiry at now.
// A record is still available at the exact expiry instant.
func (p PresenceRecord) Expired(now time.Time) bool {
	return p.Status == AVAILABLE && p.ExpiresAt != nil && now.After(*p.ExpiresAt)
}

// Normalize returns the record as every reader must see it at now:
// an expired AVAILABLE record reads as UNAVAILABLE without an expiry.
func (p PresenceRecord) Normalize(now time.Time) PresenceRecord {
	if p.Status == AVAILABLE && p.ExpiresAt == nil {
		// AVAILABLE without expiry on disk is corrupt, never trust an unbounded availability.
		p.Status = UNAVAILABLE
		return p
	}
	if p.Expired(now) {
		p.Status = UNAVAILABLE
		p.ExpiresAt = nil
	}
	return p
}

// Available builds the record for a member becoming available at now for ttl.
func (p PresenceRecord) Available(now time.Time, ttl time.Duration) PresenceRecord {
	expiresAt := now.Add(ttl)
	return PresenceRecord{MemberID: p.MemberID, Status: AVAILABLE, ExpiresAt: &expiresAt, UpdatedAt: now}
}

func (p PresenceRecord) Unavailable(now time.Time) PresenceRecord {
	return PresenceRecord{MemberID: p.MemberID, Status: UNAVAILABLE, UpdatedAt: now}
}

// StatusChange pairs the normalized record seen before a write with the committed one.
type StatusChange struct {
	Previous PresenceRecord
	Current  PresenceRecord
}

// BecameAvailable is the fan-out trigger: refreshing an already available
// record does not count.
func (c StatusChange) BecameAvailable() bool {
	return c.Previous.Status != AVAILABLE && c.Current.Status == AVAILABLE
}

func (c StatusChange) Changed() bool {
	return c.Previous.Status != c.Current.Status
}
