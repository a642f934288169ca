// Package domain contains core concepts of the presence system.
// This file defines Member entities and related invariants.
// No runtime, network, or UI logic should be added here.
package domain

import "time"

type MemberID string

func (id MemberID) String() string { return string(id) }

// Member is the identity a presence record and its edges hang off.
// DisplayName and AvatarRef come from the login provider and are opaque here.
type Member struct {
	ID          MemberID
	DisplayName string
	AvatarRef   string
	CreatedAt   time.Time
}
