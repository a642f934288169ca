package domain

import "time"

// Edge is the directed permission Subject -> Observer.
// Visible tells whether Observer may see Subject's presence.
// Edges only come in pairs, one per direction, created by a connection.
type Edge struct {
	Subject   MemberID
	Observer  MemberID
	Visible   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
