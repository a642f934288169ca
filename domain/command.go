package domain

import "time"

// Commands carry what the API layer received. Field tags are checked by the
// services before anything is read or written.

type RegisterMemberCommand struct {
	ID          MemberID `validate:"required,max=128,printascii,excludes=:"`
	DisplayName string   `validate:"max=256"`
	AvatarRef   string   `validate:"omitempty,max=2048"`
}

type SetStatusCommand struct {
	MemberID MemberID `validate:"required,max=128"`
	Status   Status
	TTL      time.Duration
}

type ConnectCommand struct {
	A MemberID `validate:"required,max=128"`
	B MemberID `validate:"required,max=128"`
}

type SetVisibilityCommand struct {
	Subject  MemberID `validate:"required,max=128"`
	Observer MemberID `validate:"required,max=128"`
	Visible  bool
}

type PokeCommand struct {
	From MemberID `validate:"required,max=128"`
	To   MemberID `validate:"required,max=128"`
}
