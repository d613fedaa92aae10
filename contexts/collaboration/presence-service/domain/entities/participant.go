package entities

import "time"

// Role describes what a participant may do inside a session.
type Role string

const (
	RoleMember      Role = "member"
	RoleFacilitator Role = "facilitator"
	RoleObserver    Role = "observer"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleMember, RoleFacilitator, RoleObserver:
		return true
	default:
		return false
	}
}

// Participant is a user's presence inside one retrospective. Identity is the
// (retrospective_id, user_id) pair; ParticipantID is the derived composite
// key. The record is ephemeral: Leave flips it offline, a later Join or
// Heartbeat revives it, and only the expiry sweep removes the row.
type Participant struct {
	ParticipantID   string
	RetrospectiveID string
	UserID          string
	DisplayName     string
	AvatarURL       string
	Role            Role
	IsOnline        bool
	JoinedAt        time.Time
	LastActive      time.Time
}

// ParticipantID derives the composite key used by every store.
func ParticipantID(retroID, userID string) string {
	return retroID + ":" + userID
}
