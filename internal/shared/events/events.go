package events

import "time"

// Type tags the payload variant carried by an Event.
type Type string

const (
	TypeItemCreated       Type = "item.created"
	TypeItemUpdated       Type = "item.updated"
	TypeItemDeleted       Type = "item.deleted"
	TypeVoteCast          Type = "vote.cast"
	TypeVoteRemoved       Type = "vote.removed"
	TypeParticipantJoined Type = "participant.joined"
	TypeParticipantLeft   Type = "participant.left"
	TypeStatusChanged     Type = "status.changed"
	TypeActionItemCreated Type = "action_item.created"
	TypeActionItemUpdated Type = "action_item.updated"
)

// Event is the retrospective event envelope fanned out to subscribers.
// Exactly one payload pointer is set, selected by Type. Payloads carry only
// what a subscriber needs to update its local view.
type Event struct {
	RetrospectiveID string    `json:"retrospective_id"`
	Type            Type      `json:"type"`
	OccurredAtUTC   time.Time `json:"occurred_at_utc"`

	ItemCreated       *ItemPayload       `json:"item_created,omitempty"`
	ItemUpdated       *ItemPayload       `json:"item_updated,omitempty"`
	ItemDeleted       *ItemDeleted       `json:"item_deleted,omitempty"`
	VoteCast          *VoteChange        `json:"vote_cast,omitempty"`
	VoteRemoved       *VoteChange        `json:"vote_removed,omitempty"`
	ParticipantJoined *ParticipantJoined `json:"participant_joined,omitempty"`
	ParticipantLeft   *ParticipantLeft   `json:"participant_left,omitempty"`
	StatusChanged     *StatusChanged     `json:"status_changed,omitempty"`
	ActionItemCreated *ActionItemPayload `json:"action_item_created,omitempty"`
	ActionItemUpdated *ActionItemPayload `json:"action_item_updated,omitempty"`
}

// ItemPayload is the board card snapshot broadcast on create/update.
type ItemPayload struct {
	ItemID        string `json:"item_id"`
	ColumnID      string `json:"column_id"`
	Content       string `json:"content"`
	CreatedBy     string `json:"created_by,omitempty"`
	CreatedByName string `json:"created_by_name,omitempty"`
	VoteCount     int    `json:"vote_count"`
	IsAnonymous   bool   `json:"is_anonymous"`
	Position      int    `json:"position"`
}

type ItemDeleted struct {
	ItemID   string `json:"item_id"`
	ColumnID string `json:"column_id"`
}

// VoteChange carries the item's counter after the cast/remove, so viewers
// never re-fetch the item.
type VoteChange struct {
	ItemID       string `json:"item_id"`
	NewVoteCount int    `json:"new_vote_count"`
	UserID       string `json:"user_id"`
}

type ParticipantJoined struct {
	UserID           string    `json:"user_id"`
	DisplayName      string    `json:"display_name"`
	AvatarURL        string    `json:"avatar_url,omitempty"`
	Role             string    `json:"role"`
	JoinedAt         time.Time `json:"joined_at"`
	ParticipantCount int       `json:"participant_count"`
}

type ParticipantLeft struct {
	UserID           string `json:"user_id"`
	ParticipantCount int    `json:"participant_count"`
}

type StatusChanged struct {
	PreviousStatus string `json:"previous_status"`
	NewStatus      string `json:"new_status"`
	ChangedBy      string `json:"changed_by"`
}

type ActionItemPayload struct {
	ActionItemID string `json:"action_item_id"`
	SourceItemID string `json:"source_item_id,omitempty"`
	Description  string `json:"description"`
	AssigneeID   string `json:"assignee_id,omitempty"`
	AssigneeName string `json:"assignee_name,omitempty"`
	Status       string `json:"status"`
	Priority     string `json:"priority"`
}

// New builds the envelope for a payload already attached by the caller.
func New(retroID string, eventType Type, occurredAt time.Time) Event {
	return Event{
		RetrospectiveID: retroID,
		Type:            eventType,
		OccurredAtUTC:   occurredAt.UTC(),
	}
}
