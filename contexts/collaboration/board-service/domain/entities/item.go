package entities

import "time"

// Item is a card on the retrospective board.
type Item struct {
	ItemID          string
	RetrospectiveID string
	ColumnID        string
	Content         string
	CreatedBy       string
	CreatedByName   string
	VoteCount       int
	IsAnonymous     bool
	Position        int
	HasActionItem   bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type ActionItemStatus string

const (
	ActionItemStatusNotStarted ActionItemStatus = "not_started"
	ActionItemStatusInProgress ActionItemStatus = "in_progress"
	ActionItemStatusDone       ActionItemStatus = "done"
	ActionItemStatusWontDo     ActionItemStatus = "wont_do"
)

func (s ActionItemStatus) IsValid() bool {
	switch s {
	case ActionItemStatusNotStarted, ActionItemStatusInProgress, ActionItemStatusDone, ActionItemStatusWontDo:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the action item no longer needs follow-up.
func (s ActionItemStatus) IsTerminal() bool {
	return s == ActionItemStatusDone || s == ActionItemStatusWontDo
}

type ActionItemPriority string

const (
	ActionItemPriorityLow      ActionItemPriority = "low"
	ActionItemPriorityMedium   ActionItemPriority = "medium"
	ActionItemPriorityHigh     ActionItemPriority = "high"
	ActionItemPriorityCritical ActionItemPriority = "critical"
)

func (p ActionItemPriority) IsValid() bool {
	switch p {
	case ActionItemPriorityLow, ActionItemPriorityMedium, ActionItemPriorityHigh, ActionItemPriorityCritical:
		return true
	default:
		return false
	}
}

// ActionItem is a follow-up task carved out of a retrospective. Action items
// outlive the session they came from, so they carry the team and sprint for
// cross-retrospective listings.
type ActionItem struct {
	ActionItemID     string
	RetrospectiveID  string
	SourceItemID     string
	TeamID           string
	Description      string
	AssigneeID       string
	AssigneeName     string
	Status           ActionItemStatus
	Priority         ActionItemPriority
	DueDate          *time.Time
	CreatedBy        string
	SourceSprintName string
	Notes            string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
