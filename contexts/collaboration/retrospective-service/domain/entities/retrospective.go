package entities

import "time"

// Status is the retrospective phase. It only ever moves forward through the
// transition graph; COMPLETED is terminal.
type Status string

const (
	StatusDraft      Status = "draft"
	StatusActive     Status = "active"
	StatusVoting     Status = "voting"
	StatusDiscussing Status = "discussing"
	StatusCompleted  Status = "completed"
)

// Allowed source sets per transition. Repositories enforce these
// compare-and-swap style so two concurrent transitions cannot both succeed.
var (
	ActivateSources        = []Status{StatusDraft}
	StartVotingSources     = []Status{StatusDraft, StatusActive}
	StartDiscussionSources = []Status{StatusVoting}
	CompleteSources        = []Status{StatusDraft, StatusActive, StatusVoting, StatusDiscussing}
)

func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusActive, StatusVoting, StatusDiscussing, StatusCompleted:
		return true
	default:
		return false
	}
}

type TemplateType string

const (
	TemplateWentWellToImprove TemplateType = "went_well_to_improve"
	TemplateStartStopContinue TemplateType = "start_stop_continue"
	TemplateFourLs            TemplateType = "four_ls"
	TemplateMadSadGlad        TemplateType = "mad_sad_glad"
	TemplateCustom            TemplateType = "custom"
)

// Column is one board column from the retrospective's template.
type Column struct {
	ColumnID    string `json:"column_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
	SortOrder   int    `json:"sort_order"`
	Color       string `json:"color,omitempty"`
}

// VotingConfig holds the per-retrospective voting rules.
type VotingConfig struct {
	MaxVotesPerUser           int  `json:"max_votes_per_user"`
	AllowMultipleVotesPerItem bool `json:"allow_multiple_votes_per_item"`
	AnonymousVoting           bool `json:"anonymous_voting"`
}

// Retrospective is a single sprint review session. The item, action-item and
// participant counts are denormalized and owned by the engines that create or
// delete the corresponding child rows.
type Retrospective struct {
	RetrospectiveID  string
	TeamID           string
	TeamName         string
	SprintName       string
	Description      string
	TemplateType     TemplateType
	Columns          []Column
	Status           Status
	VotingConfig     VotingConfig
	CreatedBy        string
	FacilitatorID    string
	ItemCount        int
	ActionItemCount  int
	ParticipantCount int
	StartedAt        *time.Time
	CompletedAt      *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// HasColumn reports whether the board defines the given column.
func (r Retrospective) HasColumn(columnID string) bool {
	for _, col := range r.Columns {
		if col.ColumnID == columnID {
			return true
		}
	}
	return false
}

// DefaultColumns returns the built-in column set for a template. Unknown and
// custom templates fall back to the went-well format.
func DefaultColumns(template TemplateType) []Column {
	switch template {
	case TemplateStartStopContinue:
		return []Column{
			{ColumnID: "start", Name: "Start", Description: "Things we should start doing", Icon: "rocket", SortOrder: 1, Color: "#22c55e"},
			{ColumnID: "stop", Name: "Stop", Description: "Things we should stop doing", Icon: "stop", SortOrder: 2, Color: "#ef4444"},
			{ColumnID: "continue", Name: "Continue", Description: "Things we should keep doing", Icon: "arrow-right", SortOrder: 3, Color: "#3b82f6"},
		}
	case TemplateFourLs:
		return []Column{
			{ColumnID: "liked", Name: "Liked", Description: "What we liked", Icon: "heart", SortOrder: 1, Color: "#ec4899"},
			{ColumnID: "learned", Name: "Learned", Description: "What we learned", Icon: "book", SortOrder: 2, Color: "#8b5cf6"},
			{ColumnID: "lacked", Name: "Lacked", Description: "What was lacking", Icon: "question", SortOrder: 3, Color: "#f59e0b"},
			{ColumnID: "longed_for", Name: "Longed For", Description: "What we wish we had", Icon: "sparkles", SortOrder: 4, Color: "#06b6d4"},
		}
	case TemplateMadSadGlad:
		return []Column{
			{ColumnID: "mad", Name: "Mad", Description: "Things that frustrated us", Icon: "angry", SortOrder: 1, Color: "#ef4444"},
			{ColumnID: "sad", Name: "Sad", Description: "Things that disappointed us", Icon: "sad", SortOrder: 2, Color: "#6366f1"},
			{ColumnID: "glad", Name: "Glad", Description: "Things that made us happy", Icon: "smile", SortOrder: 3, Color: "#22c55e"},
		}
	default:
		return []Column{
			{ColumnID: "went_well", Name: "What Went Well", Description: "Things that worked well this sprint", Icon: "thumbs-up", SortOrder: 1, Color: "#22c55e"},
			{ColumnID: "to_improve", Name: "What To Improve", Description: "Things that could be better", Icon: "wrench", SortOrder: 2, Color: "#f59e0b"},
			{ColumnID: "action_items", Name: "Action Items", Description: "Specific actions to take", Icon: "check", SortOrder: 3, Color: "#3b82f6"},
		}
	}
}
