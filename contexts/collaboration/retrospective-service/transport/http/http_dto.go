package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ColumnPayload struct {
	ColumnID    string `json:"column_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
	SortOrder   int    `json:"sort_order"`
	Color       string `json:"color,omitempty"`
}

type VotingConfigPayload struct {
	MaxVotesPerUser           int  `json:"max_votes_per_user"`
	AllowMultipleVotesPerItem bool `json:"allow_multiple_votes_per_item"`
	AnonymousVoting           bool `json:"anonymous_voting"`
}

type CreateRetrospectiveRequest struct {
	TeamID        string               `json:"team_id"`
	TeamName      string               `json:"team_name"`
	SprintName    string               `json:"sprint_name"`
	Description   string               `json:"description,omitempty"`
	TemplateType  string               `json:"template_type,omitempty"`
	CustomColumns []ColumnPayload      `json:"custom_columns,omitempty"`
	VotingConfig  *VotingConfigPayload `json:"voting_config,omitempty"`
	FacilitatorID string               `json:"facilitator_id,omitempty"`
}

type UpdateRetrospectiveRequest struct {
	SprintName    *string `json:"sprint_name,omitempty"`
	Description   *string `json:"description,omitempty"`
	FacilitatorID *string `json:"facilitator_id,omitempty"`
}

type RetrospectiveResponse struct {
	RetrospectiveID  string              `json:"retrospective_id"`
	TeamID           string              `json:"team_id"`
	TeamName         string              `json:"team_name"`
	SprintName       string              `json:"sprint_name"`
	Description      string              `json:"description,omitempty"`
	TemplateType     string              `json:"template_type"`
	Columns          []ColumnPayload     `json:"columns"`
	VotingConfig     VotingConfigPayload `json:"voting_config"`
	Status           string              `json:"status"`
	CreatedBy        string              `json:"created_by"`
	FacilitatorID    string              `json:"facilitator_id"`
	ParticipantCount int                 `json:"participant_count"`
	ItemCount        int                 `json:"item_count"`
	ActionItemCount  int                 `json:"action_item_count"`
	StartedAt        string              `json:"started_at,omitempty"`
	CompletedAt      string              `json:"completed_at,omitempty"`
	CreatedAt        string              `json:"created_at"`
	UpdatedAt        string              `json:"updated_at"`
}

type RetrospectiveListResponse struct {
	Items []RetrospectiveResponse `json:"items"`
}
