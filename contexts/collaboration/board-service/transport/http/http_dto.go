package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CreateItemRequest struct {
	ColumnID    string `json:"column_id"`
	Content     string `json:"content"`
	IsAnonymous bool   `json:"is_anonymous,omitempty"`
}

type UpdateItemRequest struct {
	Content *string `json:"content,omitempty"`
}

type MoveItemRequest struct {
	TargetColumnID string `json:"target_column_id"`
	Position       int    `json:"position"`
}

type ItemResponse struct {
	ItemID          string `json:"item_id"`
	RetrospectiveID string `json:"retrospective_id"`
	ColumnID        string `json:"column_id"`
	Content         string `json:"content"`
	CreatedBy       string `json:"created_by,omitempty"`
	CreatedByName   string `json:"created_by_name,omitempty"`
	VoteCount       int    `json:"vote_count"`
	IsAnonymous     bool   `json:"is_anonymous"`
	Position        int    `json:"position"`
	HasActionItem   bool   `json:"has_action_item"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
}

type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
}

type CreateActionItemRequest struct {
	RetrospectiveID string `json:"retrospective_id,omitempty"`
	SourceItemID    string `json:"source_item_id,omitempty"`
	TeamID          string `json:"team_id,omitempty"`
	Description     string `json:"description"`
	AssigneeID      string `json:"assignee_id,omitempty"`
	AssigneeName    string `json:"assignee_name,omitempty"`
	Priority        string `json:"priority,omitempty"`
	DueDate         string `json:"due_date,omitempty"`
}

type UpdateActionItemRequest struct {
	Description  *string `json:"description,omitempty"`
	AssigneeID   *string `json:"assignee_id,omitempty"`
	AssigneeName *string `json:"assignee_name,omitempty"`
	Status       *string `json:"status,omitempty"`
	Priority     *string `json:"priority,omitempty"`
	DueDate      *string `json:"due_date,omitempty"`
	Notes        *string `json:"notes,omitempty"`
}

type UpdateActionItemStatusRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes,omitempty"`
}

type ActionItemResponse struct {
	ActionItemID     string `json:"action_item_id"`
	RetrospectiveID  string `json:"retrospective_id,omitempty"`
	SourceItemID     string `json:"source_item_id,omitempty"`
	TeamID           string `json:"team_id"`
	Description      string `json:"description"`
	AssigneeID       string `json:"assignee_id,omitempty"`
	AssigneeName     string `json:"assignee_name,omitempty"`
	Status           string `json:"status"`
	Priority         string `json:"priority"`
	DueDate          string `json:"due_date,omitempty"`
	CreatedBy        string `json:"created_by"`
	SourceSprintName string `json:"source_sprint_name,omitempty"`
	Notes            string `json:"notes,omitempty"`
	CreatedAt        string `json:"created_at"`
	UpdatedAt        string `json:"updated_at"`
}

type ActionItemListResponse struct {
	Items []ActionItemResponse `json:"items"`
}
