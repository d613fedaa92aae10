package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"retroboard/contexts/collaboration/board-service/domain/entities"
	domainerrors "retroboard/contexts/collaboration/board-service/domain/errors"
	"retroboard/contexts/collaboration/board-service/ports"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) CreateItem(ctx context.Context, item entities.Item) error {
	row := itemModelFromEntity(item)
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(&row)
	if create.Error != nil {
		return r.logError("board_repo_create_item_failed", create.Error,
			"item_id", row.ID,
			"retrospective_id", row.RetrospectiveID,
		)
	}
	return nil
}

func (r *Repository) GetItem(ctx context.Context, itemID string) (entities.Item, error) {
	var row itemModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(itemID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Item{}, domainerrors.ErrItemNotFound
		}
		return entities.Item{}, r.logError("board_repo_get_item_failed", err,
			"item_id", strings.TrimSpace(itemID),
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) ListItems(ctx context.Context, filter ports.ItemListFilter) ([]entities.Item, error) {
	tx := r.db.WithContext(ctx).Model(&itemModel{}).
		Where("retrospective_id = ?", strings.TrimSpace(filter.RetrospectiveID))
	if strings.TrimSpace(filter.ColumnID) != "" {
		tx = tx.Where("column_id = ?", strings.TrimSpace(filter.ColumnID))
	}
	if filter.SortByVotes {
		tx = tx.Order("vote_count DESC").Order("position ASC")
	} else {
		tx = tx.Order("column_id ASC").Order("position ASC")
	}

	var rows []itemModel
	if err := tx.Find(&rows).Error; err != nil {
		return nil, r.logError("board_repo_list_items_failed", err,
			"retrospective_id", strings.TrimSpace(filter.RetrospectiveID),
		)
	}
	items := make([]entities.Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) UpdateItem(ctx context.Context, item entities.Item) error {
	row := itemModelFromEntity(item)
	result := r.db.WithContext(ctx).
		Model(&itemModel{}).
		Where("id = ?", row.ID).
		Updates(map[string]any{
			"column_id":       row.ColumnID,
			"content":         row.Content,
			"position":        row.Position,
			"has_action_item": row.HasActionItem,
			"updated_at":      row.UpdatedAt,
		})
	if result.Error != nil {
		return r.logError("board_repo_update_item_failed", result.Error, "item_id", row.ID)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrItemNotFound
	}
	return nil
}

func (r *Repository) DeleteItem(ctx context.Context, itemID string) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(itemID)).
		Delete(&itemModel{})
	if result.Error != nil {
		return r.logError("board_repo_delete_item_failed", result.Error,
			"item_id", strings.TrimSpace(itemID),
		)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrItemNotFound
	}
	return nil
}

func (r *Repository) CountItemsByColumn(ctx context.Context, retroID string, columnID string) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&itemModel{}).
		Where("retrospective_id = ?", strings.TrimSpace(retroID)).
		Where("column_id = ?", strings.TrimSpace(columnID)).
		Count(&count).
		Error
	if err != nil {
		return 0, r.logError("board_repo_count_items_failed", err,
			"retrospective_id", strings.TrimSpace(retroID),
			"column_id", strings.TrimSpace(columnID),
		)
	}
	return int(count), nil
}

func (r *Repository) CreateActionItem(ctx context.Context, actionItem entities.ActionItem) error {
	row := actionItemModelFromEntity(actionItem)
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(&row)
	if create.Error != nil {
		return r.logError("board_repo_create_action_item_failed", create.Error,
			"action_item_id", row.ID,
			"team_id", row.TeamID,
		)
	}
	return nil
}

func (r *Repository) GetActionItem(ctx context.Context, actionItemID string) (entities.ActionItem, error) {
	var row actionItemModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(actionItemID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.ActionItem{}, domainerrors.ErrActionItemNotFound
		}
		return entities.ActionItem{}, r.logError("board_repo_get_action_item_failed", err,
			"action_item_id", strings.TrimSpace(actionItemID),
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) ListActionItems(ctx context.Context, filter ports.ActionItemListFilter) ([]entities.ActionItem, error) {
	tx := r.db.WithContext(ctx).Model(&actionItemModel{})
	if strings.TrimSpace(filter.RetrospectiveID) != "" {
		tx = tx.Where("retrospective_id = ?", strings.TrimSpace(filter.RetrospectiveID))
	} else {
		tx = tx.Where("team_id = ?", strings.TrimSpace(filter.TeamID))
		if !filter.IncludeCompleted {
			tx = tx.Where("status NOT IN ?", []string{
				string(entities.ActionItemStatusDone),
				string(entities.ActionItemStatusWontDo),
			})
		}
	}
	if strings.TrimSpace(filter.AssigneeID) != "" {
		tx = tx.Where("assignee_id = ?", strings.TrimSpace(filter.AssigneeID))
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, 0, len(filter.Statuses))
		for _, status := range filter.Statuses {
			statuses = append(statuses, string(status))
		}
		tx = tx.Where("status IN ?", statuses)
	}
	if len(filter.Priorities) > 0 {
		priorities := make([]string, 0, len(filter.Priorities))
		for _, priority := range filter.Priorities {
			priorities = append(priorities, string(priority))
		}
		tx = tx.Where("priority IN ?", priorities)
	}

	var rows []actionItemModel
	if err := tx.Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, r.logError("board_repo_list_action_items_failed", err,
			"retrospective_id", strings.TrimSpace(filter.RetrospectiveID),
			"team_id", strings.TrimSpace(filter.TeamID),
		)
	}
	items := make([]entities.ActionItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) UpdateActionItem(ctx context.Context, actionItem entities.ActionItem) error {
	row := actionItemModelFromEntity(actionItem)
	result := r.db.WithContext(ctx).
		Model(&actionItemModel{}).
		Where("id = ?", row.ID).
		Updates(map[string]any{
			"description":   row.Description,
			"assignee_id":   row.AssigneeID,
			"assignee_name": row.AssigneeName,
			"status":        row.Status,
			"priority":      row.Priority,
			"due_date":      row.DueDate,
			"notes":         row.Notes,
			"updated_at":    row.UpdatedAt,
		})
	if result.Error != nil {
		return r.logError("board_repo_update_action_item_failed", result.Error, "action_item_id", row.ID)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrActionItemNotFound
	}
	return nil
}

func (r *Repository) DeleteActionItem(ctx context.Context, actionItemID string) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(actionItemID)).
		Delete(&actionItemModel{})
	if result.Error != nil {
		return r.logError("board_repo_delete_action_item_failed", result.Error,
			"action_item_id", strings.TrimSpace(actionItemID),
		)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrActionItemNotFound
	}
	return nil
}

func (r *Repository) GetRetrospective(ctx context.Context, retroID string) (ports.RetrospectiveProjection, error) {
	var row retrospectiveProjectionModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(retroID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.RetrospectiveProjection{}, domainerrors.ErrRetrospectiveNotFound
		}
		return ports.RetrospectiveProjection{}, r.logError("board_repo_get_retrospective_failed", err,
			"retrospective_id", strings.TrimSpace(retroID),
		)
	}

	var columns []struct {
		ColumnID string `json:"column_id"`
	}
	if len(row.Columns) > 0 {
		if err := json.Unmarshal(row.Columns, &columns); err != nil {
			return ports.RetrospectiveProjection{}, r.logError("board_repo_decode_columns_failed", err,
				"retrospective_id", row.ID,
			)
		}
	}
	columnIDs := make([]string, 0, len(columns))
	for _, column := range columns {
		columnIDs = append(columnIDs, column.ColumnID)
	}
	return ports.RetrospectiveProjection{
		RetrospectiveID: row.ID,
		TeamID:          row.TeamID,
		SprintName:      row.SprintName,
		Status:          row.Status,
		ColumnIDs:       columnIDs,
	}, nil
}

func (r *Repository) AdjustItemCount(ctx context.Context, retroID string, delta int, now time.Time) error {
	return r.adjustCount(ctx, retroID, "item_count", delta, now, "board_repo_adjust_item_count_failed")
}

func (r *Repository) AdjustActionItemCount(ctx context.Context, retroID string, delta int, now time.Time) error {
	return r.adjustCount(ctx, retroID, "action_item_count", delta, now, "board_repo_adjust_action_item_count_failed")
}

func (r *Repository) adjustCount(
	ctx context.Context,
	retroID string,
	column string,
	delta int,
	now time.Time,
	event string,
) error {
	result := r.db.WithContext(ctx).
		Model(&retrospectiveProjectionModel{}).
		Where("id = ?", strings.TrimSpace(retroID)).
		Updates(map[string]any{
			column:       gorm.Expr("GREATEST("+column+" + ?, 0)", delta),
			"updated_at": now.UTC(),
		})
	if result.Error != nil {
		return r.logError(event, result.Error,
			"retrospective_id", strings.TrimSpace(retroID),
			"delta", delta,
		)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrRetrospectiveNotFound
	}
	return nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "collaboration/board-service",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("board repository operation failed", fields...)
	return err
}

type itemModel struct {
	ID              string    `gorm:"column:id;primaryKey"`
	RetrospectiveID string    `gorm:"column:retrospective_id"`
	ColumnID        string    `gorm:"column:column_id"`
	Content         string    `gorm:"column:content"`
	CreatedBy       string    `gorm:"column:created_by"`
	CreatedByName   string    `gorm:"column:created_by_name"`
	VoteCount       int       `gorm:"column:vote_count"`
	IsAnonymous     bool      `gorm:"column:is_anonymous"`
	Position        int       `gorm:"column:position"`
	HasActionItem   bool      `gorm:"column:has_action_item"`
	CreatedAt       time.Time `gorm:"column:created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (itemModel) TableName() string {
	return "retrospective_items"
}

func itemModelFromEntity(item entities.Item) itemModel {
	row := itemModel{
		ID:              strings.TrimSpace(item.ItemID),
		RetrospectiveID: strings.TrimSpace(item.RetrospectiveID),
		ColumnID:        strings.TrimSpace(item.ColumnID),
		Content:         item.Content,
		CreatedBy:       strings.TrimSpace(item.CreatedBy),
		CreatedByName:   strings.TrimSpace(item.CreatedByName),
		VoteCount:       item.VoteCount,
		IsAnonymous:     item.IsAnonymous,
		Position:        item.Position,
		HasActionItem:   item.HasActionItem,
		CreatedAt:       item.CreatedAt.UTC(),
		UpdatedAt:       item.UpdatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = row.CreatedAt
	}
	return row
}

func (m itemModel) toEntity() entities.Item {
	return entities.Item{
		ItemID:          m.ID,
		RetrospectiveID: m.RetrospectiveID,
		ColumnID:        m.ColumnID,
		Content:         m.Content,
		CreatedBy:       m.CreatedBy,
		CreatedByName:   m.CreatedByName,
		VoteCount:       m.VoteCount,
		IsAnonymous:     m.IsAnonymous,
		Position:        m.Position,
		HasActionItem:   m.HasActionItem,
		CreatedAt:       m.CreatedAt.UTC(),
		UpdatedAt:       m.UpdatedAt.UTC(),
	}
}

type actionItemModel struct {
	ID               string     `gorm:"column:id;primaryKey"`
	RetrospectiveID  string     `gorm:"column:retrospective_id"`
	SourceItemID     string     `gorm:"column:source_item_id"`
	TeamID           string     `gorm:"column:team_id"`
	Description      string     `gorm:"column:description"`
	AssigneeID       string     `gorm:"column:assignee_id"`
	AssigneeName     string     `gorm:"column:assignee_name"`
	Status           string     `gorm:"column:status"`
	Priority         string     `gorm:"column:priority"`
	DueDate          *time.Time `gorm:"column:due_date"`
	CreatedBy        string     `gorm:"column:created_by"`
	SourceSprintName string     `gorm:"column:source_sprint_name"`
	Notes            string     `gorm:"column:notes"`
	CreatedAt        time.Time  `gorm:"column:created_at"`
	UpdatedAt        time.Time  `gorm:"column:updated_at"`
}

func (actionItemModel) TableName() string {
	return "action_items"
}

func actionItemModelFromEntity(actionItem entities.ActionItem) actionItemModel {
	row := actionItemModel{
		ID:               strings.TrimSpace(actionItem.ActionItemID),
		RetrospectiveID:  strings.TrimSpace(actionItem.RetrospectiveID),
		SourceItemID:     strings.TrimSpace(actionItem.SourceItemID),
		TeamID:           strings.TrimSpace(actionItem.TeamID),
		Description:      actionItem.Description,
		AssigneeID:       strings.TrimSpace(actionItem.AssigneeID),
		AssigneeName:     strings.TrimSpace(actionItem.AssigneeName),
		Status:           string(actionItem.Status),
		Priority:         string(actionItem.Priority),
		DueDate:          normalizeOptionalTime(actionItem.DueDate),
		CreatedBy:        strings.TrimSpace(actionItem.CreatedBy),
		SourceSprintName: actionItem.SourceSprintName,
		Notes:            actionItem.Notes,
		CreatedAt:        actionItem.CreatedAt.UTC(),
		UpdatedAt:        actionItem.UpdatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = row.CreatedAt
	}
	return row
}

func (m actionItemModel) toEntity() entities.ActionItem {
	return entities.ActionItem{
		ActionItemID:     m.ID,
		RetrospectiveID:  m.RetrospectiveID,
		SourceItemID:     m.SourceItemID,
		TeamID:           m.TeamID,
		Description:      m.Description,
		AssigneeID:       m.AssigneeID,
		AssigneeName:     m.AssigneeName,
		Status:           entities.ActionItemStatus(m.Status),
		Priority:         entities.ActionItemPriority(m.Priority),
		DueDate:          normalizeOptionalTime(m.DueDate),
		CreatedBy:        m.CreatedBy,
		SourceSprintName: m.SourceSprintName,
		Notes:            m.Notes,
		CreatedAt:        m.CreatedAt.UTC(),
		UpdatedAt:        m.UpdatedAt.UTC(),
	}
}

type retrospectiveProjectionModel struct {
	ID         string `gorm:"column:id;primaryKey"`
	TeamID     string `gorm:"column:team_id"`
	SprintName string `gorm:"column:sprint_name"`
	Status     string `gorm:"column:status"`
	Columns    []byte `gorm:"column:columns"`
}

func (retrospectiveProjectionModel) TableName() string {
	return "retrospectives"
}

func normalizeOptionalTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	timestamp := value.UTC()
	return &timestamp
}

var _ ports.ItemRepository = (*Repository)(nil)
var _ ports.ActionItemRepository = (*Repository)(nil)
var _ ports.RetrospectiveReader = (*Repository)(nil)
