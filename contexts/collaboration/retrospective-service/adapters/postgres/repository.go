package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"retroboard/contexts/collaboration/retrospective-service/domain/entities"
	domainerrors "retroboard/contexts/collaboration/retrospective-service/domain/errors"
	"retroboard/contexts/collaboration/retrospective-service/ports"

	"github.com/jackc/pgx/v5/pgconn"
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

func (r *Repository) Create(ctx context.Context, retro entities.Retrospective) error {
	row, err := retrospectiveModelFromEntity(retro)
	if err != nil {
		return r.logError("retrospective_repo_encode_failed", err,
			"retrospective_id", strings.TrimSpace(retro.RetrospectiveID),
		)
	}
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(&row)
	if create.Error != nil {
		if isUniqueViolation(create.Error) {
			return domainerrors.ErrInvalidInput
		}
		return r.logError("retrospective_repo_create_failed", create.Error,
			"retrospective_id", row.ID,
			"team_id", row.TeamID,
		)
	}
	return nil
}

func (r *Repository) Get(ctx context.Context, retroID string) (entities.Retrospective, error) {
	var row retrospectiveModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(retroID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Retrospective{}, domainerrors.ErrRetrospectiveNotFound
		}
		return entities.Retrospective{}, r.logError("retrospective_repo_get_failed", err,
			"retrospective_id", strings.TrimSpace(retroID),
		)
	}
	return row.toEntity()
}

func (r *Repository) List(ctx context.Context, filter ports.ListFilter) ([]entities.Retrospective, error) {
	tx := r.db.WithContext(ctx).Model(&retrospectiveModel{})
	if strings.TrimSpace(filter.TeamID) != "" {
		tx = tx.Where("team_id = ?", strings.TrimSpace(filter.TeamID))
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, 0, len(filter.Statuses))
		for _, status := range filter.Statuses {
			statuses = append(statuses, string(status))
		}
		tx = tx.Where("status IN ?", statuses)
	}
	if filter.Limit > 0 {
		tx = tx.Limit(filter.Limit)
	}

	var rows []retrospectiveModel
	if err := tx.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, r.logError("retrospective_repo_list_failed", err,
			"team_id", strings.TrimSpace(filter.TeamID),
		)
	}
	items := make([]entities.Retrospective, 0, len(rows))
	for _, row := range rows {
		item, err := row.toEntity()
		if err != nil {
			return nil, r.logError("retrospective_repo_decode_failed", err,
				"retrospective_id", row.ID,
			)
		}
		items = append(items, item)
	}
	return items, nil
}

func (r *Repository) Update(ctx context.Context, retro entities.Retrospective) error {
	row, err := retrospectiveModelFromEntity(retro)
	if err != nil {
		return r.logError("retrospective_repo_encode_failed", err,
			"retrospective_id", strings.TrimSpace(retro.RetrospectiveID),
		)
	}
	result := r.db.WithContext(ctx).
		Model(&retrospectiveModel{}).
		Where("id = ?", row.ID).
		Updates(map[string]any{
			"sprint_name":    row.SprintName,
			"description":    row.Description,
			"facilitator_id": row.FacilitatorID,
			"updated_at":     row.UpdatedAt,
		})
	if result.Error != nil {
		return r.logError("retrospective_repo_update_failed", result.Error,
			"retrospective_id", row.ID,
		)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrRetrospectiveNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, retroID string) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(retroID)).
		Delete(&retrospectiveModel{})
	if result.Error != nil {
		return r.logError("retrospective_repo_delete_failed", result.Error,
			"retrospective_id", strings.TrimSpace(retroID),
		)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrRetrospectiveNotFound
	}
	return nil
}

// TransitionStatus runs the compare-and-set inside one transaction with the
// row locked, so concurrent transitions on the same retrospective serialize
// instead of both reading the stale status.
func (r *Repository) TransitionStatus(
	ctx context.Context,
	retroID string,
	from []entities.Status,
	to entities.Status,
	now time.Time,
) (ports.StatusTransition, error) {
	var transition ports.StatusTransition
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row retrospectiveModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", strings.TrimSpace(retroID)).
			First(&row).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrRetrospectiveNotFound
			}
			return err
		}

		current := entities.Status(row.Status)
		allowed := false
		for _, candidate := range from {
			if candidate == current {
				allowed = true
				break
			}
		}
		if !allowed {
			return domainerrors.ErrInvalidStatus
		}

		updates := map[string]any{
			"status":     string(to),
			"updated_at": now.UTC(),
		}
		switch to {
		case entities.StatusActive:
			updates["started_at"] = now.UTC()
		case entities.StatusCompleted:
			updates["completed_at"] = now.UTC()
		}
		if err := tx.Model(&retrospectiveModel{}).
			Where("id = ?", row.ID).
			Updates(updates).Error; err != nil {
			return err
		}

		row.Status = string(to)
		row.UpdatedAt = now.UTC()
		switch to {
		case entities.StatusActive:
			started := now.UTC()
			row.StartedAt = &started
		case entities.StatusCompleted:
			completed := now.UTC()
			row.CompletedAt = &completed
		}
		retro, err := row.toEntity()
		if err != nil {
			return err
		}
		transition = ports.StatusTransition{
			Previous:      current,
			Current:       to,
			Retrospective: retro,
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrRetrospectiveNotFound) || errors.Is(err, domainerrors.ErrInvalidStatus) {
			return ports.StatusTransition{}, err
		}
		return ports.StatusTransition{}, r.logError("retrospective_repo_transition_failed", err,
			"retrospective_id", strings.TrimSpace(retroID),
			"to_status", string(to),
		)
	}
	return transition, nil
}

func (r *Repository) AdjustItemCount(ctx context.Context, retroID string, delta int, now time.Time) error {
	return r.adjustCount(ctx, retroID, "item_count", delta, now, "retrospective_repo_adjust_item_count_failed")
}

func (r *Repository) AdjustActionItemCount(ctx context.Context, retroID string, delta int, now time.Time) error {
	return r.adjustCount(ctx, retroID, "action_item_count", delta, now, "retrospective_repo_adjust_action_item_count_failed")
}

func (r *Repository) SetParticipantCount(ctx context.Context, retroID string, count int, now time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&retrospectiveModel{}).
		Where("id = ?", strings.TrimSpace(retroID)).
		Updates(map[string]any{
			"participant_count": count,
			"updated_at":        now.UTC(),
		})
	if result.Error != nil {
		return r.logError("retrospective_repo_set_participant_count_failed", result.Error,
			"retrospective_id", strings.TrimSpace(retroID),
		)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrRetrospectiveNotFound
	}
	return nil
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
		Model(&retrospectiveModel{}).
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
		"module", "collaboration/retrospective-service",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("retrospective repository operation failed", fields...)
	return err
}

type retrospectiveModel struct {
	ID               string     `gorm:"column:id;primaryKey"`
	TeamID           string     `gorm:"column:team_id"`
	TeamName         string     `gorm:"column:team_name"`
	SprintName       string     `gorm:"column:sprint_name"`
	Description      string     `gorm:"column:description"`
	TemplateType     string     `gorm:"column:template_type"`
	Columns          []byte     `gorm:"column:columns"`
	VotingConfig     []byte     `gorm:"column:voting_config"`
	Status           string     `gorm:"column:status"`
	CreatedBy        string     `gorm:"column:created_by"`
	FacilitatorID    string     `gorm:"column:facilitator_id"`
	ParticipantCount int        `gorm:"column:participant_count"`
	ItemCount        int        `gorm:"column:item_count"`
	ActionItemCount  int        `gorm:"column:action_item_count"`
	StartedAt        *time.Time `gorm:"column:started_at"`
	CompletedAt      *time.Time `gorm:"column:completed_at"`
	CreatedAt        time.Time  `gorm:"column:created_at"`
	UpdatedAt        time.Time  `gorm:"column:updated_at"`
}

func (retrospectiveModel) TableName() string {
	return "retrospectives"
}

func retrospectiveModelFromEntity(retro entities.Retrospective) (retrospectiveModel, error) {
	columns, err := json.Marshal(retro.Columns)
	if err != nil {
		return retrospectiveModel{}, err
	}
	votingConfig, err := json.Marshal(retro.VotingConfig)
	if err != nil {
		return retrospectiveModel{}, err
	}
	row := retrospectiveModel{
		ID:               strings.TrimSpace(retro.RetrospectiveID),
		TeamID:           strings.TrimSpace(retro.TeamID),
		TeamName:         strings.TrimSpace(retro.TeamName),
		SprintName:       strings.TrimSpace(retro.SprintName),
		Description:      retro.Description,
		TemplateType:     string(retro.TemplateType),
		Columns:          columns,
		VotingConfig:     votingConfig,
		Status:           string(retro.Status),
		CreatedBy:        strings.TrimSpace(retro.CreatedBy),
		FacilitatorID:    strings.TrimSpace(retro.FacilitatorID),
		ParticipantCount: retro.ParticipantCount,
		ItemCount:        retro.ItemCount,
		ActionItemCount:  retro.ActionItemCount,
		StartedAt:        normalizeOptionalTime(retro.StartedAt),
		CompletedAt:      normalizeOptionalTime(retro.CompletedAt),
		CreatedAt:        retro.CreatedAt.UTC(),
		UpdatedAt:        retro.UpdatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = row.CreatedAt
	}
	return row, nil
}

func (m retrospectiveModel) toEntity() (entities.Retrospective, error) {
	var columns []entities.Column
	if len(m.Columns) > 0 {
		if err := json.Unmarshal(m.Columns, &columns); err != nil {
			return entities.Retrospective{}, err
		}
	}
	var votingConfig entities.VotingConfig
	if len(m.VotingConfig) > 0 {
		if err := json.Unmarshal(m.VotingConfig, &votingConfig); err != nil {
			return entities.Retrospective{}, err
		}
	}
	return entities.Retrospective{
		RetrospectiveID:  m.ID,
		TeamID:           m.TeamID,
		TeamName:         m.TeamName,
		SprintName:       m.SprintName,
		Description:      m.Description,
		TemplateType:     entities.TemplateType(m.TemplateType),
		Columns:          columns,
		VotingConfig:     votingConfig,
		Status:           entities.Status(m.Status),
		CreatedBy:        m.CreatedBy,
		FacilitatorID:    m.FacilitatorID,
		ParticipantCount: m.ParticipantCount,
		ItemCount:        m.ItemCount,
		ActionItemCount:  m.ActionItemCount,
		StartedAt:        normalizeOptionalTime(m.StartedAt),
		CompletedAt:      normalizeOptionalTime(m.CompletedAt),
		CreatedAt:        m.CreatedAt.UTC(),
		UpdatedAt:        m.UpdatedAt.UTC(),
	}, nil
}

func normalizeOptionalTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	timestamp := value.UTC()
	return &timestamp
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ ports.RetrospectiveRepository = (*Repository)(nil)
