package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"retroboard/contexts/collaboration/presence-service/domain/entities"
	domainerrors "retroboard/contexts/collaboration/presence-service/domain/errors"
	"retroboard/contexts/collaboration/presence-service/ports"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// participantTTL drives the expires_at column so a durable store TTL can
// evict rows without the sweep worker.
const participantTTL = 24 * time.Hour

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

type participantModel struct {
	ID              string    `gorm:"column:id;primaryKey"`
	RetrospectiveID string    `gorm:"column:retrospective_id"`
	UserID          string    `gorm:"column:user_id"`
	DisplayName     string    `gorm:"column:display_name"`
	AvatarURL       string    `gorm:"column:avatar_url"`
	Role            string    `gorm:"column:role"`
	IsOnline        bool      `gorm:"column:is_online"`
	JoinedAt        time.Time `gorm:"column:joined_at"`
	LastActive      time.Time `gorm:"column:last_active"`
	ExpiresAt       time.Time `gorm:"column:expires_at"`
}

func (participantModel) TableName() string {
	return "retrospective_participants"
}

func participantModelFromEntity(participant entities.Participant) participantModel {
	return participantModel{
		ID:              participant.ParticipantID,
		RetrospectiveID: participant.RetrospectiveID,
		UserID:          participant.UserID,
		DisplayName:     participant.DisplayName,
		AvatarURL:       participant.AvatarURL,
		Role:            string(participant.Role),
		IsOnline:        participant.IsOnline,
		JoinedAt:        participant.JoinedAt.UTC(),
		LastActive:      participant.LastActive.UTC(),
		ExpiresAt:       participant.LastActive.UTC().Add(participantTTL),
	}
}

func (m participantModel) toEntity() entities.Participant {
	return entities.Participant{
		ParticipantID:   m.ID,
		RetrospectiveID: m.RetrospectiveID,
		UserID:          m.UserID,
		DisplayName:     m.DisplayName,
		AvatarURL:       m.AvatarURL,
		Role:            entities.Role(m.Role),
		IsOnline:        m.IsOnline,
		JoinedAt:        m.JoinedAt,
		LastActive:      m.LastActive,
	}
}

func (r *Repository) UpsertParticipant(ctx context.Context, participant entities.Participant) error {
	row := participantModelFromEntity(participant)
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"display_name", "avatar_url", "role", "is_online", "last_active", "expires_at",
		}),
	}).Create(&row)
	if result.Error != nil {
		return r.logError("presence_repo_upsert_failed", result.Error,
			"participant_id", row.ID,
		)
	}
	return nil
}

func (r *Repository) GetParticipant(ctx context.Context, retroID, userID string) (entities.Participant, bool, error) {
	var row participantModel
	err := r.db.WithContext(ctx).
		Where("id = ?", entities.ParticipantID(strings.TrimSpace(retroID), strings.TrimSpace(userID))).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Participant{}, false, nil
		}
		return entities.Participant{}, false, r.logError("presence_repo_get_failed", err,
			"retrospective_id", strings.TrimSpace(retroID),
			"user_id", strings.TrimSpace(userID),
		)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) ListOnlineParticipants(ctx context.Context, retroID string) ([]entities.Participant, error) {
	var rows []participantModel
	err := r.db.WithContext(ctx).
		Where("retrospective_id = ? AND is_online = ?", strings.TrimSpace(retroID), true).
		Order("joined_at ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("presence_repo_list_failed", err,
			"retrospective_id", strings.TrimSpace(retroID),
		)
	}
	participants := make([]entities.Participant, 0, len(rows))
	for _, row := range rows {
		participants = append(participants, row.toEntity())
	}
	return participants, nil
}

func (r *Repository) MarkStaleOffline(ctx context.Context, cutoff time.Time) (int, error) {
	result := r.db.WithContext(ctx).
		Model(&participantModel{}).
		Where("is_online = ? AND last_active < ?", true, cutoff.UTC()).
		Update("is_online", false)
	if result.Error != nil {
		return 0, r.logError("presence_repo_offline_sweep_failed", result.Error)
	}
	return int(result.RowsAffected), nil
}

func (r *Repository) DeleteExpiredParticipants(ctx context.Context, cutoff time.Time) (int, error) {
	result := r.db.WithContext(ctx).
		Where("last_active < ?", cutoff.UTC()).
		Delete(&participantModel{})
	if result.Error != nil {
		return 0, r.logError("presence_repo_expiry_sweep_failed", result.Error)
	}
	return int(result.RowsAffected), nil
}

type retrospectiveCountModel struct {
	ID string `gorm:"column:id;primaryKey"`
}

func (retrospectiveCountModel) TableName() string {
	return "retrospectives"
}

func (r *Repository) GetRetrospective(ctx context.Context, retroID string) (ports.RetrospectiveProjection, error) {
	var row struct {
		ID            string `gorm:"column:id"`
		FacilitatorID string `gorm:"column:facilitator_id"`
	}
	err := r.db.WithContext(ctx).
		Table("retrospectives").
		Select("id", "facilitator_id").
		Where("id = ?", strings.TrimSpace(retroID)).
		Take(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.RetrospectiveProjection{}, domainerrors.ErrRetrospectiveNotFound
		}
		return ports.RetrospectiveProjection{}, r.logError("presence_repo_retrospective_get_failed", err,
			"retrospective_id", strings.TrimSpace(retroID),
		)
	}
	return ports.RetrospectiveProjection{
		RetrospectiveID: row.ID,
		FacilitatorID:   row.FacilitatorID,
	}, nil
}

func (r *Repository) SetParticipantCount(ctx context.Context, retroID string, count int, now time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&retrospectiveCountModel{}).
		Where("id = ?", strings.TrimSpace(retroID)).
		Updates(map[string]any{
			"participant_count": count,
			"updated_at":        now.UTC(),
		})
	if result.Error != nil {
		return r.logError("presence_repo_set_count_failed", result.Error,
			"retrospective_id", strings.TrimSpace(retroID),
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
		"module", "collaboration/presence-service",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("presence repository operation failed", fields...)
	return err
}

var (
	_ ports.ParticipantRepository   = (*Repository)(nil)
	_ ports.PresenceSweepRepository = (*Repository)(nil)
	_ ports.RetrospectiveReader     = (*Repository)(nil)
)
