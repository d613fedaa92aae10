package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"retroboard/contexts/collaboration/voting-engine/domain/entities"
	domainerrors "retroboard/contexts/collaboration/voting-engine/domain/errors"
	"retroboard/contexts/collaboration/voting-engine/ports"

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

func (r *Repository) SaveVote(ctx context.Context, vote entities.Vote) error {
	row := voteModelFromEntity(vote)
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(&row)
	if create.Error != nil {
		if isUniqueViolation(create.Error) {
			return domainerrors.ErrAlreadyVoted
		}
		return r.logError("voting_repo_save_vote_failed", create.Error,
			"vote_id", row.ID,
			"item_id", row.ItemID,
			"user_id", row.UserID,
		)
	}
	return nil
}

func (r *Repository) DeleteVote(ctx context.Context, voteID string) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(voteID)).
		Delete(&voteModel{})
	if result.Error != nil {
		return r.logError("voting_repo_delete_vote_failed", result.Error,
			"vote_id", strings.TrimSpace(voteID),
		)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrVoteNotFound
	}
	return nil
}

func (r *Repository) GetVoteByUserAndItem(
	ctx context.Context,
	retroID string,
	itemID string,
	userID string,
) (entities.Vote, bool, error) {
	var row voteModel
	err := r.db.WithContext(ctx).
		Where("retrospective_id = ?", strings.TrimSpace(retroID)).
		Where("item_id = ?", strings.TrimSpace(itemID)).
		Where("user_id = ?", strings.TrimSpace(userID)).
		Order("created_at ASC").
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Vote{}, false, nil
		}
		return entities.Vote{}, false, r.logError("voting_repo_get_vote_failed", err,
			"retrospective_id", strings.TrimSpace(retroID),
			"item_id", strings.TrimSpace(itemID),
			"user_id", strings.TrimSpace(userID),
		)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) CountVotesByUser(ctx context.Context, retroID string, userID string) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&voteModel{}).
		Where("retrospective_id = ?", strings.TrimSpace(retroID)).
		Where("user_id = ?", strings.TrimSpace(userID)).
		Count(&count).
		Error
	if err != nil {
		return 0, r.logError("voting_repo_count_votes_failed", err,
			"retrospective_id", strings.TrimSpace(retroID),
			"user_id", strings.TrimSpace(userID),
		)
	}
	return int(count), nil
}

func (r *Repository) ListVotesByUser(ctx context.Context, retroID string, userID string) ([]entities.Vote, error) {
	var rows []voteModel
	err := r.db.WithContext(ctx).
		Where("retrospective_id = ?", strings.TrimSpace(retroID)).
		Where("user_id = ?", strings.TrimSpace(userID)).
		Order("created_at ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("voting_repo_list_votes_failed", err,
			"retrospective_id", strings.TrimSpace(retroID),
			"user_id", strings.TrimSpace(userID),
		)
	}
	items := make([]entities.Vote, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) GetItem(ctx context.Context, itemID string) (ports.ItemProjection, error) {
	var row itemProjectionModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(itemID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.ItemProjection{}, domainerrors.ErrItemNotFound
		}
		return ports.ItemProjection{}, r.logError("voting_repo_get_item_failed", err,
			"item_id", strings.TrimSpace(itemID),
		)
	}
	return row.toProjection(), nil
}

func (r *Repository) ListItems(ctx context.Context, retroID string) ([]ports.ItemProjection, error) {
	var rows []itemProjectionModel
	err := r.db.WithContext(ctx).
		Where("retrospective_id = ?", strings.TrimSpace(retroID)).
		Order("column_id ASC").
		Order("position ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("voting_repo_list_items_failed", err,
			"retrospective_id", strings.TrimSpace(retroID),
		)
	}
	items := make([]ports.ItemProjection, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toProjection())
	}
	return items, nil
}

// IncrementVoteCount bumps the counter in a single statement and returns the
// stored value, so concurrent casts on the same item never lose an update.
func (r *Repository) IncrementVoteCount(ctx context.Context, itemID string) (int, error) {
	return r.adjustVoteCount(ctx, itemID,
		"UPDATE retrospective_items SET vote_count = vote_count + 1, updated_at = ? WHERE id = ? RETURNING vote_count",
		"voting_repo_increment_failed",
	)
}

func (r *Repository) DecrementVoteCount(ctx context.Context, itemID string) (int, error) {
	return r.adjustVoteCount(ctx, itemID,
		"UPDATE retrospective_items SET vote_count = GREATEST(vote_count - 1, 0), updated_at = ? WHERE id = ? RETURNING vote_count",
		"voting_repo_decrement_failed",
	)
}

func (r *Repository) adjustVoteCount(ctx context.Context, itemID string, query string, event string) (int, error) {
	var newCount int
	result := r.db.WithContext(ctx).
		Raw(query, time.Now().UTC(), strings.TrimSpace(itemID)).
		Scan(&newCount)
	if result.Error != nil {
		return 0, r.logError(event, result.Error, "item_id", strings.TrimSpace(itemID))
	}
	if result.RowsAffected == 0 {
		return 0, domainerrors.ErrItemNotFound
	}
	return newCount, nil
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
		return ports.RetrospectiveProjection{}, r.logError("voting_repo_get_retrospective_failed", err,
			"retrospective_id", strings.TrimSpace(retroID),
		)
	}

	var config struct {
		MaxVotesPerUser           int  `json:"max_votes_per_user"`
		AllowMultipleVotesPerItem bool `json:"allow_multiple_votes_per_item"`
		AnonymousVoting           bool `json:"anonymous_voting"`
	}
	if len(row.VotingConfig) > 0 {
		if err := json.Unmarshal(row.VotingConfig, &config); err != nil {
			return ports.RetrospectiveProjection{}, r.logError("voting_repo_decode_config_failed", err,
				"retrospective_id", row.ID,
			)
		}
	}
	return ports.RetrospectiveProjection{
		RetrospectiveID:           row.ID,
		Status:                    row.Status,
		MaxVotesPerUser:           config.MaxVotesPerUser,
		AllowMultipleVotesPerItem: config.AllowMultipleVotesPerItem,
		AnonymousVoting:           config.AnonymousVoting,
	}, nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "collaboration/voting-engine",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("voting repository operation failed", fields...)
	return err
}

type voteModel struct {
	ID              string    `gorm:"column:id;primaryKey"`
	RetrospectiveID string    `gorm:"column:retrospective_id"`
	ItemID          string    `gorm:"column:item_id"`
	UserID          string    `gorm:"column:user_id"`
	CreatedAt       time.Time `gorm:"column:created_at"`
}

func (voteModel) TableName() string {
	return "retrospective_votes"
}

func voteModelFromEntity(vote entities.Vote) voteModel {
	row := voteModel{
		ID:              strings.TrimSpace(vote.VoteID),
		RetrospectiveID: strings.TrimSpace(vote.RetrospectiveID),
		ItemID:          strings.TrimSpace(vote.ItemID),
		UserID:          strings.TrimSpace(vote.UserID),
		CreatedAt:       vote.CreatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	return row
}

func (m voteModel) toEntity() entities.Vote {
	return entities.Vote{
		VoteID:          m.ID,
		RetrospectiveID: m.RetrospectiveID,
		ItemID:          m.ItemID,
		UserID:          m.UserID,
		CreatedAt:       m.CreatedAt.UTC(),
	}
}

type itemProjectionModel struct {
	ID              string `gorm:"column:id;primaryKey"`
	RetrospectiveID string `gorm:"column:retrospective_id"`
	VoteCount       int    `gorm:"column:vote_count"`
}

func (itemProjectionModel) TableName() string {
	return "retrospective_items"
}

func (m itemProjectionModel) toProjection() ports.ItemProjection {
	return ports.ItemProjection{
		ItemID:          m.ID,
		RetrospectiveID: m.RetrospectiveID,
		VoteCount:       m.VoteCount,
	}
}

type retrospectiveProjectionModel struct {
	ID           string `gorm:"column:id;primaryKey"`
	Status       string `gorm:"column:status"`
	VotingConfig []byte `gorm:"column:voting_config"`
}

func (retrospectiveProjectionModel) TableName() string {
	return "retrospectives"
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ ports.VoteRepository = (*Repository)(nil)
var _ ports.ItemRepository = (*Repository)(nil)
var _ ports.RetrospectiveReader = (*Repository)(nil)
