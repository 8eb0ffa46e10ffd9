package insights

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BekzhanK1/moodlog-backend/internal/models"
)

// Store is the append-only insight store keyed by (user, type, period key).
type Store interface {
	GetIfExists(ctx context.Context, userID uint, insightType, periodKey string) (*models.Insight, error)
	CreateIfAbsent(ctx context.Context, insight *models.Insight) (*models.Insight, error)
	List(ctx context.Context, userID uint, insightType string, page, perPage int) ([]models.Insight, int64, error)
}

// GormStore implements Store on Postgres through GORM, relying on the
// composite unique index over (user_id, type, period_key).
type GormStore struct {
	db *gorm.DB
}

// NewStore creates a GormStore.
func NewStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// GetIfExists returns the insight for the key, or nil without error when
// none exists.
func (s *GormStore) GetIfExists(ctx context.Context, userID uint, insightType, periodKey string) (*models.Insight, error) {
	var insight models.Insight
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND type = ? AND period_key = ?", userID, insightType, periodKey).
		First(&insight).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up insight: %w", err)
	}
	return &insight, nil
}

// CreateIfAbsent inserts the insight unless one already exists for its key.
// The insert uses ON CONFLICT DO NOTHING against the unique index, so two
// concurrent writers cannot both succeed; the loser re-reads and returns
// the winning row. A conflict is not an error.
func (s *GormStore) CreateIfAbsent(ctx context.Context, insight *models.Insight) (*models.Insight, error) {
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "type"}, {Name: "period_key"}},
			DoNothing: true,
		}).
		Create(insight)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to create insight: %w", res.Error)
	}

	if res.RowsAffected == 0 {
		// Lost the race; return the row that won.
		existing, err := s.GetIfExists(ctx, insight.UserID, insight.Type, insight.PeriodKey)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, fmt.Errorf("insight conflict for %s/%s but winning row not found", insight.Type, insight.PeriodKey)
		}
		return existing, nil
	}

	return insight, nil
}

// List returns one page of the user's insights, newest first, optionally
// filtered by type, along with the total row count for pagination.
func (s *GormStore) List(ctx context.Context, userID uint, insightType string, page, perPage int) ([]models.Insight, int64, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	query := s.db.WithContext(ctx).Model(&models.Insight{}).Where("user_id = ?", userID)
	if insightType != "" {
		query = query.Where("type = ?", insightType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count insights: %w", err)
	}

	var items []models.Insight
	err := query.
		Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&items).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list insights: %w", err)
	}

	return items, total, nil
}
