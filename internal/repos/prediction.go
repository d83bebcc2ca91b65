package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/studentrisk-backend/internal/logger"
	"github.com/yungbote/studentrisk-backend/internal/types"
)

// CategoryCount is one row of a per-category factor aggregation.
type CategoryCount struct {
	Category string `gorm:"column:category"`
	Count    int64  `gorm:"column:count"`
}

type PredictionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, prediction *types.Prediction) (*types.Prediction, error)
	TierCounts(ctx context.Context, tx *gorm.DB) (map[string]int64, error)
	AverageRiskScore(ctx context.Context, tx *gorm.DB) (float64, error)
	ListCreatedSince(ctx context.Context, tx *gorm.DB, since time.Time) ([]*types.Prediction, error)
	ListRecent(ctx context.Context, tx *gorm.DB, limit int) ([]*types.Prediction, error)
	FactorCategoryCounts(ctx context.Context, tx *gorm.DB, limit int) ([]CategoryCount, error)
	FactorCategoryCountBetween(ctx context.Context, tx *gorm.DB, category string, from, to time.Time) (int64, error)
}

type predictionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPredictionRepo(db *gorm.DB, baseLog *logger.Logger) PredictionRepo {
	repoLog := baseLog.With("repo", "PredictionRepo")
	return &predictionRepo{db: db, log: repoLog}
}

// Create inserts the prediction plus its child rows. IDs are assigned here so
// the insert works on both Postgres and SQLite. Children ride along in the
// same gorm create, which runs transactionally.
func (pr *predictionRepo) Create(ctx context.Context, tx *gorm.DB, prediction *types.Prediction) (*types.Prediction, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	if prediction.ID == uuid.Nil {
		prediction.ID = uuid.New()
	}
	if prediction.CreatedAt.IsZero() {
		prediction.CreatedAt = time.Now().UTC()
	}
	if prediction.Assessment != nil {
		if prediction.Assessment.ID == uuid.Nil {
			prediction.Assessment.ID = uuid.New()
		}
		prediction.Assessment.PredictionID = prediction.ID
	}
	for i := range prediction.RiskFactors {
		if prediction.RiskFactors[i].ID == uuid.Nil {
			prediction.RiskFactors[i].ID = uuid.New()
		}
		prediction.RiskFactors[i].PredictionID = prediction.ID
	}
	for i := range prediction.Recommendations {
		if prediction.Recommendations[i].ID == uuid.Nil {
			prediction.Recommendations[i].ID = uuid.New()
		}
		prediction.Recommendations[i].PredictionID = prediction.ID
	}

	if err := transaction.WithContext(ctx).Create(prediction).Error; err != nil {
		return nil, err
	}
	return prediction, nil
}

func (pr *predictionRepo) TierCounts(ctx context.Context, tx *gorm.DB) (map[string]int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var rows []struct {
		RiskLevel string `gorm:"column:risk_level"`
		Count     int64  `gorm:"column:count"`
	}
	if err := transaction.WithContext(ctx).
		Model(&types.Prediction{}).
		Select("risk_level, COUNT(*) AS count").
		Group("risk_level").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.RiskLevel] = row.Count
	}
	return counts, nil
}

func (pr *predictionRepo) AverageRiskScore(ctx context.Context, tx *gorm.DB) (float64, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var avg float64
	if err := transaction.WithContext(ctx).
		Model(&types.Prediction{}).
		Select("COALESCE(AVG(risk_score), 0)").
		Scan(&avg).Error; err != nil {
		return 0, err
	}
	return avg, nil
}

func (pr *predictionRepo) ListCreatedSince(ctx context.Context, tx *gorm.DB, since time.Time) ([]*types.Prediction, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var results []*types.Prediction
	if err := transaction.WithContext(ctx).
		Select("id", "created_at", "risk_level").
		Where("created_at >= ?", since).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (pr *predictionRepo) ListRecent(ctx context.Context, tx *gorm.DB, limit int) ([]*types.Prediction, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	if limit <= 0 {
		limit = 10
	}

	var results []*types.Prediction
	if err := transaction.WithContext(ctx).
		Preload("Assessment").
		Order("created_at DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (pr *predictionRepo) FactorCategoryCounts(ctx context.Context, tx *gorm.DB, limit int) ([]CategoryCount, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	if limit <= 0 {
		limit = 5
	}

	var rows []CategoryCount
	if err := transaction.WithContext(ctx).
		Model(&types.RiskFactor{}).
		Select("category, COUNT(*) AS count").
		Group("category").
		Order("count DESC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (pr *predictionRepo) FactorCategoryCountBetween(ctx context.Context, tx *gorm.DB, category string, from, to time.Time) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.RiskFactor{}).
		Joins("JOIN prediction ON prediction.id = risk_factor.prediction_id").
		Where("risk_factor.category = ?", category).
		Where("prediction.created_at >= ? AND prediction.created_at < ?", from, to).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
