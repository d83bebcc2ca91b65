package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/studentrisk-backend/internal/clients/redis"
	"github.com/yungbote/studentrisk-backend/internal/logger"
	"github.com/yungbote/studentrisk-backend/internal/repos"
	"github.com/yungbote/studentrisk-backend/internal/scoring"
	"github.com/yungbote/studentrisk-backend/internal/types"
)

const (
	defaultTrendWeeks   = 8
	defaultFactorLimit  = 5
	defaultRecentLimit  = 10
	dashboardCacheTTL   = 60 * time.Second
	statsCacheKey       = "dashboard:stats"
	trendsCacheKeyShape = "dashboard:trends:%d"
)

type DashboardStats struct {
	TotalAssessments     int64   `json:"total_assessments"`
	HighRiskCount        int64   `json:"high_risk_count"`
	MediumRiskCount      int64   `json:"medium_risk_count"`
	LowRiskCount         int64   `json:"low_risk_count"`
	HighRiskPercentage   float64 `json:"high_risk_percentage"`
	MediumRiskPercentage float64 `json:"medium_risk_percentage"`
	LowRiskPercentage    float64 `json:"low_risk_percentage"`
	AverageRiskScore     float64 `json:"average_risk_score"`
}

type TrendPoint struct {
	Week       string `json:"week"`
	HighRisk   int64  `json:"high_risk"`
	MediumRisk int64  `json:"medium_risk"`
	LowRisk    int64  `json:"low_risk"`
}

type TopRiskFactor struct {
	Name       string  `json:"name"`
	Percentage float64 `json:"percentage"`
	Trend      string  `json:"trend"`
}

type RecentAssessment struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Date string `json:"date"`
	Time string `json:"time"`
	Risk string `json:"risk"`
	Type string `json:"type"`
}

type RiskDistribution struct {
	High   int64 `json:"high"`
	Medium int64 `json:"medium"`
	Low    int64 `json:"low"`
}

type DashboardService interface {
	Stats(ctx context.Context) (*DashboardStats, error)
	Trends(ctx context.Context, weeks int) ([]TrendPoint, error)
	TopRiskFactors(ctx context.Context, limit int) ([]TopRiskFactor, error)
	RecentAssessments(ctx context.Context, limit int) ([]RecentAssessment, error)
	RiskDistribution(ctx context.Context) (*RiskDistribution, error)
}

type dashboardService struct {
	db             *gorm.DB
	log            *logger.Logger
	predictionRepo repos.PredictionRepo
	cache          redis.Cache
}

// NewDashboardService builds the admin aggregation service. cache may be nil;
// stats and trends are then computed on every call.
func NewDashboardService(db *gorm.DB, log *logger.Logger, predictionRepo repos.PredictionRepo, cache redis.Cache) DashboardService {
	serviceLog := log.With("service", "DashboardService")
	return &dashboardService{
		db:             db,
		log:            serviceLog,
		predictionRepo: predictionRepo,
		cache:          cache,
	}
}

func (ds *dashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	if ds.cache != nil {
		var cached DashboardStats
		if err := ds.cache.GetJSON(ctx, statsCacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	counts, err := ds.predictionRepo.TierCounts(ctx, nil)
	if err != nil {
		return nil, err
	}
	avg, err := ds.predictionRepo.AverageRiskScore(ctx, nil)
	if err != nil {
		return nil, err
	}

	high := counts[scoring.TierHigh]
	medium := counts[scoring.TierMedium]
	low := counts[scoring.TierLow]
	total := high + medium + low

	stats := &DashboardStats{
		TotalAssessments:     total,
		HighRiskCount:        high,
		MediumRiskCount:      medium,
		LowRiskCount:         low,
		HighRiskPercentage:   tierPercentage(high, total),
		MediumRiskPercentage: tierPercentage(medium, total),
		LowRiskPercentage:    tierPercentage(low, total),
		AverageRiskScore:     roundTo(avg, 1),
	}

	if ds.cache != nil {
		if err := ds.cache.SetJSON(ctx, statsCacheKey, stats, dashboardCacheTTL); err != nil {
			ds.log.Debug("stats cache write failed", "error", err)
		}
	}
	return stats, nil
}

func (ds *dashboardService) Trends(ctx context.Context, weeks int) ([]TrendPoint, error) {
	if weeks <= 0 {
		weeks = defaultTrendWeeks
	}

	cacheKey := fmt.Sprintf(trendsCacheKeyShape, weeks)
	if ds.cache != nil {
		var cached []TrendPoint
		if err := ds.cache.GetJSON(ctx, cacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	since := time.Now().UTC().Add(-time.Duration(weeks) * 7 * 24 * time.Hour)
	rows, err := ds.predictionRepo.ListCreatedSince(ctx, nil, since)
	if err != nil {
		return nil, err
	}

	points := bucketTrendPoints(rows)

	if ds.cache != nil {
		if err := ds.cache.SetJSON(ctx, cacheKey, points, dashboardCacheTTL); err != nil {
			ds.log.Debug("trends cache write failed", "error", err)
		}
	}
	return points, nil
}

// bucketTrendPoints groups predictions into calendar-week points, preserving
// the chronological order of the input rows. Unknown tiers count as low.
func bucketTrendPoints(rows []*types.Prediction) []TrendPoint {
	points := []TrendPoint{}
	index := map[string]int{}

	for _, row := range rows {
		label := weekLabel(row.CreatedAt)
		i, ok := index[label]
		if !ok {
			i = len(points)
			index[label] = i
			points = append(points, TrendPoint{Week: label})
		}
		switch row.RiskLevel {
		case scoring.TierHigh:
			points[i].HighRisk++
		case scoring.TierMedium:
			points[i].MediumRisk++
		default:
			points[i].LowRisk++
		}
	}
	return points
}

// weekLabel renders the ISO week of t as a chart label like "W07".
func weekLabel(t time.Time) string {
	_, week := t.UTC().ISOWeek()
	return fmt.Sprintf("W%02d", week)
}

func (ds *dashboardService) TopRiskFactors(ctx context.Context, limit int) ([]TopRiskFactor, error) {
	if limit <= 0 {
		limit = defaultFactorLimit
	}

	rows, err := ds.predictionRepo.FactorCategoryCounts(ctx, nil, limit)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, row := range rows {
		total += row.Count
	}

	now := time.Now().UTC()
	weekAgo := now.Add(-7 * 24 * time.Hour)
	twoWeeksAgo := now.Add(-14 * 24 * time.Hour)

	trends := make([]string, len(rows))
	g, gctx := errgroup.WithContext(ctx)
	for i, row := range rows {
		g.Go(func() error {
			current, err := ds.predictionRepo.FactorCategoryCountBetween(gctx, nil, row.Category, weekAgo, now)
			if err != nil {
				return err
			}
			previous, err := ds.predictionRepo.FactorCategoryCountBetween(gctx, nil, row.Category, twoWeeksAgo, weekAgo)
			if err != nil {
				return err
			}
			trends[i] = trendDirection(current, previous)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	factors := []TopRiskFactor{}
	for i, row := range rows {
		factors = append(factors, TopRiskFactor{
			Name:       row.Category,
			Percentage: factorPercentage(row.Count, total),
			Trend:      trends[i],
		})
	}
	return factors, nil
}

func trendDirection(current, previous int64) string {
	switch {
	case current > previous:
		return "up"
	case current < previous:
		return "down"
	default:
		return "stable"
	}
}

func (ds *dashboardService) RecentAssessments(ctx context.Context, limit int) ([]RecentAssessment, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}

	rows, err := ds.predictionRepo.ListRecent(ctx, nil, limit)
	if err != nil {
		return nil, err
	}

	assessments := []RecentAssessment{}
	for _, row := range rows {
		assessments = append(assessments, recentAssessmentView(row))
	}
	return assessments, nil
}

// recentAssessmentView shapes one prediction for the activity feed. The
// student is never named; the feed shows a generic label for privacy.
func recentAssessmentView(p *types.Prediction) RecentAssessment {
	year := "N/A"
	if p.Assessment != nil && p.Assessment.AcademicYear != "" {
		year = p.Assessment.AcademicYear
	}
	return RecentAssessment{
		ID:   p.ID.String(),
		Name: "Student Assessment",
		Date: p.CreatedAt.Format("Mon, 02 Jan"),
		Time: p.CreatedAt.Format("03:04 PM"),
		Risk: p.RiskLevel,
		Type: fmt.Sprintf("Year %s Review", year),
	}
}

func (ds *dashboardService) RiskDistribution(ctx context.Context) (*RiskDistribution, error) {
	counts, err := ds.predictionRepo.TierCounts(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &RiskDistribution{
		High:   counts[scoring.TierHigh],
		Medium: counts[scoring.TierMedium],
		Low:    counts[scoring.TierLow],
	}, nil
}

// tierPercentage is a share of total rounded to two decimals.
func tierPercentage(count, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return roundTo(float64(count)/float64(total)*100, 2)
}

// factorPercentage is a share of the displayed top-N slice, one decimal.
func factorPercentage(count, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return roundTo(float64(count)/float64(total)*100, 1)
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
