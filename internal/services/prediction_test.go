package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/studentrisk-backend/internal/clients/model"
	"github.com/yungbote/studentrisk-backend/internal/logger"
	"github.com/yungbote/studentrisk-backend/internal/repos"
	"github.com/yungbote/studentrisk-backend/internal/scoring"
	"github.com/yungbote/studentrisk-backend/internal/types"
)

type stubModel struct {
	ready       bool
	prediction  *model.Prediction
	predictErr  error
	gotFeatures []float64
}

func (sm *stubModel) Ready(ctx context.Context) bool { return sm.ready }

func (sm *stubModel) Predict(ctx context.Context, features []float64) (*model.Prediction, error) {
	sm.gotFeatures = features
	if sm.predictErr != nil {
		return nil, sm.predictErr
	}
	return sm.prediction, nil
}

type stubPredictionRepo struct {
	created   []*types.Prediction
	createErr error

	tierCounts    map[string]int64
	avgScore      float64
	recent        []*types.Prediction
	createdSince  []*types.Prediction
	factorCounts  []repos.CategoryCount
	countBetween  func(category string, from, to time.Time) int64
	aggregatesErr error
}

func (sr *stubPredictionRepo) Create(ctx context.Context, tx *gorm.DB, prediction *types.Prediction) (*types.Prediction, error) {
	sr.created = append(sr.created, prediction)
	if sr.createErr != nil {
		return nil, sr.createErr
	}
	return prediction, nil
}

func (sr *stubPredictionRepo) TierCounts(ctx context.Context, tx *gorm.DB) (map[string]int64, error) {
	if sr.aggregatesErr != nil {
		return nil, sr.aggregatesErr
	}
	return sr.tierCounts, nil
}

func (sr *stubPredictionRepo) AverageRiskScore(ctx context.Context, tx *gorm.DB) (float64, error) {
	if sr.aggregatesErr != nil {
		return 0, sr.aggregatesErr
	}
	return sr.avgScore, nil
}

func (sr *stubPredictionRepo) ListCreatedSince(ctx context.Context, tx *gorm.DB, since time.Time) ([]*types.Prediction, error) {
	if sr.aggregatesErr != nil {
		return nil, sr.aggregatesErr
	}
	return sr.createdSince, nil
}

func (sr *stubPredictionRepo) ListRecent(ctx context.Context, tx *gorm.DB, limit int) ([]*types.Prediction, error) {
	if sr.aggregatesErr != nil {
		return nil, sr.aggregatesErr
	}
	if limit < len(sr.recent) {
		return sr.recent[:limit], nil
	}
	return sr.recent, nil
}

func (sr *stubPredictionRepo) FactorCategoryCounts(ctx context.Context, tx *gorm.DB, limit int) ([]repos.CategoryCount, error) {
	if sr.aggregatesErr != nil {
		return nil, sr.aggregatesErr
	}
	if limit < len(sr.factorCounts) {
		return sr.factorCounts[:limit], nil
	}
	return sr.factorCounts, nil
}

func (sr *stubPredictionRepo) FactorCategoryCountBetween(ctx context.Context, tx *gorm.DB, category string, from, to time.Time) (int64, error) {
	if sr.aggregatesErr != nil {
		return 0, sr.aggregatesErr
	}
	if sr.countBetween == nil {
		return 0, nil
	}
	return sr.countBetween(category, from, to), nil
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("dev")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return log
}

func sampleAnswers() *scoring.AssessmentAnswers {
	return &scoring.AssessmentAnswers{
		ConsentGiven:            true,
		ConsentDataProcessing:   true,
		AcademicYear:            "2nd",
		Attendance:              "often",
		OverwhelmFrequency:      "sometimes",
		StudyHours:              "5-8",
		PerformanceSatisfaction: 7,
		AdvisorInteraction:      "monthly",
		SupportNetworkStrength:  6,
		ExtracurricularHours:    4,
		EmploymentStatus:        "not-employed",
		FinancialStress:         "low",
		CareerAlignment:         8,
		ServicesUsed:            []string{"tutoring"},
	}
}

func TestPredictFromAssessmentUsesModelWhenReady(t *testing.T) {
	mc := &stubModel{
		ready:      true,
		prediction: &model.Prediction{DropoutProbability: 0.72, PredictedClass: "Dropout", ModelConfidence: 0.91},
	}
	repo := &stubPredictionRepo{}
	svc := NewPredictionService(nil, testLogger(t), repo, mc)

	answers := sampleAnswers()
	result, err := svc.PredictFromAssessment(context.Background(), answers)
	if err != nil {
		t.Fatalf("PredictFromAssessment: %v", err)
	}

	if result.RiskLevel != scoring.TierHigh {
		t.Fatalf("risk level = %q, want high", result.RiskLevel)
	}
	if result.RiskScore != 72 {
		t.Fatalf("risk score = %d, want 72", result.RiskScore)
	}
	if result.PredictedClass != "Dropout" {
		t.Fatalf("predicted class = %q, want Dropout", result.PredictedClass)
	}
	if result.PredictionConfidence != 0.91 {
		t.Fatalf("confidence = %v, want 0.91", result.PredictionConfidence)
	}

	wantFeatures := scoring.MapAssessmentToFeatures(answers)
	if len(mc.gotFeatures) != scoring.FeatureCount {
		t.Fatalf("model got %d features, want %d", len(mc.gotFeatures), scoring.FeatureCount)
	}
	for i, v := range wantFeatures {
		if mc.gotFeatures[i] != v {
			t.Fatalf("feature[%d] = %v, want %v", i, mc.gotFeatures[i], v)
		}
	}

	if len(repo.created) != 1 {
		t.Fatalf("created %d records, want 1", len(repo.created))
	}
	record := repo.created[0]
	if record.Endpoint != endpointSimplified {
		t.Fatalf("endpoint = %q, want %q", record.Endpoint, endpointSimplified)
	}
	if record.Assessment == nil {
		t.Fatal("assessment input not persisted")
	}
	if record.PredictedClass == nil || *record.PredictedClass != "Dropout" {
		t.Fatalf("persisted predicted class = %v, want Dropout", record.PredictedClass)
	}
}

func TestPredictFromAssessmentFallsBackWhenModelNotReady(t *testing.T) {
	mc := &stubModel{ready: false}
	repo := &stubPredictionRepo{}
	svc := NewPredictionService(nil, testLogger(t), repo, mc)

	answers := sampleAnswers()
	result, err := svc.PredictFromAssessment(context.Background(), answers)
	if err != nil {
		t.Fatalf("PredictFromAssessment: %v", err)
	}

	wantScore := scoring.HeuristicScore(answers)
	if result.RiskScore != wantScore {
		t.Fatalf("risk score = %d, want %d", result.RiskScore, wantScore)
	}
	if result.RiskLevel != scoring.TierForScore(wantScore) {
		t.Fatalf("risk level = %q, want %q", result.RiskLevel, scoring.TierForScore(wantScore))
	}
	if result.DropoutProbability != float64(wantScore)/100 {
		t.Fatalf("probability = %v, want %v", result.DropoutProbability, float64(wantScore)/100)
	}
	if result.PredictedClass != "" {
		t.Fatalf("predicted class = %q, want empty on fallback", result.PredictedClass)
	}
	if result.PredictionConfidence != heuristicConfidence {
		t.Fatalf("confidence = %v, want %v", result.PredictionConfidence, heuristicConfidence)
	}
	if mc.gotFeatures != nil {
		t.Fatal("model should not be called when not ready")
	}
	if len(repo.created) != 1 {
		t.Fatalf("created %d records, want 1", len(repo.created))
	}
}

func TestPredictFromAssessmentFallsBackWhenModelErrors(t *testing.T) {
	mc := &stubModel{ready: true, predictErr: model.ErrModelUnavailable}
	repo := &stubPredictionRepo{}
	svc := NewPredictionService(nil, testLogger(t), repo, mc)

	answers := sampleAnswers()
	result, err := svc.PredictFromAssessment(context.Background(), answers)
	if err != nil {
		t.Fatalf("PredictFromAssessment: %v", err)
	}
	if result.PredictionConfidence != heuristicConfidence {
		t.Fatalf("confidence = %v, want fallback %v", result.PredictionConfidence, heuristicConfidence)
	}
	if len(repo.created) != 1 {
		t.Fatalf("created %d records, want 1", len(repo.created))
	}
}

func TestPredictFromAssessmentSurvivesPersistenceFailure(t *testing.T) {
	mc := &stubModel{ready: false}
	repo := &stubPredictionRepo{createErr: errors.New("db down")}
	svc := NewPredictionService(nil, testLogger(t), repo, mc)

	if _, err := svc.PredictFromAssessment(context.Background(), sampleAnswers()); err != nil {
		t.Fatalf("persistence failure must not surface: %v", err)
	}
}

func TestPredictFromRawFeaturesMissingKeys(t *testing.T) {
	svc := NewPredictionService(nil, testLogger(t), &stubPredictionRepo{}, &stubModel{ready: true})

	features := map[string]float64{
		"Curricular units 2nd sem (approved)": 30,
		"Age at enrollment":                   19,
	}
	_, err := svc.PredictFromRawFeatures(context.Background(), features)

	var merr *MissingFeaturesError
	if !errors.As(err, &merr) {
		t.Fatalf("err = %v, want MissingFeaturesError", err)
	}
	if len(merr.Keys) != scoring.FeatureCount-2 {
		t.Fatalf("missing %d keys, want %d", len(merr.Keys), scoring.FeatureCount-2)
	}
	for _, key := range merr.Keys {
		if _, ok := features[key]; ok {
			t.Fatalf("key %q reported missing but was present", key)
		}
	}
}

func TestPredictFromRawFeaturesModelNotReady(t *testing.T) {
	svc := NewPredictionService(nil, testLogger(t), &stubPredictionRepo{}, &stubModel{ready: false})

	features := map[string]float64{}
	for _, name := range scoring.FeatureOrder {
		features[name] = 1
	}

	_, err := svc.PredictFromRawFeatures(context.Background(), features)
	if !errors.Is(err, ErrModelNotReady) {
		t.Fatalf("err = %v, want ErrModelNotReady", err)
	}
}

func TestPredictFromRawFeatures(t *testing.T) {
	mc := &stubModel{
		ready:      true,
		prediction: &model.Prediction{DropoutProbability: 0.4, PredictedClass: "Enrolled", ModelConfidence: 0.8},
	}
	repo := &stubPredictionRepo{}
	svc := NewPredictionService(nil, testLogger(t), repo, mc)

	features := map[string]float64{}
	for i, name := range scoring.FeatureOrder {
		features[name] = float64(i + 1)
	}

	result, err := svc.PredictFromRawFeatures(context.Background(), features)
	if err != nil {
		t.Fatalf("PredictFromRawFeatures: %v", err)
	}

	for i := range scoring.FeatureOrder {
		if mc.gotFeatures[i] != float64(i+1) {
			t.Fatalf("feature[%d] = %v, want %v (ordering broken)", i, mc.gotFeatures[i], float64(i+1))
		}
	}

	if result.RiskLevel != scoring.TierMedium {
		t.Fatalf("risk level = %q, want medium", result.RiskLevel)
	}
	if result.RiskScore != 40 {
		t.Fatalf("risk score = %d, want 40", result.RiskScore)
	}
	if result.RiskFactors == nil || len(result.RiskFactors) != 0 {
		t.Fatalf("risk factors = %v, want empty non-nil", result.RiskFactors)
	}
	if result.Recommendations == nil || len(result.Recommendations) != 0 {
		t.Fatalf("recommendations = %v, want empty non-nil", result.Recommendations)
	}

	if len(repo.created) != 1 {
		t.Fatalf("created %d records, want 1", len(repo.created))
	}
	record := repo.created[0]
	if record.Endpoint != endpointRaw {
		t.Fatalf("endpoint = %q, want %q", record.Endpoint, endpointRaw)
	}
	if record.Assessment != nil {
		t.Fatal("raw path must not persist an assessment input")
	}
}
