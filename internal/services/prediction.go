package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/studentrisk-backend/internal/clients/model"
	"github.com/yungbote/studentrisk-backend/internal/logger"
	"github.com/yungbote/studentrisk-backend/internal/repos"
	"github.com/yungbote/studentrisk-backend/internal/scoring"
	"github.com/yungbote/studentrisk-backend/internal/types"
)

const (
	endpointSimplified = "simplified"
	endpointRaw        = "raw"

	// Fixed confidence reported when the rule-based fallback scores a request.
	heuristicConfidence = 0.75
)

// ErrModelNotReady reports that the raw path cannot serve because the model
// service has no model loaded. The structured path never returns it; that
// path falls back to rule-based scoring instead.
var ErrModelNotReady = errors.New("model not ready")

// MissingFeaturesError lists the training columns absent from a raw request.
type MissingFeaturesError struct {
	Keys []string
}

func (e *MissingFeaturesError) Error() string {
	return fmt.Sprintf("missing features: %s", strings.Join(e.Keys, ", "))
}

// ModelCapability is the slice of the model client the service needs.
type ModelCapability interface {
	Ready(ctx context.Context) bool
	Predict(ctx context.Context, features []float64) (*model.Prediction, error)
}

type PredictionService interface {
	PredictFromAssessment(ctx context.Context, answers *scoring.AssessmentAnswers) (*scoring.Result, error)
	PredictFromRawFeatures(ctx context.Context, features map[string]float64) (*scoring.Result, error)
	ModelReady(ctx context.Context) bool
}

type predictionService struct {
	db             *gorm.DB
	log            *logger.Logger
	predictionRepo repos.PredictionRepo
	modelClient    ModelCapability
}

func NewPredictionService(db *gorm.DB, log *logger.Logger, predictionRepo repos.PredictionRepo, modelClient ModelCapability) PredictionService {
	serviceLog := log.With("service", "PredictionService")
	return &predictionService{
		db:             db,
		log:            serviceLog,
		predictionRepo: predictionRepo,
		modelClient:    modelClient,
	}
}

func (ps *predictionService) ModelReady(ctx context.Context) bool {
	if ps.modelClient == nil {
		return false
	}
	return ps.modelClient.Ready(ctx)
}

// PredictFromAssessment scores a structured self-assessment. The model path is
// preferred; any model failure degrades to rule-based scoring so the endpoint
// always answers. Persistence failures are logged and swallowed.
func (ps *predictionService) PredictFromAssessment(ctx context.Context, answers *scoring.AssessmentAnswers) (*scoring.Result, error) {
	if answers == nil {
		return nil, fmt.Errorf("assessment required")
	}

	result := ps.scoreAssessment(ctx, answers)

	record := resultToRecord(result, endpointSimplified)
	record.Assessment = assessmentToRecord(answers)
	if _, err := ps.predictionRepo.Create(ctx, nil, record); err != nil {
		ps.log.Warn("failed to persist prediction", "endpoint", endpointSimplified, "error", err)
	}

	return result, nil
}

func (ps *predictionService) scoreAssessment(ctx context.Context, answers *scoring.AssessmentAnswers) *scoring.Result {
	if ps.modelClient != nil && ps.modelClient.Ready(ctx) {
		features := scoring.MapAssessmentToFeatures(answers)
		pred, err := ps.modelClient.Predict(ctx, features[:])
		if err == nil {
			tier := scoring.TierForProbability(pred.DropoutProbability)
			factors, recs := scoring.DeriveAnnotations(answers, tier, scoring.RuleSetModel)
			return &scoring.Result{
				RiskLevel:            tier,
				RiskScore:            scoring.ScoreForProbability(pred.DropoutProbability),
				DropoutProbability:   pred.DropoutProbability,
				PredictedClass:       pred.PredictedClass,
				RiskFactors:          factors,
				Recommendations:      recs,
				PredictionConfidence: pred.ModelConfidence,
			}
		}
		ps.log.Warn("model prediction failed, falling back to rule-based scoring", "error", err)
	}

	score := scoring.HeuristicScore(answers)
	tier := scoring.TierForScore(score)
	factors, recs := scoring.DeriveAnnotations(answers, tier, scoring.RuleSetHeuristic)
	return &scoring.Result{
		RiskLevel:            tier,
		RiskScore:            score,
		DropoutProbability:   float64(score) / 100,
		RiskFactors:          factors,
		Recommendations:      recs,
		PredictionConfidence: heuristicConfidence,
	}
}

// PredictFromRawFeatures scores a pre-mapped feature map keyed by training
// column name. There is no fallback here: the caller asked for the model, so
// an unloaded model is an error. No assessment input is stored.
func (ps *predictionService) PredictFromRawFeatures(ctx context.Context, features map[string]float64) (*scoring.Result, error) {
	if ps.modelClient == nil || !ps.modelClient.Ready(ctx) {
		return nil, ErrModelNotReady
	}

	var missing []string
	for _, name := range scoring.FeatureOrder {
		if _, ok := features[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, &MissingFeaturesError{Keys: missing}
	}

	vector := make([]float64, 0, scoring.FeatureCount)
	for _, name := range scoring.FeatureOrder {
		vector = append(vector, features[name])
	}

	pred, err := ps.modelClient.Predict(ctx, vector)
	if err != nil {
		if errors.Is(err, model.ErrModelUnavailable) {
			return nil, ErrModelNotReady
		}
		return nil, err
	}

	tier := scoring.TierForProbability(pred.DropoutProbability)
	result := &scoring.Result{
		RiskLevel:            tier,
		RiskScore:            scoring.ScoreForProbability(pred.DropoutProbability),
		DropoutProbability:   pred.DropoutProbability,
		PredictedClass:       pred.PredictedClass,
		RiskFactors:          []scoring.RiskFactor{},
		Recommendations:      []scoring.Recommendation{},
		PredictionConfidence: pred.ModelConfidence,
	}

	if _, err := ps.predictionRepo.Create(ctx, nil, resultToRecord(result, endpointRaw)); err != nil {
		ps.log.Warn("failed to persist prediction", "endpoint", endpointRaw, "error", err)
	}

	return result, nil
}

func resultToRecord(result *scoring.Result, endpoint string) *types.Prediction {
	record := &types.Prediction{
		RiskLevel:            result.RiskLevel,
		RiskScore:            result.RiskScore,
		DropoutProbability:   result.DropoutProbability,
		PredictionConfidence: result.PredictionConfidence,
		Endpoint:             endpoint,
	}
	if result.PredictedClass != "" {
		class := result.PredictedClass
		record.PredictedClass = &class
	}
	for _, f := range result.RiskFactors {
		record.RiskFactors = append(record.RiskFactors, types.RiskFactor{
			Category:    f.Category,
			Factor:      f.Factor,
			Impact:      f.Impact,
			Description: f.Description,
		})
	}
	for _, r := range result.Recommendations {
		rec := types.Recommendation{
			RecType:     r.Type,
			Title:       r.Title,
			Description: r.Description,
			Urgency:     r.Urgency,
		}
		if r.Contact != "" {
			contact := r.Contact
			rec.Contact = &contact
		}
		record.Recommendations = append(record.Recommendations, rec)
	}
	return record
}

func assessmentToRecord(a *scoring.AssessmentAnswers) *types.AssessmentInput {
	return &types.AssessmentInput{
		ConsentGiven:              a.ConsentGiven,
		ConsentDataProcessing:     a.ConsentDataProcessing,
		ConsentAnonymousAnalytics: a.ConsentAnonymousAnalytics,
		AcademicYear:              a.AcademicYear,
		Attendance:                a.Attendance,
		OverwhelmFrequency:        a.OverwhelmFrequency,
		StudyHours:                a.StudyHours,
		PerformanceSatisfaction:   a.PerformanceSatisfaction,
		AdvisorInteraction:        a.AdvisorInteraction,
		SupportNetworkStrength:    a.SupportNetworkStrength,
		ExtracurricularHours:      a.ExtracurricularHours,
		EmploymentStatus:          a.EmploymentStatus,
		FinancialStress:           a.FinancialStress,
		CareerAlignment:           a.CareerAlignment,
		ServicesUsed:              toJSONList(a.ServicesUsed),
		WithdrawalConsidered:      a.WithdrawalConsidered,
		WithdrawalReasons:         toJSONList(a.WithdrawalReasons),
	}
}

func toJSONList(values []string) datatypes.JSON {
	if values == nil {
		values = []string{}
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return datatypes.JSON([]byte("[]"))
	}
	return datatypes.JSON(raw)
}
