package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/studentrisk-backend/internal/scoring"
	"github.com/yungbote/studentrisk-backend/internal/services"
)

type PredictionHandler struct {
	predictionService services.PredictionService
}

func NewPredictionHandler(predictionService services.PredictionService) *PredictionHandler {
	return &PredictionHandler{predictionService: predictionService}
}

// PredictSimplified scores a structured self-assessment form submission.
func (ph *PredictionHandler) PredictSimplified(c *gin.Context) {
	var answers scoring.AssessmentAnswers
	if err := c.ShouldBindJSON(&answers); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	result, err := ph.predictionService.PredictFromAssessment(c.Request.Context(), &answers)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "prediction_failed", err)
		return
	}
	RespondOK(c, result)
}

type rawFeaturesRequest struct {
	Features map[string]float64 `json:"features" binding:"required"`
}

// PredictRaw scores a pre-mapped feature map keyed by training column name.
// Unlike the simplified path there is no heuristic fallback.
func (ph *PredictionHandler) PredictRaw(c *gin.Context) {
	var req rawFeaturesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	result, err := ph.predictionService.PredictFromRawFeatures(c.Request.Context(), req.Features)
	if err != nil {
		var merr *services.MissingFeaturesError
		switch {
		case errors.As(err, &merr):
			RespondError(c, http.StatusBadRequest, "missing_features", err)
		case errors.Is(err, services.ErrModelNotReady):
			RespondError(c, http.StatusServiceUnavailable, "model_not_loaded", err)
		default:
			RespondError(c, http.StatusInternalServerError, "prediction_failed", err)
		}
		return
	}
	RespondOK(c, result)
}
