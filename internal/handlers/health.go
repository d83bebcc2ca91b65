package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/studentrisk-backend/internal/services"
)

const apiVersion = "1.0.0"

func HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

type HealthHandler struct {
	predictionService services.PredictionService
}

func NewHealthHandler(predictionService services.PredictionService) *HealthHandler {
	return &HealthHandler{predictionService: predictionService}
}

func (hh *HealthHandler) Root(c *gin.Context) {
	RespondOK(c, gin.H{
		"message": "Student Dropout Risk Prediction API",
		"version": apiVersion,
	})
}

// Health reports service liveness plus whether the model service has a model
// loaded. The API itself stays healthy either way; the structured prediction
// path degrades to rule-based scoring when the model is down.
func (hh *HealthHandler) Health(c *gin.Context) {
	RespondOK(c, gin.H{
		"status":          "healthy",
		"version":         apiVersion,
		"ml_model_loaded": hh.predictionService.ModelReady(c.Request.Context()),
	})
}
