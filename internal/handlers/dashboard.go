package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/studentrisk-backend/internal/logger"
	"github.com/yungbote/studentrisk-backend/internal/services"
)

// DashboardHandler serves the admin dashboard aggregates. Aggregation failures
// degrade to empty payloads with HTTP 200 so the dashboard renders zeros
// instead of breaking.
type DashboardHandler struct {
	dashboardService services.DashboardService
	log              *logger.Logger
}

func NewDashboardHandler(dashboardService services.DashboardService, log *logger.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		log:              log.With("handler", "DashboardHandler"),
	}
}

type trendsResponse struct {
	Data []services.TrendPoint `json:"data"`
}

type riskFactorsResponse struct {
	Factors []services.TopRiskFactor `json:"factors"`
}

type recentAssessmentsResponse struct {
	Assessments []services.RecentAssessment `json:"assessments"`
}

func (dh *DashboardHandler) Stats(c *gin.Context) {
	stats, err := dh.dashboardService.Stats(c.Request.Context())
	if err != nil {
		dh.log.Warn("dashboard stats failed", "error", err)
		RespondOK(c, &services.DashboardStats{})
		return
	}
	RespondOK(c, stats)
}

func (dh *DashboardHandler) Trends(c *gin.Context) {
	weeks := queryInt(c, "weeks", 0)
	points, err := dh.dashboardService.Trends(c.Request.Context(), weeks)
	if err != nil {
		dh.log.Warn("dashboard trends failed", "error", err)
		RespondOK(c, trendsResponse{Data: []services.TrendPoint{}})
		return
	}
	RespondOK(c, trendsResponse{Data: points})
}

func (dh *DashboardHandler) TopRiskFactors(c *gin.Context) {
	limit := queryInt(c, "limit", 0)
	factors, err := dh.dashboardService.TopRiskFactors(c.Request.Context(), limit)
	if err != nil {
		dh.log.Warn("top risk factors failed", "error", err)
		RespondOK(c, riskFactorsResponse{Factors: []services.TopRiskFactor{}})
		return
	}
	RespondOK(c, riskFactorsResponse{Factors: factors})
}

func (dh *DashboardHandler) RecentAssessments(c *gin.Context) {
	limit := queryInt(c, "limit", 0)
	assessments, err := dh.dashboardService.RecentAssessments(c.Request.Context(), limit)
	if err != nil {
		dh.log.Warn("recent assessments failed", "error", err)
		RespondOK(c, recentAssessmentsResponse{Assessments: []services.RecentAssessment{}})
		return
	}
	RespondOK(c, recentAssessmentsResponse{Assessments: assessments})
}

func (dh *DashboardHandler) RiskDistribution(c *gin.Context) {
	dist, err := dh.dashboardService.RiskDistribution(c.Request.Context())
	if err != nil {
		dh.log.Warn("risk distribution failed", "error", err)
		RespondOK(c, &services.RiskDistribution{})
		return
	}
	RespondOK(c, dist)
}

// queryInt reads an integer query param, falling back on absent or garbage
// values. Services apply their own defaults to non-positive inputs.
func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
