package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/studentrisk-backend/internal/scoring"
	"github.com/yungbote/studentrisk-backend/internal/services"
)

type stubPredictionService struct {
	result  *scoring.Result
	err     error
	rawErr  error
	ready   bool
	gotRaw  map[string]float64
	gotForm *scoring.AssessmentAnswers
}

func (sp *stubPredictionService) PredictFromAssessment(ctx context.Context, answers *scoring.AssessmentAnswers) (*scoring.Result, error) {
	sp.gotForm = answers
	if sp.err != nil {
		return nil, sp.err
	}
	return sp.result, nil
}

func (sp *stubPredictionService) PredictFromRawFeatures(ctx context.Context, features map[string]float64) (*scoring.Result, error) {
	sp.gotRaw = features
	if sp.rawErr != nil {
		return nil, sp.rawErr
	}
	return sp.result, nil
}

func (sp *stubPredictionService) ModelReady(ctx context.Context) bool { return sp.ready }

func performRequest(t *testing.T, handler gin.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Handle(method, "/", handler)

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestPredictSimplified(t *testing.T) {
	svc := &stubPredictionService{
		result: &scoring.Result{
			RiskLevel:            "low",
			RiskScore:            12,
			DropoutProbability:   0.12,
			RiskFactors:          []scoring.RiskFactor{},
			Recommendations:      []scoring.Recommendation{{Type: "peer", Title: "Stay Connected", Urgency: "when-needed"}},
			PredictionConfidence: 0.75,
		},
	}
	ph := NewPredictionHandler(svc)

	body := `{"attendance":"often","academic_year":"2nd","performance_satisfaction":7}`
	w := performRequest(t, ph.PredictSimplified, http.MethodPost, "/", body)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp scoring.Result
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.RiskLevel != "low" || resp.RiskScore != 12 {
		t.Fatalf("unexpected response %+v", resp)
	}
	if svc.gotForm == nil || svc.gotForm.Attendance != "often" {
		t.Fatalf("service received %+v, want attendance often", svc.gotForm)
	}
}

func TestPredictSimplifiedRejectsMalformedJSON(t *testing.T) {
	ph := NewPredictionHandler(&stubPredictionService{})

	w := performRequest(t, ph.PredictSimplified, http.MethodPost, "/", `{"attendance":`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestPredictRawErrorMapping(t *testing.T) {
	fullBody := func() string {
		features := map[string]float64{}
		for _, name := range scoring.FeatureOrder {
			features[name] = 1
		}
		raw, _ := json.Marshal(map[string]any{"features": features})
		return string(raw)
	}()

	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "missing_features",
			err:        &services.MissingFeaturesError{Keys: []string{"Debtor"}},
			wantStatus: http.StatusBadRequest,
			wantCode:   "missing_features",
		},
		{
			name:       "model_not_ready",
			err:        services.ErrModelNotReady,
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   "model_not_loaded",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ph := NewPredictionHandler(&stubPredictionService{rawErr: tc.err})

			w := performRequest(t, ph.PredictRaw, http.MethodPost, "/", fullBody)
			if w.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tc.wantStatus)
			}
			var envelope ErrorEnvelope
			if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
				t.Fatalf("decode error envelope: %v", err)
			}
			if envelope.Error.Code != tc.wantCode {
				t.Fatalf("code = %q, want %q", envelope.Error.Code, tc.wantCode)
			}
		})
	}
}

func TestPredictRaw(t *testing.T) {
	svc := &stubPredictionService{
		result: &scoring.Result{
			RiskLevel:            "medium",
			RiskScore:            40,
			DropoutProbability:   0.4,
			PredictedClass:       "Enrolled",
			RiskFactors:          []scoring.RiskFactor{},
			Recommendations:      []scoring.Recommendation{},
			PredictionConfidence: 0.8,
		},
	}
	ph := NewPredictionHandler(svc)

	w := performRequest(t, ph.PredictRaw, http.MethodPost, "/", `{"features":{"Debtor":1}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if svc.gotRaw["Debtor"] != 1 {
		t.Fatalf("service received %v, want Debtor=1", svc.gotRaw)
	}
}

func TestHealth(t *testing.T) {
	hh := NewHealthHandler(&stubPredictionService{ready: true})

	w := performRequest(t, hh.Health, http.MethodGet, "/", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp struct {
		Status        string `json:"status"`
		Version       string `json:"version"`
		MLModelLoaded bool   `json:"ml_model_loaded"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "healthy" || !resp.MLModelLoaded {
		t.Fatalf("unexpected payload %+v", resp)
	}
}
