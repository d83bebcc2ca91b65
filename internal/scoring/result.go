package scoring

type RiskFactor struct {
	Category    string `json:"category"`
	Factor      string `json:"factor"`
	Impact      string `json:"impact"`
	Description string `json:"description"`
}

type Recommendation struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Urgency     string `json:"urgency"`
	Contact     string `json:"contact,omitempty"`
}

// Result is the full prediction payload returned to callers and persisted as
// one prediction row plus its child factor/recommendation rows.
type Result struct {
	RiskLevel            string           `json:"risk_level"`
	RiskScore            int              `json:"risk_score"`
	DropoutProbability   float64          `json:"dropout_probability"`
	PredictedClass       string           `json:"predicted_class,omitempty"`
	RiskFactors          []RiskFactor     `json:"risk_factors"`
	Recommendations      []Recommendation `json:"recommendations"`
	PredictionConfidence float64          `json:"prediction_confidence"`
}
