package model

// Prediction is the model service's answer for one feature vector.
type Prediction struct {
	DropoutProbability float64 `json:"dropout_probability"`
	PredictedClass     string  `json:"predicted_class"`
	ModelConfidence    float64 `json:"model_confidence"`
}

type predictRequest struct {
	Features []float64 `json:"features"`
}

type healthResponse struct {
	Status      string `json:"status"`
	Version     string `json:"version"`
	ModelLoaded bool   `json:"model_loaded"`
}
