package domain

import "time"

// Prediction is the heuristic verdict for a trait vector: the selected
// house, its confidence, and the full probability distribution. Model, when
// present, carries the statistical classifier's opinion for comparison; it
// never overrides House.
type Prediction struct {
	House         string             `json:"house"`
	Confidence    float64            `json:"confidence"`
	Probabilities map[string]float64 `json:"probabilities"`
	Traits        TraitVector        `json:"traits"`
	Model         *ModelComparison   `json:"model,omitempty"`
}

// ModelComparison is the diagnostic output of the optional statistical
// classifier collaborator.
type ModelComparison struct {
	House         string             `json:"house"`
	Probabilities map[string]float64 `json:"probabilities"`
	ModelType     string             `json:"model_type"`
	Agrees        bool               `json:"agrees"`
}

// SortingResult is the archived outcome of a completed session.
type SortingResult struct {
	ID                string             `json:"id"`
	SessionID         string             `json:"session_id"`
	House             string             `json:"house"`
	Confidence        float64            `json:"confidence"`
	Traits            TraitVector        `json:"traits"`
	Probabilities     map[string]float64 `json:"probabilities"`
	QuestionsAnswered int                `json:"questions_answered"`
	CreatedAt         time.Time          `json:"created_at"`
}
