// Package classifier loads the optional statistical sorting model exported
// by the training pipeline and evaluates it over expanded trait features.
// The heuristic predictor never defers to it; its output is diagnostic.
package classifier

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/Sainava/Wiz-Scholar/internal/domain"
)

// Model is the classifier collaborator. Predict is pure and returns the
// predicted house plus a per-house probability map.
type Model interface {
	Predict(features []float64) (string, map[string]float64)
	Type() string
	Available() bool
}

var ErrMalformedModel = errors.New("malformed model file")

// Scaler holds StandardScaler parameters applied before distance lookups.
type Scaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// modelFile mirrors the serialized bundle. Three historical layouts exist:
// a bare model with top-level centroids, a wrapped model, and a wrapped
// model with a scaler. They decode into one tagged variant below.
type modelFile struct {
	ModelType      string               `json:"model_type"`
	FeatureColumns []string             `json:"feature_columns"`
	Centroids      map[string][]float64 `json:"centroids"`
	Model          *struct {
		Centroids map[string][]float64 `json:"centroids"`
	} `json:"model"`
	Scaler *Scaler `json:"scaler"`
}

// NoModel is the absent collaborator: heuristic-only operation.
type NoModel struct{}

func (NoModel) Predict([]float64) (string, map[string]float64) { return "", nil }
func (NoModel) Type() string                                   { return "none" }
func (NoModel) Available() bool                                { return false }

// BasicModel is a nearest-centroid classifier over raw features.
type BasicModel struct {
	modelType string
	centroids map[string][]float64
}

// EnhancedModel wraps BasicModel with feature standardization.
type EnhancedModel struct {
	BasicModel
	scaler Scaler
}

// Load reads a model bundle from path. A missing file is not an error:
// the caller gets NoModel and the service stays heuristic-only.
func Load(path string) (Model, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return NoModel{}, nil
	}
	if err != nil {
		return NoModel{}, fmt.Errorf("read model: %w", err)
	}

	var file modelFile
	if err := json.Unmarshal(data, &file); err != nil {
		return NoModel{}, fmt.Errorf("%w: %v", ErrMalformedModel, err)
	}

	centroids := file.Centroids
	if file.Model != nil {
		centroids = file.Model.Centroids
	}
	if len(centroids) == 0 {
		return NoModel{}, fmt.Errorf("%w: no centroids", ErrMalformedModel)
	}
	for house, c := range centroids {
		if !domain.IsHouse(house) {
			return NoModel{}, fmt.Errorf("%w: unknown house %q", ErrMalformedModel, house)
		}
		if len(c) != len(FeatureColumns) {
			return NoModel{}, fmt.Errorf("%w: house %q has %d features, want %d",
				ErrMalformedModel, house, len(c), len(FeatureColumns))
		}
	}

	modelType := file.ModelType
	if modelType == "" {
		modelType = "DecisionTree"
	}
	basic := BasicModel{modelType: modelType, centroids: centroids}
	if file.Scaler == nil {
		return basic, nil
	}
	if len(file.Scaler.Mean) != len(FeatureColumns) || len(file.Scaler.Scale) != len(FeatureColumns) {
		return NoModel{}, fmt.Errorf("%w: scaler dimensions", ErrMalformedModel)
	}
	return EnhancedModel{BasicModel: basic, scaler: *file.Scaler}, nil
}

func (m BasicModel) Type() string    { return m.modelType }
func (m BasicModel) Available() bool { return true }

// Predict picks the nearest centroid and converts distances into a
// probability distribution with a softmax over negative squared distance.
// Ties resolve to house declaration order.
func (m BasicModel) Predict(features []float64) (string, map[string]float64) {
	return predictCentroids(m.centroids, features)
}

func (m EnhancedModel) Type() string {
	return m.modelType + "+scaler"
}

// Predict standardizes features before the centroid lookup.
func (m EnhancedModel) Predict(features []float64) (string, map[string]float64) {
	scaled := make([]float64, len(features))
	for i, f := range features {
		s := m.scaler.Scale[i]
		if s == 0 {
			s = 1
		}
		scaled[i] = (f - m.scaler.Mean[i]) / s
	}
	return predictCentroids(m.centroids, scaled)
}

func predictCentroids(centroids map[string][]float64, features []float64) (string, map[string]float64) {
	weights := make(map[string]float64, len(domain.Houses))
	var total float64
	for _, house := range domain.Houses {
		centroid, ok := centroids[house]
		if !ok {
			continue
		}
		var dist float64
		for i := range centroid {
			if i >= len(features) {
				break
			}
			d := features[i] - centroid[i]
			dist += d * d
		}
		w := math.Exp(-dist / float64(len(FeatureColumns)))
		weights[house] = w
		total += w
	}

	probs := make(map[string]float64, len(weights))
	best := ""
	bestP := -1.0
	for _, house := range domain.Houses {
		w, ok := weights[house]
		if !ok {
			continue
		}
		p := w / total
		if total == 0 {
			p = 1.0 / float64(len(weights))
		}
		probs[house] = p
		if p > bestP {
			best = house
			bestP = p
		}
	}
	return best, probs
}
