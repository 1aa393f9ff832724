package aggregation

import (
	"errors"
	"fmt"
	"time"
)

// TrendWeights weights trend score components.
type TrendWeights struct {
	Velocity  float64
	Stability float64
}

// MarginWeights weights margin potential components.
type MarginWeights struct {
	Rating       float64
	Sales        float64
	InversePrice float64
	Reviews      float64
}

// SeasonRule associates season label with keywords and category ids.
type SeasonRule struct {
	Keywords   []string
	Categories []string
}

// Config holds scoring policy of Engine.
type Config struct {
	Trend       TrendWeights
	Margin      MarginWeights
	TrendWindow time.Duration
	Seasons     map[string]SeasonRule
}

// DefaultConfig returns default scoring policy.
func DefaultConfig() Config {
	return Config{
		Trend:       TrendWeights{Velocity: 0.7, Stability: 0.3},
		Margin:      MarginWeights{Rating: 0.3, Sales: 0.3, InversePrice: 0.2, Reviews: 0.2},
		TrendWindow: 7 * 24 * time.Hour,
		Seasons:     DefaultSeasons(),
	}
}

// DefaultSeasons returns default season vocabulary.
func DefaultSeasons() map[string]SeasonRule {
	return map[string]SeasonRule{
		"halloween": {Keywords: []string{"halloween", "spooky", "costume", "pumpkin", "ghost", "witch"}},
		"christmas": {Keywords: []string{"christmas", "holiday", "gift", "santa", "tree", "ornament"}},
		"summer":    {Keywords: []string{"summer", "beach", "swim", "vacation", "hot", "sunny"}},
		"winter":    {Keywords: []string{"winter", "cold", "snow", "warm", "coat", "heater"}},
		"spring":    {Keywords: []string{"spring", "flower", "garden", "fresh", "renewal"}},
		"fall":      {Keywords: []string{"fall", "autumn", "harvest", "leaves", "cozy"}},
	}
}

// NewTrendWeights builds TrendWeights from [velocity, stability] vector.
func NewTrendWeights(vector []float64) (TrendWeights, error) {
	if err := validateVector(vector, 2); err != nil {
		return TrendWeights{}, fmt.Errorf("invalid trend weights: %w", err)
	}

	return TrendWeights{Velocity: vector[0], Stability: vector[1]}, nil
}

// NewMarginWeights builds MarginWeights from [rating, sales, inverse price, reviews] vector.
func NewMarginWeights(vector []float64) (MarginWeights, error) {
	if err := validateVector(vector, 4); err != nil {
		return MarginWeights{}, fmt.Errorf("invalid margin weights: %w", err)
	}

	return MarginWeights{
		Rating:       vector[0],
		Sales:        vector[1],
		InversePrice: vector[2],
		Reviews:      vector[3],
	}, nil
}

func validateVector(vector []float64, size int) error {
	if len(vector) != size {
		return fmt.Errorf("expected %d weights, got %d", size, len(vector))
	}

	sum := 0.0
	for _, weight := range vector {
		if weight < 0 {
			return errors.New("weights can't be negative")
		}
		sum += weight
	}

	if sum == 0 {
		return errors.New("weights can't all be zero")
	}

	return nil
}
