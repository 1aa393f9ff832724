package aggregation

import (
	"fmt"
	"math"
	"time"

	"github.com/MichalMitros/market-tracker/internal/platform/models"
	"github.com/mitchellh/mapstructure"
)

// observation is decoded raw snapshot. Nil values weren't observed.
type observation struct {
	CapturedAt  time.Time `json:"-"`
	Price       *float64  `json:"price"`
	Rating      *float64  `json:"rating"`
	ReviewCount *float64  `json:"review_count"`
	Sales       *float64  `json:"sales"`
	Title       string    `json:"title"`
	Seller      string    `json:"seller"`
	Tags        []string  `json:"tags"`
}

func decodeObservation(snapshot *models.Snapshot) (observation, error) {
	obs := observation{}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           &obs,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return obs, fmt.Errorf("can't create fields decoder: %w", err)
	}

	if err := decoder.Decode(map[string]any(snapshot.Fields)); err != nil {
		return obs, fmt.Errorf("can't decode fields of snapshot %d: %w", snapshot.ID, err)
	}
	obs.CapturedAt = snapshot.CapturedAt

	return obs, nil
}

// values returns non-nil values picked from observations.
func values(series []observation, pick func(o observation) *float64) []float64 {
	result := make([]float64, 0, len(series))
	for _, obs := range series {
		if v := pick(obs); v != nil && !math.IsNaN(*v) {
			result = append(result, *v)
		}
	}
	return result
}

func mean(xs []float64) float64 {
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// stddev is population standard deviation.
func stddev(xs []float64) float64 {
	m := mean(xs)
	sum := 0.0
	for _, x := range xs {
		sum += (x - m) * (x - m)
	}
	return math.Sqrt(sum / float64(len(xs)))
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}

// squash maps any real number into (0, 1) with 0 mapped to 0.5.
func squash(x float64) float64 {
	return 0.5 + 0.5*x/(1+math.Abs(x))
}

// minMax normalizes x into [0, 1] against peers. Degenerate range maps to 0.5.
func minMax(x float64, peers []float64) float64 {
	lo, hi := peers[0], peers[0]
	for _, p := range peers[1:] {
		lo = math.Min(lo, p)
		hi = math.Max(hi, p)
	}

	if hi == lo {
		return 0.5
	}

	return clamp((x-lo)/(hi-lo), 0, 1)
}

type component struct {
	value  *float64
	weight float64
}

// weighted returns weighted average of present components, renormalizing weights.
// Returns nil when no weighted component is present.
func weighted(components ...component) *float64 {
	sum, weights := 0.0, 0.0
	for _, c := range components {
		if c.value == nil || c.weight <= 0 {
			continue
		}
		sum += *c.value * c.weight
		weights += c.weight
	}

	if weights == 0 {
		return nil
	}

	score := sum / weights
	return &score
}
