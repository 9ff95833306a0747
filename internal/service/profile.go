package service

import (
	"github.com/PranavGopinath/spectra/internal/domain"
	"github.com/PranavGopinath/spectra/internal/taste"
)

// tendencyThreshold is the fixed score magnitude beyond which a dimension
// counts as leaning towards one of its poles.
const tendencyThreshold = 0.1

// tendencyBalanced labels a dimension whose score sits inside the threshold.
const tendencyBalanced = "Balanced"

// DimensionScore is one row of a taste breakdown, in basis order.
type DimensionScore struct {
	Dimension   string  `json:"dimension"`
	Score       float64 `json:"score"`
	Tendency    string  `json:"tendency"`
	Description string  `json:"description"`
}

// TasteProfile is a user's aggregate position in both spaces, derived from
// their ratings. It has no independent lifecycle: it is recomputed from the
// ratings every time it is requested and never persisted.
type TasteProfile struct {
	Embedding   []float32        `json:"-"`
	TasteVector []float32        `json:"taste_vector"`
	Breakdown   []DimensionScore `json:"breakdown"`
	NumRatings  int              `json:"num_ratings"`
}

// ComputeProfile aggregates a user's rated items into a taste profile.
// The aggregate embedding and aggregate taste vector are weighted averages
// of the items' stored vectors, weighted by rating and computed
// independently of each other so projection error is not compounded.
// Parameters:
//   - entries: one entry per rated item, each pairing the rating weight with
//     the item's embedding and taste vector.
//
// Returns:
//   - *TasteProfile: the aggregate profile, or nil (with nil error) when the
//     user has no ratings. A nil profile is the explicit "no data" signal and
//     is distinct from a profile that happens to be centered at zero.
//   - error: InvalidWeightError if any rating weight is not positive, or a
//     mismatch error if the stored vectors are inconsistent.
func ComputeProfile(entries []domain.RatedItemVectors) (*TasteProfile, error) {
	if len(entries) == 0 {
		return nil, nil
	}

	weights := make([]float64, len(entries))
	embeddings := make([][]float32, len(entries))
	tasteVectors := make([][]float32, len(entries))
	for i, e := range entries {
		if e.Rating <= 0 {
			return nil, &InvalidWeightError{Index: i, Weight: e.Rating}
		}
		weights[i] = e.Rating
		embeddings[i] = e.Embedding
		tasteVectors[i] = e.TasteVector
	}

	aggEmbedding, err := taste.WeightedAverage(embeddings, weights)
	if err != nil {
		return nil, err
	}
	aggTaste, err := taste.WeightedAverage(tasteVectors, weights)
	if err != nil {
		return nil, err
	}

	return &TasteProfile{
		Embedding:   aggEmbedding,
		TasteVector: aggTaste,
		Breakdown:   BuildBreakdown(aggTaste),
		NumRatings:  len(entries),
	}, nil
}

// BuildBreakdown interprets a taste vector dimension by dimension, in basis
// order. Scores above +0.1 lean towards the positive pole, below -0.1
// towards the negative pole; everything else (ties included) is balanced.
func BuildBreakdown(tasteVector []float32) []DimensionScore {
	breakdown := make([]DimensionScore, 0, len(tasteVector))
	for i, score := range tasteVector {
		if i >= len(taste.Dimensions) {
			break
		}
		dim := taste.Dimensions[i]

		tendency := tendencyBalanced
		if float64(score) > tendencyThreshold {
			tendency = dim.PositiveLabel
		} else if float64(score) < -tendencyThreshold {
			tendency = dim.NegativeLabel
		}

		breakdown = append(breakdown, DimensionScore{
			Dimension:   dim.Name,
			Score:       float64(score),
			Tendency:    tendency,
			Description: dim.Description,
		})
	}
	return breakdown
}
