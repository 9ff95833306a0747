package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/PranavGopinath/spectra/internal/taste"
)

// maxExplanationFactors bounds how many aligned dimensions the prose
// explanation mentions.
const maxExplanationFactors = 3

// fallbackExplanation is returned when no dimension contributes positively.
const fallbackExplanation = "General aesthetic alignment"

// DimensionContribution is one dimension's share of a taste match.
type DimensionContribution struct {
	Dimension    string  `json:"dimension"`
	Name         string  `json:"name"`
	ProfileScore float64 `json:"profile_score"`
	ItemScore    float64 `json:"item_score"`
	Contribution float64 `json:"contribution"`
	Aligned      bool    `json:"aligned"`
}

// MatchExplanation breaks a profile-to-item taste match down per dimension.
// Contributions are ordered by descending absolute magnitude, so the
// strongest drivers of the match (or mismatch) come first.
type MatchExplanation struct {
	ItemID        string                  `json:"item_id"`
	Title         string                  `json:"title"`
	Similarity    float64                 `json:"similarity"`
	Explanation   string                  `json:"explanation"`
	Contributions []DimensionContribution `json:"contributions"`
}

// Explain computes why an item matches a taste profile: cosine similarity
// in taste space plus a per-dimension contribution breakdown and a short
// prose summary of the strongest aligned dimensions.
// Parameters:
//   - ctx: request context.
//   - itemID: catalog id of the item to explain against.
//   - profileVector: the profile's taste vector, one score per dimension.
//
// Returns:
//   - *MatchExplanation: the breakdown.
//   - error: *ValidationError on a wrong-length profile, *NotFoundError on
//     an unknown item, taste.ErrDegenerateVector when either vector is all
//     zeros.
func (r *Recommender) Explain(ctx context.Context, itemID string, profileVector []float32) (*MatchExplanation, error) {
	// Validate the profile before touching the catalog so a malformed
	// request never reports "not found".
	if len(profileVector) != taste.NumDimensions {
		return nil, &ValidationError{Msg: fmt.Sprintf(
			"profile vector must have %d dimensions, got %d", taste.NumDimensions, len(profileVector))}
	}

	item, err := r.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up item %s: %w", itemID, err)
	}
	if item == nil {
		return nil, &NotFoundError{Resource: "media item", ID: itemID}
	}
	if len(item.TasteVector) != taste.NumDimensions {
		return nil, fmt.Errorf("item %s has a malformed taste vector of length %d", itemID, len(item.TasteVector))
	}

	similarity, err := taste.CosineSimilarity(profileVector, item.TasteVector)
	if err != nil {
		return nil, err
	}

	contributions := make([]DimensionContribution, taste.NumDimensions)
	for i, dim := range taste.Dimensions {
		profileScore := float64(profileVector[i])
		itemScore := float64(item.TasteVector[i])
		contribution := profileScore * itemScore
		contributions[i] = DimensionContribution{
			Dimension:    dim.ID,
			Name:         dim.Name,
			ProfileScore: profileScore,
			ItemScore:    itemScore,
			Contribution: contribution,
			Aligned:      contribution > 0,
		}
	}
	sort.SliceStable(contributions, func(i, j int) bool {
		return math.Abs(contributions[i].Contribution) > math.Abs(contributions[j].Contribution)
	})

	return &MatchExplanation{
		ItemID:        itemID,
		Title:         item.Title,
		Similarity:    similarity,
		Explanation:   buildExplanation(contributions, profileVector),
		Contributions: contributions,
	}, nil
}

// buildExplanation phrases the aligned dimensions among the strongest
// contributors. Only the top contributions by magnitude are candidates; an
// aligned dimension ranked below them never surfaces, so a match dominated
// by misaligned dimensions falls back even when weaker aligned ones exist.
// The profile's sign on each dimension picks which pole label to name.
func buildExplanation(contributions []DimensionContribution, profileVector []float32) string {
	candidates := contributions
	if len(candidates) > maxExplanationFactors {
		candidates = candidates[:maxExplanationFactors]
	}
	phrases := make([]string, 0, maxExplanationFactors)
	for _, c := range candidates {
		if !c.Aligned {
			continue
		}
		dim, ok := taste.DimensionByID(c.Dimension)
		if !ok {
			continue
		}
		label := dim.PositiveLabel
		if c.ProfileScore < 0 {
			label = dim.NegativeLabel
		}
		phrases = append(phrases, fmt.Sprintf("Both lean towards %s: %s",
			strings.ToLower(dim.Name), strings.ToLower(label)))
	}
	if len(phrases) == 0 {
		return fallbackExplanation
	}
	return strings.Join(phrases, ". ")
}
