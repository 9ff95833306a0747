package service

import (
	"context"
	"fmt"

	"github.com/PranavGopinath/spectra/internal/domain"
	"github.com/PranavGopinath/spectra/internal/logger"
	"github.com/PranavGopinath/spectra/internal/taste"
)

// maxDescriptionLen caps the description text attached to formatted results.
const maxDescriptionLen = 200

// SimilarityIndex is the per-media-type nearest-neighbor search a
// Recommender fans queries out to. Results are ranked by descending
// similarity, bounded to [0,1].
type SimilarityIndex interface {
	Search(ctx context.Context, vector []float32, space domain.SearchSpace, limit int) ([]domain.SimilarityHit, error)
}

// ItemStore is the catalog lookup the Recommender needs. GetByID returns
// (nil, nil) when no item has the given id.
type ItemStore interface {
	GetByID(ctx context.Context, id string) (*domain.MediaItem, error)
}

// RatingStore supplies the rating data user profiles are derived from.
type RatingStore interface {
	GetRatingsWithVectors(ctx context.Context, userID string) ([]domain.RatedItemVectors, error)
	GetRatedItemIDs(ctx context.Context, userID string) (map[string]struct{}, error)
}

// RecommenderConfig holds configuration for the recommender.
type RecommenderConfig struct {
	DefaultTopK int
	MaxTopK     int
}

// Recommender orchestrates cross-domain retrieval: it resolves a query into
// a search vector and space, fans out to the per-media-type similarity
// indexes, filters, and formats. It is stateless per request; the only
// shared state (the projection engine's basis) is immutable, so a single
// Recommender serves concurrent requests without locking.
type Recommender struct {
	engine      *taste.Engine
	items       ItemStore
	ratings     RatingStore
	indexes     map[domain.MediaType]SimilarityIndex
	logger      *logger.Logger
	defaultTopK int
	maxTopK     int
}

// NewRecommender creates a recommender over explicitly injected collaborators.
// Parameters:
//   - engine: projection engine with the loaded dimension basis.
//   - items: catalog item lookup.
//   - ratings: rating repository for user profiles.
//   - indexes: one similarity index per media type.
//   - log: logger instance.
//   - cfg: recommender settings; nil uses defaults.
//
// Returns:
//   - *Recommender: initialized recommender.
func NewRecommender(
	engine *taste.Engine,
	items ItemStore,
	ratings RatingStore,
	indexes map[domain.MediaType]SimilarityIndex,
	log *logger.Logger,
	cfg *RecommenderConfig,
) *Recommender {
	defaultTopK, maxTopK := 10, 50
	if cfg != nil {
		if cfg.DefaultTopK > 0 {
			defaultTopK = cfg.DefaultTopK
		}
		if cfg.MaxTopK > 0 {
			maxTopK = cfg.MaxTopK
		}
	}
	return &Recommender{
		engine:      engine,
		items:       items,
		ratings:     ratings,
		indexes:     indexes,
		logger:      log,
		defaultTopK: defaultTopK,
		maxTopK:     maxTopK,
	}
}

// log returns a logger from context if available, otherwise the default one.
func (r *Recommender) log(ctx context.Context) *logger.Logger {
	if l := logger.FromContext(ctx); l != nil {
		return l
	}
	return r.logger
}

// RecommendedItem is one formatted recommendation.
type RecommendedItem struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	MediaType   domain.MediaType `json:"media_type"`
	Year        *int             `json:"year,omitempty"`
	Description string           `json:"description"`
	Metadata    domain.JSONMap   `json:"metadata,omitempty"`
	ArtworkURL  string           `json:"artwork_url,omitempty"`
	Similarity  float32          `json:"similarity"`
}

// RecommendationResult maps each searched media type to its ranked
// recommendations, in the similarity index's descending order.
type RecommendationResult map[domain.MediaType][]RecommendedItem

// RecommendRequest holds the parameters of a recommendation query.
type RecommendRequest struct {
	Query      Query
	MediaTypes []domain.MediaType
	TopK       int
	MinYear    *int
	MaxYear    *int
}

// Recommend retrieves ranked cross-domain recommendations for a query.
// Free-text queries are embedded and searched in embedding space; vector
// queries search the space their tag names. Each media type is over-fetched
// at 2x top_k to survive year filtering, then truncated.
func (r *Recommender) Recommend(ctx context.Context, req *RecommendRequest) (RecommendationResult, error) {
	return r.recommend(ctx, req, r.clampTopK(req.TopK))
}

// recommend runs the search with an already-resolved per-bucket size.
// FindSimilar reaches it directly so its compensation slot is not clamped
// away when the caller asked for the maximum.
func (r *Recommender) recommend(ctx context.Context, req *RecommendRequest, topK int) (RecommendationResult, error) {
	mediaTypes := req.MediaTypes
	if len(mediaTypes) == 0 {
		mediaTypes = domain.AllMediaTypes()
	}

	vector, space, err := r.resolveQuery(ctx, req.Query)
	if err != nil {
		return nil, err
	}

	logger.CtxInfo(ctx, "Running recommendation query: space=%s, media_types=%v, top_k=%d",
		space, mediaTypes, topK)

	results := make(RecommendationResult, len(mediaTypes))
	for _, mediaType := range mediaTypes {
		index, err := r.indexFor(mediaType)
		if err != nil {
			return nil, err
		}

		// Over-fetch so year filtering doesn't starve the bucket.
		hits, err := index.Search(ctx, vector, space, 2*topK)
		if err != nil {
			return nil, fmt.Errorf("search failed for %s: %w", mediaType, err)
		}

		hits = filterByYear(hits, req.MinYear, req.MaxYear)
		if len(hits) > topK {
			hits = hits[:topK]
		}
		results[mediaType] = formatHits(hits)
	}

	return results, nil
}

// FindSimilar retrieves items similar to a given catalog item, across
// domains, using the source item's taste vector as the query. The source
// item never appears in the result.
func (r *Recommender) FindSimilar(ctx context.Context, itemID string, mediaTypes []domain.MediaType, topK int, excludeSameItem bool) (RecommendationResult, error) {
	topK = r.clampTopK(topK)

	item, err := r.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up item %s: %w", itemID, err)
	}
	if item == nil {
		return nil, &NotFoundError{Resource: "media item", ID: itemID}
	}

	query, err := TasteQuery(item.TasteVector)
	if err != nil {
		return nil, fmt.Errorf("item %s has an invalid taste vector: %w", itemID, err)
	}

	// Request one extra slot per bucket: the source item would otherwise
	// occupy one of them.
	fetchK := topK
	if excludeSameItem {
		fetchK = topK + 1
	}

	results, err := r.recommend(ctx, &RecommendRequest{
		Query:      query,
		MediaTypes: mediaTypes,
	}, fetchK)
	if err != nil {
		return nil, err
	}

	if excludeSameItem {
		for mediaType, items := range results {
			filtered := make([]RecommendedItem, 0, len(items))
			for _, it := range items {
				if it.ID == itemID {
					continue
				}
				filtered = append(filtered, it)
			}
			if len(filtered) > topK {
				filtered = filtered[:topK]
			}
			results[mediaType] = filtered
		}
	}

	return results, nil
}

// RecommendForUser retrieves recommendations driven by a user's aggregated
// taste profile. The aggregate embedding is searched (the full embedding
// space gives finer-grained matching than the taste projection); already
// rated items are filtered out unless excludeRated is false. A user with no
// ratings gets an empty result, not an error.
func (r *Recommender) RecommendForUser(ctx context.Context, userID string, mediaTypes []domain.MediaType, topK int, excludeRated bool) (RecommendationResult, error) {
	topK = r.clampTopK(topK)
	ctx = logger.SetUserID(ctx, userID)

	profile, err := r.ComputeUserProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		r.log(ctx).WithField(logger.FieldUserID, userID).Info("User has no ratings, returning empty recommendations")
		return RecommendationResult{}, nil
	}

	ratedIDs := map[string]struct{}{}
	if excludeRated {
		ratedIDs, err = r.ratings.GetRatedItemIDs(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to get rated item ids: %w", err)
		}
	}

	if len(mediaTypes) == 0 {
		mediaTypes = domain.AllMediaTypes()
	}

	results := make(RecommendationResult, len(mediaTypes))
	for _, mediaType := range mediaTypes {
		index, err := r.indexFor(mediaType)
		if err != nil {
			return nil, err
		}

		// Over-fetch at 3x so filtering rated items doesn't starve the bucket.
		hits, err := index.Search(ctx, profile.Embedding, domain.SpaceEmbedding, 3*topK)
		if err != nil {
			return nil, fmt.Errorf("search failed for %s: %w", mediaType, err)
		}

		filtered := make([]domain.SimilarityHit, 0, len(hits))
		for _, hit := range hits {
			if _, rated := ratedIDs[hit.ItemID]; rated {
				continue
			}
			filtered = append(filtered, hit)
		}
		if len(filtered) > topK {
			filtered = filtered[:topK]
		}
		results[mediaType] = formatHits(filtered)
	}

	return results, nil
}

// ComputeUserProfile fetches the user's ratings and aggregates them into a
// taste profile. Returns (nil, nil) when the user has no ratings.
func (r *Recommender) ComputeUserProfile(ctx context.Context, userID string) (*TasteProfile, error) {
	entries, err := r.ratings.GetRatingsWithVectors(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get ratings for user %s: %w", userID, err)
	}
	return ComputeProfile(entries)
}

// TasteAnalysis is the result of analyzing free text for taste signals.
type TasteAnalysis struct {
	TasteVector []float32        `json:"taste_vector"`
	Breakdown   []DimensionScore `json:"breakdown"`
}

// AnalyzeTaste embeds a free-text taste description, projects it, and
// interprets the resulting taste vector dimension by dimension.
func (r *Recommender) AnalyzeTaste(ctx context.Context, text string) (*TasteAnalysis, error) {
	tasteVector, err := r.engine.TextToTasteVector(ctx, text)
	if err != nil {
		return nil, err
	}
	return &TasteAnalysis{
		TasteVector: tasteVector,
		Breakdown:   BuildBreakdown(tasteVector),
	}, nil
}

// resolveQuery turns a tagged query into a concrete search vector and space.
func (r *Recommender) resolveQuery(ctx context.Context, q Query) ([]float32, domain.SearchSpace, error) {
	switch q.Kind() {
	case QueryText:
		if q.Text() == "" {
			return nil, "", &ValidationError{Msg: "query text is empty"}
		}
		embedding, err := r.engine.Embed(ctx, q.Text())
		if err != nil {
			return nil, "", err
		}
		return embedding, domain.SpaceEmbedding, nil
	case QueryEmbedding:
		return q.Vector(), domain.SpaceEmbedding, nil
	case QueryTaste:
		return q.Vector(), domain.SpaceTaste, nil
	default:
		return nil, "", &ValidationError{Msg: fmt.Sprintf("unknown query kind %d", q.Kind())}
	}
}

func (r *Recommender) indexFor(mediaType domain.MediaType) (SimilarityIndex, error) {
	index, ok := r.indexes[mediaType]
	if !ok {
		return nil, &ValidationError{Msg: fmt.Sprintf("unknown media type %q", mediaType)}
	}
	return index, nil
}

func (r *Recommender) clampTopK(topK int) int {
	if topK <= 0 {
		return r.defaultTopK
	}
	if topK > r.maxTopK {
		return r.maxTopK
	}
	return topK
}

// filterByYear drops hits outside the inclusive [minYear, maxYear] bounds.
// Hits with an unknown year pass through unaffected.
func filterByYear(hits []domain.SimilarityHit, minYear, maxYear *int) []domain.SimilarityHit {
	if minYear == nil && maxYear == nil {
		return hits
	}
	filtered := make([]domain.SimilarityHit, 0, len(hits))
	for _, hit := range hits {
		if hit.Year != nil {
			if minYear != nil && *hit.Year < *minYear {
				continue
			}
			if maxYear != nil && *hit.Year > *maxYear {
				continue
			}
		}
		filtered = append(filtered, hit)
	}
	return filtered
}

func formatHits(hits []domain.SimilarityHit) []RecommendedItem {
	items := make([]RecommendedItem, len(hits))
	for i, hit := range hits {
		items[i] = RecommendedItem{
			ID:          hit.ItemID,
			Title:       hit.Title,
			MediaType:   hit.MediaType,
			Year:        hit.Year,
			Description: truncateDescription(hit.Description),
			Metadata:    hit.Metadata,
			ArtworkURL:  hit.ArtworkURL,
			Similarity:  hit.Similarity,
		}
	}
	return items
}

// truncateDescription caps a description at maxDescriptionLen characters.
// Counted in runes so a multibyte character is never split.
func truncateDescription(s string) string {
	if len(s) <= maxDescriptionLen {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxDescriptionLen {
		return s
	}
	return string(runes[:maxDescriptionLen]) + "..."
}
