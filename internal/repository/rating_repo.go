package repository

import (
	"context"
	"fmt"

	"github.com/PranavGopinath/spectra/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RatingRepository handles user rating operations and the joined reads the
// profile aggregator needs.
type RatingRepository struct {
	db *gorm.DB
}

// NewRatingRepository creates a new RatingRepository.
func NewRatingRepository(db *gorm.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

// Upsert creates or updates a rating keyed by (user_id, item_id).
func (r *RatingRepository) Upsert(ctx context.Context, rating *domain.Rating) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "item_id"}},
		UpdateAll: true,
	}).Create(rating).Error
}

// Delete removes a user's rating of an item.
func (r *RatingRepository) Delete(ctx context.Context, userID, itemID string) error {
	return r.db.WithContext(ctx).
		Delete(&domain.Rating{}, "user_id = ? AND item_id = ?", userID, itemID).Error
}

// ListByUser retrieves all ratings of one user.
func (r *RatingRepository) ListByUser(ctx context.Context, userID string) ([]domain.Rating, error) {
	var ratings []domain.Rating
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&ratings).Error; err != nil {
		return nil, err
	}
	return ratings, nil
}

// GetRatingsWithVectors retrieves a user's rating weights joined with the
// rated items' stored embedding and taste vectors. This is the profile
// aggregator's input; items without vectors are skipped.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - userID: user whose ratings to fetch.
//
// Returns:
//   - []domain.RatedItemVectors: one entry per rated item, unordered.
//   - error: non-nil if the query fails.
func (r *RatingRepository) GetRatingsWithVectors(ctx context.Context, userID string) ([]domain.RatedItemVectors, error) {
	var rows []domain.RatedItemVectors
	err := r.db.WithContext(ctx).
		Table("ratings").
		Select("ratings.rating, media_items.embedding, media_items.taste_vector").
		Joins("JOIN media_items ON media_items.id = ratings.item_id").
		Where("ratings.user_id = ?", userID).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get ratings with vectors: %w", err)
	}
	return rows, nil
}

// GetRatedItemIDs returns the set of item IDs the user has rated.
func (r *RatingRepository) GetRatedItemIDs(ctx context.Context, userID string) (map[string]struct{}, error) {
	var ids []string
	if err := r.db.WithContext(ctx).
		Model(&domain.Rating{}).
		Where("user_id = ?", userID).
		Pluck("item_id", &ids).Error; err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}
