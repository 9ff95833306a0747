package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/PranavGopinath/spectra/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ItemRepository handles media item catalog operations.
type ItemRepository struct {
	db *gorm.DB
}

// NewItemRepository creates a new ItemRepository.
// Parameters:
//   - db: GORM database handle used for queries.
//
// Returns:
//   - *ItemRepository: repository instance bound to db.
func NewItemRepository(db *gorm.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// Create inserts a new media item record.
func (r *ItemRepository) Create(ctx context.Context, item *domain.MediaItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// Upsert creates or updates a media item keyed by its ID.
func (r *ItemRepository) Upsert(ctx context.Context, item *domain.MediaItem) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(item).Error
}

// GetByID retrieves a media item by its ID.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - id: item ID.
//
// Returns:
//   - *domain.MediaItem: the item, or nil if no item has that ID.
//   - error: non-nil only on query failure; absence is not an error here.
func (r *ItemRepository) GetByID(ctx context.Context, id string) (*domain.MediaItem, error) {
	var item domain.MediaItem
	err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// GetByIDs retrieves media items by a list of IDs.
func (r *ItemRepository) GetByIDs(ctx context.Context, ids []string) ([]domain.MediaItem, error) {
	if len(ids) == 0 {
		return []domain.MediaItem{}, nil
	}
	var items []domain.MediaItem
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to get items by IDs: %w", err)
	}
	return items, nil
}

// ListByType retrieves catalog items of one media type with pagination.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - mediaType: media type to filter by; empty means all.
//   - limit: maximum number of records to return.
//   - offset: number of records to skip.
//
// Returns:
//   - []domain.MediaItem: matching items ordered by title.
//   - error: non-nil if the query fails.
func (r *ItemRepository) ListByType(ctx context.Context, mediaType domain.MediaType, limit, offset int) ([]domain.MediaItem, error) {
	var items []domain.MediaItem
	query := r.db.WithContext(ctx)
	if mediaType != "" {
		query = query.Where("media_type = ?", mediaType)
	}
	if err := query.
		Limit(limit).
		Offset(offset).
		Order("title ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// CountByType counts catalog items per media type.
func (r *ItemRepository) CountByType(ctx context.Context, mediaType domain.MediaType) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.MediaItem{}).
		Where("media_type = ?", mediaType).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Delete removes a media item by ID.
func (r *ItemRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&domain.MediaItem{}, "id = ?", id).Error
}
