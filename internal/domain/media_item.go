package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// MediaType identifies which catalog domain an item belongs to.
type MediaType string

const (
	MediaTypeMovie MediaType = "movie"
	MediaTypeBook  MediaType = "book"
	MediaTypeMusic MediaType = "music"
)

// AllMediaTypes returns the known media types in canonical order.
func AllMediaTypes() []MediaType {
	return []MediaType{MediaTypeMovie, MediaTypeBook, MediaTypeMusic}
}

// ParseMediaType validates a raw string against the known media types.
// Parameters:
//   - s: raw media type string.
//
// Returns:
//   - MediaType: parsed media type.
//   - bool: true if s names a known type.
func ParseMediaType(s string) (MediaType, bool) {
	switch MediaType(s) {
	case MediaTypeMovie, MediaTypeBook, MediaTypeMusic:
		return MediaType(s), true
	}
	return "", false
}

// Vector is a dense float vector stored as a JSON array in the database.
type Vector []float32

// Value implements the driver.Valuer interface for database serialization.
func (v Vector) Value() (driver.Value, error) {
	if v == nil {
		return "[]", nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface for database deserialization.
func (v *Vector) Scan(value interface{}) error {
	if value == nil {
		*v = Vector{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		str, ok := value.(string)
		if !ok {
			return errors.New("failed to scan Vector")
		}
		bytes = []byte(str)
	}
	return json.Unmarshal(bytes, v)
}

// JSONMap is arbitrary item metadata stored as a JSON object in the database.
type JSONMap map[string]interface{}

// Value implements the driver.Valuer interface for database serialization.
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface for database deserialization.
func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = JSONMap{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		str, ok := value.(string)
		if !ok {
			return errors.New("failed to scan JSONMap")
		}
		bytes = []byte(str)
	}
	return json.Unmarshal(bytes, m)
}

// MediaItem represents a catalog item (movie, book, or music release).
// The embedding is the semantic vector of the item's description text;
// the taste vector is its projection onto the taste dimensions. Both are
// written once at ingest and read-only afterwards.
type MediaItem struct {
	ID          string    `gorm:"type:text;primaryKey" json:"id"`
	Title       string    `gorm:"type:text;not null" json:"title"`
	MediaType   MediaType `gorm:"type:text;not null;index:idx_media_items_type" json:"media_type"`
	Year        *int      `json:"year,omitempty"`
	Description string    `gorm:"type:text" json:"description"`
	Metadata    JSONMap   `gorm:"type:text" json:"metadata"`
	ArtworkKey  string    `gorm:"type:text" json:"artwork_key,omitempty"`
	Embedding   Vector    `gorm:"type:text" json:"embedding"`
	TasteVector Vector    `gorm:"type:text" json:"taste_vector"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName returns the database table name for MediaItem.
func (MediaItem) TableName() string {
	return "media_items"
}

// SearchSpace selects which vector space a similarity query runs in.
type SearchSpace string

const (
	// SpaceEmbedding searches the full semantic embedding space.
	SpaceEmbedding SearchSpace = "embedding"
	// SpaceTaste searches the low-dimensional taste space.
	SpaceTaste SearchSpace = "taste"
)

// SimilarityHit is a single ranked result from a similarity index.
// Similarity is bounded to [0,1]: identical-direction vectors score 1.0,
// opposite-direction vectors score 0.0.
type SimilarityHit struct {
	ItemID      string
	Title       string
	MediaType   MediaType
	Year        *int
	Description string
	Metadata    JSONMap
	ArtworkURL  string
	Similarity  float32
}
