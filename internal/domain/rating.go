package domain

import "time"

// Rating records a user's numeric rating of a media item. Higher ratings
// carry more weight when the user's taste profile is aggregated.
type Rating struct {
	UserID        string    `gorm:"type:text;primaryKey" json:"user_id"`
	ItemID        string    `gorm:"type:text;primaryKey;index:idx_ratings_item" json:"item_id"`
	Rating        float64   `gorm:"not null" json:"rating"`
	Favorite      bool      `json:"favorite"`
	WantToConsume bool      `json:"want_to_consume"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName returns the database table name for Rating.
func (Rating) TableName() string {
	return "ratings"
}

// RatedItemVectors pairs a rating weight with the rated item's stored
// vectors. This is the only rating data the profile aggregator consumes.
type RatedItemVectors struct {
	Rating      float64
	Embedding   Vector
	TasteVector Vector
}
