package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post represents a social media post stored in MongoDB
type Post struct {
	ID          primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	User        primitive.ObjectID   `json:"user" bson:"user"` // owner
	Description string               `json:"description,omitempty" bson:"description,omitempty"`
	Image       string               `json:"image,omitempty" bson:"image,omitempty"`
	ImageRef    string               `json:"-" bson:"imageRef,omitempty"` // storage object name, used for deletion
	Likes       []primitive.ObjectID `json:"likes" bson:"likes"`
	Comments    []Comment            `json:"comments" bson:"comments"`
	Shares      []primitive.ObjectID `json:"shares" bson:"shares"`
	CreatedAt   time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// PostCompact is the display-ready projection of a post used in joined listings
type PostCompact struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Image       string `json:"image,omitempty"`
	Owner       string `json:"owner"`
}

// ToCompact flattens the post into display fields
func (p *Post) ToCompact() PostCompact {
	return PostCompact{
		ID:          p.ID.Hex(),
		Description: p.Description,
		Image:       p.Image,
		Owner:       p.User.Hex(),
	}
}

// CreatePostRequest defines the text part of a new post; the image arrives as a multipart file
type CreatePostRequest struct {
	Description string `form:"description" json:"description" validate:"max=2000"`
}
