package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the identity document stored in the "users" collection
type User struct {
	ID                primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Email             string               `json:"email" bson:"email"`
	Password          string               `json:"-" bson:"password"` // bcrypt hash
	DisplayName       string               `json:"displayName" bson:"displayName"`
	Headline          string               `json:"headline,omitempty" bson:"headline,omitempty"`
	Bio               string               `json:"bio,omitempty" bson:"bio,omitempty"`
	Location          string               `json:"location,omitempty" bson:"location,omitempty"`
	Links             []string             `json:"links,omitempty" bson:"links,omitempty"`
	Followers         []primitive.ObjectID `json:"followers" bson:"followers"`
	Following         []primitive.ObjectID `json:"following" bson:"following"`
	LikedPosts        []primitive.ObjectID `json:"likedPosts" bson:"likedPosts"`
	SharedPosts       []primitive.ObjectID `json:"sharedPosts" bson:"sharedPosts"`
	IsBanned          bool                 `json:"isBanned" bson:"isBanned"`
	IsVerified        bool                 `json:"isVerified" bson:"isVerified"`
	IsAdmin           bool                 `json:"isAdmin" bson:"isAdmin"`
	VerificationToken *string              `json:"-" bson:"verificationToken"`
	LastLogin         *time.Time           `json:"lastLogin,omitempty" bson:"lastLogin,omitempty"`
	CreatedAt         time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt         time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// UserCompact is the display-ready projection of a user used in joined listings
type UserCompact struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	IsBanned    bool   `json:"isBanned"`
}

// ToCompact flattens the user into display fields
func (u *User) ToCompact() UserCompact {
	return UserCompact{
		ID:          u.ID.Hex(),
		DisplayName: u.DisplayName,
		Email:       u.Email,
		IsBanned:    u.IsBanned,
	}
}

// SignupRequest defines the request body for local registration
type SignupRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	DisplayName string `json:"displayName" validate:"required,min=2,max=50"`
}

// SigninRequest defines the request body for local sign in
type SigninRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest defines the editable profile fields
type UpdateProfileRequest struct {
	DisplayName string   `json:"displayName,omitempty" validate:"omitempty,min=2,max=50"`
	Headline    string   `json:"headline,omitempty" validate:"omitempty,max=120"`
	Bio         string   `json:"bio,omitempty" validate:"omitempty,max=500"`
	Location    string   `json:"location,omitempty" validate:"omitempty,max=100"`
	Links       []string `json:"links,omitempty" validate:"omitempty,max=5,dive,url"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
