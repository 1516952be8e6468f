package models

import (
	"slices"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserType is a role tag gating which content a user may author.
type UserType string

const (
	TypeAdmin        UserType = "admin"
	TypeBlogger      UserType = "blogger"
	TypePodcast      UserType = "podcast"
	TypeWebinar      UserType = "webinar"
	TypeCrowdFunding UserType = "crowdfunding"
	TypeAdvocacy     UserType = "advocacy"
)

var userTypes = []UserType{TypeAdmin, TypeBlogger, TypePodcast, TypeWebinar, TypeCrowdFunding, TypeAdvocacy}

// Valid reports whether t is one of the known tags.
func (t UserType) Valid() bool { return slices.Contains(userTypes, t) }

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FirstName string             `bson:"firstName" json:"firstName"`
	LastName  string             `bson:"lastName" json:"lastName"`
	Email     string             `bson:"email" json:"email"`
	Password  string             `bson:"password" json:"-"` // Hide from JSON responses
	Phone     string             `bson:"phone" json:"phone"`
	Age       string             `bson:"age,omitempty" json:"age,omitempty"`
	Gender    string             `bson:"gender,omitempty" json:"gender,omitempty"`
	Address   string             `bson:"address,omitempty" json:"address,omitempty"`
	State     string             `bson:"state,omitempty" json:"state,omitempty"`
	LGA       string             `bson:"lga,omitempty" json:"lga,omitempty"`
	Image     string             `bson:"image,omitempty" json:"image,omitempty"`
	UserType  []UserType         `bson:"userType" json:"userType"`
	IsAdmin   bool               `bson:"isAdmin" json:"isAdmin"`
	Active    bool               `bson:"active" json:"active"`
	Level     int                `bson:"level" json:"level"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// HasType reports whether the user carries tag t.
func (u *User) HasType(t UserType) bool {
	return slices.Contains(u.UserType, t)
}

// Summary is the slice of a user embedded into documents they own.
type Summary struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	FirstName string             `bson:"firstName" json:"firstName"`
	LastName  string             `bson:"lastName" json:"lastName"`
	Email     string             `bson:"email" json:"email"`
	Image     string             `bson:"image,omitempty" json:"image,omitempty"`
}

// UserToken is the single stored refresh token of a user.
type UserToken struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID       primitive.ObjectID `bson:"userId" json:"userId"`
	RefreshToken string             `bson:"refreshToken" json:"-"`
	ExpiredAt    time.Time          `bson:"expiredAt" json:"expiredAt"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}
