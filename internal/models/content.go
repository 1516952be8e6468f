package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review is one entry in an insight's review thread.
type Review struct {
	Review    string             `bson:"review" json:"review"`
	User      primitive.ObjectID `bson:"user" json:"user"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// Insight is a hospital review.
type Insight struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	HospitalName string             `bson:"hospitalName" json:"hospitalName"`
	Rating       int                `bson:"rating" json:"rating"`
	Comment      string             `bson:"comment" json:"comment"`
	Image        string             `bson:"image,omitempty" json:"image,omitempty"`
	Reviews      []Review           `bson:"reviews" json:"reviews"`
	UserID       primitive.ObjectID `bson:"user" json:"userId"`
	Owner        *Summary           `bson:"owner,omitempty" json:"user,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Advocacy is a complaint ticket against a hospital.
type Advocacy struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	HospitalName    string             `bson:"hospitalName" json:"hospitalName"`
	HospitalAddress string             `bson:"hospitalAddress" json:"hospitalAddress"`
	Complaints      string             `bson:"complaints" json:"complaints"`
	Reference       string             `bson:"reference" json:"reference"`
	Status          string             `bson:"status" json:"status"`
	UserID          primitive.ObjectID `bson:"user" json:"userId"`
	Owner           *Summary           `bson:"owner,omitempty" json:"user,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type PodcastCategory struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Channel is a platform a podcast episode is published on.
type Channel struct {
	Source string `bson:"source" json:"source"`
	Link   string `bson:"link" json:"link"`
}

// Podcast references its category by name.
type Podcast struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title      string             `bson:"title" json:"title"`
	Category   string             `bson:"category" json:"category"`
	Summary    string             `bson:"summary" json:"summary"`
	ProducedBy string             `bson:"producedBy" json:"producedBy"`
	Channels   []Channel          `bson:"channels" json:"channels"`
	Image      string             `bson:"image,omitempty" json:"image,omitempty"`
	UserID     primitive.ObjectID `bson:"user" json:"userId"`
	Owner      *Summary           `bson:"owner,omitempty" json:"user,omitempty"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type Blog struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title     string             `bson:"title" json:"title"`
	Content   string             `bson:"content" json:"content"`
	Category  string             `bson:"category,omitempty" json:"category,omitempty"`
	Image     string             `bson:"image,omitempty" json:"image,omitempty"`
	UserID    primitive.ObjectID `bson:"user" json:"userId"`
	Owner     *Summary           `bson:"owner,omitempty" json:"user,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type Webinar struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Summary     string             `bson:"summary" json:"summary"`
	Host        string             `bson:"host" json:"host"`
	Link        string             `bson:"link" json:"link"`
	ScheduledAt time.Time          `bson:"scheduledAt" json:"scheduledAt"`
	Image       string             `bson:"image,omitempty" json:"image,omitempty"`
	UserID      primitive.ObjectID `bson:"user" json:"userId"`
	Owner       *Summary           `bson:"owner,omitempty" json:"user,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type PatientStory struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title     string             `bson:"title" json:"title"`
	Content   string             `bson:"content" json:"content"`
	Image     string             `bson:"image,omitempty" json:"image,omitempty"`
	Status    string             `bson:"status" json:"status"`
	UserID    primitive.ObjectID `bson:"user" json:"userId"`
	Owner     *Summary           `bson:"owner,omitempty" json:"user,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
