package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CrowdFunding is a fundraising campaign for a patient's care.
type CrowdFunding struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title         string             `bson:"title" json:"title"`
	Story         string             `bson:"story" json:"story"`
	AmountNeeded  float64            `bson:"amountNeeded" json:"amountNeeded"`
	AmountRaised  float64            `bson:"amountRaised" json:"amountRaised"`
	AccountName   string             `bson:"accountName" json:"accountName"`
	AccountNumber string             `bson:"accountNumber" json:"accountNumber"`
	Bank          string             `bson:"bank" json:"bank"`
	Image         string             `bson:"image,omitempty" json:"image,omitempty"`
	Status        string             `bson:"status" json:"status"`
	UserID        primitive.ObjectID `bson:"user" json:"userId"`
	Owner         *Summary           `bson:"owner,omitempty" json:"user,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CampaignSummary is what a payment request shows of its campaign.
type CampaignSummary struct {
	ID           primitive.ObjectID `bson:"_id" json:"id"`
	Title        string             `bson:"title" json:"title"`
	AmountNeeded float64            `bson:"amountNeeded" json:"amountNeeded"`
}

// PaymentRequest asks for raised funds to be paid out.
type PaymentRequest struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AmountRequested float64            `bson:"amountRequested" json:"amountRequested"`
	CrowdFundingID  primitive.ObjectID `bson:"crowdFunding" json:"crowdFundingId"`
	Campaign        *CampaignSummary   `bson:"campaign,omitempty" json:"crowdFunding,omitempty"`
	Status          string             `bson:"status" json:"status"`
	RefNumber       string             `bson:"refNumber" json:"refNumber"`
	UserID          primitive.ObjectID `bson:"user" json:"userId"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}
