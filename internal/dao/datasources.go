package dao

import (
	"context"
	"fmt"

	"github.com/patientng/patient-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	UsersCollection           = "users"
	TokensCollection          = "usertokens"
	InsightsCollection        = "insights"
	AdvocaciesCollection      = "advocacies"
	PodcastCategoryCollection = "podcastcategories"
	PodcastsCollection        = "podcasts"
	BlogsCollection           = "blogs"
	WebinarsCollection        = "webinars"
	StoriesCollection         = "patientstories"
	CrowdFundingCollection    = "crowdfundings"
	PaymentRequestCollection  = "paymentrequests"
)

// Datasources is the set of stores handed to services at construction.
type Datasources struct {
	Users             Store[models.User]
	Tokens            Store[models.UserToken]
	Insights          Store[models.Insight]
	Advocacies        Store[models.Advocacy]
	PodcastCategories Store[models.PodcastCategory]
	Podcasts          Store[models.Podcast]
	Blogs             Store[models.Blog]
	Webinars          Store[models.Webinar]
	Stories           Store[models.PatientStory]
	CrowdFundings     Store[models.CrowdFunding]
	PaymentRequests   Store[models.PaymentRequest]
}

var owner = Lookup{From: UsersCollection, LocalField: "user", As: "owner"}

func NewDatasources(db *mongo.Database) *Datasources {
	return &Datasources{
		Users:             NewCollection[models.User](db, UsersCollection),
		Tokens:            NewCollection[models.UserToken](db, TokensCollection),
		Insights:          NewCollection[models.Insight](db, InsightsCollection, owner),
		Advocacies:        NewCollection[models.Advocacy](db, AdvocaciesCollection, owner),
		PodcastCategories: NewCollection[models.PodcastCategory](db, PodcastCategoryCollection),
		Podcasts:          NewCollection[models.Podcast](db, PodcastsCollection, owner),
		Blogs:             NewCollection[models.Blog](db, BlogsCollection, owner),
		Webinars:          NewCollection[models.Webinar](db, WebinarsCollection, owner),
		Stories:           NewCollection[models.PatientStory](db, StoriesCollection, owner),
		CrowdFundings:     NewCollection[models.CrowdFunding](db, CrowdFundingCollection, owner),
		PaymentRequests: NewCollection[models.PaymentRequest](db, PaymentRequestCollection,
			Lookup{From: CrowdFundingCollection, LocalField: "crowdFunding", As: "campaign"}),
	}
}

// EnsureIndexes creates the unique indexes the services rely on.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := map[string]string{
		UsersCollection:           "email",
		PodcastCategoryCollection: "name",
		TokensCollection:          "userId",
	}
	for coll, field := range unique {
		_, err := db.Collection(coll).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: field, Value: 1}},
			Options: options.Index().SetUnique(true),
		})
		if err != nil {
			return fmt.Errorf("index %s.%s: %w", coll, field, err)
		}
	}

	owned := []string{InsightsCollection, AdvocaciesCollection, PodcastsCollection, BlogsCollection,
		WebinarsCollection, StoriesCollection, CrowdFundingCollection}
	for _, coll := range owned {
		_, err := db.Collection(coll).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys: bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}},
		})
		if err != nil {
			return fmt.Errorf("index %s.user: %w", coll, err)
		}
	}
	return nil
}
