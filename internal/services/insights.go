package services

import (
	"context"
	"mime/multipart"
	"slices"
	"time"

	"github.com/patientng/patient-api/internal/apperr"
	"github.com/patientng/patient-api/internal/dao"
	"github.com/patientng/patient-api/internal/models"
	"github.com/patientng/patient-api/internal/upload"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type InsightInput struct {
	HospitalName string `form:"hospitalName" json:"hospitalName" binding:"required" label:"Hospital name"`
	Rating       int    `form:"rating" json:"rating" binding:"required,min=1,max=5" label:"Rating"`
	Comment      string `form:"comment" json:"comment" label:"Comment"`
}

type InsightPatch struct {
	HospitalName *string `form:"hospitalName" json:"hospitalName" label:"Hospital name"`
	Rating       *int    `form:"rating" json:"rating" binding:"omitempty,min=1,max=5" label:"Rating"`
	Comment      *string `form:"comment" json:"comment" label:"Comment"`
}

type ReviewInput struct {
	Review string `json:"review" binding:"required" label:"Review"`
}

type InsightService struct {
	ds      *dao.Datasources
	uploads *upload.Uploader
	Now     func() time.Time
}

func NewInsightService(ds *dao.Datasources, uploads *upload.Uploader) *InsightService {
	return &InsightService{ds: ds, uploads: uploads, Now: time.Now}
}

func (s *InsightService) Create(ctx context.Context, caller *models.User, in InsightInput, image *multipart.FileHeader) (*models.Insight, error) {
	rel, err := acceptImage(ctx, s.uploads, image)
	if err != nil {
		return nil, err
	}
	now := s.Now()
	insight := &models.Insight{
		ID:           primitive.NewObjectID(),
		HospitalName: in.HospitalName,
		Rating:       in.Rating,
		Comment:      in.Comment,
		Image:        rel,
		Reviews:      []models.Review{},
		UserID:       caller.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.ds.Insights.Create(ctx, insight); err != nil {
		s.uploads.Discard(ctx, rel)
		return nil, err
	}
	return insight, nil
}

func (s *InsightService) Update(ctx context.Context, caller *models.User, id primitive.ObjectID, patch InsightPatch, image *multipart.FileHeader) (*models.Insight, error) {
	insight, err := load(ctx, s.ds.Insights, id, "Insight")
	if err != nil {
		return nil, err
	}
	if err := mustModify(caller, insight.UserID); err != nil {
		return nil, err
	}
	set := bson.M{}
	setIf(set, "hospitalName", patch.HospitalName)
	setIf(set, "rating", patch.Rating)
	setIf(set, "comment", patch.Comment)
	return updateWithImage(ctx, s.uploads, s.ds.Insights, insight.ID, set, insight.Image, image)
}

func (s *InsightService) Get(ctx context.Context, id primitive.ObjectID) (*models.Insight, error) {
	return load(ctx, s.ds.Insights, id, "Insight")
}

func (s *InsightService) List(ctx context.Context) ([]models.Insight, error) {
	return s.ds.Insights.Find(ctx, bson.M{})
}

func (s *InsightService) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Insight, error) {
	return s.ds.Insights.Find(ctx, bson.M{"user": userID})
}

// Delete removes the insight and its image.
func (s *InsightService) Delete(ctx context.Context, caller *models.User, id primitive.ObjectID) error {
	insight, err := load(ctx, s.ds.Insights, id, "Insight")
	if err != nil {
		return err
	}
	if err := mustModify(caller, insight.UserID); err != nil {
		return err
	}
	if err := s.ds.Insights.DeleteByID(ctx, insight.ID); err != nil {
		return err
	}
	s.uploads.Discard(ctx, insight.Image)
	return nil
}

// Review puts a new review at the head of the insight's thread.
func (s *InsightService) Review(ctx context.Context, caller *models.User, id primitive.ObjectID, in ReviewInput) (*models.Insight, error) {
	insight, err := load(ctx, s.ds.Insights, id, "Insight")
	if err != nil {
		return nil, err
	}
	if in.Review == "" {
		return nil, apperr.BadRequest(`"Review" is required`)
	}
	reviews := slices.Insert(insight.Reviews, 0, models.Review{
		Review:    in.Review,
		User:      caller.ID,
		CreatedAt: s.Now(),
	})
	return s.ds.Insights.UpdateByID(ctx, insight.ID, bson.M{"reviews": reviews})
}
