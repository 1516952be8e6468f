package services

import (
	"context"
	"mime/multipart"
	"time"

	"github.com/patientng/patient-api/internal/apperr"
	"github.com/patientng/patient-api/internal/dao"
	"github.com/patientng/patient-api/internal/models"
	"github.com/patientng/patient-api/internal/upload"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BlogInput struct {
	Title    string `form:"title" json:"title" binding:"required" label:"Title"`
	Content  string `form:"content" json:"content" binding:"required" label:"Content"`
	Category string `form:"category" json:"category" label:"Category"`
}

type BlogPatch struct {
	Title    *string `form:"title" json:"title" label:"Title"`
	Content  *string `form:"content" json:"content" label:"Content"`
	Category *string `form:"category" json:"category" label:"Category"`
}

// WebinarInput takes ScheduledAt in RFC3339.
type WebinarInput struct {
	Title       string `form:"title" json:"title" binding:"required" label:"Title"`
	Summary     string `form:"summary" json:"summary" label:"Summary"`
	Host        string `form:"host" json:"host" binding:"required" label:"Host"`
	Link        string `form:"link" json:"link" binding:"required,url" label:"Link"`
	ScheduledAt string `form:"scheduledAt" json:"scheduledAt" binding:"required" label:"Scheduled at"`
}

type WebinarPatch struct {
	Title       *string `form:"title" json:"title" label:"Title"`
	Summary     *string `form:"summary" json:"summary" label:"Summary"`
	Host        *string `form:"host" json:"host" label:"Host"`
	Link        *string `form:"link" json:"link" binding:"omitempty,url" label:"Link"`
	ScheduledAt *string `form:"scheduledAt" json:"scheduledAt" label:"Scheduled at"`
}

func parseSchedule(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, apperr.BadRequest("Invalid time format, use RFC3339")
	}
	return t, nil
}

// PublishingService manages blogs and webinars.
type PublishingService struct {
	ds      *dao.Datasources
	uploads *upload.Uploader
	Now     func() time.Time
}

func NewPublishingService(ds *dao.Datasources, uploads *upload.Uploader) *PublishingService {
	return &PublishingService{ds: ds, uploads: uploads, Now: time.Now}
}

func (s *PublishingService) CreateBlog(ctx context.Context, caller *models.User, in BlogInput, image *multipart.FileHeader) (*models.Blog, error) {
	rel, err := acceptImage(ctx, s.uploads, image)
	if err != nil {
		return nil, err
	}
	now := s.Now()
	b := &models.Blog{
		ID:        primitive.NewObjectID(),
		Title:     in.Title,
		Content:   in.Content,
		Category:  in.Category,
		Image:     rel,
		UserID:    caller.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.ds.Blogs.Create(ctx, b); err != nil {
		s.uploads.Discard(ctx, rel)
		return nil, err
	}
	return b, nil
}

func (s *PublishingService) UpdateBlog(ctx context.Context, caller *models.User, id primitive.ObjectID, patch BlogPatch, image *multipart.FileHeader) (*models.Blog, error) {
	b, err := load(ctx, s.ds.Blogs, id, "Blog")
	if err != nil {
		return nil, err
	}
	if err := mustModify(caller, b.UserID); err != nil {
		return nil, err
	}
	set := bson.M{}
	setIf(set, "title", patch.Title)
	setIf(set, "content", patch.Content)
	setIf(set, "category", patch.Category)
	return updateWithImage(ctx, s.uploads, s.ds.Blogs, b.ID, set, b.Image, image)
}

func (s *PublishingService) Blog(ctx context.Context, id primitive.ObjectID) (*models.Blog, error) {
	return load(ctx, s.ds.Blogs, id, "Blog")
}

// Blogs lists blogs, optionally narrowed to one category.
func (s *PublishingService) Blogs(ctx context.Context, category string) ([]models.Blog, error) {
	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}
	return s.ds.Blogs.Find(ctx, filter)
}

func (s *PublishingService) DeleteBlog(ctx context.Context, caller *models.User, id primitive.ObjectID) error {
	b, err := load(ctx, s.ds.Blogs, id, "Blog")
	if err != nil {
		return err
	}
	if err := mustModify(caller, b.UserID); err != nil {
		return err
	}
	if err := s.ds.Blogs.DeleteByID(ctx, b.ID); err != nil {
		return err
	}
	s.uploads.Discard(ctx, b.Image)
	return nil
}

func (s *PublishingService) CreateWebinar(ctx context.Context, caller *models.User, in WebinarInput, image *multipart.FileHeader) (*models.Webinar, error) {
	at, err := parseSchedule(in.ScheduledAt)
	if err != nil {
		return nil, err
	}
	rel, err := acceptImage(ctx, s.uploads, image)
	if err != nil {
		return nil, err
	}
	now := s.Now()
	w := &models.Webinar{
		ID:          primitive.NewObjectID(),
		Title:       in.Title,
		Summary:     in.Summary,
		Host:        in.Host,
		Link:        in.Link,
		ScheduledAt: at,
		Image:       rel,
		UserID:      caller.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.ds.Webinars.Create(ctx, w); err != nil {
		s.uploads.Discard(ctx, rel)
		return nil, err
	}
	return w, nil
}

func (s *PublishingService) UpdateWebinar(ctx context.Context, caller *models.User, id primitive.ObjectID, patch WebinarPatch, image *multipart.FileHeader) (*models.Webinar, error) {
	w, err := load(ctx, s.ds.Webinars, id, "Webinar")
	if err != nil {
		return nil, err
	}
	if err := mustModify(caller, w.UserID); err != nil {
		return nil, err
	}
	set := bson.M{}
	setIf(set, "title", patch.Title)
	setIf(set, "summary", patch.Summary)
	setIf(set, "host", patch.Host)
	setIf(set, "link", patch.Link)
	if patch.ScheduledAt != nil && *patch.ScheduledAt != "" {
		at, err := parseSchedule(*patch.ScheduledAt)
		if err != nil {
			return nil, err
		}
		set["scheduledAt"] = at
	}
	return updateWithImage(ctx, s.uploads, s.ds.Webinars, w.ID, set, w.Image, image)
}

func (s *PublishingService) Webinar(ctx context.Context, id primitive.ObjectID) (*models.Webinar, error) {
	return load(ctx, s.ds.Webinars, id, "Webinar")
}

func (s *PublishingService) Webinars(ctx context.Context) ([]models.Webinar, error) {
	return s.ds.Webinars.Find(ctx, bson.M{})
}

func (s *PublishingService) DeleteWebinar(ctx context.Context, caller *models.User, id primitive.ObjectID) error {
	w, err := load(ctx, s.ds.Webinars, id, "Webinar")
	if err != nil {
		return err
	}
	if err := mustModify(caller, w.UserID); err != nil {
		return err
	}
	if err := s.ds.Webinars.DeleteByID(ctx, w.ID); err != nil {
		return err
	}
	s.uploads.Discard(ctx, w.Image)
	return nil
}
