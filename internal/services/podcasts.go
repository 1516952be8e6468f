package services

import (
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/patientng/patient-api/internal/apperr"
	"github.com/patientng/patient-api/internal/dao"
	"github.com/patientng/patient-api/internal/models"
	"github.com/patientng/patient-api/internal/upload"
	"github.com/patientng/patient-api/internal/utils"
	"github.com/patrickmn/go-cache"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CategoryInput struct {
	Name string `json:"name" binding:"required" label:"Name"`
}

// PodcastInput carries channels as a JSON array of {source, link}.
type PodcastInput struct {
	Title      string `form:"title" json:"title" binding:"required" label:"Title"`
	Category   string `form:"category" json:"category" binding:"required" label:"Category"`
	Summary    string `form:"summary" json:"summary" binding:"required" label:"Summary"`
	ProducedBy string `form:"producedBy" json:"producedBy" binding:"required" label:"Produced by"`
	Channels   string `form:"channels" json:"channels" binding:"required" label:"Channels"`
}

type PodcastPatch struct {
	Title      *string `form:"title" json:"title" label:"Title"`
	Category   *string `form:"category" json:"category" label:"Category"`
	Summary    *string `form:"summary" json:"summary" label:"Summary"`
	ProducedBy *string `form:"producedBy" json:"producedBy" label:"Produced by"`
	Channels   *string `form:"channels" json:"channels" label:"Channels"`
}

type PodcastService struct {
	ds         *dao.Datasources
	uploads    *upload.Uploader
	categories *cache.Cache
	Now        func() time.Time
}

func NewPodcastService(ds *dao.Datasources, uploads *upload.Uploader) *PodcastService {
	return &PodcastService{
		ds:         ds,
		uploads:    uploads,
		categories: cache.New(5*time.Minute, 10*time.Minute),
		Now:        time.Now,
	}
}

func categoryKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (s *PodcastService) CreateCategory(ctx context.Context, in CategoryInput) (*models.PodcastCategory, error) {
	name := categoryKey(in.Name)
	if name == "" {
		return nil, apperr.BadRequest(`"Name" is required`)
	}
	exists := apperr.BadRequest("Podcast category already exist.")
	switch _, err := s.category(ctx, name); {
	case err == nil:
		return nil, exists
	case apperr.From(err).Code != http.StatusNotFound:
		return nil, err
	}
	now := s.Now()
	cat := &models.PodcastCategory{ID: primitive.NewObjectID(), Name: name, CreatedAt: now, UpdatedAt: now}
	if err := s.ds.PodcastCategories.Create(ctx, cat); err != nil {
		if errors.Is(err, dao.ErrDuplicate) {
			return nil, exists
		}
		return nil, err
	}
	s.categories.Delete(name)
	return cat, nil
}

func (s *PodcastService) DeleteCategory(ctx context.Context, id primitive.ObjectID) error {
	cat, err := load(ctx, s.ds.PodcastCategories, id, "Podcast category")
	if err != nil {
		return err
	}
	if err := s.ds.PodcastCategories.DeleteByID(ctx, cat.ID); err != nil {
		return err
	}
	s.categories.Delete(cat.Name)
	return nil
}

func (s *PodcastService) Categories(ctx context.Context) ([]models.PodcastCategory, error) {
	return s.ds.PodcastCategories.Find(ctx, bson.M{})
}

// category looks a category up by its unique name, caching hits.
func (s *PodcastService) category(ctx context.Context, name string) (*models.PodcastCategory, error) {
	key := categoryKey(name)
	if v, found := s.categories.Get(key); found {
		return v.(*models.PodcastCategory), nil
	}
	cat, err := s.ds.PodcastCategories.FindOne(ctx, bson.M{"name": key})
	if errors.Is(err, dao.ErrNotFound) {
		return nil, apperr.NotFound("Category not found.")
	}
	if err != nil {
		return nil, err
	}
	s.categories.Set(key, cat, cache.DefaultExpiration)
	return cat, nil
}

func parseChannels(raw string) ([]models.Channel, error) {
	var channels []models.Channel
	if err := json.Unmarshal([]byte(raw), &channels); err != nil {
		return nil, apperr.BadRequest(`"Channels" must be a JSON array of {source, link}`)
	}
	for i, ch := range channels {
		link, err := utils.PodcastEmbedLink(ch.Source, ch.Link)
		if err != nil {
			return nil, apperr.BadRequest(err.Error())
		}
		channels[i] = models.Channel{Source: strings.ToLower(ch.Source), Link: link}
	}
	return channels, nil
}

func (s *PodcastService) Create(ctx context.Context, caller *models.User, in PodcastInput, image *multipart.FileHeader) (*models.Podcast, error) {
	cat, err := s.category(ctx, in.Category)
	if err != nil {
		return nil, err
	}
	channels, err := parseChannels(in.Channels)
	if err != nil {
		return nil, err
	}
	rel, err := acceptImage(ctx, s.uploads, image)
	if err != nil {
		return nil, err
	}
	now := s.Now()
	p := &models.Podcast{
		ID:         primitive.NewObjectID(),
		Title:      in.Title,
		Category:   cat.Name,
		Summary:    in.Summary,
		ProducedBy: in.ProducedBy,
		Channels:   channels,
		Image:      rel,
		UserID:     caller.ID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.ds.Podcasts.Create(ctx, p); err != nil {
		s.uploads.Discard(ctx, rel)
		return nil, err
	}
	return p, nil
}

func (s *PodcastService) Update(ctx context.Context, caller *models.User, id primitive.ObjectID, patch PodcastPatch, image *multipart.FileHeader) (*models.Podcast, error) {
	p, err := load(ctx, s.ds.Podcasts, id, "Podcast")
	if err != nil {
		return nil, err
	}
	if err := mustModify(caller, p.UserID); err != nil {
		return nil, err
	}
	set := bson.M{}
	setIf(set, "title", patch.Title)
	setIf(set, "summary", patch.Summary)
	setIf(set, "producedBy", patch.ProducedBy)
	if patch.Category != nil && *patch.Category != "" {
		cat, err := s.category(ctx, *patch.Category)
		if err != nil {
			return nil, err
		}
		set["category"] = cat.Name
	}
	if patch.Channels != nil && *patch.Channels != "" {
		channels, err := parseChannels(*patch.Channels)
		if err != nil {
			return nil, err
		}
		if len(channels) > 0 {
			set["channels"] = channels
		}
	}
	return updateWithImage(ctx, s.uploads, s.ds.Podcasts, p.ID, set, p.Image, image)
}

func (s *PodcastService) Get(ctx context.Context, id primitive.ObjectID) (*models.Podcast, error) {
	return load(ctx, s.ds.Podcasts, id, "Podcast")
}

func (s *PodcastService) List(ctx context.Context) ([]models.Podcast, error) {
	return s.ds.Podcasts.Find(ctx, bson.M{})
}

func (s *PodcastService) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Podcast, error) {
	return s.ds.Podcasts.Find(ctx, bson.M{"user": userID})
}

func (s *PodcastService) Delete(ctx context.Context, id primitive.ObjectID) error {
	p, err := load(ctx, s.ds.Podcasts, id, "Podcast")
	if err != nil {
		return err
	}
	if err := s.ds.Podcasts.DeleteByID(ctx, p.ID); err != nil {
		return err
	}
	s.uploads.Discard(ctx, p.Image)
	return nil
}
