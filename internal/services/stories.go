package services

import (
	"context"
	"mime/multipart"
	"time"

	"github.com/patientng/patient-api/internal/apperr"
	"github.com/patientng/patient-api/internal/dao"
	"github.com/patientng/patient-api/internal/models"
	"github.com/patientng/patient-api/internal/policy"
	"github.com/patientng/patient-api/internal/upload"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type StoryInput struct {
	Title   string `form:"title" json:"title" binding:"required" label:"Title"`
	Content string `form:"content" json:"content" binding:"required" label:"Content"`
}

type StoryPatch struct {
	Title   *string `form:"title" json:"title" label:"Title"`
	Content *string `form:"content" json:"content" label:"Content"`
}

// StoryService manages patient stories. New stories stay hidden from the
// public listing until an admin approves them.
type StoryService struct {
	ds       *dao.Datasources
	uploads  *upload.Uploader
	notifier Notifier
	Now      func() time.Time
}

func NewStoryService(ds *dao.Datasources, uploads *upload.Uploader, notifier Notifier) *StoryService {
	return &StoryService{ds: ds, uploads: uploads, notifier: notifier, Now: time.Now}
}

func (s *StoryService) Create(ctx context.Context, caller *models.User, in StoryInput, image *multipart.FileHeader) (*models.PatientStory, error) {
	rel, err := acceptImage(ctx, s.uploads, image)
	if err != nil {
		return nil, err
	}
	now := s.Now()
	st := &models.PatientStory{
		ID:        primitive.NewObjectID(),
		Title:     in.Title,
		Content:   in.Content,
		Image:     rel,
		Status:    models.StoryLifecycle.Initial(),
		UserID:    caller.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.ds.Stories.Create(ctx, st); err != nil {
		s.uploads.Discard(ctx, rel)
		return nil, err
	}
	return st, nil
}

func (s *StoryService) Update(ctx context.Context, caller *models.User, id primitive.ObjectID, patch StoryPatch, image *multipart.FileHeader) (*models.PatientStory, error) {
	st, err := load(ctx, s.ds.Stories, id, "Story")
	if err != nil {
		return nil, err
	}
	if err := mustModify(caller, st.UserID); err != nil {
		return nil, err
	}
	set := bson.M{}
	setIf(set, "title", patch.Title)
	setIf(set, "content", patch.Content)
	// An author editing a published story sends it back for approval.
	changed := len(set) > 0 || image != nil
	if changed && st.Status != models.StoryLifecycle.Initial() && !policy.IsAdmin(caller) {
		set["status"] = models.StoryLifecycle.Initial()
	}
	return updateWithImage(ctx, s.uploads, s.ds.Stories, st.ID, set, st.Image, image)
}

// Get returns a story. Stories awaiting approval are only visible to their
// author and moderators; anyone else, including anonymous callers, gets 404.
func (s *StoryService) Get(ctx context.Context, caller *models.User, id primitive.ObjectID) (*models.PatientStory, error) {
	st, err := load(ctx, s.ds.Stories, id, "Story")
	if err != nil {
		return nil, err
	}
	if st.Status != models.StoryLifecycle.Terminal() && !policy.CanViewUnpublished(caller, st.UserID) {
		return nil, apperr.NotFound("Story not found.")
	}
	return st, nil
}

// List returns approved stories, or every story when all is set.
func (s *StoryService) List(ctx context.Context, all bool) ([]models.PatientStory, error) {
	filter := bson.M{}
	if !all {
		filter["status"] = models.StoryLifecycle.Terminal()
	}
	return s.ds.Stories.Find(ctx, filter)
}

func (s *StoryService) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.PatientStory, error) {
	return s.ds.Stories.Find(ctx, bson.M{"user": userID})
}

// Approve publishes a pending story. Approving twice is a no-op.
func (s *StoryService) Approve(ctx context.Context, id primitive.ObjectID) (*models.PatientStory, bool, error) {
	st, err := load(ctx, s.ds.Stories, id, "Story")
	if err != nil {
		return nil, false, err
	}
	next, changed := models.StoryLifecycle.Advance(st.Status)
	if !changed {
		return st, false, nil
	}
	st, err = s.ds.Stories.UpdateByID(ctx, st.ID, bson.M{"status": next})
	if err != nil {
		return nil, false, err
	}
	notifyOwner(ctx, s.ds, s.notifier, st.UserID, "story "+st.Title, next)
	return st, true, nil
}

func (s *StoryService) Delete(ctx context.Context, caller *models.User, id primitive.ObjectID) error {
	st, err := load(ctx, s.ds.Stories, id, "Story")
	if err != nil {
		return err
	}
	if err := mustModify(caller, st.UserID); err != nil {
		return err
	}
	if err := s.ds.Stories.DeleteByID(ctx, st.ID); err != nil {
		return err
	}
	s.uploads.Discard(ctx, st.Image)
	return nil
}
