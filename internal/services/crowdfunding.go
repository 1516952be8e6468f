package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/patientng/patient-api/internal/apperr"
	"github.com/patientng/patient-api/internal/dao"
	"github.com/patientng/patient-api/internal/models"
	"github.com/patientng/patient-api/internal/policy"
	"github.com/patientng/patient-api/internal/upload"
	"github.com/patientng/patient-api/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CrowdFundingInput struct {
	Title         string  `form:"title" json:"title" binding:"required" label:"Title"`
	Story         string  `form:"story" json:"story" binding:"required" label:"Story"`
	AmountNeeded  float64 `form:"amountNeeded" json:"amountNeeded" binding:"required,gt=0" label:"Amount needed"`
	AccountName   string  `form:"accountName" json:"accountName" binding:"required" label:"Account name"`
	AccountNumber string  `form:"accountNumber" json:"accountNumber" binding:"required" label:"Account number"`
	Bank          string  `form:"bank" json:"bank" binding:"required" label:"Bank"`
}

type CrowdFundingPatch struct {
	Title         *string  `form:"title" json:"title" label:"Title"`
	Story         *string  `form:"story" json:"story" label:"Story"`
	AmountNeeded  *float64 `form:"amountNeeded" json:"amountNeeded" binding:"omitempty,gt=0" label:"Amount needed"`
	AmountRaised  *float64 `form:"amountRaised" json:"amountRaised" binding:"omitempty,gte=0" label:"Amount raised"`
	AccountName   *string  `form:"accountName" json:"accountName" label:"Account name"`
	AccountNumber *string  `form:"accountNumber" json:"accountNumber" label:"Account number"`
	Bank          *string  `form:"bank" json:"bank" label:"Bank"`
}

type PaymentRequestInput struct {
	AmountRequested float64 `json:"amountRequested" binding:"required,gt=0" label:"Amount requested"`
}

// CrowdFundingService manages campaigns and their payout requests.
type CrowdFundingService struct {
	ds       *dao.Datasources
	uploads  *upload.Uploader
	notifier Notifier
	Now      func() time.Time
}

func NewCrowdFundingService(ds *dao.Datasources, uploads *upload.Uploader, notifier Notifier) *CrowdFundingService {
	return &CrowdFundingService{ds: ds, uploads: uploads, notifier: notifier, Now: time.Now}
}

func (s *CrowdFundingService) Create(ctx context.Context, caller *models.User, in CrowdFundingInput, image *multipart.FileHeader) (*models.CrowdFunding, error) {
	rel, err := acceptImage(ctx, s.uploads, image)
	if err != nil {
		return nil, err
	}
	now := s.Now()
	cf := &models.CrowdFunding{
		ID:            primitive.NewObjectID(),
		Title:         in.Title,
		Story:         in.Story,
		AmountNeeded:  in.AmountNeeded,
		AccountName:   in.AccountName,
		AccountNumber: in.AccountNumber,
		Bank:          in.Bank,
		Image:         rel,
		Status:        models.CrowdFundingLifecycle.Initial(),
		UserID:        caller.ID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.ds.CrowdFundings.Create(ctx, cf); err != nil {
		s.uploads.Discard(ctx, rel)
		return nil, err
	}
	return cf, nil
}

func (s *CrowdFundingService) Update(ctx context.Context, caller *models.User, id primitive.ObjectID, patch CrowdFundingPatch, image *multipart.FileHeader) (*models.CrowdFunding, error) {
	cf, err := load(ctx, s.ds.CrowdFundings, id, "Crowdfunding")
	if err != nil {
		return nil, err
	}
	if err := mustModify(caller, cf.UserID); err != nil {
		return nil, err
	}
	set := bson.M{}
	setIf(set, "title", patch.Title)
	setIf(set, "story", patch.Story)
	setIf(set, "amountNeeded", patch.AmountNeeded)
	// Donations are reconciled by admins; owners cannot report them.
	if patch.AmountRaised != nil && !policy.IsAdmin(caller) {
		return nil, apperr.Unauthorized("Only an admin can update the amount raised.")
	}
	setIf(set, "amountRaised", patch.AmountRaised)
	setIf(set, "accountName", patch.AccountName)
	setIf(set, "accountNumber", patch.AccountNumber)
	setIf(set, "bank", patch.Bank)
	return updateWithImage(ctx, s.uploads, s.ds.CrowdFundings, cf.ID, set, cf.Image, image)
}

func (s *CrowdFundingService) Get(ctx context.Context, id primitive.ObjectID) (*models.CrowdFunding, error) {
	return load(ctx, s.ds.CrowdFundings, id, "Crowdfunding")
}

func (s *CrowdFundingService) List(ctx context.Context) ([]models.CrowdFunding, error) {
	return s.ds.CrowdFundings.Find(ctx, bson.M{})
}

func (s *CrowdFundingService) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.CrowdFunding, error) {
	return s.ds.CrowdFundings.Find(ctx, bson.M{"user": userID})
}

// AdvanceStatus moves a campaign pending -> active -> closed.
func (s *CrowdFundingService) AdvanceStatus(ctx context.Context, id primitive.ObjectID) (*models.CrowdFunding, bool, error) {
	cf, err := load(ctx, s.ds.CrowdFundings, id, "Crowdfunding")
	if err != nil {
		return nil, false, err
	}
	if !models.CrowdFundingLifecycle.Knows(cf.Status) {
		return nil, false, apperr.BadRequest("Crowdfunding has an unknown status " + cf.Status + ".")
	}
	next, changed := models.CrowdFundingLifecycle.Advance(cf.Status)
	if !changed {
		return cf, false, nil
	}
	cf, err = s.ds.CrowdFundings.UpdateByID(ctx, cf.ID, bson.M{"status": next})
	if err != nil {
		return nil, false, err
	}
	notifyOwner(ctx, s.ds, s.notifier, cf.UserID, "campaign "+cf.Title, next)
	return cf, true, nil
}

func (s *CrowdFundingService) Delete(ctx context.Context, caller *models.User, id primitive.ObjectID) error {
	cf, err := load(ctx, s.ds.CrowdFundings, id, "Crowdfunding")
	if err != nil {
		return err
	}
	if err := mustModify(caller, cf.UserID); err != nil {
		return err
	}
	if err := s.ds.CrowdFundings.DeleteByID(ctx, cf.ID); err != nil {
		return err
	}
	s.uploads.Discard(ctx, cf.Image)
	return nil
}

// RequestPayment files a payout request against an active campaign the
// caller owns. Pending and paid requests together never exceed the amount
// needed.
func (s *CrowdFundingService) RequestPayment(ctx context.Context, caller *models.User, campaignID primitive.ObjectID, in PaymentRequestInput) (*models.PaymentRequest, error) {
	cf, err := load(ctx, s.ds.CrowdFundings, campaignID, "Crowdfunding")
	if err != nil {
		return nil, err
	}
	if cf.UserID != caller.ID {
		return nil, apperr.Unauthorized("You are not authorized.")
	}
	if cf.Status != "active" {
		return nil, apperr.BadRequest("Crowdfunding is not active.")
	}
	if in.AmountRequested <= 0 || in.AmountRequested > cf.AmountNeeded {
		return nil, apperr.BadRequest("Amount requested must be between 0 and the amount needed.")
	}
	filed, err := s.ds.PaymentRequests.Find(ctx, bson.M{"crowdFunding": cf.ID})
	if err != nil {
		return nil, err
	}
	remaining := cf.AmountNeeded
	for _, pr := range filed {
		remaining -= pr.AmountRequested
	}
	if in.AmountRequested > remaining {
		return nil, apperr.BadRequest(fmt.Sprintf("Amount requested exceeds the %.2f left to request.", max(remaining, 0)))
	}
	now := s.Now()
	pr := &models.PaymentRequest{
		ID:              primitive.NewObjectID(),
		AmountRequested: in.AmountRequested,
		CrowdFundingID:  cf.ID,
		Status:          models.PaymentRequestLifecycle.Initial(),
		RefNumber:       "PR-" + utils.GenerateReference(8),
		UserID:          caller.ID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.ds.PaymentRequests.Create(ctx, pr); err != nil {
		return nil, err
	}
	return pr, nil
}

func (s *CrowdFundingService) PaymentRequests(ctx context.Context) ([]models.PaymentRequest, error) {
	return s.ds.PaymentRequests.Find(ctx, bson.M{})
}

func (s *CrowdFundingService) PaymentRequestsByUser(ctx context.Context, userID primitive.ObjectID) ([]models.PaymentRequest, error) {
	return s.ds.PaymentRequests.Find(ctx, bson.M{"user": userID})
}

// AdvancePayment marks a request paid. Paying twice is a no-op.
func (s *CrowdFundingService) AdvancePayment(ctx context.Context, id primitive.ObjectID) (*models.PaymentRequest, bool, error) {
	pr, err := load(ctx, s.ds.PaymentRequests, id, "Payment request")
	if err != nil {
		return nil, false, err
	}
	next, changed := models.PaymentRequestLifecycle.Advance(pr.Status)
	if !changed {
		return pr, false, nil
	}
	pr, err = s.ds.PaymentRequests.UpdateByID(ctx, pr.ID, bson.M{"status": next})
	if err != nil {
		return nil, false, err
	}
	notifyOwner(ctx, s.ds, s.notifier, pr.UserID, "payment request "+pr.RefNumber, next)
	return pr, true, nil
}
