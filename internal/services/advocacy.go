package services

import (
	"context"
	"errors"
	"time"

	"github.com/golang/glog"
	"github.com/patientng/patient-api/internal/apperr"
	"github.com/patientng/patient-api/internal/dao"
	"github.com/patientng/patient-api/internal/models"
	"github.com/patientng/patient-api/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AdvocacyInput struct {
	HospitalName    string `json:"hospitalName" label:"hospital name"`
	HospitalAddress string `json:"hospitalAddress" binding:"required" label:"hospital address"`
	Complaints      string `json:"complaints" label:"Complain"`
}

type AdvocacyPatch struct {
	HospitalName    *string `json:"hospitalName" label:"hospital name"`
	HospitalAddress *string `json:"hospitalAddress" label:"hospital address"`
	Complaints      *string `json:"complaints" label:"Comment"`
}

type AdvocacyService struct {
	ds       *dao.Datasources
	notifier Notifier
	Now      func() time.Time
}

func NewAdvocacyService(ds *dao.Datasources, notifier Notifier) *AdvocacyService {
	return &AdvocacyService{ds: ds, notifier: notifier, Now: time.Now}
}

// Create files a pending ticket with a fresh "#XXXXXX" reference.
func (s *AdvocacyService) Create(ctx context.Context, caller *models.User, in AdvocacyInput) (*models.Advocacy, error) {
	now := s.Now()
	adv := &models.Advocacy{
		ID:              primitive.NewObjectID(),
		HospitalName:    in.HospitalName,
		HospitalAddress: in.HospitalAddress,
		Complaints:      in.Complaints,
		Reference:       "#" + utils.GenerateReference(6),
		Status:          models.AdvocacyLifecycle.Initial(),
		UserID:          caller.ID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.ds.Advocacies.Create(ctx, adv); err != nil {
		return nil, err
	}
	return adv, nil
}

func (s *AdvocacyService) Update(ctx context.Context, caller *models.User, id primitive.ObjectID, patch AdvocacyPatch) (*models.Advocacy, error) {
	adv, err := load(ctx, s.ds.Advocacies, id, "Advocacy")
	if err != nil {
		return nil, err
	}
	if err := mustModify(caller, adv.UserID); err != nil {
		return nil, err
	}
	set := bson.M{}
	setIf(set, "hospitalName", patch.HospitalName)
	setIf(set, "hospitalAddress", patch.HospitalAddress)
	setIf(set, "complaints", patch.Complaints)
	if len(set) == 0 {
		return adv, nil
	}
	return s.ds.Advocacies.UpdateByID(ctx, adv.ID, set)
}

func (s *AdvocacyService) Get(ctx context.Context, id primitive.ObjectID) (*models.Advocacy, error) {
	return load(ctx, s.ds.Advocacies, id, "Advocacy")
}

func (s *AdvocacyService) List(ctx context.Context) ([]models.Advocacy, error) {
	return s.ds.Advocacies.Find(ctx, bson.M{})
}

func (s *AdvocacyService) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Advocacy, error) {
	return s.ds.Advocacies.Find(ctx, bson.M{"user": userID})
}

func (s *AdvocacyService) Delete(ctx context.Context, caller *models.User, id primitive.ObjectID) error {
	adv, err := load(ctx, s.ds.Advocacies, id, "Advocacy")
	if err != nil {
		return err
	}
	if err := mustModify(caller, adv.UserID); err != nil {
		return err
	}
	return s.ds.Advocacies.DeleteByID(ctx, adv.ID)
}

// AdvanceStatus moves the ticket one step: pending -> in-progress -> closed.
// A closed ticket is returned unchanged with changed == false.
func (s *AdvocacyService) AdvanceStatus(ctx context.Context, id primitive.ObjectID) (adv *models.Advocacy, changed bool, err error) {
	adv, err = load(ctx, s.ds.Advocacies, id, "Advocacy")
	if err != nil {
		return nil, false, err
	}
	if !models.AdvocacyLifecycle.Knows(adv.Status) {
		return nil, false, apperr.BadRequest("Advocacy has an unknown status " + adv.Status + ".")
	}
	next, changed := models.AdvocacyLifecycle.Advance(adv.Status)
	if !changed {
		return adv, false, nil
	}
	adv, err = s.ds.Advocacies.UpdateByID(ctx, adv.ID, bson.M{"status": next})
	if err != nil {
		return nil, false, err
	}
	notifyOwner(ctx, s.ds, s.notifier, adv.UserID, "complaint "+adv.Reference, next)
	return adv, true, nil
}

func notifyOwner(ctx context.Context, ds *dao.Datasources, n Notifier, ownerID primitive.ObjectID, subject, status string) {
	if n == nil {
		return
	}
	owner, err := ds.Users.FindByID(ctx, ownerID)
	if err != nil {
		if !errors.Is(err, dao.ErrNotFound) {
			glog.Warningf("notify: loading owner %s: %v", ownerID.Hex(), err)
		}
		return
	}
	n.StatusChanged(owner, subject, status)
}
