package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/patientng/patient-api/internal/apperr"
	"github.com/patientng/patient-api/internal/dao"
	"github.com/patientng/patient-api/internal/models"
	"github.com/patientng/patient-api/internal/policy"
	"github.com/patientng/patient-api/internal/upload"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OnboardingInput struct {
	Age     *string `form:"age" json:"age" label:"Age"`
	Gender  string  `form:"gender" json:"gender" binding:"required" label:"Gender"`
	Address *string `form:"address" json:"address" label:"Address"`
	State   *string `form:"state" json:"state" label:"State"`
	LGA     *string `form:"lga" json:"lga" label:"LGA"`
}

// ProfilePatch is a partial profile update. UserType is a JSON array of tags.
type ProfilePatch struct {
	Email     *string `form:"email" json:"email" binding:"omitempty,email" label:"Email"`
	FirstName *string `form:"firstName" json:"firstName" label:"First Name"`
	LastName  *string `form:"lastName" json:"lastName" label:"Last Name"`
	Phone     *string `form:"phone" json:"phone" label:"Phone Number"`
	Age       *string `form:"age" json:"age" label:"Age"`
	Gender    *string `form:"gender" json:"gender" label:"Gender"`
	Address   *string `form:"address" json:"address" label:"Address"`
	State     *string `form:"state" json:"state" label:"State"`
	LGA       *string `form:"lga" json:"lga" label:"LGA"`
	UserType  *string `form:"userType" json:"userType" label:"user type"`
}

type UserService struct {
	ds              *dao.Datasources
	uploads         *upload.Uploader
	superAdminEmail string
}

func NewUserService(ds *dao.Datasources, uploads *upload.Uploader, superAdminEmail string) *UserService {
	return &UserService{ds: ds, uploads: uploads, superAdminEmail: normalizeEmail(superAdminEmail)}
}

// List returns every user except the built-in administrator account.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.ds.Users.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	out := users[:0]
	for _, u := range users {
		if u.Email != s.superAdminEmail {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *UserService) Get(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return load(ctx, s.ds.Users, id, "User")
}

// ToggleActive flips a user's active flag.
func (s *UserService) ToggleActive(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, err := load(ctx, s.ds.Users, id, "User")
	if err != nil {
		return nil, err
	}
	return s.ds.Users.UpdateByID(ctx, user.ID, bson.M{"active": !user.Active})
}

// Onboard records demographic details and moves the user to level 2.
func (s *UserService) Onboard(ctx context.Context, caller *models.User, in OnboardingInput) (*models.User, error) {
	user, err := load(ctx, s.ds.Users, caller.ID, "User")
	if err != nil {
		return nil, err
	}
	set := bson.M{"gender": in.Gender, "level": 2}
	setIf(set, "age", in.Age)
	setIf(set, "address", in.Address)
	if in.State != nil {
		set["state"] = *in.State
	}
	if in.LGA != nil {
		set["lga"] = *in.LGA
	}
	return s.ds.Users.UpdateByID(ctx, user.ID, set)
}

func parseUserTypes(raw string) ([]models.UserType, error) {
	var tags []models.UserType
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return nil, apperr.BadRequest(`"user type" must be a JSON array`)
	}
	for _, t := range tags {
		if !t.Valid() {
			return nil, apperr.BadRequest(fmt.Sprintf("Unknown user type %q.", t))
		}
	}
	return tags, nil
}

// UpdateProfile merges patch into the stored profile. Administrators keep
// their email; only administrators may change user types.
func (s *UserService) UpdateProfile(ctx context.Context, caller *models.User, id primitive.ObjectID, patch ProfilePatch, image *multipart.FileHeader) (*models.User, error) {
	if err := mustModify(caller, id); err != nil {
		return nil, err
	}
	user, err := load(ctx, s.ds.Users, id, "User")
	if err != nil {
		return nil, err
	}

	set := bson.M{}
	if patch.Email != nil && !user.IsAdmin {
		email := normalizeEmail(*patch.Email)
		setIf(set, "email", &email)
	}
	setIf(set, "firstName", patch.FirstName)
	setIf(set, "lastName", patch.LastName)
	setIf(set, "phone", patch.Phone)
	setIf(set, "age", patch.Age)
	setIf(set, "gender", patch.Gender)
	setIf(set, "address", patch.Address)
	setIf(set, "state", patch.State)
	setIf(set, "lga", patch.LGA)
	if patch.UserType != nil && strings.TrimSpace(*patch.UserType) != "" {
		tags, err := parseUserTypes(*patch.UserType)
		if err != nil {
			return nil, err
		}
		if len(tags) > 0 {
			if !policy.IsAdmin(caller) {
				return nil, apperr.Unauthorized("You are not authorized to change user types.")
			}
			set["userType"] = tags
		}
	}

	updated, err := updateWithImage(ctx, s.uploads, s.ds.Users, user.ID, set, user.Image, image)
	if errors.Is(err, dao.ErrDuplicate) {
		return nil, apperr.Conflict("An account with this email already exists.")
	}
	return updated, err
}
