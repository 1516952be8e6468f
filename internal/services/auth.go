package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang/glog"
	"github.com/patientng/patient-api/internal/apperr"
	"github.com/patientng/patient-api/internal/dao"
	"github.com/patientng/patient-api/internal/models"
	"github.com/patientng/patient-api/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RefreshTokenLifetime is how long a stored refresh token stays exchangeable.
const RefreshTokenLifetime = 168 * time.Hour

type SignupInput struct {
	FirstName string `json:"firstName" binding:"required" label:"First Name"`
	LastName  string `json:"lastName" binding:"required" label:"Last Name"`
	Email     string `json:"email" binding:"required,email" label:"Email"`
	Password  string `json:"password" binding:"required,min=8" label:"Password"`
	Phone     string `json:"phone" label:"Phone Number"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email" label:"Email"`
	Password string `json:"password" binding:"required" label:"Password"`
}

type Tokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Session is what signup and login hand back.
type Session struct {
	Tokens
	User *models.User `json:"user"`
}

type AuthService struct {
	ds     *dao.Datasources
	signer *utils.TokenSigner
	Now    func() time.Time
}

func NewAuthService(ds *dao.Datasources, signer *utils.TokenSigner) *AuthService {
	return &AuthService{ds: ds, signer: signer, Now: time.Now}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*Session, error) {
	hashedPassword, err := utils.HashPassword(in.Password)
	if errors.Is(err, utils.ErrPasswordTooLong) {
		return nil, apperr.BadRequest(fmt.Sprintf("Password must be at most %d bytes.", utils.MaxPasswordBytes))
	}
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	now := s.Now()
	user := &models.User{
		ID:        primitive.NewObjectID(),
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Email:     normalizeEmail(in.Email),
		Password:  hashedPassword,
		Phone:     in.Phone,
		UserType:  []models.UserType{},
		Active:    true,
		Level:     1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.ds.Users.Create(ctx, user); err != nil {
		if errors.Is(err, dao.ErrDuplicate) {
			return nil, apperr.Conflict("An account with this email already exists.")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	glog.Infof("signup: created user %s", user.ID.Hex())

	tokens, err := s.IssueTokens(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &Session{Tokens: *tokens, User: user}, nil
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (*Session, error) {
	user, err := s.ds.Users.FindOne(ctx, bson.M{"email": normalizeEmail(in.Email)})
	if errors.Is(err, dao.ErrNotFound) {
		return nil, apperr.Unauthorized("Invalid credentials.")
	}
	if err != nil {
		return nil, err
	}
	if !utils.CheckPasswordHash(in.Password, user.Password) {
		return nil, apperr.Unauthorized("Invalid credentials.")
	}
	if !user.Active {
		return nil, apperr.Unauthorized("Your account has been deactivated.")
	}
	if utils.NeedsRehash(user.Password) {
		s.rehash(ctx, user.ID, in.Password)
	}
	tokens, err := s.IssueTokens(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &Session{Tokens: *tokens, User: user}, nil
}

// rehash moves a stored hash to the current PasswordCost. Failure only delays
// the upgrade to the next login.
func (s *AuthService) rehash(ctx context.Context, userID primitive.ObjectID, password string) {
	hash, err := utils.HashPassword(password)
	if err == nil {
		_, err = s.ds.Users.UpdateByID(ctx, userID, bson.M{"password": hash})
	}
	if err != nil {
		glog.Warningf("login: rehash password for %s: %v", userID.Hex(), err)
		return
	}
	glog.Infof("login: upgraded password hash for %s", userID.Hex())
}

// IssueTokens signs a new access/refresh pair and makes the refresh token the
// only one stored for the user, ending any earlier session.
func (s *AuthService) IssueTokens(ctx context.Context, userID primitive.ObjectID) (*Tokens, error) {
	access, err := s.signer.AccessToken(userID.Hex())
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := s.signer.RefreshToken(userID.Hex())
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	// One refresh token per user: the new one replaces any earlier session.
	now := s.Now()
	err = s.ds.Tokens.Upsert(ctx, bson.M{"userId": userID}, bson.M{
		"refreshToken": refresh,
		"expiredAt":    now.Add(RefreshTokenLifetime),
		"createdAt":    now,
	})
	if err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}
	return &Tokens{AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh exchanges a stored, unexpired refresh token for a new access token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*Tokens, error) {
	invalid := apperr.Unauthorized("Invalid refresh token.")

	claims, err := s.signer.ParseRefresh(refreshToken)
	if err != nil {
		return nil, invalid
	}
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, invalid
	}
	stored, err := s.ds.Tokens.FindOne(ctx, bson.M{"userId": userID, "refreshToken": refreshToken})
	if errors.Is(err, dao.ErrNotFound) {
		return nil, invalid
	}
	if err != nil {
		return nil, err
	}
	if stored.ExpiredAt.Before(s.Now()) {
		return nil, invalid
	}
	user, err := s.ds.Users.FindByID(ctx, userID)
	if errors.Is(err, dao.ErrNotFound) || (err == nil && !user.Active) {
		return nil, invalid
	}
	if err != nil {
		return nil, err
	}

	access, err := s.signer.AccessToken(claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	return &Tokens{AccessToken: access, RefreshToken: refreshToken}, nil
}

// Logout forgets the user's refresh token.
func (s *AuthService) Logout(ctx context.Context, userID primitive.ObjectID) error {
	return s.ds.Tokens.DeleteMany(ctx, bson.M{"userId": userID})
}

// Authenticate resolves the user behind an access token.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*models.User, error) {
	claims, err := s.signer.ParseAccess(accessToken)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid token.")
	}
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid token.")
	}
	user, err := s.ds.Users.FindByID(ctx, id)
	if errors.Is(err, dao.ErrNotFound) {
		return nil, apperr.NotFound("User not found.")
	}
	return user, err
}
