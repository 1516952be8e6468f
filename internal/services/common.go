// Package services holds the business rules behind each API resource.
package services

import (
	"context"
	"errors"
	"mime/multipart"

	"github.com/patientng/patient-api/internal/apperr"
	"github.com/patientng/patient-api/internal/dao"
	"github.com/patientng/patient-api/internal/models"
	"github.com/patientng/patient-api/internal/policy"
	"github.com/patientng/patient-api/internal/upload"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ParseID converts a hex id from a path into an ObjectID.
func ParseID(hex, what string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, apperr.BadRequest("Invalid " + what + " id.")
	}
	return id, nil
}

func load[T any](ctx context.Context, store dao.Store[T], id primitive.ObjectID, what string) (*T, error) {
	doc, err := store.FindByID(ctx, id)
	if errors.Is(err, dao.ErrNotFound) {
		return nil, apperr.NotFound(what + " not found.")
	}
	return doc, err
}

func mustModify(caller *models.User, owner primitive.ObjectID) error {
	if !policy.CanModify(caller, owner) {
		return apperr.Unauthorized("You are not authorized.")
	}
	return nil
}

// setIf copies v into m when it was supplied and is not the zero value, so
// omitted or blank fields keep what is stored.
func setIf[T comparable](m bson.M, key string, v *T) {
	var zero T
	if v != nil && *v != zero {
		m[key] = *v
	}
}

func uploadError(err error) error {
	if upload.IsRejection(err) {
		return apperr.BadRequest(err.Error())
	}
	return err
}

// acceptImage stores image when one was sent and returns its relative path.
func acceptImage(ctx context.Context, uploads *upload.Uploader, image *multipart.FileHeader) (string, error) {
	if image == nil {
		return "", nil
	}
	rel, err := uploads.Accept(ctx, image, upload.Photo)
	if err != nil {
		return "", uploadError(err)
	}
	return rel, nil
}

// updateWithImage applies set to the document, storing image first when one
// was sent. The replaced file is removed only once the new path is saved; if
// the update fails the new file is removed instead. Neither removal is
// transactional, so a crash in between can leave an orphaned file.
func updateWithImage[T any](ctx context.Context, uploads *upload.Uploader, store dao.Store[T], id primitive.ObjectID, set bson.M, oldImage string, image *multipart.FileHeader) (*T, error) {
	rel, err := acceptImage(ctx, uploads, image)
	if err != nil {
		return nil, err
	}
	if rel != "" {
		set["image"] = rel
	}
	if len(set) == 0 {
		return store.FindByID(ctx, id)
	}
	updated, err := store.UpdateByID(ctx, id, set)
	if err != nil {
		uploads.Discard(ctx, rel)
		return nil, err
	}
	if rel != "" {
		uploads.Discard(ctx, oldImage)
	}
	return updated, nil
}
