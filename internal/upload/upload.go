// Package upload validates incoming files and persists them to a Storage.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"slices"

	"github.com/gabriel-vasile/mimetype"
	"github.com/golang/glog"
	"github.com/google/uuid"
)

// Photo is the storage category uploaded images are filed under.
const Photo = "photo"

// ImageTypes is the MIME allow-list for images.
var ImageTypes = []string{"image/jpeg", "image/png", "image/webp", "image/gif"}

// TypeError reports a file whose content is not in the allow-list.
type TypeError struct{ MIME string }

func (e *TypeError) Error() string {
	return fmt.Sprintf("Invalid image type %s. Allowed types are jpeg, png, webp and gif.", e.MIME)
}

// SizeError reports a file larger than the ceiling.
type SizeError struct{ Size, Max int64 }

func (e *SizeError) Error() string {
	return fmt.Sprintf("Image is too large (%d bytes). Maximum size is %d bytes.", e.Size, e.Max)
}

// IsRejection reports whether err is a TypeError or SizeError.
func IsRejection(err error) bool {
	var te *TypeError
	var se *SizeError
	return errors.As(err, &te) || errors.As(err, &se)
}

// Storage persists files under relative paths such as "photo/<name>.png".
type Storage interface {
	Save(ctx context.Context, rel string, r io.Reader, contentType string) error
	Remove(ctx context.Context, rel string) error
}

type Uploader struct {
	storage Storage
	maxSize int64
	allowed []string
}

func New(storage Storage, maxSize int64) *Uploader {
	return &Uploader{storage: storage, maxSize: maxSize, allowed: ImageTypes}
}

// Accept validates fh and stores it under category. It returns the stored
// relative path. Nothing is written when validation fails.
func (u *Uploader) Accept(ctx context.Context, fh *multipart.FileHeader, category string) (string, error) {
	if fh.Size > u.maxSize {
		return "", &SizeError{Size: fh.Size, Max: u.maxSize}
	}
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	mt, err := mimetype.DetectReader(f)
	if err != nil {
		return "", fmt.Errorf("detect upload type: %w", err)
	}
	if !slices.ContainsFunc(u.allowed, mt.Is) {
		return "", &TypeError{MIME: mt.String()}
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind upload: %w", err)
	}

	// The client's filename is ignored; the extension decides how the file
	// is served back.
	rel := path.Join(category, uuid.NewString()+mt.Extension())
	if err := u.storage.Save(ctx, rel, io.LimitReader(f, u.maxSize+1), mt.String()); err != nil {
		return "", fmt.Errorf("store upload: %w", err)
	}
	return rel, nil
}

// Discard removes a stored file. Removal is best effort: a failure is logged
// and the file is left behind. Callers replacing an image discard the old one
// only after the new path has been saved on the document.
func (u *Uploader) Discard(ctx context.Context, rel string) {
	if rel == "" {
		return
	}
	if err := u.storage.Remove(ctx, rel); err != nil {
		glog.Warningf("upload: could not remove %s: %v", rel, err)
	}
}
