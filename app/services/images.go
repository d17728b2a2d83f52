package services

import (
	"context"
	"io"

	"inkwell/app/models"

	"github.com/gabriel-vasile/mimetype"
)

// MaxImageSize bounds the featured image upload.
const MaxImageSize = 5 << 20

// ImageStore keeps featured images in an object store.
type ImageStore interface {
	Upload(ctx context.Context, name, contentType string, r io.Reader) (*models.Image, error)
	Delete(ctx context.Context, id string) error
}

// ImageUpload is an image attached to a create or update request.
type ImageUpload struct {
	Filename string
	Data     []byte
}

// detectImage returns the sniffed content type of an acceptable image.
func detectImage(upload *ImageUpload) (string, error) {
	if len(upload.Data) == 0 {
		return "", newError(ErrValidation, "Image file is empty")
	}
	if len(upload.Data) > MaxImageSize {
		return "", newError(ErrValidation, "Image must be 5MB or smaller")
	}
	mt := mimetype.Detect(upload.Data)
	if !mt.Is("image/jpeg") && !mt.Is("image/png") {
		return "", newError(ErrValidation, "Only jpeg and png images are allowed")
	}
	return mt.String(), nil
}
