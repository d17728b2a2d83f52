package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"inkwell/app/logger"
	"inkwell/app/models"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

// KeyPrefix is the folder every featured image is stored under.
const KeyPrefix = "blog-app/"

// GCSImageStore keeps featured images in a Google Cloud Storage bucket.
type GCSImageStore struct {
	client    *storage.Client
	bucket    string
	cdnDomain string
	log       *logger.Logger
}

// NewGCSImageStore connects to bucket. Public URLs use cdnDomain when set and
// the storage.googleapis.com address otherwise.
func NewGCSImageStore(ctx context.Context, bucket, cdnDomain string, log *logger.Logger, opts ...option.ClientOption) (*GCSImageStore, error) {
	if bucket == "" {
		return nil, errors.New("image bucket name is empty")
	}
	if log == nil {
		log = logger.Nop()
	}
	opts = append(opts, option.WithScopes(storage.ScopeReadWrite))
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	log.Info("image store initialized", "bucket", bucket, "cdn_domain", cdnDomain)
	return &GCSImageStore{
		client:    client,
		bucket:    bucket,
		cdnDomain: strings.TrimSpace(cdnDomain),
		log:       log.With("service", "ImageStore"),
	}, nil
}

// Close releases the underlying client.
func (s *GCSImageStore) Close() error {
	return s.client.Close()
}

// Upload writes the image under a fresh key and returns its id and URL.
func (s *GCSImageStore) Upload(ctx context.Context, name, contentType string, r io.Reader) (*models.Image, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	key := ObjectKey(name)
	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "public, max-age=31536000"
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to close GCS writer: %w", err)
	}

	s.log.Debug("image uploaded", "key", key, "content_type", contentType)
	return &models.Image{ID: key, URL: s.PublicURL(key)}, nil
}

// Delete removes the object. A missing object is not an error.
func (s *GCSImageStore) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	err := s.client.Bucket(s.bucket).Object(id).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("failed to delete GCS object %q in bucket %q: %w", id, s.bucket, err)
	}
	return nil
}

// PublicURL is the address clients load key from.
func (s *GCSImageStore) PublicURL(key string) string {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if s.cdnDomain != "" {
		return fmt.Sprintf("https://%s/%s", s.cdnDomain, key)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, key)
}

// ObjectKey builds a unique key for an uploaded file, keeping its extension.
func ObjectKey(filename string) string {
	ext := strings.ToLower(path.Ext(path.Base(strings.ReplaceAll(filename, "\\", "/"))))
	if len(ext) > 5 || strings.ContainsAny(ext, " ?#%") {
		ext = ""
	}
	return KeyPrefix + uuid.NewString() + ext
}
