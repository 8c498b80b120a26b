// Package media uploads CMS images to object storage and hands back the
// public URL that is stored on products, lookbooks and theme entries.
package media

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
)

// AllowedContentTypes is the whitelist of uploadable image types.
var AllowedContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// Object is one file handed to a storage backend.
type Object struct {
	Bucket      string
	Key         string
	ContentType string
	Size        int64
	Body        io.Reader
}

// ObjectStorage is implemented by the storage backends in the
// infrastructure layer (S3, Cloudinary, in-memory).
type ObjectStorage interface {
	// Upload stores the object and returns its public URL.
	Upload(ctx context.Context, obj Object) (string, error)
	// Delete removes the object behind a public URL previously returned by Upload.
	Delete(ctx context.Context, publicURL string) error
	// Name identifies the backend in logs and metrics.
	Name() string
}

// UploadRequest is an image submitted by the admin.
type UploadRequest struct {
	Bucket      string
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// UploadResult is returned after a successful upload.
type UploadResult struct {
	URL         string `json:"url"`
	Key         string `json:"key"`
	Bucket      string `json:"bucket"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// ImageUploadService validates and stores images.
type ImageUploadService struct {
	storage       ObjectStorage
	defaultBucket string
	maxSize       int64
	now           func() time.Time
	metrics       *telemetry.BusinessMetrics
}

// NewImageUploadService creates an upload service. maxSize <= 0 disables the
// size check.
func NewImageUploadService(storage ObjectStorage, defaultBucket string, maxSize int64) *ImageUploadService {
	return &ImageUploadService{
		storage:       storage,
		defaultBucket: defaultBucket,
		maxSize:       maxSize,
		now:           time.Now,
	}
}

// SetBusinessMetrics attaches upload counters.
func (s *ImageUploadService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.metrics = bm
}

// Upload stores the image under a fresh key and returns its public URL.
func (s *ImageUploadService) Upload(ctx context.Context, req UploadRequest) (*UploadResult, error) {
	bucket := strings.TrimSpace(req.Bucket)
	if bucket == "" {
		bucket = s.defaultBucket
	}
	if !validBucket(bucket) {
		return nil, shared.NewValidationError("bucket must contain only lowercase letters, digits, '-' or '_'")
	}
	contentType := strings.ToLower(strings.TrimSpace(req.ContentType))
	if !AllowedContentTypes[contentType] {
		return nil, shared.NewDomainError("UNSUPPORTED_MEDIA_TYPE",
			fmt.Sprintf("Content type %q is not allowed. Allowed types: JPEG, PNG, WebP, GIF", req.ContentType))
	}
	if s.maxSize > 0 && req.Size > s.maxSize {
		return nil, shared.NewDomainError("FILE_TOO_LARGE",
			fmt.Sprintf("File exceeds the maximum upload size of %d bytes", s.maxSize))
	}
	if req.Body == nil {
		return nil, shared.NewValidationError("file is required")
	}

	key := GenerateKey(req.FileName, s.now())
	url, err := s.storage.Upload(ctx, Object{
		Bucket:      bucket,
		Key:         key,
		ContentType: contentType,
		Size:        req.Size,
		Body:        req.Body,
	})
	if err != nil {
		return nil, fmt.Errorf("upload %s/%s: %w", bucket, key, err)
	}

	s.metrics.RecordImageUpload(ctx, s.storage.Name(), bucket, contentType, req.Size)

	return &UploadResult{
		URL:         url,
		Key:         key,
		Bucket:      bucket,
		ContentType: contentType,
		Size:        req.Size,
	}, nil
}

// Delete removes a previously uploaded image by its public URL.
func (s *ImageUploadService) Delete(ctx context.Context, publicURL string) error {
	if strings.TrimSpace(publicURL) == "" {
		return shared.NewValidationError("url is required")
	}
	return s.storage.Delete(ctx, publicURL)
}

const keyAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// KeyRandomLength is the length of the random prefix of generated keys.
const KeyRandomLength = 12

// GenerateKey builds an object key "<random>_<unix millis>.<ext>". The
// extension is taken from fileName, lowercased, and defaults to "bin".
func GenerateKey(fileName string, now time.Time) string {
	id := uuid.New()
	var b strings.Builder
	for i := range KeyRandomLength {
		b.WriteByte(keyAlphabet[int(id[i])%len(keyAlphabet)])
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))
	if ext == "" || !isAlnum(ext) {
		ext = "bin"
	}
	return fmt.Sprintf("%s_%d.%s", b.String(), now.UnixMilli(), ext)
}

func isAlnum(s string) bool {
	for _, r := range s {
		if !strings.ContainsRune(keyAlphabet, r) {
			return false
		}
	}
	return true
}

func validBucket(b string) bool {
	if b == "" || len(b) > 63 {
		return false
	}
	for _, r := range b {
		if !strings.ContainsRune(keyAlphabet, r) && r != '-' && r != '_' {
			return false
		}
	}
	return true
}
