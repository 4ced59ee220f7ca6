package media

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"

	"github.com/cppla/folio/config"
)

// ErrUnavailable is returned by a Store without a backing bucket.
var ErrUnavailable = errors.New("media storage not configured")

// Object is one uploaded file.
type Object struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// Putter is the subset of the MinIO client used for uploads.
type Putter interface {
	PutObject(ctx context.Context, bucket, object string, r io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// Store uploads portfolio images (avatars, project screenshots) to an S3 compatible bucket.
type Store struct {
	client    Putter
	bucket    string
	publicURL string
	newKey    func() string
}

// New connects to MinIO and makes sure the bucket exists. It returns a nil Store when no
// endpoint is configured.
func New(ctx context.Context, cfg config.AppConfig) (*Store, error) {
	if cfg.MinIOEndpoint == "" {
		return nil, nil
	}
	client, err := minio.New(cfg.MinIOEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIOAccessKey, cfg.MinIOSecretKey, ""),
		Secure: cfg.MinIOUseSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, "init minio client")
	}
	exists, err := client.BucketExists(ctx, cfg.MinIOBucket)
	if err != nil {
		return nil, errors.Wrap(err, "connect to minio")
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinIOBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, errors.Wrapf(err, "create bucket %s", cfg.MinIOBucket)
		}
	}

	base := cfg.MediaPublicURL
	if base == "" {
		scheme := "http"
		if cfg.MinIOUseSSL {
			scheme = "https"
		}
		base = fmt.Sprintf("%s://%s/%s", scheme, cfg.MinIOEndpoint, cfg.MinIOBucket)
	}
	return NewStore(client, cfg.MinIOBucket, base), nil
}

// NewStore builds a Store over an existing client.
func NewStore(client Putter, bucket, publicURL string) *Store {
	return &Store{
		client:    client,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
		newKey:    func() string { return uuid.NewString() },
	}
}

// Upload stores r under a fresh key below the user's prefix and returns its public location.
func (s *Store) Upload(ctx context.Context, userID uint, filename string, r io.Reader, size int64, contentType string) (*Object, error) {
	if s == nil || s.client == nil {
		return nil, ErrUnavailable
	}
	key := fmt.Sprintf("users/%d/%s%s", userID, s.newKey(), strings.ToLower(path.Ext(filename)))
	info, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return nil, errors.Wrap(err, "upload object")
	}
	return &Object{Key: info.Key, URL: s.PublicURL(info.Key), ContentType: contentType, Size: info.Size}, nil
}

// PublicURL returns the browser-facing URL of key.
func (s *Store) PublicURL(key string) string {
	return s.publicURL + "/" + key
}
