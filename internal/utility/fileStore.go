package utility

import (
	"context"
	"fmt"
	"io"
	"strings"

	s3 "zetaexams/aws"
	"zetaexams/internal/config"
)

// FileStore keeps uploaded PDFs and images and hands back their public URL.
type FileStore interface {
	Put(ctx context.Context, key, contentType string, body io.Reader) (string, error)
	Delete(ctx context.Context, key string) error
	// KeyOf returns the object key behind a URL this store handed out.
	KeyOf(url string) (string, bool)
}

// NewFileStore returns the store selected by cfg.Driver, or nil when uploads are disabled.
func NewFileStore(ctx context.Context, cfg config.StorageConfig) (FileStore, error) {
	switch cfg.Driver {
	case config.StorageS3:
		sess, err := s3.CreateSession(s3.AWSConfig{
			AccessKeyID:     cfg.AccessKey,
			AccessKeySecret: cfg.SecretKey,
			Region:          cfg.Region,
		})
		if err != nil {
			return nil, err
		}
		return &S3Store{bucket: s3.NewBucket(cfg.Bucket, sess), publicBaseURL: cfg.PublicBaseURL}, nil
	case config.StorageR2:
		return NewR2Store(ctx, cfg)
	case config.StorageNone, "":
		return nil, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
}

// S3Store uploads through the s3manager uploader.
type S3Store struct {
	bucket        *s3.Bucket
	publicBaseURL string
}

func (s *S3Store) Put(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	location, err := s.bucket.UploadObject(ctx, key, contentType, body)
	if err != nil {
		return "", err
	}
	if s.publicBaseURL != "" {
		return PublicURL(s.publicBaseURL, key), nil
	}
	return location, nil
}

func (s *S3Store) Delete(ctx context.Context, key string) error {
	return s.bucket.DeleteObject(ctx, key)
}

func (s *S3Store) KeyOf(url string) (string, bool) {
	return KeyFromURL(s.publicBaseURL, url)
}

// KeyFromURL is the inverse of PublicURL. It reports false for URLs outside base.
func KeyFromURL(base, url string) (string, bool) {
	base = strings.TrimRight(base, "/")
	if base == "" {
		return "", false
	}
	key, ok := strings.CutPrefix(url, base+"/")
	if !ok || key == "" {
		return "", false
	}
	return key, true
}

// PublicURL joins base and key with exactly one slash.
func PublicURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}
