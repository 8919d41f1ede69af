package s3

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	aws_s3 "github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

type AWSConfig struct {
	AccessKeyID     string
	AccessKeySecret string
	Region          string
}

// CreateSession builds a session from static keys, or from the default
// credential chain when no key is given.
func CreateSession(cfg AWSConfig) (*session.Session, error) {
	awsCfg := &aws.Config{Region: aws.String(cfg.Region)}
	if cfg.AccessKeyID != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(cfg.AccessKeyID, cfg.AccessKeySecret, "")
	}
	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("create aws session: %w", err)
	}
	return sess, nil
}

func CreateS3Session(sess *session.Session) *aws_s3.S3 {
	return aws_s3.New(sess)
}

// Bucket uploads to and deletes from one S3 bucket.
type Bucket struct {
	Name     string
	uploader *s3manager.Uploader
	svc      *aws_s3.S3
}

func NewBucket(name string, sess *session.Session) *Bucket {
	return &Bucket{Name: name, uploader: s3manager.NewUploader(sess), svc: CreateS3Session(sess)}
}

// UploadObject stores body under key and returns the object URL.
func (b *Bucket) UploadObject(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	out, err := b.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(b.Name),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object %q: %w", key, err)
	}
	log.Printf("Successfully uploaded %q to %q", key, b.Name)
	return out.Location, nil
}

func (b *Bucket) DeleteObject(ctx context.Context, key string) error {
	_, err := b.svc.DeleteObjectWithContext(ctx, &aws_s3.DeleteObjectInput{
		Bucket: aws.String(b.Name),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object %q: %w", key, err)
	}
	return nil
}
