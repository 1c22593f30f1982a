// Package storage provides object storage for user uploads.
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/saramagdits/landscaping-saas/internal/config"
)

// ObjectStore stores publicly readable blobs under hierarchical keys.
type ObjectStore interface {
	// Put uploads the object and returns its public URL.
	Put(ctx context.Context, key, contentType string, body io.Reader) (string, error)
	Delete(ctx context.Context, key string) error
	// KeyFromURL maps a public URL previously returned by Put back to its
	// object key.
	KeyFromURL(publicURL string) (string, error)
}

// S3Store implements ObjectStore on an S3 bucket fronted by a public base
// URL (the bucket endpoint or a CDN).
type S3Store struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
}

func NewS3Store(ctx context.Context, cfg *config.Config) (*S3Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Storage.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &S3Store{
		client:        s3.NewFromConfig(awsCfg),
		bucket:        cfg.Storage.Bucket,
		publicBaseURL: strings.TrimSuffix(cfg.Storage.PublicBaseURL, "/"),
	}, nil
}

func (s *S3Store) Put(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return s.publicBaseURL + "/" + key, nil
}

func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}

func (s *S3Store) KeyFromURL(publicURL string) (string, error) {
	prefix := s.publicBaseURL + "/"
	if !strings.HasPrefix(publicURL, prefix) {
		return "", fmt.Errorf("url %q is not under %q", publicURL, s.publicBaseURL)
	}
	key := strings.TrimPrefix(publicURL, prefix)
	if key == "" {
		return "", fmt.Errorf("url %q has no object key", publicURL)
	}
	return key, nil
}
