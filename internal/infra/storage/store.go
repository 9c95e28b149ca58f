package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/BruksfildServices01/turnos/internal/config"
	"github.com/BruksfildServices01/turnos/internal/logging"
)

// S3API is the subset of the S3 client used by Store.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Store writes public assets (business logos) to an S3-compatible bucket.
type Store struct {
	client    S3API
	bucket    string
	publicURL string
	logger    *logging.Logger
}

// NewS3Client builds a client for AWS or any S3-compatible endpoint
// (MinIO, R2) using static credentials.
func NewS3Client(cfg *config.Config) *s3.Client {
	opts := s3.Options{
		Region: cfg.StorageRegion,
	}
	if cfg.StorageAccessKey != "" {
		opts.Credentials = credentials.NewStaticCredentialsProvider(cfg.StorageAccessKey, cfg.StorageSecretKey, "")
	}
	if cfg.StorageEndpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.StorageEndpoint)
		opts.UsePathStyle = true
	}
	return s3.New(opts)
}

func NewStore(client S3API, bucket, publicURL string, logger *logging.Logger) *Store {
	if logger == nil {
		logger = logging.Default()
	}
	return &Store{
		client:    client,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
		logger:    logger,
	}
}

func (s *Store) Enabled() bool {
	return s != nil && s.client != nil && s.bucket != ""
}

// Upload stores data under path and returns its public URL.
func (s *Store) Upload(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	if !s.Enabled() {
		return "", ErrStorageDisabled
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(path),
		Body:         bytes.NewReader(data),
		ContentType:  aws.String(contentType),
		CacheControl: aws.String("public, max-age=31536000, immutable"),
	})
	if err != nil {
		return "", fmt.Errorf("storage: s3 put %s: %w", path, err)
	}

	s.logger.Info("object uploaded", "key", path, "bytes", len(data), "content_type", contentType)
	return s.PublicURL(path), nil
}

// Delete removes path. Missing objects are not an error in S3.
func (s *Store) Delete(ctx context.Context, path string) error {
	if !s.Enabled() || path == "" {
		return nil
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path),
	})
	if err != nil {
		return fmt.Errorf("storage: s3 delete %s: %w", path, err)
	}
	return nil
}

func (s *Store) PublicURL(path string) string {
	path = strings.TrimLeft(path, "/")
	if s.publicURL != "" {
		return s.publicURL + "/" + path
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, path)
}
