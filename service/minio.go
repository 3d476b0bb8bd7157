package service

import (
	"context"
	"fmt"

	"github.com/AnTengye/carrierdiscounts/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/xuri/excelize/v2"
)

// MinioSource reads the workbook from an object in a MinIO/S3 bucket.
type MinioSource struct {
	client *minio.Client
	bucket string
	object string
	config *config.MinioConfig
}

func NewMinioSource(cfg *config.MinioConfig) (*MinioSource, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &MinioSource{
		client: client,
		bucket: cfg.Bucket,
		object: cfg.Object,
		config: cfg,
	}, nil
}

// Open downloads the workbook object and parses it in memory
func (s *MinioSource) Open(ctx context.Context) (*excelize.File, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.object, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get object: %w", ErrWorkbookUnavailable, err)
	}
	defer obj.Close()

	f, err := excelize.OpenReader(obj)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read object: %w", ErrWorkbookUnavailable, err)
	}
	return f, nil
}

// Check confirms the workbook object exists
func (s *MinioSource) Check(ctx context.Context) error {
	if _, err := s.client.StatObject(ctx, s.bucket, s.object, minio.StatObjectOptions{}); err != nil {
		return fmt.Errorf("%w: failed to stat object: %w", ErrWorkbookUnavailable, err)
	}
	return nil
}

// Describe returns the object URL, without credentials
func (s *MinioSource) Describe() string {
	protocol := "http"
	if s.config.UseSSL {
		protocol = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", protocol, s.config.Endpoint, s.bucket, s.object)
}
