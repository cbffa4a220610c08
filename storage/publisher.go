package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"homesnacks-cycle/config"
)

// Publisher uploads generated files to a remote site host.
type Publisher interface {
	PutFile(ctx context.Context, key, path, contentType string) error
	Target() string
}

// MinioPublisher writes the generated site into an S3-compatible bucket.
type MinioPublisher struct {
	client *minio.Client
	bucket string
}

// NewMinioPublisher connects to the configured endpoint and makes sure the
// target bucket exists.
func NewMinioPublisher(ctx context.Context, cfg config.PublishConfig) (*MinioPublisher, error) {
	endpoint := strings.TrimPrefix(cfg.Endpoint, "http://")
	endpoint = strings.TrimPrefix(endpoint, "https://")

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.Secure,
	})
	if err != nil {
		return nil, fmt.Errorf("publish: init client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("publish: check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("publish: create bucket %s: %w", cfg.Bucket, err)
		}
	}

	return &MinioPublisher{client: client, bucket: cfg.Bucket}, nil
}

// PutFile uploads the local file at path under key.
func (p *MinioPublisher) PutFile(ctx context.Context, key, path, contentType string) error {
	_, err := p.client.FPutObject(ctx, p.bucket, key, path, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("publish %s to bucket %s: %w", key, p.bucket, err)
	}
	return nil
}

// Target names the destination for log lines.
func (p *MinioPublisher) Target() string {
	return p.client.EndpointURL().Host + "/" + p.bucket
}
