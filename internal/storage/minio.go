package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioOptions holds the object store endpoint, credentials, and bucket.
type MinioOptions struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Minio stores payloads as objects in a MinIO (or S3-compatible) bucket.
// Keys follow the same scheme as the local backend; there is no local
// filesystem interaction.
type Minio struct {
	client *minio.Client
	bucket string
	logger *slog.Logger
}

// NewMinio connects to the object store and ensures the configured bucket
// exists, creating it when absent.
func NewMinio(ctx context.Context, log *slog.Logger, opts MinioOptions) (*Minio, error) {
	if log == nil {
		log = slog.Default()
	}
	if opts.Endpoint == "" || opts.Bucket == "" {
		return nil, fmt.Errorf("minio endpoint and bucket are required")
	}

	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, opts.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %q: %w", opts.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, opts.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %q: %w", opts.Bucket, err)
		}
		log.Info("created bucket", slog.String("bucket", opts.Bucket))
	}

	return &Minio{
		client: client,
		bucket: opts.Bucket,
		logger: log.With(slog.String("storage", "minio")),
	}, nil
}

// Put uploads the payload in a single object put with its declared content type.
func (s *Minio) Put(ctx context.Context, input PutInput) (string, error) {
	key := Key(input.Timestamp, input.OriginalFilename)

	_, err := s.client.PutObject(ctx, s.bucket, key, input.Payload, input.Size, minio.PutObjectOptions{
		ContentType: input.ContentType,
	})
	if err != nil {
		return "", fmt.Errorf("%w: put object: %w", ErrStoreFailed, err)
	}

	s.logger.Debug("stored image", slog.String("key", key))
	return key, nil
}
