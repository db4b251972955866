package store

import (
	"bytes"
	"context"
	"fmt"
	"io"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/avemuri/CaseDocAPI/pkg/logger_i"
)

// S3FileStore holds the uploaded source blobs. The pipeline only ever
// reads whole objects, so no streaming surface is exposed.
type S3FileStore struct {
	client *s3.Client
	bucket string
	logger *logger_i.Logger
}

func GetS3FileStore(ctx context.Context, region, bucket string) *S3FileStore {
	logger := logger_i.NewLogger("S3FileStore")
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		logger.Error("could not load AWS config", "error", err)
		return nil
	}
	logger.Info("S3 file store init successfully", "bucket", bucket)
	return &S3FileStore{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		logger: logger,
	}
}

func (s *S3FileStore) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	})
	if err != nil {
		return nil, fmt.Errorf("s3 get %s: %w", key, err)
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}

func (s *S3FileStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.bucket,
		Key:         &key,
		Body:        bytes.NewReader(data),
		ContentType: &contentType,
	})
	if err != nil {
		return fmt.Errorf("s3 put %s: %w", key, err)
	}
	return nil
}
