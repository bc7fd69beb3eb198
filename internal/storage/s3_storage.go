package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/ikkim/member-directory/config"
	"github.com/ikkim/member-directory/pkg/logger"
)

const presignExpiry = 15 * time.Minute

type S3Storage struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

// NewS3Storage uses static credentials when both keys are configured and
// the default AWS credential chain otherwise. optFns are applied to the
// client, e.g. to point it at an S3-compatible endpoint.
func NewS3Storage(ctx context.Context, cfg config.S3Config, optFns ...func(*s3.Options)) *S3Storage {
	var awsCfg aws.Config
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		awsCfg = aws.Config{
			Region:      cfg.Region,
			Credentials: credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		}
	} else {
		loaded, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
		if err != nil {
			logger.Warn("Failed to load default AWS config, using region only", map[string]interface{}{
				"error": err.Error(),
			})
			loaded = aws.Config{Region: cfg.Region}
		}
		awsCfg = loaded
	}

	return &S3Storage{
		client:  s3.NewFromConfig(awsCfg, optFns...),
		bucket:  cfg.Bucket,
		baseURL: cfg.BaseURL,
	}
}

// Save uploads body under a fresh key and returns the key. The media base
// URL for the s3 driver is expected to point at the bucket root.
func (s *S3Storage) Save(ctx context.Context, folder, filename string, body io.Reader, size int64, contentType string) (string, error) {
	key := ObjectKey(folder, filename)

	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	}
	if size > 0 {
		input.ContentLength = aws.Int64(size)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		logger.Error("Failed to upload object to S3", err, map[string]interface{}{
			"bucket": s.bucket,
			"key":    key,
		})
		return "", fmt.Errorf("put object: %w", err)
	}

	logger.Debug("Stored file in S3", map[string]interface{}{
		"bucket": s.bucket,
		"key":    key,
		"bytes":  size,
	})
	return key, nil
}

// Presign returns a PUT URL valid for 15 minutes.
func (s *S3Storage) Presign(ctx context.Context, filename, contentType, folder string) (*PresignedURLResponse, error) {
	key := ObjectKey(folder, filename)

	req, err := s3.NewPresignClient(s.client).PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return nil, fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return &PresignedURLResponse{
		UploadURL: req.URL,
		FileURL:   s.FileURL(key),
		Key:       key,
	}, nil
}

// FileURL prefers the configured CDN or custom domain over the bucket URL.
func (s *S3Storage) FileURL(key string) string {
	if s.baseURL != "" {
		return fmt.Sprintf("%s/%s", s.baseURL, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.client.Options().Region, key)
}
