// Package storage wraps the object store used for media uploads.
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Config carries object store connection settings.
type Config struct {
	Bucket       string
	Region       string
	Endpoint     string // non-empty for MinIO or custom endpoints
	AccessKey    string
	SecretKey    string
	PublicBase   string // base URL prefix for public object URLs
	UsePathStyle bool
}

// MediaStore uploads and deletes public media objects on S3.
type MediaStore struct {
	client *s3.Client
	cfg    Config
}

// NewMediaStore builds the S3 client. Static credentials are used when
// provided; otherwise the default AWS credential chain applies.
func NewMediaStore(ctx context.Context, cfg Config) (*MediaStore, error) {
	var awsCfg aws.Config
	var err error
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(cfg.Region),
			awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
		)
	} else {
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	}
	if err != nil {
		return nil, fmt.Errorf("platform/storage: load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		if cfg.UsePathStyle {
			o.UsePathStyle = true
		}
	})

	return &MediaStore{client: client, cfg: cfg}, nil
}

// Upload stores the object under key and returns its public URL.
func (s *MediaStore) Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("platform/storage: put object: %w", err)
	}
	return s.PublicURL(key), nil
}

// DeleteByURL removes an object previously returned by Upload. URLs outside
// the configured public base are ignored rather than guessed at.
func (s *MediaStore) DeleteByURL(ctx context.Context, url string) error {
	key, ok := s.keyFromURL(url)
	if !ok {
		return nil
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("platform/storage: delete object: %w", err)
	}
	return nil
}

// PublicURL composes the public URL for an object key.
func (s *MediaStore) PublicURL(key string) string {
	base := strings.TrimSuffix(s.cfg.PublicBase, "/")
	if base == "" {
		base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", s.cfg.Bucket, s.cfg.Region)
	}
	return base + "/" + key
}

func (s *MediaStore) keyFromURL(url string) (string, bool) {
	base := strings.TrimSuffix(s.cfg.PublicBase, "/")
	if base == "" {
		base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", s.cfg.Bucket, s.cfg.Region)
	}
	if !strings.HasPrefix(url, base+"/") {
		return "", false
	}
	return strings.TrimPrefix(url, base+"/"), true
}
