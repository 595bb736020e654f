// Package storage resolves SKU image keys to URLs served from object storage.
package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	catalogapp "github.com/mall/backend/internal/application/catalog"
	"github.com/mall/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

var _ catalogapp.ImageURLResolver = (*S3ImageResolver)(nil)

// S3ImageResolver presigns GET URLs for image keys on any S3-compatible store
type S3ImageResolver struct {
	presign    *s3.PresignClient
	bucket     string
	expiration time.Duration
	logger     *zap.Logger
}

// S3ImageResolverOption configures an S3ImageResolver
type S3ImageResolverOption func(*S3ImageResolver)

// WithLogger sets the logger used for presign failures
func WithLogger(logger *zap.Logger) S3ImageResolverOption {
	return func(r *S3ImageResolver) {
		r.logger = logger
	}
}

// NewS3ImageResolver builds a resolver from the storage config section
func NewS3ImageResolver(cfg *config.StorageConfig, opts ...S3ImageResolverOption) (*S3ImageResolver, error) {
	if cfg == nil {
		return nil, errors.New("storage configuration is required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, errors.New("storage access key and secret key are required")
	}

	endpoint, err := normalizeEndpoint(cfg.Endpoint, cfg.UseSSL)
	if err != nil {
		return nil, err
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	r := &S3ImageResolver{
		presign:    s3.NewPresignClient(client),
		bucket:     cfg.Bucket,
		expiration: cfg.PresignExpiration,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.expiration <= 0 {
		r.expiration = time.Hour
	}
	return r, nil
}

// Resolve presigns key. Absolute URLs are returned untouched. A presign
// failure is logged and yields an empty URL so listings still render.
func (r *S3ImageResolver) Resolve(ctx context.Context, key string) string {
	if key == "" || isAbsoluteURL(key) {
		return key
	}
	req, err := r.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(strings.TrimPrefix(key, "/")),
	}, s3.WithPresignExpires(r.expiration))
	if err != nil {
		r.logger.Warn("failed to presign image url", zap.String("key", key), zap.Error(err))
		return ""
	}
	return req.URL
}

// normalizeEndpoint adds a scheme to a bare host:port endpoint
func normalizeEndpoint(endpoint string, useSSL bool) (string, error) {
	if endpoint == "" {
		return "", nil
	}
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		if useSSL {
			endpoint = "https://" + endpoint
		} else {
			endpoint = "http://" + endpoint
		}
	}
	if _, err := url.Parse(endpoint); err != nil {
		return "", fmt.Errorf("invalid storage endpoint: %w", err)
	}
	return endpoint, nil
}

func isAbsoluteURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
