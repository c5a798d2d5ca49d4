package s3

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	s3aws "github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dmitrymomot/smtpmail/core/content"
)

// S3Client defines the subset of S3 operations used by Source.
type S3Client interface {
	GetObject(ctx context.Context, params *s3aws.GetObjectInput, optFns ...func(*s3aws.Options)) (*s3aws.GetObjectOutput, error)
	HeadObject(ctx context.Context, params *s3aws.HeadObjectInput, optFns ...func(*s3aws.Options)) (*s3aws.HeadObjectOutput, error)
}

// Source downloads S3 objects as mail attachments.
// Safe for concurrent use.
type Source struct {
	client       S3Client
	bucket       string
	fetchTimeout time.Duration
	maxSize      int64
}

// Config contains configuration for an S3 content source.
type Config struct {
	Bucket         string `env:"S3_BUCKET" yaml:"bucket"`
	Region         string `env:"S3_REGION" yaml:"region"`
	AccessKeyID    string `env:"S3_ACCESS_KEY_ID" yaml:"access_key_id"`
	SecretKey      string `env:"S3_SECRET_KEY" yaml:"secret_key"`
	Endpoint       string `env:"S3_ENDPOINT" yaml:"endpoint"`                 // For S3-compatible services like MinIO, Wasabi
	ForcePathStyle bool   `env:"S3_FORCE_PATH_STYLE" yaml:"force_path_style"` // Required for MinIO and some S3-compatible services
}

// Option configures a Source.
type Option func(*options)

type options struct {
	httpClient      *http.Client
	s3Client        S3Client
	s3ConfigOptions []func(*config.LoadOptions) error
	s3ClientOptions []func(*s3aws.Options)
	fetchTimeout    time.Duration
	maxSize         int64
}

// WithS3Client sets a custom pre-configured S3 client.
// Primarily used for testing with mocks.
func WithS3Client(client S3Client) Option {
	return func(o *options) {
		o.s3Client = client
	}
}

// WithHTTPClient sets a custom HTTP client for S3 requests.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithS3ConfigOption adds a custom AWS config option.
func WithS3ConfigOption(option func(*config.LoadOptions) error) Option {
	return func(o *options) {
		o.s3ConfigOptions = append(o.s3ConfigOptions, option)
	}
}

// WithS3ClientOption adds a custom S3 client option.
func WithS3ClientOption(option func(*s3aws.Options)) Option {
	return func(o *options) {
		o.s3ClientOptions = append(o.s3ClientOptions, option)
	}
}

// WithFetchTimeout bounds each Fetch. Without it the caller's context deadline applies.
func WithFetchTimeout(timeout time.Duration) Option {
	return func(o *options) {
		o.fetchTimeout = timeout
	}
}

// WithMaxSize rejects objects larger than n bytes before downloading them.
func WithMaxSize(n int64) Option {
	return func(o *options) {
		o.maxSize = n
	}
}

// New creates an S3 content source.
func New(ctx context.Context, cfg Config, opts ...Option) (*Source, error) {
	if cfg.Bucket == "" || cfg.Region == "" {
		return nil, fmt.Errorf("%w: bucket and region are required", ErrInvalidConfig)
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	client := o.s3Client
	if client == nil {
		awsOptions := []func(*config.LoadOptions) error{
			config.WithRegion(cfg.Region),
		}

		// Static credentials when provided, otherwise IAM roles/env vars
		if cfg.AccessKeyID != "" && cfg.SecretKey != "" {
			awsOptions = append(awsOptions,
				config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
					cfg.AccessKeyID,
					cfg.SecretKey,
					"",
				)),
			)
		}
		if o.httpClient != nil {
			awsOptions = append(awsOptions, config.WithHTTPClient(o.httpClient))
		}
		awsOptions = append(awsOptions, o.s3ConfigOptions...)

		awsConfig, err := config.LoadDefaultConfig(ctx, awsOptions...)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}

		client = s3aws.NewFromConfig(awsConfig, func(so *s3aws.Options) {
			if cfg.Endpoint != "" {
				so.BaseEndpoint = aws.String(cfg.Endpoint)
			}
			so.UsePathStyle = cfg.ForcePathStyle

			for _, opt := range o.s3ClientOptions {
				opt(so)
			}
		})
	}

	return &Source{
		client:       client,
		bucket:       cfg.Bucket,
		fetchTimeout: o.fetchTimeout,
		maxSize:      o.maxSize,
	}, nil
}

// Fetch downloads the object at key into a temporary file. The file is
// named after the last path element of key and carries the object's
// Content-Type. The caller owns the result and must Release it; passing it
// to a mail as an attachment hands the release over to Send.
func (s *Source) Fetch(ctx context.Context, key string) (*content.TempFile, error) {
	if s.fetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.fetchTimeout)
		defer cancel()
	}

	key, err := normalizeKey(key)
	if err != nil {
		return nil, err
	}

	if s.maxSize > 0 {
		head, err := s.client.HeadObject(ctx, &s3aws.HeadObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			return nil, classifyS3Error(err, "head")
		}
		if size := aws.ToInt64(head.ContentLength); size > s.maxSize {
			return nil, fmt.Errorf("%w: object %s is %d bytes, limit is %d", content.ErrUnsupportedContent, key, size, s.maxSize)
		}
	}

	out, err := s.client.GetObject(ctx, &s3aws.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, classifyS3Error(err, "get")
	}
	defer func() { _ = out.Body.Close() }()

	tmp, err := content.NewTempFile(out.Body, path.Base(key), aws.ToString(out.ContentType))
	if err != nil {
		// A body read interrupted by the context surfaces here.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, classifyS3Error(ctxErr, "get")
		}
		return nil, err
	}
	return tmp, nil
}

// normalizeKey strips the leading slash and rejects path traversal.
func normalizeKey(key string) (string, error) {
	key = strings.TrimPrefix(key, "/")
	if key == "" || strings.HasSuffix(key, "/") {
		return "", fmt.Errorf("%w: %q is not an object key", ErrInvalidKey, key)
	}
	if strings.Contains(key, "..") {
		return "", fmt.Errorf("%w: %s", ErrInvalidKey, key)
	}
	return key, nil
}
