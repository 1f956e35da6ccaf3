// Package objstore uploads finished report files to S3 or Cloudflare R2.
package objstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ErrInvalidURL is returned for destinations that are not s3:// or r2:// URLs.
var ErrInvalidURL = errors.New("invalid upload url")

// Target is a parsed upload destination.
type Target struct {
	Scheme string // "s3" or "r2"
	Bucket string
	Prefix string
}

// ParseURL parses s3://bucket/prefix or r2://bucket/prefix.
func ParseURL(raw string) (Target, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Target{}, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme != "s3" && u.Scheme != "r2" {
		return Target{}, fmt.Errorf("%w: scheme %q", ErrInvalidURL, u.Scheme)
	}
	if u.Host == "" {
		return Target{}, fmt.Errorf("%w: missing bucket", ErrInvalidURL)
	}
	return Target{Scheme: u.Scheme, Bucket: u.Host, Prefix: strings.Trim(u.Path, "/")}, nil
}

// Key joins the target prefix with the base name of file.
func (t Target) Key(file string) string {
	return path.Join(t.Prefix, filepath.Base(file))
}

// putAPI is the subset of the S3 client used for uploads.
type putAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Uploader writes files into a bucket.
type Uploader struct {
	client   putAPI
	target   Target
	endpoint string
}

// NewS3Uploader creates an uploader using the default AWS credential chain.
func NewS3Uploader(ctx context.Context, region string, t Target) (*Uploader, error) {
	var opts []func(*config.LoadOptions) error
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &Uploader{
		client:   s3.NewFromConfig(cfg),
		target:   t,
		endpoint: fmt.Sprintf("https://s3.%s.amazonaws.com", cfg.Region),
	}, nil
}

// NewR2Uploader creates an uploader for a Cloudflare R2 account.
func NewR2Uploader(ctx context.Context, accountID, accessKeyID, secretAccessKey string, t Target) (*Uploader, error) {
	// R2 endpoint format: https://<ACCOUNT_ID>.r2.cloudflarestorage.com
	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID)

	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{URL: endpoint}, nil
	})

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithEndpointResolverWithOptions(resolver),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, "")),
		config.WithRegion("auto"), // R2 uses "auto" region
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &Uploader{client: s3.NewFromConfig(cfg), target: t, endpoint: endpoint}, nil
}

// NewFromEnv picks R2 when the scheme is r2:// or R2_ACCOUNT_ID is set, S3 otherwise.
func NewFromEnv(ctx context.Context, rawURL string) (*Uploader, error) {
	t, err := ParseURL(rawURL)
	if err != nil {
		return nil, err
	}
	account := os.Getenv("R2_ACCOUNT_ID")
	if t.Scheme == "r2" || account != "" {
		if account == "" {
			return nil, errors.New("R2_ACCOUNT_ID not set")
		}
		return NewR2Uploader(ctx, account, os.Getenv("R2_ACCESS_KEY_ID"), os.Getenv("R2_SECRET_ACCESS_KEY"), t)
	}
	return NewS3Uploader(ctx, os.Getenv("AWS_REGION"), t)
}

// Endpoint returns the storage endpoint.
func (u *Uploader) Endpoint() string { return u.endpoint }

// UploadFile streams the file at p into the bucket and returns its key.
func (u *Uploader) UploadFile(ctx context.Context, p string) (string, error) {
	f, err := os.Open(p)
	if err != nil {
		return "", err
	}
	defer f.Close()

	key := u.target.Key(p)
	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(u.target.Bucket),
		Key:    aws.String(key),
		Body:   f,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object: %w", err)
	}
	slog.Info("uploaded report", "bucket", u.target.Bucket, "key", key)
	return key, nil
}

// UploadFiles uploads every non-empty path and stops at the first failure.
func (u *Uploader) UploadFiles(ctx context.Context, paths ...string) ([]string, error) {
	var keys []string
	for _, p := range paths {
		if p == "" {
			continue
		}
		key, err := u.UploadFile(ctx, p)
		if err != nil {
			return keys, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}
