// Package blob stores public media objects in an S3-compatible bucket.
package blob

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"github.com/heartmarshall/creatorfeed/internal/config"
	"github.com/heartmarshall/creatorfeed/internal/domain"
)

// objectAPI is the subset of *s3.Client the store uses.
type objectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Store uploads objects to one bucket and derives their public URLs.
type Store struct {
	client       objectAPI
	bucket       string
	baseURL      string
	cacheControl string
}

// NewS3Store creates a store from the storage settings. A custom endpoint
// (MinIO, LocalStack, the hosted backend's S3 gateway) switches to path-style addressing.
func NewS3Store(ctx context.Context, cfg config.StorageConfig) (*Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return newStore(client, cfg), nil
}

func newStore(client objectAPI, cfg config.StorageConfig) *Store {
	base := cfg.PublicBaseURL
	if base == "" {
		base = cfg.Endpoint
	}
	return &Store{
		client:       client,
		bucket:       cfg.AvatarBucket,
		baseURL:      strings.TrimRight(base, "/"),
		cacheControl: cfg.CacheControl,
	}
}

// Upload writes data under key. Existing objects are never overwritten.
func (s *Store) Upload(ctx context.Context, key, contentType string, data []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(data),
		ContentType:  aws.String(contentType),
		CacheControl: aws.String(s.cacheControl),
		IfNoneMatch:  aws.String("*"),
	})
	if err != nil {
		return mapError("upload "+key, err)
	}
	return nil
}

// Remove deletes the object at key.
func (s *Store) Remove(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return mapError("remove "+key, err)
	}
	return nil
}

// PublicURL returns the URL serving key.
func (s *Store) PublicURL(key string) string {
	return s.baseURL + "/" + s.bucket + "/" + key
}

// KeyFromURL extracts the object key from a URL produced by PublicURL, or
// from any URL containing "/<bucket>/". ok is false for foreign URLs.
func (s *Store) KeyFromURL(url string) (key string, ok bool) {
	_, key, ok = strings.Cut(url, "/"+s.bucket+"/")
	if !ok || key == "" {
		return "", false
	}
	return key, true
}

func mapError(op string, err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "PreconditionFailed":
			return fmt.Errorf("%s: %w", op, domain.ErrAlreadyExists)
		case "NoSuchKey", "NotFound":
			return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
		case "AccessDenied":
			return fmt.Errorf("%s: %w", op, domain.ErrForbidden)
		}
	}
	return domain.NewNetworkError(op, err)
}
