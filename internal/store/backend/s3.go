package backend

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// S3Config configures the object storage backend.
type S3Config struct {
	Endpoint  string
	Region    string
	Bucket    string
	Key       string
	AccessKey string
	SecretKey string
}

// S3 stores the document as one object in an S3-compatible bucket.
// The object ETag is the revision; writes are conditional puts.
type S3 struct {
	client *s3.Client
	bucket string
	key    string
}

// NewS3 builds an S3 backend with static credentials and path-style access.
func NewS3(cfg S3Config) (*S3, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3 backend: bucket is required")
	}
	if cfg.Key == "" {
		cfg.Key = "catalog/products.json"
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}

	opts := s3.Options{
		Region:       cfg.Region,
		UsePathStyle: true,
		// S3-compatible stores reject the default trailing checksums.
		RequestChecksumCalculation: aws.RequestChecksumCalculationWhenRequired,
		ResponseChecksumValidation: aws.ResponseChecksumValidationWhenRequired,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(strings.TrimRight(cfg.Endpoint, "/"))
	}
	if cfg.AccessKey != "" {
		opts.Credentials = credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")
	}

	return &S3{
		client: s3.New(opts),
		bucket: cfg.Bucket,
		key:    cfg.Key,
	}, nil
}

// Name implements Backend.
func (b *S3) Name() string { return "s3" }

// Load implements Backend.
func (b *S3) Load(ctx context.Context) (*Snapshot, error) {
	out, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotExist
		}
		return nil, fmt.Errorf("s3 get %s/%s: %w", b.bucket, b.key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("s3 read %s/%s: %w", b.bucket, b.key, err)
	}
	return &Snapshot{Data: data, Revision: aws.ToString(out.ETag)}, nil
}

// Save implements Backend.
func (b *S3) Save(ctx context.Context, data []byte, expected string) (string, error) {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(b.bucket),
		Key:           aws.String(b.key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String("application/json"),
	}
	if expected == "" {
		input.IfNoneMatch = aws.String("*")
	} else {
		input.IfMatch = aws.String(expected)
	}

	out, err := b.client.PutObject(ctx, input)
	if err != nil {
		if isPreconditionFailed(err) {
			return "", ErrRevisionMismatch
		}
		return "", fmt.Errorf("s3 put %s/%s: %w", b.bucket, b.key, err)
	}
	return aws.ToString(out.ETag), nil
}

// Close implements Backend.
func (b *S3) Close() error { return nil }

func isNotFound(err error) bool {
	var nsk *s3types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && (apiErr.ErrorCode() == "NoSuchKey" || apiErr.ErrorCode() == "NotFound")
}

// isPreconditionFailed reports a lost conditional write. Some S3-compatible
// stores answer a concurrent conditional put with ConditionalRequestConflict.
func isPreconditionFailed(err error) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.ErrorCode() {
	case "PreconditionFailed", "ConditionalRequestConflict":
		return true
	}
	return false
}
