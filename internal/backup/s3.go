package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/localnerve/jam-build-landing/internal/config"
)

// ErrRemoteDisabled is returned when no bucket is configured
var ErrRemoteDisabled = errors.New("remote backup is not configured")

// ObjectPutter is the part of the S3 client the uploader needs
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Uploader stores bundles in a bucket
type S3Uploader struct {
	client ObjectPutter
	bucket string
	prefix string
}

// NewS3Uploader builds a client from static credentials. A custom endpoint implies path style.
func NewS3Uploader(cfg config.S3Config) (*S3Uploader, error) {
	if !cfg.Enabled() {
		return nil, ErrRemoteDisabled
	}
	if cfg.Region == "" || cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" {
		return nil, fmt.Errorf("incomplete s3 config: region, access key id and secret access key are required")
	}

	opts := s3.Options{
		Region:       cfg.Region,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		UsePathStyle: cfg.PathStyle,
	}
	if endpoint := strings.TrimSuffix(strings.TrimSpace(cfg.Endpoint), "/"); endpoint != "" {
		if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
			endpoint = "https://" + endpoint
		}
		opts.BaseEndpoint = aws.String(endpoint)
		opts.UsePathStyle = true
	}

	return NewS3UploaderWithClient(s3.New(opts), cfg.Bucket, cfg.Prefix), nil
}

func NewS3UploaderWithClient(client ObjectPutter, bucket, prefix string) *S3Uploader {
	return &S3Uploader{client: client, bucket: bucket, prefix: prefix}
}

// Upload writes the bundle and returns the object key
func (u *S3Uploader) Upload(ctx context.Context, b Bundle) (string, error) {
	body, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return "", err
	}

	exported, err := time.Parse(time.RFC3339, b.ExportDate)
	if err != nil {
		exported = time.Now()
	}
	key := u.prefix + Filename(exported)

	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String("application/json"),
		ContentLength: aws.Int64(int64(len(body))),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return key, nil
}
