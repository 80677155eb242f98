package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/Galinha2/super-nova-2177/internal/models"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Uploader handles media uploads to AWS S3
type S3Uploader struct {
	client  *s3.Client
	bucket  string
	region  string
	baseURL string
}

// NewS3Uploader creates a new S3 uploader. baseURL is the public prefix
// (CDN or bucket website) that object keys are appended to.
func NewS3Uploader(ctx context.Context, region, bucket, baseURL string) (*S3Uploader, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
	}

	return &S3Uploader{
		client:  s3.NewFromConfig(cfg),
		bucket:  bucket,
		region:  region,
		baseURL: baseURL,
	}, nil
}

// Upload buffers body and puts it to S3 under a generated key
func (u *S3Uploader) Upload(ctx context.Context, kind models.MediaKind, filename string, body io.Reader) (*UploadResult, error) {
	data, err := io.ReadAll(io.LimitReader(body, MaxUploadSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}

	now := time.Now()
	key := objectKey(kind, filename, now)

	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(u.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(data),
		ContentType:  aws.String(getContentType(filepath.Ext(filename))),
		CacheControl: aws.String("max-age=86400"),
		Metadata: map[string]string{
			"original-filename": filename,
			"upload-timestamp":  now.Format(time.RFC3339),
			"media-kind":        string(kind),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	return &UploadResult{
		Key:    key,
		URL:    fmt.Sprintf("%s/%s", strings.TrimSuffix(u.baseURL, "/"), key),
		Bucket: u.bucket,
		Region: u.region,
		Size:   int64(len(data)),
	}, nil
}

// Delete removes an object from S3
func (u *S3Uploader) Delete(ctx context.Context, key string) error {
	_, err := u.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from S3: %w", err)
	}
	return nil
}

// Check verifies that we can access the S3 bucket
func (u *S3Uploader) Check(ctx context.Context) error {
	_, err := u.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(u.bucket),
	})
	if err != nil {
		return fmt.Errorf("cannot access S3 bucket %s: %w", u.bucket, err)
	}
	return nil
}
