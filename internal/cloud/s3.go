package cloud

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/ANIKETSHETTY47/air-quality-monitoring-system/internal/domain"
)

// S3API is the slice of the S3 client used for archives.
type S3API interface {
	s3.ListObjectsV2APIClient
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Client archives daily reading exports
type S3Client struct {
	svc    S3API
	bucket string
}

// NewS3Client creates a new S3 client instance
func NewS3Client(ctx context.Context, region, bucket string) (*S3Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	return NewS3ClientWithAPI(s3.NewFromConfig(cfg), bucket), nil
}

func NewS3ClientWithAPI(svc S3API, bucket string) *S3Client {
	return &S3Client{svc: svc, bucket: bucket}
}

// ArchiveKey is the object key for one day of readings.
func ArchiveKey(day time.Time) string {
	return fmt.Sprintf("aqi/%04d/%02d/%02d.json", day.Year(), day.Month(), day.Day())
}

// ArchiveDay uploads the readings of one day as a JSON array and returns the
// object key.
func (c *S3Client) ArchiveDay(ctx context.Context, day time.Time, readings []domain.ReadingWithLevel) (string, error) {
	data, err := json.Marshal(readings)
	if err != nil {
		return "", fmt.Errorf("failed to encode readings: %w", err)
	}

	key := ArchiveKey(day)
	if err := c.UploadDataFile(ctx, key, data); err != nil {
		return "", err
	}
	return key, nil
}

// UploadDataFile stores a JSON document in the bucket
func (c *S3Client) UploadDataFile(ctx context.Context, key string, data []byte) error {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
		Metadata: map[string]string{
			"uploaded-at": time.Now().Format(time.RFC3339),
		},
	}

	_, err := c.svc.PutObject(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to upload data file: %w", err)
	}

	return nil
}

// DownloadArchive fetches and decodes a previously archived day.
func (c *S3Client) DownloadArchive(ctx context.Context, key string) ([]domain.ReadingWithLevel, error) {
	result, err := c.svc.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to download from S3: %w", err)
	}
	defer result.Body.Close()

	var readings []domain.ReadingWithLevel
	if err := json.NewDecoder(result.Body).Decode(&readings); err != nil {
		return nil, fmt.Errorf("failed to decode archive %s: %w", key, err)
	}
	return readings, nil
}

// ListArchives lists archive keys under prefix, following pagination
func (c *S3Client) ListArchives(ctx context.Context, prefix string) ([]string, error) {
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(c.bucket),
		Prefix: aws.String(prefix),
	}

	var keys []string
	paginator := s3.NewListObjectsV2Paginator(c.svc, input)

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}

		for _, obj := range page.Contents {
			keys = append(keys, aws.ToString(obj.Key))
		}
	}

	return keys, nil
}
