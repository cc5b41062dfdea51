// Package export uploads archived media to an S3-compatible bucket, as an
// off-device backup of gallery records whose payloads are embedded data URLs.
package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/genstudio/internal/config"
	"github.com/dmitrijs2005/genstudio/internal/logging"
	"github.com/dmitrijs2005/genstudio/internal/media"
	"github.com/dmitrijs2005/genstudio/internal/models"
)

var ErrNotConfigured = errors.New("s3 export is not configured")

// Seams for tests.
var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(client *s3.Client, ctx context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		return client.PutObject(ctx, in)
	}
)

// Exporter uploads record media to the configured bucket.
type Exporter struct {
	config *config.Config
	log    logging.Logger
}

// NewExporter returns an Exporter bound to the runtime config. The S3
// settings may be absent; Export reports ErrNotConfigured in that case.
func NewExporter(cfg *config.Config, log logging.Logger) *Exporter {
	return &Exporter{config: cfg, log: log}
}

// storageKey produces a date-partitioned object key for one upload.
func storageKey() string {
	d := time.Now()
	return fmt.Sprintf("gallery/%d/%d/%d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
}

func (e *Exporter) getClient() (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		awsconfig.WithRegion(e.config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			e.config.S3AccessKey,
			e.config.S3SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if e.config.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(e.config.S3BaseEndpoint)
		}
	})
	return client, nil
}

// Export uploads the record's media bytes and returns the object key.
// Only records with embedded (data URL) media can be exported; a record that
// kept a remote locator after a failed normalization has no local bytes.
func (e *Exporter) Export(ctx context.Context, rec *models.ArchiveRecord) (string, error) {
	if e.config.S3Bucket == "" {
		return "", ErrNotConfigured
	}

	data, mime, err := media.DecodeDataURL(rec.MediaURL)
	if err != nil {
		return "", fmt.Errorf("record media is not embedded: %w", err)
	}

	client, err := e.getClient()
	if err != nil {
		return "", err
	}

	bucket := e.config.S3Bucket
	key := storageKey()

	_, err = putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        bytes.NewReader(data),
		ContentType: &mime,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload record media: %w", err)
	}

	e.log.Info(ctx, "exported record media", "record_id", rec.ID, "key", key, "bytes", len(data))
	return key, nil
}
