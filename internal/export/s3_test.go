package export

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/genstudio/internal/config"
	"github.com/dmitrijs2005/genstudio/internal/logging"
	"github.com/dmitrijs2005/genstudio/internal/media"
	"github.com/dmitrijs2005/genstudio/internal/models"
)

func testExporter(bucket string) *Exporter {
	cfg := &config.Config{
		S3Bucket:    bucket,
		S3Region:    "us-east-1",
		S3AccessKey: "ak",
		S3SecretKey: "sk",
	}
	return NewExporter(cfg, logging.NewDefault(slog.LevelError))
}

func TestExport_NotConfigured(t *testing.T) {
	e := testExporter("")
	rec := &models.ArchiveRecord{ID: "r1", MediaURL: media.DataURL([]byte("x"), "image/png")}

	_, err := e.Export(context.Background(), rec)
	require.ErrorIs(t, err, ErrNotConfigured)
}

func TestExport_RejectsRemoteLocator(t *testing.T) {
	e := testExporter("bkt")
	rec := &models.ArchiveRecord{ID: "r1", MediaURL: "https://example.com/v.mp4"}

	_, err := e.Export(context.Background(), rec)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not embedded")
}

func TestExport_UploadsEmbeddedMedia(t *testing.T) {
	origLoad := loadDefaultAWSConfig
	origNew := newS3ClientFromConfig
	origPut := putObject
	defer func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNew
		putObject = origPut
	}()

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return &s3.Client{}
	}

	var gotInput *s3.PutObjectInput
	putObject = func(client *s3.Client, ctx context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		gotInput = in
		return &s3.PutObjectOutput{}, nil
	}

	e := testExporter("bkt")
	rec := &models.ArchiveRecord{ID: "r1", MediaURL: media.DataURL([]byte("payload"), "image/png")}

	key, err := e.Export(context.Background(), rec)
	require.NoError(t, err)
	assert.Contains(t, key, "gallery/")

	require.NotNil(t, gotInput)
	assert.Equal(t, "bkt", *gotInput.Bucket)
	assert.Equal(t, "image/png", *gotInput.ContentType)

	body, err := io.ReadAll(gotInput.Body)
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), body)
}
