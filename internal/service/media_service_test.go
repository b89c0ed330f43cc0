package service

import (
	"context"
	"strings"
	"testing"

	"streamlearn/internal/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMediaService(t *testing.T) MediaService {
	t.Helper()
	cfg := &config.Config{
		S3URL:       "http://localhost:9000",
		S3Bucket:    "media",
		S3Region:    "us-east-1",
		S3AccessKey: "key",
		S3SecretKey: "secret",
	}
	client, err := NewS3Client(context.Background(), cfg)
	require.NoError(t, err)
	return NewMediaService(client, cfg.S3Bucket, cfg.MediaBaseURL(), zerolog.Nop())
}

func TestPresignUpload(t *testing.T) {
	svc := newTestMediaService(t)

	up, err := svc.PresignUpload(context.Background(), "banner-image", "image/png")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(up.ObjectKey, "banners/"))
	assert.True(t, strings.HasSuffix(up.ObjectKey, ".png"))
	assert.Equal(t, "http://localhost:9000/media/"+up.ObjectKey, up.PublicURL)
	assert.Contains(t, up.UploadURL, "http://localhost:9000/media/banners/")
	assert.Contains(t, up.UploadURL, "X-Amz-Signature=")
}

func TestPresignUploadRejects(t *testing.T) {
	svc := newTestMediaService(t)

	_, err := svc.PresignUpload(context.Background(), "video", "image/png")
	assert.ErrorIs(t, err, ErrInvalidUploadKind)

	_, err = svc.PresignUpload(context.Background(), "course-thumbnail", "application/pdf")
	assert.ErrorIs(t, err, ErrInvalidContentType)
}

func TestMediaServiceWithoutStorage(t *testing.T) {
	svc := NewMediaService(nil, "media", "http://localhost:9000/media", zerolog.Nop())

	_, err := svc.PresignUpload(context.Background(), "banner-image", "image/png")
	assert.ErrorIs(t, err, ErrStorageUnconfigured)

	_, err = svc.PresignDownload(context.Background(), "banners/a.png")
	assert.ErrorIs(t, err, ErrStorageUnconfigured)
}
