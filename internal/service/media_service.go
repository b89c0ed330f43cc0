package service

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"streamlearn/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	awsmiddleware "github.com/aws/smithy-go/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Upload kinds and the key prefix each is stored under.
var uploadPrefixes = map[string]string{
	"course-thumbnail": "courses",
	"topic-thumbnail":  "topics",
	"banner-image":     "banners",
	"site-logo":        "site",
}

var imageExtensions = map[string]string{
	"image/jpeg":    ".jpg",
	"image/png":     ".png",
	"image/webp":    ".webp",
	"image/gif":     ".gif",
	"image/svg+xml": ".svg",
}

const presignExpiry = 15 * time.Minute

// Upload is a presigned direct-to-storage upload.
type Upload struct {
	UploadURL string
	ObjectKey string
	PublicURL string
	ExpiresAt time.Time
}

// MediaService hands out presigned URLs for admin image uploads
type MediaService interface {
	PresignUpload(ctx context.Context, kind, contentType string) (*Upload, error)
	PresignDownload(ctx context.Context, objectKey string) (string, error)
}

type mediaService struct {
	presignClient *s3.PresignClient
	bucketName    string
	publicBaseURL string
	logger        zerolog.Logger
}

// NewMediaService accepts a nil client; every call then fails with ErrStorageUnconfigured.
func NewMediaService(s3Client *s3.Client, bucketName, publicBaseURL string, logger zerolog.Logger) MediaService {
	s := &mediaService{
		bucketName:    bucketName,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		logger:        logger.With().Str("service", "MediaService").Logger(),
	}
	if s3Client != nil {
		s.presignClient = s3.NewPresignClient(s3Client)
	}
	return s
}

// NewS3Client builds a path-style client for the S3-compatible endpoint in cfg.
func NewS3Client(ctx context.Context, cfg *config.Config) (*s3.Client, error) {
	s3Config, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, "")),
		awsconfig.WithAPIOptions([]func(*awsmiddleware.Stack) error{removeDisableGzip()}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load S3 config: %w", err)
	}
	return s3.NewFromConfig(s3Config, func(o *s3.Options) {
		if cfg.S3URL != "" {
			o.BaseEndpoint = aws.String(cfg.S3URL)
		}
		o.UsePathStyle = true
	}), nil
}

// removeDisableGzip is a workaround for S3 signature errors with some S3-compatible services.
// See: https://github.com/supabase/storage/issues/577
func removeDisableGzip() func(*awsmiddleware.Stack) error {
	return func(stack *awsmiddleware.Stack) error {
		if _, ok := stack.Finalize.Get("DisableAcceptEncodingGzip"); ok {
			_, err := stack.Finalize.Remove("DisableAcceptEncodingGzip")
			return err
		}
		return nil
	}
}

func (s *mediaService) PresignUpload(ctx context.Context, kind, contentType string) (*Upload, error) {
	if s.presignClient == nil {
		return nil, ErrStorageUnconfigured
	}
	prefix, ok := uploadPrefixes[kind]
	if !ok {
		return nil, ErrInvalidUploadKind
	}
	ext, ok := imageExtensions[strings.ToLower(contentType)]
	if !ok {
		return nil, ErrInvalidContentType
	}

	objectKey := path.Join(prefix, uuid.NewString()+ext)
	request, err := s.presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(objectKey),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		s.logger.Error().Err(err).Str("object_key", objectKey).Msg("Failed to generate presigned PUT URL")
		return nil, fmt.Errorf("failed to generate presigned PUT URL: %w", err)
	}
	return &Upload{
		UploadURL: request.URL,
		ObjectKey: objectKey,
		PublicURL: s.publicBaseURL + "/" + objectKey,
		ExpiresAt: time.Now().Add(presignExpiry),
	}, nil
}

func (s *mediaService) PresignDownload(ctx context.Context, objectKey string) (string, error) {
	if s.presignClient == nil {
		return "", ErrStorageUnconfigured
	}
	resp, err := s.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(objectKey),
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		s.logger.Error().Err(err).Str("object_key", objectKey).Msg("Failed to generate presigned URL")
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}
	return resp.URL, nil
}
