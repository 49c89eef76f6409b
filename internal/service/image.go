package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/forkful/forkful-backend/config"
	"github.com/forkful/forkful-backend/internal/logger"
)

// ImageUploader stores recipe images and returns their public URL. The S3
// client satisfies it in production; tests use a fake.
type ImageUploader interface {
	Upload(ctx context.Context, recipeID uuid.UUID, contentType string, body io.Reader) (string, error)
}

// ImageService stores recipe images in S3.
type ImageService struct {
	client   *s3.Client
	bucket   string
	endpoint string
	region   string
}

func NewImageService(ctx context.Context, cfg *config.Config) (*ImageService, error) {
	if cfg.S3Bucket == "" {
		return nil, fmt.Errorf("S3 bucket is not configured")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.S3Region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	return &ImageService{
		client:   client,
		bucket:   cfg.S3Bucket,
		endpoint: cfg.S3Endpoint,
		region:   cfg.S3Region,
	}, nil
}

// Upload stores the image under a recipe-scoped key and returns the public
// object URL.
func (s *ImageService) Upload(ctx context.Context, recipeID uuid.UUID, contentType string, body io.Reader) (string, error) {
	ext := extensionFor(contentType)
	if ext == "" {
		return "", InvalidField("image", "unsupported image content type")
	}

	key := fmt.Sprintf("recipes/images/%s/%s%s", recipeID, uuid.New(), ext)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("uploading image: %w", err)
	}

	url := s.objectURL(key)
	log := logger.WithComponent("image")
	log.Info().Str("key", key).Msg("uploaded recipe image")
	return url, nil
}

func (s *ImageService) objectURL(key string) string {
	if s.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(s.endpoint, "/"), s.bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return ""
	}
}
