package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/tastebook/backend/config"
)

// PhotoService stores recipe photos in S3.
type PhotoService struct {
	s3Config *config.S3Config
}

func NewPhotoService(s3Config *config.S3Config) *PhotoService {
	return &PhotoService{s3Config: s3Config}
}

// Upload writes the photo to the bucket under a recipe-scoped key and
// returns its public URL. The original filename only contributes its
// extension.
func (s *PhotoService) Upload(ctx context.Context, recipeID uuid.UUID, filename, contentType string, body io.Reader) (string, error) {
	key := fmt.Sprintf("recipes/%s/%s%s", recipeID, uuid.New(), path.Ext(filename))

	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	publicURL := fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3Config.BucketName, key)
	log.Printf("Uploaded recipe photo to %s", publicURL)

	return publicURL, nil
}
