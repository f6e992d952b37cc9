package services

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// AttachmentService issues presigned S3 URLs for letter photo attachments.
// Clients upload directly to S3 and store the returned key on the letter.
type AttachmentService struct {
	Client *s3.Client
	Bucket string
}

// NewAttachmentService builds the service from ambient AWS configuration.
func NewAttachmentService(region, bucket string) (*AttachmentService, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO(), config.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &AttachmentService{Client: s3.NewFromConfig(cfg), Bucket: bucket}, nil
}

// GenerateUploadURL generates a presigned URL for uploading an attachment
func (s *AttachmentService) GenerateUploadURL(ctx context.Context, fileName, fileType string) (string, string, error) {
	key := "letter-attachments/" + time.Now().Format("20060102150405") + "-" + fileName
	params := &s3.PutObjectInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(fileType),
	}
	presigner := s3.NewPresignClient(s.Client)
	presignedURL, err := presigner.PresignPutObject(ctx, params, s3.WithPresignExpires(5*time.Minute))
	if err != nil {
		return "", "", err
	}
	return presignedURL.URL, key, nil
}

// GenerateReadURL generates a presigned URL for reading an attachment
func (s *AttachmentService) GenerateReadURL(ctx context.Context, key string) (string, error) {
	params := &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
	}
	presigner := s3.NewPresignClient(s.Client)
	presignedURL, err := presigner.PresignGetObject(ctx, params, s3.WithPresignExpires(5*time.Minute))
	if err != nil {
		return "", err
	}
	return presignedURL.URL, nil
}
