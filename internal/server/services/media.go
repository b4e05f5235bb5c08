package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/batteriesproject/server/internal/common"
	sc "github.com/batteriesproject/server/internal/server/config"
	"github.com/batteriesproject/server/internal/server/repositories/repomanager"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Presigned links are long-lived so mobile clients can cache them between
// profile reloads.
const presignedURLValidity = 12 * time.Hour

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}
	getObject = func(c *s3.Client, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
		return c.GetObject(ctx, in, optFns...)
	}
	deleteObject = func(c *s3.Client, ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
		return c.DeleteObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// MediaService stores user profile photos in S3-compatible object storage
// (MinIO in the default deployment) and keeps the per-user storage key in the
// users table.
type MediaService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
}

func NewMediaService(db *sql.DB, m repomanager.RepositoryManager, cfg *sc.Config) *MediaService {
	return &MediaService{
		db:          db,
		repomanager: m,
		config:      cfg,
	}
}

// GetRandomStorageKey builds a date-partitioned object key for a new upload.
func GetRandomStorageKey() string {
	d := time.Now()
	return fmt.Sprintf("users/%d/%d/%d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *MediaService) getClient() (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,     // MINIO_ROOT_USER
			s.config.S3RootPassword, // MINIO_ROOT_PASSWORD
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	}), nil
}

// UploadProfilePhoto stores a new photo object, points the user row at it and
// removes the previous object if there was one. Returns the new storage key.
func (s *MediaService) UploadProfilePhoto(ctx context.Context, email, contentType string, body io.Reader) (string, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("error loading user: %w", err)
	}

	client, err := s.getClient()
	if err != nil {
		return "", fmt.Errorf("error creating storage client: %w", err)
	}

	key := GetRandomStorageKey()

	_, err = putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      &s.config.S3Bucket,
		Key:         &key,
		Body:        body,
		ContentType: &contentType,
	})
	if err != nil {
		return "", fmt.Errorf("error storing photo: %w", err)
	}

	if err := repo.UpdateProfilePhoto(ctx, user.ID, key); err != nil {
		return "", fmt.Errorf("error saving photo key: %w", err)
	}

	// best effort: the new photo is already live
	if user.ProfilePhoto != "" {
		_, _ = deleteObject(client, ctx, &s3.DeleteObjectInput{
			Bucket: &s.config.S3Bucket,
			Key:    &user.ProfilePhoto,
		})
	}

	return key, nil
}

// DownloadProfilePhoto streams the user's current photo. The caller owns the
// returned ReadCloser. A user without a photo yields common.ErrorNotFound.
func (s *MediaService) DownloadProfilePhoto(ctx context.Context, email string) (io.ReadCloser, string, error) {
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, "", common.ErrorNotFound
		}
		return nil, "", fmt.Errorf("error loading user: %w", err)
	}
	if user.ProfilePhoto == "" {
		return nil, "", common.ErrorNotFound
	}

	client, err := s.getClient()
	if err != nil {
		return nil, "", fmt.Errorf("error creating storage client: %w", err)
	}

	out, err := getObject(client, ctx, &s3.GetObjectInput{
		Bucket: &s.config.S3Bucket,
		Key:    &user.ProfilePhoto,
	})
	if err != nil {
		return nil, "", fmt.Errorf("error fetching photo: %w", err)
	}

	contentType := ""
	if out.ContentType != nil {
		contentType = *out.ContentType
	}

	return out.Body, contentType, nil
}

// RemoveProfilePhoto deletes the stored object and clears the user's photo
// key. Removing when no photo is set is a no-op.
func (s *MediaService) RemoveProfilePhoto(ctx context.Context, email string) error {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("error loading user: %w", err)
	}
	if user.ProfilePhoto == "" {
		return nil
	}

	client, err := s.getClient()
	if err != nil {
		return fmt.Errorf("error creating storage client: %w", err)
	}

	if _, err := deleteObject(client, ctx, &s3.DeleteObjectInput{
		Bucket: &s.config.S3Bucket,
		Key:    &user.ProfilePhoto,
	}); err != nil {
		return fmt.Errorf("error deleting photo: %w", err)
	}

	return repo.UpdateProfilePhoto(ctx, user.ID, "")
}

// ProfilePhotoURL returns a presigned GET link for the user's photo, valid
// for presignedURLValidity.
func (s *MediaService) ProfilePhotoURL(ctx context.Context, email string) (string, error) {
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("error loading user: %w", err)
	}
	if user.ProfilePhoto == "" {
		return "", common.ErrorNotFound
	}

	client, err := s.getClient()
	if err != nil {
		return "", fmt.Errorf("error creating storage client: %w", err)
	}

	req, err := presignGetObject(newS3PresignClient(client), ctx, &s3.GetObjectInput{
		Bucket: &s.config.S3Bucket,
		Key:    &user.ProfilePhoto,
	}, s3.WithPresignExpires(presignedURLValidity))
	if err != nil {
		return "", fmt.Errorf("error presigning photo url: %w", err)
	}

	return req.URL, nil
}
