package services

import (
	"context"
	"database/sql"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/moodkeeper/internal/common"
	"github.com/dmitrijs2005/moodkeeper/internal/server/config"
	"github.com/dmitrijs2005/moodkeeper/internal/server/models"
	"github.com/dmitrijs2005/moodkeeper/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// maxUploadSize caps the declared size of a single blob.
const maxUploadSize = 50 << 20

// S3 seams, swapped in tests.
var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// FileService hands out presigned URLs for blobs. Logical buckets (images,
// voice_notes, ...) are key prefixes inside the one configured S3 bucket.
type FileService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *config.Config
	now         func() time.Time
}

func NewFileService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *FileService {
	return &FileService{db: db, repomanager: m, config: cfg, now: time.Now}
}

func (s *FileService) storageKey(bucket, userID, fileID string) string {
	d := s.now().UTC()
	return fmt.Sprintf("%s/%s/%d/%02d/%s", bucket, userID, d.Year(), d.Month(), fileID)
}

func (s *FileService) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(s.config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})
	return newS3PresignClient(client), nil
}

// CreateUpload records a pending file and returns it with a presigned PUT URL.
func (s *FileService) CreateUpload(ctx context.Context, userID, bucket, filename, contentType string, size int64) (*models.File, string, error) {
	if err := validateName("bucket", bucket); err != nil {
		return nil, "", err
	}
	if size < 0 || size > maxUploadSize {
		return nil, "", fmt.Errorf("%w: size %d out of range", common.ErrorValidation, size)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	name := path.Base("/" + filename)
	if name == "/" {
		name = ""
	}

	id := uuid.NewString()
	f := &models.File{
		ID:          id,
		UserID:      userID,
		Bucket:      bucket,
		StorageKey:  s.storageKey(bucket, userID, id),
		Filename:    name,
		ContentType: contentType,
		Size:        size,
		Status:      models.FileStatusPending,
	}

	pc, err := s.getPresignClient(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("presign client: %w", err)
	}
	req, err := presignPutObject(pc, ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.config.S3Bucket),
		Key:         aws.String(f.StorageKey),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(s.config.PresignTTL))
	if err != nil {
		return nil, "", fmt.Errorf("presign put: %w", err)
	}

	if err := s.repomanager.Files(s.db).Create(ctx, f); err != nil {
		return nil, "", fmt.Errorf("error creating file: %w", err)
	}
	return f, req.URL, nil
}

// CompleteUpload marks the caller's pending file as uploaded.
func (s *FileService) CompleteUpload(ctx context.Context, userID, fileID string) error {
	if _, err := uuid.Parse(fileID); err != nil {
		return common.ErrorNotFound
	}
	return s.repomanager.Files(s.db).MarkUploaded(ctx, userID, fileID)
}

// GetDownloadURL returns a presigned GET URL for a completed file owned by
// userID in bucket.
func (s *FileService) GetDownloadURL(ctx context.Context, userID, bucket, fileID string) (string, error) {
	if _, err := uuid.Parse(fileID); err != nil {
		return "", common.ErrorNotFound
	}

	f, err := s.repomanager.Files(s.db).Get(ctx, userID, fileID)
	if err != nil {
		return "", err
	}
	if bucket != "" && f.Bucket != bucket {
		return "", common.ErrorNotFound
	}
	if f.Status != models.FileStatusCompleted {
		return "", fmt.Errorf("%w: upload of %s not completed", common.ErrorNotFound, fileID)
	}

	pc, err := s.getPresignClient(ctx)
	if err != nil {
		return "", fmt.Errorf("presign client: %w", err)
	}
	req, err := presignGetObject(pc, ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.config.S3Bucket),
		Key:    aws.String(f.StorageKey),
	}, s3.WithPresignExpires(s.config.PresignTTL))
	if err != nil {
		return "", fmt.Errorf("presign get: %w", err)
	}
	return req.URL, nil
}
