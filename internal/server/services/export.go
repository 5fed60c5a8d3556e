package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/notesvault/notesvault/internal/models"
	"github.com/notesvault/notesvault/internal/noteset"
	sc "github.com/notesvault/notesvault/internal/server/config"
	"github.com/notesvault/notesvault/internal/server/repositories/repomanager"
)

// ExportLinkTTL is how long a presigned export link stays usable.
const ExportLinkTTL = 15 * time.Minute

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

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// ExportDocument is the JSON object written to the bucket.
type ExportDocument struct {
	OwnerID    string             `json:"ownerId"`
	ExportedAt time.Time          `json:"exportedAt"`
	Notes      []models.Note      `json:"notes"`
	Tags       []noteset.TagCount `json:"tags"`
}

// ExportResult tells the caller where the export went.
type ExportResult struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ExportService snapshots a user's notes into S3-compatible object storage.
type ExportService struct {
	repomanager repomanager.RepositoryManager
	config      *sc.Config
}

func NewExportService(m repomanager.RepositoryManager, cfg *sc.Config) *ExportService {
	return &ExportService{repomanager: m, config: cfg}
}

// ExportKey names the object for an export made by ownerID at t.
func ExportKey(ownerID string, t time.Time) string {
	return fmt.Sprintf("exports/%s/%d-%s.json", ownerID, t.Unix(), uuid.New())
}

func (s *ExportService) getClients(ctx context.Context) (*s3.Client, *s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if s.config.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return client, newS3PresignClient(client), nil
}

// Export uploads all of the owner's notes and returns a presigned GET link
// to the uploaded document.
func (s *ExportService) Export(ctx context.Context, ownerID string) (*ExportResult, error) {
	notes, err := s.repomanager.Notes().Find(ctx, ownerID, nil)
	if err != nil {
		return nil, storeError("list notes", err)
	}

	now := time.Now().UTC()
	body, err := json.Marshal(ExportDocument{
		OwnerID:    ownerID,
		ExportedAt: now,
		Notes:      notes,
		Tags:       noteset.AggregateTags(notes),
	})
	if err != nil {
		return nil, internalError("encode export", err)
	}

	client, presignClient, err := s.getClients(ctx)
	if err != nil {
		return nil, internalError("s3 config", err)
	}

	bucket := s.config.S3Bucket
	key := ExportKey(ownerID, now)

	_, err = putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return nil, internalError("upload export", err)
	}

	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(ExportLinkTTL))
	if err != nil {
		return nil, internalError("presign export", err)
	}

	return &ExportResult{Key: key, URL: req.URL, ExpiresAt: now.Add(ExportLinkTTL)}, nil
}
