package client

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	appConfig "task-board-api/internal/config"
	"task-board-api/internal/metrics"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// FileMetadata is what an upload returns. Comment rows store these fields
// verbatim; the object itself lives in the bucket.
type FileMetadata struct {
	Path string `json:"path"`
	Name string `json:"name"`
	Type string `json:"type"`
	Size int64  `json:"size"`
}

// StorageClientInterface defines the interface for object storage operations
type StorageClientInterface interface {
	GenerateFileKey(subTaskID uuid.UUID, fileExt string) string
	GeneratePresignedURL(ctx context.Context, subTaskID uuid.UUID, fileName, contentType string) (string, string, error)
	UploadFile(ctx context.Context, subTaskID uuid.UUID, fileName, contentType string, size int64, file io.Reader) (*FileMetadata, error)
	DeleteFile(ctx context.Context, key string) error
	GetFileURL(key string) string
}

// StorageClient wraps the AWS S3 client for comment attachments. It also
// talks to any S3-compatible endpoint such as MinIO in local development.
type StorageClient struct {
	client        *s3.Client
	presignClient *s3.PresignClient
	bucket        string
	region        string
	endpoint      string
	metrics       *metrics.Metrics
}

// SetMetrics attaches the metrics instance so S3 calls show up as external
// API metrics. Safe to skip; recording is nil-guarded.
func (c *StorageClient) SetMetrics(m *metrics.Metrics) {
	c.metrics = m
}

func (c *StorageClient) recordCall(operation, method string, start time.Time, err error) {
	if c.metrics == nil {
		return
	}
	statusCode := 200
	if err != nil {
		statusCode = 500
	}
	c.metrics.RecordExternalAPICall("s3/"+operation, method, statusCode, time.Since(start), err)
}

// NewStorageClient creates a new storage client
func NewStorageClient(cfg *appConfig.StorageConfig) (*StorageClient, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("storage bucket is required")
	}
	if cfg.Region == "" {
		return nil, fmt.Errorf("storage region is required")
	}

	var awsCfg aws.Config
	var err error

	if cfg.Endpoint != "" {
		// Custom endpoints (MinIO) need explicit credentials
		if cfg.AccessKey == "" || cfg.SecretKey == "" {
			return nil, fmt.Errorf("access key and secret key are required for a custom endpoint")
		}
		awsCfg, err = config.LoadDefaultConfig(context.TODO(),
			config.WithRegion(cfg.Region),
			config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				cfg.AccessKey,
				cfg.SecretKey,
				"",
			)),
			config.WithEndpointResolverWithOptions(aws.EndpointResolverWithOptionsFunc(
				func(service, region string, options ...interface{}) (aws.Endpoint, error) {
					return aws.Endpoint{
						URL:               cfg.Endpoint,
						HostnameImmutable: true,
						SigningRegion:     cfg.Region,
					}, nil
				},
			)),
		)
	} else {
		// Default credential chain: IAM role on EC2, ~/.aws/credentials locally
		awsCfg, err = config.LoadDefaultConfig(context.TODO(),
			config.WithRegion(cfg.Region),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.UsePathStyle = true // Required for MinIO
		}
	})

	return &StorageClient{
		client:        s3Client,
		presignClient: s3.NewPresignClient(s3Client),
		bucket:        cfg.Bucket,
		region:        cfg.Region,
		endpoint:      cfg.Endpoint,
	}, nil
}

// GenerateFileKey generates a unique object key for a comment attachment.
// Format: comments/{subTaskId}/{year}/{month}/{uuid}_{timestamp}{ext}
func (c *StorageClient) GenerateFileKey(subTaskID uuid.UUID, fileExt string) string {
	now := time.Now()
	return fmt.Sprintf("comments/%s/%s/%s/%s_%d%s",
		subTaskID, now.Format("2006"), now.Format("01"), uuid.New(), now.Unix(), fileExt)
}

// GeneratePresignedURL generates a presigned PUT URL for uploading an
// attachment directly from the browser. The URL expires in 5 minutes.
// Returns the URL and the object key the client must echo back when
// creating the comment.
func (c *StorageClient) GeneratePresignedURL(ctx context.Context, subTaskID uuid.UUID, fileName, contentType string) (string, string, error) {
	fileKey := c.GenerateFileKey(subTaskID, filepath.Ext(fileName))

	start := time.Now()
	presignedReq, err := c.presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(fileKey),
		ContentType: aws.String(contentType),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = 5 * time.Minute
	})
	c.recordCall("presign", "PUT", start, err)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return presignedReq.URL, fileKey, nil
}

// UploadFile uploads an attachment and returns the metadata the comment
// row stores
func (c *StorageClient) UploadFile(ctx context.Context, subTaskID uuid.UUID, fileName, contentType string, size int64, file io.Reader) (*FileMetadata, error) {
	key := c.GenerateFileKey(subTaskID, filepath.Ext(fileName))

	start := time.Now()
	_, err := c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String(contentType),
	})
	c.recordCall("put-object", "PUT", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to upload file: %w", err)
	}

	return &FileMetadata{
		Path: key,
		Name: fileName,
		Type: contentType,
		Size: size,
	}, nil
}

// DeleteFile deletes an attachment object
func (c *StorageClient) DeleteFile(ctx context.Context, key string) error {
	start := time.Now()
	_, err := c.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	c.recordCall("delete-object", "DELETE", start, err)
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// GetFileURL returns the downloadable URL for an object key
func (c *StorageClient) GetFileURL(key string) string {
	if c.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(c.endpoint, "/"), c.bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", c.bucket, c.region, key)
}
