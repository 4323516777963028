package client

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MockStorageClient implements StorageClientInterface for testing without
// AWS credentials
type MockStorageClient struct {
	Bucket   string
	Region   string
	Endpoint string

	// Optional function overrides for custom test behavior
	GenerateFileKeyFunc      func(subTaskID uuid.UUID, fileExt string) string
	GeneratePresignedURLFunc func(ctx context.Context, subTaskID uuid.UUID, fileName, contentType string) (string, string, error)
	UploadFileFunc           func(ctx context.Context, subTaskID uuid.UUID, fileName, contentType string, size int64, file io.Reader) (*FileMetadata, error)
	DeleteFileFunc           func(ctx context.Context, key string) error
	GetFileURLFunc           func(key string) string
}

// NewMockStorageClient creates a new mock storage client for testing
func NewMockStorageClient() *MockStorageClient {
	return &MockStorageClient{
		Bucket: "test-bucket",
		Region: "ap-northeast-2",
	}
}

// GenerateFileKey generates a unique object key
func (m *MockStorageClient) GenerateFileKey(subTaskID uuid.UUID, fileExt string) string {
	if m.GenerateFileKeyFunc != nil {
		return m.GenerateFileKeyFunc(subTaskID, fileExt)
	}
	now := time.Now()
	return fmt.Sprintf("comments/%s/%s/%s/%s_%d%s",
		subTaskID, now.Format("2006"), now.Format("01"), uuid.New(), now.Unix(), fileExt)
}

// GeneratePresignedURL generates a mock presigned URL
func (m *MockStorageClient) GeneratePresignedURL(ctx context.Context, subTaskID uuid.UUID, fileName, contentType string) (string, string, error) {
	if m.GeneratePresignedURLFunc != nil {
		return m.GeneratePresignedURLFunc(ctx, subTaskID, fileName, contentType)
	}

	fileExt := filepath.Ext(fileName)
	if fileExt == "" {
		fileExt = ".bin"
	}
	fileKey := m.GenerateFileKey(subTaskID, fileExt)

	presignedURL := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s?X-Amz-Algorithm=AWS4-HMAC-SHA256&X-Amz-Expires=300&X-Amz-Signature=mocksignature123",
		m.Bucket, m.Region, fileKey)
	return presignedURL, fileKey, nil
}

// UploadFile simulates an upload and returns the metadata a real upload
// would produce
func (m *MockStorageClient) UploadFile(ctx context.Context, subTaskID uuid.UUID, fileName, contentType string, size int64, file io.Reader) (*FileMetadata, error) {
	if m.UploadFileFunc != nil {
		return m.UploadFileFunc(ctx, subTaskID, fileName, contentType, size, file)
	}
	return &FileMetadata{
		Path: m.GenerateFileKey(subTaskID, filepath.Ext(fileName)),
		Name: fileName,
		Type: contentType,
		Size: size,
	}, nil
}

// DeleteFile simulates deletion
func (m *MockStorageClient) DeleteFile(ctx context.Context, key string) error {
	if m.DeleteFileFunc != nil {
		return m.DeleteFileFunc(ctx, key)
	}
	return nil
}

// GetFileURL returns the public URL for an object key
func (m *MockStorageClient) GetFileURL(key string) string {
	if m.GetFileURLFunc != nil {
		return m.GetFileURLFunc(key)
	}
	if m.Endpoint != "" && !strings.Contains(m.Endpoint, "amazonaws.com") {
		return fmt.Sprintf("%s/%s/%s", m.Endpoint, m.Bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", m.Bucket, m.Region, key)
}

// Ensure MockStorageClient implements StorageClientInterface
var _ StorageClientInterface = (*MockStorageClient)(nil)
