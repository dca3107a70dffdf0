package minio_storage

import (
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
)

// CertificateStorage keeps rendered certificate documents in a dedicated bucket
// under the certificates/ namespace, keyed by certificate number.
type CertificateStorage struct {
	storage *MinioStorage
	bucket  string
}

func NewCertificateStorage(storage *MinioStorage, bucketName string) (*CertificateStorage, error) {
	if err := storage.ensureBucket(context.Background(), bucketName); err != nil {
		return nil, err
	}
	return &CertificateStorage{storage: storage, bucket: bucketName}, nil
}

// Upload stores the local file and returns its durable retrieval URL.
func (s *CertificateStorage) Upload(ctx context.Context, localPath, certificateNumber string) (string, error) {
	objectKey := fmt.Sprintf("certificates/%s.pdf", certificateNumber)

	_, err := s.storage.client.FPutObject(
		ctx,
		s.bucket,
		objectKey,
		localPath,
		minio.PutObjectOptions{ContentType: "application/pdf"},
	)
	if err != nil {
		return "", fmt.Errorf("failed to upload certificate: %w", err)
	}

	return fmt.Sprintf("%s/%s/%s", s.storage.client.EndpointURL(), s.bucket, objectKey), nil
}

// Remove deletes an uploaded artifact, used to compensate when record
// persistence fails after a successful upload.
func (s *CertificateStorage) Remove(ctx context.Context, certificateNumber string) error {
	objectKey := fmt.Sprintf("certificates/%s.pdf", certificateNumber)
	return s.storage.client.RemoveObject(ctx, s.bucket, objectKey, minio.RemoveObjectOptions{})
}
