// Package storage wraps the MinIO object store used for binary media.
// Listing images and avatars live in the public bucket and are served by
// stable public URLs; identity documents live in the private bucket and are
// returned only as time-limited presigned URLs.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/iliyamo/homestay-booking/internal/config"
)

// PresignTTL bounds how long an identity-document link stays valid.
const PresignTTL = 15 * time.Minute

// ObjectStore holds the MinIO client and the two bucket names.
type ObjectStore struct {
	client  *minio.Client
	public  string
	private string
}

// New connects to the object store and ensures both buckets exist. Returns
// nil (not an error) when no endpoint is configured so callers can degrade
// by rejecting upload requests instead of refusing to start.
func New(cfg config.StorageConfig) (*ObjectStore, error) {
	if cfg.Endpoint == "" {
		return nil, nil
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client for %s: %w", cfg.Endpoint, err)
	}
	s := &ObjectStore{client: client, public: cfg.PublicBucket, private: cfg.PrivateBucket}
	for _, bucket := range []string{cfg.PublicBucket, cfg.PrivateBucket} {
		if err := ensureBucket(client, bucket); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func ensureBucket(client *minio.Client, bucket string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{})
	if err != nil {
		exists, checkErr := client.BucketExists(ctx, bucket)
		if checkErr == nil && exists {
			return nil
		}
		return fmt.Errorf("make/verify bucket %s: %w", bucket, err)
	}
	return nil
}

// UploadPublic stores listing media or an avatar and returns its public URL.
// The object key is a UUID preserving the original file extension.
func (s *ObjectStore) UploadPublic(ctx context.Context, prefix, fileName, contentType string, r io.Reader, size int64) (string, error) {
	key := fmt.Sprintf("%s/%s%s", prefix, uuid.NewString(), filepath.Ext(fileName))
	_, err := s.client.PutObject(ctx, s.public, key, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return fmt.Sprintf("%s/%s/%s", s.client.EndpointURL().String(), s.public, key), nil
}

// UploadIdentityDocument stores an identity document in the private bucket
// and returns its object key. The key, not a URL, is persisted; retrieval
// always goes through PresignIdentityDocument.
func (s *ObjectStore) UploadIdentityDocument(ctx context.Context, userID uint64, fileName, contentType string, r io.Reader, size int64) (string, error) {
	key := fmt.Sprintf("identity/%d/%s%s", userID, uuid.NewString(), filepath.Ext(fileName))
	_, err := s.client.PutObject(ctx, s.private, key, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return key, nil
}

// PresignIdentityDocument returns a time-limited GET URL for a private
// identity document.
func (s *ObjectStore) PresignIdentityDocument(ctx context.Context, key string) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.private, key, PresignTTL, url.Values{})
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", key, err)
	}
	return u.String(), nil
}
