package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const minioNoSuchKey = "NoSuchKey"

// MinIOConfig holds the connection settings for an S3-compatible bucket.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// MinIOBlobs implements BlobStore with one object per key.
type MinIOBlobs struct {
	client *minio.Client
	bucket string
}

// NewMinIOBlobs connects to the endpoint and creates the bucket when missing.
func NewMinIOBlobs(ctx context.Context, cfg MinIOConfig) (*MinIOBlobs, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("creating minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("checking bucket %q: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("creating bucket %q: %w", cfg.Bucket, err)
		}
	}

	return &MinIOBlobs{client: client, bucket: cfg.Bucket}, nil
}

// Put uploads data under a new key after checking the key is free.
func (s *MinIOBlobs) Put(ctx context.Context, data []byte) (string, error) {
	key := NewBlobKey()

	_, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err == nil {
		return "", fmt.Errorf("%w: %s", ErrBlobExists, key)
	}
	if minio.ToErrorResponse(err).Code != minioNoSuchKey {
		return "", fmt.Errorf("stat blob %q: %w", key, err)
	}

	if err := s.upload(ctx, key, data); err != nil {
		return "", err
	}
	return key, nil
}

// Get downloads the object stored under key.
func (s *MinIOBlobs) Get(ctx context.Context, key string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, s.mapError(key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, s.mapError(key, err)
	}
	return data, nil
}

// Set uploads data under key, replacing any previous object.
func (s *MinIOBlobs) Set(ctx context.Context, key string, data []byte) error {
	return s.upload(ctx, key, data)
}

// Delete removes the object. S3 treats a missing key as success.
func (s *MinIOBlobs) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("removing blob %q: %w", key, err)
	}
	return nil
}

func (s *MinIOBlobs) upload(ctx context.Context, key string, data []byte) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/octet-stream"},
	)
	if err != nil {
		return fmt.Errorf("uploading blob %q: %w", key, err)
	}
	return nil
}

func (s *MinIOBlobs) mapError(key string, err error) error {
	if minio.ToErrorResponse(err).Code == minioNoSuchKey {
		return ErrNotFound
	}
	return fmt.Errorf("reading blob %q: %w", key, err)
}
