package qart

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Store implements Store on MinIO or any S3-compatible service.
type S3Store struct {
	client *minio.Client
	bucket string
	region string
}

// S3Config holds connection settings for S3-compatible storage.
type S3Config struct {
	Endpoint  string // host:port, e.g. "localhost:9000"
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

// NewS3Store creates an S3Store. It does not contact the service.
func NewS3Store(cfg S3Config) (*S3Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create s3 client for %s: %w", cfg.Endpoint, err)
	}

	return &S3Store{
		client: client,
		bucket: cfg.Bucket,
		region: cfg.Region,
	}, nil
}

// Bucket returns the bucket objects are stored in.
func (s *S3Store) Bucket() string {
	return s.bucket
}

func (s *S3Store) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region})
}

func (s *S3Store) Upload(ctx context.Context, key string, reader io.Reader, contentType string, metadata map[string]string) (*Object, error) {
	info, err := s.client.PutObject(ctx, s.bucket, key, reader, -1, minio.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: metadata,
	})
	if err != nil {
		return nil, err
	}

	return &Object{
		Key:          info.Key,
		Bucket:       info.Bucket,
		Size:         info.Size,
		ContentType:  contentType,
		LastModified: time.Now(),
		Metadata:     metadata,
	}, nil
}

func (s *S3Store) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}

	// GetObject is lazy; Stat surfaces a missing key.
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, fmt.Errorf("%s: %w", key, ErrNotFound)
		}
		return nil, err
	}
	return obj, nil
}

func (s *S3Store) List(ctx context.Context, prefix string) ([]*Object, error) {
	var objects []*Object
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		objects = append(objects, &Object{
			Key:          obj.Key,
			Bucket:       s.bucket,
			Size:         obj.Size,
			ContentType:  obj.ContentType,
			LastModified: obj.LastModified,
		})
	}
	return objects, nil
}

func (s *S3Store) Delete(ctx context.Context, key string) error {
	return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}

var _ Store = (*S3Store)(nil)
