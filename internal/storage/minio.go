package storage

import (
	"context"
	"fmt"
	"mime"
	"net"
	"path/filepath"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStore implements ObjectStore on top of a MinIO (or any S3-compatible) backend.
type MinioStore struct {
	client *minio.Client
}

// NewMinioStore creates a MinIO client. No request is made here; connectivity
// problems surface on the first bucket or object call.
// An empty region lets the client look up each bucket's location.
// timeout bounds dialing and waiting for response headers; zero keeps the client defaults.
func NewMinioStore(endpoint, accessKey, secretKey, region string, useSSL bool, timeout time.Duration) (*MinioStore, error) {
	opts := &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
		Region: region,
	}
	if timeout > 0 {
		tr, err := minio.DefaultTransport(useSSL)
		if err != nil {
			return nil, fmt.Errorf("create minio transport: %w", err)
		}
		tr.DialContext = (&net.Dialer{Timeout: timeout, KeepAlive: 30 * time.Second}).DialContext
		tr.ResponseHeaderTimeout = timeout
		opts.Transport = tr
	}

	client, err := minio.New(endpoint, opts)
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}
	return &MinioStore{client: client}, nil
}

// EnsureBucket creates bucket when it is missing.
func (s *MinioStore) EnsureBucket(ctx context.Context, bucket string) error {
	exists, err := s.client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("check bucket existence: %w", err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket %q: %w", bucket, err)
	}
	return nil
}

// PutFile uploads the file at srcPath under name.
func (s *MinioStore) PutFile(ctx context.Context, bucket, name, srcPath string) error {
	_, err := s.client.FPutObject(ctx, bucket, name, srcPath, minio.PutObjectOptions{
		ContentType: contentType(name),
	})
	if err != nil {
		return fmt.Errorf("put object %q: %w", name, err)
	}
	return nil
}

// List collects every object in bucket.
func (s *MinioStore) List(ctx context.Context, bucket string) ([]Object, error) {
	exists, err := s.client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("%w: check bucket %q: %v", ErrListFailed, bucket, err)
	}
	if !exists {
		return []Object{}, nil
	}

	objects := []Object{}
	for info := range s.client.ListObjects(ctx, bucket, minio.ListObjectsOptions{Recursive: true}) {
		if info.Err != nil {
			return nil, fmt.Errorf("%w: bucket %q: %v", ErrListFailed, bucket, info.Err)
		}
		objects = append(objects, Object{Name: info.Key, Size: info.Size})
	}
	return objects, nil
}

// DeleteAll removes every object in bucket using a batched delete. A missing
// bucket is created so it ends up empty but present.
func (s *MinioStore) DeleteAll(ctx context.Context, bucket string) error {
	exists, err := s.client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket %q: %w", bucket, err)
		}
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	listed := s.client.ListObjects(ctx, bucket, minio.ListObjectsOptions{Recursive: true})
	toRemove := make(chan minio.ObjectInfo)
	var listErr error
	go func() {
		defer close(toRemove)
		for info := range listed {
			if info.Err != nil {
				listErr = info.Err
				return
			}
			select {
			case toRemove <- info:
			case <-ctx.Done():
				return
			}
		}
	}()

	var firstErr error
	for rerr := range s.client.RemoveObjects(ctx, bucket, toRemove, minio.RemoveObjectsOptions{}) {
		if firstErr == nil {
			firstErr = fmt.Errorf("remove object %q: %w", rerr.ObjectName, rerr.Err)
		}
	}
	if firstErr != nil {
		return firstErr
	}
	// RemoveObjects has drained toRemove, so the producer has finished.
	if listErr != nil {
		return fmt.Errorf("list objects in %q: %w", bucket, listErr)
	}
	return nil
}

func contentType(name string) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
