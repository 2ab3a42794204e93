// Package storage defines the object storage backends used for uploaded images.
// The networked backend works with any S3-compatible provider (MinIO, AWS S3);
// the local backend mirrors the bucket/object layout on disk and takes over
// for the rest of the process once the networked store fails.
package storage

import (
	"context"
	"errors"
)

// ErrListFailed is returned when a bucket could not be enumerated.
var ErrListFailed = errors.New("list objects failed")

// Object is a stored blob as seen by callers, regardless of backend.
type Object struct {
	Name string `json:"name" example:"0b6f1c3e-5f0e-4c59-a4a1-6f1fd3c5d3a2.jpg"`
	Size int64  `json:"size" example:"482133"`
}

// ObjectStore is implemented by every concrete backend.
type ObjectStore interface {
	// EnsureBucket creates the bucket if it does not exist.
	EnsureBucket(ctx context.Context, bucket string) error
	// PutFile stores the file at srcPath under name.
	PutFile(ctx context.Context, bucket, name, srcPath string) error
	// List returns a snapshot of the bucket. A missing bucket yields no objects.
	List(ctx context.Context, bucket string) ([]Object, error)
	// DeleteAll empties the bucket, leaving it in place.
	DeleteAll(ctx context.Context, bucket string) error
}
