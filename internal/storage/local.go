package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore keeps objects under <root>/<bucket>/<name>.
type LocalStore struct {
	root string
}

// NewLocalStore creates root if needed and returns a store rooted there.
func NewLocalStore(root string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create local storage dir %q: %w", root, err)
	}
	return &LocalStore{root: root}, nil
}

// Root returns the directory holding all local buckets.
func (s *LocalStore) Root() string {
	return s.root
}

func (s *LocalStore) bucketDir(bucket string) string {
	return filepath.Join(s.root, filepath.Base(bucket))
}

// EnsureBucket creates the bucket directory.
func (s *LocalStore) EnsureBucket(_ context.Context, bucket string) error {
	if err := os.MkdirAll(s.bucketDir(bucket), 0o755); err != nil {
		return fmt.Errorf("create bucket dir %q: %w", bucket, err)
	}
	return nil
}

// PutFile copies srcPath into the bucket. The copy is written to a hidden
// temporary file and renamed into place so List never sees a partial object.
func (s *LocalStore) PutFile(ctx context.Context, bucket, name, srcPath string) error {
	if err := s.EnsureBucket(ctx, bucket); err != nil {
		return err
	}
	dir := s.bucketDir(bucket)

	src, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("open source %q: %w", srcPath, err)
	}
	defer src.Close()

	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp object: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("copy object %q: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close object %q: %w", name, err)
	}
	if err := os.Rename(tmpName, filepath.Join(dir, filepath.Base(name))); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("store object %q: %w", name, err)
	}
	return nil
}

// List returns every regular, non-hidden file in the bucket directory.
func (s *LocalStore) List(_ context.Context, bucket string) ([]Object, error) {
	entries, err := os.ReadDir(s.bucketDir(bucket))
	if errors.Is(err, fs.ErrNotExist) {
		return []Object{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read bucket dir %q: %v", ErrListFailed, bucket, err)
	}

	objects := make([]Object, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		info, err := e.Info()
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%w: stat %q: %v", ErrListFailed, e.Name(), err)
		}
		objects = append(objects, Object{Name: e.Name(), Size: info.Size()})
	}
	return objects, nil
}

// DeleteAll drops the bucket directory with everything in it and recreates it empty.
func (s *LocalStore) DeleteAll(_ context.Context, bucket string) error {
	dir := s.bucketDir(bucket)
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("remove bucket dir %q: %w", bucket, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("recreate bucket dir %q: %w", bucket, err)
	}
	return nil
}
