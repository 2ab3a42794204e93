// Package upload accepts token-gated image uploads and exposes them over HTTP.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/collage/service/internal/admission"
	"github.com/collage/service/internal/storage"
)

const defaultExtension = "jpg"

// ErrNoImage is returned when the request carries no image.
var ErrNoImage = errors.New("no image provided")

// ErrFileTooLarge is returned when the image exceeds the configured limit.
var ErrFileTooLarge = errors.New("file too large")

// ErrInvalidFileType is returned when the image extension is not allowed.
var ErrInvalidFileType = errors.New("invalid file type")

// ErrStorage is returned when the image could not be stored in any backend.
var ErrStorage = errors.New("upload to storage failed")

// ImageStore is the storage surface the service depends on.
type ImageStore interface {
	UploadImage(ctx context.Context, bucket, name, srcPath string) (storage.Outcome, error)
	ListImages(ctx context.Context, bucket string) ([]storage.Object, error)
	DeleteAllImages(ctx context.Context, bucket string) error
	Mode() storage.Mode
}

// Options configures a Service.
type Options struct {
	Bucket            string
	TempDir           string
	MaxBytes          int64
	AllowedExtensions []string
}

// Service gates uploads behind single-use tokens.
type Service struct {
	// resetMu is held shared by uploads and exclusively by Reset, so a reset
	// never interleaves with an upload between reservation and MarkUsed.
	resetMu sync.RWMutex
	tokens  *admission.Controller
	store   ImageStore
	bucket  string
	tempDir string
	maxSize int64
	allowed map[string]bool
}

// NewService creates a Service and makes sure the temp directory exists.
func NewService(tokens *admission.Controller, store ImageStore, opts Options) (*Service, error) {
	if err := os.MkdirAll(opts.TempDir, 0o755); err != nil {
		return nil, fmt.Errorf("create temp dir %q: %w", opts.TempDir, err)
	}
	allowed := make(map[string]bool, len(opts.AllowedExtensions))
	for _, ext := range opts.AllowedExtensions {
		allowed[strings.ToLower(strings.TrimPrefix(ext, "."))] = true
	}
	return &Service{
		tokens:  tokens,
		store:   store,
		bucket:  opts.Bucket,
		tempDir: opts.TempDir,
		maxSize: opts.MaxBytes,
		allowed: allowed,
	}, nil
}

// IssueToken hands out a fresh upload token.
func (s *Service) IssueToken() admission.Token {
	return s.tokens.Issue()
}

// Upload stores body as a new image if token admits it. The token is consumed
// only when storage succeeds; on any failure it stays usable.
func (s *Service) Upload(ctx context.Context, token, filename string, body io.Reader) (storage.Object, error) {
	s.resetMu.RLock()
	defer s.resetMu.RUnlock()

	if err := s.tokens.Reserve(token); err != nil {
		return storage.Object{}, err
	}

	obj, err := s.save(ctx, filename, body)
	if err != nil {
		s.tokens.Release(token)
		return storage.Object{}, err
	}

	s.tokens.MarkUsed(token)
	return obj, nil
}

func (s *Service) save(ctx context.Context, filename string, body io.Reader) (storage.Object, error) {
	if body == nil {
		return storage.Object{}, ErrNoImage
	}

	ext := extension(filename)
	if !s.allowed[ext] {
		return storage.Object{}, fmt.Errorf("%w: %s", ErrInvalidFileType, ext)
	}

	name := uuid.NewString() + "." + ext
	tempPath, size, err := s.writeTemp(name, body)
	if tempPath != "" {
		defer removeTemp(tempPath)
	}
	if err != nil {
		return storage.Object{}, err
	}

	outcome, err := s.store.UploadImage(ctx, s.bucket, name, tempPath)
	if err != nil {
		return storage.Object{}, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if outcome == storage.OutcomeRecovered {
		log.Printf("upload: %s stored locally after networked failure", name)
	}
	return storage.Object{Name: name, Size: size}, nil
}

// writeTemp copies at most maxSize bytes of body into the temp directory.
// The returned path must be removed by the caller whenever it is non-empty.
func (s *Service) writeTemp(name string, body io.Reader) (string, int64, error) {
	f, err := os.CreateTemp(s.tempDir, "*-"+name)
	if err != nil {
		return "", 0, fmt.Errorf("create temp file: %w", err)
	}
	path := f.Name()

	n, err := io.Copy(f, io.LimitReader(body, s.maxSize+1))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return path, 0, fmt.Errorf("save temp file: %w", err)
	}
	if n > s.maxSize {
		return path, 0, fmt.Errorf("%w: maximum size is %d bytes", ErrFileTooLarge, s.maxSize)
	}
	return path, n, nil
}

func removeTemp(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("upload: failed to remove temp file %s: %v", path, err)
	}
}

// extension returns the lower-cased text after the last dot. Names without a
// dot default to jpg; a trailing dot yields the empty extension.
func extension(filename string) string {
	base := filepath.Base(filename)
	i := strings.LastIndex(base, ".")
	if filename == "" || i < 0 {
		return defaultExtension
	}
	return strings.ToLower(base[i+1:])
}

// ListImages returns a snapshot of every stored image.
func (s *Service) ListImages(ctx context.Context) ([]storage.Object, error) {
	return s.store.ListImages(ctx, s.bucket)
}

// Reset deletes every stored image and then discards all tokens. It waits for
// uploads already in progress, so their images are deleted too.
// Tokens are kept when the delete fails so the reset can be retried.
func (s *Service) Reset(ctx context.Context) error {
	s.resetMu.Lock()
	defer s.resetMu.Unlock()

	if err := s.store.DeleteAllImages(ctx, s.bucket); err != nil {
		return fmt.Errorf("delete all images: %w", err)
	}
	s.tokens.ClearAll()
	return nil
}

// StorageMode reports which backend currently serves images.
func (s *Service) StorageMode() storage.Mode {
	return s.store.Mode()
}
