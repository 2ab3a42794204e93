package storage

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
)

// Mode reports which backend Storage is currently serving from.
type Mode int

const (
	ModeNetworked Mode = iota
	ModeLocalFallback
)

func (m Mode) String() string {
	if m == ModeLocalFallback {
		return "local-fallback"
	}
	return "networked"
}

// Outcome classifies the result of a write.
type Outcome int

const (
	// OutcomeOK means the write landed in the backend of the current mode.
	OutcomeOK Outcome = iota
	// OutcomeRecovered means the networked store failed and the write landed on local disk.
	OutcomeRecovered
	// OutcomeFailed means no backend accepted the write.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeRecovered:
		return "recovered"
	default:
		return "failed"
	}
}

// Storage serves from the networked store until its first failure, then from
// local disk for the rest of the process. The switch is never undone.
type Storage struct {
	remote   ObjectStore
	local    *LocalStore
	fallback atomic.Bool
}

// New returns a Storage in networked mode. A nil remote starts it in local-fallback mode.
func New(remote ObjectStore, local *LocalStore) *Storage {
	s := &Storage{remote: remote, local: local}
	if remote == nil {
		s.fallback.Store(true)
		log.Printf("storage: no networked store configured, using local storage at %q", local.Root())
	}
	return s
}

// Mode returns the current backend mode.
func (s *Storage) Mode() Mode {
	if s.fallback.Load() {
		return ModeLocalFallback
	}
	return ModeNetworked
}

// engageFallback flips the latch. Only the first caller logs the transition.
func (s *Storage) engageFallback(cause error) {
	if s.fallback.CompareAndSwap(false, true) {
		log.Printf("storage: networked store failed (%v), falling back to local storage at %q", cause, s.local.Root())
	}
}

// EnsureBucketExists makes sure some backend has bucket ready. A networked
// failure engages the fallback; only a local failure or a cancelled ctx is returned.
func (s *Storage) EnsureBucketExists(ctx context.Context, bucket string) error {
	if !s.fallback.Load() {
		err := s.remote.EnsureBucket(ctx, bucket)
		if err == nil {
			log.Printf("storage: bucket %q ready", bucket)
			return nil
		}
		if ctx.Err() != nil {
			return fmt.Errorf("ensure bucket %q: %w", bucket, ctx.Err())
		}
		s.engageFallback(err)
	}

	if err := s.local.EnsureBucket(ctx, bucket); err != nil {
		return err
	}
	log.Printf("storage: local bucket %q ready", bucket)
	return nil
}

// UploadImage stores the file at srcPath as name in bucket. In networked mode
// a failed put engages the fallback and is retried once on local disk, unless
// the failure came from ctx being cancelled.
func (s *Storage) UploadImage(ctx context.Context, bucket, name, srcPath string) (Outcome, error) {
	if s.fallback.Load() {
		if err := s.local.PutFile(ctx, bucket, name, srcPath); err != nil {
			log.Printf("storage: local upload of %q failed: %v", name, err)
			return OutcomeFailed, err
		}
		log.Printf("storage: uploaded %q to local storage", name)
		return OutcomeOK, nil
	}

	remoteErr := s.remote.PutFile(ctx, bucket, name, srcPath)
	if remoteErr == nil {
		log.Printf("storage: uploaded %q", name)
		return OutcomeOK, nil
	}
	// A caller that gave up says nothing about the networked store.
	if ctx.Err() != nil {
		log.Printf("storage: upload of %q abandoned: %v", name, ctx.Err())
		return OutcomeFailed, remoteErr
	}
	s.engageFallback(remoteErr)

	if err := s.local.PutFile(ctx, bucket, name, srcPath); err != nil {
		log.Printf("storage: local retry of %q failed: %v", name, err)
		return OutcomeFailed, fmt.Errorf("networked: %v; local: %w", remoteErr, err)
	}
	log.Printf("storage: uploaded %q to local storage after networked failure", name)
	return OutcomeRecovered, nil
}

// ListImages returns a snapshot of bucket from the current backend.
func (s *Storage) ListImages(ctx context.Context, bucket string) ([]Object, error) {
	backend := s.current()
	objects, err := backend.List(ctx, bucket)
	if err != nil {
		log.Printf("storage: list %q failed: %v", bucket, err)
		return nil, err
	}
	log.Printf("storage: found %d images in %q (%s)", len(objects), bucket, s.Mode())
	return objects, nil
}

// DeleteAllImages empties bucket in the current backend.
func (s *Storage) DeleteAllImages(ctx context.Context, bucket string) error {
	if err := s.current().DeleteAll(ctx, bucket); err != nil {
		log.Printf("storage: delete all in %q failed: %v", bucket, err)
		return err
	}
	log.Printf("storage: deleted all images from %q (%s)", bucket, s.Mode())
	return nil
}

func (s *Storage) current() ObjectStore {
	if s.fallback.Load() {
		return s.local
	}
	return s.remote
}
