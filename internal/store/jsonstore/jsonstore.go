package jsonstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"github.com/idilsaglam/grocery/internal/store"
)

// JSON-backed storage. One human-readable file per key inside a data
// directory. Writes go to a temp file and are renamed into place; a lock
// file keeps two processes from interleaving.

const (
	lockFileName = ".grocery.lock"
	lockTimeout  = 3 * time.Second
	lockRetry    = 100 * time.Millisecond
)

// Store is a directory of <key>.json files.
type Store struct {
	dir  string
	lock *flock.Flock
}

var _ store.Store = (*Store)(nil)

// New opens (and creates if needed) the data directory.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("mkdir: %w", err)
	}
	return &Store{
		dir:  dir,
		lock: flock.New(filepath.Join(dir, lockFileName)),
	}, nil
}

// Dir returns the data directory.
func (s *Store) Dir() string { return s.dir }

func (s *Store) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\.`) {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(s.dir, key+".json"), nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}
	unlock, err := s.acquire(ctx, s.lock.TryRLockContext)
	if err != nil {
		return nil, err
	}
	defer unlock()

	b, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, store.ErrNoKey
		}
		return nil, fmt.Errorf("read file: %w", err)
	}
	return b, nil
}

func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	unlock, err := s.acquire(ctx, s.lock.TryLockContext)
	if err != nil {
		return err
	}
	defer unlock()

	tmp, err := os.CreateTemp(s.dir, filepath.Base(p)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close file: %w", err)
	}
	if err := os.Rename(tmpPath, p); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename file: %w", err)
	}
	return nil
}

// Close releases the lock handle. The lock file itself stays on disk.
func (s *Store) Close() error {
	return s.lock.Close()
}

type tryLockFunc func(ctx context.Context, retryDelay time.Duration) (bool, error)

func (s *Store) acquire(ctx context.Context, try tryLockFunc) (func(), error) {
	ctx, cancel := context.WithTimeout(ctx, lockTimeout)
	defer cancel()

	locked, err := try(ctx, lockRetry)
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !locked {
		return nil, errors.New("could not acquire file lock")
	}
	return func() { _ = s.lock.Unlock() }, nil
}
