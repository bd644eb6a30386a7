package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Fawadali4423/UEMS/internal/domain"
)

// filesystemStore is a domain.ObjectStore backed by a local directory.
// Keys are slash-separated and resolve under the root; stored objects
// are publicly reachable at <baseURL>/storage/<key>.
type filesystemStore struct {
	root    string
	baseURL string
}

// NewFilesystemStore creates the root directory if needed and returns a
// filesystem-backed object store.
func NewFilesystemStore(root, baseURL string) (domain.ObjectStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	return &filesystemStore{
		root:    root,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

// resolve maps a key to a path under root, rejecting traversal outside it.
func (s *filesystemStore) resolve(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("%w: invalid object key %q", domain.ErrInvalidInput, key)
	}
	return filepath.Join(s.root, clean), nil
}

func (s *filesystemStore) Put(_ context.Context, key string, data []byte) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create object directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write object %s: %w", key, err)
	}
	return nil
}

func (s *filesystemStore) Get(_ context.Context, key string) ([]byte, error) {
	path, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("read object %s: %w", key, err)
	}
	return data, nil
}

func (s *filesystemStore) Exists(_ context.Context, key string) (bool, error) {
	path, err := s.resolve(key)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("stat object %s: %w", key, err)
	}
	return true, nil
}

func (s *filesystemStore) Delete(_ context.Context, key string) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}

func (s *filesystemStore) URL(key string) string {
	return s.baseURL + "/storage/" + key
}

// Dir exposes the storage root so the HTTP layer can serve it.
func Dir(store domain.ObjectStore) (string, bool) {
	fs, ok := store.(*filesystemStore)
	if !ok {
		return "", false
	}
	return fs.root, true
}
