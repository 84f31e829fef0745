package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const localURLPrefix = "/uploads"

// LocalStore keeps blobs in a directory on disk and hands out /uploads paths.
type LocalStore struct {
	dir string
}

func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

func (s *LocalStore) Save(ctx context.Context, name string, r io.Reader) (string, error) {
	// random prefix so concurrent uploads with the same filename never collide
	filename := uuid.New().String() + strings.ToLower(filepath.Ext(name))

	f, err := os.Create(filepath.Join(s.dir, filename))
	if err != nil {
		return "", fmt.Errorf("create blob file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("write blob: %w", err)
	}

	return path.Join(localURLPrefix, filename), nil
}

func (s *LocalStore) Delete(ctx context.Context, blobPath string) error {
	err := os.Remove(s.resolve(blobPath))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (s *LocalStore) Exists(ctx context.Context, blobPath string) (bool, error) {
	_, err := os.Stat(s.resolve(blobPath))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// resolve maps a stored /uploads path back to the file on disk. Base only, so
// a crafted path can never escape the upload dir.
func (s *LocalStore) resolve(blobPath string) string {
	return filepath.Join(s.dir, filepath.Base(blobPath))
}
