package filestorage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type LocalFileStorage struct {
	basePath   string
	publicBase string
	now        func() time.Time
}

// NewLocalFileStorage stores files under basePath; publicBase is the URL the
// directory is served at (for example http://host/documents).
func NewLocalFileStorage(basePath, publicBase string) (FileStorageInterface, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &LocalFileStorage{basePath: basePath, publicBase: strings.TrimRight(publicBase, "/"), now: time.Now}, nil
}

func (s *LocalFileStorage) Save(ctx context.Context, file io.Reader, originalFileName string, prefix string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	key := objectKey(s.now(), originalFileName, prefix)
	fullPath := filepath.Join(s.basePath, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", err
	}

	dst, err := os.Create(fullPath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err = io.Copy(dst, file); err != nil {
		_ = os.Remove(fullPath)
		return "", err
	}
	return key, nil
}

// Delete treats a missing file as already deleted. Keys escaping basePath are
// rejected.
func (s *LocalFileStorage) Delete(_ context.Context, keyOrURL string) error {
	key := keyFromURL(s.publicBase, keyOrURL)
	if key == "" {
		return nil
	}
	fullPath := filepath.Join(s.basePath, filepath.FromSlash(key))
	rel, err := filepath.Rel(s.basePath, fullPath)
	if err != nil || strings.HasPrefix(rel, "..") {
		return fmt.Errorf("refusing to delete %q outside storage root", keyOrURL)
	}

	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *LocalFileStorage) URL(key string) string {
	return joinURL(s.publicBase, key)
}
