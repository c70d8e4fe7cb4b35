package services

import (
	"context"
	"fmt"
	"mime/multipart"

	"go.uber.org/zap"

	"niuniq/config"
	"niuniq/pkg/filestorage"
)

// saveUpload stores an already validated upload and returns its public URL.
func saveUpload(ctx context.Context, storage filestorage.FileStorageInterface, fh *multipart.FileHeader, uploadContext string) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload %s: %w", fh.Filename, err)
	}
	defer f.Close()

	key, err := storage.Save(ctx, f, fh.Filename, config.UploadContexts[uploadContext].PathPrefix)
	if err != nil {
		return "", fmt.Errorf("save upload %s: %w", fh.Filename, err)
	}
	return storage.URL(key), nil
}

func saveUploads(ctx context.Context, storage filestorage.FileStorageInterface, headers []*multipart.FileHeader, uploadContext string) ([]string, error) {
	urls := make([]string, 0, len(headers))
	for _, fh := range headers {
		url, err := saveUpload(ctx, storage, fh, uploadContext)
		if err != nil {
			return urls, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

// removeMedia deletes stored files. Failures are logged, not returned: the
// database row is already gone or replaced.
func removeMedia(ctx context.Context, storage filestorage.FileStorageInterface, logger *zap.Logger, urls ...string) {
	for _, url := range urls {
		if url == "" {
			continue
		}
		if err := storage.Delete(ctx, url); err != nil {
			logger.Warn("failed to remove media", zap.String("url", url), zap.Error(err))
		}
	}
}
