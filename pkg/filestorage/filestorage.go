package filestorage

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FileStorageInterface stores uploaded media. Save returns a storage-relative
// key; URL turns a key into the public URL clients receive. Delete accepts
// either form.
type FileStorageInterface interface {
	Save(ctx context.Context, file io.Reader, originalFileName string, prefix string) (key string, err error)
	Delete(ctx context.Context, keyOrURL string) error
	URL(key string) string
}

// objectKey builds "<prefix>/YYYY/MM/DD/YYYY-MM-DD-<uuid><ext>".
func objectKey(now time.Time, originalFileName, prefix string) string {
	ext := strings.ToLower(filepath.Ext(originalFileName))
	uniqueFileName := fmt.Sprintf("%s-%s%s", now.Format("2006-01-02"), uuid.New().String(), ext)
	return path.Join(strings.Trim(prefix, "/"), now.Format("2006/01/02"), uniqueFileName)
}

// keyFromURL strips publicBase from a URL produced by URL. Plain keys pass
// through unchanged.
func keyFromURL(publicBase, keyOrURL string) string {
	if publicBase != "" && strings.HasPrefix(keyOrURL, publicBase) {
		keyOrURL = strings.TrimPrefix(keyOrURL, publicBase)
	}
	return strings.TrimLeft(keyOrURL, "/")
}

func joinURL(publicBase, key string) string {
	if key == "" {
		return ""
	}
	return strings.TrimRight(publicBase, "/") + "/" + strings.TrimLeft(key, "/")
}
