package filestorage

import (
	"context"
	"path/filepath"

	"niuniq/pkg/config"
)

// DriverMinio selects MinIO storage; any other driver stores on local disk.
const DriverMinio = "minio"

// NewFromConfig builds the storage selected by cfg.Storage.Driver. Local
// storage lives under cfg.Upload.Dir and is served below
// cfg.Server.PublicBaseURL + "/documents".
func NewFromConfig(ctx context.Context, cfg *config.Config) (FileStorageInterface, error) {
	if cfg.Storage.Driver == DriverMinio {
		m := cfg.Storage.Minio
		return NewMinioFileStorage(ctx, MinioConfig{
			Endpoint:  m.Endpoint,
			AccessKey: m.AccessKey,
			SecretKey: m.SecretKey,
			Bucket:    m.Bucket,
			UseSSL:    m.UseSSL,
			PublicURL: m.PublicURL,
		})
	}

	dir, err := filepath.Abs(cfg.Upload.Dir)
	if err != nil {
		return nil, err
	}
	return NewLocalFileStorage(dir, cfg.Server.PublicBaseURL+"/documents")
}
