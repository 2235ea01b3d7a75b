package storage

import (
	"context"
	"fmt"

	"factory/internal/adapters/storage/gdrive"
	"factory/internal/adapters/storage/localfs"
	"factory/internal/config"
	"factory/internal/googleauth"

	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

func NewUploader(ctx context.Context, cfg config.Config) (Uploader, error) {
	switch cfg.StorageProvider {
	case "localfs":
		if cfg.LocalRoot == "" {
			return nil, fmt.Errorf("STORAGE_LOCAL_ROOT is required for the localfs uploader")
		}
		return localfs.New(cfg.LocalRoot), nil

	case "gdrive":
		httpClient, err := googleauth.NewClient(ctx, cfg, drive.DriveFileScope)
		if err != nil {
			return nil, err
		}
		srv, err := drive.NewService(ctx, option.WithHTTPClient(httpClient))
		if err != nil {
			return nil, err
		}
		return gdrive.NewClient(srv, cfg.DriveFolderID), nil

	default:
		return nil, fmt.Errorf("unknown storage provider: %s", cfg.StorageProvider)
	}
}
