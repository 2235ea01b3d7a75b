package rowstore

import (
	"context"
	"fmt"

	"factory/internal/adapters/rowstore/gsheets"
	"factory/internal/adapters/rowstore/xlsx"
	"factory/internal/config"
	"factory/internal/googleauth"
	"factory/internal/ports"

	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"
)

// Store is the tracking sheet contract shared by the sweep and the server.
type Store = ports.RowStore

func NewStore(ctx context.Context, cfg config.Config) (Store, error) {
	switch cfg.RowStoreProvider {
	case "gsheets":
		if cfg.SheetID == "" {
			return nil, fmt.Errorf("GOOGLE_SHEET_ID is required for the gsheets row store")
		}
		httpClient, err := googleauth.NewClient(ctx, cfg, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, err
		}
		srv, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
		if err != nil {
			return nil, err
		}
		return gsheets.New(srv, cfg.SheetID, cfg.SheetName), nil

	case "xlsx":
		if cfg.XLSXPath == "" {
			return nil, fmt.Errorf("ROW_STORE_XLSX_PATH is required for the xlsx row store")
		}
		return xlsx.New(cfg.XLSXPath, cfg.SheetName), nil

	default:
		return nil, fmt.Errorf("unknown row store provider: %s", cfg.RowStoreProvider)
	}
}
